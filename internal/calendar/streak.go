package calendar

import "time"

// Streak counts consecutive days with at least one submission, walking back
// from today. A day without submissions yet does not break a streak that ran
// through yesterday.
func Streak(c Calendar, today time.Time) int {
	day := Midnight(today)
	if c.Count(day) <= 0 {
		day = day.AddDate(0, 0, -1)
	}
	n := 0
	for c.Count(day) > 0 {
		n++
		day = day.AddDate(0, 0, -1)
	}
	return n
}

// ActiveDays counts the days in [from, to] with at least one submission.
func ActiveDays(c Calendar, from, to time.Time) int {
	n := 0
	for day, end := Midnight(from), Midnight(to); !day.After(end); day = day.AddDate(0, 0, 1) {
		if c.Count(day) > 0 {
			n++
		}
	}
	return n
}

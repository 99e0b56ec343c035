package heatmap

import (
	"encoding/json"
	"time"

	"github.com/fchimpan/leetboard/internal/calendar"
)

// WindowDays is the number of days covered by a grid, today included.
const WindowDays = 365

// Cell is one slot of a week column: either a Day or an Empty placeholder.
type Cell interface {
	isCell()
}

// Day is a real calendar day inside the window.
type Day struct {
	Date  time.Time
	Count int
	Level int
}

// Empty pads the first week so that every Day sits in its weekday row.
// It never carries a count.
type Empty struct{}

func (Day) isCell()   {}
func (Empty) isCell() {}

func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date  string `json:"date"`
		Count int    `json:"count"`
		Level int    `json:"level"`
	}{
		Date:  d.Date.Format(time.DateOnly),
		Count: d.Count,
		Level: d.Level,
	})
}

func (Empty) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// Week is a Sunday-first column of cells (index 0 = Sunday .. 6 = Saturday).
// Every week holds 7 cells except possibly the last one, which ends at today.
type Week []Cell

// FirstDay returns the first non-placeholder cell of the week.
func (w Week) FirstDay() (Day, bool) {
	for _, c := range w {
		if d, ok := c.(Day); ok {
			return d, true
		}
	}
	return Day{}, false
}

// MonthLabel anchors a month name to the first week column whose first real
// day falls in that month. Span counts the columns up to the next label.
type MonthLabel struct {
	Name string `json:"name"`
	Week int    `json:"week"`
	Span int    `json:"span"`
}

type Grid struct {
	Start      time.Time    `json:"start"`
	End        time.Time    `json:"end"`
	Weeks      []Week       `json:"weeks"`
	Months     []MonthLabel `json:"months"`
	MaxCount   int          `json:"maxCount"`
	Total      int          `json:"total"`
	ActiveDays int          `json:"activeDays"`
	Policy     string       `json:"policy"`
}

// Days returns every real day of the grid in chronological order.
func (g Grid) Days() []Day {
	days := make([]Day, 0, WindowDays)
	for _, w := range g.Weeks {
		for _, c := range w {
			if d, ok := c.(Day); ok {
				days = append(days, d)
			}
		}
	}
	return days
}

type options struct {
	policy Policy
}

type Option func(*options)

// WithPolicy overrides DefaultPolicy. A nil policy is ignored.
func WithPolicy(p Policy) Option {
	return func(o *options) {
		if p != nil {
			o.policy = p
		}
	}
}

// BuildGrid lays out the WindowDays days ending at today (UTC) as week columns.
//
// The first week is front-padded with Empty cells so the first day lands in its
// weekday row; the last week is left partial. Keys of cal that do not match a
// day of the window are ignored.
func BuildGrid(cal calendar.Calendar, today time.Time, opts ...Option) Grid {
	o := options{policy: DefaultPolicy}
	for _, opt := range opts {
		opt(&o)
	}

	end := calendar.Midnight(today)
	start := end.AddDate(0, 0, -(WindowDays - 1))

	counts := make([]int, WindowDays)
	maxCount, total, active := 0, 0, 0
	for i := range counts {
		n := max(cal.Count(start.AddDate(0, 0, i)), 0)
		counts[i] = n
		if n > maxCount {
			maxCount = n
		}
		if n > 0 {
			total += n
			active++
		}
	}
	if maxCount < 1 {
		maxCount = 1
	}

	lead := int(start.Weekday())
	cells := make([]Cell, 0, lead+WindowDays)
	for range lead {
		cells = append(cells, Empty{})
	}
	for i, n := range counts {
		cells = append(cells, Day{
			Date:  start.AddDate(0, 0, i),
			Count: n,
			Level: o.policy.Level(n, maxCount),
		})
	}

	weeks := make([]Week, 0, (len(cells)+6)/7)
	for i := 0; i < len(cells); i += 7 {
		j := min(i+7, len(cells))
		weeks = append(weeks, Week(cells[i:j:j]))
	}

	return Grid{
		Start:      start,
		End:        end,
		Weeks:      weeks,
		Months:     monthLabels(weeks),
		MaxCount:   maxCount,
		Total:      total,
		ActiveDays: active,
		Policy:     o.policy.Name(),
	}
}

func monthLabels(weeks []Week) []MonthLabel {
	var labels []MonthLabel
	lastYear, lastMonth := 0, time.Month(0)
	for i, w := range weeks {
		d, ok := w.FirstDay()
		if !ok {
			continue
		}
		y, m := d.Date.Year(), d.Date.Month()
		if y == lastYear && m == lastMonth {
			continue
		}
		labels = append(labels, MonthLabel{Name: d.Date.Format("Jan"), Week: i})
		lastYear, lastMonth = y, m
	}
	for i := range labels {
		next := len(weeks)
		if i+1 < len(labels) {
			next = labels[i+1].Week
		}
		labels[i].Span = next - labels[i].Week
	}
	return labels
}

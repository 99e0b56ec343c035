package github

import (
	"context"
	"time"

	"github.com/fchimpan/leetboard/internal/calendar"
	"github.com/fchimpan/leetboard/internal/stats"
)

// ToCalendar flattens GitHub's week-major contribution calendar into day keys.
// Days with an unparsable date are skipped.
func ToCalendar(cc ContributionCalendar) calendar.Calendar {
	cal := calendar.Calendar{}
	for _, w := range cc.Weeks {
		for _, d := range w.ContributionDays {
			t, err := time.Parse(time.DateOnly, d.Date)
			if err != nil {
				continue
			}
			if d.ContributionCount > 0 {
				cal.Add(t, d.ContributionCount)
			}
		}
	}
	return cal
}

// Source serves GitHub contribution calendars as dashboard users.
// GitHub has no notion of solved problems, so Solved stays zero.
type Source struct {
	Now   func() time.Time
	Fetch func(ctx context.Context, login string, from, to time.Time) (UserCalendar, error)
}

func NewSource() *Source {
	return &Source{Now: time.Now, Fetch: FetchUserContributionCalendarRange}
}

func (s *Source) FetchUser(ctx context.Context, login string) (*stats.User, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	fetch := FetchUserContributionCalendarRange
	if s.Fetch != nil {
		fetch = s.Fetch
	}

	to := now().UTC()
	from := calendar.Midnight(to).AddDate(0, 0, -364)

	uc, err := fetch(ctx, login, from, to)
	if err != nil {
		return nil, err
	}

	cal := ToCalendar(uc.Calendar)
	return &stats.User{
		Username: uc.Login,
		Profile: stats.Profile{
			Username: uc.Login,
			Name:     uc.Name,
			Avatar:   uc.AvatarURL,
		},
		Activity: stats.Activity{
			Submissions:     cal,
			TotalActiveDays: calendar.ActiveDays(cal, from, to),
			Streak:          calendar.Streak(cal, to),
		},
	}, nil
}

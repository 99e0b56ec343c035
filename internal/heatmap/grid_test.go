package heatmap

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/fchimpan/leetboard/internal/calendar"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildGrid_EmptyCalendar(t *testing.T) {
	t.Parallel()

	g := BuildGrid(calendar.Calendar{}, date(2024, 1, 15))

	days := g.Days()
	if len(days) != WindowDays {
		t.Fatalf("expected %d days, got %d", WindowDays, len(days))
	}
	for _, d := range days {
		if d.Count != 0 || d.Level != 0 {
			t.Fatalf("expected zero cell, got %+v", d)
		}
	}
	if !g.Start.Equal(date(2023, 1, 16)) || !g.End.Equal(date(2024, 1, 15)) {
		t.Fatalf("window mismatch: %v..%v", g.Start, g.End)
	}
	if g.MaxCount != 1 {
		t.Fatalf("expected MaxCount floored at 1, got %d", g.MaxCount)
	}
	if g.Total != 0 || g.ActiveDays != 0 {
		t.Fatalf("expected no activity, got total=%d active=%d", g.Total, g.ActiveDays)
	}

	var names []string
	for _, m := range g.Months {
		names = append(names, m.Name)
	}
	want := []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec", "Jan"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("month labels mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildGrid_WeekShape(t *testing.T) {
	t.Parallel()

	// Seven consecutive days cover every possible weekday for the window start.
	for i := range 7 {
		today := date(2024, 3, 1).AddDate(0, 0, i)
		g := BuildGrid(calendar.Calendar{}, today)

		lead := int(g.Start.Weekday())
		wantWeeks := (WindowDays + lead + 6) / 7
		if len(g.Weeks) != wantWeeks {
			t.Fatalf("today=%s: expected %d weeks, got %d", today.Format(time.DateOnly), wantWeeks, len(g.Weeks))
		}
		for wi, w := range g.Weeks[:len(g.Weeks)-1] {
			if len(w) != 7 {
				t.Fatalf("today=%s: week %d has %d cells", today.Format(time.DateOnly), wi, len(w))
			}
		}
		if last := g.Weeks[len(g.Weeks)-1]; len(last) == 0 || len(last) > 7 {
			t.Fatalf("today=%s: last week has %d cells", today.Format(time.DateOnly), len(last))
		}

		// Every real day sits in its weekday row.
		for _, w := range g.Weeks {
			for row, c := range w {
				if d, ok := c.(Day); ok && int(d.Date.Weekday()) != row {
					t.Fatalf("today=%s: %s in row %d", today.Format(time.DateOnly), d.Date.Format(time.DateOnly), row)
				}
			}
		}

		// The last real day is today.
		last := g.Weeks[len(g.Weeks)-1]
		if d, ok := last[len(last)-1].(Day); !ok || !d.Date.Equal(today) {
			t.Fatalf("today=%s: last cell is %+v", today.Format(time.DateOnly), last[len(last)-1])
		}
	}
}

func TestBuildGrid_WednesdayStartHasThreePlaceholders(t *testing.T) {
	t.Parallel()

	// 364 days back keeps the weekday, so a Wednesday today starts on a Wednesday.
	g := BuildGrid(calendar.Calendar{}, date(2024, 1, 17))
	if g.Start.Weekday() != time.Wednesday {
		t.Fatalf("expected Wednesday start, got %s", g.Start.Weekday())
	}

	first := g.Weeks[0]
	for i := range 3 {
		if _, ok := first[i].(Empty); !ok {
			t.Fatalf("expected placeholder at %d, got %T", i, first[i])
		}
	}
	for i := 3; i < 7; i++ {
		if _, ok := first[i].(Day); !ok {
			t.Fatalf("expected day at %d, got %T", i, first[i])
		}
	}
	if d, _ := first.FirstDay(); !d.Date.Equal(date(2023, 1, 18)) {
		t.Fatalf("first day mismatch: %v", d.Date)
	}
}

func TestBuildGrid_SingleBusyDay(t *testing.T) {
	t.Parallel()

	busy := date(2024, 1, 10)
	cal := calendar.Calendar{calendar.Key(busy): 5}

	g := BuildGrid(cal, date(2024, 1, 15))
	if g.MaxCount != 5 {
		t.Fatalf("expected MaxCount 5, got %d", g.MaxCount)
	}
	if g.Total != 5 || g.ActiveDays != 1 {
		t.Fatalf("expected total=5 active=1, got total=%d active=%d", g.Total, g.ActiveDays)
	}
	for _, d := range g.Days() {
		switch {
		case d.Date.Equal(busy):
			if d.Count != 5 || d.Level != MaxLevel {
				t.Fatalf("busy day mismatch: %+v", d)
			}
		default:
			if d.Level != 0 {
				t.Fatalf("expected level 0 for %s, got %d", d.Date.Format(time.DateOnly), d.Level)
			}
		}
	}
	if g.Policy != PolicyPercentile {
		t.Fatalf("expected default policy, got %q", g.Policy)
	}
}

func TestBuildGrid_IgnoresForeignKeys(t *testing.T) {
	t.Parallel()

	today := date(2024, 1, 15)
	cal := calendar.Calendar{"garbage": 40, "1704844801": 99}
	cal.Add(date(2022, 6, 1), 99)
	cal.Add(today.AddDate(0, 0, 1), 99)
	cal.Add(date(2024, 1, 14), 2)
	cal.Add(date(2023, 1, 16), 8) // first day of the window

	g := BuildGrid(cal, today)
	if g.MaxCount != 8 {
		t.Fatalf("expected MaxCount 8, got %d", g.MaxCount)
	}
	if g.Total != 10 {
		t.Fatalf("expected total 10, got %d", g.Total)
	}
}

func TestBuildGrid_NegativeCountsReadAsZero(t *testing.T) {
	t.Parallel()

	today := date(2024, 1, 15)
	cal := calendar.Calendar{}
	cal.Add(date(2024, 1, 10), -3)
	cal.Add(date(2024, 1, 11), 2)

	g := BuildGrid(cal, today)
	for _, d := range g.Days() {
		if d.Count < 0 {
			t.Fatalf("day %s has negative count %d", d.Date.Format(time.DateOnly), d.Count)
		}
	}
	if g.Total != 2 || g.ActiveDays != 1 || g.MaxCount != 2 {
		t.Fatalf("total=%d active=%d max=%d, want 2/1/2", g.Total, g.ActiveDays, g.MaxCount)
	}
}

func TestBuildGrid_Policy(t *testing.T) {
	t.Parallel()

	today := date(2024, 1, 15)
	cal := calendar.Calendar{
		calendar.Key(date(2024, 1, 10)): 5,
		calendar.Key(date(2024, 1, 11)): 1,
	}

	g := BuildGrid(cal, today, WithPolicy(FixedThreshold))
	if g.Policy != PolicyFixedThreshold {
		t.Fatalf("expected fixed policy, got %q", g.Policy)
	}
	levels := map[string]int{}
	for _, d := range g.Days() {
		levels[d.Date.Format(time.DateOnly)] = d.Level
	}
	if levels["2024-01-10"] != 3 || levels["2024-01-11"] != 1 {
		t.Fatalf("unexpected fixed levels: %d %d", levels["2024-01-10"], levels["2024-01-11"])
	}

	g = BuildGrid(cal, today, WithPolicy(nil))
	if g.Policy != DefaultPolicy.Name() {
		t.Fatalf("nil policy should keep default, got %q", g.Policy)
	}
}

func TestBuildGrid_Idempotent(t *testing.T) {
	t.Parallel()

	today := date(2024, 7, 4)
	cal := calendar.Calendar{}
	for i := 0; i < 300; i += 3 {
		cal.Add(today.AddDate(0, 0, -i), i%11)
	}

	a := BuildGrid(cal, today)
	b := BuildGrid(cal, today)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("grids differ (-first +second):\n%s", diff)
	}
}

func TestBuildGrid_MonthLabelsFollowWeeks(t *testing.T) {
	t.Parallel()

	g := BuildGrid(calendar.Calendar{}, date(2024, 9, 30))

	span := 0
	for i, m := range g.Months {
		if m.Week < 0 || m.Week >= len(g.Weeks) {
			t.Fatalf("label %d points outside the grid: %+v", i, m)
		}
		d, ok := g.Weeks[m.Week].FirstDay()
		if !ok {
			t.Fatalf("label %d anchored on a week without days", i)
		}
		if d.Date.Format("Jan") != m.Name {
			t.Fatalf("label %d name %q does not match %s", i, m.Name, d.Date.Format(time.DateOnly))
		}
		if i > 0 && m.Week <= g.Months[i-1].Week {
			t.Fatalf("labels not strictly increasing at %d", i)
		}
		if m.Span < 1 {
			t.Fatalf("label %d has span %d", i, m.Span)
		}
		span += m.Span
	}
	if span != len(g.Weeks)-g.Months[0].Week {
		t.Fatalf("spans cover %d weeks, grid has %d", span, len(g.Weeks))
	}
}

func TestGrid_JSON(t *testing.T) {
	t.Parallel()

	cal := calendar.Calendar{calendar.Key(date(2023, 1, 18)): 3}
	g := BuildGrid(cal, date(2024, 1, 17))

	b, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out struct {
		Weeks  [][]json.RawMessage `json:"weeks"`
		Policy string              `json:"policy"`
	}
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(out.Weeks[0][0]) != "null" {
		t.Fatalf("expected placeholder to encode as null, got %s", out.Weeks[0][0])
	}
	if got := string(out.Weeks[0][3]); got != `{"date":"2023-01-18","count":3,"level":4}` {
		t.Fatalf("unexpected day encoding: %s", got)
	}
	if out.Policy != PolicyPercentile {
		t.Fatalf("unexpected policy: %q", out.Policy)
	}
	if !strings.Contains(string(b), `"months":[{"name":"Jan","week":0,`) {
		t.Fatalf("expected month labels in output, got %s", b)
	}
}

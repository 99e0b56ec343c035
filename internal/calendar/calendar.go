package calendar

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"time"
)

// Calendar maps a UTC-midnight unix timestamp (seconds, base 10) to the number
// of submissions made on that day. Days without submissions are usually absent.
type Calendar map[string]int

// MalformedCalendarError is returned by Normalize when the upstream
// submissionCalendar payload cannot be decoded.
// Callers are expected to fall back to an empty Calendar.
type MalformedCalendarError struct {
	Raw   string
	cause error
}

func (e *MalformedCalendarError) Error() string {
	if e == nil || e.cause == nil {
		return "malformed submission calendar"
	}
	return "malformed submission calendar: " + e.cause.Error()
}

func (e *MalformedCalendarError) Unwrap() error { return e.cause }

func IsMalformed(err error) bool {
	var e *MalformedCalendarError
	return errors.As(err, &e)
}

// Normalize decodes the submissionCalendar field of a calendar payload.
//
// The field arrives either as a JSON-encoded string ("{\"1700000000\":3}") or as
// an already decoded object. An absent or null field yields an empty Calendar.
func Normalize(raw json.RawMessage) (Calendar, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Calendar{}, nil
	}

	body := trimmed
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, &MalformedCalendarError{Raw: string(trimmed), cause: err}
		}
		body = []byte(s)
	}

	cal := Calendar{}
	if err := json.Unmarshal(body, &cal); err != nil {
		return nil, &MalformedCalendarError{Raw: string(body), cause: err}
	}
	if cal == nil {
		// "null" encoded inside a string.
		cal = Calendar{}
	}
	// Counts are never negative; such entries are dropped.
	for k, n := range cal {
		if n < 0 {
			delete(cal, k)
		}
	}
	return cal, nil
}

// Midnight truncates t to the start of its UTC day.
func Midnight(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Key returns the calendar key for the UTC day containing t.
func Key(t time.Time) string {
	return strconv.FormatInt(Midnight(t).Unix(), 10)
}

// Count returns the submissions recorded for the UTC day containing day.
func (c Calendar) Count(day time.Time) int {
	if c == nil {
		return 0
	}
	return c[Key(day)]
}

// Add records n more submissions on the UTC day containing day.
func (c Calendar) Add(day time.Time, n int) {
	c[Key(day)] += n
}

// Total sums every count in the calendar, regardless of date.
func (c Calendar) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

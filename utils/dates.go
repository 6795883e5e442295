package utils

import (
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// Day truncates a timestamp to its calendar date at UTC midnight.
// All streak math works on these normalized values so the same moment
// never maps to two different days depending on the server clock.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayKey renders a normalized day as an ISO calendar date string.
func DayKey(t time.Time) string {
	return t.Format(dayLayout)
}

// ParseDay parses an ISO calendar date (no time component) into a
// normalized day.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return Day(t), nil
}

// DaysBetween returns the whole-day distance from a to b (positive when b
// is later). Inputs are normalized first so DST offsets cannot skew the count.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// ResolveToday picks the caller's calendar day: an explicit date wins,
// otherwise "now" is resolved in the supplied IANA timezone (UTC when empty).
// Keeping this at the edge keeps the streak calculator free of wall clocks.
func ResolveToday(dateStr, tzName string, now time.Time) (time.Time, error) {
	if dateStr != "" {
		return ParseDay(dateStr)
	}
	loc := time.UTC
	if tzName != "" {
		l, err := time.LoadLocation(tzName)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid timezone %q: %w", tzName, err)
		}
		loc = l
	}
	return Day(now.In(loc)), nil
}

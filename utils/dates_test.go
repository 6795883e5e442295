package utils

import (
	"testing"
	"time"
)

func TestDayNormalizesToUTCMidnight(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	in := time.Date(2025, 3, 9, 23, 45, 12, 0, loc)
	got := Day(in)

	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 {
		t.Errorf("expected midnight, got %v", got)
	}
	if got.Location() != time.UTC {
		t.Errorf("expected UTC, got %v", got.Location())
	}
	if got.Year() != 2025 || got.Month() != time.March || got.Day() != 9 {
		t.Errorf("expected 2025-03-09, got %v", got)
	}
}

func TestParseDayRoundTrip(t *testing.T) {
	day, err := ParseDay("2025-01-31")
	if err != nil {
		t.Fatalf("ParseDay: %v", err)
	}
	if DayKey(day) != "2025-01-31" {
		t.Errorf("round trip mismatch: %s", DayKey(day))
	}

	if _, err := ParseDay("31/01/2025"); err == nil {
		t.Error("expected error for non-ISO date")
	}
	if _, err := ParseDay(""); err == nil {
		t.Error("expected error for empty date")
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"2025-01-01", "2025-01-01", 0},
		{"2025-01-01", "2025-01-02", 1},
		{"2025-01-02", "2025-01-01", -1},
		{"2025-02-27", "2025-03-02", 3},
		{"2024-02-28", "2024-03-01", 2}, // leap year
		{"2024-12-31", "2025-01-01", 1},
	}

	for _, tt := range tests {
		a, _ := ParseDay(tt.a)
		b, _ := ParseDay(tt.b)
		if got := DaysBetween(a, b); got != tt.want {
			t.Errorf("DaysBetween(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestResolveToday(t *testing.T) {
	now := time.Date(2025, 6, 15, 3, 30, 0, 0, time.UTC)

	// Explicit date always wins.
	day, err := ResolveToday("2025-06-01", "Asia/Tokyo", now)
	if err != nil {
		t.Fatalf("ResolveToday: %v", err)
	}
	if DayKey(day) != "2025-06-01" {
		t.Errorf("expected explicit date, got %s", DayKey(day))
	}

	// 03:30 UTC is still the previous evening in New York.
	day, err = ResolveToday("", "America/New_York", now)
	if err != nil {
		t.Fatalf("ResolveToday: %v", err)
	}
	if DayKey(day) != "2025-06-14" {
		t.Errorf("expected 2025-06-14 in New York, got %s", DayKey(day))
	}

	// Empty timezone defaults to UTC.
	day, err = ResolveToday("", "", now)
	if err != nil {
		t.Fatalf("ResolveToday: %v", err)
	}
	if DayKey(day) != "2025-06-15" {
		t.Errorf("expected 2025-06-15 UTC, got %s", DayKey(day))
	}

	if _, err := ResolveToday("", "Not/AZone", now); err == nil {
		t.Error("expected error for bad timezone")
	}
}

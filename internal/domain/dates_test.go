package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParseDateAcceptsStrictISO(t *testing.T) {
	got, err := ParseDate("2025-01-01")
	if err != nil {
		t.Fatalf("calendar date rejected: %v", err)
	}
	if got.Year() != 2025 || got.Month() != time.January || got.Day() != 1 {
		t.Fatalf("wrong date parsed: %v", got)
	}

	if _, err := ParseDate("2025-06-15T10:30:00Z"); err != nil {
		t.Fatalf("RFC3339 timestamp rejected: %v", err)
	}
	if _, err := ParseDate("2025-06-15T10:30:00+08:00"); err != nil {
		t.Fatalf("RFC3339 with offset rejected: %v", err)
	}
}

func TestParseDateRejectsLooseFormats(t *testing.T) {
	bad := []string{
		"2025/01/01",
		"01-01-2025",
		"2025-1-1",
		"Jan 1, 2025",
		"20250101",
		"",
		"not-a-date",
	}
	for _, s := range bad {
		if _, err := ParseDate(s); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("ParseDate(%q) = %v, want ErrInvalidDate", s, err)
		}
	}
}

func TestParsePeriodOrdering(t *testing.T) {
	if _, _, err := ParsePeriod("2025-01-01", "2025-01-31"); err != nil {
		t.Fatalf("valid period rejected: %v", err)
	}
	if _, _, err := ParsePeriod("2025-02-01", "2025-01-01"); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("inverted period accepted: %v", err)
	}
	if _, _, err := ParsePeriod("2025/01/01", "2025-01-31"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("loose start date accepted: %v", err)
	}
}

func TestDayKeyUsesLocation(t *testing.T) {
	// 23:30 UTC on Jan 1 is already Jan 2 in UTC+8.
	moment := time.Date(2025, 1, 1, 23, 30, 0, 0, time.UTC)
	if got := DayKey(moment, time.UTC); got != "2025-01-01" {
		t.Fatalf("UTC day key = %q", got)
	}
	shanghai := time.FixedZone("CST", 8*3600)
	if got := DayKey(moment, shanghai); got != "2025-01-02" {
		t.Fatalf("UTC+8 day key = %q", got)
	}
}

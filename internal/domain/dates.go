package domain

import "time"

const DateLayout = "2006-01-02"

// ParseDate accepts strict ISO-8601 input only: a calendar date (2006-01-02)
// or an RFC3339 timestamp. Everything else (2025/01/01, 01-02-2006, ...) is
// rejected with ErrInvalidDate.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, ErrInvalidDate
}

// ParsePeriod validates both bounds and their ordering.
func ParsePeriod(start, end string) (time.Time, time.Time, error) {
	from, err := ParseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := ParseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, ErrInvalidPeriod
	}
	return from, to, nil
}

// DayKey is the calendar-day key used by usage counters. The reset at
// midnight falls out of the key changing, there is no explicit reset.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

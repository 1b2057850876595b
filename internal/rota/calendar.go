// Package rota contains the duty-assignment resolution engine: pure
// functions that compute who is on duty on a given day from the rotation
// anchor date, the ordered active roster and the set of override records.
// Nothing in this package performs I/O or holds state.
package rota

import "time"

// DayFormat is the ISO day layout used for every date key in the system.
const DayFormat = "2006-01-02"

// ParseDay parses an ISO day string.
func ParseDay(value string) (time.Time, error) {
	return time.Parse(DayFormat, value)
}

// FormatDay renders a time as an ISO day string.
func FormatDay(t time.Time) string {
	return t.Format(DayFormat)
}

// AddDays shifts an ISO day string by n calendar days.
func AddDays(day string, n int) (string, error) {
	t, err := ParseDay(day)
	if err != nil {
		return "", err
	}
	return FormatDay(t.AddDate(0, 0, n)), nil
}

// DaysBetween returns the number of calendar days from start to end.
// Negative when end precedes start.
func DaysBetween(start, end string) (int, error) {
	s, err := ParseDay(start)
	if err != nil {
		return 0, err
	}
	e, err := ParseDay(end)
	if err != nil {
		return 0, err
	}
	return int(e.Sub(s).Hours() / 24), nil
}

// DayRange enumerates the count ISO days beginning at start.
func DayRange(start string, count int) ([]string, error) {
	t, err := ParseDay(start)
	if err != nil {
		return nil, err
	}
	days := make([]string, 0, count)
	for i := 0; i < count; i++ {
		days = append(days, FormatDay(t.AddDate(0, 0, i)))
	}
	return days, nil
}

// DayRangeInclusive enumerates every ISO day from start through end. The
// bounds are normalised so argument order does not matter.
func DayRangeInclusive(a, b string) ([]string, error) {
	start, end := a, b
	if end < start {
		start, end = end, start
	}
	n, err := DaysBetween(start, end)
	if err != nil {
		return nil, err
	}
	return DayRange(start, n+1)
}

// IsWeekend reports whether the ISO day falls on Saturday or Sunday.
func IsWeekend(day string) bool {
	t, err := ParseDay(day)
	if err != nil {
		return false
	}
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

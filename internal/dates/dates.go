// Package dates implements the canonical day boundary used as the forecast
// row key: UTC midnight, independent of the local time zone.
package dates

import "time"

// DayInMillis is one day in epoch milliseconds.
const DayInMillis int64 = 86_400_000

// Normalize returns UTC midnight of t's UTC calendar day.
func Normalize(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the canonical day containing now.
func Today(now time.Time) time.Time {
	return Normalize(now)
}

// AddDays moves a canonical day by n days.
func AddDays(day time.Time, n int) time.Time {
	return Normalize(day).AddDate(0, 0, n)
}

// IsNormalized reports whether t already sits on a day boundary.
func IsNormalized(t time.Time) bool {
	return t.Equal(Normalize(t))
}

func ToMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// Parse reads a YYYY-MM-DD date as a canonical day.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, err
	}
	return Normalize(t), nil
}

// Format renders a canonical day as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

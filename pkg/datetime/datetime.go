// Package datetime provides period boundary math in the application's
// reference timezone. Issuer emails state transaction times in Japanese
// local time, so weekly and monthly windows are aligned to that zone
// rather than UTC.
package datetime

import (
	"time"
)

// DateFormat is the standard date-only format (YYYY-MM-DD).
const DateFormat = "2006-01-02"

// DefaultTimezone is the reference timezone for period boundaries and for
// email datetimes that carry no zone of their own.
const DefaultTimezone = "Asia/Tokyo"

// ReferenceLocation loads the named timezone, falling back to the default
// when name is empty.
func ReferenceLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultTimezone
	}
	return time.LoadLocation(name)
}

// StartOfWeek returns Monday 00:00:00 of t's calendar week in loc.
func StartOfWeek(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	// time.Weekday counts Sunday as 0; shift so Monday is the week start.
	offset := (int(t.Weekday()) + 6) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return day.AddDate(0, 0, -offset)
}

// StartOfMonth returns the first day of t's month at 00:00:00 in loc.
func StartOfMonth(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
}

// IsStartOfWeek reports whether t is exactly Monday 00:00:00 in loc.
func IsStartOfWeek(t time.Time, loc *time.Location) bool {
	return t.In(loc).Equal(StartOfWeek(t, loc))
}

// IsStartOfMonth reports whether t is exactly the first of a month at
// 00:00:00 in loc.
func IsStartOfMonth(t time.Time, loc *time.Location) bool {
	return t.In(loc).Equal(StartOfMonth(t, loc))
}

// WeekEnd returns the exclusive end of the week starting at start.
func WeekEnd(start time.Time) time.Time {
	return start.AddDate(0, 0, 7)
}

// MonthEnd returns the exclusive end of the month starting at start, i.e.
// the first instant of the next calendar month.
func MonthEnd(start time.Time) time.Time {
	return start.AddDate(0, 1, 0)
}

// ParseTime parses an RFC3339 timestamp or a bare date. Bare dates are
// interpreted at midnight in loc.
func ParseTime(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation(DateFormat, s, loc)
}

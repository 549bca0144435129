package math

import "time"

// Date builds a calendar date in UTC with no time-of-day component
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DaysIn returns the number of days in the given month
func DaysIn(year int, month time.Month) int {
	// day 0 of the next month normalizes to the last day of this month
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampedDate builds a date with the day-of-month clamped to the target
// month: at least 1, at most the month's last day. Month may be outside 1-12,
// time.Date normalizes it.
func ClampedDate(year int, month time.Month, day int) time.Time {
	norm := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	day = MaxInt(1, MinInt(day, DaysIn(norm.Year(), norm.Month())))
	return Date(norm.Year(), norm.Month(), day)
}

// AddMonths moves the date forward by the given number of months, preserving
// the original day-of-month where possible and clamping it for short months.
// time.AddDate alone would spill day 31 into the following month.
func AddMonths(date time.Time, months int) time.Time {
	return ClampedDate(date.Year(), date.Month()+time.Month(months), date.Day())
}

// SameDay reports whether both times fall on the same calendar date
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

package utils

import (
	"time"
)

// ParseDate parses a YYYY-MM-DD value into a UTC midnight date.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, time.UTC)
}

// DateOnly truncates t to its UTC calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

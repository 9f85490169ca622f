// Package period computes the settlement windows a sync run covers:
// an explicit calendar month, a trailing N-day window, or the previous
// calendar month by default.
package period

import (
	"fmt"
	"time"
)

// Window is one half-open-in-name, inclusive-in-time settlement window.
// From and To carry the exact bounds sent to the source API.
type Window struct {
	// From is the first instant of the window (00:00:00.000 UTC).
	From time.Time

	// To is the last instant of the window (23:59:59.999 UTC).
	To time.Time

	// Name is a filesystem-safe identifier, e.g. "receipts_2025_06" or
	// "last_90_days".
	Name string

	// Label is the human-readable form used in notifications.
	Label string
}

// ForMonth returns the window covering one calendar month.
func ForMonth(year, month int) Window {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return Window{
		From:  first,
		To:    endOfDay(last),
		Name:  fmt.Sprintf("receipts_%d_%02d", year, month),
		Label: fmt.Sprintf("for %d-%02d", year, month),
	}
}

// LastDays returns the trailing window ending at today.
func LastDays(days int, today time.Time) Window {
	today = today.UTC().Truncate(24 * time.Hour)
	return Window{
		From:  today.AddDate(0, 0, -days),
		To:    endOfDay(today),
		Name:  fmt.Sprintf("last_%d_days", days),
		Label: fmt.Sprintf("over the last %d days", days),
	}
}

// Previous returns the window for the calendar month before today.
// This is the default when no period flags are given.
func Previous(today time.Time) Window {
	today = today.UTC()
	firstOfCurrent := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	lastOfPrevious := firstOfCurrent.AddDate(0, 0, -1)
	return ForMonth(lastOfPrevious.Year(), int(lastOfPrevious.Month()))
}

func endOfDay(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 999000000, time.UTC)
}

// Package time contains time related helpers
package time

import "time"

// Day is the trailing window used for "today" style aggregates
const Day = 24 * time.Hour

// StartOfDay truncates t to midnight UTC
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Window returns the [now-d, now) bounds for a trailing window
func Window(now time.Time, d time.Duration) (from, to time.Time) {
	return now.Add(-d), now
}

// Package dates holds the calendar-day rules shared by the views and the UI. A "day" is always
// the calendar day in the location of the reference time, never a rolling 24 hour window.
package dates

import (
	"fmt"
	"time"
)

const (
	// DayLayout is the input format for due dates.
	DayLayout = "2006-01-02"

	dueLayout     = "Mon, Jan 2"
	headingLayout = "Monday, January 2"
)

// StartOfDay returns midnight at the beginning of t's calendar day, in t's location.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()

	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether t falls on the same calendar day as ref, judged in ref's location.
func SameDay(t, ref time.Time) bool {
	ty, tm, td := t.In(ref.Location()).Date()
	ry, rm, rd := ref.Date()

	return ty == ry && tm == rm && td == rd
}

// IsToday reports whether the optional timestamp is set and falls on now's calendar day.
func IsToday(t *time.Time, now time.Time) bool {
	return t != nil && SameDay(*t, now)
}

// IsAfterToday reports whether the optional timestamp is set and falls on tomorrow or later.
func IsAfterToday(t *time.Time, now time.Time) bool {
	if t == nil {
		return false
	}

	tomorrow := StartOfDay(now).AddDate(0, 0, 1)

	return !t.Before(tomorrow)
}

// FormatDue formats a due date for display, e.g. "Tue, Mar 5".
func FormatDue(t time.Time) string {
	return t.Local().Format(dueLayout)
}

// Heading formats the long date shown above My Day, e.g. "Tuesday, March 5".
func Heading(now time.Time) string {
	return now.Format(headingLayout)
}

// ParseDay parses a YYYY-MM-DD date as midnight in loc.
func ParseDay(value string, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation(DayLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("error parsing date '%s' (expected YYYY-MM-DD): %w", value, err)
	}

	return day, nil
}

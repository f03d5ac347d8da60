// Package date provides natural-language date parsing, calendar-day
// comparison, and humanized due-time messages.
package date

import (
	"time"

	"github.com/araddon/dateparse"
	"github.com/dustin/go-humanize"
)

// DefaultFormat is the display format used when a board does not configure
// its own dateFormat option.
const DefaultFormat = "2006-01-02"

// Parse parses a date from free-form input. Accepts anything dateparse
// understands: ISO-8601, RFC-3339, "2020/01/02", unix timestamps, and the
// common loose formats people type into metadata fields.
func Parse(s string) (time.Time, error) {
	return dateparse.ParseLocal(s)
}

// SameDay reports whether two times fall on the same calendar day,
// ignoring time of day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// InRange reports whether t falls within the inclusive calendar range
// spanned by the earliest and latest of the given times.
func InRange(t time.Time, bounds []time.Time) bool {
	if len(bounds) == 0 {
		return false
	}
	minT, maxT := bounds[0], bounds[0]
	for _, b := range bounds[1:] {
		if b.Before(minT) {
			minT = b
		}
		if b.After(maxT) {
			maxT = b
		}
	}
	return !t.Before(minT) && !t.After(maxT)
}

// DueMessage builds the humanized message for a due date relative to a
// reference time (the completion time for completed tasks, otherwise now),
// e.g. "3 days overdue", "2 weeks remaining", "Completed 1 day remaining".
func DueMessage(due, ref time.Time, completed bool) string {
	msg := humanize.RelTime(due, ref, "overdue", "remaining")
	if completed {
		msg = "Completed " + msg
	}
	return msg
}

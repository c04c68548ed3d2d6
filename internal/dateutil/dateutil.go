// Package dateutil provides calendar-date plumbing for the pipeline.
// All dates are UTC midnights; ranges are half-open [Start, End).
package dateutil

import (
	"time"

	"github.com/rotisserie/eris"
)

// Layout is the canonical date format used across all input and output tables.
const Layout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into a UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, eris.Wrapf(err, "dateutil: parse date %q", s)
	}
	return t.UTC(), nil
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(Layout)
}

// Date constructs a UTC midnight from components.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// NextDay returns the day after t.
func NextDay(t time.Time) time.Time {
	return t.AddDate(0, 0, 1)
}

// DaysBetween returns the number of whole days in [start, end).
// Returns 0 when end is not after start.
func DaysBetween(start, end time.Time) int {
	if !end.After(start) {
		return 0
	}
	return int(end.Sub(start).Hours() / 24)
}

// MonthKey renders the calendar month of t as YYYY-MM.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// DaysInMonth returns the number of days in the given calendar month.
func DaysInMonth(year int, month time.Month) int {
	return Date(year, month+1, 1).AddDate(0, 0, -1).Day()
}

// AddMonths adds n whole calendar months to t and applies a fixed day-of-month
// anchor, clamping to the month length (anchor 31 in February yields the 28th
// or 29th). This is calendar arithmetic, not fixed 30-day multiples.
func AddMonths(t time.Time, n, anchorDay int) time.Time {
	y, m, _ := t.Date()
	// Normalize month overflow manually so a day-of-month carry from
	// time.AddDate cannot shift the target month.
	total := int(m) - 1 + n
	year := y + total/12
	month := time.Month(total%12 + 1)
	if total < 0 && total%12 != 0 {
		year--
		month = time.Month(total%12 + 13)
	}
	day := anchorDay
	if max := DaysInMonth(year, month); day > max {
		day = max
	}
	return Date(year, month, day)
}

// Range is a half-open date interval [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

// Empty reports whether the range covers no days.
func (r Range) Empty() bool {
	return !r.End.After(r.Start)
}

// Days returns the number of days covered by the range.
func (r Range) Days() int {
	return DaysBetween(r.Start, r.End)
}

// Contains reports whether d falls inside the range.
func (r Range) Contains(d time.Time) bool {
	return !d.Before(r.Start) && d.Before(r.End)
}

// Clip returns the intersection of r with bounds.
func (r Range) Clip(bounds Range) Range {
	out := r
	if out.Start.Before(bounds.Start) {
		out.Start = bounds.Start
	}
	if out.End.After(bounds.End) {
		out.End = bounds.End
	}
	if out.End.Before(out.Start) {
		out.End = out.Start
	}
	return out
}

// EachDay calls fn for every day in [r.Start, r.End).
func (r Range) EachDay(fn func(time.Time)) {
	for d := r.Start; d.Before(r.End); d = NextDay(d) {
		fn(d)
	}
}

// MonthsBetween returns the number of whole calendar months from a to b,
// counting a partial trailing month only once the day-of-month is reached.
// Used for age-in-months at survey time.
func MonthsBetween(a, b time.Time) int {
	if b.Before(a) {
		return -MonthsBetween(b, a)
	}
	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if b.Day() < a.Day() {
		months--
	}
	return months
}

package analytics

import (
	"time"
)

// =============================================================================
// DATE - Civil calendar date (the grain of every rollup)
// =============================================================================

// Date is a calendar date with no time-of-day component, stored normalized
// to UTC midnight. All date comparisons and arithmetic go through Date so
// there is exactly one place where timestamps turn into business days.
type Date struct {
	t time.Time
}

// NewDate builds a date from calendar components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

// BusinessDate converts a timestamp to the civil date it belongs to in the
// business timezone. This is THE single date-derivation path: shift
// assignment, weekday bucketing and calendar-range math all flow through
// here, so a shift and its weekday bucket can never disagree about which
// day an event happened on.
func BusinessDate(ts time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	local := ts.In(loc)
	return NewDate(local.Year(), local.Month(), local.Day())
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }
func (d Date) IsZero() bool                  { return d.t.IsZero() }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// Weekday returns the day of week, anchored to UTC noon. Anchoring to noon
// rather than midnight means a date can never shift across a day boundary
// under DST or timezone conversion when only the weekday is wanted.
func (d Date) Weekday() time.Weekday {
	noon := time.Date(d.t.Year(), d.t.Month(), d.t.Day(), 12, 0, 0, 0, time.UTC)
	return noon.Weekday()
}

func (d Date) Year() int         { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int          { return d.t.Day() }

func (d Date) String() string { return d.t.Format("2006-01-02") }

// =============================================================================
// DATE RANGE - The requested reporting window
// =============================================================================

// DateRange is an inclusive [From, To] window of business dates.
type DateRange struct {
	From Date
	To   Date
}

// Contains reports whether the date falls inside the window.
func (r DateRange) Contains(d Date) bool {
	return d.AfterOrEqual(r.From) && d.BeforeOrEqual(r.To)
}

// DayCount returns the number of calendar days in the window. This is the
// expected-day denominator for data-integrity reporting.
func (r DateRange) DayCount() int {
	if r.To.Before(r.From) {
		return 0
	}
	return int(r.To.t.Sub(r.From.t).Hours()/24) + 1
}

func (r DateRange) String() string {
	return "[" + r.From.String() + ", " + r.To.String() + "]"
}

package generic

import (
	"time"
)

// =============================================================================
// DATE - Naive calendar date (no time zone conversion)
// =============================================================================

// DateLayout is the wire format of attendance dates.
const DateLayout = "2006-01-02"

// Date is a calendar day. Attendance dates are naive strings in the pharmacy's
// local calendar, so the underlying time is always midnight UTC and never
// shifted between zones.
type Date struct {
	Time time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// DateOf truncates a wall-clock instant to its calendar day, keeping the
// instant's own year/month/day fields.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Comparison
func (d Date) Before(other Date) bool        { return d.Time.Before(other.Time) }
func (d Date) Equal(other Date) bool         { return d.Time.Equal(other.Time) }
func (d Date) After(other Date) bool         { return d.Time.After(other.Time) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Arithmetic
func (d Date) AddYears(n int) Date { return Date{Time: d.Time.AddDate(n, 0, 0)} }

// Properties
func (d Date) Year() int             { return d.Time.Year() }
func (d Date) Month() time.Month     { return d.Time.Month() }
func (d Date) Day() int              { return d.Time.Day() }
func (d Date) Weekday() time.Weekday { return d.Time.Weekday() }
func (d Date) IsZero() bool          { return d.Time.IsZero() }

// IsRestDay reports whether the date falls on one of the two legally
// mandated weekly rest days (Saturday and Sunday).
func (d Date) IsRestDay() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (d Date) String() string {
	return d.Time.Format(DateLayout)
}

// =============================================================================
// TIME UTILITIES
// =============================================================================

func EndOfMonth(year int, month time.Month) Date {
	return Date{Time: time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)}
}

// WholeYearsBetween returns completed years from `from` to `to`, truncated and
// never negative. A hire on Feb 29 completes its year on Mar 1 in common years.
func WholeYearsBetween(from, to Date) int {
	years := to.Year() - from.Year()
	if years <= 0 {
		return 0
	}
	if from.AddYears(years).After(to) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

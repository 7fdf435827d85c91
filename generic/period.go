package generic

import (
	"fmt"
	"time"
)

// =============================================================================
// PERIOD - The boundary for aggregation and pay runs
// =============================================================================

// Period is an inclusive date range [Start, End].
//
// Examples:
//   - First half of March 2025 (Q1): Mar 1 - Mar 15
//   - Second half of February 2024 (Q2): Feb 16 - Feb 29
//   - Custom range chosen by an administrator
type Period struct {
	Start Date
	End   Date
}

// NewPeriod builds a period and rejects ranges that end before they start.
func NewPeriod(start, end Date) (Period, error) {
	if end.Before(start) {
		return Period{}, ErrInvalidPeriod
	}
	return Period{Start: start, End: end}, nil
}

// Contains returns true if the date is within the period [Start, End]
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// =============================================================================
// HALF-MONTH (QUINCENA)
// =============================================================================

// Half identifies one of the two semi-monthly pay runs.
type Half int

const (
	FirstHalf  Half = 1 // days 1-15
	SecondHalf Half = 2 // day 16 to end of month
)

func (h Half) Valid() bool { return h == FirstHalf || h == SecondHalf }

func (h Half) String() string {
	switch h {
	case FirstHalf:
		return "Q1"
	case SecondHalf:
		return "Q2"
	default:
		return fmt.Sprintf("Q%d", int(h))
	}
}

// HalfMonth returns the period covered by a half-month pay run.
func HalfMonth(year int, month time.Month, half Half) (Period, error) {
	if month < time.January || month > time.December || !half.Valid() {
		return Period{}, ErrInvalidPeriod
	}
	if half == FirstHalf {
		return Period{Start: NewDate(year, month, 1), End: NewDate(year, month, 15)}, nil
	}
	return Period{Start: NewDate(year, month, 16), End: EndOfMonth(year, month)}, nil
}

// HalfOf returns which half-month a date belongs to.
func HalfOf(d Date) Half {
	if d.Day() <= 15 {
		return FirstHalf
	}
	return SecondHalf
}

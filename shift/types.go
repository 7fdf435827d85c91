/*
Package shift classifies a single day's worked time under the LOTTT.

PURPOSE:
  Converts one raw attendance record (clock-in, clock-out, calendar date) into
  a shift type and a set of hour buckets. This is the leaf of the payroll
  engine: everything downstream (period aggregates, pay breakdowns, receipts)
  consumes its output.

SHIFT TYPES:
  Diurnal:   no hours inside the nocturnal band          -> 8.0h ordinary
  Mixed:     some nocturnal hours, at most four          -> 7.5h ordinary
  Nocturnal: more than four nocturnal hours              -> 7.0h ordinary

NOCTURNAL BAND:
  19:00 to 05:00. Shifts are placed on an extended 0-29 hour line so that an
  overnight shift (20:00 -> 05:00 becomes 20 -> 29) can be intersected with
  the sub-bands [0,5), [19,24) and [24,29) without date arithmetic.

HOUR BUCKETS:
  NormalHours, DayOvertimeHours, NightOvertimeHours, RestDayHours are
  mutually exclusive. Work on a rest day (Saturday/Sunday) is reported
  entirely as RestDayHours. NightPremiumHours is a separate additive premium
  and overlaps the other buckets.

GUARANTEES:
  - Pure: no I/O, no shared state, safe for concurrent use
  - Total: malformed or missing clocks yield an all-zero Breakdown
  - Non-negative: every bucket is clamped at zero

SEE ALSO:
  - classifier.go: The algorithm
  - clock.go: HH:MM parsing
  - attendance/aggregate.go: Summing breakdowns over a pay period
*/
package shift

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bradycnk/Nominaft/generic"
)

// =============================================================================
// SHIFT TYPE
// =============================================================================

// Type is the statutory classification of a shift.
type Type int

const (
	Diurnal Type = iota
	Mixed
	Nocturnal
)

var (
	diurnalThreshold   = decimal.NewFromInt(8)
	mixedThreshold     = decimal.NewFromFloat(7.5)
	nocturnalThreshold = decimal.NewFromInt(7)
)

// Threshold returns the ordinary hours allowed before overtime begins.
func (t Type) Threshold() decimal.Decimal {
	switch t {
	case Diurnal:
		return diurnalThreshold
	case Mixed:
		return mixedThreshold
	case Nocturnal:
		return nocturnalThreshold
	}
	panic(fmt.Sprintf("shift: unknown type %d", int(t)))
}

func (t Type) String() string {
	switch t {
	case Diurnal:
		return "diurnal"
	case Mixed:
		return "mixed"
	case Nocturnal:
		return "nocturnal"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// ParseType is the inverse of String.
func ParseType(s string) (Type, error) {
	switch s {
	case "diurnal":
		return Diurnal, nil
	case "mixed":
		return Mixed, nil
	case "nocturnal":
		return Nocturnal, nil
	}
	return Diurnal, fmt.Errorf("unknown shift type %q", s)
}

func (t Type) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Type) UnmarshalText(b []byte) error {
	parsed, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// =============================================================================
// BREAKDOWN
// =============================================================================

// Breakdown is the classified result for one attendance record.
// Computed, never persisted.
type Breakdown struct {
	Type               Type
	Duration           generic.Amount
	NormalHours        generic.Amount
	DayOvertimeHours   generic.Amount
	NightOvertimeHours generic.Amount
	RestDayHours       generic.Amount
	NightPremiumHours  generic.Amount
}

// ZeroBreakdown is returned for records that cannot be computed.
func ZeroBreakdown() Breakdown {
	zero := generic.ZeroAmount(generic.UnitHours)
	return Breakdown{
		Type:               Diurnal,
		Duration:           zero,
		NormalHours:        zero,
		DayOvertimeHours:   zero,
		NightOvertimeHours: zero,
		RestDayHours:       zero,
		NightPremiumHours:  zero,
	}
}

// OvertimeHours returns day plus night overtime.
func (b Breakdown) OvertimeHours() generic.Amount {
	return b.DayOvertimeHours.Add(b.NightOvertimeHours)
}

// IsRestDay reports whether the shift was worked on a rest day.
func (b Breakdown) IsRestDay() bool {
	return b.RestDayHours.IsPositive()
}

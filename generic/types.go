/*
Package generic provides the shared value types of the payroll engine.

PURPOSE:
  This package contains domain-agnostic building blocks used by the shift
  classifier, the attendance aggregator and the payroll calculator. Hours
  worked, bolivar amounts and dollar references all flow through the same
  Amount type so that arithmetic stays exact from the clock reading down to
  the net pay line.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A quantity with a unit (e.g., 7.5 hours, 20000 VES, 500 USD)
  - Unit: hours, days, VES, USD
  - EmployeeID / RecordID / RunID: Type-safe identifiers

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal, never float64, for hours and money
  2. Type Safety: Strong typing for IDs prevents mixing employees and runs
  3. No rounding: Amounts carry full precision; rounding is a display concern

USAGE:
  pay := generic.NewAmount(500, generic.UnitUSD)
  local := pay.Convert(rate, generic.UnitVES)

SEE ALSO:
  - time.go: Calendar dates (weekend detection)
  - period.go: Pay periods and half-months
  - errors.go: Sentinel and structured errors
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Quantity with unit
// =============================================================================

type Amount struct {
	Value decimal.Decimal
	Unit  Unit
}

type Unit string

const (
	UnitHours Unit = "hours"
	UnitDays  Unit = "days"
	UnitVES   Unit = "VES" // local currency (bolivares)
	UnitUSD   Unit = "USD" // foreign-currency reference
)

func NewAmount(value float64, unit Unit) Amount {
	return Amount{Value: decimal.NewFromFloat(value), Unit: unit}
}

func NewAmountFromDecimal(value decimal.Decimal, unit Unit) Amount {
	return Amount{Value: value, Unit: unit}
}

// ZeroAmount returns a zero quantity of the given unit.
func ZeroAmount(unit Unit) Amount { return Amount{Value: decimal.Zero, Unit: unit} }

func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (a Amount) Add(b Amount) Amount          { return Amount{Value: a.Value.Add(b.Value), Unit: a.Unit} }
func (a Amount) Sub(b Amount) Amount          { return Amount{Value: a.Value.Sub(b.Value), Unit: a.Unit} }
func (a Amount) Mul(s decimal.Decimal) Amount { return Amount{Value: a.Value.Mul(s), Unit: a.Unit} }
func (a Amount) Div(s decimal.Decimal) Amount { return Amount{Value: a.Value.Div(s), Unit: a.Unit} }
func (a Amount) IsNegative() bool             { return a.Value.IsNegative() }
func (a Amount) IsZero() bool                 { return a.Value.IsZero() }
func (a Amount) IsPositive() bool             { return a.Value.IsPositive() }
func (a Amount) GreaterThan(b Amount) bool    { return a.Value.GreaterThan(b.Value) }
func (a Amount) LessThan(b Amount) bool       { return a.Value.LessThan(b.Value) }
func (a Amount) Equal(b Amount) bool          { return a.Unit == b.Unit && a.Value.Equal(b.Value) }

func (a Amount) Min(b Amount) Amount {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Convert multiplies by a rate and relabels the unit (USD -> VES at the BCV rate).
func (a Amount) Convert(rate decimal.Decimal, to Unit) Amount {
	return Amount{Value: a.Value.Mul(rate), Unit: to}
}

// String renders the full-precision value followed by the unit.
func (a Amount) String() string {
	return a.Value.String() + " " + string(a.Unit)
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string
type RecordID string
type RunID string

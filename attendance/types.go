/*
Package attendance records daily check-ins and sums them over pay periods.

LIFECYCLE:
  A record is created when the employee checks in (upsert on employee+date),
  completed on check-out, and may be re-marked as absent, medical leave or
  vacation. Closing a period locks every record in it; closed records reject
  all further writes.

AGGREGATION:
  Only present records with both clocks participate in hour computations.
  A present record missing a clock is skipped, never an error. The aggregate
  sums the shift classifier's buckets and counts computable records as
  days worked.

SEE ALSO:
  - shift/classifier.go: Per-record classification
  - payroll/service.go: Consumes period summaries
*/
package attendance

import (
	"context"
	"time"

	"github.com/bradycnk/Nominaft/generic"
	"github.com/bradycnk/Nominaft/shift"
)

// =============================================================================
// STATUS
// =============================================================================

type Status string

const (
	StatusPresent      Status = "present"
	StatusAbsent       Status = "absent"
	StatusMedicalLeave Status = "medical-leave"
	StatusVacation     Status = "vacation"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusMedicalLeave, StatusVacation:
		return true
	}
	return false
}

// ParseStatus returns ErrInvalidStatus for unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", generic.ErrInvalidStatus
	}
	return st, nil
}

// =============================================================================
// RECORD
// =============================================================================

// Record is one employee's attendance for one calendar date.
type Record struct {
	ID         generic.RecordID
	EmployeeID generic.EmployeeID
	Date       generic.Date
	Status     Status
	ClockIn    string // HH:MM, empty if not recorded
	ClockOut   string // HH:MM, earlier than ClockIn means overnight
	Notes      string
	Closed     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Computable reports whether the record participates in hour computations.
func (r Record) Computable() bool {
	if r.Status != StatusPresent {
		return false
	}
	_, okIn := shift.ParseClock(r.ClockIn)
	_, okOut := shift.ParseClock(r.ClockOut)
	return okIn && okOut
}

// Breakdown classifies the record. Non-computable records yield zeros.
func (r Record) Breakdown() shift.Breakdown {
	if !r.Computable() {
		return shift.ZeroBreakdown()
	}
	return shift.ClassifyOn(r.ClockIn, r.ClockOut, r.Date)
}

// =============================================================================
// STORE
// =============================================================================

// Store persists attendance records. (EmployeeID, Date) is unique.
type Store interface {
	// GetRecord returns ErrRecordNotFound if no record exists for the day.
	GetRecord(ctx context.Context, employeeID generic.EmployeeID, date generic.Date) (*Record, error)

	// SaveRecord inserts or replaces the record for (EmployeeID, Date).
	SaveRecord(ctx context.Context, r Record) error

	// ListRecords returns records with Date in [period.Start, period.End], ordered by date.
	ListRecords(ctx context.Context, employeeID generic.EmployeeID, period generic.Period) ([]Record, error)

	// ClosePeriod marks every record in the period closed and returns how many changed.
	ClosePeriod(ctx context.Context, employeeID generic.EmployeeID, period generic.Period) (int, error)
}

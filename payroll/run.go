package payroll

import (
	"context"
	"time"

	"github.com/bradycnk/Nominaft/attendance"
	"github.com/bradycnk/Nominaft/employee"
	"github.com/bradycnk/Nominaft/generic"
)

// RunStatus tracks whether a run's pay has been disbursed.
type RunStatus string

const (
	RunCalculated RunStatus = "calculated"
	RunPaid       RunStatus = "paid"
)

// Run is a persisted calculation for one employee and one half-month.
// (EmployeeID, Year, Month, Half) is unique; a calculated run may be
// replaced by re-running, a paid run may not.
type Run struct {
	ID           generic.RunID
	EmployeeID   generic.EmployeeID
	EmployeeName string
	Year         int
	Month        time.Month
	Half         generic.Half
	Period       generic.Period
	Pay          PayBreakdown
	Hours        attendance.PeriodAggregate
	Parameters   Parameters // as calculated
	Status       RunStatus
	CreatedAt    time.Time
	PaidAt       *time.Time
}

// RunStore persists payroll runs.
type RunStore interface {
	// SaveRuns inserts or replaces each run for (EmployeeID, Year, Month, Half).
	// Either every run is saved or none is. Returns ErrRunAlreadyPaid if any
	// existing run is paid.
	SaveRuns(ctx context.Context, runs []Run) error

	// GetRun returns ErrRunNotFound if the ID doesn't exist.
	GetRun(ctx context.Context, id generic.RunID) (*Run, error)

	// ListRuns returns the runs of one half-month ordered by employee name.
	ListRuns(ctx context.Context, year int, month time.Month, half generic.Half) ([]Run, error)

	// MarkRunPaid returns ErrRunAlreadyPaid if the run is already paid.
	MarkRunPaid(ctx context.Context, id generic.RunID, at time.Time) error
}

// Receipt is everything the receipt renderer needs for one employee.
// It is plain data; formatting happens elsewhere.
type Receipt struct {
	Employee   employee.Employee
	Period     generic.Period
	Half       generic.Half
	Attendance attendance.Summary
	Pay        PayBreakdown
	Parameters Parameters
	RunID      generic.RunID // empty for previews
}

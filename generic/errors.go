/*
errors.go - Centralized error types for the payroll engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Domain packages wrap these errors with additional context and the API
  layer maps them to HTTP status codes.

ERROR CATEGORIES:
  1. Lookup errors - Missing employees, records, runs
  2. Validation errors - Malformed clocks, periods, parameters
  3. State errors - Writes against closed records or paid runs
  4. Collaborator errors - Exchange-rate provider failures

NOTE:
  The shift classifier and the payroll calculator never return errors.
  These types belong to the services and stores around them.

SEE ALSO:
  - attendance/service.go: Closed-record checks
  - payroll/parameters.go: Parameter validation
  - api/handlers.go: Error-to-status mapping
*/
package generic

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrEmployeeInactive is returned when attendance is recorded for an
	// employee that is no longer active.
	ErrEmployeeInactive = errors.New("employee is inactive")

	// ErrRecordNotFound is returned when no attendance record exists for the day.
	ErrRecordNotFound = errors.New("attendance record not found")

	// ErrRecordClosed is returned when writing to an administratively closed record.
	ErrRecordClosed = errors.New("attendance record is closed")

	// ErrMissingClockIn is returned on check-out without a stored check-in.
	ErrMissingClockIn = errors.New("no clock-in recorded")

	// ErrInvalidClock is returned when a wall-clock time is not HH:MM.
	ErrInvalidClock = errors.New("invalid clock time")

	// ErrZeroLengthShift is returned when clock-out equals clock-in.
	ErrZeroLengthShift = errors.New("clock-out equals clock-in")

	// ErrInvalidStatus is returned for an unknown attendance status.
	ErrInvalidStatus = errors.New("invalid attendance status")

	// ErrInvalidPeriod is returned when a period is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrInvalidParameters is returned when pay parameters are unusable.
	ErrInvalidParameters = errors.New("invalid pay parameters")

	// ErrParametersNotFound is returned before parameters are first configured.
	ErrParametersNotFound = errors.New("pay parameters not configured")

	// ErrRunNotFound is returned when a payroll run doesn't exist.
	ErrRunNotFound = errors.New("payroll run not found")

	// ErrRunAlreadyPaid is returned when replacing or re-paying a paid run.
	ErrRunAlreadyPaid = errors.New("payroll run already paid")

	// ErrDuplicateEmployee is returned when an employee ID already exists.
	ErrDuplicateEmployee = errors.New("employee already exists")

	// ErrRateUnavailable is returned when the exchange-rate provider fails.
	ErrRateUnavailable = errors.New("exchange rate unavailable")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ClosedRecordError identifies the closed record a write was attempted on.
type ClosedRecordError struct {
	EmployeeID EmployeeID
	Date       Date
}

func (e *ClosedRecordError) Error() string {
	return fmt.Sprintf("attendance for %s on %s is closed", e.EmployeeID, e.Date)
}

func (e *ClosedRecordError) Unwrap() error {
	return ErrRecordClosed
}

// ParameterError lists every invalid field of a parameter or employee set.
type ParameterError struct {
	Fields map[string]string
}

func (e *ParameterError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "invalid pay parameters: " + strings.Join(parts, "; ")
}

func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameters
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidClock) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidParameters) ||
		errors.Is(err, ErrMissingClockIn) ||
		errors.Is(err, ErrZeroLengthShift) ||
		errors.Is(err, ErrEmployeeInactive)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrRecordNotFound) ||
		errors.Is(err, ErrRunNotFound) ||
		errors.Is(err, ErrParametersNotFound)
}

// IsConflict returns true if the error is a state conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrRecordClosed) ||
		errors.Is(err, ErrRunAlreadyPaid) ||
		errors.Is(err, ErrDuplicateEmployee)
}

package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bradycnk/Nominaft/employee"
	"github.com/bradycnk/Nominaft/events"
	"github.com/bradycnk/Nominaft/generic"
	"github.com/bradycnk/Nominaft/logger"
	"github.com/bradycnk/Nominaft/shift"
)

// Service applies the attendance lifecycle on top of a Store.
type Service struct {
	records   Store
	employees employee.Store
	events    *events.Emitter
	logger    *logger.Logger
	now       func() time.Time
}

func NewService(records Store, employees employee.Store, emitter *events.Emitter, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		records:   records,
		employees: employees,
		events:    emitter,
		logger:    log.WithComponent("attendance"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CheckIn records the clock-in for the day. A second check-in on the same
// day replaces the first and clears any clock-out.
func (s *Service) CheckIn(ctx context.Context, employeeID generic.EmployeeID, date generic.Date, clockIn string) (*Record, error) {
	if err := s.requireActive(ctx, employeeID); err != nil {
		return nil, err
	}
	clock, err := shift.NormalizeClock(clockIn)
	if err != nil {
		return nil, fmt.Errorf("clock-in %q: %w", clockIn, err)
	}

	rec, err := s.openRecord(ctx, employeeID, date)
	if err != nil {
		return nil, err
	}
	rec.Status = StatusPresent
	rec.ClockIn = clock
	rec.ClockOut = ""

	if err := s.save(ctx, rec); err != nil {
		return nil, err
	}

	s.logger.WithEmployee(string(employeeID)).Info().
		Str("date", date.String()).
		Str("clock_in", clock).
		Msg("checked in")
	return rec, nil
}

// CheckOut records the clock-out. A clock-out earlier than the clock-in is
// an overnight shift; an equal one is rejected.
func (s *Service) CheckOut(ctx context.Context, employeeID generic.EmployeeID, date generic.Date, clockOut string) (*Record, error) {
	clock, err := shift.NormalizeClock(clockOut)
	if err != nil {
		return nil, fmt.Errorf("clock-out %q: %w", clockOut, err)
	}

	rec, err := s.records.GetRecord(ctx, employeeID, date)
	if errors.Is(err, generic.ErrRecordNotFound) {
		return nil, generic.ErrMissingClockIn
	}
	if err != nil {
		return nil, err
	}
	if rec.Closed {
		return nil, &generic.ClosedRecordError{EmployeeID: employeeID, Date: date}
	}
	if rec.Status != StatusPresent || rec.ClockIn == "" {
		return nil, generic.ErrMissingClockIn
	}
	if rec.ClockIn == clock {
		return nil, generic.ErrZeroLengthShift
	}

	rec.ClockOut = clock
	if err := s.save(ctx, rec); err != nil {
		return nil, err
	}

	b := rec.Breakdown()
	s.logger.WithEmployee(string(employeeID)).Info().
		Str("date", date.String()).
		Str("clock_out", clock).
		Str("shift_type", b.Type.String()).
		Str("hours", b.Duration.Value.String()).
		Msg("checked out")
	return rec, nil
}

// MarkStatus sets the day's status. Non-present statuses clear both clocks.
func (s *Service) MarkStatus(ctx context.Context, employeeID generic.EmployeeID, date generic.Date, status Status, notes string) (*Record, error) {
	if !status.Valid() {
		return nil, generic.ErrInvalidStatus
	}
	if _, err := s.employees.GetEmployee(ctx, employeeID); err != nil {
		return nil, err
	}

	rec, err := s.openRecord(ctx, employeeID, date)
	if err != nil {
		return nil, err
	}
	rec.Status = status
	rec.Notes = notes
	if status != StatusPresent {
		rec.ClockIn = ""
		rec.ClockOut = ""
	}

	if err := s.save(ctx, rec); err != nil {
		return nil, err
	}

	s.logger.WithEmployee(string(employeeID)).Info().
		Str("date", date.String()).
		Str("status", string(status)).
		Msg("attendance status set")
	return rec, nil
}

// Records lists the employee's records in the period.
func (s *Service) Records(ctx context.Context, employeeID generic.EmployeeID, period generic.Period) ([]Record, error) {
	if _, err := s.employees.GetEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	return s.records.ListRecords(ctx, employeeID, period)
}

// Summarize returns the period aggregate plus status counts.
func (s *Service) Summarize(ctx context.Context, employeeID generic.EmployeeID, period generic.Period) (Summary, error) {
	records, err := s.Records(ctx, employeeID, period)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(employeeID, period, records), nil
}

// ClosePeriod locks every record in the period.
func (s *Service) ClosePeriod(ctx context.Context, employeeID generic.EmployeeID, period generic.Period) (int, error) {
	if _, err := s.employees.GetEmployee(ctx, employeeID); err != nil {
		return 0, err
	}

	n, err := s.records.ClosePeriod(ctx, employeeID, period)
	if err != nil {
		return 0, fmt.Errorf("close period %s: %w", period, err)
	}

	s.logger.WithEmployee(string(employeeID)).Info().
		Str("period", period.String()).
		Int("records", n).
		Msg("attendance period closed")

	s.events.Emit(ctx, events.EventPeriodClosed, events.PeriodClosed{
		EmployeeID: string(employeeID),
		Start:      period.Start.String(),
		End:        period.End.String(),
		Records:    n,
	})
	return n, nil
}

func (s *Service) requireActive(ctx context.Context, employeeID generic.EmployeeID) error {
	emp, err := s.employees.GetEmployee(ctx, employeeID)
	if err != nil {
		return err
	}
	if !emp.Active {
		return generic.ErrEmployeeInactive
	}
	return nil
}

// openRecord loads the day's record, or starts a new one, and refuses
// closed records.
func (s *Service) openRecord(ctx context.Context, employeeID generic.EmployeeID, date generic.Date) (*Record, error) {
	rec, err := s.records.GetRecord(ctx, employeeID, date)
	switch {
	case errors.Is(err, generic.ErrRecordNotFound):
		return &Record{
			ID:         generic.RecordID(uuid.NewString()),
			EmployeeID: employeeID,
			Date:       date,
			CreatedAt:  s.now(),
		}, nil
	case err != nil:
		return nil, err
	case rec.Closed:
		return nil, &generic.ClosedRecordError{EmployeeID: employeeID, Date: date}
	}
	return rec, nil
}

func (s *Service) save(ctx context.Context, rec *Record) error {
	rec.UpdatedAt = s.now()
	if err := s.records.SaveRecord(ctx, *rec); err != nil {
		s.logger.WithEmployee(string(rec.EmployeeID)).WithError(err).Error().
			Str("date", rec.Date.String()).
			Msg("failed to save attendance record")
		return fmt.Errorf("save attendance: %w", err)
	}
	return nil
}

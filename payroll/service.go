package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bradycnk/Nominaft/attendance"
	"github.com/bradycnk/Nominaft/employee"
	"github.com/bradycnk/Nominaft/events"
	"github.com/bradycnk/Nominaft/generic"
	"github.com/bradycnk/Nominaft/logger"
)

// Service runs the calculator over every active employee for a half-month.
//
// Inputs are read in one batch (parameters, employees, then each employee's
// attendance) before any calculation starts.
type Service struct {
	employees  employee.Store
	attendance attendance.Store
	parameters ParameterStore
	runs       RunStore
	events     *events.Emitter
	logger     *logger.Logger
	periodDays int
	now        func() time.Time
}

// ServiceConfig wires a Service.
type ServiceConfig struct {
	Employees  employee.Store
	Attendance attendance.Store
	Parameters ParameterStore
	Runs       RunStore
	Events     *events.Emitter
	Logger     *logger.Logger
	PeriodDays int // 0 means DefaultPeriodDays
}

func NewService(cfg ServiceConfig) *Service {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	days := cfg.PeriodDays
	if days <= 0 {
		days = DefaultPeriodDays
	}
	return &Service{
		employees:  cfg.Employees,
		attendance: cfg.Attendance,
		parameters: cfg.Parameters,
		runs:       cfg.Runs,
		events:     cfg.Events,
		logger:     log.WithComponent("payroll"),
		periodDays: days,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// PeriodDays is the number of days a half-month run pays.
func (s *Service) PeriodDays() int { return s.periodDays }

// Parameters returns the current, validated parameter set.
func (s *Service) Parameters(ctx context.Context) (*Parameters, error) {
	p, err := s.parameters.GetParameters(ctx)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Preview calculates receipts for every active employee without saving.
func (s *Service) Preview(ctx context.Context, year int, month time.Month, half generic.Half, asOf generic.Date) ([]Receipt, error) {
	period, err := generic.HalfMonth(year, month, half)
	if err != nil {
		return nil, err
	}
	params, err := s.Parameters(ctx)
	if err != nil {
		return nil, err
	}
	emps, err := s.employees.ListEmployees(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}

	receipts := make([]Receipt, 0, len(emps))
	for _, emp := range emps {
		r, err := s.receipt(ctx, emp, *params, period, half, asOf)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, r)
	}
	return receipts, nil
}

// ReceiptFor calculates one employee's receipt. If a run exists for the
// half-month the receipt shows the run's pay, hours and parameters instead
// of recalculating them.
func (s *Service) ReceiptFor(ctx context.Context, employeeID generic.EmployeeID, year int, month time.Month, half generic.Half, asOf generic.Date) (*Receipt, error) {
	period, err := generic.HalfMonth(year, month, half)
	if err != nil {
		return nil, err
	}
	params, err := s.Parameters(ctx)
	if err != nil {
		return nil, err
	}
	emp, err := s.employees.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	r, err := s.receipt(ctx, *emp, *params, period, half, asOf)
	if err != nil {
		return nil, err
	}

	runs, err := s.runs.ListRuns(ctx, year, month, half)
	if err != nil {
		return nil, err
	}
	for _, run := range runs {
		if run.EmployeeID == employeeID {
			r.RunID = run.ID
			r.Pay = run.Pay
			r.Attendance.Hours = run.Hours
			r.Parameters = run.Parameters
		}
	}
	return &r, nil
}

// Run calculates and persists runs for every active employee. Existing
// calculated runs are replaced; if any employee's run is already paid the
// whole call fails before anything is written.
func (s *Service) Run(ctx context.Context, year int, month time.Month, half generic.Half, asOf generic.Date) ([]Run, error) {
	receipts, err := s.Preview(ctx, year, month, half, asOf)
	if err != nil {
		return nil, err
	}

	existing, err := s.runs.ListRuns(ctx, year, month, half)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	prior := make(map[generic.EmployeeID]Run, len(existing))
	for _, r := range existing {
		if r.Status == RunPaid {
			return nil, fmt.Errorf("%s %d-%02d %s: %w", r.EmployeeID, year, month, half, generic.ErrRunAlreadyPaid)
		}
		prior[r.EmployeeID] = r
	}

	now := s.now()
	runs := make([]Run, 0, len(receipts))
	total := generic.ZeroAmount(generic.UnitVES)

	for _, rc := range receipts {
		id := generic.RunID(uuid.NewString())
		if old, ok := prior[rc.Employee.ID]; ok {
			id = old.ID
		}
		run := Run{
			ID:           id,
			EmployeeID:   rc.Employee.ID,
			EmployeeName: rc.Employee.FullName(),
			Year:         year,
			Month:        month,
			Half:         half,
			Period:       rc.Period,
			Pay:          rc.Pay,
			Hours:        rc.Attendance.Hours,
			Parameters:   rc.Parameters,
			Status:       RunCalculated,
			CreatedAt:    now,
		}
		runs = append(runs, run)
		total = total.Add(run.Pay.NetPay)
	}

	if err := s.runs.SaveRuns(ctx, runs); err != nil {
		s.logger.Error().Err(err).Int("year", year).Int("month", int(month)).Str("half", half.String()).Msg("failed to save payroll runs")
		return nil, fmt.Errorf("save runs: %w", err)
	}

	s.logger.Info().
		Int("year", year).
		Int("month", int(month)).
		Str("half", half.String()).
		Int("employees", len(runs)).
		Str("total_net", total.Value.String()).
		Msg("payroll run completed")

	ids := make([]string, len(runs))
	for i, r := range runs {
		ids[i] = string(r.ID)
	}
	s.events.Emit(ctx, events.EventRunCompleted, events.RunCompleted{
		Year:      year,
		Month:     int(month),
		Half:      int(half),
		RunIDs:    ids,
		TotalNet:  total.Value.String(),
		Employees: len(runs),
	})
	return runs, nil
}

// Runs lists the persisted runs of a half-month.
func (s *Service) Runs(ctx context.Context, year int, month time.Month, half generic.Half) ([]Run, error) {
	if _, err := generic.HalfMonth(year, month, half); err != nil {
		return nil, err
	}
	return s.runs.ListRuns(ctx, year, month, half)
}

// MarkPaid marks a run as disbursed. Paid runs are immutable.
func (s *Service) MarkPaid(ctx context.Context, id generic.RunID) (*Run, error) {
	if err := s.runs.MarkRunPaid(ctx, id, s.now()); err != nil {
		return nil, err
	}
	run, err := s.runs.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("run_id", string(id)).Str("employee_id", string(run.EmployeeID)).Msg("payroll run paid")
	s.events.Emit(ctx, events.EventRunPaid, events.RunPaid{
		RunID:      string(run.ID),
		EmployeeID: string(run.EmployeeID),
		NetPay:     run.Pay.NetPay.Value.String(),
	})
	return run, nil
}

// Totals sums net pay, deductions and meal vouchers across runs.
type Totals struct {
	PeriodPay       decimal.Decimal
	MealVoucher     decimal.Decimal
	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal
}

func SumRuns(runs []Run) Totals {
	var t Totals
	for _, r := range runs {
		t.PeriodPay = t.PeriodPay.Add(r.Pay.PeriodPay.Value)
		t.MealVoucher = t.MealVoucher.Add(r.Pay.MealVoucher.Value)
		t.TotalDeductions = t.TotalDeductions.Add(r.Pay.TotalDeductions.Value)
		t.NetPay = t.NetPay.Add(r.Pay.NetPay.Value)
	}
	return t
}

func (s *Service) receipt(ctx context.Context, emp employee.Employee, params Parameters, period generic.Period, half generic.Half, asOf generic.Date) (Receipt, error) {
	if err := emp.Validate(); err != nil {
		return Receipt{}, fmt.Errorf("employee %s: %w", emp.ID, err)
	}

	records, err := s.attendance.ListRecords(ctx, emp.ID, period)
	if err != nil && !errors.Is(err, generic.ErrRecordNotFound) {
		return Receipt{}, fmt.Errorf("attendance for %s: %w", emp.ID, err)
	}

	return Receipt{
		Employee:   emp,
		Period:     period,
		Half:       half,
		Attendance: attendance.Summarize(emp.ID, period, records),
		Pay:        Calculate(emp, params, s.periodDays, half, asOf),
		Parameters: params,
	}, nil
}

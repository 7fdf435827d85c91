/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the domain model from the external contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

NUMBERS:
  Money, hours and rates are decimal strings ("9885.375"), never floats.

VALIDATION:
  Request types carry go-playground/validator tags. Handlers call
  validateRequest before converting to domain types; domain validation
  (Employee.Validate, Parameters.Validate) still runs afterwards.

SEE ALSO:
  - handlers.go: Uses these types
  - validation.go: Tag validation and field messages
*/
package api

import (
	"time"

	"github.com/bradycnk/Nominaft/attendance"
	"github.com/bradycnk/Nominaft/employee"
	"github.com/bradycnk/Nominaft/exchange"
	"github.com/bradycnk/Nominaft/payroll"
	"github.com/bradycnk/Nominaft/shift"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID              string `json:"id"`
	NationalID      string `json:"national_id"`
	TaxID           string `json:"tax_id,omitempty"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	FullName        string `json:"full_name"`
	Position        string `json:"position,omitempty"`
	Email           string `json:"email,omitempty"`
	ForeignPayUSD   string `json:"foreign_pay_usd"`
	LocalBasePayVES string `json:"local_base_pay_ves"`
	HireDate        string `json:"hire_date"`
	Active          bool   `json:"active"`
	CreatedAt       string `json:"created_at,omitempty"`
}

// CreateEmployeeRequest is the request to create an employee.
// ID is generated when empty.
type CreateEmployeeRequest struct {
	ID              string `json:"id"`
	NationalID      string `json:"national_id" validate:"required,max=20"`
	TaxID           string `json:"tax_id" validate:"max=20"`
	FirstName       string `json:"first_name" validate:"required,max=100"`
	LastName        string `json:"last_name" validate:"required,max=100"`
	Position        string `json:"position" validate:"max=100"`
	Email           string `json:"email" validate:"omitempty,email"`
	ForeignPayUSD   string `json:"foreign_pay_usd" validate:"required,numeric"`
	LocalBasePayVES string `json:"local_base_pay_ves" validate:"omitempty,numeric"`
	HireDate        string `json:"hire_date" validate:"required,datetime=2006-01-02"`
	Active          *bool  `json:"active"`
}

// UpdateEmployeeRequest replaces an employee's editable fields.
// Active is left unchanged when omitted.
type UpdateEmployeeRequest struct {
	NationalID      string `json:"national_id" validate:"required,max=20"`
	TaxID           string `json:"tax_id" validate:"max=20"`
	FirstName       string `json:"first_name" validate:"required,max=100"`
	LastName        string `json:"last_name" validate:"required,max=100"`
	Position        string `json:"position" validate:"max=100"`
	Email           string `json:"email" validate:"omitempty,email"`
	ForeignPayUSD   string `json:"foreign_pay_usd" validate:"required,numeric"`
	LocalBasePayVES string `json:"local_base_pay_ves" validate:"omitempty,numeric"`
	HireDate        string `json:"hire_date" validate:"required,datetime=2006-01-02"`
	Active          *bool  `json:"active"`
}

func toEmployeeDTO(e employee.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:              string(e.ID),
		NationalID:      e.NationalID,
		TaxID:           e.TaxID,
		FirstName:       e.FirstName,
		LastName:        e.LastName,
		FullName:        e.FullName(),
		Position:        e.Position,
		Email:           e.Email,
		ForeignPayUSD:   e.ForeignPay.Value.String(),
		LocalBasePayVES: e.LocalBasePay.Value.String(),
		HireDate:        e.HireDate.String(),
		Active:          e.Active,
	}
	if !e.CreatedAt.IsZero() {
		dto.CreatedAt = e.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

// =============================================================================
// ATTENDANCE
// =============================================================================

// BreakdownDTO is a classified shift.
type BreakdownDTO struct {
	Type               string `json:"type"`
	Duration           string `json:"duration"`
	NormalHours        string `json:"normal_hours"`
	DayOvertimeHours   string `json:"day_overtime_hours"`
	NightOvertimeHours string `json:"night_overtime_hours"`
	RestDayHours       string `json:"rest_day_hours"`
	NightPremiumHours  string `json:"night_premium_hours"`
}

func toBreakdownDTO(b shift.Breakdown) BreakdownDTO {
	return BreakdownDTO{
		Type:               b.Type.String(),
		Duration:           b.Duration.Value.String(),
		NormalHours:        b.NormalHours.Value.String(),
		DayOvertimeHours:   b.DayOvertimeHours.Value.String(),
		NightOvertimeHours: b.NightOvertimeHours.Value.String(),
		RestDayHours:       b.RestDayHours.Value.String(),
		NightPremiumHours:  b.NightPremiumHours.Value.String(),
	}
}

// AttendanceDTO is one day's record. Breakdown is present for
// computable records only.
type AttendanceDTO struct {
	ID         string        `json:"id"`
	EmployeeID string        `json:"employee_id"`
	Date       string        `json:"date"`
	Status     string        `json:"status"`
	ClockIn    string        `json:"clock_in,omitempty"`
	ClockOut   string        `json:"clock_out,omitempty"`
	Notes      string        `json:"notes,omitempty"`
	Closed     bool          `json:"closed"`
	Breakdown  *BreakdownDTO `json:"breakdown,omitempty"`
}

func toAttendanceDTO(r attendance.Record) AttendanceDTO {
	dto := AttendanceDTO{
		ID:         string(r.ID),
		EmployeeID: string(r.EmployeeID),
		Date:       r.Date.String(),
		Status:     string(r.Status),
		ClockIn:    r.ClockIn,
		ClockOut:   r.ClockOut,
		Notes:      r.Notes,
		Closed:     r.Closed,
	}
	if r.Computable() {
		b := toBreakdownDTO(r.Breakdown())
		dto.Breakdown = &b
	}
	return dto
}

// ClockRequest is the body of check-in and check-out.
type ClockRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Time string `json:"time" validate:"required"`
}

// StatusRequest marks a day absent, on leave, on vacation or present.
type StatusRequest struct {
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Status string `json:"status" validate:"required,oneof=present absent medical-leave vacation"`
	Notes  string `json:"notes" validate:"max=500"`
}

// AggregateDTO is the hour totals of a period.
type AggregateDTO struct {
	DaysWorked         int    `json:"days_worked"`
	TotalHours         string `json:"total_hours"`
	NormalHours        string `json:"normal_hours"`
	DayOvertimeHours   string `json:"day_overtime_hours"`
	NightOvertimeHours string `json:"night_overtime_hours"`
	RestDayHours       string `json:"rest_day_hours"`
	NightPremiumHours  string `json:"night_premium_hours"`
}

func toAggregateDTO(a attendance.PeriodAggregate) AggregateDTO {
	return AggregateDTO{
		DaysWorked:         a.DaysWorked,
		TotalHours:         a.TotalHours.Value.String(),
		NormalHours:        a.NormalHours.Value.String(),
		DayOvertimeHours:   a.DayOvertimeHours.Value.String(),
		NightOvertimeHours: a.NightOvertimeHours.Value.String(),
		RestDayHours:       a.RestDayHours.Value.String(),
		NightPremiumHours:  a.NightPremiumHours.Value.String(),
	}
}

// SummaryDTO is an employee's attendance for one half-month.
type SummaryDTO struct {
	EmployeeID       string       `json:"employee_id"`
	From             string       `json:"from"`
	To               string       `json:"to"`
	Hours            AggregateDTO `json:"hours"`
	Absences         int          `json:"absences"`
	MedicalLeaveDays int          `json:"medical_leave_days"`
	VacationDays     int          `json:"vacation_days"`
	Records          int          `json:"records"`
	Closed           bool         `json:"closed"`
}

func toSummaryDTO(s attendance.Summary) SummaryDTO {
	return SummaryDTO{
		EmployeeID:       string(s.EmployeeID),
		From:             s.Period.Start.String(),
		To:               s.Period.End.String(),
		Hours:            toAggregateDTO(s.Hours),
		Absences:         s.Absences,
		MedicalLeaveDays: s.MedicalLeaveDays,
		VacationDays:     s.VacationDays,
		Records:          s.Records,
		Closed:           s.Closed,
	}
}

// ClosePeriodResponse reports how many records were closed.
type ClosePeriodResponse struct {
	EmployeeID string `json:"employee_id"`
	From       string `json:"from"`
	To         string `json:"to"`
	Closed     int    `json:"closed"`
}

// ClassifyRequest classifies a shift without storing anything.
type ClassifyRequest struct {
	ClockIn  string `json:"clock_in" validate:"required"`
	ClockOut string `json:"clock_out" validate:"required"`
	Date     string `json:"date" validate:"required"`
}

// =============================================================================
// PARAMETERS
// =============================================================================

// ParametersDTO is the current pay parameter set.
type ParametersDTO struct {
	ExchangeRate          string `json:"exchange_rate"`
	MealVoucherUSD        string `json:"meal_voucher_usd"`
	MinimumWageVES        string `json:"minimum_wage_ves"`
	BaseVacationDays      int    `json:"base_vacation_days"`
	AnnualProfitShareDays int    `json:"annual_profit_share_days"`
	UpdatedAt             string `json:"updated_at,omitempty"`
}

func toParametersDTO(p payroll.Parameters) ParametersDTO {
	dto := ParametersDTO{
		ExchangeRate:          p.ExchangeRate.String(),
		MealVoucherUSD:        p.MealVoucherForeign.Value.String(),
		MinimumWageVES:        p.MinimumWage.Value.String(),
		BaseVacationDays:      p.BaseVacationDays,
		AnnualProfitShareDays: p.AnnualProfitShareDays,
	}
	if !p.UpdatedAt.IsZero() {
		dto.UpdatedAt = p.UpdatedAt.Format(time.RFC3339)
	}
	return dto
}

// UpdateParametersRequest replaces the parameter set.
type UpdateParametersRequest struct {
	ExchangeRate          string `json:"exchange_rate" validate:"required,numeric"`
	MealVoucherUSD        string `json:"meal_voucher_usd" validate:"required,numeric"`
	MinimumWageVES        string `json:"minimum_wage_ves" validate:"required,numeric"`
	BaseVacationDays      int    `json:"base_vacation_days" validate:"min=0,max=30"`
	AnnualProfitShareDays int    `json:"annual_profit_share_days" validate:"min=0"`
}

// RateRefreshDTO reports a refresh attempt. Error is set when the
// provider failed and the previous rate was kept.
type RateRefreshDTO struct {
	Rate     string `json:"rate"`
	Previous string `json:"previous"`
	Updated  bool   `json:"updated"`
	Fallback bool   `json:"fallback"`
	Error    string `json:"error,omitempty"`
}

func toRateRefreshDTO(r exchange.Result, err error) RateRefreshDTO {
	dto := RateRefreshDTO{
		Rate:     r.Rate.String(),
		Previous: r.Previous.String(),
		Updated:  r.Updated,
		Fallback: r.Fallback,
	}
	if err != nil {
		dto.Error = err.Error()
	}
	return dto
}

// =============================================================================
// PAYROLL
// =============================================================================

// CalculateRequest runs the calculator for one employee. Either EmployeeID
// or ForeignPayUSD and HireDate must be given. Empty overrides fall back to
// the stored parameters.
type CalculateRequest struct {
	EmployeeID    string `json:"employee_id"`
	ForeignPayUSD string `json:"foreign_pay_usd" validate:"omitempty,numeric"`
	HireDate      string `json:"hire_date" validate:"omitempty,datetime=2006-01-02"`
	ExchangeRate  string `json:"exchange_rate" validate:"omitempty,numeric"`
	PeriodDays    int    `json:"period_days" validate:"omitempty,min=1,max=31"`
	Half          int    `json:"half" validate:"required,oneof=1 2"`
	AsOf          string `json:"as_of" validate:"omitempty,datetime=2006-01-02"`
}

// PayBreakdownDTO is the itemised calculation. All money is VES.
type PayBreakdownDTO struct {
	ExchangeRate            string `json:"exchange_rate"`
	PeriodDays              int    `json:"period_days"`
	Half                    int    `json:"half"`
	MonthlyLocalPay         string `json:"monthly_local_pay"`
	DailyNormalPay          string `json:"daily_normal_pay"`
	PeriodPay               string `json:"period_pay"`
	SeniorityYears          int    `json:"seniority_years"`
	VacationBonusDays       int    `json:"vacation_bonus_days"`
	VacationAccrualDaily    string `json:"vacation_accrual_daily"`
	ProfitShareAccrualDaily string `json:"profit_share_accrual_daily"`
	IntegralDailyPay        string `json:"integral_daily_pay"`
	DeductionCap            string `json:"deduction_cap"`
	TaxableBase             string `json:"taxable_base"`
	SocialSecurity          string `json:"ivss"`
	UnemploymentInsurance   string `json:"spf"`
	HousingSavings          string `json:"faov"`
	TotalDeductions         string `json:"total_deductions"`
	MealVoucher             string `json:"meal_voucher"`
	NetPay                  string `json:"net_pay"`
}

func toPayBreakdownDTO(p payroll.PayBreakdown) PayBreakdownDTO {
	return PayBreakdownDTO{
		ExchangeRate:            p.ExchangeRate.String(),
		PeriodDays:              p.PeriodDays,
		Half:                    int(p.Half),
		MonthlyLocalPay:         p.MonthlyLocalPay.Value.String(),
		DailyNormalPay:          p.DailyNormalPay.Value.String(),
		PeriodPay:               p.PeriodPay.Value.String(),
		SeniorityYears:          p.SeniorityYears,
		VacationBonusDays:       p.VacationBonusDays,
		VacationAccrualDaily:    p.VacationAccrualDaily.Value.String(),
		ProfitShareAccrualDaily: p.ProfitShareAccrualDaily.Value.String(),
		IntegralDailyPay:        p.IntegralDailyPay.Value.String(),
		DeductionCap:            p.DeductionCap.Value.String(),
		TaxableBase:             p.TaxableBase.Value.String(),
		SocialSecurity:          p.SocialSecurity.Value.String(),
		UnemploymentInsurance:   p.UnemploymentInsurance.Value.String(),
		HousingSavings:          p.HousingSavings.Value.String(),
		TotalDeductions:         p.TotalDeductions.Value.String(),
		MealVoucher:             p.MealVoucher.Value.String(),
		NetPay:                  p.NetPay.Value.String(),
	}
}

// ReceiptDTO carries everything a receipt renderer needs.
type ReceiptDTO struct {
	RunID      string          `json:"run_id,omitempty"`
	Employee   EmployeeDTO     `json:"employee"`
	From       string          `json:"from"`
	To         string          `json:"to"`
	Half       int             `json:"half"`
	Attendance SummaryDTO      `json:"attendance"`
	Pay        PayBreakdownDTO `json:"pay"`
	Parameters ParametersDTO   `json:"parameters"`
}

func toReceiptDTO(r payroll.Receipt) ReceiptDTO {
	return ReceiptDTO{
		RunID:      string(r.RunID),
		Employee:   toEmployeeDTO(r.Employee),
		From:       r.Period.Start.String(),
		To:         r.Period.End.String(),
		Half:       int(r.Half),
		Attendance: toSummaryDTO(r.Attendance),
		Pay:        toPayBreakdownDTO(r.Pay),
		Parameters: toParametersDTO(r.Parameters),
	}
}

// RunDTO is a persisted payroll run.
type RunDTO struct {
	ID           string          `json:"id"`
	EmployeeID   string          `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	Half         int             `json:"half"`
	From         string          `json:"from"`
	To           string          `json:"to"`
	Status       string          `json:"status"`
	Pay          PayBreakdownDTO `json:"pay"`
	Hours        AggregateDTO    `json:"hours"`
	CreatedAt    string          `json:"created_at"`
	PaidAt       *string         `json:"paid_at,omitempty"`
}

func toRunDTO(r payroll.Run) RunDTO {
	dto := RunDTO{
		ID:           string(r.ID),
		EmployeeID:   string(r.EmployeeID),
		EmployeeName: r.EmployeeName,
		Year:         r.Year,
		Month:        int(r.Month),
		Half:         int(r.Half),
		From:         r.Period.Start.String(),
		To:           r.Period.End.String(),
		Status:       string(r.Status),
		Pay:          toPayBreakdownDTO(r.Pay),
		Hours:        toAggregateDTO(r.Hours),
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
	}
	if r.PaidAt != nil {
		s := r.PaidAt.Format(time.RFC3339)
		dto.PaidAt = &s
	}
	return dto
}

// TotalsDTO sums a set of runs.
type TotalsDTO struct {
	PeriodPay       string `json:"period_pay"`
	TotalDeductions string `json:"total_deductions"`
	MealVoucher     string `json:"meal_voucher"`
	NetPay          string `json:"net_pay"`
}

// RunsResponse lists the runs of one half-month.
type RunsResponse struct {
	Runs   []RunDTO  `json:"runs"`
	Totals TotalsDTO `json:"totals"`
}

func toRunsResponse(runs []payroll.Run) RunsResponse {
	resp := RunsResponse{Runs: make([]RunDTO, len(runs))}
	for i, r := range runs {
		resp.Runs[i] = toRunDTO(r)
	}
	t := payroll.SumRuns(runs)
	resp.Totals = TotalsDTO{
		PeriodPay:       t.PeriodPay.String(),
		TotalDeductions: t.TotalDeductions.String(),
		MealVoucher:     t.MealVoucher.String(),
		NetPay:          t.NetPay.String(),
	}
	return resp
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

/*
handlers.go - HTTP API handlers for the payroll service

PURPOSE:
  Exposes employees, attendance, shift classification, pay parameters and
  payroll runs over REST. Handlers parse and validate the request, delegate
  to the domain services and serialise the result.

ENDPOINTS:
  Employees:
    GET    /api/employees                          List employees (?active=true)
    POST   /api/employees                          Create employee
    GET    /api/employees/{id}                     Get employee

  Attendance:
    GET    /api/employees/{id}/attendance          Records (?from=&to=, default current half)
    POST   /api/employees/{id}/attendance/check-in
    POST   /api/employees/{id}/attendance/check-out
    POST   /api/employees/{id}/attendance/status
    GET    /api/employees/{id}/periods/{year}/{month}/{half}
    POST   /api/employees/{id}/periods/{year}/{month}/{half}/close
    GET    /api/employees/{id}/periods/{year}/{month}/{half}/receipt

  Shifts:
    POST   /api/shifts/classify                    Classify without storing

  Parameters and payroll: see payroll.go.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Conflict (closed record, paid run, duplicate)
  - 502: Exchange-rate provider unavailable
  - 500: Internal errors

SECURITY NOTE:
  No authentication. Deploy behind the pharmacy's authenticating proxy.

SEE ALSO:
  - dto.go: Request/response data structures
  - payroll.go: Parameter and payroll handlers
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bradycnk/Nominaft/attendance"
	"github.com/bradycnk/Nominaft/employee"
	"github.com/bradycnk/Nominaft/exchange"
	"github.com/bradycnk/Nominaft/generic"
	"github.com/bradycnk/Nominaft/logger"
	"github.com/bradycnk/Nominaft/payroll"
	"github.com/bradycnk/Nominaft/shift"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	employees  employee.Store
	parameters payroll.ParameterStore
	attendance *attendance.Service
	payroll    *payroll.Service
	refresher  *exchange.Refresher
	health     func(ctx context.Context) error

	log *logger.Logger
	now func() time.Time
}

// HandlerConfig wires a Handler. Refresher and Health are optional.
type HandlerConfig struct {
	Employees  employee.Store
	Parameters payroll.ParameterStore
	Attendance *attendance.Service
	Payroll    *payroll.Service
	Refresher  *exchange.Refresher
	Health     func(ctx context.Context) error
	Logger     *logger.Logger
}

// NewHandler creates a new handler.
func NewHandler(cfg HandlerConfig) *Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{
		employees:  cfg.Employees,
		parameters: cfg.Parameters,
		attendance: cfg.Attendance,
		payroll:    cfg.Payroll,
		refresher:  cfg.Refresher,
		health:     cfg.Health,
		log:        log.WithComponent("api"),
		now:        time.Now,
	}
}

// Health reports whether the store answers.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "Database unavailable", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees, or active ones with ?active=true.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	activeOnly, _ := strconv.ParseBool(r.URL.Query().Get("active"))

	employees, err := h.employees.ListEmployees(r.Context(), activeOnly)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.employees.GetEmployee(r.Context(), employeeParam(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// CreateEmployee creates a new employee.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if !h.decode(w, r, &req) {
		return
	}

	hireDate, foreign, local, err := parseEmployeeFields(req.HireDate, req.ForeignPayUSD, req.LocalBasePayVES)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	now := h.now().UTC()
	emp := employee.Employee{
		ID:           generic.EmployeeID(id),
		NationalID:   req.NationalID,
		TaxID:        req.TaxID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Position:     req.Position,
		Email:        req.Email,
		ForeignPay:   generic.NewAmountFromDecimal(foreign, generic.UnitUSD),
		LocalBasePay: generic.NewAmountFromDecimal(local, generic.UnitVES),
		HireDate:     hireDate,
		Active:       active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := emp.Validate(); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if err := h.employees.CreateEmployee(r.Context(), emp); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.log.Info().Str("employee_id", id).Msg("employee created")
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// UpdateEmployee replaces an employee's editable fields. CreatedAt is kept.
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req UpdateEmployeeRequest
	if !h.decode(w, r, &req) {
		return
	}

	current, err := h.employees.GetEmployee(r.Context(), employeeParam(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	hireDate, foreign, local, err := parseEmployeeFields(req.HireDate, req.ForeignPayUSD, req.LocalBasePayVES)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	emp := *current
	emp.NationalID = req.NationalID
	emp.TaxID = req.TaxID
	emp.FirstName = req.FirstName
	emp.LastName = req.LastName
	emp.Position = req.Position
	emp.Email = req.Email
	emp.ForeignPay = generic.NewAmountFromDecimal(foreign, generic.UnitUSD)
	emp.LocalBasePay = generic.NewAmountFromDecimal(local, generic.UnitVES)
	emp.HireDate = hireDate
	if req.Active != nil {
		emp.Active = *req.Active
	}
	emp.UpdatedAt = h.now().UTC()

	if err := emp.Validate(); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if err := h.employees.UpdateEmployee(r.Context(), emp); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.log.Info().Str("employee_id", string(emp.ID)).Bool("active", emp.Active).Msg("employee updated")
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

func parseEmployeeFields(hire, foreignUSD, localVES string) (generic.Date, decimal.Decimal, decimal.Decimal, error) {
	hireDate, err := generic.ParseDate(hire)
	if err != nil {
		return generic.Date{}, decimal.Zero, decimal.Zero, &ValidationError{Fields: map[string]string{"hire_date": "must be a date in YYYY-MM-DD format"}}
	}
	foreign, err := decimal.NewFromString(foreignUSD)
	if err != nil {
		return generic.Date{}, decimal.Zero, decimal.Zero, &ValidationError{Fields: map[string]string{"foreign_pay_usd": "must be a decimal number"}}
	}
	local := decimal.Zero
	if localVES != "" {
		if local, err = decimal.NewFromString(localVES); err != nil {
			return generic.Date{}, decimal.Zero, decimal.Zero, &ValidationError{Fields: map[string]string{"local_base_pay_ves": "must be a decimal number"}}
		}
	}
	return hireDate, foreign, local, nil
}

// =============================================================================
// ATTENDANCE HANDLERS
// =============================================================================

// ListAttendance returns records between ?from and ?to, inclusive. Without
// a range it returns the half-month containing today.
func (h *Handler) ListAttendance(w http.ResponseWriter, r *http.Request) {
	period, err := h.rangeQuery(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	records, err := h.attendance.Records(r.Context(), employeeParam(r), period)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	dtos := make([]AttendanceDTO, len(records))
	for i, rec := range records {
		dtos[i] = toAttendanceDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CheckIn records a clock-in.
func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	h.clock(w, r, h.attendance.CheckIn)
}

// CheckOut records a clock-out.
func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	h.clock(w, r, h.attendance.CheckOut)
}

type clockFunc func(ctx context.Context, employeeID generic.EmployeeID, date generic.Date, clock string) (*attendance.Record, error)

func (h *Handler) clock(w http.ResponseWriter, r *http.Request, fn clockFunc) {
	var req ClockRequest
	if !h.decode(w, r, &req) {
		return
	}
	date, err := generic.ParseDate(req.Date)
	if err != nil {
		h.writeServiceError(w, r, &ValidationError{Fields: map[string]string{"date": "must be a date in YYYY-MM-DD format"}})
		return
	}

	rec, err := fn(r.Context(), employeeParam(r), date, req.Time)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAttendanceDTO(*rec))
}

// MarkStatus sets a day's status.
func (h *Handler) MarkStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if !h.decode(w, r, &req) {
		return
	}
	date, err := generic.ParseDate(req.Date)
	if err != nil {
		h.writeServiceError(w, r, &ValidationError{Fields: map[string]string{"date": "must be a date in YYYY-MM-DD format"}})
		return
	}
	status, err := attendance.ParseStatus(req.Status)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	rec, err := h.attendance.MarkStatus(r.Context(), employeeParam(r), date, status, req.Notes)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAttendanceDTO(*rec))
}

// PeriodSummary returns an employee's half-month summary.
func (h *Handler) PeriodSummary(w http.ResponseWriter, r *http.Request) {
	p, err := parseHalfMonth(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	summary, err := h.attendance.Summarize(r.Context(), employeeParam(r), p.period)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTO(summary))
}

// ClosePeriod locks an employee's half-month.
func (h *Handler) ClosePeriod(w http.ResponseWriter, r *http.Request) {
	p, err := parseHalfMonth(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	empID := employeeParam(r)
	n, err := h.attendance.ClosePeriod(r.Context(), empID, p.period)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ClosePeriodResponse{
		EmployeeID: string(empID),
		From:       p.period.Start.String(),
		To:         p.period.End.String(),
		Closed:     n,
	})
}

// Receipt returns the receipt data of one employee for a half-month,
// using the persisted run when one exists.
func (h *Handler) Receipt(w http.ResponseWriter, r *http.Request) {
	p, err := parseHalfMonth(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	asOf, err := asOfQuery(r, p.period.End)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	receipt, err := h.payroll.ReceiptFor(r.Context(), employeeParam(r), p.year, p.month, p.half, asOf)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toReceiptDTO(*receipt))
}

// =============================================================================
// SHIFT HANDLERS
// =============================================================================

// ClassifyShift classifies a clock pair on a date. Unparseable input yields
// an all-zero breakdown, not an error.
func (h *Handler) ClassifyShift(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if !h.decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, toBreakdownDTO(shift.Classify(req.ClockIn, req.ClockOut, req.Date)))
}

// =============================================================================
// HELPERS
// =============================================================================

func employeeParam(r *http.Request) generic.EmployeeID {
	return generic.EmployeeID(chi.URLParam(r, "id"))
}

type halfMonth struct {
	year   int
	month  time.Month
	half   generic.Half
	period generic.Period
}

// parseHalfMonth reads {year}/{month}/{half} from the route.
func parseHalfMonth(r *http.Request) (halfMonth, error) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1900 || year > 9999 {
		return halfMonth{}, generic.ErrInvalidPeriod
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		return halfMonth{}, generic.ErrInvalidPeriod
	}
	half, err := strconv.Atoi(chi.URLParam(r, "half"))
	if err != nil {
		return halfMonth{}, generic.ErrInvalidPeriod
	}

	period, err := generic.HalfMonth(year, time.Month(month), generic.Half(half))
	if err != nil {
		return halfMonth{}, err
	}
	return halfMonth{year: year, month: time.Month(month), half: generic.Half(half), period: period}, nil
}

func (h *Handler) rangeQuery(r *http.Request) (generic.Period, error) {
	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")
	if from == "" && to == "" {
		today := generic.DateOf(h.now())
		return generic.HalfMonth(today.Year(), today.Month(), generic.HalfOf(today))
	}

	start, err := generic.ParseDate(from)
	if err != nil {
		return generic.Period{}, &ValidationError{Fields: map[string]string{"from": "must be a date in YYYY-MM-DD format"}}
	}
	end, err := generic.ParseDate(to)
	if err != nil {
		return generic.Period{}, &ValidationError{Fields: map[string]string{"to": "must be a date in YYYY-MM-DD format"}}
	}
	return generic.NewPeriod(start, end)
}

// asOfQuery reads ?as_of, defaulting to fallback.
func asOfQuery(r *http.Request, fallback generic.Date) (generic.Date, error) {
	s := r.URL.Query().Get("as_of")
	if s == "" {
		return fallback, nil
	}
	d, err := generic.ParseDate(s)
	if err != nil {
		return generic.Date{}, &ValidationError{Fields: map[string]string{"as_of": "must be a date in YYYY-MM-DD format"}}
	}
	return d, nil
}

// decode reads and validates a JSON body. On failure it writes the
// response and returns false.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := validateRequest(v); err != nil {
		h.writeServiceError(w, r, err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeServiceError maps domain errors to HTTP statuses.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ValidationError
	var perr *generic.ParameterError

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Fields: verr.Fields})
	case errors.As(err, &perr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid values", Details: err.Error(), Fields: perr.Fields})
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid request", err)
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case generic.IsConflict(err):
		writeError(w, http.StatusConflict, "Conflict", err)
	case errors.Is(err, generic.ErrRateUnavailable):
		writeError(w, http.StatusBadGateway, "Exchange rate provider unavailable", err)
	default:
		h.log.WithRequestID(middleware.GetReqID(r.Context())).WithError(err).Error().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		writeError(w, http.StatusInternalServerError, "Internal error", nil)
	}
}

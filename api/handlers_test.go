/*
handlers_test.go - HTTP tests for the API

Drives the full router over an in-memory store: employees, attendance,
shift classification, parameters, payroll runs and the XLSX export.
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/bradycnk/Nominaft/attendance"
	"github.com/bradycnk/Nominaft/events"
	"github.com/bradycnk/Nominaft/exchange"
	"github.com/bradycnk/Nominaft/generic"
	"github.com/bradycnk/Nominaft/logger"
	"github.com/bradycnk/Nominaft/payroll"
	"github.com/bradycnk/Nominaft/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

type stubRate struct {
	rate decimal.Decimal
	err  error
}

func (s stubRate) Fetch(context.Context) (decimal.Decimal, error) { return s.rate, s.err }

type testEnv struct {
	router *chi.Mux
	store  *memory.Store
	events *events.Recorder
}

func newTestEnv(t *testing.T, source exchange.RateSource) *testEnv {
	t.Helper()
	store := memory.New()
	rec := &events.Recorder{}
	emitter := events.NewEmitter(rec, logger.Nop())

	require.NoError(t, store.SaveParameters(context.Background(), payroll.Parameters{
		ExchangeRate:          decimal.NewFromInt(40),
		MealVoucherForeign:    generic.NewAmount(40, generic.UnitUSD),
		MinimumWage:           generic.NewAmount(130, generic.UnitVES),
		BaseVacationDays:      15,
		AnnualProfitShareDays: 30,
	}))

	cfg := HandlerConfig{
		Employees:  store,
		Parameters: store,
		Attendance: attendance.NewService(store, store, emitter, logger.Nop()),
		Payroll: payroll.NewService(payroll.ServiceConfig{
			Employees:  store,
			Attendance: store,
			Parameters: store,
			Runs:       store,
			Events:     emitter,
			Logger:     logger.Nop(),
		}),
		Health: func(context.Context) error { return nil },
		Logger: logger.Nop(),
	}
	if source != nil {
		cfg.Refresher = exchange.NewRefresher(source, store, emitter, logger.Nop())
	}

	h := NewHandler(cfg)
	h.now = func() time.Time { return time.Date(2025, time.January, 20, 10, 0, 0, 0, time.UTC) }

	return &testEnv{router: NewRouter(h, logger.Nop(), nil), store: store, events: rec}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

const anaJSON = `{
	"id": "emp-1",
	"national_id": "V-12345678",
	"first_name": "Ana",
	"last_name": "Rojas",
	"position": "Farmaceuta",
	"foreign_pay_usd": "500",
	"local_base_pay_ves": "130",
	"hire_date": "2020-03-10"
}`

func (e *testEnv) createAna(t *testing.T) {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/employees", anaJSON)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

// =============================================================================
// HEALTH & EMPLOYEES
// =============================================================================

func TestHealth(t *testing.T) {
	env := newTestEnv(t, nil)
	w := env.do(t, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("Content-Type"))
}

func TestCreateEmployee(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodPost, "/api/employees", anaJSON)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	emp := decodeBody[EmployeeDTO](t, w)
	assert.Equal(t, "emp-1", emp.ID)
	assert.Equal(t, "Ana Rojas", emp.FullName)
	assert.Equal(t, "500", emp.ForeignPayUSD)
	assert.True(t, emp.Active, "active by default")

	w = env.do(t, http.MethodPost, "/api/employees", anaJSON)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodGet, "/api/employees/emp-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2020-03-10", decodeBody[EmployeeDTO](t, w).HireDate)

	w = env.do(t, http.MethodGet, "/api/employees", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]EmployeeDTO](t, w), 1)
}

func TestCreateEmployee_GeneratesID(t *testing.T) {
	env := newTestEnv(t, nil)
	body := strings.Replace(anaJSON, `"id": "emp-1",`, "", 1)

	w := env.do(t, http.MethodPost, "/api/employees", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Len(t, decodeBody[EmployeeDTO](t, w).ID, 36)
}

func TestCreateEmployee_ValidationErrors(t *testing.T) {
	// GIVEN: A body missing required fields
	// WHEN: Posted
	// THEN: 400 with one message per field, keyed by JSON name

	env := newTestEnv(t, nil)
	w := env.do(t, http.MethodPost, "/api/employees", `{"first_name":"Ana","foreign_pay_usd":"abc","email":"nope"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeBody[ErrorResponse](t, w)
	assert.Contains(t, resp.Fields, "national_id")
	assert.Contains(t, resp.Fields, "last_name")
	assert.Contains(t, resp.Fields, "hire_date")
	assert.Equal(t, "must be a decimal number", resp.Fields["foreign_pay_usd"])
	assert.Equal(t, "must be a valid email address", resp.Fields["email"])
	assert.NotContains(t, resp.Fields, "first_name")
}

func TestCreateEmployee_MalformedJSON(t *testing.T) {
	env := newTestEnv(t, nil)
	w := env.do(t, http.MethodPost, "/api/employees", `{`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetEmployee_NotFound(t *testing.T) {
	env := newTestEnv(t, nil)
	w := env.do(t, http.MethodGet, "/api/employees/ghost", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateEmployee_DeactivatedIsLeftOutOfPreview(t *testing.T) {
	// GIVEN: Two active employees
	// WHEN: One is deactivated through PUT
	// THEN: The next preview pays only the other one

	env := newTestEnv(t, nil)
	env.createAna(t)
	bruno := strings.NewReplacer(`"emp-1"`, `"emp-2"`, `"Ana"`, `"Bruno"`, `"V-12345678"`, `"V-87654321"`, `"500"`, `"300"`).Replace(anaJSON)
	w := env.do(t, http.MethodPost, "/api/employees", bruno)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	before, err := env.store.GetEmployee(context.Background(), "emp-2")
	require.NoError(t, err)

	w = env.do(t, http.MethodGet, "/api/payroll/2025/1/1/preview", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decodeBody[[]ReceiptDTO](t, w), 2)

	update := strings.Replace(strings.Replace(bruno, `"id": "emp-2",`, "", 1), `"hire_date"`, `"active": false, "position": "Cajero", "hire_date"`, 1)
	w = env.do(t, http.MethodPut, "/api/employees/emp-2", update)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decodeBody[EmployeeDTO](t, w)
	assert.False(t, updated.Active)
	assert.Equal(t, "Cajero", updated.Position)

	after, err := env.store.GetEmployee(context.Background(), "emp-2")
	require.NoError(t, err)
	assert.True(t, after.CreatedAt.Equal(before.CreatedAt))
	assert.False(t, after.Active)

	w = env.do(t, http.MethodGet, "/api/payroll/2025/1/1/preview", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	receipts := decodeBody[[]ReceiptDTO](t, w)
	require.Len(t, receipts, 1)
	assert.Equal(t, "emp-1", receipts[0].Employee.ID)
}

func TestUpdateEmployee_Errors(t *testing.T) {
	env := newTestEnv(t, nil)
	env.createAna(t)
	body := strings.Replace(anaJSON, `"id": "emp-1",`, "", 1)

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"unknown employee", "/api/employees/ghost", body, http.StatusNotFound},
		{"missing fields", "/api/employees/emp-1", `{"first_name":"Ana"}`, http.StatusBadRequest},
		{"negative pay", "/api/employees/emp-1", strings.Replace(body, `"500"`, `"-1"`, 1), http.StatusBadRequest},
		{"malformed json", "/api/employees/emp-1", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPut, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

// =============================================================================
// ATTENDANCE
// =============================================================================

func TestAttendanceFlow(t *testing.T) {
	// GIVEN: Ana checks in at 14:00 and out at 23:00 on a Tuesday
	// WHEN: Listing the first half of January
	// THEN: The record carries a mixed-shift breakdown with 4 night hours

	env := newTestEnv(t, nil)
	env.createAna(t)

	w := env.do(t, http.MethodPost, "/api/employees/emp-1/attendance/check-in", `{"date":"2025-01-14","time":"14:00"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Nil(t, decodeBody[AttendanceDTO](t, w).Breakdown, "no breakdown before check-out")

	w = env.do(t, http.MethodPost, "/api/employees/emp-1/attendance/check-out", `{"date":"2025-01-14","time":"23:00"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/employees/emp-1/attendance?from=2025-01-01&to=2025-01-15", "")
	require.Equal(t, http.StatusOK, w.Code)
	records := decodeBody[[]AttendanceDTO](t, w)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].Breakdown)
	assert.Equal(t, "mixed", records[0].Breakdown.Type)
	assert.Equal(t, "9", records[0].Breakdown.Duration)
	assert.Equal(t, "4", records[0].Breakdown.NightPremiumHours)

	w = env.do(t, http.MethodGet, "/api/employees/emp-1/periods/2025/1/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	summary := decodeBody[SummaryDTO](t, w)
	assert.Equal(t, 1, summary.Hours.DaysWorked)
	assert.Equal(t, "2025-01-15", summary.To)
	assert.False(t, summary.Closed)
}

func TestAttendance_DefaultRangeIsCurrentHalf(t *testing.T) {
	env := newTestEnv(t, nil)
	env.createAna(t)

	// "now" is 2025-01-20, so the default range is Jan 16-31
	env.do(t, http.MethodPost, "/api/employees/emp-1/attendance/status", `{"date":"2025-01-10","status":"absent"}`)
	env.do(t, http.MethodPost, "/api/employees/emp-1/attendance/status", `{"date":"2025-01-17","status":"vacation"}`)

	w := env.do(t, http.MethodGet, "/api/employees/emp-1/attendance", "")
	require.Equal(t, http.StatusOK, w.Code)
	records := decodeBody[[]AttendanceDTO](t, w)
	require.Len(t, records, 1)
	assert.Equal(t, "vacation", records[0].Status)
}

func TestAttendance_Errors(t *testing.T) {
	env := newTestEnv(t, nil)
	env.createAna(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"unknown employee", http.MethodPost, "/api/employees/ghost/attendance/check-in", `{"date":"2025-01-14","time":"08:00"}`, http.StatusNotFound},
		{"bad clock", http.MethodPost, "/api/employees/emp-1/attendance/check-in", `{"date":"2025-01-14","time":"25:00"}`, http.StatusBadRequest},
		{"bad date", http.MethodPost, "/api/employees/emp-1/attendance/check-in", `{"date":"14/01/2025","time":"08:00"}`, http.StatusBadRequest},
		{"check-out without check-in", http.MethodPost, "/api/employees/emp-1/attendance/check-out", `{"date":"2025-01-13","time":"16:00"}`, http.StatusBadRequest},
		{"bad status", http.MethodPost, "/api/employees/emp-1/attendance/status", `{"date":"2025-01-14","status":"sick"}`, http.StatusBadRequest},
		{"inverted range", http.MethodGet, "/api/employees/emp-1/attendance?from=2025-01-15&to=2025-01-01", "", http.StatusBadRequest},
		{"bad half", http.MethodGet, "/api/employees/emp-1/periods/2025/1/3", "", http.StatusBadRequest},
		{"bad month", http.MethodGet, "/api/employees/emp-1/periods/2025/13/1", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestClosePeriod_LocksRecords(t *testing.T) {
	env := newTestEnv(t, nil)
	env.createAna(t)

	env.do(t, http.MethodPost, "/api/employees/emp-1/attendance/check-in", `{"date":"2025-01-14","time":"08:00"}`)

	w := env.do(t, http.MethodPost, "/api/employees/emp-1/periods/2025/1/1/close", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decodeBody[ClosePeriodResponse](t, w).Closed)
	assert.Len(t, env.events.OfType(events.EventPeriodClosed), 1)

	w = env.do(t, http.MethodPost, "/api/employees/emp-1/attendance/check-out", `{"date":"2025-01-14","time":"16:00"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

// =============================================================================
// SHIFTS
// =============================================================================

func TestClassifyShift(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodPost, "/api/shifts/classify", `{"clock_in":"22:00","clock_out":"06:00","date":"2025-01-15"}`)
	require.Equal(t, http.StatusOK, w.Code)
	b := decodeBody[BreakdownDTO](t, w)
	assert.Equal(t, "nocturnal", b.Type)
	assert.Equal(t, "8", b.Duration)
	assert.Equal(t, "8", b.NightPremiumHours)

	// unparseable input is a zero breakdown, not an error
	w = env.do(t, http.MethodPost, "/api/shifts/classify", `{"clock_in":"xx","clock_out":"06:00","date":"2025-01-15"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", decodeBody[BreakdownDTO](t, w).Duration)

	w = env.do(t, http.MethodPost, "/api/shifts/classify", `{"clock_in":"22:00"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// =============================================================================
// PARAMETERS
// =============================================================================

func TestParameters_GetAndUpdate(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/api/parameters", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "40", decodeBody[ParametersDTO](t, w).ExchangeRate)

	w = env.do(t, http.MethodPut, "/api/parameters", `{
		"exchange_rate": "52.75",
		"meal_voucher_usd": "40",
		"minimum_wage_ves": "130",
		"base_vacation_days": 15,
		"annual_profit_share_days": 30
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "52.75", decodeBody[ParametersDTO](t, w).ExchangeRate)

	p, err := env.store.GetParameters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "52.75", p.ExchangeRate.String())
}

func TestParameters_UpdateRejectsInvalid(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodPut, "/api/parameters", `{
		"exchange_rate": "-1",
		"meal_voucher_usd": "40",
		"minimum_wage_ves": "130",
		"base_vacation_days": 15,
		"annual_profit_share_days": 30
	}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody[ErrorResponse](t, w).Fields, "exchange_rate")

	p, err := env.store.GetParameters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "40", p.ExchangeRate.String(), "unchanged")
}

func TestRefreshRate(t *testing.T) {
	t.Run("updated", func(t *testing.T) {
		env := newTestEnv(t, stubRate{rate: decimal.RequireFromString("41.5")})
		w := env.do(t, http.MethodPost, "/api/parameters/refresh-rate", "")
		require.Equal(t, http.StatusOK, w.Code)

		res := decodeBody[RateRefreshDTO](t, w)
		assert.True(t, res.Updated)
		assert.Equal(t, "41.5", res.Rate)
		assert.Equal(t, "40", res.Previous)
	})

	t.Run("provider down keeps previous rate", func(t *testing.T) {
		env := newTestEnv(t, stubRate{err: errors.Join(generic.ErrRateUnavailable, errors.New("timeout"))})
		w := env.do(t, http.MethodPost, "/api/parameters/refresh-rate", "")
		require.Equal(t, http.StatusOK, w.Code)

		res := decodeBody[RateRefreshDTO](t, w)
		assert.True(t, res.Fallback)
		assert.Equal(t, "40", res.Rate)
		assert.NotEmpty(t, res.Error)
	})

	t.Run("not configured", func(t *testing.T) {
		env := newTestEnv(t, nil)
		w := env.do(t, http.MethodPost, "/api/parameters/refresh-rate", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

// =============================================================================
// PAYROLL
// =============================================================================

func TestCalculate(t *testing.T) {
	env := newTestEnv(t, nil)
	env.createAna(t)

	tests := []struct {
		name      string
		body      string
		wantCode  int
		wantNet   string
		wantField string
	}{
		{
			name:     "ad-hoc reference",
			body:     `{"foreign_pay_usd":"500","hire_date":"2020-03-10","half":1,"as_of":"2025-01-15"}`,
			wantCode: http.StatusOK,
			wantNet:  "9885.375",
		},
		{
			name:     "stored employee, second half",
			body:     `{"employee_id":"emp-1","half":2,"as_of":"2025-01-31"}`,
			wantCode: http.StatusOK,
			wantNet:  "11485.375",
		},
		{
			name:      "missing pay without employee",
			body:      `{"hire_date":"2020-03-10","half":1}`,
			wantCode:  http.StatusBadRequest,
			wantField: "foreign_pay_usd",
		},
		{
			name:      "bad half",
			body:      `{"employee_id":"emp-1","half":3}`,
			wantCode:  http.StatusBadRequest,
			wantField: "half",
		},
		{
			name:     "unknown employee",
			body:     `{"employee_id":"ghost","half":1}`,
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/payroll/calculate", tt.body)
			require.Equal(t, tt.wantCode, w.Code, w.Body.String())
			if tt.wantNet != "" {
				assert.Equal(t, tt.wantNet, decodeBody[PayBreakdownDTO](t, w).NetPay)
			}
			if tt.wantField != "" {
				assert.Contains(t, decodeBody[ErrorResponse](t, w).Fields, tt.wantField)
			}
		})
	}
}

func TestCalculate_RateOverride(t *testing.T) {
	env := newTestEnv(t, nil)
	env.createAna(t)

	w := env.do(t, http.MethodPost, "/api/payroll/calculate", `{"employee_id":"emp-1","half":1,"exchange_rate":"80","as_of":"2025-01-15"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	pay := decodeBody[PayBreakdownDTO](t, w)
	assert.Equal(t, "20000", pay.PeriodPay)
	assert.Equal(t, "80", pay.ExchangeRate)

	p, err := env.store.GetParameters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "40", p.ExchangeRate.String(), "override is not persisted")
}

func TestPayrollLifecycle(t *testing.T) {
	// GIVEN: One employee and stored parameters
	// WHEN: Previewing, running, paying, then re-running
	// THEN: The paid run blocks the re-run with 409

	env := newTestEnv(t, nil)
	env.createAna(t)

	w := env.do(t, http.MethodGet, "/api/payroll/2025/1/1/preview", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	receipts := decodeBody[[]ReceiptDTO](t, w)
	require.Len(t, receipts, 1)
	assert.Empty(t, receipts[0].RunID)
	assert.Equal(t, "9885.375", receipts[0].Pay.NetPay)

	w = env.do(t, http.MethodPost, "/api/payroll/2025/1/1/run", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	run := decodeBody[RunsResponse](t, w)
	require.Len(t, run.Runs, 1)
	assert.Equal(t, "calculated", run.Runs[0].Status)
	assert.Equal(t, "9885.375", run.Totals.NetPay)

	w = env.do(t, http.MethodGet, "/api/employees/emp-1/periods/2025/1/1/receipt", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, run.Runs[0].ID, decodeBody[ReceiptDTO](t, w).RunID)

	w = env.do(t, http.MethodPost, "/api/payroll/runs/"+run.Runs[0].ID+"/paid", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	paid := decodeBody[RunDTO](t, w)
	assert.Equal(t, "paid", paid.Status)
	assert.NotNil(t, paid.PaidAt)

	w = env.do(t, http.MethodPost, "/api/payroll/2025/1/1/run", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPost, "/api/payroll/runs/ghost/paid", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/payroll/2025/1/1/runs", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[RunsResponse](t, w).Runs, 1)

	assert.Len(t, env.events.OfType(events.EventRunCompleted), 1)
	assert.Len(t, env.events.OfType(events.EventRunPaid), 1)
}

func TestExportPayroll(t *testing.T) {
	env := newTestEnv(t, nil)
	env.createAna(t)

	tests := []struct {
		name   string
		setup  func(t *testing.T)
		status string
	}{
		{"preview when no runs", func(*testing.T) {}, "preview"},
		{"persisted runs", func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/payroll/2025/2/2/run", "")
			require.Equal(t, http.StatusCreated, w.Code)
		}, "calculated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup(t)

			w := env.do(t, http.MethodGet, "/api/payroll/2025/2/2/export", "")
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
			assert.Contains(t, w.Header().Get("Content-Disposition"), "nomina-2025-02-Q2.xlsx")

			f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
			require.NoError(t, err)
			defer f.Close()

			rows, err := f.GetRows("Nomina")
			require.NoError(t, err)
			require.Len(t, rows, 3)
			assert.Equal(t, "Ana Rojas", rows[1][1])
			assert.Equal(t, tt.status, rows[1][2])
		})
	}
}

func TestPayroll_InvalidPeriod(t *testing.T) {
	env := newTestEnv(t, nil)
	for _, path := range []string{
		"/api/payroll/2025/1/3/preview",
		"/api/payroll/2025/0/1/runs",
		"/api/payroll/abc/1/1/export",
	} {
		w := env.do(t, http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestPayroll_MissingParameters(t *testing.T) {
	store := memory.New()
	h := NewHandler(HandlerConfig{
		Employees:  store,
		Parameters: store,
		Payroll: payroll.NewService(payroll.ServiceConfig{
			Employees: store, Attendance: store, Parameters: store, Runs: store,
		}),
	})
	router := NewRouter(h, nil, nil)

	for _, path := range []string{"/api/parameters", "/api/payroll/2025/1/1/preview"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}

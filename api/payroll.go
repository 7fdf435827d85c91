package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/bradycnk/Nominaft/employee"
	"github.com/bradycnk/Nominaft/export"
	"github.com/bradycnk/Nominaft/generic"
	"github.com/bradycnk/Nominaft/payroll"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// =============================================================================
// PARAMETER HANDLERS
// =============================================================================

// GetParameters returns the stored parameter set as is.
func (h *Handler) GetParameters(w http.ResponseWriter, r *http.Request) {
	p, err := h.parameters.GetParameters(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toParametersDTO(*p))
}

// UpdateParameters replaces the parameter set after validating it.
func (h *Handler) UpdateParameters(w http.ResponseWriter, r *http.Request) {
	var req UpdateParametersRequest
	if !h.decode(w, r, &req) {
		return
	}

	fields := map[string]string{}
	rate := parseDecimalField(req.ExchangeRate, "exchange_rate", fields)
	meal := parseDecimalField(req.MealVoucherUSD, "meal_voucher_usd", fields)
	wage := parseDecimalField(req.MinimumWageVES, "minimum_wage_ves", fields)
	if len(fields) > 0 {
		h.writeServiceError(w, r, &ValidationError{Fields: fields})
		return
	}

	p := payroll.Parameters{
		ExchangeRate:          rate,
		MealVoucherForeign:    generic.NewAmountFromDecimal(meal, generic.UnitUSD),
		MinimumWage:           generic.NewAmountFromDecimal(wage, generic.UnitVES),
		BaseVacationDays:      req.BaseVacationDays,
		AnnualProfitShareDays: req.AnnualProfitShareDays,
		UpdatedAt:             h.now().UTC(),
	}
	if err := p.Validate(); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if err := h.parameters.SaveParameters(r.Context(), p); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.log.Info().
		Str("exchange_rate", p.ExchangeRate.String()).
		Str("minimum_wage", p.MinimumWage.Value.String()).
		Msg("pay parameters updated")
	writeJSON(w, http.StatusOK, toParametersDTO(p))
}

// RefreshRate pulls the official rate now. A provider failure is not an
// HTTP error: the response reports the fallback and the rate kept.
func (h *Handler) RefreshRate(w http.ResponseWriter, r *http.Request) {
	if h.refresher == nil {
		writeError(w, http.StatusServiceUnavailable, "Rate refresh not configured", nil)
		return
	}

	res, err := h.refresher.Refresh(r.Context())
	if err != nil && !res.Fallback {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRateRefreshDTO(res, err))
}

// =============================================================================
// PAYROLL HANDLERS
// =============================================================================

// Calculate runs the calculator for one employee without persisting.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if !h.decode(w, r, &req) {
		return
	}
	ctx := r.Context()

	stored, err := h.payroll.Parameters(ctx)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	params := *stored

	fields := map[string]string{}
	var emp employee.Employee
	if req.EmployeeID != "" {
		found, err := h.employees.GetEmployee(ctx, generic.EmployeeID(req.EmployeeID))
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		emp = *found
	} else {
		if req.ForeignPayUSD == "" {
			fields["foreign_pay_usd"] = "required without employee_id"
		}
		if req.HireDate == "" {
			fields["hire_date"] = "required without employee_id"
		}
		pay := parseDecimalField(req.ForeignPayUSD, "foreign_pay_usd", fields)
		hire, _ := generic.ParseDate(req.HireDate)
		emp = employee.Employee{
			ID:         "ad-hoc",
			FirstName:  "ad-hoc",
			ForeignPay: generic.NewAmountFromDecimal(pay, generic.UnitUSD),
			HireDate:   hire,
		}
	}
	if req.ExchangeRate != "" {
		params.ExchangeRate = parseDecimalField(req.ExchangeRate, "exchange_rate", fields)
	}
	if len(fields) > 0 {
		h.writeServiceError(w, r, &ValidationError{Fields: fields})
		return
	}

	periodDays := req.PeriodDays
	if periodDays == 0 {
		periodDays = h.payroll.PeriodDays()
	}
	asOf := generic.DateOf(h.now())
	if req.AsOf != "" {
		asOf, _ = generic.ParseDate(req.AsOf)
	}

	pay := payroll.Calculate(emp, params, periodDays, generic.Half(req.Half), asOf)
	writeJSON(w, http.StatusOK, toPayBreakdownDTO(pay))
}

// PreviewPayroll calculates every active employee's receipt without saving.
// Seniority is measured at the period end unless ?as_of is given.
func (h *Handler) PreviewPayroll(w http.ResponseWriter, r *http.Request) {
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

	receipts, err := h.payroll.Preview(r.Context(), p.year, p.month, p.half, asOf)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	dtos := make([]ReceiptDTO, len(receipts))
	for i, rc := range receipts {
		dtos[i] = toReceiptDTO(rc)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// RunPayroll calculates and persists the half-month's runs.
func (h *Handler) RunPayroll(w http.ResponseWriter, r *http.Request) {
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

	runs, err := h.payroll.Run(r.Context(), p.year, p.month, p.half, asOf)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRunsResponse(runs))
}

// ListRuns returns the persisted runs of a half-month with totals.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	p, err := parseHalfMonth(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	runs, err := h.payroll.Runs(r.Context(), p.year, p.month, p.half)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRunsResponse(runs))
}

// ExportPayroll streams the half-month as an XLSX workbook. Persisted runs
// are exported when present, otherwise a preview.
func (h *Handler) ExportPayroll(w http.ResponseWriter, r *http.Request) {
	p, err := parseHalfMonth(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	ctx := r.Context()

	runs, err := h.payroll.Runs(ctx, p.year, p.month, p.half)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	var lines []export.Line
	if len(runs) > 0 {
		lines = export.LinesFromRuns(runs)
	} else {
		asOf, err := asOfQuery(r, p.period.End)
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		receipts, err := h.payroll.Preview(ctx, p.year, p.month, p.half, asOf)
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		lines = export.LinesFromReceipts(receipts)
	}

	var buf bytes.Buffer
	title := fmt.Sprintf("Nomina %d-%02d %s", p.year, int(p.month), p.half)
	if err := export.Write(&buf, title, lines); err != nil {
		h.writeServiceError(w, r, fmt.Errorf("export workbook: %w", err))
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName(p.year, p.month, p.half)+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// MarkRunPaid marks one run as disbursed.
func (h *Handler) MarkRunPaid(w http.ResponseWriter, r *http.Request) {
	run, err := h.payroll.MarkPaid(r.Context(), generic.RunID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRunDTO(*run))
}

func parseDecimalField(s, field string, fields map[string]string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		fields[field] = "must be a decimal number"
		return decimal.Zero
	}
	return d
}

package payroll

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bradycnk/Nominaft/generic"
)

// Parameters are the statutory and market values a calculation reads.
// They change between runs (the exchange rate daily), so nothing caches them.
type Parameters struct {
	ExchangeRate          decimal.Decimal // VES per USD
	MealVoucherForeign    generic.Amount  // USD per month, paid in Q2
	MinimumWage           generic.Amount  // VES per month
	BaseVacationDays      int
	AnnualProfitShareDays int
	UpdatedAt             time.Time
}

// Validate reports every field a calculation can't use. The calculator
// itself performs no validation.
func (p Parameters) Validate() error {
	fields := map[string]string{}

	if !p.ExchangeRate.IsPositive() {
		fields["exchange_rate"] = "must be positive"
	}
	if p.MealVoucherForeign.Unit != generic.UnitUSD {
		fields["meal_voucher_usd"] = "must be in USD"
	} else if p.MealVoucherForeign.IsNegative() {
		fields["meal_voucher_usd"] = "must not be negative"
	}
	if p.MinimumWage.Unit != generic.UnitVES {
		fields["minimum_wage"] = "must be in VES"
	} else if p.MinimumWage.IsNegative() {
		fields["minimum_wage"] = "must not be negative"
	}
	if p.BaseVacationDays < 0 || p.BaseVacationDays > MaxVacationBonusDays {
		fields["base_vacation_days"] = "must be between 0 and 30"
	}
	if p.AnnualProfitShareDays < 0 || p.AnnualProfitShareDays > 120 {
		fields["annual_profit_share_days"] = "must be between 0 and 120"
	}

	if len(fields) > 0 {
		return &generic.ParameterError{Fields: fields}
	}
	return nil
}

// ParameterStore holds the single current parameter set.
type ParameterStore interface {
	// GetParameters returns ErrParametersNotFound before the first save.
	GetParameters(ctx context.Context) (*Parameters, error)
	SaveParameters(ctx context.Context, p Parameters) error
}

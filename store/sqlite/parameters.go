package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/bradycnk/Nominaft/generic"
	"github.com/bradycnk/Nominaft/payroll"
)

// =============================================================================
// PARAMETER STORE (payroll.ParameterStore interface)
// =============================================================================

type parametersRow struct {
	ExchangeRate          string `db:"exchange_rate"`
	MealVoucherUSD        string `db:"meal_voucher_usd"`
	MinimumWage           string `db:"minimum_wage_ves"`
	BaseVacationDays      int    `db:"base_vacation_days"`
	AnnualProfitShareDays int    `db:"annual_profit_share_days"`
	UpdatedAt             string `db:"updated_at"`
}

// GetParameters returns the current parameter set.
func (s *Store) GetParameters(ctx context.Context) (*payroll.Parameters, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var row parametersRow
	err := s.db.GetContext(ctx, &row, `
		SELECT exchange_rate, meal_voucher_usd, minimum_wage_ves,
		       base_vacation_days, annual_profit_share_days, updated_at
		FROM pay_parameters WHERE id = 1
	`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, generic.ErrParametersNotFound
	}
	if err != nil {
		return nil, err
	}

	rate, err := decimal.NewFromString(row.ExchangeRate)
	if err != nil {
		return nil, err
	}

	return &payroll.Parameters{
		ExchangeRate:          rate,
		MealVoucherForeign:    parseAmount(row.MealVoucherUSD, generic.UnitUSD),
		MinimumWage:           parseAmount(row.MinimumWage, generic.UnitVES),
		BaseVacationDays:      row.BaseVacationDays,
		AnnualProfitShareDays: row.AnnualProfitShareDays,
		UpdatedAt:             parseTime(row.UpdatedAt),
	}, nil
}

// SaveParameters replaces the parameter set.
func (s *Store) SaveParameters(ctx context.Context, p payroll.Parameters) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO pay_parameters (id, exchange_rate, meal_voucher_usd, minimum_wage_ves,
		                            base_vacation_days, annual_profit_share_days, updated_at)
		VALUES (1, :exchange_rate, :meal_voucher_usd, :minimum_wage_ves,
		        :base_vacation_days, :annual_profit_share_days, :updated_at)
		ON CONFLICT(id) DO UPDATE SET
			exchange_rate = excluded.exchange_rate,
			meal_voucher_usd = excluded.meal_voucher_usd,
			minimum_wage_ves = excluded.minimum_wage_ves,
			base_vacation_days = excluded.base_vacation_days,
			annual_profit_share_days = excluded.annual_profit_share_days,
			updated_at = excluded.updated_at
	`, parametersRow{
		ExchangeRate:          p.ExchangeRate.String(),
		MealVoucherUSD:        p.MealVoucherForeign.Value.String(),
		MinimumWage:           p.MinimumWage.Value.String(),
		BaseVacationDays:      p.BaseVacationDays,
		AnnualProfitShareDays: p.AnnualProfitShareDays,
		UpdatedAt:             formatTime(p.UpdatedAt),
	})
	return err
}

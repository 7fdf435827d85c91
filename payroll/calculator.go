/*
Package payroll turns base pay, pay parameters and worked time into an
itemised half-month pay breakdown under the LOTTT.

CALCULATION (Calculate):
  monthly   = foreignPay x exchangeRate
  daily     = monthly / 30                (fixed divisor, not calendar days)
  period    = monthly x periodDays / 30
  seniority = whole years from hire date to asOf
  vacation  = min(30, baseVacationDays + max(0, years-1))
  integral  = daily + daily x vacation/360 + daily x profitShare/360
  taxable   = min(period, minimumWage x 5 x periodDays / 30)
  IVSS      = taxable x 4%
  SPF       = taxable x 0.5%
  FAOV      = period x 1%                 (uncapped)
  meal      = mealVoucherUSD x exchangeRate, second half only
  net       = period + meal - (IVSS + SPF + FAOV)

  Quantities are multiplied before dividing so that whole-number inputs give
  exact results. Nothing is rounded; rounding is a display concern.

FAILURE SEMANTICS:
  Calculate is total and performs no validation or clamping. A zero
  exchange rate yields a zero breakdown, not an error. Callers run
  Parameters.Validate and Employee.Validate first.

SEE ALSO:
  - service.go: Preview and persisted runs over all active employees
  - receipt.go: Breakdown plus attendance, for the receipt renderer
*/
package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/bradycnk/Nominaft/employee"
	"github.com/bradycnk/Nominaft/generic"
)

// Statutory constants.
const (
	MaxVacationBonusDays = 30
	DefaultPeriodDays    = 15
)

var (
	monthDivisor   = decimal.NewFromInt(30)
	accrualDivisor = decimal.NewFromInt(360)
	capMultiple    = decimal.NewFromInt(5)

	SocialSecurityRate        = decimal.RequireFromString("0.04")  // IVSS
	UnemploymentInsuranceRate = decimal.RequireFromString("0.005") // SPF
	HousingSavingsRate        = decimal.RequireFromString("0.01")  // FAOV
)

// PayBreakdown is the itemised result of one calculation. All money is VES.
type PayBreakdown struct {
	ExchangeRate decimal.Decimal
	PeriodDays   int
	Half         generic.Half

	MonthlyLocalPay generic.Amount
	DailyNormalPay  generic.Amount
	PeriodPay       generic.Amount

	SeniorityYears          int
	VacationBonusDays       int
	VacationAccrualDaily    generic.Amount
	ProfitShareAccrualDaily generic.Amount
	IntegralDailyPay        generic.Amount

	DeductionCap          generic.Amount // monthly, minimum wage x 5
	TaxableBase           generic.Amount // prorated to the period
	SocialSecurity        generic.Amount
	UnemploymentInsurance generic.Amount
	HousingSavings        generic.Amount
	TotalDeductions       generic.Amount

	MealVoucher generic.Amount
	NetPay      generic.Amount
}

// Calculate computes the pay breakdown for one employee and one period.
// asOf fixes the date seniority is measured at.
func Calculate(emp employee.Employee, p Parameters, periodDays int, half generic.Half, asOf generic.Date) PayBreakdown {
	rate := p.ExchangeRate
	days := decimal.NewFromInt(int64(periodDays))

	monthly := emp.ForeignPay.Convert(rate, generic.UnitVES)
	daily := monthly.Div(monthDivisor)
	periodPay := monthly.Mul(days).Div(monthDivisor)

	years := emp.Seniority(asOf)
	vacationDays := VacationBonusDays(p.BaseVacationDays, years)

	vacationAccrual := monthly.Mul(decimal.NewFromInt(int64(vacationDays))).Div(monthDivisor.Mul(accrualDivisor))
	profitAccrual := monthly.Mul(decimal.NewFromInt(int64(p.AnnualProfitShareDays))).Div(monthDivisor.Mul(accrualDivisor))
	integral := daily.Add(vacationAccrual).Add(profitAccrual)

	deductionCap := p.MinimumWage.Mul(capMultiple)
	periodCap := deductionCap.Mul(days).Div(monthDivisor)
	taxable := periodPay.Min(ves(periodCap))

	ivss := taxable.Mul(SocialSecurityRate)
	spf := taxable.Mul(UnemploymentInsuranceRate)
	faov := periodPay.Mul(HousingSavingsRate)
	deductions := ivss.Add(spf).Add(faov)

	meal := generic.ZeroAmount(generic.UnitVES)
	if half == generic.SecondHalf {
		meal = p.MealVoucherForeign.Convert(rate, generic.UnitVES)
	}

	return PayBreakdown{
		ExchangeRate:            rate,
		PeriodDays:              periodDays,
		Half:                    half,
		MonthlyLocalPay:         monthly,
		DailyNormalPay:          daily,
		PeriodPay:               periodPay,
		SeniorityYears:          years,
		VacationBonusDays:       vacationDays,
		VacationAccrualDaily:    vacationAccrual,
		ProfitShareAccrualDaily: profitAccrual,
		IntegralDailyPay:        integral,
		DeductionCap:            ves(deductionCap),
		TaxableBase:             taxable,
		SocialSecurity:          ivss,
		UnemploymentInsurance:   spf,
		HousingSavings:          faov,
		TotalDeductions:         deductions,
		MealVoucher:             meal,
		NetPay:                  periodPay.Add(meal).Sub(deductions),
	}
}

// VacationBonusDays is the base entitlement plus one day per year of service
// beyond the first, capped at 30.
func VacationBonusDays(baseDays, years int) int {
	extra := years - 1
	if extra < 0 {
		extra = 0
	}
	days := baseDays + extra
	if days > MaxVacationBonusDays {
		return MaxVacationBonusDays
	}
	return days
}

func ves(a generic.Amount) generic.Amount {
	return generic.NewAmountFromDecimal(a.Value, generic.UnitVES)
}

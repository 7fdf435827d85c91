package export_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/bradycnk/Nominaft/attendance"
	"github.com/bradycnk/Nominaft/employee"
	"github.com/bradycnk/Nominaft/export"
	"github.com/bradycnk/Nominaft/generic"
	"github.com/bradycnk/Nominaft/payroll"
)

func testRuns() []payroll.Run {
	params := payroll.Parameters{
		ExchangeRate:          decimal.NewFromInt(40),
		MealVoucherForeign:    generic.NewAmount(40, generic.UnitUSD),
		MinimumWage:           generic.NewAmount(130, generic.UnitVES),
		BaseVacationDays:      15,
		AnnualProfitShareDays: 30,
	}
	asOf := generic.NewDate(2025, time.January, 15)

	ana := employee.Employee{
		ID: "emp-1", FirstName: "Ana", LastName: "Rojas",
		ForeignPay:   generic.NewAmount(500, generic.UnitUSD),
		LocalBasePay: generic.NewAmount(130, generic.UnitVES),
		HireDate:     generic.NewDate(2020, time.March, 10),
		Active:       true,
	}
	bruno := ana
	bruno.ID = "emp-2"
	bruno.FirstName = "Bruno"
	bruno.ForeignPay = generic.NewAmount(300, generic.UnitUSD)

	hours := attendance.Aggregate([]attendance.Record{{
		EmployeeID: "emp-1", Date: generic.NewDate(2025, time.January, 14),
		Status: attendance.StatusPresent, ClockIn: "14:00", ClockOut: "23:00",
	}})

	return []payroll.Run{
		{ID: "r1", EmployeeID: ana.ID, EmployeeName: ana.FullName(), Status: payroll.RunCalculated,
			Pay: payroll.Calculate(ana, params, 15, generic.FirstHalf, asOf), Hours: hours},
		{ID: "r2", EmployeeID: bruno.ID, EmployeeName: bruno.FullName(), Status: payroll.RunPaid,
			Pay: payroll.Calculate(bruno, params, 15, generic.FirstHalf, asOf), Hours: attendance.NewPeriodAggregate()},
	}
}

func TestWrite_PayAndHoursSheets(t *testing.T) {
	// GIVEN: Two calculated runs
	// WHEN: Rendered to a workbook
	// THEN: Each employee has a pay line and an hours line, with a totals row

	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, "Nomina 2025-01 Q1", export.LinesFromRuns(testRuns())))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{export.PaySheet, export.HoursSheet}, f.GetSheetList())

	rows, err := f.GetRows(export.PaySheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Cedula/ID", rows[0][0])
	assert.Equal(t, "Neto a pagar", rows[0][15])

	assert.Equal(t, "emp-1", rows[1][0])
	assert.Equal(t, "Ana Rojas", rows[1][1])
	assert.Equal(t, "calculated", rows[1][2])
	assert.Equal(t, "10000", rows[1][8])
	assert.Equal(t, "9885.38", rows[1][15])

	assert.Equal(t, "paid", rows[2][2])
	assert.Equal(t, "6000", rows[2][8])

	assert.Equal(t, "TOTAL", rows[3][1])
	assert.Equal(t, "16000", rows[3][8])

	hours, err := f.GetRows(export.HoursSheet)
	require.NoError(t, err)
	require.Len(t, hours, 3)
	assert.Equal(t, "1", hours[1][2])
	assert.Equal(t, "9", hours[1][3])
	assert.Equal(t, "4", hours[1][8])
}

func TestWrite_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, "vacio", nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.PaySheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "TOTAL", rows[1][1])
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "nomina-2025-01-Q2.xlsx", export.FileName(2025, time.January, generic.SecondHalf))
}

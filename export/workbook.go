// Package export renders payroll runs as an XLSX workbook for accounting.
//
// The workbook has two sheets: "Nomina" with one pay line per employee plus
// a totals row, and "Horas" with the classified hours behind each line.
// Money is written as numbers rounded to two decimals; the stored runs keep
// full precision.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/bradycnk/Nominaft/attendance"
	"github.com/bradycnk/Nominaft/generic"
	"github.com/bradycnk/Nominaft/payroll"
)

const (
	PaySheet   = "Nomina"
	HoursSheet = "Horas"
)

// Line is one employee's row in the workbook.
type Line struct {
	EmployeeID   generic.EmployeeID
	EmployeeName string
	Status       string
	Pay          payroll.PayBreakdown
	Hours        attendance.PeriodAggregate
}

// LinesFromRuns converts persisted runs.
func LinesFromRuns(runs []payroll.Run) []Line {
	lines := make([]Line, len(runs))
	for i, r := range runs {
		lines[i] = Line{
			EmployeeID:   r.EmployeeID,
			EmployeeName: r.EmployeeName,
			Status:       string(r.Status),
			Pay:          r.Pay,
			Hours:        r.Hours,
		}
	}
	return lines
}

// LinesFromReceipts converts an unsaved preview.
func LinesFromReceipts(receipts []payroll.Receipt) []Line {
	lines := make([]Line, len(receipts))
	for i, r := range receipts {
		lines[i] = Line{
			EmployeeID:   r.Employee.ID,
			EmployeeName: r.Employee.FullName(),
			Status:       "preview",
			Pay:          r.Pay,
			Hours:        r.Attendance.Hours,
		}
	}
	return lines
}

var payHeaders = []string{
	"Cedula/ID", "Empleado", "Estado", "Tasa", "Dias",
	"Salario mensual", "Salario diario", "Salario integral diario", "Salario periodo",
	"Base imponible", "IVSS", "SPF", "FAOV", "Total deducciones",
	"Cesta ticket", "Neto a pagar",
}

var hourHeaders = []string{
	"Cedula/ID", "Empleado", "Dias trabajados", "Horas totales", "Horas normales",
	"Extras diurnas", "Extras nocturnas", "Descanso", "Bono nocturno",
}

// FileName returns the conventional name, e.g. nomina-2025-01-Q2.xlsx.
func FileName(year int, month time.Month, half generic.Half) string {
	return fmt.Sprintf("nomina-%d-%02d-%s.xlsx", year, int(month), half)
}

// Write renders the workbook to w.
func Write(w io.Writer, title string, lines []Line) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", PaySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(HoursSheet); err != nil {
		return err
	}
	if err := f.SetDocProps(&excelize.DocProperties{Title: title, Creator: "nomina"}); err != nil {
		return err
	}

	if err := writeRow(f, PaySheet, 1, toAny(payHeaders)); err != nil {
		return err
	}
	if err := writeRow(f, HoursSheet, 1, toAny(hourHeaders)); err != nil {
		return err
	}

	var totals payroll.Totals
	for i, l := range lines {
		row := i + 2
		p := l.Pay
		err := writeRow(f, PaySheet, row, []any{
			string(l.EmployeeID), l.EmployeeName, l.Status,
			money(p.ExchangeRate), p.PeriodDays,
			money(p.MonthlyLocalPay.Value), money(p.DailyNormalPay.Value),
			money(p.IntegralDailyPay.Value), money(p.PeriodPay.Value),
			money(p.TaxableBase.Value), money(p.SocialSecurity.Value),
			money(p.UnemploymentInsurance.Value), money(p.HousingSavings.Value),
			money(p.TotalDeductions.Value), money(p.MealVoucher.Value), money(p.NetPay.Value),
		})
		if err != nil {
			return err
		}

		h := l.Hours
		err = writeRow(f, HoursSheet, row, []any{
			string(l.EmployeeID), l.EmployeeName, h.DaysWorked,
			money(h.TotalHours.Value), money(h.NormalHours.Value),
			money(h.DayOvertimeHours.Value), money(h.NightOvertimeHours.Value),
			money(h.RestDayHours.Value), money(h.NightPremiumHours.Value),
		})
		if err != nil {
			return err
		}

		totals.PeriodPay = totals.PeriodPay.Add(p.PeriodPay.Value)
		totals.TotalDeductions = totals.TotalDeductions.Add(p.TotalDeductions.Value)
		totals.MealVoucher = totals.MealVoucher.Add(p.MealVoucher.Value)
		totals.NetPay = totals.NetPay.Add(p.NetPay.Value)
	}

	totalRow := len(lines) + 2
	err := writeRow(f, PaySheet, totalRow, []any{
		"", "TOTAL", "", "", "", "", "", "",
		money(totals.PeriodPay), "", "", "", "",
		money(totals.TotalDeductions), money(totals.MealVoucher), money(totals.NetPay),
	})
	if err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	lastPay, _ := excelize.ColumnNumberToName(len(payHeaders))
	lastHours, _ := excelize.ColumnNumberToName(len(hourHeaders))
	if err := f.SetCellStyle(PaySheet, "A1", lastPay+"1", bold); err != nil {
		return err
	}
	if err := f.SetCellStyle(PaySheet, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("%s%d", lastPay, totalRow), bold); err != nil {
		return err
	}
	if err := f.SetCellStyle(HoursSheet, "A1", lastHours+"1", bold); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

package attendance

import (
	"github.com/bradycnk/Nominaft/generic"
	"github.com/bradycnk/Nominaft/shift"
)

// PeriodAggregate sums shift breakdowns for one employee over a period.
type PeriodAggregate struct {
	DaysWorked         int
	TotalHours         generic.Amount
	NormalHours        generic.Amount
	DayOvertimeHours   generic.Amount
	NightOvertimeHours generic.Amount
	RestDayHours       generic.Amount
	NightPremiumHours  generic.Amount
}

func NewPeriodAggregate() PeriodAggregate {
	zero := generic.ZeroAmount(generic.UnitHours)
	return PeriodAggregate{
		TotalHours:         zero,
		NormalHours:        zero,
		DayOvertimeHours:   zero,
		NightOvertimeHours: zero,
		RestDayHours:       zero,
		NightPremiumHours:  zero,
	}
}

// Add folds one computable record's breakdown into the aggregate.
func (a PeriodAggregate) Add(b shift.Breakdown) PeriodAggregate {
	a.DaysWorked++
	a.TotalHours = a.TotalHours.Add(b.Duration)
	a.NormalHours = a.NormalHours.Add(b.NormalHours)
	a.DayOvertimeHours = a.DayOvertimeHours.Add(b.DayOvertimeHours)
	a.NightOvertimeHours = a.NightOvertimeHours.Add(b.NightOvertimeHours)
	a.RestDayHours = a.RestDayHours.Add(b.RestDayHours)
	a.NightPremiumHours = a.NightPremiumHours.Add(b.NightPremiumHours)
	return a
}

// OvertimeHours returns day plus night overtime.
func (a PeriodAggregate) OvertimeHours() generic.Amount {
	return a.DayOvertimeHours.Add(a.NightOvertimeHours)
}

// Aggregate sums every computable record it is given. Records are not
// filtered by date or employee; the store already did that.
func Aggregate(records []Record) PeriodAggregate {
	agg := NewPeriodAggregate()
	for _, r := range records {
		if !r.Computable() {
			continue
		}
		agg = agg.Add(r.Breakdown())
	}
	return agg
}

// Summary is the attendance picture of one employee for one period.
type Summary struct {
	EmployeeID       generic.EmployeeID
	Period           generic.Period
	Hours            PeriodAggregate
	Absences         int
	MedicalLeaveDays int
	VacationDays     int
	Records          int
	Closed           bool // every record in the period is closed
}

// Summarize aggregates records and counts non-working statuses.
func Summarize(employeeID generic.EmployeeID, period generic.Period, records []Record) Summary {
	s := Summary{
		EmployeeID: employeeID,
		Period:     period,
		Hours:      Aggregate(records),
		Records:    len(records),
		Closed:     len(records) > 0,
	}
	for _, r := range records {
		switch r.Status {
		case StatusAbsent:
			s.Absences++
		case StatusMedicalLeave:
			s.MedicalLeaveDays++
		case StatusVacation:
			s.VacationDays++
		}
		if !r.Closed {
			s.Closed = false
		}
	}
	return s
}

package attendance_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bradycnk/Nominaft/attendance"
	"github.com/bradycnk/Nominaft/employee"
	"github.com/bradycnk/Nominaft/events"
	"github.com/bradycnk/Nominaft/generic"
	"github.com/bradycnk/Nominaft/logger"
	"github.com/bradycnk/Nominaft/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestService(t *testing.T) (*attendance.Service, *memory.Store, *events.Recorder) {
	t.Helper()
	store := memory.New()
	rec := &events.Recorder{}
	svc := attendance.NewService(store, store, events.NewEmitter(rec, logger.Nop()), logger.Nop())

	ctx := context.Background()
	require.NoError(t, store.CreateEmployee(ctx, employee.Employee{
		ID: "emp-1", FirstName: "Ana", LastName: "Rojas",
		ForeignPay:   generic.NewAmount(500, generic.UnitUSD),
		LocalBasePay: generic.NewAmount(130, generic.UnitVES),
		HireDate:     generic.NewDate(2022, time.January, 10),
		Active:       true,
	}))
	require.NoError(t, store.CreateEmployee(ctx, employee.Employee{
		ID: "emp-gone", FirstName: "Luis", LastName: "Mora",
		ForeignPay:   generic.NewAmount(300, generic.UnitUSD),
		LocalBasePay: generic.NewAmount(130, generic.UnitVES),
		HireDate:     generic.NewDate(2019, time.June, 1),
		Active:       false,
	}))
	return svc, store, rec
}

func day(d int) generic.Date { return generic.NewDate(2025, time.January, d) }

func q1() generic.Period {
	p, _ := generic.HalfMonth(2025, time.January, generic.FirstHalf)
	return p
}

func hoursEqual(t *testing.T, want string, got generic.Amount, field string) {
	t.Helper()
	assert.Truef(t, decimal.RequireFromString(want).Equal(got.Value), "%s: want %s, got %s", field, want, got.Value)
}

// =============================================================================
// AGGREGATION
// =============================================================================

func TestAggregate_SkipsNonComputableRecords(t *testing.T) {
	// GIVEN: A mix of complete, incomplete and non-present records
	// WHEN: Aggregated
	// THEN: Only complete present records count

	records := []attendance.Record{
		{Date: day(14), Status: attendance.StatusPresent, ClockIn: "14:00", ClockOut: "23:00"}, // Tue, mixed
		{Date: day(15), Status: attendance.StatusPresent, ClockIn: "08:00", ClockOut: "16:00"}, // Wed, diurnal
		{Date: day(13), Status: attendance.StatusPresent, ClockIn: "08:00"},                     // no clock-out
		{Date: day(10), Status: attendance.StatusPresent, ClockOut: "16:00"},                    // no clock-in
		{Date: day(11), Status: attendance.StatusPresent, ClockIn: "xx", ClockOut: "16:00"},     // malformed
		{Date: day(9), Status: attendance.StatusAbsent, ClockIn: "08:00", ClockOut: "16:00"},    // absent
		{Date: day(4), Status: attendance.StatusPresent, ClockIn: "09:00", ClockOut: "17:00"},  // Saturday
	}

	agg := attendance.Aggregate(records)

	assert.Equal(t, 3, agg.DaysWorked)
	hoursEqual(t, "25", agg.TotalHours, "total")
	hoursEqual(t, "15.5", agg.NormalHours, "normal")
	hoursEqual(t, "0", agg.DayOvertimeHours, "dayOT")
	hoursEqual(t, "1.5", agg.NightOvertimeHours, "nightOT")
	hoursEqual(t, "8", agg.RestDayHours, "restDay")
	hoursEqual(t, "4", agg.NightPremiumHours, "nightPremium")
	hoursEqual(t, "1.5", agg.OvertimeHours(), "overtime")
}

func TestAggregate_Empty(t *testing.T) {
	agg := attendance.Aggregate(nil)
	assert.Equal(t, 0, agg.DaysWorked)
	assert.True(t, agg.TotalHours.IsZero())
	assert.Equal(t, generic.UnitHours, agg.TotalHours.Unit)
}

func TestSummarize_CountsStatuses(t *testing.T) {
	records := []attendance.Record{
		{Date: day(6), Status: attendance.StatusPresent, ClockIn: "08:00", ClockOut: "16:00", Closed: true},
		{Date: day(7), Status: attendance.StatusAbsent, Closed: true},
		{Date: day(8), Status: attendance.StatusMedicalLeave, Closed: true},
		{Date: day(9), Status: attendance.StatusVacation, Closed: false},
	}

	s := attendance.Summarize("emp-1", q1(), records)

	assert.Equal(t, 1, s.Hours.DaysWorked)
	assert.Equal(t, 1, s.Absences)
	assert.Equal(t, 1, s.MedicalLeaveDays)
	assert.Equal(t, 1, s.VacationDays)
	assert.Equal(t, 4, s.Records)
	assert.False(t, s.Closed, "one open record keeps the period open")
}

func TestParseStatus(t *testing.T) {
	st, err := attendance.ParseStatus("medical-leave")
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusMedicalLeave, st)

	_, err = attendance.ParseStatus("sick")
	assert.ErrorIs(t, err, generic.ErrInvalidStatus)
}

// =============================================================================
// CHECK-IN / CHECK-OUT
// =============================================================================

func TestService_CheckInCheckOut(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	rec, err := svc.CheckIn(ctx, "emp-1", day(15), "8:00")
	require.NoError(t, err)
	assert.Equal(t, "08:00", rec.ClockIn)
	assert.Equal(t, attendance.StatusPresent, rec.Status)
	assert.NotEmpty(t, rec.ID)

	rec, err = svc.CheckOut(ctx, "emp-1", day(15), "17:30")
	require.NoError(t, err)
	assert.Equal(t, "17:30", rec.ClockOut)

	stored, err := store.GetRecord(ctx, "emp-1", day(15))
	require.NoError(t, err)
	b := stored.Breakdown()
	hoursEqual(t, "8", b.NormalHours, "normal")
	hoursEqual(t, "1.5", b.DayOvertimeHours, "dayOT")
}

func TestService_CheckIn_IsUpsert(t *testing.T) {
	// GIVEN: A completed day
	// WHEN: Checking in again on the same day
	// THEN: The same record is reused and the clock-out cleared

	svc, store, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.CheckIn(ctx, "emp-1", day(15), "08:00")
	require.NoError(t, err)
	_, err = svc.CheckOut(ctx, "emp-1", day(15), "16:00")
	require.NoError(t, err)

	second, err := svc.CheckIn(ctx, "emp-1", day(15), "09:00")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	recs, err := store.ListRecords(ctx, "emp-1", q1())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "09:00", recs[0].ClockIn)
	assert.Empty(t, recs[0].ClockOut)
}

func TestService_CheckIn_Rejections(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, "nobody", day(15), "08:00")
	assert.ErrorIs(t, err, generic.ErrEmployeeNotFound)

	_, err = svc.CheckIn(ctx, "emp-gone", day(15), "08:00")
	assert.ErrorIs(t, err, generic.ErrEmployeeInactive)

	_, err = svc.CheckIn(ctx, "emp-1", day(15), "8am")
	assert.ErrorIs(t, err, generic.ErrInvalidClock)
}

func TestService_CheckOut_Rejections(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	// No record at all
	_, err := svc.CheckOut(ctx, "emp-1", day(15), "16:00")
	assert.ErrorIs(t, err, generic.ErrMissingClockIn)

	// Record without clock-in
	_, err = svc.MarkStatus(ctx, "emp-1", day(16), attendance.StatusAbsent, "")
	require.NoError(t, err)
	_, err = svc.CheckOut(ctx, "emp-1", day(16), "16:00")
	assert.ErrorIs(t, err, generic.ErrMissingClockIn)

	// Zero-length shift
	_, err = svc.CheckIn(ctx, "emp-1", day(14), "08:00")
	require.NoError(t, err)
	_, err = svc.CheckOut(ctx, "emp-1", day(14), "08:00")
	assert.ErrorIs(t, err, generic.ErrZeroLengthShift)
}

func TestService_CheckOut_OvernightAccepted(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, "emp-1", day(15), "20:00")
	require.NoError(t, err)
	rec, err := svc.CheckOut(ctx, "emp-1", day(15), "05:00")
	require.NoError(t, err)

	hoursEqual(t, "9", rec.Breakdown().NightPremiumHours, "nightPremium")
}

// =============================================================================
// STATUS & CLOSING
// =============================================================================

func TestService_MarkStatus_ClearsClocks(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, "emp-1", day(15), "08:00")
	require.NoError(t, err)

	rec, err := svc.MarkStatus(ctx, "emp-1", day(15), attendance.StatusMedicalLeave, "reposo")
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusMedicalLeave, rec.Status)
	assert.Empty(t, rec.ClockIn)
	assert.Equal(t, "reposo", rec.Notes)

	_, err = svc.MarkStatus(ctx, "emp-1", day(15), attendance.Status("late"), "")
	assert.ErrorIs(t, err, generic.ErrInvalidStatus)
}

func TestService_ClosePeriod_LocksRecords(t *testing.T) {
	// GIVEN: Two records in Q1 and one in Q2
	// WHEN: Q1 is closed
	// THEN: Q1 records reject writes, Q2 stays open, an event is published

	svc, _, rec := newTestService(t)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, "emp-1", day(14), "08:00")
	require.NoError(t, err)
	_, err = svc.CheckIn(ctx, "emp-1", day(15), "08:00")
	require.NoError(t, err)
	_, err = svc.CheckIn(ctx, "emp-1", day(16), "08:00")
	require.NoError(t, err)

	n, err := svc.ClosePeriod(ctx, "emp-1", q1())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = svc.CheckOut(ctx, "emp-1", day(15), "16:00")
	assert.ErrorIs(t, err, generic.ErrRecordClosed)
	var closedErr *generic.ClosedRecordError
	require.ErrorAs(t, err, &closedErr)
	assert.True(t, closedErr.Date.Equal(day(15)))

	_, err = svc.CheckIn(ctx, "emp-1", day(14), "09:00")
	assert.ErrorIs(t, err, generic.ErrRecordClosed)

	_, err = svc.MarkStatus(ctx, "emp-1", day(14), attendance.StatusAbsent, "")
	assert.ErrorIs(t, err, generic.ErrRecordClosed)

	_, err = svc.CheckOut(ctx, "emp-1", day(16), "16:00")
	assert.NoError(t, err, "Q2 record is still open")

	summary, err := svc.Summarize(ctx, "emp-1", q1())
	require.NoError(t, err)
	assert.True(t, summary.Closed)

	assert.Len(t, rec.OfType(events.EventPeriodClosed), 1)
}

func TestService_Summarize_UnknownEmployee(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Summarize(context.Background(), "nobody", q1())
	assert.ErrorIs(t, err, generic.ErrEmployeeNotFound)
}

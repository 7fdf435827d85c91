package shift

import (
	"github.com/shopspring/decimal"

	"github.com/bradycnk/Nominaft/generic"
)

// band is a half-open interval [start, end) on the extended 0-29 hour line.
type band struct {
	start decimal.Decimal
	end   decimal.Decimal
}

var (
	hoursPerDay = decimal.NewFromInt(24)

	// 19:00-05:00 projected onto the extended line.
	nightBands = []band{
		{start: decimal.NewFromInt(0), end: decimal.NewFromInt(5)},
		{start: decimal.NewFromInt(19), end: decimal.NewFromInt(24)},
		{start: decimal.NewFromInt(24), end: decimal.NewFromInt(29)},
	}

	// More than this many nocturnal hours makes the whole shift nocturnal.
	predominantlyNocturnal = decimal.NewFromInt(4)
)

// Classify parses the record's date and classifies the shift. An unparseable
// date yields a zero breakdown, the same as an unparseable clock.
func Classify(clockIn, clockOut, date string) Breakdown {
	d, err := generic.ParseDate(date)
	if err != nil {
		return ZeroBreakdown()
	}
	return ClassifyOn(clockIn, clockOut, d)
}

// ClassifyOn classifies one shift worked on the given calendar date.
//
// ALGORITHM:
//  1. Place the shift on the extended line (clock-out < clock-in adds 24h)
//  2. Sum overlap with the nocturnal bands -> shift type and night premium
//  3. Rest day: entire duration is rest-day hours, no overtime split
//  4. Otherwise split at the type's threshold; overtime is divided into
//     night and day by overlap of [start+threshold, end) with the same bands
func ClassifyOn(clockIn, clockOut string, date generic.Date) Breakdown {
	start, ok := ParseClock(clockIn)
	if !ok {
		return ZeroBreakdown()
	}
	end, ok := ParseClock(clockOut)
	if !ok {
		return ZeroBreakdown()
	}
	if end.LessThan(start) {
		end = end.Add(hoursPerDay)
	}

	duration := clamp(end.Sub(start))
	realNight := nightOverlap(start, end)

	out := ZeroBreakdown()
	out.Duration = hours(duration)

	switch {
	case realNight.GreaterThan(predominantlyNocturnal):
		out.Type = Nocturnal
		out.NightPremiumHours = hours(duration)
	case realNight.IsPositive():
		out.Type = Mixed
		out.NightPremiumHours = hours(realNight)
	default:
		out.Type = Diurnal
	}

	if date.IsRestDay() {
		out.RestDayHours = hours(duration)
		return out
	}

	threshold := out.Type.Threshold()
	if duration.LessThanOrEqual(threshold) {
		out.NormalHours = hours(duration)
		return out
	}

	overtimeStart := start.Add(threshold)
	nightOT := nightOverlap(overtimeStart, end)
	dayOT := clamp(end.Sub(overtimeStart).Sub(nightOT))

	out.NormalHours = hours(threshold)
	out.NightOvertimeHours = hours(nightOT)
	out.DayOvertimeHours = hours(dayOT)
	return out
}

// nightOverlap returns how much of [start, end) falls inside the nocturnal bands.
func nightOverlap(start, end decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, b := range nightBands {
		total = total.Add(overlap(start, end, b))
	}
	return total
}

func overlap(start, end decimal.Decimal, b band) decimal.Decimal {
	lo := decimal.Max(start, b.start)
	hi := decimal.Min(end, b.end)
	return clamp(hi.Sub(lo))
}

func clamp(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func hours(d decimal.Decimal) generic.Amount {
	return generic.NewAmountFromDecimal(d, generic.UnitHours)
}

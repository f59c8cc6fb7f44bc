/*
accumulate.go - Daily threshold accumulator

PURPOSE:
  The core pricing pass. Consumes one calendar date's atomic intervals in
  chronological order, tracks cumulative regular hours against the 8-hour
  daily cap, splits any interval straddling the cap into a regular slice and
  an overtime slice, and prices each slice with the composed multiplier
  (holiday x overtime-ratio x night).

PREMIUM ISOLATION:
  Each slice's pay is multiplicative, but the running totals decompose it
  into strictly additive buckets that never double count:

    base            = hours x rate
    holidayPremium  = hours x rate x (workedRate - 1)
    restDayPremium  = hours x rate x (baseMult - workedRate)
    overtimePay     = hours x rate x baseMult x (otRatio - 1)
    nightPremium    = hours x rate x baseMult x otRatio x nightRate

  where baseMult is the rest-day rate when the date is a rest day, else the
  worked rate. The five buckets sum exactly to the slice's full pay, so no
  hour is ever charged two independent 100% base rates.

THRESHOLD SEMANTICS:
  The regular-hours counter starts at the caller's per-date seed (default 0)
  and is local to one invocation. Two shift records on the same date each get
  their own cap unless the caller threads the seed between them.

SEE ALSO:
  - segment.go: Produces the atomic intervals
  - calculator.go: Rounds and assembles the final breakdown
*/
package wage

import (
	"github.com/shopspring/decimal"
)

// dailyRegularCap is the statutory daily overtime threshold, in hours.
var dailyRegularCap = decimal.NewFromInt(8)

var one = decimal.NewFromInt(1)

// accumulateDay prices one calendar date's intervals and returns the date's
// unrounded breakdown. priorHours seeds the regular-hours counter.
func accumulateDay(
	seg daySegment,
	res Resolution,
	restDay bool,
	hourlyRate decimal.Decimal,
	opts Options,
	priorHours decimal.Decimal,
) DatePayBreakdown {

	day := DatePayBreakdown{
		Date:             seg.Date.Format(isoDate),
		HolidayType:      res.Class,
		HolidayName:      res.Name,
		RestDay:          restDay,
		HoursWorked:      decimal.Zero,
		OvertimeHours:    decimal.Zero,
		NightHours:       decimal.Zero,
		BasePay:          decimal.Zero,
		HolidayPremium:   decimal.Zero,
		RestDayPremium:   decimal.Zero,
		OvertimePay:      decimal.Zero,
		NightDiffPremium: decimal.Zero,
		TotalForDate:     decimal.Zero,
	}

	rates := opts.rateTable()
	workedRate := rates.For(res.Class).Worked

	consumed := priorHours
	if consumed.IsNegative() {
		consumed = decimal.Zero
	}

	for _, iv := range atomicIntervals(seg) {
		remaining := hoursBetween(iv.Start, iv.End)
		sliceStart := iv.Start

		// Linear consumption: at most two slices per interval (regular part
		// up to the cap, then the overtime remainder).
		for remaining.IsPositive() {
			regularLeft := dailyRegularCap.Sub(consumed)
			if regularLeft.IsNegative() {
				regularLeft = decimal.Zero
			}

			overtime := !regularLeft.IsPositive()
			sliceHours := remaining
			if !overtime && remaining.GreaterThan(regularLeft) {
				sliceHours = regularLeft
			}

			sliceEnd := sliceStart.Add(durationOf(sliceHours))

			baseMult, otRatio := rates.Multipliers(res.Class, restDay, overtime)
			nightMult := one
			if iv.Night {
				nightMult = one.Add(opts.NightDiffRate)
			}

			slicePay := sliceHours.Mul(hourlyRate).Mul(baseMult).Mul(otRatio).Mul(nightMult)

			day.DetailedHourBreakdown = append(day.DetailedHourBreakdown, HourlyBucket{
				Start:              sliceStart,
				End:                sliceEnd,
				Hours:              sliceHours,
				Night:              iv.Night,
				Overtime:           overtime,
				HolidayMultiplier:  baseMult,
				OvertimeMultiplier: otRatio,
				NightMultiplier:    nightMult,
				Pay:                slicePay,
			})

			sliceBase := sliceHours.Mul(hourlyRate)
			day.BasePay = day.BasePay.Add(sliceBase)
			day.HolidayPremium = day.HolidayPremium.Add(sliceBase.Mul(workedRate.Sub(one)))
			if restDay {
				day.RestDayPremium = day.RestDayPremium.Add(sliceBase.Mul(baseMult.Sub(workedRate)))
			}
			if overtime {
				day.OvertimeHours = day.OvertimeHours.Add(sliceHours)
				day.OvertimePay = day.OvertimePay.Add(sliceBase.Mul(baseMult).Mul(otRatio.Sub(one)))
			} else {
				day.HoursWorked = day.HoursWorked.Add(sliceHours)
				consumed = consumed.Add(sliceHours)
			}
			if iv.Night {
				day.NightHours = day.NightHours.Add(sliceHours)
				day.NightDiffPremium = day.NightDiffPremium.Add(
					sliceBase.Mul(baseMult).Mul(otRatio).Mul(opts.NightDiffRate))
			}
			day.TotalForDate = day.TotalForDate.Add(slicePay)

			remaining = remaining.Sub(sliceHours)
			sliceStart = sliceEnd
		}
	}

	return day
}

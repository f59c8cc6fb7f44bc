/*
calculator.go - Per-shift orchestration, validation, rounding

PURPOSE:
  Drives the full pipeline for one shift: validate inputs, pick the effective
  span (actual clock times preferred over scheduled), split at midnight,
  resolve each date's holiday classification, run the daily threshold
  accumulator per date, then round once and assemble a date-sorted
  PayBreakdown.

ERROR POLICY:
  Structural input errors (non-positive rate, missing or inverted times,
  spans over 24h, no payable segments) return an empty breakdown with an
  explanatory note. The engine never returns a Go error for business-rule
  violations; callers inspect Notes and the zero-ness of GrossPay.

ROUNDING DISCIPLINE:
  All rounding is centralized in roundBreakdown and applied exactly once, to
  accumulated unrounded sums. Rounding intermediate slices and summing the
  rounded values would compound error across slices and not reproduce the
  reference numbers. Currency rounds to 2 decimals; hours truncate to 4.

SEE ALSO:
  - segment.go, accumulate.go: The pipeline stages
  - aggregate.go: Merging shift breakdowns into a payroll period
*/
package wage

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// maxShiftDuration rejects implausible spans; a single shift never legally
// exceeds one full day.
const maxShiftDuration = 24 * time.Hour

// Calculator computes pay breakdowns for shifts. It is stateless between
// calls and safe for concurrent use as long as the resolver is.
type Calculator struct {
	resolver HolidayResolver
	opts     Options
}

// NewCalculator builds a calculator. A nil resolver classifies every date as
// normal.
func NewCalculator(resolver HolidayResolver, opts Options) *Calculator {
	if resolver == nil {
		resolver = NoHolidays
	}
	return &Calculator{resolver: resolver, opts: opts}
}

// SelectResolver implements the resolution-order rule: a caller-supplied
// lookup function takes priority over a static holiday table.
func SelectResolver(fn ResolverFunc, holidays []Holiday) HolidayResolver {
	if fn != nil {
		return fn
	}
	return NewStaticCalendar(holidays)
}

// ComputeShift prices one shift at the given hourly rate.
func (c *Calculator) ComputeShift(shift Shift, hourlyRate decimal.Decimal) PayBreakdown {
	if !hourlyRate.IsPositive() {
		return zeroBreakdown(c.opts, fmt.Sprintf("shift %s rejected: hourly rate must be positive, got %s", shift.ID, hourlyRate))
	}

	var notes []string

	start, end, fellBack := shift.EffectiveSpan()
	if fellBack {
		notes = append(notes, fmt.Sprintf("shift %s: actual clock times incomplete, using scheduled times", shift.ID))
	}

	if start.IsZero() || end.IsZero() {
		return zeroBreakdown(c.opts, fmt.Sprintf("shift %s rejected: missing start or end time", shift.ID))
	}
	if !end.After(start) {
		return zeroBreakdown(c.opts, fmt.Sprintf("shift %s rejected: end time is not after start time", shift.ID))
	}
	if end.Sub(start) > maxShiftDuration {
		return zeroBreakdown(c.opts, fmt.Sprintf("shift %s rejected: duration exceeds 24 hours", shift.ID))
	}

	resolver := c.resolver
	if !c.opts.ApplyHolidayLogic {
		resolver = NoHolidays
		notes = append(notes, fmt.Sprintf("shift %s: holiday logic disabled by configuration", shift.ID))
	} else if !c.opts.HolidayCutoffDate.IsZero() && start.Before(c.opts.HolidayCutoffDate) {
		resolver = NoHolidays
		notes = append(notes, fmt.Sprintf("shift %s: holiday logic skipped, shift predates cutoff %s",
			shift.ID, c.opts.HolidayCutoffDate.Format(isoDate)))
	}

	segments := splitAtMidnight(start, end)
	if len(segments) == 0 {
		return zeroBreakdown(c.opts, fmt.Sprintf("shift %s rejected: no payable segments", shift.ID))
	}

	breakdown := PayBreakdown{
		TaxesNotIncluded: true,
		Notes:            notes,
		TotalHours:       decimal.Zero,
		GrossPay:         decimal.Zero,
	}

	totalOT := decimal.Zero
	for _, seg := range segments {
		res := resolver.Resolve(seg.Date)
		restDay := seg.Date.Weekday() == c.opts.RestDayWeekday
		prior := decimal.Zero
		if h, ok := c.opts.PriorHoursWorked[seg.Date.Format(isoDate)]; ok {
			prior = decimal.NewFromFloat(h)
		}

		day := accumulateDay(seg, res, restDay, hourlyRate, c.opts, prior)
		breakdown.PerDate = append(breakdown.PerDate, day)
		breakdown.TotalHours = breakdown.TotalHours.Add(day.HoursWorked).Add(day.OvertimeHours)
		breakdown.GrossPay = breakdown.GrossPay.Add(day.TotalForDate)
		totalOT = totalOT.Add(day.OvertimeHours)
	}

	sort.Slice(breakdown.PerDate, func(i, j int) bool {
		return breakdown.PerDate[i].Date < breakdown.PerDate[j].Date
	})
	breakdown.WeeklyOTHoursToReview = c.opts.WeeklyOvertimeSeed.Add(totalOT)

	roundBreakdown(&breakdown)
	return breakdown
}

// =============================================================================
// ROUNDING - Applied once, at output assembly
// =============================================================================

const (
	currencyPlaces = 2
	hourPlaces     = 4
)

func roundCurrency(d decimal.Decimal) decimal.Decimal { return d.Round(currencyPlaces) }
func truncateHours(d decimal.Decimal) decimal.Decimal { return d.Truncate(hourPlaces) }

// roundBreakdown normalizes every monetary and hour field in place. This is
// the only place rounding happens.
func roundBreakdown(b *PayBreakdown) {
	for i := range b.PerDate {
		d := &b.PerDate[i]
		d.HoursWorked = truncateHours(d.HoursWorked)
		d.OvertimeHours = truncateHours(d.OvertimeHours)
		d.NightHours = truncateHours(d.NightHours)
		d.BasePay = roundCurrency(d.BasePay)
		d.HolidayPremium = roundCurrency(d.HolidayPremium)
		d.RestDayPremium = roundCurrency(d.RestDayPremium)
		d.OvertimePay = roundCurrency(d.OvertimePay)
		d.NightDiffPremium = roundCurrency(d.NightDiffPremium)
		d.TotalForDate = roundCurrency(d.TotalForDate)
		for j := range d.DetailedHourBreakdown {
			bk := &d.DetailedHourBreakdown[j]
			bk.Hours = truncateHours(bk.Hours)
			bk.Pay = roundCurrency(bk.Pay)
		}
	}
	b.TotalHours = truncateHours(b.TotalHours)
	b.GrossPay = roundCurrency(b.GrossPay)
	b.WeeklyOTHoursToReview = truncateHours(b.WeeklyOTHoursToReview)
}

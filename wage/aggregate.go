/*
aggregate.go - Merging breakdowns across a payroll period

PURPOSE:
  Combines multiple shifts' breakdowns into one aggregated PayBreakdown,
  keyed by calendar date. Used to compute a payroll period's total from its
  constituent shifts.

MERGE SEMANTICS:
  - Same-date DatePayBreakdowns are summed field by field; bucket lists are
    concatenated in input order
  - PerDate is re-sorted chronologically
  - TotalHours, GrossPay and WeeklyOTHoursToReview are summed across inputs
  - TaxesNotIncluded is true only when true for every input
  - Notes are concatenated

  The merge is associative and commutative over date keys, so a period can
  be reduced in any grouping (or in parallel) with identical results.
*/
package wage

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Merge combines per-shift breakdowns into one period breakdown. Merging an
// empty slice yields an empty breakdown.
func Merge(breakdowns []PayBreakdown) PayBreakdown {
	merged := PayBreakdown{
		TotalHours:            decimal.Zero,
		GrossPay:              decimal.Zero,
		TaxesNotIncluded:      true,
		WeeklyOTHoursToReview: decimal.Zero,
	}

	byDate := make(map[string]*DatePayBreakdown)
	var order []string

	for _, b := range breakdowns {
		merged.TotalHours = merged.TotalHours.Add(b.TotalHours)
		merged.GrossPay = merged.GrossPay.Add(b.GrossPay)
		merged.WeeklyOTHoursToReview = merged.WeeklyOTHoursToReview.Add(b.WeeklyOTHoursToReview)
		merged.TaxesNotIncluded = merged.TaxesNotIncluded && b.TaxesNotIncluded
		merged.Notes = append(merged.Notes, b.Notes...)

		for _, day := range b.PerDate {
			existing, ok := byDate[day.Date]
			if !ok {
				clone := day
				clone.DetailedHourBreakdown = append([]HourlyBucket(nil), day.DetailedHourBreakdown...)
				byDate[day.Date] = &clone
				order = append(order, day.Date)
				continue
			}
			mergeDate(existing, day)
		}
	}

	sort.Strings(order)
	merged.PerDate = make([]DatePayBreakdown, 0, len(order))
	for _, date := range order {
		merged.PerDate = append(merged.PerDate, *byDate[date])
	}
	return merged
}

// mergeDate folds src into dst, which must share the same date. Holiday
// classification and rest-day flag come from the first breakdown seen for
// the date; all inputs for one date resolve them identically anyway.
func mergeDate(dst *DatePayBreakdown, src DatePayBreakdown) {
	dst.HoursWorked = dst.HoursWorked.Add(src.HoursWorked)
	dst.OvertimeHours = dst.OvertimeHours.Add(src.OvertimeHours)
	dst.NightHours = dst.NightHours.Add(src.NightHours)
	dst.BasePay = dst.BasePay.Add(src.BasePay)
	dst.HolidayPremium = dst.HolidayPremium.Add(src.HolidayPremium)
	dst.RestDayPremium = dst.RestDayPremium.Add(src.RestDayPremium)
	dst.OvertimePay = dst.OvertimePay.Add(src.OvertimePay)
	dst.NightDiffPremium = dst.NightDiffPremium.Add(src.NightDiffPremium)
	dst.TotalForDate = dst.TotalForDate.Add(src.TotalForDate)
	dst.DetailedHourBreakdown = append(dst.DetailedHourBreakdown, src.DetailedHourBreakdown...)
}

/*
Package wage implements the wage computation engine.

PURPOSE:
  This package turns a single work shift (a start/end time span, possibly
  spanning midnight) into a legally compliant pay breakdown under a labor
  regime with daily overtime thresholds, multiple holiday classes, night-shift
  premiums, and rest-day premiums. All of these can overlap on the same worked
  minute and combine by well-defined, non-double-counting multiplier rules.

KEY CONCEPTS IN THIS FILE (types.go):
  - Shift: Immutable input span with optional actual clock times
  - HourlyBucket: The smallest unit of time priced atomically
  - DatePayBreakdown: One calendar date's aggregate
  - PayBreakdown: The full result for a shift or a merged payroll period
  - Options: Per-call knobs (night rate, holiday cutoff, prior-hours seed)

DESIGN PRINCIPLES:
  1. Purity: No I/O, no shared state. Every call builds fresh results.
  2. Precision: decimal.Decimal for money and hours; rounding happens once,
     at final assembly, never mid-computation.
  3. Non-fatal errors: Structural input problems produce a zero breakdown
     plus a human-readable note, never an error return.
  4. Auditability: Every priced slice is emitted as an HourlyBucket.

USAGE:
  calc := wage.NewCalculator(wage.NewStaticCalendar(holidays), wage.DefaultOptions())
  breakdown := calc.ComputeShift(shift, decimal.NewFromInt(100))

SEE ALSO:
  - segment.go: Midnight segmenter and boundary builder
  - rates.go: Fixed multiplier table per holiday classification
  - accumulate.go: Daily threshold accumulator (the core algorithm)
  - calculator.go: Per-shift orchestration, validation, rounding
  - aggregate.go: Merging breakdowns across a payroll period
*/
package wage

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SHIFT - Immutable input to the engine
// =============================================================================

// Shift is one scheduled work span for one employee. The engine never mutates
// it. When both actual clock times are present they are preferred over the
// scheduled pair.
type Shift struct {
	ID         string
	EmployeeID string

	Start time.Time
	End   time.Time

	// Optional actual clock-in/out. Zero values mean "not recorded".
	ActualStart time.Time
	ActualEnd   time.Time
}

// EffectiveSpan returns the span the engine prices: the actual clock times
// when both are recorded, otherwise the scheduled pair. The second return
// reports whether the engine fell back to scheduled times despite at least
// one actual time being absent.
func (s Shift) EffectiveSpan() (start, end time.Time, fellBack bool) {
	if !s.ActualStart.IsZero() && !s.ActualEnd.IsZero() {
		return s.ActualStart, s.ActualEnd, false
	}
	partial := !s.ActualStart.IsZero() || !s.ActualEnd.IsZero()
	return s.Start, s.End, partial
}

// =============================================================================
// OPTIONS - Per-call configuration
// =============================================================================

// Options configures one computation. The zero value is NOT usable; call
// DefaultOptions and override fields as needed.
type Options struct {
	// NightDiffRate is the statutory premium for hours worked inside the
	// 22:00-06:00 window, expressed as a fraction (0.10 = +10%).
	NightDiffRate decimal.Decimal

	// RestDayWeekday is the employee's configured rest day (0 = Sunday).
	RestDayWeekday time.Weekday

	// ApplyHolidayLogic disables all holiday classification when false.
	ApplyHolidayLogic bool

	// HolidayCutoffDate, when non-zero, disables holiday logic for shifts
	// starting before it. Used to grandfather historical records computed
	// under an older rule set. Skipping emits a note, never a silent change.
	HolidayCutoffDate time.Time

	// PriorHoursWorked seeds the daily regular-hours counter, keyed by ISO
	// date (2006-01-02). A caller that splits one working day across several
	// shift records can use this to share the 8-hour cap between them.
	// Absent dates seed at zero.
	PriorHoursWorked map[string]float64

	// WeeklyOvertimeSeed is a running overtime-hours counter carried across
	// shifts. The engine adds this shift's overtime hours to it and reports
	// the sum; it never caps it.
	WeeklyOvertimeSeed decimal.Decimal

	// Rates overrides the statutory multiplier table. Nil means the standard
	// table. Substitutable for testing alternate labor regimes.
	Rates *RateTable
}

// DefaultOptions returns the standard configuration: 10% night differential,
// Sunday rest day, holiday logic enabled, no cutoff.
func DefaultOptions() Options {
	return Options{
		NightDiffRate:     decimal.NewFromFloat(0.10),
		RestDayWeekday:    time.Sunday,
		ApplyHolidayLogic: true,
	}
}

// rateTable returns the effective multiplier table for this call.
func (o Options) rateTable() *RateTable {
	if o.Rates != nil {
		return o.Rates
	}
	return &StandardRates
}

// =============================================================================
// HOURLY BUCKET - Atomic priced slice
// =============================================================================

// HourlyBucket is one atomic, non-splittable pay computation. It is uniform
// in night status and in regular/overtime status by construction. Produced
// only by the accumulator; immutable afterwards.
type HourlyBucket struct {
	Start time.Time       `json:"start"`
	End   time.Time       `json:"end"`
	Hours decimal.Decimal `json:"hours"`

	Night    bool `json:"night"`
	Overtime bool `json:"overtime"`

	// The three multipliers applied to this slice.
	HolidayMultiplier  decimal.Decimal `json:"holiday_multiplier"`
	OvertimeMultiplier decimal.Decimal `json:"overtime_multiplier"`
	NightMultiplier    decimal.Decimal `json:"night_multiplier"`

	// Pay = Hours x hourlyRate x the three multipliers above.
	Pay decimal.Decimal `json:"pay"`
}

// =============================================================================
// DATE PAY BREAKDOWN - One calendar date's aggregate
// =============================================================================

// DatePayBreakdown aggregates all buckets of one calendar date.
//
// Invariants:
//   - HoursWorked + OvertimeHours equals the date's total worked duration
//   - TotalForDate equals the sum of DetailedHourBreakdown pay
//   - BasePay + HolidayPremium + RestDayPremium + OvertimePay +
//     NightDiffPremium equals TotalForDate (the premium decomposition is
//     additive even though each slice's pay is multiplicative)
type DatePayBreakdown struct {
	Date string `json:"date"` // ISO date, 2006-01-02

	HolidayType HolidayClass `json:"holiday_type"`
	HolidayName string       `json:"holiday_name,omitempty"`
	RestDay     bool         `json:"rest_day"`

	HoursWorked   decimal.Decimal `json:"hours_worked"`   // regular hours only
	OvertimeHours decimal.Decimal `json:"overtime_hours"` // beyond the daily cap
	NightHours    decimal.Decimal `json:"night_hours"`

	BasePay          decimal.Decimal `json:"base_pay"` // rate x hours, before multipliers
	HolidayPremium   decimal.Decimal `json:"holiday_premium"`
	RestDayPremium   decimal.Decimal `json:"rest_day_premium"`
	OvertimePay      decimal.Decimal `json:"overtime_pay"`       // premium portion only
	NightDiffPremium decimal.Decimal `json:"night_diff_premium"` // premium portion only

	TotalForDate decimal.Decimal `json:"total_for_date"`

	DetailedHourBreakdown []HourlyBucket `json:"detailed_hour_breakdown"`
}

// =============================================================================
// PAY BREAKDOWN - Full result
// =============================================================================

// PayBreakdown is the engine's output for one shift, or for a merged payroll
// period. PerDate is chronologically sorted with one entry per distinct date.
type PayBreakdown struct {
	PerDate []DatePayBreakdown `json:"per_date"`

	TotalHours decimal.Decimal `json:"total_hours"`
	GrossPay   decimal.Decimal `json:"gross_pay"`

	// TaxesNotIncluded marks that withholding and statutory contributions are
	// deliberately excluded; a caller combines the breakdown with deduction
	// logic.
	TaxesNotIncluded bool `json:"taxes_not_included"`

	// Notes carries data-quality warnings and rejection reasons. A zero
	// GrossPay plus a note means the shift was structurally invalid.
	Notes []string `json:"notes,omitempty"`

	// WeeklyOTHoursToReview is a running overtime counter the engine reports
	// but never caps. Callers enforce any weekly limit themselves.
	WeeklyOTHoursToReview decimal.Decimal `json:"weekly_ot_hours_to_review"`
}

// zeroBreakdown returns an empty breakdown carrying a rejection note. Used
// for every structural input error: the engine never returns an error for
// business-rule violations.
func zeroBreakdown(opts Options, note string) PayBreakdown {
	return PayBreakdown{
		TotalHours:            decimal.Zero,
		GrossPay:              decimal.Zero,
		TaxesNotIncluded:      true,
		Notes:                 []string{note},
		WeeklyOTHoursToReview: opts.WeeklyOvertimeSeed,
	}
}

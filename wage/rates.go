/*
rates.go - Statutory multiplier table

PURPOSE:
  Yields the pay multiplier for a worked hour given the date's holiday
  classification, whether the date is the employee's rest day, and whether
  the hour is beyond the daily overtime threshold. These are fixed statutory
  constants, not derived values; the engine must reproduce them exactly.

THE TABLE (worked / overtime / rest-day / rest-day-overtime):
  normal:              1.0  / 1.25 / 1.3 / 1.69
  regular:             2.0  / 2.6  / 2.6 / 3.38
  special_non_working: 1.3  / 1.69 / 1.5 / 1.95
  special_working:     1.0  / 1.25 / 1.3 / 1.69

COMPOSITION RULE:
  The overtime multiplier applied to a slice is the RATIO of the overtime
  rate to the base rate for the same rest/holiday combination. Overtime
  premium is therefore additive on top of the holiday/rest premium, not
  multiplicative with it: a regular-holiday overtime hour pays
  2.0 x (2.6/2.0) = 2.6, never 2.0 x 2.6.

SUBSTITUTION:
  StandardRates is the statutory default. Options.Rates accepts any other
  RateTable so tests can model alternate labor regimes; the table itself is
  an immutable value, never mutable global state.

SEE ALSO:
  - accumulate.go: Applies these multipliers per slice
*/
package wage

import "github.com/shopspring/decimal"

// =============================================================================
// RATE TABLE
// =============================================================================

// ClassRates holds the four multipliers for one holiday classification.
type ClassRates struct {
	Worked          decimal.Decimal
	Overtime        decimal.Decimal
	RestDay         decimal.Decimal
	RestDayOvertime decimal.Decimal
}

// RateTable maps each holiday classification to its multipliers. A lookup on
// an unknown class falls back to the normal entry.
type RateTable struct {
	Normal            ClassRates
	Regular           ClassRates
	SpecialNonWorking ClassRates
	SpecialWorking    ClassRates
}

// StandardRates is the statutory multiplier table.
var StandardRates = RateTable{
	Normal: ClassRates{
		Worked:          dec("1.0"),
		Overtime:        dec("1.25"),
		RestDay:         dec("1.3"),
		RestDayOvertime: dec("1.69"),
	},
	Regular: ClassRates{
		Worked:          dec("2.0"),
		Overtime:        dec("2.6"),
		RestDay:         dec("2.6"),
		RestDayOvertime: dec("3.38"),
	},
	SpecialNonWorking: ClassRates{
		Worked:          dec("1.3"),
		Overtime:        dec("1.69"),
		RestDay:         dec("1.5"),
		RestDayOvertime: dec("1.95"),
	},
	// Special working days pay like normal days; only the rest-day rates are
	// statutorily distinct from the special non-working entry.
	SpecialWorking: ClassRates{
		Worked:          dec("1.0"),
		Overtime:        dec("1.25"),
		RestDay:         dec("1.3"),
		RestDayOvertime: dec("1.69"),
	},
}

// For returns the multipliers for a classification.
func (t *RateTable) For(class HolidayClass) ClassRates {
	switch class {
	case HolidayRegular:
		return t.Regular
	case HolidaySpecialNonWorking:
		return t.SpecialNonWorking
	case HolidaySpecialWorking:
		return t.SpecialWorking
	default:
		return t.Normal
	}
}

// Multipliers resolves the composed pieces for one slice:
//
//	holiday:  the base multiplier (rest-day rate if restDay, else worked rate)
//	otRatio:  overtime rate / base rate for the same combination, 1 if not OT
//
// Both are returned unrounded; rounding is the calculator's job.
func (t *RateTable) Multipliers(class HolidayClass, restDay, overtime bool) (holiday, otRatio decimal.Decimal) {
	r := t.For(class)

	base, ot := r.Worked, r.Overtime
	if restDay {
		base, ot = r.RestDay, r.RestDayOvertime
	}

	holiday = base
	otRatio = decimal.NewFromInt(1)
	if overtime {
		otRatio = ot.Div(base)
	}
	return holiday, otRatio
}

// dec parses a decimal literal known at compile time.
func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic("wage: bad rate literal " + s)
	}
	return d
}

/*
Package payroll assembles wage-engine output into payroll periods.

PURPOSE:
  The wage package prices one shift at a time. This package owns the period
  concept: select the shifts belonging to a payroll period, compute each one
  through the engine, merge the results date-by-date, and snapshot the merged
  breakdown as an immutable payroll entry for persistence.

KEY CONCEPTS:
  - Period: A half-open [Start, End) payroll window
  - Run: One period computation for one employee (rate, shifts, holidays)
  - Entry: The append-only result snapshot with provenance

SEE ALSO:
  - entry.go: Entry snapshot and its JSON payload
  - wage: The per-shift computation engine
*/
package payroll

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/wage-engine/wage"
)

// =============================================================================
// PERIOD
// =============================================================================

// Period is a payroll window. Shifts whose effective start falls inside
// [Start, End) belong to the period.
type Period struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether a timestamp falls inside the period.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// Valid reports whether the period is well-formed.
func (p Period) Valid() bool {
	return !p.Start.IsZero() && !p.End.IsZero() && p.End.After(p.Start)
}

// =============================================================================
// RUN - One employee's period computation
// =============================================================================

// Run bundles everything needed to compute one employee's pay for a period.
type Run struct {
	EmployeeID string
	HourlyRate decimal.Decimal
	Period     Period
	Shifts     []wage.Shift

	// Holiday source: Lookup takes priority over the static list.
	Holidays []wage.Holiday
	Lookup   wage.ResolverFunc

	Options wage.Options
}

// Compute prices every in-period shift and merges the results. Out-of-period
// shifts are skipped with a note so a caller can spot mis-filed records.
// Shifts are computed in chronological order; the merge itself is
// order-independent.
func (r Run) Compute() wage.PayBreakdown {
	resolver := wage.SelectResolver(r.Lookup, r.Holidays)
	calc := wage.NewCalculator(resolver, r.Options)

	shifts := append([]wage.Shift(nil), r.Shifts...)
	sort.Slice(shifts, func(i, j int) bool { return shifts[i].Start.Before(shifts[j].Start) })

	var (
		breakdowns []wage.PayBreakdown
		skipped    []string
	)
	for _, s := range shifts {
		start, _, _ := s.EffectiveSpan()
		if r.Period.Valid() && !r.Period.Contains(start) {
			skipped = append(skipped, s.ID)
			continue
		}
		breakdowns = append(breakdowns, calc.ComputeShift(s, r.HourlyRate))
	}

	merged := wage.Merge(breakdowns)
	for _, id := range skipped {
		merged.Notes = append(merged.Notes, "shift "+id+" outside payroll period, not computed")
	}
	return merged
}

/*
entry.go - Payroll entry snapshots

PURPOSE:
  Wraps a computed PayBreakdown with shift/period provenance for persistence.
  Entries are output-only: created once per payroll computation and never
  mutated afterwards, forming an append-only audit trail. Corrections are new
  entries, not edits.
*/
package payroll

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/warp/wage-engine/wage"
)

// =============================================================================
// SNAPSHOTS
// =============================================================================

// ShiftPayBreakdown wraps one shift's breakdown with provenance. Used for
// single-shift previews and audit drill-down.
type ShiftPayBreakdown struct {
	ShiftID    string            `json:"shift_id"`
	EmployeeID string            `json:"employee_id"`
	Breakdown  wage.PayBreakdown `json:"breakdown"`
	ComputedAt time.Time         `json:"computed_at"`
}

// NewShiftPayBreakdown snapshots a single-shift computation.
func NewShiftPayBreakdown(shift wage.Shift, breakdown wage.PayBreakdown) ShiftPayBreakdown {
	return ShiftPayBreakdown{
		ShiftID:    shift.ID,
		EmployeeID: shift.EmployeeID,
		Breakdown:  breakdown,
		ComputedAt: time.Now().UTC(),
	}
}

// Entry is one employee's payroll record for one period.
type Entry struct {
	ID          string            `json:"id"`
	EmployeeID  string            `json:"employee_id"`
	PeriodStart time.Time         `json:"period_start"`
	PeriodEnd   time.Time         `json:"period_end"`
	ShiftIDs    []string          `json:"shift_ids"`
	Breakdown   wage.PayBreakdown `json:"breakdown"`
	ComputedAt  time.Time         `json:"computed_at"`
}

// NewEntry computes a run and snapshots the result.
func NewEntry(run Run) Entry {
	breakdown := run.Compute()

	ids := make([]string, 0, len(run.Shifts))
	for _, s := range run.Shifts {
		ids = append(ids, s.ID)
	}

	return Entry{
		ID:          uuid.NewString(),
		EmployeeID:  run.EmployeeID,
		PeriodStart: run.Period.Start,
		PeriodEnd:   run.Period.End,
		ShiftIDs:    ids,
		Breakdown:   breakdown,
		ComputedAt:  time.Now().UTC(),
	}
}

// BreakdownPayload serializes the breakdown for storage alongside the payroll
// entry row. The blob is the persisted audit record; it is never re-parsed
// into a mutable form by this system.
func (e Entry) BreakdownPayload() ([]byte, error) {
	return json.Marshal(e.Breakdown)
}

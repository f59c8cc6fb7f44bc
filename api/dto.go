/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing field
  renaming and version evolution without breaking clients.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/wage-engine/payroll"
	"github.com/warp/wage-engine/store/sqlite"
	"github.com/warp/wage-engine/wage"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	HourlyRate     string `json:"hourly_rate"`
	RestDayWeekday int    `json:"rest_day_weekday"` // 0 = Sunday
	CreatedAt      string `json:"created_at,omitempty"`
}

// CreateEmployeeRequest is the request to create an employee.
type CreateEmployeeRequest struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	HourlyRate     string `json:"hourly_rate"`
	RestDayWeekday int    `json:"rest_day_weekday"`
}

func toEmployeeDTO(e sqlite.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:             e.ID,
		Name:           e.Name,
		HourlyRate:     e.HourlyRate.String(),
		RestDayWeekday: int(e.RestDayWeekday),
		CreatedAt:      e.CreatedAt.Format(time.RFC3339),
	}
}

// =============================================================================
// SHIFTS
// =============================================================================

// ShiftDTO represents a shift in API responses.
type ShiftDTO struct {
	ID          string `json:"id"`
	EmployeeID  string `json:"employee_id"`
	Start       string `json:"start"`
	End         string `json:"end"`
	ActualStart string `json:"actual_start,omitempty"`
	ActualEnd   string `json:"actual_end,omitempty"`
}

// CreateShiftRequest is the request to schedule a shift. Timestamps are
// RFC 3339.
type CreateShiftRequest struct {
	EmployeeID string `json:"employee_id"`
	Start      string `json:"start"`
	End        string `json:"end"`
}

// ClockRequest records actual clock-in/out times on a shift.
type ClockRequest struct {
	ClockIn  string `json:"clock_in"`
	ClockOut string `json:"clock_out"`
}

func toShiftDTO(s wage.Shift) ShiftDTO {
	dto := ShiftDTO{
		ID:         s.ID,
		EmployeeID: s.EmployeeID,
		Start:      s.Start.Format(time.RFC3339),
		End:        s.End.Format(time.RFC3339),
	}
	if !s.ActualStart.IsZero() {
		dto.ActualStart = s.ActualStart.Format(time.RFC3339)
	}
	if !s.ActualEnd.IsZero() {
		dto.ActualEnd = s.ActualEnd.Format(time.RFC3339)
	}
	return dto
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// HolidayDTO represents a holiday calendar entry.
type HolidayDTO struct {
	ID        string `json:"id"`
	Date      string `json:"date"` // YYYY-MM-DD
	Class     string `json:"class"`
	Name      string `json:"name"`
	Year      int    `json:"year,omitempty"`
	Recurring bool   `json:"recurring"`
}

// CreateHolidayRequest is the request to add a holiday.
type CreateHolidayRequest struct {
	Date      string `json:"date"`
	Class     string `json:"class"`
	Name      string `json:"name"`
	Year      int    `json:"year"`
	Recurring bool   `json:"recurring"`
}

func toHolidayDTO(h wage.Holiday) HolidayDTO {
	return HolidayDTO{
		ID:        h.ID,
		Date:      h.Date.Format("2006-01-02"),
		Class:     string(h.Class),
		Name:      h.Name,
		Year:      h.Year,
		Recurring: h.Recurring,
	}
}

// =============================================================================
// PAYROLL
// =============================================================================

// ComputePayrollRequest asks for an employee's payroll over a period.
// Dates are YYYY-MM-DD; the period is [period_start, period_end).
type ComputePayrollRequest struct {
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`

	// Persist controls whether the computed entry is stored. Previews leave
	// no audit record.
	Persist bool `json:"persist"`
}

// PayrollEntryDTO wraps a stored or freshly computed payroll entry. The
// breakdown is embedded verbatim: it is the engine's own JSON shape.
type PayrollEntryDTO struct {
	ID          string            `json:"id"`
	EmployeeID  string            `json:"employee_id"`
	PeriodStart string            `json:"period_start"`
	PeriodEnd   string            `json:"period_end"`
	ShiftIDs    []string          `json:"shift_ids"`
	Breakdown   wage.PayBreakdown `json:"breakdown"`
	ComputedAt  string            `json:"computed_at"`
	Persisted   bool              `json:"persisted"`
}

func toPayrollEntryDTO(e payroll.Entry, persisted bool) PayrollEntryDTO {
	return PayrollEntryDTO{
		ID:          e.ID,
		EmployeeID:  e.EmployeeID,
		PeriodStart: e.PeriodStart.Format("2006-01-02"),
		PeriodEnd:   e.PeriodEnd.Format("2006-01-02"),
		ShiftIDs:    e.ShiftIDs,
		Breakdown:   e.Breakdown,
		ComputedAt:  e.ComputedAt.Format(time.RFC3339),
		Persisted:   persisted,
	}
}

// ShiftPreviewDTO is the single-shift computation response.
type ShiftPreviewDTO struct {
	ShiftID    string            `json:"shift_id"`
	EmployeeID string            `json:"employee_id"`
	Breakdown  wage.PayBreakdown `json:"breakdown"`
	ComputedAt string            `json:"computed_at"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

/*
handlers.go - HTTP API handlers for the café scheduling backend

PURPOSE:
  Exposes the wage engine and its surrounding records via REST. Handlers
  fetch shifts and holidays from storage, call the engine in-process, and
  persist the resulting breakdown blob alongside a payroll entry. The engine
  itself stays pure; all I/O lives here.

ENDPOINTS:
  Employees:
    GET    /api/employees                  List employees
    POST   /api/employees                  Create employee
    GET    /api/employees/{id}             Get employee
    GET    /api/employees/{id}/shifts      List shifts in a date range
    POST   /api/employees/{id}/shifts      Schedule a shift
    POST   /api/employees/{id}/payroll     Compute payroll for a period
    GET    /api/employees/{id}/payroll     List stored payroll entries

  Shifts:
    POST   /api/shifts/{id}/clock          Record actual clock times
    GET    /api/shifts/{id}/preview        Compute one shift's breakdown

  Holidays:
    GET    /api/holidays                   List holidays
    POST   /api/holidays                   Create holiday
    DELETE /api/holidays/{id}              Delete holiday

ERROR HANDLING:
  HTTP errors cover transport and storage problems only. Business-rule
  rejections (bad spans, zero rates) come back as 200 with a zero breakdown
  and notes, exactly as the engine reports them - clients inspect notes.

SEE ALSO:
  - dto.go: Request/response shapes
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/wage-engine/payroll"
	"github.com/warp/wage-engine/store/sqlite"
	"github.com/warp/wage-engine/wage"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store *sqlite.Store

	// Defaults applied to every computation; per-employee rest day overrides
	// the weekday here.
	Defaults wage.Options
}

// NewHandler creates a handler with standard engine defaults.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{Store: store, Defaults: wage.DefaultOptions()}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Store.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// CreateEmployee creates a new employee.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rate, err := decimal.NewFromString(req.HourlyRate)
	if err != nil || !rate.IsPositive() {
		writeError(w, http.StatusBadRequest, "hourly_rate must be a positive decimal", err)
		return
	}
	if req.RestDayWeekday < 0 || req.RestDayWeekday > 6 {
		writeError(w, http.StatusBadRequest, "rest_day_weekday must be 0-6 (0 = Sunday)", nil)
		return
	}

	emp := sqlite.Employee{
		ID:             req.ID,
		Name:           req.Name,
		HourlyRate:     rate,
		RestDayWeekday: time.Weekday(req.RestDayWeekday),
	}
	if emp.ID == "" {
		emp.ID = uuid.NewString()
	}

	if err := h.Store.CreateEmployee(r.Context(), emp); err != nil {
		if errors.Is(err, sqlite.ErrDuplicate) {
			writeError(w, http.StatusConflict, "Employee already exists", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// =============================================================================
// SHIFT HANDLERS
// =============================================================================

// CreateShift schedules a shift for an employee.
func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	var req CreateShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	start, err := time.Parse(time.RFC3339, req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start (use RFC 3339)", err)
		return
	}
	end, err := time.Parse(time.RFC3339, req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end (use RFC 3339)", err)
		return
	}

	if _, err := h.Store.GetEmployee(r.Context(), employeeID); err != nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}

	shift := wage.Shift{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		Start:      start,
		End:        end,
	}
	if err := h.Store.CreateShift(r.Context(), shift); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create shift", err)
		return
	}
	writeJSON(w, http.StatusCreated, toShiftDTO(shift))
}

// ListShifts returns an employee's shifts inside ?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	from, to, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range", err)
		return
	}

	shifts, err := h.Store.ShiftsInRange(r.Context(), employeeID, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list shifts", err)
		return
	}

	dtos := make([]ShiftDTO, len(shifts))
	for i, s := range shifts {
		dtos[i] = toShiftDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ClockShift records actual clock-in/out times on a shift.
func (h *Handler) ClockShift(w http.ResponseWriter, r *http.Request) {
	shiftID := chi.URLParam(r, "id")

	var req ClockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	clockIn, err := time.Parse(time.RFC3339, req.ClockIn)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid clock_in (use RFC 3339)", err)
		return
	}
	clockOut, err := time.Parse(time.RFC3339, req.ClockOut)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid clock_out (use RFC 3339)", err)
		return
	}

	if err := h.Store.SetClockTimes(r.Context(), shiftID, clockIn, clockOut); err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Shift not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to record clock times", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PreviewShift computes one shift's pay breakdown without persisting anything.
func (h *Handler) PreviewShift(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	shift, err := h.Store.GetShift(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Shift not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get shift", err)
		return
	}

	emp, err := h.Store.GetEmployee(ctx, shift.EmployeeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	holidays, err := h.Store.ListHolidays(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load holidays", err)
		return
	}

	opts := h.Defaults
	opts.RestDayWeekday = emp.RestDayWeekday

	calc := wage.NewCalculator(wage.NewStaticCalendar(holidays), opts)
	snapshot := payroll.NewShiftPayBreakdown(shift, calc.ComputeShift(shift, emp.HourlyRate))

	writeJSON(w, http.StatusOK, ShiftPreviewDTO{
		ShiftID:    snapshot.ShiftID,
		EmployeeID: snapshot.EmployeeID,
		Breakdown:  snapshot.Breakdown,
		ComputedAt: snapshot.ComputedAt.Format(time.RFC3339),
	})
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns the holiday calendar.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Store.ListHolidays(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list holidays", err)
		return
	}

	dtos := make([]HolidayDTO, len(holidays))
	for i, hd := range holidays {
		dtos[i] = toHolidayDTO(hd)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateHoliday adds a holiday to the calendar.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}
	class := wage.HolidayClass(req.Class)
	if !class.Valid() || class == wage.HolidayNormal {
		writeError(w, http.StatusBadRequest, "class must be regular, special_non_working or special_working", nil)
		return
	}

	holiday := wage.Holiday{
		ID:        uuid.NewString(),
		Date:      date,
		Class:     class,
		Name:      req.Name,
		Year:      req.Year,
		Recurring: req.Recurring,
	}
	if err := h.Store.CreateHoliday(r.Context(), holiday); err != nil {
		if errors.Is(err, sqlite.ErrDuplicate) {
			writeError(w, http.StatusConflict, "Holiday already exists for that date and name", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create holiday", err)
		return
	}
	writeJSON(w, http.StatusCreated, toHolidayDTO(holiday))
}

// DeleteHoliday removes a holiday.
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	err := h.Store.DeleteHoliday(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Holiday not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete holiday", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PAYROLL HANDLERS
// =============================================================================

// ComputePayroll computes an employee's payroll for a period, optionally
// persisting the entry as an append-only record.
func (h *Handler) ComputePayroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	employeeID := chi.URLParam(r, "id")

	var req ComputePayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	periodStart, err := time.Parse("2006-01-02", req.PeriodStart)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period_start (use YYYY-MM-DD)", err)
		return
	}
	periodEnd, err := time.Parse("2006-01-02", req.PeriodEnd)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period_end (use YYYY-MM-DD)", err)
		return
	}
	if !periodEnd.After(periodStart) {
		writeError(w, http.StatusBadRequest, "period_end must be after period_start", nil)
		return
	}

	emp, err := h.Store.GetEmployee(ctx, employeeID)
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}

	shifts, err := h.Store.ShiftsInRange(ctx, employeeID, periodStart, periodEnd)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load shifts", err)
		return
	}
	holidays, err := h.Store.ListHolidays(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load holidays", err)
		return
	}

	opts := h.Defaults
	opts.RestDayWeekday = emp.RestDayWeekday

	entry := payroll.NewEntry(payroll.Run{
		EmployeeID: employeeID,
		HourlyRate: emp.HourlyRate,
		Period:     payroll.Period{Start: periodStart, End: periodEnd},
		Shifts:     shifts,
		Holidays:   holidays,
		Options:    opts,
	})

	if req.Persist {
		if err := h.Store.AppendEntry(ctx, entry); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to persist payroll entry", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, toPayrollEntryDTO(entry, req.Persist))
}

// ListPayrollEntries returns an employee's stored payroll entries, newest
// first, with their persisted breakdown blobs.
func (h *Handler) ListPayrollEntries(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListEntries(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list payroll entries", err)
		return
	}

	dtos := make([]PayrollEntryDTO, 0, len(records))
	for _, rec := range records {
		var breakdown wage.PayBreakdown
		if err := json.Unmarshal([]byte(rec.BreakdownJSON), &breakdown); err != nil {
			writeError(w, http.StatusInternalServerError, "Corrupt breakdown payload", err)
			return
		}
		dtos = append(dtos, PayrollEntryDTO{
			ID:          rec.ID,
			EmployeeID:  rec.EmployeeID,
			PeriodStart: rec.PeriodStart.Format("2006-01-02"),
			PeriodEnd:   rec.PeriodEnd.Format("2006-01-02"),
			ShiftIDs:    rec.ShiftIDs,
			Breakdown:   breakdown,
			ComputedAt:  rec.ComputedAt.Format(time.RFC3339),
			Persisted:   true,
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

func parseDateRange(r *http.Request) (from, to time.Time, err error) {
	from, err = time.Parse("2006-01-02", r.URL.Query().Get("from"))
	if err != nil {
		return
	}
	to, err = time.Parse("2006-01-02", r.URL.Query().Get("to"))
	return
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

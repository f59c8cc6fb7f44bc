/*
handlers_test.go - Unit tests for API handlers

Tests for:
- Employee creation and validation
- Shift scheduling, clock recording, and preview computation
- Holiday calendar management
- Payroll computation and persisted entries
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/wage-engine/store/sqlite"
	"github.com/warp/wage-engine/wage"
)

func newTestServer(t *testing.T) (*httptest.Server, *sqlite.Store) {
	t.Helper()
	store, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	srv := httptest.NewServer(NewRouter(NewHandler(store)))
	t.Cleanup(srv.Close)
	return srv, store
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func seedEmployee(t *testing.T, store *sqlite.Store, id string) {
	t.Helper()
	emp := sqlite.Employee{
		ID:             id,
		Name:           "Test Barista",
		HourlyRate:     decimal.NewFromInt(100),
		RestDayWeekday: time.Sunday,
	}
	if err := store.CreateEmployee(context.Background(), emp); err != nil {
		t.Fatalf("Failed to seed employee: %v", err)
	}
}

func seedShift(t *testing.T, store *sqlite.Store, id, employeeID string, start, end time.Time) {
	t.Helper()
	shift := wage.Shift{ID: id, EmployeeID: employeeID, Start: start, End: end}
	if err := store.CreateShift(context.Background(), shift); err != nil {
		t.Fatalf("Failed to seed shift: %v", err)
	}
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func TestCreateEmployee_Success(t *testing.T) {
	// GIVEN: A running server
	srv, _ := newTestServer(t)

	// WHEN: Creating an employee with a valid rate
	resp := postJSON(t, srv.URL+"/api/employees", CreateEmployeeRequest{
		Name:           "Alice",
		HourlyRate:     "112.50",
		RestDayWeekday: 0,
	})

	// THEN: The employee is created with a generated ID
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}
	var dto EmployeeDTO
	decodeBody(t, resp, &dto)
	if dto.ID == "" {
		t.Error("Expected a generated employee ID")
	}
	if dto.HourlyRate != "112.5" {
		t.Errorf("Expected hourly_rate 112.5, got %s", dto.HourlyRate)
	}
}

func TestCreateEmployee_RejectsBadRate(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, rate := range []string{"0", "-5", "abc", ""} {
		resp := postJSON(t, srv.URL+"/api/employees", CreateEmployeeRequest{
			Name: "Bob", HourlyRate: rate,
		})
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("rate %q: expected 400, got %d", rate, resp.StatusCode)
		}
	}
}

func TestCreateEmployee_DuplicateConflict(t *testing.T) {
	srv, store := newTestServer(t)
	seedEmployee(t, store, "emp-dup")

	resp := postJSON(t, srv.URL+"/api/employees", CreateEmployeeRequest{
		ID: "emp-dup", Name: "Clone", HourlyRate: "100",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("Expected 409, got %d", resp.StatusCode)
	}
}

func TestGetEmployee_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/employees/nope")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", resp.StatusCode)
	}
}

// =============================================================================
// SHIFTS
// =============================================================================

func TestCreateAndListShifts(t *testing.T) {
	// GIVEN: An employee
	srv, store := newTestServer(t)
	seedEmployee(t, store, "emp-1")

	// WHEN: Scheduling a shift
	resp := postJSON(t, srv.URL+"/api/employees/emp-1/shifts", CreateShiftRequest{
		Start: "2025-03-10T09:00:00Z",
		End:   "2025-03-10T17:00:00Z",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}
	var created ShiftDTO
	decodeBody(t, resp, &created)
	if created.EmployeeID != "emp-1" {
		t.Errorf("Expected employee_id emp-1, got %s", created.EmployeeID)
	}

	// THEN: Listing by range returns it
	listResp, err := http.Get(srv.URL + "/api/employees/emp-1/shifts?from=2025-03-10&to=2025-03-11")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	var shifts []ShiftDTO
	decodeBody(t, listResp, &shifts)
	if len(shifts) != 1 {
		t.Fatalf("Expected 1 shift, got %d", len(shifts))
	}
	if shifts[0].ID != created.ID {
		t.Errorf("Expected shift %s, got %s", created.ID, shifts[0].ID)
	}
}

func TestClockShift_RecordsActualTimes(t *testing.T) {
	srv, store := newTestServer(t)
	seedEmployee(t, store, "emp-1")
	seedShift(t, store, "shift-1", "emp-1",
		time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC))

	resp := postJSON(t, srv.URL+"/api/shifts/shift-1/clock", ClockRequest{
		ClockIn:  "2025-03-10T09:00:00Z",
		ClockOut: "2025-03-10T18:00:00Z",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", resp.StatusCode)
	}

	shift, err := store.GetShift(context.Background(), "shift-1")
	if err != nil {
		t.Fatalf("Failed to get shift: %v", err)
	}
	if shift.ActualEnd.Hour() != 18 {
		t.Errorf("Expected actual end at 18:00, got %v", shift.ActualEnd)
	}
}

func TestPreviewShift_ComputesBreakdown(t *testing.T) {
	// GIVEN: A plain 8-hour weekday shift at rate 100
	srv, store := newTestServer(t)
	seedEmployee(t, store, "emp-1")
	seedShift(t, store, "shift-1", "emp-1",
		time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC))

	// WHEN: Previewing the shift
	resp, err := http.Get(srv.URL + "/api/shifts/shift-1/preview")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var preview ShiftPreviewDTO
	decodeBody(t, resp, &preview)

	// THEN: 8 hours at base rate, no premiums
	if !preview.Breakdown.GrossPay.Equal(decimal.NewFromInt(800)) {
		t.Errorf("Expected gross pay 800, got %s", preview.Breakdown.GrossPay)
	}
	if !preview.Breakdown.TotalHours.Equal(decimal.NewFromInt(8)) {
		t.Errorf("Expected 8 hours, got %s", preview.Breakdown.TotalHours)
	}
	if preview.ShiftID != "shift-1" {
		t.Errorf("Expected shift_id shift-1, got %s", preview.ShiftID)
	}
}

func TestPreviewShift_AppliesEmployeeRestDay(t *testing.T) {
	// GIVEN: A shift on the employee's rest day (Sunday)
	srv, store := newTestServer(t)
	seedEmployee(t, store, "emp-1")
	seedShift(t, store, "shift-sun", "emp-1",
		time.Date(2025, 3, 9, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 9, 17, 0, 0, 0, time.UTC))

	resp, err := http.Get(srv.URL + "/api/shifts/shift-sun/preview")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	var preview ShiftPreviewDTO
	decodeBody(t, resp, &preview)

	// THEN: Rest-day rate 1.3 applies: 8 * 100 * 1.3 = 1040
	if !preview.Breakdown.GrossPay.Equal(decimal.NewFromInt(1040)) {
		t.Errorf("Expected gross pay 1040, got %s", preview.Breakdown.GrossPay)
	}
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func TestCreateHoliday_RejectsNormalClass(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/holidays", CreateHolidayRequest{
		Date: "2025-06-12", Class: "normal", Name: "Not a holiday",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", resp.StatusCode)
	}
}

func TestHolidayLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	// Create
	resp := postJSON(t, srv.URL+"/api/holidays", CreateHolidayRequest{
		Date: "2025-06-12", Class: "regular", Name: "Independence Day", Year: 2025,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}
	var created HolidayDTO
	decodeBody(t, resp, &created)

	// List
	listResp, err := http.Get(srv.URL + "/api/holidays")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	var holidays []HolidayDTO
	decodeBody(t, listResp, &holidays)
	if len(holidays) != 1 {
		t.Fatalf("Expected 1 holiday, got %d", len(holidays))
	}

	// Delete
	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/holidays/"+created.ID, nil)
	delResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE failed: %v", err)
	}
	delResp.Body.Close()
	if delResp.StatusCode != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", delResp.StatusCode)
	}
}

// =============================================================================
// PAYROLL
// =============================================================================

func TestComputePayroll_PersistAndList(t *testing.T) {
	// GIVEN: An employee with two shifts inside the period
	srv, store := newTestServer(t)
	seedEmployee(t, store, "emp-1")
	seedShift(t, store, "s1", "emp-1",
		time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC))
	seedShift(t, store, "s2", "emp-1",
		time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 11, 19, 0, 0, 0, time.UTC))

	// WHEN: Computing payroll with persistence
	resp := postJSON(t, srv.URL+"/api/employees/emp-1/payroll", ComputePayrollRequest{
		PeriodStart: "2025-03-10",
		PeriodEnd:   "2025-03-17",
		Persist:     true,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var entry PayrollEntryDTO
	decodeBody(t, resp, &entry)

	// THEN: 18 hours total (8 + 10), persisted flag set
	if !entry.Breakdown.TotalHours.Equal(decimal.NewFromInt(18)) {
		t.Errorf("Expected 18 hours, got %s", entry.Breakdown.TotalHours)
	}
	if !entry.Persisted {
		t.Error("Expected persisted flag")
	}
	if len(entry.ShiftIDs) != 2 {
		t.Errorf("Expected 2 shift IDs, got %d", len(entry.ShiftIDs))
	}

	// AND: The stored entry round-trips through the listing endpoint
	listResp, err := http.Get(srv.URL + "/api/employees/emp-1/payroll")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	var entries []PayrollEntryDTO
	decodeBody(t, listResp, &entries)
	if len(entries) != 1 {
		t.Fatalf("Expected 1 stored entry, got %d", len(entries))
	}
	if !entries[0].Breakdown.GrossPay.Equal(entry.Breakdown.GrossPay) {
		t.Errorf("Stored gross pay %s differs from computed %s",
			entries[0].Breakdown.GrossPay, entry.Breakdown.GrossPay)
	}
}

func TestComputePayroll_PreviewLeavesNoRecord(t *testing.T) {
	srv, store := newTestServer(t)
	seedEmployee(t, store, "emp-1")
	seedShift(t, store, "s1", "emp-1",
		time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC))

	resp := postJSON(t, srv.URL+"/api/employees/emp-1/payroll", ComputePayrollRequest{
		PeriodStart: "2025-03-10",
		PeriodEnd:   "2025-03-17",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	records, err := store.ListEntries(context.Background(), "emp-1")
	if err != nil {
		t.Fatalf("Failed to list entries: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected no stored entries, got %d", len(records))
	}
}

func TestComputePayroll_RejectsInvertedPeriod(t *testing.T) {
	srv, store := newTestServer(t)
	seedEmployee(t, store, "emp-1")

	resp := postJSON(t, srv.URL+"/api/employees/emp-1/payroll", ComputePayrollRequest{
		PeriodStart: "2025-03-17",
		PeriodEnd:   "2025-03-10",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", resp.StatusCode)
	}
}

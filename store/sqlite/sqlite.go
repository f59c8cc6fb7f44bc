/*
Package sqlite provides SQLite-backed persistence for the café scheduling
application.

PURPOSE:
  Stores the operational records surrounding the wage engine: employees and
  their pay settings, shifts (scheduled and clocked), the holiday calendar,
  and computed payroll entries. The engine itself never touches storage;
  route handlers fetch inputs here, call the engine in-process, and persist
  the resulting breakdown blob.

APPEND-ONLY ENFORCEMENT:
  payroll_entries is an audit trail:
  - No UPDATE statements on payroll_entries
  - No DELETE statements on payroll_entries
  - Corrections are new entries for the same period

KEY TABLES:
  employees:       Pay settings (hourly rate, rest-day weekday)
  shifts:          Scheduled spans plus optional actual clock times
  holidays:        Date-keyed holiday classifications
  payroll_entries: Immutable computed breakdowns (JSON blob)

WAL MODE:
  SQLite is opened with WAL for better concurrency: multiple readers don't
  block and crash recovery is cleaner.

USAGE:
  store, err := sqlite.New("./data/cafe.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - api/handlers.go: The only consumer
  - payroll/entry.go: Produces the breakdown payloads stored here
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/wage-engine/payroll"
	"github.com/warp/wage-engine/wage"
)

// Sentinel errors. Use with errors.Is().
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// Store wraps the SQLite connection.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (or creates) the database at path and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Employees and their pay settings
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		hourly_rate TEXT NOT NULL,
		rest_day_weekday INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	-- Shifts: scheduled spans plus optional actual clock times
	CREATE TABLE IF NOT EXISTS shifts (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		start_at TEXT NOT NULL,
		end_at TEXT NOT NULL,
		actual_start_at TEXT,
		actual_end_at TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_shifts_employee
		ON shifts(employee_id);
	CREATE INDEX IF NOT EXISTS idx_shifts_employee_start
		ON shifts(employee_id, start_at);

	-- Holiday calendar
	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		class TEXT NOT NULL,
		name TEXT NOT NULL,
		year INTEGER NOT NULL DEFAULT 0,
		recurring BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_holidays_unique
		ON holidays(date, name);

	-- Payroll entries (append-only: computed breakdowns are never edited)
	CREATE TABLE IF NOT EXISTS payroll_entries (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		period_start TEXT NOT NULL,
		period_end TEXT NOT NULL,
		shift_ids_json TEXT NOT NULL,
		breakdown_json TEXT NOT NULL,
		computed_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_payroll_entries_employee
		ON payroll_entries(employee_id, period_start);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// Employee is the stored pay configuration for one worker.
type Employee struct {
	ID             string
	Name           string
	HourlyRate     decimal.Decimal
	RestDayWeekday time.Weekday
	CreatedAt      time.Time
}

// CreateEmployee inserts an employee record.
func (s *Store) CreateEmployee(ctx context.Context, e Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (id, name, hourly_rate, rest_day_weekday, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Name, e.HourlyRate.String(), int(e.RestDayWeekday),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create employee: %w", err)
	}
	return nil
}

// GetEmployee fetches one employee by ID.
func (s *Store) GetEmployee(ctx context.Context, id string) (Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, hourly_rate, rest_day_weekday, created_at
		FROM employees WHERE id = ?`, id)
	return scanEmployee(row)
}

// ListEmployees returns all employees ordered by name.
func (s *Store) ListEmployees(ctx context.Context) ([]Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, hourly_rate, rest_day_weekday, created_at
		FROM employees ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row scanner) (Employee, error) {
	var (
		e       Employee
		rate    string
		restDay int
		created string
	)
	if err := row.Scan(&e.ID, &e.Name, &rate, &restDay, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Employee{}, ErrNotFound
		}
		return Employee{}, fmt.Errorf("failed to scan employee: %w", err)
	}

	var err error
	if e.HourlyRate, err = decimal.NewFromString(rate); err != nil {
		return Employee{}, fmt.Errorf("corrupt hourly rate for employee %s: %w", e.ID, err)
	}
	e.RestDayWeekday = time.Weekday(restDay)
	e.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return e, nil
}

// =============================================================================
// SHIFTS
// =============================================================================

// CreateShift inserts a shift record.
func (s *Store) CreateShift(ctx context.Context, shift wage.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shifts (id, employee_id, start_at, end_at, actual_start_at, actual_end_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		shift.ID, shift.EmployeeID,
		shift.Start.UTC().Format(time.RFC3339),
		shift.End.UTC().Format(time.RFC3339),
		nullTime(shift.ActualStart),
		nullTime(shift.ActualEnd),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create shift: %w", err)
	}
	return nil
}

// SetClockTimes records actual clock-in/out on an existing shift.
func (s *Store) SetClockTimes(ctx context.Context, shiftID string, in, out time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE shifts SET actual_start_at = ?, actual_end_at = ? WHERE id = ?`,
		nullTime(in), nullTime(out), shiftID)
	if err != nil {
		return fmt.Errorf("failed to set clock times: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetShift fetches one shift by ID.
func (s *Store) GetShift(ctx context.Context, id string) (wage.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, employee_id, start_at, end_at, actual_start_at, actual_end_at
		FROM shifts WHERE id = ?`, id)
	return scanShift(row)
}

// ShiftsInRange returns an employee's shifts starting inside [from, to),
// chronologically ordered.
func (s *Store) ShiftsInRange(ctx context.Context, employeeID string, from, to time.Time) ([]wage.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, start_at, end_at, actual_start_at, actual_end_at
		FROM shifts
		WHERE employee_id = ? AND start_at >= ? AND start_at < ?
		ORDER BY start_at`,
		employeeID,
		from.UTC().Format(time.RFC3339),
		to.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	var out []wage.Shift
	for rows.Next() {
		sh, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sh)
	}
	return out, rows.Err()
}

func scanShift(row scanner) (wage.Shift, error) {
	var (
		sh               wage.Shift
		start, end       string
		actStart, actEnd sql.NullString
	)
	if err := row.Scan(&sh.ID, &sh.EmployeeID, &start, &end, &actStart, &actEnd); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return wage.Shift{}, ErrNotFound
		}
		return wage.Shift{}, fmt.Errorf("failed to scan shift: %w", err)
	}

	sh.Start, _ = time.Parse(time.RFC3339, start)
	sh.End, _ = time.Parse(time.RFC3339, end)
	if actStart.Valid {
		sh.ActualStart, _ = time.Parse(time.RFC3339, actStart.String)
	}
	if actEnd.Valid {
		sh.ActualEnd, _ = time.Parse(time.RFC3339, actEnd.String)
	}
	return sh, nil
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// CreateHoliday inserts a holiday record.
func (s *Store) CreateHoliday(ctx context.Context, h wage.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO holidays (id, date, class, name, year, recurring, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.Date.Format("2006-01-02"), string(h.Class), h.Name, h.Year, h.Recurring,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create holiday: %w", err)
	}
	return nil
}

// DeleteHoliday removes a holiday by ID.
func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM holidays WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListHolidays returns all holidays ordered by date.
func (s *Store) ListHolidays(ctx context.Context) ([]wage.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, class, name, year, recurring FROM holidays ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	var out []wage.Holiday
	for rows.Next() {
		var (
			h     wage.Holiday
			date  string
			class string
		)
		if err := rows.Scan(&h.ID, &date, &class, &h.Name, &h.Year, &h.Recurring); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		h.Date, _ = time.Parse("2006-01-02", date)
		h.Class = wage.HolidayClass(class)
		out = append(out, h)
	}
	return out, rows.Err()
}

// =============================================================================
// PAYROLL ENTRIES (append-only)
// =============================================================================

// AppendEntry persists a computed payroll entry. Entries are never updated
// or deleted; corrections are new entries.
func (s *Store) AppendEntry(ctx context.Context, e payroll.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	shiftIDs, err := json.Marshal(e.ShiftIDs)
	if err != nil {
		return fmt.Errorf("failed to encode shift ids: %w", err)
	}
	breakdown, err := e.BreakdownPayload()
	if err != nil {
		return fmt.Errorf("failed to encode breakdown: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO payroll_entries
		(id, employee_id, period_start, period_end, shift_ids_json, breakdown_json, computed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.EmployeeID,
		e.PeriodStart.UTC().Format(time.RFC3339),
		e.PeriodEnd.UTC().Format(time.RFC3339),
		string(shiftIDs), string(breakdown),
		e.ComputedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to append payroll entry: %w", err)
	}
	return nil
}

// ListEntries returns an employee's payroll entries, newest first. The
// breakdown is returned as the raw persisted JSON blob.
func (s *Store) ListEntries(ctx context.Context, employeeID string) ([]EntryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, period_start, period_end, shift_ids_json, breakdown_json, computed_at
		FROM payroll_entries
		WHERE employee_id = ?
		ORDER BY period_start DESC, computed_at DESC`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll entries: %w", err)
	}
	defer rows.Close()

	var out []EntryRecord
	for rows.Next() {
		var (
			r                      EntryRecord
			periodStart, periodEnd string
			shiftIDs, computed     string
		)
		if err := rows.Scan(&r.ID, &r.EmployeeID, &periodStart, &periodEnd, &shiftIDs, &r.BreakdownJSON, &computed); err != nil {
			return nil, fmt.Errorf("failed to scan payroll entry: %w", err)
		}
		r.PeriodStart, _ = time.Parse(time.RFC3339, periodStart)
		r.PeriodEnd, _ = time.Parse(time.RFC3339, periodEnd)
		r.ComputedAt, _ = time.Parse(time.RFC3339, computed)
		_ = json.Unmarshal([]byte(shiftIDs), &r.ShiftIDs)
		out = append(out, r)
	}
	return out, rows.Err()
}

// EntryRecord is a stored payroll entry with its breakdown still serialized.
type EntryRecord struct {
	ID            string
	EmployeeID    string
	PeriodStart   time.Time
	PeriodEnd     time.Time
	ShiftIDs      []string
	BreakdownJSON string
	ComputedAt    time.Time
}

// =============================================================================
// HELPERS
// =============================================================================

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func isUniqueConstraintError(err error) bool {
	return err != nil &&
		(strings.Contains(err.Error(), "UNIQUE constraint failed") ||
			strings.Contains(err.Error(), "PRIMARY KEY constraint failed"))
}

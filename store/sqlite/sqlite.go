/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

INTERFACES IMPLEMENTED:
  employee.Store:         Employee records
  attendance.Store:       Daily attendance, unique per (employee, date)
  payroll.ParameterStore: The single current parameter row
  payroll.RunStore:       Persisted payroll runs, unique per (employee, half-month)

KEY TABLES:
  employees:      Staff with USD reference pay and VES base pay
  attendance:     One row per employee per date; closed rows are read-only
  pay_parameters: Exchange rate and statutory values (singleton, id = 1)
  payroll_runs:   Calculated and paid runs; breakdown, hours and parameters stored as JSON

NUMBERS:
  Hours and money are stored as decimal strings, never REAL, so a value
  read back is exactly the value written.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/nomina.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - store/memory/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/bradycnk/Nominaft/attendance"
	"github.com/bradycnk/Nominaft/employee"
	"github.com/bradycnk/Nominaft/generic"
	"github.com/bradycnk/Nominaft/payroll"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sqlx.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database. The parent directory of a
// file path is created if missing.
func New(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sqlx.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the connection. Used by the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Employees
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		national_id TEXT NOT NULL DEFAULT '',
		tax_id TEXT NOT NULL DEFAULT '',
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL DEFAULT '',
		position TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		foreign_pay_usd TEXT NOT NULL,
		local_base_pay_ves TEXT NOT NULL,
		hire_date TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_employees_active
		ON employees(active);

	-- Attendance (one row per employee per day)
	CREATE TABLE IF NOT EXISTS attendance (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		date TEXT NOT NULL,
		status TEXT NOT NULL,
		clock_in TEXT,
		clock_out TEXT,
		notes TEXT NOT NULL DEFAULT '',
		closed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_attendance_employee_date
		ON attendance(employee_id, date);

	-- Pay parameters (singleton)
	CREATE TABLE IF NOT EXISTS pay_parameters (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		exchange_rate TEXT NOT NULL,
		meal_voucher_usd TEXT NOT NULL,
		minimum_wage_ves TEXT NOT NULL,
		base_vacation_days INTEGER NOT NULL,
		annual_profit_share_days INTEGER NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Payroll runs
	CREATE TABLE IF NOT EXISTS payroll_runs (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		employee_name TEXT NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		half INTEGER NOT NULL,
		period_start TEXT NOT NULL,
		period_end TEXT NOT NULL,
		status TEXT NOT NULL,
		net_pay TEXT NOT NULL,
		pay_json TEXT NOT NULL,
		hours_json TEXT NOT NULL,
		params_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		paid_at TEXT
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_payroll_runs_unique
		ON payroll_runs(employee_id, year, month, half);
	CREATE INDEX IF NOT EXISTS idx_payroll_runs_period
		ON payroll_runs(year, month, half);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Reset clears all data. Used by tests.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"payroll_runs", "attendance", "pay_parameters", "employees"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// Helper functions

var timeNow = time.Now

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = timeNow()
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func parseDate(s string) generic.Date {
	d, _ := generic.ParseDate(s)
	return d
}

func parseAmount(value string, unit generic.Unit) generic.Amount {
	return generic.Amount{
		Value: generic.MustParseDecimal(value),
		Unit:  unit,
	}
}

func isUniqueConstraintError(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

var (
	_ employee.Store         = (*Store)(nil)
	_ attendance.Store       = (*Store)(nil)
	_ payroll.ParameterStore = (*Store)(nil)
	_ payroll.RunStore       = (*Store)(nil)
)

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bradycnk/Nominaft/attendance"
	"github.com/bradycnk/Nominaft/generic"
	"github.com/bradycnk/Nominaft/payroll"
)

// =============================================================================
// RUN STORE (payroll.RunStore interface)
// =============================================================================

type runRow struct {
	ID           string         `db:"id"`
	EmployeeID   string         `db:"employee_id"`
	EmployeeName string         `db:"employee_name"`
	Year         int            `db:"year"`
	Month        int            `db:"month"`
	Half         int            `db:"half"`
	PeriodStart  string         `db:"period_start"`
	PeriodEnd    string         `db:"period_end"`
	Status       string         `db:"status"`
	NetPay       string         `db:"net_pay"`
	PayJSON      string         `db:"pay_json"`
	HoursJSON    string         `db:"hours_json"`
	ParamsJSON   string         `db:"params_json"`
	CreatedAt    string         `db:"created_at"`
	PaidAt       sql.NullString `db:"paid_at"`
}

const runColumns = `id, employee_id, employee_name, year, month, half, period_start, period_end,
	status, net_pay, pay_json, hours_json, params_json, created_at, paid_at`

func toRunRow(r payroll.Run) (runRow, error) {
	payJSON, err := json.Marshal(r.Pay)
	if err != nil {
		return runRow{}, err
	}
	hoursJSON, err := json.Marshal(r.Hours)
	if err != nil {
		return runRow{}, err
	}
	paramsJSON, err := json.Marshal(r.Parameters)
	if err != nil {
		return runRow{}, err
	}

	row := runRow{
		ID:           string(r.ID),
		EmployeeID:   string(r.EmployeeID),
		EmployeeName: r.EmployeeName,
		Year:         r.Year,
		Month:        int(r.Month),
		Half:         int(r.Half),
		PeriodStart:  r.Period.Start.String(),
		PeriodEnd:    r.Period.End.String(),
		Status:       string(r.Status),
		NetPay:       r.Pay.NetPay.Value.String(),
		PayJSON:      string(payJSON),
		HoursJSON:    string(hoursJSON),
		ParamsJSON:   string(paramsJSON),
		CreatedAt:    formatTime(r.CreatedAt),
	}
	if r.PaidAt != nil {
		row.PaidAt = nullString(formatTime(*r.PaidAt))
	}
	return row, nil
}

func (r runRow) toRun() (payroll.Run, error) {
	run := payroll.Run{
		ID:           generic.RunID(r.ID),
		EmployeeID:   generic.EmployeeID(r.EmployeeID),
		EmployeeName: r.EmployeeName,
		Year:         r.Year,
		Month:        time.Month(r.Month),
		Half:         generic.Half(r.Half),
		Period:       generic.Period{Start: parseDate(r.PeriodStart), End: parseDate(r.PeriodEnd)},
		Status:       payroll.RunStatus(r.Status),
		CreatedAt:    parseTime(r.CreatedAt),
		Hours:        attendance.NewPeriodAggregate(),
	}
	if err := json.Unmarshal([]byte(r.PayJSON), &run.Pay); err != nil {
		return payroll.Run{}, fmt.Errorf("run %s: decode pay: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(r.HoursJSON), &run.Hours); err != nil {
		return payroll.Run{}, fmt.Errorf("run %s: decode hours: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(r.ParamsJSON), &run.Parameters); err != nil {
		return payroll.Run{}, fmt.Errorf("run %s: decode parameters: %w", r.ID, err)
	}
	if r.PaidAt.Valid {
		t := parseTime(r.PaidAt.String)
		run.PaidAt = &t
	}
	return run, nil
}

// SaveRuns replaces the run for each (employee, year, month, half) in one
// transaction. Nothing is written if any existing run is paid.
func (s *Store) SaveRuns(ctx context.Context, runs []payroll.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, r := range runs {
		row, err := toRunRow(r)
		if err != nil {
			return err
		}
		if err := replaceRun(ctx, tx, row); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func replaceRun(ctx context.Context, tx *sqlx.Tx, row runRow) error {
	var status string
	err := tx.GetContext(ctx, &status,
		"SELECT status FROM payroll_runs WHERE employee_id = ? AND year = ? AND month = ? AND half = ?",
		row.EmployeeID, row.Year, row.Month, row.Half,
	)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return err
	case status == string(payroll.RunPaid):
		return generic.ErrRunAlreadyPaid
	default:
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM payroll_runs WHERE employee_id = ? AND year = ? AND month = ? AND half = ?",
			row.EmployeeID, row.Year, row.Month, row.Half,
		); err != nil {
			return err
		}
	}
	return insertRun(ctx, tx, row)
}

func insertRun(ctx context.Context, tx *sqlx.Tx, row runRow) error {
	_, err := tx.NamedExecContext(ctx, `
		INSERT INTO payroll_runs (`+runColumns+`)
		VALUES (:id, :employee_id, :employee_name, :year, :month, :half, :period_start, :period_end,
		        :status, :net_pay, :pay_json, :hours_json, :params_json, :created_at, :paid_at)
	`, row)
	if err != nil {
		return fmt.Errorf("failed to insert payroll run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(ctx context.Context, id generic.RunID) (*payroll.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var row runRow
	err := s.db.GetContext(ctx, &row, "SELECT "+runColumns+" FROM payroll_runs WHERE id = ?", string(id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, generic.ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}

	run, err := row.toRun()
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns returns one half-month's runs ordered by employee name.
func (s *Store) ListRuns(ctx context.Context, year int, month time.Month, half generic.Half) ([]payroll.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []runRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+runColumns+`
		FROM payroll_runs
		WHERE year = ? AND month = ? AND half = ?
		ORDER BY employee_name, employee_id
	`, year, int(month), int(half))
	if err != nil {
		return nil, fmt.Errorf("failed to query payroll runs: %w", err)
	}

	runs := make([]payroll.Run, 0, len(rows))
	for _, row := range rows {
		run, err := row.toRun()
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// MarkRunPaid sets status to paid.
func (s *Store) MarkRunPaid(ctx context.Context, id generic.RunID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"UPDATE payroll_runs SET status = ?, paid_at = ? WHERE id = ? AND status != ?",
		string(payroll.RunPaid), formatTime(at), string(id), string(payroll.RunPaid),
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	var exists int
	if err := s.db.GetContext(ctx, &exists, "SELECT COUNT(*) FROM payroll_runs WHERE id = ?", string(id)); err != nil {
		return err
	}
	if exists == 0 {
		return generic.ErrRunNotFound
	}
	return generic.ErrRunAlreadyPaid
}

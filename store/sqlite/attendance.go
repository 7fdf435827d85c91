package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bradycnk/Nominaft/attendance"
	"github.com/bradycnk/Nominaft/generic"
)

// =============================================================================
// ATTENDANCE STORE (attendance.Store interface)
// =============================================================================

type attendanceRow struct {
	ID         string         `db:"id"`
	EmployeeID string         `db:"employee_id"`
	Date       string         `db:"date"`
	Status     string         `db:"status"`
	ClockIn    sql.NullString `db:"clock_in"`
	ClockOut   sql.NullString `db:"clock_out"`
	Notes      string         `db:"notes"`
	Closed     bool           `db:"closed"`
	CreatedAt  string         `db:"created_at"`
	UpdatedAt  string         `db:"updated_at"`
}

func (r attendanceRow) toRecord() attendance.Record {
	return attendance.Record{
		ID:         generic.RecordID(r.ID),
		EmployeeID: generic.EmployeeID(r.EmployeeID),
		Date:       parseDate(r.Date),
		Status:     attendance.Status(r.Status),
		ClockIn:    r.ClockIn.String,
		ClockOut:   r.ClockOut.String,
		Notes:      r.Notes,
		Closed:     r.Closed,
		CreatedAt:  parseTime(r.CreatedAt),
		UpdatedAt:  parseTime(r.UpdatedAt),
	}
}

const attendanceColumns = `id, employee_id, date, status, clock_in, clock_out, notes, closed, created_at, updated_at`

// GetRecord returns the record for one employee and day.
func (s *Store) GetRecord(ctx context.Context, employeeID generic.EmployeeID, date generic.Date) (*attendance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var row attendanceRow
	err := s.db.GetContext(ctx, &row,
		"SELECT "+attendanceColumns+" FROM attendance WHERE employee_id = ? AND date = ?",
		string(employeeID), date.String(),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, generic.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}

	r := row.toRecord()
	return &r, nil
}

// SaveRecord upserts on (employee_id, date). The existing row keeps its ID
// and creation time.
func (s *Store) SaveRecord(ctx context.Context, r attendance.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO attendance (` + attendanceColumns + `)
		VALUES (:id, :employee_id, :date, :status, :clock_in, :clock_out, :notes, :closed, :created_at, :updated_at)
		ON CONFLICT(employee_id, date) DO UPDATE SET
			status = excluded.status,
			clock_in = excluded.clock_in,
			clock_out = excluded.clock_out,
			notes = excluded.notes,
			closed = excluded.closed,
			updated_at = excluded.updated_at
	`
	_, err := s.db.NamedExecContext(ctx, query, attendanceRow{
		ID:         string(r.ID),
		EmployeeID: string(r.EmployeeID),
		Date:       r.Date.String(),
		Status:     string(r.Status),
		ClockIn:    nullString(r.ClockIn),
		ClockOut:   nullString(r.ClockOut),
		Notes:      r.Notes,
		Closed:     r.Closed,
		CreatedAt:  formatTime(r.CreatedAt),
		UpdatedAt:  formatTime(r.UpdatedAt),
	})
	if err != nil {
		return fmt.Errorf("failed to save attendance: %w", err)
	}
	return nil
}

// ListRecords returns an employee's records in [period.Start, period.End].
func (s *Store) ListRecords(ctx context.Context, employeeID generic.EmployeeID, period generic.Period) ([]attendance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []attendanceRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+attendanceColumns+`
		FROM attendance
		WHERE employee_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`, string(employeeID), period.Start.String(), period.End.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}

	records := make([]attendance.Record, len(rows))
	for i, r := range rows {
		records[i] = r.toRecord()
	}
	return records, nil
}

// ClosePeriod marks open records in the period closed.
func (s *Store) ClosePeriod(ctx context.Context, employeeID generic.EmployeeID, period generic.Period) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE attendance SET closed = TRUE, updated_at = ?
		WHERE employee_id = ? AND date >= ? AND date <= ? AND closed = FALSE
	`, formatTime(timeNow()), string(employeeID), period.Start.String(), period.End.String())
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

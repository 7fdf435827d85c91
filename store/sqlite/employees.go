package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bradycnk/Nominaft/employee"
	"github.com/bradycnk/Nominaft/generic"
)

// =============================================================================
// EMPLOYEE STORE (employee.Store interface)
// =============================================================================

type employeeRow struct {
	ID           string `db:"id"`
	NationalID   string `db:"national_id"`
	TaxID        string `db:"tax_id"`
	FirstName    string `db:"first_name"`
	LastName     string `db:"last_name"`
	Position     string `db:"position"`
	Email        string `db:"email"`
	ForeignPay   string `db:"foreign_pay_usd"`
	LocalBasePay string `db:"local_base_pay_ves"`
	HireDate     string `db:"hire_date"`
	Active       bool   `db:"active"`
	CreatedAt    string `db:"created_at"`
	UpdatedAt    string `db:"updated_at"`
}

func toEmployeeRow(e employee.Employee) employeeRow {
	return employeeRow{
		ID:           string(e.ID),
		NationalID:   e.NationalID,
		TaxID:        e.TaxID,
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		Position:     e.Position,
		Email:        e.Email,
		ForeignPay:   e.ForeignPay.Value.String(),
		LocalBasePay: e.LocalBasePay.Value.String(),
		HireDate:     e.HireDate.String(),
		Active:       e.Active,
		CreatedAt:    formatTime(e.CreatedAt),
		UpdatedAt:    formatTime(e.UpdatedAt),
	}
}

func (r employeeRow) toEmployee() employee.Employee {
	return employee.Employee{
		ID:           generic.EmployeeID(r.ID),
		NationalID:   r.NationalID,
		TaxID:        r.TaxID,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Position:     r.Position,
		Email:        r.Email,
		ForeignPay:   parseAmount(r.ForeignPay, generic.UnitUSD),
		LocalBasePay: parseAmount(r.LocalBasePay, generic.UnitVES),
		HireDate:     parseDate(r.HireDate),
		Active:       r.Active,
		CreatedAt:    parseTime(r.CreatedAt),
		UpdatedAt:    parseTime(r.UpdatedAt),
	}
}

const employeeColumns = `id, national_id, tax_id, first_name, last_name, position, email,
	foreign_pay_usd, local_base_pay_ves, hire_date, active, created_at, updated_at`

// CreateEmployee inserts a new employee.
func (s *Store) CreateEmployee(ctx context.Context, e employee.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO employees (` + employeeColumns + `)
		VALUES (:id, :national_id, :tax_id, :first_name, :last_name, :position, :email,
		        :foreign_pay_usd, :local_base_pay_ves, :hire_date, :active, :created_at, :updated_at)
	`
	_, err := s.db.NamedExecContext(ctx, query, toEmployeeRow(e))
	if isUniqueConstraintError(err) {
		return generic.ErrDuplicateEmployee
	}
	if err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}
	return nil
}

// UpdateEmployee replaces every field except created_at.
func (s *Store) UpdateEmployee(ctx context.Context, e employee.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		UPDATE employees SET
			national_id = :national_id,
			tax_id = :tax_id,
			first_name = :first_name,
			last_name = :last_name,
			position = :position,
			email = :email,
			foreign_pay_usd = :foreign_pay_usd,
			local_base_pay_ves = :local_base_pay_ves,
			hire_date = :hire_date,
			active = :active,
			updated_at = :updated_at
		WHERE id = :id
	`
	res, err := s.db.NamedExecContext(ctx, query, toEmployeeRow(e))
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return generic.ErrEmployeeNotFound
	}
	return nil
}

// GetEmployee retrieves an employee by ID.
func (s *Store) GetEmployee(ctx context.Context, id generic.EmployeeID) (*employee.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var row employeeRow
	err := s.db.GetContext(ctx, &row, "SELECT "+employeeColumns+" FROM employees WHERE id = ?", string(id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, generic.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, err
	}

	e := row.toEmployee()
	return &e, nil
}

// ListEmployees returns employees ordered by name.
func (s *Store) ListEmployees(ctx context.Context, activeOnly bool) ([]employee.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT " + employeeColumns + " FROM employees"
	if activeOnly {
		query += " WHERE active = TRUE"
	}
	query += " ORDER BY last_name COLLATE NOCASE, first_name COLLATE NOCASE, id"

	var rows []employeeRow
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	employees := make([]employee.Employee, len(rows))
	for i, r := range rows {
		employees[i] = r.toEmployee()
	}
	return employees, nil
}

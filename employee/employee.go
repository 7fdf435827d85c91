/*
Package employee holds the employee record the payroll engine reads.

An employee's base monthly pay is stored twice: as a foreign-currency
reference (USD), which drives the calculation through the exchange rate, and
as a local-currency base (VES) kept for contracts and receipts. Seniority is
derived from the hire date at calculation time and never stored.
*/
package employee

import (
	"context"
	"strings"
	"time"

	"github.com/bradycnk/Nominaft/generic"
)

// Employee is a pharmacy staff member.
type Employee struct {
	ID           generic.EmployeeID
	NationalID   string // cedula
	TaxID        string // RIF
	FirstName    string
	LastName     string
	Position     string
	Email        string
	ForeignPay   generic.Amount // USD per month
	LocalBasePay generic.Amount // VES per month
	HireDate     generic.Date
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName returns "First Last".
func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// Seniority returns completed years of service at asOf, never negative.
func (e Employee) Seniority(asOf generic.Date) int {
	return generic.WholeYearsBetween(e.HireDate, asOf)
}

// Validate checks the fields the payroll calculator depends on.
// The calculator itself never validates.
func (e Employee) Validate() error {
	fields := map[string]string{}

	if e.ID == "" {
		fields["id"] = "required"
	}
	if strings.TrimSpace(e.FirstName) == "" {
		fields["first_name"] = "required"
	}
	if e.ForeignPay.Unit != generic.UnitUSD {
		fields["foreign_pay"] = "must be in USD"
	} else if e.ForeignPay.IsNegative() {
		fields["foreign_pay"] = "must not be negative"
	}
	if e.LocalBasePay.Unit != generic.UnitVES {
		fields["local_base_pay"] = "must be in VES"
	} else if e.LocalBasePay.IsNegative() {
		fields["local_base_pay"] = "must not be negative"
	}
	if e.HireDate.IsZero() {
		fields["hire_date"] = "required"
	}

	if len(fields) > 0 {
		return &generic.ParameterError{Fields: fields}
	}
	return nil
}

// Store persists employees.
type Store interface {
	// CreateEmployee returns ErrDuplicateEmployee if the ID exists.
	CreateEmployee(ctx context.Context, e Employee) error

	// UpdateEmployee returns ErrEmployeeNotFound if the ID doesn't exist.
	UpdateEmployee(ctx context.Context, e Employee) error

	// GetEmployee returns ErrEmployeeNotFound if the ID doesn't exist.
	GetEmployee(ctx context.Context, id generic.EmployeeID) (*Employee, error)

	// ListEmployees returns employees ordered by last name, first name.
	ListEmployees(ctx context.Context, activeOnly bool) ([]Employee, error)
}

package employee_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bradycnk/Nominaft/employee"
	"github.com/bradycnk/Nominaft/generic"
)

func validEmployee() employee.Employee {
	return employee.Employee{
		ID:           "emp-1",
		FirstName:    "Maria",
		LastName:     "Perez",
		ForeignPay:   generic.NewAmount(500, generic.UnitUSD),
		LocalBasePay: generic.NewAmount(130, generic.UnitVES),
		HireDate:     generic.NewDate(2020, time.March, 10),
		Active:       true,
	}
}

func TestEmployee_Seniority(t *testing.T) {
	e := validEmployee()

	tests := []struct {
		asOf generic.Date
		want int
	}{
		{generic.NewDate(2020, time.March, 10), 0},
		{generic.NewDate(2021, time.March, 9), 0},
		{generic.NewDate(2021, time.March, 10), 1},
		{generic.NewDate(2025, time.December, 31), 5},
		{generic.NewDate(2019, time.January, 1), 0}, // before hire
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, e.Seniority(tt.asOf), tt.asOf.String())
	}
}

func TestEmployee_Validate(t *testing.T) {
	require.NoError(t, validEmployee().Validate())

	bad := validEmployee()
	bad.FirstName = " "
	bad.ForeignPay = generic.NewAmount(-1, generic.UnitUSD)
	bad.LocalBasePay = generic.NewAmount(10, generic.UnitUSD)
	bad.HireDate = generic.Date{}

	err := bad.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, generic.ErrInvalidParameters)

	var perr *generic.ParameterError
	require.True(t, errors.As(err, &perr))
	assert.Contains(t, perr.Fields, "first_name")
	assert.Contains(t, perr.Fields, "foreign_pay")
	assert.Contains(t, perr.Fields, "local_base_pay")
	assert.Contains(t, perr.Fields, "hire_date")
}

func TestEmployee_FullName(t *testing.T) {
	assert.Equal(t, "Maria Perez", validEmployee().FullName())
}

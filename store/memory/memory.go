// Package memory provides in-memory implementations of every store
// interface, for tests and local development.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bradycnk/Nominaft/attendance"
	"github.com/bradycnk/Nominaft/employee"
	"github.com/bradycnk/Nominaft/generic"
	"github.com/bradycnk/Nominaft/payroll"
)

// =============================================================================
// MEMORY STORE
// =============================================================================

type Store struct {
	mu         sync.RWMutex
	employees  map[generic.EmployeeID]employee.Employee
	records    map[generic.EmployeeID][]attendance.Record // sorted by date
	parameters *payroll.Parameters
	runs       map[generic.RunID]payroll.Run
	runIndex   map[runKey]generic.RunID
}

type runKey struct {
	EmployeeID generic.EmployeeID
	Year       int
	Month      time.Month
	Half       generic.Half
}

func New() *Store {
	return &Store{
		employees: make(map[generic.EmployeeID]employee.Employee),
		records:   make(map[generic.EmployeeID][]attendance.Record),
		runs:      make(map[generic.RunID]payroll.Run),
		runIndex:  make(map[runKey]generic.RunID),
	}
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (m *Store) CreateEmployee(_ context.Context, e employee.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.employees[e.ID]; ok {
		return generic.ErrDuplicateEmployee
	}
	m.employees[e.ID] = e
	return nil
}

func (m *Store) UpdateEmployee(_ context.Context, e employee.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	old, ok := m.employees[e.ID]
	if !ok {
		return generic.ErrEmployeeNotFound
	}
	e.CreatedAt = old.CreatedAt
	m.employees[e.ID] = e
	return nil
}

func (m *Store) GetEmployee(_ context.Context, id generic.EmployeeID) (*employee.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.employees[id]
	if !ok {
		return nil, generic.ErrEmployeeNotFound
	}
	return &e, nil
}

func (m *Store) ListEmployees(_ context.Context, activeOnly bool) ([]employee.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]employee.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		if activeOnly && !e.Active {
			continue
		}
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		a := strings.ToLower(result[i].LastName + " " + result[i].FirstName)
		b := strings.ToLower(result[j].LastName + " " + result[j].FirstName)
		if a == b {
			return result[i].ID < result[j].ID
		}
		return a < b
	})
	return result, nil
}

// =============================================================================
// ATTENDANCE
// =============================================================================

func (m *Store) GetRecord(_ context.Context, employeeID generic.EmployeeID, date generic.Date) (*attendance.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	recs := m.records[employeeID]
	i := searchDate(recs, date)
	if i < len(recs) && recs[i].Date.Equal(date) {
		r := recs[i]
		return &r, nil
	}
	return nil, generic.ErrRecordNotFound
}

func (m *Store) SaveRecord(_ context.Context, r attendance.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	recs := m.records[r.EmployeeID]
	i := searchDate(recs, r.Date)
	if i < len(recs) && recs[i].Date.Equal(r.Date) {
		r.ID = recs[i].ID
		r.CreatedAt = recs[i].CreatedAt
		recs[i] = r
		return nil
	}

	recs = append(recs, attendance.Record{})
	copy(recs[i+1:], recs[i:])
	recs[i] = r
	m.records[r.EmployeeID] = recs
	return nil
}

func (m *Store) ListRecords(_ context.Context, employeeID generic.EmployeeID, period generic.Period) ([]attendance.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []attendance.Record
	for _, r := range m.records[employeeID] {
		if period.Contains(r.Date) {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *Store) ClosePeriod(_ context.Context, employeeID generic.EmployeeID, period generic.Period) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	recs := m.records[employeeID]
	for i := range recs {
		if period.Contains(recs[i].Date) && !recs[i].Closed {
			recs[i].Closed = true
			n++
		}
	}
	return n, nil
}

// searchDate returns the insertion point of date in recs.
func searchDate(recs []attendance.Record, date generic.Date) int {
	return sort.Search(len(recs), func(i int) bool {
		return recs[i].Date.AfterOrEqual(date)
	})
}

// =============================================================================
// PARAMETERS
// =============================================================================

func (m *Store) GetParameters(_ context.Context) (*payroll.Parameters, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.parameters == nil {
		return nil, generic.ErrParametersNotFound
	}
	p := *m.parameters
	return &p, nil
}

func (m *Store) SaveParameters(_ context.Context, p payroll.Parameters) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.parameters = &p
	return nil
}

// =============================================================================
// PAYROLL RUNS
// =============================================================================

func (m *Store) SaveRuns(_ context.Context, runs []payroll.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range runs {
		k := runKey{EmployeeID: r.EmployeeID, Year: r.Year, Month: r.Month, Half: r.Half}
		if id, ok := m.runIndex[k]; ok && m.runs[id].Status == payroll.RunPaid {
			return generic.ErrRunAlreadyPaid
		}
	}

	for _, r := range runs {
		k := runKey{EmployeeID: r.EmployeeID, Year: r.Year, Month: r.Month, Half: r.Half}
		if id, ok := m.runIndex[k]; ok {
			delete(m.runs, id)
		}
		m.runs[r.ID] = r
		m.runIndex[k] = r.ID
	}
	return nil
}

func (m *Store) GetRun(_ context.Context, id generic.RunID) (*payroll.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.runs[id]
	if !ok {
		return nil, generic.ErrRunNotFound
	}
	return &r, nil
}

func (m *Store) ListRuns(_ context.Context, year int, month time.Month, half generic.Half) ([]payroll.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []payroll.Run
	for _, r := range m.runs {
		if r.Year == year && r.Month == month && r.Half == half {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].EmployeeName == result[j].EmployeeName {
			return result[i].EmployeeID < result[j].EmployeeID
		}
		return result[i].EmployeeName < result[j].EmployeeName
	})
	return result, nil
}

func (m *Store) MarkRunPaid(_ context.Context, id generic.RunID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.runs[id]
	if !ok {
		return generic.ErrRunNotFound
	}
	if r.Status == payroll.RunPaid {
		return generic.ErrRunAlreadyPaid
	}
	r.Status = payroll.RunPaid
	r.PaidAt = &at
	m.runs[id] = r
	return nil
}

var (
	_ employee.Store         = (*Store)(nil)
	_ attendance.Store       = (*Store)(nil)
	_ payroll.ParameterStore = (*Store)(nil)
	_ payroll.RunStore       = (*Store)(nil)
)

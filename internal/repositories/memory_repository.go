package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"hrms_lite/internal/models"
	"hrms_lite/pkg/utils"
)

// Constraint names shared by the Postgres schema and the memory store, so
// services can tell which unique key was violated.
const (
	ConstraintEmployeeIDKey = "employees_employee_id_key"
	ConstraintEmailKey      = "employees_email_key"
)

// MemoryStore keeps employees and attendance in process memory. It satisfies
// EmployeeRepository, AttendanceRepository and Transactor and enforces the
// same unique keys and cascade rules as the SQL schema. Executors passed to
// its methods are ignored.
type MemoryStore struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	employees  map[int64]models.Employee
	attendance map[int64]models.AttendanceRecord
	nextEmpID  int64
	nextAttID  int64

	now func() time.Time
}

// NewMemoryStore returns an empty store. ids start at 1.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		employees:  map[int64]models.Employee{},
		attendance: map[int64]models.AttendanceRecord{},
		now:        time.Now,
	}
}

// WithinTransaction serialises units of work and restores the previous state if fn fails.
func (m *MemoryStore) WithinTransaction(fn func(executor SQLExecutor) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.RLock()
	empSnap := make(map[int64]models.Employee, len(m.employees))
	for k, v := range m.employees {
		empSnap[k] = v
	}
	attSnap := make(map[int64]models.AttendanceRecord, len(m.attendance))
	for k, v := range m.attendance {
		attSnap[k] = v
	}
	nextEmp, nextAtt := m.nextEmpID, m.nextAttID
	m.mu.RUnlock()

	if err := fn(nil); err != nil {
		m.mu.Lock()
		m.employees, m.attendance = empSnap, attSnap
		m.nextEmpID, m.nextAttID = nextEmp, nextAtt
		m.mu.Unlock()
		return err
	}
	return nil
}

// --- employees ---

func (m *MemoryStore) CreateEmployee(_ SQLExecutor, employee *models.Employee) (*models.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.employees {
		if e.EmployeeID == employee.EmployeeID {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKey, ConstraintEmployeeIDKey)
		}
		if strings.EqualFold(e.Email, employee.Email) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKey, ConstraintEmailKey)
		}
	}

	m.nextEmpID++
	currentTime := m.now()
	employee.ID = m.nextEmpID
	employee.CreatedAt = currentTime
	employee.UpdatedAt = currentTime
	m.employees[employee.ID] = *employee
	return employee, nil
}

func (m *MemoryStore) GetEmployeeByID(id int64) (*models.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.employees[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (m *MemoryStore) GetEmployeeByEmployeeID(employeeID string) (*models.Employee, error) {
	return m.findEmployee(func(e models.Employee) bool { return e.EmployeeID == employeeID })
}

func (m *MemoryStore) GetEmployeeByEmail(email string) (*models.Employee, error) {
	return m.findEmployee(func(e models.Employee) bool { return strings.EqualFold(e.Email, email) })
}

func (m *MemoryStore) findEmployee(match func(models.Employee) bool) (*models.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.employees {
		if match(e) {
			found := e
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) GetEmployees(searchTerm *string) ([]models.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	term := ""
	if searchTerm != nil {
		term = strings.TrimSpace(*searchTerm)
	}

	employees := []models.Employee{}
	for _, e := range m.employees {
		if term != "" && !employeeMatches(e, term) {
			continue
		}
		employees = append(employees, e)
	}
	sort.Slice(employees, func(i, j int) bool {
		if !employees[i].CreatedAt.Equal(employees[j].CreatedAt) {
			return employees[i].CreatedAt.After(employees[j].CreatedAt)
		}
		return employees[i].ID > employees[j].ID
	})
	return employees, nil
}

func employeeMatches(e models.Employee, term string) bool {
	for _, field := range []string{e.FullName, e.EmployeeID, e.Email, e.Department} {
		if utils.ContainsFold(field, term) {
			return true
		}
	}
	return false
}

func (m *MemoryStore) DeleteEmployee(_ SQLExecutor, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.employees[id]; !ok {
		return ErrNotFound
	}
	delete(m.employees, id)
	for attID, a := range m.attendance {
		if a.Employee == id {
			delete(m.attendance, attID)
		}
	}
	return nil
}

// --- attendance ---

func (m *MemoryStore) CreateAttendance(_ SQLExecutor, record *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.employees[record.Employee]; !ok {
		return nil, fmt.Errorf("%w: employee ID %d", ErrNotFound, record.Employee)
	}
	for _, a := range m.attendance {
		if a.Employee == record.Employee && a.Date == record.Date {
			return nil, fmt.Errorf("%w: attendance for employee %d on %s", ErrDuplicateKey, record.Employee, record.Date)
		}
	}

	m.nextAttID++
	currentTime := m.now()
	record.ID = m.nextAttID
	record.CreatedAt = currentTime
	record.UpdatedAt = currentTime
	stored := *record
	stored.EmployeeCode, stored.EmployeeName, stored.Department = "", "", ""
	m.attendance[record.ID] = stored
	return record, nil
}

func (m *MemoryStore) UpsertAttendance(_ SQLExecutor, record *models.AttendanceRecord, replaceNotes bool) (*models.AttendanceRecord, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.employees[record.Employee]; !ok {
		return nil, false, fmt.Errorf("%w: employee ID %d", ErrNotFound, record.Employee)
	}
	currentTime := m.now()
	for id, stored := range m.attendance {
		if stored.Employee != record.Employee || stored.Date != record.Date {
			continue
		}
		stored.Status = record.Status
		if replaceNotes {
			stored.Notes = record.Notes
		}
		stored.UpdatedAt = currentTime
		m.attendance[id] = stored
		record.ID, record.Notes = stored.ID, stored.Notes
		record.CreatedAt, record.UpdatedAt = stored.CreatedAt, stored.UpdatedAt
		return record, false, nil
	}

	m.nextAttID++
	record.ID = m.nextAttID
	record.CreatedAt = currentTime
	record.UpdatedAt = currentTime
	stored := *record
	stored.EmployeeCode, stored.EmployeeName, stored.Department = "", "", ""
	m.attendance[record.ID] = stored
	return record, true, nil
}

// withEmployee fills the read-only employee columns, as the SQL join does. Caller holds mu.
func (m *MemoryStore) withEmployee(a models.AttendanceRecord) models.AttendanceRecord {
	if e, ok := m.employees[a.Employee]; ok {
		a.EmployeeCode = e.EmployeeID
		a.EmployeeName = e.FullName
		a.Department = e.Department
	}
	return a
}

func (m *MemoryStore) GetAttendanceByID(id int64) (*models.AttendanceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.attendance[id]
	if !ok {
		return nil, ErrNotFound
	}
	joined := m.withEmployee(a)
	return &joined, nil
}

func (m *MemoryStore) GetAttendanceByEmployee(employeeID int64) ([]models.AttendanceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := []models.AttendanceRecord{}
	for _, a := range m.attendance {
		if a.Employee == employeeID {
			records = append(records, m.withEmployee(a))
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date > records[j].Date
		}
		return records[i].ID > records[j].ID
	})
	return records, nil
}

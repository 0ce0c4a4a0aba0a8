package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"hrms_lite/internal/models"

	"github.com/lib/pq"
)

// EmployeeRepository defines the database operations on employees.
type EmployeeRepository interface {
	CreateEmployee(executor SQLExecutor, employee *models.Employee) (*models.Employee, error)
	GetEmployeeByID(id int64) (*models.Employee, error)
	GetEmployeeByEmployeeID(employeeID string) (*models.Employee, error)
	GetEmployeeByEmail(email string) (*models.Employee, error)
	GetEmployees(searchTerm *string) ([]models.Employee, error)
	DeleteEmployee(executor SQLExecutor, id int64) error
}

type employeeRepository struct {
	db *sql.DB
}

// NewEmployeeRepository creates a new instance of EmployeeRepository.
func NewEmployeeRepository(db *sql.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `id, employee_id, full_name, email, department, created_at, updated_at`

func (r *employeeRepository) CreateEmployee(executor SQLExecutor, employee *models.Employee) (*models.Employee, error) {
	query := `INSERT INTO employees (employee_id, full_name, email, department, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id, created_at, updated_at`

	currentTime := time.Now()
	employee.CreatedAt = currentTime
	employee.UpdatedAt = currentTime

	err := executor.QueryRow(query,
		employee.EmployeeID, employee.FullName, employee.Email, employee.Department,
		employee.CreatedAt, employee.UpdatedAt,
	).Scan(&employee.ID, &employee.CreatedAt, &employee.UpdatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKey, pqErr.Constraint)
		}
		return nil, fmt.Errorf("%w: creating employee: %v", ErrDatabaseError, err)
	}
	return employee, nil
}

func scanEmployeeRow(row scanner) (*models.Employee, error) {
	var e models.Employee
	err := row.Scan(&e.ID, &e.EmployeeID, &e.FullName, &e.Email, &e.Department, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning employee: %v", ErrDatabaseError, err)
	}
	return &e, nil
}

func (r *employeeRepository) GetEmployeeByID(id int64) (*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`
	return scanEmployeeRow(r.db.QueryRow(query, id))
}

func (r *employeeRepository) GetEmployeeByEmployeeID(employeeID string) (*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE employee_id = $1`
	return scanEmployeeRow(r.db.QueryRow(query, employeeID))
}

func (r *employeeRepository) GetEmployeeByEmail(email string) (*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE LOWER(email) = LOWER($1)`
	return scanEmployeeRow(r.db.QueryRow(query, email))
}

func (r *employeeRepository) GetEmployees(searchTerm *string) ([]models.Employee, error) {
	employees := []models.Employee{}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + employeeColumns + ` FROM employees`)

	var args []interface{}
	if searchTerm != nil && strings.TrimSpace(*searchTerm) != "" {
		queryBuilder.WriteString(` WHERE (full_name ILIKE $1 OR employee_id ILIKE $1 OR email ILIKE $1 OR department ILIKE $1)`)
		args = append(args, "%"+strings.TrimSpace(*searchTerm)+"%")
	}
	queryBuilder.WriteString(" ORDER BY created_at DESC, id DESC")

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying employees: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		e, err := scanEmployeeRow(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, *e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating employee rows: %v", ErrDatabaseError, err)
	}
	return employees, nil
}

// DeleteEmployee removes the employee; attendance rows go with it through ON DELETE CASCADE.
func (r *employeeRepository) DeleteEmployee(executor SQLExecutor, id int64) error {
	query := `DELETE FROM employees WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		return fmt.Errorf("%w: deleting employee ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

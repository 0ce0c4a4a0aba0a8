package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"hrms_lite/internal/models"
	"hrms_lite/internal/repositories"
	"hrms_lite/pkg/utils"
)

// EmployeeService holds the business rules for employee records.
type EmployeeService interface {
	CreateEmployee(req models.EmployeeInput) (*models.Employee, error)
	GetEmployeeByID(id int64) (*models.Employee, error)
	GetEmployees(searchTerm *string) ([]models.Employee, error)
	DeleteEmployee(id int64) error
}

type employeeService struct {
	employeeRepo   repositories.EmployeeRepository
	attendanceRepo repositories.AttendanceRepository
	tx             repositories.Transactor
	autoAbsent     bool
	clock          func() time.Time
}

// NewEmployeeService creates a new instance of EmployeeService. With
// autoAbsent set, every new employee starts with an Absent record for today.
func NewEmployeeService(er repositories.EmployeeRepository, ar repositories.AttendanceRepository, tx repositories.Transactor, autoAbsent bool) EmployeeService {
	return &employeeService{
		employeeRepo:   er,
		attendanceRepo: ar,
		tx:             tx,
		autoAbsent:     autoAbsent,
		clock:          time.Now,
	}
}

type fieldRule struct {
	name   string
	label  string
	value  *string
	maxLen int
}

func validateEmployeeInput(req *models.EmployeeInput) error {
	rules := []fieldRule{
		{"employee_id", "Employee ID", &req.EmployeeID, 50},
		{"full_name", "Full name", &req.FullName, 100},
		{"email", "Email", &req.Email, 254},
		{"department", "Department", &req.Department, 100},
	}
	for _, r := range rules {
		*r.value = strings.TrimSpace(*r.value)
		if *r.value == "" {
			return newValidationError(ErrEmployeeValidation, r.name, r.label+" cannot be empty.")
		}
		if utf8.RuneCountInString(*r.value) > r.maxLen {
			return newValidationError(ErrEmployeeValidation, r.name, fmt.Sprintf("%s cannot be longer than %d characters.", r.label, r.maxLen))
		}
	}
	if !utils.IsValidEmail(req.Email) {
		return newValidationError(ErrEmployeeValidation, "email", "Enter a valid email address.")
	}
	return nil
}

func (s *employeeService) CreateEmployee(req models.EmployeeInput) (*models.Employee, error) {
	if err := validateEmployeeInput(&req); err != nil {
		return nil, err
	}

	existing, err := s.employeeRepo.GetEmployeeByEmployeeID(req.EmployeeID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check employee ID uniqueness: %w", err)
	}
	if existing != nil {
		return nil, ErrEmployeeIDExists
	}
	existing, err = s.employeeRepo.GetEmployeeByEmail(req.Email)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	employee := &models.Employee{
		EmployeeID: req.EmployeeID,
		FullName:   req.FullName,
		Email:      req.Email,
		Department: req.Department,
	}

	err = s.tx.WithinTransaction(func(exec repositories.SQLExecutor) error {
		if _, err := s.employeeRepo.CreateEmployee(exec, employee); err != nil {
			return err
		}
		if !s.autoAbsent {
			return nil
		}
		_, err := s.attendanceRepo.CreateAttendance(exec, &models.AttendanceRecord{
			Employee: employee.ID,
			Date:     s.clock().Format(models.DateLayout),
			Status:   models.StatusAbsent,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			if strings.Contains(err.Error(), repositories.ConstraintEmployeeIDKey) {
				return nil, ErrEmployeeIDExists
			}
			if strings.Contains(err.Error(), repositories.ConstraintEmailKey) {
				return nil, ErrEmailExists
			}
		}
		return nil, fmt.Errorf("failed to create employee in repository: %w", err)
	}

	utils.LogInfo("Employee created", map[string]interface{}{"id": employee.ID, "employee_id": employee.EmployeeID})
	return employee, nil
}

func (s *employeeService) GetEmployeeByID(id int64) (*models.Employee, error) {
	employee, err := s.employeeRepo.GetEmployeeByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get employee by ID: %w", err)
	}
	return employee, nil
}

func (s *employeeService) GetEmployees(searchTerm *string) ([]models.Employee, error) {
	employees, err := s.employeeRepo.GetEmployees(searchTerm)
	if err != nil {
		return nil, fmt.Errorf("failed to get employees: %w", err)
	}
	return employees, nil
}

func (s *employeeService) DeleteEmployee(id int64) error {
	err := s.tx.WithinTransaction(func(exec repositories.SQLExecutor) error {
		return s.employeeRepo.DeleteEmployee(exec, id)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	utils.LogInfo("Employee deleted", map[string]interface{}{"id": id})
	return nil
}

package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"hrms_lite/internal/models"
	"hrms_lite/internal/repositories"
	"hrms_lite/pkg/utils"
)

// AttendanceService marks and lists attendance. Marking is idempotent per
// (employee, date): a second mark updates the status of the existing record.
type AttendanceService interface {
	MarkAttendance(req models.AttendanceInput) (record *models.AttendanceRecord, created bool, err error)
	GetAttendanceByEmployee(employeeID int64) ([]models.AttendanceRecord, error)
}

type attendanceService struct {
	attendanceRepo repositories.AttendanceRepository
	employeeRepo   repositories.EmployeeRepository
	tx             repositories.Transactor
	clock          func() time.Time
}

// NewAttendanceService creates a new instance of AttendanceService.
func NewAttendanceService(ar repositories.AttendanceRepository, er repositories.EmployeeRepository, tx repositories.Transactor) AttendanceService {
	return &attendanceService{
		attendanceRepo: ar,
		employeeRepo:   er,
		tx:             tx,
		clock:          time.Now,
	}
}

// resolveDate applies the today default and rejects malformed or future dates.
func (s *attendanceService) resolveDate(raw string) (string, error) {
	today := s.clock().Format(models.DateLayout)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return today, nil
	}
	parsed, err := time.Parse(models.DateLayout, raw)
	if err != nil {
		return "", ErrAttendanceDateFormat
	}
	date := parsed.Format(models.DateLayout)
	if date > today {
		return "", ErrAttendanceFutureDate
	}
	return date, nil
}

func (s *attendanceService) MarkAttendance(req models.AttendanceInput) (*models.AttendanceRecord, bool, error) {
	employeeID := int64(req.Employee)
	if employeeID <= 0 {
		return nil, false, newValidationError(ErrAttendanceValidation, "employee", "Employee is required.")
	}

	status := models.StatusPresent
	if strings.TrimSpace(string(req.Status)) != "" {
		st, ok := models.ParseAttendanceStatus(string(req.Status))
		if !ok {
			return nil, false, newValidationError(ErrAttendanceValidation, "status", fmt.Sprintf("%q is not a valid choice. Use Present or Absent.", req.Status))
		}
		status = st
	}

	date, err := s.resolveDate(req.Date)
	if err != nil {
		return nil, false, err
	}

	if _, err := s.employeeRepo.GetEmployeeByID(employeeID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, false, ErrAttendanceEmployeeNotFound
		}
		return nil, false, fmt.Errorf("failed to validate employee for attendance: %w", err)
	}

	var notes *string
	if req.Notes != nil {
		notes = utils.NewNullString(strings.TrimSpace(*req.Notes))
	}

	var recordID int64
	created := false
	err = s.tx.WithinTransaction(func(exec repositories.SQLExecutor) error {
		rec, inserted, err := s.attendanceRepo.UpsertAttendance(exec, &models.AttendanceRecord{
			Employee: employeeID,
			Date:     date,
			Status:   status,
			Notes:    notes,
		}, req.Notes != nil)
		if err != nil {
			return err
		}
		recordID = rec.ID
		created = inserted
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, false, ErrAttendanceEmployeeNotFound
		}
		return nil, false, fmt.Errorf("failed to mark attendance in repository: %w", err)
	}

	record, err := s.attendanceRepo.GetAttendanceByID(recordID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to reload attendance: %w", err)
	}

	action := "updated"
	if created {
		action = "created"
	}
	utils.LogInfo("Attendance "+action, map[string]interface{}{"employee": employeeID, "date": date, "status": string(status)})
	return record, created, nil
}

func (s *attendanceService) GetAttendanceByEmployee(employeeID int64) ([]models.AttendanceRecord, error) {
	if _, err := s.employeeRepo.GetEmployeeByID(employeeID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to validate employee: %w", err)
	}
	records, err := s.attendanceRepo.GetAttendanceByEmployee(employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}
	return records, nil
}

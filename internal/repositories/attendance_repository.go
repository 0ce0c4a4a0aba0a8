package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hrms_lite/internal/models"

	"github.com/lib/pq"
)

// AttendanceRepository defines the database operations on attendance records.
type AttendanceRepository interface {
	CreateAttendance(executor SQLExecutor, record *models.AttendanceRecord) (*models.AttendanceRecord, error)
	UpsertAttendance(executor SQLExecutor, record *models.AttendanceRecord, replaceNotes bool) (rec *models.AttendanceRecord, created bool, err error)
	GetAttendanceByID(id int64) (*models.AttendanceRecord, error)
	GetAttendanceByEmployee(employeeID int64) ([]models.AttendanceRecord, error)
}

type attendanceRepository struct {
	db *sql.DB
}

// NewAttendanceRepository creates a new instance of AttendanceRepository.
func NewAttendanceRepository(db *sql.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceSelect = `SELECT
	    a.id, a.employee_id, e.employee_id, e.full_name, e.department,
	    a.date, a.status, a.notes, a.created_at, a.updated_at
	  FROM attendance a
	  JOIN employees e ON a.employee_id = e.id`

func (r *attendanceRepository) CreateAttendance(executor SQLExecutor, record *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	query := `INSERT INTO attendance (employee_id, date, status, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id, created_at, updated_at`

	currentTime := time.Now()
	record.CreatedAt = currentTime
	record.UpdatedAt = currentTime

	err := executor.QueryRow(query,
		record.Employee, record.Date, string(record.Status), record.Notes,
		record.CreatedAt, record.UpdatedAt,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return nil, fmt.Errorf("%w: attendance for employee %d on %s", ErrDuplicateKey, record.Employee, record.Date)
			case "foreign_key_violation":
				return nil, fmt.Errorf("%w: employee ID %d", ErrNotFound, record.Employee)
			}
		}
		return nil, fmt.Errorf("%w: creating attendance: %v", ErrDatabaseError, err)
	}
	return record, nil
}

// UpsertAttendance inserts the record for (employee, date) or, when one
// exists, overwrites its status in the same statement. Notes are only
// overwritten when replaceNotes is set.
func (r *attendanceRepository) UpsertAttendance(executor SQLExecutor, record *models.AttendanceRecord, replaceNotes bool) (*models.AttendanceRecord, bool, error) {
	query := `INSERT INTO attendance (employee_id, date, status, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $5)
	          ON CONFLICT (employee_id, date) DO UPDATE
	             SET status = EXCLUDED.status,
	                 notes = CASE WHEN $6 THEN EXCLUDED.notes ELSE attendance.notes END,
	                 updated_at = EXCLUDED.updated_at
	          RETURNING id, created_at, updated_at, (xmax = 0) AS inserted`

	var inserted bool
	err := executor.QueryRow(query,
		record.Employee, record.Date, string(record.Status), record.Notes, time.Now(), replaceNotes,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt, &inserted)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return nil, false, fmt.Errorf("%w: employee ID %d", ErrNotFound, record.Employee)
		}
		return nil, false, fmt.Errorf("%w: upserting attendance: %v", ErrDatabaseError, err)
	}
	return record, inserted, nil
}

func scanAttendanceRow(row scanner) (*models.AttendanceRecord, error) {
	var rec models.AttendanceRecord
	var date time.Time
	var status string
	var notes sql.NullString

	err := row.Scan(
		&rec.ID, &rec.Employee, &rec.EmployeeCode, &rec.EmployeeName, &rec.Department,
		&date, &status, &notes, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning attendance: %v", ErrDatabaseError, err)
	}
	rec.Date = date.Format(models.DateLayout)
	rec.Status = models.AttendanceStatus(status)
	if notes.Valid {
		rec.Notes = &notes.String
	}
	return &rec, nil
}

func (r *attendanceRepository) GetAttendanceByID(id int64) (*models.AttendanceRecord, error) {
	return scanAttendanceRow(r.db.QueryRow(attendanceSelect+` WHERE a.id = $1`, id))
}

func (r *attendanceRepository) GetAttendanceByEmployee(employeeID int64) ([]models.AttendanceRecord, error) {
	records := []models.AttendanceRecord{}

	rows, err := r.db.Query(attendanceSelect+` WHERE a.employee_id = $1 ORDER BY a.date DESC, a.id DESC`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying attendance for employee %d: %v", ErrDatabaseError, employeeID, err)
	}
	defer rows.Close()

	for rows.Next() {
		rec, err := scanAttendanceRow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating attendance rows: %v", ErrDatabaseError, err)
	}
	return records, nil
}

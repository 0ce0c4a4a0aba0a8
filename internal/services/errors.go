package services

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmployeeValidation = errors.New("employee data validation error")
	ErrEmployeeIDExists   = errors.New("employee with this employee ID already exists")
	ErrEmailExists        = errors.New("employee with this email already exists")

	ErrAttendanceValidation       = errors.New("attendance data validation error")
	ErrAttendanceDateFormat       = errors.New("date has wrong format, use YYYY-MM-DD")
	ErrAttendanceFutureDate       = errors.New("attendance date cannot be in the future")
	ErrAttendanceEmployeeNotFound = errors.New("employee for attendance not found")
)

// ValidationError names the offending field. It unwraps to the service's
// validation sentinel so handlers can branch with errors.Is.
type ValidationError struct {
	Field   string
	Message string
	kind    error
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.kind }

func newValidationError(kind error, field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message, kind: kind}
}

package apiclient

import (
	"strings"
	"time"

	"hrms_lite/internal/models"
)

const (
	MsgFieldsRequired   = "All fields are required and cannot be empty"
	MsgInvalidEmail     = "Please enter a valid email address"
	MsgSelectEmployee   = "Please select an employee first"
	MsgInvalidStatus    = "Status must be Present or Absent"
	MsgInvalidDateInput = "Date must be in YYYY-MM-DD format"
)

// ValidateEmployee checks the create form before it is sent.
func ValidateEmployee(in models.EmployeeInput) error {
	for _, v := range []string{in.EmployeeID, in.FullName, in.Email, in.Department} {
		if strings.TrimSpace(v) == "" {
			return &ValidationError{Message: MsgFieldsRequired}
		}
	}
	if !strings.Contains(in.Email, "@") {
		return &ValidationError{Message: MsgInvalidEmail}
	}
	return nil
}

// ValidateAttendance checks an attendance mark before it is sent. An empty
// status or date is left for the server to default.
func ValidateAttendance(in models.AttendanceInput) error {
	if in.Employee <= 0 {
		return &ValidationError{Message: MsgSelectEmployee}
	}
	if strings.TrimSpace(string(in.Status)) != "" {
		if _, ok := models.ParseAttendanceStatus(string(in.Status)); !ok {
			return &ValidationError{Message: MsgInvalidStatus}
		}
	}
	if d := strings.TrimSpace(in.Date); d != "" {
		if _, err := time.Parse(models.DateLayout, d); err != nil {
			return &ValidationError{Message: MsgInvalidDateInput}
		}
	}
	return nil
}

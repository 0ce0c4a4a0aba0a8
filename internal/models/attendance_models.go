package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire and storage format of attendance dates.
const DateLayout = "2006-01-02"

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "Present"
	StatusAbsent  AttendanceStatus = "Absent"
)

// AttendanceStatuses lists the accepted statuses in display order.
var AttendanceStatuses = []AttendanceStatus{StatusPresent, StatusAbsent}

// ParseAttendanceStatus matches case-insensitively and returns the canonical spelling.
func ParseAttendanceStatus(s string) (AttendanceStatus, bool) {
	for _, st := range AttendanceStatuses {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, true
		}
	}
	return "", false
}

// AttendanceRecord is one per-day marking for an employee.
// EmployeeName, EmployeeCode and Department are filled on reads only.
type AttendanceRecord struct {
	ID           int64            `json:"id" db:"id"`
	Employee     int64            `json:"employee" db:"employee_id"`
	EmployeeCode string           `json:"employee_id,omitempty"`
	EmployeeName string           `json:"employee_name,omitempty"`
	Department   string           `json:"department,omitempty"`
	Date         string           `json:"date" db:"date"`
	Status       AttendanceStatus `json:"status" db:"status"`
	Notes        *string          `json:"notes,omitempty" db:"notes"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at" db:"updated_at"`
}

// AttendanceInput is the create payload. Date and Status are optional and
// default server-side to today and Present.
type AttendanceInput struct {
	Employee FlexID           `json:"employee"`
	Status   AttendanceStatus `json:"status,omitempty"`
	Date     string           `json:"date,omitempty"`
	Notes    *string          `json:"notes,omitempty"`
}

// FlexID is an int64 identifier that also decodes from a numeric JSON string,
// since form selects submit ids as strings.
type FlexID int64

func (id *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*id = 0
			return nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", s)
		}
		*id = FlexID(n)
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s", string(data))
	}
	*id = FlexID(n)
	return nil
}

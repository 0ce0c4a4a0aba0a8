package store

import (
	"hrms_lite/internal/models"
	"hrms_lite/pkg/utils"
)

// LoadStatus is the lifecycle of one list.
type LoadStatus string

const (
	StatusIdle    LoadStatus = "idle"
	StatusLoading LoadStatus = "loading"
	StatusLoaded  LoadStatus = "loaded"
	StatusErrored LoadStatus = "errored"
)

// AttendanceForm is the pending attendance mark. The employee comes from the
// current selection.
type AttendanceForm struct {
	Status models.AttendanceStatus
	Date   string
	Notes  string
}

// State is an immutable snapshot of the page. Slices are copies owned by the
// receiver.
type State struct {
	Version uint64

	Employees       []models.Employee
	EmployeesStatus LoadStatus

	SelectedEmployee int64
	Attendance       []models.AttendanceRecord
	AttendanceStatus LoadStatus

	Search         string
	EmployeeForm   models.EmployeeInput
	AttendanceForm AttendanceForm

	Submitting bool
	Success    string
	Error      string
}

// Stats are the dashboard counters.
type Stats struct {
	TotalEmployees int
	PresentCount   int
	Departments    int
}

// Stats derives the counters from the current lists.
func (s State) Stats() Stats {
	stats := Stats{TotalEmployees: len(s.Employees)}
	for _, r := range s.Attendance {
		if r.Status == models.StatusPresent {
			stats.PresentCount++
		}
	}
	departments := make(map[string]struct{}, len(s.Employees))
	for _, e := range s.Employees {
		departments[e.Department] = struct{}{}
	}
	stats.Departments = len(departments)
	return stats
}

// FilteredEmployees applies the search field to full_name and employee_id.
func (s State) FilteredEmployees() []models.Employee {
	out := make([]models.Employee, 0, len(s.Employees))
	for _, e := range s.Employees {
		if utils.ContainsFold(e.FullName, s.Search) || utils.ContainsFold(e.EmployeeID, s.Search) {
			out = append(out, e)
		}
	}
	return out
}

// SelectedEmployeeRecord returns the selected employee if it is in the list.
func (s State) SelectedEmployeeRecord() (models.Employee, bool) {
	for _, e := range s.Employees {
		if e.ID == s.SelectedEmployee {
			return e, true
		}
	}
	return models.Employee{}, false
}

func (s State) clone() State {
	c := s
	c.Employees = append([]models.Employee(nil), s.Employees...)
	c.Attendance = append([]models.AttendanceRecord(nil), s.Attendance...)
	return c
}

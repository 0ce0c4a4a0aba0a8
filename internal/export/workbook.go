package export

import (
	"context"
	"fmt"
	"io"
	"sort"

	"hrms_lite/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	SheetEmployees  = "Employees"
	SheetAttendance = "Attendance"
	SheetSummary    = "Summary"
)

// Source is what Collect reads from; *apiclient.Client satisfies it.
type Source interface {
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	ListAttendance(ctx context.Context, employeeID int64) ([]models.AttendanceRecord, error)
}

// Dataset is everything that goes into one workbook.
type Dataset struct {
	Employees  []models.Employee
	Attendance []models.AttendanceRecord
}

// Collect fetches every employee and then each employee's attendance.
func Collect(ctx context.Context, src Source) (Dataset, error) {
	employees, err := src.ListEmployees(ctx)
	if err != nil {
		return Dataset{}, err
	}
	data := Dataset{Employees: employees}
	for _, e := range employees {
		records, err := src.ListAttendance(ctx, e.ID)
		if err != nil {
			return Dataset{}, fmt.Errorf("attendance for %s: %w", e.EmployeeID, err)
		}
		for _, r := range records {
			if r.EmployeeName == "" {
				r.EmployeeName = e.FullName
			}
			if r.EmployeeCode == "" {
				r.EmployeeCode = e.EmployeeID
			}
			if r.Department == "" {
				r.Department = e.Department
			}
			data.Attendance = append(data.Attendance, r)
		}
	}
	sort.SliceStable(data.Attendance, func(i, j int) bool {
		if data.Attendance[i].Date != data.Attendance[j].Date {
			return data.Attendance[i].Date > data.Attendance[j].Date
		}
		return data.Attendance[i].EmployeeCode < data.Attendance[j].EmployeeCode
	})
	return data, nil
}

// WriteWorkbook renders data as an .xlsx file with Employees, Attendance and
// Summary sheets.
func WriteWorkbook(w io.Writer, data Dataset) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetEmployees); err != nil {
		return err
	}
	if _, err := f.NewSheet(SheetAttendance); err != nil {
		return err
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DCE6F1"}},
	})
	if err != nil {
		return err
	}

	employeeRows := make([][]interface{}, 0, len(data.Employees))
	for _, e := range data.Employees {
		employeeRows = append(employeeRows, []interface{}{e.EmployeeID, e.FullName, e.Email, e.Department, e.CreatedAt.Format(models.DateLayout)})
	}
	if err := writeSheet(f, SheetEmployees, headerStyle,
		[]interface{}{"Employee ID", "Full Name", "Email", "Department", "Created"}, employeeRows); err != nil {
		return err
	}

	attendanceRows := make([][]interface{}, 0, len(data.Attendance))
	for _, r := range data.Attendance {
		notes := ""
		if r.Notes != nil {
			notes = *r.Notes
		}
		attendanceRows = append(attendanceRows, []interface{}{r.Date, r.EmployeeCode, r.EmployeeName, r.Department, string(r.Status), notes})
	}
	if err := writeSheet(f, SheetAttendance, headerStyle,
		[]interface{}{"Date", "Employee ID", "Full Name", "Department", "Status", "Notes"}, attendanceRows); err != nil {
		return err
	}

	if err := writeSheet(f, SheetSummary, headerStyle,
		[]interface{}{"Employee ID", "Full Name", "Present", "Absent", "Total"}, summaryRows(data)); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	return f.Write(w)
}

func summaryRows(data Dataset) [][]interface{} {
	type tally struct{ present, absent int }
	counts := make(map[int64]*tally, len(data.Employees))
	for _, r := range data.Attendance {
		t, ok := counts[r.Employee]
		if !ok {
			t = &tally{}
			counts[r.Employee] = t
		}
		switch r.Status {
		case models.StatusPresent:
			t.present++
		case models.StatusAbsent:
			t.absent++
		}
	}
	rows := make([][]interface{}, 0, len(data.Employees))
	for _, e := range data.Employees {
		t := counts[e.ID]
		if t == nil {
			t = &tally{}
		}
		rows = append(rows, []interface{}{e.EmployeeID, e.FullName, t.present, t.absent, t.present + t.absent})
	}
	return rows
}

func writeSheet(f *excelize.File, sheet string, headerStyle int, header []interface{}, rows [][]interface{}) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return err
		}
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastCol, 20)
}

package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"hrms_lite/internal/apiclient"
	"hrms_lite/internal/config"
	"hrms_lite/internal/export"
	"hrms_lite/internal/models"
	"hrms_lite/internal/store"
)

var ErrUsage = errors.New("usage")

// App runs one CLI command against the API.
type App struct {
	Config config.ClientConfig
	Out    io.Writer
	// API overrides the HTTP client; nil means apiclient.New(Config.APIBaseURL, nil).
	API store.API
}

// PrintUsage writes the command summary.
func PrintUsage(w io.Writer) {
	fmt.Fprint(w, `Usage: hrms [-api URL] <command> [flags]

Commands:
  employees [-search TERM]                          list employees
  add -id ID -name NAME -email EMAIL -department D  add an employee
  delete ID                                         delete an employee by server id
  attendance ID                                     list attendance for an employee
  mark -employee ID [-status Present|Absent] [-date YYYY-MM-DD] [-notes TEXT]
                                                    mark attendance
  dashboard [-employee ID]                          show totals
  export [-o FILE]                                  write an .xlsx workbook
`)
}

func usageError(msg string) error {
	return fmt.Errorf("%w: %s", ErrUsage, msg)
}

// Execute parses args and runs the selected command.
func (a *App) Execute(ctx context.Context, args []string) error {
	global := flag.NewFlagSet("hrms", flag.ContinueOnError)
	global.SetOutput(io.Discard)
	apiURL := global.String("api", a.Config.APIBaseURL, "API base URL")
	if err := global.Parse(args); err != nil {
		return usageError(err.Error())
	}
	rest := global.Args()
	if len(rest) < 1 {
		return usageError("hrms <employees|add|delete|attendance|mark|dashboard|export> [...]")
	}

	api := a.API
	if api == nil {
		api = apiclient.New(*apiURL, nil)
	}
	s := store.New(api, store.WithSuccessTTL(a.Config.SuccessBannerTTL))
	defer s.Close()

	switch rest[0] {
	case "employees":
		return a.runEmployees(ctx, s, rest[1:])
	case "add":
		return a.runAdd(ctx, s, rest[1:])
	case "delete":
		return a.runDelete(ctx, s, rest[1:])
	case "attendance":
		return a.runAttendance(ctx, s, rest[1:])
	case "mark":
		return a.runMark(ctx, s, rest[1:])
	case "dashboard":
		return a.runDashboard(ctx, s, rest[1:])
	case "export":
		return a.runExport(ctx, api, rest[1:])
	default:
		return usageError("unknown command " + strconv.Quote(rest[0]))
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseID(args []string, what string) (int64, error) {
	if len(args) != 1 {
		return 0, usageError(what + " ID")
	}
	id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
	if err != nil || id <= 0 {
		return 0, usageError("invalid id " + strconv.Quote(args[0]))
	}
	return id, nil
}

// outcome prints the banner left by the last action and returns err.
func (a *App) outcome(s *store.Store, err error) error {
	st := s.State()
	if st.Success != "" {
		fmt.Fprintln(a.Out, st.Success)
	}
	if err != nil {
		if st.Error != "" {
			return errors.New(st.Error)
		}
		return err
	}
	return nil
}

func (a *App) runEmployees(ctx context.Context, s *store.Store, args []string) error {
	fs := newFlagSet("employees")
	search := fs.String("search", "", "filter by name or employee id")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}
	if err := s.LoadEmployees(ctx); err != nil {
		return a.outcome(s, err)
	}
	s.SetSearch(*search)
	employees := s.State().FilteredEmployees()
	if len(employees) == 0 {
		fmt.Fprintln(a.Out, "No employees found.")
		return nil
	}
	tw := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMPLOYEE ID\tNAME\tEMAIL\tDEPARTMENT")
	for _, e := range employees {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", e.ID, e.EmployeeID, e.FullName, e.Email, e.Department)
	}
	return tw.Flush()
}

func (a *App) runAdd(ctx context.Context, s *store.Store, args []string) error {
	fs := newFlagSet("add")
	var in models.EmployeeInput
	fs.StringVar(&in.EmployeeID, "id", "", "employee id")
	fs.StringVar(&in.FullName, "name", "", "full name")
	fs.StringVar(&in.Email, "email", "", "email address")
	fs.StringVar(&in.Department, "department", "", "department")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}
	s.SetEmployeeForm(in)
	return a.outcome(s, s.SubmitEmployee(ctx))
}

func (a *App) runDelete(ctx context.Context, s *store.Store, args []string) error {
	id, err := parseID(args, "delete")
	if err != nil {
		return err
	}
	return a.outcome(s, s.DeleteEmployee(ctx, id))
}

func (a *App) runAttendance(ctx context.Context, s *store.Store, args []string) error {
	id, err := parseID(args, "attendance")
	if err != nil {
		return err
	}
	if err := s.LoadEmployees(ctx); err != nil {
		return a.outcome(s, err)
	}
	if err := s.SelectEmployee(ctx, id); err != nil {
		return a.outcome(s, err)
	}
	a.printAttendance(s.State())
	return nil
}

func (a *App) printAttendance(st store.State) {
	if e, ok := st.SelectedEmployeeRecord(); ok {
		fmt.Fprintf(a.Out, "Attendance for %s (%s)\n", e.FullName, e.EmployeeID)
	}
	if len(st.Attendance) == 0 {
		fmt.Fprintln(a.Out, "No attendance records.")
		return
	}
	tw := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tEMPLOYEE\tSTATUS\tNOTES")
	for _, r := range st.Attendance {
		notes := ""
		if r.Notes != nil {
			notes = *r.Notes
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Date, r.EmployeeName, r.Status, notes)
	}
	_ = tw.Flush()
}

func (a *App) runMark(ctx context.Context, s *store.Store, args []string) error {
	fs := newFlagSet("mark")
	employee := fs.Int64("employee", 0, "employee server id")
	form := s.State().AttendanceForm
	status := fs.String("status", string(form.Status), "Present or Absent")
	date := fs.String("date", form.Date, "YYYY-MM-DD")
	notes := fs.String("notes", "", "optional notes")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}
	if *employee > 0 {
		if err := s.SelectEmployee(ctx, *employee); err != nil {
			return a.outcome(s, err)
		}
	}
	s.SetAttendanceForm(store.AttendanceForm{Status: models.AttendanceStatus(*status), Date: *date, Notes: *notes})
	if err := a.outcome(s, s.MarkAttendance(ctx)); err != nil {
		return err
	}
	a.printAttendance(s.State())
	return nil
}

func (a *App) runDashboard(ctx context.Context, s *store.Store, args []string) error {
	fs := newFlagSet("dashboard")
	employee := fs.Int64("employee", 0, "employee whose attendance is counted")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}
	if err := s.LoadEmployees(ctx); err != nil {
		return a.outcome(s, err)
	}
	if *employee > 0 {
		if err := s.SelectEmployee(ctx, *employee); err != nil {
			return a.outcome(s, err)
		}
	}
	st := s.State()
	stats := st.Stats()
	tw := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	if e, ok := st.SelectedEmployeeRecord(); ok {
		fmt.Fprintf(tw, "Employee\t%s (%s)\n", e.FullName, e.EmployeeID)
	}
	fmt.Fprintf(tw, "Total employees\t%d\n", stats.TotalEmployees)
	fmt.Fprintf(tw, "Present\t%d\n", stats.PresentCount)
	fmt.Fprintf(tw, "Departments\t%d\n", stats.Departments)
	return tw.Flush()
}

func (a *App) runExport(ctx context.Context, api store.API, args []string) error {
	fs := newFlagSet("export")
	out := fs.String("o", "attendance.xlsx", "output file")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}
	data, err := export.Collect(ctx, api)
	if err != nil {
		return err
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	if err := export.WriteWorkbook(f, data); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Wrote %d employees and %d attendance records to %s\n", len(data.Employees), len(data.Attendance), *out)
	return nil
}

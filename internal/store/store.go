package store

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"hrms_lite/internal/apiclient"
	"hrms_lite/internal/models"
	"hrms_lite/pkg/utils"
)

// ErrBusy is returned when a create, delete or mark is already in flight.
var ErrBusy = errors.New("another request is in progress")

const (
	MsgEmployeesLoadFailed  = "Backend connection failed"
	MsgAttendanceLoadFailed = "Failed to load attendance"
	MsgEmployeeAdded        = "Employee added successfully!"
	MsgEmployeeDeleted      = "Employee deleted successfully!"
	MsgAttendanceMarked     = "Attendance marked successfully!"

	DefaultSuccessTTL = 3 * time.Second
)

// API is the part of the HTTP client the store drives.
type API interface {
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	CreateEmployee(ctx context.Context, in models.EmployeeInput) (*models.Employee, error)
	DeleteEmployee(ctx context.Context, id int64) error
	ListAttendance(ctx context.Context, employeeID int64) ([]models.AttendanceRecord, error)
	CreateAttendance(ctx context.Context, in models.AttendanceInput) (*models.AttendanceRecord, error)
}

// AfterFunc schedules f after d and returns a function that cancels it.
type AfterFunc func(d time.Duration, f func()) (stop func() bool)

// Option configures a Store.
type Option func(*Store)

// WithSuccessTTL sets how long a success banner stays up.
func WithSuccessTTL(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.successTTL = d
		}
	}
}

// WithAfterFunc replaces the banner timer, mainly for tests.
func WithAfterFunc(fn AfterFunc) Option {
	return func(s *Store) { s.afterFunc = fn }
}

// WithClock sets the clock used for the default attendance date.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store holds the page state. All transitions happen under mu; API calls are
// made without holding it.
type Store struct {
	api        API
	successTTL time.Duration
	afterFunc  AfterFunc
	now        func() time.Time

	mu               sync.Mutex
	state            State
	employeesGen     uint64
	attendanceGen    uint64
	cancelEmployees  context.CancelFunc
	cancelAttendance context.CancelFunc
	successGen       uint64
	stopSuccess      func() bool

	listenersMu   sync.Mutex
	listeners     map[int]func(State)
	nextListener  int
	lastDelivered uint64
}

// New returns a store with idle lists and a fresh attendance form.
func New(api API, opts ...Option) *Store {
	s := &Store{
		api:        api,
		successTTL: DefaultSuccessTTL,
		afterFunc: func(d time.Duration, f func()) func() bool {
			return time.AfterFunc(d, f).Stop
		},
		now:       time.Now,
		listeners: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = State{
		EmployeesStatus:  StatusIdle,
		AttendanceStatus: StatusIdle,
		AttendanceForm:   s.defaultAttendanceForm(),
	}
	return s
}

func (s *Store) defaultAttendanceForm() AttendanceForm {
	return AttendanceForm{Status: models.StatusPresent, Date: s.now().Format(models.DateLayout)}
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers fn to receive a snapshot after every transition.
// Snapshots are delivered in order; a snapshot older than one already
// delivered is dropped.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.listenersMu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.listenersMu.Unlock()
	return func() {
		s.listenersMu.Lock()
		delete(s.listeners, id)
		s.listenersMu.Unlock()
	}
}

// commitLocked bumps the version and returns the snapshot to publish.
func (s *Store) commitLocked() State {
	s.state.Version++
	return s.state.clone()
}

func (s *Store) publish(snap State) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	if snap.Version <= s.lastDelivered {
		return
	}
	s.lastDelivered = snap.Version
	for _, fn := range s.listeners {
		fn(snap)
	}
}

// update applies fn under the lock and publishes the result.
func (s *Store) update(fn func(st *State)) {
	s.mu.Lock()
	fn(&s.state)
	snap := s.commitLocked()
	s.mu.Unlock()
	s.publish(snap)
}

// SetSearch updates the employee filter.
func (s *Store) SetSearch(term string) {
	s.update(func(st *State) { st.Search = term })
}

// SetEmployeeForm replaces the pending employee form.
func (s *Store) SetEmployeeForm(in models.EmployeeInput) {
	s.update(func(st *State) { st.EmployeeForm = in })
}

// SetAttendanceForm replaces the pending attendance form.
func (s *Store) SetAttendanceForm(f AttendanceForm) {
	s.update(func(st *State) { st.AttendanceForm = f })
}

// DismissError clears the error banner.
func (s *Store) DismissError() {
	s.update(func(st *State) { st.Error = "" })
}

func (s *Store) setSuccessLocked(msg string) {
	s.clearSuccessLocked()
	s.state.Success = msg
	gen := s.successGen
	s.stopSuccess = s.afterFunc(s.successTTL, func() {
		s.mu.Lock()
		if gen != s.successGen {
			s.mu.Unlock()
			return
		}
		s.state.Success = ""
		s.stopSuccess = nil
		snap := s.commitLocked()
		s.mu.Unlock()
		s.publish(snap)
	})
}

func (s *Store) clearSuccessLocked() {
	s.successGen++
	if s.stopSuccess != nil {
		s.stopSuccess()
		s.stopSuccess = nil
	}
	s.state.Success = ""
}

// Close cancels in-flight fetches and the banner timer.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employeesGen++
	s.attendanceGen++
	if s.cancelEmployees != nil {
		s.cancelEmployees()
		s.cancelEmployees = nil
	}
	if s.cancelAttendance != nil {
		s.cancelAttendance()
		s.cancelAttendance = nil
	}
	s.successGen++
	if s.stopSuccess != nil {
		s.stopSuccess()
		s.stopSuccess = nil
	}
}

// LoadEmployees fetches the employee list. A response superseded by a newer
// load is discarded.
func (s *Store) LoadEmployees(ctx context.Context) error {
	s.mu.Lock()
	s.employeesGen++
	gen := s.employeesGen
	if s.cancelEmployees != nil {
		s.cancelEmployees()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	s.cancelEmployees = cancel
	s.state.EmployeesStatus = StatusLoading
	snap := s.commitLocked()
	s.mu.Unlock()
	s.publish(snap)

	employees, err := s.api.ListEmployees(fetchCtx)

	s.mu.Lock()
	if gen != s.employeesGen {
		s.mu.Unlock()
		cancel()
		utils.LogDebug("Discarded stale employee list", map[string]interface{}{"generation": gen})
		return nil
	}
	cancel()
	s.cancelEmployees = nil
	if err != nil {
		s.state.Employees = nil
		s.state.EmployeesStatus = StatusErrored
		s.state.Error = MsgEmployeesLoadFailed
	} else {
		s.state.Employees = employees
		s.state.EmployeesStatus = StatusLoaded
		s.state.Error = ""
	}
	snap = s.commitLocked()
	s.mu.Unlock()
	s.publish(snap)

	utils.LogDebug("Employee list loaded", map[string]interface{}{"count": len(employees), "ok": err == nil})
	return err
}

// SelectEmployee switches the attendance view. The previous list is dropped
// in the same transition that starts the new fetch; id 0 clears the selection.
func (s *Store) SelectEmployee(ctx context.Context, id int64) error {
	if id <= 0 {
		s.mu.Lock()
		s.clearSelectionLocked()
		snap := s.commitLocked()
		s.mu.Unlock()
		s.publish(snap)
		return nil
	}
	return s.loadAttendance(ctx, id, true)
}

// RefreshAttendance reloads the list for the current selection.
func (s *Store) RefreshAttendance(ctx context.Context) error {
	s.mu.Lock()
	id := s.state.SelectedEmployee
	s.mu.Unlock()
	if id == 0 {
		return nil
	}
	return s.loadAttendance(ctx, id, false)
}

func (s *Store) clearSelectionLocked() {
	s.attendanceGen++
	if s.cancelAttendance != nil {
		s.cancelAttendance()
		s.cancelAttendance = nil
	}
	s.state.SelectedEmployee = 0
	s.state.Attendance = nil
	s.state.AttendanceStatus = StatusIdle
}

func (s *Store) loadAttendance(ctx context.Context, id int64, selecting bool) error {
	s.mu.Lock()
	if !selecting && s.state.SelectedEmployee != id {
		s.mu.Unlock()
		return nil
	}
	s.attendanceGen++
	gen := s.attendanceGen
	if s.cancelAttendance != nil {
		s.cancelAttendance()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	s.cancelAttendance = cancel
	if s.state.SelectedEmployee != id {
		s.state.Attendance = nil
	}
	s.state.SelectedEmployee = id
	s.state.AttendanceStatus = StatusLoading
	snap := s.commitLocked()
	s.mu.Unlock()
	s.publish(snap)

	records, err := s.api.ListAttendance(fetchCtx, id)

	s.mu.Lock()
	if gen != s.attendanceGen || s.state.SelectedEmployee != id {
		s.mu.Unlock()
		cancel()
		utils.LogDebug("Discarded stale attendance list", map[string]interface{}{"employee": id, "generation": gen})
		return nil
	}
	cancel()
	s.cancelAttendance = nil
	if err != nil {
		s.state.Attendance = nil
		s.state.AttendanceStatus = StatusErrored
		s.state.Error = MsgAttendanceLoadFailed
	} else {
		s.state.Attendance = records
		s.state.AttendanceStatus = StatusLoaded
		s.state.Error = ""
	}
	snap = s.commitLocked()
	s.mu.Unlock()
	s.publish(snap)

	utils.LogDebug("Attendance list loaded", map[string]interface{}{"employee": id, "count": len(records), "ok": err == nil})
	return err
}

// begin marks a submission in flight, or reports ErrBusy.
func (s *Store) begin() error {
	s.mu.Lock()
	if s.state.Submitting {
		s.mu.Unlock()
		return ErrBusy
	}
	s.state.Submitting = true
	snap := s.commitLocked()
	s.mu.Unlock()
	s.publish(snap)
	return nil
}

// fail records a rejected action in the error banner.
func (s *Store) fail(err error) error {
	s.update(func(st *State) {
		st.Submitting = false
		st.Error = err.Error()
	})
	return err
}

// SubmitEmployee validates the employee form, creates the employee and
// refreshes the list. The form is cleared on success.
func (s *Store) SubmitEmployee(ctx context.Context) error {
	s.mu.Lock()
	busy := s.state.Submitting
	form := s.state.EmployeeForm
	s.mu.Unlock()
	if busy {
		return ErrBusy
	}
	if err := apiclient.ValidateEmployee(form); err != nil {
		s.update(func(st *State) { st.Error = err.Error() })
		return err
	}
	if err := s.begin(); err != nil {
		return err
	}

	created, err := s.api.CreateEmployee(ctx, form)
	if err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	s.state.Submitting = false
	s.state.EmployeeForm = models.EmployeeInput{}
	s.state.Error = ""
	s.setSuccessLocked(MsgEmployeeAdded)
	snap := s.commitLocked()
	s.mu.Unlock()
	s.publish(snap)
	utils.LogDebug("Employee created", map[string]interface{}{"id": created.ID, "employee_id": created.EmployeeID})

	return s.LoadEmployees(ctx)
}

// DeleteEmployee deletes the employee, drops it from the local list at once,
// then refreshes. Deleting the selected employee clears the selection.
func (s *Store) DeleteEmployee(ctx context.Context, id int64) error {
	if err := s.begin(); err != nil {
		return err
	}
	if err := s.api.DeleteEmployee(ctx, id); err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	s.state.Submitting = false
	kept := make([]models.Employee, 0, len(s.state.Employees))
	for _, e := range s.state.Employees {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	s.state.Employees = kept
	if s.state.SelectedEmployee == id {
		s.clearSelectionLocked()
	}
	s.state.Error = ""
	s.setSuccessLocked(MsgEmployeeDeleted)
	snap := s.commitLocked()
	s.mu.Unlock()
	s.publish(snap)
	utils.LogDebug("Employee deleted", map[string]interface{}{"id": id})

	return s.LoadEmployees(ctx)
}

// MarkAttendance submits the attendance form for the selected employee and
// refreshes that employee's list.
func (s *Store) MarkAttendance(ctx context.Context) error {
	s.mu.Lock()
	busy := s.state.Submitting
	form := s.state.AttendanceForm
	in := models.AttendanceInput{
		Employee: models.FlexID(s.state.SelectedEmployee),
		Status:   form.Status,
		Date:     strings.TrimSpace(form.Date),
	}
	s.mu.Unlock()
	if busy {
		return ErrBusy
	}
	if notes := strings.TrimSpace(form.Notes); notes != "" {
		in.Notes = &notes
	}
	if err := apiclient.ValidateAttendance(in); err != nil {
		s.update(func(st *State) { st.Error = err.Error() })
		return err
	}
	if err := s.begin(); err != nil {
		return err
	}

	record, err := s.api.CreateAttendance(ctx, in)
	if err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	s.state.Submitting = false
	s.state.Error = ""
	s.setSuccessLocked(MsgAttendanceMarked)
	snap := s.commitLocked()
	s.mu.Unlock()
	s.publish(snap)
	utils.LogDebug("Attendance marked", map[string]interface{}{"id": record.ID, "employee": record.Employee, "status": string(record.Status)})

	return s.RefreshAttendance(ctx)
}

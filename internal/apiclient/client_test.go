package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"hrms_lite/internal/models"
	"hrms_lite/internal/router"

	"github.com/gin-gonic/gin"
)

func newStubServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api/", srv.Client())
}

func TestListEmployeesRequestsUnpaginatedListing(t *testing.T) {
	var gotPath, gotQuery string
	c := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		_, _ = io.WriteString(w, `[{"id":1,"employee_id":"E1","full_name":"Jane Doe","email":"jane@co.com","department":"Eng"}]`)
	})
	employees, err := c.ListEmployees(context.Background())
	if err != nil {
		t.Fatalf("ListEmployees: %v", err)
	}
	if gotPath != "/api/employees/" || gotQuery != "no_paginate=1" {
		t.Fatalf("unexpected request %s?%s", gotPath, gotQuery)
	}
	if len(employees) != 1 || employees[0].FullName != "Jane Doe" {
		t.Fatalf("unexpected employees: %+v", employees)
	}
}

func TestListCoercesNonArrayToEmpty(t *testing.T) {
	c := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"count":0,"results":[]}`)
	})
	employees, err := c.ListEmployees(context.Background())
	if err != nil {
		t.Fatalf("ListEmployees: %v", err)
	}
	if employees == nil || len(employees) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", employees)
	}
	records, err := c.ListAttendance(context.Background(), 1)
	if err != nil || records == nil || len(records) != 0 {
		t.Fatalf("expected empty attendance, got %#v, %v", records, err)
	}
}

func TestMalformedBodyIsTransportError(t *testing.T) {
	c := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":`)
	})
	_, err := c.ListEmployees(context.Background())
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if err.Error() != "failed to load employees" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestNonSuccessStatusSurfacesDetail(t *testing.T) {
	c := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"detail":"Employee with this email already exists.","code":"CONFLICT"}`)
	})
	_, err := c.CreateEmployee(context.Background(), models.EmployeeInput{EmployeeID: "E1", FullName: "A", Email: "a@co.com", Department: "Eng"})
	if err == nil || err.Error() != "Employee with this email already exists." {
		t.Fatalf("expected server detail, got %v", err)
	}
	if !IsStatus(err, http.StatusConflict) {
		t.Fatalf("expected status 409 on error")
	}
}

func TestNonSuccessWithoutDetailIsGeneric(t *testing.T) {
	c := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html>bad gateway</html>")
	})
	cases := []struct {
		call func() error
		want string
	}{
		{func() error {
			_, err := c.CreateEmployee(context.Background(), models.EmployeeInput{})
			return err
		}, "failed to add employee"},
		{func() error { return c.DeleteEmployee(context.Background(), 3) }, "failed to delete employee"},
		{func() error {
			_, err := c.CreateAttendance(context.Background(), models.AttendanceInput{Employee: 1})
			return err
		}, "failed to mark attendance"},
		{func() error {
			_, err := c.ListAttendance(context.Background(), 1)
			return err
		}, "failed to load attendance"},
	}
	for _, tc := range cases {
		if err := tc.call(); err == nil || err.Error() != tc.want {
			t.Fatalf("expected %q, got %v", tc.want, err)
		}
	}
}

func TestCreateAttendanceSendsPayload(t *testing.T) {
	var got map[string]interface{}
	c := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/attendance/" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":7,"employee":2,"employee_name":"Bo","date":"2026-01-02","status":"Absent"}`)
	})
	rec, err := c.CreateAttendance(context.Background(), models.AttendanceInput{Employee: 2, Status: models.StatusAbsent, Date: "2026-01-02"})
	if err != nil {
		t.Fatalf("CreateAttendance: %v", err)
	}
	if rec.ID != 7 || rec.EmployeeName != "Bo" {
		t.Fatalf("unexpected record %+v", rec)
	}
	if got["employee"] != float64(2) || got["status"] != "Absent" || got["date"] != "2026-01-02" {
		t.Fatalf("unexpected payload %v", got)
	}
	if _, ok := got["notes"]; ok {
		t.Fatalf("notes should be omitted when unset: %v", got)
	}
}

func TestDeleteEmployeePath(t *testing.T) {
	var method, path string
	c := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})
	if err := c.DeleteEmployee(context.Background(), 42); err != nil {
		t.Fatalf("DeleteEmployee: %v", err)
	}
	if method != http.MethodDelete || path != "/api/employees/42/" {
		t.Fatalf("unexpected request %s %s", method, path)
	}
}

func TestCancelledContext(t *testing.T) {
	c := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.ListEmployees(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled in chain, got %v", err)
	}
}

func TestAgainstServerRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(router.New(router.MemoryDependencies()))
	defer srv.Close()
	c := New(srv.URL+"/api", srv.Client())
	ctx := context.Background()

	emp, err := c.CreateEmployee(ctx, models.EmployeeInput{EmployeeID: "E1", FullName: "Jane Doe", Email: "jane@co.com", Department: "Eng"})
	if err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}
	if _, err := c.CreateEmployee(ctx, models.EmployeeInput{EmployeeID: "E1", FullName: "Dup", Email: "dup@co.com", Department: "Eng"}); err == nil ||
		err.Error() != "Employee with this employee ID already exists." {
		t.Fatalf("expected duplicate detail, got %v", err)
	}

	if _, err := c.CreateAttendance(ctx, models.AttendanceInput{Employee: models.FlexID(emp.ID), Status: models.StatusPresent}); err != nil {
		t.Fatalf("CreateAttendance: %v", err)
	}
	records, err := c.ListAttendance(ctx, emp.ID)
	if err != nil {
		t.Fatalf("ListAttendance: %v", err)
	}
	if len(records) != 1 || records[0].EmployeeName != "Jane Doe" || records[0].Status != models.StatusPresent {
		t.Fatalf("unexpected records %+v", records)
	}

	if err := c.DeleteEmployee(ctx, emp.ID); err != nil {
		t.Fatalf("DeleteEmployee: %v", err)
	}
	err = c.DeleteEmployee(ctx, emp.ID)
	if !IsStatus(err, http.StatusNotFound) || err.Error() != "Employee not found." {
		t.Fatalf("expected 404 detail, got %v", err)
	}
	employees, err := c.ListEmployees(ctx)
	if err != nil || len(employees) != 0 {
		t.Fatalf("expected no employees, got %v, %v", employees, err)
	}
}

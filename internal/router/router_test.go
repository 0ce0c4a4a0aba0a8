package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hrms_lite/internal/models"

	"github.com/gin-gonic/gin"
)

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return New(MemoryDependencies())
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func TestEmployeeAttendanceScenario(t *testing.T) {
	engine := newTestEngine()

	w := doJSON(t, engine, http.MethodGet, "/api/employees/?no_paginate=1", nil)
	if w.Code != http.StatusOK || w.Body.String() != "[]" {
		t.Fatalf("expected empty array, got %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, engine, http.MethodPost, "/api/employees/", models.EmployeeInput{
		EmployeeID: "E1", FullName: "Jane Doe", Email: "jane@co.com", Department: "Eng",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %s", w.Code, w.Body.String())
	}

	var employees []models.Employee
	decode(t, doJSON(t, engine, http.MethodGet, "/api/employees/?no_paginate=1", nil), &employees)
	if len(employees) != 1 {
		t.Fatalf("expected one employee, got %d", len(employees))
	}
	e := employees[0]
	if e.ID != 1 || e.EmployeeID != "E1" || e.FullName != "Jane Doe" || e.Email != "jane@co.com" || e.Department != "Eng" {
		t.Fatalf("unexpected employee: %+v", e)
	}

	w = doJSON(t, engine, http.MethodPost, "/api/attendance/", map[string]interface{}{"employee": 1, "status": "Present"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %s", w.Code, w.Body.String())
	}

	var records []models.AttendanceRecord
	decode(t, doJSON(t, engine, http.MethodGet, "/api/attendance/1/", nil), &records)
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	r := records[0]
	if r.Status != models.StatusPresent || r.EmployeeName != "Jane Doe" || r.Employee != 1 {
		t.Fatalf("unexpected record: %+v", r)
	}
	if r.Date != time.Now().Format(models.DateLayout) {
		t.Fatalf("expected server-side default date, got %q", r.Date)
	}
}

func TestCreateEmployeeErrorsCarryDetail(t *testing.T) {
	engine := newTestEngine()
	valid := models.EmployeeInput{EmployeeID: "E1", FullName: "Jane", Email: "jane@co.com", Department: "Eng"}
	doJSON(t, engine, http.MethodPost, "/api/employees/", valid)

	cases := []struct {
		body   interface{}
		status int
		detail string
	}{
		{models.EmployeeInput{EmployeeID: "E2", FullName: " ", Email: "x@co.com", Department: "Eng"}, http.StatusBadRequest, "Full name cannot be empty."},
		{models.EmployeeInput{EmployeeID: "E2", FullName: "X", Email: "nope", Department: "Eng"}, http.StatusBadRequest, "Enter a valid email address."},
		{models.EmployeeInput{EmployeeID: "E1", FullName: "X", Email: "x@co.com", Department: "Eng"}, http.StatusConflict, "Employee with this employee ID already exists."},
		{models.EmployeeInput{EmployeeID: "E2", FullName: "X", Email: "jane@co.com", Department: "Eng"}, http.StatusConflict, "Employee with this email already exists."},
	}
	for _, tc := range cases {
		w := doJSON(t, engine, http.MethodPost, "/api/employees/", tc.body)
		if w.Code != tc.status {
			t.Fatalf("expected %d, got %d %s", tc.status, w.Code, w.Body.String())
		}
		var body struct {
			Detail string `json:"detail"`
		}
		decode(t, w, &body)
		if body.Detail != tc.detail {
			t.Fatalf("expected detail %q, got %q", tc.detail, body.Detail)
		}
	}
}

func TestDeleteEmployee(t *testing.T) {
	engine := newTestEngine()
	doJSON(t, engine, http.MethodPost, "/api/employees/", models.EmployeeInput{EmployeeID: "E1", FullName: "A", Email: "a@co.com", Department: "Eng"})
	doJSON(t, engine, http.MethodPost, "/api/employees/", models.EmployeeInput{EmployeeID: "E2", FullName: "B", Email: "b@co.com", Department: "Ops"})

	if w := doJSON(t, engine, http.MethodDelete, "/api/employees/1/", nil); w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d %s", w.Code, w.Body.String())
	}
	var employees []models.Employee
	decode(t, doJSON(t, engine, http.MethodGet, "/api/employees/", nil), &employees)
	if len(employees) != 1 || employees[0].EmployeeID != "E2" {
		t.Fatalf("expected only E2 to remain, got %+v", employees)
	}

	if w := doJSON(t, engine, http.MethodDelete, "/api/employees/1/", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if w := doJSON(t, engine, http.MethodDelete, "/api/employees/abc/", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if w := doJSON(t, engine, http.MethodGet, "/api/attendance/1/", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for deleted employee's attendance, got %d", w.Code)
	}
}

func TestMarkAttendanceUpdateAndErrors(t *testing.T) {
	engine := newTestEngine()
	doJSON(t, engine, http.MethodPost, "/api/employees/", models.EmployeeInput{EmployeeID: "E1", FullName: "A", Email: "a@co.com", Department: "Eng"})

	first := doJSON(t, engine, http.MethodPost, "/api/attendance/", map[string]interface{}{"employee": "1", "status": "Absent", "date": "2026-01-05"})
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %s", first.Code, first.Body.String())
	}
	second := doJSON(t, engine, http.MethodPost, "/api/attendance/", map[string]interface{}{"employee": 1, "status": "Present", "date": "2026-01-05"})
	if second.Code != http.StatusOK {
		t.Fatalf("expected 200 on update, got %d %s", second.Code, second.Body.String())
	}

	future := time.Now().AddDate(0, 0, 2).Format(models.DateLayout)
	cases := []struct {
		body   map[string]interface{}
		status int
	}{
		{map[string]interface{}{"status": "Present"}, http.StatusBadRequest},
		{map[string]interface{}{"employee": 99}, http.StatusBadRequest},
		{map[string]interface{}{"employee": 1, "date": future}, http.StatusBadRequest},
		{map[string]interface{}{"employee": 1, "date": "05/01/2026"}, http.StatusBadRequest},
		{map[string]interface{}{"employee": 1, "status": "Late"}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		if w := doJSON(t, engine, http.MethodPost, "/api/attendance/", tc.body); w.Code != tc.status {
			t.Fatalf("%v: expected %d, got %d %s", tc.body, tc.status, w.Code, w.Body.String())
		}
	}

	var records []models.AttendanceRecord
	decode(t, doJSON(t, engine, http.MethodGet, "/api/attendance/1/", nil), &records)
	if len(records) != 1 || records[0].Status != models.StatusPresent {
		t.Fatalf("expected single updated record, got %+v", records)
	}
}

func TestHealthAndRequestID(t *testing.T) {
	engine := newTestEngine()
	w := doJSON(t, engine, http.MethodGet, "/api/health/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected request id header")
	}
	if w := doJSON(t, engine, http.MethodGet, "/ping", nil); w.Code != http.StatusOK {
		t.Fatalf("expected pong, got %d", w.Code)
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	deps := MemoryDependencies()
	deps.AllowedOrigins = []string{"http://hr.example.com"}
	engine := New(deps)

	req := httptest.NewRequest(http.MethodGet, "/api/employees/", nil)
	req.Header.Set("Origin", "http://hr.example.com")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://hr.example.com" {
		t.Fatalf("expected allow-origin header, got %q", got)
	}
}

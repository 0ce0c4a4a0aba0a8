package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"hrms_lite/internal/models"
	"hrms_lite/pkg/utils"
)

const maxResponseBytes = 8 << 20

// Client talks to the HRMS Lite JSON API. Every call is a single attempt with
// no retry and no client timeout; cancellation comes from the caller's context.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client rooted at baseURL (e.g. "http://localhost:8080/api").
// A nil httpClient means a plain &http.Client{}.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// ListEmployees fetches every employee in one unpaginated listing.
func (c *Client) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	const op = "load employees"
	body, err := c.do(ctx, op, http.MethodGet, "/employees/?no_paginate=1", nil)
	if err != nil {
		return nil, err
	}
	var employees []models.Employee
	if err := decodeList(body, &employees); err != nil {
		return nil, c.fail(&TransportError{Op: op, StatusCode: http.StatusOK, Err: err})
	}
	if employees == nil {
		employees = []models.Employee{}
	}
	return employees, nil
}

// CreateEmployee posts the four employee fields and returns the stored record.
func (c *Client) CreateEmployee(ctx context.Context, in models.EmployeeInput) (*models.Employee, error) {
	const op = "add employee"
	body, err := c.do(ctx, op, http.MethodPost, "/employees/", in)
	if err != nil {
		return nil, err
	}
	var employee models.Employee
	if err := json.Unmarshal(body, &employee); err != nil {
		return nil, c.fail(&TransportError{Op: op, StatusCode: http.StatusCreated, Err: err})
	}
	return &employee, nil
}

// DeleteEmployee removes the employee with the given server id.
func (c *Client) DeleteEmployee(ctx context.Context, id int64) error {
	_, err := c.do(ctx, "delete employee", http.MethodDelete, "/employees/"+utils.Int64ToStr(id)+"/", nil)
	return err
}

// ListAttendance fetches the attendance records of one employee.
func (c *Client) ListAttendance(ctx context.Context, employeeID int64) ([]models.AttendanceRecord, error) {
	const op = "load attendance"
	body, err := c.do(ctx, op, http.MethodGet, "/attendance/"+utils.Int64ToStr(employeeID)+"/", nil)
	if err != nil {
		return nil, err
	}
	var records []models.AttendanceRecord
	if err := decodeList(body, &records); err != nil {
		return nil, c.fail(&TransportError{Op: op, StatusCode: http.StatusOK, Err: err})
	}
	if records == nil {
		records = []models.AttendanceRecord{}
	}
	return records, nil
}

// CreateAttendance marks attendance. The server creates or updates the record
// for (employee, date).
func (c *Client) CreateAttendance(ctx context.Context, in models.AttendanceInput) (*models.AttendanceRecord, error) {
	const op = "mark attendance"
	body, err := c.do(ctx, op, http.MethodPost, "/attendance/", in)
	if err != nil {
		return nil, err
	}
	var record models.AttendanceRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, c.fail(&TransportError{Op: op, StatusCode: http.StatusCreated, Err: err})
	}
	return &record, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, c.fail(&TransportError{Op: op, Err: fmt.Errorf("encode request: %w", err)})
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, c.fail(&TransportError{Op: op, Err: err})
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.fail(&TransportError{Op: op, Err: err})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, c.fail(&TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)})
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.fail(&TransportError{Op: op, StatusCode: resp.StatusCode, Detail: extractDetail(body)})
	}
	return body, nil
}

func (c *Client) fail(err *TransportError) error {
	utils.LogWarn(err.Err, "API request failed: "+err.Debug())
	return err
}

// extractDetail returns the "detail" string of a JSON error body, or "".
func extractDetail(body []byte) string {
	var payload struct {
		Detail interface{} `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if s, ok := payload.Detail.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// decodeList decodes a JSON array into dst. Valid JSON that is not an array
// leaves dst untouched; invalid JSON is an error.
func decodeList(body []byte, dst interface{}) error {
	trimmed := bytes.TrimSpace(body)
	if !json.Valid(trimmed) {
		return errors.New("malformed response body")
	}
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil
	}
	return json.Unmarshal(trimmed, dst)
}

package models

import "time"

// Employee is a person record. ID is assigned by the store; EmployeeID is
// the externally supplied employee code.
type Employee struct {
	ID         int64     `json:"id" db:"id"`
	EmployeeID string    `json:"employee_id" db:"employee_id"`
	FullName   string    `json:"full_name" db:"full_name"`
	Email      string    `json:"email" db:"email"`
	Department string    `json:"department" db:"department"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// EmployeeInput is the create payload. All four fields are required.
type EmployeeInput struct {
	EmployeeID string `json:"employee_id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

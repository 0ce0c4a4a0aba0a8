package handlers

import (
	"errors"
	"net/http"

	"hrms_lite/internal/models"
	"hrms_lite/internal/services"
	"hrms_lite/pkg/utils"

	"github.com/gin-gonic/gin"
)

// EmployeeHandler holds the employee service.
type EmployeeHandler struct {
	employeeService services.EmployeeService
}

// NewEmployeeHandler creates a new EmployeeHandler.
func NewEmployeeHandler(es services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: es}
}

// GetEmployees returns every employee, newest first. The listing is never
// paginated; no_paginate=1 is accepted for clients that always send it.
func (h *EmployeeHandler) GetEmployees(c *gin.Context) {
	var pSearchTerm *string
	if searchTerm := c.Query("search"); searchTerm != "" {
		pSearchTerm = &searchTerm
	}

	employees, err := h.employeeService.GetEmployees(pSearchTerm)
	if err != nil {
		utils.LogError(err, "GetEmployees: Error from employeeService.GetEmployees")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch employees."))
		return
	}
	if employees == nil {
		employees = []models.Employee{}
	}
	c.JSON(http.StatusOK, employees)
}

// CreateEmployee handles the creation of a new employee.
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req models.EmployeeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateEmployee: Failed to bind JSON")
		utils.RespondValidationFailed(c, "Invalid request payload.")
		return
	}

	employee, err := h.employeeService.CreateEmployee(req)
	if err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, vErr.Message).WithField(vErr.Field, vErr.Message))
		} else if errors.Is(err, services.ErrEmployeeIDExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Employee with this employee ID already exists.").WithField("employee_id", "already exists"))
		} else if errors.Is(err, services.ErrEmailExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Employee with this email already exists.").WithField("email", "already exists"))
		} else {
			utils.LogError(err, "CreateEmployee: Error from employeeService.CreateEmployee")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to add employee."))
		}
		return
	}
	c.JSON(http.StatusCreated, employee)
}

// DeleteEmployee removes an employee and their attendance history.
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	idStr := c.Param("id")
	employeeID, err := utils.StrToPositiveID(idStr)
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid employee ID format.")
		return
	}

	if err := h.employeeService.DeleteEmployee(employeeID); err != nil {
		if errors.Is(err, services.ErrEmployeeNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Employee not found."))
		} else {
			utils.LogError(err, "DeleteEmployee: Error from employeeService.DeleteEmployee for ID "+idStr)
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "An error occurred while deleting the employee."))
		}
		return
	}
	c.Status(http.StatusNoContent)
}

package handlers

import (
	"errors"
	"net/http"

	"hrms_lite/internal/models"
	"hrms_lite/internal/services"
	"hrms_lite/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AttendanceHandler holds the attendance service.
type AttendanceHandler struct {
	attendanceService services.AttendanceService
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(as services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: as}
}

// MarkAttendance creates the record for (employee, date), or updates the
// status of the existing one. 201 on create, 200 on update.
func (h *AttendanceHandler) MarkAttendance(c *gin.Context) {
	var req models.AttendanceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "MarkAttendance: Failed to bind JSON")
		utils.RespondValidationFailed(c, "Invalid request payload.")
		return
	}

	record, created, err := h.attendanceService.MarkAttendance(req)
	if err != nil {
		var vErr *services.ValidationError
		switch {
		case errors.As(err, &vErr):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, vErr.Message).WithField(vErr.Field, vErr.Message))
		case errors.Is(err, services.ErrAttendanceDateFormat):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Date has wrong format. Use YYYY-MM-DD.").WithField("date", "wrong format"))
		case errors.Is(err, services.ErrAttendanceFutureDate):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Attendance date cannot be in the future.").WithField("date", "in the future"))
		case errors.Is(err, services.ErrAttendanceEmployeeNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Employee not found.").WithField("employee", "not found"))
		default:
			utils.LogError(err, "MarkAttendance: Error from attendanceService.MarkAttendance")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to mark attendance."))
		}
		return
	}

	if created {
		c.JSON(http.StatusCreated, record)
		return
	}
	c.JSON(http.StatusOK, record)
}

// GetAttendanceByEmployee lists one employee's attendance, newest date first.
func (h *AttendanceHandler) GetAttendanceByEmployee(c *gin.Context) {
	idStr := c.Param("employeeId")
	employeeID, err := utils.StrToPositiveID(idStr)
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid employee ID format.")
		return
	}

	records, err := h.attendanceService.GetAttendanceByEmployee(employeeID)
	if err != nil {
		if errors.Is(err, services.ErrEmployeeNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Employee not found."))
		} else {
			utils.LogError(err, "GetAttendanceByEmployee: Error from attendanceService for employee "+idStr)
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch attendance."))
		}
		return
	}
	if records == nil {
		records = []models.AttendanceRecord{}
	}
	utils.LogDebug("Fetched attendance", map[string]interface{}{"employee": employeeID, "count": len(records)})
	c.JSON(http.StatusOK, records)
}

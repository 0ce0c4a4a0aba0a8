package router

import (
	"hrms_lite/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupEmployeeRoutes sets up the employee routes.
func SetupEmployeeRoutes(apiGroup *gin.RouterGroup, employeeHandler *handlers.EmployeeHandler) {
	employeeRoutes := apiGroup.Group("/employees")
	{
		employeeRoutes.GET("/", employeeHandler.GetEmployees)
		employeeRoutes.POST("/", employeeHandler.CreateEmployee)
		employeeRoutes.DELETE("/:id/", employeeHandler.DeleteEmployee)
	}
}

// SetupAttendanceRoutes sets up the attendance routes.
func SetupAttendanceRoutes(apiGroup *gin.RouterGroup, attendanceHandler *handlers.AttendanceHandler) {
	attendanceRoutes := apiGroup.Group("/attendance")
	{
		attendanceRoutes.POST("/", attendanceHandler.MarkAttendance)
		attendanceRoutes.GET("/:employeeId/", attendanceHandler.GetAttendanceByEmployee)
	}
}

// SetupHealthRoutes sets up the liveness routes.
func SetupHealthRoutes(engine *gin.Engine, apiGroup *gin.RouterGroup) {
	engine.GET("/ping", handlers.Ping)
	apiGroup.GET("/health/", handlers.Health)
}

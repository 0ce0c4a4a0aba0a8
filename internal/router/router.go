package router

import (
	"database/sql"

	"hrms_lite/internal/handlers"
	"hrms_lite/internal/middleware"
	"hrms_lite/internal/repositories"
	"hrms_lite/internal/services"
	"hrms_lite/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// DefaultAllowedOrigins covers the usual local dev servers.
var DefaultAllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}

// Dependencies is the storage and behaviour the routes are built on.
type Dependencies struct {
	EmployeeRepo   repositories.EmployeeRepository
	AttendanceRepo repositories.AttendanceRepository
	Transactor     repositories.Transactor
	AutoAbsent     bool
	AllowedOrigins []string
}

// PostgresDependencies wires the SQL repositories around db.
func PostgresDependencies(db *sql.DB) Dependencies {
	return Dependencies{
		EmployeeRepo:   repositories.NewEmployeeRepository(db),
		AttendanceRepo: repositories.NewAttendanceRepository(db),
		Transactor:     repositories.NewTransactor(db),
	}
}

// MemoryDependencies wires a fresh in-process store.
func MemoryDependencies() Dependencies {
	store := repositories.NewMemoryStore()
	return Dependencies{
		EmployeeRepo:   store,
		AttendanceRepo: store,
		Transactor:     store,
	}
}

// New builds the engine with logging, request ids, recovery and CORS, then mounts the routes.
func New(deps Dependencies) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(utils.GinLogger())

	allowedOrigins := deps.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = DefaultAllowedOrigins
	}
	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", middleware.RequestIDHeader}
	config.ExposeHeaders = []string{middleware.RequestIDHeader}
	engine.Use(cors.New(config))

	Setup(engine, deps)
	return engine
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, deps Dependencies) {
	employeeService := services.NewEmployeeService(deps.EmployeeRepo, deps.AttendanceRepo, deps.Transactor, deps.AutoAbsent)
	attendanceService := services.NewAttendanceService(deps.AttendanceRepo, deps.EmployeeRepo, deps.Transactor)

	employeeHandler := handlers.NewEmployeeHandler(employeeService)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService)

	api := engine.Group("/api")
	SetupHealthRoutes(engine, api)
	SetupEmployeeRoutes(api, employeeHandler)
	SetupAttendanceRoutes(api, attendanceHandler)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health reports liveness. It does not touch the database.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "HRMS Lite Backend is running"})
}

// Ping answers the legacy liveness probe.
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

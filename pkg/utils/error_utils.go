package utils

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
)

// APIError is the error body returned by every endpoint. Clients read Detail
// and show it verbatim.
type APIError struct {
	StatusCode int               `json:"-"`
	Code       string            `json:"code,omitempty"`
	Detail     string            `json:"detail"`
	Errors     map[string]string `json:"errors,omitempty"`
}

// NewAPIError creates a new APIError instance
func NewAPIError(statusCode int, code string, detail string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Code:       code,
		Detail:     detail,
	}
}

// WithField attaches a per-field message.
func (e *APIError) WithField(field, message string) *APIError {
	if e.Errors == nil {
		e.Errors = map[string]string{}
	}
	e.Errors[field] = message
	return e
}

func (e *APIError) Error() string {
	return e.Detail
}

// RespondWithError sends a standardized JSON error response
func RespondWithError(c *gin.Context, err *APIError) {
	c.AbortWithStatusJSON(err.StatusCode, err)
}

const (
	ErrCodeBadRequest          = "BAD_REQUEST"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeConflict            = "CONFLICT"
	ErrCodeInternalServerError = "INTERNAL_SERVER_ERROR"
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
)

var emailRegex = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

// IsValidEmail checks if a string is a valid email format.
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(strings.ToLower(strings.TrimSpace(email)))
}

// RespondValidationFailed is shorthand for a 400 carrying the rule that failed.
func RespondValidationFailed(c *gin.Context, detail string) {
	RespondWithError(c, NewAPIError(http.StatusBadRequest, ErrCodeValidationFailed, detail))
}

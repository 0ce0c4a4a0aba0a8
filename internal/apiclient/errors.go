package apiclient

import (
	"errors"
	"fmt"
)

// ErrValidation matches every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// TransportError is a failed round trip: the request could not be sent, the
// server answered with a non-success status, or the body could not be decoded.
type TransportError struct {
	Op         string // e.g. "add employee"
	StatusCode int    // zero when no response was received
	Detail     string // server supplied "detail", if any
	Err        error
}

func (e *TransportError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return "failed to " + e.Op
}

func (e *TransportError) Unwrap() error { return e.Err }

// Debug renders the full error chain for logs.
func (e *TransportError) Debug() string {
	msg := fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// ValidationError is a client side pre-flight failure. No request was sent.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// IsStatus reports whether err is a TransportError carrying the given HTTP status.
func IsStatus(err error, status int) bool {
	var te *TransportError
	return errors.As(err, &te) && te.StatusCode == status
}

package errors

import (
	"errors"
	"fmt"
)

// BackendError is a failed call to an external API. StatusCode is zero when
// no response was received.
type BackendError struct {
	Op         string
	StatusCode int
	Message    string
	Cause      error
	// NotSent is set when the request was refused locally (open circuit)
	// and never reached the backend.
	NotSent bool
	// Malformed is set when a response arrived but its body could not be
	// read. A 2xx answer may still have been acted on.
	Malformed bool
}

func (e *BackendError) Error() string {
	switch {
	case e.StatusCode == 0 && e.Cause != nil:
		return fmt.Sprintf("%s: backend unreachable: %v", e.Op, e.Cause)
	case e.Message != "":
		return fmt.Sprintf("%s: backend returned %d: %s", e.Op, e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("%s: backend returned %d", e.Op, e.StatusCode)
	}
}

func (e *BackendError) Unwrap() error {
	return e.Cause
}

// Network reports whether the call never got a response (dial error,
// timeout, open circuit).
func (e *BackendError) Network() bool {
	return e.StatusCode == 0
}

// NewNetworkError wraps a transport failure.
func NewNetworkError(op string, cause error) *BackendError {
	return &BackendError{Op: op, Cause: cause}
}

// NewUnsentError records a call that was refused before it was sent.
func NewUnsentError(op string, cause error) *BackendError {
	return &BackendError{Op: op, Cause: cause, NotSent: true}
}

// NewStatusError records a non-2xx or success=false response.
func NewStatusError(op string, status int, message string) *BackendError {
	return &BackendError{Op: op, StatusCode: status, Message: message}
}

// NewMalformedError records a response whose body could not be decoded.
func NewMalformedError(op string, status int, message string, cause error) *BackendError {
	return &BackendError{Op: op, StatusCode: status, Message: message, Cause: cause, Malformed: true}
}

// IsMalformed reports whether err is a BackendError with an unreadable body.
func IsMalformed(err error) bool {
	var be *BackendError
	return errors.As(err, &be) && be.Malformed
}

// IsNetwork reports whether err is a BackendError without a response.
func IsNetwork(err error) bool {
	var be *BackendError
	return errors.As(err, &be) && be.Network()
}

// StatusOf returns the HTTP status of a BackendError, or 0.
func StatusOf(err error) int {
	var be *BackendError
	if errors.As(err, &be) {
		return be.StatusCode
	}
	return 0
}

// WasSent reports whether err may have reached the backend. Errors that
// are not BackendErrors are treated as sent.
func WasSent(err error) bool {
	var be *BackendError
	if errors.As(err, &be) {
		return !be.NotSent
	}
	return true
}

package toolserver

import (
	"errors"
	"fmt"
	"net/http"
)

// Errors returned by Registry.Execute. Match with errors.Is.
var (
	ErrToolNotFound = errors.New("tool not found")
	ErrTimeout      = errors.New("tool execution timeout")
	ErrValidation   = errors.New("validation failed")
	ErrShutdown     = errors.New("registry is shutting down")
	ErrOutputSchema = errors.New("output does not match the published schema")
)

// ClientError rejects a call because of its arguments. Reason is sent to the
// HTTP caller as is.
type ClientError struct {
	Reason string
	Err    error
}

func (e *ClientError) Error() string {
	return "invalid tool input: " + e.Reason
}

func (e *ClientError) Unwrap() error { return e.Err }

// Invalidf returns a ClientError wrapping ErrValidation.
func Invalidf(format string, args ...any) error {
	return &ClientError{Reason: fmt.Sprintf(format, args...), Err: ErrValidation}
}

// SystemError hides an internal failure from the HTTP caller. Err is only logged.
type SystemError struct {
	Err error
}

func (e *SystemError) Error() string {
	return "internal system error during tool execution"
}

func (e *SystemError) Unwrap() error { return e.Err }

// IsClientError reports whether err wraps a ClientError.
func IsClientError(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce)
}

// IsSystemError reports whether err wraps a SystemError.
func IsSystemError(err error) bool {
	var se *SystemError
	return errors.As(err, &se)
}

// StatusOf maps an Execute error to an HTTP status and a message safe to send
// to the caller.
func StatusOf(err error) (int, string) {
	var ce *ClientError
	switch {
	case errors.Is(err, ErrToolNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, ErrShutdown):
		return http.StatusServiceUnavailable, ErrShutdown.Error()
	case errors.Is(err, ErrTimeout):
		return http.StatusGatewayTimeout, ErrTimeout.Error()
	case errors.As(err, &ce):
		return http.StatusBadRequest, ce.Error()
	default:
		return http.StatusInternalServerError, (&SystemError{}).Error()
	}
}

func badJSON(err error) error {
	return &ClientError{Reason: "json parse error: " + err.Error()}
}

// panicked carries a value recovered from a tool.
type panicked struct{ value any }

func (e *panicked) Error() string {
	return fmt.Sprintf("tool panicked: %v", e.value)
}

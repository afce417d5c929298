package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/tranaapp/trana/internal/logger"
)

var (
	// ErrValidation marks missing or invalid user input. No state is mutated.
	ErrValidation = stderrors.New("validation error")
	// ErrService marks a failed call to the external suggestion backend.
	ErrService = stderrors.New("service error")
	// ErrDecode marks a stored value that could not be decoded.
	ErrDecode = stderrors.New("decode error")
	// ErrConfig marks invalid configuration such as a rule naming an unknown badge.
	ErrConfig = stderrors.New("configuration error")
)

// ValidationError describes a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Validation returns a ValidationError for field.
func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ServiceError is returned when the backend is unreachable or answers with a
// non-success status.
type ServiceError struct {
	Op         string
	StatusCode int
	Message    string
	// Rejected is set when the backend refused the input itself, for example
	// a learn topic unrelated to food waste. Retrying will not help.
	Rejected bool
	Err      error
}

func (e *ServiceError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s failed (status %d): %s", e.Op, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s failed: %s", e.Op, msg)
}

func (e *ServiceError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrService, e.Err}
	}
	return []error{ErrService}
}

// Retryable reports whether err is a backend failure worth retrying.
func Retryable(err error) bool {
	var se *ServiceError
	if stderrors.As(err, &se) {
		return !se.Rejected
	}
	return false
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

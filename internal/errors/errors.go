package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorTimeout  = 2   // Indicates the operation timed out.
	ExitErrorEmpty    = 3   // Indicates the search produced no result (zero-size grid).
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect
// user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// SearchError encapsulates a search execution error while preserving the
// original cause. This allows structured inspection of what interrupted the
// enumeration (cancellation, deadline, empty grid).
type SearchError struct {
	// Cause is the underlying error that interrupted the search.
	Cause error
}

// Error returns the error message from the underlying cause.
func (e SearchError) Error() string { return e.Cause.Error() }

// Unwrap returns the original wrapped error, allowing for error chain
// inspection with errors.Is and errors.As.
func (e SearchError) Unwrap() error { return e.Cause }

// TimeoutError represents a search timeout. It captures the operation name
// and the duration limit that was exceeded.
type TimeoutError struct {
	// Operation is the name of the operation that timed out.
	Operation string
	// Limit is the duration after which the operation was considered timed out.
	Limit time.Duration
}

// Error returns a formatted message describing the timeout.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// It returns nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline
// exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ColorProvider supplies ANSI escape codes for error reporting. It decouples
// this package from the terminal theme implementation.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

// HandleSearchError prints a diagnostic for a failed search and returns the
// matching exit code. The elapsed duration, when non-zero, is included so the
// user can tell how far a timed-out run got.
func HandleSearchError(err error, elapsed time.Duration, out io.Writer, colors ColorProvider) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintf(out, "\n%sSearch timed out after %s.%s\n", colors.Red(), elapsed, colors.Reset())
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(out, "\n%sSearch canceled after %s.%s\n", colors.Yellow(), elapsed, colors.Reset())
		return ExitErrorCanceled
	default:
		fmt.Fprintf(out, "\n%sSearch failed: %v%s\n", colors.Red(), err, colors.Reset())
		return ExitErrorGeneric
	}
}

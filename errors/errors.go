package errors

import (
	"errors"
	"fmt"
)

// Common error types for categorization and handling

var (
	// ErrNotFound indicates a requested vertex, edge, or version was not found
	ErrNotFound = errors.New("resource not found")

	// ErrMalformedRequest indicates an unparsable or invalid request payload
	ErrMalformedRequest = errors.New("malformed request")

	// ErrIntegrityViolation indicates a mutation that would leave the graph
	// referentially inconsistent (dangling edge or removal of a vertex with
	// live incident edges)
	ErrIntegrityViolation = errors.New("integrity violation")

	// ErrConflict indicates a mutation that collides with existing state,
	// such as adding a vertex or edge that already exists
	ErrConflict = errors.New("conflict with existing state")

	// ErrUnknownVersion indicates a read of a version beyond the log length
	ErrUnknownVersion = errors.New("unknown version")

	// ErrOutOfRange indicates a log read range beyond the log length
	ErrOutOfRange = errors.New("range out of bounds")

	// ErrInternal indicates an unexpected failure while replaying or checkpointing
	ErrInternal = errors.New("internal fault")

	// ErrStorageOperation indicates an event-persistence operation failed
	ErrStorageOperation = errors.New("storage operation failed")
)

// WrapError wraps an error with context message and stack
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// WrapErrorf wraps an error with formatted context message
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsNotFound checks if error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsMalformedRequest checks if error is a malformed request error
func IsMalformedRequest(err error) bool {
	return errors.Is(err, ErrMalformedRequest)
}

// IsIntegrityViolation checks if error is an integrity violation
func IsIntegrityViolation(err error) bool {
	return errors.Is(err, ErrIntegrityViolation)
}

// IsConflict checks if error is a conflict error
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsUnknownVersion checks if error is an unknown version error
func IsUnknownVersion(err error) bool {
	return errors.Is(err, ErrUnknownVersion)
}

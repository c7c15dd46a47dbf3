// Package compose contains pure functions for building and reading
// docker-compose documents. This is part of the Functional Core - all
// functions are pure with no I/O.
package compose

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// Input validation errors
	ErrEmptyServiceName = errors.New("service name is empty")
	ErrInvalidPort      = errors.New("invalid port mapping")
	ErrInvalidVolume    = errors.New("invalid volume configuration")

	// Document errors
	ErrEmptyDocument     = errors.New("compose document is empty")
	ErrMalformedDocument = errors.New("malformed compose document")
)

// ComposeError wraps errors with context about which field was at fault.
type ComposeError struct {
	Field   string // e.g., "services.web.ports[0]"
	Message string
	Err     error
}

func (e *ComposeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ComposeError) Unwrap() error {
	return e.Err
}

// NewComposeError creates a new ComposeError.
func NewComposeError(field, message string, err error) *ComposeError {
	return &ComposeError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}

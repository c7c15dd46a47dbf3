// Package merge contains pure functions for structurally combining and
// normalizing YAML documents. This is part of the Functional Core - all
// functions operate on bytes and node trees, no I/O.
package merge

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrMalformedYAML is returned when input cannot be parsed at all.
	ErrMalformedYAML = errors.New("malformed YAML input")

	// ErrNotMapping is returned when a document root is not a mapping.
	ErrNotMapping = errors.New("document root must be a mapping")
)

// MergeError wraps structural merge failures with context.
type MergeError struct {
	Message string
	Err     error
}

func (e *MergeError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("merge: %s", e.Message)
	}
	return "merge failed"
}

func (e *MergeError) Unwrap() error {
	return e.Err
}

// NewMergeError creates a new MergeError.
func NewMergeError(message string, err error) *MergeError {
	return &MergeError{Message: message, Err: err}
}

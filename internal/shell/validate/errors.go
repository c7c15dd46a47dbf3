// Package validate checks candidate compose files before they are
// committed, either by shelling out to an external compose binary or by
// loading the file in process.
package validate

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrInvalidConfig is returned when the checker rejects a file.
	ErrInvalidConfig = errors.New("compose configuration is invalid")

	// ErrRunnerTimeout is returned when the external tool exceeds its deadline.
	ErrRunnerTimeout = errors.New("validation command timed out")
)

// ValidationError carries the diagnostic output of a failed check.
type ValidationError struct {
	Path   string // file that failed validation
	Output string // captured diagnostic output
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("validation of %s failed: %s", e.Path, e.Output)
	}
	return fmt.Sprintf("validation of %s failed", e.Path)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new ValidationError.
func NewValidationError(path, output string, err error) *ValidationError {
	return &ValidationError{Path: path, Output: output, Err: err}
}

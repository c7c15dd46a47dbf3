// Package composefile manages the docker-compose files of one project
// directory: discovery, lazy creation, and merge-with-validation commits.
package composefile

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrUnsupportedContent is returned when MergeInto receives content of
	// an unknown type.
	ErrUnsupportedContent = errors.New("unsupported merge content type")
)

// FilesystemError wraps file operation failures with context.
type FilesystemError struct {
	Op   string // operation that failed, e.g. "read", "stage", "commit"
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// NewFilesystemError creates a new FilesystemError.
func NewFilesystemError(op, path string, err error) *FilesystemError {
	return &FilesystemError{Op: op, Path: path, Err: err}
}

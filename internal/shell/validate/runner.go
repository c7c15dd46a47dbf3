package validate

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// =============================================================================
// Runner Abstraction
// =============================================================================

// DefaultTimeout bounds a single external validation run. The tool is
// expected to return quickly; without a deadline a hung binary would hang
// the caller indefinitely.
const DefaultTimeout = 30 * time.Second

// Runner checks one compose file and reports failure with diagnostics.
// Implementations must treat the file as read-only.
type Runner interface {
	Run(ctx context.Context, path string) error
}

// RunError is a Runner failure carrying captured process output.
type RunError struct {
	Tool   string
	Output []byte
	Err    error
}

func (e *RunError) Error() string {
	if len(e.Output) > 0 {
		return fmt.Sprintf("%s: %s", e.Tool, e.Output)
	}
	return fmt.Sprintf("%s: %v", e.Tool, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// =============================================================================
// External CLI Runner
// =============================================================================

// CLI validates files by invoking `<tool> -f <path> config -q` and
// treating a non-zero exit as rejection.
type CLI struct {
	// Tool is the compose binary, e.g. "docker-compose".
	Tool string
	// Timeout bounds one invocation; zero means DefaultTimeout.
	Timeout time.Duration
}

// NewCLI creates a CLI runner for the given compose binary.
func NewCLI(tool string, timeout time.Duration) *CLI {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &CLI{Tool: tool, Timeout: timeout}
}

// Run invokes the external tool against path.
func (c *CLI) Run(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.Tool, "-f", path, "config", "-q")
	output, err := cmd.CombinedOutput()
	if err == nil {
		return nil
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &RunError{Tool: c.Tool, Output: output, Err: ErrRunnerTimeout}
	}
	return &RunError{Tool: c.Tool, Output: output, Err: err}
}

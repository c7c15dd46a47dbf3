package validate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// Validator
// =============================================================================

// Validator checks a compose file through an injected Runner. The file
// under test is never handed to the runner directly: a sanitized copy is
// written to the system temp directory and removed afterwards no matter
// how the check ends.
type Validator struct {
	runner Runner
	logger *slog.Logger
}

// NewValidator creates a Validator. A nil logger falls back to the
// default slog logger.
func NewValidator(runner Runner, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{runner: runner, logger: logger}
}

// Validate checks the compose file at path. env_file and depends_on keys
// are stripped from every service in the checked copy, since they point
// at files and services that need not exist in the isolated check
// context. A rejection surfaces as a ValidationError carrying the
// runner's diagnostic output.
func (v *Validator) Validate(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}

	sanitized, err := sanitize(data)
	if err != nil {
		return NewValidationError(path, err.Error(), err)
	}

	tmp := filepath.Join(os.TempDir(), fmt.Sprintf("composekit-check-%s.yml", uuid.NewString()))
	if err := os.WriteFile(tmp, sanitized, 0o600); err != nil {
		return fmt.Errorf("cannot write check copy %s: %w", tmp, err)
	}
	defer func() {
		if rmErr := os.Remove(tmp); rmErr != nil {
			v.logger.Warn("leaked validation temp file", "path", tmp, "error", rmErr)
		}
	}()

	if err := v.runner.Run(ctx, tmp); err != nil {
		v.logger.Debug("validation rejected file", "path", path, "error", err)
		if rErr, ok := err.(*RunError); ok {
			return NewValidationError(path, string(rErr.Output), rErr.Err)
		}
		return NewValidationError(path, err.Error(), err)
	}
	return nil
}

// sanitize removes env_file and depends_on from every service in a parsed
// copy of the document.
func sanitize(data []byte) ([]byte, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}

	if services, ok := doc["services"].(map[string]interface{}); ok {
		for _, svc := range services {
			fragment, ok := svc.(map[string]interface{})
			if !ok {
				continue
			}
			delete(fragment, "env_file")
			delete(fragment, "depends_on")
		}
	}

	return yaml.Marshal(doc)
}

package validate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Fixtures
// =============================================================================

const validCompose = `
version: "3.7"
services:
  web:
    image: nginx:latest
    env_file:
      - web.env
    depends_on:
      - db
  db:
    image: postgres:15
`

// fakeRunner records the file it was handed and returns a canned result.
type fakeRunner struct {
	err      error
	ranPath  string
	sawBytes []byte
}

func (f *fakeRunner) Run(ctx context.Context, path string) error {
	f.ranPath = path
	f.sawBytes, _ = os.ReadFile(path)
	return f.err
}

func writeTempCompose(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docker-compose.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// =============================================================================
// Validator Tests
// =============================================================================

func TestValidate_Success(t *testing.T) {
	runner := &fakeRunner{}
	v := NewValidator(runner, nil)

	path := writeTempCompose(t, validCompose)
	require.NoError(t, v.Validate(context.Background(), path))
	assert.NotEmpty(t, runner.ranPath)
}

func TestValidate_RunsAgainstSanitizedCopy(t *testing.T) {
	runner := &fakeRunner{}
	v := NewValidator(runner, nil)

	path := writeTempCompose(t, validCompose)
	require.NoError(t, v.Validate(context.Background(), path))

	// The runner sees a copy, never the original.
	assert.NotEqual(t, path, runner.ranPath)

	// env_file and depends_on are stripped from the checked copy.
	checked := string(runner.sawBytes)
	assert.NotContains(t, checked, "env_file")
	assert.NotContains(t, checked, "depends_on")
	assert.Contains(t, checked, "nginx:latest")

	// The original is untouched.
	original, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, validCompose, string(original))
}

func TestValidate_TempFileRemoved(t *testing.T) {
	tests := []struct {
		name   string
		runErr error
	}{
		{"on success", nil},
		{"on rejection", &RunError{Tool: "docker-compose", Output: []byte("boom")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{err: tt.runErr}
			v := NewValidator(runner, nil)

			path := writeTempCompose(t, validCompose)
			_ = v.Validate(context.Background(), path)

			require.NotEmpty(t, runner.ranPath)
			_, statErr := os.Stat(runner.ranPath)
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

func TestValidate_RejectionCarriesOutput(t *testing.T) {
	runner := &fakeRunner{err: &RunError{
		Tool:   "docker-compose",
		Output: []byte("services.web.image is invalid"),
	}}
	v := NewValidator(runner, nil)

	path := writeTempCompose(t, validCompose)
	err := v.Validate(context.Background(), path)
	require.Error(t, err)

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, path, vErr.Path)
	assert.Contains(t, vErr.Output, "services.web.image is invalid")
}

func TestValidate_MissingFile(t *testing.T) {
	v := NewValidator(&fakeRunner{}, nil)
	err := v.Validate(context.Background(), filepath.Join(t.TempDir(), "absent.yml"))
	require.Error(t, err)
}

func TestValidate_MalformedFile(t *testing.T) {
	runner := &fakeRunner{}
	v := NewValidator(runner, nil)

	path := writeTempCompose(t, "services: [unclosed")
	err := v.Validate(context.Background(), path)
	require.Error(t, err)

	var vErr *ValidationError
	assert.True(t, errors.As(err, &vErr))
	assert.Empty(t, runner.ranPath, "runner must not run on unparseable input")
}

// =============================================================================
// Runner Tests
// =============================================================================

func TestCLI_MissingToolFails(t *testing.T) {
	runner := NewCLI("composekit-no-such-tool", 0)

	path := writeTempCompose(t, validCompose)
	err := runner.Run(context.Background(), path)
	require.Error(t, err)

	var rErr *RunError
	assert.True(t, errors.As(err, &rErr))
	assert.Equal(t, "composekit-no-such-tool", rErr.Tool)
}

func TestLoader_ValidFile(t *testing.T) {
	runner := NewLoader()
	path := writeTempCompose(t, "services:\n  web:\n    image: nginx:latest\n")
	require.NoError(t, runner.Run(context.Background(), path))
}

func TestLoader_RejectsBrokenFile(t *testing.T) {
	runner := NewLoader()
	path := writeTempCompose(t, "services: [unclosed")
	err := runner.Run(context.Background(), path)
	require.Error(t, err)

	var rErr *RunError
	assert.True(t, errors.As(err, &rErr))
	assert.NotEmpty(t, rErr.Output)
}

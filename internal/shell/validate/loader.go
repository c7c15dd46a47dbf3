package validate

import (
	"context"
	"os"

	"github.com/compose-spec/compose-go/v2/loader"
	"github.com/compose-spec/compose-go/v2/types"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// In-Process Runner
// =============================================================================

// Loader validates files by loading them through the compose-go loader.
// It needs no external binary, which makes it the fallback on hosts
// without a compose CLI installed.
type Loader struct {
	// ProjectName is required by the loader; the value is throwaway.
	ProjectName string
}

// NewLoader creates an in-process runner.
func NewLoader() *Loader {
	return &Loader{ProjectName: "composekit-check"}
}

// Run loads path through compose-go with full validation enabled.
func (l *Loader) Run(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &RunError{Tool: "compose-go", Err: err}
	}

	var dict map[string]interface{}
	if err := yaml.Unmarshal(data, &dict); err != nil {
		return &RunError{Tool: "compose-go", Output: []byte(err.Error()), Err: err}
	}

	_, err = loader.LoadWithContext(ctx, types.ConfigDetails{
		ConfigFiles: []types.ConfigFile{
			{
				Filename: path,
				Content:  data,
				Config:   dict,
			},
		},
	}, func(opts *loader.Options) {
		opts.SetProjectName(l.ProjectName, false)
		opts.SkipValidation = false
		opts.SkipInterpolation = true // values may carry ${VAR} placeholders
		opts.SkipNormalization = true
		opts.SkipExtends = true // don't chase external files
	})
	if err != nil {
		return &RunError{Tool: "compose-go", Output: []byte(err.Error()), Err: err}
	}
	return nil
}

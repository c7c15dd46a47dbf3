package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/artpar/composekit/internal/core/compose"
	"github.com/artpar/composekit/internal/core/envfile"
	"github.com/artpar/composekit/internal/shell/composefile"
	"github.com/artpar/composekit/internal/shell/validate"
)

var errUsage = errors.New("invalid usage")

// app wires the shell components from loaded configuration.
type app struct {
	cfg       *Config
	logger    *slog.Logger
	validator *validate.Validator
	manager   *composefile.Manager
	stdin     io.Reader
	stdout    io.Writer
}

func newApp(cfg *Config, logger *slog.Logger) *app {
	var runner validate.Runner
	if cfg.Validator.InProcess {
		runner = validate.NewLoader()
	} else {
		runner = validate.NewCLI(cfg.Validator.Tool, cfg.Validator.Timeout)
	}
	validator := validate.NewValidator(runner, logger)
	manager := composefile.NewManager(cfg.Project.Dir, cfg.Project.ComposeVersion, validator, logger)

	return &app{
		cfg:       cfg,
		logger:    logger,
		validator: validator,
		manager:   manager,
		stdin:     os.Stdin,
		stdout:    os.Stdout,
	}
}

func (a *app) dispatch(cmd string, args []string) error {
	switch cmd {
	case "paths":
		return a.pathsCmd()
	case "add":
		return a.addCmd(args)
	case "merge":
		return a.mergeCmd(args)
	case "validate":
		return a.validateCmd(args)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

// pathsCmd prints the working set, creating the default file if needed.
func (a *app) pathsCmd() error {
	paths, err := a.manager.ComposeFilePaths()
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintln(a.stdout, p)
	}
	return nil
}

// addCmd reads a service description as JSON from stdin, serializes it,
// and merges the resulting fragment into every compose file of the
// project. With -env-file, shared variables and secrets are written to a
// sibling env file that the fragment references.
func (a *app) addCmd(args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	withEnvFile := fs.Bool("env-file", false, "write shared variables to a sibling env file")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	var svc compose.Service
	dec := json.NewDecoder(a.stdin)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&svc); err != nil {
		return fmt.Errorf("%w: cannot decode service JSON: %v", errUsage, err)
	}

	var envFileNames []string
	if *withEnvFile {
		vars := compose.EnvFileEnvironment(svc)
		if len(vars) > 0 {
			content, err := envfile.Render(vars)
			if err != nil {
				return err
			}
			name := envfile.Filename(svc.Name)
			path := filepath.Join(a.cfg.Project.Dir, name)
			if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
				return composefile.NewFilesystemError("write", path, err)
			}
			a.logger.Info("wrote env file", "path", path, "variables", len(vars))
			envFileNames = []string{name}
		}
	}

	doc, err := compose.Serialize(svc, envFileNames, a.cfg.Project.ComposeVersion)
	if err != nil {
		return err
	}

	return a.manager.MergeInto(context.Background(), doc, !a.cfg.Validator.Skip)
}

// mergeCmd merges raw compose YAML from a file or stdin into the project.
func (a *app) mergeCmd(args []string) error {
	fs := flag.NewFlagSet("merge", flag.ContinueOnError)
	fromFile := fs.String("f", "", "read YAML from file instead of stdin")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	var (
		raw []byte
		err error
	)
	if *fromFile != "" {
		raw, err = os.ReadFile(*fromFile)
		if err != nil {
			return composefile.NewFilesystemError("read", *fromFile, err)
		}
	} else {
		raw, err = io.ReadAll(a.stdin)
		if err != nil {
			return fmt.Errorf("cannot read stdin: %w", err)
		}
	}

	return a.manager.MergeInto(context.Background(), raw, !a.cfg.Validator.Skip)
}

// validateCmd runs the validator against a single file.
func (a *app) validateCmd(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: validate takes exactly one path", errUsage)
	}
	if err := a.validator.Validate(context.Background(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "%s: valid\n", args[0])
	return nil
}

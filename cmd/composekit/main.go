// Package main provides the composekit binary, a compose-file steward
// for automated deployment agents.
//
// Usage:
//
//	composekit [-config file] <command> [args...]
//
// Commands:
//
//	paths               - Print the project's compose files (creates a default one if none exist)
//	add [-env-file]     - Serialize a service (JSON on stdin) and merge it into the project
//	merge [-f file]     - Merge raw compose YAML (file or stdin) into the project
//	validate <path>     - Validate one compose file
//	version             - Show version
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/artpar/composekit/internal/core/merge"
	"github.com/artpar/composekit/internal/shell/composefile"
	"github.com/artpar/composekit/internal/shell/validate"
)

// =============================================================================
// Exit Codes
// =============================================================================

const (
	ExitSuccess         = 0
	ExitConfigError     = 1
	ExitUsageError      = 2
	ExitMergeError      = 3
	ExitValidationError = 4
	ExitFilesystemError = 5
)

// Version information (set by build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "Path to config file")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("composekit %s (built %s)\n", Version, BuildTime)
		return ExitSuccess
	}

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: composekit [-config file] <command> [args...]")
		return ExitUsageError
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return ExitConfigError
	}

	logger := SetupLogger(cfg)
	a := newApp(cfg, logger)

	cmd, cmdArgs := args[0], args[1:]
	if cmd == "version" {
		fmt.Printf("composekit %s (built %s)\n", Version, BuildTime)
		return ExitSuccess
	}

	if err := a.dispatch(cmd, cmdArgs); err != nil {
		logger.Error("command failed", "command", cmd, "error", err)
		return exitCode(err)
	}
	return ExitSuccess
}

// exitCode maps an error to the process exit code.
func exitCode(err error) int {
	var (
		vErr *validate.ValidationError
		mErr *merge.MergeError
		fErr *composefile.FilesystemError
	)
	switch {
	case errors.As(err, &vErr):
		return ExitValidationError
	case errors.As(err, &mErr):
		return ExitMergeError
	case errors.As(err, &fErr):
		return ExitFilesystemError
	case errors.Is(err, errUsage):
		return ExitUsageError
	}
	return ExitConfigError
}

package composefile

import (
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/artpar/composekit/internal/core/compose"
	"github.com/artpar/composekit/internal/shell/validate"
)

// =============================================================================
// Manager
// =============================================================================

const (
	// DefaultVersion is written into a freshly created compose file.
	DefaultVersion = "3.7"

	// DefaultFileName is the file created when a project has none.
	DefaultFileName = "docker-compose.yml"
)

// globPatterns match the compose files considered part of the working
// set. Matching is limited to the top level of the project directory.
var globPatterns = []string{"docker-compose*.yml", "docker-compose*.yaml"}

// Manager owns the compose files of one project directory. Discovery runs
// at most once per Manager; the discovered set is the working set for all
// subsequent merges. A Manager is not safe for concurrent use, and
// concurrent processes against the same directory are not coordinated.
type Manager struct {
	dir       string
	version   string
	validator *validate.Validator
	logger    *slog.Logger

	paths      []string
	discovered bool
}

// NewManager creates a Manager for the project at dir. version is used
// when a default file must be created; empty means DefaultVersion. A nil
// logger falls back to the default slog logger.
func NewManager(dir, version string, validator *validate.Validator, logger *slog.Logger) *Manager {
	if version == "" {
		version = DefaultVersion
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		dir:       dir,
		version:   version,
		validator: validator,
		logger:    logger,
	}
}

// ComposeFilePaths returns the project's compose files. On first call it
// scans the top level of the project directory; if no file matches, a
// minimal default file is created, owned like its parent directory.
// Subsequent calls return the cached set without rescanning.
func (m *Manager) ComposeFilePaths() ([]string, error) {
	if m.discovered {
		return m.paths, nil
	}

	var found []string
	for _, pattern := range globPatterns {
		matches, err := filepath.Glob(filepath.Join(m.dir, pattern))
		if err != nil {
			return nil, NewFilesystemError("scan", m.dir, err)
		}
		found = append(found, matches...)
	}
	sort.Strings(found)

	if len(found) == 0 {
		path := filepath.Join(m.dir, DefaultFileName)
		if err := m.createDefaultFile(path); err != nil {
			return nil, err
		}
		m.logger.Info("created default compose file", "path", path)
		found = []string{path}
	}

	m.paths = found
	m.discovered = true
	return m.paths, nil
}

// FilesInitialized reports whether discovery has run and produced at
// least one file. It never triggers discovery itself.
func (m *Manager) FilesInitialized() bool {
	return m.discovered && len(m.paths) > 0
}

// createDefaultFile writes a compose file containing only the version
// declaration and aligns its ownership with the parent directory.
func (m *Manager) createDefaultFile(path string) error {
	doc := &compose.Document{Version: m.version}
	data, err := doc.Encode()
	if err != nil {
		return err
	}
	if err := writeFileOwned(path, data, 0o644, m.dir); err != nil {
		return NewFilesystemError("create", path, err)
	}
	return nil
}

package composefile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/artpar/composekit/internal/core/compose"
	"github.com/artpar/composekit/internal/core/merge"
)

// =============================================================================
// Merge Orchestration
// =============================================================================

// MergeInto merges content into every file of the working set. Content
// may be a *compose.Document, raw YAML bytes, or a YAML string.
//
// With checkValidity, each target is normalized and merged into a staged
// copy on the same filesystem, the staged copy is validated, and only
// after every target passes are the originals replaced by rename. A
// single failure aborts the whole operation with no file committed. All
// staged copies are removed on every exit path.
//
// Without checkValidity, each target is merged and overwritten in place;
// the caller accepts the risk.
func (m *Manager) MergeInto(ctx context.Context, content interface{}, checkValidity bool) error {
	raw, err := contentBytes(content)
	if err != nil {
		return err
	}

	targets, err := m.ComposeFilePaths()
	if err != nil {
		return err
	}

	if !checkValidity {
		return m.mergeDirect(targets, raw)
	}
	return m.mergeChecked(ctx, targets, raw)
}

// mergeDirect overwrites each target with the merged result, no staging.
func (m *Manager) mergeDirect(targets []string, raw []byte) error {
	for _, target := range targets {
		merged, mode, err := m.mergeOne(target, raw)
		if err != nil {
			return err
		}
		if err := os.WriteFile(target, merged, mode); err != nil {
			return NewFilesystemError("write", target, err)
		}
		m.logger.Debug("merged compose file", "path", target, "validated", false)
	}
	return nil
}

// mergeChecked stages, validates, then commits all targets atomically.
func (m *Manager) mergeChecked(ctx context.Context, targets []string, raw []byte) error {
	if m.validator == nil {
		return errors.New("composefile: validity checking requested without a validator")
	}
	staged := make(map[string]string, len(targets)) // target -> staged copy
	defer func() {
		for _, tmp := range staged {
			if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
				m.logger.Warn("leaked staged compose file", "path", tmp, "error", err)
			}
		}
	}()

	for _, target := range targets {
		merged, mode, err := m.mergeOne(target, raw)
		if err != nil {
			return err
		}

		// Staged next to the target so the final rename stays on one
		// filesystem and therefore atomic.
		tmp := filepath.Join(m.dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(target), uuid.NewString()))
		if err := os.WriteFile(tmp, merged, mode); err != nil {
			return NewFilesystemError("stage", tmp, err)
		}
		staged[target] = tmp

		if err := m.validator.Validate(ctx, tmp); err != nil {
			return err
		}
	}

	for target, tmp := range staged {
		if err := os.Rename(tmp, target); err != nil {
			return NewFilesystemError("commit", target, err)
		}
		delete(staged, target)
		m.logger.Debug("merged compose file", "path", target, "validated", true)
	}
	return nil
}

// mergeOne reads a target, normalizes it, and merges raw into it. The
// target's file mode is reported so staged copies keep it.
func (m *Manager) mergeOne(target string, raw []byte) ([]byte, fs.FileMode, error) {
	data, err := os.ReadFile(target)
	if err != nil {
		return nil, 0, NewFilesystemError("read", target, err)
	}
	info, err := os.Stat(target)
	if err != nil {
		return nil, 0, NewFilesystemError("stat", target, err)
	}

	normalized, err := merge.Normalize(data)
	if err != nil {
		return nil, 0, err
	}
	merged, err := merge.Documents(normalized, raw)
	if err != nil {
		return nil, 0, err
	}
	return merged, info.Mode().Perm(), nil
}

// contentBytes reduces the accepted content forms to raw YAML.
func contentBytes(content interface{}) ([]byte, error) {
	switch c := content.(type) {
	case *compose.Document:
		return c.Encode()
	case []byte:
		return c, nil
	case string:
		return []byte(c), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedContent, content)
	}
}

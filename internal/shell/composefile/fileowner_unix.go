//go:build unix

package composefile

import (
	"io/fs"
	"os"
	"syscall"
)

// writeFileOwned writes data to path and aligns its owner and group with
// parentDir. Ownership alignment is best effort: a process without the
// privilege to chown keeps the default ownership.
func writeFileOwned(path string, data []byte, perm fs.FileMode, parentDir string) error {
	if err := os.WriteFile(path, data, perm); err != nil {
		return err
	}

	info, err := os.Stat(parentDir)
	if err != nil {
		return err
	}
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return nil
	}
	if err := os.Chown(path, int(st.Uid), int(st.Gid)); err != nil && !os.IsPermission(err) {
		return err
	}
	return nil
}

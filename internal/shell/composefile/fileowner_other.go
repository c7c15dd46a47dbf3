//go:build !unix

package composefile

import (
	"io/fs"
	"os"
)

// writeFileOwned writes data to path. Ownership alignment is a unix
// concept; elsewhere the file keeps its default owner.
func writeFileOwned(path string, data []byte, perm fs.FileMode, parentDir string) error {
	return os.WriteFile(path, data, perm)
}

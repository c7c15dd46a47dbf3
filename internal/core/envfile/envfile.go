// Package envfile renders companion .env files for compose services.
// This is part of the Functional Core - rendering is pure; writing the
// file is the caller's concern.
package envfile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"github.com/artpar/composekit/internal/core/compose"
)

// Filename returns the conventional sibling env-file name for a service.
func Filename(serviceName string) string {
	return serviceName + ".env"
}

// Render produces dotenv content for the given variables. Entries are
// sorted by name; a variable's comment becomes a comment line directly
// above its entry.
func Render(vars []compose.EnvVar) (string, error) {
	sorted := append([]compose.EnvVar(nil), vars...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var b strings.Builder
	for _, v := range sorted {
		if v.Name == "" {
			return "", fmt.Errorf("environment variable with empty name")
		}
		line, err := godotenv.Marshal(map[string]string{v.Name: v.Value})
		if err != nil {
			return "", fmt.Errorf("cannot render %s: %w", v.Name, err)
		}
		if v.Comment != "" {
			b.WriteString("# " + v.Comment + "\n")
		}
		b.WriteString(line + "\n")
	}
	return b.String(), nil
}

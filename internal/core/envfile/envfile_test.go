package envfile

import (
	"strings"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/composekit/internal/core/compose"
)

func TestFilename(t *testing.T) {
	assert.Equal(t, "web.env", Filename("web"))
}

func TestRender_SortedWithComments(t *testing.T) {
	content, err := Render([]compose.EnvVar{
		{Name: "DB_PASSWORD", Value: "s3cret", Comment: "rotated monthly"},
		{Name: "API_KEY", Value: "abc123"},
	})
	require.NoError(t, err)

	// Entries sorted by name, comment line above its entry.
	require.Contains(t, content, "API_KEY")
	require.Contains(t, content, "# rotated monthly")
	assert.Less(t, strings.Index(content, "API_KEY"), strings.Index(content, "DB_PASSWORD"))
	assert.Less(t, strings.Index(content, "# rotated monthly"), strings.Index(content, "DB_PASSWORD="))

	// The result must parse back as dotenv with the same values.
	parsed, err := godotenv.Unmarshal(content)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"API_KEY":     "abc123",
		"DB_PASSWORD": "s3cret",
	}, parsed)
}

func TestRender_EmptyInput(t *testing.T) {
	content, err := Render(nil)
	require.NoError(t, err)
	assert.Empty(t, content)
}

func TestRender_EmptyNameRejected(t *testing.T) {
	_, err := Render([]compose.EnvVar{{Value: "oops"}})
	require.Error(t, err)
}

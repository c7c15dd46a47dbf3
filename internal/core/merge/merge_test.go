package merge

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// Test Fixtures
// =============================================================================

const baseCompose = `
services:
  web:
    image: nginx:latest
    ports:
      - "80:80"
volumes:
  webdata:
version: "3.7"
`

const overlayCompose = `
services:
  web:
    image: nginx:1.19
    ports:
      - "443:443"
  api:
    image: api:1.0
`

// decode is a test helper turning YAML into a generic map for assertions.
func decode(t *testing.T, data []byte) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &out))
	return out
}

// =============================================================================
// Normalize Tests
// =============================================================================

func TestNormalize_TopLevelKeyOrder(t *testing.T) {
	out, err := Normalize([]byte(baseCompose))
	require.NoError(t, err)

	text := string(out)
	version := indexOf(t, text, "version:")
	services := indexOf(t, text, "services:")
	volumes := indexOf(t, text, "volumes:")
	assert.Less(t, version, services)
	assert.Less(t, services, volumes)
}

func TestNormalize_FlowStyleFlattened(t *testing.T) {
	in := []byte(`{version: "3.7", services: {web: {image: nginx, ports: ["80:80"]}}}`)
	out, err := Normalize(in)
	require.NoError(t, err)

	assert.NotContains(t, string(out), "{")
	assert.Equal(t, "nginx", decode(t, out)["services"].(map[string]interface{})["web"].(map[string]interface{})["image"])
}

func TestNormalize_Idempotent(t *testing.T) {
	once, err := Normalize([]byte(baseCompose))
	require.NoError(t, err)
	twice, err := Normalize(once)
	require.NoError(t, err)
	assert.Equal(t, string(once), string(twice))
}

func TestNormalize_EmptyInput(t *testing.T) {
	out, err := Normalize(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(out))
}

func TestNormalize_MalformedYAML(t *testing.T) {
	_, err := Normalize([]byte("services: [unclosed"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedYAML))
}

func TestNormalize_NonMappingRoot(t *testing.T) {
	_, err := Normalize([]byte("- just\n- a\n- list\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotMapping))
}

func TestNormalize_PreservesComments(t *testing.T) {
	in := []byte(`
services:
  web:
    environment:
      MODE: production # deployment stage
`)
	out, err := Normalize(in)
	require.NoError(t, err)
	assert.Contains(t, string(out), "# deployment stage")
}

// =============================================================================
// Merge Tests
// =============================================================================

func TestDocuments_ScalarOverride(t *testing.T) {
	out, err := Documents([]byte(baseCompose), []byte(overlayCompose))
	require.NoError(t, err)

	doc := decode(t, out)
	services := doc["services"].(map[string]interface{})
	web := services["web"].(map[string]interface{})
	assert.Equal(t, "nginx:1.19", web["image"])
}

func TestDocuments_ListsConcatenated(t *testing.T) {
	out, err := Documents([]byte(baseCompose), []byte(overlayCompose))
	require.NoError(t, err)

	web := decode(t, out)["services"].(map[string]interface{})["web"].(map[string]interface{})
	ports := web["ports"].([]interface{})
	assert.Equal(t, []interface{}{"80:80", "443:443"}, ports)
}

func TestDocuments_ServiceUnion(t *testing.T) {
	out, err := Documents([]byte(baseCompose), []byte(overlayCompose))
	require.NoError(t, err)

	services := decode(t, out)["services"].(map[string]interface{})
	assert.Len(t, services, 2)
	assert.Contains(t, services, "web")
	assert.Contains(t, services, "api")

	// Untouched base keys survive.
	doc := decode(t, out)
	assert.Equal(t, "3.7", doc["version"])
	assert.Contains(t, doc, "volumes")
}

func TestDocuments_NestedMapsMergedKeyByKey(t *testing.T) {
	base := []byte(`
services:
  api:
    image: api:1.0
    environment:
      MODE: production
`)
	overlay := []byte(`
services:
  api:
    environment:
      LOG_LEVEL: debug
`)
	out, err := Documents(base, overlay)
	require.NoError(t, err)

	api := decode(t, out)["services"].(map[string]interface{})["api"].(map[string]interface{})
	assert.Equal(t, "api:1.0", api["image"])

	env := api["environment"].(map[string]interface{})
	assert.Equal(t, "production", env["MODE"])
	assert.Equal(t, "debug", env["LOG_LEVEL"])
}

func TestDocuments_MergeIntoEmptyBase(t *testing.T) {
	out, err := Documents(nil, []byte(overlayCompose))
	require.NoError(t, err)

	services := decode(t, out)["services"].(map[string]interface{})
	assert.Contains(t, services, "web")
	assert.Contains(t, services, "api")
}

func TestDocuments_MalformedOverlay(t *testing.T) {
	_, err := Documents([]byte(baseCompose), []byte("services: [unclosed"))
	require.Error(t, err)

	var mErr *MergeError
	assert.True(t, errors.As(err, &mErr))
}

func TestMerge_NonMappingNodes(t *testing.T) {
	scalar := &yaml.Node{Kind: yaml.ScalarNode, Value: "x"}
	mapping := &yaml.Node{Kind: yaml.MappingNode}
	err := Merge(scalar, mapping)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotMapping))
}

func TestDocuments_OverlayCommentKept(t *testing.T) {
	base := []byte("services:\n  web:\n    image: nginx:latest\n")
	overlay := []byte("services:\n  web:\n    environment:\n      MODE: staging # rollout phase\n")

	out, err := Documents(base, overlay)
	require.NoError(t, err)
	assert.Contains(t, string(out), "# rollout phase")
}

// indexOf fails the test when sub is absent.
func indexOf(t *testing.T, s, sub string) int {
	t.Helper()
	idx := strings.Index(s, sub)
	require.GreaterOrEqual(t, idx, 0, "expected %q in output", sub)
	return idx
}

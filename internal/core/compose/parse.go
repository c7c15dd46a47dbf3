package compose

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// Encoding / Parsing
// =============================================================================

// Encode renders the document as YAML with the standard two-space indent.
func (d *Document) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, NewComposeError("", "cannot encode compose document", err)
	}
	if err := enc.Close(); err != nil {
		return nil, NewComposeError("", "cannot encode compose document", err)
	}
	return buf.Bytes(), nil
}

// ParseDocument parses compose YAML back into a Document. Comments
// attached to environment values are recovered as EnvValue comments.
// This is a pure function - no I/O, no side effects.
func ParseDocument(data []byte) (*Document, error) {
	if strings.TrimSpace(string(data)) == "" {
		return nil, ErrEmptyDocument
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, NewComposeError("", "invalid YAML syntax", ErrMalformedDocument)
	}
	return &doc, nil
}

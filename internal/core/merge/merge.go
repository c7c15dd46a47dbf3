package merge

import (
	"bytes"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// topLevelRank pins the conventional compose key order during
// normalization; everything else sorts lexicographically after them.
var topLevelRank = map[string]int{
	"version":  0,
	"services": 1,
	"volumes":  2,
	"networks": 3,
	"configs":  4,
	"secrets":  5,
}

// =============================================================================
// Normalization
// =============================================================================

// Normalize rewrites a YAML document into canonical form: block style
// throughout, two-space indent, mapping keys sorted (compose-aware at the
// top level). Comments survive because the rewrite happens on the node
// tree. Merge operates on normalized documents so its behavior does not
// depend on the incidental shape of the input.
func Normalize(in []byte) ([]byte, error) {
	root, err := parse(in)
	if err != nil {
		return nil, err
	}
	canonicalize(root, true)
	return encode(root)
}

// =============================================================================
// Merge
// =============================================================================

// Documents merges overlay into base and returns the normalized result.
// Scalar keys in the overlay override the base, sequences are
// concatenated, and nested mappings are merged key-by-key recursively.
// De-duplication of concatenated list items is left to the caller's data.
func Documents(base, overlay []byte) ([]byte, error) {
	dst, err := parse(base)
	if err != nil {
		return nil, err
	}
	src, err := parse(overlay)
	if err != nil {
		return nil, err
	}

	if err := Merge(dst.Content[0], src.Content[0]); err != nil {
		return nil, err
	}

	canonicalize(dst, true)
	return encode(dst)
}

// Merge folds src into dst. Both must be mapping nodes.
func Merge(dst, src *yaml.Node) error {
	if dst.Kind != yaml.MappingNode || src.Kind != yaml.MappingNode {
		return NewMergeError("cannot merge non-mapping nodes", ErrNotMapping)
	}
	mergeMapping(dst, src)
	return nil
}

// mergeMapping merges src pairs into dst key by key. New keys are
// appended with their comments intact; colliding keys are resolved by
// value kind.
func mergeMapping(dst, src *yaml.Node) {
	for i := 0; i+1 < len(src.Content); i += 2 {
		srcKey, srcVal := src.Content[i], src.Content[i+1]

		dstVal := findValue(dst, srcKey.Value)
		if dstVal == nil {
			dst.Content = append(dst.Content, srcKey, srcVal)
			continue
		}

		switch {
		case dstVal.Kind == yaml.MappingNode && srcVal.Kind == yaml.MappingNode:
			mergeMapping(dstVal, srcVal)
		case dstVal.Kind == yaml.SequenceNode && srcVal.Kind == yaml.SequenceNode:
			dstVal.Content = append(dstVal.Content, srcVal.Content...)
		default:
			// Scalar override, or a kind change: the overlay wins wholesale.
			*dstVal = *srcVal
		}
	}
}

// findValue returns the value node for key, or nil.
func findValue(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

// =============================================================================
// Node Plumbing
// =============================================================================

// parse decodes YAML into a document node whose root is a mapping. Empty
// input yields an empty mapping so merging into a fresh file works.
func parse(in []byte) (*yaml.Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(in, &root); err != nil {
		return nil, NewMergeError("invalid YAML syntax", ErrMalformedYAML)
	}

	if root.Kind == 0 || len(root.Content) == 0 {
		if strings.TrimSpace(string(in)) != "" {
			return nil, NewMergeError("invalid YAML syntax", ErrMalformedYAML)
		}
		return &yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}},
		}, nil
	}

	if root.Content[0].Kind != yaml.MappingNode {
		return nil, NewMergeError("document root is not a mapping", ErrNotMapping)
	}
	return &root, nil
}

// canonicalize forces block style and deterministic key order. The top
// flag selects compose-aware ordering for the outermost mapping.
func canonicalize(node *yaml.Node, top bool) {
	node.Style = 0

	switch node.Kind {
	case yaml.DocumentNode:
		for _, child := range node.Content {
			canonicalize(child, top)
		}
	case yaml.MappingNode:
		sortMapping(node, top)
		for _, child := range node.Content {
			canonicalize(child, false)
		}
	case yaml.SequenceNode:
		for _, child := range node.Content {
			canonicalize(child, false)
		}
	}
}

// sortMapping orders key/value pairs in place.
func sortMapping(mapping *yaml.Node, top bool) {
	n := len(mapping.Content) / 2
	pairs := make([][2]*yaml.Node, 0, n)
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		pairs = append(pairs, [2]*yaml.Node{mapping.Content[i], mapping.Content[i+1]})
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		a, b := pairs[i][0].Value, pairs[j][0].Value
		if top {
			ra, rb := keyRank(a), keyRank(b)
			if ra != rb {
				return ra < rb
			}
		}
		return a < b
	})

	mapping.Content = mapping.Content[:0]
	for _, p := range pairs {
		mapping.Content = append(mapping.Content, p[0], p[1])
	}
}

func keyRank(key string) int {
	if rank, ok := topLevelRank[key]; ok {
		return rank
	}
	return len(topLevelRank)
}

// encode renders a document node with the standard two-space indent.
func encode(root *yaml.Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, NewMergeError("cannot encode merged document", err)
	}
	if err := enc.Close(); err != nil {
		return nil, NewMergeError("cannot encode merged document", err)
	}
	return buf.Bytes(), nil
}

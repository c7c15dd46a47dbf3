package compose

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// Service - Main Input Type
// =============================================================================

// Service describes a container service to be rendered into a compose
// document. Instances are built by the caller and treated as immutable
// inputs to serialization.
type Service struct {
	Name      string        `json:"name"`
	Image     string        `json:"image,omitempty"`
	Command   string        `json:"command,omitempty"`
	DependsOn []string      `json:"depends_on,omitempty"`
	Ports     []PortMapping `json:"ports,omitempty"`
	Labels    []Label       `json:"labels,omitempty"`

	// Environment variables by origin. ContainerEnv and ImageEnv feed the
	// compose document itself; SharedEnv and Secrets feed the companion
	// env file next to it.
	ContainerEnv []EnvVar `json:"container_env,omitempty"`
	ImageEnv     []EnvVar `json:"image_env,omitempty"`
	SharedEnv    []EnvVar `json:"shared_env,omitempty"`
	Secrets      []EnvVar `json:"secrets,omitempty"`

	Volumes []Volume `json:"volumes,omitempty"`
}

// PortMapping maps a host port to a container port.
type PortMapping struct {
	Source int `json:"source"` // Host port
	Target int `json:"target"` // Container port
}

// Label is a service label, optionally annotated for humans editing the
// generated file.
type Label struct {
	Key     string `json:"key"`
	Value   string `json:"value"`
	Comment string `json:"comment,omitempty"`
}

// EnvVar is an environment variable, optionally annotated with a comment
// that survives into the generated YAML.
type EnvVar struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	Comment string `json:"comment,omitempty"`
}

// =============================================================================
// Volume Types
// =============================================================================

// VolumeType discriminates the three mount strategies compose supports.
type VolumeType string

const (
	VolumeTypeNamed VolumeType = "volume"
	VolumeTypeBind  VolumeType = "bind"
	VolumeTypeTmpfs VolumeType = "tmpfs"
)

// Volume is a tagged mount description. Target and ReadOnly apply only to
// the named and bind variants; tmpfs mounts carry a source path only.
type Volume struct {
	Type     VolumeType `json:"type"`
	Source   string     `json:"source"`
	Target   string     `json:"target,omitempty"`
	ReadOnly bool       `json:"read_only,omitempty"`
}

// =============================================================================
// Document Types
// =============================================================================

// Document is the structured form of a docker-compose YAML file.
type Document struct {
	Version  string                      `yaml:"version,omitempty"`
	Services map[string]*ServiceFragment `yaml:"services,omitempty"`
	Volumes  map[string]*VolumeOptions   `yaml:"volumes,omitempty"`
}

// ServiceFragment is the portion of a Document describing one service.
// Every field is omitted when empty so sparse definitions stay sparse.
type ServiceFragment struct {
	Image       string              `yaml:"image,omitempty"`
	Command     string              `yaml:"command,omitempty"`
	DependsOn   []string            `yaml:"depends_on,omitempty"`
	Ports       []string            `yaml:"ports,omitempty"`
	Environment map[string]EnvValue `yaml:"environment,omitempty"`
	Labels      map[string]string   `yaml:"labels,omitempty"`
	Volumes     []MountSpec         `yaml:"volumes,omitempty"`
	EnvFile     []string            `yaml:"env_file,omitempty"`
}

// MountSpec is the long-form volume entry inside a service fragment.
// ReadOnly is a pointer so named and bind mounts always carry an explicit
// read_only key while tmpfs mounts carry none.
type MountSpec struct {
	Type     string `yaml:"type"`
	Source   string `yaml:"source"`
	Target   string `yaml:"target,omitempty"`
	ReadOnly *bool  `yaml:"read_only,omitempty"`
}

// VolumeOptions is a top-level named volume declaration. A nil entry in
// Document.Volumes renders as `name: null`, meaning declared with default
// options.
type VolumeOptions struct {
	Driver   string            `yaml:"driver,omitempty"`
	External bool              `yaml:"external,omitempty"`
	Labels   map[string]string `yaml:"labels,omitempty"`
}

// =============================================================================
// EnvValue - Commented Scalar
// =============================================================================

// EnvValue pairs an environment value with an optional comment. The
// comment is a serialization annotation: it is emitted as a YAML line
// comment next to the value and recovered on parse.
type EnvValue struct {
	Value   string
	Comment string
}

// MarshalYAML renders the value as a scalar node carrying the comment.
func (v EnvValue) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!str",
		Value: v.Value,
	}
	if v.Comment != "" {
		node.LineComment = "# " + v.Comment
	}
	return node, nil
}

// UnmarshalYAML recovers the value and any line comment attached to it.
func (v *EnvValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return NewComposeError("environment", "environment value must be a scalar", ErrMalformedDocument)
	}
	v.Value = node.Value
	v.Comment = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(node.LineComment), "#"))
	return nil
}

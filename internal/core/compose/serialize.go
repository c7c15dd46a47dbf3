package compose

import (
	"fmt"
	"sort"
)

// =============================================================================
// Environment Selection
// =============================================================================

// ComposeEnvironment returns the variables destined for the compose
// document itself: the union of container-level and image-level variables.
// Container-level values win on name collision. The result is sorted by
// name so output is deterministic.
func ComposeEnvironment(svc Service) []EnvVar {
	return unionEnv(svc.ImageEnv, svc.ContainerEnv)
}

// EnvFileEnvironment returns the variables destined for the companion env
// file written next to the compose document: the union of shared variables
// and shared secrets. Secrets win on name collision.
func EnvFileEnvironment(svc Service) []EnvVar {
	return unionEnv(svc.SharedEnv, svc.Secrets)
}

// unionEnv merges two variable lists; entries in override shadow entries
// in base with the same name.
func unionEnv(base, override []EnvVar) []EnvVar {
	merged := make(map[string]EnvVar, len(base)+len(override))
	for _, v := range base {
		merged[v.Name] = v
	}
	for _, v := range override {
		merged[v.Name] = v
	}

	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]EnvVar, 0, len(merged))
	for _, name := range names {
		out = append(out, merged[name])
	}
	return out
}

// =============================================================================
// Serialization
// =============================================================================

// Serialize converts a Service into a single-service compose Document.
// This is a pure function - no I/O, no side effects.
//
// Empty fields are omitted from the fragment entirely rather than emitted
// as empty keys. Named volumes referenced by the service are collected
// into the document's top-level volumes declaration. When envFileNames is
// non-empty it is attached to the fragment as env_file.
func Serialize(svc Service, envFileNames []string, version string) (*Document, error) {
	if svc.Name == "" {
		return nil, NewComposeError("name", "service name is required", ErrEmptyServiceName)
	}

	fragment := &ServiceFragment{
		Image:   svc.Image,
		Command: svc.Command,
	}

	if len(svc.DependsOn) > 0 {
		fragment.DependsOn = append([]string(nil), svc.DependsOn...)
	}

	for i, p := range svc.Ports {
		if p.Source <= 0 || p.Source > 65535 || p.Target <= 0 || p.Target > 65535 {
			return nil, NewComposeError(
				fmt.Sprintf("services.%s.ports[%d]", svc.Name, i),
				fmt.Sprintf("port mapping %d:%d out of range", p.Source, p.Target),
				ErrInvalidPort,
			)
		}
		fragment.Ports = append(fragment.Ports, fmt.Sprintf("%d:%d", p.Source, p.Target))
	}

	if env := ComposeEnvironment(svc); len(env) > 0 {
		fragment.Environment = make(map[string]EnvValue, len(env))
		for _, v := range env {
			fragment.Environment[v.Name] = EnvValue{Value: v.Value, Comment: v.Comment}
		}
	}

	if len(svc.Labels) > 0 {
		fragment.Labels = make(map[string]string, len(svc.Labels))
		for _, l := range svc.Labels {
			fragment.Labels[l.Key] = l.Value
		}
	}

	named := make([]string, 0, len(svc.Volumes))
	for i, vol := range svc.Volumes {
		mount, err := serializeVolume(svc.Name, i, vol)
		if err != nil {
			return nil, err
		}
		fragment.Volumes = append(fragment.Volumes, mount)
		if vol.Type == VolumeTypeNamed {
			named = append(named, vol.Source)
		}
	}

	if len(envFileNames) > 0 {
		fragment.EnvFile = append([]string(nil), envFileNames...)
	}

	doc := &Document{
		Version:  version,
		Services: map[string]*ServiceFragment{svc.Name: fragment},
	}

	if len(named) > 0 {
		doc.Volumes = make(map[string]*VolumeOptions, len(named))
		for _, name := range named {
			doc.Volumes[name] = nil
		}
	}

	return doc, nil
}

// serializeVolume renders one mount entry, switching on the discriminant.
// Only named and bind mounts carry target and read_only.
func serializeVolume(service string, index int, vol Volume) (MountSpec, error) {
	field := fmt.Sprintf("services.%s.volumes[%d]", service, index)
	if vol.Source == "" {
		return MountSpec{}, NewComposeError(field, "volume source is required", ErrInvalidVolume)
	}

	switch vol.Type {
	case VolumeTypeNamed, VolumeTypeBind:
		if vol.Target == "" {
			return MountSpec{}, NewComposeError(field, "volume target is required", ErrInvalidVolume)
		}
		readOnly := vol.ReadOnly
		return MountSpec{
			Type:     string(vol.Type),
			Source:   vol.Source,
			Target:   vol.Target,
			ReadOnly: &readOnly,
		}, nil
	case VolumeTypeTmpfs:
		return MountSpec{
			Type:   string(vol.Type),
			Source: vol.Source,
		}, nil
	default:
		return MountSpec{}, NewComposeError(field, fmt.Sprintf("unknown volume type %q", vol.Type), ErrInvalidVolume)
	}
}

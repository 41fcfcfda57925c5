package model

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML accepts either `skip: true`/`skip: false` or
// `skip: {command: <cmd>}`.
func (s *SkipSpec) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var b bool
		if err := value.Decode(&b); err != nil {
			return fmt.Errorf("skip: expected bool or {command}: %w", err)
		}
		s.Unconditional = b
		return nil
	case yaml.MappingNode:
		var m struct {
			Command string `yaml:"command"`
		}
		if err := value.Decode(&m); err != nil {
			return fmt.Errorf("skip: %w", err)
		}
		s.Command = m.Command
		s.HasCommand = true
		return nil
	default:
		return fmt.Errorf("skip: unsupported YAML node kind %v", value.Kind)
	}
}

// UnmarshalYAML decodes an Action, defaulting Required to true when the
// document omits it (spec.md §6: `required?: bool=true`).
func (a *Action) UnmarshalYAML(value *yaml.Node) error {
	type rawAction Action
	tmp := rawAction{Required: true}
	if err := value.Decode(&tmp); err != nil {
		return fmt.Errorf("action: %w", err)
	}
	*a = Action(tmp)
	return nil
}

// UnmarshalYAML decodes a FixSpec, defaulting Autofix to true when the
// document omits it (spec.md §6: `autofix?: bool=true`).
func (f *FixSpec) UnmarshalYAML(value *yaml.Node) error {
	type rawFix FixSpec
	tmp := rawFix{Autofix: true}
	if err := value.Decode(&tmp); err != nil {
		return fmt.Errorf("fix: %w", err)
	}
	*f = FixSpec(tmp)
	return nil
}

// DecodeSpec re-decodes a Root's raw spec map into a typed spec struct,
// going through a YAML round-trip so the same struct tags used for file
// parsing apply uniformly (the loader never reads specs from any other
// source, so this indirection costs nothing at runtime).
func DecodeSpec[S any](raw map[string]interface{}) (S, error) {
	var spec S
	buf, err := yaml.Marshal(raw)
	if err != nil {
		return spec, fmt.Errorf("re-marshal spec: %w", err)
	}
	if err := yaml.Unmarshal(buf, &spec); err != nil {
		return spec, fmt.Errorf("decode spec: %w", err)
	}
	return spec, nil
}

package model

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestSkipSpecUnmarshalBool(t *testing.T) {
	var s SkipSpec
	if err := yaml.Unmarshal([]byte(`true`), &s); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !s.Unconditional || s.HasCommand {
		t.Fatalf("got %+v, want unconditional skip", s)
	}
}

func TestSkipSpecUnmarshalCommand(t *testing.T) {
	var s SkipSpec
	if err := yaml.Unmarshal([]byte(`command: "test -f /tmp/x"`), &s); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !s.HasCommand || s.Command != "test -f /tmp/x" {
		t.Fatalf("got %+v", s)
	}
}

func TestDecodeSpecDoctorGroup(t *testing.T) {
	raw := map[string]interface{}{
		"needs": []interface{}{"setup"},
		"actions": []interface{}{
			map[string]interface{}{
				"name":     "check-go",
				"required": true,
				"check": map[string]interface{}{
					"commands": []interface{}{"go version"},
				},
			},
		},
	}
	spec, err := DecodeSpec[DoctorGroupSpec](raw)
	if err != nil {
		t.Fatalf("DecodeSpec: %v", err)
	}
	if len(spec.Needs) != 1 || spec.Needs[0] != "setup" {
		t.Fatalf("Needs = %v", spec.Needs)
	}
	if len(spec.Actions) != 1 || spec.Actions[0].Name != "check-go" {
		t.Fatalf("Actions = %+v", spec.Actions)
	}
}

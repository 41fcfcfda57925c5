package model

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationError reports a schema violation the way the loader wants to
// surface it: as JSON-Schema-style error text, never fatal to loading.
type ValidationError struct {
	Path   string
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Detail)
}

// ValidateDoctorGroupSpec checks the required-field and type invariants
// spec.md §6 states for ScopeDoctorGroup.spec, without pulling in a generic
// JSON-Schema library (see DESIGN.md: no pack dependency validates
// arbitrary documents, only reflects Go structs into schemas).
func ValidateDoctorGroupSpec(raw map[string]interface{}) []*ValidationError {
	var errs []*ValidationError
	actionsRaw, ok := raw["actions"]
	if !ok {
		return errs
	}
	actions, ok := actionsRaw.([]interface{})
	if !ok {
		errs = append(errs, &ValidationError{Path: "spec.actions", Detail: "expected array"})
		return errs
	}
	for i, a := range actions {
		am, ok := a.(map[string]interface{})
		if !ok {
			errs = append(errs, &ValidationError{Path: fmt.Sprintf("spec.actions[%d]", i), Detail: "expected object"})
			continue
		}
		if _, ok := am["check"]; !ok {
			if _, ok := am["fix"]; !ok {
				errs = append(errs, &ValidationError{
					Path:   fmt.Sprintf("spec.actions[%d]", i),
					Detail: "neither check nor fix specified",
				})
			}
		}
	}
	return errs
}

// ValidateKnownErrorSpec checks that pattern compiles and help is present.
func ValidateKnownErrorSpec(raw map[string]interface{}) []*ValidationError {
	var errs []*ValidationError
	pattern, _ := raw["pattern"].(string)
	if strings.TrimSpace(pattern) == "" {
		errs = append(errs, &ValidationError{Path: "spec.pattern", Detail: "required property missing"})
	} else if _, err := regexp.Compile(pattern); err != nil {
		errs = append(errs, &ValidationError{Path: "spec.pattern", Detail: fmt.Sprintf("invalid regex: %v", err)})
	}
	if _, ok := raw["help"]; !ok {
		errs = append(errs, &ValidationError{Path: "spec.help", Detail: "required property missing"})
	}
	return errs
}

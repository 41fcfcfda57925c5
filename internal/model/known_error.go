package model

// KnownErrorSpec is the spec of a ScopeKnownError resource: a regex over
// log/output lines, help text, and an optional fix.
//
// Note: the Rust revision this was distilled from (known_error.rs) lacks a
// Fix field; this repository follows the richer, newer shape instead (see
// DESIGN.md's Open Question decisions).
type KnownErrorSpec struct {
	Pattern string   `yaml:"pattern"`
	Help    string   `yaml:"help"`
	Fix     *FixSpec `yaml:"fix,omitempty"`
}

// KnownError is the fully typed ScopeKnownError resource.
type KnownError = TypedRoot[KnownErrorSpec]

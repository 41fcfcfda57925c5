package model

// IncludeMode controls whether a group runs unless explicitly selected
// ("when-required") or by default ("by-default").
type IncludeMode string

const (
	IncludeByDefault  IncludeMode = "by-default"
	IncludeWhenNeeded IncludeMode = "when-required"
)

// SkipSpec is a group's skip condition: either an unconditional bool or a
// command whose zero exit means "skip".
type SkipSpec struct {
	Unconditional bool
	Command       string
	HasCommand    bool
}

// FilesGlob names the patterns an action's check globs against, relative
// to BasePath unless a pattern is itself absolute.
type FilesGlob struct {
	BasePath string   `yaml:"basePath"`
	Patterns []string `yaml:"patterns"`
}

// CheckSpec is the "is this already satisfied" half of an action. Paths and
// Commands are independently optional; an action with neither is
// "fix-only" and evaluates to CacheNotDefined.
type CheckSpec struct {
	Paths    *FilesGlob `yaml:"paths,omitempty"`
	Commands []string   `yaml:"commands,omitempty"`
}

// PromptSpec is shown to the user before a fix runs, unless yolo mode is
// active.
type PromptSpec struct {
	Text         string `yaml:"text"`
	ExtraContext string `yaml:"extraContext,omitempty"`
}

// FixSpec is the corrective action run when a check reports FixRequired.
type FixSpec struct {
	Commands []string    `yaml:"commands"`
	HelpText string      `yaml:"helpText,omitempty"`
	HelpURL  string      `yaml:"helpUrl,omitempty"`
	Autofix  bool        `yaml:"autofix"`
	Prompt   *PromptSpec `yaml:"prompt,omitempty"`
}

// Action is one check/fix/verify unit within a group.
type Action struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description,omitempty"`
	Required    bool      `yaml:"required"`
	Check       CheckSpec `yaml:"check"`
	Fix         *FixSpec  `yaml:"fix,omitempty"`
}

// DoctorGroupSpec is the spec of a ScopeDoctorGroup resource.
type DoctorGroupSpec struct {
	Needs             []string          `yaml:"needs,omitempty"`
	Actions           []Action          `yaml:"actions"`
	Include           IncludeMode       `yaml:"include,omitempty"`
	Skip              *SkipSpec         `yaml:"skip,omitempty"`
	ReportExtraDetails map[string]string `yaml:"reportExtraDetails,omitempty"`
}

// RunByDefault reports whether this group runs without being named
// explicitly in only_groups, i.e. Include == "by-default" (the zero value).
func (s DoctorGroupSpec) RunByDefault() bool {
	return s.Include != IncludeWhenNeeded
}

// DoctorGroup is the fully typed ScopeDoctorGroup resource.
type DoctorGroup = TypedRoot[DoctorGroupSpec]

// Package model defines the resource types scope loads from YAML: doctor
// groups, actions, and known errors, wrapped in a generic envelope with
// source-location metadata.
package model

import "fmt"

// APIVersion is the only supported apiVersion value.
const APIVersion = "scope.github.com/v1alpha"

// Kind values recognized by the loader.
const (
	KindDoctorGroup      = "ScopeDoctorGroup"
	KindKnownError       = "ScopeKnownError"
	KindReportLocation   = "ScopeReportLocation"
	KindReportDefinition = "ScopeReportDefinition"
)

// Annotation keys the loader writes onto every resource's metadata.
const (
	AnnotationFilePath   = "scope.github.com/file-path"
	AnnotationFileDir    = "scope.github.com/file-dir"
	AnnotationBinPath    = "scope.github.com/bin-path"
	AnnotationWorkingDir = "scope.github.com/working-dir"
)

// Metadata carries a resource's name, description, and annotations. The
// loader augments Annotations with file-path/file-dir/bin-path at load time.
type Metadata struct {
	Name        string            `yaml:"name" json:"name"`
	Description string            `yaml:"description" json:"description"`
	Annotations map[string]string `yaml:"annotations" json:"annotations"`
	Labels      map[string]string `yaml:"labels" json:"labels"`
}

// EnsureDescription fills in a default description when the document didn't
// specify one, mirroring the loader's "Description not provided" default.
func (m *Metadata) EnsureDescription() {
	if m.Description == "" {
		m.Description = "Description not provided"
	}
}

func (m *Metadata) annotation(key string) string {
	if m.Annotations == nil {
		return ""
	}
	return m.Annotations[key]
}

// FilePath is the absolute path of the file this resource was loaded from,
// or "unknown" if it was never annotated (e.g. constructed in tests).
func (m *Metadata) FilePath() string {
	if v := m.annotation(AnnotationFilePath); v != "" {
		return v
	}
	return "unknown"
}

// ContainingDir is the directory containing FilePath.
func (m *Metadata) ContainingDir() string {
	if v := m.annotation(AnnotationFileDir); v != "" {
		return v
	}
	return "unknown"
}

// WorkingDir is the process working directory the resource was loaded
// against, or "unknown" if it was never annotated.
func (m *Metadata) WorkingDir() string {
	if v := m.annotation(AnnotationWorkingDir); v != "" {
		return v
	}
	return "unknown"
}

// ExecPath returns a colon-joined PATH with the resource's bin-path
// annotation (if any) prepended, for resolving command executables.
func (m *Metadata) ExecPath(basePath string) string {
	bin := m.annotation(AnnotationBinPath)
	if bin == "" {
		return basePath
	}
	if basePath == "" {
		return bin
	}
	return bin + ":" + basePath
}

func (m *Metadata) setAnnotation(key, value string) {
	if m.Annotations == nil {
		m.Annotations = map[string]string{}
	}
	m.Annotations[key] = value
}

// SetSourceLocation stamps file-path/file-dir annotations; called by the
// loader immediately after parsing a document.
func (m *Metadata) SetSourceLocation(filePath, fileDir string) {
	m.setAnnotation(AnnotationFilePath, filePath)
	m.setAnnotation(AnnotationFileDir, fileDir)
}

// SetBinPath stamps the bin-path annotation.
func (m *Metadata) SetBinPath(binPath string) {
	m.setAnnotation(AnnotationBinPath, binPath)
}

// SetWorkingDir stamps the working-dir annotation.
func (m *Metadata) SetWorkingDir(workingDir string) {
	m.setAnnotation(AnnotationWorkingDir, workingDir)
}

// Root is the generic envelope every configuration document decodes into:
// {apiVersion, kind, metadata, spec}. Spec is left as a raw map for the
// first decode pass; dispatch.go re-decodes it into a typed spec.
type Root struct {
	APIVersion string                 `yaml:"apiVersion" json:"apiVersion"`
	Kind       string                 `yaml:"kind" json:"kind"`
	Metadata   Metadata               `yaml:"metadata" json:"metadata"`
	Spec       map[string]interface{} `yaml:"spec" json:"spec"`
}

// Identity is the (kind, name) pair that uniquely identifies a resource.
type Identity struct {
	Kind string
	Name string
}

func (id Identity) String() string {
	return fmt.Sprintf("%s/%s", id.Kind, id.Name)
}

// TypedRoot wraps a decoded spec of type S alongside the common envelope
// fields, mirroring the Rust ModelRoot<V> generic.
type TypedRoot[S any] struct {
	APIVersion string
	Kind       string
	Metadata   Metadata
	Spec       S
}

func (r TypedRoot[S]) Identity() Identity {
	return Identity{Kind: r.Kind, Name: r.Metadata.Name}
}

package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/oscope-dev/scope/internal/model"
	"github.com/oscope-dev/scope/internal/ux"
)

// Options configures a Load call.
type Options struct {
	WorkingDir           string
	ExtraConfig          []string
	DisableDefaultConfig bool
}

// Result is everything the loader produced: typed resources plus the
// working directory resolved against.
type Result struct {
	Groups      map[string]model.DoctorGroup
	KnownErrors map[string]model.KnownError
	WorkingDir  string
}

// Load walks the scope path, parses every YAML document it finds, and
// returns the typed resources. Nothing here is fatal except an
// unreadable working directory: unreadable files, malformed YAML, unknown
// kinds, invalid regexes, and schema violations are all warned via notify
// and the offending document is dropped.
func Load(opts Options, notify ux.Notifier) (*Result, error) {
	workingDir := opts.WorkingDir
	if workingDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("determine working directory: %w", err)
		}
		workingDir = wd
	}

	var dirs []string
	if opts.DisableDefaultConfig {
		dirs = append(dirs, opts.ExtraConfig...)
	} else {
		dirs = ScopePath(workingDir, opts.ExtraConfig)
	}

	res := &Result{
		Groups:      map[string]model.DoctorGroup{},
		KnownErrors: map[string]model.KnownError{},
		WorkingDir:  workingDir,
	}
	groupFiles := map[string]string{}
	knownErrorFiles := map[string]string{}

	for _, dir := range dirs {
		files, err := YAMLFiles(dir)
		if err != nil {
			notify.Warn(fmt.Sprintf("scope path %s: %v", dir, err))
			continue
		}
		for _, file := range files {
			loadFile(file, workingDir, res, groupFiles, knownErrorFiles, notify)
		}
	}

	return res, nil
}

func loadFile(path, workingDir string, res *Result, groupFiles, knownErrorFiles map[string]string, notify ux.Notifier) {
	data, err := os.ReadFile(path)
	if err != nil {
		notify.Warn(fmt.Sprintf("%s: %v", path, err))
		return
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	fileDir := filepath.Dir(path)

	for {
		var root model.Root
		err := dec.Decode(&root)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			notify.Warn(fmt.Sprintf("%s: malformed YAML document: %v", path, err))
			break
		}
		if root.Kind == "" && root.APIVersion == "" {
			continue
		}
		root.Metadata.EnsureDescription()
		root.Metadata.SetSourceLocation(path, fileDir)

		if root.APIVersion != model.APIVersion {
			notify.Warn(fmt.Sprintf("%s: unsupported apiVersion %q, dropping document", path, root.APIVersion))
			continue
		}

		switch root.Kind {
		case model.KindDoctorGroup:
			loadDoctorGroup(root, path, fileDir, workingDir, res, groupFiles, notify)
		case model.KindKnownError:
			loadKnownError(root, path, fileDir, workingDir, res, knownErrorFiles, notify)
		case model.KindReportLocation, model.KindReportDefinition:
			// Report rendering/upload is out of scope; parsed-and-dropped so
			// a malformed report resource doesn't block everything else in
			// the same file.
			continue
		default:
			notify.Warn(fmt.Sprintf("%s: unknown kind %q, dropping document", path, root.Kind))
		}
	}
}

func loadDoctorGroup(root model.Root, path, fileDir, workingDir string, res *Result, seen map[string]string, notify ux.Notifier) {
	root.Metadata.SetWorkingDir(workingDir)
	root.Metadata.SetBinPath(binSearchPath(fileDir))

	for _, verr := range model.ValidateDoctorGroupSpec(root.Spec) {
		notify.Warn(fmt.Sprintf("%s: schema violation: %s", path, verr.Error()))
	}

	spec, err := model.DecodeSpec[model.DoctorGroupSpec](root.Spec)
	if err != nil {
		notify.Warn(fmt.Sprintf("%s: %v", path, err))
		return
	}
	normalizeGroupSpec(&spec, fileDir, workingDir)

	name := root.Metadata.Name
	if prev, ok := seen[name]; ok {
		notify.Warn(fmt.Sprintf("duplicate ScopeDoctorGroup %q: keeping %s, dropping %s", name, prev, path))
		return
	}
	seen[name] = path

	res.Groups[name] = model.DoctorGroup{
		APIVersion: root.APIVersion,
		Kind:       root.Kind,
		Metadata:   root.Metadata,
		Spec:       spec,
	}
}

func loadKnownError(root model.Root, path, fileDir, workingDir string, res *Result, seen map[string]string, notify ux.Notifier) {
	root.Metadata.SetWorkingDir(workingDir)
	root.Metadata.SetBinPath(binSearchPath(fileDir))

	for _, verr := range model.ValidateKnownErrorSpec(root.Spec) {
		notify.Warn(fmt.Sprintf("%s: schema violation: %s", path, verr.Error()))
	}

	spec, err := model.DecodeSpec[model.KnownErrorSpec](root.Spec)
	if err != nil {
		notify.Warn(fmt.Sprintf("%s: %v", path, err))
		return
	}
	if spec.Fix != nil {
		spec.Fix.Commands = NormalizeCommands(spec.Fix.Commands, fileDir, workingDir)
	}

	name := root.Metadata.Name
	if prev, ok := seen[name]; ok {
		notify.Warn(fmt.Sprintf("duplicate ScopeKnownError %q: keeping %s, dropping %s", name, prev, path))
		return
	}
	seen[name] = path

	res.KnownErrors[name] = model.KnownError{
		APIVersion: root.APIVersion,
		Kind:       root.Kind,
		Metadata:   root.Metadata,
		Spec:       spec,
	}
}

func normalizeGroupSpec(spec *model.DoctorGroupSpec, fileDir, workingDir string) {
	for i := range spec.Actions {
		a := &spec.Actions[i]
		a.Check.Commands = NormalizeCommands(a.Check.Commands, fileDir, workingDir)
		if a.Check.Paths != nil {
			a.Check.Paths.BasePath = NormalizeCommand(a.Check.Paths.BasePath, fileDir, workingDir)
		}
		if a.Fix != nil {
			a.Fix.Commands = NormalizeCommands(a.Fix.Commands, fileDir, workingDir)
		}
	}
	if spec.Skip != nil && spec.Skip.HasCommand {
		spec.Skip.Command = NormalizeCommand(spec.Skip.Command, fileDir, workingDir)
	}
}

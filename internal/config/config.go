// Package config assembles the runtime: it loads resources, selects a file
// cache implementation, computes the desired group set, and wires an
// Env for the action runner and known-error matcher to run against.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/oscope-dev/scope/internal/cache"
	"github.com/oscope-dev/scope/internal/capture"
	"github.com/oscope-dev/scope/internal/doctor"
	"github.com/oscope-dev/scope/internal/loader"
	"github.com/oscope-dev/scope/internal/model"
	"github.com/oscope-dev/scope/internal/ux"
)

// Options is the set of knobs the CLI layer collects and hands to Load.
type Options struct {
	WorkingDir           string
	ExtraConfig          []string
	DisableDefaultConfig bool
	OnlyGroups           []string
	RunFix               bool
	CacheDir             string
	NoCache              bool
	AutoPublishReport    bool
}

// Runtime is everything a doctor run or an analyze invocation needs,
// assembled from Options plus the loaded resources.
type Runtime struct {
	Groups      map[string]model.DoctorGroup
	KnownErrors map[string]model.KnownError
	Cache       cache.FileCache
	WorkingDir  string
	RunID       string
	Desired     []string
	RunFix      bool
}

// Load reads resources from the scope path, builds the configured file
// cache, and computes the desired group set. Nothing here is fatal except
// a working-directory lookup failure; YAML/schema problems are warned by
// the loader and otherwise don't block assembly.
func Load(opts Options, notify ux.Notifier) (*Runtime, error) {
	res, err := loader.Load(loader.Options{
		WorkingDir:           opts.WorkingDir,
		ExtraConfig:          append(append([]string(nil), opts.ExtraConfig...), envConfigDirs()...),
		DisableDefaultConfig: opts.DisableDefaultConfig || envDisableDefaultConfig(),
	}, notify)
	if err != nil {
		return nil, fmt.Errorf("load resources: %w", err)
	}

	fc, err := buildCache(opts, notify)
	if err != nil {
		return nil, err
	}

	return &Runtime{
		Groups:      res.Groups,
		KnownErrors: res.KnownErrors,
		Cache:       fc,
		WorkingDir:  res.WorkingDir,
		RunID:       runID(),
		Desired:     desiredGroups(res.Groups, opts.OnlyGroups),
		RunFix:      opts.RunFix,
	}, nil
}

func buildCache(opts Options, notify ux.Notifier) (cache.FileCache, error) {
	if opts.NoCache {
		return cache.NoOpCache{}, nil
	}
	dir := opts.CacheDir
	if dir == "" {
		dir = defaultCacheDir()
	}
	return cache.NewFileBasedCache(filepath.Join(dir, "cache-file.json"), func(msg string) {
		notify.Warn(msg)
	}), nil
}

// envConfigDirs splits SCOPE_CONFIG_DIR (spec.md §6: "colon-separated or
// repeated") into extra scope-path directories on top of whatever the
// caller already passed via Options.ExtraConfig.
func envConfigDirs() []string {
	v := os.Getenv("SCOPE_CONFIG_DIR")
	if v == "" {
		return nil
	}
	var out []string
	for _, dir := range filepath.SplitList(v) {
		if dir != "" {
			out = append(out, dir)
		}
	}
	return out
}

// envDisableDefaultConfig reports whether SCOPE_DISABLE_DEFAULT_CONFIG asks
// to skip default scope-path discovery.
func envDisableDefaultConfig() bool {
	v := os.Getenv("SCOPE_DISABLE_DEFAULT_CONFIG")
	return v != "" && v != "0" && v != "false"
}

// defaultCacheDir mirrors SCOPE_DOCTOR_CACHE_DIR / the platform cache
// directory joined with "scope" (spec.md §6).
func defaultCacheDir() string {
	if v := os.Getenv("SCOPE_DOCTOR_CACHE_DIR"); v != "" {
		return v
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "scope")
}

// desiredGroups computes the initial run set: OnlyGroups if given, else
// every group with RunByDefault() true.
func desiredGroups(groups map[string]model.DoctorGroup, only []string) []string {
	if len(only) > 0 {
		return only
	}
	var out []string
	for name, g := range groups {
		if g.Spec.RunByDefault() {
			out = append(out, name)
		}
	}
	return out
}

// runID returns SCOPE_RUN_ID if set, else a freshly generated UUID.
func runID() string {
	if v := os.Getenv("SCOPE_RUN_ID"); v != "" {
		return v
	}
	return uuid.NewString()
}

// ActionEnv builds a doctor.Env from the assembled Runtime and the
// interaction/progress capabilities the CLI layer selected. RunFix gates
// the action runner's NeedsFix -> FixAllowed transition (spec.md §4.F):
// when false, every action whose check fails reports CheckFailedNoRunFix
// without attempting a fix, regardless of the action's own autofix setting.
func (rt *Runtime) ActionEnv(interaction ux.UserInteraction, logger capture.Logger, yolo bool) doctor.Env {
	return doctor.Env{
		Cache:       rt.Cache,
		WorkingDir:  rt.WorkingDir,
		Path:        os.Getenv("PATH"),
		ExtraEnv:    map[string]string{"SCOPE_RUN_ID": rt.RunID},
		Interaction: interaction,
		Logger:      logger,
		Destination: capture.StandardOut,
		Yolo:        yolo,
		RunFix:      rt.RunFix,
	}
}

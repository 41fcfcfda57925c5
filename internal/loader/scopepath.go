// Package loader discovers ".scope" directories, parses the YAML documents
// inside them into typed resources, and normalizes command tokens.
package loader

import (
	"os"
	"path/filepath"
)

const scopeDirName = ".scope"

// ScopePath computes the ordered list of directories to scan: each ancestor
// of workingDir containing a .scope directory (closest first), the user's
// home .scope, the platform config .scope, then any extra paths in the
// order given. Missing directories are not an error; they are filtered out
// by the caller when walking.
func ScopePath(workingDir string, extra []string) []string {
	var dirs []string

	dir := workingDir
	for {
		candidate := filepath.Join(dir, scopeDirName)
		if isDir(candidate) {
			dirs = append(dirs, candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if home, err := os.UserHomeDir(); err == nil {
		if candidate := filepath.Join(home, scopeDirName); isDir(candidate) {
			dirs = append(dirs, candidate)
		}
	}

	if cfg, err := os.UserConfigDir(); err == nil {
		if candidate := filepath.Join(cfg, scopeDirName); isDir(candidate) {
			dirs = append(dirs, candidate)
		}
	}

	for _, e := range extra {
		if isDir(e) {
			dirs = append(dirs, e)
		}
	}

	return dirs
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// YAMLFiles returns the sorted .yml/.yaml files directly inside dir.
func YAMLFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext == ".yml" || ext == ".yaml" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

// Package globwalk resolves glob patterns against a base directory and
// checks/updates matched files in the file cache on the caller's behalf.
package globwalk

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/oscope-dev/scope/internal/cache"
)

// Resolve expands patterns relative to base (absolute patterns are used
// as-is) and returns every matching path, deduplicated and sorted for
// deterministic iteration order.
func Resolve(base string, patterns []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string

	for _, pattern := range patterns {
		full := pattern
		if !filepath.IsAbs(pattern) {
			full = filepath.Join(base, pattern)
		}
		matches, err := filepath.Glob(full)
		if err != nil {
			return nil, fmt.Errorf("glob pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}

	sort.Strings(out)
	return out, nil
}

// HaveGlobsChanged returns true iff every file matching base/patterns has a
// cache entry for group that matches its current hash. By convention, a
// glob set matching zero files reports "unchanged" (false), which lets an
// action's check pass trivially when an optional file set is absent.
func HaveGlobsChanged(base string, patterns []string, group string, c cache.FileCache) (bool, error) {
	files, err := Resolve(base, patterns)
	if err != nil {
		return false, err
	}
	if len(files) == 0 {
		return false, nil
	}

	for _, f := range files {
		status, err := c.Check(group, f)
		if err != nil {
			return false, fmt.Errorf("check cache for %s: %w", f, err)
		}
		if status == cache.Changed {
			return true, nil
		}
	}
	return false, nil
}

// UpdateCache re-hashes every file matching base/patterns and writes the
// new hash under group in c.
func UpdateCache(base string, patterns []string, group string, c cache.FileCache) error {
	files, err := Resolve(base, patterns)
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := c.Update(group, f); err != nil {
			return fmt.Errorf("update cache for %s: %w", f, err)
		}
	}
	return nil
}

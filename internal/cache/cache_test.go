package cache

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileBasedCacheCheckUpdate(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(file, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}

	c := NewFileBasedCache(filepath.Join(dir, "cache.json"), nil)

	status, err := c.Check("group", file)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if status != Changed {
		t.Fatalf("Check() = %v, want Changed for unseen file", status)
	}

	if err := c.Update("group", file); err != nil {
		t.Fatalf("Update: %v", err)
	}

	status, err = c.Check("group", file)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if status != Matches {
		t.Fatalf("Check() = %v, want Matches after Update", status)
	}

	if err := os.WriteFile(file, []byte("changed"), 0644); err != nil {
		t.Fatal(err)
	}
	status, err = c.Check("group", file)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if status != Changed {
		t.Fatalf("Check() = %v, want Changed after modification", status)
	}
}

func TestFileBasedCacheMissingFileSentinel(t *testing.T) {
	dir := t.TempDir()
	c := NewFileBasedCache(filepath.Join(dir, "cache.json"), nil)
	missing := filepath.Join(dir, "nope.txt")

	if err := c.Update("group", missing); err != nil {
		t.Fatalf("Update: %v", err)
	}
	status, err := c.Check("group", missing)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if status != Matches {
		t.Fatalf("Check() = %v, want Matches (sentinel stable across missing-file checks)", status)
	}
}

func TestFileBasedCachePersistAndReload(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(file, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}
	cachePath := filepath.Join(dir, "nested", "cache.json")

	c := NewFileBasedCache(cachePath, nil)
	if err := c.Update("group", file); err != nil {
		t.Fatal(err)
	}
	if err := c.Persist(); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	reloaded := NewFileBasedCache(cachePath, nil)
	status, err := reloaded.Check("group", file)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if status != Matches {
		t.Fatalf("Check() after reload = %v, want Matches", status)
	}
}

func TestFileBasedCacheCorruptFileRecoversEmpty(t *testing.T) {
	dir := t.TempDir()
	cachePath := filepath.Join(dir, "cache.json")
	if err := os.WriteFile(cachePath, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	var warned string
	c := NewFileBasedCache(cachePath, func(msg string) { warned = msg })
	if warned == "" {
		t.Fatal("expected a warning for corrupt cache file")
	}

	file := filepath.Join(dir, "a.txt")
	os.WriteFile(file, []byte("x"), 0644)
	status, err := c.Check("group", file)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if status != Changed {
		t.Fatalf("Check() = %v, want Changed on recovered-empty cache", status)
	}
}

func TestNoOpCacheAlwaysChanged(t *testing.T) {
	var c NoOpCache
	status, err := c.Check("g", "/any/path")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if status != Changed {
		t.Fatalf("Check() = %v, want Changed", status)
	}
	if err := c.Update("g", "/any/path"); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := c.Persist(); err != nil {
		t.Fatalf("Persist: %v", err)
	}
}

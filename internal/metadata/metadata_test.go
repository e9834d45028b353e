package metadata

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/goplus/recipe/recipe"
)

func memProject(files map[string]string) *recipe.Project {
	fsys := fstest.MapFS{}
	for name, data := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(data)}
	}
	return &recipe.Project{DirFS: fsys}
}

func fullStore() map[string]string {
	return map[string]string{
		"meta/version":     "0.0.1\n",
		"meta/license":     "BSD-3-Clause, AGPL-3.0-or-later\n",
		"meta/url":         "https://github.com/msfrank/chord\n",
		"meta/description": "",
	}
}

func TestLoad(t *testing.T) {
	id, err := New(memProject(fullStore()), "").Load("chord")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := recipe.Identity{
		Name:    "chord",
		Version: "0.0.1",
		License: "BSD-3-Clause, AGPL-3.0-or-later",
		URL:     "https://github.com/msfrank/chord",
	}
	if id != want {
		t.Errorf("Load() = %+v, want %+v", id, want)
	}
}

func TestLoad_Missing(t *testing.T) {
	for _, key := range []string{KeyVersion, KeyLicense, KeyURL, KeyDescription} {
		t.Run(key, func(t *testing.T) {
			files := fullStore()
			delete(files, "meta/"+key)
			_, err := New(memProject(files), "").Load("chord")
			if !errors.Is(err, recipe.ErrMetadataMissing) {
				t.Fatalf("Load() error = %v, want ErrMetadataMissing", err)
			}
			var missing *recipe.MetadataMissingError
			if !errors.As(err, &missing) || missing.Key != key {
				t.Errorf("Load() error = %v, want key %q", err, key)
			}
		})
	}
}

func TestLoad_EmptyVersion(t *testing.T) {
	for _, v := range []string{"", "   ", "\n"} {
		files := fullStore()
		files["meta/version"] = v
		_, err := New(memProject(files), "").Load("chord")
		if !errors.Is(err, recipe.ErrMetadataMissing) {
			t.Errorf("Load() with version %q error = %v, want ErrMetadataMissing", v, err)
		}
	}
}

func TestLoad_VersionForms(t *testing.T) {
	for _, v := range []string{"0.0.1", "v1.2.3", "1.0.0-rc.1", "2", "2.1", "1.0.2u", "2024.01.15", "0.0.1~dev", "1.2.3.4"} {
		files := fullStore()
		files["meta/version"] = v
		id, err := New(memProject(files), "").Load("chord")
		if err != nil {
			t.Errorf("Load() with version %q error = %v", v, err)
			continue
		}
		if id.Version != v {
			t.Errorf("Load() version = %q, want %q", id.Version, v)
		}
	}
}

func TestIsSemver(t *testing.T) {
	tests := map[string]bool{
		"0.0.1":      true,
		"v1.2.3":     true,
		"1.0.0-rc.1": true,
		"1.0.2u":     false,
		"0.0.1~dev":  false,
		"1.2.3.4":    false,
	}
	for v, want := range tests {
		if got := IsSemver(v); got != want {
			t.Errorf("IsSemver(%q) = %v, want %v", v, got, want)
		}
	}
}

func TestLoad_CustomDirOnDisk(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "package", "meta")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	for key, val := range map[string]string{
		KeyVersion: "1.4.0", KeyLicense: "MIT", KeyURL: "https://example.org", KeyDescription: "demo",
	} {
		if err := os.WriteFile(filepath.Join(dir, key), []byte(val), 0644); err != nil {
			t.Fatal(err)
		}
	}
	id, err := New(recipe.NewProject(root), "package/meta").Load("demo")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if id.Version != "1.4.0" || id.Description != "demo" {
		t.Errorf("Load() = %+v", id)
	}
}

func TestGet(t *testing.T) {
	l := New(memProject(fullStore()), "")
	if got, err := l.Get(KeyURL); err != nil || got != "https://github.com/msfrank/chord" {
		t.Errorf("Get(url) = %q, %v", got, err)
	}
	if _, err := l.Get("homepage"); !errors.Is(err, recipe.ErrMetadataMissing) {
		t.Errorf("Get(homepage) error = %v, want ErrMetadataMissing", err)
	}
}

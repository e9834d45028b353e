// Package pkginfo emits the packaging descriptor consumers of the built
// package read to locate it.
package pkginfo

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/goplus/recipe/recipe"
)

// FileName is the name of the emitted descriptor.
const FileName = "package_info.json"

// Descriptor is the packaging descriptor of one package.
type Descriptor struct {
	Name          string   `json:"name" yaml:"name"`
	Version       string   `json:"version" yaml:"version"`
	License       string   `json:"license,omitempty" yaml:"license,omitempty"`
	URL           string   `json:"url,omitempty" yaml:"url,omitempty"`
	CMakeFindMode string   `json:"cmake_find_mode" yaml:"cmake_find_mode"`
	BuildDirs     []string `json:"builddirs" yaml:"builddirs"`
}

// Describe builds the descriptor of the package identified by id.
func Describe(id recipe.Identity, info recipe.PackageInfo) (Descriptor, error) {
	for _, dir := range info.BuildDirs {
		if !filepath.IsLocal(filepath.FromSlash(dir)) {
			return Descriptor{}, fmt.Errorf("build dir %q is not relative to the package", dir)
		}
	}
	mode := info.CMakeFindMode
	if mode == "" {
		mode = "config"
	}
	return Descriptor{
		Name:          id.Name,
		Version:       id.Version,
		License:       id.License,
		URL:           id.URL,
		CMakeFindMode: mode,
		BuildDirs:     slices.Clone(info.BuildDirs),
	}, nil
}

// Emit writes d as dir/package_info.json and returns the written path.
func Emit(d Descriptor, dir string) (string, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal package info: %w", err)
	}
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// Package layout computes the directory layout of a configured project.
package layout

import "path/filepath"

// BuildDir returns the build tree of root for buildType:
// <root>/build/<buildType>, or <root>/build when buildType is empty.
func BuildDir(root, buildType string) string {
	if buildType == "" {
		return filepath.Join(root, "build")
	}
	return filepath.Join(root, "build", buildType)
}

// GeneratorsDir returns the directory generated configuration files are
// written to.
func GeneratorsDir(root, buildType string) string {
	return filepath.Join(BuildDir(root, buildType), "generators")
}

// InstallDir returns the default install prefix of root.
func InstallDir(root, buildType string) string {
	return filepath.Join(BuildDir(root, buildType), "install")
}

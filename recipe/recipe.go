// Package recipe declares what a package needs to be configured: its
// identity, options, dependencies, toolchain variables, dependency target
// overrides and packaging facts.
package recipe

import (
	"fmt"
	"slices"
	"strings"
)

// Identity is the identity of the package a recipe builds. Name is fixed
// by the recipe; the other facts come from the metadata store.
type Identity struct {
	Name        string
	Version     string
	License     string
	URL         string
	Description string
}

// VarType is the CMake cache type of a toolchain variable.
type VarType string

const (
	TypeString VarType = "STRING"
	TypePath   VarType = "PATH"
	TypeBool   VarType = "BOOL"
)

// EnvVar maps a key of a dependency's build environment to a toolchain
// variable. The variable is omitted when the key is absent.
type EnvVar struct {
	Name       string
	Dependency string
	Key        string
	Type       VarType
}

// OptionVar maps an option to a toolchain variable. The variable is only
// emitted when the resolved option is truthy.
type OptionVar struct {
	Name   string
	Option string
	Type   VarType
}

// Toolchain declares the variables synthesized for the build driver.
type Toolchain struct {
	VersionVar string // mandatory, holds the package version
	Env        []EnvVar
	Options    []OptionVar
}

// names returns every variable name declared by t, in declaration order.
func (t Toolchain) names() []string {
	names := []string{t.VersionVar}
	for _, v := range t.Env {
		names = append(names, v.Name)
	}
	for _, v := range t.Options {
		names = append(names, v.Name)
	}
	return names
}

// PropertyOverride re-tags a dependency target in the generated discovery
// files. Target has the form "pkg::component".
type PropertyOverride struct {
	Target   string
	Property string
	Value    string
}

// SplitTarget splits "pkg::component" into its parts.
func SplitTarget(target string) (pkg, component string, ok bool) {
	pkg, component, ok = strings.Cut(target, "::")
	if !ok || pkg == "" || component == "" {
		return "", "", false
	}
	return pkg, component, true
}

// PackageInfo is static metadata attached to the produced package for its
// consumers.
type PackageInfo struct {
	CMakeFindMode string   // "none" disables the driver's own discovery mode
	BuildDirs     []string // extra search path fragments, relative to the package
}

// -----------------------------------------------------------------------------

// Recipe is the full declaration of one package.
type Recipe struct {
	Name      string
	MinCppStd string
	Options   []OptionSpec
	Requires  Requires
	Toolchain Toolchain
	Overrides []PropertyOverride
	Package   PackageInfo
}

// Option returns the OptionSpec declared under key.
func (r *Recipe) Option(key string) (OptionSpec, bool) {
	for _, spec := range r.Options {
		if spec.Key == key {
			return spec, true
		}
	}
	return OptionSpec{}, false
}

// Check verifies that the declaration is self consistent: defaults lie in
// their domains and every reference points at something declared.
func (r *Recipe) Check() error {
	if r.Name == "" {
		return fmt.Errorf("recipe has no name")
	}
	seen := make(map[string]bool)
	for _, spec := range r.Options {
		if seen[spec.Key] {
			return fmt.Errorf("option %q declared twice", spec.Key)
		}
		seen[spec.Key] = true
		if _, ok := spec.Domain.Admit(spec.Default); !ok {
			return fmt.Errorf("option %q: default %s not in %s", spec.Key, spec.Default, spec.Domain)
		}
	}

	if r.Toolchain.VersionVar == "" {
		return fmt.Errorf("toolchain has no version variable")
	}
	names := r.Toolchain.names()
	for i, name := range names {
		if name == "" {
			return fmt.Errorf("toolchain variable %d has no name", i)
		}
		if slices.Index(names, name) != i {
			return fmt.Errorf("toolchain variable %s declared twice", name)
		}
	}
	for _, v := range r.Toolchain.Env {
		if _, ok := r.Requires.Lookup(v.Dependency); !ok {
			return fmt.Errorf("toolchain variable %s reads undeclared dependency %q", v.Name, v.Dependency)
		}
	}
	for _, v := range r.Toolchain.Options {
		if _, ok := r.Option(v.Option); !ok {
			return fmt.Errorf("toolchain variable %s reads undeclared option %q", v.Name, v.Option)
		}
	}

	for _, o := range r.Overrides {
		pkg, _, ok := SplitTarget(o.Target)
		if !ok {
			return fmt.Errorf("override target %q: want pkg::component", o.Target)
		}
		if _, ok := r.Requires.Lookup(pkg); !ok {
			return fmt.Errorf("override target %q: %q is not a dependency", o.Target, pkg)
		}
	}
	return nil
}

package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/goplus/recipe/internal/deps"
	"github.com/goplus/recipe/internal/pkginfo"
	"github.com/goplus/recipe/x/cmake"
)

// Artifact file names.
const (
	ToolchainFile = "recipe_toolchain.cmake"
	VariablesFile = "variables.json"

	// MarkerFile marks a directory as written by Emit. Emit only replaces
	// directories that are empty or carry it.
	MarkerFile = ".recipe-generated"
)

// Option keys the driver maps to its own switches instead of toolchain
// variables.
const (
	OptShared    = "shared"
	OptBuildType = "build_type"
)

// BuildType returns the build type of res: the build_type option when the
// recipe declares one, else the environment's.
func (res *Result) BuildType() string {
	if v, ok := res.Options.Get(OptBuildType).Get(); ok && v != "" {
		return v
	}
	return res.Env.BuildType
}

// Driver returns a CMake driver carrying the synthesized variables.
func (res *Result) Driver(sourceDir, buildDir, installDir string) (*cmake.CMake, error) {
	c := cmake.New(sourceDir, buildDir, installDir)
	c.BuildType(res.BuildType())
	if shared, ok := res.Options.Get(OptShared).AsBool(); ok {
		c.SharedLibs(shared)
	}
	for _, name := range res.Variables.Names() {
		v := res.Variables[name]
		if err := c.DefineTyped(name, string(v.Type), v.Value); err != nil {
			return nil, err
		}
	}
	return c, nil
}

type variableJSON struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Emit writes every artifact of res into dir and returns the written file
// names, sorted. Files are staged in a sibling directory that replaces dir
// only once all of them are written, so a failure leaves dir untouched.
// A non-empty dir is only replaced when an earlier Emit wrote it.
func Emit(res *Result, dir string) ([]string, error) {
	if err := checkOwned(dir); err != nil {
		return nil, err
	}
	parent := filepath.Dir(dir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return nil, err
	}
	tmp, err := os.MkdirTemp(parent, "."+filepath.Base(dir)+"-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging dir: %w", err)
	}
	if err := os.Chmod(tmp, 0o755); err != nil {
		os.RemoveAll(tmp)
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			os.RemoveAll(tmp)
		}
	}()

	if err := writeArtifacts(res, tmp); err != nil {
		return nil, err
	}
	if err := replaceDir(tmp, dir); err != nil {
		return nil, err
	}
	committed = true

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Name() != MarkerFile {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// checkOwned fails unless dir is absent, empty or marked as ours.
func checkOwned(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("output %s is not a directory", dir)
	}
	if _, err := os.Stat(filepath.Join(dir, MarkerFile)); err == nil {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		return fmt.Errorf("refusing to replace %s: it is not empty and was not generated by recipe", dir)
	}
	return nil
}

func writeArtifacts(res *Result, dir string) error {
	marker := "# Generated for " + res.Identity.Name + ". Emit replaces this directory as a whole.\n"
	if err := os.WriteFile(filepath.Join(dir, MarkerFile), []byte(marker), 0o644); err != nil {
		return err
	}
	driver, err := res.Driver("", "", "")
	if err != nil {
		return err
	}
	if err := driver.WriteToolchain(filepath.Join(dir, ToolchainFile)); err != nil {
		return fmt.Errorf("failed to write toolchain: %w", err)
	}

	vars := make(map[string]variableJSON, len(res.Variables))
	for name, v := range res.Variables {
		vars[name] = variableJSON{Type: string(v.Type), Value: v.Value}
	}
	data, err := json.MarshalIndent(vars, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal variables: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, VariablesFile), append(data, '\n'), 0o644); err != nil {
		return err
	}

	if _, err := deps.Generate(res.Deps, dir); err != nil {
		return fmt.Errorf("failed to generate discovery files: %w", err)
	}
	if _, err := pkginfo.Emit(res.Package, dir); err != nil {
		return fmt.Errorf("failed to write package info: %w", err)
	}
	return nil
}

// replaceDir moves src to dst, replacing a dst that checkOwned accepted.
func replaceDir(src, dst string) error {
	if _, err := os.Stat(dst); os.IsNotExist(err) {
		return os.Rename(src, dst)
	}
	old := src + ".old"
	if err := os.Rename(dst, old); err != nil {
		return fmt.Errorf("failed to move aside %s: %w", dst, err)
	}
	if err := os.Rename(src, dst); err != nil {
		os.Rename(old, dst)
		return fmt.Errorf("failed to install %s: %w", dst, err)
	}
	return os.RemoveAll(old)
}

package internal

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goplus/recipe/internal/archive"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const testGraph = `nodes:
  - ref: protobuf/25.3@timbre
    package_folder: /deps/protobuf
    buildenv:
      PROTOBUF_PROTOC: /deps/protobuf/bin/protoc
  - ref: grpc/1.62.0@timbre
    buildenv:
      GRPC_CPP_PLUGIN: /deps/grpc/bin/grpc_cpp_plugin
  - ref: openssl/3.2.0@timbre
    package_folder: /deps/openssl
    targets: ["openssl::ssl", "openssl::crypto"]
`

const testProfile = `settings:
  os: Linux
  arch: x86_64
  compiler:
    name: gcc
    version: "13"
    cppstd: "20"
graph: graph.yaml
`

func setupProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"meta/version":     "0.0.1\n",
		"meta/license":     "BSD-3-Clause, AGPL-3.0-or-later\n",
		"meta/url":         "https://github.com/msfrank/chord\n",
		"meta/description": "",
		"graph.yaml":       testGraph,
		"recipe.yaml":      testProfile,
	}
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// resetFlags restores every flag to its default so commands can run more
// than once in a test binary.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestGenerate(t *testing.T) {
	root := setupProject(t)
	archiveDest := filepath.Join(t.TempDir(), "generators.tar.xz")
	out, err := execute(t, "generate", "-C", root, "--no-color",
		"-O", "enable_sanitizer=True", "-O", "sanitizer=address",
		"-a", archiveDest)
	require.NoError(t, err)

	genDir := filepath.Join(root, "build", "Debug", "generators")
	require.Contains(t, out, filepath.Join(genDir, "recipe_toolchain.cmake"))

	toolchain, err := os.ReadFile(filepath.Join(genDir, "recipe_toolchain.cmake"))
	require.NoError(t, err)
	for _, want := range []string{
		`set(CHORD_PACKAGE_VERSION "0.0.1" CACHE STRING "" FORCE)`,
		`set(ENABLE_SANITIZER "ON" CACHE BOOL "" FORCE)`,
		`set(SANITIZER "address" CACHE STRING "" FORCE)`,
		`set(PROTOBUF_PROTOC "/deps/protobuf/bin/protoc" CACHE PATH "" FORCE)`,
		`set(BUILD_SHARED_LIBS ON CACHE BOOL "" FORCE)`,
	} {
		require.Contains(t, string(toolchain), want)
	}
	require.NotContains(t, string(toolchain), "ENABLE_PROFILER")

	f, err := os.Open(archiveDest)
	require.NoError(t, err)
	defer f.Close()
	packed, err := archive.ReadTarXz(f)
	require.NoError(t, err)
	require.Contains(t, packed, "package_info.json")
	require.Contains(t, packed, "openssl-config.cmake")
}

func TestGenerate_OutputAndSettings(t *testing.T) {
	root := setupProject(t)
	outDir := filepath.Join(t.TempDir(), "gen")
	_, err := execute(t, "generate", "-C", root, "-o", outDir, "-O", "build_type=Release")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(outDir, "variables.json"))
	require.NoError(t, err)

	_, err = execute(t, "generate", "-C", root, "-o", outDir, "-s", "compiler.cppstd=17")
	require.ErrorContains(t, err, "compiler.cppstd")
}

func TestGenerate_OutputIntoProjectRefused(t *testing.T) {
	root := setupProject(t)
	_, err := execute(t, "generate", "-C", root, "-o", ".")
	require.Error(t, err)
	for _, name := range []string{"meta/version", "recipe.yaml", "graph.yaml"} {
		_, err := os.Stat(filepath.Join(root, filepath.FromSlash(name)))
		require.NoError(t, err, "%s removed", name)
	}
}

func TestGenerate_Errors(t *testing.T) {
	root := setupProject(t)
	tests := []struct {
		name string
		args []string
	}{
		{"bad option", []string{"-O", "sanitizer=leak"}},
		{"unknown option", []string{"-O", "docs=True"}},
		{"missing graph", []string{"--graph", "nope.yaml"}},
		{"bad archive name", []string{"-a", "out.zip"}},
		{"unknown recipe", []string{"-r", "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"generate", "-C", root}, tt.args...)
			_, err := execute(t, args...)
			require.Error(t, err)
		})
	}
}

func TestOptions(t *testing.T) {
	out, err := execute(t, "options", "--no-color")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7)
	require.Contains(t, lines[0], "OPTION")
	require.Contains(t, out, "[address, memory, thread, ub, None]")
	require.Contains(t, out, "[Debug, Release]")
}

func TestInspect(t *testing.T) {
	root := setupProject(t)
	out, err := execute(t, "inspect", "-C", root)
	require.NoError(t, err)

	var got inspectOutput
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	require.Equal(t, "chord", got.Name)
	require.Equal(t, "0.0.1", got.Version)
	require.Equal(t, "https://github.com/msfrank/chord", got.URL)
	require.Len(t, got.Requires, 15)
	require.Equal(t, "lyric/0.0.1", got.Requires[0])
	require.Contains(t, got.Variables, "GRPC_CPP_PLUGIN")
	require.Equal(t, "none", got.Package.CMakeFindMode)
	require.Equal(t, []string{"lib/cmake/chord"}, got.Package.BuildDirs)
	require.Len(t, got.Overrides, 2)
}

func TestInspect_MissingMetadata(t *testing.T) {
	_, err := execute(t, "inspect", "-C", t.TempDir())
	require.Error(t, err)
}

func TestArchivePath(t *testing.T) {
	got, err := archivePath("out.tar.xz")
	require.NoError(t, err)
	require.True(t, filepath.IsAbs(got))

	_, err = archivePath("out.tar.gz")
	require.Error(t, err)
}

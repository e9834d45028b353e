package recipe

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goplus/recipe/mod/module"
)

func testRecipe() *Recipe {
	return &Recipe{
		Name:      "demo",
		MinCppStd: "20",
		Options:   testSpecs(),
		Requires:  MustRequire("protobuf/25.3@timbre", "openssl/3.2.0@timbre", "lyric/0.0.1"),
		Toolchain: Toolchain{
			VersionVar: "DEMO_PACKAGE_VERSION",
			Env:        []EnvVar{{Name: "PROTOBUF_PROTOC", Dependency: "protobuf", Key: "PROTOBUF_PROTOC", Type: TypePath}},
			Options:    []OptionVar{{Name: "SANITIZER", Option: "sanitizer", Type: TypeString}},
		},
		Overrides: []PropertyOverride{{Target: "openssl::ssl", Property: "cmake_target_name", Value: "OpenSSL::SSL"}},
	}
}

func TestRequire(t *testing.T) {
	r, err := Require("lyric/0.0.1", "absl/20230802.1@timbre")
	if err != nil {
		t.Fatalf("Require() error = %v", err)
	}
	want := []module.Version{
		{Path: "lyric", Version: "0.0.1"},
		{Path: "absl", Version: "20230802.1", Channel: "timbre"},
	}
	if got := r.Deps(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Requires.Deps() = %#v, want %#v", got, want)
	}
	if got := r.Channel("timbre"); len(got) != 1 || got[0].Path != "absl" {
		t.Errorf("Requires.Channel(timbre) = %v", got)
	}
	if got := r.Channel(""); len(got) != 1 || got[0].Path != "lyric" {
		t.Errorf("Requires.Channel(\"\") = %v", got)
	}
}

func TestRequire_Errors(t *testing.T) {
	if _, err := Require("fmt/9.1.0@timbre", "fmt/10.0.0"); err == nil {
		t.Error("Require() with duplicate name: error = nil")
	}
	if _, err := Require("broken"); err == nil {
		t.Error("Require() with malformed ref: error = nil")
	}
}

func TestRequires_DepsIsCopy(t *testing.T) {
	r := MustRequire("lyric/0.0.1")
	deps := r.Deps()
	deps[0].Version = "9.9.9"
	if v, _ := r.Lookup("lyric"); v.Version != "0.0.1" {
		t.Errorf("Requires mutated through Deps(): %v", v)
	}
}

func TestSplitTarget(t *testing.T) {
	tests := []struct {
		target    string
		pkg, comp string
		ok        bool
	}{
		{"openssl::crypto", "openssl", "crypto", true},
		{"openssl", "", "", false},
		{"::crypto", "", "", false},
		{"openssl::", "", "", false},
	}
	for _, tt := range tests {
		pkg, comp, ok := SplitTarget(tt.target)
		if pkg != tt.pkg || comp != tt.comp || ok != tt.ok {
			t.Errorf("SplitTarget(%q) = %q, %q, %v", tt.target, pkg, comp, ok)
		}
	}
}

func TestRecipeCheck(t *testing.T) {
	if err := testRecipe().Check(); err != nil {
		t.Fatalf("Check() error = %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(r *Recipe)
		wantErr string
	}{
		{"no name", func(r *Recipe) { r.Name = "" }, "no name"},
		{"bad default", func(r *Recipe) { r.Options[0].Default = String("sometimes") }, "default"},
		{"duplicate option", func(r *Recipe) { r.Options = append(r.Options, r.Options[0]) }, "declared twice"},
		{"no version var", func(r *Recipe) { r.Toolchain.VersionVar = "" }, "version variable"},
		{"duplicate var", func(r *Recipe) { r.Toolchain.Options[0].Name = "PROTOBUF_PROTOC" }, "declared twice"},
		{"undeclared dep", func(r *Recipe) { r.Toolchain.Env[0].Dependency = "grpc" }, "undeclared dependency"},
		{"undeclared option", func(r *Recipe) { r.Toolchain.Options[0].Option = "enable_profiler" }, "undeclared option"},
		{"malformed target", func(r *Recipe) { r.Overrides[0].Target = "openssl" }, "pkg::component"},
		{"target not a dep", func(r *Recipe) { r.Overrides[0].Target = "boost::system" }, "not a dependency"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testRecipe()
			tt.mutate(r)
			err := r.Check()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Check() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestErrorsMatchSentinels(t *testing.T) {
	tests := []struct {
		err  error
		want error
	}{
		{&MetadataMissingError{Key: "version"}, ErrMetadataMissing},
		{&UnsupportedEnvironmentError{Fact: "compiler.cppstd"}, ErrUnsupportedEnvironment},
		{&InvalidOptionValueError{Key: "shared"}, ErrInvalidOptionValue},
		{&UnknownOptionError{Key: "x"}, ErrUnknownOption},
		{&DependencyEnvironmentMissingError{Variable: "V"}, ErrDependencyEnvironmentMissing},
		{&UnknownTargetError{Target: "a::b"}, ErrUnknownTarget},
		{&ConflictingOverrideError{Target: "a::b"}, ErrConflictingOverride},
		{&VersionMismatchError{Dependency: "fmt"}, ErrVersionMismatch},
	}
	for _, tt := range tests {
		if !errors.Is(tt.err, tt.want) {
			t.Errorf("errors.Is(%T, %v) = false", tt.err, tt.want)
		}
		if tt.err.Error() == "" {
			t.Errorf("%T has empty message", tt.err)
		}
	}
}

func TestProject_ReadFile(t *testing.T) {
	proj := &Project{
		DirFS: fstest.MapFS{
			"meta/version": {Data: []byte("0.0.1\n")},
		},
	}

	t.Run("existing file", func(t *testing.T) {
		got, err := proj.ReadFile("meta/version")
		if err != nil {
			t.Fatalf("Project.ReadFile() error = %v", err)
		}
		if string(got) != "0.0.1\n" {
			t.Fatalf("Project.ReadFile() = %q, want %q", string(got), "0.0.1\n")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := proj.ReadFile("meta/license"); err == nil {
			t.Fatalf("Project.ReadFile() error = nil, want error")
		}
	})
}

func TestNewProject(t *testing.T) {
	dir := t.TempDir()
	proj := NewProject(dir)
	if proj.Dir != dir || proj.DirFS == nil {
		t.Fatalf("NewProject(%q) = %#v", dir, proj)
	}
}

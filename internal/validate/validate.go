// Package validate checks that the build environment can configure a recipe.
package validate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goplus/recipe/recipe"
	"github.com/goplus/recipe/x/gnu"
)

// Environment holds the settings of the active toolchain.
type Environment struct {
	OS              string
	Arch            string
	Compiler        string
	CompilerVersion string
	CppStd          string // empty means the compiler default
	BuildType       string
}

// Validate fails with recipe.ErrUnsupportedEnvironment unless env supports
// at least the language standard minCppStd.
func Validate(env Environment, minCppStd string) error {
	if minCppStd == "" {
		return nil
	}
	want, err := stdYear(minCppStd)
	if err != nil {
		return fmt.Errorf("recipe requires invalid language standard: %w", err)
	}

	fact := "compiler.cppstd"
	std := env.CppStd
	if std == "" {
		fact = "default cppstd of " + env.Compiler + " " + env.CompilerVersion
		std = DefaultCppStd(env.Compiler, env.CompilerVersion)
		if std == "" {
			return &recipe.UnsupportedEnvironmentError{
				Fact: "compiler.cppstd",
				Got:  "",
				Want: ">= " + minCppStd + " (compiler default unknown, set it explicitly)",
			}
		}
	}
	got, err := stdYear(std)
	if err != nil {
		return &recipe.UnsupportedEnvironmentError{Fact: fact, Got: std, Want: ">= " + minCppStd}
	}
	if got < want {
		return &recipe.UnsupportedEnvironmentError{Fact: fact, Got: std, Want: ">= " + minCppStd}
	}
	return nil
}

// stdYear maps a language standard ("98", "gnu17", "20") to its year so
// that standards compare chronologically.
func stdYear(std string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(std, "gnu"))
	if err != nil || n < 0 || n > 99 {
		return 0, fmt.Errorf("unknown language standard %q", std)
	}
	if n >= 98 {
		return 1900 + n, nil
	}
	return 2000 + n, nil
}

// DefaultCppStd returns the language standard a compiler uses when none is
// requested, or "" when unknown.
func DefaultCppStd(compiler, version string) string {
	switch compiler {
	case "gcc":
		if gnu.Compare(version, "11") >= 0 {
			return "gnu17"
		}
		if gnu.Compare(version, "6") >= 0 {
			return "gnu14"
		}
		return "gnu98"
	case "clang":
		if gnu.Compare(version, "16") >= 0 {
			return "gnu17"
		}
		if gnu.Compare(version, "6") >= 0 {
			return "gnu14"
		}
		return "gnu98"
	case "apple-clang":
		return "gnu98"
	case "msvc":
		return "14"
	}
	return ""
}

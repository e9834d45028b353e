// Package synth produces the toolchain variable set handed to the native
// build driver.
package synth

import (
	"fmt"
	"sort"

	"github.com/goplus/recipe/mod/graph"
	"github.com/goplus/recipe/recipe"
)

// Variable is one toolchain variable.
type Variable struct {
	Type  recipe.VarType
	Value string
}

// Bool reports the boolean value of a BOOL variable.
func (v Variable) Bool() bool {
	return v.Type == recipe.TypeBool && v.Value == "ON"
}

// VariableSet maps variable names to values. Each name is written once.
type VariableSet map[string]Variable

// Names returns the variable names in sorted order.
func (s VariableSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s VariableSet) add(name string, v Variable) error {
	if _, ok := s[name]; ok {
		return fmt.Errorf("toolchain variable %s written twice", name)
	}
	s[name] = v
	return nil
}

// Synthesize combines the package identity, resolved options and the
// dependencies' build environments into the variable set declared by tc.
//
// The version variable is mandatory. Environment variables are omitted when
// the dependency or key is absent. BOOL option variables are only emitted
// for true options, so "not requested" and "requested as false" both leave
// them out; other option variables are emitted for any non-empty value,
// verbatim.
func Synthesize(id recipe.Identity, opts recipe.Options, g *graph.Graph, tc recipe.Toolchain) (VariableSet, error) {
	if tc.VersionVar == "" {
		return nil, &recipe.DependencyEnvironmentMissingError{Variable: "<version>", Reason: "no version variable declared"}
	}
	if id.Version == "" {
		return nil, &recipe.DependencyEnvironmentMissingError{Variable: tc.VersionVar, Reason: "package version is empty"}
	}

	vars := VariableSet{}
	if err := vars.add(tc.VersionVar, Variable{Type: recipe.TypeString, Value: id.Version}); err != nil {
		return nil, err
	}

	for _, ev := range tc.Env {
		val, ok := g.Env(ev.Dependency, ev.Key)
		if !ok {
			continue
		}
		if err := vars.add(ev.Name, Variable{Type: typeOr(ev.Type, recipe.TypePath), Value: val}); err != nil {
			return nil, err
		}
	}

	for _, ov := range tc.Options {
		v := opts.Get(ov.Option)
		typ := typeOr(ov.Type, recipe.TypeString)
		val := v.String()
		if typ == recipe.TypeBool {
			if !v.Truthy() {
				continue
			}
			val = "ON"
		} else if !v.NonEmpty() {
			continue
		}
		if err := vars.add(ov.Name, Variable{Type: typ, Value: val}); err != nil {
			return nil, err
		}
	}
	return vars, nil
}

func typeOr(t, def recipe.VarType) recipe.VarType {
	if t == "" {
		return def
	}
	return t
}

// Package deps annotates the resolved dependency graph with the recipe's
// property overrides and renders the discovery files the build driver
// consumes to locate each dependency.
package deps

import (
	"fmt"
	"slices"
	"sort"

	"github.com/goplus/recipe/mod/graph"
	"github.com/goplus/recipe/recipe"
)

// Supported property keys.
const (
	PropTargetName = "cmake_target_name"
	PropFileName   = "cmake_file_name"
)

// Target is one linkable target of a dependency.
type Target struct {
	Name      string // "pkg::component" as declared by the dependency
	CMakeName string // effective name in the discovery files
}

// Package is a graph node together with its effective discovery names.
type Package struct {
	Node     *graph.Node
	FileName string
	Targets  []Target
}

// Annotated is the dependency graph after property overrides.
type Annotated struct {
	pkgs []*Package
}

// Packages returns the annotated packages in graph order.
func (a *Annotated) Packages() []*Package {
	if a == nil {
		return nil
	}
	return slices.Clone(a.pkgs)
}

// Lookup returns the annotated package of the named dependency.
func (a *Annotated) Lookup(name string) (*Package, bool) {
	if a == nil {
		return nil, false
	}
	for _, p := range a.pkgs {
		if p.Node.Name() == name {
			return p, true
		}
	}
	return nil, false
}

// TargetName returns the effective name of target, or "" if target is
// unknown.
func (a *Annotated) TargetName(target string) string {
	pkg, _, ok := recipe.SplitTarget(target)
	if !ok {
		return ""
	}
	p, ok := a.Lookup(pkg)
	if !ok {
		return ""
	}
	for _, t := range p.Targets {
		if t.Name == target {
			return t.CMakeName
		}
	}
	return ""
}

type propKey struct {
	scope    string // target for cmake_target_name, package for cmake_file_name
	property string
}

// Apply overlays overrides on g. Every override must name a target the
// graph declares; two overrides may only set the same property twice with
// the same value. The result does not depend on the order of overrides.
func Apply(g *graph.Graph, overrides []recipe.PropertyOverride) (*Annotated, error) {
	values := make(map[propKey]string, len(overrides))
	for _, o := range sorted(overrides) {
		pkg, _, ok := recipe.SplitTarget(o.Target)
		if !ok {
			return nil, &recipe.UnknownTargetError{Target: o.Target, Reason: "want pkg::component"}
		}
		n, ok := g.Lookup(pkg)
		if !ok {
			return nil, &recipe.UnknownTargetError{Target: o.Target, Reason: fmt.Sprintf("dependency %q is not in the graph", pkg)}
		}
		if !n.HasTarget(o.Target) {
			return nil, &recipe.UnknownTargetError{Target: o.Target, Reason: fmt.Sprintf("%s declares no such target", n.Ref)}
		}

		var key propKey
		switch o.Property {
		case PropTargetName:
			key = propKey{scope: o.Target, property: o.Property}
		case PropFileName:
			key = propKey{scope: pkg, property: o.Property}
		default:
			return nil, fmt.Errorf("override of %s: unsupported property %q", o.Target, o.Property)
		}
		if o.Value == "" {
			return nil, fmt.Errorf("override of %s: empty value for %s", o.Target, o.Property)
		}
		if prev, ok := values[key]; ok && prev != o.Value {
			return nil, &recipe.ConflictingOverrideError{
				Target:   o.Target,
				Property: o.Property,
				Values:   [2]string{prev, o.Value},
			}
		}
		values[key] = o.Value
	}

	a := &Annotated{}
	for _, n := range g.Nodes() {
		p := &Package{Node: n, FileName: n.FileName()}
		if v, ok := values[propKey{scope: n.Name(), property: PropFileName}]; ok {
			p.FileName = v
		}
		for _, target := range n.Targets {
			t := Target{Name: target, CMakeName: target}
			if v, ok := values[propKey{scope: target, property: PropTargetName}]; ok {
				t.CMakeName = v
			}
			p.Targets = append(p.Targets, t)
		}
		a.pkgs = append(a.pkgs, p)
	}
	if err := a.checkUnique(); err != nil {
		return nil, err
	}
	return a, nil
}

// checkUnique rejects two packages sharing a discovery file and two targets
// sharing an effective name: the first would overwrite a file, the second
// would merge the targets.
func (a *Annotated) checkUnique() error {
	files := make(map[string]string)
	names := make(map[string]string)
	for _, p := range a.pkgs {
		if prev, ok := files[p.FileName]; ok {
			return &recipe.ConflictingOverrideError{
				Target:   p.Node.Name(),
				Property: PropFileName,
				Values:   [2]string{prev + "=" + p.FileName, p.Node.Name() + "=" + p.FileName},
			}
		}
		files[p.FileName] = p.Node.Name()
		for _, t := range p.Targets {
			if prev, ok := names[t.CMakeName]; ok {
				return &recipe.ConflictingOverrideError{
					Target:   t.Name,
					Property: PropTargetName,
					Values:   [2]string{prev + "=" + t.CMakeName, t.Name + "=" + t.CMakeName},
				}
			}
			names[t.CMakeName] = t.Name
		}
	}
	return nil
}

// sorted orders overrides so conflicts are reported the same way whatever
// order they were declared in.
func sorted(overrides []recipe.PropertyOverride) []recipe.PropertyOverride {
	out := slices.Clone(overrides)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Target != b.Target {
			return a.Target < b.Target
		}
		if a.Property != b.Property {
			return a.Property < b.Property
		}
		return a.Value < b.Value
	})
	return out
}

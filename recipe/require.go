package recipe

import (
	"fmt"
	"slices"

	"github.com/goplus/recipe/mod/module"
)

// Requires is the ordered, duplicate free list of dependencies a recipe
// needs to compile and link.
type Requires struct {
	deps []module.Version
}

// Require parses refs ("name/version[@channel]") into a Requires. Each
// dependency name may appear only once.
func Require(refs ...string) (Requires, error) {
	var r Requires
	for _, ref := range refs {
		v, err := module.Parse(ref)
		if err != nil {
			return Requires{}, err
		}
		if err := r.add(v); err != nil {
			return Requires{}, err
		}
	}
	return r, nil
}

// MustRequire is like Require but panics on error.
func MustRequire(refs ...string) Requires {
	r, err := Require(refs...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Requires) add(v module.Version) error {
	if _, ok := r.Lookup(v.Path); ok {
		return fmt.Errorf("dependency %s required twice", v.Path)
	}
	r.deps = append(r.deps, v)
	return nil
}

// Deps returns the dependencies in declaration order.
func (r Requires) Deps() []module.Version {
	return slices.Clone(r.deps)
}

// Len returns the number of dependencies.
func (r Requires) Len() int { return len(r.deps) }

// Lookup returns the dependency declared under name.
func (r Requires) Lookup(name string) (module.Version, bool) {
	for _, d := range r.deps {
		if d.Path == name {
			return d, true
		}
	}
	return module.Version{}, false
}

// Channel returns the dependencies sourced from the given channel, in
// declaration order. An empty channel selects upstream dependencies.
func (r Requires) Channel(channel string) []module.Version {
	var out []module.Version
	for _, d := range r.deps {
		if d.Channel == channel {
			out = append(out, d)
		}
	}
	return out
}

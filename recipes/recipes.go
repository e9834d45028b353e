// Package recipes is the registry of built-in recipes.
package recipes

import (
	"fmt"
	"sort"

	"github.com/goplus/recipe/recipe"
	"github.com/goplus/recipe/recipes/chord"
)

var registry = map[string]func() *recipe.Recipe{
	chord.Name: chord.Recipe,
}

// Lookup returns a fresh copy of the named recipe.
func Lookup(name string) (*recipe.Recipe, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown recipe %q (known: %v)", name, Names())
	}
	return fn(), nil
}

// Names returns the registered recipe names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package graph holds the already resolved dependency graph a recipe is
// configured against. Transitivity is resolved by the dependency resolution
// subsystem, so the graph is a flat set of nodes without edges.
package graph

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/goplus/recipe/mod/module"
)

// Node is one resolved dependency.
type Node struct {
	Ref           module.Version
	PackageFolder string
	BuildEnv      map[string]string // read-only
	Targets       []string          // "pkg::component"; defaults to "pkg::pkg"
	CMakeFileName string            // defaults to the package name
}

// Name returns the dependency name of n.
func (n *Node) Name() string { return n.Ref.Path }

// HasTarget reports whether n declares target.
func (n *Node) HasTarget(target string) bool {
	return slices.Contains(n.Targets, target)
}

// FileName returns the base name of n's discovery files.
func (n *Node) FileName() string {
	if n.CMakeFileName != "" {
		return n.CMakeFileName
	}
	return n.Ref.Path
}

// Graph is an immutable set of resolved dependencies keyed by name.
type Graph struct {
	order []string
	nodes map[string]*Node
}

// New builds a Graph from nodes. Node names must be unique and every
// target must belong to its node.
func New(nodes ...Node) (*Graph, error) {
	g := &Graph{nodes: make(map[string]*Node, len(nodes))}
	for _, n := range nodes {
		name := n.Ref.Path
		if name == "" || n.Ref.Version == "" {
			return nil, fmt.Errorf("graph node %q: missing name or version", n.Ref)
		}
		if _, ok := g.nodes[name]; ok {
			return nil, fmt.Errorf("graph node %q appears twice", name)
		}
		n.BuildEnv = maps.Clone(n.BuildEnv)
		n.Targets = slices.Clone(n.Targets)
		if len(n.Targets) == 0 {
			n.Targets = []string{name + "::" + name}
		}
		for _, target := range n.Targets {
			if !strings.HasPrefix(target, name+"::") || len(target) == len(name)+2 {
				return nil, fmt.Errorf("graph node %q: target %q does not belong to it", name, target)
			}
		}
		g.order = append(g.order, name)
		g.nodes[name] = &n
	}
	return g, nil
}

// Lookup returns the node of the named dependency.
func (g *Graph) Lookup(name string) (*Node, bool) {
	if g == nil {
		return nil, false
	}
	n, ok := g.nodes[name]
	return n, ok
}

// Env returns the value of key in the named dependency's build environment.
// ok is false when either the dependency or the key is absent.
func (g *Graph) Env(name, key string) (val string, ok bool) {
	n, found := g.Lookup(name)
	if !found {
		return "", false
	}
	val, ok = n.BuildEnv[key]
	return
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	if g == nil {
		return nil
	}
	out := make([]*Node, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, g.nodes[name])
	}
	return out
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.order)
}

// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pipeline runs a recipe through its configuration stages:
// metadata, validation, options, graph check, variable synthesis,
// dependency overrides and packaging description.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/goplus/recipe/internal/deps"
	"github.com/goplus/recipe/internal/metadata"
	"github.com/goplus/recipe/internal/pkginfo"
	"github.com/goplus/recipe/internal/synth"
	"github.com/goplus/recipe/internal/validate"
	"github.com/goplus/recipe/mod/graph"
	"github.com/goplus/recipe/recipe"
	"github.com/goplus/recipe/x/gnu"
	"github.com/sirupsen/logrus"
)

// Input is everything a run needs.
type Input struct {
	Recipe      *recipe.Recipe
	Project     *recipe.Project
	MetadataDir string // relative to Project; empty means metadata.DefaultDir
	Env         validate.Environment
	Options     map[string]any // user supplied option values
	Graph       *graph.Graph   // resolved dependencies; nil means none
	Logger      logrus.FieldLogger
}

// Context is the state threaded through the stages. Each stage receives a
// copy and returns a new value; nothing is shared with earlier stages.
type Context struct {
	Identity  recipe.Identity
	Options   recipe.Options
	Variables synth.VariableSet
	Deps      *deps.Annotated
	Package   pkginfo.Descriptor
}

// Result is the outcome of a successful run.
type Result struct {
	Context
	Recipe *recipe.Recipe
	Env    validate.Environment
}

type stage struct {
	name string
	run  func(in *Input, c Context) (Context, error)
}

var stages = []stage{
	{"metadata", loadMetadata},
	{"validate", validateEnv},
	{"options", resolveOptions},
	{"graph", checkGraph},
	{"synthesize", synthesize},
	{"overrides", applyOverrides},
	{"describe", describe},
}

// Run executes every stage in order and stops at the first failure.
// Cancellation of ctx is observed between stages.
func Run(ctx context.Context, in Input) (*Result, error) {
	if in.Recipe == nil {
		return nil, fmt.Errorf("no recipe to run")
	}
	if in.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		in.Logger = l
	}
	if err := in.Recipe.Check(); err != nil {
		return nil, fmt.Errorf("invalid recipe %s: %w", in.Recipe.Name, err)
	}

	log := in.Logger.WithField("recipe", in.Recipe.Name)
	var c Context
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := s.run(&in, c)
		if err != nil {
			log.WithField("stage", s.name).WithError(err).Debug("stage failed")
			return nil, err
		}
		c = next
		log.WithField("stage", s.name).Debug("stage done")
	}
	log.WithFields(logrus.Fields{
		"version":   c.Identity.Version,
		"variables": len(c.Variables),
	}).Info("configured")
	return &Result{Context: c, Recipe: in.Recipe, Env: in.Env}, nil
}

func loadMetadata(in *Input, c Context) (Context, error) {
	if in.Project == nil {
		return c, fmt.Errorf("no project to load metadata from")
	}
	id, err := metadata.New(in.Project, in.MetadataDir).Load(in.Recipe.Name)
	if err != nil {
		return c, err
	}
	if !metadata.IsSemver(id.Version) {
		in.Logger.WithField("version", id.Version).Warn("package version is not a semantic version")
	}
	c.Identity = id
	return c, nil
}

func validateEnv(in *Input, c Context) (Context, error) {
	return c, validate.Validate(in.Env, in.Recipe.MinCppStd)
}

func resolveOptions(in *Input, c Context) (Context, error) {
	opts, err := recipe.Resolve(in.Recipe.Options, in.Options)
	if err != nil {
		return c, err
	}
	c.Options = opts
	return c, nil
}

// checkGraph rejects resolved dependencies that disagree with their
// declaration. Declared dependencies absent from the graph only warn: the
// variables reading them are omitted.
func checkGraph(in *Input, c Context) (Context, error) {
	for _, want := range in.Recipe.Requires.Deps() {
		n, ok := in.Graph.Lookup(want.Path)
		if !ok {
			in.Logger.WithField("dependency", want.String()).Warn("declared dependency not in graph")
			continue
		}
		if !gnu.Equal(n.Ref.Version, want.Version) || n.Ref.Channel != want.Channel {
			return c, &recipe.VersionMismatchError{
				Dependency: want.Path,
				Declared:   want.String(),
				Resolved:   n.Ref.String(),
			}
		}
	}
	return c, nil
}

func synthesize(in *Input, c Context) (Context, error) {
	vars, err := synth.Synthesize(c.Identity, c.Options, in.Graph, in.Recipe.Toolchain)
	if err != nil {
		return c, err
	}
	c.Variables = vars
	return c, nil
}

func applyOverrides(in *Input, c Context) (Context, error) {
	a, err := deps.Apply(in.Graph, in.Recipe.Overrides)
	if err != nil {
		return c, err
	}
	c.Deps = a
	return c, nil
}

func describe(in *Input, c Context) (Context, error) {
	d, err := pkginfo.Describe(c.Identity, in.Recipe.Package)
	if err != nil {
		return c, err
	}
	c.Package = d
	return c, nil
}

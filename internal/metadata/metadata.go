// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package metadata loads the identity facts of a package from its
// metadata store: one small text file per fact.
package metadata

import (
	"errors"
	"io/fs"
	"path"
	"strings"

	"github.com/goplus/recipe/recipe"
	"golang.org/x/mod/semver"
)

// DefaultDir is where the metadata files live inside a project.
const DefaultDir = "meta"

// Keys naming the metadata facts.
const (
	KeyVersion     = "version"
	KeyLicense     = "license"
	KeyURL         = "url"
	KeyDescription = "description"
)

// Loader reads metadata facts from a project.
type Loader struct {
	proj *recipe.Project
	dir  string
}

// New returns a Loader reading from dir inside proj. An empty dir means
// DefaultDir.
func New(proj *recipe.Project, dir string) *Loader {
	if dir == "" {
		dir = DefaultDir
	}
	return &Loader{proj: proj, dir: dir}
}

// Get returns the trimmed value of the fact named key. It fails with
// recipe.ErrMetadataMissing when the store lacks key.
func (l *Loader) Get(key string) (string, error) {
	data, err := l.proj.ReadFile(path.Join(l.dir, key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &recipe.MetadataMissingError{Key: key, Err: err}
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Load reads every identity fact once and returns the identity of the
// package called name.
func (l *Loader) Load(name string) (recipe.Identity, error) {
	id := recipe.Identity{Name: name}
	for _, f := range []struct {
		key string
		dst *string
	}{
		{KeyVersion, &id.Version},
		{KeyLicense, &id.License},
		{KeyURL, &id.URL},
		{KeyDescription, &id.Description},
	} {
		v, err := l.Get(f.key)
		if err != nil {
			return recipe.Identity{}, err
		}
		*f.dst = v
	}
	if id.Version == "" {
		return recipe.Identity{}, &recipe.MetadataMissingError{Key: KeyVersion}
	}
	return id, nil
}

// IsSemver reports whether v is a semantic version, with or without the
// leading "v". Other version schemes are legal; callers may only warn.
func IsSemver(v string) bool {
	return semver.IsValid("v" + strings.TrimPrefix(v, "v"))
}

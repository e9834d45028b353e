// Package module defines the module.Version type along with support code.
package module

import (
	"fmt"
	"path/filepath"
	"strings"
)

// A Version identifies one dependency requirement of a recipe: a package
// name, its exact version and the distribution channel it is sourced from.
type Version struct {
	Path    string // Package name (e.g., "protobuf")
	Version string // Version string (e.g., "25.3")
	Channel string // Distribution channel, empty for upstream
}

// Upstream reports whether the dependency comes from the authoritative
// upstream instead of a pinned distribution channel.
func (v Version) Upstream() bool {
	return v.Channel == ""
}

// String returns the reference form "name/version[@channel]".
func (v Version) String() string {
	if v.Channel == "" {
		return v.Path + "/" + v.Version
	}
	return v.Path + "/" + v.Version + "@" + v.Channel
}

// Parse parses a reference of the form "name/version" or
// "name/version@channel".
func Parse(ref string) (Version, error) {
	rest, channel, hasChannel := strings.Cut(ref, "@")
	if hasChannel && channel == "" {
		return Version{}, fmt.Errorf("invalid reference %q: empty channel", ref)
	}
	name, ver, ok := strings.Cut(rest, "/")
	if !ok || name == "" || ver == "" {
		return Version{}, fmt.Errorf("invalid reference %q: want name/version[@channel]", ref)
	}
	if strings.ContainsAny(ver, "/@") || strings.ContainsAny(channel, "/@") {
		return Version{}, fmt.Errorf("invalid reference %q: unexpected separator", ref)
	}
	return Version{Path: name, Version: ver, Channel: channel}, nil
}

// MustParse is like Parse but panics on malformed references. It is meant
// for references declared as constants in recipes.
func MustParse(ref string) Version {
	v, err := Parse(ref)
	if err != nil {
		panic(err)
	}
	return v
}

// EscapePath returns the escaped form of the given package name as a valid
// file system path. It fails if the name is invalid.
func EscapePath(path string) (escaped string, err error) {
	return filepath.Localize(path)
}

package recipe

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// NoneString is how an unset value is spelled on the command line and in
// domain listings.
const NoneString = "None"

// -----------------------------------------------------------------------------

// Value is an optional option value. The zero Value is unset.
type Value struct {
	set bool
	s   string
}

// Unset returns the unset value.
func Unset() Value { return Value{} }

// String returns a value holding s.
func String(s string) Value { return Value{set: true, s: s} }

// Bool returns a value holding the canonical spelling of b.
func Bool(b bool) Value {
	if b {
		return String("True")
	}
	return String("False")
}

// IsSet reports whether v holds a value.
func (v Value) IsSet() bool { return v.set }

// Get returns the held string and whether v is set.
func (v Value) Get() (string, bool) { return v.s, v.set }

// AsBool interprets v as a boolean. ok is false when v is unset or does not
// spell a boolean.
func (v Value) AsBool() (b, ok bool) {
	if !v.set {
		return false, false
	}
	b, err := strconv.ParseBool(v.s)
	return b, err == nil
}

// NonEmpty reports whether v is set to a non-empty string. Unlike Truthy
// it gives no meaning to the spelling of the value.
func (v Value) NonEmpty() bool { return v.set && v.s != "" }

// Truthy reports whether v requests something: it is set, not empty and
// not a false boolean.
func (v Value) Truthy() bool {
	if !v.set || v.s == "" {
		return false
	}
	if b, ok := v.AsBool(); ok {
		return b
	}
	return true
}

func (v Value) String() string {
	if !v.set {
		return NoneString
	}
	return v.s
}

// -----------------------------------------------------------------------------

type domainKind int

const (
	kindEnum domainKind = iota
	kindBool
	kindAny
)

// Domain is the closed set of legal values of an option.
type Domain struct {
	kind       domainKind
	values     []string
	allowUnset bool
}

// Any returns a domain accepting arbitrary strings and the unset value.
func Any() Domain { return Domain{kind: kindAny, allowUnset: true} }

// OneOf returns a domain accepting exactly the given values.
func OneOf(values ...string) Domain {
	return Domain{kind: kindEnum, values: slices.Clone(values)}
}

// Boolean returns a domain accepting True and False.
func Boolean() Domain { return Domain{kind: kindBool, values: []string{"True", "False"}} }

// OrUnset returns a copy of d that also accepts the unset value.
func (d Domain) OrUnset() Domain {
	d.values = slices.Clone(d.values)
	d.allowUnset = true
	return d
}

// IsAny reports whether d accepts arbitrary strings.
func (d Domain) IsAny() bool { return d.kind == kindAny }

// Admit normalizes raw and reports whether it lies in d. raw may be nil,
// a Value, a bool, a string or a number as decoded from YAML.
func (d Domain) Admit(raw any) (Value, bool) {
	v, ok := toValue(raw)
	if !ok {
		return Value{}, false
	}
	if !v.set {
		return v, d.allowUnset
	}
	switch d.kind {
	case kindAny:
		return v, true
	case kindBool:
		b, ok := v.AsBool()
		if !ok {
			return Value{}, false
		}
		return Bool(b), true
	}
	if slices.Contains(d.values, v.s) {
		return v, true
	}
	return Value{}, false
}

func (d Domain) String() string {
	if d.kind == kindAny {
		return "[ANY]"
	}
	vals := slices.Clone(d.values)
	if d.allowUnset {
		vals = append(vals, NoneString)
	}
	return "[" + strings.Join(vals, ", ") + "]"
}

func toValue(raw any) (Value, bool) {
	switch x := raw.(type) {
	case nil:
		return Unset(), true
	case Value:
		return x, true
	case bool:
		return Bool(x), true
	case string:
		if x == NoneString {
			return Unset(), true
		}
		return String(x), true
	case int, int64, uint64, float64:
		return String(fmt.Sprint(x)), true
	}
	return Value{}, false
}

// -----------------------------------------------------------------------------

// OptionSpec declares one configuration knob.
type OptionSpec struct {
	Key     string
	Domain  Domain
	Default Value
}

// Options is an immutable set of resolved option values.
type Options struct {
	m map[string]Value
}

// NewOptions returns Options holding a copy of m.
func NewOptions(m map[string]Value) Options {
	return Options{m: maps.Clone(m)}
}

// Get returns the value of key, unset when key is unknown.
func (o Options) Get(key string) Value { return o.m[key] }

// Has reports whether key was resolved.
func (o Options) Has(key string) bool {
	_, ok := o.m[key]
	return ok
}

// Keys returns the resolved keys in sorted order.
func (o Options) Keys() []string {
	keys := make([]string, 0, len(o.m))
	for k := range o.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of resolved options.
func (o Options) Len() int { return len(o.m) }

// Resolve checks user supplied values against specs and fills in defaults.
// It never consults dependency state.
func Resolve(specs []OptionSpec, user map[string]any) (Options, error) {
	known := make(map[string]struct{}, len(specs))
	for _, spec := range specs {
		known[spec.Key] = struct{}{}
	}
	userKeys := make([]string, 0, len(user))
	for k := range user {
		userKeys = append(userKeys, k)
	}
	sort.Strings(userKeys)
	for _, k := range userKeys {
		if _, ok := known[k]; !ok {
			return Options{}, &UnknownOptionError{Key: k}
		}
	}

	resolved := make(map[string]Value, len(specs))
	for _, spec := range specs {
		raw, ok := user[spec.Key]
		if !ok {
			resolved[spec.Key] = spec.Default
			continue
		}
		v, ok := spec.Domain.Admit(raw)
		if !ok {
			return Options{}, &InvalidOptionValueError{Key: spec.Key, Value: fmt.Sprint(raw), Domain: spec.Domain}
		}
		resolved[spec.Key] = v
	}
	return Options{m: resolved}, nil
}

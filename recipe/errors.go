package recipe

import (
	"errors"
	"fmt"
)

// Errors reported by a configuration run. Every one of them aborts the run.
var (
	ErrMetadataMissing              = errors.New("metadata missing")
	ErrUnsupportedEnvironment       = errors.New("unsupported environment")
	ErrInvalidOptionValue           = errors.New("invalid option value")
	ErrUnknownOption                = errors.New("unknown option")
	ErrDependencyEnvironmentMissing = errors.New("dependency environment missing")
	ErrUnknownTarget                = errors.New("unknown target")
	ErrConflictingOverride          = errors.New("conflicting override")
	ErrVersionMismatch              = errors.New("version mismatch")
)

// MetadataMissingError reports a metadata fact absent from the store.
type MetadataMissingError struct {
	Key string
	Err error
}

func (e *MetadataMissingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("metadata %q missing: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("metadata %q missing", e.Key)
}

func (e *MetadataMissingError) Is(target error) bool { return target == ErrMetadataMissing }
func (e *MetadataMissingError) Unwrap() error        { return e.Err }

// UnsupportedEnvironmentError reports an environment fact that does not
// satisfy the recipe's requirements.
type UnsupportedEnvironmentError struct {
	Fact string
	Got  string
	Want string
}

func (e *UnsupportedEnvironmentError) Error() string {
	return fmt.Sprintf("unsupported environment: %s is %q, requires %s", e.Fact, e.Got, e.Want)
}

func (e *UnsupportedEnvironmentError) Is(target error) bool {
	return target == ErrUnsupportedEnvironment
}

// InvalidOptionValueError reports a value outside an option's domain.
type InvalidOptionValueError struct {
	Key    string
	Value  string
	Domain Domain
}

func (e *InvalidOptionValueError) Error() string {
	return fmt.Sprintf("invalid value %q for option %q, possible values are %s", e.Value, e.Key, e.Domain)
}

func (e *InvalidOptionValueError) Is(target error) bool { return target == ErrInvalidOptionValue }

// UnknownOptionError reports a user supplied option the recipe does not declare.
type UnknownOptionError struct {
	Key string
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("option %q does not exist", e.Key)
}

func (e *UnknownOptionError) Is(target error) bool { return target == ErrUnknownOption }

// DependencyEnvironmentMissingError reports a mandatory toolchain variable
// that could not be produced.
type DependencyEnvironmentMissingError struct {
	Variable string
	Reason   string
}

func (e *DependencyEnvironmentMissingError) Error() string {
	return fmt.Sprintf("cannot produce mandatory variable %s: %s", e.Variable, e.Reason)
}

func (e *DependencyEnvironmentMissingError) Is(target error) bool {
	return target == ErrDependencyEnvironmentMissing
}

// UnknownTargetError reports a property override naming a target absent
// from the dependency graph.
type UnknownTargetError struct {
	Target string
	Reason string
}

func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("override target %q: %s", e.Target, e.Reason)
}

func (e *UnknownTargetError) Is(target error) bool { return target == ErrUnknownTarget }

// ConflictingOverrideError reports two overrides setting the same property
// of the same target to different values.
type ConflictingOverrideError struct {
	Target   string
	Property string
	Values   [2]string
}

func (e *ConflictingOverrideError) Error() string {
	return fmt.Sprintf("conflicting overrides for %s property %s: %q and %q",
		e.Target, e.Property, e.Values[0], e.Values[1])
}

func (e *ConflictingOverrideError) Is(target error) bool { return target == ErrConflictingOverride }

// VersionMismatchError reports a resolved dependency that disagrees with
// its declared descriptor.
type VersionMismatchError struct {
	Dependency string
	Declared   string
	Resolved   string
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("dependency %s resolved as %s, recipe requires %s", e.Dependency, e.Resolved, e.Declared)
}

func (e *VersionMismatchError) Is(target error) bool { return target == ErrVersionMismatch }

package modgraph

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for common resolution failures.
var (
	// ErrUnsatisfiable indicates no known version of a module satisfies a
	// requirement.
	ErrUnsatisfiable = errors.New("no version satisfies requirement")

	// ErrComponentNotFound indicates the requested component does not
	// exist in the metadata source.
	ErrComponentNotFound = errors.New("component not found")
)

// SelectorFailure records that a dependency declaration could not be bound
// to a component.
type SelectorFailure struct {
	Module      string
	Requirement string
	Err         error
}

func (e *SelectorFailure) Error() string {
	return fmt.Sprintf("cannot resolve %s@%s: %v", e.Module, e.Requirement, e.Err)
}

func (e *SelectorFailure) Unwrap() error { return e.Err }

// VariantSelectionFailure records that an edge could not pick target
// variants on its resolved component.
type VariantSelectionFailure struct {
	From      string
	Component ComponentID
	Err       error
}

func (e *VariantSelectionFailure) Error() string {
	return fmt.Sprintf("cannot select variants of %s for %s: %v", e.Component, e.From, e.Err)
}

func (e *VariantSelectionFailure) Unwrap() error { return e.Err }

// NoMatchingVariantError is returned by attribute matching when no variant
// is compatible with the requested attributes.
type NoMatchingVariantError struct {
	Requested map[string]string
	Available []string
}

func (e *NoMatchingVariantError) Error() string {
	return fmt.Sprintf("no variant matches attributes %s (available: %s)",
		formatAttributes(e.Requested), strings.Join(e.Available, ", "))
}

// AmbiguousVariantError is returned by attribute matching when several
// variants match the requested attributes equally well.
type AmbiguousVariantError struct {
	Requested map[string]string
	Matches   []string
}

func (e *AmbiguousVariantError) Error() string {
	return fmt.Sprintf("multiple variants match attributes %s: %s",
		formatAttributes(e.Requested), strings.Join(e.Matches, ", "))
}

// VersionMismatchError reports an edge pinning an exact version different
// from the module's resolved winner. It lands in the report by default, or
// on the edge itself under StrictVersionMatch.
type VersionMismatchError struct {
	Requested string
	Selected  ComponentID
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("requested exact version %s but %s was selected for %s",
		e.Requested, e.Selected.Version, e.Selected.Module)
}

func formatAttributes(attrs map[string]string) string {
	if len(attrs) == 0 {
		return "{}"
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + attrs[k]
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

package modgraph

import (
	"context"
	"io"
	"log/slog"

	"github.com/modgraph/go-modgraph/conflicts"
	"github.com/modgraph/go-modgraph/version"
)

// ComponentID identifies one concrete version of a module.
type ComponentID struct {
	// Module is the logical, version-independent dependency identity.
	Module string `json:"module" yaml:"module"`

	// Version is the concrete version of the component.
	Version string `json:"version" yaml:"version"`
}

// String returns the id as "module@version".
func (id ComponentID) String() string {
	return id.Module + "@" + id.Version
}

// Declaration is one dependency declaration: a requirement on a module at a
// version, optionally constrained by attributes and exclude rules.
type Declaration struct {
	// Module is the target module.
	Module string `json:"module" yaml:"module"`

	// Version is the version requirement. It may be exact ("1.2") or
	// dynamic ("1.+", "latest"); see the version package.
	Version string `json:"version" yaml:"version"`

	// Attributes are requested variant attributes for this declaration,
	// merged over the root's requested attributes when selecting target
	// variants.
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`

	// Excludes are the declaration's own exclude rules, inherited by
	// everything reachable through this declaration.
	Excludes []Exclude `json:"excludes,omitempty" yaml:"excludes,omitempty"`

	// NonTransitive stops traversal past the target: the target component
	// is attached, but its own dependencies are not followed through this
	// declaration. The zero value means transitive.
	NonTransitive bool `json:"non_transitive,omitempty" yaml:"non_transitive,omitempty"`
}

// Transitive reports whether the declaration follows the target's own
// dependencies.
func (d Declaration) Transitive() bool { return !d.NonTransitive }

// Exclude is one exclude rule, naming a module to drop from the subtree.
type Exclude struct {
	Module string `json:"module" yaml:"module"`
}

// Variant is an attribute-tagged, selectable subset of a component's
// exposed artifacts and further dependencies.
type Variant struct {
	// Name identifies the variant within its component ("default" when a
	// component declares none).
	Name string `json:"name" yaml:"name"`

	// Attributes tag the variant for attribute matching.
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`

	// Dependencies are the declarations carried by this variant.
	Dependencies []Declaration `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`

	// Artifacts are the artifact names this variant exposes.
	Artifacts []string `json:"artifacts,omitempty" yaml:"artifacts,omitempty"`
}

// ComponentMetadata is the resolved metadata of one component: its variants
// with their dependencies, excludes and artifacts.
type ComponentMetadata struct {
	ID ComponentID `json:"id" yaml:"id"`

	// Variants lists the component's selectable variants. A component with
	// no declared variants gets a single implicit "default" variant.
	Variants []Variant `json:"variants,omitempty" yaml:"variants,omitempty"`
}

// DefaultVariantName names the implicit variant of components that declare
// none.
const DefaultVariantName = "default"

// normalized returns metadata with at least one variant, so every component
// can host nodes.
func (m *ComponentMetadata) normalized() *ComponentMetadata {
	if len(m.Variants) > 0 {
		return m
	}
	n := *m
	n.Variants = []Variant{{Name: DefaultVariantName}}
	return &n
}

// MetadataSource supplies component metadata to the resolution. Lookups may
// run on worker goroutines; results are folded back into the graph on the
// resolution goroutine only.
type MetadataSource interface {
	// Versions lists the known versions of a module, used to resolve
	// dynamic version requirements. Order does not matter.
	Versions(ctx context.Context, module string) ([]string, error)

	// Lookup returns the metadata of one component, or an error when the
	// component does not exist or its metadata is broken.
	Lookup(ctx context.Context, id ComponentID) (*ComponentMetadata, error)
}

// AttributeMatcher selects the target variants of a component for a set of
// requested attributes. Implementations return a NoMatchingVariantError or
// AmbiguousVariantError when selection is impossible.
type AttributeMatcher interface {
	Match(variants []Variant, requested map[string]string) ([]Variant, error)
}

const defaultMetadataConcurrency = 5

// Options configures a resolution.
type Options struct {
	// Comparator orders candidate versions for the baseline conflict
	// resolver. Defaults to version.Compare; version.CompareGoSemver is
	// available for semver-ordered universes.
	Comparator version.Comparator

	// Matcher selects target variants by attribute. Defaults to the
	// built-in exact-attribute matcher.
	Matcher AttributeMatcher

	// Rules is the module replacement table. May be nil.
	Rules *conflicts.Rules

	// RequestedAttributes are the root's requested attributes, merged
	// under every declaration's own attributes during variant selection.
	RequestedAttributes map[string]string

	// StrictVersionMatch turns the exact-version guard into an edge
	// failure: an edge pinning a specific version that mismatches the
	// module's resolved winner fails instead of silently attaching to
	// nothing. The default keeps the silent no-attachment plus a
	// diagnostic in the report.
	StrictVersionMatch bool

	// MetadataConcurrency bounds the metadata prefetch pool. Zero or
	// negative means the default of 5.
	MetadataConcurrency int

	// Logger receives structured resolution logging. Nil discards.
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Comparator == nil {
		o.Comparator = version.Compare
	}
	if o.Matcher == nil {
		o.Matcher = NewAttributeMatcher()
	}
	if o.Rules == nil {
		o.Rules = conflicts.NewRules()
	}
	if o.MetadataConcurrency <= 0 {
		o.MetadataConcurrency = defaultMetadataConcurrency
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

package modgraph

import (
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// Exclusions is an exclusion filter: the set of module names dropped from a
// subtree. Filters accumulated along a root-to-node path compose by Union,
// so the set is monotonically non-shrinking from root to leaf. Filters
// arriving over different paths into the same node compose by Intersect: a
// module stays excluded only when every path agrees.
//
// The zero value excludes nothing. Exclusions values are immutable; all
// operations return new values.
type Exclusions struct {
	excluded mapset.Set[string]
}

// NewExclusions builds a filter from exclude rules.
func NewExclusions(excludes ...Exclude) Exclusions {
	if len(excludes) == 0 {
		return Exclusions{}
	}
	s := mapset.NewThreadUnsafeSet[string]()
	for _, e := range excludes {
		if e.Module != "" {
			s.Add(e.Module)
		}
	}
	return Exclusions{excluded: s}
}

// Excludes reports whether the module is filtered out.
func (x Exclusions) Excludes(module string) bool {
	return x.excluded != nil && x.excluded.Contains(module)
}

// IsEmpty reports whether the filter excludes nothing.
func (x Exclusions) IsEmpty() bool {
	return x.excluded == nil || x.excluded.Cardinality() == 0
}

// Union returns a filter excluding everything either filter excludes.
func (x Exclusions) Union(other Exclusions) Exclusions {
	if x.excluded == nil {
		return other
	}
	if other.excluded == nil {
		return x
	}
	return Exclusions{excluded: x.excluded.Union(other.excluded)}
}

// Intersect returns a filter excluding only what both filters exclude.
func (x Exclusions) Intersect(other Exclusions) Exclusions {
	if x.excluded == nil || other.excluded == nil {
		return Exclusions{}
	}
	return Exclusions{excluded: x.excluded.Intersect(other.excluded)}
}

// Equal reports whether both filters exclude exactly the same modules.
func (x Exclusions) Equal(other Exclusions) bool {
	return x.Contains(other) && other.Contains(x)
}

// Contains reports whether this filter excludes at least everything the
// other filter excludes.
func (x Exclusions) Contains(other Exclusions) bool {
	if other.excluded == nil {
		return true
	}
	if x.excluded == nil {
		return other.excluded.Cardinality() == 0
	}
	return other.excluded.IsSubset(x.excluded)
}

// Names returns the excluded module names, sorted.
func (x Exclusions) Names() []string {
	if x.excluded == nil {
		return nil
	}
	names := x.excluded.ToSlice()
	slices.Sort(names)
	return names
}

func (x Exclusions) String() string {
	return "excludes[" + strings.Join(x.Names(), ", ") + "]"
}

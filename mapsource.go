package modgraph

import (
	"context"
	"fmt"
)

// MapSource is an in-memory MetadataSource backed by a fixed set of
// components. It serves tests and offline resolution from a universe file.
type MapSource struct {
	components map[ComponentID]*ComponentMetadata
	versions   map[string][]string
}

// NewMapSource builds a source from the given components. Later duplicates
// of the same ID overwrite earlier ones.
func NewMapSource(components ...*ComponentMetadata) *MapSource {
	s := &MapSource{
		components: make(map[ComponentID]*ComponentMetadata),
		versions:   make(map[string][]string),
	}
	for _, c := range components {
		s.Add(c)
	}
	return s
}

// Add registers a component.
func (s *MapSource) Add(c *ComponentMetadata) {
	if _, ok := s.components[c.ID]; !ok {
		s.versions[c.ID.Module] = append(s.versions[c.ID.Module], c.ID.Version)
	}
	s.components[c.ID] = c
}

// Versions returns the registered versions of a module in registration
// order. Unknown modules have no versions, which is not an error.
func (s *MapSource) Versions(_ context.Context, module string) ([]string, error) {
	return s.versions[module], nil
}

// Lookup returns the metadata for id, or ErrComponentNotFound.
func (s *MapSource) Lookup(_ context.Context, id ComponentID) (*ComponentMetadata, error) {
	c, ok := s.components[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrComponentNotFound, id)
	}
	return c, nil
}

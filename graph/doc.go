// Package graph holds the immutable result graph produced by a resolution:
// the selected component variants and the dependency edges between them,
// with query and rendering helpers. It carries no resolution machinery and
// can be built, traversed, and serialized independently.
package graph

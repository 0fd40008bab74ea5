// Package modgraph builds fully resolved dependency graphs.
//
// A resolution starts from a root component and a MetadataSource. Dependency
// declarations are resolved to concrete component versions, each component's
// variants are selected by attribute matching, and version conflicts between
// candidates of the same module are batched up and resolved through a
// pluggable resolver chain (highest version wins by default). A static
// replacement table can force one module to stand in for another.
//
// Failures that affect only part of the graph, such as an unsatisfiable
// version requirement or broken component metadata, are isolated to the
// edges they occur on and collected in the Result's Report; the rest of the
// graph still resolves.
//
// The entry point is Resolve; the immutable result lives in the graph
// subpackage.
package modgraph

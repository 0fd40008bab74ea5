package modgraph

import (
	"context"
	"slices"

	"github.com/modgraph/go-modgraph/conflicts"
)

// ComponentState is one concrete version of a module. It carries the fetched
// metadata, the audit trail of selection causes, and the nodes realized for
// its variants. ComponentState satisfies conflicts.Candidate so components
// can go through the resolver chain directly.
type ComponentState struct {
	id       ComponentID
	module   *ModuleState
	resultID int64

	metadata        *ComponentMetadata
	metadataFailure error
	metadataLoaded  bool

	selectedFlag bool
	reasons      []conflicts.Cause
	nodes        []*NodeState
}

// ID returns the component's identifier.
func (c *ComponentState) ID() ComponentID { return c.id }

// Version returns the component's version string.
func (c *ComponentState) Version() string { return c.id.Version }

// ResultID is a stable identifier unique across the resolution, assigned in
// creation order.
func (c *ComponentState) ResultID() int64 { return c.resultID }

// IsSelected reports whether this component is its module's current winner.
func (c *ComponentState) IsSelected() bool { return c.selectedFlag }

// AddCause appends a selection cause. Causes are never removed; a component
// that loses and later re-wins a conflict keeps its full history.
func (c *ComponentState) AddCause(cause conflicts.Cause) {
	c.reasons = append(c.reasons, cause)
}

// Causes returns the selection causes recorded so far.
func (c *ComponentState) Causes() []conflicts.Cause {
	return slices.Clone(c.reasons)
}

// Metadata fetches and caches the component's metadata. The first error is
// sticky: a component whose metadata could not be loaded stays broken for
// the rest of the resolution.
func (c *ComponentState) Metadata(ctx context.Context) (*ComponentMetadata, error) {
	if c.metadataLoaded {
		return c.metadata, c.metadataFailure
	}
	md, err := c.module.rs.componentMetadata(ctx, c.id)
	c.metadataLoaded = true
	if err != nil {
		c.metadataFailure = err
		return nil, err
	}
	c.metadata = md
	return md, nil
}

// MetadataFailure returns the sticky metadata error, if any.
func (c *ComponentState) MetadataFailure() error { return c.metadataFailure }

// setMetadata seeds metadata directly, bypassing the source. Used for the
// resolution root, whose metadata the caller supplies.
func (c *ComponentState) setMetadata(md *ComponentMetadata) {
	c.metadata = md
	c.metadataLoaded = true
}

func (c *ComponentState) addNode(n *NodeState) {
	c.nodes = append(c.nodes, n)
}

// markSelected flips the component to selected. Its existing nodes are
// re-queued so previously skipped traversal happens now.
func (c *ComponentState) markSelected() {
	if c.selectedFlag {
		return
	}
	c.selectedFlag = true
	for _, n := range c.nodes {
		c.module.rs.enqueue(n)
	}
}

// deselect flips the component off and evicts its nodes from the graph.
func (c *ComponentState) deselect(ctx context.Context) {
	if !c.selectedFlag {
		return
	}
	c.selectedFlag = false
	for _, n := range c.nodes {
		// The root never leaves the graph, even when its own module is
		// contested by a transitive requirement.
		if n.root {
			continue
		}
		n.evict(ctx)
	}
}

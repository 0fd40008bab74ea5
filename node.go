package modgraph

import (
	"context"
	"slices"
)

// NodeState is one graph vertex, keyed by (component, variant). It owns no
// edges; it indexes incoming edges so conflict-driven detach cascades can
// find the dependents of a component.
type NodeState struct {
	rs        *ResolveState
	component *ComponentState
	variant   Variant
	root      bool

	incoming []*EdgeState
	outgoing []*EdgeState

	// visited is true once the node has been taken off the visit queue.
	// traversedDeps is true once outgoing edges exist; a node first reached
	// only through non-transitive edges is visited without traversing, and
	// is re-queued if a transitive edge attaches later.
	visited       bool
	traversedDeps bool

	// appliedExclusions is the merged filter in force when the node last
	// traversed its dependencies. A new incoming path that changes the
	// merge forces a re-traversal.
	appliedExclusions Exclusions
}

func (n *NodeState) String() string {
	return n.component.id.String() + " (" + n.variant.Name + ")"
}

// Component returns the component this node belongs to.
func (n *NodeState) Component() *ComponentState { return n.component }

// Variant returns the variant this node exposes.
func (n *NodeState) Variant() Variant { return n.variant }

// IsRoot reports whether this is the resolution root.
func (n *NodeState) IsRoot() bool { return n.root }

// IsSelected reports whether the node is part of the graph: the root always
// is, any other node only while its component is the module's selection.
func (n *NodeState) IsSelected() bool {
	return n.root || n.component.IsSelected()
}

// IsTransitive reports whether the node's own dependencies are followed:
// true for the root, and for any node with at least one transitive incoming
// edge.
func (n *NodeState) IsTransitive() bool {
	if n.root {
		return true
	}
	for _, e := range n.incoming {
		if e.IsTransitive() {
			return true
		}
	}
	return false
}

// AddIncomingEdge registers an attachment and queues the node for visiting
// when needed. If the node already traversed its dependencies under a
// different merged state, the traversal is thrown away and redone.
func (n *NodeState) AddIncomingEdge(e *EdgeState) {
	n.incoming = append(n.incoming, e)
	n.pathsChanged()
	n.rs.enqueue(n)
}

// RemoveIncomingEdge drops an attachment. Unknown edges are ignored.
// Removing a path can downgrade the node's transitivity or widen its merged
// exclusion filter, so the traversal is re-evaluated just like on add.
func (n *NodeState) RemoveIncomingEdge(e *EdgeState) {
	for i, in := range n.incoming {
		if in == e {
			n.incoming = slices.Delete(n.incoming, i, i+1)
			n.pathsChanged()
			return
		}
	}
}

// pathsChanged re-evaluates a traversed node after its incoming edge set
// changed. Losing the last transitive path, or any change to the merged
// exclusion filter, invalidates the outgoing subtree: it is discarded and
// the node re-queued so the next visit rebuilds it under the current state.
func (n *NodeState) pathsChanged() {
	if !n.traversedDeps {
		return
	}
	if !n.IsTransitive() || !n.inheritedExclusions().Equal(n.appliedExclusions) {
		n.retraverse()
		n.rs.enqueue(n)
	}
}

// retraverse discards the node's outgoing edges so the next visit rebuilds
// them under the current exclusion filter. State is cleared before the
// edges detach: the detach cascade can reach this node again through a
// cycle, and must then see it as already torn down.
func (n *NodeState) retraverse() {
	n.visited = false
	n.traversedDeps = false
	out := n.outgoing
	n.outgoing = nil
	for _, e := range out {
		e.RemoveFromTargets()
		e.discard()
	}
}

// IncomingEdges returns the current incoming edges.
func (n *NodeState) IncomingEdges() []*EdgeState { return n.incoming }

// inheritedExclusions merges the exclusion filters arriving over the node's
// incoming edges: a module is excluded below this node only when every
// incoming path excludes it. The root inherits nothing.
func (n *NodeState) inheritedExclusions() Exclusions {
	if n.root || len(n.incoming) == 0 {
		return Exclusions{}
	}
	merged := n.incoming[0].Exclusions()
	for _, e := range n.incoming[1:] {
		merged = merged.Intersect(e.Exclusions())
	}
	return merged
}

// evict tears the node out of the graph when its component loses selection:
// its outgoing edges are discarded for good, and its incoming edges restart
// so still-selected dependents can reattach to the module's new winner.
func (n *NodeState) evict(ctx context.Context) {
	n.retraverse()
	for _, e := range slices.Clone(n.incoming) {
		e.Restart(ctx)
	}
}

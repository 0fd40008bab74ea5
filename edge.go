package modgraph

import (
	"context"
	"log/slog"
)

// EdgeState is a realized dependency declaration from one node. It follows
// an attach/detach protocol: whenever the target module's selection changes,
// the edge detaches from its old target nodes and attaches to variants of
// the new winner. Between selections an edge sits on the target module's
// unattached list.
type EdgeState struct {
	rs       *ResolveState
	from     *NodeState
	decl     Declaration
	selector *SelectorState

	// transitiveExclusions is the filter inherited from the origin node at
	// the time the edge was created; the edge's own excludes are layered on
	// top by Exclusions.
	transitiveExclusions Exclusions

	targets    []*NodeState
	failure    error
	mismatch   *VersionMismatchError
	transitive bool
	released   bool
}

func newEdgeState(from *NodeState, decl Declaration, selector *SelectorState, inherited Exclusions) *EdgeState {
	return &EdgeState{
		rs:                   from.rs,
		from:                 from,
		decl:                 decl,
		selector:             selector,
		transitiveExclusions: inherited,
		transitive:           from.IsTransitive() && decl.Transitive(),
	}
}

// From returns the origin node.
func (e *EdgeState) From() *NodeState { return e.from }

// Declaration returns the dependency declaration this edge realizes.
func (e *EdgeState) Declaration() Declaration { return e.decl }

// IsTransitive reports whether dependencies of the target are followed
// through this edge.
func (e *EdgeState) IsTransitive() bool { return e.transitive }

// Selected returns the component the target module currently selects, or nil
// when the selector has not resolved or the module has no selection yet.
func (e *EdgeState) Selected() *ComponentState {
	return e.targetComponent()
}

func (e *EdgeState) targetComponent() *ComponentState {
	if e.selector == nil || e.selector.failure != nil {
		return nil
	}
	m := e.selector.module
	if m == nil {
		return nil
	}
	return m.Selected()
}

// Exclusions returns the filter propagated through this edge: the inherited
// filter unioned with the edge's own excludes. Appending excludes only ever
// narrows what passes through.
func (e *EdgeState) Exclusions() Exclusions {
	if len(e.decl.Excludes) == 0 {
		return e.transitiveExclusions
	}
	return e.transitiveExclusions.Union(NewExclusions(e.decl.Excludes...))
}

// AttachToTargets connects the edge to nodes of the currently selected
// target component, choosing variants with the attribute matcher. It is
// a no-op for released edges, and parks the edge on the module's
// unattached list whenever no selection or metadata is available.
func (e *EdgeState) AttachToTargets(ctx context.Context) {
	if e.released {
		return
	}
	target := e.targetComponent()
	if target == nil {
		e.addUnattached()
		return
	}
	md, err := target.Metadata(ctx)
	if err != nil {
		// Surfaced through Failure; the edge stays parked so a later
		// selection change can still pick it up.
		e.addUnattached()
		return
	}

	// A fixed, non-dynamic requirement that lost conflict resolution does
	// not attach to the winner: the declaration asked for exactly one
	// version and got another.
	if !e.rs.versionMatchesExactly(e.decl, target) {
		e.RemoveFromTargets()
		mismatch := &VersionMismatchError{
			Requested: e.decl.Version,
			Selected:  target.id,
		}
		if e.rs.opts.StrictVersionMatch {
			e.failure = mismatch
		} else {
			e.mismatch = mismatch
		}
		e.addUnattached()
		return
	}

	requested := mergeAttributes(e.rs.opts.RequestedAttributes, e.decl.Attributes)
	variants, err := e.rs.opts.Matcher.Match(md.Variants, requested)
	if err != nil {
		e.RemoveFromTargets()
		e.failure = &VariantSelectionFailure{
			From:      e.from.String(),
			Component: target.id,
			Err:       err,
		}
		e.addUnattached()
		return
	}

	e.RemoveFromTargets()
	for _, v := range variants {
		node := e.rs.node(target, v)
		node.AddIncomingEdge(e)
		e.targets = append(e.targets, node)
	}
	if len(e.targets) > 0 {
		e.removeUnattached()
	} else {
		e.addUnattached()
	}
	e.rs.logger.LogAttrs(ctx, slog.LevelDebug, "edge attached",
		slog.String("from", e.from.String()),
		slog.String("to", target.id.String()),
		slog.Int("targets", len(e.targets)))
}

// RemoveFromTargets detaches the edge from all its target nodes and clears
// any attachment failure. A mismatch recorded before a conflict resolved is
// cleared too; it is re-established on reattachment if still true.
func (e *EdgeState) RemoveFromTargets() {
	for _, n := range e.targets {
		n.RemoveIncomingEdge(e)
	}
	e.targets = nil
	e.failure = nil
	e.mismatch = nil
}

// Restart re-attaches the edge after the target module's selection changed.
// Edges whose origin has itself been deselected stay detached; they will be
// recreated if the origin ever wins again.
func (e *EdgeState) Restart(ctx context.Context) {
	if e.released || !e.from.IsSelected() {
		return
	}
	e.RemoveFromTargets()
	e.AttachToTargets(ctx)
}

// discard permanently releases the edge when its origin node is evicted.
func (e *EdgeState) discard() {
	e.released = true
	e.removeUnattached()
}

// Failure returns the most specific error affecting this edge, checking the
// attachment failure first, then the selector, then the selected component's
// metadata.
func (e *EdgeState) Failure() error {
	if e.failure != nil {
		return e.failure
	}
	if e.selector != nil && e.selector.failure != nil {
		return e.selector.failure
	}
	if c := e.targetComponent(); c != nil && c.metadataFailure != nil {
		return c.metadataFailure
	}
	return nil
}

func (e *EdgeState) addUnattached() {
	if e.selector != nil && e.selector.module != nil {
		e.selector.module.addUnattached(e)
	}
}

func (e *EdgeState) removeUnattached() {
	if e.selector != nil && e.selector.module != nil {
		e.selector.module.removeUnattached(e)
	}
}

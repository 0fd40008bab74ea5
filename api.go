package modgraph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/modgraph/go-modgraph/conflicts"
	"github.com/modgraph/go-modgraph/graph"
)

// Result is the outcome of a resolution: the final graph rooted at Root,
// plus the report of localized failures that did not abort it.
type Result struct {
	Root   ComponentID
	Graph  *graph.Graph
	Report *Report
}

// Resolve builds the dependency graph reachable from the root component.
// The root's metadata is supplied by the caller; everything else is fetched
// through the source. Version conflicts are resolved module by module, with
// replacement rules applied before conflict resolution.
//
// Local problems such as unsatisfiable requirements or broken metadata are
// isolated to the affected edges and reported in Result.Report; Resolve
// returns an error only when the root itself cannot be set up, a conflict
// resolver fails, or ctx is canceled.
func Resolve(ctx context.Context, root *ComponentMetadata, source MetadataSource, opts Options) (*Result, error) {
	if root == nil {
		return nil, errors.New("modgraph: root metadata is nil")
	}
	if source == nil {
		return nil, errors.New("modgraph: metadata source is nil")
	}
	opts = opts.withDefaults()
	rs := newResolveState(source, opts)

	rootNode, err := rs.bootstrap(root)
	if err != nil {
		return nil, err
	}
	rs.logger.LogAttrs(ctx, slog.LevelInfo, "resolution started",
		slog.String("root", root.ID.String()))

	if err := rs.run(ctx); err != nil {
		return nil, err
	}
	rs.metadata.wait()

	rs.report.collect(rs)
	g, err := rs.buildGraph(rootNode)
	if err != nil {
		return nil, err
	}
	rs.logger.LogAttrs(ctx, slog.LevelInfo, "resolution finished",
		slog.Int("nodes", g.Len()),
		slog.Int("failures", len(rs.report.Failures)))
	return &Result{Root: root.ID, Graph: g, Report: rs.report}, nil
}

// bootstrap installs the root component and its node. The root variant is
// chosen against the requested attributes; a root without a usable variant
// fails the whole resolution.
func (rs *ResolveState) bootstrap(root *ComponentMetadata) (*NodeState, error) {
	md := root.normalized()
	m := rs.module(md.ID.Module)
	comp, _ := m.component(md.ID)
	comp.setMetadata(md)
	comp.AddCause(conflicts.Cause{Kind: conflicts.CauseRoot, Description: "resolution root"})
	m.selectComponent(comp)
	rs.handler.RegisterCandidate(m.name, m.Candidates())

	variants, err := rs.opts.Matcher.Match(md.Variants, rs.opts.RequestedAttributes)
	if err != nil {
		return nil, fmt.Errorf("select root variant of %s: %w", md.ID, err)
	}
	n := rs.node(comp, variants[0])
	n.root = true
	rs.root = n
	rs.enqueue(n)
	return n, nil
}

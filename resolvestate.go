package modgraph

import (
	"context"
	"log/slog"

	"github.com/modgraph/go-modgraph/conflicts"
	"github.com/modgraph/go-modgraph/version"
)

type nodeKey struct {
	id      ComponentID
	variant string
}

type selectorKey struct {
	module      string
	requirement string
}

// ResolveState owns all per-resolution state: module, component, node and
// selector registries, the node visit queue, the conflict handler, and the
// metadata cache. Resolution alternates between draining the node queue and
// resolving one pending conflict until both are empty.
type ResolveState struct {
	opts     Options
	source   MetadataSource
	logger   *slog.Logger
	metadata *metadataCache
	handler  *conflicts.Handler[*ComponentState]
	report   *Report

	modules   map[string]*ModuleState
	nodes     map[nodeKey]*NodeState
	selectors map[selectorKey]*SelectorState
	queue     []*NodeState
	root      *NodeState

	resultIDs int64
}

func newResolveState(source MetadataSource, opts Options) *ResolveState {
	rs := &ResolveState{
		opts:      opts,
		source:    source,
		logger:    opts.Logger,
		metadata:  newMetadataCache(source, opts.MetadataConcurrency),
		report:    newReport(),
		modules:   make(map[string]*ModuleState),
		nodes:     make(map[nodeKey]*NodeState),
		selectors: make(map[selectorKey]*SelectorState),
	}
	rs.handler = conflicts.NewHandler[*ComponentState](
		conflicts.VersionResolver[*ComponentState]{Compare: opts.Comparator},
		opts.Rules,
		opts.Logger,
	)
	return rs
}

func (rs *ResolveState) nextResultID() int64 {
	rs.resultIDs++
	return rs.resultIDs
}

func (rs *ResolveState) module(name string) *ModuleState {
	if m, ok := rs.modules[name]; ok {
		return m
	}
	m := newModuleState(rs, name)
	rs.modules[name] = m
	return m
}

func (rs *ResolveState) node(comp *ComponentState, v Variant) *NodeState {
	key := nodeKey{id: comp.id, variant: v.Name}
	if n, ok := rs.nodes[key]; ok {
		return n
	}
	n := &NodeState{rs: rs, component: comp, variant: v}
	rs.nodes[key] = n
	comp.addNode(n)
	return n
}

func (rs *ResolveState) selector(module, requirement string) *SelectorState {
	key := selectorKey{module: module, requirement: requirement}
	if s, ok := rs.selectors[key]; ok {
		return s
	}
	s := newSelectorState(rs, rs.module(module), requirement)
	rs.selectors[key] = s
	return s
}

func (rs *ResolveState) componentMetadata(ctx context.Context, id ComponentID) (*ComponentMetadata, error) {
	return rs.metadata.get(ctx, id)
}

func (rs *ResolveState) versionMatchesExactly(decl Declaration, target *ComponentState) bool {
	if version.IsDynamic(decl.Version) {
		return true
	}
	// A replacement winner belongs to another module; comparing versions
	// across modules is meaningless, so the guard does not apply.
	if decl.Module != target.id.Module {
		return true
	}
	return decl.Version == target.id.Version
}

// enqueue schedules a node for visiting. Already-visited nodes are re-queued
// only when a transitivity upgrade means their dependencies must now be
// traversed.
func (rs *ResolveState) enqueue(n *NodeState) {
	if n.visited && (n.traversedDeps || !n.IsTransitive()) {
		return
	}
	n.visited = false
	rs.queue = append(rs.queue, n)
}

// run drives resolution to a fixpoint: drain the node queue, then resolve
// one conflict and replay affected modules, until neither has work left.
// Only resolver-chain failures and context cancellation are fatal; local
// failures stay on selectors and edges for the report.
func (rs *ResolveState) run(ctx context.Context) error {
	for len(rs.queue) > 0 || rs.handler.HasConflicts() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(rs.queue) > 0 {
			n := rs.queue[0]
			rs.queue = rs.queue[1:]
			if err := rs.visit(ctx, n); err != nil {
				return err
			}
			continue
		}
		err := rs.handler.ResolveNext(func(participants []string, selected *ComponentState) {
			for _, name := range participants {
				rs.module(name).restart(ctx, selected)
			}
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// visit expands one node: realize edges for its declarations, resolve their
// selectors, and hand newly seen components to the conflict handler.
func (rs *ResolveState) visit(ctx context.Context, n *NodeState) error {
	if n.visited || !n.IsSelected() {
		return nil
	}
	n.visited = true
	if !n.IsTransitive() {
		return nil
	}
	n.traversedDeps = true

	inherited := n.inheritedExclusions()
	n.appliedExclusions = inherited
	rs.logger.LogAttrs(ctx, slog.LevelDebug, "visiting node",
		slog.String("node", n.String()),
		slog.Int("dependencies", len(n.variant.Dependencies)))

	for _, decl := range n.variant.Dependencies {
		if inherited.Excludes(decl.Module) {
			continue
		}
		edge := newEdgeState(n, decl, rs.selector(decl.Module, decl.Version), inherited)
		n.outgoing = append(n.outgoing, edge)
		if err := rs.resolveEdge(ctx, edge); err != nil {
			return err
		}
	}
	return nil
}

func (rs *ResolveState) resolveEdge(ctx context.Context, e *EdgeState) error {
	comp, created, err := e.selector.resolve(ctx)
	if err != nil {
		// Recorded on the selector; resolution continues.
		return nil
	}
	if created {
		rs.registerCandidate(ctx, comp)
	}
	e.AttachToTargets(ctx)
	return nil
}

// registerCandidate feeds a newly created component to the conflict handler.
// When the handler sees no conflict and the module has no selection yet, the
// single candidate is selected outright.
func (rs *ResolveState) registerCandidate(ctx context.Context, comp *ComponentState) {
	m := comp.module
	rs.metadata.prefetch(ctx, comp.id)
	potential := rs.handler.RegisterCandidate(m.name, m.Candidates())
	if potential == nil {
		if m.selected == nil {
			m.selectComponent(comp)
		}
		return
	}
	rs.logger.LogAttrs(ctx, slog.LevelDebug, "conflict registered",
		slog.String("module", m.name),
		slog.Any("participants", potential.Participants))
}

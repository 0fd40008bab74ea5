package modgraph

import (
	"context"
	"slices"
)

// ModuleState tracks every version of one module seen during resolution, the
// current selection, and the edges waiting for a selection. When the module
// is replaced by another, selected points at a component of the replacement
// module; edges targeting this module then attach to the foreign winner.
type ModuleState struct {
	rs   *ResolveState
	name string

	versions map[string]*ComponentState
	order    []string

	selected   *ComponentState
	unattached []*EdgeState
}

func newModuleState(rs *ResolveState, name string) *ModuleState {
	return &ModuleState{rs: rs, name: name, versions: make(map[string]*ComponentState)}
}

// Name returns the module name.
func (m *ModuleState) Name() string { return m.name }

// Selected returns the module's current winner. After a replacement this is
// a component of another module; nil while no selection has been made.
func (m *ModuleState) Selected() *ComponentState { return m.selected }

// component returns the state for one version, creating it on first sight,
// and reports whether it was created by this call.
func (m *ModuleState) component(id ComponentID) (*ComponentState, bool) {
	if c, ok := m.versions[id.Version]; ok {
		return c, false
	}
	c := &ComponentState{id: id, module: m, resultID: m.rs.nextResultID()}
	m.versions[id.Version] = c
	m.order = append(m.order, id.Version)
	return c, true
}

// Candidates returns the module's known components in first-seen order.
func (m *ModuleState) Candidates() []*ComponentState {
	out := make([]*ComponentState, 0, len(m.order))
	for _, v := range m.order {
		out = append(out, m.versions[v])
	}
	return out
}

// selectComponent makes comp the winner without touching edges. Used for the
// initial, uncontested selection of a module's only candidate.
func (m *ModuleState) selectComponent(comp *ComponentState) {
	m.selected = comp
	comp.markSelected()
}

// restart installs a new winner and replays the module's pending edges.
// Losing candidates of this module are deselected first so their subgraphs
// unwind before edges reattach. The winner may belong to another module.
func (m *ModuleState) restart(ctx context.Context, selected *ComponentState) {
	m.selected = selected
	for _, c := range m.versions {
		if c != selected {
			c.deselect(ctx)
		}
	}
	selected.markSelected()
	for _, e := range slices.Clone(m.unattached) {
		e.Restart(ctx)
	}
}

func (m *ModuleState) addUnattached(e *EdgeState) {
	if !slices.Contains(m.unattached, e) {
		m.unattached = append(m.unattached, e)
	}
}

func (m *ModuleState) removeUnattached(e *EdgeState) {
	for i, u := range m.unattached {
		if u == e {
			m.unattached = slices.Delete(m.unattached, i, i+1)
			return
		}
	}
}

package modgraph

import (
	"slices"
	"strings"
)

// Failure is one localized resolution problem: a selector that could not be
// satisfied, a variant that could not be chosen, or metadata that could not
// be loaded. Failures are isolated to the edges they occur on and do not
// abort resolution.
type Failure struct {
	// Where identifies the requirement or node the failure occurred at.
	Where string
	Err   error
}

// Mismatch records a fixed version requirement that lost conflict resolution
// and was left unattached.
type Mismatch struct {
	// From is the node declaring the requirement.
	From string
	Err  *VersionMismatchError
}

// Report collects everything that went wrong locally during a resolution
// that still produced a graph.
type Report struct {
	Failures   []Failure
	Mismatches []Mismatch
}

func newReport() *Report {
	return &Report{}
}

// HasFailures reports whether any local failure or mismatch was recorded.
func (r *Report) HasFailures() bool {
	return len(r.Failures) > 0 || len(r.Mismatches) > 0
}

func (r *Report) addFailure(where string, err error) {
	r.Failures = append(r.Failures, Failure{Where: where, Err: err})
}

func (r *Report) addMismatch(from string, err *VersionMismatchError) {
	r.Mismatches = append(r.Mismatches, Mismatch{From: from, Err: err})
}

// collect walks the final state and records failures left on selectors and
// live edges, in a stable order.
func (r *Report) collect(rs *ResolveState) {
	defer func() {
		slices.SortFunc(r.Failures, func(a, b Failure) int {
			return strings.Compare(a.Where, b.Where)
		})
		slices.SortFunc(r.Mismatches, func(a, b Mismatch) int {
			return strings.Compare(a.From, b.From)
		})
	}()
	for key, s := range rs.selectors {
		if s.failure != nil {
			r.addFailure(key.module+"@"+key.requirement, s.failure)
		}
	}
	for _, n := range rs.nodes {
		if !n.IsSelected() {
			continue
		}
		for _, e := range n.outgoing {
			// Selector failures are already reported once per selector.
			switch {
			case e.failure != nil:
				r.addFailure(e.from.String()+" -> "+e.decl.Module, e.failure)
			case e.mismatch != nil:
				r.addMismatch(e.from.String(), e.mismatch)
			default:
				if c := e.targetComponent(); c != nil && c.metadataFailure != nil {
					r.addFailure(e.from.String()+" -> "+c.id.String(), c.metadataFailure)
				}
			}
		}
	}
}

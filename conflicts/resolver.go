package conflicts

import (
	"errors"

	"github.com/modgraph/go-modgraph/version"
)

// ErrNoResolverDecided is returned (wrapped) by Handler.ResolveNext when
// every resolver in the chain declined the conflict.
var ErrNoResolverDecided = errors.New("no conflict resolver selected a candidate")

// Candidate is the view of a component version that the conflict machinery
// needs: an orderable version and an append-only selection-reason trail.
type Candidate interface {
	Version() string
	AddCause(cause Cause)
}

// Details carries one conflict through the resolver chain. A resolver either
// declines (leaves the details untouched), decides via Select, or aborts the
// whole resolution via Fail.
type Details[T any] struct {
	candidates  []T
	selected    T
	hasSelected bool
	failure     error
}

// NewDetails creates resolver details over a candidate pool.
func NewDetails[T any](candidates []T) *Details[T] {
	return &Details[T]{candidates: candidates}
}

// Candidates returns the candidate pool.
func (d *Details[T]) Candidates() []T { return d.candidates }

// Select marks the winner.
func (d *Details[T]) Select(candidate T) {
	d.selected = candidate
	d.hasSelected = true
}

// Selected returns the winner, if any resolver decided.
func (d *Details[T]) Selected() (T, bool) { return d.selected, d.hasSelected }

// Fail records a fatal resolution failure.
func (d *Details[T]) Fail(err error) { d.failure = err }

// Failure returns the recorded failure, or nil.
func (d *Details[T]) Failure() error { return d.failure }

// Resolver is one strategy in the conflict resolver chain. Implementations
// decide by calling d.Select, abort by calling d.Fail, or decline by doing
// neither.
type Resolver[T any] interface {
	Select(d *Details[T])
}

// Chain is an ordered list of resolvers. The first resolver that decides or
// fails ends the chain; later resolvers get no say.
type Chain[T any] struct {
	resolvers []Resolver[T]
}

// NewChain creates a chain from the given resolvers, consulted in order.
func NewChain[T any](resolvers ...Resolver[T]) *Chain[T] {
	return &Chain[T]{resolvers: resolvers}
}

// AddFirst prepends an override resolver, giving it first refusal.
func (c *Chain[T]) AddFirst(r Resolver[T]) {
	c.resolvers = append([]Resolver[T]{r}, c.resolvers...)
}

// Select runs the chain against the details.
func (c *Chain[T]) Select(d *Details[T]) {
	for _, r := range c.resolvers {
		r.Select(d)
		if d.failure != nil || d.hasSelected {
			return
		}
	}
}

// VersionResolver is the baseline strategy: always decisive, it picks the
// candidate with the highest version precedence under Compare. Ties keep the
// first-seen candidate, so resolution stays deterministic for
// equal-precedence versions.
type VersionResolver[T Candidate] struct {
	// Compare orders two version strings; nil means version.Compare.
	Compare version.Comparator
}

func (r VersionResolver[T]) Select(d *Details[T]) {
	candidates := d.Candidates()
	if len(candidates) == 0 {
		d.Fail(errors.New("conflict has no candidates"))
		return
	}
	compare := r.Compare
	if compare == nil {
		compare = version.Compare
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if compare(c.Version(), best.Version()) > 0 {
			best = c
		}
	}
	d.Select(best)
}

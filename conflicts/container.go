package conflicts

import (
	"cmp"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// Container batches up candidates that compete for selection under the same
// key, generic over the key type K and the candidate type T.
//
// Candidates are registered per key; the container reports a conflict when a
// key holds two or more distinct candidates, or when a key is linked to
// another by a replacement ("replaced by") relation and both keys have
// registered candidates. Pending conflicts are handed out in
// first-registered-first order.
//
// Container is not safe for concurrent use; all graph mutation happens on
// the resolution goroutine.
type Container[K cmp.Ordered, T any] struct {
	elements       map[K][]T
	targetToSource map[K]K
	pending        []*pendingConflict[K]
	byParticipant  map[K]*pendingConflict[K]
}

type pendingConflict[K cmp.Ordered] struct {
	participants mapset.Set[K]
	// candidateKey names the element list that supplies the winner pool.
	// For a replacement conflict this is the replacement target, so the
	// winner is always drawn from the replacing module's candidates.
	candidateKey K
}

// Conflict is an immutable snapshot of one pending conflict, taken when it
// is popped from the container.
type Conflict[K cmp.Ordered, T any] struct {
	// Participants are the keys taking part in the conflict, sorted.
	Participants []K

	// Candidates is the frozen pool the winner must be picked from.
	Candidates []T
}

// Potential describes a conflict noticed during candidate registration.
type Potential[K cmp.Ordered] struct {
	Participants []K
}

// NewContainer creates an empty conflict container.
func NewContainer[K cmp.Ordered, T any]() *Container[K, T] {
	return &Container[K, T]{
		elements:       make(map[K][]T),
		targetToSource: make(map[K]K),
		byParticipant:  make(map[K]*pendingConflict[K]),
	}
}

// RegisterCandidate merges the current candidate list for key into the
// container and returns a Potential if this registration created or updated
// a conflict, nil otherwise.
//
// candidates must be the full current candidate list for key; successive
// registrations for the same key supersede earlier ones. replacedBy, when
// non-nil, records that key is replaced by another key: the two keys then
// conflict as soon as both have candidates, even with a single candidate
// each.
func (c *Container[K, T]) RegisterCandidate(key K, candidates []T, replacedBy *K) *Potential[K] {
	c.elements[key] = slices.Clone(candidates)

	if replacedBy != nil {
		c.targetToSource[*replacedBy] = key
		if _, ok := c.elements[*replacedBy]; ok {
			return c.registerConflict(key, *replacedBy)
		}
	}

	if len(candidates) > 1 {
		return c.registerConflict(key, key)
	}

	if source, ok := c.targetToSource[key]; ok {
		return c.registerConflict(source, key)
	}

	return nil
}

// registerConflict enqueues a conflict between key and candidateKey, merging
// into an already-pending conflict when either key is part of one.
func (c *Container[K, T]) registerConflict(key, candidateKey K) *Potential[K] {
	pc := c.byParticipant[key]
	if pc == nil {
		pc = c.byParticipant[candidateKey]
	}
	if pc == nil {
		pc = &pendingConflict[K]{participants: mapset.NewThreadUnsafeSet[K]()}
		c.pending = append(c.pending, pc)
	}
	pc.participants.Add(key)
	pc.participants.Add(candidateKey)
	pc.candidateKey = candidateKey
	c.byParticipant[key] = pc
	c.byParticipant[candidateKey] = pc

	return &Potential[K]{Participants: sortedKeys(pc.participants)}
}

// PopConflict removes and returns the oldest pending conflict, freezing its
// candidate pool. Panics if the container is empty; callers must check
// IsEmpty first.
func (c *Container[K, T]) PopConflict() Conflict[K, T] {
	if len(c.pending) == 0 {
		panic("conflicts: PopConflict called on empty container")
	}
	pc := c.pending[0]
	c.pending = c.pending[1:]

	participants := sortedKeys(pc.participants)
	for _, p := range participants {
		delete(c.byParticipant, p)
	}

	return Conflict[K, T]{
		Participants: participants,
		Candidates:   slices.Clone(c.elements[pc.candidateKey]),
	}
}

// IsEmpty reports whether no conflicts are pending.
func (c *Container[K, T]) IsEmpty() bool {
	return len(c.pending) == 0
}

func sortedKeys[K cmp.Ordered](s mapset.Set[K]) []K {
	keys := s.ToSlice()
	slices.Sort(keys)
	return keys
}

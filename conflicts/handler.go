package conflicts

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Handler orchestrates conflict handling for one resolution: it registers
// candidates with the container, surfaces pending conflicts, resolves them
// through the chain, and attributes replacement causes to the winner.
//
// Keys are module names; candidates are whatever component state the caller
// tracks, as long as it satisfies Candidate.
type Handler[T Candidate] struct {
	resolvers *Chain[T]
	conflicts *Container[string, T]
	rules     *Rules
	logger    *slog.Logger
}

// NewHandler creates a handler with the given baseline resolver and
// replacement table. rules and logger may be nil.
func NewHandler[T Candidate](baseline Resolver[T], rules *Rules, logger *slog.Logger) *Handler[T] {
	if rules == nil {
		rules = NewRules()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler[T]{
		resolvers: NewChain[T](baseline),
		conflicts: NewContainer[string, T](),
		rules:     rules,
		logger:    logger,
	}
}

// RegisterCandidate registers the current candidate list for a module,
// consulting the replacement table for a forced target, and returns a
// Potential if a conflict resulted.
func (h *Handler[T]) RegisterCandidate(module string, candidates []T) *Potential[string] {
	var replacedBy *string
	if rep, ok := h.rules.ReplacementFor(module); ok {
		target := rep.Target
		replacedBy = &target
	}
	return h.conflicts.RegisterCandidate(module, candidates, replacedBy)
}

// HasConflicts reports whether any batched-up conflicts are pending.
func (h *Handler[T]) HasConflicts() bool {
	return !h.conflicts.IsEmpty()
}

// RegisterResolver prepends an override strategy, giving it first refusal
// over the existing chain.
func (h *Handler[T]) RegisterResolver(r Resolver[T]) {
	h.resolvers.AddFirst(r)
}

// ResolveNext pops one pending conflict and resolves it through the chain.
// The winner gets a "conflict resolution" cause, onResolved is invoked so
// the driver can restart dependent edges, and every participant module with
// a replacement rule contributes a "selected by rule" cause to the winner.
//
// A resolver failure, or a chain where no resolver decides, is fatal: the
// error is returned immediately and the resolution must abort.
func (h *Handler[T]) ResolveNext(onResolved func(participants []string, selected T)) error {
	conflict := h.conflicts.PopConflict()
	details := NewDetails(conflict.Candidates)
	h.resolvers.Select(details)
	if err := details.Failure(); err != nil {
		return fmt.Errorf("resolve conflict between %s: %w", strings.Join(conflict.Participants, ", "), err)
	}
	selected, ok := details.Selected()
	if !ok {
		return fmt.Errorf("resolve conflict between %s: %w", strings.Join(conflict.Participants, ", "), ErrNoResolverDecided)
	}

	selected.AddCause(Cause{
		Kind:        CauseConflictResolution,
		Description: fmt.Sprintf("between versions of %s", strings.Join(conflict.Participants, " and ")),
	})
	onResolved(conflict.Participants, selected)
	h.attributeReplacements(conflict.Participants, selected)

	h.logger.Debug("resolved conflict",
		"participants", conflict.Participants,
		"selected", selected.Version())
	return nil
}

// attributeReplacements appends a "replaced by rule" cause per participant
// with a replacement-table entry, distinct from the winner's own selection
// reason.
func (h *Handler[T]) attributeReplacements(participants []string, selected T) {
	for _, p := range participants {
		rep, ok := h.rules.ReplacementFor(p)
		if !ok {
			continue
		}
		desc := fmt.Sprintf("%s replaced by %s", p, rep.Target)
		if rep.Reason != "" {
			desc += ": " + rep.Reason
		}
		selected.AddCause(Cause{Kind: CauseSelectedByRule, Description: desc})
	}
}

package modgraph

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modgraph/go-modgraph/conflicts"
	"github.com/modgraph/go-modgraph/version"
)

// SelectorState resolves one (module, requirement) pair to a concrete
// component. Selectors are deduplicated across the whole resolution, so a
// requirement shared by many edges is resolved once.
type SelectorState struct {
	rs          *ResolveState
	module      *ModuleState
	requirement string

	resolved *ComponentState
	failure  error
	done     bool
}

func newSelectorState(rs *ResolveState, module *ModuleState, requirement string) *SelectorState {
	return &SelectorState{rs: rs, module: module, requirement: requirement}
}

// Requirement returns the declared version requirement.
func (s *SelectorState) Requirement() string { return s.requirement }

// Failure returns the resolution failure, if any.
func (s *SelectorState) Failure() error { return s.failure }

// Resolved returns the component this selector bound to, or nil when
// resolution failed or has not run.
func (s *SelectorState) Resolved() *ComponentState { return s.resolved }

// resolve binds the selector to a component, listing versions from the
// metadata source for dynamic requirements. It returns the component and
// whether it was newly created; repeated calls are no-ops.
func (s *SelectorState) resolve(ctx context.Context) (*ComponentState, bool, error) {
	if s.done {
		return s.resolved, false, s.failure
	}
	s.done = true

	concrete, err := s.concreteVersion(ctx)
	if err != nil {
		s.failure = &SelectorFailure{
			Module:      s.module.name,
			Requirement: s.requirement,
			Err:         err,
		}
		s.rs.logger.LogAttrs(ctx, slog.LevelDebug, "selector failed",
			slog.String("module", s.module.name),
			slog.String("requirement", s.requirement),
			slog.String("error", err.Error()))
		return nil, false, s.failure
	}

	comp, created := s.module.component(ComponentID{Module: s.module.name, Version: concrete})
	if created {
		comp.AddCause(conflicts.Cause{
			Kind:        conflicts.CauseRequested,
			Description: "requested " + s.module.name + "@" + s.displayRequirement(),
		})
	}
	s.resolved = comp
	return comp, created, nil
}

func (s *SelectorState) concreteVersion(ctx context.Context) (string, error) {
	if !version.IsDynamic(s.requirement) {
		return s.requirement, nil
	}
	available, err := s.rs.source.Versions(ctx, s.module.name)
	if err != nil {
		return "", err
	}
	var matching []string
	for _, v := range available {
		if version.Matches(s.requirement, v) {
			matching = append(matching, v)
		}
	}
	if len(matching) == 0 {
		return "", fmt.Errorf("%w: no version of %s matches %q (available: %d)",
			ErrUnsatisfiable, s.module.name, s.requirement, len(available))
	}
	return version.Max(matching, s.rs.opts.Comparator), nil
}

func (s *SelectorState) displayRequirement() string {
	if s.requirement == "" {
		return "latest"
	}
	return s.requirement
}

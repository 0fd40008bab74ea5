package conflicts

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

type fakeCandidate struct {
	version string
	causes  []Cause
}

func (c *fakeCandidate) Version() string      { return c.version }
func (c *fakeCandidate) AddCause(cause Cause) { c.causes = append(c.causes, cause) }

func causeKinds(c *fakeCandidate) []CauseKind {
	kinds := make([]CauseKind, len(c.causes))
	for i, cause := range c.causes {
		kinds[i] = cause.Kind
	}
	return kinds
}

func TestResolveNextPicksHighestVersion(t *testing.T) {
	h := NewHandler[*fakeCandidate](VersionResolver[*fakeCandidate]{}, nil, nil)
	v1 := &fakeCandidate{version: "1.0"}
	v2 := &fakeCandidate{version: "2.0"}
	if h.RegisterCandidate("a", []*fakeCandidate{v1, v2}) == nil {
		t.Fatal("no conflict registered")
	}

	var gotParticipants []string
	var gotSelected *fakeCandidate
	err := h.ResolveNext(func(participants []string, selected *fakeCandidate) {
		gotParticipants = participants
		gotSelected = selected
	})
	if err != nil {
		t.Fatalf("ResolveNext: %v", err)
	}
	if gotSelected != v2 {
		t.Errorf("selected %v, want 2.0", gotSelected.version)
	}
	if diff := cmp.Diff([]string{"a"}, gotParticipants); diff != "" {
		t.Errorf("participants mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]CauseKind{CauseConflictResolution}, causeKinds(v2)); diff != "" {
		t.Errorf("winner causes mismatch (-want +got):\n%s", diff)
	}
	if len(v1.causes) != 0 {
		t.Errorf("loser got causes %v", v1.causes)
	}
}

func TestVersionResolverTieKeepsFirstSeen(t *testing.T) {
	first := &fakeCandidate{version: "1.0"}
	second := &fakeCandidate{version: "1.0"}
	d := NewDetails([]*fakeCandidate{first, second})
	VersionResolver[*fakeCandidate]{}.Select(d)
	selected, ok := d.Selected()
	if !ok || selected != first {
		t.Errorf("tie selected %p, want first-seen candidate", selected)
	}
}

func TestReplacementAttribution(t *testing.T) {
	rules := NewRules()
	if err := rules.Add("old", "new", "migrated upstream"); err != nil {
		t.Fatal(err)
	}
	h := NewHandler[*fakeCandidate](VersionResolver[*fakeCandidate]{}, rules, nil)

	oldV := &fakeCandidate{version: "9.0"}
	newV := &fakeCandidate{version: "1.0"}
	h.RegisterCandidate("old", []*fakeCandidate{oldV})
	if h.RegisterCandidate("new", []*fakeCandidate{newV}) == nil {
		t.Fatal("replacement did not register a conflict")
	}

	err := h.ResolveNext(func([]string, *fakeCandidate) {})
	if err != nil {
		t.Fatalf("ResolveNext: %v", err)
	}

	// The replacement target wins regardless of version precedence, and is
	// attributed both the resolution and the rule.
	want := []CauseKind{CauseConflictResolution, CauseSelectedByRule}
	if diff := cmp.Diff(want, causeKinds(newV)); diff != "" {
		t.Errorf("winner causes mismatch (-want +got):\n%s", diff)
	}
	if len(oldV.causes) != 0 {
		t.Errorf("replaced candidate got causes %v", oldV.causes)
	}
}

type declineResolver struct{}

func (declineResolver) Select(*Details[*fakeCandidate]) {}

type pickFirstResolver struct{}

func (pickFirstResolver) Select(d *Details[*fakeCandidate]) {
	d.Select(d.Candidates()[0])
}

type failingResolver struct{ err error }

func (r failingResolver) Select(d *Details[*fakeCandidate]) { d.Fail(r.err) }

func TestChainFirstDeciderWins(t *testing.T) {
	h := NewHandler[*fakeCandidate](VersionResolver[*fakeCandidate]{}, nil, nil)
	h.RegisterResolver(declineResolver{})
	h.RegisterResolver(pickFirstResolver{})

	low := &fakeCandidate{version: "1.0"}
	high := &fakeCandidate{version: "2.0"}
	h.RegisterCandidate("a", []*fakeCandidate{low, high})

	var selected *fakeCandidate
	if err := h.ResolveNext(func(_ []string, s *fakeCandidate) { selected = s }); err != nil {
		t.Fatalf("ResolveNext: %v", err)
	}
	// The prepended resolver overrides the baseline highest-version pick.
	if selected != low {
		t.Errorf("selected %s, want the override's first candidate", selected.version)
	}
}

func TestResolveNextFailureIsFatal(t *testing.T) {
	boom := errors.New("boom")
	h := NewHandler[*fakeCandidate](VersionResolver[*fakeCandidate]{}, nil, nil)
	h.RegisterResolver(failingResolver{err: boom})
	h.RegisterCandidate("a", []*fakeCandidate{{version: "1.0"}, {version: "2.0"}})

	err := h.ResolveNext(func([]string, *fakeCandidate) {
		t.Error("onResolved called after resolver failure")
	})
	if !errors.Is(err, boom) {
		t.Errorf("ResolveNext error = %v, want wrapped boom", err)
	}
}

func TestResolveNextNoDecision(t *testing.T) {
	h := &Handler[*fakeCandidate]{
		resolvers: NewChain[*fakeCandidate](declineResolver{}),
		conflicts: NewContainer[string, *fakeCandidate](),
		rules:     NewRules(),
		logger:    discardLogger(),
	}
	h.RegisterCandidate("a", []*fakeCandidate{{version: "1.0"}, {version: "2.0"}})

	err := h.ResolveNext(func([]string, *fakeCandidate) {})
	if !errors.Is(err, ErrNoResolverDecided) {
		t.Errorf("ResolveNext error = %v, want ErrNoResolverDecided", err)
	}
}

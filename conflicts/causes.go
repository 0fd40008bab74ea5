package conflicts

// CauseKind classifies one entry in a component's selection-reason trail.
type CauseKind string

const (
	// CauseRoot marks the root component of the resolution.
	CauseRoot CauseKind = "root"

	// CauseRequested marks a version requested by a dependency declaration.
	CauseRequested CauseKind = "requested"

	// CauseConflictResolution marks a winner picked by the resolver chain.
	CauseConflictResolution CauseKind = "conflict resolution"

	// CauseSelectedByRule marks a winner forced by a replacement rule.
	CauseSelectedByRule CauseKind = "selected by rule"
)

// Cause is one append-only entry in a component's selection audit trail.
type Cause struct {
	Kind        CauseKind
	Description string
}

func (c Cause) String() string {
	if c.Description == "" {
		return string(c.Kind)
	}
	return string(c.Kind) + ": " + c.Description
}

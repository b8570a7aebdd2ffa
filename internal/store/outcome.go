package store

// Outcome reports how a store operation resolved. Every operation
// returns one synchronously; failures never propagate as errors past
// the store boundary.
type Outcome int

const (
	// OutcomeRejected means nothing changed: validation failed, the
	// entity does not exist, or a read had no session to work with.
	OutcomeRejected Outcome = iota
	// OutcomeApplied means the server confirmed the operation and its
	// result was committed.
	OutcomeApplied
	// OutcomeAppliedLocally means the equivalent local-only mutation
	// was applied, either because no session exists or because the
	// remote call failed.
	OutcomeAppliedLocally
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeAppliedLocally:
		return "applied locally"
	default:
		return "rejected"
	}
}

// Mutated reports whether the operation changed store state
func (o Outcome) Mutated() bool {
	return o == OutcomeApplied || o == OutcomeAppliedLocally
}

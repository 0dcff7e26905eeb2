package rete

// Accumulator is the fold interface an AccumulateNode runs over its
// matching elements: reduce folds a fact into state, combine merges two
// states (must be associative for correct sum-of-matches behavior),
// retract undoes a fact from state, and convert maps the final state to
// the value exposed to children.
//
// Reduce is called with a nil state the first time a group is seen and no
// Initial value is configured; implementations should treat a nil state as
// "empty" rather than panic.
type Accumulator struct {
	// Initial returns the starting state and true, or ok=false if the
	// accumulator has no initial value (it then contributes nothing to an
	// empty group).
	Initial func() (state any, ok bool)
	Reduce  func(state any, fact Fact) any
	Combine func(a, b any) any
	// Retract undoes fact's contribution to state. ok=false means the
	// result is no longer computable and the group's accumulated token
	// should simply be withdrawn rather than replaced.
	Retract func(state any, fact Fact) (newState any, ok bool)
	Convert func(state any) any
	// ResultBinding, if non-empty, binds Convert's output under this
	// variable name in every composite token the node emits.
	ResultBinding string
}

// accumResultFact is the synthetic Fact recorded in a composite token's
// Match so the token's provenance trail and hash reflect which accumulator
// and which group produced it, without needing the accumulated value
// itself to be Fact-shaped.
type accumResultFact struct {
	description string
	groupKey    string
}

func (f accumResultFact) Key() string { return f.description + "#" + f.groupKey }

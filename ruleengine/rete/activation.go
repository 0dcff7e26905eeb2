package rete

// Activation is a pending execution of a production's RHS against a
// specific Token, queued on the agenda by ProductionNode.LeftActivate and
// drained by the firing loop.
type Activation struct {
	Node  Node
	Token Token
	// Salience and Specificity are copied from the owning ProductionNode at
	// enqueue time so an agenda.Order can break ties without reaching back
	// into the node graph.
	Salience    int
	Specificity int
	// sequence is assigned by the memory implementation in activation
	// order, giving a stable LIFO tiebreaker (most recently activated
	// first) independent of map iteration order.
	sequence int64
}

// Sequence exposes the activation's enqueue order for agenda.Order
// implementations that want LIFO/FIFO tiebreaking.
func (a Activation) Sequence() int64 { return a.sequence }

// WithSequence returns a copy of the activation stamped with seq. Package
// wm, which owns the agenda, calls this on enqueue; tests use it to build
// activations with a chosen sequence.
func (a Activation) WithSequence(seq int64) Activation {
	a.sequence = seq
	return a
}

package rete

// AlphaFunc tests a single fact against a node's compiled condition. It
// returns the bindings produced by a match, or ok=false for "no match".
// env is an opaque per-node configuration value a compiler can attach at
// build time; most alpha conditions close over their condition directly
// instead of inspecting it.
type AlphaFunc func(fact Fact, env any) (Bindings, bool)

// AlphaNode is a per-fact-type condition evaluator. It holds no
// memory of its own — the matched element-set lives in whichever beta
// node's memory cell receives the element — so Activate/Retract are pure
// functions of the fact handed to them, fanning the resulting Element out
// to children via Transport.
type AlphaNode struct {
	base
	FactType string
	Env      any
	Cond     AlphaFunc
}

// NewAlphaNode builds an alpha node gated to facts of factType, using cond
// to derive bindings.
func NewAlphaNode(factType string, cond AlphaFunc) *AlphaNode {
	return &AlphaNode{FactType: factType, Cond: cond}
}

// Activate evaluates fact against the node's condition and, on a match,
// propagates the resulting Element to every child.
func (a *AlphaNode) Activate(ctx *RuleContext, mem Memory, lis Listener, fact Fact) {
	bindings, ok := a.Cond(fact, a.Env)
	if !ok {
		return
	}
	SendElements(ctx, mem, lis, a.children, []Element{{Fact: fact, Bindings: bindings}})
}

// Retract evaluates fact against the node's condition exactly as Activate
// does and, on a match, propagates a retraction of that Element. Whether
// the element was actually present downstream is for each child's own
// memory to decide — retracting something not present is a no-op, not an
// error.
func (a *AlphaNode) Retract(ctx *RuleContext, mem Memory, lis Listener, fact Fact) {
	bindings, ok := a.Cond(fact, a.Env)
	if !ok {
		return
	}
	RetractElements(ctx, mem, lis, a.children, []Element{{Fact: fact, Bindings: bindings}})
}

// Describe matches the Node-family Describe contract so listener traces can
// name an alpha node the same way they name a beta node.
func (a *AlphaNode) Describe() string {
	return "Alpha(" + a.FactType + ")"
}

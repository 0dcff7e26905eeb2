// Package testkit builds rete.Rulebase values directly, without a rule
// DSL, so this module's own tests can assemble small networks node by
// node. It is not a compiler and is not meant for production rule
// authoring.
package testkit

import (
	"github.com/andrew-nguyen/clara-rules/ruleengine/agenda"
	"github.com/andrew-nguyen/clara-rules/ruleengine/rete"
	"github.com/andrew-nguyen/clara-rules/ruleengine/wm"
)

// Chain wires each node in order as the child of the one before it,
// returning the same slice for convenience at the call site.
func Chain(nodes ...rete.Node) []rete.Node {
	for i := 0; i < len(nodes)-1; i++ {
		nodes[i].AddChild(nodes[i+1])
	}
	return nodes
}

// NewRulebase assembles a Rulebase from its four node collections.
func NewRulebase(alphas []*rete.AlphaNode, roots []*rete.RootJoinNode, productions []*rete.ProductionNode, queries []*rete.QueryNode) *rete.Rulebase {
	rb := rete.NewRulebase()
	for _, a := range alphas {
		rb.AddAlpha(a)
	}
	for _, r := range roots {
		rb.AddRoot(r)
	}
	for _, p := range productions {
		rb.AddProduction(p)
	}
	for _, q := range queries {
		rb.AddQuery(q)
	}
	return rb
}

// NoopMutator satisfies rete.Mutator without re-entering any session; it
// is enough for node-level tests that drive LeftActivate/RightActivate
// directly and never need a production's RHS to insert/retract.
type NoopMutator struct{}

func (NoopMutator) Insert(facts ...rete.Fact)  {}
func (NoopMutator) Retract(facts ...rete.Fact) {}

// NewContext returns a *rete.RuleContext backed by NoopMutator, suitable
// for tests that exercise nodes below the Session layer.
func NewContext() *rete.RuleContext {
	return &rete.RuleContext{Session: NoopMutator{}}
}

// NewMemory returns a fresh transient working memory using agenda's
// default ordering, for tests that drive nodes directly against a
// rete.Memory without going through a Session.
func NewMemory() *wm.Transient {
	return wm.NewTransient(agenda.Default())
}

package rete

// Action is a rule's right-hand side: given the RuleContext (letting it
// re-enter the session via ctx.Session) and the firing token's bindings, it
// performs whatever side effects the rule author wrote. It is invoked from
// the firing loop (package ruleengine), never directly by a node.
type Action func(ctx *RuleContext, token Token, bindings Bindings)

// ProductionNode is the terminal node that turns a satisfied left token
// into a pending Activation. NoLoop implements the built-in control-flow
// guard: while this production's own RHS is executing (ctx.Firing == this
// node), activating it again is skipped rather than queued, breaking a
// rule's trivial self-reinsertion loop.
type ProductionNode struct {
	base
	Name        string
	NoLoop      bool
	Salience    int
	Specificity int
	RHS         Action
}

func NewProductionNode(name string, rhs Action) *ProductionNode {
	return &ProductionNode{Name: name, RHS: rhs}
}

func (p *ProductionNode) Kind() Kind         { return KindProduction }
func (p *ProductionNode) Describe() string   { return "Production(" + p.Name + ")" }
func (p *ProductionNode) JoinKeys() []string { return nil }

func (p *ProductionNode) LeftActivate(ctx *RuleContext, mem Memory, lis Listener, joinBindings string, tokens []Token) {
	lis.LeftActivate(p, tokens)
	added := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if mem.AddToken(p, joinBindings, t) {
			added = append(added, t)
		}
	}
	if len(added) == 0 {
		return
	}
	firing := ctx != nil && ctx.Firing != nil && ctx.Firing == Node(p)
	acts := make([]Activation, 0, len(added))
	for _, t := range added {
		if p.NoLoop && firing {
			continue
		}
		acts = append(acts, Activation{Node: p, Token: t, Salience: p.Salience, Specificity: p.Specificity})
	}
	if len(acts) == 0 {
		return
	}
	mem.AddActivations(acts)
	lis.AddActivations(p, acts)
}

func (p *ProductionNode) LeftRetract(ctx *RuleContext, mem Memory, lis Listener, joinBindings string, tokens []Token) {
	lis.LeftRetract(p, tokens)
	removed := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if mem.RemoveToken(p, joinBindings, t) {
			removed = append(removed, t)
		}
	}
	if len(removed) == 0 {
		return
	}
	mem.RemoveActivationsForTokens(p, removed)
	acts := make([]Activation, 0, len(removed))
	for _, t := range removed {
		acts = append(acts, Activation{Node: p, Token: t})
	}
	lis.RemoveActivations(p, acts)

	for _, t := range removed {
		facts := mem.TakeInsertions(p, t)
		if len(facts) == 0 {
			continue
		}
		if ctx != nil && ctx.Session != nil {
			ctx.Session.Retract(facts...)
		}
	}
}

func (p *ProductionNode) RightActivate(ctx *RuleContext, mem Memory, lis Listener, joinBindings string, elements []Element) {
}

func (p *ProductionNode) RightRetract(ctx *RuleContext, mem Memory, lis Listener, joinBindings string, elements []Element) {
}

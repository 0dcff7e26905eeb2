package rete

// Rulebase is the compiled, immutable network every Session runs against:
// AlphaNodes indexed by fact type at the roots, feeding a beta network of
// JoinNode/NegationNode/TestNode/AccumulateNode layers that terminate in
// ProductionNodes and QueryNodes. A single Rulebase can back any number of
// concurrently running sessions, since it carries no per-session state —
// all of that lives in a session's own Memory.
type Rulebase struct {
	// AlphaRoots holds every alpha node, indexed by fact type. Insert/Retract
	// look a fact's type up here and activate every root registered for it.
	AlphaRoots map[string][]*AlphaNode
	// BetaRoots holds the RootJoinNode for every condition with no left
	// parent, each fed directly by one alpha node.
	BetaRoots []*RootJoinNode
	// Productions is every terminal production node in the network, for
	// diagnostics that list loaded rules. The firing loop does not read it;
	// it drains the agenda held in memory.
	Productions []*ProductionNode
	// Queries is every query node, indexed by name.
	Queries map[string]*QueryNode
}

// NewRulebase returns an empty Rulebase ready for AddAlpha/AddRoot/AddQuery.
func NewRulebase() *Rulebase {
	return &Rulebase{
		AlphaRoots: make(map[string][]*AlphaNode),
		Queries:    make(map[string]*QueryNode),
	}
}

// AddAlpha registers an alpha node as a root for its fact type.
func (r *Rulebase) AddAlpha(a *AlphaNode) {
	r.AlphaRoots[a.FactType] = append(r.AlphaRoots[a.FactType], a)
}

// AddRoot registers a RootJoinNode that starts a chain of beta nodes.
func (r *Rulebase) AddRoot(root *RootJoinNode) {
	r.BetaRoots = append(r.BetaRoots, root)
}

// AddProduction registers a terminal production node.
func (r *Rulebase) AddProduction(p *ProductionNode) {
	r.Productions = append(r.Productions, p)
}

// AddQuery registers a named query node.
func (r *Rulebase) AddQuery(q *QueryNode) {
	r.Queries[q.Name] = q
}

// Insert activates every alpha root registered for fact's type.
func (r *Rulebase) Insert(ctx *RuleContext, mem Memory, lis Listener, fact Fact) {
	for _, a := range r.AlphaRoots[FactType(fact)] {
		a.Activate(ctx, mem, lis, fact)
	}
}

// Retract retracts fact from every alpha root registered for its type.
func (r *Rulebase) Retract(ctx *RuleContext, mem Memory, lis Listener, fact Fact) {
	for _, a := range r.AlphaRoots[FactType(fact)] {
		a.Retract(ctx, mem, lis, fact)
	}
}

// Query looks up a query node by name, reporting UnknownQueryError if none
// was registered under that name.
func (r *Rulebase) Query(name string) (*QueryNode, error) {
	q, ok := r.Queries[name]
	if !ok {
		return nil, &UnknownQueryError{QueryName: name}
	}
	return q, nil
}

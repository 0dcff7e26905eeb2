package rete

// QueryMemory is the minimal read surface a snapshot needs to answer a
// named query: every token stored at a QueryNode, by join bindings. It is
// satisfied by package wm's Persistent without requiring a full Memory, so
// querying never needs a transient conversion round-trip.
type QueryMemory interface {
	Tokens(node Node, joinBindings string) []Token
	TokenGroups(node Node) []string
}

// QueryNode stores every token reaching it, keyed by the projection of its
// bindings onto ParamKeys, so a later Session.Query(name, params) can look
// up matches for a given parameter binding without re-running the network.
type QueryNode struct {
	base
	Name      string
	ParamKeys []string
}

func NewQueryNode(name string, paramKeys ...string) *QueryNode {
	return &QueryNode{Name: name, ParamKeys: paramKeys}
}

func (q *QueryNode) Kind() Kind         { return KindQuery }
func (q *QueryNode) Describe() string   { return "Query(" + q.Name + ")" }
func (q *QueryNode) JoinKeys() []string { return q.ParamKeys }

func (q *QueryNode) LeftActivate(ctx *RuleContext, mem Memory, lis Listener, joinBindings string, tokens []Token) {
	lis.LeftActivate(q, tokens)
	for _, t := range tokens {
		mem.AddToken(q, joinBindings, t)
	}
}

func (q *QueryNode) LeftRetract(ctx *RuleContext, mem Memory, lis Listener, joinBindings string, tokens []Token) {
	lis.LeftRetract(q, tokens)
	for _, t := range tokens {
		mem.RemoveToken(q, joinBindings, t)
	}
}

func (q *QueryNode) RightActivate(ctx *RuleContext, mem Memory, lis Listener, joinBindings string, elements []Element) {
}

func (q *QueryNode) RightRetract(ctx *RuleContext, mem Memory, lis Listener, joinBindings string, elements []Element) {
}

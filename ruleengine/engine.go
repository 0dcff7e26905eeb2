// Package ruleengine ties the rete network, working memory, listener
// pipeline, and agenda into the public Session surface: insert, retract,
// fire-rules, and query. A Session value is immutable; every mutating
// method returns a new Session while leaving the receiver a valid
// snapshot other goroutines can keep reading.
package ruleengine

import (
	"github.com/andrew-nguyen/clara-rules/ruleengine/agenda"
	"github.com/andrew-nguyen/clara-rules/ruleengine/listener"
	"github.com/andrew-nguyen/clara-rules/ruleengine/rete"
	"github.com/andrew-nguyen/clara-rules/ruleengine/wm"
)

// Session is the immutable, shareable handle a caller drives a rule set
// through. Copying a Session by value is safe; all state it points to is
// either a Persistent snapshot (memory and listener alike) or read-only
// configuration.
type Session struct {
	rulebase *rete.Rulebase
	memory   *wm.Persistent
	listener rete.PersistentListener
	order    agenda.Order
}

// Option configures a Session at construction time.
type Option func(*Session)

// WithListener attaches l as the session's listener pipeline. Pass a
// *listener.DelegatingListener to fan out to several children, or
// *listener.LoggingListener for a one-line-per-event trace. The default
// is rete.NullListener{}.
func WithListener(l rete.Listener) Option {
	return func(s *Session) { s.listener = listener.NewPersistent(l) }
}

// WithAgendaOrder overrides the conflict-resolution policy the agenda
// uses to pick the next activation to fire. The default is
// agenda.Default() (salience, then specificity, then LIFO).
func WithAgendaOrder(order agenda.Order) Option {
	return func(s *Session) { s.order = order }
}

// New builds an empty Session over rb.
func New(rb *rete.Rulebase, opts ...Option) *Session {
	s := &Session{
		rulebase: rb,
		listener: listener.NewPersistent(rete.NullListener{}),
		order:    agenda.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.memory = wm.NewTransient(s.order).ToPersistent()
	return s
}

// liveSession is the rete.Mutator handle an in-flight RHS call receives
// via RuleContext.Session, letting it insert/retract facts against the
// transient memory already open for this insert/retract/fire-rules call.
// When firingNode is non-nil, facts inserted through it are additionally
// recorded in the insertion log under (firingNode, firingToken) so a
// later retraction of that token cascades into retracting them.
type liveSession struct {
	rulebase    *rete.Rulebase
	mem         *wm.Transient
	lis         rete.Listener
	ctx         *rete.RuleContext
	firingNode  *rete.ProductionNode
	firingToken rete.Token
}

func (l *liveSession) Insert(facts ...rete.Fact) {
	if len(facts) == 0 {
		return
	}
	l.lis.InsertFacts(facts)
	for _, f := range facts {
		l.rulebase.Insert(l.ctx, l.mem, l.lis, f)
	}
	if l.firingNode != nil {
		l.mem.RecordInsertions(l.firingNode, l.firingToken, facts)
	}
}

func (l *liveSession) Retract(facts ...rete.Fact) {
	if len(facts) == 0 {
		return
	}
	l.lis.RetractFacts(facts)
	for _, f := range facts {
		l.rulebase.Retract(l.ctx, l.mem, l.lis, f)
	}
}

// snapshot converts the transient memory and transient listener this call
// propagated against back to their persistent, shareable forms, mirroring
// both halves of the same two-phase discipline: t and tl are invalidated
// by this call and must not be touched again afterward.
func (s *Session) snapshot(t *wm.Transient, tl rete.TransientListener) *Session {
	return &Session{
		rulebase: s.rulebase,
		memory:   t.ToPersistent(),
		listener: tl.ToPersistent(),
		order:    s.order,
	}
}

// Insert asserts facts into working memory and propagates them through
// the alpha and beta networks, returning the resulting Session. The
// receiver is left untouched.
func (s *Session) Insert(facts ...rete.Fact) *Session {
	t := s.memory.ToTransient()
	tl := s.listener.ToTransient()
	live := &liveSession{rulebase: s.rulebase, mem: t, lis: tl}
	live.ctx = &rete.RuleContext{Session: live}
	live.Insert(facts...)
	return s.snapshot(t, tl)
}

// Retract withdraws facts from working memory, propagating their removal
// through the network, and returns the resulting Session.
func (s *Session) Retract(facts ...rete.Fact) *Session {
	t := s.memory.ToTransient()
	tl := s.listener.ToTransient()
	live := &liveSession{rulebase: s.rulebase, mem: t, lis: tl}
	live.ctx = &rete.RuleContext{Session: live}
	live.Retract(facts...)
	return s.snapshot(t, tl)
}

// FireRules drains the agenda, executing each pending activation's RHS in
// priority order until none remain, and returns the resulting Session.
// An RHS may call ctx.Session.Insert/Retract, which re-enters the network
// immediately and may enqueue further activations that this same call
// will also drain.
func (s *Session) FireRules() *Session {
	t := s.memory.ToTransient()
	tl := s.listener.ToTransient()
	live := &liveSession{rulebase: s.rulebase, mem: t, lis: tl}
	for {
		act, ok := t.PopActivation()
		if !ok {
			break
		}
		prod, ok := act.Node.(*rete.ProductionNode)
		if !ok || prod.RHS == nil {
			continue
		}
		tl.FireRules(act.Node)
		live.firingNode = prod
		live.firingToken = act.Token
		live.ctx = &rete.RuleContext{Firing: act.Node, Session: live}
		prod.RHS(live.ctx, act.Token, act.Token.Bindings)
	}
	return s.snapshot(t, tl)
}

// Query returns the bindings of every token stored at the named query
// node whose bindings match params. A param left out of params is
// unconstrained, so Query(name, nil) returns every row. It returns
// *rete.UnknownQueryError if name was never registered in the Rulebase.
func (s *Session) Query(name string, params rete.Bindings) ([]rete.Bindings, error) {
	q, err := s.rulebase.Query(name)
	if err != nil {
		return nil, err
	}
	// Answering a query only ever needs the read-only rete.QueryMemory
	// surface, never the full rete.Memory a live propagation writes
	// through — s.memory (a *wm.Persistent) satisfies it without any
	// ToTransient round-trip.
	var mem rete.QueryMemory = s.memory
	var groups []string
	if params.HasAll(q.ParamKeys) {
		groups = []string{params.Project(q.ParamKeys)}
	} else {
		groups = mem.TokenGroups(q)
	}
	var out []rete.Bindings
	for _, g := range groups {
		for _, t := range mem.Tokens(q, g) {
			if t.Bindings.Matches(params) {
				out = append(out, t.Bindings)
			}
		}
	}
	return out, nil
}

// Components exposes the session's internals for tooling and tests.
type Components struct {
	Rulebase *rete.Rulebase
	Memory   *wm.Persistent
	Listener rete.PersistentListener
	Order    agenda.Order
}

// Components returns the session's rulebase, memory snapshot, listener,
// and agenda order.
func (s *Session) Components() Components {
	return Components{
		Rulebase: s.rulebase,
		Memory:   s.memory,
		Listener: s.listener,
		Order:    s.order,
	}
}

package rete

// Memory is the transient working-memory surface every node propagates
// against. It is implemented by package wm's Transient; defining the
// interface here (rather than importing wm) keeps the dependency one-way:
// wm imports rete, never the reverse.
//
// Every method operates on a (node, join-bindings) cell: each node's
// token-set, element-set, and accumulator reductions are partitioned by
// the projected bindings the node joins on.
type Memory interface {
	AddToken(node Node, joinBindings string, t Token) bool
	RemoveToken(node Node, joinBindings string, t Token) bool
	Tokens(node Node, joinBindings string) []Token
	// TokenGroups lists every join-bindings key with a non-empty token-set
	// at node, letting a caller enumerate groups it cannot compute the key
	// for directly (e.g. a query run with some parameters unbound).
	TokenGroups(node Node) []string

	AddElement(node Node, joinBindings string, e Element) bool
	RemoveElement(node Node, joinBindings string, e Element) bool
	Elements(node Node, joinBindings string) []Element

	SetAccumReduced(node Node, joinBindings, factBindingsKey string, factBindings Bindings, state any)
	AccumReduced(node Node, joinBindings, factBindingsKey string) (Bindings, any, bool)
	ClearAccumReduced(node Node, joinBindings, factBindingsKey string)
	AccumGroups(node Node, joinBindings string) []string

	AddActivations(acts []Activation)
	RemoveActivationsForTokens(node Node, toks []Token)
	PopActivation() (Activation, bool)
	AgendaSize() int

	RecordInsertions(node Node, tok Token, facts []Fact)
	TakeInsertions(node Node, tok Token) []Fact
}

// Listener is the observable surface of every propagation event the
// network performs. NullListener is the identity implementation;
// package listener also provides DelegatingListener (fan-out to children)
// and LoggingListener (prints one line per event).
type Listener interface {
	LeftActivate(node Node, tokens []Token)
	LeftRetract(node Node, tokens []Token)
	RightActivate(node Node, elements []Element)
	RightRetract(node Node, elements []Element)
	InsertFacts(facts []Fact)
	RetractFacts(facts []Fact)
	AddAccumReduced(node Node, joinBindings string, reduced any, factBindings Bindings)
	AddActivations(node Node, acts []Activation)
	RemoveActivations(node Node, acts []Activation)
	FireRules(node Node)
	SendMessage(message string)
}

// PersistentListener is the listener pipeline's immutable, shareable form,
// mirroring Persistent on the memory side: safe to hand to several
// sessions at once, and advanced into a TransientListener for exactly one
// insert/retract/fire-rules call.
type PersistentListener interface {
	ToTransient() TransientListener
}

// TransientListener is the mutable, single-call listener form nodes
// observe propagation through; it is itself a Listener. ToPersistent
// snapshots it back and invalidates it, mirroring wm.Transient's
// ToPersistent: any further event delivered to an invalidated
// TransientListener panics with *InvalidatedListenerError.
type TransientListener interface {
	Listener
	ToPersistent() PersistentListener
}

// NullListener observes nothing. The session treats a nil Listener field as
// equivalent to NullListener{}.
type NullListener struct{}

func (NullListener) LeftActivate(Node, []Token)                      {}
func (NullListener) LeftRetract(Node, []Token)                       {}
func (NullListener) RightActivate(Node, []Element)                   {}
func (NullListener) RightRetract(Node, []Element)                    {}
func (NullListener) InsertFacts([]Fact)                              {}
func (NullListener) RetractFacts([]Fact)                             {}
func (NullListener) AddAccumReduced(Node, string, any, Bindings)      {}
func (NullListener) AddActivations(Node, []Activation)                {}
func (NullListener) RemoveActivations(Node, []Activation)             {}
func (NullListener) FireRules(Node)                                   {}
func (NullListener) SendMessage(string)                               {}

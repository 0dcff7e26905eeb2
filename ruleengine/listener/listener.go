// Package listener provides the observable fan-out a Session drives
// alongside its working memory: DelegatingListener forwards every
// propagation event to a fixed list of children, and LoggingListener
// prints one line per event for interactive debugging.
package listener

import (
	"fmt"
	"io"
	"os"

	"github.com/andrew-nguyen/clara-rules/ruleengine/rete"
)

// DelegatingListener forwards every event to each child in order. A
// panicking child propagates to the caller rather than being swallowed —
// listeners are observers, not a place to hide errors.
type DelegatingListener struct {
	Children []rete.Listener
}

func NewDelegatingListener(children ...rete.Listener) *DelegatingListener {
	return &DelegatingListener{Children: children}
}

func (d *DelegatingListener) LeftActivate(node rete.Node, tokens []rete.Token) {
	for _, c := range d.Children {
		c.LeftActivate(node, tokens)
	}
}

func (d *DelegatingListener) LeftRetract(node rete.Node, tokens []rete.Token) {
	for _, c := range d.Children {
		c.LeftRetract(node, tokens)
	}
}

func (d *DelegatingListener) RightActivate(node rete.Node, elements []rete.Element) {
	for _, c := range d.Children {
		c.RightActivate(node, elements)
	}
}

func (d *DelegatingListener) RightRetract(node rete.Node, elements []rete.Element) {
	for _, c := range d.Children {
		c.RightRetract(node, elements)
	}
}

func (d *DelegatingListener) InsertFacts(facts []rete.Fact) {
	for _, c := range d.Children {
		c.InsertFacts(facts)
	}
}

func (d *DelegatingListener) RetractFacts(facts []rete.Fact) {
	for _, c := range d.Children {
		c.RetractFacts(facts)
	}
}

func (d *DelegatingListener) AddAccumReduced(node rete.Node, joinBindings string, reduced any, factBindings rete.Bindings) {
	for _, c := range d.Children {
		c.AddAccumReduced(node, joinBindings, reduced, factBindings)
	}
}

func (d *DelegatingListener) AddActivations(node rete.Node, acts []rete.Activation) {
	for _, c := range d.Children {
		c.AddActivations(node, acts)
	}
}

func (d *DelegatingListener) RemoveActivations(node rete.Node, acts []rete.Activation) {
	for _, c := range d.Children {
		c.RemoveActivations(node, acts)
	}
}

func (d *DelegatingListener) FireRules(node rete.Node) {
	for _, c := range d.Children {
		c.FireRules(node)
	}
}

func (d *DelegatingListener) SendMessage(message string) {
	for _, c := range d.Children {
		c.SendMessage(message)
	}
}

// LoggingListener writes one line per propagation event to Out (stderr if
// nil), prefixed with Prefix. Intended for interactive debugging of a
// rule set, not for production log volumes.
type LoggingListener struct {
	Out    io.Writer
	Prefix string
}

func NewLoggingListener(prefix string) *LoggingListener {
	return &LoggingListener{Prefix: prefix}
}

func (l *LoggingListener) out() io.Writer {
	if l.Out != nil {
		return l.Out
	}
	return os.Stderr
}

func (l *LoggingListener) printf(format string, args ...any) {
	fmt.Fprintf(l.out(), l.Prefix+format+"\n", args...)
}

func (l *LoggingListener) LeftActivate(node rete.Node, tokens []rete.Token) {
	l.printf("left-activate %s: %d token(s)", node.Describe(), len(tokens))
}

func (l *LoggingListener) LeftRetract(node rete.Node, tokens []rete.Token) {
	l.printf("left-retract %s: %d token(s)", node.Describe(), len(tokens))
}

func (l *LoggingListener) RightActivate(node rete.Node, elements []rete.Element) {
	l.printf("right-activate %s: %d element(s)", node.Describe(), len(elements))
}

func (l *LoggingListener) RightRetract(node rete.Node, elements []rete.Element) {
	l.printf("right-retract %s: %d element(s)", node.Describe(), len(elements))
}

func (l *LoggingListener) InsertFacts(facts []rete.Fact) {
	l.printf("insert: %d fact(s)", len(facts))
}

func (l *LoggingListener) RetractFacts(facts []rete.Fact) {
	l.printf("retract: %d fact(s)", len(facts))
}

func (l *LoggingListener) AddAccumReduced(node rete.Node, joinBindings string, reduced any, factBindings rete.Bindings) {
	l.printf("accum-reduced %s[%s]: %v", node.Describe(), joinBindings, reduced)
}

func (l *LoggingListener) AddActivations(node rete.Node, acts []rete.Activation) {
	l.printf("agenda += %d activation(s) from %s", len(acts), node.Describe())
}

func (l *LoggingListener) RemoveActivations(node rete.Node, acts []rete.Activation) {
	l.printf("agenda -= %d activation(s) from %s", len(acts), node.Describe())
}

func (l *LoggingListener) FireRules(node rete.Node) {
	l.printf("fire %s", node.Describe())
}

func (l *LoggingListener) SendMessage(message string) {
	l.printf("%s", message)
}

// Cloner lets a stateful listener opt into the same per-generation
// isolation wm.Transient/Persistent give working memory: Clone returns an
// independent copy carrying the same accumulated state, so two Sessions
// forked from one ancestor each mutate their own copy of the listener
// instead of a single shared one. Listeners with no state worth isolating
// (NullListener, DelegatingListener over stateless children,
// LoggingListener) do not need to implement it.
type Cloner interface {
	Clone() rete.Listener
}

// Transient is the mutable, single-cycle listener form a Session converts
// into before running one insert/retract/fire-rules batch: it implements
// rete.Listener by forwarding every event to delegate, and is invalidated
// by its own ToPersistent call exactly like wm.Transient is invalidated by
// its ToPersistent. Touching an invalidated Transient panics with
// *rete.InvalidatedListenerError.
type Transient struct {
	generation int
	invalid    bool
	delegate   rete.Listener
}

func (t *Transient) checkLive() {
	if t.invalid {
		panic(&rete.InvalidatedListenerError{Generation: t.generation})
	}
}

func (t *Transient) LeftActivate(node rete.Node, tokens []rete.Token) {
	t.checkLive()
	t.delegate.LeftActivate(node, tokens)
}

func (t *Transient) LeftRetract(node rete.Node, tokens []rete.Token) {
	t.checkLive()
	t.delegate.LeftRetract(node, tokens)
}

func (t *Transient) RightActivate(node rete.Node, elements []rete.Element) {
	t.checkLive()
	t.delegate.RightActivate(node, elements)
}

func (t *Transient) RightRetract(node rete.Node, elements []rete.Element) {
	t.checkLive()
	t.delegate.RightRetract(node, elements)
}

func (t *Transient) InsertFacts(facts []rete.Fact) {
	t.checkLive()
	t.delegate.InsertFacts(facts)
}

func (t *Transient) RetractFacts(facts []rete.Fact) {
	t.checkLive()
	t.delegate.RetractFacts(facts)
}

func (t *Transient) AddAccumReduced(node rete.Node, joinBindings string, reduced any, factBindings rete.Bindings) {
	t.checkLive()
	t.delegate.AddAccumReduced(node, joinBindings, reduced, factBindings)
}

func (t *Transient) AddActivations(node rete.Node, acts []rete.Activation) {
	t.checkLive()
	t.delegate.AddActivations(node, acts)
}

func (t *Transient) RemoveActivations(node rete.Node, acts []rete.Activation) {
	t.checkLive()
	t.delegate.RemoveActivations(node, acts)
}

func (t *Transient) FireRules(node rete.Node) {
	t.checkLive()
	t.delegate.FireRules(node)
}

func (t *Transient) SendMessage(message string) {
	t.checkLive()
	t.delegate.SendMessage(message)
}

// ToPersistent freezes t into an immutable snapshot and invalidates t: any
// further event delivered to t panics with *rete.InvalidatedListenerError.
func (t *Transient) ToPersistent() rete.PersistentListener {
	t.checkLive()
	p := &Persistent{generation: t.generation + 1, delegate: t.delegate}
	t.invalid = true
	return p
}

// Persistent is an immutable listener-pipeline snapshot, safe to share
// across Session values. ToTransient advances it into a fresh Transient
// for one insert/retract/fire-rules call, cloning the delegate first if it
// implements Cloner so sibling sessions forked from the same Persistent do
// not mutate one another's listener state.
type Persistent struct {
	generation int
	delegate   rete.Listener
}

// NewPersistent wraps delegate as the session's starting listener
// pipeline. A nil delegate is equivalent to rete.NullListener{}.
func NewPersistent(delegate rete.Listener) *Persistent {
	if delegate == nil {
		delegate = rete.NullListener{}
	}
	return &Persistent{delegate: delegate}
}

func (p *Persistent) ToTransient() rete.TransientListener {
	delegate := p.delegate
	if c, ok := delegate.(Cloner); ok {
		delegate = c.Clone()
	}
	return &Transient{generation: p.generation, delegate: delegate}
}

// Delegate returns the underlying rete.Listener this snapshot wraps, for
// tooling that wants to inspect or compare the configured pipeline rather
// than drive it.
func (p *Persistent) Delegate() rete.Listener { return p.delegate }

var (
	_ rete.PersistentListener = (*Persistent)(nil)
	_ rete.TransientListener  = (*Transient)(nil)
)

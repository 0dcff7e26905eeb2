// Package wm implements the persistent/transient working-memory duality a
// Session runs on: Persistent is an immutable, freely shareable snapshot;
// Transient is the single-threaded, mutable form a Session converts into
// before running a batch of propagation and converts back out of
// afterward. The two forms share no mutable state: ToPersistent and
// ToTransient each deep-copy every cell, so a Persistent snapshot stays
// valid and unaffected no matter what a Transient derived from it (or fed
// back into it) goes on to mutate.
package wm

import (
	"sort"

	"github.com/andrew-nguyen/clara-rules/ruleengine/agenda"
	"github.com/andrew-nguyen/clara-rules/ruleengine/rete"
)

type cellKey struct {
	node rete.Node
	jb   string
}

type accumEntry struct {
	bindings rete.Bindings
	state    any
}

type insertKey struct {
	node rete.Node
	hash string
}

// Transient is the mutable working memory a Session propagates against
// during one insert/retract/fire-rules call. It is not safe for concurrent
// use, and panics with *rete.InvalidatedMemoryError if touched after
// ToPersistent has converted it away.
type Transient struct {
	generation int
	invalid    bool
	order      agenda.Order

	tokens   map[cellKey]map[string]rete.Token
	elements map[cellKey]map[string]rete.Element
	accum    map[cellKey]map[string]accumEntry

	activations []rete.Activation
	sequence    int64

	insertions map[insertKey][]rete.Fact
}

// NewTransient returns an empty Transient memory that breaks agenda ties
// using order. A nil order falls back to agenda.Default().
func NewTransient(order agenda.Order) *Transient {
	if order == nil {
		order = agenda.Default()
	}
	return &Transient{
		order:      order,
		tokens:     make(map[cellKey]map[string]rete.Token),
		elements:   make(map[cellKey]map[string]rete.Element),
		accum:      make(map[cellKey]map[string]accumEntry),
		insertions: make(map[insertKey][]rete.Fact),
	}
}

func (t *Transient) checkLive() {
	if t.invalid {
		panic(&rete.InvalidatedMemoryError{Generation: t.generation})
	}
}

func (t *Transient) AddToken(node rete.Node, joinBindings string, tok rete.Token) bool {
	t.checkLive()
	key := cellKey{node, joinBindings}
	set, ok := t.tokens[key]
	if !ok {
		set = make(map[string]rete.Token)
		t.tokens[key] = set
	}
	h := tok.Hash()
	if _, ok := set[h]; ok {
		return false
	}
	set[h] = tok
	return true
}

func (t *Transient) RemoveToken(node rete.Node, joinBindings string, tok rete.Token) bool {
	t.checkLive()
	key := cellKey{node, joinBindings}
	set, ok := t.tokens[key]
	if !ok {
		return false
	}
	h := tok.Hash()
	if _, ok := set[h]; !ok {
		return false
	}
	delete(set, h)
	return true
}

func (t *Transient) Tokens(node rete.Node, joinBindings string) []rete.Token {
	t.checkLive()
	set := t.tokens[cellKey{node, joinBindings}]
	out := make([]rete.Token, 0, len(set))
	for _, tok := range set {
		out = append(out, tok)
	}
	return out
}

func (t *Transient) TokenGroups(node rete.Node) []string {
	t.checkLive()
	var out []string
	for k, set := range t.tokens {
		if k.node == node && len(set) > 0 {
			out = append(out, k.jb)
		}
	}
	sort.Strings(out)
	return out
}

func (t *Transient) AddElement(node rete.Node, joinBindings string, e rete.Element) bool {
	t.checkLive()
	key := cellKey{node, joinBindings}
	set, ok := t.elements[key]
	if !ok {
		set = make(map[string]rete.Element)
		t.elements[key] = set
	}
	k := e.Key()
	if _, ok := set[k]; ok {
		return false
	}
	set[k] = e
	return true
}

func (t *Transient) RemoveElement(node rete.Node, joinBindings string, e rete.Element) bool {
	t.checkLive()
	key := cellKey{node, joinBindings}
	set, ok := t.elements[key]
	if !ok {
		return false
	}
	k := e.Key()
	if _, ok := set[k]; !ok {
		return false
	}
	delete(set, k)
	return true
}

func (t *Transient) Elements(node rete.Node, joinBindings string) []rete.Element {
	t.checkLive()
	set := t.elements[cellKey{node, joinBindings}]
	out := make([]rete.Element, 0, len(set))
	for _, e := range set {
		out = append(out, e)
	}
	return out
}

func (t *Transient) SetAccumReduced(node rete.Node, joinBindings, factBindingsKey string, factBindings rete.Bindings, state any) {
	t.checkLive()
	key := cellKey{node, joinBindings}
	set, ok := t.accum[key]
	if !ok {
		set = make(map[string]accumEntry)
		t.accum[key] = set
	}
	set[factBindingsKey] = accumEntry{bindings: factBindings, state: state}
}

func (t *Transient) AccumReduced(node rete.Node, joinBindings, factBindingsKey string) (rete.Bindings, any, bool) {
	t.checkLive()
	set := t.accum[cellKey{node, joinBindings}]
	entry, ok := set[factBindingsKey]
	if !ok {
		return nil, nil, false
	}
	return entry.bindings, entry.state, true
}

func (t *Transient) ClearAccumReduced(node rete.Node, joinBindings, factBindingsKey string) {
	t.checkLive()
	set := t.accum[cellKey{node, joinBindings}]
	if set == nil {
		return
	}
	delete(set, factBindingsKey)
}

func (t *Transient) AccumGroups(node rete.Node, joinBindings string) []string {
	t.checkLive()
	set := t.accum[cellKey{node, joinBindings}]
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (t *Transient) AddActivations(acts []rete.Activation) {
	t.checkLive()
	for _, a := range acts {
		t.sequence++
		t.activations = append(t.activations, a.WithSequence(t.sequence))
	}
}

func (t *Transient) RemoveActivationsForTokens(node rete.Node, toks []rete.Token) {
	t.checkLive()
	if len(toks) == 0 || len(t.activations) == 0 {
		return
	}
	drop := make(map[string]bool, len(toks))
	for _, tok := range toks {
		drop[tok.Hash()] = true
	}
	kept := t.activations[:0]
	for _, a := range t.activations {
		if a.Node == node && drop[a.Token.Hash()] {
			continue
		}
		kept = append(kept, a)
	}
	t.activations = kept
}

// PopActivation removes and returns the highest-priority pending
// Activation according to the memory's agenda.Order, or ok=false if the
// agenda is empty.
func (t *Transient) PopActivation() (rete.Activation, bool) {
	t.checkLive()
	if len(t.activations) == 0 {
		return rete.Activation{}, false
	}
	best := 0
	for i := 1; i < len(t.activations); i++ {
		if t.order.Less(t.activations[i], t.activations[best]) {
			best = i
		}
	}
	act := t.activations[best]
	t.activations = append(t.activations[:best], t.activations[best+1:]...)
	return act, true
}

func (t *Transient) AgendaSize() int {
	t.checkLive()
	return len(t.activations)
}

func (t *Transient) RecordInsertions(node rete.Node, tok rete.Token, facts []rete.Fact) {
	t.checkLive()
	if len(facts) == 0 {
		return
	}
	key := insertKey{node, tok.Hash()}
	t.insertions[key] = append(t.insertions[key], facts...)
}

func (t *Transient) TakeInsertions(node rete.Node, tok rete.Token) []rete.Fact {
	t.checkLive()
	key := insertKey{node, tok.Hash()}
	facts := t.insertions[key]
	delete(t.insertions, key)
	return facts
}

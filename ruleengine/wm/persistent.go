package wm

import (
	"sort"

	"github.com/andrew-nguyen/clara-rules/ruleengine/agenda"
	"github.com/andrew-nguyen/clara-rules/ruleengine/rete"
)

// Persistent is an immutable working-memory snapshot, safe to share across
// goroutines and across Session values. It satisfies rete.QueryMemory
// directly, so Session.Query never needs to round-trip through a Transient.
type Persistent struct {
	generation int
	order      agenda.Order

	tokens   map[cellKey]map[string]rete.Token
	elements map[cellKey]map[string]rete.Element
	accum    map[cellKey]map[string]accumEntry

	activations []rete.Activation
	sequence    int64

	insertions map[insertKey][]rete.Fact
}

// ToPersistent freezes t into an immutable snapshot and invalidates t:
// any further method call on t panics with *rete.InvalidatedMemoryError.
func (t *Transient) ToPersistent() *Persistent {
	t.checkLive()
	p := &Persistent{
		generation:  t.generation + 1,
		order:       t.order,
		tokens:      copyTokenCells(t.tokens),
		elements:    copyElementCells(t.elements),
		accum:       copyAccumCells(t.accum),
		activations: append([]rete.Activation(nil), t.activations...),
		sequence:    t.sequence,
		insertions:  copyInsertions(t.insertions),
	}
	t.invalid = true
	return p
}

// ToTransient returns a fresh, mutable working memory seeded from p. p
// itself is left untouched and remains valid for further ToTransient
// calls or Tokens lookups.
func (p *Persistent) ToTransient() *Transient {
	return &Transient{
		generation:  p.generation,
		order:       p.order,
		tokens:      copyTokenCells(p.tokens),
		elements:    copyElementCells(p.elements),
		accum:       copyAccumCells(p.accum),
		activations: append([]rete.Activation(nil), p.activations...),
		sequence:    p.sequence,
		insertions:  copyInsertions(p.insertions),
	}
}

// Tokens satisfies rete.QueryMemory so a query can be answered straight
// from a persistent snapshot.
func (p *Persistent) Tokens(node rete.Node, joinBindings string) []rete.Token {
	set := p.tokens[cellKey{node, joinBindings}]
	out := make([]rete.Token, 0, len(set))
	for _, tok := range set {
		out = append(out, tok)
	}
	return out
}

// TokenGroups lists every join-bindings key with a non-empty token-set at
// node, for rete.QueryMemory callers that need to enumerate groups (e.g.
// a query run with some parameters unbound).
func (p *Persistent) TokenGroups(node rete.Node) []string {
	var out []string
	for k, set := range p.tokens {
		if k.node == node && len(set) > 0 {
			out = append(out, k.jb)
		}
	}
	sort.Strings(out)
	return out
}

// AgendaSize reports how many activations are pending in this snapshot,
// for diagnostics.
func (p *Persistent) AgendaSize() int { return len(p.activations) }

func copyTokenCells(in map[cellKey]map[string]rete.Token) map[cellKey]map[string]rete.Token {
	out := make(map[cellKey]map[string]rete.Token, len(in))
	for k, set := range in {
		inner := make(map[string]rete.Token, len(set))
		for h, tok := range set {
			inner[h] = tok
		}
		out[k] = inner
	}
	return out
}

func copyElementCells(in map[cellKey]map[string]rete.Element) map[cellKey]map[string]rete.Element {
	out := make(map[cellKey]map[string]rete.Element, len(in))
	for k, set := range in {
		inner := make(map[string]rete.Element, len(set))
		for h, e := range set {
			inner[h] = e
		}
		out[k] = inner
	}
	return out
}

func copyAccumCells(in map[cellKey]map[string]accumEntry) map[cellKey]map[string]accumEntry {
	out := make(map[cellKey]map[string]accumEntry, len(in))
	for k, set := range in {
		inner := make(map[string]accumEntry, len(set))
		for h, e := range set {
			inner[h] = e
		}
		out[k] = inner
	}
	return out
}

func copyInsertions(in map[insertKey][]rete.Fact) map[insertKey][]rete.Fact {
	out := make(map[insertKey][]rete.Fact, len(in))
	for k, facts := range in {
		out[k] = append([]rete.Fact(nil), facts...)
	}
	return out
}

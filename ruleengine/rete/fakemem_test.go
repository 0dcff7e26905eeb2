package rete

import "sort"

// fakeMemory is a minimal, non-thread-safe Memory used only by this
// package's own node tests, so they don't need to import package wm (and
// risk an import cycle) just to exercise one node's propagation logic.
type fakeMemory struct {
	tokens      map[Node]map[string]map[string]Token
	elements    map[Node]map[string]map[string]Element
	accum       map[Node]map[string]map[string]accumEntryTest
	activations []Activation
	insertions  map[string][]Fact
	seq         int64
}

type accumEntryTest struct {
	bindings Bindings
	state    any
}

func newFakeMemory() *fakeMemory {
	return &fakeMemory{
		tokens:     make(map[Node]map[string]map[string]Token),
		elements:   make(map[Node]map[string]map[string]Element),
		accum:      make(map[Node]map[string]map[string]accumEntryTest),
		insertions: make(map[string][]Fact),
	}
}

func (m *fakeMemory) AddToken(node Node, jb string, t Token) bool {
	byJB, ok := m.tokens[node]
	if !ok {
		byJB = make(map[string]map[string]Token)
		m.tokens[node] = byJB
	}
	set, ok := byJB[jb]
	if !ok {
		set = make(map[string]Token)
		byJB[jb] = set
	}
	if _, ok := set[t.Hash()]; ok {
		return false
	}
	set[t.Hash()] = t
	return true
}

func (m *fakeMemory) RemoveToken(node Node, jb string, t Token) bool {
	set := m.tokens[node][jb]
	if set == nil {
		return false
	}
	if _, ok := set[t.Hash()]; !ok {
		return false
	}
	delete(set, t.Hash())
	return true
}

func (m *fakeMemory) Tokens(node Node, jb string) []Token {
	set := m.tokens[node][jb]
	out := make([]Token, 0, len(set))
	for _, t := range set {
		out = append(out, t)
	}
	return out
}

func (m *fakeMemory) TokenGroups(node Node) []string {
	var out []string
	for jb, set := range m.tokens[node] {
		if len(set) > 0 {
			out = append(out, jb)
		}
	}
	sort.Strings(out)
	return out
}

func (m *fakeMemory) AddElement(node Node, jb string, e Element) bool {
	byJB, ok := m.elements[node]
	if !ok {
		byJB = make(map[string]map[string]Element)
		m.elements[node] = byJB
	}
	set, ok := byJB[jb]
	if !ok {
		set = make(map[string]Element)
		byJB[jb] = set
	}
	if _, ok := set[e.Key()]; ok {
		return false
	}
	set[e.Key()] = e
	return true
}

func (m *fakeMemory) RemoveElement(node Node, jb string, e Element) bool {
	set := m.elements[node][jb]
	if set == nil {
		return false
	}
	if _, ok := set[e.Key()]; !ok {
		return false
	}
	delete(set, e.Key())
	return true
}

func (m *fakeMemory) Elements(node Node, jb string) []Element {
	set := m.elements[node][jb]
	out := make([]Element, 0, len(set))
	for _, e := range set {
		out = append(out, e)
	}
	return out
}

func (m *fakeMemory) SetAccumReduced(node Node, jb, key string, bindings Bindings, state any) {
	byJB, ok := m.accum[node]
	if !ok {
		byJB = make(map[string]map[string]accumEntryTest)
		m.accum[node] = byJB
	}
	set, ok := byJB[jb]
	if !ok {
		set = make(map[string]accumEntryTest)
		byJB[jb] = set
	}
	set[key] = accumEntryTest{bindings: bindings, state: state}
}

func (m *fakeMemory) AccumReduced(node Node, jb, key string) (Bindings, any, bool) {
	set := m.accum[node][jb]
	e, ok := set[key]
	if !ok {
		return nil, nil, false
	}
	return e.bindings, e.state, true
}

func (m *fakeMemory) ClearAccumReduced(node Node, jb, key string) {
	set := m.accum[node][jb]
	if set == nil {
		return
	}
	delete(set, key)
}

func (m *fakeMemory) AccumGroups(node Node, jb string) []string {
	set := m.accum[node][jb]
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (m *fakeMemory) AddActivations(acts []Activation) {
	for _, a := range acts {
		m.seq++
		m.activations = append(m.activations, a.WithSequence(m.seq))
	}
}

func (m *fakeMemory) RemoveActivationsForTokens(node Node, toks []Token) {
	drop := make(map[string]bool, len(toks))
	for _, t := range toks {
		drop[t.Hash()] = true
	}
	kept := m.activations[:0]
	for _, a := range m.activations {
		if a.Node == node && drop[a.Token.Hash()] {
			continue
		}
		kept = append(kept, a)
	}
	m.activations = kept
}

func (m *fakeMemory) PopActivation() (Activation, bool) {
	if len(m.activations) == 0 {
		return Activation{}, false
	}
	a := m.activations[0]
	m.activations = m.activations[1:]
	return a, true
}

func (m *fakeMemory) AgendaSize() int { return len(m.activations) }

func (m *fakeMemory) RecordInsertions(node Node, t Token, facts []Fact) {
	key := node.Describe() + "|" + t.Hash()
	m.insertions[key] = append(m.insertions[key], facts...)
}

func (m *fakeMemory) TakeInsertions(node Node, t Token) []Fact {
	key := node.Describe() + "|" + t.Hash()
	facts := m.insertions[key]
	delete(m.insertions, key)
	return facts
}

type noopMutator struct{}

func (noopMutator) Insert(facts ...Fact)  {}
func (noopMutator) Retract(facts ...Fact) {}

func testContext() *RuleContext {
	return &RuleContext{Session: noopMutator{}}
}

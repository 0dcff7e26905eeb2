package rete

import "testing"

func TestProductionNodeNoLoopGuard(t *testing.T) {
	mem := newFakeMemory()
	lis := NullListener{}

	var prod *ProductionNode
	firingCtx := &RuleContext{Session: noopMutator{}}
	fired := 0
	prod = NewProductionNode("reflag", func(ctx *RuleContext, tok Token, b Bindings) {
		fired++
		// Simulate the RHS re-entering the production with a fresh token
		// while it is still firing: a Session would normally produce this
		// by re-inserting a fact mid-RHS; here LeftActivate is called
		// directly with ctx marked as currently firing this production.
		next := EmptyToken().Extend(Match{Fact: testFact("flag:1"), Condition: "Flag"}, Bindings{"?round": 1})
		prod.LeftActivate(firingCtx, mem, lis, "", []Token{next})
	})
	prod.NoLoop = true
	firingCtx.Firing = prod

	notFiringCtx := &RuleContext{Session: noopMutator{}}
	initial := EmptyToken().Extend(Match{Fact: testFact("flag:0"), Condition: "Flag"}, Bindings{"?round": 0})
	prod.LeftActivate(notFiringCtx, mem, lis, "", []Token{initial})

	if mem.AgendaSize() != 1 {
		t.Fatalf("expected exactly one queued activation before firing, got %d", mem.AgendaSize())
	}

	act, ok := mem.PopActivation()
	if !ok {
		t.Fatalf("expected one activation on the agenda")
	}
	prod.RHS(firingCtx, act.Token, act.Token.Bindings)
	if fired != 1 {
		t.Fatalf("expected RHS to run exactly once, ran %d times", fired)
	}
	if mem.AgendaSize() != 0 {
		t.Fatalf("expected no-loop to have suppressed the nested activation, agenda size %d", mem.AgendaSize())
	}
}

func TestProductionNodeLeftRetractCascadesInsertions(t *testing.T) {
	mem := newFakeMemory()
	lis := NullListener{}

	var insertedFacts []Fact
	mutator := &recordingMutator{}
	prod := NewProductionNode("emit-adult", func(ctx *RuleContext, tok Token, b Bindings) {})

	tok := EmptyToken().Extend(Match{Fact: testFact("person:A"), Condition: "Person"}, Bindings{"?n": "A"})
	ctx := &RuleContext{Session: mutator}
	prod.LeftActivate(ctx, mem, lis, "", []Token{tok})

	inserted := []Fact{testFact("adult:A")}
	mem.RecordInsertions(prod, tok, inserted)

	prod.LeftRetract(ctx, mem, lis, "", []Token{tok})
	insertedFacts = mutator.retracted
	if len(insertedFacts) != 1 || insertedFacts[0] != testFact("adult:A") {
		t.Fatalf("expected the production's insertion-log to cascade-retract the fact it inserted, got %v", insertedFacts)
	}
}

type recordingMutator struct {
	inserted  []Fact
	retracted []Fact
}

func (m *recordingMutator) Insert(facts ...Fact)  { m.inserted = append(m.inserted, facts...) }
func (m *recordingMutator) Retract(facts ...Fact) { m.retracted = append(m.retracted, facts...) }

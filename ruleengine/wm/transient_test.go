package wm

import (
	"testing"

	"github.com/andrew-nguyen/clara-rules/ruleengine/agenda"
	"github.com/andrew-nguyen/clara-rules/ruleengine/rete"
)

type testFact string

func (f testFact) Key() string { return string(f) }

func TestTransientAddRemoveToken(t *testing.T) {
	tr := NewTransient(agenda.Default())
	node := rete.NewTestNode("noop", func(rete.Bindings) bool { return true })
	tok := rete.EmptyToken().Extend(rete.Match{Fact: testFact("a"), Condition: "c"}, rete.Bindings{"?x": 1})

	if !tr.AddToken(node, "", tok) {
		t.Fatalf("expected first add to report true")
	}
	if tr.AddToken(node, "", tok) {
		t.Fatalf("expected duplicate add to report false")
	}
	if got := tr.Tokens(node, ""); len(got) != 1 {
		t.Fatalf("expected 1 stored token, got %d", len(got))
	}
	if !tr.RemoveToken(node, "", tok) {
		t.Fatalf("expected remove to report true")
	}
	if tr.RemoveToken(node, "", tok) {
		t.Fatalf("expected second remove to report false")
	}
}

func TestTransientAgendaOrdering(t *testing.T) {
	tr := NewTransient(agenda.Default())
	node := rete.NewTestNode("noop", func(rete.Bindings) bool { return true })
	tok := func(n string) rete.Token {
		return rete.EmptyToken().Extend(rete.Match{Fact: testFact(n), Condition: "c"}, nil)
	}

	tr.AddActivations([]rete.Activation{
		{Node: node, Token: tok("low"), Salience: 0},
		{Node: node, Token: tok("high"), Salience: 10},
		{Node: node, Token: tok("mid"), Salience: 5},
	})

	first, ok := tr.PopActivation()
	if !ok || first.Token.Matches[0].Fact != testFact("high") {
		t.Fatalf("expected highest-salience activation first, got %+v", first)
	}
	second, _ := tr.PopActivation()
	if second.Token.Matches[0].Fact != testFact("mid") {
		t.Fatalf("expected mid-salience activation second, got %+v", second)
	}
	third, _ := tr.PopActivation()
	if third.Token.Matches[0].Fact != testFact("low") {
		t.Fatalf("expected low-salience activation last, got %+v", third)
	}
	if tr.AgendaSize() != 0 {
		t.Fatalf("expected empty agenda after draining, got %d", tr.AgendaSize())
	}
}

func TestToPersistentInvalidatesTransient(t *testing.T) {
	tr := NewTransient(agenda.Default())
	node := rete.NewTestNode("noop", func(rete.Bindings) bool { return true })
	tr.AddToken(node, "", rete.EmptyToken())

	p := tr.ToPersistent()
	if got := p.Tokens(node, ""); len(got) != 1 {
		t.Fatalf("expected persistent snapshot to carry the token, got %d", len(got))
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected touching an invalidated transient to panic")
		}
	}()
	tr.AddToken(node, "", rete.EmptyToken())
}

func TestToTransientSnapshotIsIndependent(t *testing.T) {
	tr := NewTransient(agenda.Default())
	node := rete.NewTestNode("noop", func(rete.Bindings) bool { return true })
	tr.AddToken(node, "", rete.EmptyToken())
	p := tr.ToPersistent()

	tr2 := p.ToTransient()
	tr2.RemoveToken(node, "", rete.EmptyToken())

	if got := p.Tokens(node, ""); len(got) != 1 {
		t.Fatalf("mutating a memory derived from a snapshot must not affect the snapshot, got %d tokens", len(got))
	}
}

func TestInsertionLogRoundTrip(t *testing.T) {
	tr := NewTransient(agenda.Default())
	node := rete.NewProductionNode("p", nil)
	tok := rete.EmptyToken()

	tr.RecordInsertions(node, tok, []rete.Fact{testFact("x"), testFact("y")})
	got := tr.TakeInsertions(node, tok)
	if len(got) != 2 {
		t.Fatalf("expected 2 recorded insertions, got %d", len(got))
	}
	if got := tr.TakeInsertions(node, tok); len(got) != 0 {
		t.Fatalf("expected insertions to be consumed by the first take, got %d", len(got))
	}
}

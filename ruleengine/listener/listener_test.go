package listener

import (
	"bytes"
	"strings"
	"testing"

	"github.com/andrew-nguyen/clara-rules/ruleengine/rete"
)

type callRecorder struct {
	calls []string
}

func (c *callRecorder) LeftActivate(node rete.Node, tokens []rete.Token)   { c.calls = append(c.calls, "left-activate") }
func (c *callRecorder) LeftRetract(node rete.Node, tokens []rete.Token)    { c.calls = append(c.calls, "left-retract") }
func (c *callRecorder) RightActivate(node rete.Node, elements []rete.Element) {
	c.calls = append(c.calls, "right-activate")
}
func (c *callRecorder) RightRetract(node rete.Node, elements []rete.Element) {
	c.calls = append(c.calls, "right-retract")
}
func (c *callRecorder) InsertFacts(facts []rete.Fact)   { c.calls = append(c.calls, "insert-facts") }
func (c *callRecorder) RetractFacts(facts []rete.Fact)  { c.calls = append(c.calls, "retract-facts") }
func (c *callRecorder) AddAccumReduced(node rete.Node, joinBindings string, reduced any, factBindings rete.Bindings) {
	c.calls = append(c.calls, "add-accum-reduced")
}
func (c *callRecorder) AddActivations(node rete.Node, acts []rete.Activation) {
	c.calls = append(c.calls, "add-activations")
}
func (c *callRecorder) RemoveActivations(node rete.Node, acts []rete.Activation) {
	c.calls = append(c.calls, "remove-activations")
}
func (c *callRecorder) FireRules(node rete.Node)      { c.calls = append(c.calls, "fire-rules") }
func (c *callRecorder) SendMessage(message string)    { c.calls = append(c.calls, "send-message:"+message) }

// Clone satisfies Cloner so callRecorder can be used to test per-fork
// listener isolation: each clone starts with its own copy of calls.
func (c *callRecorder) Clone() rete.Listener {
	return &callRecorder{calls: append([]string(nil), c.calls...)}
}

func TestDelegatingListenerFansOutInOrder(t *testing.T) {
	first := &callRecorder{}
	second := &callRecorder{}
	d := NewDelegatingListener(first, second)

	d.InsertFacts(nil)
	d.FireRules(nil)

	wantFirst := []string{"insert-facts", "fire-rules"}
	wantSecond := []string{"insert-facts", "fire-rules"}

	if strings.Join(first.calls, ",") != strings.Join(wantFirst, ",") {
		t.Fatalf("expected first child calls %v, got %v", wantFirst, first.calls)
	}
	if strings.Join(second.calls, ",") != strings.Join(wantSecond, ",") {
		t.Fatalf("expected second child calls %v, got %v", wantSecond, second.calls)
	}
}

func TestLoggingListenerWritesExpectedLines(t *testing.T) {
	var buf bytes.Buffer
	l := &LoggingListener{Out: &buf, Prefix: "[demo] "}

	node := rete.NewProductionNode("test-node", nil)
	l.InsertFacts([]rete.Fact{})
	l.FireRules(node)

	out := buf.String()
	if !strings.Contains(out, "[demo] insert: 0 fact(s)") {
		t.Fatalf("expected insert line in output, got %q", out)
	}
	if !strings.Contains(out, "[demo] fire Production(test-node)") {
		t.Fatalf("expected fire line in output, got %q", out)
	}
}

func TestPersistentToTransientRoundTrip(t *testing.T) {
	rec := &callRecorder{}
	p := NewPersistent(rec)

	tl := p.ToTransient()
	tl.InsertFacts(nil)
	tl.FireRules(nil)

	// rec implements Cloner, so the transient forwards to its own clone;
	// that clone is the delegate the snapshot carries back.
	p2 := tl.ToPersistent()
	pp, ok := p2.(*Persistent)
	if !ok {
		t.Fatalf("expected ToPersistent to return a *Persistent, got %T", p2)
	}

	if got := strings.Join(pp.Delegate().(*callRecorder).calls, ","); got != "insert-facts,fire-rules" {
		t.Fatalf("expected events forwarded to the transient's delegate, got %q", got)
	}
}

func TestTransientPanicsAfterToPersistent(t *testing.T) {
	tl := NewPersistent(&callRecorder{}).ToTransient()
	tl.ToPersistent()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected touching an invalidated transient listener to panic")
		}
	}()
	tl.InsertFacts(nil)
}

func TestPersistentToTransientClonesStatefulDelegate(t *testing.T) {
	rec := &callRecorder{}
	p := NewPersistent(rec)

	fork1 := p.ToTransient()
	fork2 := p.ToTransient()

	fork1.InsertFacts(nil)
	fork2.FireRules(nil)

	if len(rec.calls) != 0 {
		t.Fatalf("expected the original delegate untouched by either fork, got %v", rec.calls)
	}
}

// Command demo exercises the rule engine core end to end: an age filter
// rule, a per-customer sum accumulator, a negation rule, and the no-loop
// guard, wiring the network directly through package testkit rather than
// through any rule DSL.
package main

import (
	"fmt"

	"github.com/andrew-nguyen/clara-rules/ruleengine"
	"github.com/andrew-nguyen/clara-rules/ruleengine/listener"
	"github.com/andrew-nguyen/clara-rules/ruleengine/rete"
	"github.com/andrew-nguyen/clara-rules/ruleengine/testkit"
)

type Person struct {
	Name string
	Age  int
}

func (p Person) Key() string { return "Person:" + p.Name }

type Order struct {
	ID       string
	Customer string
	Amount   float64
}

func (o Order) Key() string { return "Order:" + o.ID }

type Customer struct{ Name string }

func (c Customer) Key() string { return "Customer:" + c.Name }

type Employee struct{ Name string }

func (e Employee) Key() string { return "Employee:" + e.Name }

type Manager struct{ Name string }

func (m Manager) Key() string { return "Manager:" + m.Name }

type Flag struct{ Round int }

func (f Flag) Key() string { return fmt.Sprintf("Flag:%d", f.Round) }

func main() {
	fmt.Println("🧠 rule engine core demo")
	fmt.Println("========================================")

	adultsDemo()
	fmt.Println()
	accumulatorDemo()
	fmt.Println()
	negationDemo()
	fmt.Println()
	noLoopDemo()
}

// adultsDemo: "if Person{name=?n, age>=21} then emit Adult{?n}".
func adultsDemo() {
	fmt.Println("📋 scenario 1: age filter + query")

	alpha := rete.NewAlphaNode("Person", func(fact rete.Fact, _ any) (rete.Bindings, bool) {
		p := fact.(Person)
		return rete.Bindings{"?n": p.Name, "?age": p.Age}, true
	})
	root := rete.NewRootJoinNode("Person(?n,?age)")
	test := rete.NewTestNode("?age >= 21", func(b rete.Bindings) bool {
		return b["?age"].(int) >= 21
	})
	var adults []string
	prod := rete.NewProductionNode("emit-adult", func(ctx *rete.RuleContext, _ rete.Token, b rete.Bindings) {
		adults = append(adults, b["?n"].(string))
	})
	query := rete.NewQueryNode("adults")

	alpha.AddChild(root)
	testkit.Chain(root, test)
	test.AddChild(prod)
	test.AddChild(query)

	rb := testkit.NewRulebase([]*rete.AlphaNode{alpha}, []*rete.RootJoinNode{root}, []*rete.ProductionNode{prod}, map2query(query))

	s := ruleengine.New(rb, ruleengine.WithListener(listener.NewLoggingListener("  ")))
	s = s.Insert(Person{"A", 30}, Person{"B", 15}).FireRules()

	rows, _ := s.Query("adults", nil)
	fmt.Printf("  adults query -> %v\n", rows)

	s = s.Retract(Person{"A", 30}).FireRules()
	rows, _ = s.Query("adults", nil)
	fmt.Printf("  after retracting A -> %v\n", rows)
	fmt.Printf("  productions fired for: %v\n", adults)
}

// accumulatorDemo: sum of Order.Amount grouped by ?customer.
func accumulatorDemo() {
	fmt.Println("📋 scenario 2: accumulator sum by group")

	custAlpha := rete.NewAlphaNode("Customer", func(fact rete.Fact, _ any) (rete.Bindings, bool) {
		return rete.Bindings{"?customer": fact.(Customer).Name}, true
	})
	custRoot := rete.NewRootJoinNode("Customer(?customer)")
	orderAlpha := rete.NewAlphaNode("Order", func(fact rete.Fact, _ any) (rete.Bindings, bool) {
		o := fact.(Order)
		return rete.Bindings{"?customer": o.Customer}, true
	})
	acc := rete.NewAccumulateNode("sum(Order.Amount)", rete.Accumulator{
		Initial: func() (any, bool) { return 0.0, true },
		Reduce: func(state any, fact rete.Fact) any {
			return state.(float64) + fact.(Order).Amount
		},
		Combine: func(a, b any) any { return a.(float64) + b.(float64) },
		Retract: func(state any, fact rete.Fact) (any, bool) {
			return state.(float64) - fact.(Order).Amount, true
		},
		Convert:       func(state any) any { return state },
		ResultBinding: "?total",
	}, "?customer")
	acc.Keys = []string{"?customer"}
	query := rete.NewQueryNode("total", "?customer")

	custAlpha.AddChild(custRoot)
	custRoot.AddChild(acc)
	orderAlpha.AddChild(acc)
	acc.AddChild(query)

	rb := testkit.NewRulebase([]*rete.AlphaNode{custAlpha, orderAlpha}, []*rete.RootJoinNode{custRoot}, nil, map2query(query))
	s := ruleengine.New(rb)

	s = s.Insert(Customer{"X"}, Customer{"Y"}, Order{"1", "X", 10}, Order{"2", "X", 5}, Order{"3", "Y", 3}).FireRules()
	rows, _ := s.Query("total", nil)
	fmt.Printf("  totals -> %v\n", rows)

	s = s.Retract(Order{"2", "X", 5}).FireRules()
	rows, _ = s.Query("total", rete.Bindings{"?customer": "X"})
	fmt.Printf("  total for X after retracting order 2 -> %v\n", rows)
}

// negationDemo: "if Employee{?e} and not Manager{?e} then emit IC{?e}".
func negationDemo() {
	fmt.Println("📋 scenario 3: negation")

	empAlpha := rete.NewAlphaNode("Employee", func(fact rete.Fact, _ any) (rete.Bindings, bool) {
		return rete.Bindings{"?e": fact.(Employee).Name}, true
	})
	mgrAlpha := rete.NewAlphaNode("Manager", func(fact rete.Fact, _ any) (rete.Bindings, bool) {
		return rete.Bindings{"?e": fact.(Manager).Name}, true
	})
	empRoot := rete.NewRootJoinNode("Employee(?e)")
	negation := rete.NewNegationNode("not Manager(?e)", "?e")
	query := rete.NewQueryNode("ics", "?e")

	empAlpha.AddChild(empRoot)
	empRoot.AddChild(negation)
	mgrAlpha.AddChild(negation)
	negation.AddChild(query)

	rb := testkit.NewRulebase(
		[]*rete.AlphaNode{empAlpha, mgrAlpha},
		[]*rete.RootJoinNode{empRoot},
		nil,
		map2query(query),
	)
	s := ruleengine.New(rb)

	s = s.Insert(Employee{"E"}).FireRules()
	rows, _ := s.Query("ics", nil)
	fmt.Printf("  ics after hiring E -> %v\n", rows)

	s = s.Insert(Manager{"E"}).FireRules()
	rows, _ = s.Query("ics", nil)
	fmt.Printf("  ics after promoting E -> %v\n", rows)

	s = s.Retract(Manager{"E"}).FireRules()
	rows, _ = s.Query("ics", nil)
	fmt.Printf("  ics after demoting E -> %v\n", rows)
}

// noLoopDemo: a rule that inserts its own trigger must not run forever.
func noLoopDemo() {
	fmt.Println("📋 scenario 4: no-loop guard")

	alpha := rete.NewAlphaNode("Flag", func(fact rete.Fact, _ any) (rete.Bindings, bool) {
		return rete.Bindings{"?round": fact.(Flag).Round}, true
	})
	root := rete.NewRootJoinNode("Flag(?round)")
	fired := 0
	prod := rete.NewProductionNode("reflag", func(ctx *rete.RuleContext, _ rete.Token, b rete.Bindings) {
		fired++
		ctx.Session.Insert(Flag{Round: b["?round"].(int) + 1})
	})
	prod.NoLoop = true
	alpha.AddChild(root)
	root.AddChild(prod)

	rb := testkit.NewRulebase([]*rete.AlphaNode{alpha}, []*rete.RootJoinNode{root}, []*rete.ProductionNode{prod}, nil)
	s := ruleengine.New(rb)

	s = s.Insert(Flag{Round: 0}).FireRules()
	fmt.Printf("  production fired %d time(s), agenda size %d\n", fired, s.Components().Memory.AgendaSize())
}

func map2query(q *rete.QueryNode) []*rete.QueryNode { return []*rete.QueryNode{q} }

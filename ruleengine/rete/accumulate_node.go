package rete

import "sort"

// AccumulateNode folds right-side elements, grouped by GroupBy, through an
// Accumulator, and emits one composite token per (left token, group) pair
// carrying the converted reduction. Retraction of a previously contributed
// element is handled fully via Accumulator.Retract rather than forcing a
// full re-fold of the group.
type AccumulateNode struct {
	base
	// Keys are the join bindings shared between the node's left tokens and
	// right elements (may be empty — many accumulations join on nothing).
	Keys []string
	// GroupBy are the binding keys elements are grouped by before folding,
	// e.g. ?customer for a per-customer sum.
	GroupBy []string
	Acc     Accumulator
	// Condition labels this node's contribution for provenance/listener
	// purposes, e.g. "sum(Order.amount)".
	Condition string
}

func NewAccumulateNode(condition string, acc Accumulator, groupBy ...string) *AccumulateNode {
	return &AccumulateNode{Acc: acc, GroupBy: groupBy, Condition: condition}
}

func (a *AccumulateNode) Kind() Kind         { return KindAccumulate }
func (a *AccumulateNode) Describe() string   { return "Accumulate(" + a.Condition + ")" }
func (a *AccumulateNode) JoinKeys() []string { return a.Keys }

func (a *AccumulateNode) buildToken(t Token, factBindings Bindings, converted any) Token {
	bindings := factBindings
	if a.Acc.ResultBinding != "" {
		bindings = bindings.With(a.Acc.ResultBinding, converted)
	}
	fact := accumResultFact{description: a.Condition, groupKey: factBindings.Project(a.GroupBy)}
	return t.Extend(Match{Fact: fact, Condition: a.Condition}, bindings)
}

func (a *AccumulateNode) projectGroup(b Bindings) Bindings {
	g := make(Bindings, len(a.GroupBy))
	for _, k := range a.GroupBy {
		if v, ok := b[k]; ok {
			g[k] = v
		}
	}
	return g
}

func (a *AccumulateNode) LeftActivate(ctx *RuleContext, mem Memory, lis Listener, joinBindings string, tokens []Token) {
	lis.LeftActivate(a, tokens)
	added := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if mem.AddToken(a, joinBindings, t) {
			added = append(added, t)
		}
	}
	if len(added) == 0 {
		return
	}

	groups := mem.AccumGroups(a, joinBindings)
	if len(groups) > 0 {
		sort.Strings(groups)
		for _, key := range groups {
			factBindings, state, ok := mem.AccumReduced(a, joinBindings, key)
			if !ok {
				continue
			}
			converted := a.Acc.Convert(state)
			out := make([]Token, 0, len(added))
			for _, t := range added {
				out = append(out, a.buildToken(t, factBindings, converted))
			}
			SendTokens(ctx, mem, lis, a.children, out)
		}
		return
	}

	initial, hasInit := a.Acc.Initial()
	if !hasInit {
		return
	}
	for _, t := range added {
		if !t.Bindings.HasAll(a.GroupBy) {
			continue
		}
		factBindings := a.projectGroup(t.Bindings)
		key := factBindings.Project(a.GroupBy)
		if _, _, ok := mem.AccumReduced(a, joinBindings, key); !ok {
			mem.SetAccumReduced(a, joinBindings, key, factBindings, initial)
		}
		_, state, _ := mem.AccumReduced(a, joinBindings, key)
		converted := a.Acc.Convert(state)
		SendTokens(ctx, mem, lis, a.children, []Token{a.buildToken(t, factBindings, converted)})
	}
}

func (a *AccumulateNode) LeftRetract(ctx *RuleContext, mem Memory, lis Listener, joinBindings string, tokens []Token) {
	lis.LeftRetract(a, tokens)
	removed := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if mem.RemoveToken(a, joinBindings, t) {
			removed = append(removed, t)
		}
	}
	if len(removed) == 0 {
		return
	}
	groups := mem.AccumGroups(a, joinBindings)
	sort.Strings(groups)
	for _, key := range groups {
		factBindings, state, ok := mem.AccumReduced(a, joinBindings, key)
		if !ok {
			continue
		}
		converted := a.Acc.Convert(state)
		out := make([]Token, 0, len(removed))
		for _, t := range removed {
			out = append(out, a.buildToken(t, factBindings, converted))
		}
		RetractTokens(ctx, mem, lis, a.children, out)
	}
}

func (a *AccumulateNode) RightActivate(ctx *RuleContext, mem Memory, lis Listener, joinBindings string, elements []Element) {
	lis.RightActivate(a, elements)
	added := make([]Element, 0, len(elements))
	for _, e := range elements {
		if mem.AddElement(a, joinBindings, e) {
			added = append(added, e)
		}
	}
	if len(added) == 0 {
		return
	}

	type group struct {
		bindings Bindings
		state    any
	}
	batches := make(map[string]*group)
	var order []string
	for _, e := range added {
		factBindings := a.projectGroup(e.Bindings)
		key := factBindings.Project(a.GroupBy)
		g, ok := batches[key]
		if !ok {
			init, hasInit := a.Acc.Initial()
			var seed any
			if hasInit {
				seed = a.Acc.Reduce(init, e.Fact)
			} else {
				seed = a.Acc.Reduce(nil, e.Fact)
			}
			g = &group{bindings: factBindings, state: seed}
			batches[key] = g
			order = append(order, key)
		} else {
			g.state = a.Acc.Reduce(g.state, e.Fact)
		}
	}

	tokensAtJoin := mem.Tokens(a, joinBindings)
	for _, key := range order {
		g := batches[key]
		prevBindings, prevState, hasPrev := mem.AccumReduced(a, joinBindings, key)
		combined := g.state
		if hasPrev {
			combined = a.Acc.Combine(prevState, g.state)
			prevConverted := a.Acc.Convert(prevState)
			old := make([]Token, 0, len(tokensAtJoin))
			for _, t := range tokensAtJoin {
				old = append(old, a.buildToken(t, prevBindings, prevConverted))
			}
			RetractTokens(ctx, mem, lis, a.children, old)
		}
		mem.SetAccumReduced(a, joinBindings, key, g.bindings, combined)
		converted := a.Acc.Convert(combined)
		next := make([]Token, 0, len(tokensAtJoin))
		for _, t := range tokensAtJoin {
			next = append(next, a.buildToken(t, g.bindings, converted))
		}
		SendTokens(ctx, mem, lis, a.children, next)
	}
}

func (a *AccumulateNode) RightRetract(ctx *RuleContext, mem Memory, lis Listener, joinBindings string, elements []Element) {
	lis.RightRetract(a, elements)
	removed := make([]Element, 0, len(elements))
	for _, e := range elements {
		if mem.RemoveElement(a, joinBindings, e) {
			removed = append(removed, e)
		}
	}
	if len(removed) == 0 {
		return
	}

	byKey := make(map[string][]Element)
	var order []string
	for _, e := range removed {
		key := a.projectGroup(e.Bindings).Project(a.GroupBy)
		if _, seen := byKey[key]; !seen {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], e)
	}

	tokensAtJoin := mem.Tokens(a, joinBindings)
	for _, key := range order {
		prevBindings, prevState, hasPrev := mem.AccumReduced(a, joinBindings, key)
		if !hasPrev {
			continue
		}
		prevConverted := a.Acc.Convert(prevState)
		old := make([]Token, 0, len(tokensAtJoin))
		for _, t := range tokensAtJoin {
			old = append(old, a.buildToken(t, prevBindings, prevConverted))
		}
		RetractTokens(ctx, mem, lis, a.children, old)

		state := prevState
		ok := true
		for _, e := range byKey[key] {
			state, ok = a.Acc.Retract(state, e.Fact)
			if !ok {
				break
			}
		}
		if !ok {
			mem.ClearAccumReduced(a, joinBindings, key)
			continue
		}
		mem.SetAccumReduced(a, joinBindings, key, prevBindings, state)
		converted := a.Acc.Convert(state)
		next := make([]Token, 0, len(tokensAtJoin))
		for _, t := range tokensAtJoin {
			next = append(next, a.buildToken(t, prevBindings, converted))
		}
		SendTokens(ctx, mem, lis, a.children, next)
	}
}

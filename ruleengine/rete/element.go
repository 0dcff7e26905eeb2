package rete

// Element is a single fact that matched an alpha condition, carrying the
// bindings that condition produced. Elements live on the right side of beta
// nodes.
type Element struct {
	Fact     Fact
	Bindings Bindings
}

// Key identifies the element within an element-set: a fact can only match a
// given alpha node once, so the fact's own key is sufficient.
func (e Element) Key() string { return e.Fact.Key() }

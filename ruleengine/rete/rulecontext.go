package rete

// Mutator is the slice of the Session surface a production's RHS is allowed
// to call back into. It is declared here, rather than importing the
// session package, so RuleContext can carry a live session handle without
// creating an import cycle; package ruleengine's Session (by way of an
// internal live-session type) satisfies it.
type Mutator interface {
	Insert(facts ...Fact)
	Retract(facts ...Fact)
}

// RuleContext replaces a thread-local "current session"/"current rule"
// pair with an explicit value threaded through every node's propagate
// call, so ProductionNode can implement the no-loop flag (by comparing
// Firing against itself) and a production's RHS can re-enter the session
// via Session.
//
// A RuleContext whose Firing is nil means "not currently firing" — e.g. the
// context of a top-level Session.Insert/Retract call made from outside the
// firing loop. Every node must also treat a nil ctx as "no production is
// currently firing".
type RuleContext struct {
	// Firing is the production node whose RHS is currently executing, or
	// nil if no RHS is on the stack. ProductionNode.LeftActivate compares
	// this against itself to honor a rule's no-loop flag.
	Firing Node
	// Session lets a firing RHS insert/retract facts against the live
	// session it is part of.
	Session Mutator
}

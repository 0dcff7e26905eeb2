package rete

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// Match records one step of provenance for a Token: the fact that was
// joined in, and a description of the condition that admitted it (an alpha
// node's predicate, a negation, an accumulate result, ...). Condition is a
// human-readable tag only; nothing in this package compares on it.
type Match struct {
	Fact      Fact
	Condition string
}

// Token is a partial match flowing down the left side of the beta network:
// an ordered trail of Matches plus the bindings accumulated along the way.
// The empty token ((), {}) seeds every beta root.
type Token struct {
	Matches  []Match
	Bindings Bindings
}

// EmptyToken is the token with no matches and no bindings; RootJoinNode
// extends it once per stored element to start each partial match.
func EmptyToken() Token {
	return Token{Bindings: Bindings{}}
}

// Extend returns a new Token with match appended and bindings merged in,
// leaving the receiver unmodified. This is how RootJoinNode, JoinNode, and
// AccumulateNode all grow a Token.
func (t Token) Extend(m Match, bindings Bindings) Token {
	matches := make([]Match, len(t.Matches)+1)
	copy(matches, t.Matches)
	matches[len(t.Matches)] = m
	return Token{Matches: matches, Bindings: t.Bindings.Merge(bindings)}
}

// Hash returns a content-addressed identity for the token: two tokens with
// the same provenance trail and the same bindings hash identically, which
// is what lets the insertion log and every node's token-set use Hash as a
// map key.
func (t Token) Hash() string {
	var parts []string
	for _, m := range t.Matches {
		parts = append(parts, m.Fact.Key()+"#"+m.Condition)
	}
	parts = append(parts, "B:"+t.Bindings.Canonical())
	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

package rete

import "reflect"

// Fact is the opaque, user-supplied value a session reasons over. Key must
// be unique within the working memory so retraction can find exactly the
// fact that was inserted; business code usually derives it from a primary
// key ("Order:42").
type Fact interface {
	Key() string
}

// GenericFact wraps an arbitrary payload for callers that do not want to
// implement Fact on their own types.
type GenericFact struct {
	ID      string
	Payload any
}

func (g GenericFact) Key() string { return g.ID }

// FactType returns the inspectable type tag alpha roots are indexed by: the
// unqualified Go type name of the fact's dynamic type.
func FactType(f Fact) string {
	t := reflect.TypeOf(f)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

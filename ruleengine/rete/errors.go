package rete

// These are user errors: conditions a caller of the public Session surface
// can hit by calling it wrong, as opposed to invariant violations inside
// the network itself, which panic because they indicate a bug in this
// package rather than in caller code.

// UnknownQueryError occurs when Session.Query names a query that was never
// registered in the Rulebase.
type UnknownQueryError struct {
	QueryName string
}

func (e *UnknownQueryError) Error() string {
	return `unknown query "` + e.QueryName + `"`
}

// InvalidatedMemoryError occurs when a transient working memory is used
// after it has already been converted ToPersistent. It indicates a bug in
// the code driving the network, not a recoverable runtime condition.
type InvalidatedMemoryError struct {
	Generation int
}

func (e *InvalidatedMemoryError) Error() string {
	return "working memory used after being converted to persistent form"
}

// InvalidatedListenerError is the listener-pipeline analogue of
// InvalidatedMemoryError: a transient listener touched after its own
// ToPersistent conversion.
type InvalidatedListenerError struct {
	Generation int
}

func (e *InvalidatedListenerError) Error() string {
	return "listener used after being converted to persistent form"
}

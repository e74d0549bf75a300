package autocomplete

// Effect is a side effect requested by the machine. The machine itself
// never performs I/O; interpreters run effects and report back with events.
type Effect interface {
	isEffect()
}

// FetchEffect asks the interpreter to fetch suggestions for Query and to
// deliver the outcome as FetchSucceeded or FetchFailed tagged with
// Generation.
type FetchEffect struct {
	Generation uint64
	Query      string
}

func (FetchEffect) isEffect() {}

// CancelEffect reports that the fetch started for Generation is no longer
// wanted. Its result would be dropped anyway; interpreters use this to
// release the in-flight call early.
type CancelEffect struct {
	Generation uint64
}

func (CancelEffect) isEffect() {}

package autocomplete

import "strings"

// State identifies a node in the controller's state hierarchy. Child states
// are written as dotted paths ("suggesting.browsing").
type State string

const (
	StateIdle              State = "idle"
	StateCheckingLength    State = "checkingLength"
	StateFetching          State = "fetching"
	StateFetchFailed       State = "fetchFailed"
	StateValidatingResults State = "validatingResults"
	StateSuggesting        State = "suggesting"
	StateBrowsing          State = "suggesting.browsing"
	StateHighlighting      State = "suggesting.highlighting"
	StateSearchCommitted   State = "searchCommitted"
)

// anyState matches every state in transition lookups.
const anyState State = "*"

// Parent returns the enclosing compound state, or "" for top-level states.
func (s State) Parent() State {
	if i := strings.LastIndex(string(s), "."); i >= 0 {
		return s[:i]
	}
	return ""
}

// Ancestry returns the state followed by its ancestors, innermost first.
func (s State) Ancestry() []State {
	var out []State
	for cur := s; cur != ""; cur = cur.Parent() {
		out = append(out, cur)
	}
	return out
}

// Matches reports whether s is other or one of its descendants.
func (s State) Matches(other State) bool {
	if s == other {
		return true
	}
	return strings.HasPrefix(string(s), string(other)+".")
}

// IsTransient reports whether the state only exists to evaluate guards and
// is always left within the same Send call.
func (s State) IsTransient() bool {
	return s == StateCheckingLength || s == StateValidatingResults
}

// IsFinal reports whether the state ends the interaction cycle.
func (s State) IsFinal() bool {
	return s == StateSearchCommitted
}

// Paths expands the state into every matching path, outermost first. The
// view layer reflects these as attribute values, e.g.
// ["suggesting", "suggesting.highlighting"].
func (s State) Paths() []string {
	anc := s.Ancestry()
	out := make([]string, len(anc))
	for i, st := range anc {
		out[len(anc)-1-i] = string(st)
	}
	return out
}

// Leaf returns the last path segment ("highlighting" for
// "suggesting.highlighting").
func (s State) Leaf() string {
	if i := strings.LastIndex(string(s), "."); i >= 0 {
		return string(s[i+1:])
	}
	return string(s)
}

func (s State) String() string { return string(s) }

// States lists every state the controller can report, compound states
// included, in declaration order.
func States() []State {
	return []State{
		StateIdle,
		StateCheckingLength,
		StateFetching,
		StateFetchFailed,
		StateValidatingResults,
		StateSuggesting,
		StateBrowsing,
		StateHighlighting,
		StateSearchCommitted,
	}
}

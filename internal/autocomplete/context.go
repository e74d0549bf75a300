package autocomplete

import "slices"

// DefaultMinLength is the query length at which suggestions are fetched.
const DefaultMinLength = 3

// Context is the record carried across all states. It only changes through
// the named actions attached to transitions.
type Context struct {
	Query                 string   `json:"query" yaml:"query" toml:"query"`
	PreviousQuery         *string  `json:"previousQuery,omitempty" yaml:"previousQuery,omitempty" toml:"previousQuery,omitempty"`
	Suggestions           []string `json:"suggestions" yaml:"suggestions" toml:"suggestions"`
	ActiveSuggestionIndex int      `json:"activeSuggestionIndex" yaml:"activeSuggestionIndex" toml:"activeSuggestionIndex"`
	Message               string   `json:"message,omitempty" yaml:"message,omitempty" toml:"message,omitempty"`
}

// NewContext returns the context a controller starts with.
func NewContext() Context {
	return Context{
		Suggestions:           []string{},
		ActiveSuggestionIndex: -1,
	}
}

// Clone returns a deep copy so snapshots never alias machine state.
func (c Context) Clone() Context {
	out := c
	out.Suggestions = slices.Clone(c.Suggestions)
	if out.Suggestions == nil {
		out.Suggestions = []string{}
	}
	if c.PreviousQuery != nil {
		pq := *c.PreviousQuery
		out.PreviousQuery = &pq
	}
	return out
}

// Highlighted returns the suggestion under the keyboard highlight.
func (c Context) Highlighted() (string, bool) {
	if c.ActiveSuggestionIndex < 0 || c.ActiveSuggestionIndex >= len(c.Suggestions) {
		return "", false
	}
	return c.Suggestions[c.ActiveSuggestionIndex], true
}

type action struct {
	name string
	fn   func(Context, Event) Context
}

type guard struct {
	name string
	fn   func(Context, Event) bool
}

// Actions. Each returns a new Context and never retains the event.

var (
	saveQuery = action{"saveQuery", func(c Context, e Event) Context {
		if ev, ok := e.(TextChanged); ok {
			c.Query = ev.Value
		}
		return c
	}}

	saveSuggestions = action{"saveSuggestions", func(c Context, e Event) Context {
		if ev, ok := e.(FetchSucceeded); ok {
			c.Suggestions = slices.Clone(ev.Data)
			if c.Suggestions == nil {
				c.Suggestions = []string{}
			}
			c.Message = ""
		}
		return c
	}}

	saveMessage = action{"saveMessage", func(c Context, e Event) Context {
		if ev, ok := e.(FetchFailed); ok {
			c.Message = ev.Message()
		}
		return c
	}}

	savePreviousQuery = action{"savePreviousQuery", func(c Context, _ Event) Context {
		q := c.Query
		c.PreviousQuery = &q
		return c
	}}

	clearPreviousQuery = action{"clearPreviousQuery", func(c Context, _ Event) Context {
		c.PreviousQuery = nil
		return c
	}}

	resetActiveIndex = action{"resetActiveIndex", func(c Context, _ Event) Context {
		c.ActiveSuggestionIndex = -1
		return c
	}}

	activatePrev = action{"activatePrev", func(c Context, _ Event) Context {
		c.ActiveSuggestionIndex = prevIndex(c.ActiveSuggestionIndex, len(c.Suggestions))
		return c
	}}

	activateNext = action{"activateNext", func(c Context, _ Event) Context {
		c.ActiveSuggestionIndex = nextIndex(c.ActiveSuggestionIndex, len(c.Suggestions))
		return c
	}}

	commitHighlighted = action{"commitHighlighted", func(c Context, _ Event) Context {
		if s, ok := c.Highlighted(); ok {
			c.Query = s
		}
		return c
	}}

	commitClicked = action{"commitClicked", func(c Context, e Event) Context {
		if ev, ok := e.(SuggestionClicked); ok {
			c.Query = ev.Query
		}
		return c
	}}

	commitSubmitted = action{"commitSubmitted", func(c Context, e Event) Context {
		if ev, ok := e.(SubmitRequested); ok && ev.Query != "" {
			c.Query = ev.Query
		}
		return c
	}}

	resetContext = action{"resetContext", func(Context, Event) Context {
		return NewContext()
	}}
)

// prevIndex moves up with wraparound; -1 counts as just after the last item.
func prevIndex(i, n int) int {
	if n == 0 {
		return -1
	}
	if i < 0 {
		return n - 1
	}
	i--
	if i < 0 {
		i = n - 1
	}
	return i
}

// nextIndex moves down with wraparound; -1 counts as just before item 0.
func nextIndex(i, n int) int {
	if n == 0 {
		return -1
	}
	i++
	if i > n-1 {
		i = 0
	}
	return i
}

func keyIs(k Key) func(Context, Event) bool {
	return func(_ Context, e Event) bool {
		ev, ok := e.(KeyPressed)
		return ok && ev.Key == k
	}
}

func newGuards(minLength int) guardSet {
	return guardSet{
		hasMinLength: guard{"hasMinLength", func(c Context, _ Event) bool {
			return len([]rune(c.Query)) >= minLength
		}},
		hasSuggestions: guard{"hasSuggestions", func(c Context, _ Event) bool {
			return len(c.Suggestions) > 0
		}},
		hasValue: guard{"hasValue", func(c Context, e Event) bool {
			if ev, ok := e.(SubmitRequested); ok && ev.Query != "" {
				return true
			}
			return c.Query != ""
		}},
		hasClickedQuery: guard{"hasClickedQuery", func(_ Context, e Event) bool {
			ev, ok := e.(SuggestionClicked)
			return ok && ev.Query != ""
		}},
		isArrowUp:   guard{"isArrowUp", keyIs(KeyArrowUp)},
		isArrowDown: guard{"isArrowDown", keyIs(KeyArrowDown)},
		isEnter:     guard{"isEnter", keyIs(KeyEnter)},
		isArrowUpOnFirst: guard{"isArrowUpOnFirst", func(c Context, e Event) bool {
			return keyIs(KeyArrowUp)(c, e) && c.ActiveSuggestionIndex == 0
		}},
		isArrowDownOnLast: guard{"isArrowDownOnLast", func(c Context, e Event) bool {
			return keyIs(KeyArrowDown)(c, e) && c.ActiveSuggestionIndex == len(c.Suggestions)-1
		}},
	}
}

type guardSet struct {
	hasMinLength      guard
	hasSuggestions    guard
	hasValue          guard
	hasClickedQuery   guard
	isArrowUp         guard
	isArrowDown       guard
	isEnter           guard
	isArrowUpOnFirst  guard
	isArrowDownOnLast guard
}

package autocomplete

// EventType names an event in the controller's vocabulary.
type EventType string

const (
	EventTextChanged       EventType = "TextChanged"
	EventKeyPressed        EventType = "KeyPressed"
	EventSuggestionClicked EventType = "SuggestionClicked"
	EventSubmitRequested   EventType = "SubmitRequested"
	EventFetchSucceeded    EventType = "FetchSucceeded"
	EventFetchFailed       EventType = "FetchFailed"
	EventReset             EventType = "Reset"

	// eventAlways marks eventless transitions taken from transient states.
	eventAlways EventType = ""
	eventSync   EventType = "sync"
)

// Event is the interface for all controller events.
type Event interface {
	Type() EventType
}

// Key is a navigation key understood by the controller.
type Key string

const (
	KeyArrowUp   Key = "ArrowUp"
	KeyArrowDown Key = "ArrowDown"
	KeyEnter     Key = "Enter"
)

// TextChanged is raised when the (debounced) input value changes.
type TextChanged struct {
	Value string
}

func (TextChanged) Type() EventType { return EventTextChanged }

// KeyPressed is raised for navigation keys. Keys other than ArrowUp,
// ArrowDown and Enter are ignored.
type KeyPressed struct {
	Key Key
}

func (KeyPressed) Type() EventType { return EventKeyPressed }

// SuggestionClicked is raised when a rendered suggestion is picked directly.
type SuggestionClicked struct {
	Query string
}

func (SuggestionClicked) Type() EventType { return EventSuggestionClicked }

// SubmitRequested is raised when the user submits the form. Query is the
// value shown in the field; when empty the typed query is committed.
type SubmitRequested struct {
	Query string
}

func (SubmitRequested) Type() EventType { return EventSubmitRequested }

// FetchSucceeded delivers the result of the fetch started for Generation.
type FetchSucceeded struct {
	Generation uint64
	Data       []string
}

func (FetchSucceeded) Type() EventType { return EventFetchSucceeded }

// FetchFailed delivers the error of the fetch started for Generation.
type FetchFailed struct {
	Generation uint64
	Err        error
}

func (FetchFailed) Type() EventType { return EventFetchFailed }

// Message returns the user-facing description of the failure.
func (e FetchFailed) Message() string {
	if e.Err == nil {
		return "unknown error"
	}
	return e.Err.Error()
}

// Reset starts a fresh interaction cycle from idle with a default context.
// It is the only way out of searchCommitted.
type Reset struct{}

func (Reset) Type() EventType { return EventReset }

// syncEvent is a Service barrier; it never reaches the machine.
type syncEvent struct {
	reply chan Snapshot
}

func (syncEvent) Type() EventType { return eventSync }

type alwaysEvent struct{}

func (alwaysEvent) Type() EventType { return eventAlways }

// generationOf returns the activation tag carried by fetch result events.
func generationOf(e Event) (uint64, bool) {
	switch ev := e.(type) {
	case FetchSucceeded:
		return ev.Generation, true
	case FetchFailed:
		return ev.Generation, true
	}
	return 0, false
}

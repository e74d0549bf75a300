package autocomplete

// transition is one row of the transition table. Rows sharing a source
// state and event are evaluated in order; the first whose guard passes wins.
type transition struct {
	from    State
	event   EventType
	guard   *guard
	to      State
	actions []action
}

// stateNode holds the paired entry/exit actions of a state.
type stateNode struct {
	// initial is the child entered when a compound state is targeted.
	initial State
	entry   []action
	exit    []action
	// invoke marks states that own an asynchronous fetch for as long as
	// they are active.
	invoke bool
}

type definition struct {
	initial     State
	nodes       map[State]stateNode
	transitions []transition
}

// leaf follows initial children down from s to a leaf state.
func (d definition) leaf(s State) State {
	for {
		next := d.nodes[s].initial
		if next == "" {
			return s
		}
		s = next
	}
}

// isInitial reports whether s is the machine's initial state or the initial
// child of its parent.
func (d definition) isInitial(s State) bool {
	if s == d.initial {
		return true
	}
	p := s.Parent()
	return p != "" && d.nodes[p].initial == s
}

func newDefinition(minLength int) definition {
	g := newGuards(minLength)
	ptr := func(gd guard) *guard { return &gd }

	return definition{
		initial: StateIdle,
		nodes: map[State]stateNode{
			StateFetching: {invoke: true},
			StateSuggesting: {
				initial: StateBrowsing,
				entry:   []action{savePreviousQuery},
				exit:    []action{clearPreviousQuery, resetActiveIndex},
			},
			StateBrowsing: {entry: []action{resetActiveIndex}},
		},
		transitions: []transition{
			{from: StateIdle, event: EventTextChanged, to: StateCheckingLength, actions: []action{saveQuery}},
			{from: StateFetching, event: EventTextChanged, to: StateCheckingLength, actions: []action{saveQuery}},
			{from: StateFetchFailed, event: EventTextChanged, to: StateCheckingLength, actions: []action{saveQuery}},
			{from: StateSuggesting, event: EventTextChanged, to: StateCheckingLength, actions: []action{saveQuery}},

			{from: StateCheckingLength, event: eventAlways, guard: ptr(g.hasMinLength), to: StateFetching},
			{from: StateCheckingLength, event: eventAlways, to: StateIdle},

			{from: StateFetching, event: EventFetchSucceeded, to: StateValidatingResults, actions: []action{saveSuggestions}},
			{from: StateFetching, event: EventFetchFailed, to: StateFetchFailed, actions: []action{saveMessage}},

			{from: StateValidatingResults, event: eventAlways, guard: ptr(g.hasSuggestions), to: StateBrowsing},
			{from: StateValidatingResults, event: eventAlways, to: StateIdle},

			{from: StateBrowsing, event: EventKeyPressed, guard: ptr(g.isArrowUp), to: StateHighlighting, actions: []action{activatePrev}},
			{from: StateBrowsing, event: EventKeyPressed, guard: ptr(g.isArrowDown), to: StateHighlighting, actions: []action{activateNext}},

			{from: StateHighlighting, event: EventKeyPressed, guard: ptr(g.isArrowUpOnFirst), to: StateBrowsing, actions: []action{resetActiveIndex}},
			{from: StateHighlighting, event: EventKeyPressed, guard: ptr(g.isArrowDownOnLast), to: StateBrowsing, actions: []action{resetActiveIndex}},
			{from: StateHighlighting, event: EventKeyPressed, guard: ptr(g.isArrowUp), to: StateHighlighting, actions: []action{activatePrev}},
			{from: StateHighlighting, event: EventKeyPressed, guard: ptr(g.isArrowDown), to: StateHighlighting, actions: []action{activateNext}},
			{from: StateHighlighting, event: EventKeyPressed, guard: ptr(g.isEnter), to: StateSearchCommitted, actions: []action{commitHighlighted}},

			{from: StateSuggesting, event: EventSuggestionClicked, guard: ptr(g.hasClickedQuery), to: StateSearchCommitted, actions: []action{commitClicked}},

			{from: StateIdle, event: EventSubmitRequested, guard: ptr(g.hasValue), to: StateSearchCommitted, actions: []action{commitSubmitted}},
			{from: StateFetchFailed, event: EventSubmitRequested, guard: ptr(g.hasValue), to: StateSearchCommitted, actions: []action{commitSubmitted}},
			{from: StateSuggesting, event: EventSubmitRequested, guard: ptr(g.hasValue), to: StateSearchCommitted, actions: []action{commitSubmitted}},

			{from: anyState, event: EventReset, to: StateIdle, actions: []action{resetContext}},
		},
	}
}

// candidates returns the rows that may handle ev in state s. Rows declared
// on the state itself win over rows on its ancestors, which win over
// wildcard rows.
func (d definition) candidates(s State, ev EventType) []transition {
	var out []transition
	for _, st := range append(s.Ancestry(), anyState) {
		for _, t := range d.transitions {
			if t.from == st && t.event == ev {
				out = append(out, t)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// TransitionInfo describes one table row for documentation and diagrams.
type TransitionInfo struct {
	From    State     `json:"from" yaml:"from"`
	Event   EventType `json:"event" yaml:"event"`
	Guard   string    `json:"guard,omitempty" yaml:"guard,omitempty"`
	To      State     `json:"to" yaml:"to"`
	Actions []string  `json:"actions,omitempty" yaml:"actions,omitempty"`
}

// Eventless reports whether the row is taken without an event.
func (t TransitionInfo) Eventless() bool { return t.Event == eventAlways }

// Wildcard reports whether the row applies to every state.
func (t TransitionInfo) Wildcard() bool { return t.From == anyState }

// Transitions returns the controller's transition table in evaluation order.
func Transitions() []TransitionInfo {
	d := newDefinition(DefaultMinLength)
	out := make([]TransitionInfo, 0, len(d.transitions))
	for _, t := range d.transitions {
		info := TransitionInfo{From: t.from, Event: t.event, To: t.to}
		if t.guard != nil {
			info.Guard = t.guard.name
		}
		for _, a := range t.actions {
			info.Actions = append(info.Actions, a.name)
		}
		out = append(out, info)
	}
	return out
}

// StateInfo describes a state's hooks for documentation and diagrams.
type StateInfo struct {
	State     State    `json:"state" yaml:"state"`
	Entry     []string `json:"entry,omitempty" yaml:"entry,omitempty"`
	Exit      []string `json:"exit,omitempty" yaml:"exit,omitempty"`
	Invokes   bool     `json:"invokes,omitempty" yaml:"invokes,omitempty"`
	Transient bool     `json:"transient,omitempty" yaml:"transient,omitempty"`
	Final     bool     `json:"final,omitempty" yaml:"final,omitempty"`
	Initial   bool     `json:"initial,omitempty" yaml:"initial,omitempty"`
}

// Describe returns every state with its hooks, in declaration order.
func Describe() []StateInfo {
	d := newDefinition(DefaultMinLength)
	out := make([]StateInfo, 0, len(States()))
	for _, s := range States() {
		n := d.nodes[s]
		info := StateInfo{
			State:     s,
			Invokes:   n.invoke,
			Transient: s.IsTransient(),
			Final:     s.IsFinal(),
			Initial:   d.isInitial(s),
		}
		for _, a := range n.entry {
			info.Entry = append(info.Entry, a.name)
		}
		for _, a := range n.exit {
			info.Exit = append(info.Exit, a.name)
		}
		out = append(out, info)
	}
	return out
}

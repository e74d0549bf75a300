package autocomplete

import (
	"errors"

	"github.com/go-logr/logr"
)

var errStuckTransient = errors.New("transient state without exit")

// maxMicrosteps bounds eventless transitions taken for a single event.
const maxMicrosteps = 16

// Snapshot is the controller output after each processed event. It is a
// copy; mutating it does not affect the machine.
type Snapshot struct {
	State      State   `json:"state" yaml:"state" toml:"state"`
	Context    Context `json:"context" yaml:"context" toml:"context"`
	Generation uint64  `json:"generation" yaml:"generation" toml:"generation"`
	// Changed is false when the event matched no transition.
	Changed bool `json:"changed" yaml:"changed" toml:"changed"`
}

// Matches reports whether the snapshot's state is s or a descendant of s.
func (s Snapshot) Matches(state State) bool { return s.State.Matches(state) }

// Done reports whether the interaction cycle has been committed.
func (s Snapshot) Done() bool { return s.State.IsFinal() }

// CommittedQuery returns the final query once the cycle is committed.
func (s Snapshot) CommittedQuery() (string, bool) {
	if !s.Done() {
		return "", false
	}
	return s.Context.Query, true
}

// DisplayValue is the text the input box should show: the highlighted
// suggestion while highlighting, the query captured when the list opened
// while browsing it, and the typed query otherwise.
func (s Snapshot) DisplayValue() string {
	switch s.State {
	case StateHighlighting:
		if h, ok := s.Context.Highlighted(); ok {
			return h
		}
	case StateBrowsing:
		if s.Context.PreviousQuery != nil {
			return *s.Context.PreviousQuery
		}
	}
	return s.Context.Query
}

// Option configures a Machine.
type Option func(*Machine)

// WithMinLength sets the query length required before fetching.
func WithMinLength(n int) Option {
	return func(m *Machine) {
		if n > 0 {
			m.minLength = n
		}
	}
}

// WithLogger attaches a logger for transition tracing.
func WithLogger(lgr logr.Logger) Option {
	return func(m *Machine) {
		m.log = lgr
	}
}

// Machine is the synchronous autocomplete state machine. It is not safe for
// concurrent use; callers serialize Send calls (Service and the terminal UI
// both do).
type Machine struct {
	def        definition
	minLength  int
	state      State
	ctx        Context
	generation uint64
	log        logr.Logger
}

// NewMachine returns a machine in its initial state.
func NewMachine(opts ...Option) *Machine {
	m := &Machine{
		minLength: DefaultMinLength,
		log:       logr.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.def = newDefinition(m.minLength)
	m.state = m.def.initial
	m.ctx = NewContext()
	return m
}

// MinLength returns the configured minimum query length.
func (m *Machine) MinLength() int { return m.minLength }

// Snapshot returns the current state without processing an event.
func (m *Machine) Snapshot() Snapshot {
	return Snapshot{
		State:      m.state,
		Context:    m.ctx.Clone(),
		Generation: m.generation,
	}
}

// Send processes one event to completion and returns the new snapshot and
// any effects the caller must run, in order.
func (m *Machine) Send(ev Event) (Snapshot, []Effect) {
	if ev == nil {
		return m.Snapshot(), nil
	}

	if gen, ok := generationOf(ev); ok {
		if m.state != StateFetching || gen != m.generation {
			m.log.V(2).Info("dropping stale fetch result",
				"event", ev.Type(), "generation", gen, "active", m.generation, "state", m.state)
			return m.Snapshot(), nil
		}
	}

	var effects []Effect
	t, ok := m.selectTransition(ev)
	if !ok {
		return m.Snapshot(), nil
	}
	from := m.state
	effects = m.take(t, ev, effects)

	for i := 0; m.state.IsTransient() && i < maxMicrosteps; i++ {
		next, ok := m.selectTransition(alwaysEvent{})
		if !ok {
			m.log.Error(errStuckTransient, "no eventless transition matched", "state", m.state)
			break
		}
		effects = m.take(next, ev, effects)
	}

	m.log.V(1).Info("transition", "event", ev.Type(), "from", from, "to", m.state, "generation", m.generation)

	snap := m.Snapshot()
	snap.Changed = true
	return snap, effects
}

func (m *Machine) selectTransition(ev Event) (transition, bool) {
	for _, t := range m.def.candidates(m.state, ev.Type()) {
		if t.guard == nil || t.guard.fn(m.ctx, ev) {
			return t, true
		}
	}
	return transition{}, false
}

// take applies one transition. Transition actions run first so they observe
// the source state's context, then exit hooks innermost first, then entry
// hooks outermost first. Ancestors shared by source and target are neither
// exited nor entered.
func (m *Machine) take(t transition, ev Event, effects []Effect) []Effect {
	for _, a := range t.actions {
		m.ctx = a.fn(m.ctx, ev)
	}

	target := m.def.leaf(t.to)
	exiting, entering := m.path(m.state, target)
	for _, s := range exiting {
		node := m.def.nodes[s]
		for _, a := range node.exit {
			m.ctx = a.fn(m.ctx, ev)
		}
		if _, settled := generationOf(ev); node.invoke && !settled {
			effects = append(effects, CancelEffect{Generation: m.generation})
		}
	}

	m.state = target
	for _, s := range entering {
		node := m.def.nodes[s]
		for _, a := range node.entry {
			m.ctx = a.fn(m.ctx, ev)
		}
		if node.invoke {
			m.generation++
			effects = append(effects, FetchEffect{Generation: m.generation, Query: m.ctx.Query})
		}
	}
	return effects
}

// path returns the states exited (innermost first) and entered (outermost
// first) when moving from one leaf to another. A self-transition exits and
// re-enters the leaf only.
func (m *Machine) path(from, to State) (exiting, entering []State) {
	if from == to {
		return []State{from}, []State{to}
	}
	fromAnc := from.Ancestry()
	toAnc := to.Ancestry()

	shared := map[State]bool{}
	for _, a := range fromAnc {
		for _, b := range toAnc {
			if a == b {
				shared[a] = true
			}
		}
	}
	for _, s := range fromAnc {
		if !shared[s] {
			exiting = append(exiting, s)
		}
	}
	for i := len(toAnc) - 1; i >= 0; i-- {
		if !shared[toAnc[i]] {
			entering = append(entering, toAnc[i])
		}
	}
	return exiting, entering
}

// Package ui is the Bubble Tea front end for the autocomplete controller.
// It turns key presses into controller events, runs fetch effects as
// commands and renders each snapshot.
package ui

import (
	"context"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/typeahead/internal/autocomplete"
	"github.com/oakwood-commons/typeahead/internal/source"
	"github.com/oakwood-commons/typeahead/pkg/logger"
)

// DefaultDebounce is the quiet period after the last keystroke before the
// input is reported to the controller.
const DefaultDebounce = 200 * time.Millisecond

// ModelConfig configures a Model.
type ModelConfig struct {
	AppName     string
	Placeholder string
	MinLength   int
	// Debounce of zero reports every keystroke immediately.
	Debounce time.Duration
	NoColor  bool
	Width    int
	Height   int
	// Debug shows controller internals under the footer.
	Debug bool
	// Synchronous runs fetches inline instead of as commands. Snapshot
	// rendering uses it so startup keys produce a settled view.
	Synchronous bool
}

// debounceMsg is sent after the debounce delay. ID is compared against
// Model.debounceID so only the latest keystroke is reported.
type debounceMsg struct {
	ID    int
	Value string
}

// fetchResultMsg carries the outcome of the fetch started for Generation.
type fetchResultMsg struct {
	Generation uint64
	Data       []string
	Err        error
}

func (m fetchResultMsg) event() autocomplete.Event {
	if m.Err != nil {
		return autocomplete.FetchFailed{Generation: m.Generation, Err: m.Err}
	}
	return autocomplete.FetchSucceeded{Generation: m.Generation, Data: m.Data}
}

// Model is the autocomplete view.
type Model struct {
	AppName     string
	NoColor     bool
	Debug       bool
	Debounce    time.Duration
	Synchronous bool
	WinWidth    int
	WinHeight   int
	Keys        KeyMap
	Input       textinput.Model
	Spinner     spinner.Model
	Snap        autocomplete.Snapshot
	Quitting    bool

	ctx        context.Context
	log        logr.Logger
	machine    *autocomplete.Machine
	source     source.Source
	debounceID int
	pending    bool // a debounced value has not been reported yet
	spinning   bool
	inflight   map[uint64]context.CancelFunc
}

// NewModel returns a model backed by src. Fetches run under ctx.
func NewModel(ctx context.Context, src source.Source, cfg ModelConfig) *Model {
	lgr := logger.FromContext(ctx).WithName("ui")
	machine := autocomplete.NewMachine(
		autocomplete.WithMinLength(cfg.MinLength),
		autocomplete.WithLogger(lgr.WithName("autocomplete")),
	)

	ti := textinput.New()
	ti.Placeholder = cfg.Placeholder
	if ti.Placeholder == "" {
		ti.Placeholder = "Search…"
	}
	ti.Prompt = ""
	ti.SetWidth(60) // adjusted on WindowSizeMsg
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot

	m := &Model{
		AppName:     cfg.AppName,
		NoColor:     cfg.NoColor,
		Debug:       cfg.Debug,
		Debounce:    cfg.Debounce,
		Synchronous: cfg.Synchronous,
		WinWidth:    cfg.Width,
		WinHeight:   cfg.Height,
		Keys:        DefaultKeyMap(),
		Input:       ti,
		Spinner:     s,
		Snap:        machine.Snapshot(),
		ctx:         ctx,
		log:         lgr,
		machine:     machine,
		source:      src,
		inflight:    map[uint64]context.CancelFunc{},
	}
	m.resize()
	return m
}

// MinLength returns the query length at which suggestions are fetched.
func (m *Model) MinLength() int { return m.machine.MinLength() }

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if m.WinWidth == msg.Width && m.WinHeight == msg.Height {
			return m, nil
		}
		m.WinWidth = msg.Width
		m.WinHeight = msg.Height
		m.resize()
		return m, nil

	case tea.KeyPressMsg:
		return m, m.handleKey(msg)

	case debounceMsg:
		if msg.ID != m.debounceID {
			m.log.V(2).Info("dropping superseded input", "id", msg.ID, "latest", m.debounceID)
			return m, nil
		}
		m.pending = false
		return m, m.send(autocomplete.TextChanged{Value: msg.Value})

	case fetchResultMsg:
		if cancel, ok := m.inflight[msg.Generation]; ok {
			cancel()
			delete(m.inflight, msg.Generation)
		}
		return m, m.send(msg.event())

	case spinner.TickMsg:
		if !m.Snap.Matches(autocomplete.StateFetching) {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	action, idx := m.Keys.Resolve(msg)
	switch action {
	case ActionQuit:
		m.Quitting = true
		m.cancelAll()
		return tea.Quit
	case ActionUp:
		return m.send(autocomplete.KeyPressed{Key: autocomplete.KeyArrowUp})
	case ActionDown:
		return m.send(autocomplete.KeyPressed{Key: autocomplete.KeyArrowDown})
	case ActionEnter:
		if m.Snap.Matches(autocomplete.StateHighlighting) {
			return m.send(autocomplete.KeyPressed{Key: autocomplete.KeyEnter})
		}
		return m.submit()
	case ActionSubmit:
		return m.submit()
	case ActionAccept:
		if h, ok := m.Snap.Context.Highlighted(); ok && m.Snap.Matches(autocomplete.StateHighlighting) {
			return m.send(autocomplete.SuggestionClicked{Query: h})
		}
		return nil
	case ActionPick:
		if m.Snap.Matches(autocomplete.StateSuggesting) && idx < len(m.Snap.Context.Suggestions) {
			return m.send(autocomplete.SuggestionClicked{Query: m.Snap.Context.Suggestions[idx]})
		}
		return nil
	case ActionReset:
		m.debounceID++
		m.pending = false
		return m.send(autocomplete.Reset{})
	}

	// The field is read-only once a search is committed.
	if m.Snap.Done() {
		return nil
	}
	before := m.Input.Value()
	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	if m.Input.Value() == before {
		return cmd
	}
	return tea.Batch(cmd, m.scheduleTextChanged(m.Input.Value()))
}

// scheduleTextChanged debounces input changes. Every call supersedes the
// previous tick.
func (m *Model) scheduleTextChanged(value string) tea.Cmd {
	m.debounceID++
	if m.Debounce <= 0 || m.Synchronous {
		m.pending = false
		return m.send(autocomplete.TextChanged{Value: value})
	}
	m.pending = true
	id := m.debounceID
	return tea.Tick(m.Debounce, func(time.Time) tea.Msg {
		return debounceMsg{ID: id, Value: value}
	})
}

// submit flushes a pending keystroke so the controller sees what is on
// screen, then submits the field's value. While highlighting that is the
// highlighted suggestion.
func (m *Model) submit() tea.Cmd {
	var flush tea.Cmd
	if m.pending {
		m.debounceID++
		m.pending = false
		flush = m.send(autocomplete.TextChanged{Value: m.Input.Value()})
	}
	return tea.Batch(flush, m.send(autocomplete.SubmitRequested{Query: m.Input.Value()}))
}

// send feeds one event to the controller and turns its effects into commands.
func (m *Model) send(ev autocomplete.Event) tea.Cmd {
	snap, effects := m.machine.Send(ev)
	m.Snap = snap
	if !snap.Changed {
		return nil
	}

	switch ev.(type) {
	case autocomplete.KeyPressed, autocomplete.SuggestionClicked, autocomplete.Reset:
		m.setInput(snap.DisplayValue())
	}

	var cmds []tea.Cmd
	for _, eff := range effects {
		switch e := eff.(type) {
		case autocomplete.FetchEffect:
			cmds = append(cmds, m.startFetch(e))
		case autocomplete.CancelEffect:
			m.cancelFetch(e.Generation)
		}
	}
	if m.Snap.Matches(autocomplete.StateFetching) && !m.Synchronous && !m.spinning {
		m.spinning = true
		cmds = append(cmds, m.Spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (m *Model) startFetch(e autocomplete.FetchEffect) tea.Cmd {
	m.log.V(1).Info("fetch started", "generation", e.Generation, "query", e.Query)
	if m.Synchronous {
		data, err := m.source.Fetch(m.ctx, e.Query)
		return m.send(fetchResultMsg{Generation: e.Generation, Data: data, Err: err}.event())
	}

	ctx, cancel := context.WithCancel(m.ctx)
	m.inflight[e.Generation] = cancel
	src := m.source
	return func() tea.Msg {
		data, err := src.Fetch(ctx, e.Query)
		return fetchResultMsg{Generation: e.Generation, Data: data, Err: err}
	}
}

func (m *Model) cancelFetch(gen uint64) {
	if cancel, ok := m.inflight[gen]; ok {
		m.log.V(1).Info("fetch cancelled", "generation", gen)
		cancel()
		delete(m.inflight, gen)
	}
}

func (m *Model) cancelAll() {
	for gen, cancel := range m.inflight {
		cancel()
		delete(m.inflight, gen)
	}
}

func (m *Model) setInput(value string) {
	m.Input.SetValue(value)
	m.Input.CursorEnd()
}

func (m *Model) resize() {
	w := m.WinWidth
	if w <= 0 {
		w = 80
	}
	m.Input.SetWidth(max(w-6, 10))
}

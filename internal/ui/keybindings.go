package ui

import (
	"strconv"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
)

// Action is what a key press asks the view to do.
type Action string

const (
	ActionNone   Action = ""
	ActionUp     Action = "up"
	ActionDown   Action = "down"
	ActionEnter  Action = "enter"
	ActionAccept Action = "accept" // take the highlighted suggestion
	ActionPick   Action = "pick"   // take the n-th visible suggestion
	ActionSubmit Action = "submit"
	ActionReset  Action = "reset"
	ActionQuit   Action = "quit"
)

// KeyMap holds the bindings of the autocomplete view.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Accept key.Binding
	Pick   key.Binding
	Submit key.Binding
	Reset  key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "prev")),
		Down:   key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next")),
		Enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Accept: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "accept")),
		Pick: key.NewBinding(
			key.WithKeys("alt+1", "alt+2", "alt+3", "alt+4", "alt+5", "alt+6", "alt+7", "alt+8", "alt+9"),
			key.WithHelp("alt+1..9", "pick"),
		),
		Submit: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "search")),
		Reset:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reset")),
		Quit:   key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
}

// ShortHelp lists the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Accept, k.Submit, k.Reset, k.Quit}
}

// Resolve maps a key press to an action. For ActionPick the second result
// is the zero-based suggestion index.
func (k KeyMap) Resolve(msg tea.KeyPressMsg) (Action, int) {
	switch {
	case key.Matches(msg, k.Quit):
		return ActionQuit, 0
	case key.Matches(msg, k.Up):
		return ActionUp, 0
	case key.Matches(msg, k.Down):
		return ActionDown, 0
	case key.Matches(msg, k.Enter):
		return ActionEnter, 0
	case key.Matches(msg, k.Accept):
		return ActionAccept, 0
	case key.Matches(msg, k.Submit):
		return ActionSubmit, 0
	case key.Matches(msg, k.Reset):
		return ActionReset, 0
	case key.Matches(msg, k.Pick):
		if n, ok := pickIndex(msg.String()); ok {
			return ActionPick, n
		}
	}
	return ActionNone, 0
}

// pickIndex parses "alt+N" into N-1.
func pickIndex(keyStr string) (int, bool) {
	digit, ok := strings.CutPrefix(keyStr, "alt+")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(digit)
	if err != nil || n < 1 || n > 9 {
		return 0, false
	}
	return n - 1, true
}

// helpLine renders "key desc" pairs for the footer.
func (k KeyMap) helpLine() string {
	parts := make([]string, 0, len(k.ShortHelp()))
	for _, b := range k.ShortHelp() {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

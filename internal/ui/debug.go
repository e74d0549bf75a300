package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// DebugInfo contains the controller internals shown in the debug bar.
type DebugInfo struct {
	Generation  uint64
	ActiveIndex int
	Suggestions int
	Pending     bool
	Inflight    int
	DebounceID  int
	Input       string
	Query       string
}

func (m *Model) debugInfo() DebugInfo {
	return DebugInfo{
		Generation:  m.Snap.Generation,
		ActiveIndex: m.Snap.Context.ActiveSuggestionIndex,
		Suggestions: len(m.Snap.Context.Suggestions),
		Pending:     m.pending,
		Inflight:    len(m.inflight),
		DebounceID:  m.debounceID,
		Input:       m.Input.Value(),
		Query:       m.Snap.Context.Query,
	}
}

// renderDebug pads the debug line to the full width so it lines up with the footer.
func renderDebug(m *Model, st styles, width int) string {
	info := m.debugInfo()
	message := fmt.Sprintf("DBG: gen=%d idx=%d sugg=%d pending=%v inflight=%d tick=%d | input=%q query=%q",
		info.Generation, info.ActiveIndex, info.Suggestions, info.Pending, info.Inflight, info.DebounceID,
		info.Input, info.Query)
	padded := ansi.Truncate(message, width, "...")
	if w := ansi.StringWidth(padded); w < width {
		padded += strings.Repeat(" ", width-w)
	}
	return st.footer.Render(padded)
}

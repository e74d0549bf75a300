package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// renderFooter shows the active state paths and the key hints. The paths
// expose the nesting of the state ("suggesting suggesting.highlighting") so
// the current mode can be read at a glance.
func renderFooter(m *Model, st styles, width int) string {
	state := "state: " + strings.Join(m.Snap.State.Paths(), " ")
	help := m.Keys.helpLine()
	return st.footer.Render(ansi.Truncate(state, width, "…")) + "\n" +
		st.footer.Render(ansi.Truncate(help, width, "…"))
}

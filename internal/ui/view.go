package ui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/oakwood-commons/typeahead/internal/autocomplete"
)

func (m *Model) View() tea.View {
	v := tea.NewView(m.Render())
	v.AltScreen = true
	return v
}

// Render draws the current snapshot.
func (m *Model) Render() string {
	st := newStyles(CurrentTheme(), m.NoColor)
	width := m.WinWidth
	if width <= 0 {
		width = 80
	}

	var b strings.Builder
	if m.AppName != "" {
		b.WriteString(st.prompt.Render(m.AppName) + "\n")
	}
	b.WriteString(st.box.Render(st.prompt.Render("> ")+m.Input.View()) + "\n")

	if body := m.renderBody(st, width); body != "" {
		b.WriteString(body + "\n")
	}

	b.WriteString(renderFooter(m, st, width))
	if m.Debug {
		b.WriteString("\n" + renderDebug(m, st, width))
	}
	return b.String()
}

// renderBody shows what the controller is doing: progress, errors, the
// suggestion list or the committed result.
func (m *Model) renderBody(st styles, width int) string {
	snap := m.Snap
	switch {
	case snap.Matches(autocomplete.StateFetching):
		return " " + st.spinner.Render(m.Spinner.View()) + " " +
			ansi.Truncate(fmt.Sprintf("fetching suggestions for %q", snap.Context.Query), width-4, "…")
	case snap.Matches(autocomplete.StateFetchFailed):
		// Message outlives the failure; only this state shows it.
		return " " + st.errorText.Render("✗ "+ansi.Truncate(snap.Context.Message, width-4, "…"))
	case snap.Matches(autocomplete.StateSuggesting):
		return m.renderSuggestions(st, width)
	case snap.Matches(autocomplete.StateSearchCommitted):
		return " " + st.successTxt.Render("Results for "+ansi.Truncate(snap.Context.Query, width-14, "…"))
	case snap.Matches(autocomplete.StateIdle):
		if q := m.Input.Value(); q != "" && len([]rune(q)) < m.MinLength() {
			return " " + st.footer.Render(fmt.Sprintf("type at least %d characters", m.MinLength()))
		}
	}
	return ""
}

func (m *Model) renderSuggestions(st styles, width int) string {
	ctx := m.Snap.Context
	rows := make([]string, 0, len(ctx.Suggestions))
	for i, s := range ctx.Suggestions {
		text := ansi.Truncate(s, max(width-6, 1), "…")
		if i == ctx.ActiveSuggestionIndex {
			rows = append(rows, st.selected.Render(fmt.Sprintf("› %d %s", i+1, text)))
			continue
		}
		rows = append(rows, st.row.Render(fmt.Sprintf("  %d ", i+1))+highlightMatch(text, ctx.Query, st.match, st.row))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// highlightMatch styles the first case-insensitive occurrence of query in s.
func highlightMatch(s, query string, match, base lipgloss.Style) string {
	if query == "" {
		return base.Render(s)
	}
	lower := strings.ToLower(s)
	if len(lower) != len(s) {
		return base.Render(s)
	}
	i := strings.Index(lower, strings.ToLower(query))
	if i < 0 {
		return base.Render(s)
	}
	j := i + len(query)
	if j > len(s) {
		return base.Render(s)
	}
	return base.Render(s[:i]) + match.Render(s[i:j]) + base.Render(s[j:])
}

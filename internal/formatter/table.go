package formatter

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

var (
	defaultHeaderFG   = lipgloss.Color("12")
	defaultHeaderBG   = lipgloss.Color("236")
	defaultKeyColor   = lipgloss.Color("14")
	defaultValueColor = lipgloss.Color("248")
	defaultSeparator  = lipgloss.Color("240")

	headerStyle    lipgloss.Style
	keyStyle       lipgloss.Style
	valueStyle     lipgloss.Style
	separatorStyle lipgloss.Style
)

// TableColors controls the rendered colors for key/value tables.
// Empty fields fall back to ANSI 256 defaults.
type TableColors struct {
	HeaderFG       color.Color
	HeaderBG       color.Color
	KeyColor       color.Color
	ValueColor     color.Color
	SeparatorColor color.Color
}

func applyTableTheme(tc TableColors) {
	pick := func(c, fallback color.Color) color.Color {
		if c == nil {
			return fallback
		}
		return c
	}
	headerStyle = lipgloss.NewStyle().Bold(true).
		Foreground(pick(tc.HeaderFG, defaultHeaderFG)).
		Background(pick(tc.HeaderBG, defaultHeaderBG))
	keyStyle = lipgloss.NewStyle().Foreground(pick(tc.KeyColor, defaultKeyColor))
	valueStyle = lipgloss.NewStyle().Foreground(pick(tc.ValueColor, defaultValueColor))
	separatorStyle = lipgloss.NewStyle().Foreground(pick(tc.SeparatorColor, defaultSeparator))
}

// SetTableTheme overrides the table styles. Zero-valued fields fall back
// to the defaults.
func SetTableTheme(tc TableColors) {
	applyTableTheme(tc)
}

//nolint:gochecknoinits // initialize default table theme for package consumers
func init() {
	applyTableTheme(TableColors{})
}

// RenderTable renders a KEY/VALUE table sized to fit its content.
// maxWidth limits the table width (values are truncated to fit); 0 means
// no limit.
func RenderTable(rows [][]string, noColor bool, maxWidth int) string {
	const sepWidth = 2
	sep := strings.Repeat(" ", sepWidth)

	keyWidth := runewidth.StringWidth("KEY")
	valWidth := runewidth.StringWidth("VALUE")
	for _, row := range rows {
		if len(row) > 0 {
			keyWidth = max(keyWidth, runewidth.StringWidth(row[0]))
		}
		if len(row) > 1 {
			valWidth = max(valWidth, runewidth.StringWidth(normalizeCell(row[1])))
		}
	}
	if maxWidth > 0 && keyWidth+sepWidth+valWidth > maxWidth {
		valWidth = max(maxWidth-keyWidth-sepWidth, 5)
	}

	var b strings.Builder
	headerKey := padRight("KEY", keyWidth)
	headerValue := padRight("VALUE", valWidth)
	if !noColor {
		headerKey = headerStyle.Render(headerKey)
		headerValue = headerStyle.Render(headerValue)
	}
	b.WriteString(headerKey + sep + headerValue + "\n")

	separator := strings.Repeat("─", keyWidth+sepWidth+valWidth)
	if !noColor {
		separator = separatorStyle.Render(separator)
	}
	b.WriteString(separator + "\n")

	for _, row := range rows {
		var key, val string
		if len(row) > 0 {
			key = row[0]
		}
		if len(row) > 1 {
			val = normalizeCell(row[1])
		}
		keyStr := padRight(key, keyWidth)
		valStr := padRight(Truncate(val, valWidth), valWidth)
		if !noColor {
			keyStr = keyStyle.Render(keyStr)
			valStr = valueStyle.Render(valStr)
		}
		b.WriteString(strings.TrimRight(keyStr+sep+valStr, " ") + "\n")
	}
	return b.String()
}

// Truncate shortens s to maxLen display cells, ending in "..." when cut.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || ansi.StringWidth(s) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return ansi.Truncate(s, maxLen, "")
	}
	return ansi.Truncate(s, maxLen, "...")
}

// normalizeCell keeps table rows single-line.
func normalizeCell(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.ReplaceAll(s, "\n", "\\n")
}

// padRight pads s with spaces to width display cells.
func padRight(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

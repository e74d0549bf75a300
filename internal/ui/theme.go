package ui

import (
	"image/color"
	"strings"
	"sync"

	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/typeahead/internal/config"
	"github.com/oakwood-commons/typeahead/internal/formatter"
)

// Theme defines colors and styles used by the autocomplete view.
type Theme struct {
	PromptFG      color.Color // Prompt glyph before the input
	InputFG       color.Color // Input text
	InputBG       color.Color // Input background
	BorderStyle   string      // Border style (normal|rounded)
	BorderFG      color.Color // Input and list borders
	SuggestionFG  color.Color // Suggestion rows
	MatchFG       color.Color // Part of a suggestion matching the query
	SelectedFG    color.Color // Highlighted row foreground
	SelectedBG    color.Color // Highlighted row background
	SpinnerFG     color.Color // Fetch spinner
	StatusError   color.Color // Error banner text
	StatusSuccess color.Color // Committed result text
	FooterFG      color.Color // Footer text
}

var (
	themeMu      sync.RWMutex
	currentTheme = fallbackDefaultTheme()
)

// fallbackDefaultTheme is used when a theme leaves a field unset.
func fallbackDefaultTheme() Theme {
	return Theme{
		PromptFG:      lipgloss.Color("81"),  // cyan prompt
		InputFG:       lipgloss.Color("252"), // light input text
		InputBG:       lipgloss.Color("236"), // charcoal input background
		BorderStyle:   "rounded",
		BorderFG:      lipgloss.Color("240"), // subtle borders
		SuggestionFG:  lipgloss.Color("246"), // muted gray rows
		MatchFG:       lipgloss.Color("81"),  // cyan match
		SelectedFG:    lipgloss.Color("250"), // muted light text on selection
		SelectedBG:    lipgloss.Color("24"),  // deep teal selection
		SpinnerFG:     lipgloss.Color("81"),
		StatusError:   lipgloss.Color("203"), // softer red for errors
		StatusSuccess: lipgloss.Color("114"), // mint success
		FooterFG:      lipgloss.Color("244"), // muted footer text
	}
}

// SetTheme overrides the global theme. Table output used by headless
// commands follows the same palette.
func SetTheme(t Theme) {
	t.BorderStyle = normalizeBorderStyle(t.BorderStyle)
	themeMu.Lock()
	currentTheme = t
	themeMu.Unlock()
	formatter.SetTableTheme(formatter.TableColors{
		HeaderFG:       t.PromptFG,
		HeaderBG:       t.InputBG,
		KeyColor:       t.MatchFG,
		ValueColor:     t.SuggestionFG,
		SeparatorColor: t.BorderFG,
	})
}

// CurrentTheme returns the active theme.
func CurrentTheme() Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}

// ThemeFromConfig builds a Theme from a ThemeConfig, falling back to defaults when fields are empty.
func ThemeFromConfig(cfg config.ThemeConfig) Theme {
	th := fallbackDefaultTheme()
	set := func(val config.ColorValue, dst *color.Color) {
		if val != "" {
			*dst = lipgloss.Color(string(val))
		}
	}
	set(cfg.PromptFG, &th.PromptFG)
	set(cfg.InputFG, &th.InputFG)
	set(cfg.InputBG, &th.InputBG)
	if cfg.BorderStyle != "" {
		th.BorderStyle = cfg.BorderStyle
	}
	set(cfg.BorderFG, &th.BorderFG)
	set(cfg.SuggestionFG, &th.SuggestionFG)
	set(cfg.MatchFG, &th.MatchFG)
	set(cfg.SelectedFG, &th.SelectedFG)
	set(cfg.SelectedBG, &th.SelectedBG)
	set(cfg.SpinnerFG, &th.SpinnerFG)
	set(cfg.StatusError, &th.StatusError)
	set(cfg.StatusSuccess, &th.StatusSuccess)
	set(cfg.FooterFG, &th.FooterFG)
	th.BorderStyle = normalizeBorderStyle(th.BorderStyle)
	return th
}

func normalizeBorderStyle(val string) string {
	v := strings.TrimSpace(strings.ToLower(val))
	switch v {
	case "", "rounded", "round":
		return "rounded"
	case "normal", "square":
		return "normal"
	default:
		return "rounded"
	}
}

func borderForStyle(style string) lipgloss.Border {
	switch normalizeBorderStyle(style) {
	case "normal":
		return lipgloss.NormalBorder()
	default:
		return lipgloss.RoundedBorder()
	}
}

// styles is the resolved set of lipgloss styles for one render.
type styles struct {
	prompt     lipgloss.Style
	box        lipgloss.Style
	row        lipgloss.Style
	match      lipgloss.Style
	selected   lipgloss.Style
	spinner    lipgloss.Style
	errorText  lipgloss.Style
	successTxt lipgloss.Style
	footer     lipgloss.Style
}

func newStyles(th Theme, noColor bool) styles {
	border := borderForStyle(th.BorderStyle)
	s := styles{
		prompt:     lipgloss.NewStyle().Bold(true),
		box:        lipgloss.NewStyle().Border(border).Padding(0, 1),
		row:        lipgloss.NewStyle(),
		match:      lipgloss.NewStyle().Underline(true),
		selected:   lipgloss.NewStyle().Reverse(true),
		spinner:    lipgloss.NewStyle(),
		errorText:  lipgloss.NewStyle().Bold(true),
		successTxt: lipgloss.NewStyle().Bold(true),
		footer:     lipgloss.NewStyle(),
	}
	if noColor {
		return s
	}
	s.prompt = s.prompt.Foreground(th.PromptFG)
	s.box = s.box.BorderForeground(th.BorderFG).Foreground(th.InputFG)
	s.row = s.row.Foreground(th.SuggestionFG)
	s.match = lipgloss.NewStyle().Foreground(th.MatchFG).Bold(true)
	s.selected = lipgloss.NewStyle().Foreground(th.SelectedFG).Background(th.SelectedBG)
	s.spinner = s.spinner.Foreground(th.SpinnerFG)
	s.errorText = s.errorText.Foreground(th.StatusError)
	s.successTxt = s.successTxt.Foreground(th.StatusSuccess)
	s.footer = s.footer.Foreground(th.FooterFG)
	return s
}

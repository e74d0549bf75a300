package ui

import (
	"strings"
	"unicode/utf8"

	tea "charm.land/bubbletea/v2"
)

// ApplyStartupKeys simulates startup keypresses (Vim-like tokens and literal text).
// It mutates the provided model in place.
func ApplyStartupKeys(m *Model, keys []string) {
	if len(keys) == 0 || m == nil {
		return
	}
	for _, raw := range keys {
		token := strings.TrimSpace(raw)
		if token == "" {
			continue
		}
		// Leading backslash forces literal text (e.g., "\\<down>").
		if strings.HasPrefix(token, `\`) {
			typeLiteral(m, strings.TrimPrefix(token, `\`))
			continue
		}

		for _, segment := range parseTokenSegments(token) {
			if !segment.isVimKey {
				typeLiteral(m, segment.text)
				continue
			}
			msgs, ok := keyMsgsFromToken(segment.text)
			if !ok {
				typeLiteral(m, segment.text)
				continue
			}
			for _, msg := range msgs {
				m.Update(msg)
			}
		}
	}
}

func typeLiteral(m *Model, text string) {
	for _, r := range text {
		m.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

// tokenSegment represents a parsed segment of a token (either a vim-style key or literal text)
type tokenSegment struct {
	text     string
	isVimKey bool
}

// parseTokenSegments splits a token into segments of vim-style keys and literal text.
// Example: "cat<Down><CR>" -> ["cat", "<Down>", "<CR>"]
func parseTokenSegments(token string) []tokenSegment {
	var segments []tokenSegment
	remaining := token

	for len(remaining) > 0 {
		startIdx := strings.Index(remaining, "<")
		if startIdx == -1 {
			segments = append(segments, tokenSegment{text: remaining})
			break
		}
		if startIdx > 0 {
			segments = append(segments, tokenSegment{text: remaining[:startIdx]})
		}

		endIdx := strings.Index(remaining[startIdx:], ">")
		if endIdx == -1 {
			// No closing >, treat rest as literal text
			segments = append(segments, tokenSegment{text: remaining[startIdx:]})
			break
		}

		segments = append(segments, tokenSegment{text: remaining[startIdx : startIdx+endIdx+1], isVimKey: true})
		remaining = remaining[startIdx+endIdx+1:]
	}

	return segments
}

// keyMsgsFromToken parses a Vim-like token into key messages.
// Examples: "<Esc>", "<CR>", "<Tab>", "<Space>", "<BS>", "<C-s>", "<A-2>", "<Down>".
// Only <...> forms are treated as keys; everything else is literal text.
func keyMsgsFromToken(token string) ([]tea.KeyPressMsg, bool) {
	if !strings.HasPrefix(token, "<") || !strings.HasSuffix(token, ">") {
		return nil, false
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(token, "<"), ">")
	lower := strings.ToLower(inner)
	switch lower {
	case "esc", "c-[", "escape":
		return []tea.KeyPressMsg{{Code: tea.KeyEscape}}, true
	case "cr", "enter", "return":
		return []tea.KeyPressMsg{{Code: tea.KeyEnter}}, true
	case "tab":
		return []tea.KeyPressMsg{{Code: tea.KeyTab}}, true
	case "space":
		return []tea.KeyPressMsg{{Code: ' ', Text: " "}}, true
	case "bs", "backspace":
		return []tea.KeyPressMsg{{Code: tea.KeyBackspace}}, true
	case "left":
		return []tea.KeyPressMsg{{Code: tea.KeyLeft}}, true
	case "right":
		return []tea.KeyPressMsg{{Code: tea.KeyRight}}, true
	case "up":
		return []tea.KeyPressMsg{{Code: tea.KeyUp}}, true
	case "down":
		return []tea.KeyPressMsg{{Code: tea.KeyDown}}, true
	case "home":
		return []tea.KeyPressMsg{{Code: tea.KeyHome}}, true
	case "end":
		return []tea.KeyPressMsg{{Code: tea.KeyEnd}}, true
	}

	// Modifier chords: <C-x> and <A-x> / <M-x>.
	if len(lower) > 2 && lower[1] == '-' {
		r, size := utf8.DecodeRuneInString(lower[2:])
		if size != len(lower)-2 {
			return nil, false
		}
		switch lower[0] {
		case 'c':
			return []tea.KeyPressMsg{{Code: r, Mod: tea.ModCtrl}}, true
		case 'a', 'm':
			return []tea.KeyPressMsg{{Code: r, Mod: tea.ModAlt}}, true
		}
	}
	return nil, false
}

package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/oakwood-commons/typeahead/internal/source"
)

// ModelSnapshotConfig configures snapshot rendering using the Model implementation.
type ModelSnapshotConfig struct {
	Width     int
	Height    int
	NoColor   bool
	Debug     bool
	MinLength int
	StartKeys []string
	AppName   string
	Configure func(*Model)
}

// RenderModelSnapshot renders one frame after replaying the startup keys.
// Fetches run inline so the frame shows their settled result.
func RenderModelSnapshot(ctx context.Context, src source.Source, cfg ModelSnapshotConfig) string {
	m := NewModel(ctx, src, ModelConfig{
		AppName:     cfg.AppName,
		MinLength:   cfg.MinLength,
		NoColor:     cfg.NoColor,
		Debug:       cfg.Debug,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Synchronous: true,
	})
	if m.WinWidth <= 0 {
		m.WinWidth = 80
	}
	if m.WinHeight <= 0 {
		m.WinHeight = 24
	}
	m.resize()
	if cfg.Configure != nil {
		cfg.Configure(m)
	}
	if len(cfg.StartKeys) > 0 {
		ApplyStartupKeys(m, cfg.StartKeys)
	}
	// No blinking cursor in a still frame.
	m.Input.Blur()

	view := m.Render()
	if cfg.NoColor {
		view = ansi.Strip(view)
	}
	if cfg.Height > 0 {
		view = padSnapshotHeight(view, cfg.Height, cfg.Width)
	}
	return view
}

func padSnapshotHeight(view string, height, width int) string {
	if height <= 0 {
		return view
	}
	lines := strings.Split(strings.TrimRight(view, "\n"), "\n")
	if len(lines) >= height {
		return strings.Join(lines, "\n")
	}
	padLine := " "
	if width > 1 {
		padLine = strings.Repeat(" ", width)
	}
	for len(lines) < height {
		lines = append(lines, padLine)
	}
	return strings.Join(lines, "\n")
}

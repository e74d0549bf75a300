package ui

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"

	"github.com/oakwood-commons/typeahead/internal/autocomplete"
	"github.com/oakwood-commons/typeahead/internal/source"
)

// RunModel starts the Bubble Tea TUI and returns the final snapshot.
// Width/height of 0 will auto-detect the terminal size (falling back to defaults).
// Extra ProgramOptions (e.g., custom IO) can be provided to mirror tea.NewProgram.
func RunModel(ctx context.Context, src source.Source, cfg ModelConfig, startKeys []string, opts ...tea.ProgramOption) (autocomplete.Snapshot, error) {
	m := NewModel(ctx, src, cfg)

	if cfg.Width > 0 || cfg.Height > 0 {
		runW, runH := cfg.Width, cfg.Height
		if runW <= 0 || runH <= 0 {
			if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				if runW <= 0 {
					runW = w
				}
				if runH <= 0 {
					runH = h
				}
			}
		}
		if runW <= 0 {
			runW = 80
		}
		if runH <= 0 {
			runH = 24
		}
		m.WinWidth = runW
		m.WinHeight = runH
		m.resize()
		opts = append(opts, tea.WithWindowSize(runW, runH))
	}

	if len(startKeys) > 0 {
		// Startup keys settle synchronously so the first frame already
		// reflects them.
		m.Synchronous = true
		ApplyStartupKeys(m, startKeys)
		m.Synchronous = cfg.Synchronous
	}

	opts = append(opts, tea.WithContext(ctx))
	prog := tea.NewProgram(m, opts...)
	finalModel, err := prog.Run()
	m.cancelAll()
	if fm, ok := finalModel.(*Model); ok && fm != nil {
		return fm.Snap, err
	}
	return m.Snap, err
}

// PrintCommitted writes the committed query to stdout so the TUI can be
// used in shell pipelines. Nothing is printed when the user quit without
// committing.
func PrintCommitted(snap autocomplete.Snapshot) {
	if q, ok := snap.CommittedQuery(); ok {
		fmt.Fprintln(os.Stdout, q)
	}
}

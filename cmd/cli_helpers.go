package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"

	"github.com/oakwood-commons/typeahead/internal/config"
	"github.com/oakwood-commons/typeahead/internal/ui"
	"github.com/oakwood-commons/typeahead/pkg/settings"
)

const defaultFallbackTermWidth = 120

var (
	stdinIsPiped     = func() bool { stat, _ := os.Stdin.Stat(); return (stat.Mode() & os.ModeCharDevice) == 0 }
	openTerminalIOFn = openTerminalIO
	termGetSize      = term.GetSize
)

type themeSelectionError struct {
	name      string
	available []string
}

func (e themeSelectionError) Error() string {
	return fmt.Sprintf("unknown theme %q (available: %s)", e.name, strings.Join(e.available, ", "))
}

// applyThemeFromConfig installs the configured theme for the TUI and the
// headless table output.
func applyThemeFromConfig(cfg config.File) error {
	name := cfg.UI.Theme.Default
	if _, ok := cfg.UI.Themes[name]; !ok {
		return themeSelectionError{name: name, available: cfg.ThemeNames()}
	}
	ui.SetTheme(ui.ThemeFromConfig(cfg.ActiveTheme()))
	return nil
}

func cliVersionString() string {
	cfg, _ := config.Load(resolveConfigPath(""))

	name := cfg.App.About.Name
	if name == "" {
		name = settings.CliBinaryName
	}
	version := cfg.App.About.Version
	if version == "" {
		version = "dev"
	}
	goVersion := cfg.App.About.GoVersion
	if goVersion == "" {
		goVersion = runtime.Version()
	}
	return fmt.Sprintf("%s %s (go %s)", name, version, goVersion)
}

func getCLIShortHelp() string {
	cfg, _ := config.Load(resolveConfigPath(""))
	if d := strings.TrimSpace(cfg.App.About.Description); d != "" {
		return d
	}
	return "Autocomplete search input for the terminal"
}

func getCLILongHelp() string {
	cfg, _ := config.Load(resolveConfigPath(""))

	var long strings.Builder
	fmt.Fprintf(&long, "%s: %s.\n\n", cfg.App.About.Name, getCLIShortHelp())
	for _, detail := range cfg.App.About.Details {
		long.WriteString(detail)
		long.WriteString("\n")
	}
	long.WriteString("\nType at least the minimum query length to see suggestions. ")
	long.WriteString("Use the arrow keys to highlight one, Enter or Tab to take it, ")
	long.WriteString("ctrl+s to search for the typed text and ctrl+r to start over. ")
	long.WriteString("The committed query is printed to stdout on exit.\n")
	return long.String()
}

func detectTerminalSize() (int, int) {
	fds := []uintptr{os.Stdout.Fd(), os.Stderr.Fd(), os.Stdin.Fd()}
	for _, fd := range fds {
		if w, h, err := termGetSize(int(fd)); err == nil && (w > 0 || h > 0) { //nolint:gosec // fd fits in int
			return w, h
		}
	}
	if col := os.Getenv("COLUMNS"); col != "" {
		if w, err := strconv.Atoi(col); err == nil && w > 0 {
			return w, 0
		}
	}
	return defaultFallbackTermWidth, 0
}

type snapshotSize struct {
	Width  int
	Height int
}

// resolveSnapshotSize prefers flags, then the detected size, then 80x24.
func resolveSnapshotSize(flagWidth, flagHeight, detectedWidth, detectedHeight int) snapshotSize {
	width, height := flagWidth, flagHeight
	if width <= 0 || height <= 0 {
		if detectedWidth <= 0 && detectedHeight <= 0 {
			detectedWidth, detectedHeight = detectTerminalSize()
		}
		if width <= 0 {
			width = detectedWidth
		}
		if height <= 0 {
			height = detectedHeight
		}
	}
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	return snapshotSize{Width: width, Height: height}
}

// getProgramOptions reopens the terminal when stdin is piped so the TUI
// still receives key presses.
func getProgramOptions() ([]tea.ProgramOption, func()) {
	cleanup := func() {}
	if !stdinIsPiped() {
		return nil, cleanup
	}

	ttyIn, ttyOut, err := openTerminalIOFn()
	if err != nil {
		// No terminal device (e.g. CI); keys will not reach the TUI.
		return nil, cleanup
	}
	ctx, cancel := context.WithCancel(context.Background())
	cleanup = func() {
		cancel()
		_ = ttyIn.Close()
		if ttyOut != nil && ttyOut != ttyIn {
			_ = ttyOut.Close()
		}
	}

	opts := []tea.ProgramOption{tea.WithInput(ttyIn)}
	if ttyOut != nil {
		opts = append(opts, tea.WithOutput(ttyOut), withTTYResizeWatcher(ctx, ttyOut))
	}
	return opts, cleanup
}

func openTerminalIO() (*os.File, *os.File, error) {
	in, out := terminalDeviceNames(runtime.GOOS)

	input, err := os.OpenFile(in, os.O_RDWR, 0)
	if err != nil {
		return nil, nil, err
	}
	if out == "" || out == in {
		return input, input, nil
	}
	output, err := os.OpenFile(out, os.O_RDWR, 0)
	if err != nil {
		return input, nil, err
	}
	return input, output, nil
}

func terminalDeviceNames(goos string) (input string, output string) {
	if goos == "windows" {
		return "CONIN$", "CONOUT$"
	}
	return "/dev/tty", "/dev/tty"
}

// withTTYResizeWatcher polls the reopened terminal's size, since resize
// signals are unreliable when stdin is piped. It stops with ctx.
func withTTYResizeWatcher(ctx context.Context, out *os.File) tea.ProgramOption {
	return func(p *tea.Program) {
		go func() {
			t := time.NewTicker(250 * time.Millisecond)
			defer t.Stop()

			lastW, lastH := 0, 0
			for {
				select {
				case <-ctx.Done():
					return
				case <-t.C:
					w, h, err := termGetSize(int(out.Fd())) //nolint:gosec // fd fits in int
					if err != nil || (w == lastW && h == lastH) {
						continue
					}
					lastW, lastH = w, h
					p.Send(tea.WindowSizeMsg{Width: w, Height: h})
				}
			}
		}()
	}
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/typeahead/internal/ui"
	"github.com/oakwood-commons/typeahead/pkg/logger"
	"github.com/oakwood-commons/typeahead/pkg/settings"
)

var (
	rootCtx = context.Background()

	// Shared by every command.
	configFile string
	corpusFile string
	minLength  int
	maxDelay   time.Duration
	errorRate  float64
	limit      int
	offset     int
	matchMode  string
	themeName  string
	noColor    bool
	logFile    string
	logLevel   string

	// Interactive only.
	debounce       time.Duration
	startKeys      []string
	renderSnapshot bool
	snapshotWidth  int
	snapshotHeight int
	debug          bool
)

var rootCmd = &cobra.Command{
	Use:   settings.CliBinaryName,
	Short: getCLIShortHelp(),
	Long:  getCLILongHelp(),
	Example: "\n  typeahead\n  typeahead --corpus words.txt --match fuzzy\n" +
		"  typeahead --render --start-keys 'cat<Down><Down>' --no-color\n" +
		"  typeahead suggest cat --keys Down,Enter -o json\n  typeahead diagram --format tree\n",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		level, err := parseLogLevel(logLevel)
		if err != nil {
			return err
		}
		run := settings.NewCliParams()
		run.MinLogLevel = level
		run.NoColor = noColor
		run.Headless = cmd != cmd.Root() || renderSnapshot
		run.LogFile = logFile
		if !run.Headless && run.LogFile == "" {
			// The TUI owns the terminal; logs go to a file.
			run.LogFile = logger.DefaultLogPath()
		}

		lgr, err := logger.Init(logger.Options{Level: level, Path: run.LogFile})
		if err != nil {
			fmt.Fprintf(os.Stderr, "WARNING: %v; logging to stderr\n", err)
		}
		lgr = logger.WithValues(lgr, logger.CommandKey, cmd.CommandPath())
		rootCtx = settings.IntoContext(logger.WithLogger(context.Background(), lgr), run)
		return nil
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := applyThemeFromConfig(cfg); err != nil {
			return err
		}
		src, err := buildSource(rootCtx, cfg)
		if err != nil {
			return err
		}

		modelCfg := ui.ModelConfig{
			AppName:   cfg.App.About.Name,
			MinLength: cfg.MinLength(),
			Debounce:  cfg.Debounce().Std(),
			NoColor:   cfg.NoColor(),
			Width:     snapshotWidth,
			Height:    snapshotHeight,
			Debug:     debug,
		}

		if renderSnapshot {
			sizing := resolveSnapshotSize(snapshotWidth, snapshotHeight, 0, 0)
			out := ui.RenderModelSnapshot(rootCtx, src, ui.ModelSnapshotConfig{
				Width:     sizing.Width,
				Height:    sizing.Height,
				NoColor:   modelCfg.NoColor,
				Debug:     debug,
				MinLength: modelCfg.MinLength,
				StartKeys: startKeys,
				AppName:   modelCfg.AppName,
			})
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		}

		run := settings.FromContextOrDefault(rootCtx)
		logger.FromContext(rootCtx).V(1).Info("starting tui",
			"logFile", run.LogFile, "minLength", modelCfg.MinLength, "debounce", modelCfg.Debounce.String())

		opts, cleanup := getProgramOptions()
		defer cleanup()
		snap, err := ui.RunModel(rootCtx, src, modelCfg, startKeys, opts...)
		if err != nil {
			return fmt.Errorf("run tui: %w", err)
		}
		ui.PrintCommitted(snap)
		return nil
	},
}

func init() { //nolint:gochecknoinits
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "path to a YAML config file (default $XDG_CONFIG_HOME/typeahead/config.yaml)")
	pf.StringVar(&corpusFile, "corpus", "", "suggestion corpus: json, yaml, toml or newline-separated text (default built-in)")
	pf.IntVar(&minLength, "min-length", 0, "characters required before suggestions are fetched (default from config)")
	pf.DurationVar(&maxDelay, "max-delay", 0, "upper bound of the simulated source latency, e.g. 3s (default from config)")
	pf.Float64Var(&errorRate, "error-rate", 0, "probability of a simulated source failure, 0..1 (default from config)")
	pf.IntVar(&limit, "limit", 0, "maximum number of suggestions (default from config)")
	pf.IntVar(&offset, "offset", 0, "skip the first N matches")
	pf.StringVar(&matchMode, "match", "", "match mode: substring|fuzzy (default from config)")
	pf.StringVar(&themeName, "theme", "", "theme name (default from config; see 'typeahead config themes')")
	pf.BoolVar(&noColor, "no-color", false, "disable color output")
	pf.StringVar(&logFile, "log-file", "", "write JSON logs to this file (interactive default: user cache dir)")
	pf.StringVar(&logLevel, "log-level", "info", "log level: error|warn|info|debug|trace or a number (negative is more verbose)")

	rootCmd.Flags().DurationVar(&debounce, "debounce", 0, "quiet period before a keystroke becomes a query, e.g. 200ms (default from config)")
	rootCmd.Flags().StringArrayVar(&startKeys, "start-keys", nil, "Simulate keys on startup. Use <Key> for special keys (e.g. <Down>, <CR>, <Tab>, <C-s>, <A-2>). Literal text types normally. Example: --start-keys 'cat<Down><CR>'")
	rootCmd.Flags().BoolVar(&renderSnapshot, "render", false, "render a single TUI frame and exit; honors --width/--height and --start-keys")
	rootCmd.Flags().IntVar(&snapshotWidth, "width", 0, "output width in columns")
	rootCmd.Flags().IntVar(&snapshotHeight, "height", 0, "output height in rows")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "show controller internals under the footer")

	rootCmd.Version = cliVersionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(diagramCmd)
	configCmd.AddCommand(configThemesCmd)
	rootCmd.AddCommand(configCmd)
}

func Execute() error {
	return rootCmd.Execute()
}

// parseLogLevel maps a level name or number to a zap level. logr V(n)
// corresponds to -n.
func parseLogLevel(s string) (int8, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return 0, nil
	case "error":
		return 2, nil
	case "warn", "warning":
		return 1, nil
	case "debug":
		return -1, nil
	case "trace":
		return -2, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < -127 || n > 5 {
		return 0, fmt.Errorf("invalid --log-level %q", s)
	}
	return int8(n), nil //nolint:gosec // bounds checked above
}

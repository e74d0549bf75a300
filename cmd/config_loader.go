package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oakwood-commons/typeahead/internal/config"
	"github.com/oakwood-commons/typeahead/internal/source"
	"github.com/oakwood-commons/typeahead/pkg/loader"
	"github.com/oakwood-commons/typeahead/pkg/logger"
	"github.com/oakwood-commons/typeahead/pkg/settings"
)

// resolveConfigPath returns the explicit path if set, otherwise the XDG path
// ($XDG_CONFIG_HOME/typeahead/config.yaml) or ~/.config/typeahead/config.yaml
// if present.
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	xdg := os.Getenv("XDG_CONFIG_HOME")
	candidate := ""
	if xdg != "" {
		candidate = filepath.Join(xdg, settings.CliBinaryName, "config.yaml")
	} else if home, err := os.UserHomeDir(); err == nil {
		candidate = filepath.Join(home, ".config", settings.CliBinaryName, "config.yaml")
	}
	if candidate != "" {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}

// loadConfig merges the default config, the user's file and the flags set
// on cmd, then validates the result.
func loadConfig(cmd *cobra.Command) (config.File, error) {
	cfg, err := config.Load(resolveConfigPath(configFile))
	if err != nil {
		return cfg, err
	}
	cfg = applyFlagOverrides(cmd.Flags(), cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyFlagOverrides copies explicitly set flags over cfg. Flags left at
// their zero default never override the config file.
func applyFlagOverrides(fs *pflag.FlagSet, cfg config.File) config.File {
	changed := func(name string) bool {
		f := fs.Lookup(name)
		return f != nil && f.Changed
	}
	if changed("min-length") {
		n := minLength
		cfg.Autocomplete.MinLength = &n
	}
	if changed("debounce") {
		d := config.Duration(debounce)
		cfg.Autocomplete.Debounce = &d
	}
	if changed("max-delay") {
		d := config.Duration(maxDelay)
		cfg.Source.MaxDelay = &d
	}
	if changed("error-rate") {
		r := errorRate
		cfg.Source.ErrorRate = &r
	}
	if changed("limit") {
		n := limit
		cfg.Source.Limit = &n
	}
	if changed("offset") {
		n := offset
		cfg.Source.Offset = &n
	}
	if changed("match") {
		cfg.Source.Match = matchMode
	}
	if changed("corpus") {
		cfg.Source.Corpus = corpusFile
	}
	if changed("theme") {
		cfg.UI.Theme.Default = themeName
	}
	if changed("no-color") || os.Getenv("NO_COLOR") != "" {
		nc := noColor || os.Getenv("NO_COLOR") != ""
		cfg.UI.NoColor = &nc
	}
	return cfg
}

// buildSource assembles the suggestion source: a catalog over the corpus,
// wrapped in the simulated network when latency or failures are configured.
func buildSource(ctx context.Context, cfg config.File) (source.Source, error) {
	lgr := logger.FromContext(ctx).WithName("source")

	items := loader.DefaultCorpus()
	if cfg.Source.Corpus != "" {
		var err error
		if items, err = loader.LoadFile(cfg.Source.Corpus); err != nil {
			return nil, err
		}
	}
	mode, err := source.ParseMatchMode(cfg.Source.Match)
	if err != nil {
		return nil, err
	}
	cat, err := source.NewCatalog(items,
		source.WithMatchMode(mode),
		source.WithWindow(cfg.Window()),
		source.WithLogger(lgr.WithName("catalog")),
	)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}
	lgr.V(1).Info("catalog ready", "entries", cat.Len(), "match", cat.Mode())

	if cfg.MaxDelay() <= 0 && cfg.ErrorRate() <= 0 {
		return cat, nil
	}
	return source.NewFlaky(cat,
		source.WithMaxDelay(cfg.MaxDelay().Std()),
		source.WithErrorRate(cfg.ErrorRate()),
		source.WithFlakyLogger(lgr.WithName("flaky")),
	), nil
}

package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"runtime"
	"slices"
	"sort"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/typeahead/internal/limiter"
	"github.com/oakwood-commons/typeahead/pkg/settings"
)

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

// DefaultConfigYAML returns a copy of the embedded default config YAML bytes.
func DefaultConfigYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}

// Loader centralizes config loading so callers avoid duplicating merge logic.
type Loader struct {
	defaultConfig func() ([]byte, error)
}

// NewLoader returns a Loader whose defaults come from defaults. A nil
// function uses the embedded default config.
func NewLoader(defaults func() ([]byte, error)) Loader {
	return Loader{defaultConfig: defaults}
}

var defaultLoader = Loader{}

// Load merges the user file at path (optional) over the embedded defaults.
func Load(path string) (File, error) {
	return defaultLoader.Load(path)
}

func (l Loader) defaults() ([]byte, error) {
	if l.defaultConfig != nil {
		return l.defaultConfig()
	}
	if len(embeddedDefaultConfig) == 0 {
		return nil, errors.New("embedded default config is empty")
	}
	return DefaultConfigYAML(), nil
}

// Load merges the user file at path (optional) over the defaults, fills
// build metadata and validates the result.
func (l Loader) Load(path string) (File, error) {
	var cfg File

	data, err := l.defaults()
	if err != nil {
		return cfg, fmt.Errorf("load default config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode default config: %w", err)
	}
	if cfg.UI.Theme.Default == "" || len(cfg.UI.Themes) == 0 {
		return cfg, errors.New("default config is missing required theme defaults")
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		var user File
		if err := yaml.Unmarshal(raw, &user); err != nil {
			return cfg, fmt.Errorf("decode config %s: %w", path, err)
		}
		cfg = Merge(cfg, user)
	}

	applyBuildData(&cfg, settings.VersionInformation)
	cfg = processTemplates(cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Merge applies every field set in override on top of base.
func Merge(base, override File) File {
	out := base

	if override.App.About.Name != "" {
		out.App.About.Name = override.App.About.Name
	}
	if override.App.About.Description != "" {
		out.App.About.Description = override.App.About.Description
	}
	if len(override.App.About.Details) > 0 {
		out.App.About.Details = slices.Clone(override.App.About.Details)
	}

	if override.Autocomplete.MinLength != nil {
		out.Autocomplete.MinLength = override.Autocomplete.MinLength
	}
	if override.Autocomplete.Debounce != nil {
		out.Autocomplete.Debounce = override.Autocomplete.Debounce
	}

	if override.Source.MaxDelay != nil {
		out.Source.MaxDelay = override.Source.MaxDelay
	}
	if override.Source.ErrorRate != nil {
		out.Source.ErrorRate = override.Source.ErrorRate
	}
	if override.Source.Limit != nil {
		out.Source.Limit = override.Source.Limit
	}
	if override.Source.Offset != nil {
		out.Source.Offset = override.Source.Offset
	}
	if override.Source.Match != "" {
		out.Source.Match = override.Source.Match
	}
	if override.Source.Corpus != "" {
		out.Source.Corpus = override.Source.Corpus
	}

	if override.UI.Theme.Default != "" {
		out.UI.Theme.Default = override.UI.Theme.Default
	}
	if override.UI.NoColor != nil {
		out.UI.NoColor = override.UI.NoColor
	}
	if len(override.UI.Themes) > 0 {
		themes := make(map[string]ThemeConfig, len(base.UI.Themes)+len(override.UI.Themes))
		for name, th := range base.UI.Themes {
			themes[name] = th
		}
		for name, th := range override.UI.Themes {
			themes[name] = MergeTheme(themes[name], th)
		}
		out.UI.Themes = themes
	}
	return out
}

// MergeTheme overlays the non-empty colors of override on base.
func MergeTheme(base, override ThemeConfig) ThemeConfig {
	out := base
	apply := func(src ColorValue, dst *ColorValue) {
		if src != "" {
			*dst = src
		}
	}
	if strings.TrimSpace(override.BorderStyle) != "" {
		out.BorderStyle = override.BorderStyle
	}
	apply(override.PromptFG, &out.PromptFG)
	apply(override.InputFG, &out.InputFG)
	apply(override.InputBG, &out.InputBG)
	apply(override.BorderFG, &out.BorderFG)
	apply(override.SuggestionFG, &out.SuggestionFG)
	apply(override.MatchFG, &out.MatchFG)
	apply(override.SelectedFG, &out.SelectedFG)
	apply(override.SelectedBG, &out.SelectedBG)
	apply(override.SpinnerFG, &out.SpinnerFG)
	apply(override.StatusError, &out.StatusError)
	apply(override.StatusSuccess, &out.StatusSuccess)
	apply(override.FooterFG, &out.FooterFG)
	return out
}

func applyBuildData(cfg *File, info settings.VersionInfo) {
	cfg.App.About.Version = info.BuildVersion
	cfg.App.About.GoVersion = runtime.Version()
	cfg.App.About.GitCommit = info.Commit
}

// processTemplates expands Go templates in the about text.
func processTemplates(cfg File) File {
	data := map[string]interface{}{
		"Name":      cfg.App.About.Name,
		"Version":   cfg.App.About.Version,
		"GoVersion": cfg.App.About.GoVersion,
		"GitCommit": cfg.App.About.GitCommit,
	}
	cfg.App.About.Description = processTemplateString(cfg.App.About.Description, data)
	if len(cfg.App.About.Details) > 0 {
		details := make([]string, 0, len(cfg.App.About.Details))
		for _, d := range cfg.App.About.Details {
			details = append(details, processTemplateString(d, data))
		}
		cfg.App.About.Details = details
	}
	return cfg
}

// processTemplateString processes a template string, returning the original string if templating fails.
func processTemplateString(text string, data map[string]interface{}) string {
	if !strings.Contains(text, "{{") {
		return text
	}
	tmpl, err := template.New("config").Parse(text)
	if err != nil {
		return text
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return text
	}
	return buf.String()
}

// Validate rejects settings the controller or source cannot run with.
func (f File) Validate() error {
	if n := f.MinLength(); n < 1 {
		return fmt.Errorf("autocomplete.min_length must be at least 1, got %d", n)
	}
	if d := f.Debounce(); d < 0 {
		return fmt.Errorf("autocomplete.debounce must be non-negative, got %s", d.Std())
	}
	if d := f.MaxDelay(); d < 0 {
		return fmt.Errorf("source.max_delay must be non-negative, got %s", d.Std())
	}
	if r := f.ErrorRate(); r < 0 || r > 1 {
		return fmt.Errorf("source.error_rate must be within [0, 1], got %g", r)
	}
	switch strings.ToLower(f.Source.Match) {
	case "", "substring", "fuzzy":
	default:
		return fmt.Errorf("source.match must be substring or fuzzy, got %q", f.Source.Match)
	}
	if err := f.Window().Validate(); err != nil {
		return fmt.Errorf("source window: %w", err)
	}
	if _, ok := f.UI.Themes[f.UI.Theme.Default]; !ok {
		return fmt.Errorf("unknown theme %q (available: %s)", f.UI.Theme.Default, strings.Join(f.ThemeNames(), ", "))
	}
	return nil
}

// ThemeNames returns the configured theme names, sorted.
func (f File) ThemeNames() []string {
	names := make([]string, 0, len(f.UI.Themes))
	for name := range f.UI.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ActiveTheme returns the selected theme's colors.
func (f File) ActiveTheme() ThemeConfig {
	return f.UI.Themes[f.UI.Theme.Default]
}

// Sanitize strips values filled at runtime so the result can be written
// back as a config file.
func (f File) Sanitize() File {
	out := f
	out.App.About.Version = ""
	out.App.About.GoVersion = ""
	out.App.About.GitCommit = ""
	out.App.About.Details = nil
	return out
}

// Marshal renders f as commented YAML.
func Marshal(f File) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return []byte(addConfigComments(buf.String())), nil
}

func addConfigComments(yml string) string {
	inline := func(find, repl string) {
		yml = strings.Replace(yml, find, repl, 1)
	}
	inline("  min_length: ", "  # queries shorter than this never fetch\n  min_length: ")
	inline("  debounce: ", "  # quiet period before a keystroke becomes a query\n  debounce: ")
	inline("  error_rate: ", "  # probability of a simulated failure, 0..1\n  error_rate: ")
	inline("  match: ", "  # substring|fuzzy\n  match: ")
	inline("  corpus: ", "  # json, yaml, toml or text file; empty uses the built-in corpus\n  corpus: ")
	return yml
}

// Accessors return the merged value, or the built-in default when unset.

func (f File) MinLength() int {
	if f.Autocomplete.MinLength == nil {
		return 3
	}
	return *f.Autocomplete.MinLength
}

func (f File) Debounce() Duration {
	if f.Autocomplete.Debounce == nil {
		return 0
	}
	return *f.Autocomplete.Debounce
}

func (f File) MaxDelay() Duration {
	if f.Source.MaxDelay == nil {
		return 0
	}
	return *f.Source.MaxDelay
}

func (f File) ErrorRate() float64 {
	if f.Source.ErrorRate == nil {
		return 0
	}
	return *f.Source.ErrorRate
}

func (f File) NoColor() bool {
	return f.UI.NoColor != nil && *f.UI.NoColor
}

// Window returns the result limit/offset as a limiter config.
func (f File) Window() limiter.Config {
	var w limiter.Config
	if f.Source.Limit != nil {
		w.Limit = *f.Source.Limit
	}
	if f.Source.Offset != nil {
		w.Offset = *f.Source.Offset
	}
	return w
}

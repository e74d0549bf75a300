// Package config loads typeahead's YAML configuration. The embedded
// default_config.yaml is the single source of defaults; a user file is
// merged on top and CLI flags override both.
package config

import (
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// File is the on-disk configuration layout.
type File struct {
	App          AppConfig          `yaml:"app,omitempty" json:"app,omitempty"`
	Autocomplete AutocompleteConfig `yaml:"autocomplete,omitempty" json:"autocomplete,omitempty"`
	Source       SourceConfig       `yaml:"source,omitempty" json:"source,omitempty"`
	UI           UIConfig           `yaml:"ui,omitempty" json:"ui,omitempty"`
}

// AppConfig groups application metadata.
type AppConfig struct {
	About AboutConfig `yaml:"about,omitempty" json:"about,omitempty"`
}

// AboutConfig describes the application. Version, GoVersion and GitCommit
// are filled from build info and never read from files.
type AboutConfig struct {
	Name        string   `yaml:"name,omitempty" json:"name,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Details     []string `yaml:"details,omitempty" json:"details,omitempty"`
	Version     string   `yaml:"version,omitempty" json:"version,omitempty"`
	GoVersion   string   `yaml:"go_version,omitempty" json:"go_version,omitempty"`
	GitCommit   string   `yaml:"git_commit,omitempty" json:"git_commit,omitempty"`
}

// AutocompleteConfig tunes the controller and its input adapter.
type AutocompleteConfig struct {
	MinLength *int      `yaml:"min_length,omitempty" json:"min_length,omitempty"`
	Debounce  *Duration `yaml:"debounce,omitempty" json:"debounce,omitempty"`
}

// SourceConfig tunes the suggestion source.
type SourceConfig struct {
	MaxDelay  *Duration `yaml:"max_delay,omitempty" json:"max_delay,omitempty"`
	ErrorRate *float64  `yaml:"error_rate,omitempty" json:"error_rate,omitempty"`
	Limit     *int      `yaml:"limit,omitempty" json:"limit,omitempty"`
	Offset    *int      `yaml:"offset,omitempty" json:"offset,omitempty"`
	Match     string    `yaml:"match,omitempty" json:"match,omitempty"`
	Corpus    string    `yaml:"corpus,omitempty" json:"corpus,omitempty"`
}

// UIConfig selects the theme and colour handling.
type UIConfig struct {
	Theme   ThemeSelectionConfig   `yaml:"theme,omitempty" json:"theme,omitempty"`
	NoColor *bool                  `yaml:"no_color,omitempty" json:"no_color,omitempty"`
	Themes  map[string]ThemeConfig `yaml:"themes,omitempty" json:"themes,omitempty"`
}

// ThemeSelectionConfig names the active theme.
type ThemeSelectionConfig struct {
	Default string `yaml:"default,omitempty" json:"default,omitempty"`
}

// ThemeConfig is a YAML-friendly theme (colors accept ints or strings).
type ThemeConfig struct {
	PromptFG      ColorValue `yaml:"prompt_fg,omitempty" json:"prompt_fg,omitempty"`
	InputFG       ColorValue `yaml:"input_fg,omitempty" json:"input_fg,omitempty"`
	InputBG       ColorValue `yaml:"input_bg,omitempty" json:"input_bg,omitempty"`
	BorderStyle   string     `yaml:"border_style,omitempty" json:"border_style,omitempty"`
	BorderFG      ColorValue `yaml:"border_fg,omitempty" json:"border_fg,omitempty"`
	SuggestionFG  ColorValue `yaml:"suggestion_fg,omitempty" json:"suggestion_fg,omitempty"`
	MatchFG       ColorValue `yaml:"match_fg,omitempty" json:"match_fg,omitempty"`
	SelectedFG    ColorValue `yaml:"selected_fg,omitempty" json:"selected_fg,omitempty"`
	SelectedBG    ColorValue `yaml:"selected_bg,omitempty" json:"selected_bg,omitempty"`
	SpinnerFG     ColorValue `yaml:"spinner_fg,omitempty" json:"spinner_fg,omitempty"`
	StatusError   ColorValue `yaml:"status_error,omitempty" json:"status_error,omitempty"`
	StatusSuccess ColorValue `yaml:"status_success,omitempty" json:"status_success,omitempty"`
	FooterFG      ColorValue `yaml:"footer_fg,omitempty" json:"footer_fg,omitempty"`
}

// ColorValue stores a color token (number or name) and marshals numerics as YAML ints.
type ColorValue string

func (c ColorValue) MarshalYAML() (interface{}, error) {
	if c == "" {
		return "", nil
	}
	s := string(c)
	if _, err := strconv.Atoi(s); err == nil {
		return &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!int",
			Value: s,
		}, nil
	}
	return s, nil
}

func (c *ColorValue) UnmarshalYAML(value *yaml.Node) error {
	if value == nil {
		*c = ""
		return nil
	}
	// Accept both ints and strings; store the literal value.
	*c = ColorValue(value.Value)
	return nil
}

// Duration is a time.Duration written as "200ms" / "3s" in YAML.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value == nil || value.Value == "" {
		*d = 0
		return nil
	}
	// Bare integers are milliseconds.
	if ms, err := strconv.ParseInt(value.Value, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q: %w", value.Line, value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText lets JSON and TOML encoders print the human form too.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Package loader reads suggestion corpora from JSON, YAML, TOML or plain
// text and provides the embedded default corpus.
package loader

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrEmptyCorpus is returned when an input yields no usable entries.
var ErrEmptyCorpus = errors.New("corpus contains no entries")

// Format names a corpus encoding.
type Format string

const (
	FormatAuto Format = ""
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatText Format = "text"
)

//go:embed default_corpus.txt
var defaultCorpus string

// DefaultCorpus returns the corpus bundled with the binary.
func DefaultCorpus() []string {
	items, err := Load([]byte(defaultCorpus), FormatText)
	if err != nil {
		panic(fmt.Sprintf("embedded corpus is invalid: %v", err))
	}
	return items
}

// LoadFile reads a corpus from path. The format is taken from the file
// extension, falling back to content detection.
func LoadFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	items, err := Load(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}

// FormatFromPath maps a file extension to a Format.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".txt", ".text", ".lst":
		return FormatText
	}
	return FormatAuto
}

// Load parses data in the given format. Entries are trimmed, blanks dropped
// and duplicates removed, keeping the first occurrence.
//
// Structured formats accept either a bare list of strings or a document
// with a "suggestions" list:
//
//	["cat", "dog"]
//	suggestions = ["cat", "dog"]
func Load(data []byte, format Format) ([]string, error) {
	input := strings.TrimSpace(string(data))
	if input == "" {
		return nil, ErrEmptyCorpus
	}
	if format == FormatAuto {
		format = Detect(input)
	}

	var (
		items []string
		err   error
	)
	switch format {
	case FormatJSON:
		items, err = loadJSON(input)
	case FormatYAML:
		items, err = loadYAML(input)
	case FormatTOML:
		items, err = loadTOML(input)
	case FormatText:
		items = loadText(input)
	default:
		return nil, fmt.Errorf("unsupported corpus format %q", format)
	}
	if err != nil {
		return nil, err
	}

	items = normalize(items)
	if len(items) == 0 {
		return nil, ErrEmptyCorpus
	}
	return items, nil
}

// Detect guesses the format of input.
func Detect(input string) Format {
	input = strings.TrimSpace(input)
	flow := strings.HasPrefix(input, "[") || strings.HasPrefix(input, "{")
	switch {
	case flow && json.Valid([]byte(input)):
		return FormatJSON
	case isLikelyTOML(input):
		return FormatTOML
	case flow, isLikelyYAML(input):
		// Flow sequences with bare words ([cat, dog]) are YAML, not JSON.
		return FormatYAML
	}
	return FormatText
}

type document struct {
	Suggestions []string `json:"suggestions" yaml:"suggestions" toml:"suggestions"`
}

func loadJSON(input string) ([]string, error) {
	if strings.HasPrefix(input, "[") {
		var items []string
		if err := json.Unmarshal([]byte(input), &items); err != nil {
			return nil, fmt.Errorf("invalid JSON corpus: %w", err)
		}
		return items, nil
	}
	var doc document
	if err := json.Unmarshal([]byte(input), &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON corpus: %w", err)
	}
	return doc.Suggestions, nil
}

func loadYAML(input string) ([]string, error) {
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(input), &node); err != nil {
		return nil, fmt.Errorf("invalid YAML corpus: %w", err)
	}
	if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
		var items []string
		if err := node.Decode(&items); err != nil {
			return nil, fmt.Errorf("invalid YAML corpus: %w", err)
		}
		return items, nil
	}
	var doc document
	if err := node.Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid YAML corpus: %w", err)
	}
	return doc.Suggestions, nil
}

func loadTOML(input string) ([]string, error) {
	var doc document
	if err := toml.Unmarshal([]byte(input), &doc); err != nil {
		return nil, fmt.Errorf("invalid TOML corpus: %w", err)
	}
	return doc.Suggestions, nil
}

// loadText reads one entry per line; lines starting with '#' are comments.
func loadText(input string) []string {
	var items []string
	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		items = append(items, line)
	}
	return items
}

func normalize(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" || seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}

var (
	// TOML section headers: [section] or [[array]], bare, quoted or dotted keys.
	tomlSectionPattern = regexp.MustCompile(`^\s*\[{1,2}(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\]{1,2}\s*$`)
	// TOML key = value (YAML uses key: value).
	tomlKeyValuePattern = regexp.MustCompile(`^\s*(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\s*=\s*.+$`)
)

// isLikelyTOML reports whether input has TOML section headers or mostly
// key = value lines. Multi-line arrays count as a single key line.
func isLikelyTOML(input string) bool {
	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if tomlSectionPattern.MatchString(line) || tomlKeyValuePattern.MatchString(line) {
			return true
		}
		// The first significant line decides.
		return false
	}
	return false
}

// isLikelyYAML reports whether input is a block sequence or a mapping with
// a suggestions key.
func isLikelyYAML(input string) bool {
	if strings.HasPrefix(input, "---") || strings.HasPrefix(input, "suggestions:") {
		return true
	}
	lines := strings.Split(input, "\n")
	listCount, nonEmpty := 0, 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		nonEmpty++
		if strings.HasPrefix(trimmed, "- ") {
			listCount++
		}
	}
	return nonEmpty > 0 && listCount == nonEmpty
}

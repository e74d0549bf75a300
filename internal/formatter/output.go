package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Output names an output encoding for headless commands.
type Output string

const (
	OutputTable Output = "table"
	OutputYAML  Output = "yaml"
	OutputJSON  Output = "json"
	OutputTOML  Output = "toml"
)

// ValidOutputs contains all valid output values.
var ValidOutputs = []Output{OutputTable, OutputYAML, OutputJSON, OutputTOML}

// ParseOutput validates an --output value. Empty selects the table.
func ParseOutput(s string) (Output, error) {
	if s == "" {
		return OutputTable, nil
	}
	for _, o := range ValidOutputs {
		if strings.EqualFold(s, string(o)) {
			return o, nil
		}
	}
	names := make([]string, len(ValidOutputs))
	for i, o := range ValidOutputs {
		names[i] = string(o)
	}
	return "", fmt.Errorf("invalid output %q: valid values are %s", s, strings.Join(names, ", "))
}

// Encode renders v in a structured encoding. The table output is not a
// structured encoding; callers build rows and use RenderTable instead.
func Encode(v any, out Output) (string, error) {
	switch out {
	case OutputYAML:
		return FormatYAML(v, YAMLFormatOptions{LiteralBlockStrings: true})
	case OutputJSON:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode json: %w", err)
		}
		return string(b) + "\n", nil
	case OutputTOML:
		var buf bytes.Buffer
		enc := toml.NewEncoder(&buf)
		enc.SetIndentTables(true)
		if err := enc.Encode(v); err != nil {
			return "", fmt.Errorf("encode toml: %w", err)
		}
		return buf.String(), nil
	case OutputTable:
		return "", fmt.Errorf("output %q is not a structured encoding", out)
	}
	return "", fmt.Errorf("unknown output %q", out)
}

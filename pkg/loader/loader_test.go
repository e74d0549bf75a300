package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Format
	}{
		{"json array", `["cat", "dog"]`, FormatJSON},
		{"json single element", `["cat"]`, FormatJSON},
		{"json object", `{"suggestions": ["cat"]}`, FormatJSON},
		{"toml key", `suggestions = ["cat", "dog"]`, FormatTOML},
		{"toml section", "[corpus]\nsuggestions = [\"cat\"]", FormatTOML},
		{"yaml list", "- cat\n- dog", FormatYAML},
		{"yaml mapping", "suggestions:\n  - cat", FormatYAML},
		{"yaml flow", "[cat, dog]", FormatYAML},
		{"text lines", "cat\ndog\nbird", FormatText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.input))
		})
	}
}

func TestLoad(t *testing.T) {
	want := []string{"cat", "dog"}
	tests := []struct {
		name   string
		input  string
		format Format
	}{
		{"json array", `["cat", "dog"]`, FormatJSON},
		{"json document", `{"suggestions": ["cat", "dog"]}`, FormatJSON},
		{"yaml list", "- cat\n- dog\n", FormatYAML},
		{"yaml document", "suggestions:\n  - cat\n  - dog\n", FormatYAML},
		{"toml", "suggestions = [\"cat\", \"dog\"]\n", FormatTOML},
		{"toml multi-line", "suggestions = [\n  \"cat\",\n  \"dog\",\n]\n", FormatAuto},
		{"text with comments", "# animals\ncat\n\n  dog  \n", FormatText},
		{"auto detected json", `["cat","dog"]`, FormatAuto},
		{"auto detected yaml", "- cat\n- dog", FormatAuto},
		{"duplicates and blanks removed", "cat\ncat\n \ndog", FormatText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load([]byte(tt.input), tt.format)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format Format
		empty  bool
		errMsg string
	}{
		{name: "blank input", input: "  \n", empty: true},
		{name: "only comments", input: "# nothing\n", format: FormatText, empty: true},
		{name: "empty json list", input: "[]", format: FormatJSON, empty: true},
		{name: "document without suggestions", input: `{"other": 1}`, format: FormatJSON, empty: true},
		{name: "bad json", input: `["cat",`, format: FormatJSON, errMsg: "invalid JSON corpus"},
		{name: "bad toml", input: "suggestions = [", format: FormatTOML, errMsg: "invalid TOML corpus"},
		{name: "bad yaml", input: "- cat\n- [dog", format: FormatYAML, errMsg: "invalid YAML corpus"},
		{name: "unknown format", input: "cat", format: "xml", errMsg: "unsupported corpus format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.input), tt.format)
			require.Error(t, err)
			if tt.empty {
				assert.ErrorIs(t, err, ErrEmptyCorpus)
				return
			}
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFromPath("corpus.JSON"))
	assert.Equal(t, FormatYAML, FormatFromPath("a/b.yml"))
	assert.Equal(t, FormatTOML, FormatFromPath("c.toml"))
	assert.Equal(t, FormatText, FormatFromPath("words.txt"))
	assert.Equal(t, FormatAuto, FormatFromPath("words"))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.toml")
	require.NoError(t, os.WriteFile(path, []byte(`suggestions = ["owl", "otter"]`), 0o600))

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"owl", "otter"}, got)

	_, err = LoadFile(filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`[]`), 0o600))
	_, err = LoadFile(empty)
	assert.ErrorIs(t, err, ErrEmptyCorpus)
	assert.Contains(t, err.Error(), "empty.json")
}

func TestDefaultCorpus(t *testing.T) {
	items := DefaultCorpus()
	require.NotEmpty(t, items)
	assert.Contains(t, items, "cat")
	assert.NotContains(t, items, "# Default suggestion corpus. One entry per line.")
}

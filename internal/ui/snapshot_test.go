package ui

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oakwood-commons/typeahead/internal/source"
)

func TestSnapshotRenderIdle(t *testing.T) {
	rendered := RenderModelSnapshot(context.Background(), catalog(t), ModelSnapshotConfig{
		Width:   60,
		Height:  12,
		NoColor: true,
		AppName: "typeahead",
	})

	assert.Contains(t, rendered, "typeahead")
	assert.Contains(t, rendered, "Search…")
	assert.Contains(t, rendered, "state: idle")
	assert.Len(t, strings.Split(rendered, "\n"), 12)
	assert.NotContains(t, rendered, "\x1b[")
}

func TestSnapshotRenderSuggestions(t *testing.T) {
	rendered := RenderModelSnapshot(context.Background(), catalog(t), ModelSnapshotConfig{
		Width:     60,
		NoColor:   true,
		StartKeys: []string{"cat<Down><Down>"},
	})

	assert.Contains(t, rendered, "  1 cat")
	assert.Contains(t, rendered, "› 2 caterpillar")
	assert.Contains(t, rendered, "  3 catfish")
	assert.Contains(t, rendered, "state: suggesting suggesting.highlighting")
}

func TestSnapshotRenderCommitted(t *testing.T) {
	rendered := RenderModelSnapshot(context.Background(), catalog(t), ModelSnapshotConfig{
		Width:     60,
		NoColor:   true,
		StartKeys: []string{"dog<CR>"},
	})
	assert.Contains(t, rendered, "Results for dog")
	assert.Contains(t, rendered, "state: searchCommitted")
}

func TestSnapshotRenderShortQueryHint(t *testing.T) {
	rendered := RenderModelSnapshot(context.Background(), catalog(t), ModelSnapshotConfig{
		Width:     60,
		NoColor:   true,
		MinLength: 4,
		StartKeys: []string{"cat"},
	})
	assert.Contains(t, rendered, "type at least 4 characters")
}

func TestSnapshotRenderFailure(t *testing.T) {
	failing := source.SourceFunc(func(context.Context, string) ([]string, error) {
		return nil, source.ErrUnavailable
	})
	rendered := RenderModelSnapshot(context.Background(), failing, ModelSnapshotConfig{
		Width:     60,
		NoColor:   true,
		StartKeys: []string{"cat"},
	})
	assert.Contains(t, rendered, "✗ "+source.ErrUnavailable.Error())
	assert.Contains(t, rendered, "state: fetchFailed")
}

func TestSnapshotRenderDebug(t *testing.T) {
	rendered := RenderModelSnapshot(context.Background(), catalog(t), ModelSnapshotConfig{
		Width:     120,
		NoColor:   true,
		Debug:     true,
		StartKeys: []string{"cat"},
	})
	assert.Contains(t, rendered, "DBG: gen=1 idx=-1 sugg=3")
}

func TestHighlightMatch(t *testing.T) {
	st := newStyles(CurrentTheme(), true)
	assert.Equal(t, "caterpillar", stripped(highlightMatch("caterpillar", "TER", st.match, st.row)))
	assert.Equal(t, "dog", stripped(highlightMatch("dog", "cat", st.match, st.row)))
	assert.Equal(t, "dog", stripped(highlightMatch("dog", "", st.match, st.row)))
}

func TestPadSnapshotHeight(t *testing.T) {
	out := padSnapshotHeight("a\nb\n", 4, 3)
	assert.Equal(t, "a\nb\n   \n   ", out)
	assert.Equal(t, "a\nb", padSnapshotHeight("a\nb", 1, 3))
}

package cmd

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/typeahead/internal/autocomplete"
	"github.com/oakwood-commons/typeahead/internal/formatter"
	"github.com/oakwood-commons/typeahead/internal/source"
)

var testCorpus = []string{"cat", "caterpillar", "catfish", "dog", "dolphin"}

func testCatalog(t *testing.T) source.Source {
	t.Helper()
	c, err := source.NewCatalog(testCorpus)
	require.NoError(t, err)
	return c
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestParseKeyEvents(t *testing.T) {
	tests := []struct {
		name    string
		keys    []string
		want    []autocomplete.Event
		wantErr bool
	}{
		{name: "empty", keys: nil, want: []autocomplete.Event{}},
		{
			name: "navigation",
			keys: []string{"Down", " up ", "ENTER"},
			want: []autocomplete.Event{
				autocomplete.KeyPressed{Key: autocomplete.KeyArrowDown},
				autocomplete.KeyPressed{Key: autocomplete.KeyArrowUp},
				autocomplete.KeyPressed{Key: autocomplete.KeyEnter},
			},
		},
		{
			name: "submit reset",
			keys: []string{"submit", "", "reset"},
			want: []autocomplete.Event{autocomplete.SubmitRequested{}, autocomplete.Reset{}},
		},
		{
			name: "click and pick",
			keys: []string{"Click=catfish", "Pick=2"},
			want: []autocomplete.Event{autocomplete.SuggestionClicked{Query: "catfish"}, pickEvent(1)},
		},
		{name: "click without text", keys: []string{"Click"}, wantErr: true},
		{name: "pick zero", keys: []string{"Pick=0"}, wantErr: true},
		{name: "pick word", keys: []string{"Pick=two"}, wantErr: true},
		{name: "unknown", keys: []string{"PageDown"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseKeyEvents(tt.keys)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRunSuggestSettlesOnSuggestions(t *testing.T) {
	snap, err := runSuggest(testContext(t), testCatalog(t), 3, "cat", nil)
	require.NoError(t, err)
	assert.Equal(t, autocomplete.StateBrowsing, snap.State)
	assert.Equal(t, []string{"cat", "caterpillar", "catfish"}, snap.Context.Suggestions)
}

func TestRunSuggestReplaysKeys(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want string
	}{
		{name: "arrows and enter", keys: []string{"Down", "Down", "Enter"}, want: "caterpillar"},
		{name: "wrap to last", keys: []string{"Up", "Enter"}, want: "catfish"},
		{name: "pick", keys: []string{"Pick=3"}, want: "catfish"},
		{name: "submit typed", keys: []string{"Submit"}, want: "cat"},
		{name: "submit highlighted", keys: []string{"Down", "Down", "Submit"}, want: "caterpillar"},
		{name: "ignored keys before commit", keys: []string{"Enter", "Pick=9", "Click=dog"}, want: "dog"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := parseKeyEvents(tt.keys)
			require.NoError(t, err)
			snap, err := runSuggest(testContext(t), testCatalog(t), 3, "cat", events)
			require.NoError(t, err)
			q, ok := snap.CommittedQuery()
			require.True(t, ok, "state %s", snap.State)
			assert.Equal(t, tt.want, q)
		})
	}
}

func TestRunSuggestShortQueryStaysIdle(t *testing.T) {
	snap, err := runSuggest(testContext(t), testCatalog(t), 3, "ca", nil)
	require.NoError(t, err)
	assert.Equal(t, autocomplete.StateIdle, snap.State)
	assert.Equal(t, "ca", snap.Context.Query)
	assert.Zero(t, snap.Generation)
}

func TestRunSuggestReportsFailure(t *testing.T) {
	failing := source.SourceFunc(func(context.Context, string) ([]string, error) {
		return nil, source.ErrUnavailable
	})
	snap, err := runSuggest(testContext(t), failing, 3, "cat", nil)
	require.NoError(t, err)
	assert.Equal(t, autocomplete.StateFetchFailed, snap.State)
	assert.NotEmpty(t, snap.Context.Message)
}

func TestRunSuggestHonoursContext(t *testing.T) {
	blocking := source.SourceFunc(func(ctx context.Context, _ string) ([]string, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := runSuggest(ctx, blocking, 3, "cat", nil)
	require.Error(t, err)
}

func TestPrintSnapshot(t *testing.T) {
	events, err := parseKeyEvents([]string{"Down", "Down", "Enter"})
	require.NoError(t, err)
	snap, err := runSuggest(testContext(t), testCatalog(t), 3, "cat", events)
	require.NoError(t, err)

	var table bytes.Buffer
	require.NoError(t, printSnapshot(&table, snap, formatter.OutputTable, true, 0))
	assert.Contains(t, table.String(), "KEY")
	assert.Contains(t, table.String(), "state       searchCommitted")
	assert.Contains(t, table.String(), "committed   caterpillar")
	assert.NotContains(t, table.String(), "\x1b[")

	var js bytes.Buffer
	require.NoError(t, printSnapshot(&js, snap, formatter.OutputJSON, true, 0))
	assert.Contains(t, js.String(), `"state": "searchCommitted"`)
	assert.Contains(t, js.String(), `"query": "caterpillar"`)

	var yml bytes.Buffer
	require.NoError(t, printSnapshot(&yml, snap, formatter.OutputYAML, true, 0))
	assert.Contains(t, yml.String(), "state: searchCommitted")
}

func TestSnapshotRowsMarksHighlight(t *testing.T) {
	events, err := parseKeyEvents([]string{"Down", "Down"})
	require.NoError(t, err)
	snap, err := runSuggest(testContext(t), testCatalog(t), 3, "cat", events)
	require.NoError(t, err)

	rows := snapshotRows(snap)
	assert.Equal(t, []string{"state", "suggesting suggesting.highlighting"}, rows[0])
	assert.Equal(t, []string{"  1", "cat"}, rows[2])
	assert.Equal(t, []string{"› 2", "caterpillar"}, rows[3])
	assert.Equal(t, []string{"generation", "1"}, rows[len(rows)-1])
}

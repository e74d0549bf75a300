package autocomplete

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWraparoundIndex(t *testing.T) {
	tests := []struct {
		name     string
		fn       func(int, int) int
		index, n int
		want     int
	}{
		{"next from none", nextIndex, -1, 3, 0},
		{"next middle", nextIndex, 0, 3, 1},
		{"next wraps", nextIndex, 2, 3, 0},
		{"next empty", nextIndex, -1, 0, -1},
		{"prev from none", prevIndex, -1, 3, 2},
		{"prev middle", prevIndex, 2, 3, 1},
		{"prev wraps", prevIndex, 0, 3, 2},
		{"prev empty", prevIndex, -1, 0, -1},
		{"single item next", nextIndex, 0, 1, 0},
		{"single item prev", prevIndex, 0, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn(tt.index, tt.n))
		})
	}
}

func TestHighlighted(t *testing.T) {
	c := NewContext()
	_, ok := c.Highlighted()
	assert.False(t, ok)

	c.Suggestions = []string{"a", "b"}
	c.ActiveSuggestionIndex = 1
	s, ok := c.Highlighted()
	require.True(t, ok)
	assert.Equal(t, "b", s)

	c.ActiveSuggestionIndex = 5
	_, ok = c.Highlighted()
	assert.False(t, ok)
}

func TestCloneIsDeep(t *testing.T) {
	q := "cat"
	c := Context{Query: "cat", PreviousQuery: &q, Suggestions: []string{"cats"}}
	cl := c.Clone()
	cl.Suggestions[0] = "dogs"
	*cl.PreviousQuery = "dog"

	assert.Equal(t, "cats", c.Suggestions[0])
	assert.Equal(t, "cat", *c.PreviousQuery)
}

func TestCloneNormalisesNilSuggestions(t *testing.T) {
	assert.Equal(t, []string{}, Context{}.Clone().Suggestions)
}

func TestHasMinLengthCountsRunes(t *testing.T) {
	g := newGuards(3)
	assert.True(t, g.hasMinLength.fn(Context{Query: "日本語"}, nil))
	assert.False(t, g.hasMinLength.fn(Context{Query: "日本"}, nil))
	assert.True(t, g.hasMinLength.fn(Context{Query: "abc"}, nil))
}

func TestBoundaryGuards(t *testing.T) {
	g := newGuards(3)
	c := Context{Suggestions: []string{"a", "b", "c"}}

	c.ActiveSuggestionIndex = 0
	assert.True(t, g.isArrowUpOnFirst.fn(c, KeyPressed{Key: KeyArrowUp}))
	assert.False(t, g.isArrowUpOnFirst.fn(c, KeyPressed{Key: KeyArrowDown}))

	c.ActiveSuggestionIndex = 2
	assert.True(t, g.isArrowDownOnLast.fn(c, KeyPressed{Key: KeyArrowDown}))
	assert.False(t, g.isArrowDownOnLast.fn(c, KeyPressed{Key: KeyArrowUp}))
	assert.False(t, g.isArrowDownOnLast.fn(c, TextChanged{Value: "x"}))
}

func TestFetchFailedMessage(t *testing.T) {
	assert.Equal(t, "unknown error", FetchFailed{}.Message())
}

func TestTransitionsExposeTable(t *testing.T) {
	rows := Transitions()
	require.NotEmpty(t, rows)

	var eventless, wildcard int
	for _, r := range rows {
		if r.Eventless() {
			eventless++
			assert.True(t, r.From.IsTransient(), "eventless rows leave transient states only")
		}
		if r.Wildcard() {
			wildcard++
			assert.Equal(t, EventReset, r.Event)
		}
	}
	assert.Equal(t, 4, eventless)
	assert.Equal(t, 1, wildcard)

	// Boundary rows precede the plain arrow rows for highlighting.
	var order []string
	for _, r := range rows {
		if r.From == StateHighlighting {
			order = append(order, r.Guard)
		}
	}
	assert.Equal(t, []string{"isArrowUpOnFirst", "isArrowDownOnLast", "isArrowUp", "isArrowDown", "isEnter"}, order)
}

func TestDescribeStates(t *testing.T) {
	infos := Describe()
	require.Len(t, infos, len(States()))
	byState := map[State]StateInfo{}
	for _, i := range infos {
		byState[i.State] = i
	}
	assert.True(t, byState[StateFetching].Invokes)
	assert.True(t, byState[StateIdle].Initial)
	assert.True(t, byState[StateBrowsing].Initial)
	assert.False(t, byState[StateHighlighting].Initial)
	assert.False(t, byState[StateSuggesting].Initial)
	assert.True(t, byState[StateSearchCommitted].Final)
	assert.Equal(t, []string{"savePreviousQuery"}, byState[StateSuggesting].Entry)
	assert.Equal(t, []string{"clearPreviousQuery", "resetActiveIndex"}, byState[StateSuggesting].Exit)
}

func TestDefinitionLeafFollowsInitialChild(t *testing.T) {
	d := newDefinition(DefaultMinLength)
	assert.Equal(t, StateBrowsing, d.leaf(StateSuggesting))
	assert.Equal(t, StateHighlighting, d.leaf(StateHighlighting))
	assert.Equal(t, StateIdle, d.leaf(StateIdle))
}

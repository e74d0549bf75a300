package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setDiagramFlags(t *testing.T, direction string, noLabels, transitions bool) {
	t.Helper()
	origDir, origNoLabels, origTransitions := diagramDirection, diagramNoLabels, diagramTransitions
	diagramDirection, diagramNoLabels, diagramTransitions = direction, noLabels, transitions
	t.Cleanup(func() {
		diagramDirection, diagramNoLabels, diagramTransitions = origDir, origNoLabels, origTransitions
	})
}

func TestControllerDiagramCoversTable(t *testing.T) {
	d := controllerDiagram()
	assert.Equal(t, "autocomplete", d.Title)

	byID := map[string]bool{}
	for _, s := range d.States {
		byID[s.ID] = true
	}
	for _, id := range []string{"idle", "checkingLength", "fetching", "fetchFailed", "validatingResults", "suggesting", "suggesting.browsing", "suggesting.highlighting", "searchCommitted"} {
		assert.True(t, byID[id], "missing state %s", id)
	}

	wildcards := 0
	for _, e := range d.Edges {
		if e.From == "*" {
			wildcards++
			assert.Equal(t, "Reset", e.Event)
			assert.Equal(t, "idle", e.To)
		}
	}
	assert.Equal(t, 1, wildcards)
}

func TestRunDiagramMermaid(t *testing.T) {
	setDiagramFlags(t, "lr", false, false)

	var out bytes.Buffer
	require.NoError(t, runDiagram(&out, "mermaid"))
	text := out.String()

	assert.Contains(t, text, "stateDiagram-v2")
	assert.Contains(t, text, "direction LR")
	assert.Contains(t, text, "[*] --> idle")
	assert.Contains(t, text, "state suggesting {")
	assert.Contains(t, text, "[*] --> suggesting_browsing")
	assert.Contains(t, text, "searchCommitted --> [*]")
	assert.Contains(t, text, "fetching : fetching (fetch)")
	assert.Contains(t, text, "idle --> checkingLength : TextChanged / saveQuery")
	assert.Contains(t, text, "checkingLength --> fetching : always [hasMinLength]")
	assert.Contains(t, text, "suggesting_highlighting --> searchCommitted : KeyPressed [isEnter] / commitHighlighted")
	assert.Contains(t, text, "note right of idle : Reset / resetContext from any state")
}

func TestRunDiagramMermaidNoLabels(t *testing.T) {
	setDiagramFlags(t, "TD", true, false)

	var out bytes.Buffer
	require.NoError(t, runDiagram(&out, ""))
	assert.Contains(t, out.String(), "checkingLength --> fetching : always\n")
	assert.NotContains(t, out.String(), "hasMinLength")
}

func TestRunDiagramTree(t *testing.T) {
	setDiagramFlags(t, "TD", false, true)

	var out bytes.Buffer
	require.NoError(t, runDiagram(&out, "TREE"))
	text := out.String()
	assert.Contains(t, text, "autocomplete")
	assert.Contains(t, text, "[initial]  idle")
	assert.Contains(t, text, "[transient]  checkingLength")
	assert.Contains(t, text, "[final]  searchCommitted")
	assert.Contains(t, text, "entry: savePreviousQuery")
	assert.Contains(t, text, "[*]  Reset / resetContext -> idle")
}

func TestRunDiagramErrors(t *testing.T) {
	setDiagramFlags(t, "sideways", false, false)

	var out bytes.Buffer
	require.Error(t, runDiagram(&out, "mermaid"))
	require.Error(t, runDiagram(&out, "dot"))
	assert.Empty(t, out.String())
}

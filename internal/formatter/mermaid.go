package formatter

import (
	"fmt"
	"strings"
)

// MermaidOptions controls Mermaid diagram output formatting.
type MermaidOptions struct {
	// Direction sets the diagram direction: TD (top-down), LR (left-right),
	// BT (bottom-top), RL (right-left). Default is TD.
	Direction string
	// NoLabels hides guards and actions, keeping event names only.
	NoLabels bool
}

// ValidDirections contains all valid Mermaid direction values.
var ValidDirections = []string{"TD", "LR", "BT", "RL"}

// ValidateDirection returns an error if the direction is invalid.
func ValidateDirection(dir string) error {
	if dir == "" {
		return nil
	}
	for _, valid := range ValidDirections {
		if strings.EqualFold(dir, valid) {
			return nil
		}
	}
	return fmt.Errorf("invalid direction %q: valid values are %s", dir, strings.Join(ValidDirections, ", "))
}

// mermaidBuilder tracks state during diagram generation.
type mermaidBuilder struct {
	lines []string
	d     Diagram
	opts  MermaidOptions
}

// FormatAsMermaid renders the diagram as a Mermaid stateDiagram-v2.
// Compound states become nested blocks, wildcard transitions become a note
// on their target.
func FormatAsMermaid(d Diagram, opts MermaidOptions) string {
	if opts.Direction == "" {
		opts.Direction = "TD"
	}
	b := &mermaidBuilder{
		lines: []string{"stateDiagram-v2"},
		d:     d,
		opts:  opts,
	}
	if d.Title != "" {
		b.lines = append([]string{"---", "title: " + d.Title, "---"}, b.lines...)
	}
	b.add(1, "direction "+strings.ToUpper(opts.Direction))

	b.buildScope("", 1)

	for _, e := range d.Edges {
		if e.From == wildcardState {
			continue
		}
		b.add(1, fmt.Sprintf("%s --> %s : %s", b.nodeID(e.From), b.nodeID(e.To), b.label(e)))
	}
	for _, e := range d.Edges {
		if e.From == wildcardState {
			b.add(1, fmt.Sprintf("note right of %s : %s from any state", b.nodeID(e.To), b.label(e)))
		}
	}

	return strings.Join(b.lines, "\n") + "\n"
}

// buildScope declares the states under parent, recursing into compound
// states, and wires the initial and final pseudo-states.
func (b *mermaidBuilder) buildScope(parent string, depth int) {
	for _, s := range b.d.children(parent) {
		if s.Initial {
			b.add(depth, "[*] --> "+b.nodeID(s.ID))
		}
	}
	for _, s := range b.d.children(parent) {
		id := b.nodeID(s.ID)
		if kids := b.d.children(s.ID); len(kids) > 0 {
			b.add(depth, "state "+id+" {")
			b.buildScope(s.ID, depth+1)
			b.add(depth, "}")
		} else {
			// Mermaid hoists leaves not declared inside their parent block.
			b.add(depth, fmt.Sprintf("%s : %s", id, b.describe(s)))
		}
		if s.Final {
			b.add(depth, id+" --> [*]")
		}
	}
}

func (b *mermaidBuilder) describe(s DiagramState) string {
	switch {
	case s.Transient:
		return s.Name + " (transient)"
	case s.Invokes:
		return s.Name + " (fetch)"
	}
	return s.Name
}

// nodeID maps a dotted state path to a Mermaid identifier.
func (b *mermaidBuilder) nodeID(id string) string {
	return strings.ReplaceAll(id, ".", "_")
}

func (b *mermaidBuilder) label(e DiagramEdge) string {
	if b.opts.NoLabels {
		if e.Event == "" {
			return "always"
		}
		return e.Event
	}
	// Mermaid treats ':' as the label separator.
	return strings.ReplaceAll(edgeLabel(e), ":", " ")
}

func (b *mermaidBuilder) add(depth int, line string) {
	b.lines = append(b.lines, strings.Repeat("    ", depth)+line)
}

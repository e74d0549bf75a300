package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/typeahead/internal/autocomplete"
	"github.com/oakwood-commons/typeahead/internal/formatter"
)

var (
	diagramFormat      string
	diagramDirection   string
	diagramNoLabels    bool
	diagramTransitions bool
)

var diagramCmd = &cobra.Command{
	Use:   "diagram",
	Short: "Print the autocomplete state chart",
	Long: "diagram prints the controller's transition table as a Mermaid stateDiagram-v2\n" +
		"or its state hierarchy as a tree. The output is generated from the same table\n" +
		"the controller runs on.",
	Example: "  typeahead diagram\n  typeahead diagram --direction LR --no-labels\n  typeahead diagram --format tree --transitions",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runDiagram(cmd.OutOrStdout(), diagramFormat)
	},
}

func init() { //nolint:gochecknoinits
	diagramCmd.Flags().StringVarP(&diagramFormat, "format", "f", "mermaid", "diagram format: mermaid|tree")
	diagramCmd.Flags().StringVar(&diagramDirection, "direction", "TD", "Mermaid diagram direction: TD, LR, BT, RL")
	diagramCmd.Flags().BoolVar(&diagramNoLabels, "no-labels", false, "Mermaid: show event names only (hide guards and actions)")
	diagramCmd.Flags().BoolVar(&diagramTransitions, "transitions", false, "tree: list each state's outgoing transitions")
}

func runDiagram(w io.Writer, format string) error {
	d := controllerDiagram()
	var text string
	switch strings.ToLower(format) {
	case "", "mermaid":
		dir := strings.ToUpper(diagramDirection)
		if err := formatter.ValidateDirection(dir); err != nil {
			return err
		}
		text = formatter.FormatAsMermaid(d, formatter.MermaidOptions{Direction: dir, NoLabels: diagramNoLabels})
	case "tree":
		text = formatter.FormatAsTree(d, formatter.TreeOptions{Transitions: diagramTransitions})
	default:
		return fmt.Errorf("invalid diagram format %q (use mermaid or tree)", format)
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err := io.WriteString(w, text)
	return err
}

// controllerDiagram converts the controller's state and transition tables
// into the formatter's diagram model.
func controllerDiagram() formatter.Diagram {
	d := formatter.Diagram{Title: "autocomplete"}
	for _, s := range autocomplete.Describe() {
		d.States = append(d.States, formatter.DiagramState{
			ID:        string(s.State),
			Name:      s.State.Leaf(),
			Parent:    string(s.State.Parent()),
			Initial:   s.Initial,
			Final:     s.Final,
			Transient: s.Transient,
			Invokes:   s.Invokes,
			Entry:     s.Entry,
			Exit:      s.Exit,
		})
	}
	for _, t := range autocomplete.Transitions() {
		e := formatter.DiagramEdge{
			From:    string(t.From),
			To:      string(t.To),
			Event:   string(t.Event),
			Guard:   t.Guard,
			Actions: t.Actions,
		}
		if t.Wildcard() {
			e.From = "*"
		}
		d.Edges = append(d.Edges, e)
	}
	return d
}

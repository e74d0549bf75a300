package formatter

import (
	"strings"

	"github.com/xlab/treeprint"
)

// TreeOptions controls tree output formatting.
type TreeOptions struct {
	// NoHooks hides entry/exit actions (structure only).
	NoHooks bool
	// Transitions lists each state's outgoing transitions under it.
	Transitions bool
}

// FormatAsTree renders the state hierarchy as an ASCII tree. Flags such as
// initial or final are shown as metadata.
func FormatAsTree(d Diagram, opts TreeOptions) string {
	tree := treeprint.NewWithRoot(rootLabel(d))
	buildTree(tree, d, "", opts)
	return tree.String()
}

func rootLabel(d Diagram) string {
	if d.Title != "" {
		return d.Title
	}
	return "."
}

func buildTree(branch treeprint.Tree, d Diagram, parent string, opts TreeOptions) {
	for _, s := range d.children(parent) {
		node := branch.AddMetaBranch(stateFlags(s), s.Name)
		if !opts.NoHooks {
			if len(s.Entry) > 0 {
				node.AddNode("entry: " + strings.Join(s.Entry, ", "))
			}
			if len(s.Exit) > 0 {
				node.AddNode("exit: " + strings.Join(s.Exit, ", "))
			}
		}
		if opts.Transitions {
			for _, e := range d.Edges {
				if e.From == s.ID {
					node.AddNode(edgeLabel(e) + " -> " + e.To)
				}
			}
		}
		buildTree(node, d, s.ID, opts)
	}
	if parent == "" && opts.Transitions {
		for _, e := range d.Edges {
			if e.From == wildcardState {
				branch.AddMetaNode("*", edgeLabel(e)+" -> "+e.To)
			}
		}
	}
}

// stateFlags summarises a state's kind; empty for plain states.
func stateFlags(s DiagramState) string {
	var flags []string
	if s.Initial {
		flags = append(flags, "initial")
	}
	if s.Transient {
		flags = append(flags, "transient")
	}
	if s.Invokes {
		flags = append(flags, "fetch")
	}
	if s.Final {
		flags = append(flags, "final")
	}
	if len(flags) == 0 {
		return "state"
	}
	return strings.Join(flags, ",")
}

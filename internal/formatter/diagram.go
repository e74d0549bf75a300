package formatter

// DiagramState is one node of a state chart. ID is the full dotted path;
// Parent is empty for top-level states.
type DiagramState struct {
	ID        string
	Name      string
	Parent    string
	Initial   bool
	Final     bool
	Transient bool
	Invokes   bool
	Entry     []string
	Exit      []string
}

// DiagramEdge is one transition. An empty Event marks an eventless
// transition; From "*" applies to every state.
type DiagramEdge struct {
	From    string
	To      string
	Event   string
	Guard   string
	Actions []string
}

// Diagram is the input to the mermaid and tree renderers.
type Diagram struct {
	Title  string
	States []DiagramState
	Edges  []DiagramEdge
}

const wildcardState = "*"

// children returns the states whose parent is id, in declaration order.
func (d Diagram) children(id string) []DiagramState {
	var out []DiagramState
	for _, s := range d.States {
		if s.Parent == id {
			out = append(out, s)
		}
	}
	return out
}

// edgeLabel renders "Event [guard] / a, b".
func edgeLabel(e DiagramEdge) string {
	label := e.Event
	if label == "" {
		label = "always"
	}
	if e.Guard != "" {
		label += " [" + e.Guard + "]"
	}
	if len(e.Actions) > 0 {
		label += " / "
		for i, a := range e.Actions {
			if i > 0 {
				label += ", "
			}
			label += a
		}
	}
	return label
}

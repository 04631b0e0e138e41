package format

import (
	"fmt"
	"io"

	"stepline/internal/procgraph"
)

// WriteNodes renders the repaired node table, marking start nodes.
func WriteNodes(w io.Writer, m Mode, nodes []*procgraph.Node, starts []string) error {
	if m == JSON {
		return writeJSON(w, nodes)
	}
	isStart := make(map[string]bool, len(starts))
	for _, id := range starts {
		isStart[id] = true
	}
	tb := NewTable(m)
	tb.Header("ID", "Start", "Type", "Name", "Role", "Application", "Previous", "Next", "Rows")
	for _, n := range nodes {
		prev, next := n.Previous, n.Next
		if m == ASCII {
			prev = Multi(Truncate(prev, 120), procgraph.Separator)
			next = Multi(Truncate(next, 120), procgraph.Separator)
		}
		tb.Row(n.ID, BoolMark(isStart[n.ID]), string(n.Type), n.Name, n.Role,
			n.ApplicationSystem, prev, next, rowSpan(n.Rows))
	}
	tb.Footer("", "", "", "", "", "", "", "nodes", len(nodes))
	return writeString(w, tb.String())
}

func rowSpan(r procgraph.RowSpan) string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

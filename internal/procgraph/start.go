package procgraph

import "strings"

// DefaultStartMarker is the substring that marks process-entry nodes in the
// export's naming convention.
const DefaultStartMarker = "MCO"

// SelectStarts returns, in table order, the ids of Function or Event nodes
// that have no previous, at least one next, and a name containing marker.
// Zero or several matches are reported through d but are not errors.
func SelectStarts(g *Graph, marker string, d *Diagnostics) []string {
	var out []string
	for _, n := range g.Nodes() {
		if !n.Type.IsStep() || n.Previous != "" || n.Next == "" {
			continue
		}
		if !strings.Contains(n.Name, marker) {
			continue
		}
		out = append(out, n.ID)
	}
	switch len(out) {
	case 0:
		d.Warn(CodeNoStart, "no initial value found", "marker", marker)
	case 1:
	default:
		d.Warn(CodeMultipleStarts, "multiple initial values found", "marker", marker, "starts", out)
	}
	return out
}

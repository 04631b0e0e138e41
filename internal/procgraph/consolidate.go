package procgraph

// Consolidate folds each node's relation fields into Next and Previous.
// Forward relations are concatenated in ForwardRelations order, backward
// ones in BackwardRelations order; absent fields contribute nothing. A
// field that is already set is kept, and an empty result never overwrites
// anything.
func Consolidate(g *Graph) {
	for _, n := range g.Nodes() {
		g.FillNext(n.ID, joinRelations(n, ForwardRelations))
		g.FillPrevious(n.ID, joinRelations(n, BackwardRelations))
	}
}

func joinRelations(n *Node, rels []Relation) string {
	var parts []string
	for _, r := range rels {
		if v := n.Relations[r]; v != "" {
			parts = append(parts, v)
		}
	}
	return Join(parts)
}

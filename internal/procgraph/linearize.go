package procgraph

// LinearizeOptions bounds the walk.
type LinearizeOptions struct {
	// MaxSteps caps the number of cursor steps. Zero means the node count.
	MaxSteps int
}

// Linearize walks g from starts and returns every node id exactly once.
//
// The cursor visits ordering in turn. When the current node's next value
// has not been advanced from yet, every node named by it is appended. When
// that adds nothing (no next, a value already walked, or only known
// targets) the walk backtracks: from the cursor back to the head it looks
// for nodes whose previous names the visited node, stopping at the first
// position that yields a new id. Ids never reached are appended in table
// order at the end.
//
// Every step either appends an id or advances past one, so the walk ends
// after at most g.Len() steps. MaxSteps is kept as a hard cap and reported
// when hit.
func Linearize(g *Graph, starts []string, opts LinearizeOptions, d *Diagnostics) []string {
	ordering := make([]string, 0, g.Len())
	present := make(map[string]bool, g.Len())
	push := func(id string) bool {
		if present[id] {
			return false
		}
		present[id] = true
		ordering = append(ordering, id)
		return true
	}
	for _, id := range starts {
		if _, ok := g.Node(id); ok {
			push(id)
		}
	}

	budget := opts.MaxSteps
	if budget <= 0 {
		budget = g.Len()
	}
	added := make(map[string]bool)
	steps := 0
	for i := 0; i < len(ordering); i++ {
		if steps == budget {
			d.Warn(CodeStepBudgetExhausted, "linearization step budget exhausted",
				"budget", budget, "ordered", len(ordering))
			break
		}
		steps++

		n := g.nodeIndex[ordering[i]]
		grew := false
		if n.Next != "" && !added[n.Next] {
			added[n.Next] = true
			for _, name := range n.NextNames() {
				for _, id := range g.IDsByName(name) {
					if push(id) {
						grew = true
					}
				}
			}
		}
		if grew {
			continue
		}
		for back := i; back >= 0 && !grew; back-- {
			name := g.nodeIndex[ordering[back]].Name
			for _, id := range g.IDsWithPrevious(name) {
				if push(id) {
					grew = true
				}
			}
		}
	}

	var stragglers []string
	for _, id := range g.order {
		if push(id) && g.nodeIndex[id].Type == TypeFunction {
			stragglers = append(stragglers, id)
		}
	}
	if len(stragglers) > 0 {
		d.Warn(CodeUnreachedAppended, "unreached nodes appended in table order", "ids", stragglers)
	}
	return ordering
}

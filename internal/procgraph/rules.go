package procgraph

// ResolveRules uses Rule nodes as one-hop bridges between step nodes the
// export left disconnected. For every Rule with both a previous and a next
// value, in table order:
//
//   - each non-Rule node named in the rule's next value that has no
//     previous inherits the rule's previous value, or UnresolvedRule when
//     none of the rule's predecessors exists in the graph;
//   - each non-Rule node named in the rule's previous value that has no
//     next inherits the rule's next value, provided at least one of the
//     rule's successors exists.
//
// Only empty fields are written, so a second run changes nothing. The
// number of fields written is returned.
func ResolveRules(g *Graph, d *Diagnostics) int {
	written := 0
	for _, rule := range g.Nodes() {
		if rule.Type != TypeRule || rule.Previous == "" || rule.Next == "" {
			continue
		}
		prevIDs := bridgeTargets(g, rule.PreviousNames())
		nextIDs := bridgeTargets(g, rule.NextNames())

		for _, id := range nextIDs {
			value := rule.Previous
			if len(prevIDs) == 0 {
				value = UnresolvedRule
			}
			if g.FillPrevious(id, value) {
				written++
				if value == UnresolvedRule {
					d.Warn(CodeRuleUnresolved, "rule predecessor not found",
						"rule", rule.ID, "previous", rule.Previous, "node", id)
				}
			}
		}
		if len(nextIDs) == 0 {
			continue
		}
		for _, id := range prevIDs {
			if g.FillNext(id, rule.Next) {
				written++
			}
		}
	}
	return written
}

// bridgeTargets returns, for each name, the earliest node carrying it,
// skipping Rule nodes so rules never patch each other.
func bridgeTargets(g *Graph, names []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, name := range names {
		for _, id := range g.IDsByName(name) {
			n, _ := g.Node(id)
			if n.Type == TypeRule {
				continue
			}
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
			break
		}
	}
	return out
}

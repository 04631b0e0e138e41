package procgraph

// Step is one row of the ordered output.
type Step struct {
	BlockID           string  `json:"block_id"`
	Role              string  `json:"role"`
	Previous          string  `json:"previous_value"`
	ObjectName        string  `json:"object_name"`
	Next              string  `json:"next_value"`
	ApplicationSystem string  `json:"application_system"`
	Rows              RowSpan `json:"rows"`
}

// StepName renders a node name together with the system it runs on.
func StepName(name, app string) string {
	return name + " on " + app
}

// Project turns an ordering into output steps. Only Function nodes with an
// application system are kept, in ordering order. A graph in which no node
// names an application yields no steps at all.
func Project(g *Graph, ordering []string) []Step {
	if !g.HasApplications() {
		return nil
	}
	var out []Step
	for _, id := range ordering {
		n, ok := g.Node(id)
		if !ok || n.Type != TypeFunction || n.ApplicationSystem == "" {
			continue
		}
		out = append(out, Step{
			BlockID:           n.ID,
			Role:              n.Role,
			Previous:          n.Previous,
			ObjectName:        StepName(n.Name, n.ApplicationSystem),
			Next:              n.Next,
			ApplicationSystem: n.ApplicationSystem,
			Rows:              n.Rows,
		})
	}
	return out
}

// Applications returns the distinct application systems of the projected
// steps, in first-seen order.
func Applications(steps []Step) []string {
	var out []string
	seen := make(map[string]bool)
	for _, s := range steps {
		if !seen[s.ApplicationSystem] {
			seen[s.ApplicationSystem] = true
			out = append(out, s.ApplicationSystem)
		}
	}
	return out
}

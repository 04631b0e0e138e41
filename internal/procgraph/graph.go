package procgraph

// DuplicateSuffix is appended to a block id that collides with one already
// in the graph.
const DuplicateSuffix = "bis"

// Graph is the node table of one export. Nodes are kept in table order for
// deterministic iteration and indexed by id and by object name for O(1)
// lookup. Names never change after insertion, so the name index stays valid
// while repair operations patch relation fields.
type Graph struct {
	order     []string
	nodeIndex map[string]*Node
	nameIndex map[string][]string // object name -> ids in table order
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodeIndex: make(map[string]*Node),
		nameIndex: make(map[string][]string),
	}
}

// Add inserts n and returns the id it was stored under. A colliding id gets
// DuplicateSuffix appended until it is unique, so the first occurrence keeps
// the bare id.
func (g *Graph) Add(n *Node) string {
	id := n.ID
	for {
		if _, taken := g.nodeIndex[id]; !taken {
			break
		}
		id += DuplicateSuffix
	}
	n.ID = id
	if n.Relations == nil {
		n.Relations = make(map[Relation]string)
	}
	g.order = append(g.order, id)
	g.nodeIndex[id] = n
	g.nameIndex[n.Name] = append(g.nameIndex[n.Name], id)
	return id
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.order) }

// IDs returns node ids in table order.
func (g *Graph) IDs() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Nodes returns the nodes in table order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodeIndex[id])
	}
	return out
}

// Node looks a node up by id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodeIndex[id]
	return n, ok
}

// IDsByName returns the ids of every node with the given object name, in
// table order.
func (g *Graph) IDsByName(name string) []string {
	return g.nameIndex[name]
}

// FirstByName returns the earliest node with the given object name.
func (g *Graph) FirstByName(name string) (*Node, bool) {
	ids := g.nameIndex[name]
	if len(ids) == 0 {
		return nil, false
	}
	return g.nodeIndex[ids[0]], true
}

// IDsWithPrevious returns, in table order, the ids of nodes whose previous
// field lists name.
func (g *Graph) IDsWithPrevious(name string) []string {
	var out []string
	for _, id := range g.order {
		if containsName(g.nodeIndex[id].Previous, name) {
			out = append(out, id)
		}
	}
	return out
}

// FillNext sets the next field of id when it is empty. Empty values are
// never written. It reports whether the node changed.
func (g *Graph) FillNext(id, value string) bool {
	n, ok := g.nodeIndex[id]
	if !ok || value == "" || n.Next != "" {
		return false
	}
	n.Next = value
	return true
}

// FillPrevious is FillNext for the previous field.
func (g *Graph) FillPrevious(id, value string) bool {
	n, ok := g.nodeIndex[id]
	if !ok || value == "" || n.Previous != "" {
		return false
	}
	n.Previous = value
	return true
}

// HasApplications reports whether any node names an application system.
func (g *Graph) HasApplications() bool {
	for _, id := range g.order {
		if g.nodeIndex[id].ApplicationSystem != "" {
			return true
		}
	}
	return false
}

// Clone returns a deep copy, used when a caller wants to keep the parsed
// table while repairing another copy.
func (g *Graph) Clone() *Graph {
	out := NewGraph()
	for _, n := range g.Nodes() {
		c := *n
		c.Relations = make(map[Relation]string, len(n.Relations))
		for k, v := range n.Relations {
			c.Relations[k] = v
		}
		out.order = append(out.order, c.ID)
		out.nodeIndex[c.ID] = &c
		out.nameIndex[c.Name] = append(out.nameIndex[c.Name], c.ID)
	}
	return out
}

package procgraph

import (
	"stepline/internal/logging"
	"stepline/internal/sheet"
)

type rel struct {
	keyword string
	value   string
}

// blockSpec describes one Group block of a synthetic export.
type blockSpec struct {
	id, group string
	typ       ObjectType
	name      string
	role      string
	app       string
	rels      []rel
}

// blockRows lays a block out the way the export does: name, an attribute
// header and the type before the Group marker, the id right after it.
func blockRows(b blockSpec) []sheet.Row {
	group := b.group
	if group == "" {
		group = "G-" + b.id
	}
	rows := []sheet.Row{
		{b.name, "", ""},
		{"Attributes", "", ""},
		{"Type", string(b.typ), ""},
		{GroupMarker, group, ""},
		{"ID", b.id, ""},
	}
	if b.role != "" {
		rows = append(rows, sheet.Row{"carries out", b.role, RoleTag})
	}
	if b.app != "" {
		rows = append(rows, sheet.Row{SupportedByKeyword, b.app, ""})
	}
	for _, r := range b.rels {
		rows = append(rows, sheet.Row{r.keyword, r.value, ""})
	}
	return rows
}

func exportTable(blocks ...blockSpec) *sheet.Table {
	var rows []sheet.Row
	for _, b := range blocks {
		rows = append(rows, blockRows(b)...)
	}
	return sheet.New(rows...)
}

func quietDiagnostics() *Diagnostics {
	return NewDiagnostics(logging.Discard())
}

// chainGraph builds A -> B -> C, all Function nodes on SYS1, with A as the
// only node carrying the start marker.
func chainGraph() *Graph {
	g := NewGraph()
	g.Add(&Node{ID: "1", Type: TypeFunction, Name: "MCO A", ApplicationSystem: "SYS1", Next: "B"})
	g.Add(&Node{ID: "2", Type: TypeFunction, Name: "B", ApplicationSystem: "SYS1", Previous: "MCO A", Next: "C"})
	g.Add(&Node{ID: "3", Type: TypeFunction, Name: "C", ApplicationSystem: "SYS1", Previous: "B"})
	return g
}

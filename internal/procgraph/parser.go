package procgraph

import (
	"stepline/internal/sheet"
)

const (
	// GroupMarker labels the row that opens a node block.
	GroupMarker = "Group"
	// SupportedByKeyword labels the row naming a node's application system.
	SupportedByKeyword = "is supported by"
	// FourEyePrinciple names control annotations that are not process steps.
	FourEyePrinciple = "4-eye principle"
)

// Layout holds the fixed row offsets, relative to a GroupMarker row, at
// which a block's positional attributes sit. The object name is read from
// the label column, the type and id from the value column.
type Layout struct {
	NameOffset int `json:"name_offset" yaml:"name_offset" toml:"name_offset"` // rows before the marker
	TypeOffset int `json:"type_offset" yaml:"type_offset" toml:"type_offset"` // rows before the marker
	IDOffset   int `json:"id_offset" yaml:"id_offset" toml:"id_offset"`       // rows after the marker
}

// DefaultLayout is the layout of the tool-generated export.
func DefaultLayout() Layout {
	return Layout{NameOffset: 3, TypeOffset: 1, IDOffset: 1}
}

// ParseOptions configures Parse.
type ParseOptions struct {
	Layout    Layout
	SkipNames []string // object names dropped from the node table
}

// DefaultParseOptions returns the default layout and drops FourEyePrinciple
// annotations.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		Layout:    DefaultLayout(),
		SkipNames: []string{FourEyePrinciple},
	}
}

// block accumulates one GroupMarker span. It only becomes a Node once its
// positional attributes have been read in bounds.
type block struct {
	initialized bool
	node        Node
	relations   map[Relation][]string
	rawRole     string
	hasRole     bool
	hasApp      bool
}

func openBlock(t *sheet.Table, marker int, l Layout) block {
	nameRow, okName := t.Row(marker - l.NameOffset)
	typeRow, okType := t.Row(marker - l.TypeOffset)
	idRow, okID := t.Row(marker + l.IDOffset)
	markerRow, _ := t.Row(marker)
	if !okName || !okType || !okID || idRow.Value() == "" {
		return block{}
	}
	return block{
		initialized: true,
		node: Node{
			ID:    idRow.Value(),
			Group: markerRow.Value(),
			Type:  ObjectType(typeRow.Value()),
			Name:  nameRow.Label(),
		},
		relations: make(map[Relation][]string),
	}
}

func (b *block) absorb(r sheet.Row, roles RoleRegistry) {
	if rel, ok := RelationForKeyword(r.Label()); ok {
		b.relations[rel] = append(b.relations[rel], r.Value())
	}
	if !b.hasRole && r.TypeTag() == RoleTag {
		b.rawRole = r.Value()
		b.node.Role = roles.Resolve(r.Value())
		b.hasRole = true
	}
	if !b.hasApp && r.Label() == SupportedByKeyword {
		b.node.ApplicationSystem = r.Value()
		b.hasApp = true
	}
}

func (b *block) build(span RowSpan) *Node {
	n := b.node
	n.Rows = span
	n.Relations = make(map[Relation]string, len(b.relations))
	for rel, values := range b.relations {
		n.Relations[rel] = Join(values)
	}
	return &n
}

// Parse scans t top to bottom and builds the node table. Each GroupMarker
// row opens a block whose span runs up to the row before the next marker.
// Rows before the first marker belong to no block and are ignored. Blocks
// whose positional attributes fall outside the table, or whose span is
// narrower than sheet.MinColumns, are skipped. Relation fields are filled
// from relation rows only; Next and Previous are left for Consolidate.
func Parse(t *sheet.Table, roles RoleRegistry, opts ParseOptions, d *Diagnostics) *Graph {
	g := NewGraph()
	skip := make(map[string]bool, len(opts.SkipNames))
	for _, name := range opts.SkipNames {
		skip[name] = true
	}

	var markers []int
	for i, r := range t.Rows {
		if r.Label() == GroupMarker {
			markers = append(markers, i)
		}
	}

	for k, start := range markers {
		end := t.Len() - 1
		if k+1 < len(markers) {
			end = markers[k+1] - 1
		}
		span := RowSpan{Start: start, End: end}

		b := openBlock(t, start, opts.Layout)
		if !b.initialized {
			d.Debug(CodeBlockSkipped, "block skipped: positional attributes missing", "row", start)
			continue
		}
		if spanWidth(t, span) < sheet.MinColumns {
			d.Debug(CodeBlockSkipped, "block skipped: too few columns", "row", start, "id", b.node.ID)
			continue
		}
		for i := span.Start; i <= span.End; i++ {
			b.absorb(t.Rows[i], roles)
		}
		if skip[b.node.Name] {
			continue
		}
		if b.hasRole && roles[b.rawRole].Owner == "" {
			d.Debug(CodeRoleOwnerMissing, "role has no owner", "id", b.node.ID, "role", b.rawRole)
		}
		g.Add(b.build(span))
	}
	return g
}

func spanWidth(t *sheet.Table, span RowSpan) int {
	w := 0
	for i := span.Start; i <= span.End; i++ {
		if n := len(t.Rows[i]); n > w {
			w = n
		}
	}
	return w
}

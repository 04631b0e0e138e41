package procgraph

import "stepline/internal/sheet"

const (
	// RoleTag in the type-tag column marks a row that names a role.
	RoleTag = "Role"
	// RemarkMarker labels the row holding a role's owner.
	RemarkMarker = "Remark/Example"
)

// RoleBinding is the owner found for a role and the row that defined it.
type RoleBinding struct {
	Owner string `json:"owner"`
	Row   int    `json:"row"`
}

// RoleRegistry maps role names to their bindings. It is built once per
// table and only read afterwards.
type RoleRegistry map[string]RoleBinding

// BuildRoleRegistry collects every Role-tagged row. When a role name is
// tagged more than once the last row wins. The owner is the value of the
// first RemarkMarker row at or after the defining row; without one the owner
// stays empty.
func BuildRoleRegistry(t *sheet.Table) RoleRegistry {
	defs := make(map[string]int)
	var names []string
	for i, r := range t.Rows {
		if r.TypeTag() != RoleTag {
			continue
		}
		if _, seen := defs[r.Value()]; !seen {
			names = append(names, r.Value())
		}
		defs[r.Value()] = i
	}

	reg := make(RoleRegistry, len(defs))
	for _, name := range names {
		row := defs[name]
		b := RoleBinding{Row: row}
		for j := row; j < t.Len(); j++ {
			if t.Rows[j].Label() == RemarkMarker {
				b.Owner = t.Rows[j].Value()
				break
			}
		}
		reg[name] = b
	}
	return reg
}

// Resolve renders a role for output: "<role> - <owner>" when an owner is
// known, the bare role otherwise.
func (r RoleRegistry) Resolve(role string) string {
	if b, ok := r[role]; ok && b.Owner != "" {
		return role + " - " + b.Owner
	}
	return role
}

package procgraph

import "strings"

// Separator joins multi-valued relation fields.
const Separator = "§"

// UnresolvedRule marks a previous field reached through a Rule whose own
// predecessor could not be matched to a node.
const UnresolvedRule = "%"

// ObjectType is the model object kind of a block. Values other than the
// named constants are kept verbatim.
type ObjectType string

const (
	TypeFunction ObjectType = "Function"
	TypeEvent    ObjectType = "Event"
	TypeRule     ObjectType = "Rule"
	TypeRole     ObjectType = "Role"
)

// IsStep reports whether the type can sit on the process path.
func (t ObjectType) IsStep() bool {
	return t == TypeFunction || t == TypeEvent
}

// Relation is the canonical name of one relation column.
type Relation string

const (
	RelIsPredecessorOf Relation = "Is_predecessor_of"
	RelCreates         Relation = "creates"
	RelActivates       Relation = "Activates"
	RelLeadsTo         Relation = "Leads_to"

	RelIsCreatedBy   Relation = "Is_created_by"
	RelIsActivatedBy Relation = "Is_activated_by"
	RelFollows       Relation = "follows"
	RelEvaluates     Relation = "evaluates"
	RelIsAssignedTo  Relation = "Is_assigned_to"
)

// ForwardRelations fold into Node.Next, in this order.
var ForwardRelations = []Relation{RelIsPredecessorOf, RelCreates, RelActivates, RelLeadsTo}

// BackwardRelations fold into Node.Previous, in this order.
var BackwardRelations = []Relation{RelIsCreatedBy, RelIsActivatedBy, RelFollows, RelEvaluates, RelIsAssignedTo}

// relationKeywords maps the export's lower-case operator strings to the
// relation they encode. Matching is exact and case-sensitive.
var relationKeywords = map[string]Relation{
	"activates":         RelActivates,
	"is predecessor of": RelIsPredecessorOf,
	"follows":           RelFollows,
	"creates":           RelCreates,
	"evaluates":         RelEvaluates,
	"leads to":          RelLeadsTo,
	"is assigned to":    RelIsAssignedTo,
	"is activated by":   RelIsActivatedBy,
	"is created by":     RelIsCreatedBy,
}

// RelationForKeyword returns the relation a row label encodes.
func RelationForKeyword(label string) (Relation, bool) {
	r, ok := relationKeywords[label]
	return r, ok
}

// RowSpan is the inclusive range of table rows a block was read from.
type RowSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Node is one reconstructed process-model object.
type Node struct {
	ID                string              `json:"id"`
	Group             string              `json:"group"`
	Type              ObjectType          `json:"object_type"`
	Name              string              `json:"object_name"`
	Role              string              `json:"role,omitempty"`
	ApplicationSystem string              `json:"application_system,omitempty"`
	Relations         map[Relation]string `json:"relations,omitempty"`
	Next              string              `json:"next"`
	Previous          string              `json:"previous"`
	Rows              RowSpan             `json:"rows"`
}

// Relation returns the raw joined value of one relation column.
func (n *Node) Relation(r Relation) string {
	return n.Relations[r]
}

// NextNames splits Next into successor names.
func (n *Node) NextNames() []string { return Split(n.Next) }

// PreviousNames splits Previous into predecessor names.
func (n *Node) PreviousNames() []string { return Split(n.Previous) }

// Split breaks a joined relation field into its parts. The empty field has
// no parts.
func Split(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, Separator)
}

// Join is the inverse of Split.
func Join(parts []string) string {
	return strings.Join(parts, Separator)
}

func containsName(field, name string) bool {
	for _, part := range Split(field) {
		if part == name {
			return true
		}
	}
	return false
}

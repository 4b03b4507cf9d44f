// Package filter implements the boolean filter tree and its translation into
// query-builder calls. A tree is either a single condition
// (field/operator/value) or a logic group (AND/OR over child nodes); the node
// kind is decided once when the tree is parsed, never re-inspected during
// application.
package filter

// Logic values accepted on a Group. Matching is case-insensitive.
const (
	LogicAnd = "AND"
	LogicOr  = "OR"
)

// Node is one node of a filter tree: exactly one of Condition or Group.
type Node interface {
	isNode()
}

// Condition compares a single field against a value.
type Condition struct {
	Field    string
	Operator string
	Value    any
}

// Group combines an ordered list of child nodes with AND or OR.
type Group struct {
	Logic   string
	Filters []Node
}

func (*Condition) isNode() {}
func (*Group) isNode()     {}

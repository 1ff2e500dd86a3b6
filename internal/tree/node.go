// Package tree defines the expression-tree shapes consumed by the criteria
// translation engine: filters, logical groups, relationship joins, ordering
// and keyset cursors. Trees are built and validated upstream; the engine
// treats them as well formed.
package tree

// LogicalOp is the connective of a FilterGroup.
type LogicalOp string

const (
	// LogicalAnd combines group items with AND.
	LogicalAnd LogicalOp = "AND"
	// LogicalOr combines group items with OR.
	LogicalOr LogicalOp = "OR"
)

// Node is either a *Filter or a *FilterGroup. The interface is sealed so the
// engine can traverse trees with an exhaustive type switch.
type Node interface {
	isNode()
}

// Filter is a single field comparison.
//
// For the document-path operator families (OpDocValueEquals, OpDocArrayContains
// and friends, OpArrayEquals*), Field is "column" or "column.path.to.key": the
// first dot-separated segment names the document column, the remaining segments
// address a location inside the document.
type Filter struct {
	Field    string
	Operator Operator
	Value    interface{}
}

// FilterGroup is a logical AND/OR container of filters and nested groups.
// Items render in insertion order; nested groups keep their own brackets.
type FilterGroup struct {
	Logic LogicalOp
	Items []Node
}

func (*Filter) isNode()      {}
func (*FilterGroup) isNode() {}

// NewFilter creates a filter for the given field, operator and value.
func NewFilter(field string, op Operator, value interface{}) *Filter {
	return &Filter{Field: field, Operator: op, Value: value}
}

// Eq generates an equality filter (field = value).
func Eq(field string, value interface{}) *Filter {
	return NewFilter(field, OpEquals, value)
}

// NotEq generates an inequality filter (field <> value).
func NotEq(field string, value interface{}) *Filter {
	return NewFilter(field, OpNotEquals, value)
}

// GreaterThan generates a greater-than filter (field > value).
func GreaterThan(field string, value interface{}) *Filter {
	return NewFilter(field, OpGreaterThan, value)
}

// LessThan generates a less-than filter (field < value).
func LessThan(field string, value interface{}) *Filter {
	return NewFilter(field, OpLessThan, value)
}

// In generates a set membership filter (field IN (...)).
func In(field string, values ...interface{}) *Filter {
	return NewFilter(field, OpIn, values)
}

// Between generates a range filter (field BETWEEN from AND to).
func Between(field string, from, to interface{}) *Filter {
	return NewFilter(field, OpBetween, []interface{}{from, to})
}

// IsNull generates a null check filter (field IS NULL).
func IsNull(field string) *Filter {
	return NewFilter(field, OpIsNull, nil)
}

// ContainsText generates a case-insensitive substring match filter.
func ContainsText(field, value string) *Filter {
	return NewFilter(field, OpContainsText, value)
}

// And creates a group whose items are combined with AND.
func And(items ...Node) *FilterGroup {
	return &FilterGroup{Logic: LogicalAnd, Items: items}
}

// Or creates a group whose items are combined with OR.
func Or(items ...Node) *FilterGroup {
	return &FilterGroup{Logic: LogicalOr, Items: items}
}

package tree

import "fmt"

// Operator identifies the comparison kind of a Filter.
// The set is closed: the translation engine matches on every value with an
// exhaustive switch, and an operator outside this list is rejected with an
// explicit error instead of being silently ignored.
type Operator int

const (
	// Basic comparison operators, one parameter each.
	OpEquals Operator = iota
	OpNotEquals
	OpGreaterThan
	OpGreaterThanOrEquals
	OpLessThan
	OpLessThanOrEquals

	// Case-sensitive pattern matching. The value passes through unchanged,
	// so callers supply their own wildcards.
	OpLike
	OpNotLike

	// Case-insensitive text matching. The engine wraps the value with
	// wildcards as appropriate for each operator.
	OpContainsText
	OpNotContainsText
	OpStartsWith
	OpEndsWith
	OpEqualsIgnoreCase
	OpNotEqualsIgnoreCase

	// Null checks, zero parameters.
	OpIsNull
	OpIsNotNull

	// Set and range operators.
	OpIn
	OpNotIn
	OpBetween
	OpNotBetween

	// Case-sensitive regular expression match, one parameter.
	OpMatchesRegex

	// Native array column membership ("value = ANY(column)").
	// The negated forms treat a NULL array as "does not contain".
	OpSetContains
	OpSetNotContains
	OpSetContainsAny
	OpSetContainsAll
	OpSetNotContainsAny
	OpSetNotContainsAll

	// Structured document (JSONB) operators.
	OpDocContains
	OpDocNotContains
	OpDocValueEquals
	OpDocValueNotEquals
	OpDocArrayContains
	OpDocArrayNotContains
	OpDocArrayContainsAny
	OpDocArrayContainsAll
	OpDocArrayNotContainsAny
	OpDocArrayNotContainsAll

	// Array equality. The unordered forms compare as sets, the strict forms
	// compare the serialized arrays including element order.
	OpArrayEquals
	OpArrayNotEquals
	OpArrayEqualsUnordered
	OpArrayNotEqualsUnordered
)

var operatorNames = [...]string{
	OpEquals:                  "EQUALS",
	OpNotEquals:               "NOT_EQUALS",
	OpGreaterThan:             "GREATER_THAN",
	OpGreaterThanOrEquals:     "GREATER_THAN_OR_EQUALS",
	OpLessThan:                "LESS_THAN",
	OpLessThanOrEquals:        "LESS_THAN_OR_EQUALS",
	OpLike:                    "LIKE",
	OpNotLike:                 "NOT_LIKE",
	OpContainsText:            "CONTAINS",
	OpNotContainsText:         "NOT_CONTAINS",
	OpStartsWith:              "STARTS_WITH",
	OpEndsWith:                "ENDS_WITH",
	OpEqualsIgnoreCase:        "EQUALS_IGNORE_CASE",
	OpNotEqualsIgnoreCase:     "NOT_EQUALS_IGNORE_CASE",
	OpIsNull:                  "IS_NULL",
	OpIsNotNull:               "IS_NOT_NULL",
	OpIn:                      "IN",
	OpNotIn:                   "NOT_IN",
	OpBetween:                 "BETWEEN",
	OpNotBetween:              "NOT_BETWEEN",
	OpMatchesRegex:            "MATCHES_REGEX",
	OpSetContains:             "SET_CONTAINS",
	OpSetNotContains:          "SET_NOT_CONTAINS",
	OpSetContainsAny:          "SET_CONTAINS_ANY",
	OpSetContainsAll:          "SET_CONTAINS_ALL",
	OpSetNotContainsAny:       "SET_NOT_CONTAINS_ANY",
	OpSetNotContainsAll:       "SET_NOT_CONTAINS_ALL",
	OpDocContains:             "DOC_CONTAINS",
	OpDocNotContains:          "DOC_NOT_CONTAINS",
	OpDocValueEquals:          "DOC_VALUE_EQUALS",
	OpDocValueNotEquals:       "DOC_VALUE_NOT_EQUALS",
	OpDocArrayContains:        "DOC_ARRAY_CONTAINS",
	OpDocArrayNotContains:     "DOC_ARRAY_NOT_CONTAINS",
	OpDocArrayContainsAny:     "DOC_ARRAY_CONTAINS_ANY",
	OpDocArrayContainsAll:     "DOC_ARRAY_CONTAINS_ALL",
	OpDocArrayNotContainsAny:  "DOC_ARRAY_NOT_CONTAINS_ANY",
	OpDocArrayNotContainsAll:  "DOC_ARRAY_NOT_CONTAINS_ALL",
	OpArrayEquals:             "ARRAY_EQUALS",
	OpArrayNotEquals:          "ARRAY_NOT_EQUALS",
	OpArrayEqualsUnordered:    "ARRAY_EQUALS_UNORDERED",
	OpArrayNotEqualsUnordered: "ARRAY_NOT_EQUALS_UNORDERED",
}

// String returns the symbolic name of the operator for error messages and logs.
func (o Operator) String() string {
	if o >= 0 && int(o) < len(operatorNames) && operatorNames[o] != "" {
		return operatorNames[o]
	}
	return fmt.Sprintf("Operator(%d)", int(o))
}

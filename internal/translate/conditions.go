package translate

import (
	"fmt"
	"strings"

	"github.com/coregx/criteria/internal/tree"
)

// ConditionBuilder renders logical groups and keyset-cursor conditions into
// bracketed fragments. It serves both the root WHERE clause and every join's
// ON clause, each under its own alias.
type ConditionBuilder struct {
	fragments *FragmentBuilder
}

// NewConditionBuilder creates a condition builder on top of the given
// fragment builder.
func NewConditionBuilder(fragments *FragmentBuilder) *ConditionBuilder {
	return &ConditionBuilder{fragments: fragments}
}

// BuildGroup renders a filter group in insertion order. The first item of a
// bracket carries no connective, subsequent items join with the group's
// logical operator, and nested groups keep their own brackets so that
// (A AND B) OR C never flattens to A AND B OR C.
func (cb *ConditionBuilder) BuildGroup(alias string, group *tree.FilterGroup) (Fragment, error) {
	if group == nil || len(group.Items) == 0 {
		return Fragment{}, nil
	}

	frag := newFragment("")
	var sb strings.Builder

	for _, item := range group.Items {
		var part Fragment
		var err error

		switch node := item.(type) {
		case *tree.Filter:
			part, err = cb.fragments.Build(alias, node)
		case *tree.FilterGroup:
			part, err = cb.BuildGroup(alias, node)
			if err == nil && !part.Empty() {
				part.SQL = "(" + part.SQL + ")"
			}
		default:
			err = fmt.Errorf("unsupported expression node %T", item)
		}
		if err != nil {
			return Fragment{}, err
		}
		if part.Empty() {
			continue
		}

		if sb.Len() > 0 {
			sb.WriteString(" ")
			sb.WriteString(string(group.Logic))
			sb.WriteString(" ")
		}
		sb.WriteString(part.SQL)
		frag = frag.merge(part)
	}

	frag.SQL = sb.String()
	return frag, nil
}

// cursorField is one field of a merged keyset cursor, tagged with the alias
// it was recorded under.
type cursorField struct {
	Alias string
	Field string
	Value interface{}
}

// BuildCursor renders the keyset condition for one or two cursor fields.
// Null ordering follows nulls-last semantics in both directions: nulls sit
// past every non-null value when paging forward and count as smallest when
// paging backward.
func (cb *ConditionBuilder) BuildCursor(fields []cursorField, compare tree.CursorCompare) (Fragment, error) {
	cmp := ">"
	if compare == tree.CursorBefore {
		cmp = "<"
	}

	switch len(fields) {
	case 1:
		return cb.buildSingleCursor(fields[0], compare, cmp)
	case 2:
		return cb.buildCompositeCursor(fields[0], fields[1], cmp)
	default:
		return Fragment{}, fmt.Errorf("%w: expected 1 or 2 cursor fields, got %d",
			ErrMalformedCursor, len(fields))
	}
}

func (cb *ConditionBuilder) buildSingleCursor(field cursorField, compare tree.CursorCompare, cmp string) (Fragment, error) {
	col := cb.fragments.column(field.Alias, field.Field)

	if field.Value == nil {
		if compare == tree.CursorAfter {
			// Everything non-null sorts past a null tail value.
			return Fragment{SQL: col + " IS NOT NULL"}, nil
		}
		// Nothing sorts below null at the tail.
		return Fragment{SQL: "1 = 0"}, nil
	}

	name := cb.fragments.params.Next()
	frag := newFragment(col + " " + cmp + " " + token(name))
	return frag.bind(name, field.Value), nil
}

func (cb *ConditionBuilder) buildCompositeCursor(primary, tie cursorField, cmp string) (Fragment, error) {
	pcol := cb.fragments.column(primary.Alias, primary.Field)
	tcol := cb.fragments.column(tie.Alias, tie.Field)

	if primary.Value == nil {
		// Only rows inside the null block of the primary sort key remain;
		// the tie-breaker alone decides.
		tieName := cb.fragments.params.Next()
		frag := newFragment("(" + pcol + " IS NULL AND " + tcol + " " + cmp + " " + token(tieName) + ")")
		return frag.bind(tieName, tie.Value), nil
	}

	cmpName := cb.fragments.params.Next()
	eqName := cb.fragments.params.Next()
	tieName := cb.fragments.params.Next()
	frag := newFragment("(" +
		pcol + " " + cmp + " " + token(cmpName) +
		" OR (" + pcol + " = " + token(eqName) + " AND " + tcol + " " + cmp + " " + token(tieName) + ")" +
		" OR " + pcol + " IS NULL)")
	return frag.bind(cmpName, primary.Value).bind(eqName, primary.Value).bind(tieName, tie.Value), nil
}

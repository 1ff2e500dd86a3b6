package translate

import (
	"fmt"
	"sort"

	"github.com/coregx/criteria/internal/tree"
)

// stateOrder is an ORDER BY entry tagged with the alias it was recorded under.
type stateOrder struct {
	Alias string
	Order tree.Order
}

// QueryState is the per-translation mutable accumulator: pending SELECT
// fields, ORDER BY entries, cursor parts and finalization flags. It has a
// single owner (the Translator) and is passed by reference through one
// translation call tree; it must be Reset before every translation and never
// shared across translations.
type QueryState struct {
	selects   []string
	selectSet map[string]struct{}

	orders []stateOrder

	cursorSet     bool
	cursorDir     tree.Direction
	cursorCompare tree.CursorCompare
	cursorParts   []cursorField
	cursorSeqs    []int

	deferred []string

	hasWhere      bool
	cursorApplied bool
}

// NewQueryState creates an empty accumulator.
func NewQueryState() *QueryState {
	s := &QueryState{}
	s.Reset()
	return s
}

// Reset discards all accumulated state. Called exactly once at the start of
// each translation.
func (s *QueryState) Reset() {
	s.selects = nil
	s.selectSet = make(map[string]struct{})
	s.orders = nil
	s.cursorSet = false
	s.cursorParts = nil
	s.cursorSeqs = nil
	s.deferred = nil
	s.hasWhere = false
	s.cursorApplied = false
}

// AddSelect records fields for the final SELECT list, deduplicated and in
// first-seen order.
func (s *QueryState) AddSelect(fields ...string) {
	for _, field := range fields {
		if _, seen := s.selectSet[field]; seen {
			continue
		}
		s.selectSet[field] = struct{}{}
		s.selects = append(s.selects, field)
	}
}

// Selects returns the accumulated SELECT list.
func (s *QueryState) Selects() []string {
	return s.selects
}

// AddOrder records an ORDER BY entry under the alias it was visited for.
func (s *QueryState) AddOrder(alias string, order tree.Order) {
	s.orders = append(s.orders, stateOrder{Alias: alias, Order: order})
}

// SortedOrders returns all recorded entries sorted by sequence id, yielding
// one global ORDER BY sequence spanning root and joined entities.
func (s *QueryState) SortedOrders() []stateOrder {
	sorted := make([]stateOrder, len(s.orders))
	copy(sorted, s.orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order.Sequence < sorted[j].Order.Sequence
	})
	return sorted
}

// AddCursor merges one entity's cursor into the combined cursor. All merged
// parts must agree on direction and comparison; a mismatch is a validation
// failure raised here, before any fragment is built.
func (s *QueryState) AddCursor(alias string, cursor *tree.Cursor) error {
	if cursor == nil || len(cursor.Parts) == 0 {
		return nil
	}

	if !s.cursorSet {
		s.cursorSet = true
		s.cursorDir = cursor.Direction
		s.cursorCompare = cursor.Compare
	} else if s.cursorDir != cursor.Direction || s.cursorCompare != cursor.Compare {
		return fmt.Errorf("%w: parts recorded under %q disagree on direction or comparison",
			ErrMalformedCursor, alias)
	}

	for _, part := range cursor.Parts {
		s.cursorParts = append(s.cursorParts, cursorField{
			Alias: alias,
			Field: part.Field,
			Value: part.Value,
		})
		s.cursorSeqs = append(s.cursorSeqs, part.Sequence)
	}
	return nil
}

// HasCursor reports whether any cursor parts have been recorded.
func (s *QueryState) HasCursor() bool {
	return len(s.cursorParts) > 0
}

// MergedCursor returns the combined cursor fields sorted by sequence id,
// validating that the composite holds at most a primary sort key and one
// tie-breaker.
func (s *QueryState) MergedCursor() ([]cursorField, tree.CursorCompare, error) {
	if len(s.cursorParts) == 0 {
		return nil, s.cursorCompare, nil
	}
	if len(s.cursorParts) > 2 {
		return nil, s.cursorCompare, fmt.Errorf("%w: combined cursor has %d fields, at most 2 allowed",
			ErrMalformedCursor, len(s.cursorParts))
	}

	indexes := make([]int, len(s.cursorParts))
	for i := range indexes {
		indexes[i] = i
	}
	sort.SliceStable(indexes, func(i, j int) bool {
		return s.cursorSeqs[indexes[i]] < s.cursorSeqs[indexes[j]]
	})

	merged := make([]cursorField, len(indexes))
	for i, idx := range indexes {
		merged[i] = s.cursorParts[idx]
	}
	return merged, s.cursorCompare, nil
}

// DeferIdentifierLoad records a relation path for the single combined
// identifier-loading request issued after the full tree has been visited.
func (s *QueryState) DeferIdentifierLoad(path string) {
	s.deferred = append(s.deferred, path)
}

// DeferredPaths returns the relation paths awaiting identifier loading.
func (s *QueryState) DeferredPaths() []string {
	return s.deferred
}

// MarkWhere records that a WHERE condition has been emitted, so the cursor
// condition merges with AND instead of opening the clause.
func (s *QueryState) MarkWhere() {
	s.hasWhere = true
}

// HasWhere reports whether a WHERE condition has been emitted.
func (s *QueryState) HasWhere() bool {
	return s.hasWhere
}

// MarkCursorApplied records that the cursor condition has been rendered.
func (s *QueryState) MarkCursorApplied() {
	s.cursorApplied = true
}

// CursorApplied reports whether the cursor condition has been rendered.
func (s *QueryState) CursorApplied() bool {
	return s.cursorApplied
}

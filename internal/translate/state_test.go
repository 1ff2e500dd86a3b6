package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/criteria/internal/tree"
)

func TestQueryState_AddSelect(t *testing.T) {
	s := NewQueryState()
	s.AddSelect("u", "u.id")
	s.AddSelect("u.id", "b.id")
	s.AddSelect("u")

	assert.Equal(t, []string{"u", "u.id", "b.id"}, s.Selects())
}

func TestQueryState_SortedOrders(t *testing.T) {
	s := NewQueryState()
	// Orders arrive grouped by alias as the tree is visited, but carry a
	// global sequence id.
	s.AddOrder("u", tree.Order{Field: "name", Direction: tree.Ascending, Sequence: 2})
	s.AddOrder("u", tree.Order{Field: "id", Direction: tree.Ascending, Sequence: 0})
	s.AddOrder("b", tree.Order{Field: "title", Direction: tree.Descending, Sequence: 1})

	sorted := s.SortedOrders()
	require.Len(t, sorted, 3)
	assert.Equal(t, "id", sorted[0].Order.Field)
	assert.Equal(t, "u", sorted[0].Alias)
	assert.Equal(t, "title", sorted[1].Order.Field)
	assert.Equal(t, "b", sorted[1].Alias)
	assert.Equal(t, "name", sorted[2].Order.Field)
}

func TestQueryState_AddCursor(t *testing.T) {
	t.Run("merges parts across aliases by sequence", func(t *testing.T) {
		s := NewQueryState()
		require.NoError(t, s.AddCursor("b", &tree.Cursor{
			Direction: tree.Ascending,
			Compare:   tree.CursorAfter,
			Parts:     []tree.CursorPart{{Field: "id", Value: 7, Sequence: 1}},
		}))
		require.NoError(t, s.AddCursor("u", &tree.Cursor{
			Direction: tree.Ascending,
			Compare:   tree.CursorAfter,
			Parts:     []tree.CursorPart{{Field: "name", Value: "x", Sequence: 0}},
		}))

		merged, compare, err := s.MergedCursor()
		require.NoError(t, err)
		assert.Equal(t, tree.CursorAfter, compare)
		require.Len(t, merged, 2)
		assert.Equal(t, "name", merged[0].Field)
		assert.Equal(t, "u", merged[0].Alias)
		assert.Equal(t, "id", merged[1].Field)
		assert.Equal(t, "b", merged[1].Alias)
	})

	t.Run("rejects direction mismatch", func(t *testing.T) {
		s := NewQueryState()
		require.NoError(t, s.AddCursor("u", &tree.Cursor{
			Direction: tree.Ascending,
			Compare:   tree.CursorAfter,
			Parts:     []tree.CursorPart{{Field: "name", Sequence: 0}},
		}))
		err := s.AddCursor("b", &tree.Cursor{
			Direction: tree.Descending,
			Compare:   tree.CursorAfter,
			Parts:     []tree.CursorPart{{Field: "id", Sequence: 1}},
		})
		assert.ErrorIs(t, err, ErrMalformedCursor)
	})

	t.Run("rejects comparison mismatch", func(t *testing.T) {
		s := NewQueryState()
		require.NoError(t, s.AddCursor("u", &tree.Cursor{
			Direction: tree.Ascending,
			Compare:   tree.CursorAfter,
			Parts:     []tree.CursorPart{{Field: "name", Sequence: 0}},
		}))
		err := s.AddCursor("b", &tree.Cursor{
			Direction: tree.Ascending,
			Compare:   tree.CursorBefore,
			Parts:     []tree.CursorPart{{Field: "id", Sequence: 1}},
		})
		assert.ErrorIs(t, err, ErrMalformedCursor)
	})

	t.Run("nil and empty cursors are ignored", func(t *testing.T) {
		s := NewQueryState()
		require.NoError(t, s.AddCursor("u", nil))
		require.NoError(t, s.AddCursor("u", &tree.Cursor{}))
		assert.False(t, s.HasCursor())
	})

	t.Run("more than two combined fields fails at merge", func(t *testing.T) {
		s := NewQueryState()
		require.NoError(t, s.AddCursor("u", &tree.Cursor{
			Direction: tree.Ascending,
			Compare:   tree.CursorAfter,
			Parts: []tree.CursorPart{
				{Field: "a", Sequence: 0},
				{Field: "b", Sequence: 1},
			},
		}))
		require.NoError(t, s.AddCursor("b", &tree.Cursor{
			Direction: tree.Ascending,
			Compare:   tree.CursorAfter,
			Parts:     []tree.CursorPart{{Field: "c", Sequence: 2}},
		}))
		_, _, err := s.MergedCursor()
		assert.ErrorIs(t, err, ErrMalformedCursor)
	})
}

func TestQueryState_Flags(t *testing.T) {
	s := NewQueryState()
	assert.False(t, s.HasWhere())
	assert.False(t, s.CursorApplied())

	s.MarkWhere()
	s.MarkCursorApplied()
	s.DeferIdentifierLoad("u.books")
	s.DeferIdentifierLoad("u.books.publisher")

	assert.True(t, s.HasWhere())
	assert.True(t, s.CursorApplied())
	assert.Equal(t, []string{"u.books", "u.books.publisher"}, s.DeferredPaths())

	s.Reset()
	assert.False(t, s.HasWhere())
	assert.False(t, s.CursorApplied())
	assert.Empty(t, s.DeferredPaths())
	assert.Empty(t, s.Selects())
	assert.False(t, s.HasCursor())
}

package sqlbuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/criteria/internal/dialects"
	"github.com/coregx/criteria/internal/tree"
)

func newTestSchema() Schema {
	return Schema{
		"authors.books": {
			Table:         "books",
			LocalColumn:   "id",
			ForeignColumn: "author_id",
		},
		"books.publisher": {
			Table:         "publishers",
			LocalColumn:   "publisher_id",
			ForeignColumn: "id",
		},
		"books.genres": {
			Table:         "genres",
			LocalColumn:   "id",
			ForeignColumn: "id",
			Pivot: &Pivot{
				Table:          "book_genres",
				LocalColumn:    "book_id",
				RelationColumn: "genre_id",
			},
		},
	}
}

func newPostgresBuilder() *Builder {
	return NewBuilder(dialects.GetDialect("postgres"), "authors", "author", "id", newTestSchema())
}

func TestBuilder_DefaultSelect(t *testing.T) {
	b := newPostgresBuilder()
	query, args, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, `SELECT "author".* FROM "authors" "author"`, query)
	assert.Empty(t, args)
}

func TestBuilder_WhereAssembly(t *testing.T) {
	b := newPostgresBuilder()
	b.AddWhere(`"author"."name" = {:p0}`, map[string]interface{}{"p0": "herbert"})
	b.AndWhere(`"author"."id" > {:p1}`, map[string]interface{}{"p1": 42})

	query, args, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT "author".* FROM "authors" "author" WHERE ("author"."name" = $1) AND ("author"."id" > $2)`,
		query)
	assert.Equal(t, []interface{}{"herbert", 42}, args)
}

func TestBuilder_PlaceholdersFollowAppearanceOrder(t *testing.T) {
	// Tokens number by position in the assembled SQL, not by parameter name.
	b := newPostgresBuilder()
	b.AddWhere(`"author"."b" = {:p1} AND "author"."a" = {:p0}`,
		map[string]interface{}{"p0": "first", "p1": "second"})

	query, args, err := b.Build()
	require.NoError(t, err)
	assert.Contains(t, query, `"author"."b" = $1 AND "author"."a" = $2`)
	assert.Equal(t, []interface{}{"second", "first"}, args)
}

func TestBuilder_ListParamExpansion(t *testing.T) {
	b := newPostgresBuilder()
	b.AddWhere(`"author"."id" IN ({:p0}) AND "author"."active" = {:p1}`,
		map[string]interface{}{
			"p0": []interface{}{1, 2, 3},
			"p1": true,
		})

	query, args, err := b.Build()
	require.NoError(t, err)
	assert.Contains(t, query, `"author"."id" IN ($1, $2, $3) AND "author"."active" = $4`)
	assert.Equal(t, []interface{}{1, 2, 3, true}, args)
}

func TestBuilder_MissingParam(t *testing.T) {
	b := newPostgresBuilder()
	b.AddWhere(`"author"."name" = {:nope}`, nil)

	_, _, err := b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestBuilder_JoinRendering(t *testing.T) {
	t.Run("plain relation", func(t *testing.T) {
		b := newPostgresBuilder()
		b.AddLeftJoin("author.books", "books", `"books"."year" > {:p0}`,
			map[string]interface{}{"p0": 2000})

		query, args, err := b.Build()
		require.NoError(t, err)
		assert.Contains(t, query,
			`LEFT JOIN "books" "books" ON "books"."author_id" = "author"."id" AND ("books"."year" > $1)`)
		assert.Equal(t, []interface{}{2000}, args)
	})

	t.Run("nested relation resolves through joined alias", func(t *testing.T) {
		b := newPostgresBuilder()
		b.AddInnerJoin("author.books", "books", "", nil)
		b.AddInnerJoin("books.publisher", "publisher", "", nil)

		query, _, err := b.Build()
		require.NoError(t, err)
		assert.Contains(t, query, `INNER JOIN "books" "books" ON "books"."author_id" = "author"."id"`)
		assert.Contains(t, query, `INNER JOIN "publishers" "publisher" ON "publisher"."id" = "books"."publisher_id"`)
	})

	t.Run("many-to-many renders the pivot hop first", func(t *testing.T) {
		b := newPostgresBuilder()
		b.AddInnerJoin("author.books", "books", "", nil)
		b.AddLeftJoin("books.genres", "genres", "", nil)

		query, _, err := b.Build()
		require.NoError(t, err)
		assert.Contains(t, query,
			`LEFT JOIN "book_genres" "genres_pivot" ON "genres_pivot"."book_id" = "books"."id"`)
		assert.Contains(t, query,
			`LEFT JOIN "genres" "genres" ON "genres"."id" = "genres_pivot"."genre_id"`)
	})

	t.Run("unknown relation surfaces at build time", func(t *testing.T) {
		b := newPostgresBuilder()
		b.AddInnerJoin("author.pets", "pets", "", nil)

		_, _, err := b.Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pets")
	})

	t.Run("unbound parent alias surfaces at build time", func(t *testing.T) {
		b := newPostgresBuilder()
		b.AddInnerJoin("ghost.books", "books", "", nil)

		_, _, err := b.Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ghost")
	})
}

func TestBuilder_SelectOrderAndPagination(t *testing.T) {
	b := newPostgresBuilder()
	b.AddSelect([]string{"author", "author.id", "books.title"})
	b.AddOrderBy("author.name", tree.Ascending, tree.NullsLast)
	b.AddOrderBy("books.title", tree.Descending, tree.NullsDefault)
	b.SetLimit(10)
	b.SetOffset(20)

	query, _, err := b.Build()
	require.NoError(t, err)
	assert.Contains(t, query, `SELECT "author".*, "author"."id", "books"."title" FROM`)
	assert.Contains(t, query, `ORDER BY "author"."name" ASC NULLS LAST, "books"."title" DESC`)
	assert.Contains(t, query, "LIMIT 10 OFFSET 20")
}

func TestBuilder_ZeroLimit(t *testing.T) {
	b := newPostgresBuilder()
	b.SetLimit(0)

	query, _, err := b.Build()
	require.NoError(t, err)
	assert.Contains(t, query, "LIMIT 0")
}

func TestBuilder_DeferredPaths(t *testing.T) {
	b := newPostgresBuilder()
	b.LoadRelatedIdentifiers([]string{"books", "books.publisher"})
	assert.Equal(t, []string{"books", "books.publisher"}, b.DeferredPaths())
}

func TestBuilder_IdentifierQuery(t *testing.T) {
	t.Run("single hop", func(t *testing.T) {
		b := newPostgresBuilder()
		query, err := b.IdentifierQuery("books")
		require.NoError(t, err)
		assert.Equal(t,
			`SELECT "author"."id", "r0"."id" FROM "authors" "author" `+
				`INNER JOIN "books" "r0" ON "r0"."author_id" = "author"."id"`,
			query)
	})

	t.Run("multi hop", func(t *testing.T) {
		b := newPostgresBuilder()
		query, err := b.IdentifierQuery("books.publisher")
		require.NoError(t, err)
		assert.Contains(t, query, `INNER JOIN "books" "r0" ON "r0"."author_id" = "author"."id"`)
		assert.Contains(t, query, `INNER JOIN "publishers" "r1" ON "r1"."id" = "r0"."publisher_id"`)
		assert.Contains(t, query, `SELECT "author"."id", "r1"."id"`)
	})

	t.Run("pivot hop", func(t *testing.T) {
		b := newPostgresBuilder()
		query, err := b.IdentifierQuery("books.genres")
		require.NoError(t, err)
		assert.Contains(t, query, `INNER JOIN "book_genres" "r1_pivot" ON "r1_pivot"."book_id" = "r0"."id"`)
		assert.Contains(t, query, `INNER JOIN "genres" "r1" ON "r1"."id" = "r1_pivot"."genre_id"`)
	})

	t.Run("unknown path", func(t *testing.T) {
		b := newPostgresBuilder()
		_, err := b.IdentifierQuery("pets")
		require.Error(t, err)
	})
}

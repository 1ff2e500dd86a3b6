package dialects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetDialect(t *testing.T) {
	assert.IsType(t, &PostgresDialect{}, GetDialect("postgres"))
	assert.IsType(t, &PostgresDialect{}, GetDialect("postgresql"))
	assert.IsType(t, &MySQLDialect{}, GetDialect("mysql"))
	assert.IsType(t, &SQLiteDialect{}, GetDialect("sqlite"))
	assert.IsType(t, &SQLiteDialect{}, GetDialect("sqlite3"))

	assert.Panics(t, func() { GetDialect("oracle") })
}

func TestPostgresDialect(t *testing.T) {
	d := &PostgresDialect{}

	assert.Equal(t, `"users"`, d.QuoteIdentifier("users"))
	assert.Equal(t, `"we""ird"`, d.QuoteIdentifier(`we"ird`))
	assert.Equal(t, "$1", d.Placeholder(1))
	assert.Equal(t, "$12", d.Placeholder(12))
	assert.Equal(t, "ILIKE", d.CaseInsensitiveLike())

	op, ok := d.RegexpOperator()
	assert.True(t, ok)
	assert.Equal(t, "~", op)

	assert.True(t, d.SupportsArrayOps())
	assert.True(t, d.SupportsDocumentOps())
}

func TestMySQLDialect(t *testing.T) {
	d := &MySQLDialect{}

	assert.Equal(t, "`users`", d.QuoteIdentifier("users"))
	assert.Equal(t, "?", d.Placeholder(1))
	assert.Equal(t, "?", d.Placeholder(5))
	assert.Equal(t, "LIKE", d.CaseInsensitiveLike())

	op, ok := d.RegexpOperator()
	assert.True(t, ok)
	assert.Equal(t, "REGEXP", op)

	assert.False(t, d.SupportsArrayOps())
	assert.False(t, d.SupportsDocumentOps())
}

func TestSQLiteDialect(t *testing.T) {
	d := &SQLiteDialect{}

	assert.Equal(t, `"users"`, d.QuoteIdentifier("users"))
	assert.Equal(t, "?", d.Placeholder(1))
	assert.Equal(t, "LIKE", d.CaseInsensitiveLike())

	_, ok := d.RegexpOperator()
	assert.False(t, ok)

	assert.False(t, d.SupportsArrayOps())
	assert.False(t, d.SupportsDocumentOps())
}

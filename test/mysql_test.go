//go:build integration
// +build integration

package test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/criteria"
)

func setupMySQL(t *testing.T) *sql.DB {
	db := openTestDB(t, "mysql", "MYSQL_TEST_DSN")

	mustExec(t, db,
		`DROP TABLE IF EXISTS my_users`,
		"CREATE TABLE my_users ("+
			"id INT AUTO_INCREMENT PRIMARY KEY, "+
			"name VARCHAR(100) NOT NULL, "+
			"age INT NOT NULL, "+
			"city VARCHAR(100))",
		`INSERT INTO my_users (name, age, city) VALUES
			('Alice', 30, 'Berlin'),
			('Bob', 25, 'Paris'),
			('Carol', 35, NULL)`,
	)
	t.Cleanup(func() { db.Exec(`DROP TABLE IF EXISTS my_users`) })
	return db
}

func queryMySQLNames(t *testing.T, db *sql.DB, c *criteria.Criteria) []string {
	t.Helper()

	dialect := criteria.GetDialect("mysql")
	builder := criteria.NewBuilder(dialect, "my_users", "u", "id", nil)
	tr := criteria.New(dialect)
	require.NoError(t, tr.Translate(context.Background(), c, builder))

	query, args, err := builder.Build()
	require.NoError(t, err)

	rows, err := db.Query(query, args...)
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var id int
		var name string
		var age int
		var city sql.NullString
		var id2 int
		var name2 string
		require.NoError(t, rows.Scan(&id, &name, &age, &city, &id2, &name2))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	return names
}

func newMySQLCriteria() *criteria.Criteria {
	c := criteria.NewCriteria("u", "id")
	c.Fields = []string{"name"}
	c.Orders = []criteria.Order{{Field: "id", Direction: criteria.Ascending, Sequence: 0}}
	return c
}

func TestMySQL_BasicFilters(t *testing.T) {
	db := setupMySQL(t)

	c := newMySQLCriteria()
	c.Root = criteria.Or(
		criteria.And(
			criteria.GreaterThan("age", 26),
			criteria.NotEq("name", "Carol"),
		),
		criteria.Eq("city", "Paris"),
	)

	assert.Equal(t, []string{"Alice", "Bob"}, queryMySQLNames(t, db, c))
}

func TestMySQL_NullChecks(t *testing.T) {
	db := setupMySQL(t)

	c := newMySQLCriteria()
	c.Root = criteria.And(criteria.IsNull("city"))

	assert.Equal(t, []string{"Carol"}, queryMySQLNames(t, db, c))
}

func TestMySQL_Regexp(t *testing.T) {
	db := setupMySQL(t)

	c := newMySQLCriteria()
	c.Root = criteria.And(criteria.NewFilter("name", criteria.OpMatchesRegex, "^A"))

	assert.Equal(t, []string{"Alice"}, queryMySQLNames(t, db, c))
}

func TestMySQL_ArrayOpsRejected(t *testing.T) {
	setupMySQL(t)

	dialect := criteria.GetDialect("mysql")
	builder := criteria.NewBuilder(dialect, "my_users", "u", "id", nil)
	tr := criteria.New(dialect)

	c := newMySQLCriteria()
	c.Root = criteria.And(criteria.NewFilter("tags", criteria.OpSetContains, "x"))

	err := tr.Translate(context.Background(), c, builder)
	assert.ErrorIs(t, err, criteria.ErrDialectCapability)
}

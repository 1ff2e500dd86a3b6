// Package sqlbuilder provides a concrete backend for the criteria translation
// engine: it accumulates the engine's where/join/select/order calls, resolves
// relationships through a schema map, converts named parameter tokens into
// dialect positional placeholders, and renders an executable SELECT statement.
package sqlbuilder

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/coregx/criteria/internal/dialects"
	"github.com/coregx/criteria/internal/tree"
)

// Relation describes how a named relationship maps to its target table.
type Relation struct {
	Table         string // target table
	LocalColumn   string // join column on the parent side
	ForeignColumn string // join column on the target side
	IDColumn      string // target identifier column, "id" when empty
	Pivot         *Pivot // set for many-to-many relations
}

// Pivot describes the intermediate table of a many-to-many relation.
type Pivot struct {
	Table          string
	LocalColumn    string // pivot column referencing the parent
	RelationColumn string // pivot column referencing the target
}

// Schema maps "table.relation" keys to relation descriptors. It stands in for
// the external entity-mapping layer: the builder consults it to render the
// field equality behind every join.
type Schema map[string]Relation

type whereClause struct {
	connective string // "", "AND" or "OR"
	sql        string
}

type joinClause struct {
	sql string
}

// Builder implements the engine's Backend interface and assembles the final
// SQL. Like the translator it serves one translation; create a new Builder
// per query.
type Builder struct {
	dialect     dialects.Dialect
	schema      Schema
	rootTable   string
	rootAlias   string
	rootID      string
	aliasTables map[string]string

	selects  []string
	joins    []joinClause
	wheres   []whereClause
	params   map[string]interface{}
	orders   []string
	limit    int
	offset   int
	hasLimit bool
	hasSkip  bool
	deferred []string

	errs []error
}

// NewBuilder creates a builder querying rootTable under rootAlias. rootID is
// the root identifier column used by deferred identifier queries.
func NewBuilder(dialect dialects.Dialect, rootTable, rootAlias, rootID string, schema Schema) *Builder {
	return &Builder{
		dialect:     dialect,
		schema:      schema,
		rootTable:   rootTable,
		rootAlias:   rootAlias,
		rootID:      rootID,
		aliasTables: map[string]string{rootAlias: rootTable},
		params:      make(map[string]interface{}),
	}
}

// AddWhere opens the WHERE clause with a condition fragment.
func (b *Builder) AddWhere(condition string, params map[string]interface{}) {
	b.wheres = append(b.wheres, whereClause{connective: "", sql: condition})
	b.mergeParams(params)
}

// AndWhere appends a condition fragment with AND.
func (b *Builder) AndWhere(condition string, params map[string]interface{}) {
	b.wheres = append(b.wheres, whereClause{connective: "AND", sql: condition})
	b.mergeParams(params)
}

// OrWhere appends a condition fragment with OR.
func (b *Builder) OrWhere(condition string, params map[string]interface{}) {
	b.wheres = append(b.wheres, whereClause{connective: "OR", sql: condition})
	b.mergeParams(params)
}

// AddInnerJoin emits an INNER JOIN for the relation behind target
// ("parentAlias.relation") under the given alias.
func (b *Builder) AddInnerJoin(target, alias, condition string, params map[string]interface{}) {
	b.join("INNER", target, alias, condition, params)
}

// AddLeftJoin emits a LEFT JOIN for the relation behind target.
func (b *Builder) AddLeftJoin(target, alias, condition string, params map[string]interface{}) {
	b.join("LEFT", target, alias, condition, params)
}

// join resolves the relation and renders the join clause, including the pivot
// hop for many-to-many relations. Backend calls return nothing, so resolution
// failures surface at Build time.
func (b *Builder) join(kind, target, alias, condition string, params map[string]interface{}) {
	parentAlias, relation, ok := strings.Cut(target, ".")
	if !ok {
		b.errs = append(b.errs, fmt.Errorf("invalid join target %q", target))
		return
	}
	parentTable, ok := b.aliasTables[parentAlias]
	if !ok {
		b.errs = append(b.errs, fmt.Errorf("join target %q references unbound alias %q", target, parentAlias))
		return
	}
	rel, ok := b.schema[parentTable+"."+relation]
	if !ok {
		b.errs = append(b.errs, fmt.Errorf("relation %q of table %q not found in schema", relation, parentTable))
		return
	}
	b.aliasTables[alias] = rel.Table

	q := b.dialect.QuoteIdentifier
	if rel.Pivot != nil {
		pivotAlias := alias + "_pivot"
		b.joins = append(b.joins, joinClause{sql: kind + " JOIN " + q(rel.Pivot.Table) + " " + q(pivotAlias) +
			" ON " + q(pivotAlias) + "." + q(rel.Pivot.LocalColumn) + " = " + q(parentAlias) + "." + q(rel.LocalColumn)})

		on := q(alias) + "." + q(rel.ForeignColumn) + " = " + q(pivotAlias) + "." + q(rel.Pivot.RelationColumn)
		if condition != "" {
			on += " AND (" + condition + ")"
		}
		b.joins = append(b.joins, joinClause{sql: kind + " JOIN " + q(rel.Table) + " " + q(alias) + " ON " + on})
	} else {
		on := q(alias) + "." + q(rel.ForeignColumn) + " = " + q(parentAlias) + "." + q(rel.LocalColumn)
		if condition != "" {
			on += " AND (" + condition + ")"
		}
		b.joins = append(b.joins, joinClause{sql: kind + " JOIN " + q(rel.Table) + " " + q(alias) + " ON " + on})
	}
	b.mergeParams(params)
}

// AddSelect records the SELECT entries. A bare alias expands to alias.* at
// render time; "alias.field" entries select a single column.
func (b *Builder) AddSelect(fields []string) {
	b.selects = append(b.selects, fields...)
}

// AddOrderBy appends one ORDER BY entry.
func (b *Builder) AddOrderBy(field string, direction tree.Direction, nulls tree.NullPlacement) {
	entry := b.column(field) + " " + string(direction)
	switch nulls {
	case tree.NullsFirst:
		entry += " NULLS FIRST"
	case tree.NullsLast:
		entry += " NULLS LAST"
	}
	b.orders = append(b.orders, entry)
}

// SetLimit sets the LIMIT value.
func (b *Builder) SetLimit(limit int) {
	b.limit = limit
	b.hasLimit = true
}

// SetOffset sets the OFFSET value.
func (b *Builder) SetOffset(offset int) {
	b.offset = offset
	b.hasSkip = true
}

// LoadRelatedIdentifiers records the relation paths whose identifiers load in
// a secondary query after the main one.
func (b *Builder) LoadRelatedIdentifiers(paths []string) {
	b.deferred = append(b.deferred, paths...)
}

// DeferredPaths returns the relation paths recorded for identifier loading.
func (b *Builder) DeferredPaths() []string {
	return b.deferred
}

func (b *Builder) mergeParams(params map[string]interface{}) {
	for name, value := range params {
		b.params[name] = value
	}
}

// column quotes a possibly alias-qualified column reference.
func (b *Builder) column(field string) string {
	q := b.dialect.QuoteIdentifier
	if alias, name, ok := strings.Cut(field, "."); ok {
		return q(alias) + "." + q(name)
	}
	return q(field)
}

// Build renders the SELECT statement and its positional arguments.
func (b *Builder) Build() (string, []interface{}, error) {
	if len(b.errs) > 0 {
		return "", nil, b.errs[0]
	}

	q := b.dialect.QuoteIdentifier
	var sb strings.Builder

	sb.WriteString("SELECT ")
	if len(b.selects) == 0 {
		sb.WriteString(q(b.rootAlias) + ".*")
	} else {
		cols := make([]string, len(b.selects))
		for i, field := range b.selects {
			if strings.Contains(field, ".") {
				cols[i] = b.column(field)
			} else {
				cols[i] = q(field) + ".*"
			}
		}
		sb.WriteString(strings.Join(cols, ", "))
	}

	sb.WriteString(" FROM " + q(b.rootTable) + " " + q(b.rootAlias))

	for _, join := range b.joins {
		sb.WriteString(" " + join.sql)
	}

	for i, where := range b.wheres {
		if i == 0 {
			sb.WriteString(" WHERE (" + where.sql + ")")
		} else {
			sb.WriteString(" " + where.connective + " (" + where.sql + ")")
		}
	}

	if len(b.orders) > 0 {
		sb.WriteString(" ORDER BY " + strings.Join(b.orders, ", "))
	}
	if b.hasLimit {
		sb.WriteString(" LIMIT " + strconv.Itoa(b.limit))
	}
	if b.hasSkip {
		sb.WriteString(" OFFSET " + strconv.Itoa(b.offset))
	}

	return b.bindTokens(sb.String())
}

// tokenRegex matches named parameter tokens {:name} in assembled SQL.
var tokenRegex = regexp.MustCompile(`\{:(\w+)\}`)

// bindTokens replaces named tokens with dialect positional placeholders in
// order of appearance and collects the matching argument values. A list-valued
// parameter expands into one placeholder per element, which turns the engine's
// array-bound IN conditions into standard positional form.
func (b *Builder) bindTokens(query string) (string, []interface{}, error) {
	var args []interface{}
	var missing []string
	index := 0

	result := tokenRegex.ReplaceAllStringFunc(query, func(match string) string {
		name := match[2 : len(match)-1]
		value, ok := b.params[name]
		if !ok {
			missing = append(missing, name)
			return match
		}

		if elems, isList := value.([]interface{}); isList {
			placeholders := make([]string, len(elems))
			for i, elem := range elems {
				index++
				placeholders[i] = b.dialect.Placeholder(index)
				args = append(args, elem)
			}
			return strings.Join(placeholders, ", ")
		}

		index++
		args = append(args, value)
		return b.dialect.Placeholder(index)
	})

	if len(missing) > 0 {
		return "", nil, fmt.Errorf("missing parameter: %s", missing[0])
	}
	return result, args, nil
}

// Query builds and executes the statement.
func (b *Builder) Query(ctx context.Context, db *sql.DB) (*sql.Rows, error) {
	query, args, err := b.Build()
	if err != nil {
		return nil, err
	}
	return db.QueryContext(ctx, query, args...)
}

// IdentifierQuery renders the secondary statement loading related identifiers
// for one deferred relation path: the root identifier paired with the
// identifier column of the path's last hop.
func (b *Builder) IdentifierQuery(path string) (string, error) {
	q := b.dialect.QuoteIdentifier
	parentAlias := b.rootAlias
	parentTable := b.rootTable

	var joins []string
	var last Relation
	for i, segment := range strings.Split(path, ".") {
		rel, ok := b.schema[parentTable+"."+segment]
		if !ok {
			return "", fmt.Errorf("relation %q of table %q not found in schema", segment, parentTable)
		}
		alias := "r" + strconv.Itoa(i)
		if rel.Pivot != nil {
			pivotAlias := alias + "_pivot"
			joins = append(joins,
				"INNER JOIN "+q(rel.Pivot.Table)+" "+q(pivotAlias)+
					" ON "+q(pivotAlias)+"."+q(rel.Pivot.LocalColumn)+" = "+q(parentAlias)+"."+q(rel.LocalColumn),
				"INNER JOIN "+q(rel.Table)+" "+q(alias)+
					" ON "+q(alias)+"."+q(rel.ForeignColumn)+" = "+q(pivotAlias)+"."+q(rel.Pivot.RelationColumn))
		} else {
			joins = append(joins,
				"INNER JOIN "+q(rel.Table)+" "+q(alias)+
					" ON "+q(alias)+"."+q(rel.ForeignColumn)+" = "+q(parentAlias)+"."+q(rel.LocalColumn))
		}
		parentAlias = alias
		parentTable = rel.Table
		last = rel
	}

	idColumn := last.IDColumn
	if idColumn == "" {
		idColumn = "id"
	}
	return "SELECT " + q(b.rootAlias) + "." + q(b.rootID) + ", " +
		q(parentAlias) + "." + q(idColumn) +
		" FROM " + q(b.rootTable) + " " + q(b.rootAlias) + " " + strings.Join(joins, " "), nil
}

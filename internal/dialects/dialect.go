// Package dialects provides database-specific rendering rules for the
// criteria translation engine: identifier quoting, positional placeholders,
// and the capability surface for case-insensitive matching, regular
// expressions, native arrays and structured documents.
package dialects

// Dialect defines database-specific behaviors.
type Dialect interface {
	QuoteIdentifier(string) string
	Placeholder(int) string

	// CaseInsensitiveLike returns the operator used for case-insensitive
	// pattern matching (ILIKE on PostgreSQL, plain LIKE where collation
	// already folds case).
	CaseInsensitiveLike() string

	// RegexpOperator returns the regular-expression match operator and
	// whether the dialect supports one at all.
	RegexpOperator() (string, bool)

	// SupportsArrayOps reports whether native array columns and the
	// "value = ANY(column)" membership form are available.
	SupportsArrayOps() bool

	// SupportsDocumentOps reports whether structured-document containment
	// and path extraction are available.
	SupportsDocumentOps() bool
}

var dialects = make(map[string]Dialect)

// RegisterDialect registers a database dialect by driver name.
func RegisterDialect(name string, d Dialect) {
	dialects[name] = d
}

// GetDialect retrieves a registered dialect by driver name, panics if not found.
func GetDialect(name string) Dialect {
	if d, ok := dialects[name]; ok {
		return d
	}
	panic("unsupported dialect: " + name)
}

package dialects

import "strings"

// SQLiteDialect implements SQLite-specific SQL dialect.
type SQLiteDialect struct{}

func init() {
	RegisterDialect("sqlite", &SQLiteDialect{})
	RegisterDialect("sqlite3", &SQLiteDialect{})
}

// QuoteIdentifier quotes a SQLite identifier using double quotes.
func (d *SQLiteDialect) QuoteIdentifier(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Placeholder returns SQLite placeholder format (always ?).
func (d *SQLiteDialect) Placeholder(_ int) string {
	return "?"
}

// CaseInsensitiveLike returns LIKE; SQLite LIKE is case-insensitive for
// ASCII by default.
func (d *SQLiteDialect) CaseInsensitiveLike() string {
	return "LIKE"
}

// RegexpOperator reports no regex support; the REGEXP function requires a
// loadable extension the engine cannot assume.
func (d *SQLiteDialect) RegexpOperator() (string, bool) {
	return "", false
}

// SupportsArrayOps reports that SQLite has no native array columns.
func (d *SQLiteDialect) SupportsArrayOps() bool {
	return false
}

// SupportsDocumentOps reports that containment operators are unavailable.
func (d *SQLiteDialect) SupportsDocumentOps() bool {
	return false
}

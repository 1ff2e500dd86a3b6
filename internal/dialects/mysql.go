package dialects

import "strings"

// MySQLDialect implements MySQL-specific SQL dialect.
// Document and native-array operator families are not available; the engine
// surfaces an explicit capability error instead of approximating them.
type MySQLDialect struct{}

func init() {
	RegisterDialect("mysql", &MySQLDialect{})
}

// QuoteIdentifier quotes a MySQL identifier using backticks.
func (d *MySQLDialect) QuoteIdentifier(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}

// Placeholder returns MySQL placeholder format (always ?).
func (d *MySQLDialect) Placeholder(_ int) string {
	return "?"
}

// CaseInsensitiveLike returns LIKE; the default MySQL collations already
// compare case-insensitively.
func (d *MySQLDialect) CaseInsensitiveLike() string {
	return "LIKE"
}

// RegexpOperator returns the REGEXP operator.
func (d *MySQLDialect) RegexpOperator() (string, bool) {
	return "REGEXP", true
}

// SupportsArrayOps reports that MySQL has no native array columns.
func (d *MySQLDialect) SupportsArrayOps() bool {
	return false
}

// SupportsDocumentOps reports that JSONB-style containment is unavailable.
func (d *MySQLDialect) SupportsDocumentOps() bool {
	return false
}

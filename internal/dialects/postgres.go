package dialects

import (
	"fmt"
	"strings"
)

// PostgresDialect implements PostgreSQL-specific SQL dialect.
// It is the only dialect with full coverage of the document and native-array
// operator families.
type PostgresDialect struct{}

func init() {
	RegisterDialect("postgres", &PostgresDialect{})
	RegisterDialect("postgresql", &PostgresDialect{})
}

// QuoteIdentifier quotes a PostgreSQL identifier using double quotes.
func (d *PostgresDialect) QuoteIdentifier(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Placeholder returns PostgreSQL placeholder format ($1, $2, etc.).
func (d *PostgresDialect) Placeholder(index int) string {
	return fmt.Sprintf("$%d", index)
}

// CaseInsensitiveLike returns the dedicated ILIKE operator.
func (d *PostgresDialect) CaseInsensitiveLike() string {
	return "ILIKE"
}

// RegexpOperator returns the case-sensitive POSIX regex match operator.
func (d *PostgresDialect) RegexpOperator() (string, bool) {
	return "~", true
}

// SupportsArrayOps reports native array support.
func (d *PostgresDialect) SupportsArrayOps() bool {
	return true
}

// SupportsDocumentOps reports JSONB containment and path extraction support.
func (d *PostgresDialect) SupportsDocumentOps() bool {
	return true
}

package oracle

import (
	"strings"
)

// QuoteIdentifier renders an Oracle identifier in double quotes.
func QuoteIdentifier(name string) string {
	return "\"" + name + "\""
}

// QuoteQualified renders a schema-qualified object name.
func QuoteQualified(schema, name string) string {
	return QuoteIdentifier(schema) + "." + QuoteIdentifier(name)
}

// QuoteLiteral renders a single-quoted Oracle string literal, doubling any
// embedded quote.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

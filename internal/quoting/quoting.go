// Package quoting provides the escaping primitives behind the engine quoters.
package quoting

import (
	"encoding/hex"
	"strings"
)

// DoubleQuote quotes a SQL identifier using double quotes (PostgreSQL, SQLite, ANSI SQL).
// Internal double quotes are escaped by doubling them.
func DoubleQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Backtick quotes a SQL identifier using backticks (MySQL).
// Internal backticks are escaped by doubling them.
func Backtick(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}

// EscapeString escapes a string literal for MySQL by doubling single quotes
// and escaping backslashes.
func EscapeString(s string) string {
	if !strings.ContainsAny(s, `'\`) {
		return s
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "'", "''")
}

// EscapeStandardString escapes a string literal for dialects with standard
// conforming strings (PostgreSQL, SQLite), where backslash is not special.
func EscapeStandardString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// SingleQuote wraps an already escaped string in single quotes.
func SingleQuote(escaped string) string {
	return "'" + escaped + "'"
}

// HexBytes renders b as lowercase hex digits with no prefix.
func HexBytes(b []byte) string {
	return hex.EncodeToString(b)
}

package engine

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bawdo/relq/internal/quoting"
	"github.com/bawdo/relq/nodes"
)

// ErrUnsupportedValue is matched by UnsupportedValueError.
var ErrUnsupportedValue = errors.New("relq: unsupported value type")

// UnsupportedValueError is raised (as a panic value) by DialectQuoter.Quote
// for a Go value it has no SQL rendering for. The visitors' compile entry
// points turn it back into an error.
type UnsupportedValueError struct {
	Value any
}

func (e *UnsupportedValueError) Error() string {
	return fmt.Sprintf("relq: cannot quote value of type %T", e.Value)
}

// Is reports whether target is ErrUnsupportedValue.
func (e *UnsupportedValueError) Is(target error) bool {
	return target == ErrUnsupportedValue
}

const timeLayout = "2006-01-02 15:04:05.999999"

// DialectQuoter is the Quoter for one of the built-in dialects.
type DialectQuoter struct {
	dialect string
	ident   func(string) string
	escape  func(string) string
}

var (
	PostgresQuoter = &DialectQuoter{dialect: Postgres, ident: quoting.DoubleQuote, escape: quoting.EscapeStandardString}
	MySQLQuoter    = &DialectQuoter{dialect: MySQL, ident: quoting.Backtick, escape: quoting.EscapeString}
	SQLiteQuoter   = &DialectQuoter{dialect: SQLite, ident: quoting.DoubleQuote, escape: quoting.EscapeStandardString}
)

// NewQuoter returns the quoter for a dialect name.
func NewQuoter(dialect string) (*DialectQuoter, error) {
	switch dialect {
	case Postgres:
		return PostgresQuoter, nil
	case MySQL:
		return MySQLQuoter, nil
	case SQLite:
		return SQLiteQuoter, nil
	default:
		return nil, fmt.Errorf("relq: unknown dialect %q", dialect)
	}
}

// Dialect returns the dialect name.
func (q *DialectQuoter) Dialect() string { return q.dialect }

func (q *DialectQuoter) QuoteTableName(name string) string { return q.ident(name) }

func (q *DialectQuoter) QuoteColumnName(name string) string { return q.ident(name) }

// Quote renders value as a SQL literal. When column carries a TypeName the
// value is first coerced towards that type, so "42" compared with an
// integer column renders as 42 and 42 assigned to a text column as '42'.
func (q *DialectQuoter) Quote(value any, column *nodes.Attribute) string {
	if v, ok := value.(driver.Valuer); ok {
		dv, err := v.Value()
		if err != nil {
			panic(&UnsupportedValueError{Value: value})
		}
		value = dv
	}
	if column != nil && column.TypeName != "" {
		value = coerce(value, column.TypeName)
	}

	switch v := value.(type) {
	case nil:
		return "NULL"
	case string:
		return quoting.SingleQuote(q.escape(v))
	case bool:
		return q.quoteBool(v)
	case int:
		return strconv.FormatInt(int64(v), 10)
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return q.quoteFloat(value, float64(v), 32)
	case float64:
		return q.quoteFloat(value, v, 64)
	case time.Time:
		return quoting.SingleQuote(v.UTC().Format(timeLayout))
	case []byte:
		return q.quoteBytes(v)
	case fmt.Stringer:
		return quoting.SingleQuote(q.escape(v.String()))
	default:
		panic(&UnsupportedValueError{Value: value})
	}
}

func (q *DialectQuoter) quoteBool(b bool) string {
	if q.dialect == SQLite {
		if b {
			return "1"
		}
		return "0"
	}
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// quoteFloat renders f; NaN and the infinities have no literal form that
// every dialect accepts.
func (q *DialectQuoter) quoteFloat(value any, f float64, bits int) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		panic(&UnsupportedValueError{Value: value})
	}
	return strconv.FormatFloat(f, 'g', -1, bits)
}

func (q *DialectQuoter) quoteBytes(b []byte) string {
	if q.dialect == Postgres {
		return `'\x` + quoting.HexBytes(b) + "'"
	}
	return "X'" + quoting.HexBytes(b) + "'"
}

// coerce converts value towards the column type where the conversion is
// lossless; anything else is returned unchanged.
func coerce(value any, typeName string) any {
	switch typeFamily(typeName) {
	case familyInteger:
		if s, ok := value.(string); ok {
			if i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
				return i
			}
		}
	case familyFloat:
		if s, ok := value.(string); ok {
			if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
				return f
			}
		}
	case familyBool:
		if s, ok := value.(string); ok {
			if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
				return b
			}
		}
	case familyText:
		switch v := value.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, bool:
			return fmt.Sprint(v)
		}
	}
	return value
}

type family int

const (
	familyOther family = iota
	familyInteger
	familyFloat
	familyBool
	familyText
)

func typeFamily(typeName string) family {
	t := strings.ToLower(typeName)
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = t[:i]
	}
	switch strings.TrimSpace(t) {
	case "int", "integer", "smallint", "bigint", "tinyint", "mediumint", "serial", "bigserial":
		return familyInteger
	case "float", "double", "double precision", "real", "numeric", "decimal":
		return familyFloat
	case "bool", "boolean":
		return familyBool
	case "text", "varchar", "char", "character varying", "string", "citext":
		return familyText
	default:
		return familyOther
	}
}

package visitors

import (
	"github.com/bawdo/relq/engine"
)

// PostgresVisitor generates PostgreSQL-dialect SQL. It is also the
// generic ANSI compiler used for engines of unknown dialect.
type PostgresVisitor struct {
	*baseVisitor
}

// NewPostgresVisitor creates a PostgresVisitor quoting through q.
func NewPostgresVisitor(q engine.Quoter) *PostgresVisitor {
	v := &PostgresVisitor{}
	v.baseVisitor = &baseVisitor{
		outer:  v,
		quoter: q,
	}
	return v
}

// ToSQLVisitor is the generic compiler: PostgreSQL semantics are the
// closest to standard SQL of the built-in dialects.
type ToSQLVisitor = PostgresVisitor

// NewToSQLVisitor creates the generic compiler.
func NewToSQLVisitor(q engine.Quoter) *ToSQLVisitor {
	return NewPostgresVisitor(q)
}

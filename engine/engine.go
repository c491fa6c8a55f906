// Package engine defines what the query managers need from the outside
// world: identifier and value quoting for one SQL dialect, and execution of
// rendered statements. Managers receive an Engine explicitly; there is no
// process-wide default.
package engine

import (
	"context"

	"github.com/bawdo/relq/nodes"
)

// Dialect names understood by NewQuoter and the visitors.
const (
	Postgres = "postgres"
	MySQL    = "mysql"
	SQLite   = "sqlite"
)

// Quoter renders identifiers and values as SQL text.
type Quoter interface {
	// Quote renders value as a SQL literal. column is the attribute the
	// value is compared with or assigned to, nil when there is none.
	Quote(value any, column *nodes.Attribute) string
	QuoteTableName(name string) string
	QuoteColumnName(name string) string
}

// Engine is the quoting and execution capability a manager is built with.
//
// sourceTag is an opaque label for logging and instrumentation; it is not
// interpreted by the builder.
type Engine interface {
	Quoter
	Dialect() string
	Select(ctx context.Context, sql string) (Result, error)
	Insert(ctx context.Context, sql string) (Result, error)
	Update(ctx context.Context, sql, sourceTag string) (Result, error)
	Delete(ctx context.Context, sql, sourceTag string) (Result, error)
}

// Result is what an Engine reports back for an executed statement.
// Rows and Columns are only filled by Select.
type Result struct {
	RowsAffected int64
	LastInsertID int64
	Columns      []string
	Rows         [][]any
}

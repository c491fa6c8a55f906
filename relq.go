// Package relq provides a fluent SQL query builder for Go.
//
// This package re-exports commonly used types and functions from subpackages
// for convenience. Advanced users can import subpackages directly:
//   - github.com/bawdo/relq/managers (query builders)
//   - github.com/bawdo/relq/nodes (AST nodes)
//   - github.com/bawdo/relq/visitors (SQL generation)
//   - github.com/bawdo/relq/engine (quoting and execution)
//   - github.com/bawdo/relq/plugins (query transformers)
package relq

import (
	"context"

	"github.com/bawdo/relq/engine"
	"github.com/bawdo/relq/engine/sqldb"
	"github.com/bawdo/relq/managers"
	"github.com/bawdo/relq/nodes"
)

// --- Manager Types ---

// SelectManager provides a fluent API for building SELECT queries.
type SelectManager = managers.SelectManager

// InsertManager provides a fluent API for building INSERT queries.
type InsertManager = managers.InsertManager

// UpdateManager provides a fluent API for building UPDATE queries.
type UpdateManager = managers.UpdateManager

// DeleteManager provides a fluent API for building DELETE queries.
type DeleteManager = managers.DeleteManager

// --- Manager Constructors ---

// NewSelect creates a SelectManager on e with table as FROM.
func NewSelect(e engine.Engine, from nodes.Node) *managers.SelectManager {
	return managers.NewSelectManager(e).From(from)
}

// NewInsert creates an InsertManager on e targeting the given table.
func NewInsert(e engine.Engine, into nodes.Node) *managers.InsertManager {
	return managers.NewInsertManager(e).Into(into)
}

// NewUpdate creates an UpdateManager on e for the given table.
func NewUpdate(e engine.Engine, table nodes.Node) *managers.UpdateManager {
	return managers.NewUpdateManager(e).Table(table)
}

// NewDelete creates a DeleteManager on e for the given table.
func NewDelete(e engine.Engine, from nodes.Node) *managers.DeleteManager {
	return managers.NewDeleteManager(e).From(from)
}

// --- Engines ---

// Engine is the quoting and execution capability managers are built with.
type Engine = engine.Engine

// Result is what an Engine reports for an executed statement.
type Result = engine.Result

// Open connects to a database of the given dialect ("postgres", "mysql" or
// "sqlite").
func Open(ctx context.Context, dialect, dsn string, opts ...sqldb.Option) (*sqldb.Engine, error) {
	return sqldb.Open(ctx, dialect, dsn, opts...)
}

// --- Core Node Types ---

// Table represents a SQL table reference.
type Table = nodes.Table

// Attribute represents a column reference (e.g., table.column).
type Attribute = nodes.Attribute

// Node is the base interface all AST nodes implement.
type Node = nodes.Node

// --- Common Node Constructors ---

// NewTable creates a new table reference.
func NewTable(name string) *nodes.Table {
	return nodes.NewTable(name)
}

// Literal creates a SQL literal node (e.g., numbers, strings).
func Literal(value any) nodes.Node {
	return nodes.Literal(value)
}

// Sql creates a raw SQL fragment, rendered verbatim.
func Sql(raw string) *nodes.SqlLiteral {
	return nodes.NewSqlLiteral(raw)
}

// Star creates an unqualified star (*) for SELECT *.
func Star() *nodes.StarNode {
	return nodes.Star()
}

// --- Aggregate Functions ---

// Count creates a COUNT(expr) aggregate; COUNT(*) when expr is nil.
func Count(expr nodes.Node) *nodes.AggregateNode {
	return nodes.Count(expr)
}

// Sum creates a SUM(expr) aggregate.
func Sum(expr nodes.Node) *nodes.AggregateNode {
	return nodes.Sum(expr)
}

// Avg creates an AVG(expr) aggregate.
func Avg(expr nodes.Node) *nodes.AggregateNode {
	return nodes.Avg(expr)
}

// Min creates a MIN(expr) aggregate.
func Min(expr nodes.Node) *nodes.AggregateNode {
	return nodes.Min(expr)
}

// Max creates a MAX(expr) aggregate.
func Max(expr nodes.Node) *nodes.AggregateNode {
	return nodes.Max(expr)
}

// CountDistinct creates a COUNT(DISTINCT expr) aggregate.
func CountDistinct(expr nodes.Node) *nodes.AggregateNode {
	return nodes.CountDistinct(expr)
}

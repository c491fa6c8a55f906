package managers

import (
	"context"
	"fmt"

	"github.com/bawdo/relq/engine"
	"github.com/bawdo/relq/nodes"
	"github.com/bawdo/relq/plugins"
)

// InsertManager provides a fluent API for building INSERT statements.
type InsertManager struct {
	treeManager
	Statement *nodes.InsertStatement
}

// NewInsertManager creates an InsertManager rendering and executing
// through e.
func NewInsertManager(e engine.Engine) *InsertManager {
	return &InsertManager{
		treeManager: treeManager{engine: e},
		Statement:   &nodes.InsertStatement{},
	}
}

// Into sets the target table.
func (m *InsertManager) Into(table nodes.Node) *InsertManager {
	m.Statement.Into = table
	return m
}

// Insert sets the row to insert from (column, value) pairs built with
// nodes.Assign or Attribute.Assign, replacing any earlier columns and rows.
// The target table defaults to the first column's relation. A single
// *nodes.SqlLiteral is used verbatim as the values clause instead.
func (m *InsertManager) Insert(values ...nodes.Node) *InsertManager {
	if len(values) == 1 {
		if raw, ok := values[0].(*nodes.SqlLiteral); ok {
			m.Statement.Raw = raw
			m.Statement.Columns = nil
			m.Statement.Values = nil
			return m
		}
	}

	cols := make([]*nodes.Attribute, 0, len(values))
	row := make([]nodes.Node, 0, len(values))
	for _, v := range values {
		a, ok := v.(*nodes.AssignmentNode)
		if !ok || a.Left == nil {
			m.fail(fmt.Errorf("relq: insert value %T is not a column assignment", v))
			return m
		}
		cols = append(cols, a.Left)
		row = append(row, a.Right)
	}
	if len(cols) == 0 {
		return m
	}
	if m.Statement.Into == nil {
		m.Statement.Into = cols[0].Relation
	}
	m.Statement.Raw = nil
	m.Statement.Columns = cols
	m.Statement.Values = [][]nodes.Node{row}
	return m
}

// Columns sets the column list for the INSERT statement.
func (m *InsertManager) Columns(cols ...*nodes.Attribute) *InsertManager {
	m.Statement.Columns = cols
	return m
}

// Values appends a row of values to the INSERT statement.
// Each call to Values adds one row. Pass raw Go values; they are
// wrapped with nodes.Literal automatically.
func (m *InsertManager) Values(vals ...any) *InsertManager {
	row := make([]nodes.Node, len(vals))
	for i, v := range vals {
		row[i] = nodes.Literal(v)
	}
	m.Statement.Values = append(m.Statement.Values, row)
	return m
}

// Use registers a transformer plugin.
func (m *InsertManager) Use(t plugins.Transformer) *InsertManager {
	m.addTransformer(t)
	return m
}

// Tree returns the transformed, validated INSERT statement.
func (m *InsertManager) Tree() (nodes.Node, error) {
	if m.err != nil {
		return nil, m.err
	}
	stmt, err := m.transformers.Insert(m.Statement.Clone())
	if err != nil {
		return nil, err
	}
	if stmt.Into == nil {
		return nil, ErrNoTable
	}
	if stmt.Raw == nil {
		if len(stmt.Values) == 0 {
			return nil, ErrNoAssignments
		}
		for i, row := range stmt.Values {
			if len(stmt.Columns) > 0 && len(row) != len(stmt.Columns) {
				return nil, fmt.Errorf("relq: insert row %d has %d values for %d columns", i, len(row), len(stmt.Columns))
			}
		}
	}
	return stmt, nil
}

// ToSQL applies transformers and generates SQL.
func (m *InsertManager) ToSQL() (string, error) {
	stmt, err := m.Tree()
	if err != nil {
		return "", err
	}
	return m.render(stmt)
}

// Execute renders the statement and runs it through the engine's Insert.
func (m *InsertManager) Execute(ctx context.Context) (engine.Result, error) {
	sql, err := m.ToSQL()
	if err != nil {
		return engine.Result{}, err
	}
	res, err := m.engine.Insert(ctx, sql)
	if err != nil {
		return engine.Result{}, fmt.Errorf("relq: insert: %w", err)
	}
	return res, nil
}

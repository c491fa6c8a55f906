package managers

import (
	"context"
	"fmt"

	"github.com/bawdo/relq/engine"
	"github.com/bawdo/relq/nodes"
	"github.com/bawdo/relq/plugins"
)

// DeleteManager provides a fluent API for building DELETE statements.
type DeleteManager struct {
	treeManager
	Statement *nodes.DeleteStatement
}

// NewDeleteManager creates a DeleteManager rendering and executing
// through e.
func NewDeleteManager(e engine.Engine) *DeleteManager {
	return &DeleteManager{
		treeManager: treeManager{engine: e},
		Statement:   &nodes.DeleteStatement{},
	}
}

// From sets the target table.
func (m *DeleteManager) From(table nodes.Node) *DeleteManager {
	m.Statement.From = table
	return m
}

// Where appends conditions to the WHERE clause.
func (m *DeleteManager) Where(conditions ...nodes.Node) *DeleteManager {
	m.Statement.Wheres = append(m.Statement.Wheres, conditions...)
	return m
}

// Use registers a transformer plugin.
func (m *DeleteManager) Use(t plugins.Transformer) *DeleteManager {
	m.addTransformer(t)
	return m
}

// Tree returns the transformed, validated DELETE statement.
func (m *DeleteManager) Tree() (nodes.Node, error) {
	if m.err != nil {
		return nil, m.err
	}
	stmt, err := m.transformers.Delete(m.Statement.Clone())
	if err != nil {
		return nil, err
	}
	if stmt.From == nil {
		return nil, ErrNoTable
	}
	return stmt, nil
}

// ToSQL applies transformers and generates SQL.
func (m *DeleteManager) ToSQL() (string, error) {
	stmt, err := m.Tree()
	if err != nil {
		return "", err
	}
	return m.render(stmt)
}

// Execute renders the statement and runs it through the engine's Delete,
// tagged with SourceTag.
func (m *DeleteManager) Execute(ctx context.Context) (engine.Result, error) {
	sql, err := m.ToSQL()
	if err != nil {
		return engine.Result{}, err
	}
	res, err := m.engine.Delete(ctx, sql, SourceTag)
	if err != nil {
		return engine.Result{}, fmt.Errorf("relq: delete: %w", err)
	}
	return res, nil
}

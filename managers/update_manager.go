package managers

import (
	"context"
	"fmt"

	"github.com/bawdo/relq/engine"
	"github.com/bawdo/relq/nodes"
	"github.com/bawdo/relq/plugins"
)

// UpdateManager provides a fluent API for building UPDATE statements.
type UpdateManager struct {
	treeManager
	Statement *nodes.UpdateStatement
}

// NewUpdateManager creates an UpdateManager rendering and executing
// through e.
func NewUpdateManager(e engine.Engine) *UpdateManager {
	return &UpdateManager{
		treeManager: treeManager{engine: e},
		Statement:   &nodes.UpdateStatement{},
	}
}

// Table sets the target table.
func (m *UpdateManager) Table(table nodes.Node) *UpdateManager {
	m.Statement.Table = table
	return m
}

// Set appends to the SET clause. Each value is either an
// *nodes.AssignmentNode (column = value) or a *nodes.SqlLiteral used
// verbatim. Without a table, the first assignment's column supplies it.
func (m *UpdateManager) Set(values ...nodes.Node) *UpdateManager {
	for _, v := range values {
		switch a := v.(type) {
		case *nodes.AssignmentNode:
			if a.Left == nil {
				m.fail(fmt.Errorf("relq: update assignment has no column"))
				return m
			}
			if m.Statement.Table == nil {
				m.Statement.Table = a.Left.Relation
			}
		case *nodes.SqlLiteral:
		default:
			m.fail(fmt.Errorf("relq: update value %T is not an assignment", v))
			return m
		}
		m.Statement.Assignments = append(m.Statement.Assignments, v)
	}
	return m
}

// Where appends conditions to the WHERE clause.
func (m *UpdateManager) Where(conditions ...nodes.Node) *UpdateManager {
	m.Statement.Wheres = append(m.Statement.Wheres, conditions...)
	return m
}

// Use registers a transformer plugin.
func (m *UpdateManager) Use(t plugins.Transformer) *UpdateManager {
	m.addTransformer(t)
	return m
}

// Tree returns the transformed, validated UPDATE statement.
func (m *UpdateManager) Tree() (nodes.Node, error) {
	if m.err != nil {
		return nil, m.err
	}
	stmt, err := m.transformers.Update(m.Statement.Clone())
	if err != nil {
		return nil, err
	}
	if stmt.Table == nil {
		return nil, ErrNoTable
	}
	if len(stmt.Assignments) == 0 {
		return nil, ErrNoAssignments
	}
	return stmt, nil
}

// ToSQL applies transformers and generates SQL.
func (m *UpdateManager) ToSQL() (string, error) {
	stmt, err := m.Tree()
	if err != nil {
		return "", err
	}
	return m.render(stmt)
}

// Execute renders the statement and runs it through the engine's Update,
// tagged with SourceTag.
func (m *UpdateManager) Execute(ctx context.Context) (engine.Result, error) {
	sql, err := m.ToSQL()
	if err != nil {
		return engine.Result{}, err
	}
	res, err := m.engine.Update(ctx, sql, SourceTag)
	if err != nil {
		return engine.Result{}, fmt.Errorf("relq: update: %w", err)
	}
	return res, nil
}

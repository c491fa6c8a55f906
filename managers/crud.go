package managers

import (
	"context"

	"github.com/bawdo/relq/engine"
	"github.com/bawdo/relq/nodes"
	"github.com/bawdo/relq/plugins"
)

// inherit gives a CRUD manager the select manager's pending error and a
// copy of its transformer pipeline.
func (m *SelectManager) inherit(tm *treeManager) {
	if m.err != nil {
		tm.fail(m.err)
	}
	tm.transformers = append(plugins.Pipeline(nil), m.transformers...)
}

// CompileDelete builds a DeleteManager for the primary source and the
// current WHERE conditions. The conditions are copied: later changes to
// m do not reach the returned manager.
func (m *SelectManager) CompileDelete() *DeleteManager {
	dm := NewDeleteManager(m.engine)
	m.inherit(&dm.treeManager)
	dm.Statement.From = m.Core.From
	dm.Where(m.Core.Wheres...)
	return dm
}

// CompileUpdate builds an UpdateManager setting values on the primary
// source (or, without one, on the first assignment's table) under the
// current WHERE conditions, copied as for CompileDelete.
func (m *SelectManager) CompileUpdate(values ...nodes.Node) *UpdateManager {
	um := NewUpdateManager(m.engine)
	m.inherit(&um.treeManager)
	um.Statement.Table = m.Core.From
	um.Set(values...)
	um.Where(m.Core.Wheres...)
	return um
}

// CompileInsert builds an InsertManager for values. The target table is
// the first column's relation; the primary source is used only for a raw
// values clause, which names no columns.
func (m *SelectManager) CompileInsert(values ...nodes.Node) *InsertManager {
	im := NewInsertManager(m.engine)
	m.inherit(&im.treeManager)
	im.Insert(values...)
	if im.Statement.Into == nil {
		im.Statement.Into = m.Core.From
	}
	return im
}

// Delete deletes the rows the query's WHERE conditions select from its
// primary source.
func (m *SelectManager) Delete(ctx context.Context) (engine.Result, error) {
	return m.CompileDelete().Execute(ctx)
}

// Update applies values to the rows the query's WHERE conditions select.
// values is a single raw *nodes.SqlLiteral SET clause or a list of
// *nodes.AssignmentNode pairs.
func (m *SelectManager) Update(ctx context.Context, values ...nodes.Node) (engine.Result, error) {
	return m.CompileUpdate(values...).Execute(ctx)
}

// Insert inserts one row built from (column, value) assignments, or a raw
// *nodes.SqlLiteral values clause.
func (m *SelectManager) Insert(ctx context.Context, values ...nodes.Node) (engine.Result, error) {
	return m.CompileInsert(values...).Execute(ctx)
}

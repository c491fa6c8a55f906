// Package managers provides high-level fluent APIs for building SQL ASTs.
//
// Every manager is built with an explicit engine.Engine: rendering resolves
// the dialect compiler from it and execution is dispatched to it. Mutating
// methods return the receiver, so calls chain on the same instance.
package managers

import (
	"context"
	"fmt"
	"strings"

	"github.com/bawdo/relq/engine"
	"github.com/bawdo/relq/nodes"
	"github.com/bawdo/relq/plugins"
)

// SelectManager provides a fluent API for building SELECT queries.
// It wraps a SelectCore and applies transformer plugins before SQL generation.
type SelectManager struct {
	treeManager
	Core *nodes.SelectCore
}

// NewSelectManager creates an empty SelectManager rendering and executing
// through e.
func NewSelectManager(e engine.Engine) *SelectManager {
	return &SelectManager{
		treeManager: treeManager{engine: e},
		Core:        &nodes.SelectCore{},
	}
}

// Project appends to the projection list. Pass column attributes, stars,
// SqlLiterals, aggregates, or any Node. Nothing is deduplicated.
func (m *SelectManager) Project(projections ...nodes.Node) *SelectManager {
	m.Core.Projections = append(m.Core.Projections, projections...)
	return m
}

// From adds a FROM source. The first call sets the primary source; later
// calls add comma-separated sources. A *JoinNode contributes its left side
// as the primary source (when none is set yet) and itself as a join.
func (m *SelectManager) From(source nodes.Node) *SelectManager {
	switch s := source.(type) {
	case nil:
	case *nodes.JoinNode:
		if m.Core.From == nil {
			m.Core.From = s.Left
		}
		m.Core.Joins = append(m.Core.Joins, s)
	default:
		if m.Core.From == nil {
			m.Core.From = s
		} else {
			m.Core.Sources = append(m.Core.Sources, s)
		}
	}
	return m
}

// Where appends one or more conditions to the WHERE clause.
// Conditions are combined with AND in the order they were added.
func (m *SelectManager) Where(conditions ...nodes.Node) *SelectManager {
	m.Core.Wheres = append(m.Core.Wheres, conditions...)
	return m
}

// Order appends to the ORDER BY clause. Pass OrderingNode values
// (e.g., table.Col("name").Asc()) or bare expressions.
func (m *SelectManager) Order(orderings ...nodes.Node) *SelectManager {
	m.Core.Orders = append(m.Core.Orders, orderings...)
	return m
}

// Take sets the LIMIT value, replacing any earlier one.
func (m *SelectManager) Take(n int) *SelectManager {
	m.Core.Limit = nodes.Literal(n)
	return m
}

// Skip sets the OFFSET value, replacing any earlier one.
func (m *SelectManager) Skip(n int) *SelectManager {
	m.Core.Offset = nodes.Literal(n)
	return m
}

// Group appends one or more expressions to the GROUP BY clause.
func (m *SelectManager) Group(columns ...nodes.Node) *SelectManager {
	m.Core.Groups = append(m.Core.Groups, columns...)
	return m
}

// Having appends one or more conditions to the HAVING clause.
// Multiple calls to Having are combined with AND at the visitor level.
func (m *SelectManager) Having(conditions ...nodes.Node) *SelectManager {
	m.Core.Havings = append(m.Core.Havings, conditions...)
	return m
}

// Distinct enables or disables the DISTINCT modifier on the SELECT clause.
func (m *SelectManager) Distinct(on ...bool) *SelectManager {
	m.Core.Distinct = len(on) == 0 || on[0]
	return m
}

// Join adds an INNER JOIN of table onto the primary source. The join's
// predicate is attached afterwards with On.
func (m *SelectManager) Join(table nodes.Node) *SelectManager {
	m.Core.Joins = append(m.Core.Joins, nodes.NewInnerJoin(m.Core.From, table, nil))
	return m
}

// OuterJoin adds an OUTER JOIN of table onto the primary source.
func (m *SelectManager) OuterJoin(table nodes.Node) *SelectManager {
	m.Core.Joins = append(m.Core.Joins, nodes.NewOuterJoin(m.Core.From, table, nil))
	return m
}

// On attaches "ON <conditions>" to the most recently added join. Calling
// it again on the same join ANDs the new conditions onto the old ones.
// With no join to attach to, the error is reported by ToSQL.
func (m *SelectManager) On(conditions ...nodes.Node) *SelectManager {
	expr := nodes.And(conditions...)
	if expr == nil {
		return m
	}
	if len(m.Core.Joins) == 0 {
		m.fail(ErrNoJoin)
		return m
	}
	last := m.Core.Joins[len(m.Core.Joins)-1]
	switch c := last.Constraint.(type) {
	case nil:
	case *nodes.OnNode:
		expr = nodes.And(c.Expr, expr)
	default:
		expr = nodes.And(c, expr)
	}
	last.Constraint = nodes.On(expr)
	return m
}

// Use registers a transformer plugin to be applied before SQL generation.
func (m *SelectManager) Use(t plugins.Transformer) *SelectManager {
	m.addTransformer(t)
	return m
}

// As wraps the query's SelectCore in a TableAlias, enabling it to be
// used as a named subquery in FROM or JOIN clauses.
func (m *SelectManager) As(name string) *nodes.TableAlias {
	return &nodes.TableAlias{Relation: m.Core, AliasName: name}
}

// CloneCore returns a structural copy of the SelectCore so transformers
// don't modify the original.
func (m *SelectManager) CloneCore() *nodes.SelectCore {
	return m.Core.Clone()
}

// transformedCore applies all registered transformers to a copy of the
// SelectCore.
func (m *SelectManager) transformedCore() (*nodes.SelectCore, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.transformers.Select(m.CloneCore())
}

// validateSelect rejects a core that refers to a table without naming one.
// A FROM-less SELECT of projections alone (SELECT 1, SELECT *) is allowed.
func validateSelect(core *nodes.SelectCore) error {
	if core.From != nil {
		return nil
	}
	switch {
	case len(core.Projections) == 0,
		len(core.Sources) > 0,
		len(core.Joins) > 0,
		len(core.Wheres) > 0,
		len(core.Groups) > 0,
		len(core.Havings) > 0,
		len(core.Orders) > 0:
		return ErrNoTable
	}
	return nil
}

// Tree returns the SelectCore after transformers and validation, ready to
// be rendered by any visitor.
func (m *SelectManager) Tree() (nodes.Node, error) {
	core, err := m.transformedCore()
	if err != nil {
		return nil, err
	}
	if err := validateSelect(core); err != nil {
		return nil, err
	}
	return core, nil
}

// ToSQL applies all registered transformers and generates the SELECT
// statement in the engine's dialect.
func (m *SelectManager) ToSQL() (string, error) {
	core, err := m.Tree()
	if err != nil {
		return "", err
	}
	return m.render(core)
}

// JoinSQL renders only the primary source and its joins, e.g.
// `"users" INNER JOIN "users" "users_2" ON ...`. It returns "" when the
// query has no joins.
func (m *SelectManager) JoinSQL() (string, error) {
	core, err := m.transformedCore()
	if err != nil {
		return "", err
	}
	if len(core.Joins) == 0 {
		return "", nil
	}
	if core.From == nil {
		return "", ErrNoTable
	}

	parts := make([]string, 0, len(core.Joins)+1)
	from, err := m.render(core.From)
	if err != nil {
		return "", err
	}
	if _, ok := core.From.(*nodes.SelectCore); ok {
		from = "(" + from + ")"
	}
	parts = append(parts, from)
	for _, j := range core.Joins {
		sql, err := m.render(j)
		if err != nil {
			return "", err
		}
		parts = append(parts, sql)
	}
	return strings.Join(parts, " "), nil
}

// Joins renders the join portion of other's tree without modifying
// either manager.
func (m *SelectManager) Joins(other *SelectManager) (string, error) {
	return other.JoinSQL()
}

// Execute renders the query and runs it through the engine's Select.
func (m *SelectManager) Execute(ctx context.Context) (engine.Result, error) {
	sql, err := m.ToSQL()
	if err != nil {
		return engine.Result{}, err
	}
	res, err := m.engine.Select(ctx, sql)
	if err != nil {
		return engine.Result{}, fmt.Errorf("relq: select: %w", err)
	}
	return res, nil
}

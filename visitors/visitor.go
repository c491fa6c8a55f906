// Package visitors provides the SQL compilers that walk the AST.
//
// Identifiers and values are never quoted here directly: every visitor is
// built around an engine.Quoter, so the quote characters and value
// formatting always come from the engine the query runs against.
package visitors

import (
	"strings"

	"github.com/bawdo/relq/engine"
	"github.com/bawdo/relq/nodes"
)

// Operator SQL strings for ComparisonOp values.
var comparisonOpSQL = [...]string{
	nodes.OpEq:           "=",
	nodes.OpNotEq:        "!=",
	nodes.OpGt:           ">",
	nodes.OpGtEq:         ">=",
	nodes.OpLt:           "<",
	nodes.OpLtEq:         "<=",
	nodes.OpLike:         "LIKE",
	nodes.OpNotLike:      "NOT LIKE",
	nodes.OpMatches:      "ILIKE",
	nodes.OpDoesNotMatch: "NOT ILIKE",
}

// Aggregate function SQL names.
var aggregateFuncSQL = [...]string{
	nodes.AggCount: "COUNT",
	nodes.AggSum:   "SUM",
	nodes.AggAvg:   "AVG",
	nodes.AggMin:   "MIN",
	nodes.AggMax:   "MAX",
}

// baseVisitor implements the shared SQL generation logic used by all dialects.
// Dialect-specific visitors embed *baseVisitor and set the outer field to
// themselves, enabling correct virtual dispatch through the Visitor interface.
type baseVisitor struct {
	// outer is the concrete dialect visitor. All recursive Accept calls
	// go through outer so that dialect overrides are respected.
	outer nodes.Visitor

	quoter engine.Quoter

	// column is the attribute a literal is being compared with or
	// assigned to while it is rendered; nil elsewhere.
	column *nodes.Attribute

	// offsetOnlyLimit is the LIMIT a dialect needs in front of a bare
	// OFFSET; empty when OFFSET may stand alone.
	offsetOnlyLimit string
}

// accept renders a child node, rejecting a nil child in a position that
// needs one.
func (b *baseVisitor) accept(n nodes.Node, parent nodes.Node, field string) string {
	if n == nil {
		panic(&UnsupportedNodeError{Node: parent, Reason: "missing " + field})
	}
	return n.Accept(b.outer)
}

// acceptWithColumn renders n with col as the quoting context for literals.
func (b *baseVisitor) acceptWithColumn(col *nodes.Attribute, n nodes.Node, parent nodes.Node, field string) string {
	saved := b.column
	b.column = col
	defer func() { b.column = saved }()
	return b.accept(n, parent, field)
}

// columnOf returns n as an attribute when it is one.
func columnOf(n nodes.Node) *nodes.Attribute {
	a, _ := n.(*nodes.Attribute)
	return a
}

func (b *baseVisitor) VisitTable(n *nodes.Table) string {
	return b.quoter.QuoteTableName(n.Name)
}

func (b *baseVisitor) VisitTableAlias(n *nodes.TableAlias) string {
	alias := b.quoter.QuoteTableName(n.AliasName)
	if tbl, ok := n.Relation.(*nodes.Table); ok {
		return b.quoter.QuoteTableName(tbl.Name) + " " + alias
	}
	return "(" + b.accept(n.Relation, n, "relation") + ") " + alias
}

func (b *baseVisitor) VisitAttribute(n *nodes.Attribute) string {
	col := b.quoter.QuoteColumnName(n.Name)
	if name := nodes.RelationName(n.Relation); name != "" {
		return b.quoter.QuoteTableName(name) + "." + col
	}
	return col
}

func (b *baseVisitor) VisitLiteral(n *nodes.LiteralNode) string {
	return b.quoter.Quote(n.Value, b.column)
}

func (b *baseVisitor) VisitSqlLiteral(n *nodes.SqlLiteral) string {
	return n.Raw
}

func (b *baseVisitor) VisitStar(n *nodes.StarNode) string {
	if n.Table != nil {
		return b.quoter.QuoteTableName(n.Table.Name) + ".*"
	}
	return "*"
}

// isNullLiteral reports whether n is a literal holding nil.
func isNullLiteral(n nodes.Node) bool {
	lit, ok := n.(*nodes.LiteralNode)
	return ok && lit.Value == nil
}

func (b *baseVisitor) VisitComparison(n *nodes.ComparisonNode) string {
	return b.comparison(n, comparisonOpSQL[n.Op])
}

// comparison renders "left op right". Equality against NULL becomes
// IS NULL / IS NOT NULL.
func (b *baseVisitor) comparison(n *nodes.ComparisonNode, op string) string {
	left := b.accept(n.Left, n, "left operand")
	if isNullLiteral(n.Right) {
		switch n.Op {
		case nodes.OpEq:
			return left + " IS NULL"
		case nodes.OpNotEq:
			return left + " IS NOT NULL"
		}
	}
	right := b.acceptWithColumn(columnOf(n.Left), n.Right, n, "right operand")
	return left + " " + op + " " + right
}

func (b *baseVisitor) VisitUnary(n *nodes.UnaryNode) string {
	expr := b.accept(n.Expr, n, "operand")
	if n.Op == nodes.OpIsNotNull {
		return expr + " IS NOT NULL"
	}
	return expr + " IS NULL"
}

func (b *baseVisitor) VisitIn(n *nodes.InNode) string {
	// An empty set matches nothing (or, negated, everything).
	if len(n.Vals) == 0 {
		if n.Negate {
			return "1=1"
		}
		return "1=0"
	}
	expr := b.accept(n.Expr, n, "operand")
	col := columnOf(n.Expr)
	vals := make([]string, len(n.Vals))
	for i, v := range n.Vals {
		vals[i] = b.acceptWithColumn(col, v, n, "value")
	}
	keyword := " IN ("
	if n.Negate {
		keyword = " NOT IN ("
	}
	return expr + keyword + strings.Join(vals, ", ") + ")"
}

func (b *baseVisitor) VisitBetween(n *nodes.BetweenNode) string {
	expr := b.accept(n.Expr, n, "operand")
	col := columnOf(n.Expr)
	low := b.acceptWithColumn(col, n.Low, n, "lower bound")
	high := b.acceptWithColumn(col, n.High, n, "upper bound")
	keyword := " BETWEEN "
	if n.Negate {
		keyword = " NOT BETWEEN "
	}
	return expr + keyword + low + " AND " + high
}

func (b *baseVisitor) VisitAnd(n *nodes.AndNode) string {
	return b.accept(n.Left, n, "left operand") + " AND " + b.accept(n.Right, n, "right operand")
}

func (b *baseVisitor) VisitOr(n *nodes.OrNode) string {
	return b.accept(n.Left, n, "left operand") + " OR " + b.accept(n.Right, n, "right operand")
}

func (b *baseVisitor) VisitNot(n *nodes.NotNode) string {
	return "NOT (" + b.accept(n.Expr, n, "operand") + ")"
}

func (b *baseVisitor) VisitGrouping(n *nodes.GroupingNode) string {
	return "(" + b.accept(n.Expr, n, "expression") + ")"
}

// VisitJoin renders the join clause without its left-hand source:
// "<INNER|OUTER> JOIN <right> [<constraint>]".
func (b *baseVisitor) VisitJoin(n *nodes.JoinNode) string {
	right := b.accept(n.Right, n, "right source")
	if _, ok := n.Right.(*nodes.SelectCore); ok {
		right = "(" + right + ")"
	}

	var sb strings.Builder
	sb.WriteString(n.Type.String())
	sb.WriteString(" ")
	sb.WriteString(right)
	if n.Constraint != nil {
		sb.WriteString(" ")
		sb.WriteString(n.Constraint.Accept(b.outer))
	}
	return sb.String()
}

func (b *baseVisitor) VisitOn(n *nodes.OnNode) string {
	return "ON " + b.accept(n.Expr, n, "predicate")
}

func (b *baseVisitor) VisitOrdering(n *nodes.OrderingNode) string {
	expr := b.accept(n.Expr, n, "expression")
	if n.Direction == nodes.Desc {
		return expr + " DESC"
	}
	return expr + " ASC"
}

func (b *baseVisitor) VisitAggregate(n *nodes.AggregateNode) string {
	var sb strings.Builder
	sb.WriteString(aggregateFuncSQL[n.Func])
	sb.WriteString("(")
	if n.Distinct {
		sb.WriteString("DISTINCT ")
	}
	if n.Expr == nil {
		sb.WriteString("*")
	} else {
		sb.WriteString(n.Expr.Accept(b.outer))
	}
	sb.WriteString(")")
	return sb.String()
}

func (b *baseVisitor) VisitAlias(n *nodes.AliasNode) string {
	return b.accept(n.Expr, n, "expression") + " AS " + b.quoter.QuoteColumnName(n.Name)
}

// VisitSelectCore emits the clauses in fixed order regardless of the order
// the tree was built in; empty clauses are left out.
func (b *baseVisitor) VisitSelectCore(n *nodes.SelectCore) string {
	var sb strings.Builder

	sb.WriteString("SELECT ")
	if n.Distinct {
		sb.WriteString("DISTINCT ")
	}
	b.writeProjections(&sb, n.Projections)
	b.writeFrom(&sb, n.From, n.Sources)
	b.writeJoins(&sb, n.Joins)
	b.writeClause(&sb, " WHERE ", n.Wheres, " AND ")
	b.writeClause(&sb, " GROUP BY ", n.Groups, ", ")
	b.writeClause(&sb, " HAVING ", n.Havings, " AND ")
	b.writeClause(&sb, " ORDER BY ", n.Orders, ", ")
	b.writeLimitOffset(&sb, n.Limit, n.Offset)

	return sb.String()
}

// limitForOffset is the LIMIT placed before an OFFSET that has none.
func (b *baseVisitor) limitForOffset() string { return b.offsetOnlyLimit }

// writeClause writes "keyword item1 sep item2 sep ..." if items is non-empty.
func (b *baseVisitor) writeClause(sb *strings.Builder, keyword string, items []nodes.Node, sep string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(keyword)
	for i, item := range items {
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(b.accept(item, nil, strings.TrimSpace(keyword)+" item"))
	}
}

func (b *baseVisitor) writeProjections(sb *strings.Builder, projections []nodes.Node) {
	if len(projections) == 0 {
		sb.WriteString("*")
		return
	}
	for i, p := range projections {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(b.accept(p, nil, "projection"))
	}
}

func (b *baseVisitor) writeFrom(sb *strings.Builder, from nodes.Node, sources []nodes.Node) {
	if from == nil {
		return
	}
	sb.WriteString(" FROM ")
	sb.WriteString(b.fromSource(from))
	for _, s := range sources {
		sb.WriteString(", ")
		sb.WriteString(b.fromSource(s))
	}
}

// fromSource parenthesizes a bare subquery used as a source.
func (b *baseVisitor) fromSource(n nodes.Node) string {
	sql := n.Accept(b.outer)
	if _, ok := n.(*nodes.SelectCore); ok {
		return "(" + sql + ")"
	}
	return sql
}

func (b *baseVisitor) writeJoins(sb *strings.Builder, joins []*nodes.JoinNode) {
	for _, j := range joins {
		sb.WriteString(" ")
		sb.WriteString(j.Accept(b.outer))
	}
}

func (b *baseVisitor) writeLimitOffset(sb *strings.Builder, limit, offset nodes.Node) {
	switch {
	case limit != nil:
		sb.WriteString(" LIMIT ")
		sb.WriteString(limit.Accept(b.outer))
	case offset != nil && b.offsetOnlyLimit != "":
		sb.WriteString(" LIMIT ")
		sb.WriteString(b.offsetOnlyLimit)
	}
	if offset != nil {
		sb.WriteString(" OFFSET ")
		sb.WriteString(offset.Accept(b.outer))
	}
}

func (b *baseVisitor) VisitInsertStatement(n *nodes.InsertStatement) string {
	var sb strings.Builder

	sb.WriteString("INSERT INTO ")
	sb.WriteString(b.accept(n.Into, n, "target table"))

	if n.Raw != nil {
		sb.WriteString(" ")
		sb.WriteString(n.Raw.Accept(b.outer))
		return sb.String()
	}

	if len(n.Columns) > 0 {
		cols := make([]string, len(n.Columns))
		for i, c := range n.Columns {
			cols[i] = b.quoter.QuoteColumnName(c.Name)
		}
		sb.WriteString(" (")
		sb.WriteString(strings.Join(cols, ", "))
		sb.WriteString(")")
	}

	sb.WriteString(" VALUES ")
	rows := make([]string, len(n.Values))
	for i, row := range n.Values {
		vals := make([]string, len(row))
		for j, v := range row {
			var col *nodes.Attribute
			if j < len(n.Columns) {
				col = n.Columns[j]
			}
			vals[j] = b.acceptWithColumn(col, v, n, "value")
		}
		rows[i] = "(" + strings.Join(vals, ", ") + ")"
	}
	sb.WriteString(strings.Join(rows, ", "))

	return sb.String()
}

func (b *baseVisitor) VisitUpdateStatement(n *nodes.UpdateStatement) string {
	var sb strings.Builder

	sb.WriteString("UPDATE ")
	sb.WriteString(b.accept(n.Table, n, "target table"))

	if len(n.Assignments) > 0 {
		sb.WriteString(" SET ")
		assigns := make([]string, len(n.Assignments))
		for i, a := range n.Assignments {
			assigns[i] = b.accept(a, n, "assignment")
		}
		sb.WriteString(strings.Join(assigns, ", "))
	}

	b.writeClause(&sb, " WHERE ", n.Wheres, " AND ")
	return sb.String()
}

func (b *baseVisitor) VisitDeleteStatement(n *nodes.DeleteStatement) string {
	var sb strings.Builder

	sb.WriteString("DELETE FROM ")
	sb.WriteString(b.accept(n.From, n, "target table"))
	b.writeClause(&sb, " WHERE ", n.Wheres, " AND ")

	return sb.String()
}

// VisitAssignment renders the column unqualified, as SET clauses require.
func (b *baseVisitor) VisitAssignment(n *nodes.AssignmentNode) string {
	if n.Left == nil {
		panic(&UnsupportedNodeError{Node: n, Reason: "missing column"})
	}
	left := b.quoter.QuoteColumnName(n.Left.Name)
	return left + " = " + b.acceptWithColumn(n.Left, n.Right, n, "value")
}

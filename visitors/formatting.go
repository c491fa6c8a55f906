package visitors

import (
	"strings"

	"github.com/bawdo/relq/nodes"
)

// FormattingVisitor wraps any nodes.Visitor (dialect visitor) and produces
// human-readable multi-line SQL. The statement-level methods render each
// major clause on its own line; everything else is delegated to the inner
// visitor unchanged.
type FormattingVisitor struct {
	inner nodes.Visitor
}

var _ nodes.Visitor = (*FormattingVisitor)(nil)

// NewFormattingVisitor constructs a FormattingVisitor wrapping the given
// dialect visitor.
func NewFormattingVisitor(inner nodes.Visitor) *FormattingVisitor {
	if inner == nil {
		panic("relq: FormattingVisitor requires a non-nil inner visitor")
	}
	return &FormattingVisitor{inner: inner}
}

// --- Delegation methods for all nodes.Visitor methods ---

func (f *FormattingVisitor) VisitTable(node *nodes.Table) string {
	return f.inner.VisitTable(node)
}

func (f *FormattingVisitor) VisitTableAlias(node *nodes.TableAlias) string {
	return f.inner.VisitTableAlias(node)
}

func (f *FormattingVisitor) VisitAttribute(node *nodes.Attribute) string {
	return f.inner.VisitAttribute(node)
}

func (f *FormattingVisitor) VisitLiteral(node *nodes.LiteralNode) string {
	return f.inner.VisitLiteral(node)
}

func (f *FormattingVisitor) VisitStar(node *nodes.StarNode) string {
	return f.inner.VisitStar(node)
}

func (f *FormattingVisitor) VisitSqlLiteral(node *nodes.SqlLiteral) string {
	return f.inner.VisitSqlLiteral(node)
}

func (f *FormattingVisitor) VisitComparison(node *nodes.ComparisonNode) string {
	return f.inner.VisitComparison(node)
}

func (f *FormattingVisitor) VisitUnary(node *nodes.UnaryNode) string {
	return f.inner.VisitUnary(node)
}

func (f *FormattingVisitor) VisitAnd(node *nodes.AndNode) string {
	return f.inner.VisitAnd(node)
}

func (f *FormattingVisitor) VisitOr(node *nodes.OrNode) string {
	return f.inner.VisitOr(node)
}

func (f *FormattingVisitor) VisitNot(node *nodes.NotNode) string {
	return f.inner.VisitNot(node)
}

func (f *FormattingVisitor) VisitIn(node *nodes.InNode) string {
	return f.inner.VisitIn(node)
}

func (f *FormattingVisitor) VisitBetween(node *nodes.BetweenNode) string {
	return f.inner.VisitBetween(node)
}

func (f *FormattingVisitor) VisitGrouping(node *nodes.GroupingNode) string {
	return f.inner.VisitGrouping(node)
}

func (f *FormattingVisitor) VisitJoin(node *nodes.JoinNode) string {
	return f.inner.VisitJoin(node)
}

func (f *FormattingVisitor) VisitOn(node *nodes.OnNode) string {
	return f.inner.VisitOn(node)
}

func (f *FormattingVisitor) VisitOrdering(node *nodes.OrderingNode) string {
	return f.inner.VisitOrdering(node)
}

func (f *FormattingVisitor) VisitAssignment(node *nodes.AssignmentNode) string {
	return f.inner.VisitAssignment(node)
}

func (f *FormattingVisitor) VisitAggregate(node *nodes.AggregateNode) string {
	return f.inner.VisitAggregate(node)
}

func (f *FormattingVisitor) VisitAlias(node *nodes.AliasNode) string {
	return f.inner.VisitAlias(node)
}

// --- Structural overrides ---

// writeList writes "keyword first" followed by "\n\t<sep>next" for the
// rest: leading-comma style for lists, leading-AND for predicates.
func (f *FormattingVisitor) writeList(sb *strings.Builder, keyword string, items []nodes.Node, sep string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(keyword)
	sb.WriteString(items[0].Accept(f.inner))
	for _, it := range items[1:] {
		sb.WriteString("\n\t")
		sb.WriteString(sep)
		sb.WriteString(it.Accept(f.inner))
	}
}

// VisitSelectCore renders a SELECT statement in multi-line formatted style.
// Projections use leading-comma continuation; all major clauses begin on a
// new line. Child expressions are rendered via f.inner (dialect-specific).
func (f *FormattingVisitor) VisitSelectCore(node *nodes.SelectCore) string {
	var sb strings.Builder

	sb.WriteString("SELECT")
	if node.Distinct {
		sb.WriteString(" DISTINCT")
	}

	if len(node.Projections) == 0 {
		sb.WriteString(" *")
	} else {
		f.writeList(&sb, " ", node.Projections, ",")
	}

	if node.From != nil {
		sb.WriteString("\nFROM ")
		sb.WriteString(node.From.Accept(f.inner))
		for _, s := range node.Sources {
			sb.WriteString("\n\t,")
			sb.WriteString(s.Accept(f.inner))
		}
	}

	for _, j := range node.Joins {
		sb.WriteString("\n")
		sb.WriteString(j.Accept(f.inner))
	}

	f.writeList(&sb, "\nWHERE ", node.Wheres, "AND ")
	f.writeList(&sb, "\nGROUP BY ", node.Groups, ",")
	f.writeList(&sb, "\nHAVING ", node.Havings, "AND ")
	f.writeList(&sb, "\nORDER BY ", node.Orders, ",")

	if node.Limit != nil {
		sb.WriteString("\nLIMIT ")
		sb.WriteString(node.Limit.Accept(f.inner))
	} else if node.Offset != nil {
		if l, ok := f.inner.(interface{ limitForOffset() string }); ok && l.limitForOffset() != "" {
			sb.WriteString("\nLIMIT ")
			sb.WriteString(l.limitForOffset())
		}
	}

	if node.Offset != nil {
		sb.WriteString("\nOFFSET ")
		sb.WriteString(node.Offset.Accept(f.inner))
	}

	return sb.String()
}

// VisitInsertStatement renders INSERT with the VALUES clause on its own line.
func (f *FormattingVisitor) VisitInsertStatement(n *nodes.InsertStatement) string {
	sql := f.inner.VisitInsertStatement(n)
	if n.Raw != nil {
		return sql
	}
	return strings.Replace(sql, " VALUES ", "\nVALUES ", 1)
}

// VisitUpdateStatement renders UPDATE with each clause on its own line and
// leading-comma style for multiple SET assignments.
func (f *FormattingVisitor) VisitUpdateStatement(n *nodes.UpdateStatement) string {
	if n.Table == nil {
		return f.inner.VisitUpdateStatement(n)
	}
	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(n.Table.Accept(f.inner))
	f.writeList(&sb, "\nSET ", n.Assignments, ",")
	f.writeList(&sb, "\nWHERE ", n.Wheres, "AND ")
	return sb.String()
}

// VisitDeleteStatement renders DELETE FROM with each clause on its own line.
func (f *FormattingVisitor) VisitDeleteStatement(n *nodes.DeleteStatement) string {
	if n.From == nil {
		return f.inner.VisitDeleteStatement(n)
	}
	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(n.From.Accept(f.inner))
	f.writeList(&sb, "\nWHERE ", n.Wheres, "AND ")
	return sb.String()
}

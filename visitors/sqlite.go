package visitors

import (
	"github.com/bawdo/relq/engine"
	"github.com/bawdo/relq/nodes"
)

// SQLiteVisitor generates SQLite-dialect SQL.
type SQLiteVisitor struct {
	*baseVisitor
}

// NewSQLiteVisitor creates a SQLiteVisitor quoting through q.
func NewSQLiteVisitor(q engine.Quoter) *SQLiteVisitor {
	v := &SQLiteVisitor{}
	v.baseVisitor = &baseVisitor{
		outer:           v,
		quoter:          q,
		offsetOnlyLimit: "-1",
	}
	return v
}

// VisitComparison renders Matches as LIKE, which is case-insensitive for
// ASCII in SQLite.
func (v *SQLiteVisitor) VisitComparison(n *nodes.ComparisonNode) string {
	switch n.Op {
	case nodes.OpMatches:
		return v.comparison(n, "LIKE")
	case nodes.OpDoesNotMatch:
		return v.comparison(n, "NOT LIKE")
	default:
		return v.baseVisitor.VisitComparison(n)
	}
}

package visitors

import (
	"github.com/bawdo/relq/engine"
	"github.com/bawdo/relq/nodes"
)

// MySQLVisitor generates MySQL-dialect SQL.
type MySQLVisitor struct {
	*baseVisitor
}

// NewMySQLVisitor creates a MySQLVisitor quoting through q.
func NewMySQLVisitor(q engine.Quoter) *MySQLVisitor {
	v := &MySQLVisitor{}
	v.baseVisitor = &baseVisitor{
		outer:  v,
		quoter: q,
		// MySQL has no OFFSET without LIMIT; this is the documented
		// "all remaining rows" value.
		offsetOnlyLimit: "18446744073709551615",
	}
	return v
}

// VisitComparison renders Matches as LIKE: MySQL's default collations
// already compare case-insensitively.
func (v *MySQLVisitor) VisitComparison(n *nodes.ComparisonNode) string {
	switch n.Op {
	case nodes.OpMatches:
		return v.comparison(n, "LIKE")
	case nodes.OpDoesNotMatch:
		return v.comparison(n, "NOT LIKE")
	default:
		return v.baseVisitor.VisitComparison(n)
	}
}

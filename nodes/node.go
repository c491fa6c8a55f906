// Package nodes defines the AST node types used to represent SQL statements.
//
// The set of node kinds is closed: Node carries an unexported marker method,
// so only types declared here can be part of a tree, and every kind has a
// matching method on Visitor. Adding a kind therefore means adding a Visitor
// method, which every compiler must then implement.
package nodes

// Node is the interface that all AST nodes implement.
type Node interface {
	Accept(visitor Visitor) string
	node()
}

// Visitor defines the interface for walking the AST and producing output.
// Concrete visitors (e.g., Postgres, MySQL) implement this interface.
type Visitor interface {
	VisitTable(node *Table) string
	VisitTableAlias(node *TableAlias) string
	VisitAttribute(node *Attribute) string
	VisitLiteral(node *LiteralNode) string
	VisitSqlLiteral(node *SqlLiteral) string
	VisitStar(node *StarNode) string
	VisitComparison(node *ComparisonNode) string
	VisitUnary(node *UnaryNode) string
	VisitIn(node *InNode) string
	VisitBetween(node *BetweenNode) string
	VisitAnd(node *AndNode) string
	VisitOr(node *OrNode) string
	VisitNot(node *NotNode) string
	VisitGrouping(node *GroupingNode) string
	VisitJoin(node *JoinNode) string
	VisitOn(node *OnNode) string
	VisitOrdering(node *OrderingNode) string
	VisitAggregate(node *AggregateNode) string
	VisitAlias(node *AliasNode) string
	VisitSelectCore(node *SelectCore) string
	VisitInsertStatement(node *InsertStatement) string
	VisitUpdateStatement(node *UpdateStatement) string
	VisitDeleteStatement(node *DeleteStatement) string
	VisitAssignment(node *AssignmentNode) string
}

func (*Table) node()           {}
func (*TableAlias) node()      {}
func (*Attribute) node()       {}
func (*LiteralNode) node()     {}
func (*SqlLiteral) node()      {}
func (*StarNode) node()        {}
func (*ComparisonNode) node()  {}
func (*UnaryNode) node()       {}
func (*InNode) node()          {}
func (*BetweenNode) node()     {}
func (*AndNode) node()         {}
func (*OrNode) node()          {}
func (*NotNode) node()         {}
func (*GroupingNode) node()    {}
func (*JoinNode) node()        {}
func (*OnNode) node()          {}
func (*OrderingNode) node()    {}
func (*AggregateNode) node()   {}
func (*AliasNode) node()       {}
func (*SelectCore) node()      {}
func (*InsertStatement) node() {}
func (*UpdateStatement) node() {}
func (*DeleteStatement) node() {}
func (*AssignmentNode) node()  {}

// Literal wraps a raw Go value into a LiteralNode. If val already
// implements Node, it is returned as-is.
func Literal(val any) Node {
	if n, ok := val.(Node); ok {
		return n
	}
	lit := &LiteralNode{Value: val}
	lit.Predications.self = lit
	lit.Combinable.self = lit
	return lit
}

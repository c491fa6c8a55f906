package nodes

// JoinType is the closed set of join kinds.
type JoinType int

const (
	InnerJoin JoinType = iota
	OuterJoin
)

// String returns the SQL keyword for this join type.
func (t JoinType) String() string {
	switch t {
	case InnerJoin:
		return "INNER JOIN"
	case OuterJoin:
		return "OUTER JOIN"
	default:
		return "JOIN"
	}
}

// JoinNode represents a SQL JOIN of Right onto Left.
//
// Constraint is rendered verbatim after the right-hand source. Joins built
// through a manager wrap their predicate in an OnNode so it renders as
// "ON <predicate>"; a nil Constraint is a join still waiting for one.
type JoinNode struct {
	Left       Node
	Right      Node
	Type       JoinType
	Constraint Node
}

func (n *JoinNode) Accept(v Visitor) string { return v.VisitJoin(n) }

// NewInnerJoin creates an INNER JOIN of right onto left.
func NewInnerJoin(left, right, constraint Node) *JoinNode {
	return &JoinNode{Left: left, Right: right, Type: InnerJoin, Constraint: constraint}
}

// NewOuterJoin creates an OUTER JOIN of right onto left.
func NewOuterJoin(left, right, constraint Node) *JoinNode {
	return &JoinNode{Left: left, Right: right, Type: OuterJoin, Constraint: constraint}
}

// OnNode is the ON clause of a join.
type OnNode struct {
	Expr Node
}

func (n *OnNode) Accept(v Visitor) string { return v.VisitOn(n) }

// On wraps a predicate as a join ON clause.
func On(expr Node) *OnNode {
	return &OnNode{Expr: expr}
}

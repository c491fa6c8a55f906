package nodes

// OrderDirection represents ASC or DESC ordering.
type OrderDirection int

const (
	Asc OrderDirection = iota
	Desc
)

// OrderingNode represents an ORDER BY expression with an explicit direction.
// Expressions passed to Order without one render bare.
type OrderingNode struct {
	Expr      Node
	Direction OrderDirection
}

func (n *OrderingNode) Accept(v Visitor) string { return v.VisitOrdering(n) }

// Reverse returns a new ordering over the same expression in the opposite direction.
func (n *OrderingNode) Reverse() *OrderingNode {
	dir := Desc
	if n.Direction == Desc {
		dir = Asc
	}
	return &OrderingNode{Expr: n.Expr, Direction: dir}
}

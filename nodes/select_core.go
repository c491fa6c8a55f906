package nodes

// SelectCore represents the data container for a SELECT statement.
// The fluent API for building queries lives in the managers package.
type SelectCore struct {
	From        Node   // primary source
	Sources     []Node // further comma-separated sources
	Projections []Node
	Joins       []*JoinNode
	Wheres      []Node // conjoined with AND, insertion order
	Groups      []Node
	Havings     []Node
	Orders      []Node
	Limit       Node // nil or LiteralNode
	Offset      Node // nil or LiteralNode
	Distinct    bool
}

func (n *SelectCore) Accept(v Visitor) string { return v.VisitSelectCore(n) }

// Clone returns a structural copy of the core: its slices are fresh, so
// appending to the copy never affects n, while the nodes in them are shared.
func (n *SelectCore) Clone() *SelectCore {
	return &SelectCore{
		From:        n.From,
		Sources:     cloneNodes(n.Sources),
		Projections: cloneNodes(n.Projections),
		Joins:       cloneJoins(n.Joins),
		Wheres:      cloneNodes(n.Wheres),
		Groups:      cloneNodes(n.Groups),
		Havings:     cloneNodes(n.Havings),
		Orders:      cloneNodes(n.Orders),
		Limit:       n.Limit,
		Offset:      n.Offset,
		Distinct:    n.Distinct,
	}
}

// cloneJoins copies each join node as well as the slice, because On
// mutates the most recent join in place.
func cloneJoins(joins []*JoinNode) []*JoinNode {
	if joins == nil {
		return nil
	}
	out := make([]*JoinNode, len(joins))
	for i, j := range joins {
		c := *j
		out[i] = &c
	}
	return out
}

func cloneNodes(in []Node) []Node {
	if in == nil {
		return nil
	}
	out := make([]Node, len(in))
	copy(out, in)
	return out
}

package nodes

// Predications provides comparison methods to types that embed it.
// The self field must be set to the embedding node so that comparisons
// reference the correct left-hand side. Right-hand values that are not
// already nodes are wrapped with Literal.
type Predications struct {
	self Node
}

func (p Predications) compare(op ComparisonOp, val any) *ComparisonNode {
	return NewComparisonNode(p.self, Literal(val), op)
}

// Eq creates an equality comparison: self = val.
func (p Predications) Eq(val any) *ComparisonNode { return p.compare(OpEq, val) }

// NotEq creates an inequality comparison: self != val.
func (p Predications) NotEq(val any) *ComparisonNode { return p.compare(OpNotEq, val) }

// Gt creates self > val.
func (p Predications) Gt(val any) *ComparisonNode { return p.compare(OpGt, val) }

// GtEq creates self >= val.
func (p Predications) GtEq(val any) *ComparisonNode { return p.compare(OpGtEq, val) }

// Lt creates self < val.
func (p Predications) Lt(val any) *ComparisonNode { return p.compare(OpLt, val) }

// LtEq creates self <= val.
func (p Predications) LtEq(val any) *ComparisonNode { return p.compare(OpLtEq, val) }

// Like creates self LIKE val.
func (p Predications) Like(val any) *ComparisonNode { return p.compare(OpLike, val) }

// NotLike creates self NOT LIKE val.
func (p Predications) NotLike(val any) *ComparisonNode { return p.compare(OpNotLike, val) }

// Matches creates a case-insensitive pattern match. The operator is
// chosen by the dialect (ILIKE on PostgreSQL, LIKE elsewhere).
func (p Predications) Matches(val any) *ComparisonNode { return p.compare(OpMatches, val) }

// DoesNotMatch is the negation of Matches.
func (p Predications) DoesNotMatch(val any) *ComparisonNode {
	return p.compare(OpDoesNotMatch, val)
}

// In creates self IN (vals...).
func (p Predications) In(vals ...any) *InNode {
	return p.in(vals, false)
}

// NotIn creates self NOT IN (vals...).
func (p Predications) NotIn(vals ...any) *InNode {
	return p.in(vals, true)
}

func (p Predications) in(vals []any, negate bool) *InNode {
	wrapped := make([]Node, len(vals))
	for i, v := range vals {
		wrapped[i] = Literal(v)
	}
	n := &InNode{Expr: p.self, Vals: wrapped, Negate: negate}
	n.self = n
	return n
}

// Between creates self BETWEEN low AND high.
func (p Predications) Between(low, high any) *BetweenNode {
	n := &BetweenNode{Expr: p.self, Low: Literal(low), High: Literal(high)}
	n.self = n
	return n
}

// NotBetween creates self NOT BETWEEN low AND high.
func (p Predications) NotBetween(low, high any) *BetweenNode {
	n := p.Between(low, high)
	n.Negate = true
	return n
}

// IsNull creates an IS NULL predicate.
func (p Predications) IsNull() *UnaryNode {
	n := &UnaryNode{Expr: p.self, Op: OpIsNull}
	n.self = n
	return n
}

// IsNotNull creates an IS NOT NULL predicate.
func (p Predications) IsNotNull() *UnaryNode {
	n := &UnaryNode{Expr: p.self, Op: OpIsNotNull}
	n.self = n
	return n
}

// EqAny returns (self = v1 OR self = v2 ...). With no values it groups
// an empty IN, which matches nothing.
func (p Predications) EqAny(vals ...any) *GroupingNode {
	if len(vals) == 0 {
		return Grouping(p.in(nil, false))
	}
	var result Node = p.Eq(vals[0])
	for _, v := range vals[1:] {
		or := &OrNode{Left: result, Right: p.Eq(v)}
		or.self = or
		result = or
	}
	return Grouping(result)
}

// As creates an AliasNode wrapping self with the given alias name.
func (p Predications) As(name string) *AliasNode {
	return NewAliasNode(p.self, name)
}

// Asc creates an ascending ordering node.
func (p Predications) Asc() *OrderingNode {
	return &OrderingNode{Expr: p.self, Direction: Asc}
}

// Desc creates a descending ordering node.
func (p Predications) Desc() *OrderingNode {
	return &OrderingNode{Expr: p.self, Direction: Desc}
}

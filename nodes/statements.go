package nodes

// AssignmentNode represents a column = value pair in SET clauses and the
// column/value pairing of an INSERT.
type AssignmentNode struct {
	Left  *Attribute
	Right Node
}

func (n *AssignmentNode) Accept(v Visitor) string { return v.VisitAssignment(n) }

// Assign pairs col with val. Go values are wrapped with Literal; nodes
// (attributes, SqlLiterals) are kept as they are.
func Assign(col *Attribute, val any) *AssignmentNode {
	return &AssignmentNode{Left: col, Right: Literal(val)}
}

// InsertStatement represents INSERT INTO ... (columns) VALUES (...).
type InsertStatement struct {
	Into    Node         // *Table
	Columns []*Attribute // column list
	Values  [][]Node     // rows, each aligned with Columns
	Raw     *SqlLiteral  // verbatim values clause, replaces Columns/Values
}

func (n *InsertStatement) Accept(v Visitor) string { return v.VisitInsertStatement(n) }

// Clone returns a copy whose slices can be appended to independently.
func (n *InsertStatement) Clone() *InsertStatement {
	cols := make([]*Attribute, len(n.Columns))
	copy(cols, n.Columns)
	rows := make([][]Node, len(n.Values))
	for i, row := range n.Values {
		rows[i] = cloneNodes(row)
	}
	return &InsertStatement{Into: n.Into, Columns: cols, Values: rows, Raw: n.Raw}
}

// UpdateStatement represents UPDATE ... SET ... WHERE.
// Assignments holds *AssignmentNode pairs or raw *SqlLiteral SET fragments.
type UpdateStatement struct {
	Table       Node
	Assignments []Node
	Wheres      []Node
}

func (n *UpdateStatement) Accept(v Visitor) string { return v.VisitUpdateStatement(n) }

// Clone returns a copy whose slices can be appended to independently.
func (n *UpdateStatement) Clone() *UpdateStatement {
	return &UpdateStatement{
		Table:       n.Table,
		Assignments: cloneNodes(n.Assignments),
		Wheres:      cloneNodes(n.Wheres),
	}
}

// DeleteStatement represents DELETE FROM ... WHERE.
type DeleteStatement struct {
	From   Node
	Wheres []Node
}

func (n *DeleteStatement) Accept(v Visitor) string { return v.VisitDeleteStatement(n) }

// Clone returns a copy whose slices can be appended to independently.
func (n *DeleteStatement) Clone() *DeleteStatement {
	return &DeleteStatement{From: n.From, Wheres: cloneNodes(n.Wheres)}
}

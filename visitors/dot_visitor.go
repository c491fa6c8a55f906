package visitors

import (
	"fmt"
	"strings"

	"github.com/bawdo/relq/nodes"
)

// Color constants for DOT node categories.
const (
	colorTable      = "#6CA6CD" // tables, aliases, statements
	colorAttribute  = "#B0D4E8" // attributes, stars
	colorComparison = "#FFB347" // comparisons, predicates
	colorLogical    = "#FFEB80" // AND, OR, NOT, grouping, DISTINCT
	colorLiteral    = "#D3D3D3" // literals, values
	colorJoin       = "#77DD77" // joins
	colorOrdering   = "#CDA0E0" // ordering
	colorAssignment = "#FF6961" // assignments, DML
	colorFunction   = "#87CEEB" // aggregates
)

// dotNode represents a single node in the DOT graph.
type dotNode struct {
	id    string
	label string
	color string
}

// dotEdge represents a directed edge between two nodes in the DOT graph.
type dotEdge struct {
	from  string
	to    string
	label string
}

// DotVisitor walks the AST and produces Graphviz DOT output.
// It implements nodes.Visitor; the strings returned by the Visit methods
// are graph node IDs, and ToDot renders the accumulated graph.
type DotVisitor struct {
	nextID    int
	nodes     []dotNode
	edges     []dotEdge
	parentID  string
	edgeLabel string
}

var _ nodes.Visitor = (*DotVisitor)(nil)

// NewDotVisitor creates a new DotVisitor ready to walk an AST.
func NewDotVisitor() *DotVisitor {
	return &DotVisitor{}
}

// addNode creates a new DOT node with the given label and color, returning its ID.
func (dv *DotVisitor) addNode(label, color string) string {
	id := fmt.Sprintf("n%d", dv.nextID)
	dv.nextID++
	dv.nodes = append(dv.nodes, dotNode{id: id, label: label, color: color})
	return id
}

// addEdge records a directed edge from one node to another.
func (dv *DotVisitor) addEdge(from, to, label string) {
	dv.edges = append(dv.edges, dotEdge{from: from, to: to, label: label})
}

// visitChild saves and restores the parent context, sets the edge label,
// and calls child.Accept to recursively visit the child node. A nil child
// is drawn as a placeholder so incomplete trees can still be inspected.
func (dv *DotVisitor) visitChild(parentID, label string, child nodes.Node) string {
	if child == nil {
		id := dv.addNode("nil", colorLiteral)
		dv.addEdge(parentID, id, label)
		return id
	}
	savedParent := dv.parentID
	savedLabel := dv.edgeLabel
	dv.parentID = parentID
	dv.edgeLabel = label
	result := child.Accept(dv)
	dv.parentID = savedParent
	dv.edgeLabel = savedLabel
	return result
}

// visitChildList visits a slice of nodes as indexed children (e.g. "SELECT[0]", "SELECT[1]").
func (dv *DotVisitor) visitChildList(parentID, prefix string, items []nodes.Node) {
	for i, item := range items {
		dv.visitChild(parentID, fmt.Sprintf("%s[%d]", prefix, i), item)
	}
}

// connectToParent adds an edge from the current parentID to nodeID if a parent exists.
func (dv *DotVisitor) connectToParent(nodeID string) {
	if dv.parentID != "" {
		dv.addEdge(dv.parentID, nodeID, dv.edgeLabel)
	}
}

// leaf adds a node with no children.
func (dv *DotVisitor) leaf(label, color string) string {
	id := dv.addNode(label, color)
	dv.connectToParent(id)
	return id
}

// NodeCount returns the number of nodes accumulated so far.
func (dv *DotVisitor) NodeCount() int {
	return len(dv.nodes)
}

// ToDot generates the complete DOT graph text.
func (dv *DotVisitor) ToDot() string {
	var sb strings.Builder

	sb.WriteString("digraph AST {\n")
	sb.WriteString("  rankdir=TB;\n")
	sb.WriteString("  node [shape=box, style=filled, fontname=\"Helvetica\"];\n")
	sb.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n")

	for _, n := range dv.nodes {
		fmt.Fprintf(&sb, "  %s [label=\"%s\", fillcolor=\"%s\"];\n", n.id, escapeLabel(n.label), n.color)
	}

	for _, e := range dv.edges {
		if e.label != "" {
			fmt.Fprintf(&sb, "  %s -> %s [label=\"%s\"];\n", e.from, e.to, e.label)
		} else {
			fmt.Fprintf(&sb, "  %s -> %s;\n", e.from, e.to)
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

// escapeLabel escapes double quotes in DOT labels.
// Backslash sequences like \n are intentional DOT line breaks and are preserved.
func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "\\\"")
}

// --- Visitor interface implementation ---

func (dv *DotVisitor) VisitTable(n *nodes.Table) string {
	return dv.leaf("Table\\n"+n.Name, colorTable)
}

func (dv *DotVisitor) VisitTableAlias(n *nodes.TableAlias) string {
	id := dv.leaf("TableAlias\\n"+n.AliasName, colorTable)
	dv.visitChild(id, "RELATION", n.Relation)
	return id
}

func (dv *DotVisitor) VisitAttribute(n *nodes.Attribute) string {
	label := "Attribute\\n"
	if q := nodes.RelationName(n.Relation); q != "" {
		label += q + "."
	}
	label += n.Name
	if n.TypeName != "" {
		label += "\\n" + n.TypeName
	}
	return dv.leaf(label, colorAttribute)
}

func (dv *DotVisitor) VisitLiteral(n *nodes.LiteralNode) string {
	return dv.leaf(fmt.Sprintf("Literal\\n%v", n.Value), colorLiteral)
}

func (dv *DotVisitor) VisitStar(n *nodes.StarNode) string {
	if n.Table != nil {
		return dv.leaf("Star\\n"+n.Table.Name+".*", colorAttribute)
	}
	return dv.leaf("Star\\n*", colorAttribute)
}

func (dv *DotVisitor) VisitSqlLiteral(n *nodes.SqlLiteral) string {
	return dv.leaf("SqlLiteral\\n"+n.Raw, colorLiteral)
}

// Comparison operator display names.
var comparisonOpName = [...]string{
	nodes.OpEq:           "=",
	nodes.OpNotEq:        "!=",
	nodes.OpGt:           ">",
	nodes.OpGtEq:         ">=",
	nodes.OpLt:           "<",
	nodes.OpLtEq:         "<=",
	nodes.OpLike:         "LIKE",
	nodes.OpNotLike:      "NOT LIKE",
	nodes.OpMatches:      "MATCHES",
	nodes.OpDoesNotMatch: "DOES NOT MATCH",
}

func (dv *DotVisitor) VisitComparison(n *nodes.ComparisonNode) string {
	id := dv.leaf("Comparison\\n"+comparisonOpName[n.Op], colorComparison)
	dv.visitChild(id, "LEFT", n.Left)
	dv.visitChild(id, "RIGHT", n.Right)
	return id
}

func (dv *DotVisitor) VisitUnary(n *nodes.UnaryNode) string {
	label := "Unary\\nIS NULL"
	if n.Op == nodes.OpIsNotNull {
		label = "Unary\\nIS NOT NULL"
	}
	id := dv.leaf(label, colorComparison)
	dv.visitChild(id, "EXPR", n.Expr)
	return id
}

func (dv *DotVisitor) VisitAnd(n *nodes.AndNode) string {
	id := dv.leaf("AND", colorLogical)
	dv.visitChild(id, "LEFT", n.Left)
	dv.visitChild(id, "RIGHT", n.Right)
	return id
}

func (dv *DotVisitor) VisitOr(n *nodes.OrNode) string {
	id := dv.leaf("OR", colorLogical)
	dv.visitChild(id, "LEFT", n.Left)
	dv.visitChild(id, "RIGHT", n.Right)
	return id
}

func (dv *DotVisitor) VisitNot(n *nodes.NotNode) string {
	id := dv.leaf("NOT", colorLogical)
	dv.visitChild(id, "EXPR", n.Expr)
	return id
}

func (dv *DotVisitor) VisitIn(n *nodes.InNode) string {
	label := "IN"
	if n.Negate {
		label = "NOT IN"
	}
	id := dv.leaf(label, colorComparison)
	dv.visitChild(id, "EXPR", n.Expr)
	dv.visitChildList(id, "VAL", n.Vals)
	return id
}

func (dv *DotVisitor) VisitBetween(n *nodes.BetweenNode) string {
	label := "BETWEEN"
	if n.Negate {
		label = "NOT BETWEEN"
	}
	id := dv.leaf(label, colorComparison)
	dv.visitChild(id, "EXPR", n.Expr)
	dv.visitChild(id, "LOW", n.Low)
	dv.visitChild(id, "HIGH", n.High)
	return id
}

func (dv *DotVisitor) VisitGrouping(n *nodes.GroupingNode) string {
	id := dv.leaf("Grouping\\n( )", colorLogical)
	dv.visitChild(id, "EXPR", n.Expr)
	return id
}

func (dv *DotVisitor) VisitJoin(n *nodes.JoinNode) string {
	id := dv.leaf("Join\\n"+n.Type.String(), colorJoin)
	dv.visitChild(id, "RIGHT", n.Right)
	if n.Constraint != nil {
		dv.visitChild(id, "CONSTRAINT", n.Constraint)
	}
	return id
}

func (dv *DotVisitor) VisitOn(n *nodes.OnNode) string {
	id := dv.leaf("ON", colorJoin)
	dv.visitChild(id, "EXPR", n.Expr)
	return id
}

func (dv *DotVisitor) VisitOrdering(n *nodes.OrderingNode) string {
	dir := "ASC"
	if n.Direction == nodes.Desc {
		dir = "DESC"
	}
	id := dv.leaf("Order\\n"+dir, colorOrdering)
	dv.visitChild(id, "EXPR", n.Expr)
	return id
}

// Aggregate function display names.
var aggregateFuncName = [...]string{
	nodes.AggCount: "COUNT",
	nodes.AggSum:   "SUM",
	nodes.AggAvg:   "AVG",
	nodes.AggMin:   "MIN",
	nodes.AggMax:   "MAX",
}

func (dv *DotVisitor) VisitAggregate(n *nodes.AggregateNode) string {
	label := aggregateFuncName[n.Func]
	if n.Distinct {
		label += "\\nDISTINCT"
	}
	id := dv.leaf(label, colorFunction)
	if n.Expr != nil {
		dv.visitChild(id, "EXPR", n.Expr)
	} else {
		starID := dv.addNode("*", colorAttribute)
		dv.addEdge(id, starID, "EXPR")
	}
	return id
}

func (dv *DotVisitor) VisitAlias(n *nodes.AliasNode) string {
	id := dv.leaf("AS\\n"+n.Name, colorFunction)
	dv.visitChild(id, "EXPR", n.Expr)
	return id
}

func (dv *DotVisitor) VisitSelectCore(n *nodes.SelectCore) string {
	id := dv.leaf("SelectCore", colorTable)

	if n.Distinct {
		distinctID := dv.addNode("DISTINCT", colorLogical)
		dv.addEdge(id, distinctID, "DISTINCT")
	}
	if n.From != nil {
		dv.visitChild(id, "FROM", n.From)
	}
	dv.visitChildList(id, "SOURCE", n.Sources)
	dv.visitChildList(id, "SELECT", n.Projections)
	for i, j := range n.Joins {
		dv.visitChild(id, fmt.Sprintf("JOIN[%d]", i), j)
	}
	dv.visitChildList(id, "WHERE", n.Wheres)
	dv.visitChildList(id, "GROUP", n.Groups)
	dv.visitChildList(id, "HAVING", n.Havings)
	dv.visitChildList(id, "ORDER", n.Orders)
	if n.Limit != nil {
		dv.visitChild(id, "LIMIT", n.Limit)
	}
	if n.Offset != nil {
		dv.visitChild(id, "OFFSET", n.Offset)
	}
	return id
}

func (dv *DotVisitor) VisitInsertStatement(n *nodes.InsertStatement) string {
	id := dv.leaf("InsertStatement", colorAssignment)
	dv.visitChild(id, "INTO", n.Into)
	for i, c := range n.Columns {
		dv.visitChild(id, fmt.Sprintf("COLUMN[%d]", i), c)
	}
	for i, row := range n.Values {
		for j, v := range row {
			dv.visitChild(id, fmt.Sprintf("VALUES[%d][%d]", i, j), v)
		}
	}
	if n.Raw != nil {
		dv.visitChild(id, "RAW", n.Raw)
	}
	return id
}

func (dv *DotVisitor) VisitUpdateStatement(n *nodes.UpdateStatement) string {
	id := dv.leaf("UpdateStatement", colorAssignment)
	dv.visitChild(id, "TABLE", n.Table)
	dv.visitChildList(id, "SET", n.Assignments)
	dv.visitChildList(id, "WHERE", n.Wheres)
	return id
}

func (dv *DotVisitor) VisitDeleteStatement(n *nodes.DeleteStatement) string {
	id := dv.leaf("DeleteStatement", colorAssignment)
	dv.visitChild(id, "FROM", n.From)
	dv.visitChildList(id, "WHERE", n.Wheres)
	return id
}

func (dv *DotVisitor) VisitAssignment(n *nodes.AssignmentNode) string {
	id := dv.leaf("Assignment\\n=", colorAssignment)
	if n.Left != nil {
		dv.visitChild(id, "COLUMN", n.Left)
	}
	dv.visitChild(id, "VALUE", n.Right)
	return id
}

package nodes

// Attribute represents a column reference bound to a table or table alias.
type Attribute struct {
	Predications
	Combinable
	Name     string
	Relation Node   // *Table or *TableAlias
	TypeName string // SQL column type, used by the engine when quoting values
}

// NewAttribute creates an Attribute with Predications and Combinable
// properly initialized to reference the new Attribute as self.
func NewAttribute(relation Node, name string) *Attribute {
	a := &Attribute{Name: name, Relation: relation}
	a.Predications.self = a
	a.Combinable.self = a
	return a
}

func (a *Attribute) Accept(v Visitor) string { return v.VisitAttribute(a) }

// Typed returns a copy of the Attribute with TypeName set.
func (a *Attribute) Typed(typeName string) *Attribute {
	c := NewAttribute(a.Relation, a.Name)
	c.TypeName = typeName
	return c
}

// Assign pairs the attribute with a value for an INSERT or UPDATE.
func (a *Attribute) Assign(val any) *AssignmentNode {
	return Assign(a, val)
}

// Count creates COUNT(attr).
func (a *Attribute) Count() *AggregateNode { return Count(a) }

// Sum creates SUM(attr).
func (a *Attribute) Sum() *AggregateNode { return Sum(a) }

// Avg creates AVG(attr).
func (a *Attribute) Avg() *AggregateNode { return Avg(a) }

// Minimum creates MIN(attr).
func (a *Attribute) Minimum() *AggregateNode { return Min(a) }

// Maximum creates MAX(attr).
func (a *Attribute) Maximum() *AggregateNode { return Max(a) }

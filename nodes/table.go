package nodes

import "strconv"

// Table represents a SQL table reference.
type Table struct {
	Name    string
	aliases []*TableAlias
}

func NewTable(name string) *Table {
	return &Table{Name: name}
}

func (t *Table) Accept(v Visitor) string { return v.VisitTable(t) }

// Col creates an Attribute (column reference) bound to this table.
func (t *Table) Col(name string) *Attribute {
	return NewAttribute(t, name)
}

// Alias creates an aliased reference to this table. Without a name the
// alias is numbered from the table name: the first one for "users" is
// "users_2", the next "users_3".
func (t *Table) Alias(name ...string) *TableAlias {
	aliasName := t.Name + "_" + strconv.Itoa(len(t.aliases)+2)
	if len(name) > 0 && name[0] != "" {
		aliasName = name[0]
	}
	ta := &TableAlias{Relation: t, AliasName: aliasName}
	t.aliases = append(t.aliases, ta)
	return ta
}

// Aliases returns the aliases created from this table, oldest first.
func (t *Table) Aliases() []*TableAlias {
	out := make([]*TableAlias, len(t.aliases))
	copy(out, t.aliases)
	return out
}

// Star creates a qualified star (table.*) for this table.
func (t *Table) Star() *StarNode {
	return &StarNode{Table: t}
}

// TableAlias represents an aliased reference to a table or subquery.
// Attributes created from it are qualified with AliasName, so it is a
// distinct relation even when it names the same underlying table.
type TableAlias struct {
	Relation  Node // *Table or *SelectCore
	AliasName string
}

func (ta *TableAlias) Accept(v Visitor) string { return v.VisitTableAlias(ta) }

// Col creates an Attribute (column reference) bound to this table alias.
func (ta *TableAlias) Col(name string) *Attribute {
	return NewAttribute(ta, name)
}

// RelationName returns the name associated with a relation node.
// For a Table it returns the table name; for a TableAlias it returns the alias name.
func RelationName(n Node) string {
	switch r := n.(type) {
	case *Table:
		return r.Name
	case *TableAlias:
		return r.AliasName
	default:
		return ""
	}
}

// TableSourceName returns the underlying table name from a relation node.
// For a TableAlias it looks through to the underlying Table if one exists,
// falling back to the alias name.
func TableSourceName(n Node) string {
	switch r := n.(type) {
	case *Table:
		return r.Name
	case *TableAlias:
		if tbl, ok := r.Relation.(*Table); ok {
			return tbl.Name
		}
		return r.AliasName
	default:
		return ""
	}
}

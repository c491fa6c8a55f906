package plugins

import "github.com/bawdo/relq/nodes"

// TableRef holds a reference to a table relation and its underlying name.
// Relation is the node used to create column references (preserving aliases),
// and Name is the underlying table name (for matching/filtering).
type TableRef struct {
	Relation nodes.Node // *nodes.Table or *nodes.TableAlias
	Name     string     // underlying table name
}

// CollectTables returns all table relations a SelectCore reads from: the
// primary source, the further comma-separated sources and every join
// target, in that order. Subqueries and other non-table nodes are skipped.
func CollectTables(core *nodes.SelectCore) []TableRef {
	var refs []TableRef
	add := func(n nodes.Node) {
		if ref, ok := TableRefOf(n); ok {
			refs = append(refs, ref)
		}
	}
	add(core.From)
	for _, s := range core.Sources {
		add(s)
	}
	for _, j := range core.Joins {
		add(j.Right)
	}
	return refs
}

// TableRefOf describes n when it is a table or an alias. An alias of a
// subquery is reported under its alias name.
func TableRefOf(n nodes.Node) (TableRef, bool) {
	switch r := n.(type) {
	case *nodes.Table:
		return TableRef{Relation: r, Name: r.Name}, true
	case *nodes.TableAlias:
		return TableRef{Relation: r, Name: nodes.TableSourceName(r)}, true
	default:
		return TableRef{}, false
	}
}

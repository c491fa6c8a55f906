package visitors

import (
	"github.com/bawdo/relq/engine"
	"github.com/bawdo/relq/nodes"
)

// For returns the compiler matching the engine's dialect. Engines of any
// other dialect get the generic ToSQLVisitor.
func For(e engine.Engine) nodes.Visitor {
	switch e.Dialect() {
	case engine.MySQL:
		return NewMySQLVisitor(e)
	case engine.SQLite:
		return NewSQLiteVisitor(e)
	default:
		return NewToSQLVisitor(e)
	}
}

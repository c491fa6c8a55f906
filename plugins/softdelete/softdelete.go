// Package softdelete provides a Transformer that hides soft-deleted rows.
//
// A row is soft-deleted when its marker column (default "deleted_at") is
// not NULL. The transformer appends "column IS NULL" to the WHERE clause:
//
//   - of a SELECT, for every table in FROM, the extra sources and the joins;
//   - of an UPDATE or DELETE, for its target table, so that neither touches
//     rows that are already gone.
//
// # Basic usage
//
//	sd := softdelete.New()
//	query := managers.NewSelectManager(eng).From(users).Use(sd)
//	// SELECT * FROM "users" WHERE "users"."deleted_at" IS NULL
//
// # Per-table columns
//
//	sd := softdelete.New(
//	    softdelete.WithTableColumn("users", "deleted_at"),
//	    softdelete.WithTableColumn("posts", "removed_at"),
//	)
//	// users gets "deleted_at" IS NULL; posts gets "removed_at" IS NULL
//
// WithTables restricts the plugin to named tables without changing the
// column. Tables are matched by their underlying name, so aliases of a
// soft-deleting table are filtered too, qualified by the alias.
package softdelete

import (
	"github.com/bawdo/relq/nodes"
	"github.com/bawdo/relq/plugins"
)

// SoftDelete is a Transformer that appends IS NULL conditions for a
// soft-delete column on every referenced table (or a configured subset).
type SoftDelete struct {
	plugins.BaseTransformer
	Column  string
	Columns map[string]string // per-table column overrides (table name → column name)
	tables  map[string]bool   // nil means apply to all tables
}

// Option configures a SoftDelete transformer.
type Option func(*SoftDelete)

// WithColumn sets the soft-delete column name. Default is "deleted_at".
func WithColumn(name string) Option {
	return func(sd *SoftDelete) { sd.Column = name }
}

// WithTables restricts the plugin to only the named tables.
func WithTables(names ...string) Option {
	return func(sd *SoftDelete) {
		if sd.tables == nil {
			sd.tables = make(map[string]bool, len(names))
		}
		for _, n := range names {
			sd.tables[n] = true
		}
	}
}

// WithTableColumn sets a per-table column override. The table is
// automatically added to the whitelist, restricting the plugin's scope.
func WithTableColumn(table, column string) Option {
	return func(sd *SoftDelete) {
		if sd.Columns == nil {
			sd.Columns = make(map[string]string)
		}
		sd.Columns[table] = column
		WithTables(table)(sd)
	}
}

// New creates a SoftDelete transformer with the given options.
func New(opts ...Option) *SoftDelete {
	sd := &SoftDelete{Column: "deleted_at"}
	for _, o := range opts {
		o(sd)
	}
	return sd
}

// TransformSelect filters every matching table the query reads from.
func (sd *SoftDelete) TransformSelect(core *nodes.SelectCore) (*nodes.SelectCore, error) {
	for _, ref := range plugins.CollectTables(core) {
		if cond := sd.condition(ref); cond != nil {
			core.Wheres = append(core.Wheres, cond)
		}
	}
	return core, nil
}

// TransformUpdate keeps an UPDATE away from soft-deleted rows.
func (sd *SoftDelete) TransformUpdate(stmt *nodes.UpdateStatement) (*nodes.UpdateStatement, error) {
	if ref, ok := plugins.TableRefOf(stmt.Table); ok {
		if cond := sd.condition(ref); cond != nil {
			stmt.Wheres = append(stmt.Wheres, cond)
		}
	}
	return stmt, nil
}

// TransformDelete keeps a DELETE away from soft-deleted rows.
func (sd *SoftDelete) TransformDelete(stmt *nodes.DeleteStatement) (*nodes.DeleteStatement, error) {
	if ref, ok := plugins.TableRefOf(stmt.From); ok {
		if cond := sd.condition(ref); cond != nil {
			stmt.Wheres = append(stmt.Wheres, cond)
		}
	}
	return stmt, nil
}

// condition returns "<relation>.<column> IS NULL" for ref, or nil when
// the table is out of scope.
func (sd *SoftDelete) condition(ref plugins.TableRef) nodes.Node {
	if sd.tables != nil && !sd.tables[ref.Name] {
		return nil
	}
	return nodes.NewAttribute(ref.Relation, sd.columnFor(ref.Name)).IsNull()
}

// columnFor returns the column name to use for the given table.
// It checks Columns for a per-table override, falling back to Column.
func (sd *SoftDelete) columnFor(tableName string) string {
	if col, ok := sd.Columns[tableName]; ok {
		return col
	}
	return sd.Column
}

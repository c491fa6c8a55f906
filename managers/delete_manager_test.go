package managers

import (
	"context"
	"testing"

	"github.com/bawdo/relq/internal/testutil"
	"github.com/bawdo/relq/nodes"
	"github.com/bawdo/relq/plugins/softdelete"
)

func TestDeleteAll(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	assertToSQL(t, NewDeleteManager(pgEngine()).From(users), `DELETE FROM "users"`)
}

func TestDeleteWhere(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewDeleteManager(pgEngine()).
		From(users).
		Where(users.Col("id").Eq(10)).
		Where(users.Col("email").IsNull())
	assertToSQL(t, m, `DELETE FROM "users" WHERE "users"."id" = 10 AND "users"."email" IS NULL`)
}

func TestDeleteWithoutTable(t *testing.T) {
	t.Parallel()
	_, err := NewDeleteManager(pgEngine()).ToSQL()
	testutil.AssertErrorIs(t, err, ErrNoTable)
}

func TestDeleteSoftDelete(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewDeleteManager(pgEngine()).From(users).Where(users.Col("id").Eq(1)).Use(softdelete.New())
	assertToSQL(t, m, `DELETE FROM "users" WHERE "users"."id" = 1 AND "users"."deleted_at" IS NULL`)
	testutil.AssertEqual(t, len(m.Statement.Wheres), 1)
}

func TestDeleteExecute(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	e := pgEngine()
	_, err := NewDeleteManager(e).From(users).Execute(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, e.Last(), testutil.Executed{Kind: "delete", SQL: `DELETE FROM "users"`, SourceTag: "RELQ"})
}

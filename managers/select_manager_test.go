package managers

import (
	"context"
	"errors"
	"testing"

	"github.com/bawdo/relq/engine"
	"github.com/bawdo/relq/internal/testutil"
	"github.com/bawdo/relq/nodes"
	"github.com/bawdo/relq/plugins"
	"github.com/bawdo/relq/plugins/softdelete"
)

func pgEngine() *testutil.RecordingEngine {
	return testutil.NewRecordingEngine(engine.Postgres)
}

func assertToSQL(t *testing.T, m interface{ ToSQL() (string, error) }, expected string) {
	t.Helper()
	got, err := m.ToSQL()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got, expected)
}

// --- NewSelectManager ---

func TestNewSelectManagerIsEmpty(t *testing.T) {
	t.Parallel()
	e := pgEngine()
	m := NewSelectManager(e)

	if m.Core == nil {
		t.Fatal("expected a SelectCore")
	}
	if m.Core.From != nil || len(m.Core.Projections) != 0 || len(m.Core.Wheres) != 0 || len(m.Core.Joins) != 0 {
		t.Error("expected an empty core")
	}
	if m.Engine() != e {
		t.Error("expected the engine to be kept")
	}
}

// --- Chaining ---

func TestChainingReturnsSameManager(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(pgEngine())

	steps := []*SelectManager{
		m.Project(users.Col("id")),
		m.From(users),
		m.Where(users.Col("id").Eq(1)),
		m.Order(users.Col("id").Asc()),
		m.Take(1),
		m.Skip(2),
		m.Group(users.Col("id")),
		m.Having(nodes.Count(nil).Gt(0)),
		m.Distinct(),
		m.Use(plugins.BaseTransformer{}),
	}
	for i, s := range steps {
		if s != m {
			t.Errorf("step %d returned a different manager", i)
		}
	}
}

func TestToSQLIsDeterministic(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(pgEngine()).
		From(users).
		Where(users.Col("name").In("a", "b"))

	first, err := m.ToSQL()
	testutil.AssertNoError(t, err)
	second, err := m.ToSQL()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, second, first)
}

// --- Project / From ---

func TestSelectSingleColumn(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(pgEngine()).
		Project(users.Col("id")).
		From(users).
		Where(users.Col("id").Eq(1))
	assertToSQL(t, m, `SELECT "users"."id" FROM "users" WHERE "users"."id" = 1`)
}

func TestProjectAppends(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(pgEngine()).From(users)
	m.Project(users.Col("id"))
	m.Project(users.Col("name"), users.Col("id"))
	assertToSQL(t, m, `SELECT "users"."id", "users"."name", "users"."id" FROM "users"`)
}

func TestSelectStarLiteral(t *testing.T) {
	t.Parallel()
	m := NewSelectManager(pgEngine()).Project(nodes.NewSqlLiteral("*"))
	assertToSQL(t, m, `SELECT *`)
}

func TestSelectWithoutFromRejectsClauses(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")

	_, err := NewSelectManager(pgEngine()).ToSQL()
	testutil.AssertErrorIs(t, err, ErrNoTable)

	_, err = NewSelectManager(pgEngine()).
		Project(nodes.NewSqlLiteral("1")).
		Where(users.Col("id").Eq(1)).
		ToSQL()
	testutil.AssertErrorIs(t, err, ErrNoTable)
}

func TestFromMultipleSources(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	teams := nodes.NewTable("teams")
	m := NewSelectManager(pgEngine()).From(users).From(teams)
	assertToSQL(t, m, `SELECT * FROM "users", "teams"`)
}

func TestFromJoinNode(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	posts := nodes.NewTable("posts")
	join := nodes.NewInnerJoin(users, posts, nodes.On(users.Col("id").Eq(posts.Col("user_id"))))
	m := NewSelectManager(pgEngine()).From(join)
	assertToSQL(t, m, `SELECT * FROM "users" INNER JOIN "posts" ON "users"."id" = "posts"."user_id"`)
}

func TestFromSubquery(t *testing.T) {
	t.Parallel()
	posts := nodes.NewTable("posts")
	sub := NewSelectManager(pgEngine()).
		Project(posts.Col("user_id")).
		From(posts).
		Where(posts.Col("draft").Eq(false))
	m := NewSelectManager(pgEngine()).From(sub.As("p"))
	assertToSQL(t, m, `SELECT * FROM (SELECT "posts"."user_id" FROM "posts" WHERE "posts"."draft" = FALSE) "p"`)
}

// --- Where ---

func TestWhereKeepsInsertionOrder(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(pgEngine()).From(users)
	m.Where(users.Col("b").Eq(2))
	m.Where(users.Col("a").Eq(1), users.Col("c").Eq(3))
	assertToSQL(t, m, `SELECT * FROM "users" WHERE "users"."b" = 2 AND "users"."a" = 1 AND "users"."c" = 3`)
}

func TestWhereNullAndEmptyIn(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(pgEngine()).
		From(users).
		Where(users.Col("deleted_at").Eq(nil), users.Col("id").In())
	assertToSQL(t, m, `SELECT * FROM "users" WHERE "users"."deleted_at" IS NULL AND 1=0`)
}

func TestWhereEmptyEqAny(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(pgEngine()).From(users).Where(users.Col("id").EqAny())
	assertToSQL(t, m, `SELECT * FROM "users" WHERE (1=0)`)
}

// --- Order / Take / Skip ---

func TestTakeOverwrites(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(pgEngine()).From(users).Take(10).Take(5)
	assertToSQL(t, m, `SELECT * FROM "users" LIMIT 5`)
}

func TestClauseOrderIndependentOfCallOrder(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(pgEngine()).
		Skip(20).
		Take(10).
		Order(users.Col("name").Desc()).
		Having(nodes.Count(nil).Gt(1)).
		Group(users.Col("name")).
		Where(users.Col("active").Eq(true)).
		From(users).
		Project(users.Col("name"), nodes.Count(nil)).
		Distinct()
	assertToSQL(t, m,
		`SELECT DISTINCT "users"."name", COUNT(*) FROM "users" WHERE "users"."active" = TRUE `+
			`GROUP BY "users"."name" HAVING COUNT(*) > 1 ORDER BY "users"."name" DESC LIMIT 10 OFFSET 20`)
}

func TestDistinctOff(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(pgEngine()).From(users).Distinct().Distinct(false)
	assertToSQL(t, m, `SELECT * FROM "users"`)
}

func TestSkipOnlyPerDialect(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	my := NewSelectManager(testutil.NewRecordingEngine(engine.MySQL)).From(users).Skip(3)
	assertToSQL(t, my, "SELECT * FROM `users` LIMIT 18446744073709551615 OFFSET 3")
	lite := NewSelectManager(testutil.NewRecordingEngine(engine.SQLite)).From(users).Skip(3)
	assertToSQL(t, lite, `SELECT * FROM "users" LIMIT -1 OFFSET 3`)
}

// --- Join / On ---

func TestSelfJoinRoundTrip(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	u2 := users.Alias()
	m := NewSelectManager(pgEngine()).
		From(users).
		Join(u2).
		On(users.Col("id").Eq(u2.Col("id")))

	got, err := m.JoinSQL()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got, `"users" INNER JOIN "users" "users_2" ON "users"."id" = "users_2"."id"`)

	assertToSQL(t, m, `SELECT * FROM "users" INNER JOIN "users" "users_2" ON "users"."id" = "users_2"."id"`)
}

func TestJoinNodeRoundTrip(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	u2 := users.Alias()
	pred := users.Col("id").Eq(u2.Col("id"))

	inner := NewSelectManager(pgEngine()).From(nodes.NewInnerJoin(users, u2, pred))
	got, err := inner.JoinSQL()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got, `"users" INNER JOIN "users" "users_2" "users"."id" = "users_2"."id"`)
	assertToSQL(t, inner, `SELECT * FROM "users" INNER JOIN "users" "users_2" "users"."id" = "users_2"."id"`)

	outer := NewSelectManager(pgEngine()).From(nodes.NewOuterJoin(users, u2, pred))
	got, err = outer.JoinSQL()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got, `"users" OUTER JOIN "users" "users_2" "users"."id" = "users_2"."id"`)
}

func TestOuterJoin(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	posts := nodes.NewTable("posts")
	m := NewSelectManager(pgEngine()).
		From(users).
		OuterJoin(posts).
		On(users.Col("id").Eq(posts.Col("user_id")))
	got, err := m.JoinSQL()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got, `"users" OUTER JOIN "posts" ON "users"."id" = "posts"."user_id"`)
}

func TestOnTargetsLastJoin(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	posts := nodes.NewTable("posts")
	comments := nodes.NewTable("comments")
	m := NewSelectManager(pgEngine()).
		From(users).
		Join(posts).On(users.Col("id").Eq(posts.Col("user_id"))).
		Join(comments).On(posts.Col("id").Eq(comments.Col("post_id")))
	assertToSQL(t, m,
		`SELECT * FROM "users" INNER JOIN "posts" ON "users"."id" = "posts"."user_id" `+
			`INNER JOIN "comments" ON "posts"."id" = "comments"."post_id"`)
}

func TestRepeatedOnIsAnded(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	posts := nodes.NewTable("posts")
	m := NewSelectManager(pgEngine()).
		From(users).
		Join(posts).
		On(users.Col("id").Eq(posts.Col("user_id"))).
		On(posts.Col("draft").Eq(false))
	assertToSQL(t, m,
		`SELECT * FROM "users" INNER JOIN "posts" ON "users"."id" = "posts"."user_id" AND "posts"."draft" = FALSE`)
}

func TestOnWithoutJoinFails(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(pgEngine()).From(users).On(users.Col("id").Eq(1))
	_, err := m.ToSQL()
	testutil.AssertErrorIs(t, err, ErrNoJoin)
}

func TestOnWithNoConditionsIsNoop(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	posts := nodes.NewTable("posts")
	m := NewSelectManager(pgEngine()).From(users).Join(posts).On()
	assertToSQL(t, m, `SELECT * FROM "users" INNER JOIN "posts"`)
}

func TestJoinSQLWithoutJoins(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	got, err := NewSelectManager(pgEngine()).From(users).JoinSQL()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got, "")
}

func TestJoinsRendersOtherManager(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	u2 := users.Alias()
	other := NewSelectManager(pgEngine()).From(users).Join(u2).On(users.Col("id").Eq(u2.Col("id")))
	m := NewSelectManager(pgEngine()).From(users)

	got, err := m.Joins(other)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got, `"users" INNER JOIN "users" "users_2" ON "users"."id" = "users_2"."id"`)
	if len(m.Core.Joins) != 0 || len(other.Core.Joins) != 1 {
		t.Error("expected neither manager to change")
	}
}

// --- Transformers ---

func TestUseAppliesTransformerToCopy(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(pgEngine()).From(users).Use(softdelete.New())

	assertToSQL(t, m, `SELECT * FROM "users" WHERE "users"."deleted_at" IS NULL`)
	if len(m.Core.Wheres) != 0 {
		t.Error("expected the transformer not to touch the manager's core")
	}
	if len(m.Transformers()) != 1 {
		t.Errorf("expected 1 transformer, got %d", len(m.Transformers()))
	}
}

type failingTransformer struct {
	plugins.BaseTransformer
}

var errTransform = errors.New("transform refused")

func (failingTransformer) TransformSelect(*nodes.SelectCore) (*nodes.SelectCore, error) {
	return nil, errTransform
}

func TestTransformerErrorSurfaces(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(pgEngine()).From(users).Use(failingTransformer{})
	_, err := m.ToSQL()
	testutil.AssertErrorIs(t, err, errTransform)
}

// --- Rendering failures ---

func TestUnsupportedValueIsAnError(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(pgEngine()).From(users).Where(users.Col("id").Eq(make(chan int)))
	_, err := m.ToSQL()
	testutil.AssertErrorIs(t, err, engine.ErrUnsupportedValue)
}

func TestNilEngine(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	_, err := NewSelectManager(nil).From(users).ToSQL()
	testutil.AssertErrorIs(t, err, errNoEngine)
}

// --- Execute ---

func TestExecuteRunsSelect(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	e := pgEngine()
	e.Result = engine.Result{Columns: []string{"id"}, Rows: [][]any{{int64(1)}}}

	res, err := NewSelectManager(e).Project(users.Col("id")).From(users).Execute(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(res.Rows), 1)
	testutil.AssertEqual(t, e.Last(), testutil.Executed{Kind: "select", SQL: `SELECT "users"."id" FROM "users"`})
}

func TestExecuteWrapsEngineError(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	e := pgEngine()
	e.Err = errors.New("connection reset")

	_, err := NewSelectManager(e).From(users).Execute(context.Background())
	testutil.AssertErrorIs(t, err, e.Err)
}

func TestExecuteDoesNotRunInvalidQuery(t *testing.T) {
	t.Parallel()
	e := pgEngine()
	_, err := NewSelectManager(e).Execute(context.Background())
	testutil.AssertErrorIs(t, err, ErrNoTable)
	testutil.AssertEqual(t, len(e.Executed), 0)
}

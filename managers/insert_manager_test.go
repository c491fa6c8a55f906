package managers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bawdo/relq/engine"
	"github.com/bawdo/relq/internal/testutil"
	"github.com/bawdo/relq/nodes"
	"github.com/bawdo/relq/plugins"
)

func TestInsertColumnsAndValues(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewInsertManager(pgEngine()).
		Into(users).
		Columns(users.Col("name"), users.Col("age")).
		Values("Alice", 30).
		Values("Bob", 25)
	assertToSQL(t, m, `INSERT INTO "users" ("name", "age") VALUES ('Alice', 30), ('Bob', 25)`)
}

func TestInsertAssignmentsInferTable(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewInsertManager(pgEngine()).Insert(users.Col("name").Assign("Alice"))
	assertToSQL(t, m, `INSERT INTO "users" ("name") VALUES ('Alice')`)
}

func TestInsertReplacesRow(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewInsertManager(pgEngine()).
		Insert(users.Col("name").Assign("Alice")).
		Insert(users.Col("email").Assign("bob@example.com"))
	assertToSQL(t, m, `INSERT INTO "users" ("email") VALUES ('bob@example.com')`)
}

func TestInsertTypedColumns(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewInsertManager(pgEngine()).Insert(
		users.Col("age").Typed("integer").Assign("42"),
		users.Col("zip").Typed("text").Assign(2134),
	)
	assertToSQL(t, m, `INSERT INTO "users" ("age", "zip") VALUES (42, '2134')`)
}

func TestInsertRawValues(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewInsertManager(pgEngine()).Into(users).Insert(nodes.NewSqlLiteral("DEFAULT VALUES"))
	assertToSQL(t, m, `INSERT INTO "users" DEFAULT VALUES`)
}

func TestInsertMySQL(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewInsertManager(testutil.NewRecordingEngine(engine.MySQL)).
		Into(users).
		Columns(users.Col("name")).
		Values("O'Brien")
	assertToSQL(t, m, "INSERT INTO `users` (`name`) VALUES ('O''Brien')")
}

func TestInsertErrors(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")

	_, err := NewInsertManager(pgEngine()).Columns(users.Col("name")).Values("x").ToSQL()
	testutil.AssertErrorIs(t, err, ErrNoTable)

	_, err = NewInsertManager(pgEngine()).Into(users).ToSQL()
	testutil.AssertErrorIs(t, err, ErrNoAssignments)

	_, err = NewInsertManager(pgEngine()).Into(users).Columns(users.Col("a"), users.Col("b")).Values(1).ToSQL()
	testutil.AssertError(t, err)
	if !strings.Contains(err.Error(), "1 values for 2 columns") {
		t.Errorf("unexpected error: %v", err)
	}

	_, err = NewInsertManager(pgEngine()).Into(users).Insert(users.Col("a").Eq(1)).ToSQL()
	testutil.AssertError(t, err)
}

type stampInsert struct {
	plugins.BaseTransformer
}

func (stampInsert) TransformInsert(s *nodes.InsertStatement) (*nodes.InsertStatement, error) {
	tbl, ok := s.Into.(*nodes.Table)
	if !ok {
		return nil, errors.New("unexpected target")
	}
	s.Columns = append(s.Columns, tbl.Col("created_by"))
	for i := range s.Values {
		s.Values[i] = append(s.Values[i], nodes.Literal("relq"))
	}
	return s, nil
}

func TestInsertTransformerWorksOnCopy(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewInsertManager(pgEngine()).Insert(users.Col("name").Assign("Alice")).Use(stampInsert{})
	assertToSQL(t, m, `INSERT INTO "users" ("name", "created_by") VALUES ('Alice', 'relq')`)
	testutil.AssertEqual(t, len(m.Statement.Columns), 1)
	testutil.AssertEqual(t, len(m.Statement.Values[0]), 1)
}

func TestInsertExecute(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	e := pgEngine()
	_, err := NewInsertManager(e).Insert(users.Col("name").Assign("Alice")).Execute(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, e.Last().Kind, "insert")
	testutil.AssertEqual(t, e.Last().SourceTag, "")
}

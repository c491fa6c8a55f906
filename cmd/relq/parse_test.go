package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bawdo/relq/engine"
	"github.com/bawdo/relq/internal/testutil"
	"github.com/bawdo/relq/visitors"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"users.id = 1", []string{"users.id", "=", "1"}},
		{"users.id>=1", []string{"users.id", ">=", "1"}},
		{"users.id <> 1", []string{"users.id", "<>", "1"}},
		{"users.id != 1", []string{"users.id", "!=", "1"}},
		{"users.name = 'O''Brien and co'", []string{"users.name", "=", "'O''Brien and co'"}},
		{"users.id in (1, 2,3)", []string{"users.id", "in", "(", "1", ",", "2", ",", "3", ")"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenize(tt.in))
		})
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"true", true},
		{"FALSE", false},
		{"null", nil},
		{"'it''s'", "it's"},
		{"''", ""},
		{"42", int64(42)},
		{"-7", int64(-7)},
		{"2.5", 2.5},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseValue(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parseValue("bareword")
	require.ErrorContains(t, err, "cannot parse value")
}

func TestParseExpression(t *testing.T) {
	sess, _ := newTestSession(t, engine.Postgres)
	sess.ensureTable("users")
	sess.ensureTable("posts")
	v := visitors.NewPostgresVisitor(engine.PostgresQuoter)

	tests := []struct {
		in   string
		want string
	}{
		{"users.id = 1", `"users"."id" = 1`},
		{"users.id != 1", `"users"."id" != 1`},
		{"users.id = posts.user_id", `"users"."id" = "posts"."user_id"`},
		{"users.score = 1.5", `"users"."score" = 1.5`},
		{"users.email = null", `"users"."email" IS NULL`},
		{"users.email is null", `"users"."email" IS NULL`},
		{"users.email is not null", `"users"."email" IS NOT NULL`},
		{"users.id in (1, 2)", `"users"."id" IN (1, 2)`},
		{"users.id in ()", `1=0`},
		{"users.id not in (3)", `"users"."id" NOT IN (3)`},
		{"users.age between 18 and 65", `"users"."age" BETWEEN 18 AND 65`},
		{"users.age not between 18 and 65", `"users"."age" NOT BETWEEN 18 AND 65`},
		{"users.name like 'A%'", `"users"."name" LIKE 'A%'`},
		{"users.name not like 'A%'", `"users"."name" NOT LIKE 'A%'`},
		{"users.name matches 'a%'", `"users"."name" ILIKE 'a%'`},
		{"users.a = 1 and users.b = 2", `"users"."a" = 1 AND "users"."b" = 2`},
		{"users.a = 1 or users.b = 2", `("users"."a" = 1 OR "users"."b" = 2)`},
		{
			"users.age between 1 and 2 and users.a = 1 or users.b = 2",
			`("users"."age" BETWEEN 1 AND 2 AND "users"."a" = 1 OR "users"."b" = 2)`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			n, err := sess.parseExpression(tt.in)
			require.NoError(t, err)
			testutil.AssertSQL(t, v, n, tt.want)
		})
	}
}

func TestParseExpressionErrors(t *testing.T) {
	sess, _ := newTestSession(t, engine.Postgres)
	sess.ensureTable("users")

	tests := []struct {
		in   string
		want string
	}{
		{"", "empty condition"},
		{"users.id", "incomplete condition"},
		{"id = 1", "expected table.column"},
		{"users.id ~ 1", "unknown operator"},
		{"users.id = 1 2", "expected one operand"},
		{"users.id is maybe", "expected NULL or NOT NULL"},
		{"users.id between 1 or 2", "expected: BETWEEN"},
		{"users.id not = 1", "after NOT"},
		{"users.id = bareword", "cannot parse value"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := sess.parseExpression(tt.in)
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestParseProjection(t *testing.T) {
	sess, _ := newTestSession(t, engine.Postgres)
	sess.ensureTable("orders")
	sess.aliases["o"] = sess.ensureTable("orders").Alias("o")
	v := visitors.NewPostgresVisitor(engine.PostgresQuoter)

	tests := []struct {
		in   string
		want string
	}{
		{"*", `*`},
		{"orders.*", `"orders".*`},
		{"orders.total", `"orders"."total"`},
		{"orders.total as amount", `"orders"."total" AS "amount"`},
		{"count(*)", `COUNT(*)`},
		{"COUNT(DISTINCT orders.user_id)", `COUNT(DISTINCT "orders"."user_id")`},
		{"sum(orders.total) AS revenue", `SUM("orders"."total") AS "revenue"`},
		{"avg(o.total)", `AVG("o"."total")`},
		{"min(orders.total)", `MIN("orders"."total")`},
		{"max(orders.total)", `MAX("orders"."total")`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			n, err := sess.parseProjection(tt.in)
			require.NoError(t, err)
			testutil.AssertSQL(t, v, n, tt.want)
		})
	}

	_, err := sess.parseProjection("sum(*)")
	require.ErrorContains(t, err, "requires a single column")
	_, err = sess.parseProjection("median(orders.total)")
	require.ErrorContains(t, err, "unknown aggregate")
}

func TestParseOrderingAndAssignment(t *testing.T) {
	sess, _ := newTestSession(t, engine.Postgres)
	sess.ensureTable("users")
	v := visitors.NewPostgresVisitor(engine.PostgresQuoter)

	o, err := sess.parseOrdering("users.name")
	require.NoError(t, err)
	testutil.AssertSQL(t, v, o, `"users"."name" ASC`)

	o, err = sess.parseOrdering("users.name DESC")
	require.NoError(t, err)
	testutil.AssertSQL(t, v, o, `"users"."name" DESC`)

	_, err = sess.parseOrdering("users.name sideways")
	require.ErrorContains(t, err, "unknown direction")

	a, err := sess.parseAssignment("users.name = 'a=b'")
	require.NoError(t, err)
	testutil.AssertSQL(t, v, a, `"name" = 'a=b'`)

	_, err = sess.parseAssignment("users.name")
	require.ErrorContains(t, err, "expected table.column = value")
}

func TestSplitList(t *testing.T) {
	assert.Equal(t,
		[]string{"users.id", "count(distinct users.a)", "'x, y'"},
		splitList("users.id, count(distinct users.a) , 'x, y',"))
	assert.Empty(t, splitList("  "))
}

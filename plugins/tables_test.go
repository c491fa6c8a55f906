package plugins

import (
	"testing"

	"github.com/bawdo/relq/nodes"
)

func TestCollectTablesFromTable(t *testing.T) {
	users := nodes.NewTable("users")
	core := &nodes.SelectCore{From: users}

	refs := CollectTables(core)
	if len(refs) != 1 {
		t.Fatalf("expected 1 ref, got %d", len(refs))
	}
	if refs[0].Name != "users" {
		t.Errorf("expected name 'users', got %q", refs[0].Name)
	}
	if refs[0].Relation != users {
		t.Error("expected relation to be the table")
	}
}

func TestCollectTablesFromAlias(t *testing.T) {
	u := nodes.NewTable("users").Alias("u")
	core := &nodes.SelectCore{From: u}

	refs := CollectTables(core)
	if len(refs) != 1 {
		t.Fatalf("expected 1 ref, got %d", len(refs))
	}
	if refs[0].Name != "users" {
		t.Errorf("expected underlying name 'users', got %q", refs[0].Name)
	}
	if refs[0].Relation != u {
		t.Error("expected relation to be the alias")
	}
}

func TestCollectTablesOrder(t *testing.T) {
	users := nodes.NewTable("users")
	teams := nodes.NewTable("teams")
	posts := nodes.NewTable("posts")
	comments := nodes.NewTable("comments")
	core := &nodes.SelectCore{
		From:    users,
		Sources: []nodes.Node{teams},
		Joins: []*nodes.JoinNode{
			nodes.NewInnerJoin(users, posts, nil),
			nodes.NewOuterJoin(users, comments, nil),
		},
	}

	refs := CollectTables(core)
	want := []string{"users", "teams", "posts", "comments"}
	if len(refs) != len(want) {
		t.Fatalf("expected %d refs, got %d", len(want), len(refs))
	}
	for i, r := range refs {
		if r.Name != want[i] {
			t.Errorf("ref %d: expected %q, got %q", i, want[i], r.Name)
		}
	}
}

func TestCollectTablesSkipsSubquery(t *testing.T) {
	users := nodes.NewTable("users")
	subquery := &nodes.SelectCore{From: nodes.NewTable("posts")}
	core := &nodes.SelectCore{
		From:  users,
		Joins: []*nodes.JoinNode{nodes.NewInnerJoin(users, subquery, nil)},
	}

	refs := CollectTables(core)
	if len(refs) != 1 {
		t.Fatalf("expected 1 ref (subquery skipped), got %d", len(refs))
	}
	if refs[0].Name != "users" {
		t.Errorf("expected 'users', got %q", refs[0].Name)
	}
}

func TestCollectTablesNilFrom(t *testing.T) {
	refs := CollectTables(&nodes.SelectCore{})
	if len(refs) != 0 {
		t.Errorf("expected 0 refs, got %d", len(refs))
	}
}

func TestTableRefOfSubqueryAlias(t *testing.T) {
	sub := &nodes.TableAlias{Relation: &nodes.SelectCore{}, AliasName: "recent"}

	ref, ok := TableRefOf(sub)
	if !ok {
		t.Fatal("expected an aliased subquery to be a table ref")
	}
	if ref.Name != "recent" {
		t.Errorf("expected alias name, got %q", ref.Name)
	}
	if _, ok := TableRefOf(nodes.NewSqlLiteral("users")); ok {
		t.Error("expected a raw fragment not to be a table ref")
	}
}

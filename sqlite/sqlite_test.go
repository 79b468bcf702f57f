package sqlite

import (
	"errors"
	"testing"
	"time"

	"github.com/zoobzio/tsql"
)

func tables() (users, posts tsql.Table) {
	users = tsql.NewTable("users",
		tsql.Col("id", tsql.Integral),
		tsql.Col("email", tsql.Text),
		tsql.Col("active", tsql.Boolean),
		tsql.Col("born", tsql.Date.AsOptional()),
	)
	posts = tsql.NewTable("posts",
		tsql.Col("id", tsql.Integral),
		tsql.Col("user_id", tsql.Integral),
	)
	return users, posts
}

func TestNew(t *testing.T) {
	if v := New().Version(); v != DefaultVersion {
		t.Errorf("Version() = %v, want %v", v, DefaultVersion)
	}
	if v := New(WithVersion(3, 7, 17)).Version(); v.String() != "3.7.17" {
		t.Errorf("Version() = %v, want 3.7.17", v)
	}
}

func TestRender(t *testing.T) {
	u, p := tables()
	id := u.C("id")
	recent := tsql.CTE("recent").As(tsql.Select(p.C("user_id")).From(p).Where(tsql.Gt(p.C("id"), 100)))

	tests := []struct {
		name string
		stmt tsql.Statement
		want string
	}{
		{
			name: "boolean literal",
			stmt: tsql.Select(id).From(u).Where(tsql.Eq(u.C("active"), true)),
			want: `SELECT "users"."id" FROM "users" WHERE "users"."active" = 1`,
		},
		{
			name: "empty in",
			stmt: tsql.Select(id).From(u).Where(tsql.In(id)),
			want: `SELECT "users"."id" FROM "users" WHERE 1 = 0`,
		},
		{
			name: "date literal",
			stmt: tsql.Select(id).From(u).Where(tsql.Lt(u.C("born"), tsql.DateOf(2000, time.January, 1))),
			want: `SELECT "users"."id" FROM "users" WHERE "users"."born" < '2000-01-01'`,
		},
		{
			name: "distinct from",
			stmt: tsql.Select(id).From(u).Where(tsql.IsDistinctFrom(u.C("born"), tsql.Null)),
			want: `SELECT "users"."id" FROM "users" WHERE "users"."born" IS NOT NULL`,
		},
		{
			name: "offset without limit",
			stmt: tsql.Select(id).From(u).OrderBy(id).Offset(5),
			want: `SELECT "users"."id" FROM "users" ORDER BY "users"."id" ASC LIMIT -1 OFFSET 5`,
		},
		{
			name: "union operands are bare",
			stmt: tsql.Select(id).From(u).Union(tsql.Select(p.C("user_id")).From(p)),
			want: `SELECT "users"."id" FROM "users" UNION SELECT "posts"."user_id" FROM "posts"`,
		},
		{
			name: "with",
			stmt: tsql.With(recent).Select(recent.C("user_id")).From(recent),
			want: `WITH "recent" AS (SELECT "posts"."user_id" FROM "posts" WHERE "posts"."id" > 100) SELECT "recent"."user_id" FROM "recent"`,
		},
		{
			name: "insert returning",
			stmt: tsql.InsertInto(p).Set(tsql.Set(p.C("id"), 1), tsql.Set(p.C("user_id"), 2)).Returning(p.C("id")),
			want: `INSERT INTO "posts" ("id", "user_id") VALUES(1, 2) RETURNING "posts"."id"`,
		},
		{
			name: "truncate",
			stmt: tsql.Truncate(p),
			want: `DELETE FROM "posts"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tt.stmt.Render(New())
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if res.SQL != tt.want {
				t.Errorf("SQL = %q, want %q", res.SQL, tt.want)
			}
		})
	}
}

func TestUnsupportedFeatures(t *testing.T) {
	u, p := tables()
	id := u.C("id")
	recent := tsql.CTE("recent").As(tsql.Select(p.C("user_id")).From(p))

	tests := []struct {
		name    string
		version Option
		stmt    tsql.Statement
		want    string
	}{
		{
			name:    "with before 3.8.3",
			version: WithVersion(3, 7, 0),
			stmt:    tsql.With(recent).Select(recent.C("user_id")).From(recent),
			want:    "sqlite: WITH is not supported: no support before version 3.8.3",
		},
		{
			name:    "returning before 3.35.0",
			version: WithVersion(3, 34, 1),
			stmt:    tsql.DeleteFrom(p).Where(tsql.Eq(p.C("id"), 1)).Returning(p.C("id")),
			want:    "sqlite: DELETE ... RETURNING is not supported: no support before version 3.35.0",
		},
		{
			name:    "right join before 3.39.0",
			version: WithVersion(3, 38, 5),
			stmt:    tsql.Select(id).From(tsql.Source(u).RightJoin(p).On(tsql.Eq(p.C("user_id"), id))),
			want:    "sqlite: RIGHT OUTER JOIN is not supported: no support before version 3.39.0",
		},
		{
			name:    "for update",
			version: WithVersion(3, 46, 0),
			stmt:    tsql.Select(id).From(u).ForUpdate(),
			want:    "sqlite: FOR UPDATE is not supported: SQLite uses database-level locking",
		},
		{
			name:    "bitwise xor",
			version: WithVersion(3, 46, 0),
			stmt:    tsql.Select(tsql.As(tsql.BitXor(id, 1), "v")).From(u),
			want:    "sqlite: bitwise XOR is not supported: use (a | b) - (a & b) instead",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.stmt.Render(New(tt.version))
			var ufe tsql.UnsupportedFeatureError
			if !errors.As(err, &ufe) {
				t.Fatalf("expected UnsupportedFeatureError, got %v", err)
			}
			if err.Error() != tt.want {
				t.Errorf("error = %q, want %q", err.Error(), tt.want)
			}
		})
	}
}

func TestWithSupportedFrom383(t *testing.T) {
	_, p := tables()
	recent := tsql.CTE("recent").As(tsql.Select(p.C("user_id")).From(p))

	if _, err := tsql.With(recent).Select(recent.C("user_id")).From(recent).Render(New(WithVersion(3, 8, 3))); err != nil {
		t.Errorf("Render() error = %v", err)
	}
}

func TestVersionLess(t *testing.T) {
	tests := []struct {
		a, b Version
		want bool
	}{
		{Version{3, 8, 2}, Version{3, 8, 3}, true},
		{Version{3, 8, 3}, Version{3, 8, 3}, false},
		{Version{3, 9, 0}, Version{3, 8, 3}, false},
		{Version{2, 99, 99}, Version{3, 0, 0}, true},
	}
	for _, tt := range tests {
		if got := tt.a.Less(tt.b); got != tt.want {
			t.Errorf("%v.Less(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

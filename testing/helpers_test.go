package testing

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/zoobzio/tsql"
	"github.com/zoobzio/tsql/postgres"
	"github.com/zoobzio/tsql/sqlite"
)

func TestFooBar(t *testing.T) {
	foo, bar := FooBar()
	if foo.Name != "foo" || bar.Name != "bar" {
		t.Fatalf("tables = %s, %s", foo.Name, bar.Name)
	}
	if !foo.C("created").ReadOnly || !foo.C("x").HasDefault {
		t.Error("foo.created should be read-only and foo.x defaulted")
	}
	if !bar.C("foo_id").Type.Optional {
		t.Error("bar.foo_id should be optional")
	}
}

func TestTestSchema(t *testing.T) {
	schema := TestSchema(t)

	names := make([]string, 0, 5)
	for _, tbl := range schema.Tables() {
		names = append(names, tbl.Name)
	}
	if got := strings.Join(names, ","); got != "comments,orders,posts,products,users" {
		t.Errorf("Tables() = %s", got)
	}

	users := schema.T("users")
	tests := []struct {
		col  string
		want tsql.DataType
	}{
		{"id", tsql.Integral},
		{"email", tsql.Text},
		{"age", tsql.Unsigned.AsOptional()},
		{"avatar", tsql.Blob.AsOptional()},
		{"born", tsql.Date.AsOptional()},
		{"created_at", tsql.Timestamp.AsOptional()},
	}
	for _, tt := range tests {
		if got := users.C(tt.col).Type; got != tt.want {
			t.Errorf("users.%s = %v, want %v", tt.col, got, tt.want)
		}
	}
	if id := users.C("id"); !id.HasDefault || !id.ReadOnly {
		t.Errorf("users.id = %+v, want defaulted and read-only", id)
	}
	if got := schema.T("orders").C("total").Type; got != tsql.Float.AsOptional() {
		t.Errorf("orders.total = %v, want optional float", got)
	}
	if _, err := schema.TryT("missing"); err == nil {
		t.Error("expected error for unknown table")
	}
}

func TestAssertions(t *testing.T) {
	schema := TestSchema(t)
	users := schema.T("users")

	res := tsql.Select(users.C("id"), users.C("email")).From(users).
		Where(tsql.Eq(users.C("email"), tsql.P("email", tsql.Text))).
		MustRender(postgres.New())

	AssertSQL(t, `SELECT "users"."id", "users"."email" FROM "users" WHERE "users"."email" = $1`, res.SQL)
	AssertParams(t, res, "email")
	AssertColumns(t, res, "id", "email")

	_, err := tsql.Select(users.C("id")).From(users).ForUpdate().Render(sqlite.New())
	AssertUnsupported(t, err, tsql.Feature("FOR UPDATE"))

	AssertErrorContains(t, errors.New("table users not found"), "not found")
	AssertPanics(t, func() { schema.T("missing") }, "not found")
}

func TestQuickIsReproducible(t *testing.T) {
	var first, second []int64
	Quick(t, 7, 5, func(t *testing.T, rnd *rand.Rand) { first = append(first, rnd.Int64()) })
	Quick(t, 7, 5, func(t *testing.T, rnd *rand.Rand) { second = append(second, rnd.Int64()) })
	if len(first) != 5 {
		t.Fatalf("ran %d cases, want 5", len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("case %d drew %d then %d", i, first[i], second[i])
		}
	}
}

func TestRenderingIsDeterministic(t *testing.T) {
	foo, bar := FooBar()
	kinds := []tsql.DataType{tsql.Boolean, tsql.Integral, tsql.Unsigned, tsql.Float, tsql.Text, tsql.Blob}

	Quick(t, 42, DefaultRuns, func(t *testing.T, rnd *rand.Rand) {
		lit := RandomValue(rnd, kinds[rnd.IntN(len(kinds))])
		stmt := tsql.Select(foo.C("id"), tsql.As(tsql.V(lit), "lit")).
			From(tsql.Source(foo).LeftJoin(bar).On(tsql.Eq(bar.C("foo_id"), foo.C("id")))).
			Where(tsql.Eq(foo.C("y"), RandomText(rnd)))

		for _, r := range []tsql.Renderer{tsql.NewRenderer(), postgres.New(), sqlite.New()} {
			a, err := stmt.Render(r)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			b := stmt.MustRender(r)
			if a.SQL != b.SQL {
				t.Fatalf("SQL differs between renders:\n%s\n%s", a.SQL, b.SQL)
			}
			if len(a.Params) != 0 {
				t.Errorf("literals produced %d params", len(a.Params))
			}
		}
		if v := stmt.Consistency(); v != stmt.Consistency() {
			t.Errorf("Consistency() not stable: %v", v)
		}
	})
}

func TestRandomText(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 50; i++ {
		if s := RandomText(rnd); len([]rune(s)) > 7 {
			t.Fatalf("RandomText() = %q, longer than 7 runes", s)
		}
	}
}

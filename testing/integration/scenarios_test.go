package integration

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/zoobzio/tsql"
	"github.com/zoobzio/tsql/exec"
	tsqltest "github.com/zoobzio/tsql/testing"
)

// harness is one database with the users and posts tables of the test schema
// freshly created.
type harness struct {
	d      *exec.DB
	schema *tsql.Schema
}

func (h harness) supports(f tsql.Feature) bool {
	s, ok := h.d.Renderer().(interface{ Supports(tsql.Feature) error })
	return !ok || s.Supports(f) == nil
}

func (h harness) run(t *testing.T, stmt tsql.Statement, args ...any) int64 {
	t.Helper()
	res, err := h.d.Exec(context.Background(), stmt, args...)
	if err != nil {
		t.Fatalf("Exec() error = %v", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		t.Fatalf("RowsAffected() error = %v", err)
	}
	return n
}

// rows runs stmt and reads every row, closing the result before returning.
func (h harness) rows(t *testing.T, stmt tsql.Statement, args ...any) []*exec.Row {
	t.Helper()
	rows, err := h.d.Query(context.Background(), stmt, args...)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	defer rows.Close()

	var out []*exec.Row
	for rows.Next() {
		row, err := rows.Row()
		if err != nil {
			t.Fatalf("Row() error = %v", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}
	return out
}

// firstColumn reads the first column of every row.
func (h harness) firstColumn(t *testing.T, stmt tsql.Statement, args ...any) []string {
	t.Helper()
	var out []string
	for _, row := range h.rows(t, stmt, args...) {
		out = append(out, exec.MustRead[string](row, 0).V)
	}
	return out
}

func assertStrings(t *testing.T, got []string, want ...string) {
	t.Helper()
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("got %q, want %q", got, want)
	}
}

// runScenarios exercises the statement builders end to end. Subtests share
// the database and run in order.
func runScenarios(t *testing.T, h harness) {
	users := h.schema.T("users")
	posts := h.schema.T("posts")

	insertUser := tsql.InsertInto(users).Set(
		tsql.Set(users.C("username"), tsql.ParamFor(users.C("username"))),
		tsql.Set(users.C("email"), tsql.ParamFor(users.C("email"))),
		tsql.Set(users.C("age"), tsql.ParamFor(users.C("age"))),
	)

	t.Run("insert with params", func(t *testing.T) {
		for _, u := range []struct {
			name, email string
			age         any
		}{
			{"alice", "alice@example.com", uint64(30)},
			{"bob", "bob@example.com", nil},
			{"carol", "carol@example.com", exec.Some(uint64(45))},
		} {
			if n := h.run(t, insertUser, u.name, u.email, u.age); n != 1 {
				t.Errorf("RowsAffected() = %d, want 1", n)
			}
		}
	})

	t.Run("filter and order", func(t *testing.T) {
		stmt := tsql.Select(users.C("email")).From(users).
			Where(tsql.Ge(users.C("age"), tsql.P("min_age", tsql.Unsigned))).
			OrderBy(users.C("email"))
		assertStrings(t, h.firstColumn(t, stmt, uint64(18)), "alice@example.com", "carol@example.com")
	})

	t.Run("null test", func(t *testing.T) {
		stmt := tsql.Select(users.C("username")).From(users).Where(tsql.IsNull(users.C("age")))
		assertStrings(t, h.firstColumn(t, stmt), "bob")
	})

	t.Run("update booleans", func(t *testing.T) {
		upd := tsql.Update(users).
			Set(tsql.Set(users.C("active"), true)).
			Where(tsql.In(users.C("username"), "alice", "carol"))
		if n := h.run(t, upd); n != 2 {
			t.Errorf("RowsAffected() = %d, want 2", n)
		}

		sel := tsql.Select(users.C("username")).From(users).
			Where(tsql.Eq(users.C("active"), true)).
			OrderBy(users.C("username"))
		assertStrings(t, h.firstColumn(t, sel), "alice", "carol")

		none := tsql.Select(users.C("username")).From(users).Where(tsql.In(users.C("username")))
		assertStrings(t, h.firstColumn(t, none))
	})

	t.Run("literal round trip", func(t *testing.T) {
		name := `o'brien \ "quoted"`
		avatar := []byte{0x00, 0x01, 0xfe, 0x27}
		ins := tsql.InsertInto(users).Set(
			tsql.Set(users.C("username"), name),
			tsql.Set(users.C("email"), "dave@example.com"),
			tsql.Set(users.C("avatar"), avatar),
			tsql.Set(users.C("born"), tsql.DateOf(1990, time.June, 15)),
		)
		h.run(t, ins)

		sel := tsql.Select(users.C("username"), users.C("avatar"), users.C("born")).From(users).
			Where(tsql.Eq(users.C("email"), "dave@example.com"))
		got := h.rows(t, sel)
		if len(got) != 1 {
			t.Fatalf("read %d rows, want 1", len(got))
		}
		if v := exec.MustRead[string](got[0], 0).V; v != name {
			t.Errorf("username = %q, want %q", v, name)
		}
		if v := exec.MustRead[[]byte](got[0], 1).V; string(v) != string(avatar) {
			t.Errorf("avatar = %x, want %x", v, avatar)
		}
		born := exec.MustRead[time.Time](got[0], 2).V
		if y, m, d := born.Date(); y != 1990 || m != time.June || d != 15 {
			t.Errorf("born = %v, want 1990-06-15", born)
		}
	})

	t.Run("join and aggregate", func(t *testing.T) {
		for _, p := range []struct {
			user, title string
		}{
			{"alice", "first"}, {"alice", "second"}, {"carol", "hello"},
		} {
			ins := tsql.InsertInto(posts).Columns(posts.C("user_id"), posts.C("title")).Query(
				tsql.Select(tsql.As(users.C("id"), "user_id"), tsql.As(tsql.V(p.title), "title")).
					From(users).
					Where(tsql.Eq(users.C("username"), p.user)),
			)
			if n := h.run(t, ins); n != 1 {
				t.Errorf("RowsAffected() = %d, want 1", n)
			}
		}

		n := tsql.As(tsql.Count(posts.C("id")), "n")
		sel := tsql.Select(users.C("username"), n).
			From(tsql.Source(users).LeftJoin(posts).On(tsql.Eq(posts.C("user_id"), users.C("id")))).
			GroupBy(users.C("username")).
			Having(tsql.Gt(tsql.Count(posts.C("id")), 0)).
			OrderBy(tsql.Desc(tsql.Count(posts.C("id"))), users.C("username"))

		got := h.rows(t, sel)
		if len(got) != 2 {
			t.Fatalf("read %d rows, want 2", len(got))
		}
		for i, want := range []struct {
			name string
			n    int64
		}{{"alice", 2}, {"carol", 1}} {
			if name := exec.MustRead[string](got[i], 0).V; name != want.name {
				t.Errorf("row %d name = %q, want %q", i, name, want.name)
			}
			if c := exec.MustRead[int64](got[i], 1).V; c != want.n {
				t.Errorf("row %d count = %d, want %d", i, c, want.n)
			}
		}
	})

	t.Run("pagination", func(t *testing.T) {
		page := tsql.Select(users.C("username")).From(users).
			OrderBy(users.C("username")).
			Limit(2).
			Offset(tsql.P("skip", tsql.Integral))
		assertStrings(t, h.firstColumn(t, page, 1), "bob", "carol")

		rest := tsql.Select(users.C("username")).From(users).OrderBy(users.C("username")).Offset(3)
		assertStrings(t, h.firstColumn(t, rest), `o'brien \ "quoted"`)
	})

	t.Run("union", func(t *testing.T) {
		stmt := tsql.Select(tsql.As(users.C("username"), "label")).From(users).Where(tsql.IsNotNull(users.C("age"))).
			UnionAll(tsql.Select(tsql.As(posts.C("title"), "label")).From(posts))
		got := h.firstColumn(t, stmt)
		if len(got) != 5 {
			t.Errorf("union returned %q, want 5 labels", got)
		}
	})

	t.Run("subquery", func(t *testing.T) {
		stmt := tsql.Select(users.C("username")).From(users).
			Where(tsql.Not(tsql.Exists(
				tsql.Select(posts.C("id")).From(posts).Where(tsql.Eq(posts.C("user_id"), users.C("id"))),
			))).
			OrderBy(users.C("username"))
		assertStrings(t, h.firstColumn(t, stmt), "bob", `o'brien \ "quoted"`)
	})

	t.Run("prepared statement", func(t *testing.T) {
		ctx := context.Background()
		p, err := h.d.Prepare(ctx, tsql.Select(users.C("username")).From(users).
			Where(tsql.Eq(users.C("email"), tsql.P("email", tsql.Text))))
		if err != nil {
			t.Fatalf("Prepare() error = %v", err)
		}
		defer p.Close()

		for email, want := range map[string]string{
			"alice@example.com": "alice",
			"bob@example.com":   "bob",
		} {
			if err := p.BindNamed(ctx, "email", email); err != nil {
				t.Fatalf("BindNamed() error = %v", err)
			}
			rows, err := p.Query(ctx)
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			var got []string
			for rows.Next() {
				row, err := rows.Row()
				if err != nil {
					t.Fatalf("Row() error = %v", err)
				}
				got = append(got, exec.MustRead[string](row, 0).V)
			}
			_ = rows.Close()
			assertStrings(t, got, want)
		}
	})

	t.Run("upsert", func(t *testing.T) {
		if !h.supports(tsql.Feature("ON CONFLICT")) {
			t.Skip("dialect has no upsert")
		}
		stmt := insertUser.OnConflict(users.C("email")).
			DoUpdate(tsql.Set(users.C("age"), tsql.Excluded(users.C("age"))))
		h.run(t, stmt, "alice", "alice@example.com", uint64(31))

		got := h.rows(t, tsql.Select(users.C("age")).From(users).Where(tsql.Eq(users.C("username"), "alice")))
		if len(got) != 1 || exec.MustRead[uint64](got[0], 0).V != 31 {
			t.Errorf("alice not updated by upsert")
		}
	})

	t.Run("insert returning", func(t *testing.T) {
		if !h.supports(tsql.Feature("INSERT ... RETURNING")) {
			t.Skip("dialect has no INSERT ... RETURNING")
		}
		stmt := insertUser.Returning(users.C("id"), users.C("email"))
		got := h.rows(t, stmt, "erin", "erin@example.com", nil)
		if len(got) != 1 {
			t.Fatalf("read %d rows, want 1", len(got))
		}
		if id := exec.MustRead[int64](got[0], 0).V; id <= 0 {
			t.Errorf("id = %d, want a generated key", id)
		}
		if got[0].Name(1) != "email" {
			t.Errorf("column 1 = %q, want email", got[0].Name(1))
		}
	})

	t.Run("delete", func(t *testing.T) {
		del := tsql.DeleteFrom(posts).Where(tsql.Eq(posts.C("user_id"),
			tsql.Subquery(tsql.Select(users.C("id")).From(users).Where(tsql.Eq(users.C("username"), tsql.P("name", tsql.Text))))))
		if n := h.run(t, del, "alice"); n != 2 {
			t.Errorf("RowsAffected() = %d, want 2", n)
		}
	})

	t.Run("unsupported features fail before the database", func(t *testing.T) {
		if h.supports(tsql.Feature("FOR UPDATE")) {
			t.Skip("dialect locks rows")
		}
		_, err := h.d.Query(context.Background(), tsql.Select(users.C("id")).From(users).ForUpdate())
		tsqltest.AssertUnsupported(t, err, tsql.Feature("FOR UPDATE"))
	})
}

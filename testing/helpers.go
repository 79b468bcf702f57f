// Package testing provides fixtures and assertions for tsql tests.
package testing

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/zoobzio/dbml"

	"github.com/zoobzio/tsql"
)

// FooBar returns the two tables most tests are written against.
//
//	foo: id integral, name optional text, x integral with default, y text, created read-only timestamp
//	bar: id integral, foo_id optional integral, amount float
func FooBar() (foo, bar tsql.Table) {
	foo = tsql.NewTable("foo",
		tsql.Col("id", tsql.Integral),
		tsql.Col("name", tsql.Text.AsOptional()),
		tsql.Col("x", tsql.Integral).WithDefault(),
		tsql.Col("y", tsql.Text),
		tsql.Col("created", tsql.Timestamp).WithDefault().ReadOnly(),
	)
	bar = tsql.NewTable("bar",
		tsql.Col("id", tsql.Integral),
		tsql.Col("foo_id", tsql.Integral.AsOptional()),
		tsql.Col("amount", tsql.Float),
	)
	return foo, bar
}

// TestProject builds the DBML project behind TestSchema: users, posts,
// comments, orders and products.
func TestProject() *dbml.Project {
	project := dbml.NewProject("test")

	users := dbml.NewTable("users")
	users.AddColumn(dbml.NewColumn("id", "bigint"))
	users.AddColumn(dbml.NewColumn("username", "varchar"))
	users.AddColumn(dbml.NewColumn("email", "varchar(255)"))
	users.AddColumn(dbml.NewColumn("age", "int unsigned"))
	users.AddColumn(dbml.NewColumn("active", "boolean"))
	users.AddColumn(dbml.NewColumn("avatar", "blob"))
	users.AddColumn(dbml.NewColumn("born", "date"))
	users.AddColumn(dbml.NewColumn("created_at", "timestamp"))
	project.AddTable(users)

	posts := dbml.NewTable("posts")
	posts.AddColumn(dbml.NewColumn("id", "bigint"))
	posts.AddColumn(dbml.NewColumn("user_id", "bigint"))
	posts.AddColumn(dbml.NewColumn("title", "varchar"))
	posts.AddColumn(dbml.NewColumn("body", "text"))
	posts.AddColumn(dbml.NewColumn("published", "boolean"))
	posts.AddColumn(dbml.NewColumn("views", "int"))
	posts.AddColumn(dbml.NewColumn("created_at", "timestamp"))
	project.AddTable(posts)

	comments := dbml.NewTable("comments")
	comments.AddColumn(dbml.NewColumn("id", "bigint"))
	comments.AddColumn(dbml.NewColumn("post_id", "bigint"))
	comments.AddColumn(dbml.NewColumn("user_id", "bigint"))
	comments.AddColumn(dbml.NewColumn("body", "text"))
	comments.AddColumn(dbml.NewColumn("created_at", "timestamp"))
	project.AddTable(comments)

	orders := dbml.NewTable("orders")
	orders.AddColumn(dbml.NewColumn("id", "bigint"))
	orders.AddColumn(dbml.NewColumn("user_id", "bigint"))
	orders.AddColumn(dbml.NewColumn("total", "numeric(12,2)"))
	orders.AddColumn(dbml.NewColumn("status", "varchar"))
	orders.AddColumn(dbml.NewColumn("placed_at", "time"))
	project.AddTable(orders)

	products := dbml.NewTable("products")
	products.AddColumn(dbml.NewColumn("id", "bigint"))
	products.AddColumn(dbml.NewColumn("name", "varchar"))
	products.AddColumn(dbml.NewColumn("price", "numeric"))
	products.AddColumn(dbml.NewColumn("category", "varchar"))
	products.AddColumn(dbml.NewColumn("stock", "int"))
	project.AddTable(products)

	return project
}

// TestSchema loads TestProject. Every id column is required, has a default
// and is read-only; the other columns stay optional as DBML declares them.
func TestSchema(t testing.TB) *tsql.Schema {
	t.Helper()
	var opts []tsql.SchemaOption
	for _, table := range []string{"users", "posts", "comments", "orders", "products"} {
		opts = append(opts,
			tsql.NotNull(table, "id"),
			tsql.WithDefault(table, "id"),
			tsql.ReadOnly(table, "id"),
		)
	}
	opts = append(opts, tsql.NotNull("users", "email"), tsql.NotNull("posts", "user_id", "title"))

	schema, err := tsql.NewFromDBML(TestProject(), opts...)
	if err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}
	return schema
}

// AssertSQL compares expected and actual SQL.
func AssertSQL(t testing.TB, expected, actual string) {
	t.Helper()
	if expected != actual {
		t.Errorf("SQL mismatch:\nExpected: %s\nActual:   %s", expected, actual)
	}
}

// AssertParams checks the placeholder names of res in order.
func AssertParams(t testing.TB, res *tsql.QueryResult, names ...string) {
	t.Helper()
	got := make([]string, len(res.Params))
	for i, p := range res.Params {
		got[i] = p.Name
	}
	if strings.Join(got, ",") != strings.Join(names, ",") {
		t.Errorf("Params = %v, want %v", got, names)
	}
	for i, p := range res.Params {
		if p.Index != i+1 {
			t.Errorf("Params[%d].Index = %d, want %d", i, p.Index, i+1)
		}
	}
}

// AssertColumns checks the result column names of res in order.
func AssertColumns(t testing.TB, res *tsql.QueryResult, names ...string) {
	t.Helper()
	got := make([]string, len(res.Columns))
	for i, c := range res.Columns {
		got[i] = c.Name
	}
	if strings.Join(got, ",") != strings.Join(names, ",") {
		t.Errorf("Columns = %v, want %v", got, names)
	}
}

// AssertViolation fails unless err is a ConsistencyError carrying want.
func AssertViolation(t testing.TB, err error, want tsql.Violation) {
	t.Helper()
	var ce *tsql.ConsistencyError
	if !errors.As(err, &ce) {
		t.Fatalf("Expected ConsistencyError(%v), got: %v", want, err)
	}
	if ce.Violation != want {
		t.Errorf("Violation = %v, want %v", ce.Violation, want)
	}
}

// AssertUnsupported fails unless err is an UnsupportedFeatureError for feature.
func AssertUnsupported(t testing.TB, err error, feature tsql.Feature) {
	t.Helper()
	var ufe tsql.UnsupportedFeatureError
	if !errors.As(err, &ufe) {
		t.Fatalf("Expected UnsupportedFeatureError(%s), got: %v", feature, err)
	}
	if ufe.Feature != feature {
		t.Errorf("Feature = %s, want %s", ufe.Feature, feature)
	}
}

// AssertErrorContains checks that err is non-nil and mentions substr.
func AssertErrorContains(t testing.TB, err error, substr string) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected error containing %q but got nil", substr)
	}
	if !strings.Contains(err.Error(), substr) {
		t.Errorf("Expected error containing %q, got: %v", substr, err)
	}
}

// AssertPanics verifies that fn panics with a message containing substr.
func AssertPanics(t testing.TB, fn func(), substr string) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Errorf("Expected panic containing %q but function completed normally", substr)
			return
		}
		msg := fmt.Sprint(r)
		if err, ok := r.(error); ok {
			msg = err.Error()
		}
		if !strings.Contains(msg, substr) {
			t.Errorf("Expected panic containing %q, got: %s", substr, msg)
		}
	}()
	fn()
}

// DefaultRuns is the number of cases Quick generates per property.
const DefaultRuns = 200

// Quick runs property with a fresh generator for each of runs cases. Case i
// is seeded from seed and i, so a failure names the exact seed to replay.
func Quick(t *testing.T, seed uint64, runs int, property func(t *testing.T, rnd *rand.Rand)) {
	t.Helper()
	if runs <= 0 {
		runs = DefaultRuns
	}
	for i := 0; i < runs; i++ {
		caseSeed := seed + uint64(i)
		ok := t.Run(fmt.Sprintf("seed=%d", caseSeed), func(t *testing.T) {
			property(t, rand.New(rand.NewPCG(caseSeed, caseSeed^0x9e3779b97f4a7c15)))
		})
		if !ok {
			return
		}
	}
}

// RandomValue returns a literal of the given kind drawn from rnd, including
// the edge values databases tend to disagree on.
func RandomValue(rnd *rand.Rand, t tsql.DataType) any {
	if t.Optional && rnd.IntN(8) == 0 {
		return nil
	}
	switch t.Kind {
	case tsql.Boolean.Kind:
		return rnd.IntN(2) == 0
	case tsql.Integral.Kind:
		return []int64{0, 1, -1, rnd.Int64N(1 << 40), -rnd.Int64N(1 << 40)}[rnd.IntN(5)]
	case tsql.Unsigned.Kind:
		return []uint64{0, 1, rnd.Uint64N(1 << 50)}[rnd.IntN(3)]
	case tsql.Float.Kind:
		return []float64{0, 0.5, -2.25, rnd.Float64() * 1e6}[rnd.IntN(4)]
	case tsql.Text.Kind:
		return RandomText(rnd)
	case tsql.Blob.Kind:
		b := make([]byte, rnd.IntN(6))
		for i := range b {
			b[i] = byte(rnd.IntN(256))
		}
		return b
	}
	return nil
}

// RandomText returns a short string that may contain quotes, backslashes and
// non-ASCII characters.
func RandomText(rnd *rand.Rand) string {
	const alphabet = "ab'\"\\%_ é;-"
	runes := []rune(alphabet)
	n := rnd.IntN(8)
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteRune(runes[rnd.IntN(len(runes))])
	}
	return b.String()
}

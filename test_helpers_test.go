package tsql_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/zoobzio/tsql"
)

// fixtures returns the foo and bar tables used across the package tests.
//
//	foo: id integral, name optional text, x integral with default, y text, created read-only
//	bar: id integral, foo_id optional integral, amount float
func fixtures() (foo, bar tsql.Table) {
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

func render(t *testing.T, s tsql.Statement) *tsql.QueryResult {
	t.Helper()
	res, err := s.Render(tsql.NewRenderer())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return res
}

func fragment(t *testing.T, x any) string {
	t.Helper()
	res, err := tsql.SQL(tsql.NewRenderer(), x)
	if err != nil {
		t.Fatalf("SQL() error = %v", err)
	}
	return res.SQL
}

func assertConstructionError(t *testing.T, err error, contains string) {
	t.Helper()
	var ce *tsql.ConstructionError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConstructionError, got %v", err)
	}
	if !strings.Contains(ce.Error(), contains) {
		t.Errorf("error = %q, want it to contain %q", ce.Error(), contains)
	}
}

func assertViolation(t *testing.T, err error, want tsql.Violation) {
	t.Helper()
	var ce *tsql.ConsistencyError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConsistencyError, got %v", err)
	}
	if ce.Violation != want {
		t.Errorf("Violation = %v, want %v", ce.Violation, want)
	}
}

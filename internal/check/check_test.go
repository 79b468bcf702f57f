package check

import (
	"testing"

	"github.com/zoobzio/tsql/internal/types"
)

var (
	integral = types.DataType{Kind: types.KindIntegral}
	text     = types.DataType{Kind: types.KindText}
)

var (
	foo = types.Table{Name: "foo", Columns: []types.Column{
		{Table: "foo", Name: "id", Type: integral},
		{Table: "foo", Name: "name", Type: text.AsOptional()},
	}}
	bar = types.Table{Name: "bar", Columns: []types.Column{
		{Table: "bar", Name: "id", Type: integral, HasDefault: true},
		{Table: "bar", Name: "foo_id", Type: integral},
	}}
)

func lit(v int64) types.Value { return types.Value{Type: integral, V: v} }

func cols(es ...types.Expr) *types.SelectColumns { return &types.SelectColumns{Columns: es} }

func count(e types.Expr) types.Aggregate { return types.Aggregate{Fn: types.AggCount, Arg: e} }

func eq(l, r types.Expr) types.Comparison { return types.Comparison{Op: types.EQ, L: l, R: r} }

func TestConsistency(t *testing.T) {
	tests := []struct {
		name string
		stmt types.Statement
		want types.Violation
	}{
		{
			name: "simple select",
			stmt: &types.Select{Columns: cols(foo.C("id")), From: &types.From{Table: foo}},
			want: types.Consistent,
		},
		{
			name: "no columns",
			stmt: &types.Select{From: &types.From{Table: foo}},
			want: types.ColumnsSelected,
		},
		{
			name: "unnamed column",
			stmt: &types.Select{Columns: cols(types.Arithmetic{Op: types.Plus, L: foo.C("id"), R: lit(1)}), From: &types.From{Table: foo}},
			want: types.SelectColumnsHaveNames,
		},
		{
			name: "duplicate names",
			stmt: &types.Select{Columns: cols(foo.C("id"), bar.C("id")), From: &types.From{Table: types.Join{Kind: types.CrossJoin, Left: foo, Right: bar}}},
			want: types.SelectColumnsHaveUniqueNames,
		},
		{
			name: "mixed aggregates without group by",
			stmt: &types.Select{Columns: cols(foo.C("id"), types.Alias{X: count(foo.C("id")), Name: "c"}), From: &types.From{Table: foo}},
			want: types.SelectColumnsAllAggregates,
		},
		{
			name: "aggregates and literals",
			stmt: &types.Select{Columns: cols(types.Alias{X: count(foo.C("id")), Name: "c"}, types.Alias{X: lit(1), Name: "one"}), From: &types.From{Table: foo}},
			want: types.Consistent,
		},
		{
			name: "window next to a column",
			stmt: &types.Select{Columns: cols(foo.C("id"), types.Alias{X: count(foo.C("id")).Over(), Name: "c"}), From: &types.From{Table: foo}},
			want: types.Consistent,
		},
		{
			name: "window next to an aggregate",
			stmt: &types.Select{
				Columns: cols(types.Alias{X: count(foo.C("id")), Name: "c"}, types.Alias{X: count(foo.C("id")).Over(), Name: "w"}),
				From:    &types.From{Table: foo},
			},
			want: types.SelectColumnsAllAggregates,
		},
		{
			name: "grouped columns",
			stmt: &types.Select{
				Columns: cols(foo.C("name"), types.Alias{X: count(foo.C("id")), Name: "c"}),
				From:    &types.From{Table: foo},
				GroupBy: &types.GroupBy{Exprs: []types.Expr{foo.C("name")}},
			},
			want: types.Consistent,
		},
		{
			name: "ungrouped column",
			stmt: &types.Select{
				Columns: cols(foo.C("id"), foo.C("name")),
				From:    &types.From{Table: foo},
				GroupBy: &types.GroupBy{Exprs: []types.Expr{foo.C("name")}},
			},
			want: types.SelectColumnsWithGroupByAreAggregates,
		},
		{
			name: "static column grouped dynamically",
			stmt: &types.Select{
				Columns: cols(foo.C("id"), foo.C("name")),
				From:    &types.From{Table: foo},
				GroupBy: &types.GroupBy{Exprs: []types.Expr{foo.C("id"), types.Dynamic{Present: false, Node: foo.C("name")}}},
			},
			want: types.SelectColumnsWithGroupByMatchStaticAggregates,
		},
		{
			name: "dynamic column grouped dynamically",
			stmt: &types.Select{
				Columns: cols(foo.C("id"), types.Dynamic{Present: false, Node: foo.C("name")}),
				From:    &types.From{Table: foo},
				GroupBy: &types.GroupBy{Exprs: []types.Expr{foo.C("id"), types.Dynamic{Present: false, Node: foo.C("name")}}},
			},
			want: types.Consistent,
		},
		{
			name: "static column from dynamic join",
			stmt: &types.Select{
				Columns: cols(foo.C("id"), types.Alias{X: bar.C("id"), Name: "bar_id"}),
				From: &types.From{Table: types.Join{
					Kind: types.LeftJoin, Left: foo,
					Right: types.Dynamic{Present: true, Node: bar},
					On:    eq(bar.C("foo_id"), foo.C("id")),
				}},
			},
			want: types.NoUnknownStaticTablesInSelectedColumns,
		},
		{
			name: "on condition with foreign table",
			stmt: &types.Select{
				Columns: cols(foo.C("id")),
				From: &types.From{Table: types.Join{
					Kind: types.InnerJoin, Left: foo, Right: bar.As("b"),
					On: eq(bar.C("foo_id"), foo.C("id")),
				}},
			},
			want: types.JoinOnKnownTables,
		},
		{
			name: "having without aggregate",
			stmt: &types.Select{
				Columns: cols(types.Alias{X: count(foo.C("id")), Name: "c"}),
				From:    &types.From{Table: foo},
				Having:  &types.Having{Cond: eq(foo.C("id"), lit(1))},
			},
			want: types.HavingAllAggregates,
		},
		{
			name: "having on dynamic group key",
			stmt: &types.Select{
				Columns: cols(types.Alias{X: count(foo.C("id")), Name: "c"}),
				From:    &types.From{Table: foo},
				GroupBy: &types.GroupBy{Exprs: []types.Expr{types.Dynamic{Present: true, Node: foo.C("name")}}},
				Having:  &types.Having{Cond: types.Comparison{Op: types.IsNull, L: foo.C("name")}},
			},
			want: types.HavingAllStaticAggregates,
		},
		{
			name: "order by ungrouped column",
			stmt: &types.Select{
				Columns: cols(foo.C("name")),
				From:    &types.From{Table: foo},
				GroupBy: &types.GroupBy{Exprs: []types.Expr{foo.C("name")}},
				OrderBy: &types.OrderBy{Items: []types.Node{types.Sort{X: foo.C("id")}}},
			},
			want: types.OrderByAllAggregates,
		},
		{
			name: "static where on dynamic table",
			stmt: &types.Select{
				Columns: cols(foo.C("id")),
				From:    &types.From{Table: types.Join{Kind: types.CrossJoin, Left: foo, Right: types.Dynamic{Present: false, Node: bar}}},
				Where:   &types.Where{Cond: eq(bar.C("id"), lit(1))},
			},
			want: types.NoUnknownStaticTablesInWhere,
		},
		{
			name: "dynamic where on dynamic table",
			stmt: &types.Select{
				Columns: cols(foo.C("id")),
				From:    &types.From{Table: types.Join{Kind: types.CrossJoin, Left: foo, Right: types.Dynamic{Present: false, Node: bar}}},
				Where:   &types.Where{Cond: types.Dynamic{Present: false, Node: eq(bar.C("id"), lit(1))}},
			},
			want: types.Consistent,
		},
		{
			name: "inconsistent subquery",
			stmt: &types.Select{
				Columns: cols(foo.C("id")),
				From:    &types.From{Table: foo},
				Where:   &types.Where{Cond: types.Exists{Query: &types.Select{From: &types.From{Table: bar}}}},
			},
			want: types.ColumnsSelected,
		},
		{
			name: "mixed violations report the first",
			stmt: &types.Select{
				Columns: cols(foo.C("id"), types.Alias{X: count(foo.C("id")), Name: "c"}),
				From:    &types.From{Table: foo},
				Having:  &types.Having{Cond: eq(foo.C("id"), lit(1))},
			},
			want: types.SelectColumnsAllAggregates,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Consistency(tt.stmt); got != tt.want {
				t.Errorf("Consistency() = %v, want %v", got, tt.want)
			}
			if again := Consistency(tt.stmt); again != tt.want {
				t.Errorf("second Consistency() = %v, want %v", again, tt.want)
			}
		})
	}
}

func TestConsistency_Compound(t *testing.T) {
	left := &types.Select{Columns: cols(foo.C("id")), From: &types.From{Table: foo}}
	right := &types.Select{Columns: cols(bar.C("id")), From: &types.From{Table: bar}}
	wide := &types.Select{Columns: cols(bar.C("id"), bar.C("foo_id")), From: &types.From{Table: bar}}
	textual := &types.Select{Columns: cols(types.Alias{X: foo.C("name"), Name: "id"}), From: &types.From{Table: foo}}

	if got := Consistency(&types.Compound{Left: left, Right: right}); got != types.Consistent {
		t.Errorf("matching union = %v, want Consistent", got)
	}
	if got := Consistency(&types.Compound{Left: left, Right: wide}); got != types.SetOpColumnsMatch {
		t.Errorf("column count mismatch = %v, want SetOpColumnsMatch", got)
	}
	if got := Consistency(&types.Compound{Left: left, Right: textual}); got != types.SetOpColumnsMatch {
		t.Errorf("column type mismatch = %v, want SetOpColumnsMatch", got)
	}
}

func TestConsistency_Insert(t *testing.T) {
	set := func(c types.Column, v types.Expr) types.Node { return types.Assignment{Column: c, Value: v} }

	tests := []struct {
		name string
		stmt *types.Insert
		want types.Violation
	}{
		{"missing into", &types.Insert{}, types.IntoRequired},
		{"missing values", &types.Insert{Into: &types.Into{Table: bar}}, types.InsertValuesRequired},
		{
			name: "required column missing",
			stmt: &types.Insert{Into: &types.Into{Table: bar}, Values: &types.InsertValues{DefaultValues: true}},
			want: types.InsertRequiredColumnsSet,
		},
		{
			name: "required column only set dynamically",
			stmt: &types.Insert{Into: &types.Into{Table: bar}, Values: &types.InsertValues{Assignments: []types.Node{
				types.Dynamic{Present: true, Node: set(bar.C("foo_id"), lit(1))},
			}}},
			want: types.InsertRequiredColumnsSet,
		},
		{
			name: "required column set",
			stmt: &types.Insert{Into: &types.Into{Table: bar}, Values: &types.InsertValues{Assignments: []types.Node{
				set(bar.C("foo_id"), lit(1)),
			}}},
			want: types.Consistent,
		},
		{
			name: "row too short",
			stmt: &types.Insert{Into: &types.Into{Table: bar}, Values: &types.InsertValues{
				Columns: []types.Column{bar.C("id"), bar.C("foo_id")},
				Rows:    [][]types.Expr{{lit(1), lit(2)}, {lit(3)}},
			}},
			want: types.InsertRowsMatchColumns,
		},
		{
			name: "returning aggregate",
			stmt: &types.Insert{
				Into:      &types.Into{Table: bar},
				Values:    &types.InsertValues{Assignments: []types.Node{set(bar.C("foo_id"), lit(1))}},
				Returning: &types.Returning{Columns: []types.Expr{types.Alias{X: count(bar.C("id")), Name: "c"}}},
			},
			want: types.ReturningColumnsContainNoAggregates,
		},
		{
			name: "returning unnamed",
			stmt: &types.Insert{
				Into:      &types.Into{Table: bar},
				Values:    &types.InsertValues{Assignments: []types.Node{set(bar.C("foo_id"), lit(1))}},
				Returning: &types.Returning{Columns: []types.Expr{lit(1)}},
			},
			want: types.ReturningColumnsHaveNames,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Consistency(tt.stmt); got != tt.want {
				t.Errorf("Consistency() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConsistency_UpdateDeleteTruncate(t *testing.T) {
	if got := Consistency(&types.Update{}); got != types.SingleTableProvided {
		t.Errorf("update without table = %v", got)
	}
	if got := Consistency(&types.Update{Table: &types.SingleTable{Table: foo}}); got != types.UpdateAssignmentsRequired {
		t.Errorf("update without set = %v", got)
	}
	if got := Consistency(&types.Delete{}); got != types.SingleTableProvided {
		t.Errorf("delete without table = %v", got)
	}
	if got := Consistency(&types.Truncate{}); got != types.SingleTableProvided {
		t.Errorf("truncate without table = %v", got)
	}
	del := &types.Delete{
		Table: &types.SingleTable{Table: foo},
		Using: &types.Using{Table: bar},
		Where: &types.Where{Cond: eq(bar.C("foo_id"), foo.C("id"))},
	}
	if got := Prepare(del); got != types.Consistent {
		t.Errorf("delete using = %v, want Consistent", got)
	}
}

func TestConsistency_With(t *testing.T) {
	q := &types.Select{Columns: cols(foo.C("id")), From: &types.From{Table: foo}}
	cte := types.CTE{Name: "x", Query: q}
	stmt := &types.Select{
		With:    &types.With{CTEs: []types.Node{cte, cte}},
		Columns: cols(types.Column{Table: "x", Name: "id", Type: integral}),
		From:    &types.From{Table: cte},
	}

	if got := Consistency(stmt); got != types.WithCTEsHaveUniqueNames {
		t.Errorf("Consistency() = %v, want WithCTEsHaveUniqueNames", got)
	}
}

func TestPrepare(t *testing.T) {
	inner := &types.Select{Columns: cols(foo.C("id")), From: &types.From{Table: foo}}
	cte := types.CTE{Name: "x", Query: inner}
	xid := types.Column{Table: "x", Name: "id", Type: integral}

	tests := []struct {
		name string
		stmt types.Statement
		want types.Violation
	}{
		{
			name: "unknown table in select",
			stmt: &types.Select{Columns: cols(bar.C("id")), From: &types.From{Table: foo}},
			want: types.NoUnknownTablesInSelectedColumns,
		},
		{
			name: "unknown table in where",
			stmt: &types.Select{Columns: cols(foo.C("id")), From: &types.From{Table: foo}, Where: &types.Where{Cond: eq(bar.C("id"), lit(1))}},
			want: types.NoUnknownTablesInWhere,
		},
		{
			name: "correlated subquery",
			stmt: &types.Select{
				Columns: cols(foo.C("id")),
				From:    &types.From{Table: foo},
				Where: &types.Where{Cond: types.Exists{Query: &types.Select{
					Columns: cols(bar.C("id")),
					From:    &types.From{Table: bar},
					Where:   &types.Where{Cond: eq(bar.C("foo_id"), foo.C("id"))},
				}}},
			},
			want: types.Consistent,
		},
		{
			name: "subquery with table unknown everywhere",
			stmt: &types.Select{
				Columns: cols(foo.C("id")),
				From:    &types.From{Table: foo},
				Where: &types.Where{Cond: types.Exists{Query: &types.Select{
					Columns: cols(foo.As("f").C("id")),
					From:    &types.From{Table: bar},
				}}},
			},
			want: types.NoUnknownTablesInWhere,
		},
		{
			name: "cte defined",
			stmt: &types.Select{With: &types.With{CTEs: []types.Node{cte}}, Columns: cols(xid), From: &types.From{Table: cte}},
			want: types.Consistent,
		},
		{
			name: "cte not defined",
			stmt: &types.Select{Columns: cols(xid), From: &types.From{Table: cte}},
			want: types.NoUnknownCTEs,
		},
		{
			name: "update set from other table",
			stmt: &types.Update{
				Table: &types.SingleTable{Table: foo},
				Set:   &types.UpdateSet{Assignments: []types.Node{types.Assignment{Column: foo.C("id"), Value: bar.C("id")}}},
			},
			want: types.NoUnknownTablesInUpdateSet,
		},
		{
			name: "on conflict excluded",
			stmt: &types.Insert{
				Into:   &types.Into{Table: bar},
				Values: &types.InsertValues{Assignments: []types.Node{types.Assignment{Column: bar.C("foo_id"), Value: lit(1)}}},
				OnConflict: &types.OnConflict{
					Targets: []types.Column{bar.C("id")},
					Assignments: []types.Node{types.Assignment{
						Column: bar.C("foo_id"),
						Value:  types.Column{Table: types.ExcludedTable, Name: "foo_id", Type: integral},
					}},
				},
			},
			want: types.Consistent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Prepare(tt.stmt); got != tt.want {
				t.Errorf("Prepare() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPrepare_ConsistentBeforePrepared(t *testing.T) {
	stmt := &types.Select{Columns: cols(bar.C("id")), From: &types.From{Table: foo}}
	if got := Consistency(stmt); got != types.Consistent {
		t.Errorf("Consistency() = %v, want Consistent", got)
	}
	if got := Prepare(stmt); got != types.NoUnknownTablesInSelectedColumns {
		t.Errorf("Prepare() = %v, want NoUnknownTablesInSelectedColumns", got)
	}
}

func TestPrepare_ConsistencyComesFirst(t *testing.T) {
	dynFoo := &types.From{Table: types.Dynamic{Present: true, Node: foo}}

	tests := []struct {
		name string
		stmt types.Statement
	}{
		{
			name: "unknown and dynamic tables side by side",
			stmt: &types.Select{Columns: cols(foo.C("id"), types.Alias{X: bar.C("id"), Name: "bid"}), From: dynFoo},
		},
		{
			name: "unknown and dynamic tables in one expression",
			stmt: &types.Select{
				Columns: cols(types.Alias{X: types.Arithmetic{Op: types.Plus, L: foo.C("id"), R: bar.C("id")}, Name: "x"}),
				From:    dynFoo,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := types.NoUnknownStaticTablesInSelectedColumns
			if got := Consistency(tt.stmt); got != want {
				t.Errorf("Consistency() = %v, want %v", got, want)
			}
			if got := Prepare(tt.stmt); got != want {
				t.Errorf("Prepare() = %v, want %v", got, want)
			}
		})
	}
}

func TestPrepare_RecursiveCTE(t *testing.T) {
	n := types.Column{Table: "t", Name: "n", Type: integral}
	base := &types.Select{Columns: cols(types.Alias{X: lit(1), Name: "n"})}
	self := types.CTE{Name: "t", Query: base}
	step := &types.Select{
		Columns: cols(types.Alias{X: types.Arithmetic{Op: types.Plus, L: n, R: lit(1)}, Name: "n"}),
		From:    &types.From{Table: self},
		Where:   &types.Where{Cond: types.Comparison{Op: types.LT, L: n, R: lit(10)}},
	}
	cte := types.CTE{Name: "t", Query: &types.Compound{Left: base, Right: step, All: true}, Recursive: true}
	stmt := &types.Select{With: &types.With{CTEs: []types.Node{cte}}, Columns: cols(n), From: &types.From{Table: cte}}

	if got := Prepare(stmt); got != types.Consistent {
		t.Errorf("Prepare() = %v, want Consistent", got)
	}

	cte.Recursive = false
	stmt.With = &types.With{CTEs: []types.Node{cte}}
	stmt.From = &types.From{Table: cte}
	if got := Prepare(stmt); got != types.NoUnknownCTEs {
		t.Errorf("Prepare() non-recursive = %v, want NoUnknownCTEs", got)
	}
}

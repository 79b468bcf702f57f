package tsql

import (
	"strings"

	"github.com/zoobzio/tsql/internal/types"
)

func aggregate(fn types.AggregateFunc, distinct bool, x any) (types.Aggregate, error) {
	op := strings.ToLower(string(fn)) + "()"
	e, err := toExpr(op, x)
	if err != nil {
		return types.Aggregate{}, err
	}
	if types.ContainsAggregate(e) {
		return types.Aggregate{}, types.Rejectf(op, "must not be used on an aggregate function")
	}
	switch fn {
	case types.AggSum, types.AggAvg:
		if !e.DataType().IsNumeric() {
			return types.Aggregate{}, types.Rejectf(op, "requires a numeric argument, got %s", e.DataType())
		}
	}
	return types.Aggregate{Fn: fn, Distinct: distinct, Arg: e}, nil
}

// TryCount creates COUNT(x).
func TryCount(x any) (types.Aggregate, error) { return aggregate(types.AggCount, false, x) }

// Count creates COUNT(x).
func Count(x any) types.Aggregate { return must(TryCount(x)) }

// TryCountDistinct creates COUNT(DISTINCT x).
func TryCountDistinct(x any) (types.Aggregate, error) { return aggregate(types.AggCount, true, x) }

// CountDistinct creates COUNT(DISTINCT x).
func CountDistinct(x any) types.Aggregate { return must(TryCountDistinct(x)) }

// CountAll creates COUNT(*).
func CountAll() types.Aggregate { return types.Aggregate{Fn: types.AggCount} }

// TrySum creates SUM(x).
func TrySum(x any) (types.Aggregate, error) { return aggregate(types.AggSum, false, x) }

// Sum creates SUM(x).
func Sum(x any) types.Aggregate { return must(TrySum(x)) }

// TrySumDistinct creates SUM(DISTINCT x).
func TrySumDistinct(x any) (types.Aggregate, error) { return aggregate(types.AggSum, true, x) }

// SumDistinct creates SUM(DISTINCT x).
func SumDistinct(x any) types.Aggregate { return must(TrySumDistinct(x)) }

// TryAvg creates AVG(x).
func TryAvg(x any) (types.Aggregate, error) { return aggregate(types.AggAvg, false, x) }

// Avg creates AVG(x).
func Avg(x any) types.Aggregate { return must(TryAvg(x)) }

// TryAvgDistinct creates AVG(DISTINCT x).
func TryAvgDistinct(x any) (types.Aggregate, error) { return aggregate(types.AggAvg, true, x) }

// AvgDistinct creates AVG(DISTINCT x).
func AvgDistinct(x any) types.Aggregate { return must(TryAvgDistinct(x)) }

// TryMax creates MAX(x).
func TryMax(x any) (types.Aggregate, error) { return aggregate(types.AggMax, false, x) }

// Max creates MAX(x).
func Max(x any) types.Aggregate { return must(TryMax(x)) }

// TryMin creates MIN(x).
func TryMin(x any) (types.Aggregate, error) { return aggregate(types.AggMin, false, x) }

// Min creates MIN(x).
func Min(x any) types.Aggregate { return must(TryMin(x)) }

func textFunction(name string, x any) (types.Function, error) {
	op := strings.ToLower(name) + "()"
	e, err := toExpr(op, x)
	if err != nil {
		return types.Function{}, err
	}
	if !e.DataType().IsText() {
		return types.Function{}, types.Rejectf(op, "requires a text argument, got %s", e.DataType())
	}
	t := types.DataType{Kind: types.KindText, Optional: e.DataType().Optional}
	return types.Function{Name: name, Args: []types.Expr{e}, Type: t}, nil
}

// TryLower creates LOWER(x).
func TryLower(x any) (types.Function, error) { return textFunction("LOWER", x) }

// Lower creates LOWER(x).
func Lower(x any) types.Function { return must(TryLower(x)) }

// TryUpper creates UPPER(x).
func TryUpper(x any) (types.Function, error) { return textFunction("UPPER", x) }

// Upper creates UPPER(x).
func Upper(x any) types.Function { return must(TryUpper(x)) }

// TryTrim creates TRIM(x).
func TryTrim(x any) (types.Function, error) { return textFunction("TRIM", x) }

// Trim creates TRIM(x).
func Trim(x any) types.Function { return must(TryTrim(x)) }

// TryCoalesce creates COALESCE(args...). The result is optional only if every argument is.
func TryCoalesce(args ...any) (types.Function, error) {
	if len(args) < 2 {
		return types.Function{}, types.Rejectf("coalesce()", "requires at least two arguments")
	}
	exprs, err := toExprs("coalesce()", args)
	if err != nil {
		return types.Function{}, err
	}
	t := types.Null
	optional := true
	for _, e := range exprs {
		dt := e.DataType()
		if !types.Comparable(t, dt) {
			return types.Function{}, types.Rejectf("coalesce()", "cannot combine %s with %s", t, dt)
		}
		if t.IsNull() && !dt.IsNull() {
			t = dt
		}
		optional = optional && dt.Optional
	}
	t.Optional = optional
	return types.Function{Name: "COALESCE", Args: exprs, Type: t}, nil
}

// Coalesce creates COALESCE(args...).
func Coalesce(args ...any) types.Function { return must(TryCoalesce(args...)) }

// CurrentDate is CURRENT_DATE.
func CurrentDate() types.Function {
	return types.Function{Name: "CURRENT_DATE", Type: Date, NoParens: true}
}

// CurrentTime is CURRENT_TIME.
func CurrentTime() types.Function {
	return types.Function{Name: "CURRENT_TIME", Type: Time, NoParens: true}
}

// CurrentTimestamp is CURRENT_TIMESTAMP.
func CurrentTimestamp() types.Function {
	return types.Function{Name: "CURRENT_TIMESTAMP", Type: Timestamp, NoParens: true}
}

// TryCast creates CAST(x AS t). Only the kind of t is used; optionality follows x.
func TryCast(x any, t DataType) (types.Cast, error) {
	e, err := toExpr("cast()", x)
	if err != nil {
		return types.Cast{}, err
	}
	if !t.HasValue() || t.IsNull() {
		return types.Cast{}, types.Rejectf("cast()", "cannot cast to %s", t)
	}
	return types.Cast{X: e, To: t.Kind}, nil
}

// Cast creates CAST(x AS t).
func Cast(x any, t DataType) types.Cast { return must(TryCast(x, t)) }

// TryAs names x.
func TryAs(x any, name string) (types.Alias, error) {
	if !types.ValidIdentifier(name) {
		return types.Alias{}, types.Rejectf("as()", "name %q is not a valid identifier", name)
	}
	e, err := toExpr("as()", x)
	if err != nil {
		return types.Alias{}, err
	}
	if a, ok := e.(types.Alias); ok {
		e = a.X
	}
	return types.Alias{X: e, Name: name}, nil
}

// As names x.
func As(x any, name string) types.Alias { return must(TryAs(x, name)) }

func sortItem(op string, x any, desc bool) (types.Sort, error) {
	e, err := toExpr(op, x)
	if err != nil {
		return types.Sort{}, err
	}
	return types.Sort{X: e, Desc: desc}, nil
}

// TryAsc creates an ascending ORDER BY item.
func TryAsc(x any) (types.Sort, error) { return sortItem("asc()", x, false) }

// Asc creates an ascending ORDER BY item.
func Asc(x any) types.Sort { return must(TryAsc(x)) }

// TryDesc creates a descending ORDER BY item.
func TryDesc(x any) (types.Sort, error) { return sortItem("desc()", x, true) }

// Desc creates a descending ORDER BY item.
func Desc(x any) types.Sort { return must(TryDesc(x)) }

// TrySet creates an assignment of value to col.
func TrySet(col Column, value any) (types.Assignment, error) {
	if col.ReadOnly {
		return types.Assignment{}, types.Rejectf("set()", "cannot assign read-only column %s", col.Qualified())
	}
	if _, ok := value.(types.DefaultValue); ok {
		return types.Assignment{Column: col, Value: Default}, nil
	}
	e, err := toExpr("set()", value)
	if err != nil {
		return types.Assignment{}, err
	}
	if types.ContainsAggregate(e) {
		return types.Assignment{}, types.Rejectf("set()", "must not contain aggregate functions")
	}
	if !types.Assignable(col.Type, e.DataType()) {
		return types.Assignment{}, types.Rejectf("set()", "cannot assign %s to %s column %s", e.DataType(), col.Type, col.Qualified())
	}
	return types.Assignment{Column: col, Value: e}, nil
}

// Set creates an assignment of value to col.
func Set(col Column, value any) types.Assignment { return must(TrySet(col, value)) }

// Excluded refers to col of the row rejected by ON CONFLICT.
func Excluded(col Column) Column {
	col.Table = types.ExcludedTable
	return col
}

// TrySubquery wraps a single-column select as a value.
func TrySubquery(sel SelectBuilder) (types.Subquery, error) {
	s, err := sel.subquery("subquery()")
	if err != nil {
		return types.Subquery{}, err
	}
	return types.Subquery{Query: s}, nil
}

// Subquery wraps a single-column select as a value.
func Subquery(sel SelectBuilder) types.Subquery { return must(TrySubquery(sel)) }

// TryExists creates EXISTS (sel).
func TryExists(sel SelectBuilder) (types.Exists, error) {
	if sel.err != nil {
		return types.Exists{}, sel.err
	}
	s := sel.ast
	return types.Exists{Query: &s}, nil
}

// Exists creates EXISTS (sel).
func Exists(sel SelectBuilder) types.Exists { return must(TryExists(sel)) }

// CaseBuilder builds a searched CASE expression.
type CaseBuilder struct {
	c   types.Case
	err error
}

// resultType is the type of the first branch result that is not NULL.
func (b CaseBuilder) resultType() types.DataType {
	for _, w := range b.c.Whens {
		if dt := w.Result.DataType(); !dt.IsNull() {
			return dt
		}
	}
	return types.Null
}

// Case starts a CASE expression.
func Case() CaseBuilder {
	return CaseBuilder{}
}

// When adds a branch.
func (b CaseBuilder) When(cond, result any) CaseBuilder {
	if b.err != nil {
		return b
	}
	c, err := boolean("when()", cond)
	if err != nil {
		b.err = err
		return b
	}
	r, err := toExpr("when()", result)
	if err != nil {
		b.err = err
		return b
	}
	if rt := b.resultType(); !types.Comparable(rt, r.DataType()) {
		b.err = types.Rejectf("when()", "result of type %s does not match %s", r.DataType(), rt)
		return b
	}
	whens := make([]types.When, len(b.c.Whens), len(b.c.Whens)+1)
	copy(whens, b.c.Whens)
	b.c.Whens = append(whens, types.When{Cond: c, Result: r})
	return b
}

// Else sets the result when no branch matches.
func (b CaseBuilder) Else(x any) CaseBuilder {
	if b.err != nil {
		return b
	}
	if b.c.Else != nil {
		b.err = types.Rejectf("else()", "clause already present")
		return b
	}
	e, err := toExpr("else()", x)
	if err != nil {
		b.err = err
		return b
	}
	if rt := b.resultType(); !types.Comparable(rt, e.DataType()) {
		b.err = types.Rejectf("else()", "result of type %s does not match %s", e.DataType(), rt)
		return b
	}
	b.c.Else = e
	return b
}

// TryEnd completes the CASE expression.
func (b CaseBuilder) TryEnd() (types.Case, error) {
	if b.err != nil {
		return types.Case{}, b.err
	}
	if len(b.c.Whens) == 0 {
		return types.Case{}, types.Rejectf("case()", "requires at least one when()")
	}
	return b.c, nil
}

// End completes the CASE expression.
func (b CaseBuilder) End() types.Case { return must(b.TryEnd()) }

package tsql

import (
	"github.com/zoobzio/tsql/internal/types"
)

// Select flags.
var (
	Distinct = types.Flag{Keyword: "DISTINCT"}
	AllRows  = types.Flag{Keyword: "ALL"}
)

func condition(op string, x any) (types.Expr, error) {
	e, err := boolean(op, x)
	if err != nil {
		return nil, err
	}
	if types.ContainsAggregate(e) {
		return nil, types.Rejectf(op, "must not contain aggregate functions")
	}
	return e, nil
}

// TryWhere creates a WHERE clause. The condition must be boolean and free of aggregates.
func TryWhere(cond any) (types.Where, error) {
	e, err := condition("where()", cond)
	if err != nil {
		return types.Where{}, err
	}
	return types.Where{Cond: e}, nil
}

// Where creates a WHERE clause.
func Where(cond any) types.Where { return must(TryWhere(cond)) }

// TryHaving creates a HAVING clause.
func TryHaving(cond any) (types.Having, error) {
	e, err := boolean("having()", cond)
	if err != nil {
		return types.Having{}, err
	}
	return types.Having{Cond: e}, nil
}

// Having creates a HAVING clause.
func Having(cond any) types.Having { return must(TryHaving(cond)) }

// TryGroupBy creates a GROUP BY clause. Items may be dynamic.
func TryGroupBy(exprs ...any) (types.GroupBy, error) {
	es, err := toExprs("group_by()", exprs)
	if err != nil {
		return types.GroupBy{}, err
	}
	for _, e := range es {
		if types.ContainsAggregate(e) {
			return types.GroupBy{}, types.Rejectf("group_by()", "must not contain aggregate functions")
		}
	}
	return types.GroupBy{Exprs: es}, nil
}

// GroupBy creates a GROUP BY clause.
func GroupBy(exprs ...any) types.GroupBy { return must(TryGroupBy(exprs...)) }

func sortNode(op string, x any) (types.Node, error) {
	n, err := toNode(op, x)
	if err != nil {
		return nil, err
	}
	switch v := n.(type) {
	case types.Sort:
		return v, nil
	case types.Dynamic:
		switch inner := v.Node.(type) {
		case types.Sort:
			return v, nil
		case types.Expr:
			if inner.DataType().HasValue() {
				return types.Dynamic{Present: v.Present, Node: types.Sort{X: inner}}, nil
			}
		}
	case types.Expr:
		if v.DataType().HasValue() {
			return types.Sort{X: v}, nil
		}
	}
	return nil, types.Rejectf(op, "%T is not a sort item", n)
}

// TryOrderBy creates an ORDER BY clause. Plain expressions sort ascending.
func TryOrderBy(items ...any) (types.OrderBy, error) {
	out := make([]types.Node, 0, len(items))
	for _, x := range items {
		n, err := sortNode("order_by()", x)
		if err != nil {
			return types.OrderBy{}, err
		}
		out = append(out, n)
	}
	return types.OrderBy{Items: out}, nil
}

// OrderBy creates an ORDER BY clause.
func OrderBy(items ...any) types.OrderBy { return must(TryOrderBy(items...)) }

func count(op string, x any) (types.Expr, error) {
	e, err := toExpr(op, x)
	if err != nil {
		return nil, err
	}
	if !e.DataType().IsIntegral() || e.DataType().IsNull() {
		return nil, types.Rejectf(op, "requires an integral value, got %s", e.DataType())
	}
	if types.ContainsAggregate(e) {
		return nil, types.Rejectf(op, "must not contain aggregate functions")
	}
	return e, nil
}

// TryLimit creates a LIMIT clause.
func TryLimit(n any) (types.Limit, error) {
	e, err := count("limit()", n)
	if err != nil {
		return types.Limit{}, err
	}
	return types.Limit{Count: e}, nil
}

// Limit creates a LIMIT clause.
func Limit(n any) types.Limit { return must(TryLimit(n)) }

// TryOffset creates an OFFSET clause.
func TryOffset(n any) (types.Offset, error) {
	e, err := count("offset()", n)
	if err != nil {
		return types.Offset{}, err
	}
	return types.Offset{Count: e}, nil
}

// Offset creates an OFFSET clause.
func Offset(n any) types.Offset { return must(TryOffset(n)) }

// TryReturning creates a RETURNING clause.
func TryReturning(cols ...any) (types.Returning, error) {
	es, err := toExprs("returning()", cols)
	if err != nil {
		return types.Returning{}, err
	}
	return types.Returning{Columns: es}, nil
}

// Returning creates a RETURNING clause.
func Returning(cols ...any) types.Returning { return must(TryReturning(cols...)) }

func selectColumns(cols []any) (types.SelectColumns, error) {
	es, err := toExprs("select()", cols)
	if err != nil {
		return types.SelectColumns{}, err
	}
	return types.SelectColumns{Columns: es}, nil
}

func flags(xs []any) (types.SelectFlags, error) {
	out := make([]types.Node, 0, len(xs))
	for _, x := range xs {
		n, err := toNode("flags()", x)
		if err != nil {
			return types.SelectFlags{}, err
		}
		inner := n
		if d, ok := n.(types.Dynamic); ok {
			inner = d.Node
		}
		if _, ok := inner.(types.Flag); !ok {
			return types.SelectFlags{}, types.Rejectf("flags()", "%T is not a select flag", n)
		}
		out = append(out, n)
	}
	return types.SelectFlags{Flags: out}, nil
}

// assignments validates an assignment list: every element is an assignment
// (possibly dynamic), all of them target one table and no column repeats.
func assignments(op string, xs []any) ([]types.Node, error) {
	out := make([]types.Node, 0, len(xs))
	seen := make(map[string]bool, len(xs))
	table := ""
	for _, x := range xs {
		n, err := toNode(op, x)
		if err != nil {
			return nil, err
		}
		inner := n
		if d, ok := n.(types.Dynamic); ok {
			inner = d.Node
		}
		a, ok := inner.(types.Assignment)
		if !ok {
			return nil, types.Rejectf(op, "%T is not an assignment", n)
		}
		if table != "" && a.Column.Table != table {
			return nil, types.Rejectf(op, "assignments target both %s and %s", table, a.Column.Table)
		}
		table = a.Column.Table
		if seen[a.Column.Name] {
			return nil, types.Rejectf(op, "assigns column %s more than once", a.Column.Name)
		}
		seen[a.Column.Name] = true
		out = append(out, n)
	}
	return out, nil
}

func assignmentsTarget(op string, nodes []types.Node, t Table) error {
	for _, n := range nodes {
		if d, ok := n.(types.Dynamic); ok {
			n = d.Node
		}
		if a, ok := n.(types.Assignment); ok && a.Column.Table != t.Name {
			return types.Rejectf(op, "column %s does not belong to %s", a.Column.Qualified(), t.Name)
		}
	}
	return nil
}

// TryInsertSet creates the INSERT payload form (a, b) VALUES(x, y) from assignments.
func TryInsertSet(assignmentList ...any) (types.InsertValues, error) {
	nodes, err := assignments("set()", assignmentList)
	if err != nil {
		return types.InsertValues{}, err
	}
	return types.InsertValues{Assignments: nodes}, nil
}

// InsertSet creates the INSERT payload form (a, b) VALUES(x, y) from assignments.
func InsertSet(assignmentList ...any) types.InsertValues {
	return must(TryInsertSet(assignmentList...))
}

// TryUpdateSet creates an UPDATE SET clause.
func TryUpdateSet(assignmentList ...any) (types.UpdateSet, error) {
	nodes, err := assignments("set()", assignmentList)
	if err != nil {
		return types.UpdateSet{}, err
	}
	return types.UpdateSet{Assignments: nodes}, nil
}

// UpdateSet creates an UPDATE SET clause.
func UpdateSet(assignmentList ...any) types.UpdateSet {
	return must(TryUpdateSet(assignmentList...))
}

// TryFrom creates a FROM clause from a table, join, derived table or CTE.
func TryFrom(src any) (types.From, error) {
	n, err := toSource("from()", src)
	if err != nil {
		return types.From{}, err
	}
	if err := uniqueIdents("from()", n); err != nil {
		return types.From{}, err
	}
	return types.From{Table: n}, nil
}

// From creates a FROM clause.
func From(src any) types.From { return must(TryFrom(src)) }

func uniqueIdents(op string, n types.Node) error {
	seen := make(map[string]bool)
	for _, id := range types.SourceIdents(n) {
		if seen[id] {
			return types.Rejectf(op, "at least one duplicate table name detected")
		}
		seen[id] = true
	}
	return nil
}

package tsql

import (
	"github.com/zoobzio/tsql/internal/types"
)

// CommonTable is a common table expression under construction.
type CommonTable struct {
	cte types.CTE
	err error
}

// CTE starts a common table expression called name. Give it a query with As.
func CTE(name string) CommonTable {
	if !types.ValidIdentifier(name) {
		return CommonTable{err: types.Rejectf("cte()", "name %q is not a valid identifier", name)}
	}
	return CommonTable{cte: types.CTE{Name: name}}
}

// As sets the query of the CTE: a select or a union.
func (c CommonTable) As(query any) CommonTable {
	if c.err != nil {
		return c
	}
	if c.cte.Query != nil {
		c.err = types.Rejectf("as()", "clause already present")
		return c
	}
	switch q := query.(type) {
	case SelectBuilder:
		if q.err != nil {
			c.err = q.err
			return c
		}
		c.cte.Query = q.AST()
	case CompoundBuilder:
		if q.err != nil {
			c.err = q.err
			return c
		}
		c.cte.Query = q.AST()
	default:
		c.err = types.Rejectf("as()", "%T is not a query", query)
	}
	return c
}

func (c CommonTable) recursive(op string, step SelectBuilder, all bool) CommonTable {
	if c.err != nil {
		return c
	}
	if c.cte.Query == nil {
		c.err = types.Rejectf(op, "requires as()")
		return c
	}
	right, err := operandOf(op, step, true)
	if err != nil {
		c.err = err
		return c
	}
	c.cte.Query = &types.Compound{Left: c.cte.Query, Right: right, All: all}
	c.cte.Recursive = true
	return c
}

// UnionAll makes the CTE recursive: step may read the CTE's rows so far.
func (c CommonTable) UnionAll(step SelectBuilder) CommonTable {
	return c.recursive("union_all()", step, true)
}

// Union makes the CTE recursive, removing duplicate rows.
func (c CommonTable) Union(step SelectBuilder) CommonTable {
	return c.recursive("union()", step, false)
}

// TryC returns the result column called name.
func (c CommonTable) TryC(name string) (Column, error) {
	if c.err != nil {
		return Column{}, c.err
	}
	return columnNamed(c.cte.Name, c.cte.Columns(), name)
}

// C returns the result column called name and panics if there is none.
func (c CommonTable) C(name string) Column { return must(c.TryC(name)) }

// Name returns the CTE name.
func (c CommonTable) Name() string { return c.cte.Name }

// Err returns the first construction error.
func (c CommonTable) Err() error { return c.err }

// WithBuilder holds a WITH clause waiting for its statement.
type WithBuilder struct {
	with types.With
	err  error
}

// With starts a statement with common table expressions. CTEs may be dynamic.
func With(ctes ...any) WithBuilder {
	var w WithBuilder
	for _, x := range ctes {
		n, err := toNode("with()", x)
		if err != nil {
			return WithBuilder{err: err}
		}
		inner := n
		if d, ok := n.(types.Dynamic); ok {
			inner = d.Node
		}
		cte, ok := inner.(types.CTE)
		if !ok {
			return WithBuilder{err: types.Rejectf("with()", "%T is not a cte", n)}
		}
		if cte.Query == nil {
			return WithBuilder{err: types.Rejectf("with()", "cte %s has no query", cte.Name)}
		}
		w.with.CTEs = append(w.with.CTEs, n)
	}
	if len(w.with.CTEs) == 0 {
		w.err = types.Rejectf("with()", "requires at least one cte")
	}
	return w
}

func (w WithBuilder) clause() *types.With {
	c := w.with
	return &c
}

// Select starts a SELECT using the CTEs.
func (w WithBuilder) Select(cols ...any) SelectBuilder {
	if w.err != nil {
		return SelectBuilder{err: w.err}
	}
	b := Select(cols...)
	b.ast.With = w.clause()
	return b
}

// InsertInto starts an INSERT using the CTEs.
func (w WithBuilder) InsertInto(t Table) InsertBuilder {
	if w.err != nil {
		return InsertBuilder{err: w.err}
	}
	b := InsertInto(t)
	b.ast.With = w.clause()
	return b
}

// Update starts an UPDATE using the CTEs.
func (w WithBuilder) Update(t Table) UpdateBuilder {
	if w.err != nil {
		return UpdateBuilder{err: w.err}
	}
	b := Update(t)
	b.ast.With = w.clause()
	return b
}

// DeleteFrom starts a DELETE using the CTEs.
func (w WithBuilder) DeleteFrom(t Table) DeleteBuilder {
	if w.err != nil {
		return DeleteBuilder{err: w.err}
	}
	b := DeleteFrom(t)
	b.ast.With = w.clause()
	return b
}

package tsql

import (
	"github.com/zoobzio/tsql/internal/check"
	"github.com/zoobzio/tsql/internal/types"
)

// SelectBuilder builds a SELECT statement. Each method returns a new builder;
// the first error is kept and later calls are ignored.
type SelectBuilder struct {
	ast types.Select
	err error
}

// Select starts a SELECT with the given select items.
func Select(cols ...any) SelectBuilder {
	var b SelectBuilder
	if len(cols) > 0 {
		b.err = fill(&b.ast.Columns, "select()", func() (types.SelectColumns, error) {
			return selectColumns(cols)
		})
	}
	return b
}

// Columns sets the select items when Select was called without any.
func (b SelectBuilder) Columns(cols ...any) SelectBuilder {
	if b.err == nil {
		b.err = fill(&b.ast.Columns, "select()", func() (types.SelectColumns, error) {
			return selectColumns(cols)
		})
	}
	return b
}

// Distinct adds the DISTINCT flag.
func (b SelectBuilder) Distinct() SelectBuilder {
	return b.Flags(Distinct)
}

// Flags sets the select flags. Flags may be dynamic.
func (b SelectBuilder) Flags(fs ...any) SelectBuilder {
	if b.err == nil {
		b.err = fill(&b.ast.Flags, "flags()", func() (types.SelectFlags, error) {
			return flags(fs)
		})
	}
	return b
}

// From sets the table source.
func (b SelectBuilder) From(src any) SelectBuilder {
	if b.err == nil {
		b.err = fill(&b.ast.From, "from()", func() (types.From, error) { return TryFrom(src) })
	}
	return b
}

// Where sets the row filter.
func (b SelectBuilder) Where(cond any) SelectBuilder {
	if b.err == nil {
		b.err = fill(&b.ast.Where, "where()", func() (types.Where, error) { return TryWhere(cond) })
	}
	return b
}

// GroupBy sets the grouping expressions.
func (b SelectBuilder) GroupBy(exprs ...any) SelectBuilder {
	if b.err == nil {
		b.err = fill(&b.ast.GroupBy, "group_by()", func() (types.GroupBy, error) { return TryGroupBy(exprs...) })
	}
	return b
}

// Having sets the group filter.
func (b SelectBuilder) Having(cond any) SelectBuilder {
	if b.err == nil {
		b.err = fill(&b.ast.Having, "having()", func() (types.Having, error) { return TryHaving(cond) })
	}
	return b
}

// OrderBy sets the sort order.
func (b SelectBuilder) OrderBy(items ...any) SelectBuilder {
	if b.err == nil {
		b.err = fill(&b.ast.OrderBy, "order_by()", func() (types.OrderBy, error) { return TryOrderBy(items...) })
	}
	return b
}

// Limit sets the maximum row count.
func (b SelectBuilder) Limit(n any) SelectBuilder {
	if b.err == nil {
		b.err = fill(&b.ast.Limit, "limit()", func() (types.Limit, error) { return TryLimit(n) })
	}
	return b
}

// Offset sets the number of skipped rows.
func (b SelectBuilder) Offset(n any) SelectBuilder {
	if b.err == nil {
		b.err = fill(&b.ast.Offset, "offset()", func() (types.Offset, error) { return TryOffset(n) })
	}
	return b
}

// ForUpdate locks the selected rows.
func (b SelectBuilder) ForUpdate() SelectBuilder {
	if b.err == nil {
		b.err = fill(&b.ast.ForUpdate, "for_update()", func() (types.ForUpdate, error) {
			return types.ForUpdate{}, nil
		})
	}
	return b
}

// Union combines the rows of b and other, removing duplicates.
func (b SelectBuilder) Union(other SelectBuilder) CompoundBuilder {
	return newCompound("union()", b, other, false)
}

// UnionAll combines the rows of b and other.
func (b SelectBuilder) UnionAll(other SelectBuilder) CompoundBuilder {
	return newCompound("union_all()", b, other, true)
}

// subquery returns the statement for use inside another one.
func (b SelectBuilder) subquery(op string) (*types.Select, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.ast.Columns == nil || len(b.ast.Columns.Columns) != 1 {
		return nil, types.Rejectf(op, "requires exactly one selected column")
	}
	return b.AST(), nil
}

// Build returns the statement tree if it is consistent.
func (b SelectBuilder) Build() (*types.Select, error) {
	if b.err != nil {
		return nil, b.err
	}
	s := b.AST()
	if err := consistent(s); err != nil {
		return nil, err
	}
	return s, nil
}

// AST returns a copy of the statement tree built so far.
func (b SelectBuilder) AST() *types.Select {
	s := b.ast
	return &s
}

// Consistency runs the consistency check.
func (b SelectBuilder) Consistency() Violation { return check.Consistency(b.AST()) }

// PrepareCheck runs the prepare check.
func (b SelectBuilder) PrepareCheck() Violation { return check.Prepare(b.AST()) }

// Render checks the statement and serializes it for r.
func (b SelectBuilder) Render(r Renderer) (*QueryResult, error) {
	if b.err != nil {
		return nil, b.err
	}
	return renderChecked(r, b.AST())
}

// MustRender is Render that panics on error.
func (b SelectBuilder) MustRender(r Renderer) *QueryResult { return must(b.Render(r)) }

// Err returns the first construction error.
func (b SelectBuilder) Err() error { return b.err }

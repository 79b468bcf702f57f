package tsql

import (
	"github.com/zoobzio/tsql/internal/check"
	"github.com/zoobzio/tsql/internal/types"
)

// CompoundBuilder builds a UNION of selects.
type CompoundBuilder struct {
	ast types.Compound
	err error
}

func operandOf(op string, b SelectBuilder, right bool) (*types.Select, error) {
	if b.err != nil {
		return nil, b.err
	}
	s := b.AST()
	if s.OrderBy != nil || s.Limit != nil || s.Offset != nil || s.ForUpdate != nil {
		return nil, types.Rejectf(op, "operands must not have order_by(), limit(), offset() or for_update()")
	}
	if right && s.With != nil {
		return nil, types.Rejectf(op, "right operand must not have with()")
	}
	return s, nil
}

func newCompound(op string, l, r SelectBuilder, all bool) CompoundBuilder {
	left, err := operandOf(op, l, false)
	if err != nil {
		return CompoundBuilder{err: err}
	}
	right, err := operandOf(op, r, true)
	if err != nil {
		return CompoundBuilder{err: err}
	}
	return CompoundBuilder{ast: types.Compound{Left: left, Right: right, All: all}}
}

func (b CompoundBuilder) chain(op string, other SelectBuilder, all bool) CompoundBuilder {
	if b.err != nil {
		return b
	}
	if b.ast.OrderBy != nil || b.ast.Limit != nil || b.ast.Offset != nil {
		return CompoundBuilder{err: types.Rejectf(op, "operands must not have order_by(), limit(), offset() or for_update()")}
	}
	right, err := operandOf(op, other, true)
	if err != nil {
		return CompoundBuilder{err: err}
	}
	return CompoundBuilder{ast: types.Compound{Left: b.AST(), Right: right, All: all}}
}

// Union appends another select, removing duplicates.
func (b CompoundBuilder) Union(other SelectBuilder) CompoundBuilder {
	return b.chain("union()", other, false)
}

// UnionAll appends another select.
func (b CompoundBuilder) UnionAll(other SelectBuilder) CompoundBuilder {
	return b.chain("union_all()", other, true)
}

// OrderBy sorts the combined rows. Columns are referenced by their result names.
func (b CompoundBuilder) OrderBy(items ...any) CompoundBuilder {
	if b.err == nil {
		b.err = fill(&b.ast.OrderBy, "order_by()", func() (types.OrderBy, error) { return TryOrderBy(items...) })
	}
	return b
}

// Limit sets the maximum row count of the combined rows.
func (b CompoundBuilder) Limit(n any) CompoundBuilder {
	if b.err == nil {
		b.err = fill(&b.ast.Limit, "limit()", func() (types.Limit, error) { return TryLimit(n) })
	}
	return b
}

// Offset sets the number of skipped combined rows.
func (b CompoundBuilder) Offset(n any) CompoundBuilder {
	if b.err == nil {
		b.err = fill(&b.ast.Offset, "offset()", func() (types.Offset, error) { return TryOffset(n) })
	}
	return b
}

// Build returns the statement tree if it is consistent.
func (b CompoundBuilder) Build() (*types.Compound, error) {
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
func (b CompoundBuilder) AST() *types.Compound {
	s := b.ast
	return &s
}

// Consistency runs the consistency check.
func (b CompoundBuilder) Consistency() Violation { return check.Consistency(b.AST()) }

// PrepareCheck runs the prepare check.
func (b CompoundBuilder) PrepareCheck() Violation { return check.Prepare(b.AST()) }

// Render checks the statement and serializes it for r.
func (b CompoundBuilder) Render(r Renderer) (*QueryResult, error) {
	if b.err != nil {
		return nil, b.err
	}
	return renderChecked(r, b.AST())
}

// MustRender is Render that panics on error.
func (b CompoundBuilder) MustRender(r Renderer) *QueryResult { return must(b.Render(r)) }

// Err returns the first construction error.
func (b CompoundBuilder) Err() error { return b.err }

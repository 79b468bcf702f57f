package tsql

import (
	"github.com/zoobzio/tsql/internal/check"
	"github.com/zoobzio/tsql/internal/types"
)

// DeleteBuilder builds a DELETE statement.
type DeleteBuilder struct {
	ast types.Delete
	err error
}

// DeleteFrom starts a DELETE from t, which must not be aliased.
func DeleteFrom(t Table) DeleteBuilder {
	var b DeleteBuilder
	b.err = fill(&b.ast.Table, "delete_from()", singleTable("delete_from()", t))
	return b
}

// Using adds tables the WHERE condition may refer to.
func (b DeleteBuilder) Using(src any) DeleteBuilder {
	if b.err == nil {
		b.err = fill(&b.ast.Using, "using()", func() (types.Using, error) {
			n, err := toSource("using()", src)
			if err != nil {
				return types.Using{}, err
			}
			if b.ast.Table != nil {
				err = uniqueIdents("using()", types.Join{Kind: types.CrossJoin, Left: b.ast.Table.Table, Right: n})
			}
			return types.Using{Table: n}, err
		})
	}
	return b
}

// Where restricts the deleted rows.
func (b DeleteBuilder) Where(cond any) DeleteBuilder {
	if b.err == nil {
		b.err = fill(&b.ast.Where, "where()", func() (types.Where, error) { return TryWhere(cond) })
	}
	return b
}

// Returning sets the columns returned for each deleted row.
func (b DeleteBuilder) Returning(cols ...any) DeleteBuilder {
	if b.err == nil {
		b.err = fill(&b.ast.Returning, "returning()", func() (types.Returning, error) { return TryReturning(cols...) })
	}
	return b
}

// Build returns the statement tree if it is consistent.
func (b DeleteBuilder) Build() (*types.Delete, error) {
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
func (b DeleteBuilder) AST() *types.Delete {
	s := b.ast
	return &s
}

// Consistency runs the consistency check.
func (b DeleteBuilder) Consistency() Violation { return check.Consistency(b.AST()) }

// PrepareCheck runs the prepare check.
func (b DeleteBuilder) PrepareCheck() Violation { return check.Prepare(b.AST()) }

// Render checks the statement and serializes it for r.
func (b DeleteBuilder) Render(r Renderer) (*QueryResult, error) {
	if b.err != nil {
		return nil, b.err
	}
	return renderChecked(r, b.AST())
}

// MustRender is Render that panics on error.
func (b DeleteBuilder) MustRender(r Renderer) *QueryResult { return must(b.Render(r)) }

// Err returns the first construction error.
func (b DeleteBuilder) Err() error { return b.err }

// TruncateBuilder builds a TRUNCATE statement.
type TruncateBuilder struct {
	ast types.Truncate
	err error
}

// Truncate empties t, which must not be aliased.
func Truncate(t Table) TruncateBuilder {
	var b TruncateBuilder
	b.err = fill(&b.ast.Table, "truncate()", singleTable("truncate()", t))
	return b
}

// AST returns a copy of the statement tree.
func (b TruncateBuilder) AST() *types.Truncate {
	s := b.ast
	return &s
}

// Build returns the statement tree if it is consistent.
func (b TruncateBuilder) Build() (*types.Truncate, error) {
	if b.err != nil {
		return nil, b.err
	}
	s := b.AST()
	if err := consistent(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Consistency runs the consistency check.
func (b TruncateBuilder) Consistency() Violation { return check.Consistency(b.AST()) }

// PrepareCheck runs the prepare check.
func (b TruncateBuilder) PrepareCheck() Violation { return check.Prepare(b.AST()) }

// Render checks the statement and serializes it for r.
func (b TruncateBuilder) Render(r Renderer) (*QueryResult, error) {
	if b.err != nil {
		return nil, b.err
	}
	return renderChecked(r, b.AST())
}

// MustRender is Render that panics on error.
func (b TruncateBuilder) MustRender(r Renderer) *QueryResult { return must(b.Render(r)) }

// Err returns the first construction error.
func (b TruncateBuilder) Err() error { return b.err }

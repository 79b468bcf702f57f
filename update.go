package tsql

import (
	"github.com/zoobzio/tsql/internal/check"
	"github.com/zoobzio/tsql/internal/types"
)

// UpdateBuilder builds an UPDATE statement.
type UpdateBuilder struct {
	ast types.Update
	err error
}

func singleTable(op string, t Table) func() (types.SingleTable, error) {
	return func() (types.SingleTable, error) {
		if err := rawTable(op, t); err != nil {
			return types.SingleTable{}, err
		}
		return types.SingleTable{Table: t}, nil
	}
}

// Update starts an UPDATE of t, which must not be aliased.
func Update(t Table) UpdateBuilder {
	var b UpdateBuilder
	b.err = fill(&b.ast.Table, "update()", singleTable("update()", t))
	return b
}

// Set assigns columns of the updated table. Assignments may be dynamic.
func (b UpdateBuilder) Set(assignmentList ...any) UpdateBuilder {
	if b.err == nil {
		b.err = fill(&b.ast.Set, "set()", func() (types.UpdateSet, error) {
			s, err := TryUpdateSet(assignmentList...)
			if err != nil || b.ast.Table == nil {
				return s, err
			}
			return s, assignmentsTarget("set()", s.Assignments, b.ast.Table.Table)
		})
	}
	return b
}

// Where restricts the updated rows.
func (b UpdateBuilder) Where(cond any) UpdateBuilder {
	if b.err == nil {
		b.err = fill(&b.ast.Where, "where()", func() (types.Where, error) { return TryWhere(cond) })
	}
	return b
}

// Returning sets the columns returned for each updated row.
func (b UpdateBuilder) Returning(cols ...any) UpdateBuilder {
	if b.err == nil {
		b.err = fill(&b.ast.Returning, "returning()", func() (types.Returning, error) { return TryReturning(cols...) })
	}
	return b
}

// Build returns the statement tree if it is consistent.
func (b UpdateBuilder) Build() (*types.Update, error) {
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
func (b UpdateBuilder) AST() *types.Update {
	s := b.ast
	return &s
}

// Consistency runs the consistency check.
func (b UpdateBuilder) Consistency() Violation { return check.Consistency(b.AST()) }

// PrepareCheck runs the prepare check.
func (b UpdateBuilder) PrepareCheck() Violation { return check.Prepare(b.AST()) }

// Render checks the statement and serializes it for r.
func (b UpdateBuilder) Render(r Renderer) (*QueryResult, error) {
	if b.err != nil {
		return nil, b.err
	}
	return renderChecked(r, b.AST())
}

// MustRender is Render that panics on error.
func (b UpdateBuilder) MustRender(r Renderer) *QueryResult { return must(b.Render(r)) }

// Err returns the first construction error.
func (b UpdateBuilder) Err() error { return b.err }

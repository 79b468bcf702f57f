package tsql

import (
	"github.com/zoobzio/tsql/internal/check"
	"github.com/zoobzio/tsql/internal/types"
)

func rawTable(op string, t Table) error {
	if t.Alias != "" {
		return types.Rejectf(op, "requires a raw table, got alias %s", t.Alias)
	}
	if !types.ValidIdentifier(t.Name) {
		return types.Rejectf(op, "requires a table")
	}
	return nil
}

func columnsOf(op string, cols []Column, t Table) error {
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		if c.Table != t.Name {
			return types.Rejectf(op, "column %s does not belong to %s", c.Qualified(), t.Name)
		}
		if seen[c.Name] {
			return types.Rejectf(op, "lists column %s more than once", c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}

// InsertBuilder builds an INSERT statement.
type InsertBuilder struct {
	ast types.Insert
	err error
}

// InsertInto starts an INSERT into t, which must not be aliased.
func InsertInto(t Table) InsertBuilder {
	var b InsertBuilder
	b.err = fill(&b.ast.Into, "into()", func() (types.Into, error) {
		if err := rawTable("into()", t); err != nil {
			return types.Into{}, err
		}
		return types.Into{Table: t}, nil
	})
	return b
}

func (b InsertBuilder) table() Table {
	if b.ast.Into == nil {
		return Table{}
	}
	return b.ast.Into.Table
}

func (b InsertBuilder) values(op string, build func() (types.InsertValues, error)) InsertBuilder {
	if b.err == nil {
		b.err = fill(&b.ast.Values, op, build)
	}
	return b
}

// Set inserts one row given as assignments: (a, b) VALUES(x, y).
func (b InsertBuilder) Set(assignmentList ...any) InsertBuilder {
	return b.values("set()", func() (types.InsertValues, error) {
		v, err := TryInsertSet(assignmentList...)
		if err != nil {
			return v, err
		}
		return v, assignmentsTarget("set()", v.Assignments, b.table())
	})
}

// DefaultValues inserts one row of column defaults.
func (b InsertBuilder) DefaultValues() InsertBuilder {
	return b.values("default_values()", func() (types.InsertValues, error) {
		return types.InsertValues{DefaultValues: true}, nil
	})
}

// Columns lists the columns filled by Values or Query.
func (b InsertBuilder) Columns(cols ...Column) InsertBuilder {
	return b.values("columns()", func() (types.InsertValues, error) {
		if len(cols) == 0 {
			return types.InsertValues{}, types.Rejectf("columns()", "requires at least one column")
		}
		if err := columnsOf("columns()", cols, b.table()); err != nil {
			return types.InsertValues{}, err
		}
		for _, c := range cols {
			if c.ReadOnly {
				return types.InsertValues{}, types.Rejectf("columns()", "cannot assign read-only column %s", c.Qualified())
			}
		}
		return types.InsertValues{Columns: append([]Column(nil), cols...)}, nil
	})
}

// Values appends one row for the column list. Call it once per row.
func (b InsertBuilder) Values(vals ...any) InsertBuilder {
	if b.err != nil {
		return b
	}
	v := b.ast.Values
	if v == nil || len(v.Columns) == 0 || v.Query != nil {
		b.err = types.Rejectf("values()", "requires columns()")
		return b
	}
	row := make([]types.Expr, 0, len(vals))
	for i, x := range vals {
		if _, ok := x.(types.DefaultValue); ok {
			row = append(row, Default)
			continue
		}
		e, err := toExpr("values()", x)
		if err != nil {
			b.err = err
			return b
		}
		if types.ContainsAggregate(e) {
			b.err = types.Rejectf("values()", "must not contain aggregate functions")
			return b
		}
		if i < len(v.Columns) && !types.Assignable(v.Columns[i].Type, e.DataType()) {
			c := v.Columns[i]
			b.err = types.Rejectf("values()", "cannot assign %s to %s column %s", e.DataType(), c.Type, c.Qualified())
			return b
		}
		row = append(row, e)
	}
	next := *v
	next.Rows = append(append([][]types.Expr(nil), v.Rows...), row)
	b.ast.Values = &next
	return b
}

// Query fills the column list from a select.
func (b InsertBuilder) Query(sel SelectBuilder) InsertBuilder {
	if b.err != nil {
		return b
	}
	v := b.ast.Values
	if v == nil || len(v.Columns) == 0 {
		b.err = types.Rejectf("query()", "requires columns()")
		return b
	}
	if len(v.Rows) > 0 || v.Query != nil {
		b.err = types.Rejectf("query()", "clause already present")
		return b
	}
	if sel.err != nil {
		b.err = sel.err
		return b
	}
	next := *v
	next.Query = sel.AST()
	b.ast.Values = &next
	return b
}

// OnConflict starts the upsert clause for the given conflict target columns.
func (b InsertBuilder) OnConflict(targets ...Column) ConflictBuilder {
	c := ConflictBuilder{ins: b}
	if b.err != nil {
		return c
	}
	if b.ast.OnConflict != nil {
		c.ins.err = types.Rejectf("on_conflict()", "clause already present")
		return c
	}
	if err := columnsOf("on_conflict()", targets, b.table()); err != nil {
		c.ins.err = err
		return c
	}
	c.targets = append([]Column(nil), targets...)
	return c
}

// Returning sets the columns returned for each inserted row.
func (b InsertBuilder) Returning(cols ...any) InsertBuilder {
	if b.err == nil {
		b.err = fill(&b.ast.Returning, "returning()", func() (types.Returning, error) { return TryReturning(cols...) })
	}
	return b
}

// Build returns the statement tree if it is consistent.
func (b InsertBuilder) Build() (*types.Insert, error) {
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
func (b InsertBuilder) AST() *types.Insert {
	s := b.ast
	return &s
}

// Consistency runs the consistency check.
func (b InsertBuilder) Consistency() Violation { return check.Consistency(b.AST()) }

// PrepareCheck runs the prepare check.
func (b InsertBuilder) PrepareCheck() Violation { return check.Prepare(b.AST()) }

// Render checks the statement and serializes it for r.
func (b InsertBuilder) Render(r Renderer) (*QueryResult, error) {
	if b.err != nil {
		return nil, b.err
	}
	return renderChecked(r, b.AST())
}

// MustRender is Render that panics on error.
func (b InsertBuilder) MustRender(r Renderer) *QueryResult { return must(b.Render(r)) }

// Err returns the first construction error.
func (b InsertBuilder) Err() error { return b.err }

// ConflictBuilder chooses the action of an ON CONFLICT clause.
type ConflictBuilder struct {
	ins     InsertBuilder
	targets []Column
}

// DoNothing skips conflicting rows.
func (c ConflictBuilder) DoNothing() InsertBuilder {
	if c.ins.err != nil {
		return c.ins
	}
	b := c.ins
	b.ast.OnConflict = &types.OnConflict{Targets: c.targets, DoNothing: true}
	return b
}

// DoUpdate updates the conflicting row. Use Excluded to read the rejected values.
func (c ConflictBuilder) DoUpdate(assignmentList ...any) ConflictUpdateBuilder {
	if c.ins.err != nil {
		return ConflictUpdateBuilder{c.ins}
	}
	b := c.ins
	if len(c.targets) == 0 {
		b.err = types.Rejectf("do_update()", "requires conflict target columns")
		return ConflictUpdateBuilder{b}
	}
	if len(assignmentList) == 0 {
		b.err = types.Rejectf("do_update()", "requires at least one assignment")
		return ConflictUpdateBuilder{b}
	}
	nodes, err := assignments("do_update()", assignmentList)
	if err == nil {
		err = assignmentsTarget("do_update()", nodes, b.table())
	}
	if err != nil {
		b.err = err
		return ConflictUpdateBuilder{b}
	}
	b.ast.OnConflict = &types.OnConflict{Targets: c.targets, Assignments: nodes}
	return ConflictUpdateBuilder{b}
}

// ConflictUpdateBuilder is an INSERT whose ON CONFLICT DO UPDATE may still get a WHERE.
type ConflictUpdateBuilder struct {
	InsertBuilder
}

// Where restricts which conflicting rows are updated.
func (c ConflictUpdateBuilder) Where(cond any) InsertBuilder {
	b := c.InsertBuilder
	if b.err != nil {
		return b
	}
	e, err := condition("where()", cond)
	if err != nil {
		b.err = err
		return b
	}
	oc := *b.ast.OnConflict
	oc.Where = e
	b.ast.OnConflict = &oc
	return b
}

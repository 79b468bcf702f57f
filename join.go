package tsql

import (
	"github.com/zoobzio/tsql/internal/types"
)

func isSource(n types.Node) bool {
	switch v := n.(type) {
	case types.Table, types.CTE, types.DerivedTable, types.Join:
		return true
	case types.Dynamic:
		return isSource(v.Node)
	}
	return false
}

// toSource converts x into a node that can appear in FROM, USING or a join.
func toSource(op string, x any) (types.Node, error) {
	if _, ok := x.(SelectBuilder); ok {
		return nil, types.Rejectf(op, "a select needs a name, use AsTable")
	}
	n, err := toNode(op, x)
	if err != nil {
		return nil, err
	}
	if !isSource(n) {
		return nil, types.Rejectf(op, "%T is not a table source", n)
	}
	return n, nil
}

// JoinSource is a table source that joins can be chained onto.
type JoinSource struct {
	node types.Node
	err  error
}

// Source starts a join chain from a table, derived table or CTE.
func Source(x any) JoinSource {
	n, err := toSource("join()", x)
	return JoinSource{node: n, err: err}
}

// PendingJoin is a join that still needs its ON condition.
type PendingJoin struct {
	left  JoinSource
	kind  types.JoinKind
	right types.Node
}

func (j JoinSource) join(kind types.JoinKind, x any) PendingJoin {
	p := PendingJoin{left: j, kind: kind}
	if j.err != nil {
		return p
	}
	right, err := toSource("join()", x)
	if err != nil {
		p.left.err = err
		return p
	}
	p.right = right
	return p
}

// InnerJoin joins x; complete it with On.
func (j JoinSource) InnerJoin(x any) PendingJoin { return j.join(types.InnerJoin, x) }

// LeftJoin joins x keeping unmatched left rows; complete it with On.
func (j JoinSource) LeftJoin(x any) PendingJoin { return j.join(types.LeftJoin, x) }

// RightJoin joins x keeping unmatched right rows; complete it with On.
func (j JoinSource) RightJoin(x any) PendingJoin { return j.join(types.RightJoin, x) }

// FullJoin joins x keeping unmatched rows of both sides; complete it with On.
func (j JoinSource) FullJoin(x any) PendingJoin { return j.join(types.FullJoin, x) }

// CrossJoin joins every row of x.
func (j JoinSource) CrossJoin(x any) JoinSource {
	p := j.join(types.CrossJoin, x)
	if p.left.err != nil {
		return p.left
	}
	return JoinSource{node: types.Join{Kind: types.CrossJoin, Left: j.node, Right: p.right}}
}

// On completes the join with its condition. The condition must not contain aggregates.
func (p PendingJoin) On(cond any) JoinSource {
	if p.left.err != nil {
		return p.left
	}
	e, err := condition("on()", cond)
	if err != nil {
		return JoinSource{err: err}
	}
	return JoinSource{node: types.Join{Kind: p.kind, Left: p.left.node, Right: p.right, On: e}}
}

// Err returns the first error met while building the join.
func (j JoinSource) Err() error { return j.err }

// Derived is a named subquery usable as a table.
type Derived struct {
	dt  types.DerivedTable
	err error
}

// AsTable names a select so it can be used in FROM.
func AsTable(sel SelectBuilder, name string) Derived {
	if sel.err != nil {
		return Derived{err: sel.err}
	}
	if !types.ValidIdentifier(name) {
		return Derived{err: types.Rejectf("as_table()", "name %q is not a valid identifier", name)}
	}
	s := sel.ast
	return Derived{dt: types.DerivedTable{Query: &s, Name: name}}
}

// TryC returns the result column called name.
func (d Derived) TryC(name string) (Column, error) {
	if d.err != nil {
		return Column{}, d.err
	}
	return columnNamed(d.dt.Name, d.dt.Columns(), name)
}

// C returns the result column called name and panics if there is none.
func (d Derived) C(name string) Column { return must(d.TryC(name)) }

// Err returns the error of the wrapped select.
func (d Derived) Err() error { return d.err }

func columnNamed(table string, cols []Column, name string) (Column, error) {
	for _, c := range cols {
		if c.Name == name {
			return c, nil
		}
	}
	return Column{}, types.Rejectf("column()", "%q is not a column of %s", name, table)
}

// Package check implements the consistency and prepare rules that decide whether a
// statement tree may be serialized.
package check

import "github.com/zoobzio/tsql/internal/types"

// scope is the set of tables a statement's own clauses may reference.
type scope struct {
	provided       types.TableSet
	providedStatic types.TableSet
}

func newScope(source types.Node, extra ...string) scope {
	sc := scope{
		provided:       types.ProvidedTables(source),
		providedStatic: types.ProvidedStaticTables(source),
	}
	if len(extra) > 0 {
		more := types.NewTableSet(extra...)
		sc.provided = sc.provided.Union(more)
		sc.providedStatic = sc.providedStatic.Union(more)
	}
	return sc
}

// static fails with v when a static part of n needs a table that is only provided dynamically.
func (sc scope) static(n types.Node, v types.Violation) types.Violation {
	if n == nil {
		return types.Consistent
	}
	required := types.RequiredStaticTables(n)
	if required.Intersect(sc.provided).SubsetOf(sc.providedStatic) {
		return types.Consistent
	}
	return v
}

// known fails with v when n needs a table the statement does not provide at all.
func (sc scope) known(n types.Node, v types.Violation) types.Violation {
	if n == nil {
		return types.Consistent
	}
	if types.RequiredTables(n).SubsetOf(sc.provided) {
		return types.Consistent
	}
	return v
}

// deref turns an optional clause slot into a node, nil when the slot is empty.
func deref[T types.Node](p *T) types.Node {
	if p == nil {
		return nil
	}
	return *p
}

// nestedStatement is a statement embedded in another one.
// Closed statements (derived tables) cannot see the enclosing statement's tables.
type nestedStatement struct {
	stmt   types.Statement
	closed bool
}

// nestedIn collects statements nested in clause nodes. CTE definitions are skipped;
// they are handled through the WITH clause.
func nestedIn(nodes ...types.Node) []nestedStatement {
	var out []nestedStatement
	var walk func(types.Node)
	walk = func(n types.Node) {
		switch n := n.(type) {
		case nil:
			return
		case types.Statement:
			out = append(out, nestedStatement{stmt: n})
			return
		case types.CTE:
			return
		}
		for _, c := range types.Children(n) {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return out
}

// nestedInSource collects the derived tables of a FROM source.
func nestedInSource(n types.Node) []nestedStatement {
	switch n := n.(type) {
	case types.DerivedTable:
		return []nestedStatement{{stmt: n.Query, closed: true}}
	case types.Dynamic:
		return nestedInSource(n.Node)
	case types.Join:
		return append(nestedInSource(n.Left), nestedInSource(n.Right)...)
	}
	return nil
}

// ctesOf returns the CTE definitions of a WITH clause, dynamic ones included.
func ctesOf(w *types.With) []types.CTE {
	if w == nil {
		return nil
	}
	out := make([]types.CTE, 0, len(w.CTEs))
	for _, n := range w.CTEs {
		if d, ok := n.(types.Dynamic); ok {
			n = d.Node
		}
		if cte, ok := n.(types.CTE); ok {
			out = append(out, cte)
		}
	}
	return out
}

func withOf(s types.Statement) *types.With {
	switch s := s.(type) {
	case *types.Select:
		return s.With
	case *types.Insert:
		return s.With
	case *types.Update:
		return s.With
	case *types.Delete:
		return s.With
	}
	return nil
}

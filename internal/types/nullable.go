package types

// OuterTables returns the identities whose rows may be missing from a joined source:
// the right side of LEFT joins, the left side of RIGHT joins, both sides of FULL
// joins and every dynamically joined table.
func OuterTables(n Node) TableSet {
	out := NewTableSet()
	outerTables(n, out)
	return out
}

func outerTables(n Node, out TableSet) {
	switch n := n.(type) {
	case Dynamic:
		outerTables(n.Node, out)
	case Join:
		switch n.Kind {
		case LeftJoin:
			providedTables(n.Right, false, out)
		case RightJoin:
			providedTables(n.Left, false, out)
		case FullJoin:
			providedTables(n.Left, false, out)
			providedTables(n.Right, false, out)
		}
		if _, ok := n.Right.(Dynamic); ok {
			providedTables(n.Right, false, out)
		}
		outerTables(n.Left, out)
		outerTables(n.Right, out)
	}
}

// TypeIn returns the type of e when its columns are read from a source in which the
// tables of outer may be NULL-extended.
func TypeIn(e Expr, outer TableSet) DataType {
	t := e.DataType()
	if t.Optional || len(outer) == 0 {
		return t
	}
	switch e := e.(type) {
	case Column:
		if outer.Has(e.Table) {
			return t.AsOptional()
		}
		return t
	case Comparison:
		if e.Op.IsNullTest() {
			return t
		}
	case Aggregate, Value, Param, Verbatim, DefaultValue, Subquery, Exists:
		return t
	case Function:
		if e.Name == "COALESCE" {
			for _, a := range e.Args {
				if !TypeIn(a, outer).Optional {
					return t
				}
			}
			return t.AsOptional()
		}
	case Case:
		for _, w := range e.Whens {
			if TypeIn(w.Result, outer).Optional {
				return t.AsOptional()
			}
		}
		if e.Else != nil && TypeIn(e.Else, outer).Optional {
			return t.AsOptional()
		}
		return t
	}
	for _, c := range Children(e) {
		if ce, ok := c.(Expr); ok && TypeIn(ce, outer).Optional {
			return t.AsOptional()
		}
	}
	return t
}

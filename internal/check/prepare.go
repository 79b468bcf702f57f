package check

import "github.com/zoobzio/tsql/internal/types"

// Prepare returns the first violation that prevents s from being executed on its own:
// every consistency rule, then tables referenced without being provided and CTEs
// referenced without being defined.
func Prepare(s types.Statement) types.Violation {
	return types.FirstViolation(
		func() types.Violation { return Consistency(s) },
		func() types.Violation { return prepare(s, types.NewTableSet(), true) },
	)
}

// prepare checks s against the CTE names visible to it. Statements that are not closed
// may reference tables of the enclosing statement, so only their CTE references are checked.
func prepare(s types.Statement, ctes types.TableSet, closed bool) types.Violation {
	if c, ok := s.(*types.Compound); ok {
		v := prepare(c.Left, ctes, closed)
		if v.OK() && c.Right != nil {
			v = prepare(c.Right, ctes, closed)
		}
		return v
	}

	w := withOf(s)
	visible, v := prepareWith(w, ctes)
	if !v.OK() {
		return v
	}

	source := types.Source(s)
	checks := []func() types.Violation{
		func() types.Violation {
			for _, ref := range types.CTERefs(source) {
				if !visible.Has(ref.Name) {
					return types.NoUnknownCTEs
				}
			}
			return types.Consistent
		},
	}
	if closed {
		checks = append(checks, tableChecks(s)...)
	}
	checks = append(checks, func() types.Violation {
		for _, n := range append(nestedInSource(source), nestedIn(types.Parts(s)...)...) {
			if v := prepare(n.stmt, visible, n.closed); !v.OK() {
				return v
			}
		}
		return types.Consistent
	})
	return types.FirstViolation(checks...)
}

// prepareWith checks each CTE definition against the CTEs defined before it and
// returns the names visible to the statement body.
func prepareWith(w *types.With, outer types.TableSet) (types.TableSet, types.Violation) {
	visible := outer
	for _, cte := range ctesOf(w) {
		scope := visible
		if cte.Recursive {
			scope = scope.Union(types.NewTableSet(cte.Name))
		}
		if v := prepare(cte.Query, scope, true); !v.OK() {
			return nil, v
		}
		visible = visible.Union(types.NewTableSet(cte.Name))
	}
	return visible, types.Consistent
}

// tableChecks lists the rules requiring every referenced table to be provided by s.
func tableChecks(s types.Statement) []func() types.Violation {
	switch s := s.(type) {
	case *types.Select:
		sc := newScope(types.Source(s))
		return []func() types.Violation{
			func() types.Violation { return sc.known(deref(s.Columns), types.NoUnknownTablesInSelectedColumns) },
			func() types.Violation { return sc.known(deref(s.Where), types.NoUnknownTablesInWhere) },
			func() types.Violation { return sc.known(deref(s.GroupBy), types.NoUnknownTablesInGroupBy) },
			func() types.Violation { return sc.known(deref(s.Having), types.NoUnknownTablesInHaving) },
			func() types.Violation { return sc.known(deref(s.OrderBy), types.NoUnknownTablesInOrderBy) },
			func() types.Violation { return sc.known(deref(s.Limit), types.NoUnknownTablesInLimit) },
			func() types.Violation { return sc.known(deref(s.Offset), types.NoUnknownTablesInOffset) },
		}
	case *types.Insert:
		if s.Into == nil {
			return nil
		}
		sc := newScope(s.Into.Table)
		conflict := newScope(s.Into.Table, types.ExcludedTable)
		return []func() types.Violation{
			func() types.Violation { return sc.known(deref(s.Values), types.NoUnknownTablesInInsertValues) },
			func() types.Violation { return conflict.known(deref(s.OnConflict), types.NoUnknownTablesInOnConflict) },
			func() types.Violation { return sc.known(deref(s.Returning), types.NoUnknownTablesInReturning) },
		}
	case *types.Update:
		if s.Table == nil {
			return nil
		}
		sc := newScope(s.Table.Table)
		return []func() types.Violation{
			func() types.Violation { return sc.known(deref(s.Set), types.NoUnknownTablesInUpdateSet) },
			func() types.Violation { return sc.known(deref(s.Where), types.NoUnknownTablesInWhere) },
			func() types.Violation { return sc.known(deref(s.Returning), types.NoUnknownTablesInReturning) },
		}
	case *types.Delete:
		if s.Table == nil {
			return nil
		}
		sc := newScope(types.Source(s))
		return []func() types.Violation{
			func() types.Violation { return sc.known(deref(s.Where), types.NoUnknownTablesInWhere) },
			func() types.Violation { return sc.known(deref(s.Returning), types.NoUnknownTablesInReturning) },
		}
	}
	return nil
}

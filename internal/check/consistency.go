package check

import "github.com/zoobzio/tsql/internal/types"

// Consistency returns the first consistency violation of s, or types.Consistent.
// Clauses are visited in the order: with, select columns, from, where, group by,
// having, order by, limit, offset, set operation, returning and on conflict.
func Consistency(s types.Statement) types.Violation {
	switch s := s.(type) {
	case *types.Select:
		return selectConsistency(s)
	case *types.Compound:
		return compoundConsistency(s)
	case *types.Insert:
		return insertConsistency(s)
	case *types.Update:
		return updateConsistency(s)
	case *types.Delete:
		return deleteConsistency(s)
	case *types.Truncate:
		if s.Table == nil {
			return types.SingleTableProvided
		}
	}
	return types.Consistent
}

func selectConsistency(s *types.Select) types.Violation {
	source := types.Source(s)
	sc := newScope(source)
	return types.FirstViolation(
		func() types.Violation { return withConsistency(s.With) },
		func() types.Violation { return selectColumns(s) },
		func() types.Violation {
			return sc.static(deref(s.Columns), types.NoUnknownStaticTablesInSelectedColumns)
		},
		func() types.Violation {
			if !joinsOnKnownTables(source) {
				return types.JoinOnKnownTables
			}
			return types.Consistent
		},
		func() types.Violation { return sc.static(deref(s.Where), types.NoUnknownStaticTablesInWhere) },
		func() types.Violation { return sc.static(deref(s.GroupBy), types.NoUnknownStaticTablesInGroupBy) },
		func() types.Violation { return having(s) },
		func() types.Violation { return sc.static(deref(s.Having), types.NoUnknownStaticTablesInHaving) },
		func() types.Violation { return orderBy(s) },
		func() types.Violation { return sc.static(deref(s.OrderBy), types.NoUnknownStaticTablesInOrderBy) },
		func() types.Violation { return sc.static(deref(s.Limit), types.NoUnknownStaticTablesInLimit) },
		func() types.Violation { return sc.static(deref(s.Offset), types.NoUnknownStaticTablesInOffset) },
		func() types.Violation {
			return nestedConsistency(append(nestedInSource(source), nestedIn(types.Parts(s)...)...))
		},
	)
}

func selectColumns(s *types.Select) types.Violation {
	if s.Columns == nil || len(s.Columns.Columns) == 0 {
		return types.ColumnsSelected
	}
	cols := s.Columns.Columns

	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		name, ok := types.NameOf(c)
		if !ok {
			return types.SelectColumnsHaveNames
		}
		if seen[name] {
			return types.SelectColumnsHaveUniqueNames
		}
		seen[name] = true
	}

	if s.GroupBy == nil {
		allAggregate, noneAggregate := true, true
		for _, c := range cols {
			allAggregate = allAggregate && types.IsAggregate(nil, c)
			noneAggregate = noneAggregate && types.IsNonAggregate(c)
		}
		if !allAggregate && !noneAggregate {
			return types.SelectColumnsAllAggregates
		}
		return types.Consistent
	}

	all, static := groupKeys(s.GroupBy)
	for _, c := range cols {
		if !types.IsAggregate(all, c) {
			return types.SelectColumnsWithGroupByAreAggregates
		}
	}
	for _, c := range cols {
		if !types.IsStaticAggregate(static, c) {
			return types.SelectColumnsWithGroupByMatchStaticAggregates
		}
	}
	return types.Consistent
}

// groupKeys splits the GROUP BY list into every key and the statically present keys.
func groupKeys(g *types.GroupBy) (all, static []types.Expr) {
	if g == nil {
		return nil, nil
	}
	for _, e := range g.Exprs {
		all = append(all, e)
		if !types.IsDynamic(e) {
			static = append(static, e)
		}
	}
	return all, static
}

func having(s *types.Select) types.Violation {
	if s.Having == nil {
		return types.Consistent
	}
	all, static := groupKeys(s.GroupBy)
	if !types.IsAggregate(all, s.Having.Cond) {
		return types.HavingAllAggregates
	}
	if !types.IsStaticAggregate(static, s.Having.Cond) {
		return types.HavingAllStaticAggregates
	}
	return types.Consistent
}

func orderBy(s *types.Select) types.Violation {
	if s.OrderBy == nil || s.GroupBy == nil {
		return types.Consistent
	}
	all, _ := groupKeys(s.GroupBy)
	for _, item := range s.OrderBy.Items {
		if !types.IsAggregate(all, item) {
			return types.OrderByAllAggregates
		}
	}
	return types.Consistent
}

// joinsOnKnownTables reports whether every ON condition only uses tables of its own join.
func joinsOnKnownTables(n types.Node) bool {
	switch n := n.(type) {
	case types.Dynamic:
		return joinsOnKnownTables(n.Node)
	case types.Join:
		if !joinsOnKnownTables(n.Left) || !joinsOnKnownTables(n.Right) {
			return false
		}
		if n.On != nil && !types.RequiredTables(n.On).SubsetOf(types.ProvidedTables(n)) {
			return false
		}
	}
	return true
}

func withConsistency(w *types.With) types.Violation {
	ctes := ctesOf(w)
	seen := make(map[string]bool, len(ctes))
	for _, cte := range ctes {
		if seen[cte.Name] {
			return types.WithCTEsHaveUniqueNames
		}
		seen[cte.Name] = true
	}
	for _, cte := range ctes {
		if v := Consistency(cte.Query); !v.OK() {
			return v
		}
	}
	return types.Consistent
}

func nestedConsistency(nested []nestedStatement) types.Violation {
	for _, n := range nested {
		if v := Consistency(n.stmt); !v.OK() {
			return v
		}
	}
	return types.Consistent
}

func compoundConsistency(s *types.Compound) types.Violation {
	return types.FirstViolation(
		func() types.Violation { return Consistency(s.Left) },
		func() types.Violation {
			if s.Right == nil {
				return types.Consistent
			}
			return Consistency(s.Right)
		},
		func() types.Violation {
			if s.Right == nil || !resultColumnsMatch(s.Left, s.Right) {
				return types.SetOpColumnsMatch
			}
			return types.Consistent
		},
	)
}

// resultColumnsMatch reports whether both statements return the same number of
// pairwise comparable columns.
func resultColumnsMatch(a, b types.Statement) bool {
	left, right := types.ResultColumns(a), types.ResultColumns(b)
	if len(left) != len(right) {
		return false
	}
	for i := range left {
		if !types.Comparable(left[i].Type, right[i].Type) {
			return false
		}
	}
	return true
}

func insertConsistency(s *types.Insert) types.Violation {
	if s.Into == nil {
		return withConsistency(s.With).And(types.IntoRequired)
	}
	sc := newScope(s.Into.Table)
	conflict := newScope(s.Into.Table, types.ExcludedTable)
	return types.FirstViolation(
		func() types.Violation { return withConsistency(s.With) },
		func() types.Violation { return insertValues(s.Into.Table, s.Values) },
		func() types.Violation { return sc.static(deref(s.Values), types.NoUnknownStaticTablesInInsertValues) },
		func() types.Violation {
			if oc := s.OnConflict; oc != nil && !oc.DoNothing && types.PresentNodes(oc.Assignments) == 0 {
				return types.UpdateAssignmentsRequired
			}
			return conflict.static(deref(s.OnConflict), types.NoUnknownStaticTablesInOnConflict)
		},
		func() types.Violation { return returning(s.Returning, sc) },
		func() types.Violation { return nestedConsistency(nestedIn(types.Parts(s)...)) },
	)
}

func insertValues(table types.Table, v *types.InsertValues) types.Violation {
	if v == nil {
		return types.InsertValuesRequired
	}
	if len(v.Columns) > 0 && len(v.Rows) == 0 && v.Query == nil {
		return types.InsertValuesRequired
	}

	set := make(map[string]bool)
	for _, n := range v.Assignments {
		if a, ok := n.(types.Assignment); ok {
			set[a.Column.Name] = true
		}
	}
	for _, c := range v.Columns {
		set[c.Name] = true
	}
	for _, c := range table.Columns {
		if c.Required() && !set[c.Name] {
			return types.InsertRequiredColumnsSet
		}
	}

	if len(v.Columns) > 0 {
		for _, row := range v.Rows {
			if len(row) != len(v.Columns) {
				return types.InsertRowsMatchColumns
			}
		}
		if v.Query != nil && len(types.ResultColumns(v.Query)) != len(v.Columns) {
			return types.InsertRowsMatchColumns
		}
	}
	return types.Consistent
}

func returning(r *types.Returning, sc scope) types.Violation {
	if r == nil {
		return types.Consistent
	}
	if len(r.Columns) == 0 {
		return types.ReturningColumnsRequired
	}
	for _, c := range r.Columns {
		if _, ok := types.NameOf(c); !ok {
			return types.ReturningColumnsHaveNames
		}
	}
	for _, c := range r.Columns {
		if types.ContainsAggregate(c) {
			return types.ReturningColumnsContainNoAggregates
		}
	}
	return sc.static(*r, types.NoUnknownStaticTablesInReturning)
}

func updateConsistency(s *types.Update) types.Violation {
	if s.Table == nil {
		return withConsistency(s.With).And(types.SingleTableProvided)
	}
	sc := newScope(s.Table.Table)
	return types.FirstViolation(
		func() types.Violation { return withConsistency(s.With) },
		func() types.Violation {
			if s.Set == nil || types.PresentNodes(s.Set.Assignments) == 0 {
				return types.UpdateAssignmentsRequired
			}
			return types.Consistent
		},
		func() types.Violation { return sc.static(deref(s.Set), types.NoUnknownStaticTablesInUpdateSet) },
		func() types.Violation { return sc.static(deref(s.Where), types.NoUnknownStaticTablesInWhere) },
		func() types.Violation { return returning(s.Returning, sc) },
		func() types.Violation { return nestedConsistency(nestedIn(types.Parts(s)...)) },
	)
}

func deleteConsistency(s *types.Delete) types.Violation {
	if s.Table == nil {
		return withConsistency(s.With).And(types.SingleTableProvided)
	}
	source := types.Source(s)
	sc := newScope(source)
	return types.FirstViolation(
		func() types.Violation { return withConsistency(s.With) },
		func() types.Violation { return sc.static(deref(s.Where), types.NoUnknownStaticTablesInWhere) },
		func() types.Violation { return returning(s.Returning, sc) },
		func() types.Violation {
			return nestedConsistency(append(nestedInSource(source), nestedIn(types.Parts(s)...)...))
		},
	)
}

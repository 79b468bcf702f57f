package types

// ParamDescriptor describes one placeholder of a rendered statement, in placeholder order.
type ParamDescriptor struct {
	Index int // 1-based placeholder position
	Name  string
	Type  DataType
}

// ResultColumn describes one column of a statement's result rows.
type ResultColumn struct {
	Name string
	Type DataType
}

// QueryResult contains the rendered SQL, its placeholders and its result columns.
type QueryResult struct {
	SQL     string
	Params  []ParamDescriptor
	Columns []ResultColumn
}

// RequiredParams returns the distinct parameter names in first-use order.
func (q *QueryResult) RequiredParams() []string {
	seen := make(map[string]bool, len(q.Params))
	var names []string
	for _, p := range q.Params {
		if !seen[p.Name] {
			seen[p.Name] = true
			names = append(names, p.Name)
		}
	}
	return names
}

// ResultColumns returns the columns a statement produces, in select-list order.
// Data-modifying statements produce their RETURNING columns. Columns of outer-joined
// tables are optional.
func ResultColumns(s Statement) []ResultColumn {
	var cols []Expr
	switch s := s.(type) {
	case *Select:
		if s.Columns != nil {
			cols = s.Columns.Columns
		}
	case *Compound:
		left := ResultColumns(s.Left)
		if s.Right == nil {
			return left
		}
		right := ResultColumns(s.Right)
		for i := range left {
			if i < len(right) && right[i].Type.Optional {
				left[i].Type = left[i].Type.AsOptional()
			}
		}
		return left
	case *Insert:
		if s.Returning != nil {
			cols = s.Returning.Columns
		}
	case *Update:
		if s.Returning != nil {
			cols = s.Returning.Columns
		}
	case *Delete:
		if s.Returning != nil {
			cols = s.Returning.Columns
		}
	}
	outer := OuterTables(Source(s))
	out := make([]ResultColumn, 0, len(cols))
	for _, c := range cols {
		name, _ := NameOf(c)
		out = append(out, ResultColumn{Name: name, Type: TypeIn(c, outer)})
	}
	return out
}

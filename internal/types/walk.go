package types

import "reflect"

// exprList groups expressions that are walked together but never rendered.
type exprList []Expr

func (exprList) node() {}

// Children returns the direct sub-nodes of n. Statements, sources and leaves have none.
func Children(n Node) []Node {
	var out []Node
	exprs := func(es ...Expr) {
		for _, e := range es {
			if e != nil {
				out = append(out, e)
			}
		}
	}
	switch n := n.(type) {
	case Comparison:
		exprs(n.L, n.R)
	case Logical:
		exprs(n.L, n.R)
	case Not:
		exprs(n.X)
	case Arithmetic:
		exprs(n.L, n.R)
	case Negate:
		exprs(n.X)
	case Bitwise:
		exprs(n.L, n.R)
	case BitNot:
		exprs(n.X)
	case InList:
		exprs(n.X)
		exprs(n.List...)
	case Between:
		exprs(n.X, n.Low, n.High)
	case Aggregate:
		exprs(n.Arg)
	case Function:
		exprs(n.Args...)
	case Case:
		for _, w := range n.Whens {
			exprs(w.Cond, w.Result)
		}
		exprs(n.Else)
	case Cast:
		exprs(n.X)
	case Alias:
		exprs(n.X)
	case Dynamic:
		if n.Node != nil {
			out = append(out, n.Node)
		}
	case Sort:
		exprs(n.X)
	case Assignment:
		out = append(out, n.Column)
		exprs(n.Value)
	case exprList:
		exprs(n...)
	case Subquery:
		out = append(out, n.Query)
	case Exists:
		out = append(out, n.Query)
	case CTE:
		if n.Query != nil {
			out = append(out, n.Query)
		}
	case SelectFlags:
		out = append(out, n.Flags...)
	case SelectColumns:
		exprs(n.Columns...)
	case Where:
		exprs(n.Cond)
	case GroupBy:
		exprs(n.Exprs...)
	case Having:
		exprs(n.Cond)
	case OrderBy:
		out = append(out, n.Items...)
	case Limit:
		exprs(n.Count)
	case Offset:
		exprs(n.Count)
	case InsertValues:
		out = append(out, n.Assignments...)
		for _, row := range n.Rows {
			exprs(row...)
		}
		if n.Query != nil {
			out = append(out, n.Query)
		}
	case UpdateSet:
		out = append(out, n.Assignments...)
	case Returning:
		exprs(n.Columns...)
	case With:
		out = append(out, n.CTEs...)
	case OnConflict:
		out = append(out, n.Assignments...)
		exprs(n.Where)
	}
	return out
}

// RequiredTables returns every table n references, including dynamic parts.
func RequiredTables(n Node) TableSet {
	out := NewTableSet()
	requiredTables(n, false, out)
	return out
}

// RequiredStaticTables returns the tables n references outside dynamic parts.
func RequiredStaticTables(n Node) TableSet {
	out := NewTableSet()
	requiredTables(n, true, out)
	return out
}

func requiredTables(n Node, static bool, out TableSet) {
	switch n := n.(type) {
	case nil:
		return
	case Column:
		if n.Table != "" {
			out[n.Table] = struct{}{}
		}
		return
	case Assignment:
		// The assigned column belongs to the statement's own table.
		requiredTables(n.Value, static, out)
		return
	case Dynamic:
		if static {
			return
		}
	case Statement:
		for t := range statementTables(n, static) {
			out[t] = struct{}{}
		}
		return
	}
	for _, c := range Children(n) {
		requiredTables(c, static, out)
	}
}

// statementTables is what a nested statement needs from its enclosing scope.
func statementTables(s Statement, static bool) TableSet {
	req := NewTableSet()
	for _, p := range Parts(s) {
		requiredTables(p, static, req)
	}
	provided := ProvidedTables(Source(s))
	if ins, ok := s.(*Insert); ok && ins.OnConflict != nil {
		provided = provided.Union(NewTableSet(ExcludedTable))
	}
	return req.Minus(provided)
}

// ProvidedTables returns the table identities a source makes available.
func ProvidedTables(n Node) TableSet {
	out := NewTableSet()
	providedTables(n, false, out)
	return out
}

// ProvidedStaticTables returns the identities a source makes available unconditionally.
func ProvidedStaticTables(n Node) TableSet {
	out := NewTableSet()
	providedTables(n, true, out)
	return out
}

func providedTables(n Node, static bool, out TableSet) {
	switch n := n.(type) {
	case Table:
		out[n.Ident()] = struct{}{}
	case DerivedTable:
		out[n.Name] = struct{}{}
	case CTE:
		out[n.Name] = struct{}{}
	case Dynamic:
		if !static {
			providedTables(n.Node, static, out)
		}
	case Join:
		providedTables(n.Left, static, out)
		providedTables(n.Right, static, out)
	}
}

// SourceIdents lists the identities in a source in FROM order, duplicates included.
func SourceIdents(n Node) []string {
	switch n := n.(type) {
	case Table:
		return []string{n.Ident()}
	case DerivedTable:
		return []string{n.Name}
	case CTE:
		return []string{n.Name}
	case Dynamic:
		return SourceIdents(n.Node)
	case Join:
		return append(SourceIdents(n.Left), SourceIdents(n.Right)...)
	}
	return nil
}

// CTERefs returns the CTEs referenced directly in a source.
func CTERefs(n Node) []CTE {
	switch n := n.(type) {
	case CTE:
		return []CTE{n}
	case Dynamic:
		return CTERefs(n.Node)
	case Join:
		return append(CTERefs(n.Left), CTERefs(n.Right)...)
	}
	return nil
}

// ContainsAggregate reports whether n applies an aggregate function outside nested statements.
func ContainsAggregate(n Node) bool {
	switch n := n.(type) {
	case nil:
		return false
	case Aggregate:
		return true
	case Statement, Subquery, Exists:
		return false
	case Dynamic:
		return ContainsAggregate(n.Node)
	}
	for _, c := range Children(n) {
		if ContainsAggregate(c) {
			return true
		}
	}
	return false
}

// IsAggregate reports whether n is built only out of aggregate functions,
// aggregate-neutral values and the known aggregate expressions (the GROUP BY list).
// A windowed aggregate is judged by its argument.
func IsAggregate(known []Expr, n Node) bool {
	return isAggregate(known, n, false)
}

// IsStaticAggregate is IsAggregate with dynamic parts of n ignored.
func IsStaticAggregate(known []Expr, n Node) bool {
	return isAggregate(known, n, true)
}

func isAggregate(known []Expr, n Node, skipDynamic bool) bool {
	if e, ok := n.(Expr); ok && matchesAny(known, e) {
		return true
	}
	switch n := n.(type) {
	case Aggregate:
		if n.Window {
			break
		}
		return true
	case Column:
		return false
	case Value, Param, Verbatim, DefaultValue, Subquery, Exists:
		return true
	case Dynamic:
		if skipDynamic {
			return true
		}
	}
	for _, c := range Children(n) {
		if !isAggregate(known, c, skipDynamic) {
			return false
		}
	}
	return true
}

// IsNonAggregate reports whether n contains no aggregate function. Windowed
// aggregates are evaluated per row and count as non-aggregate.
func IsNonAggregate(n Node) bool {
	switch n := n.(type) {
	case Aggregate:
		return n.Window
	case Column, Value, Param, Verbatim, DefaultValue, Subquery, Exists:
		return true
	case Dynamic:
		return IsNonAggregate(n.Node)
	}
	for _, c := range Children(n) {
		if !IsNonAggregate(c) {
			return false
		}
	}
	return true
}

func matchesAny(known []Expr, e Expr) bool {
	for _, k := range known {
		if Equal(k, e) {
			return true
		}
	}
	return false
}

// Equal reports whether two expressions are structurally identical,
// ignoring Dynamic wrappers and aliases.
func Equal(a, b Expr) bool {
	return reflect.DeepEqual(strip(a), strip(b))
}

func strip(e Expr) Expr {
	for {
		switch x := e.(type) {
		case Dynamic:
			inner, ok := x.Node.(Expr)
			if !ok {
				return e
			}
			e = inner
		case Alias:
			e = x.X
		default:
			return e
		}
	}
}

// IsDynamic reports whether n is wrapped in Dynamic.
func IsDynamic(n Node) bool {
	_, ok := n.(Dynamic)
	return ok
}

// NameOf returns the output name of a select or returning item.
func NameOf(n Node) (string, bool) {
	switch n := n.(type) {
	case Column:
		return n.Name, true
	case Alias:
		return n.Name, true
	case Dynamic:
		return NameOf(n.Node)
	}
	return "", false
}

// NeedsParens reports whether n is wrapped in parentheses when nested inside an operator.
func NeedsParens(n Node) bool {
	switch n := n.(type) {
	case Comparison, Logical, Not, Arithmetic, Bitwise, InList, Between:
		return true
	case Dynamic:
		return NeedsParens(n.Node)
	}
	return false
}

// PresentNodes counts the nodes that are not absent dynamic elements.
func PresentNodes(nodes []Node) int {
	n := 0
	for _, x := range nodes {
		if d, ok := x.(Dynamic); ok && !d.Present {
			continue
		}
		n++
	}
	return n
}

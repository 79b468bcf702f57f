package types

// ExcludedTable is the pseudo table holding the rejected row inside ON CONFLICT DO UPDATE.
const ExcludedTable = "excluded"

// Join combines two sources. Right may be Dynamic; On is nil for CROSS JOIN.
type Join struct {
	Kind  JoinKind
	Left  Node
	Right Node
	On    Expr
}

func (Join) node() {}

// DerivedTable is a subquery in FROM under a name.
type DerivedTable struct {
	Query Statement
	Name  string
}

func (DerivedTable) node() {}

// Columns exposes the subquery's result columns as columns of the derived table.
func (d DerivedTable) Columns() []Column {
	return columnsOf(d.Name, d.Query)
}

// CTE is a common table expression. It renders as a definition inside WITH
// and as a table reference inside FROM.
type CTE struct {
	Name      string
	Query     Statement
	Recursive bool
}

func (CTE) node() {}

// Columns exposes the CTE's result columns.
func (c CTE) Columns() []Column {
	return columnsOf(c.Name, c.Query)
}

func columnsOf(table string, query Statement) []Column {
	if query == nil {
		return nil
	}
	rcs := ResultColumns(query)
	cols := make([]Column, 0, len(rcs))
	for _, rc := range rcs {
		cols = append(cols, Column{Table: table, Name: rc.Name, Type: rc.Type})
	}
	return cols
}

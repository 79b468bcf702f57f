package types

// Clause is one keyword-delimited part of a statement.
// A nil clause pointer in a statement is the "no clause yet" state.
type Clause interface {
	Node
	clause()
}

// SelectFlags holds DISTINCT/ALL flags, each a Flag or a Dynamic flag.
type SelectFlags struct {
	Flags []Node
}

// SelectColumns holds the select list. Items are named expressions or Dynamic ones.
type SelectColumns struct {
	Columns []Expr
}

// From holds a table, a join tree, a derived table, a CTE reference or a Dynamic one.
type From struct {
	Table Node
}

// Where holds a boolean condition, possibly Dynamic.
type Where struct {
	Cond Expr
}

// GroupBy holds grouping expressions, each possibly Dynamic.
type GroupBy struct {
	Exprs []Expr
}

// Having holds an aggregate boolean condition, possibly Dynamic.
type Having struct {
	Cond Expr
}

// OrderBy holds Sort items, each possibly Dynamic.
type OrderBy struct {
	Items []Node
}

// Limit holds the row count.
type Limit struct {
	Count Expr
}

// Offset holds the number of skipped rows.
type Offset struct {
	Count Expr
}

// ForUpdate is the row locking clause.
type ForUpdate struct{}

// Into names the INSERT target.
type Into struct {
	Table Table
}

// InsertValues holds exactly one form of INSERT payload.
type InsertValues struct {
	DefaultValues bool
	Assignments   []Node // Assignment or Dynamic assignment
	Columns       []Column
	Rows          [][]Expr
	Query         Statement
}

// SingleTable names the table of an UPDATE, DELETE or TRUNCATE.
type SingleTable struct {
	Table Table
}

// UpdateSet holds UPDATE assignments, each possibly Dynamic.
type UpdateSet struct {
	Assignments []Node
}

// Using holds the extra tables of a DELETE.
type Using struct {
	Table Node
}

// Returning holds named result expressions of a data-modifying statement.
type Returning struct {
	Columns []Expr
}

// With holds common table expressions, each a CTE or a Dynamic CTE.
type With struct {
	CTEs []Node
}

// Recursive reports whether any CTE in the clause is recursive.
func (w With) Recursive() bool {
	for _, n := range w.CTEs {
		if d, ok := n.(Dynamic); ok {
			n = d.Node
		}
		if cte, ok := n.(CTE); ok && cte.Recursive {
			return true
		}
	}
	return false
}

// OnConflict is the upsert clause of an INSERT.
type OnConflict struct {
	Targets     []Column
	DoNothing   bool
	Assignments []Node
	Where       Expr
}

func (SelectFlags) node()   {}
func (SelectColumns) node() {}
func (From) node()          {}
func (Where) node()         {}
func (GroupBy) node()       {}
func (Having) node()        {}
func (OrderBy) node()       {}
func (Limit) node()         {}
func (Offset) node()        {}
func (ForUpdate) node()     {}
func (Into) node()          {}
func (InsertValues) node()  {}
func (SingleTable) node()   {}
func (UpdateSet) node()     {}
func (Using) node()         {}
func (Returning) node()     {}
func (With) node()          {}
func (OnConflict) node()    {}

func (SelectFlags) clause()   {}
func (SelectColumns) clause() {}
func (From) clause()          {}
func (Where) clause()         {}
func (GroupBy) clause()       {}
func (Having) clause()        {}
func (OrderBy) clause()       {}
func (Limit) clause()         {}
func (Offset) clause()        {}
func (ForUpdate) clause()     {}
func (Into) clause()          {}
func (InsertValues) clause()  {}
func (SingleTable) clause()   {}
func (UpdateSet) clause()     {}
func (Using) clause()         {}
func (Returning) clause()     {}
func (With) clause()          {}
func (OnConflict) clause()    {}

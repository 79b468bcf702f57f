package types

// Operation represents the kind of statement.
type Operation string

const (
	OpSelect   Operation = "SELECT"
	OpCompound Operation = "COMPOUND"
	OpInsert   Operation = "INSERT"
	OpUpdate   Operation = "UPDATE"
	OpDelete   Operation = "DELETE"
	OpTruncate Operation = "TRUNCATE"
)

// Statement is a complete SQL statement tree.
type Statement interface {
	Node
	Operation() Operation
}

// Select is a SELECT statement. Slots are listed in serialization order.
type Select struct {
	With      *With
	Flags     *SelectFlags
	Columns   *SelectColumns
	From      *From
	Where     *Where
	GroupBy   *GroupBy
	Having    *Having
	OrderBy   *OrderBy
	Limit     *Limit
	Offset    *Offset
	ForUpdate *ForUpdate
}

// Compound combines two selects with UNION [ALL]. Left may itself be a Compound.
type Compound struct {
	Left    Statement
	Right   *Select
	All     bool
	OrderBy *OrderBy
	Limit   *Limit
	Offset  *Offset
}

// Insert is an INSERT statement.
type Insert struct {
	With       *With
	Into       *Into
	Values     *InsertValues
	OnConflict *OnConflict
	Returning  *Returning
}

// Update is an UPDATE statement.
type Update struct {
	With      *With
	Table     *SingleTable
	Set       *UpdateSet
	Where     *Where
	Returning *Returning
}

// Delete is a DELETE statement.
type Delete struct {
	With      *With
	Table     *SingleTable
	Using     *Using
	Where     *Where
	Returning *Returning
}

// Truncate empties a table.
type Truncate struct {
	Table *SingleTable
}

func (*Select) node()   {}
func (*Compound) node() {}
func (*Insert) node()   {}
func (*Update) node()   {}
func (*Delete) node()   {}
func (*Truncate) node() {}

func (*Select) Operation() Operation   { return OpSelect }
func (*Compound) Operation() Operation { return OpCompound }
func (*Insert) Operation() Operation   { return OpInsert }
func (*Update) Operation() Operation   { return OpUpdate }
func (*Delete) Operation() Operation   { return OpDelete }
func (*Truncate) Operation() Operation { return OpTruncate }

// Source returns the node providing tables to the statement's own clauses.
func Source(s Statement) Node {
	switch s := s.(type) {
	case *Select:
		if s.From != nil {
			return s.From.Table
		}
	case *Insert:
		if s.Into != nil {
			return s.Into.Table
		}
	case *Update:
		if s.Table != nil {
			return s.Table.Table
		}
	case *Delete:
		if s.Table == nil {
			return nil
		}
		if s.Using != nil {
			return Join{Kind: CrossJoin, Left: s.Table.Table, Right: s.Using.Table}
		}
		return s.Table.Table
	case *Truncate:
		if s.Table != nil {
			return s.Table.Table
		}
	}
	return nil
}

// Parts returns the nodes of a statement that may require tables, in clause order.
// Sources are excluded; nested statements appear as themselves.
func Parts(s Statement) []Node {
	var parts []Node
	add := func(n Node) {
		if n != nil {
			parts = append(parts, n)
		}
	}
	switch s := s.(type) {
	case *Select:
		if s.With != nil {
			add(*s.With)
		}
		if s.Columns != nil {
			add(*s.Columns)
		}
		if s.From != nil {
			add(joinConditions(s.From.Table))
		}
		if s.Where != nil {
			add(*s.Where)
		}
		if s.GroupBy != nil {
			add(*s.GroupBy)
		}
		if s.Having != nil {
			add(*s.Having)
		}
		if s.OrderBy != nil {
			add(*s.OrderBy)
		}
		if s.Limit != nil {
			add(*s.Limit)
		}
		if s.Offset != nil {
			add(*s.Offset)
		}
	case *Compound:
		add(s.Left)
		if s.Right != nil {
			add(s.Right)
		}
	case *Insert:
		if s.With != nil {
			add(*s.With)
		}
		if s.Values != nil {
			add(*s.Values)
		}
		if s.OnConflict != nil {
			add(*s.OnConflict)
		}
		if s.Returning != nil {
			add(*s.Returning)
		}
	case *Update:
		if s.With != nil {
			add(*s.With)
		}
		if s.Set != nil {
			add(*s.Set)
		}
		if s.Where != nil {
			add(*s.Where)
		}
		if s.Returning != nil {
			add(*s.Returning)
		}
	case *Delete:
		if s.With != nil {
			add(*s.With)
		}
		if s.Where != nil {
			add(*s.Where)
		}
		if s.Returning != nil {
			add(*s.Returning)
		}
	}
	return parts
}

// joinConditions collects the ON conditions of a join tree as one node, or nil.
func joinConditions(n Node) Node {
	var conds []Expr
	var walk func(Node)
	walk = func(n Node) {
		switch n := n.(type) {
		case Join:
			walk(n.Left)
			walk(n.Right)
			if n.On == nil {
				return
			}
			if d, ok := n.Right.(Dynamic); ok {
				conds = append(conds, Dynamic{Present: d.Present, Node: n.On})
				return
			}
			conds = append(conds, n.On)
		case Dynamic:
			walk(n.Node)
		}
	}
	walk(n)
	if len(conds) == 0 {
		return nil
	}
	return exprList(conds)
}

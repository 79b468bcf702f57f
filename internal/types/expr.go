package types

// Node is any element of a statement tree: expressions, tables, clauses and statements.
type Node interface {
	node()
}

// Expr is a node that produces a value.
type Expr interface {
	Node
	DataType() DataType
}

// Dynamic marks a node as conditionally present. The flag is fixed at construction.
type Dynamic struct {
	Present bool
	Node    Node
}

func (Dynamic) node() {}

// DataType is the optional version of the wrapped expression's type.
func (d Dynamic) DataType() DataType {
	if e, ok := d.Node.(Expr); ok {
		return e.DataType().AsOptional()
	}
	return NoValue
}

// Arithmetic is a binary numeric or text operation.
type Arithmetic struct {
	Op   Operator
	L, R Expr
}

func (Arithmetic) node() {}

func (a Arithmetic) DataType() DataType {
	if a.Op == Concat {
		return ForceOptional(DataType{Kind: KindText}, a.L.DataType(), a.R.DataType())
	}
	return ArithmeticResult(a.L.DataType(), a.R.DataType())
}

// Negate is unary minus.
type Negate struct {
	X Expr
}

func (Negate) node() {}

func (n Negate) DataType() DataType {
	t := n.X.DataType()
	if t.Kind == KindUnsignedIntegral || t.Kind == KindBoolean {
		t.Kind = KindIntegral
	}
	return t
}

// Bitwise is a binary bit operation on integrals.
type Bitwise struct {
	Op   Operator
	L, R Expr
}

func (Bitwise) node() {}

func (b Bitwise) DataType() DataType {
	return ArithmeticResult(b.L.DataType(), b.R.DataType())
}

// BitNot is unary bitwise complement.
type BitNot struct {
	X Expr
}

func (BitNot) node() {}

func (b BitNot) DataType() DataType { return b.X.DataType() }

// Alias names an expression (expr AS name).
type Alias struct {
	X    Expr
	Name string
}

func (Alias) node() {}

func (a Alias) DataType() DataType { return a.X.DataType() }

// Cast converts an expression to another kind.
type Cast struct {
	X  Expr
	To Kind
}

func (Cast) node() {}

func (c Cast) DataType() DataType {
	return DataType{Kind: c.To, Optional: c.X.DataType().Optional}
}

// Subquery is a single-column SELECT used as a value.
type Subquery struct {
	Query Statement
}

func (Subquery) node() {}

func (s Subquery) DataType() DataType {
	cols := ResultColumns(s.Query)
	if len(cols) != 1 {
		return NoValue
	}
	return cols[0].Type.AsOptional()
}

// Exists tests whether a subquery returns rows.
type Exists struct {
	Query Statement
}

func (Exists) node() {}

func (Exists) DataType() DataType { return DataType{Kind: KindBoolean} }

// Sort is an ORDER BY item.
type Sort struct {
	X     Expr
	Desc  bool
	Nulls NullsOrder
}

func (Sort) node() {}

// NullsFirst returns the sort item with NULLs placed first.
func (s Sort) NullsFirst() Sort {
	s.Nulls = NullsFirst
	return s
}

// NullsLast returns the sort item with NULLs placed last.
func (s Sort) NullsLast() Sort {
	s.Nulls = NullsLast
	return s
}

// Assignment sets a column to a value in INSERT ... SET, UPDATE ... SET and ON CONFLICT.
type Assignment struct {
	Column Column
	Value  Expr
}

func (Assignment) node() {}

// DefaultValue is the DEFAULT keyword on the right side of an assignment.
type DefaultValue struct{}

func (DefaultValue) node() {}

func (DefaultValue) DataType() DataType { return Null }

// Flag is a SELECT flag keyword such as DISTINCT.
type Flag struct {
	Keyword string
}

func (Flag) node() {}

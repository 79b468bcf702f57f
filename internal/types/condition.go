package types

// Comparison is a binary comparison or a null test. R is nil for IS [NOT] NULL.
type Comparison struct {
	Op   Operator
	L, R Expr
}

func (Comparison) node() {}

func (c Comparison) DataType() DataType {
	if c.Op.IsNullTest() {
		return DataType{Kind: KindBoolean}
	}
	return ForceOptional(DataType{Kind: KindBoolean}, c.L.DataType(), c.R.DataType())
}

// Logical combines two boolean expressions with AND or OR.
// R may be a Dynamic; when absent only L is rendered.
type Logical struct {
	Op Operator
	L  Expr
	R  Expr
}

func (Logical) node() {}

func (l Logical) DataType() DataType {
	return ForceOptional(DataType{Kind: KindBoolean}, l.L.DataType(), l.R.DataType())
}

// Not negates a boolean expression.
type Not struct {
	X Expr
}

func (Not) node() {}

func (n Not) DataType() DataType {
	return ForceOptional(DataType{Kind: KindBoolean}, n.X.DataType())
}

// InList tests membership in a value list or a single subquery.
type InList struct {
	X    Expr
	List []Expr
	Not  bool
}

func (InList) node() {}

func (in InList) DataType() DataType {
	operands := []DataType{in.X.DataType()}
	for _, e := range in.List {
		operands = append(operands, e.DataType())
	}
	return ForceOptional(DataType{Kind: KindBoolean}, operands...)
}

// Between tests X BETWEEN Low AND High.
type Between struct {
	X, Low, High Expr
	Not          bool
}

func (Between) node() {}

func (b Between) DataType() DataType {
	return ForceOptional(DataType{Kind: KindBoolean}, b.X.DataType(), b.Low.DataType(), b.High.DataType())
}

package types

// Operator represents a SQL operator. The value is the generic SQL spelling.
type Operator string

const (
	// Comparison operators.
	EQ   Operator = "="
	NE   Operator = "<>"
	GT   Operator = ">"
	GE   Operator = ">="
	LT   Operator = "<"
	LE   Operator = "<="
	LIKE Operator = "LIKE"

	// Null tests. These always yield a non-optional boolean.
	IsNull            Operator = "IS NULL"
	IsNotNull         Operator = "IS NOT NULL"
	IsDistinctFrom    Operator = "IS DISTINCT FROM"
	IsNotDistinctFrom Operator = "IS NOT DISTINCT FROM"

	// Logical operators.
	AND Operator = "AND"
	OR  Operator = "OR"

	// Arithmetic operators.
	Plus     Operator = "+"
	Minus    Operator = "-"
	Multiply Operator = "*"
	Divide   Operator = "/"
	Modulus  Operator = "%"
	Concat   Operator = "||"

	// Bitwise operators.
	BitAnd     Operator = "&"
	BitOr      Operator = "|"
	BitXor     Operator = "^"
	ShiftLeft  Operator = "<<"
	ShiftRight Operator = ">>"
)

// IsNullTest reports whether op belongs to the null-test family.
func (op Operator) IsNullTest() bool {
	switch op {
	case IsNull, IsNotNull, IsDistinctFrom, IsNotDistinctFrom:
		return true
	}
	return false
}

// Unary reports whether op takes a single operand.
func (op Operator) Unary() bool {
	return op == IsNull || op == IsNotNull
}

// JoinKind is the kind of a join.
type JoinKind string

const (
	InnerJoin JoinKind = "INNER JOIN"
	LeftJoin  JoinKind = "LEFT OUTER JOIN"
	RightJoin JoinKind = "RIGHT OUTER JOIN"
	FullJoin  JoinKind = "FULL OUTER JOIN"
	CrossJoin JoinKind = "CROSS JOIN"
)

// AggregateFunc is the name of an aggregate function.
type AggregateFunc string

const (
	AggCount AggregateFunc = "COUNT"
	AggSum   AggregateFunc = "SUM"
	AggAvg   AggregateFunc = "AVG"
	AggMax   AggregateFunc = "MAX"
	AggMin   AggregateFunc = "MIN"
)

// NullsOrder places NULLs in a sort.
type NullsOrder int

const (
	NullsDefault NullsOrder = iota
	NullsFirst
	NullsLast
)

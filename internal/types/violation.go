package types

// Violation is the outcome of a statement check: Consistent, or the first broken rule.
type Violation int

const (
	Consistent Violation = iota

	// Select columns.
	ColumnsSelected
	SelectColumnsHaveNames
	SelectColumnsHaveUniqueNames
	SelectColumnsAllAggregates
	SelectColumnsWithGroupByAreAggregates
	SelectColumnsWithGroupByMatchStaticAggregates
	NoUnknownTablesInSelectedColumns
	NoUnknownStaticTablesInSelectedColumns

	// From, into and single table.
	JoinOnKnownTables
	NoUnknownCTEs
	IntoRequired
	SingleTableProvided

	// Insert values and update assignments.
	InsertValuesRequired
	InsertRequiredColumnsSet
	InsertRowsMatchColumns
	NoUnknownTablesInInsertValues
	NoUnknownStaticTablesInInsertValues
	UpdateAssignmentsRequired
	NoUnknownTablesInUpdateSet
	NoUnknownStaticTablesInUpdateSet

	// Where.
	NoUnknownTablesInWhere
	NoUnknownStaticTablesInWhere

	// Group by and having.
	NoUnknownTablesInGroupBy
	NoUnknownStaticTablesInGroupBy
	HavingAllAggregates
	HavingAllStaticAggregates
	NoUnknownTablesInHaving
	NoUnknownStaticTablesInHaving

	// Order by, limit and offset.
	OrderByAllAggregates
	NoUnknownTablesInOrderBy
	NoUnknownStaticTablesInOrderBy
	NoUnknownTablesInLimit
	NoUnknownStaticTablesInLimit
	NoUnknownTablesInOffset
	NoUnknownStaticTablesInOffset

	// Set operations.
	SetOpColumnsMatch

	// Returning and on conflict.
	ReturningColumnsRequired
	ReturningColumnsHaveNames
	ReturningColumnsContainNoAggregates
	NoUnknownTablesInReturning
	NoUnknownStaticTablesInReturning
	NoUnknownTablesInOnConflict
	NoUnknownStaticTablesInOnConflict

	// With.
	WithCTEsHaveUniqueNames
)

var violationMessages = map[Violation]string{
	Consistent: "consistent",

	ColumnsSelected:                               "at least one selected column required",
	SelectColumnsHaveNames:                        "select columns have to have a name",
	SelectColumnsHaveUniqueNames:                  "at least one duplicate name detected in select columns",
	SelectColumnsAllAggregates:                    "either all select columns must be aggregates or none",
	SelectColumnsWithGroupByAreAggregates:         "select columns must be aggregate expressions or appear in group_by",
	SelectColumnsWithGroupByMatchStaticAggregates: "at least one static select column is provided dynamically only in group_by",
	NoUnknownTablesInSelectedColumns:              "at least one selected column requires a table which is otherwise not known in the statement",
	NoUnknownStaticTablesInSelectedColumns:        "at least one selected column statically requires a table which is only known dynamically in the statement",

	JoinOnKnownTables:   "on() condition requires a table which is not part of the join",
	NoUnknownCTEs:       "at least one cte in from() is not defined in with()",
	IntoRequired:        "into() required",
	SingleTableProvided: "this statement requires a table",

	InsertValuesRequired:                "insert values required",
	InsertRequiredColumnsSet:            "at least one required column is missing in set()",
	InsertRowsMatchColumns:              "each value row must match the column list",
	NoUnknownTablesInInsertValues:       "at least one insert value requires a table which is otherwise not known in the statement",
	NoUnknownStaticTablesInInsertValues: "at least one insert value statically requires a table which is only known dynamically in the statement",
	UpdateAssignmentsRequired:           "at least one assignment expression required in set()",
	NoUnknownTablesInUpdateSet:          "at least one assignment in set() requires a table which is otherwise not known in the statement",
	NoUnknownStaticTablesInUpdateSet:    "at least one assignment in set() statically requires a table which is only known dynamically in the statement",

	NoUnknownTablesInWhere:       "at least one expression in where() requires a table which is otherwise not known in the statement",
	NoUnknownStaticTablesInWhere: "at least one expression in where() statically requires a table which is only known dynamically in the statement",

	NoUnknownTablesInGroupBy:       "at least one group_by expression requires a table which is otherwise not known in the statement",
	NoUnknownStaticTablesInGroupBy: "at least one group_by expression statically requires a table which is only known dynamically in the statement",
	HavingAllAggregates:            "having expression not built out of aggregate expressions",
	HavingAllStaticAggregates:      "at least one static having expression is provided dynamically only in group_by",
	NoUnknownTablesInHaving:        "at least one having-expression requires a table which is otherwise not known in the statement",
	NoUnknownStaticTablesInHaving:  "at least one having-expression statically requires a table which is only known dynamically in the statement",

	OrderByAllAggregates:           "order_by expressions must be aggregate expressions when the statement has a group_by",
	NoUnknownTablesInOrderBy:       "at least one order_by expression requires a table which is otherwise not known in the statement",
	NoUnknownStaticTablesInOrderBy: "at least one order_by expression statically requires a table which is only known dynamically in the statement",
	NoUnknownTablesInLimit:         "at least one expression in limit() requires a table which is otherwise not known in the statement",
	NoUnknownStaticTablesInLimit:   "at least one expression in limit() statically requires a table which is only known dynamically in the statement",
	NoUnknownTablesInOffset:        "at least one expression in offset() requires a table which is otherwise not known in the statement",
	NoUnknownStaticTablesInOffset:  "at least one expression in offset() statically requires a table which is only known dynamically in the statement",

	SetOpColumnsMatch: "both arguments in a union have to have the same result columns",

	ReturningColumnsRequired:            "at least one return column required",
	ReturningColumnsHaveNames:           "each return column must have a name",
	ReturningColumnsContainNoAggregates: "returning columns must not contain aggregate functions",
	NoUnknownTablesInReturning:          "at least one returning column requires a table which is otherwise not known in the statement",
	NoUnknownStaticTablesInReturning:    "at least one returning column statically requires a table which is only known dynamically in the statement",
	NoUnknownTablesInOnConflict:         "at least one expression in on_conflict() requires a table which is otherwise not known in the statement",
	NoUnknownStaticTablesInOnConflict:   "at least one expression in on_conflict() statically requires a table which is only known dynamically in the statement",

	WithCTEsHaveUniqueNames: "at least one duplicate cte name detected in with()",
}

func (v Violation) String() string {
	if msg, ok := violationMessages[v]; ok {
		return msg
	}
	return "unknown violation"
}

// OK reports whether v is Consistent.
func (v Violation) OK() bool { return v == Consistent }

// And combines two check results. The left operand wins if it is a violation.
func (v Violation) And(other Violation) Violation {
	if v != Consistent {
		return v
	}
	return other
}

// Err converts v into an error for the given phase, or nil if v is Consistent.
func (v Violation) Err(phase Phase) error {
	if v == Consistent {
		return nil
	}
	return &ConsistencyError{Violation: v, Phase: phase}
}

// FirstViolation evaluates checks in order and stops at the first violation.
func FirstViolation(checks ...func() Violation) Violation {
	for _, check := range checks {
		if v := check(); v != Consistent {
			return v
		}
	}
	return Consistent
}

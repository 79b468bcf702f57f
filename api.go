// Package tsql provides a type-checked SQL statement builder with multi-dialect support.
//
// Statements are composed from typed expression nodes. Every factory and builder
// call validates its input right away; a builder keeps the first error it meets and
// reports it from Build or Render. Rendering runs the consistency check, then the
// prepare check, then serializes the tree for the renderer's dialect.
//
// # Basic Usage
//
//	foo := tsql.NewTable("foo",
//		tsql.Col("id", tsql.Integral),
//		tsql.Col("name", tsql.Text.AsOptional()),
//	)
//
//	query := tsql.Select(foo.C("id"), foo.C("name")).
//		From(foo).
//		Where(tsql.Gt(foo.C("id"), tsql.P("min_id", tsql.Integral))).
//		OrderBy(tsql.Desc(foo.C("id"))).
//		Limit(10)
//
//	result, err := query.Render(postgres.New())
//	// result.SQL: SELECT "foo"."id", "foo"."name" FROM "foo" WHERE "foo"."id" > $1 ORDER BY "foo"."id" DESC LIMIT 10
//	// result.Params: [{1 min_id integral}]
//
// # Dynamic Parts
//
// Dynamic(cond, x) marks a select item, condition, join, table, assignment,
// group-by or order-by item as present only when cond holds. Absent parts are
// dropped from the SQL text; an absent select item renders as NULL AS name so
// result columns keep their positions.
//
// # Dialects
//
// The package-level renderer (NewRenderer) writes generic SQL. Dialect packages
// provide postgres, sqlite, mariadb and mssql renderers. Unsupported features
// fail with an UnsupportedFeatureError naming the dialect.
//
// # Schema
//
// Tables can be declared in Go with NewTable, loaded from a DBML project with
// NewFromDBML or from YAML with NewFromYAML.
package tsql

import (
	"github.com/zoobzio/tsql/internal/render"
	"github.com/zoobzio/tsql/internal/types"
)

// Table describes a table: name, optional alias and column metadata.
type Table = types.Table

// Column is a handle to a column of a Table.
type Column = types.Column

// DataType is a value kind plus optionality.
type DataType = types.DataType

// Kind is the semantic SQL category of a value.
type Kind = types.Kind

// Node is any element of a statement tree.
type Node = types.Node

// Expr is a node that produces a value.
type Expr = types.Expr

// AST is a complete statement tree.
type AST = types.Statement

// QueryResult contains the rendered SQL, its parameters and its result columns.
type QueryResult = types.QueryResult

// ParamDescriptor describes one placeholder of a rendered statement.
type ParamDescriptor = types.ParamDescriptor

// ResultColumn describes one column of the rows a statement returns.
type ResultColumn = types.ResultColumn

// Violation is the outcome of a consistency or prepare check.
type Violation = types.Violation

// ConstructionError reports a factory or builder call that was rejected.
type ConstructionError = types.ConstructionError

// ConsistencyError reports a violation found while building or rendering.
type ConsistencyError = types.ConsistencyError

// UnsupportedFeatureError reports a construct the target dialect cannot express.
type UnsupportedFeatureError = render.UnsupportedFeatureError

// Feature names a construct that a dialect may not support.
type Feature = render.Feature

// ErrInconsistent matches every ConsistencyError via errors.Is.
var ErrInconsistent = types.ErrInconsistent

// ErrUnsupported matches every UnsupportedFeatureError via errors.Is.
var ErrUnsupported = render.ErrUnsupported

// Data types for column declarations and parameters. Use AsOptional for nullable ones.
var (
	Boolean   = types.DataType{Kind: types.KindBoolean}
	Integral  = types.DataType{Kind: types.KindIntegral}
	Unsigned  = types.DataType{Kind: types.KindUnsignedIntegral}
	Float     = types.DataType{Kind: types.KindFloatingPoint}
	Text      = types.DataType{Kind: types.KindText}
	Blob      = types.DataType{Kind: types.KindBlob}
	Date      = types.DataType{Kind: types.KindDate}
	Timestamp = types.DataType{Kind: types.KindTimestamp}
	Time      = types.DataType{Kind: types.KindTime}
)

// Re-export violations for public API.
const (
	Consistent = types.Consistent

	ColumnsSelected                               = types.ColumnsSelected
	SelectColumnsHaveNames                        = types.SelectColumnsHaveNames
	SelectColumnsHaveUniqueNames                  = types.SelectColumnsHaveUniqueNames
	SelectColumnsAllAggregates                    = types.SelectColumnsAllAggregates
	SelectColumnsWithGroupByAreAggregates         = types.SelectColumnsWithGroupByAreAggregates
	SelectColumnsWithGroupByMatchStaticAggregates = types.SelectColumnsWithGroupByMatchStaticAggregates
	NoUnknownTablesInSelectedColumns              = types.NoUnknownTablesInSelectedColumns
	NoUnknownStaticTablesInSelectedColumns        = types.NoUnknownStaticTablesInSelectedColumns

	JoinOnKnownTables   = types.JoinOnKnownTables
	NoUnknownCTEs       = types.NoUnknownCTEs
	IntoRequired        = types.IntoRequired
	SingleTableProvided = types.SingleTableProvided

	InsertValuesRequired                = types.InsertValuesRequired
	InsertRequiredColumnsSet            = types.InsertRequiredColumnsSet
	InsertRowsMatchColumns              = types.InsertRowsMatchColumns
	NoUnknownTablesInInsertValues       = types.NoUnknownTablesInInsertValues
	NoUnknownStaticTablesInInsertValues = types.NoUnknownStaticTablesInInsertValues
	UpdateAssignmentsRequired           = types.UpdateAssignmentsRequired
	NoUnknownTablesInUpdateSet          = types.NoUnknownTablesInUpdateSet
	NoUnknownStaticTablesInUpdateSet    = types.NoUnknownStaticTablesInUpdateSet

	NoUnknownTablesInWhere       = types.NoUnknownTablesInWhere
	NoUnknownStaticTablesInWhere = types.NoUnknownStaticTablesInWhere

	NoUnknownTablesInGroupBy       = types.NoUnknownTablesInGroupBy
	NoUnknownStaticTablesInGroupBy = types.NoUnknownStaticTablesInGroupBy
	HavingAllAggregates            = types.HavingAllAggregates
	HavingAllStaticAggregates      = types.HavingAllStaticAggregates
	NoUnknownTablesInHaving        = types.NoUnknownTablesInHaving
	NoUnknownStaticTablesInHaving  = types.NoUnknownStaticTablesInHaving

	OrderByAllAggregates           = types.OrderByAllAggregates
	NoUnknownTablesInOrderBy       = types.NoUnknownTablesInOrderBy
	NoUnknownStaticTablesInOrderBy = types.NoUnknownStaticTablesInOrderBy
	NoUnknownTablesInLimit         = types.NoUnknownTablesInLimit
	NoUnknownStaticTablesInLimit   = types.NoUnknownStaticTablesInLimit
	NoUnknownTablesInOffset        = types.NoUnknownTablesInOffset
	NoUnknownStaticTablesInOffset  = types.NoUnknownStaticTablesInOffset

	SetOpColumnsMatch = types.SetOpColumnsMatch

	ReturningColumnsRequired            = types.ReturningColumnsRequired
	ReturningColumnsHaveNames           = types.ReturningColumnsHaveNames
	ReturningColumnsContainNoAggregates = types.ReturningColumnsContainNoAggregates
	NoUnknownTablesInReturning          = types.NoUnknownTablesInReturning
	NoUnknownStaticTablesInReturning    = types.NoUnknownStaticTablesInReturning
	NoUnknownTablesInOnConflict         = types.NoUnknownTablesInOnConflict
	NoUnknownStaticTablesInOnConflict   = types.NoUnknownStaticTablesInOnConflict

	WithCTEsHaveUniqueNames = types.WithCTEsHaveUniqueNames
)

// Statement is implemented by every statement builder.
type Statement interface {
	// Render checks the statement and serializes it for r.
	Render(r Renderer) (*QueryResult, error)
	// Consistency runs the consistency check on the statement built so far.
	Consistency() Violation
	// PrepareCheck runs the prepare check on the statement built so far.
	PrepareCheck() Violation
	// Err returns the first construction error, if any.
	Err() error
}

// Renderer serializes statement trees for one SQL dialect.
type Renderer interface {
	Render(stmt AST) (*QueryResult, error)
	RenderFragment(n Node) (*QueryResult, error)
}

// Package mssql provides the SQL Server dialect renderer for tsql.
//
// Identifiers are quoted with square brackets and parameters use @pN
// placeholders, the form go-mssqldb binds positionally. LIMIT and OFFSET
// render as OFFSET ... FETCH NEXT, with ORDER BY (SELECT NULL) when the
// statement has no ordering.
package mssql

import (
	"strconv"
	"strings"

	"github.com/zoobzio/tsql"
	"github.com/zoobzio/tsql/internal/render"
	"github.com/zoobzio/tsql/internal/types"
)

var unsupported = map[render.Feature]string{
	render.FeatureUpsert:          "use MERGE or separate INSERT/UPDATE with an EXISTS check",
	render.FeatureInsertReturning: "use an OUTPUT clause instead",
	render.FeatureUpdateReturning: "use an OUTPUT clause instead",
	render.FeatureDeleteReturning: "use an OUTPUT clause instead",
	render.FeatureForUpdate:       "use WITH (ROWLOCK, UPDLOCK) table hints instead",
	render.FeatureNullsOrdering:   "order by a CASE WHEN ... IS NULL expression first",
	render.FeatureDeleteUsing:     "use DELETE ... FROM with a join instead",
}

// Renderer implements SQL Server-specific SQL rendering.
type Renderer struct{}

// New creates a new SQL Server renderer.
func New() *Renderer {
	return &Renderer{}
}

// Render serializes a statement.
func (r *Renderer) Render(stmt tsql.AST) (*tsql.QueryResult, error) {
	return render.Statement(r, stmt)
}

// RenderFragment serializes an expression, clause or source.
func (r *Renderer) RenderFragment(n tsql.Node) (*tsql.QueryResult, error) {
	return render.Fragment(r, n)
}

// Name returns "mssql".
func (r *Renderer) Name() string { return "mssql" }

// Capabilities returns the SQL Server spellings.
func (r *Renderer) Capabilities() render.Capabilities {
	return render.Capabilities{
		Bools:        render.BoolIntegers,
		Blobs:        render.BlobHexNumber,
		DistinctFrom: render.DistinctFromNative,
		Concat:       render.ConcatPlus,
		Pagination:   render.PaginationOffsetFetch,
		Truncate:     render.TruncateTable,
	}
}

// Supports rejects the PostgreSQL-only statement forms.
func (r *Renderer) Supports(f render.Feature) error {
	if hint, ok := unsupported[f]; ok {
		return render.NewUnsupportedFeatureError(r.Name(), f, hint)
	}
	return nil
}

// QuoteIdentifier quotes a SQL Server identifier with square brackets.
func (r *Renderer) QuoteIdentifier(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

// Placeholder returns @pindex.
func (r *Renderer) Placeholder(index int) string {
	return "@p" + strconv.Itoa(index)
}

// TypeName returns the SQL Server type for a kind.
func (r *Renderer) TypeName(k types.Kind) string {
	switch k {
	case types.KindBoolean:
		return "BIT"
	case types.KindIntegral:
		return "BIGINT"
	case types.KindUnsignedIntegral:
		return "DECIMAL(20, 0)"
	case types.KindFloatingPoint:
		return "FLOAT"
	case types.KindText:
		return "NVARCHAR(MAX)"
	case types.KindBlob:
		return "VARBINARY(MAX)"
	case types.KindDate:
		return "DATE"
	case types.KindTimestamp:
		return "DATETIME2"
	case types.KindTime:
		return "TIME"
	}
	return "SQL_VARIANT"
}

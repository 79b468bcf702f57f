// Package postgres provides the PostgreSQL dialect renderer for tsql.
//
// Identifiers are always double-quoted and parameters use $n placeholders.
// Every statement form tsql can build is supported.
package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/zoobzio/tsql"
	"github.com/zoobzio/tsql/internal/render"
	"github.com/zoobzio/tsql/internal/types"
)

// Renderer implements PostgreSQL-specific SQL rendering.
type Renderer struct{}

// New creates a new PostgreSQL renderer.
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

// Name returns "postgres".
func (r *Renderer) Name() string { return "postgres" }

// Capabilities returns the PostgreSQL spellings.
func (r *Renderer) Capabilities() render.Capabilities {
	return render.Capabilities{
		Bools:            render.BoolKeywords,
		Blobs:            render.BlobEscape,
		TypedTemporal:    true,
		DistinctFrom:     render.DistinctFromNative,
		Concat:           render.ConcatPipes,
		XorOperator:      "#",
		Pagination:       render.PaginationLimitOffset,
		Truncate:         render.TruncatePlain,
		RecursiveKeyword: true,
		ParenSetOperands: true,
	}
}

// Supports accepts every feature.
func (r *Renderer) Supports(render.Feature) error { return nil }

// QuoteIdentifier quotes a PostgreSQL identifier with double quotes.
func (r *Renderer) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Placeholder returns $index.
func (r *Renderer) Placeholder(index int) string {
	return "$" + strconv.Itoa(index)
}

// TypeName returns the PostgreSQL type for a kind.
func (r *Renderer) TypeName(k types.Kind) string {
	switch k {
	case types.KindBoolean:
		return "BOOLEAN"
	case types.KindIntegral:
		return "BIGINT"
	case types.KindUnsignedIntegral:
		return "NUMERIC(20)"
	case types.KindFloatingPoint:
		return "DOUBLE PRECISION"
	case types.KindText:
		return "TEXT"
	case types.KindBlob:
		return "BYTEA"
	case types.KindDate:
		return "DATE"
	case types.KindTimestamp:
		return "TIMESTAMP"
	case types.KindTime:
		return "TIME"
	}
	return "UNKNOWN"
}

// OID returns the PostgreSQL type OID used to describe a parameter of kind k.
func OID(k types.Kind) uint32 {
	switch k {
	case types.KindBoolean:
		return pgtype.BoolOID
	case types.KindIntegral:
		return pgtype.Int8OID
	case types.KindUnsignedIntegral:
		// uint64 does not fit int8.
		return pgtype.NumericOID
	case types.KindFloatingPoint:
		return pgtype.Float8OID
	case types.KindText:
		return pgtype.TextOID
	case types.KindBlob:
		return pgtype.ByteaOID
	case types.KindDate:
		return pgtype.DateOID
	case types.KindTimestamp:
		return pgtype.TimestampOID
	case types.KindTime:
		return pgtype.TimeOID
	}
	return 0
}

// ParamOIDs returns one type OID per placeholder of res, in placeholder order.
// Kinds without a PostgreSQL counterpart map to 0, which lets the server infer them.
func ParamOIDs(res *tsql.QueryResult) []uint32 {
	oids := make([]uint32, len(res.Params))
	for i, p := range res.Params {
		oids[i] = OID(p.Type.Kind)
	}
	return oids
}

// Prepare creates a named prepared statement for res on conn, declaring the
// parameter types tsql inferred.
func Prepare(ctx context.Context, conn *pgconn.PgConn, name string, res *tsql.QueryResult) (*pgconn.StatementDescription, error) {
	if res == nil {
		return nil, fmt.Errorf("postgres: prepare %s: nil query result", name)
	}
	sd, err := conn.Prepare(ctx, name, res.SQL, ParamOIDs(res))
	if err != nil {
		return nil, fmt.Errorf("postgres: prepare %s: %w", name, err)
	}
	if len(sd.ParamOIDs) != len(res.Params) {
		return nil, fmt.Errorf("postgres: prepare %s: server reports %d parameters, statement has %d",
			name, len(sd.ParamOIDs), len(res.Params))
	}
	return sd, nil
}

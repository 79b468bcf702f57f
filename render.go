package tsql

import (
	"strings"

	"github.com/zoobzio/tsql/internal/render"
	"github.com/zoobzio/tsql/internal/types"
)

// reservedWords are quoted by the generic renderer even though they are valid identifiers.
var reservedWords = map[string]bool{
	"all": true, "and": true, "as": true, "asc": true, "between": true, "by": true,
	"case": true, "cast": true, "check": true, "column": true, "constraint": true,
	"create": true, "cross": true, "current_date": true, "current_time": true,
	"current_timestamp": true, "default": true, "delete": true, "desc": true,
	"distinct": true, "else": true, "end": true, "except": true, "exists": true,
	"false": true, "fetch": true, "for": true, "foreign": true, "from": true,
	"full": true, "group": true, "having": true, "in": true, "inner": true,
	"insert": true, "intersect": true, "into": true, "is": true, "join": true,
	"key": true, "left": true, "like": true, "limit": true, "not": true, "null": true,
	"offset": true, "on": true, "or": true, "order": true, "outer": true,
	"primary": true, "references": true, "returning": true, "right": true,
	"select": true, "set": true, "table": true, "then": true, "to": true, "true": true,
	"union": true, "unique": true, "update": true, "user": true, "using": true,
	"values": true, "when": true, "where": true, "with": true,
}

// GenericRenderer writes ANSI SQL with ? placeholders. Identifiers are only quoted
// when they are reserved words.
type GenericRenderer struct{}

// NewRenderer creates the generic renderer.
func NewRenderer() *GenericRenderer {
	return &GenericRenderer{}
}

// Render serializes a statement.
func (r *GenericRenderer) Render(stmt AST) (*QueryResult, error) {
	return render.Statement(r, stmt)
}

// RenderFragment serializes an expression, clause or source.
func (r *GenericRenderer) RenderFragment(n Node) (*QueryResult, error) {
	return render.Fragment(r, n)
}

// Name returns "generic".
func (r *GenericRenderer) Name() string { return "generic" }

// Capabilities returns the ANSI spellings.
func (r *GenericRenderer) Capabilities() render.Capabilities {
	return render.Capabilities{
		Bools:            render.BoolKeywords,
		Blobs:            render.BlobHexString,
		TypedTemporal:    true,
		DistinctFrom:     render.DistinctFromNative,
		Concat:           render.ConcatPipes,
		Pagination:       render.PaginationLimitOffset,
		Truncate:         render.TruncatePlain,
		RecursiveKeyword: true,
		ParenSetOperands: true,
	}
}

// Supports accepts every feature.
func (r *GenericRenderer) Supports(render.Feature) error { return nil }

// QuoteIdentifier quotes reserved words and names that are not plain identifiers.
func (r *GenericRenderer) QuoteIdentifier(name string) string {
	if types.ValidIdentifier(name) && !reservedWords[strings.ToLower(name)] {
		return name
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Placeholder returns "?".
func (r *GenericRenderer) Placeholder(int) string { return "?" }

// TypeName returns the ANSI type for a kind.
func (r *GenericRenderer) TypeName(k types.Kind) string {
	switch k {
	case types.KindBoolean:
		return "BOOLEAN"
	case types.KindIntegral, types.KindUnsignedIntegral:
		return "BIGINT"
	case types.KindFloatingPoint:
		return "DOUBLE PRECISION"
	case types.KindText:
		return "VARCHAR"
	case types.KindBlob:
		return "BLOB"
	case types.KindDate:
		return "DATE"
	case types.KindTimestamp:
		return "TIMESTAMP"
	case types.KindTime:
		return "TIME"
	}
	return "NULL"
}

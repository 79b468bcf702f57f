// Package mariadb provides the MariaDB dialect renderer for tsql.
//
// Identifiers are quoted with backticks and parameters use ? placeholders.
// Conflict handling renders as ON DUPLICATE KEY UPDATE, null-safe comparison
// with the <=> operator and concatenation with CONCAT().
package mariadb

import (
	"fmt"
	"strings"

	"github.com/zoobzio/tsql"
	"github.com/zoobzio/tsql/internal/render"
	"github.com/zoobzio/tsql/internal/types"
)

// maxLimit is the LIMIT MariaDB documents for "all remaining rows".
const maxLimit = "18446744073709551615"

// Version is a MariaDB server release.
type Version struct {
	Major, Minor int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Less reports whether v is older than o.
func (v Version) Less(o Version) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}
	return v.Minor < o.Minor
}

// DefaultVersion is assumed when no version is configured.
var DefaultVersion = Version{11, 4}

var since = map[render.Feature]Version{
	render.FeatureWith:            {10, 2},
	render.FeatureRecursiveWith:   {10, 2},
	render.FeatureWindow:          {10, 2},
	render.FeatureDeleteReturning: {10, 0},
	render.FeatureInsertReturning: {10, 5},
}

var never = map[render.Feature]string{
	render.FeatureFullJoin:        "combine LEFT and RIGHT joins with UNION",
	render.FeatureUpdateReturning: "select the rows after updating them",
	render.FeatureNullsOrdering:   "order by an IS NULL expression first",
	render.FeatureDeleteUsing:     "use a subquery in WHERE instead",
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithVersion sets the MariaDB release statements are rendered for.
func WithVersion(major, minor int) Option {
	return func(r *Renderer) {
		r.version = Version{major, minor}
	}
}

// Renderer implements MariaDB-specific SQL rendering.
type Renderer struct {
	version Version
}

// New creates a new MariaDB renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{version: DefaultVersion}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Version returns the MariaDB release the renderer targets.
func (r *Renderer) Version() Version { return r.version }

// Render serializes a statement.
func (r *Renderer) Render(stmt tsql.AST) (*tsql.QueryResult, error) {
	return render.Statement(r, stmt)
}

// RenderFragment serializes an expression, clause or source.
func (r *Renderer) RenderFragment(n tsql.Node) (*tsql.QueryResult, error) {
	return render.Fragment(r, n)
}

// Name returns "mariadb".
func (r *Renderer) Name() string { return "mariadb" }

// Capabilities returns the MariaDB spellings. Parenthesized set operands
// need 10.4.
func (r *Renderer) Capabilities() render.Capabilities {
	return render.Capabilities{
		Bools:            render.BoolKeywords,
		Blobs:            render.BlobHexNumber,
		TypedTemporal:    true,
		BackslashEscapes: true,
		DistinctFrom:     render.DistinctFromSpaceship,
		Concat:           render.ConcatFunction,
		Pagination:       render.PaginationLimitOffset,
		UnboundedLimit:   maxLimit,
		Truncate:         render.TruncateTable,
		RecursiveKeyword: true,
		ParenSetOperands: !r.version.Less(Version{10, 4}),
		DefaultValues:    " () VALUES ()",
		Upsert:           render.UpsertOnDuplicateKey,
	}
}

// Supports gates features on the configured release.
func (r *Renderer) Supports(f render.Feature) error {
	if hint, ok := never[f]; ok {
		return render.NewUnsupportedFeatureError(r.Name(), f, hint)
	}
	if v, ok := since[f]; ok && r.version.Less(v) {
		return render.NewUnsupportedFeatureError(r.Name(), f, "no support before version "+v.String())
	}
	return nil
}

// QuoteIdentifier quotes a MariaDB identifier with backticks.
func (r *Renderer) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// Placeholder returns "?".
func (r *Renderer) Placeholder(int) string { return "?" }

// TypeName returns the MariaDB CAST target for a kind.
func (r *Renderer) TypeName(k types.Kind) string {
	switch k {
	case types.KindBoolean, types.KindIntegral:
		return "SIGNED"
	case types.KindUnsignedIntegral:
		return "UNSIGNED"
	case types.KindFloatingPoint:
		return "DOUBLE"
	case types.KindText:
		return "CHAR"
	case types.KindBlob:
		return "BINARY"
	case types.KindDate:
		return "DATE"
	case types.KindTimestamp:
		return "DATETIME(6)"
	case types.KindTime:
		return "TIME(6)"
	}
	return "CHAR"
}

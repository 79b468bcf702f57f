// Package sqlite provides the SQLite dialect renderer for tsql.
//
// SQLite has no boolean or typed temporal literals: booleans render as 1 and 0,
// dates and times as quoted text. Features added in later SQLite releases are
// gated on the version passed to New.
package sqlite

import (
	"fmt"
	"strings"

	"github.com/zoobzio/tsql"
	"github.com/zoobzio/tsql/internal/render"
	"github.com/zoobzio/tsql/internal/types"
)

// Version is a SQLite library version.
type Version struct {
	Major, Minor, Patch int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Less reports whether v is older than o.
func (v Version) Less(o Version) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}
	if v.Minor != o.Minor {
		return v.Minor < o.Minor
	}
	return v.Patch < o.Patch
}

// DefaultVersion is assumed when no version is configured.
var DefaultVersion = Version{3, 46, 0}

// since records the first release supporting a version-gated feature.
var since = map[render.Feature]Version{
	render.FeatureWith:            {3, 8, 3},
	render.FeatureRecursiveWith:   {3, 8, 3},
	render.FeatureUpsert:          {3, 24, 0},
	render.FeatureWindow:          {3, 25, 0},
	render.FeatureNullsOrdering:   {3, 30, 0},
	render.FeatureInsertReturning: {3, 35, 0},
	render.FeatureUpdateReturning: {3, 35, 0},
	render.FeatureDeleteReturning: {3, 35, 0},
	render.FeatureRightJoin:       {3, 39, 0},
	render.FeatureFullJoin:        {3, 39, 0},
}

// never lists features no SQLite release supports, with a hint.
var never = map[render.Feature]string{
	render.FeatureForUpdate:   "SQLite uses database-level locking",
	render.FeatureDeleteUsing: "use a subquery in WHERE instead",
	render.FeatureBitXor:      "use (a | b) - (a & b) instead",
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithVersion sets the SQLite version statements are rendered for.
func WithVersion(major, minor, patch int) Option {
	return func(r *Renderer) {
		r.version = Version{major, minor, patch}
	}
}

// Renderer implements SQLite-specific SQL rendering.
type Renderer struct {
	version Version
}

// New creates a new SQLite renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{version: DefaultVersion}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Version returns the SQLite version the renderer targets.
func (r *Renderer) Version() Version { return r.version }

// Render serializes a statement.
func (r *Renderer) Render(stmt tsql.AST) (*tsql.QueryResult, error) {
	return render.Statement(r, stmt)
}

// RenderFragment serializes an expression, clause or source.
func (r *Renderer) RenderFragment(n tsql.Node) (*tsql.QueryResult, error) {
	return render.Fragment(r, n)
}

// Name returns "sqlite".
func (r *Renderer) Name() string { return "sqlite" }

// Capabilities returns the SQLite spellings.
func (r *Renderer) Capabilities() render.Capabilities {
	return render.Capabilities{
		Bools:            render.BoolIntegers,
		Blobs:            render.BlobHexString,
		DistinctFrom:     render.DistinctFromIs,
		Concat:           render.ConcatPipes,
		Pagination:       render.PaginationLimitOffset,
		UnboundedLimit:   "-1",
		Truncate:         render.TruncateDeleteAll,
		RecursiveKeyword: true,
	}
}

// Supports gates features on the configured version.
func (r *Renderer) Supports(f render.Feature) error {
	if hint, ok := never[f]; ok {
		return render.NewUnsupportedFeatureError(r.Name(), f, hint)
	}
	if v, ok := since[f]; ok && r.version.Less(v) {
		return render.NewUnsupportedFeatureError(r.Name(), f, "no support before version "+v.String())
	}
	return nil
}

// QuoteIdentifier quotes a SQLite identifier with double quotes.
func (r *Renderer) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Placeholder returns "?".
func (r *Renderer) Placeholder(int) string { return "?" }

// TypeName returns the SQLite storage class for a kind. Temporal values are
// stored as ISO-8601 text.
func (r *Renderer) TypeName(k types.Kind) string {
	switch k {
	case types.KindBoolean, types.KindIntegral, types.KindUnsignedIntegral:
		return "INTEGER"
	case types.KindFloatingPoint:
		return "REAL"
	case types.KindText, types.KindDate, types.KindTimestamp, types.KindTime:
		return "TEXT"
	case types.KindBlob:
		return "BLOB"
	}
	return "NUMERIC"
}

package render

import "github.com/zoobzio/tsql/internal/types"

// Feature names a construct that a dialect may not support.
type Feature string

const (
	FeatureWith            Feature = "WITH"
	FeatureRecursiveWith   Feature = "WITH RECURSIVE"
	FeatureInsertReturning Feature = "INSERT ... RETURNING"
	FeatureUpdateReturning Feature = "UPDATE ... RETURNING"
	FeatureDeleteReturning Feature = "DELETE ... RETURNING"
	FeatureRightJoin       Feature = "RIGHT OUTER JOIN"
	FeatureFullJoin        Feature = "FULL OUTER JOIN"
	FeatureUpsert          Feature = "ON CONFLICT"
	FeatureForUpdate       Feature = "FOR UPDATE"
	FeatureDeleteUsing     Feature = "DELETE ... USING"
	FeatureNullsOrdering   Feature = "NULLS FIRST/LAST"
	FeatureWindow          Feature = "OVER()"
	FeatureBitXor          Feature = "bitwise XOR"
)

// Dialect supplies the per-database spelling used by the serializer.
type Dialect interface {
	// Name identifies the dialect in errors and events.
	Name() string

	// Capabilities returns the literal, operator and clause spellings.
	Capabilities() Capabilities

	// Supports returns an UnsupportedFeatureError if f cannot be rendered.
	Supports(f Feature) error

	// QuoteIdentifier quotes a table, column, alias or CTE name.
	QuoteIdentifier(name string) string

	// Placeholder returns the placeholder for the 1-based parameter index.
	Placeholder(index int) string

	// TypeName returns the CAST target type for a kind.
	TypeName(k types.Kind) string
}

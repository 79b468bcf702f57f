package render

// BoolStyle is how boolean literals are spelled.
type BoolStyle int

const (
	BoolKeywords BoolStyle = iota // TRUE, FALSE
	BoolIntegers                  // 1, 0
)

// BlobStyle is how binary literals are spelled.
type BlobStyle int

const (
	BlobHexString BlobStyle = iota // X'0102'
	BlobEscape                     // '\x0102'
	BlobHexNumber                  // 0x0102
)

// DistinctFromStyle is how IS [NOT] DISTINCT FROM is spelled.
type DistinctFromStyle int

const (
	DistinctFromNative    DistinctFromStyle = iota // a IS DISTINCT FROM b
	DistinctFromSpaceship                          // NOT (a <=> b)
	DistinctFromIs                                 // a IS NOT b
)

// ConcatStyle is how text concatenation is spelled.
type ConcatStyle int

const (
	ConcatPipes    ConcatStyle = iota // a || b
	ConcatFunction                    // CONCAT(a, b)
	ConcatPlus                        // a + b
)

// PaginationStyle is how LIMIT and OFFSET are spelled.
type PaginationStyle int

const (
	PaginationLimitOffset PaginationStyle = iota // LIMIT n OFFSET m
	PaginationOffsetFetch                        // OFFSET m ROWS FETCH NEXT n ROWS ONLY
)

// TruncateStyle is how emptying a table is spelled.
type TruncateStyle int

const (
	TruncatePlain     TruncateStyle = iota // TRUNCATE foo
	TruncateTable                          // TRUNCATE TABLE foo
	TruncateDeleteAll                      // DELETE FROM foo
)

// UpsertStyle is how INSERT conflict handling is spelled.
type UpsertStyle int

const (
	UpsertOnConflict     UpsertStyle = iota // ON CONFLICT (k) DO UPDATE SET ...
	UpsertOnDuplicateKey                    // ON DUPLICATE KEY UPDATE ...
)

// Capabilities describes the spelling choices of a dialect.
// Features that a dialect may lack entirely are gated through Dialect.Supports.
type Capabilities struct {
	Bools            BoolStyle
	Blobs            BlobStyle
	TypedTemporal    bool // DATE '...', TIMESTAMP '...', TIME '...'
	BackslashEscapes bool // backslashes in strings must be doubled
	DistinctFrom     DistinctFromStyle
	Concat           ConcatStyle
	XorOperator      string // defaults to ^
	Pagination       PaginationStyle
	UnboundedLimit   string // LIMIT value emitted when only OFFSET is given
	Truncate         TruncateStyle
	RecursiveKeyword bool   // WITH RECURSIVE
	ParenSetOperands bool   // (SELECT ...) UNION (SELECT ...)
	DefaultValues    string // defaults to " DEFAULT VALUES"
	Upsert           UpsertStyle
}

func (c Capabilities) xor() string {
	if c.XorOperator == "" {
		return "^"
	}
	return c.XorOperator
}

func (c Capabilities) defaultValues() string {
	if c.DefaultValues == "" {
		return " DEFAULT VALUES"
	}
	return c.DefaultValues
}

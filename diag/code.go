package diag

// CodeCategory represents the semantic domain of an error code.
//
// Categories represent the semantic domain of an error, not necessarily the
// compiler stage that emits it. Most codes are emitted exclusively by their
// category's stage, but a few are cross-cutting.
type CodeCategory uint8

const (
	// CategorySentinel is for sentinel codes like E_LIMIT_REACHED and E_INTERNAL.
	CategorySentinel CodeCategory = iota

	// CategorySyntax is for lexer/parser errors (C1).
	CategorySyntax

	// CategoryDataset is for dataset resolution and loading errors (C4, C9).
	CategoryDataset

	// CategoryValidate is for semantic plot validation errors (C4).
	CategoryValidate

	// CategoryQuery is for query synthesis and execution errors (C6, C9).
	CategoryQuery

	// CategoryRender is for output emission errors (C8).
	CategoryRender

	// CategoryConfig is for CLI/config-file errors.
	CategoryConfig
)

// String returns a human-readable label for the category.
func (c CodeCategory) String() string {
	switch c {
	case CategorySentinel:
		return "sentinel"
	case CategorySyntax:
		return "syntax"
	case CategoryDataset:
		return "dataset"
	case CategoryValidate:
		return "validate"
	case CategoryQuery:
		return "query"
	case CategoryRender:
		return "render"
	case CategoryConfig:
		return "config"
	default:
		return "unknown"
	}
}

// Code is a stable programmatic identifier for an Issue.
//
// Error codes are stable identifiers that tools can match on, even when
// message text changes. The Code type uses unexported fields to enforce
// a closed set of valid codes - only codes defined in this package are valid.
//
// Code.String() values are globally unique across all categories. The
// CodeCategory is informational metadata for filtering and grouping.
type Code struct {
	value string
	cat   CodeCategory
}

// String returns the code's string representation (e.g., "E_SVL_MISSING_PAREN").
func (c Code) String() string {
	return c.value
}

// Category returns the programmatic category for this code.
func (c Code) Category() CodeCategory {
	return c.cat
}

// IsZero reports whether the code is unset.
func (c Code) IsZero() bool {
	return c.value == ""
}

// code is the unexported constructor - callers cannot create arbitrary codes.
func code(value string, cat CodeCategory) Code {
	return Code{value: value, cat: cat}
}

// Sentinel codes.
var (
	// E_LIMIT_REACHED is a sentinel code for explicit limit notification.
	E_LIMIT_REACHED = code("E_LIMIT_REACHED", CategorySentinel)

	// E_INTERNAL indicates an unexpected invariant failure (internal bug indicator).
	E_INTERNAL = code("E_INTERNAL", CategorySentinel)
)

// Syntax codes (C1 lexer/parser).
var (
	// E_SVL_SYNTAX is the generic fallback syntax error when no more specific
	// example in the classifier bank matches the failure.
	E_SVL_SYNTAX = code("E_SVL_SYNTAX", CategorySyntax)

	// E_SVL_MISSING_VALUE indicates a declaration keyword was not followed by
	// its expected value (e.g. `title` with no string literal).
	E_SVL_MISSING_VALUE = code("E_SVL_MISSING_VALUE", CategorySyntax)

	// E_SVL_MISSING_PAREN indicates an hcat/vcat/chart block is missing its
	// closing parenthesis.
	E_SVL_MISSING_PAREN = code("E_SVL_MISSING_PAREN", CategorySyntax)

	// E_SVL_TYPE indicates a literal could not be converted to the type its
	// grammar position requires (e.g. `bins` given a non-integer).
	E_SVL_TYPE = code("E_SVL_TYPE", CategorySyntax)

	// E_SVL_UNSUPPORTED_DECLARATION indicates a keyword appears in a position
	// no chart type accepts it.
	E_SVL_UNSUPPORTED_DECLARATION = code("E_SVL_UNSUPPORTED_DECLARATION", CategorySyntax)

	// E_SVL_INVALID_TIME_UNIT indicates a `temporal` value outside the fixed
	// YEAR/MONTH/DAY/HOUR/MINUTE/SECOND set.
	E_SVL_INVALID_TIME_UNIT = code("E_SVL_INVALID_TIME_UNIT", CategorySyntax)

	// E_SVL_INVALID_AGGREGATION indicates an `agg` value outside the fixed
	// aggregation function set.
	E_SVL_INVALID_AGGREGATION = code("E_SVL_INVALID_AGGREGATION", CategorySyntax)

	// E_SVL_INVALID_SORT indicates a `sort` value other than ASC/DESC.
	E_SVL_INVALID_SORT = code("E_SVL_INVALID_SORT", CategorySyntax)
)

// Dataset codes (C4 existence checks, C9 loading).
var (
	// E_SVL_MISSING_FILE indicates a file-backed dataset's path does not
	// exist on disk.
	E_SVL_MISSING_FILE = code("E_SVL_MISSING_FILE", CategoryDataset)

	// E_SVL_MISSING_DATASET indicates a plot references a dataset name with
	// no corresponding entry in the datasets block.
	E_SVL_MISSING_DATASET = code("E_SVL_MISSING_DATASET", CategoryDataset)

	// E_SVL_DATA_LOAD indicates materializing a dataset into the relational
	// engine failed (malformed CSV/Parquet, SQL view error).
	E_SVL_DATA_LOAD = code("E_SVL_DATA_LOAD", CategoryDataset)
)

// Validation codes (C4 semantic rules).
var (
	// E_SVL_PLOT indicates a plot declaration violates one of the sixteen
	// semantic validation rules.
	E_SVL_PLOT = code("E_SVL_PLOT", CategoryValidate)
)

// Query/execution codes (C6 synthesis, C9 execution).
var (
	// E_SVL_DATA_PROCESSING indicates query execution against the relational
	// engine failed, or returned a result set that cannot be shaped.
	E_SVL_DATA_PROCESSING = code("E_SVL_DATA_PROCESSING", CategoryQuery)
)

// Render codes (C8 emission).
var (
	// E_SVL_NOT_IMPLEMENTED indicates a requested backend or feature has no
	// emitter (e.g. the `vega` backend).
	E_SVL_NOT_IMPLEMENTED = code("E_SVL_NOT_IMPLEMENTED", CategoryRender)
)

// Config codes (CLI / .svlrc.jsonc).
var (
	// E_SVL_CONFIG indicates the project configuration file is malformed or
	// references an invalid option.
	E_SVL_CONFIG = code("E_SVL_CONFIG", CategoryConfig)
)

// allCodes contains all defined codes for AllCodes() and uniqueness verification.
var allCodes = []Code{
	E_LIMIT_REACHED,
	E_INTERNAL,
	E_SVL_SYNTAX,
	E_SVL_MISSING_VALUE,
	E_SVL_MISSING_PAREN,
	E_SVL_TYPE,
	E_SVL_UNSUPPORTED_DECLARATION,
	E_SVL_INVALID_TIME_UNIT,
	E_SVL_INVALID_AGGREGATION,
	E_SVL_INVALID_SORT,
	E_SVL_MISSING_FILE,
	E_SVL_MISSING_DATASET,
	E_SVL_DATA_LOAD,
	E_SVL_PLOT,
	E_SVL_DATA_PROCESSING,
	E_SVL_NOT_IMPLEMENTED,
	E_SVL_CONFIG,
}

// AllCodes returns all defined codes.
//
// The returned slice is a copy; modifications do not affect the original.
func AllCodes() []Code {
	result := make([]Code, len(allCodes))
	copy(result, allCodes)
	return result
}

// CodesByCategory returns codes in the given category.
//
// The returned slice is a new allocation; modifications do not affect
// internal state.
func CodesByCategory(cat CodeCategory) []Code {
	var result []Code
	for _, c := range allCodes {
		if c.cat == cat {
			result = append(result, c)
		}
	}
	return result
}

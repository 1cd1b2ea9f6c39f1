package dialect

import "strings"

// BigQuery has no teacher analogue in the reference corpus; it follows the
// same struct shape as the other dialects, populated from BigQuery's own
// standard SQL function reference.
var bigqueryReservedWords = []string{
	"select", "from", "where", "group", "order", "by", "having", "join",
	"inner", "left", "right", "full", "outer", "on", "as", "and", "or",
	"not", "in", "is", "null", "case", "when", "then", "else", "end",
	"between", "like", "distinct", "union", "intersect", "except", "all",
	"with", "limit", "qualify", "unnest", "struct", "array", "lattice",
	"partition", "window", "over",
}

var bigqueryAggregates = extend(standardAggregates,
	"APPROX_COUNT_DISTINCT", "APPROX_QUANTILES", "APPROX_TOP_COUNT",
	"ARRAY_AGG", "ARRAY_CONCAT_AGG", "STRING_AGG", "LOGICAL_AND", "LOGICAL_OR",
	"ANY_VALUE", "CORR", "COVAR_POP", "COVAR_SAMP",
)

var bigqueryGenerators = extend(standardGenerators,
	"CURRENT_DATETIME", "CURRENT_TIMESTAMP", "GENERATE_UUID",
	"SESSION_USER", "RAND",
)

// BigQuery treats unquoted identifiers as case-sensitive for table names
// but its standard SQL function names are case-insensitive; dbtlens folds
// to lowercase for schema/column comparison, matching column-name
// semantics (table identity is out of scope for schema inference).
var BigQuery = build(
	"bigquery", "",
	strings.ToLower,
	CastFunctionStyle,
	bigqueryAggregates,
	bigqueryGenerators,
	standardWindows,
	bigqueryReservedWords,
)

func init() {
	register(BigQuery)
}

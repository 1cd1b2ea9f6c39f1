package dialect

import "strings"

var postgresReservedWords = []string{
	"user", "order", "group", "table", "select", "from", "where", "index",
	"all", "and", "any", "array", "as", "asc", "authorization", "between",
	"binary", "both", "case", "cast", "check", "collate", "column",
	"constraint", "create", "cross", "current_catalog", "current_date",
	"current_role", "current_schema", "current_time", "current_timestamp",
	"current_user", "default", "deferrable", "desc", "distinct", "do",
	"else", "end", "except", "false", "fetch", "for", "foreign", "freeze",
	"full", "grant", "having", "ilike", "in", "initially", "inner",
	"intersect", "into", "is", "isnull", "join", "lateral", "leading",
	"left", "like", "limit", "localtime", "localtimestamp", "natural",
	"not", "notnull", "null", "offset", "on", "only", "or", "outer",
	"overlaps", "placing", "primary", "references", "returning", "right",
	"session_user", "similar", "some", "symmetric", "then", "to",
	"trailing", "true", "union", "unique", "using", "variadic", "verbose",
	"when", "window", "with",
}

var postgresAggregates = extend(standardAggregates,
	"JSONB_AGG", "JSONB_OBJECT_AGG", "JSON_AGG", "JSON_OBJECT_AGG",
	"BOOL_AND", "BOOL_OR", "EVERY", "BIT_AND", "BIT_OR", "BIT_XOR",
	"CORR", "COVAR_POP", "COVAR_SAMP", "PERCENTILE_CONT", "PERCENTILE_DISC", "MODE",
)

var postgresGenerators = extend(standardGenerators,
	"NOW", "LOCALTIME", "LOCALTIMESTAMP",
	"STATEMENT_TIMESTAMP", "TRANSACTION_TIMESTAMP", "CLOCK_TIMESTAMP",
	"GEN_RANDOM_UUID", "RANDOM",
	"CURRENT_SCHEMA", "CURRENT_DATABASE", "CURRENT_CATALOG",
	"CURRENT_USER", "CURRENT_ROLE", "SESSION_USER", "USER", "VERSION",
)

// Postgres normalizes unquoted identifiers to lowercase and accepts the
// `::` cast operator in addition to CAST(...).
var Postgres = build(
	"postgres", "public",
	strings.ToLower,
	CastColonColon,
	postgresAggregates,
	postgresGenerators,
	standardWindows,
	postgresReservedWords,
)

func init() {
	register(Postgres)
}

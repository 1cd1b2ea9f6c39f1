package dialect

import "strings"

var snowflakeReservedWords = []string{
	"select", "from", "where", "group", "order", "by", "having", "join",
	"inner", "left", "right", "full", "outer", "on", "as", "and", "or",
	"not", "in", "is", "null", "case", "when", "then", "else", "end",
	"between", "like", "ilike", "distinct", "union", "intersect", "except",
	"all", "with", "limit", "qualify", "sample", "table", "connect",
	"current_date", "current_time", "current_timestamp", "current_user",
	"account", "grant", "schema", "database", "warehouse",
}

var snowflakeAggregates = extend(standardAggregates,
	"APPROX_COUNT_DISTINCT", "APPROX_PERCENTILE", "ARRAY_AGG",
	"OBJECT_AGG", "LISTAGG", "BITAND_AGG", "BITOR_AGG", "BITXOR_AGG",
	"KURTOSIS", "SKEW", "MEDIAN",
)

var snowflakeGenerators = extend(standardGenerators,
	"CURRENT_TIMESTAMP", "SYSDATE", "UUID_STRING", "RANDOM",
	"CURRENT_ACCOUNT", "CURRENT_WAREHOUSE", "CURRENT_DATABASE",
	"CURRENT_SCHEMA", "CURRENT_ROLE", "CURRENT_USER", "CURRENT_SESSION",
)

var snowflakeWindows = extend(standardWindows,
	"RATIO_TO_REPORT", "CONDITIONAL_CHANGE_EVENT", "CONDITIONAL_TRUE_EVENT",
)

// Snowflake folds unquoted identifiers to uppercase (per its object-naming
// rules) and accepts `::` as a cast operator alongside CAST(...).
var Snowflake = build(
	"snowflake", "public",
	strings.ToUpper,
	CastColonColon,
	snowflakeAggregates,
	snowflakeGenerators,
	snowflakeWindows,
	snowflakeReservedWords,
)

func init() {
	register(Snowflake)
}

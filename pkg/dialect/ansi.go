package dialect

import "strings"

var ansiReservedWords = []string{
	"select", "from", "where", "group", "order", "by", "having", "join",
	"inner", "left", "right", "full", "outer", "on", "as", "and", "or",
	"not", "in", "is", "null", "case", "when", "then", "else", "end",
	"between", "like", "distinct", "union", "intersect", "except", "all",
	"with", "limit", "offset", "cast", "asc", "desc",
}

// Ansi is the baseline dialect used when no warehouse-specific behavior
// applies. It folds identifiers to lowercase, matching the SQL standard's
// unquoted-identifier rule.
var Ansi = build(
	"ansi", "",
	strings.ToLower,
	CastFunctionStyle,
	standardAggregates,
	standardGenerators,
	standardWindows,
	ansiReservedWords,
)

func init() {
	register(Ansi)
}

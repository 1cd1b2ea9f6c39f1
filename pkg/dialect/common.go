package dialect

// standardAggregates and standardWindows are shared across every dialect;
// each concrete dialect extends them with its own warehouse-specific
// functions.
var standardAggregates = []string{
	"SUM", "COUNT", "AVG", "MIN", "MAX",
	"STDDEV", "STDDEV_POP", "STDDEV_SAMP",
	"VARIANCE", "VAR_POP", "VAR_SAMP",
	"ARRAY_AGG", "STRING_AGG",
}

var standardWindows = []string{
	"ROW_NUMBER", "RANK", "DENSE_RANK", "NTILE",
	"PERCENT_RANK", "CUME_DIST",
	"LAG", "LEAD", "FIRST_VALUE", "LAST_VALUE", "NTH_VALUE",
}

var standardGenerators = []string{
	"CURRENT_TIMESTAMP", "CURRENT_DATE", "CURRENT_TIME",
}

func extend(base []string, extra ...string) []string {
	out := make([]string, 0, len(base)+len(extra))
	out = append(out, base...)
	out = append(out, extra...)
	return out
}

package template

import (
	"fmt"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// packageMacros is the extensible stub registry for the community package
// macros referenced by real model SQL (dbt_utils, dbt_date, metrics, ...).
// Each stub renders a best-effort SQL fragment rather than fully
// replicating the referenced package's behavior; new namespaces can be
// registered here without touching the renderer.
var packageMacros = map[string]map[string]starlark.Value{
	"dbt_utils": {
		"surrogate_key":     starlark.NewBuiltin("dbt_utils.surrogate_key", stubSurrogateKey),
		"star":              starlark.NewBuiltin("dbt_utils.star", stubStar),
		"generate_series":   starlark.NewBuiltin("dbt_utils.generate_series", stubGenerateSeries),
		"get_column_values": starlark.NewBuiltin("dbt_utils.get_column_values", stubGetColumnValues),
	},
	"dbt_date": {
		"today":      starlark.NewBuiltin("dbt_date.today", stubToday),
		"n_days_ago": starlark.NewBuiltin("dbt_date.n_days_ago", stubNDaysAgo),
	},
	"metrics": {
		"calculate": starlark.NewBuiltin("metrics.calculate", stubMetricsCalculate),
	},
}

// macroNamespaceModule wraps a package-macro namespace's stub members into
// a Starlark module value, e.g. dbt_utils.surrogate_key(...).
func macroNamespaceModule(name string, members map[string]starlark.Value) (starlark.Value, error) {
	dict := starlark.StringDict{}
	for k, v := range members {
		dict[k] = v
	}
	return &starlarkstruct.Module{Name: name, Members: dict}, nil
}

func stubSurrogateKey(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var fieldList *starlark.List
	if err := starlark.UnpackArgs("surrogate_key", args, kwargs, "field_list", &fieldList); err != nil {
		return nil, err
	}
	var fields []string
	for i := 0; i < fieldList.Len(); i++ {
		s, ok := starlark.AsString(fieldList.Index(i))
		if !ok {
			return nil, fmt.Errorf("surrogate_key: field_list must be all strings")
		}
		fields = append(fields, fmt.Sprintf("coalesce(cast(%s as varchar), '')", s))
	}
	expr := fmt.Sprintf("md5(cast(concat_ws('-', %s) as varchar))", strings.Join(fields, ", "))
	return starlark.String(expr), nil
}

func stubStar(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var from string
	var exceptList *starlark.List
	if err := starlark.UnpackArgs("star", args, kwargs, "from", &from, "except?", &exceptList); err != nil {
		return nil, err
	}
	if exceptList == nil || exceptList.Len() == 0 {
		return starlark.String("*"), nil
	}
	return starlark.String(fmt.Sprintf("* /* star(%s) except %d columns: unresolved without a live catalog */", from, exceptList.Len())), nil
}

func stubGenerateSeries(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var stop starlark.Int
	start := starlark.MakeInt(0)
	if err := starlark.UnpackArgs("generate_series", args, kwargs, "stop", &stop, "start?", &start); err != nil {
		return nil, err
	}
	expr := fmt.Sprintf("generate_series(%s, %s)", start.String(), stop.String())
	return starlark.String(expr), nil
}

func stubGetColumnValues(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var table, column string
	if err := starlark.UnpackArgs("get_column_values", args, kwargs, "table", &table, "column", &column); err != nil {
		return nil, err
	}
	return starlark.NewList(nil), nil // without a live catalog connection, there are no known values
}

func stubToday(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	return starlark.String("current_date"), nil
}

func stubNDaysAgo(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var n int
	if err := starlark.UnpackArgs("n_days_ago", args, kwargs, "n", &n); err != nil {
		return nil, err
	}
	return starlark.String(fmt.Sprintf("current_date - interval '%d day'", n)), nil
}

func stubMetricsCalculate(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var metric starlark.Value
	if err := starlark.UnpackArgs("calculate", args, kwargs, "metric", &metric); err != nil {
		return nil, err
	}
	return starlark.String(fmt.Sprintf("/* metrics.calculate(%s): unresolved, no semantic layer configured */ 0", metric.String())), nil
}

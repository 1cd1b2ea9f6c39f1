package template

import (
	"fmt"

	"go.starlark.net/starlark"
)

// builtinRef implements both ref("model_name") and the cross-project
// ref("package_name", "model_name") form, resolving to the compiled
// relation name for another model in the project. The package argument is
// accepted for parse compatibility with multi-project macros but otherwise
// ignored: lineage resolution here is single-project. Unlike a real
// compiler, this never fails the render on an unknown model: it records
// the lookup and returns a best-effort relation name, since the SQL
// parser's own lineage extraction is the source of truth for
// missing-dependency diagnostics.
func (c *Context) builtinRef(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var first, second string
	if err := starlark.UnpackArgs("ref", args, kwargs, "package_or_model", &first, "model_name?", &second); err != nil {
		return nil, err
	}
	modelName := first
	if second != "" {
		modelName = second
	}
	c.recordRef(modelName)
	if rel, ok := c.Refs[modelName]; ok {
		return starlark.String(rel), nil
	}
	return starlark.String(fmt.Sprintf("%s.%s", c.Target.Schema, modelName)), nil
}

// builtinSource implements source("source_name", "table_name").
func (c *Context) builtinSource(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var sourceName, tableName string
	if err := starlark.UnpackArgs("source", args, kwargs, "source_name", &sourceName, "table_name", &tableName); err != nil {
		return nil, err
	}
	c.recordRef(fmt.Sprintf("source.%s.%s", sourceName, tableName))
	if rel, ok := c.Sources[sourceName+"."+tableName]; ok {
		return starlark.String(fmt.Sprintf("%s.%s", rel[0], rel[1])), nil
	}
	return starlark.String(fmt.Sprintf("%s.%s", c.Target.Schema, tableName)), nil
}

// builtinVar implements var("name"[, default]), reading from the project's
// declared variables with an optional fallback.
func (c *Context) builtinVar(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	var def starlark.Value = starlark.None
	if err := starlark.UnpackArgs("var", args, kwargs, "name", &name, "default?", &def); err != nil {
		return nil, err
	}
	if v, ok := c.Vars[name]; ok {
		return goToStarlark(v)
	}
	if def == starlark.None {
		return nil, fmt.Errorf("var(%q) has no default and no value was supplied", name)
	}
	return def, nil
}

// builtinConfig implements config(**kwargs), the model-level block used to
// set materialization, contracts, and other per-model settings inline in
// the SQL file. Config calls are evaluated for their side effect on the
// caller's ModelConfig and render as an empty string.
func (c *Context) builtinConfig(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if c.ModelConfig == nil {
		c.ModelConfig = map[string]any{}
	}
	for _, kv := range kwargs {
		key := string(kv[0].(starlark.String))
		goVal, err := starlarkToGo(kv[1])
		if err != nil {
			return nil, err
		}
		c.ModelConfig[key] = goVal
	}
	return starlark.String(""), nil
}

// builtinItems implements items(mapping), mirroring Python's dict.items()
// for the {% for key, value in items(cols) %} dynamic-column-emission
// idiom that dbt-style macros rely on heavily.
func builtinItems(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var mapping *starlark.Dict
	if err := starlark.UnpackArgs("items", args, kwargs, "mapping", &mapping); err != nil {
		return nil, err
	}
	items := mapping.Items()
	pairs := make([]starlark.Value, len(items))
	for i, kv := range items {
		pairs[i] = starlark.Tuple{kv[0], kv[1]}
	}
	return starlark.NewList(pairs), nil
}

// starlarkToGo converts a Starlark value back to a plain Go value, the
// inverse of goToStarlark, for config() capturing kwargs into ModelConfig.
func starlarkToGo(v starlark.Value) (any, error) {
	switch x := v.(type) {
	case starlark.NoneType:
		return nil, nil
	case starlark.Bool:
		return bool(x), nil
	case starlark.String:
		return string(x), nil
	case starlark.Int:
		i, ok := x.Int64()
		if !ok {
			return nil, fmt.Errorf("template: integer %s out of range", x.String())
		}
		return i, nil
	case starlark.Float:
		return float64(x), nil
	case *starlark.List:
		out := make([]any, x.Len())
		for i := 0; i < x.Len(); i++ {
			gv, err := starlarkToGo(x.Index(i))
			if err != nil {
				return nil, err
			}
			out[i] = gv
		}
		return out, nil
	case *starlark.Dict:
		out := map[string]any{}
		for _, kv := range x.Items() {
			k, ok := starlark.AsString(kv[0])
			if !ok {
				return nil, fmt.Errorf("template: non-string dict key %s", kv[0].String())
			}
			gv, err := starlarkToGo(kv[1])
			if err != nil {
				return nil, err
			}
			out[k] = gv
		}
		return out, nil
	default:
		return nil, fmt.Errorf("template: cannot convert starlark value %s back to go", v.String())
	}
}

package template

import (
	"fmt"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// TargetInfo mirrors the `target` global available to model SQL, describing
// the warehouse connection the run is configured against.
type TargetInfo struct {
	Name     string
	Type     string
	Schema   string
	Database string
}

// ToStarlark exposes t as a read-only Starlark struct.
func (t TargetInfo) ToStarlark() *starlarkstruct.Struct {
	return starlarkstruct.FromStringDict(starlark.String("target"), starlark.StringDict{
		"name":     starlark.String(t.Name),
		"type":     starlark.String(t.Type),
		"schema":   starlark.String(t.Schema),
		"database": starlark.String(t.Database),
	})
}

// ThisInfo mirrors the `this` global: the identity of the model currently
// being rendered, used by incremental-merge boilerplate.
type ThisInfo struct {
	Name     string
	Schema   string
	Database string
}

// ToStarlark exposes t as a read-only Starlark struct.
func (t ThisInfo) ToStarlark() *starlarkstruct.Struct {
	return starlarkstruct.FromStringDict(starlark.String("this"), starlark.StringDict{
		"name":     starlark.String(t.Name),
		"schema":   starlark.String(t.Schema),
		"database": starlark.String(t.Database),
	})
}

// Context is everything a single file's render depends on: the resolvable
// graph (for ref/source), declared vars, the active target, and the
// model's own identity and config block.
type Context struct {
	Vars        map[string]any
	Target      TargetInfo
	This        ThisInfo
	ModelConfig map[string]any

	// Refs and Sources resolve a model/source lookup to its relation name
	// (schema-qualified table name) as it will appear in compiled SQL.
	// A lineage-edge side effect: every call records the referenced node,
	// readable afterwards through RecordedRefs.
	Refs    map[string]string
	Sources map[string][2]string // "source_name.table_name" -> {schema, relation}

	seenRefs []string
}

// RecordedRefs returns every node name resolved by ref()/source() during a
// render, in call order.
func (c *Context) RecordedRefs() []string { return c.seenRefs }

func (c *Context) recordRef(name string) { c.seenRefs = append(c.seenRefs, name) }

// globals builds the Starlark predeclared environment for one render: the
// fixed builtin vocabulary plus the package-macro stub registry.
func (c *Context) globals() (starlark.StringDict, error) {
	env := starlark.StringDict{
		"target": c.Target.ToStarlark(),
		"this":   c.This.ToStarlark(),
		"ref":    starlark.NewBuiltin("ref", c.builtinRef),
		"source": starlark.NewBuiltin("source", c.builtinSource),
		"var":    starlark.NewBuiltin("var", c.builtinVar),
		"config": starlark.NewBuiltin("config", c.builtinConfig),
		"items":  starlark.NewBuiltin("items", builtinItems),
	}
	varsDict, err := goMapToStarlarkDict(c.Vars)
	if err != nil {
		return nil, err
	}
	env["vars"] = varsDict
	// Bare names declared via var()/{% set %} resolve directly, the way a
	// Jinja local does, not only through vars["name"].
	for k, v := range c.Vars {
		sv, err := goToStarlark(v)
		if err != nil {
			return nil, err
		}
		env[k] = sv
	}

	cfgDict, err := goMapToStarlarkDict(c.ModelConfig)
	if err != nil {
		return nil, err
	}
	env["model"] = starlarkstruct.FromStringDict(starlark.String("model"), starlark.StringDict{
		"config": cfgDict,
		"name":   starlark.String(c.This.Name),
	})

	for ns, members := range packageMacros {
		mod, err := macroNamespaceModule(ns, members)
		if err != nil {
			return nil, err
		}
		env[ns] = mod
	}
	return env, nil
}

func newThread(file string) *starlark.Thread {
	return &starlark.Thread{
		Name:  file,
		Print: func(*starlark.Thread, string) {},
	}
}

// EvalExpr evaluates a single Starlark expression against ctx.
func (c *Context) EvalExpr(file, expr string) (starlark.Value, error) {
	globals, err := c.globals()
	if err != nil {
		return nil, err
	}
	return starlark.Eval(newThread(file), file, expr, globals)
}

// EvalExprString evaluates expr and stringifies the result the way a SQL
// template substitution needs: quoted strings are unwrapped, everything
// else uses Starlark's str().
func (c *Context) EvalExprString(file, expr string) (string, error) {
	v, err := c.EvalExpr(file, expr)
	if err != nil {
		return "", err
	}
	return stringifyValue(v), nil
}

func stringifyValue(v starlark.Value) string {
	if s, ok := starlark.AsString(v); ok {
		return s
	}
	return v.String()
}

func goMapToStarlarkDict(m map[string]any) (*starlark.Dict, error) {
	d := starlark.NewDict(len(m))
	for k, v := range m {
		sv, err := goToStarlark(v)
		if err != nil {
			return nil, err
		}
		if err := d.SetKey(starlark.String(k), sv); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// goToStarlark converts common Go scalar/slice/map shapes (as parsed from
// project YAML config) into Starlark values.
func goToStarlark(v any) (starlark.Value, error) {
	switch x := v.(type) {
	case nil:
		return starlark.None, nil
	case string:
		return starlark.String(x), nil
	case bool:
		return starlark.Bool(x), nil
	case int:
		return starlark.MakeInt(x), nil
	case int64:
		return starlark.MakeInt64(x), nil
	case float64:
		return starlark.Float(x), nil
	case []string:
		elems := make([]starlark.Value, len(x))
		for i, s := range x {
			elems[i] = starlark.String(s)
		}
		return starlark.NewList(elems), nil
	case []any:
		elems := make([]starlark.Value, len(x))
		for i, e := range x {
			sv, err := goToStarlark(e)
			if err != nil {
				return nil, err
			}
			elems[i] = sv
		}
		return starlark.NewList(elems), nil
	case map[string]any:
		return goMapToStarlarkDict(x)
	default:
		return nil, fmt.Errorf("template: cannot convert %T to a starlark value", v)
	}
}

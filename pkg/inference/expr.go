package inference

import (
	"strings"

	"github.com/leapstack-labs/dbtlens/pkg/logical"
	"github.com/leapstack-labs/dbtlens/pkg/schema"
	"github.com/leapstack-labs/dbtlens/pkg/sqlast"
)

// inferExpr returns an expression's logical type along with the column
// provenance it carries forward (a ColumnRef forwards its source's
// provenance; everything else either has none, generator functions, or
// unions its operands' provenance).
func (c *Context) inferExpr(e sqlast.Expr, s *scope) (logical.Type, []schema.ColumnRef) {
	switch v := e.(type) {
	case sqlast.Literal:
		return inferLiteral(v), nil

	case sqlast.ColumnRef:
		return c.inferColumnRef(v, s)

	case sqlast.BinaryExpr:
		return c.inferBinaryExpr(v, s)

	case sqlast.UnaryExpr:
		typ, prov := c.inferExpr(v.Operand, s)
		if v.Op == "NOT" {
			return logical.Bool, prov
		}
		return typ, prov

	case sqlast.Cast:
		_, prov := c.inferExpr(v.Expr, s)
		return typeFromCastName(v.TypeName), prov

	case sqlast.FuncCall:
		return c.inferFuncCall(v, s)

	case sqlast.CaseExpr:
		return c.inferCaseExpr(v, s)

	case sqlast.InExpr, sqlast.BetweenExpr, sqlast.IsNullExpr:
		return logical.Bool, nil

	case sqlast.ParenExpr:
		if v.Expr != nil {
			return c.inferExpr(v.Expr, s)
		}
		return logical.Unknown, nil

	default:
		return logical.Unknown, nil
	}
}

func inferLiteral(l sqlast.Literal) logical.Type {
	switch l.Kind {
	case sqlast.LiteralInt:
		return logical.Int
	case sqlast.LiteralFloat:
		return logical.Float
	case sqlast.LiteralString:
		return logical.String
	case sqlast.LiteralBool:
		return logical.Bool
	default:
		return logical.Unknown
	}
}

func (c *Context) inferColumnRef(ref sqlast.ColumnRef, s *scope) (logical.Type, []schema.ColumnRef) {
	var e *entry
	var ok bool
	if ref.Qualifier != "" {
		e, ok = s.lookup(ref.Qualifier)
	} else {
		e, ok = s.resolveColumn(ref.Name)
	}
	if !ok {
		return logical.Unknown, nil
	}
	col, found := e.columns.Find(ref.Name, c.Dialect)
	if !found {
		return logical.Unknown, nil
	}
	if len(col.Provenance) > 0 {
		return col.Type, col.Provenance
	}
	if e.modelID == "" {
		return col.Type, nil
	}
	return col.Type, []schema.ColumnRef{{ModelID: e.modelID, Column: col.Name}}
}

func (c *Context) inferBinaryExpr(b sqlast.BinaryExpr, s *scope) (logical.Type, []schema.ColumnRef) {
	lt, lp := c.inferExpr(b.Left, s)
	rt, rp := c.inferExpr(b.Right, s)
	prov := append(append([]schema.ColumnRef{}, lp...), rp...)

	switch b.Op {
	case "AND", "OR", "=", "!=", "<>", "<", ">", "<=", ">=", "LIKE", "NOT LIKE", "ILIKE", "NOT ILIKE":
		return logical.Bool, prov
	case "||":
		return logical.String, prov
	default: // arithmetic: +, -, *, /, %
		return promoteNumeric(lt, rt), prov
	}
}

// promoteNumeric implements standard widening: decimal beats float beats
// int; an unknown operand doesn't force the result to Unknown since
// arithmetic on a partially-known expression is still numeric.
func promoteNumeric(a, b logical.Type) logical.Type {
	if a.Kind == logical.KindDecimal || b.Kind == logical.KindDecimal {
		return logical.Decimal(nil, nil)
	}
	if a.Kind == logical.KindFloat || b.Kind == logical.KindFloat {
		return logical.Float
	}
	if a.Kind == logical.KindInt && b.Kind == logical.KindInt {
		return logical.Int
	}
	if a.Kind == logical.KindUnknown {
		return b
	}
	return a
}

func (c *Context) inferCaseExpr(ce sqlast.CaseExpr, s *scope) (logical.Type, []schema.ColumnRef) {
	var result logical.Type = logical.Unknown
	var prov []schema.ColumnRef
	for _, w := range ce.Whens {
		t, p := c.inferExpr(w.Then, s)
		prov = append(prov, p...)
		if result.Kind == logical.KindUnknown {
			result = t
		}
	}
	if ce.Else != nil {
		t, p := c.inferExpr(ce.Else, s)
		prov = append(prov, p...)
		if result.Kind == logical.KindUnknown {
			result = t
		}
	}
	return result, prov
}

// typeFromCastName maps a SQL type name to its logical type, parsing an
// optional precision/scale suffix for DECIMAL/NUMERIC.
func typeFromCastName(name string) logical.Type {
	upper := strings.ToUpper(name)
	base, args := splitTypeArgs(upper)
	switch {
	case strings.HasPrefix(base, "VARCHAR"), strings.HasPrefix(base, "TEXT"), strings.HasPrefix(base, "STRING"), strings.HasPrefix(base, "CHAR"):
		return logical.String
	case strings.HasPrefix(base, "BOOL"):
		return logical.Bool
	case strings.HasPrefix(base, "INT"), strings.HasPrefix(base, "BIGINT"), strings.HasPrefix(base, "SMALLINT"), base == "SERIAL":
		return logical.Int
	case strings.HasPrefix(base, "FLOAT"), strings.HasPrefix(base, "DOUBLE"), strings.HasPrefix(base, "REAL"):
		return logical.Float
	case strings.HasPrefix(base, "DECIMAL"), strings.HasPrefix(base, "NUMERIC"):
		p, sc := parseDecimalArgs(args)
		return logical.Decimal(p, sc)
	case strings.HasPrefix(base, "TIMESTAMP"):
		return logical.Timestamp
	case strings.HasPrefix(base, "DATE"):
		return logical.Date
	case strings.HasPrefix(base, "JSON"), strings.HasPrefix(base, "VARIANT"), strings.HasPrefix(base, "STRUCT"):
		return logical.JSON
	default:
		return logical.Unknown
	}
}

func splitTypeArgs(s string) (base string, args string) {
	i := strings.Index(s, "(")
	if i < 0 {
		return s, ""
	}
	j := strings.LastIndex(s, ")")
	if j < i {
		return s[:i], ""
	}
	return s[:i], s[i+1 : j]
}

func parseDecimalArgs(args string) (*int, *int) {
	parts := strings.Split(args, ",")
	if len(parts) == 0 || strings.TrimSpace(parts[0]) == "" {
		return nil, nil
	}
	p, ok := parseIntLiteral(strings.TrimSpace(parts[0]))
	if !ok {
		return nil, nil
	}
	if len(parts) < 2 {
		return &p, nil
	}
	sc, ok := parseIntLiteral(strings.TrimSpace(parts[1]))
	if !ok {
		return &p, nil
	}
	return &p, &sc
}

// funcReturnType is the closed table of built-in function return types
// schema inference can reason about without warehouse metadata. Functions
// absent from the table return Unknown (conservative).
var funcReturnType = map[string]logical.Type{
	"COUNT":        logical.Int,
	"SUM":          logical.Unknown, // depends on argument; inferFuncCall returns the argument's type
	"MIN":          logical.Unknown,
	"MAX":          logical.Unknown,
	"UPPER":        logical.String,
	"LOWER":        logical.String,
	"TRIM":         logical.String,
	"CONCAT":       logical.String,
	"NOW":          logical.Timestamp,
	"CURRENT_DATE": logical.Date,
	"DATE_TRUNC":   logical.Timestamp,
	"TO_CHAR":      logical.String,
	"CAST":         logical.Unknown,
	"ROW_NUMBER":   logical.Int,
	"RANK":         logical.Int,
	"DENSE_RANK":   logical.Int,
}

func (c *Context) inferFuncCall(f sqlast.FuncCall, s *scope) (logical.Type, []schema.ColumnRef) {
	var prov []schema.ColumnRef
	var argType logical.Type = logical.Unknown
	for _, arg := range f.Args {
		t, p := c.inferExpr(arg, s)
		prov = append(prov, p...)
		if argType.Kind == logical.KindUnknown {
			argType = t
		}
	}

	name := strings.ToUpper(f.Name)
	if f.Qualifier != "" {
		// Package-namespaced macro stubs (dbt_utils., dbt_date., metrics.)
		// are parse-able but not type-modeled; schema inference can't know
		// their return type without executing the macro.
		return logical.Unknown, prov
	}

	switch name {
	case "COUNT":
		return logical.Int, nil
	case "SUM", "MIN", "MAX":
		if argType.Kind != logical.KindUnknown {
			return argType, prov
		}
		return logical.Unknown, prov
	case "AVG":
		if argType.Kind == logical.KindDecimal {
			return argType, prov
		}
		return logical.Float, prov
	case "COALESCE", "NULLIF", "GREATEST", "LEAST":
		if argType.Kind != logical.KindUnknown {
			return argType, prov
		}
		return logical.Unknown, prov
	}

	if t, ok := funcReturnType[name]; ok {
		return t, prov
	}
	return logical.Unknown, prov
}

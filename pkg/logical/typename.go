package logical

import (
	"strconv"
	"strings"
)

// ParseTypeName maps a free-text SQL type name — as declared in a dbt
// YAML contract or reported by a warehouse's catalog — to the shared
// logical type lattice. It is deliberately permissive: an unrecognized
// name resolves to Unknown rather than an error, since Unknown already
// matches anything under Type.Compatible.
func ParseTypeName(raw string) Type {
	name, precision, scale := splitTypeArgs(raw)
	switch name {
	case "boolean", "bool":
		return Bool
	case "smallint", "integer", "int", "int2", "int4", "int8", "bigint", "tinyint", "number":
		if precision != nil && scale != nil && *scale > 0 {
			return Decimal(precision, scale)
		}
		return Int
	case "real", "float", "float4", "float8", "double", "double precision":
		return Float
	case "numeric", "decimal":
		return Decimal(precision, scale)
	case "varchar", "character varying", "char", "character", "bpchar", "text", "string", "uuid", "citext", "nvarchar":
		return String
	case "date":
		return Date
	case "timestamp", "timestamp without time zone", "timestamp with time zone", "timestamptz", "datetime":
		return Timestamp
	case "json", "jsonb", "variant", "object", "struct", "record":
		return JSON
	default:
		return Unknown
	}
}

// splitTypeArgs normalizes a type name to lowercase and pulls any
// "(precision[, scale])" suffix out of it, e.g. "NUMERIC(18,2)" ->
// ("numeric", &18, &2) and "varchar(256)" -> ("varchar", &256, nil).
func splitTypeArgs(raw string) (name string, precision, scale *int) {
	s := strings.ToLower(strings.TrimSpace(raw))
	open := strings.Index(s, "(")
	if open < 0 {
		return s, nil, nil
	}
	close := strings.LastIndex(s, ")")
	if close < open {
		return strings.TrimSpace(s[:open]), nil, nil
	}
	name = strings.TrimSpace(s[:open])
	args := strings.Split(s[open+1:close], ",")
	if len(args) >= 1 {
		if p, err := strconv.Atoi(strings.TrimSpace(args[0])); err == nil {
			precision = &p
		}
	}
	if len(args) >= 2 {
		if sc, err := strconv.Atoi(strings.TrimSpace(args[1])); err == nil {
			scale = &sc
		}
	}
	return name, precision, scale
}

// Package logical defines the platform-neutral column type lattice shared by
// schema inference, contract diffing and drift detection.
package logical

import "fmt"

// Kind is the closed set of logical type variants.
type Kind int

// Kind constants for the logical type lattice.
const (
	KindUnknown Kind = iota
	KindBool
	KindInt
	KindFloat
	KindDecimal
	KindString
	KindDate
	KindTimestamp
	KindJSON
	KindStruct
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindDecimal:
		return "decimal"
	case KindString:
		return "string"
	case KindDate:
		return "date"
	case KindTimestamp:
		return "timestamp"
	case KindJSON:
		return "json"
	case KindStruct:
		return "struct"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// NamedType pairs a struct field name with its type, preserving order.
type NamedType struct {
	Name string
	Type Type
}

// Type is a logical column type. The zero value is Unknown.
type Type struct {
	Kind Kind

	// Precision/Scale are only meaningful for KindDecimal; nil means
	// "unspecified" (a decimal literal whose precision the source doesn't
	// pin down, e.g. a numeric literal).
	Precision *int
	Scale     *int

	// Fields is only meaningful for KindStruct.
	Fields []NamedType

	// Element is only meaningful for KindArray.
	Element *Type
}

// Unknown is the Unknown variant.
var Unknown = Type{Kind: KindUnknown}

// Bool is the Bool variant.
var Bool = Type{Kind: KindBool}

// Int is the Int variant.
var Int = Type{Kind: KindInt}

// Float is the Float variant.
var Float = Type{Kind: KindFloat}

// String is the String variant.
var String = Type{Kind: KindString}

// Date is the Date variant.
var Date = Type{Kind: KindDate}

// Timestamp is the Timestamp variant.
var Timestamp = Type{Kind: KindTimestamp}

// JSON is the Json variant.
var JSON = Type{Kind: KindJSON}

// Decimal builds a Decimal type with optional precision/scale.
func Decimal(precision, scale *int) Type {
	return Type{Kind: KindDecimal, Precision: precision, Scale: scale}
}

// Struct builds a Struct type from ordered fields.
func Struct(fields []NamedType) Type {
	return Type{Kind: KindStruct, Fields: fields}
}

// Array builds an Array type from its element type.
func Array(element Type) Type {
	return Type{Kind: KindArray, Element: &element}
}

// IsNumeric reports whether the type is one of Int, Float or Decimal.
func (t Type) IsNumeric() bool {
	return t.Kind == KindInt || t.Kind == KindFloat || t.Kind == KindDecimal
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Equal reports exact equality: same variant with equal parameters.
func (t Type) Equal(other Type) bool {
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case KindDecimal:
		return intPtrEqual(t.Precision, other.Precision) && intPtrEqual(t.Scale, other.Scale)
	case KindStruct:
		if len(t.Fields) != len(other.Fields) {
			return false
		}
		for i, f := range t.Fields {
			if f.Name != other.Fields[i].Name || !f.Type.Equal(other.Fields[i].Type) {
				return false
			}
		}
		return true
	case KindArray:
		if t.Element == nil || other.Element == nil {
			return t.Element == other.Element
		}
		return t.Element.Equal(*other.Element)
	default:
		return true
	}
}

// Compatible reports whether two types are compatible per §3: exactly
// equal, OR both numeric (any decimal parameters match), OR either side is
// Unknown.
func (t Type) Compatible(other Type) bool {
	if t.Kind == KindUnknown || other.Kind == KindUnknown {
		return true
	}
	if t.Equal(other) {
		return true
	}
	return t.IsNumeric() && other.IsNumeric()
}

// String renders a human-readable type string, e.g. "decimal(10,2)".
func (t Type) String() string {
	switch t.Kind {
	case KindDecimal:
		switch {
		case t.Precision != nil && t.Scale != nil:
			return fmt.Sprintf("decimal(%d,%d)", *t.Precision, *t.Scale)
		case t.Precision != nil:
			return fmt.Sprintf("decimal(%d)", *t.Precision)
		default:
			return "decimal"
		}
	case KindArray:
		if t.Element != nil {
			return fmt.Sprintf("array<%s>", t.Element.String())
		}
		return "array"
	case KindStruct:
		return "struct"
	default:
		return t.Kind.String()
	}
}

// Nullability is a three-valued nullability marker.
type Nullability int

// Nullability constants.
const (
	NullUnknown Nullability = iota
	NullYes
	NullNo
)

func (n Nullability) String() string {
	switch n {
	case NullYes:
		return "yes"
	case NullNo:
		return "no"
	default:
		return "unknown"
	}
}

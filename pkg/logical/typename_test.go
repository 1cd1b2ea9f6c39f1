package logical

import "testing"

func TestParseTypeNameScalars(t *testing.T) {
	cases := map[string]Type{
		"boolean":                    Bool,
		"BOOL":                       Bool,
		"integer":                    Int,
		"bigint":                     Int,
		"varchar(256)":               String,
		"character varying":         String,
		"timestamp without time zone": Timestamp,
		"date":                       Date,
		"jsonb":                      JSON,
		"totally_unknown_type":       Unknown,
	}
	for raw, want := range cases {
		got := ParseTypeName(raw)
		if !got.Equal(want) {
			t.Errorf("ParseTypeName(%q) = %s, want %s", raw, got, want)
		}
	}
}

func TestParseTypeNameDecimalWithPrecisionAndScale(t *testing.T) {
	got := ParseTypeName("numeric(18,2)")
	if got.Kind != KindDecimal {
		t.Fatalf("expected KindDecimal, got %s", got)
	}
	if got.Precision == nil || *got.Precision != 18 {
		t.Errorf("expected precision 18, got %v", got.Precision)
	}
	if got.Scale == nil || *got.Scale != 2 {
		t.Errorf("expected scale 2, got %v", got.Scale)
	}
}

func TestParseTypeNameBareNumericHasNoPrecision(t *testing.T) {
	got := ParseTypeName("numeric")
	if got.Kind != KindDecimal {
		t.Fatalf("expected KindDecimal, got %s", got)
	}
	if got.Precision != nil || got.Scale != nil {
		t.Errorf("expected no precision/scale, got %v/%v", got.Precision, got.Scale)
	}
}

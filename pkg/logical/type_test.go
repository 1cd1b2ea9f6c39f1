package logical

import "testing"

func intp(v int) *int { return &v }

func TestCompatible(t *testing.T) {
	tests := []struct {
		name string
		a, b Type
		want bool
	}{
		{"int-int", Int, Int, true},
		{"int-decimal", Int, Decimal(intp(10), intp(2)), true},
		{"int-float", Int, Float, true},
		{"int-string", Int, String, false},
		{"unknown-anything", Unknown, String, true},
		{"anything-unknown", Bool, Unknown, true},
		{"string-string", String, String, true},
		{"decimal-mismatch-still-compatible", Decimal(intp(10), intp(2)), Decimal(intp(18), intp(4)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Compatible(tt.b); got != tt.want {
				t.Errorf("%s.Compatible(%s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	if !Decimal(intp(10), intp(2)).Equal(Decimal(intp(10), intp(2))) {
		t.Error("expected equal decimals to be equal")
	}
	if Decimal(intp(10), intp(2)).Equal(Decimal(intp(18), intp(4))) {
		t.Error("expected differing decimal params to be unequal")
	}
	if Int.Equal(Float) {
		t.Error("int and float must not be exactly equal")
	}
}

func TestString(t *testing.T) {
	if Decimal(intp(10), intp(2)).String() != "decimal(10,2)" {
		t.Errorf("unexpected decimal string: %s", Decimal(intp(10), intp(2)).String())
	}
	if Array(Int).String() != "array<int>" {
		t.Errorf("unexpected array string: %s", Array(Int).String())
	}
}

package diagnostic

import (
	"encoding/json"
	"testing"
)

func TestSortCanonicalOrder(t *testing.T) {
	diags := []Diagnostic{
		{Code: ContractExtraColumn, Severity: Warning, Message: "z"},
		{Code: ContractMissingColumn, Severity: Error, Message: "b"},
		{Code: ContractMissingColumn, Severity: Error, Message: "a"},
		{Code: DriftColumnAdded, Severity: Info, Message: "c"},
	}

	Sort(diags)

	want := []Code{ContractMissingColumn, ContractMissingColumn, ContractExtraColumn, DriftColumnAdded}
	for i, w := range want {
		if diags[i].Code != w {
			t.Fatalf("position %d: got %s, want %s", i, diags[i].Code, w)
		}
	}
	if diags[0].Message != "a" || diags[1].Message != "b" {
		t.Errorf("expected same-code same-severity diagnostics ordered by message, got %v, %v", diags[0].Message, diags[1].Message)
	}
}

func TestApplyOverrides(t *testing.T) {
	diags := []Diagnostic{{Code: DriftColumnAdded, Severity: Info}}
	out := ApplyOverrides(diags, map[Code]Severity{DriftColumnAdded: Error})
	if out[0].Severity != Error {
		t.Errorf("expected override to apply, got %v", out[0].Severity)
	}
	// original untouched
	if diags[0].Severity != Info {
		t.Error("ApplyOverrides must not mutate the input slice")
	}
}

func TestSeverityJSONRoundTrip(t *testing.T) {
	b, err := json.Marshal(Error)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != `"error"` {
		t.Fatalf("expected %q, got %s", `"error"`, b)
	}

	var s Severity
	if err := json.Unmarshal([]byte(`"warning"`), &s); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if s != Warning {
		t.Fatalf("expected Warning, got %v", s)
	}

	if err := json.Unmarshal([]byte(`"bogus"`), &s); err == nil {
		t.Fatal("expected an error unmarshaling an unknown severity")
	}
}

func TestDiagnosticJSONFieldNames(t *testing.T) {
	d := Diagnostic{
		Code:     ContractMissingColumn,
		Severity: Error,
		Message:  "missing column",
		Location: Location{File: "m.sql", Line: 4},
	}
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	for _, key := range []string{"code", "severity", "message", "location"} {
		if _, ok := got[key]; !ok {
			t.Errorf("expected JSON field %q, got %v", key, got)
		}
	}
	if _, ok := got["expected"]; ok {
		t.Error("empty Expected should be omitted")
	}
}

func TestHasError(t *testing.T) {
	if HasError([]Diagnostic{{Severity: Warning}, {Severity: Info}}) {
		t.Error("expected no error")
	}
	if !HasError([]Diagnostic{{Severity: Warning}, {Severity: Error}}) {
		t.Error("expected error to be detected")
	}
}

package drift

import (
	"testing"

	"github.com/leapstack-labs/dbtlens/pkg/diagnostic"
	"github.com/leapstack-labs/dbtlens/pkg/logical"
	"github.com/leapstack-labs/dbtlens/pkg/schema"
)

func TestDetectColumnDropped(t *testing.T) {
	declared := schema.Schema{{Name: "id", Type: logical.Int}, {Name: "email", Type: logical.String}}
	live := schema.Schema{{Name: "id", Type: logical.Int}}

	diags := Detect(declared, live, nil, "m.sql")
	if len(diags) != 1 || diags[0].Code != diagnostic.DriftColumnDropped {
		t.Fatalf("expected 1 DriftColumnDropped, got %#v", diags)
	}
}

func TestDetectColumnAdded(t *testing.T) {
	declared := schema.Schema{{Name: "id", Type: logical.Int}}
	live := schema.Schema{{Name: "id", Type: logical.Int}, {Name: "new_col", Type: logical.String}}

	diags := Detect(declared, live, nil, "m.sql")
	if len(diags) != 1 || diags[0].Code != diagnostic.DriftColumnAdded {
		t.Fatalf("expected 1 DriftColumnAdded, got %#v", diags)
	}
}

func TestDetectTypeChangeIsStrictNoCoercion(t *testing.T) {
	// logical.Decimal and logical.Int are Compatible() in contractdiff's
	// lenient sense, but drift uses strict Equal: this must still fire.
	declared := schema.Schema{{Name: "amount", Type: logical.Int}}
	live := schema.Schema{{Name: "amount", Type: logical.Decimal(nil, nil)}}

	diags := Detect(declared, live, nil, "m.sql")
	if len(diags) != 1 || diags[0].Code != diagnostic.DriftTypeChange {
		t.Fatalf("expected 1 DriftTypeChange for non-identical numeric kinds, got %#v", diags)
	}
}

func TestDetectUnknownMatchesUnknown(t *testing.T) {
	declared := schema.Schema{{Name: "mystery", Type: logical.Unknown}}
	live := schema.Schema{{Name: "mystery", Type: logical.Unknown}}

	// Unknown == Unknown by Equal, so this is NOT drift; Unknown only
	// fails to match a concrete type, not itself.
	diags := Detect(declared, live, nil, "m.sql")
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %#v", diags)
	}
}

func TestDetectNoChangesIsNoOp(t *testing.T) {
	declared := schema.Schema{{Name: "id", Type: logical.Int}}
	live := schema.Schema{{Name: "id", Type: logical.Int}}

	if diags := Detect(declared, live, nil, "m.sql"); diags != nil {
		t.Fatalf("expected nil, got %#v", diags)
	}
}

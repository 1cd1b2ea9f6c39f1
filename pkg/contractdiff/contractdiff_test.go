package contractdiff

import (
	"testing"

	"github.com/leapstack-labs/dbtlens/pkg/contract"
	"github.com/leapstack-labs/dbtlens/pkg/diagnostic"
	"github.com/leapstack-labs/dbtlens/pkg/logical"
	"github.com/leapstack-labs/dbtlens/pkg/schema"
)

func TestDiffMissingColumn(t *testing.T) {
	inferred := schema.Schema{{Name: "id", Type: logical.Int}}
	c := contract.Contract{Columns: schema.Schema{
		{Name: "id", Type: logical.Int},
		{Name: "email", Type: logical.String},
	}}
	diags := Diff(inferred, c, nil, "m.sql", nil)
	if len(diags) != 1 || diags[0].Code != diagnostic.ContractMissingColumn {
		t.Fatalf("expected 1 ContractMissingColumn, got %#v", diags)
	}
}

func TestDiffTypeMismatch(t *testing.T) {
	inferred := schema.Schema{{Name: "id", Type: logical.String}}
	c := contract.Contract{Columns: schema.Schema{{Name: "id", Type: logical.Int}}}
	diags := Diff(inferred, c, nil, "m.sql", nil)
	if len(diags) != 1 || diags[0].Code != diagnostic.ContractTypeMismatch {
		t.Fatalf("expected 1 ContractTypeMismatch, got %#v", diags)
	}
}

func TestDiffCompatibleNumericTypesDoNotMismatch(t *testing.T) {
	inferred := schema.Schema{{Name: "amount", Type: logical.Decimal(nil, nil)}}
	c := contract.Contract{Columns: schema.Schema{{Name: "amount", Type: logical.Int}}}
	diags := Diff(inferred, c, nil, "m.sql", nil)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics for numeric widening, got %#v", diags)
	}
}

func TestDiffExtraColumnUnlessAllowed(t *testing.T) {
	inferred := schema.Schema{{Name: "id", Type: logical.Int}, {Name: "extra", Type: logical.String}}
	c := contract.Contract{Columns: schema.Schema{{Name: "id", Type: logical.Int}}}

	diags := Diff(inferred, c, nil, "m.sql", nil)
	if len(diags) != 1 || diags[0].Code != diagnostic.ContractExtraColumn {
		t.Fatalf("expected 1 ContractExtraColumn, got %#v", diags)
	}

	c.Enforcement.AllowExtra = true
	diags = Diff(inferred, c, nil, "m.sql", nil)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics when AllowExtra is set, got %#v", diags)
	}
}

func TestDiffWideningAllowlist(t *testing.T) {
	inferred := schema.Schema{{Name: "amount_usd", Type: logical.String}}
	c := contract.Contract{
		Columns:     schema.Schema{{Name: "amount_usd", Type: logical.Int}},
		Enforcement: contract.Enforcement{WideningAllowlist: []string{"amount_*"}},
	}
	diags := Diff(inferred, c, nil, "m.sql", nil)
	if len(diags) != 0 {
		t.Fatalf("expected widening allowlist to suppress the mismatch, got %#v", diags)
	}
}

func TestDiffZeroContractIsNoOp(t *testing.T) {
	inferred := schema.Schema{{Name: "id", Type: logical.Int}}
	if diags := Diff(inferred, contract.Contract{}, nil, "m.sql", nil); diags != nil {
		t.Fatalf("expected no diagnostics for zero contract, got %#v", diags)
	}
}

func TestDiffAttachesImpact(t *testing.T) {
	inferred := schema.Schema{}
	c := contract.Contract{Columns: schema.Schema{{Name: "id", Type: logical.Int}}}
	diags := Diff(inferred, c, nil, "m.sql", []string{"model.b", "model.c"})
	if len(diags) != 1 || len(diags[0].Impact) != 2 {
		t.Fatalf("expected impact list attached, got %#v", diags)
	}
}

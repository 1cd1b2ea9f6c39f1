package inference

import (
	"testing"

	"github.com/leapstack-labs/dbtlens/pkg/diagnostic"
	"github.com/leapstack-labs/dbtlens/pkg/dialect"
	"github.com/leapstack-labs/dbtlens/pkg/logical"
	"github.com/leapstack-labs/dbtlens/pkg/schema"
	"github.com/leapstack-labs/dbtlens/pkg/sqlparser"
)

func catalogFor(tables map[string]schema.Schema) CatalogLookup {
	return func(name string) (schema.Schema, bool) {
		s, ok := tables[name]
		return s, ok
	}
}

func TestInferSimpleProjection(t *testing.T) {
	stmt, errs := sqlparser.Parse("SELECT id, email FROM users", dialect.Ansi, "m.sql")
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	catalog := catalogFor(map[string]schema.Schema{
		"users": {
			{Name: "id", Type: logical.Int},
			{Name: "email", Type: logical.String},
		},
	})

	out, diags := Infer(stmt, dialect.Ansi, catalog, "m.sql", true)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(out) != 2 || out[0].Name != "id" || out[0].Type.Kind != logical.KindInt {
		t.Fatalf("unexpected schema: %#v", out)
	}
	if out[1].Provenance[0].ModelID != "users" {
		t.Errorf("expected provenance to point at users, got %#v", out[1].Provenance)
	}
}

func TestInferStarExpansion(t *testing.T) {
	stmt, _ := sqlparser.Parse("SELECT * FROM users", dialect.Ansi, "m.sql")
	catalog := catalogFor(map[string]schema.Schema{
		"users": {{Name: "id", Type: logical.Int}, {Name: "email", Type: logical.String}},
	})
	out, diags := Infer(stmt, dialect.Ansi, catalog, "m.sql", true)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 expanded columns, got %d", len(out))
	}
}

func TestInferUnexpandableStarRaisesDiagnostic(t *testing.T) {
	stmt, _ := sqlparser.Parse("SELECT * FROM unknown_table", dialect.Ansi, "m.sql")
	out, diags := Infer(stmt, dialect.Ansi, catalogFor(nil), "m.sql", true)
	if out != nil {
		t.Errorf("expected no schema, got %#v", out)
	}
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
}

func TestInferStarDisallowedRaisesDiagnostic(t *testing.T) {
	stmt, _ := sqlparser.Parse("SELECT * FROM users", dialect.Ansi, "m.sql")
	catalog := catalogFor(map[string]schema.Schema{
		"users": {{Name: "id", Type: logical.Int}, {Name: "email", Type: logical.String}},
	})
	out, diags := Infer(stmt, dialect.Ansi, catalog, "m.sql", false)
	if out != nil {
		t.Errorf("expected no schema with AllowStar false, got %#v", out)
	}
	if len(diags) != 1 || diags[0].Code != diagnostic.SqlSelectStarUnexpandable {
		t.Fatalf("expected a single SqlSelectStarUnexpandable diagnostic, got %#v", diags)
	}
}

func TestInferCTEPropagatesColumns(t *testing.T) {
	stmt, errs := sqlparser.Parse(`
		WITH base AS (SELECT id, amount FROM orders)
		SELECT id, amount * 2 AS doubled FROM base
	`, dialect.Ansi, "m.sql")
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	catalog := catalogFor(map[string]schema.Schema{
		"orders": {{Name: "id", Type: logical.Int}, {Name: "amount", Type: logical.Decimal(nil, nil)}},
	})
	out, diags := Infer(stmt, dialect.Ansi, catalog, "m.sql", true)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(out) != 2 || out[1].Name != "doubled" {
		t.Fatalf("unexpected schema: %#v", out)
	}
	if out[1].Type.Kind != logical.KindDecimal {
		t.Errorf("expected decimal from numeric promotion, got %v", out[1].Type)
	}
}

func TestInferSynthesizesNameFromExpressionShape(t *testing.T) {
	stmt, errs := sqlparser.Parse("SELECT CASE WHEN amount > 0 THEN 1 ELSE 0 END, amount BETWEEN 1 AND 2 FROM orders", dialect.Ansi, "m.sql")
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	catalog := catalogFor(map[string]schema.Schema{
		"orders": {{Name: "amount", Type: logical.Int}},
	})
	out, _ := Infer(stmt, dialect.Ansi, catalog, "m.sql", true)
	if len(out) != 2 {
		t.Fatalf("unexpected schema: %#v", out)
	}
	if out[0].Name != "case_1" {
		t.Errorf("expected synthesized name case_1, got %q", out[0].Name)
	}
	if out[1].Name != "between_2" {
		t.Errorf("expected synthesized name between_2, got %q", out[1].Name)
	}
}

func TestInferAggregateFunctions(t *testing.T) {
	stmt, _ := sqlparser.Parse("SELECT COUNT(*) AS n, SUM(amount) AS total FROM orders", dialect.Ansi, "m.sql")
	catalog := catalogFor(map[string]schema.Schema{
		"orders": {{Name: "amount", Type: logical.Int}},
	})
	out, _ := Infer(stmt, dialect.Ansi, catalog, "m.sql", true)
	if out[0].Type.Kind != logical.KindInt {
		t.Errorf("expected COUNT(*) to infer Int, got %v", out[0].Type)
	}
	if out[1].Type.Kind != logical.KindInt {
		t.Errorf("expected SUM(amount) to infer Int from its argument, got %v", out[1].Type)
	}
}

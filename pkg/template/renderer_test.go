package template

import (
	"strings"
	"testing"
)

func newTestContext() *Context {
	return &Context{
		Vars: map[string]any{"env": "dev"},
		Target: TargetInfo{
			Type:     "duckdb",
			Schema:   "analytics",
			Database: "test_db",
		},
		This: ThisInfo{
			Name:   "test_model",
			Schema: "public",
		},
		ModelConfig: map[string]any{"materialized": "table"},
	}
}

func TestRenderExpressions(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain text", "SELECT * FROM users", "SELECT * FROM users"},
		{"simple expression", `SELECT * FROM {{ target.schema }}.users`, "SELECT * FROM analytics.users"},
		{"multiple expressions", `{{ target.schema }}.{{ this.name }}`, "analytics.test_model"},
		{"var lookup", `{{ var("env") }}`, "dev"},
		{"string concatenation", `{{ target.schema + "." + this.name }}`, "analytics.test_model"},
		{"integer expression", `{{ 1 + 2 }}`, "3"},
		{"ref resolves to schema-qualified name", `{{ ref("stg_orders") }}`, "analytics.stg_orders"},
		{"two-arg ref ignores package and resolves the model", `{{ ref("shared_pkg", "stg_orders") }}`, "analytics.stg_orders"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newTestContext()
			result, diags := Render(tt.input, "test.sql", ctx)
			if len(diags) != 0 {
				t.Fatalf("unexpected diagnostics: %v", diags)
			}
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestRenderForLoop(t *testing.T) {
	ctx := newTestContext()
	ctx.Vars["columns"] = []any{"id", "name", "amount"}

	input := `select {% for c in columns %}{{ c }}, {% endfor %} from t`
	result, diags := Render(input, "test.sql", ctx)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if !strings.Contains(result, "id") || !strings.Contains(result, "name") || !strings.Contains(result, "amount") {
		t.Errorf("expected all columns present, got %q", result)
	}
}

func TestRenderIfElse(t *testing.T) {
	ctx := newTestContext()
	ctx.Vars["is_incremental"] = true

	input := `{% if is_incremental %}where updated_at > '2026-01-01'{% else %}where true{% endif %}`
	result, diags := Render(input, "test.sql", ctx)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if result != "where updated_at > '2026-01-01'" {
		t.Errorf("expected incremental branch, got %q", result)
	}
}

func TestRenderSetStatementBindsVariable(t *testing.T) {
	ctx := newTestContext()
	input := `{% set threshold = 100 %}where amount > {{ threshold }}`
	result, diags := Render(input, "test.sql", ctx)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if result != "where amount > 100" {
		t.Errorf("expected bound threshold, got %q", result)
	}
}

func TestRenderUndefinedVariableProducesDiagnosticNotError(t *testing.T) {
	ctx := newTestContext()
	input := `select {{ nonexistent_var }}`
	_, diags := Render(input, "test.sql", ctx)
	if len(diags) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d", len(diags))
	}
	if diags[0].Code != "JinjaUndefinedVariable" && diags[0].Code != "JinjaRenderError" {
		t.Errorf("unexpected diagnostic code %s", diags[0].Code)
	}
}

func TestRenderTakesFastPathWhenNoMarkers(t *testing.T) {
	ctx := newTestContext()
	input := "select 1 from t"
	result, diags := Render(input, "test.sql", ctx)
	if result != input {
		t.Errorf("expected passthrough, got %q", result)
	}
	if diags != nil {
		t.Errorf("expected no diagnostics on the fast path, got %v", diags)
	}
}

func TestRenderPackageMacroStub(t *testing.T) {
	ctx := newTestContext()
	input := `{{ dbt_utils.surrogate_key(["id", "order_date"]) }}`
	result, diags := Render(input, "test.sql", ctx)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if !strings.Contains(result, "md5(") {
		t.Errorf("expected a surrogate-key expression, got %q", result)
	}
}

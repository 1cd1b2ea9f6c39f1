package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/dbtlens/pkg/diagnostic"
)

func TestAssembleSortsCanonicalOrder(t *testing.T) {
	diags := []diagnostic.Diagnostic{
		{Code: diagnostic.ContractExtraColumn, Severity: diagnostic.Warning, Message: "z"},
		{Code: diagnostic.ContractMissingColumn, Severity: diagnostic.Error, Message: "b"},
	}
	r := Assemble(diags, RunContext{Timestamp: time.Now()})
	require.Len(t, r.Diagnostics, 2)
	assert.Equal(t, diagnostic.ContractMissingColumn, r.Diagnostics[0].Code)
	assert.Equal(t, diagnostic.ContractExtraColumn, r.Diagnostics[1].Code)
}

func TestAssembleContentHashIsDeterministic(t *testing.T) {
	diags := []diagnostic.Diagnostic{
		{Code: diagnostic.ContractMissingColumn, Severity: diagnostic.Error, Message: "m", Location: diagnostic.Location{File: "a.sql"}},
	}
	r1 := Assemble(diags, RunContext{Timestamp: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)})
	r2 := Assemble(diags, RunContext{Timestamp: time.Date(2099, 12, 31, 0, 0, 0, 0, time.UTC)})

	assert.Equal(t, r1.ContentHash, r2.ContentHash, "hash must exclude the timestamp")
	assert.True(t, strings.HasPrefix(r1.ContentHash, "sha256:"))
}

func TestAssembleContentHashChangesWithDiagnostics(t *testing.T) {
	r1 := Assemble([]diagnostic.Diagnostic{{Code: diagnostic.ContractMissingColumn, Message: "a"}}, RunContext{})
	r2 := Assemble([]diagnostic.Diagnostic{{Code: diagnostic.ContractMissingColumn, Message: "b"}}, RunContext{})
	assert.NotEqual(t, r1.ContentHash, r2.ContentHash)
}

func TestAssembleSummaryCounts(t *testing.T) {
	diags := []diagnostic.Diagnostic{
		{Code: diagnostic.ContractMissingColumn, Severity: diagnostic.Error},
		{Code: diagnostic.ContractExtraColumn, Severity: diagnostic.Warning},
		{Code: diagnostic.DriftColumnAdded, Severity: diagnostic.Info},
	}
	r := Assemble(diags, RunContext{ModelsChecked: 5, ContractsValidated: 3})
	assert.Equal(t, Summary{Total: 3, Errors: 1, Warnings: 1, Info: 1, ModelsChecked: 5, ContractsValidated: 3}, r.Summary)
}

func TestRedactPreservesStructuredFields(t *testing.T) {
	msg := `column "amount_usd" declared as int but inferred as staging.orders.amount`
	redacted := Redact(msg)
	assert.NotContains(t, redacted, "amount_usd")
	assert.Contains(t, redacted, "[REDACTED]")
}

func TestRenderMarkdownIncludesSummaryAndTable(t *testing.T) {
	diags := []diagnostic.Diagnostic{
		{Code: diagnostic.ContractMissingColumn, Severity: diagnostic.Error, Message: "missing col", Location: diagnostic.Location{File: "m.sql", Line: 3}},
	}
	r := Assemble(diags, RunContext{ModelsChecked: 1, ContractsValidated: 1})

	var buf strings.Builder
	require.NoError(t, RenderMarkdown(&buf, r))

	out := buf.String()
	assert.Contains(t, out, "dbtlens report")
	assert.Contains(t, out, r.ContentHash)
	assert.Contains(t, out, "ContractMissingColumn")
	assert.Contains(t, out, "m.sql:3")
}

func TestRenderMarkdownNoDiagnostics(t *testing.T) {
	r := Assemble(nil, RunContext{})
	var buf strings.Builder
	require.NoError(t, RenderMarkdown(&buf, r))
	assert.Contains(t, buf.String(), "No diagnostics.")
}

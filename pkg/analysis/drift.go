package analysis

import (
	"context"
	"time"

	"github.com/leapstack-labs/dbtlens/pkg/contract"
	"github.com/leapstack-labs/dbtlens/pkg/diagnostic"
	"github.com/leapstack-labs/dbtlens/pkg/drift"
	"github.com/leapstack-labs/dbtlens/pkg/manifest"
	"github.com/leapstack-labs/dbtlens/pkg/report"
	"github.com/leapstack-labs/dbtlens/pkg/warehouse"
)

// Drift compares every contract-enforcing model's declared schema against
// what fetcher reports the warehouse relation actually has. Models with no
// declared contract have nothing to drift-check against and are skipped.
func (e *Engine) Drift(ctx context.Context, artifacts *manifest.Artifacts, fetcher warehouse.SchemaFetcher) (*report.Report, error) {
	g := artifacts.Manifest.Graph

	var diags []diagnostic.Diagnostic
	modelsChecked := 0
	contractsValidated := 0
	for _, n := range g.Nodes() {
		if e.skipsModel(n.ID) || !n.EnforcesContract() {
			continue
		}
		modelsChecked++

		c := contract.FromNode(n, e.enforcementFor(n))
		if c.IsZero() {
			continue
		}
		contractsValidated++

		live, err := fetcher.FetchSchema(ctx, n.Database, n.Schema, n.Relation)
		if err != nil {
			diags = append(diags, diagnostic.Diagnostic{
				Code:     diagnostic.InternalError,
				Severity: diagnostic.DefaultSeverity(diagnostic.InternalError),
				Message:  "could not fetch live schema: " + err.Error(),
				Location: diagnostic.Location{File: n.ID + ".sql"},
			})
			continue
		}
		diags = append(diags, drift.Detect(c.Columns, live, nil, n.ID+".sql")...)
	}

	diags = diagnostic.ApplyOverrides(diags, e.severityOverrides())
	if e.Config.Redact {
		diags = redactAll(diags)
	}

	return report.Assemble(diags, report.RunContext{
		Timestamp:          time.Now(),
		ModelsChecked:       modelsChecked,
		ContractsValidated: contractsValidated,
	}), nil
}

package analysis

import (
	"context"
	"time"

	"github.com/leapstack-labs/dbtlens/internal/state"
	"github.com/leapstack-labs/dbtlens/pkg/contract"
	"github.com/leapstack-labs/dbtlens/pkg/contractdiff"
	"github.com/leapstack-labs/dbtlens/pkg/diagnostic"
	"github.com/leapstack-labs/dbtlens/pkg/dialect"
	"github.com/leapstack-labs/dbtlens/pkg/manifest"
	"github.com/leapstack-labs/dbtlens/pkg/report"
	"github.com/leapstack-labs/dbtlens/pkg/statecompare"
)

// CheckOptions configures a single Check call.
type CheckOptions struct {
	// Prior, when set, scopes Check to the nodes changed since Prior plus
	// their downstream blast radius instead of every contract-enforcing
	// node in artifacts.
	Prior *manifest.Graph

	// Store, when set, memoizes each node's diagnostics across process
	// invocations, keyed by a fingerprint of its compiled SQL, contract
	// and dependencies. A node whose fingerprint is unchanged since the
	// last run reuses its stored diagnostics instead of re-running the
	// contract diff; schema inference still runs for every node.
	Store state.Store
}

// Check validates every contract-enforcing model's inferred schema
// against its declared contract, or — with opts.Prior set — only the
// nodes changed since Prior and their downstream closure.
func (e *Engine) Check(ctx context.Context, artifacts *manifest.Artifacts, opts CheckOptions) (*report.Report, error) {
	d, ok := dialect.Lookup(e.Config.Dialect)
	if !ok {
		d = dialect.Ansi
	}

	g := artifacts.Manifest.Graph
	reg := artifacts.Manifest.Registry
	ig := buildInferenceGraph(g, reg, artifacts.Catalog, d)
	if err := ig.EvaluateAll(ctx); err != nil {
		return nil, err
	}

	var scope map[string]bool
	var scMeta *report.StateComparisonMetadata
	if opts.Prior != nil {
		changes := statecompare.Compare(opts.Prior, g)
		closure := statecompare.ModifiedClosure(g, changes)
		scope = make(map[string]bool, len(closure))
		for _, id := range closure {
			scope[id] = true
		}
		scMeta = stateComparisonMetadata(g, changes)
	}

	var diags []diagnostic.Diagnostic
	modelsChecked := 0
	contractsValidated := 0
	for _, n := range g.Nodes() {
		if e.skipsModel(n.ID) || !n.EnforcesContract() {
			continue
		}
		if scope != nil && !scope[n.ID] {
			continue
		}
		modelsChecked++

		c := contract.FromNode(n, e.enforcementFor(n))
		if c.IsZero() {
			continue
		}
		contractsValidated++

		fp := nodeInputFingerprint(n, c)
		if cached, ok := lookupMemo(opts.Store, n.ID, fp); ok {
			diags = append(diags, cached...)
			continue
		}

		res, _ := ig.Result(n.ID)
		downstream := g.Downstream(n.ID)
		nodeDiags := append(append([]diagnostic.Diagnostic(nil), res.Diags...),
			contractdiff.Diff(res.Schema, c, nil, n.ID+".sql", downstream)...)
		diags = append(diags, nodeDiags...)
		saveMemo(opts.Store, n.ID, fp, nodeDiags)
	}

	diags = diagnostic.ApplyOverrides(diags, e.severityOverrides())
	if e.Config.Redact {
		diags = redactAll(diags)
	}

	return report.Assemble(diags, report.RunContext{
		Timestamp:           time.Now(),
		ModelsChecked:       modelsChecked,
		ContractsValidated:  contractsValidated,
		StateComparison:     scMeta,
	}), nil
}

func redactAll(diags []diagnostic.Diagnostic) []diagnostic.Diagnostic {
	out := make([]diagnostic.Diagnostic, len(diags))
	for i, d := range diags {
		d.Message = report.Redact(d.Message)
		out[i] = d
	}
	return out
}

// stateComparisonMetadata classifies changes and computes the blast radius
// as the downstream-only closure of every changed-but-not-deleted node: a
// deleted node has no downstream in the current graph to speak of, and the
// changed nodes themselves are not part of their own blast radius.
func stateComparisonMetadata(g *manifest.Graph, changes []statecompare.Change) *report.StateComparisonMetadata {
	meta := &report.StateComparisonMetadata{}
	var seeds []string
	for _, c := range changes {
		isNew, isDeleted := false, false
		for _, r := range c.Reasons {
			switch r {
			case statecompare.ReasonNew:
				isNew = true
			case statecompare.ReasonDeleted:
				isDeleted = true
			}
		}
		switch {
		case isDeleted:
			meta.DeletedNodeIDs = append(meta.DeletedNodeIDs, c.NodeID)
		case isNew:
			meta.NewNodeIDs = append(meta.NewNodeIDs, c.NodeID)
			seeds = append(seeds, c.NodeID)
		default:
			meta.ModifiedNodeIDs = append(meta.ModifiedNodeIDs, c.NodeID)
			seeds = append(seeds, c.NodeID)
		}
	}
	meta.BlastRadiusCount = len(g.DownstreamClosure(seeds))
	return meta
}

func (e *Engine) enforcementFor(n *manifest.Node) contract.Enforcement {
	return contract.Enforcement{
		WideningAllowlist: e.Config.AllowWidening,
		AllowExtra:        contractdiff.MatchesAllowlist(n.ID, e.Config.AllowExtraColumns) || contractdiff.MatchesAllowlist(n.Name, e.Config.AllowExtraColumns),
	}
}

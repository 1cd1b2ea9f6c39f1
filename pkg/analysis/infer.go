package analysis

import (
	"context"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/leapstack-labs/dbtlens/pkg/diagnostic"
	"github.com/leapstack-labs/dbtlens/pkg/dialect"
	"github.com/leapstack-labs/dbtlens/pkg/inference"
	"github.com/leapstack-labs/dbtlens/pkg/logical"
	"github.com/leapstack-labs/dbtlens/pkg/manifest"
	"github.com/leapstack-labs/dbtlens/pkg/querylayer"
	"github.com/leapstack-labs/dbtlens/pkg/schema"
	"github.com/leapstack-labs/dbtlens/pkg/sqlparser"
	"github.com/leapstack-labs/dbtlens/pkg/template"
)

// inferResult is one model's schema-inference outcome: the output schema
// the SQL resolves to, plus every diagnostic raised reaching it (Jinja
// render failures, parse errors, inference warnings).
type inferResult struct {
	Schema schema.Schema
	Diags  []diagnostic.Diagnostic
}

func hashInferResult(r inferResult) uint64 {
	h := xxhash.New()
	for _, c := range r.Schema {
		_, _ = h.WriteString(c.Name)
		_, _ = h.WriteString(c.Type.String())
	}
	for _, d := range r.Diags {
		_, _ = h.WriteString(string(d.Code))
		_, _ = h.WriteString(d.Message)
	}
	return h.Sum64()
}

// inferenceGraph wires one querylayer.Derived[inferResult] per model node,
// each depending on the Derived nodes of the models it references, so
// EvaluateAll computes every model's schema in dependency order with the
// query layer's memoization and parallel level-evaluation.
type inferenceGraph struct {
	byID map[string]*querylayer.Derived[inferResult]
	qg   *querylayer.Graph
}

// buildInferenceGraph constructs the memoized per-node inference chain for
// every node in g. Seeds and sources have no SQL body and resolve purely
// from the catalog when referenced.
func buildInferenceGraph(g *manifest.Graph, reg *manifest.Registry, cat *manifest.Catalog, d *dialect.Dialect) *inferenceGraph {
	ig := &inferenceGraph{byID: map[string]*querylayer.Derived[inferResult]{}}

	// build creates a node's dependencies before the node itself, so every
	// DependsOn entry is wired regardless of ID order. g is acyclic.
	var build func(n *manifest.Node)
	build = func(n *manifest.Node) {
		if _, done := ig.byID[n.ID]; done {
			return
		}
		var deps []querylayer.Node
		for _, depID := range n.DependsOn {
			if parent, ok := g.Node(depID); ok {
				build(parent)
			}
			if dep, ok := ig.byID[depID]; ok {
				deps = append(deps, dep)
			}
		}

		compute := func(context.Context) (inferResult, error) {
			return inferNode(n, reg, ig, cat, d), nil
		}
		ig.byID[n.ID] = querylayer.NewDerived(hashInferResult, compute, deps...)
	}
	for _, n := range g.Nodes() {
		build(n)
	}

	all := make([]querylayer.Node, 0, len(ig.byID))
	for _, id := range sortedDerivedIDs(ig.byID) {
		all = append(all, ig.byID[id])
	}
	ig.qg = querylayer.NewGraph(all...)
	return ig
}

func sortedDerivedIDs(m map[string]*querylayer.Derived[inferResult]) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// EvaluateAll runs the full inference chain.
func (ig *inferenceGraph) EvaluateAll(ctx context.Context) error {
	return ig.qg.EvaluateAll(ctx)
}

// Result returns a previously evaluated node's inference outcome.
func (ig *inferenceGraph) Result(nodeID string) (inferResult, bool) {
	d, ok := ig.byID[nodeID]
	if !ok {
		return inferResult{}, false
	}
	return d.Get(), true
}

// inferNode renders, parses and infers the output schema for a single
// model node, resolving its upstream references through ig and, failing
// that, the catalog snapshot.
func inferNode(n *manifest.Node, reg *manifest.Registry, ig *inferenceGraph, cat *manifest.Catalog, d *dialect.Dialect) inferResult {
	sql := n.RawSQL
	if sql == "" {
		sql = n.CompiledSQL
	}
	if sql == "" {
		return inferResult{}
	}

	file := n.ID + ".sql"
	tmplCtx := buildTemplateContext(n, reg)
	rendered, tdiags := template.Render(sql, file, tmplCtx)

	stmt, pdiags := sqlparser.Parse(rendered, d, file)
	diags := append(append([]diagnostic.Diagnostic{}, tdiags...), pdiags...)
	if stmt == nil {
		return inferResult{Diags: diags}
	}

	lookup := func(tableName string) (schema.Schema, bool) {
		id, ok := reg.Resolve(tableName)
		if !ok {
			return nil, false
		}
		if dep, ok := ig.byID[id]; ok {
			if res := dep.Get(); len(res.Schema) > 0 {
				return res.Schema, true
			}
		}
		if cat != nil {
			if rel, ok := cat.Relations[id]; ok {
				return catalogSchema(rel), true
			}
		}
		return nil, false
	}

	out, idiags := inference.Infer(stmt, d, lookup, file, true)
	diags = append(diags, idiags...)
	return inferResult{Schema: out, Diags: diags}
}

func catalogSchema(rel manifest.CatalogRelation) schema.Schema {
	out := make(schema.Schema, len(rel.Columns))
	for i, c := range rel.Columns {
		out[i] = schema.Column{Name: c.Name, Type: logical.ParseTypeName(c.Type)}
	}
	return out
}

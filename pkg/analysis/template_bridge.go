package analysis

import (
	"strings"

	"github.com/leapstack-labs/dbtlens/pkg/manifest"
	"github.com/leapstack-labs/dbtlens/pkg/template"
)

// buildTemplateContext assembles the render-time Context for one model
// node: its own target/this identity, the project's ref()/source()
// resolution table built from the registry, and the node's declared
// config defaults (materialization only; {% config %} calls override this
// at render time).
func buildTemplateContext(n *manifest.Node, reg *manifest.Registry) *template.Context {
	ctx := &template.Context{
		Vars: map[string]any{},
		Target: template.TargetInfo{
			Name:     "dbtlens",
			Schema:   n.Schema,
			Database: n.Database,
		},
		This: template.ThisInfo{
			Name:     n.Relation,
			Schema:   n.Schema,
			Database: n.Database,
		},
		ModelConfig: map[string]any{
			"materialized": string(n.Materialization),
		},
		Refs:    map[string]string{},
		Sources: map[string][2]string{},
	}

	for _, other := range reg.Nodes() {
		switch other.Kind {
		case manifest.KindSource:
			sourceName, tableName := splitSourceID(other.ID, other.Name)
			ctx.Sources[sourceName+"."+tableName] = [2]string{other.Schema, other.Relation}
		default:
			ctx.Refs[other.Name] = other.Schema + "." + other.Relation
		}
	}
	return ctx
}

// splitSourceID recovers a source's declared source-name/table-name pair
// from its node ID, shaped "source.<project>.<source_name>.<table_name>"
// in dbt's own manifest convention. tableName falls back to the node's
// already-known Name if the ID doesn't follow that shape.
func splitSourceID(id, fallbackTable string) (sourceName, tableName string) {
	parts := strings.Split(id, ".")
	if len(parts) >= 4 {
		return parts[len(parts)-2], parts[len(parts)-1]
	}
	return "", fallbackTable
}

package contract

import (
	"sort"

	"github.com/leapstack-labs/dbtlens/pkg/logical"
	"github.com/leapstack-labs/dbtlens/pkg/manifest"
	"github.com/leapstack-labs/dbtlens/pkg/schema"
)

// FromNode builds the declared Contract for a manifest node from its
// YAML-declared column block. A node with Contract == false or no declared
// columns has no contract at all, reported via IsZero.
func FromNode(n *manifest.Node, enforcement Enforcement) Contract {
	if !n.Contract || len(n.Columns) == 0 {
		return Contract{Enforcement: enforcement}
	}
	cols := make(schema.Schema, 0, len(n.Columns))
	for _, c := range n.Columns {
		cols = append(cols, schema.Column{
			Name: c.Name,
			Type: logical.ParseTypeName(c.DataType),
		})
	}
	sort.Slice(cols, func(i, j int) bool { return cols[i].Name < cols[j].Name })
	return Contract{Columns: cols, Enforcement: enforcement}
}

package analysis

import (
	"testing"

	"github.com/leapstack-labs/dbtlens/pkg/manifest"
	"github.com/leapstack-labs/dbtlens/pkg/statecompare"
)

func buildChainGraph(t *testing.T) *manifest.Graph {
	t.Helper()
	nodes := []manifest.Node{
		{ID: "model.a", Name: "a", Kind: manifest.KindModel, Materialization: manifest.MaterializationTable},
		{ID: "model.b", Name: "b", Kind: manifest.KindModel, Materialization: manifest.MaterializationTable, DependsOn: []string{"model.a"}},
		{ID: "model.c", Name: "c", Kind: manifest.KindModel, Materialization: manifest.MaterializationTable, DependsOn: []string{"model.b"}},
	}
	g, err := manifest.NewGraph(nodes)
	if err != nil {
		t.Fatalf("unexpected error building graph: %v", err)
	}
	return g
}

func TestStateComparisonMetadataBlastRadiusExcludesChangedNode(t *testing.T) {
	g := buildChainGraph(t)
	changes := []statecompare.Change{
		{NodeID: "model.a", Reasons: []statecompare.Reason{statecompare.ReasonSqlChanged}},
	}
	meta := stateComparisonMetadata(g, changes)

	if meta.BlastRadiusCount != 2 {
		t.Fatalf("expected blast radius of 2 (model.b, model.c), got %d", meta.BlastRadiusCount)
	}
	if len(meta.ModifiedNodeIDs) != 1 || meta.ModifiedNodeIDs[0] != "model.a" {
		t.Fatalf("unexpected modified node ids: %v", meta.ModifiedNodeIDs)
	}
}

func TestStateComparisonMetadataDeletedNodeContributesNoBlastRadius(t *testing.T) {
	g := buildChainGraph(t)
	changes := []statecompare.Change{
		{NodeID: "model.removed", Reasons: []statecompare.Reason{statecompare.ReasonDeleted}},
	}
	meta := stateComparisonMetadata(g, changes)

	if meta.BlastRadiusCount != 0 {
		t.Fatalf("expected a deleted node to contribute no downstream blast radius, got %d", meta.BlastRadiusCount)
	}
	if len(meta.DeletedNodeIDs) != 1 || meta.DeletedNodeIDs[0] != "model.removed" {
		t.Fatalf("unexpected deleted node ids: %v", meta.DeletedNodeIDs)
	}
}

package statecompare

import (
	"testing"

	"github.com/leapstack-labs/dbtlens/pkg/manifest"
)

func mustGraph(t *testing.T, nodes []manifest.Node) *manifest.Graph {
	t.Helper()
	g, err := manifest.NewGraph(nodes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return g
}

func TestCompareDetectsSqlChange(t *testing.T) {
	prior := mustGraph(t, []manifest.Node{{ID: "model.a", CompiledSQL: "select 1"}})
	current := mustGraph(t, []manifest.Node{{ID: "model.a", CompiledSQL: "select 2"}})

	changes := Compare(prior, current)
	if len(changes) != 1 || changes[0].Reasons[0] != ReasonSqlChanged {
		t.Fatalf("unexpected changes: %#v", changes)
	}
}

func TestCompareDetectsNewAndDeleted(t *testing.T) {
	prior := mustGraph(t, []manifest.Node{{ID: "model.old"}})
	current := mustGraph(t, []manifest.Node{{ID: "model.new"}})

	changes := Compare(prior, current)
	if len(changes) != 2 {
		t.Fatalf("expected 2 changes, got %#v", changes)
	}
	if changes[0].NodeID != "model.new" || changes[0].Reasons[0] != ReasonNew {
		t.Errorf("expected model.new to be New, got %#v", changes[0])
	}
	if changes[1].NodeID != "model.old" || changes[1].Reasons[0] != ReasonDeleted {
		t.Errorf("expected model.old to be Deleted, got %#v", changes[1])
	}
}

func TestModifiedClosureIncludesDownstream(t *testing.T) {
	current := mustGraph(t, []manifest.Node{
		{ID: "model.a"},
		{ID: "model.b", DependsOn: []string{"model.a"}},
		{ID: "model.c", DependsOn: []string{"model.b"}},
	})
	closure := ModifiedClosure(current, []Change{{NodeID: "model.a", Reasons: []Reason{ReasonSqlChanged}}})
	want := map[string]bool{"model.a": true, "model.b": true, "model.c": true}
	if len(closure) != len(want) {
		t.Fatalf("unexpected closure: %v", closure)
	}
	for _, id := range closure {
		if !want[id] {
			t.Errorf("unexpected id in closure: %s", id)
		}
	}
}

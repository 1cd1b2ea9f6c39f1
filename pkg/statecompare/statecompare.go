// Package statecompare diffs two dbt manifest states to classify what
// changed about each model since a prior run.
package statecompare

import (
	"sort"

	"github.com/leapstack-labs/dbtlens/pkg/manifest"
)

// Reason is the closed set of ways a node can differ between two states.
type Reason string

const (
	ReasonNew                  Reason = "New"
	ReasonSqlChanged           Reason = "SqlChanged"
	ReasonColumnsChanged       Reason = "ColumnsChanged"
	ReasonDependenciesChanged  Reason = "DependenciesChanged"
	ReasonContractChanged      Reason = "ContractChanged"
	ReasonMaterializationChanged Reason = "MaterializationChanged"
	ReasonDeleted              Reason = "Deleted"
)

// Change is one node's classified difference between two states.
type Change struct {
	NodeID  string
	Reasons []Reason
}

// Compare diffs prior against current and returns every node that
// changed, sorted by NodeID.
func Compare(prior, current *manifest.Graph) []Change {
	var changes []Change

	for _, node := range current.Nodes() {
		old, existed := prior.Node(node.ID)
		if !existed {
			changes = append(changes, Change{NodeID: node.ID, Reasons: []Reason{ReasonNew}})
			continue
		}
		if reasons := diffNode(old, node); len(reasons) > 0 {
			changes = append(changes, Change{NodeID: node.ID, Reasons: reasons})
		}
	}

	for _, old := range prior.Nodes() {
		if _, stillExists := current.Node(old.ID); !stillExists {
			changes = append(changes, Change{NodeID: old.ID, Reasons: []Reason{ReasonDeleted}})
		}
	}

	sort.Slice(changes, func(i, j int) bool { return changes[i].NodeID < changes[j].NodeID })
	return changes
}

func diffNode(old, cur *manifest.Node) []Reason {
	var reasons []Reason
	if old.CompiledSQL != cur.CompiledSQL {
		reasons = append(reasons, ReasonSqlChanged)
	}
	if !sameColumns(old.Columns, cur.Columns) {
		reasons = append(reasons, ReasonColumnsChanged)
	}
	if !sameStrings(old.DependsOn, cur.DependsOn) {
		reasons = append(reasons, ReasonDependenciesChanged)
	}
	if old.Contract != cur.Contract {
		reasons = append(reasons, ReasonContractChanged)
	}
	if old.Materialization != cur.Materialization {
		reasons = append(reasons, ReasonMaterializationChanged)
	}
	return reasons
}

func sameColumns(a, b map[string]manifest.ColumnSpec) bool {
	if len(a) != len(b) {
		return false
	}
	for name, ca := range a {
		cb, ok := b[name]
		if !ok || ca != cb {
			return false
		}
	}
	return true
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	sa := append([]string{}, a...)
	sb := append([]string{}, b...)
	sort.Strings(sa)
	sort.Strings(sb)
	for i := range sa {
		if sa[i] != sb[i] {
			return false
		}
	}
	return true
}

// ModifiedClosure returns every changed node plus its full downstream
// closure in current, i.e. the blast radius of the changes in changes.
func ModifiedClosure(current *manifest.Graph, changes []Change) []string {
	ids := make([]string, 0, len(changes))
	for _, c := range changes {
		if _, ok := current.Node(c.NodeID); ok {
			ids = append(ids, c.NodeID)
		}
	}
	set := map[string]bool{}
	for _, id := range ids {
		set[id] = true
		for _, d := range current.Downstream(id) {
			set[d] = true
		}
	}
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Package manifest loads dbt-style manifest.json/catalog.json artifacts and
// exposes the model dependency graph used for downstream impact analysis.
package manifest

import (
	"fmt"
	"sort"
)

// Kind identifies the dbt node kind. Seeds, snapshots and ephemeral models
// are excluded from contract enforcement (they have no compiled SQL
// relation that a contract can be checked against, or in the ephemeral
// case no materialized relation at all).
type Kind string

const (
	KindModel    Kind = "model"
	KindSeed     Kind = "seed"
	KindSnapshot Kind = "snapshot"
	KindSource   Kind = "source"
	KindTest     Kind = "test"
	KindOther    Kind = "other"
)

// Materialization is the dbt materialization strategy.
type Materialization string

const (
	MaterializationTable      Materialization = "table"
	MaterializationView       Materialization = "view"
	MaterializationIncremental Materialization = "incremental"
	MaterializationEphemeral  Materialization = "ephemeral"
	MaterializationSeed       Materialization = "seed"
	MaterializationSnapshot   Materialization = "snapshot"
)

// EnforcesContract reports whether a node's kind/materialization pair is
// eligible for contract enforcement. Seeds, snapshots and ephemeral models
// are excluded.
func (n Node) EnforcesContract() bool {
	if n.Kind != KindModel {
		return false
	}
	return n.Materialization != MaterializationEphemeral
}

// Node is one dbt graph node: a model, seed, snapshot or source.
type Node struct {
	ID              string
	Name            string
	Kind            Kind
	Materialization Materialization
	Database        string
	Schema          string
	Relation        string // resolved relation/table name
	RawSQL          string
	CompiledSQL     string
	Contract        bool // contract_enforced in the declared config
	Columns         map[string]ColumnSpec
	DependsOn       []string // node IDs this node references
}

// ColumnSpec is a single declared column entry from the manifest.
type ColumnSpec struct {
	Name        string
	DataType    string
	Description string
}

// Graph is a directed graph of manifest nodes: an edge from parent to
// child means the child depends on (references) the parent.
type Graph struct {
	nodes   map[string]*Node
	edges   map[string][]string
	parents map[string][]string
}

// NewGraph builds a dependency graph from a flat set of nodes, wiring
// edges from each node's DependsOn list.
func NewGraph(nodes []Node) (*Graph, error) {
	g := &Graph{
		nodes:   make(map[string]*Node, len(nodes)),
		edges:   make(map[string][]string),
		parents: make(map[string][]string),
	}
	for i := range nodes {
		n := nodes[i]
		g.nodes[n.ID] = &n
		if _, ok := g.edges[n.ID]; !ok {
			g.edges[n.ID] = nil
		}
		if _, ok := g.parents[n.ID]; !ok {
			g.parents[n.ID] = nil
		}
	}
	for _, n := range nodes {
		for _, dep := range n.DependsOn {
			if err := g.addEdge(dep, n.ID); err != nil {
				return nil, err
			}
		}
	}
	if ok, cycle := g.hasCycle(); ok {
		return nil, fmt.Errorf("manifest graph contains a cycle: %v", cycle)
	}
	return g, nil
}

func (g *Graph) addEdge(parentID, childID string) error {
	if _, ok := g.nodes[parentID]; !ok {
		return fmt.Errorf("node %q depends on unknown node %q", childID, parentID)
	}
	if parentID == childID {
		return fmt.Errorf("self-loop detected at %q", parentID)
	}
	g.edges[parentID] = appendUnique(g.edges[parentID], childID)
	g.parents[childID] = appendUnique(g.parents[childID], parentID)
	return nil
}

func appendUnique(s []string, v string) []string {
	for _, x := range s {
		if x == v {
			return s
		}
	}
	return append(s, v)
}

// Node returns a node by ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns every node, sorted by ID for deterministic iteration.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (g *Graph) hasCycle() (bool, []string) {
	visited := map[string]bool{}
	stack := map[string]bool{}
	path := map[string]string{}
	var cycle []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		visited[id] = true
		stack[id] = true
		for _, child := range g.edges[id] {
			if !visited[child] {
				path[child] = id
				if dfs(child) {
					return true
				}
			} else if stack[child] {
				cycle = []string{child}
				for cur := id; cur != child; cur = path[cur] {
					cycle = append([]string{cur}, cycle...)
				}
				cycle = append([]string{child}, cycle...)
				return true
			}
		}
		stack[id] = false
		return false
	}

	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if !visited[id] {
			if dfs(id) {
				return true, cycle
			}
		}
	}
	return false, nil
}

// Downstream returns every node transitively dependent on id, excluding id
// itself, sorted by ID.
func (g *Graph) Downstream(id string) []string {
	visited := map[string]bool{}
	var walk func(string)
	walk = func(cur string) {
		for _, child := range g.edges[cur] {
			if !visited[child] {
				visited[child] = true
				walk(child)
			}
		}
	}
	walk(id)
	return sortedKeys(visited)
}

// Upstream returns every node id transitively depends on, excluding id
// itself, sorted by ID.
func (g *Graph) Upstream(id string) []string {
	visited := map[string]bool{}
	var walk func(string)
	walk = func(cur string) {
		for _, parent := range g.parents[cur] {
			if !visited[parent] {
				visited[parent] = true
				walk(parent)
			}
		}
	}
	walk(id)
	return sortedKeys(visited)
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DownstreamClosure returns the union of Downstream(id) for every id in
// ids, excluding the seed ids themselves, sorted and de-duplicated.
func (g *Graph) DownstreamClosure(ids []string) []string {
	set := map[string]bool{}
	for _, id := range ids {
		for _, d := range g.Downstream(id) {
			set[d] = true
		}
	}
	for _, id := range ids {
		delete(set, id)
	}
	return sortedKeys(set)
}

package manifest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// rawManifest mirrors the subset of dbt's manifest.json this loader
// needs: per-node metadata plus the ref()/source() dependency lists dbt
// itself already resolved at compile time.
type rawManifest struct {
	Nodes   map[string]rawNode `json:"nodes"`
	Sources map[string]rawNode `json:"sources"`
	Metadata struct {
		DbtSchemaVersion string `json:"dbt_schema_version"`
	} `json:"metadata"`
}

type rawNode struct {
	UniqueID       string                `json:"unique_id"`
	Name           string                `json:"name"`
	ResourceType   string                `json:"resource_type"`
	Database       string                `json:"database"`
	Schema         string                `json:"schema"`
	Alias          string                `json:"alias"`
	RawCode        string                `json:"raw_code"`
	CompiledCode   string                `json:"compiled_code"`
	DependsOn      rawDependsOn          `json:"depends_on"`
	Config         rawConfig             `json:"config"`
	Columns        map[string]rawColumn  `json:"columns"`
}

type rawDependsOn struct {
	Nodes []string `json:"nodes"`
}

type rawConfig struct {
	Materialized      string `json:"materialized"`
	ContractEnforced  bool   `json:"contract"`
}

// UnmarshalJSON supports both `"contract": true` (legacy) and the current
// `"contract": {"enforced": true}` shape.
func (c *rawConfig) UnmarshalJSON(data []byte) error {
	type alias struct {
		Materialized string `json:"materialized"`
		Contract     json.RawMessage `json:"contract"`
	}
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	c.Materialized = a.Materialized
	if len(a.Contract) == 0 {
		return nil
	}
	var asBool bool
	if err := json.Unmarshal(a.Contract, &asBool); err == nil {
		c.ContractEnforced = asBool
		return nil
	}
	var asObj struct {
		Enforced bool `json:"enforced"`
	}
	if err := json.Unmarshal(a.Contract, &asObj); err == nil {
		c.ContractEnforced = asObj.Enforced
	}
	return nil
}

type rawColumn struct {
	Name        string `json:"name"`
	DataType    string `json:"data_type"`
	Description string `json:"description"`
}

// Manifest is the loaded, normalized view of a dbt manifest.json: the
// dependency graph plus a lookup index (Registry) from any name variant a
// model can be referenced by to its canonical node ID.
type Manifest struct {
	Graph    *Graph
	Registry *Registry
}

// Load parses a manifest.json byte stream into a Manifest.
func Load(data []byte) (*Manifest, error) {
	var raw rawManifest
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	nodes := make([]Node, 0, len(raw.Nodes)+len(raw.Sources))
	for id, rn := range raw.Nodes {
		nodes = append(nodes, toNode(id, rn))
	}
	for id, rn := range raw.Sources {
		n := toNode(id, rn)
		n.Kind = KindSource
		nodes = append(nodes, n)
	}

	graph, err := NewGraph(nodes)
	if err != nil {
		return nil, err
	}

	registry := NewRegistry()
	for _, n := range graph.Nodes() {
		registry.Register(n)
	}

	return &Manifest{Graph: graph, Registry: registry}, nil
}

// recognizedKinds are the resource_type strings this package understands.
// Anything else (analyses, exposures, metrics, future dbt resource types)
// maps to KindOther rather than being trusted verbatim.
var recognizedKinds = map[Kind]bool{
	KindModel:    true,
	KindSeed:     true,
	KindSnapshot: true,
	KindSource:   true,
	KindTest:     true,
}

func toNode(id string, rn rawNode) Node {
	kind := Kind(rn.ResourceType)
	switch {
	case kind == "":
		kind = KindModel
	case !recognizedKinds[kind]:
		kind = KindOther
	}
	mat := Materialization(rn.Config.Materialized)
	if mat == "" {
		mat = MaterializationView
	}

	relation := rn.Alias
	if relation == "" {
		relation = rn.Name
	}

	columns := make(map[string]ColumnSpec, len(rn.Columns))
	for name, c := range rn.Columns {
		columns[name] = ColumnSpec{Name: c.Name, DataType: c.DataType, Description: c.Description}
	}

	return Node{
		ID:              id,
		Name:            rn.Name,
		Kind:            kind,
		Materialization: mat,
		Database:        rn.Database,
		Schema:          rn.Schema,
		Relation:        relation,
		RawSQL:          rn.RawCode,
		CompiledSQL:     rn.CompiledCode,
		Contract:        rn.Config.ContractEnforced,
		Columns:         columns,
		DependsOn:       dedupDeps(rn.DependsOn.Nodes),
	}
}

func dedupDeps(deps []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(deps))
	for _, d := range deps {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	return out
}

// Registry resolves a table name variant (schema-qualified, bare name, or
// full node ID) to its node ID, the way dbt's own ref()/source() resolution
// would.
type Registry struct {
	byID    map[string]*Node
	byName  map[string]string // bare model name -> node ID, last write wins
	byTable map[string]string // "schema.relation" -> node ID
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:    map[string]*Node{},
		byName:  map[string]string{},
		byTable: map[string]string{},
	}
}

// Register indexes a node under every name variant it can be referenced
// by: its node ID, its bare model name, and its schema-qualified relation.
func (r *Registry) Register(n *Node) {
	r.byID[n.ID] = n
	r.byName[strings.ToLower(n.Name)] = n.ID
	if n.Schema != "" {
		r.byTable[strings.ToLower(n.Schema+"."+n.Relation)] = n.ID
	}
	r.byTable[strings.ToLower(n.Relation)] = n.ID
}

// Resolve maps a table name reference to a node ID.
func (r *Registry) Resolve(name string) (string, bool) {
	if n, ok := r.byID[name]; ok {
		return n.ID, true
	}
	if id, ok := r.byTable[strings.ToLower(name)]; ok {
		return id, true
	}
	if id, ok := r.byName[strings.ToLower(name)]; ok {
		return id, true
	}
	return "", false
}

// Node returns a node by its canonical ID.
func (r *Registry) Node(id string) (*Node, bool) {
	n, ok := r.byID[id]
	return n, ok
}

// Nodes returns every registered node, sorted by ID for deterministic
// iteration.
func (r *Registry) Nodes() []*Node {
	out := make([]*Node, 0, len(r.byID))
	for _, n := range r.byID {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

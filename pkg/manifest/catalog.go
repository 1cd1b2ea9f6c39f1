package manifest

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Catalog is the loaded view of dbt's catalog.json: the warehouse's own
// description of each relation's columns, as of the last `dbt docs
// generate`. It is a point-in-time snapshot, distinct from the live
// warehouse query pkg/warehouse performs for drift detection.
type Catalog struct {
	Relations map[string]CatalogRelation // keyed by node ID
}

// CatalogRelation is one relation's column listing from catalog.json.
type CatalogRelation struct {
	Columns []CatalogColumn
}

// CatalogColumn is a single column entry as the warehouse reports it.
type CatalogColumn struct {
	Name string
	Type string
	Index int
}

type rawCatalog struct {
	Nodes map[string]rawCatalogNode `json:"nodes"`
}

type rawCatalogNode struct {
	Columns map[string]rawCatalogColumn `json:"columns"`
}

type rawCatalogColumn struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Index int    `json:"index"`
}

// LoadCatalog parses a catalog.json byte stream.
func LoadCatalog(data []byte) (*Catalog, error) {
	var raw rawCatalog
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	cat := &Catalog{Relations: make(map[string]CatalogRelation, len(raw.Nodes))}
	for id, rn := range raw.Nodes {
		cols := make([]CatalogColumn, 0, len(rn.Columns))
		for _, c := range rn.Columns {
			cols = append(cols, CatalogColumn{Name: c.Name, Type: c.Type, Index: c.Index})
		}
		sortByIndex(cols)
		cat.Relations[id] = CatalogRelation{Columns: cols}
	}
	return cat, nil
}

func sortByIndex(cols []CatalogColumn) {
	for i := 1; i < len(cols); i++ {
		for j := i; j > 0 && cols[j-1].Index > cols[j].Index; j-- {
			cols[j-1], cols[j] = cols[j], cols[j-1]
		}
	}
}

package manifest

import "fmt"

// Artifacts bundles the loaded manifest graph with its optional catalog
// snapshot, the unit of input the rest of the pipeline operates on. A
// manifest with no nodes at all (an empty or absent project) loads
// successfully with a zero-node Graph rather than erroring, so a run over
// an empty project is a no-op check, not a failure.
type Artifacts struct {
	Manifest *Manifest
	Catalog  *Catalog
}

// LoadArtifacts parses manifest.json and, if catalogJSON is non-empty,
// catalog.json, into one Artifacts value. A missing catalog is not an
// error: catalog-backed features (SELECT * expansion against a known
// physical schema) simply degrade, per §4.1.
func LoadArtifacts(manifestJSON, catalogJSON []byte) (*Artifacts, error) {
	man, err := Load(manifestJSON)
	if err != nil {
		return nil, fmt.Errorf("loading manifest: %w", err)
	}
	if len(catalogJSON) == 0 {
		return &Artifacts{Manifest: man}, nil
	}
	cat, err := LoadCatalog(catalogJSON)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return &Artifacts{Manifest: man, Catalog: cat}, nil
}

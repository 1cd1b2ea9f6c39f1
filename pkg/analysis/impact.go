package analysis

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/dbtlens/pkg/manifest"
)

// Impact returns every node transitively downstream of modelID: the blast
// radius a change to that model would carry, sorted by node ID.
func (e *Engine) Impact(ctx context.Context, artifacts *manifest.Artifacts, modelID string) ([]string, error) {
	g := artifacts.Manifest.Graph
	if _, ok := g.Node(modelID); !ok {
		return nil, fmt.Errorf("analysis: unknown node %q", modelID)
	}
	return g.Downstream(modelID), nil
}

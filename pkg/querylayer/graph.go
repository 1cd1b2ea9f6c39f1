package querylayer

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Graph holds every node that should be kept up to date by a single
// EvaluateAll call.
type Graph struct {
	nodes []Node
}

// NewGraph builds a Graph from its member nodes. Order does not matter;
// EvaluateAll derives dependency levels itself.
func NewGraph(nodes ...Node) *Graph {
	return &Graph{nodes: nodes}
}

// EvaluateAll brings every node in the graph up to date, evaluating nodes
// with no pending dependency in parallel within each level and stopping at
// the first error any node returns.
func (g *Graph) EvaluateAll(ctx context.Context) error {
	levels, err := levelOrder(g.nodes)
	if err != nil {
		return err
	}

	for _, level := range levels {
		grp, gctx := errgroup.WithContext(ctx)
		for _, n := range level {
			n := n
			grp.Go(func() error {
				return n.eval(gctx)
			})
		}
		if err := grp.Wait(); err != nil {
			return err
		}
	}
	return nil
}

// levelOrder groups nodes into dependency levels (Kahn's algorithm): level
// 0 has no dependencies among the given nodes, level 1 depends only on
// level 0, and so on. A dependency outside the given node set is treated
// as already satisfied (e.g. an Input not explicitly listed in the Graph).
func levelOrder(nodes []Node) ([][]Node, error) {
	inSet := make(map[Node]bool, len(nodes))
	for _, n := range nodes {
		inSet[n] = true
	}

	remaining := make(map[Node][]Node, len(nodes))
	for _, n := range nodes {
		var pending []Node
		for _, dep := range n.deps() {
			if inSet[dep] {
				pending = append(pending, dep)
			}
		}
		remaining[n] = pending
	}

	var levels [][]Node
	done := make(map[Node]bool, len(nodes))

	for len(done) < len(nodes) {
		var level []Node
		for _, n := range nodes {
			if done[n] {
				continue
			}
			ready := true
			for _, dep := range remaining[n] {
				if !done[dep] {
					ready = false
					break
				}
			}
			if ready {
				level = append(level, n)
			}
		}
		if len(level) == 0 {
			return nil, fmt.Errorf("querylayer: dependency cycle detected among graph nodes")
		}
		for _, n := range level {
			done[n] = true
		}
		levels = append(levels, level)
	}
	return levels, nil
}

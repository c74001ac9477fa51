// Package sampler implements the random G(n,m) DAG generator: rejection
// sampling over uniformly-drawn (source, target) pairs until a simple,
// acyclic, degree-bounded graph with exactly m edges is produced.
package sampler

import (
	"math/rand"

	"meshforge/internal/graph"
	"meshforge/pkg/apperror"
	"meshforge/pkg/metrics"
)

// Params configures a single sampling run.
type Params struct {
	VertexCount  int
	EdgeCount    int
	MaxDegreeCap int // exclusive upper bound, applied only when HasDegreeCap is set
	HasDegreeCap bool
}

// RandomGNMGraph returns a simple DAG with exactly VertexCount vertices and
// EdgeCount edges, with MaxDegree() < MaxDegreeCap when HasDegreeCap is set.
// Edges are drawn uniformly at random from all (source != target) pairs
// until the edge count target is reached; duplicate draws are absorbed by
// further iterations. If the resulting graph is cyclic, or exceeds the
// degree cap, the whole graph is discarded and resampled.
func RandomGNMGraph(p Params, rng *rand.Rand) (*graph.DiGraph, error) {
	if p.VertexCount <= 0 {
		return nil, apperror.New(apperror.CodeConfigInvalid, "vertex count must be positive")
	}
	maxPossibleEdges := p.VertexCount * (p.VertexCount - 1)
	if p.EdgeCount > maxPossibleEdges {
		return nil, apperror.New(apperror.CodeConfigInvalid, "edge count exceeds V*(V-1) for the requested vertex count").
			WithDetails("edge_count", p.EdgeCount).
			WithDetails("max_possible", maxPossibleEdges)
	}

	for {
		b := graph.WithNodeAndEdgeCount(p.VertexCount, p.EdgeCount)
		for b.EdgeCount() < p.EdgeCount {
			s, t := selectRandomEdge(p.VertexCount, rng)
			// select_random_edge never yields s == t and the indices are
			// always in range, so AddEdge cannot fail here. The builder
			// accepts duplicate pairs, so a pair that is already present is
			// skipped and costs one more draw.
			duplicate := false
			for _, existing := range b.Build().Successors(graph.NodeIndex(s)) {
				if existing == graph.NodeIndex(t) {
					duplicate = true
					break
				}
			}
			if duplicate {
				continue
			}
			_, _ = b.AddEdge(graph.Edge{Source: graph.NodeIndex(s), Target: graph.NodeIndex(t)})
		}

		g := b.Build()
		if !g.IsAcyclic() {
			metrics.Get().RecordSamplerRejection("cyclic")
			continue
		}
		if p.HasDegreeCap && g.MaxDegree() >= p.MaxDegreeCap {
			metrics.Get().RecordSamplerRejection("degree_cap")
			continue
		}
		return g, nil
	}
}

// selectRandomEdge draws a uniformly random ordered pair of distinct vertex
// ids in [0, n).
func selectRandomEdge(n int, rng *rand.Rand) (int, int) {
	source := rng.Intn(n)
	target := rng.Intn(n)
	for target == source {
		target = rng.Intn(n)
	}
	return source, target
}

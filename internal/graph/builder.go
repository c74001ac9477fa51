package graph

import (
	"math"

	"meshforge/pkg/apperror"
)

// Builder constructs a DiGraph incrementally. Adding an edge whose endpoint
// is out of range or that is a self-loop fails; duplicate edges are
// permitted here and rejected, if at all, by downstream samplers.
type Builder struct {
	g *DiGraph
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{g: &DiGraph{}}
}

// WithNodeCount preallocates n vertices.
func WithNodeCount(n int) *Builder {
	return NewBuilder().AddNodes(n)
}

// WithEdgeCount preallocates the minimum number of vertices that can hold e
// edges without duplicates or self-loops, via ceil(sqrt(2*e) + 0.5) — the
// smallest n such that n*(n-1)/2 >= e.
func WithEdgeCount(e int) *Builder {
	n := minNodesForEdges(e)
	return NewBuilder().AddNodes(n)
}

// WithNodeAndEdgeCount preallocates max(n, minimum vertices needed for e).
func WithNodeAndEdgeCount(n, e int) *Builder {
	min := minNodesForEdges(e)
	if min > n {
		n = min
	}
	return NewBuilder().AddNodes(n)
}

func minNodesForEdges(e int) int {
	if e <= 0 {
		return 0
	}
	return int(math.Ceil(math.Sqrt(2.0*float64(e)) + 0.5))
}

// AddNode appends a single vertex and returns its index.
func (b *Builder) AddNode() NodeIndex {
	b.g.nodes = append(b.g.nodes, nodeData{firstOutgoing: noEdge, firstIncoming: noEdge})
	return NodeIndex(len(b.g.nodes) - 1)
}

// AddNodes appends n vertices and returns the builder for chaining.
func (b *Builder) AddNodes(n int) *Builder {
	for i := 0; i < n; i++ {
		b.AddNode()
	}
	return b
}

// AddEdge appends an edge to both the source's outgoing chain and the
// target's incoming chain by prepending: the new edge becomes the new head,
// pointing at the old head. This is what gives Successors/Predecessors
// their reverse-insertion-order contract.
func (b *Builder) AddEdge(e Edge) (*Builder, error) {
	n := len(b.g.nodes)
	if int(e.Source) < 0 || int(e.Source) >= n || int(e.Target) < 0 || int(e.Target) >= n {
		return b, apperror.New(apperror.CodeConfigInvalid, "edge endpoint out of range").
			WithDetails("edge", e)
	}
	if e.Source == e.Target {
		return b, apperror.New(apperror.CodeConfigInvalid, "self-loops are not allowed").
			WithDetails("node", e.Source)
	}

	idx := EdgeIndex(len(b.g.edges))
	b.g.edges = append(b.g.edges, edgeData{
		source:        e.Source,
		target:        e.Target,
		nextOutgoing:  b.g.nodes[e.Source].firstOutgoing,
		nextIncoming:  b.g.nodes[e.Target].firstIncoming,
	})
	b.g.nodes[e.Source].firstOutgoing = idx
	b.g.nodes[e.Target].firstIncoming = idx
	return b, nil
}

// AddEdges appends each edge in order, stopping at the first failure.
func (b *Builder) AddEdges(edges []Edge) (*Builder, error) {
	for _, e := range edges {
		var err error
		b, err = b.AddEdge(e)
		if err != nil {
			return b, err
		}
	}
	return b, nil
}

// EdgeCount returns the number of edges added so far.
func (b *Builder) EdgeCount() int { return len(b.g.edges) }

// NodeCount returns the number of vertices added so far.
func (b *Builder) NodeCount() int { return len(b.g.nodes) }

// MaxDegree returns the graph's current maximum degree.
func (b *Builder) MaxDegree() int { return b.g.MaxDegree() }

// Build finalizes and returns the constructed graph.
func (b *Builder) Build() *DiGraph {
	return b.g
}

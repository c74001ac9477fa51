// Package graph implements the CSR-style directed graph used as the
// substrate for topology synthesis and equitable coloring: two parallel
// arrays (per-vertex metadata, per-edge records) with explicit linked
// chains standing in for adjacency lists, supporting O(1) append during
// construction and reverse-insertion-order traversal.
package graph

import "sort"

// NodeIndex identifies a vertex. Vertices are always numbered [0, N).
type NodeIndex int

// EdgeIndex identifies an edge by its position in the edge table.
type EdgeIndex int

// noEdge is the sentinel for "no edge" in a chain head/next pointer.
const noEdge = EdgeIndex(-1)

// Edge is an ordered (source, target) pair.
type Edge struct {
	Source NodeIndex
	Target NodeIndex
}

type nodeData struct {
	firstOutgoing EdgeIndex
	firstIncoming EdgeIndex
}

type edgeData struct {
	source, target             NodeIndex
	nextOutgoing, nextIncoming EdgeIndex
}

// DiGraph is a directed graph with stable vertex and edge indices.
type DiGraph struct {
	nodes []nodeData
	edges []edgeData
}

// NodeCount returns the number of vertices.
func (g *DiGraph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *DiGraph) EdgeCount() int { return len(g.edges) }

// Successors returns v's out-neighbors in reverse-insertion order: the most
// recently added outgoing edge of v is yielded first. This is the natural
// order of the linked chain and is treated as the vertex's canonical
// neighbor order throughout coloring and selection.
func (g *DiGraph) Successors(v NodeIndex) []NodeIndex {
	var out []NodeIndex
	for e := g.nodes[v].firstOutgoing; e != noEdge; e = g.edges[e].nextOutgoing {
		out = append(out, g.edges[e].target)
	}
	return out
}

// Predecessors returns v's in-neighbors in reverse-insertion order.
func (g *DiGraph) Predecessors(v NodeIndex) []NodeIndex {
	var out []NodeIndex
	for e := g.nodes[v].firstIncoming; e != noEdge; e = g.edges[e].nextIncoming {
		out = append(out, g.edges[e].source)
	}
	return out
}

// InDegree returns the number of incoming edges of v.
func (g *DiGraph) InDegree(v NodeIndex) int {
	n := 0
	for e := g.nodes[v].firstIncoming; e != noEdge; e = g.edges[e].nextIncoming {
		n++
	}
	return n
}

// OutDegree returns the number of outgoing edges of v.
func (g *DiGraph) OutDegree(v NodeIndex) int {
	n := 0
	for e := g.nodes[v].firstOutgoing; e != noEdge; e = g.edges[e].nextOutgoing {
		n++
	}
	return n
}

// IterEdges yields each edge exactly once: for each vertex in ascending id,
// its outgoing edges in reverse-insertion order.
func (g *DiGraph) IterEdges() []Edge {
	out := make([]Edge, 0, len(g.edges))
	for v := 0; v < len(g.nodes); v++ {
		for _, t := range g.Successors(NodeIndex(v)) {
			out = append(out, Edge{Source: NodeIndex(v), Target: t})
		}
	}
	return out
}

// MaxDegree returns the maximum over all vertices of in-degree + out-degree.
func (g *DiGraph) MaxDegree() int {
	max := 0
	for v := 0; v < len(g.nodes); v++ {
		d := g.InDegree(NodeIndex(v)) + g.OutDegree(NodeIndex(v))
		if d > max {
			max = d
		}
	}
	return max
}

// IsAcyclic reports whether the graph has no directed cycle, via Kahn's
// algorithm over in-degree counters. Self-loops cannot occur: the builder
// rejects them.
func (g *DiGraph) IsAcyclic() bool {
	n := len(g.nodes)
	inDegree := make([]int, n)
	for v := 0; v < n; v++ {
		inDegree[v] = g.InDegree(NodeIndex(v))
	}

	queue := make([]NodeIndex, 0, n)
	for v := 0; v < n; v++ {
		if inDegree[v] == 0 {
			queue = append(queue, NodeIndex(v))
		}
	}

	visited := 0
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		visited++
		for _, t := range g.Successors(v) {
			inDegree[t]--
			if inDegree[t] == 0 {
				queue = append(queue, t)
			}
		}
	}
	return visited == n
}

// SortedNeighbors returns v's successors sorted ascending by id, the order
// the equitable coloring algorithm relies on for determinism.
func (g *DiGraph) SortedNeighbors(v NodeIndex) []NodeIndex {
	succ := g.Successors(v)
	sort.Slice(succ, func(i, j int) bool { return succ[i] < succ[j] })
	return succ
}

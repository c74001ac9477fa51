package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccessorsReverseInsertionOrder(t *testing.T) {
	// N0 ---E0---> N1
	// |
	// E1
	// |
	// v
	// N2
	b := WithNodeCount(3)
	_, err := b.AddEdges([]Edge{{0, 1}, {0, 2}})
	require.NoError(t, err)
	g := b.Build()

	assert.Equal(t, []NodeIndex{2, 1}, g.Successors(0))
}

func TestIterEdgesVertexAscendingReverseInsertion(t *testing.T) {
	e0 := Edge{0, 1}
	e1 := Edge{1, 2}
	e2 := Edge{0, 3}
	e3 := Edge{3, 2}

	b := WithNodeCount(4)
	_, err := b.AddEdges([]Edge{e0, e1, e2, e3})
	require.NoError(t, err)
	g := b.Build()

	assert.Equal(t, []NodeIndex{3, 1}, g.Successors(0))
	assert.Equal(t, []Edge{e2, e0, e1, e3}, g.IterEdges())
}

func TestAddEdgeRejectsSelfLoop(t *testing.T) {
	b := WithNodeCount(2)
	_, err := b.AddEdge(Edge{0, 0})
	assert.Error(t, err)
}

func TestAddEdgeRejectsOutOfRange(t *testing.T) {
	b := WithNodeCount(2)
	_, err := b.AddEdge(Edge{0, 5})
	assert.Error(t, err)
}

func TestMaxDegree(t *testing.T) {
	// star: 0 -> 1, 0 -> 2, 0 -> 3
	b := WithNodeCount(4)
	_, err := b.AddEdges([]Edge{{0, 1}, {0, 2}, {0, 3}})
	require.NoError(t, err)
	g := b.Build()

	assert.Equal(t, 3, g.MaxDegree())
}

func TestIsAcyclic(t *testing.T) {
	b := WithNodeCount(3)
	_, err := b.AddEdges([]Edge{{0, 1}, {1, 2}})
	require.NoError(t, err)
	assert.True(t, b.Build().IsAcyclic())

	c := WithNodeCount(3)
	_, err = c.AddEdges([]Edge{{0, 1}, {1, 2}, {2, 0}})
	require.NoError(t, err)
	assert.False(t, c.Build().IsAcyclic())
}

func TestWithEdgeCountMinimumNodes(t *testing.T) {
	// 3 edges need at least 3 nodes (3 choose 2 == 3).
	b := WithEdgeCount(3)
	assert.GreaterOrEqual(t, b.NodeCount(), 3)
}

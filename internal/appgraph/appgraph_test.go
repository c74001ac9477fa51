package appgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meshforge/internal/coloring"
	"meshforge/internal/graph"
)

func TestApplicationGraphBasics(t *testing.T) {
	b := graph.WithNodeCount(3)
	_, err := b.AddEdges([]graph.Edge{{Source: 0, Target: 1}, {Source: 1, Target: 2}})
	require.NoError(t, err)
	g := b.Build()

	col := coloring.Coloring{0, 1, 0}
	cg := NewColoredGraph(g, col, 2)
	a := NewApplicationGraph(cg, []Language{"python", "go"}, 30100, []string{"h0", "h1", "h2"})

	assert.Equal(t, 2, a.ServiceCount())
	assert.Equal(t, []int{2, 0}, a.IterEndpointsOfService(0))
	assert.Equal(t, []int{1}, a.IterEndpointsOfService(1))
	assert.Equal(t, 0, a.ServiceOf(0))
	assert.Equal(t, 1, a.ServiceOf(1))
	assert.True(t, a.IsUserFrontend(0))
	assert.False(t, a.IsUserFrontend(1))
	assert.Equal(t, "/endpoint1", a.EndpointPath(1))
	assert.Equal(t, "HOST_SERVICE_1", a.HostEnvVar(1))
	assert.Equal(t, "service-1", a.HostName(1))
	assert.Equal(t, "h1", a.HandlerDirOf(1))

	services := a.IterServices()
	require.Len(t, services, 2)
	assert.Equal(t, Service{Color: 0, Language: "python", Port: 30100}, services[0])
	assert.Equal(t, Service{Color: 1, Language: "go", Port: 30101}, services[1])

	calls := a.IterServiceCalls(1)
	require.Len(t, calls, 1)
	assert.Equal(t, graph.NodeIndex(2), calls[0].Target)
}

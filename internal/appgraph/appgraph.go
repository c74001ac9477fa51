// Package appgraph binds a coloring to a directed graph, producing the
// Application Graph: services (color classes) with a language and a port,
// endpoints (vertices) grouped by service, and the inter-service call
// structure inherited from the underlying graph's edges.
package appgraph

import (
	"fmt"

	"meshforge/internal/coloring"
	"meshforge/internal/graph"
)

// Language identifies a handler implementation language, e.g. "python".
type Language string

// Service is one color class: a single deployed process exposing the
// endpoints assigned to it on one port.
type Service struct {
	Color    int
	Language Language
	Port     int
}

// ColoredGraph binds a coloring to a graph, grouping vertices by color in
// the same reverse-insertion order the graph itself uses for adjacency.
type ColoredGraph struct {
	g          *graph.DiGraph
	coloring   coloring.Coloring
	colorNodes [][]int
}

// NewColoredGraph groups g's vertices by col, assuming colorCount classes.
func NewColoredGraph(g *graph.DiGraph, col coloring.Coloring, colorCount int) *ColoredGraph {
	colorNodes := make([][]int, colorCount)
	for v := 0; v < len(col); v++ {
		c := col[v]
		colorNodes[c] = append([]int{v}, colorNodes[c]...)
	}
	return &ColoredGraph{g: g, coloring: col, colorNodes: colorNodes}
}

// ColorCount returns the number of color classes (services).
func (cg *ColoredGraph) ColorCount() int { return len(cg.colorNodes) }

// NodesOf returns the vertices colored c, in reverse-insertion order.
func (cg *ColoredGraph) NodesOf(c int) []int { return cg.colorNodes[c] }

// ApplicationGraph is the sole output of assembly: a colored graph plus the
// per-service language/port assignment and the per-endpoint handler
// directory assignment.
type ApplicationGraph struct {
	cg          *ColoredGraph
	languages   []Language // indexed by color
	startPort   int
	handlerDirs []string // indexed by endpoint
}

// NewApplicationGraph constructs the Application Graph. languages and
// handlerDirs must be indexed by color and by endpoint respectively.
func NewApplicationGraph(cg *ColoredGraph, languages []Language, startPort int, handlerDirs []string) *ApplicationGraph {
	return &ApplicationGraph{
		cg:          cg,
		languages:   languages,
		startPort:   startPort,
		handlerDirs: handlerDirs,
	}
}

// ServiceCount returns the number of services (color classes).
func (a *ApplicationGraph) ServiceCount() int { return a.cg.ColorCount() }

// IterServices returns every service in color order.
func (a *ApplicationGraph) IterServices() []Service {
	out := make([]Service, a.ServiceCount())
	for c := range out {
		out[c] = Service{Color: c, Language: a.languages[c], Port: a.startPort + c}
	}
	return out
}

// IterEndpointsOfService returns the endpoints assigned to service color, in
// reverse-insertion order.
func (a *ApplicationGraph) IterEndpointsOfService(color int) []int {
	return a.cg.NodesOf(color)
}

// IterEndpoints returns every endpoint id in ascending order.
func (a *ApplicationGraph) IterEndpoints() []int {
	out := make([]int, len(a.cg.coloring))
	for i := range out {
		out[i] = i
	}
	return out
}

// IterServiceCalls returns endpoint's outgoing service calls as (endpoint,
// target) edges.
func (a *ApplicationGraph) IterServiceCalls(endpoint int) []graph.Edge {
	succ := a.cg.g.Successors(graph.NodeIndex(endpoint))
	out := make([]graph.Edge, len(succ))
	for i, t := range succ {
		out[i] = graph.Edge{Source: graph.NodeIndex(endpoint), Target: t}
	}
	return out
}

// EndpointPath returns the endpoint's synthetic route path.
func (a *ApplicationGraph) EndpointPath(endpoint int) string {
	return fmt.Sprintf("/endpoint%d", endpoint)
}

// ServiceOf returns the service (color) an endpoint is assigned to.
func (a *ApplicationGraph) ServiceOf(endpoint int) int {
	return a.cg.coloring[endpoint]
}

// IsUserFrontend reports whether endpoint has no incoming service calls.
func (a *ApplicationGraph) IsUserFrontend(endpoint int) bool {
	return a.cg.g.InDegree(graph.NodeIndex(endpoint)) == 0
}

// HostEnvVar returns the peer-discovery environment variable name for a
// service.
func (a *ApplicationGraph) HostEnvVar(service int) string {
	return fmt.Sprintf("HOST_SERVICE_%d", service)
}

// HostName returns the service's container/DNS host name.
func (a *ApplicationGraph) HostName(service int) string {
	return fmt.Sprintf("service-%d", service)
}

// HandlerDirOf returns the handler directory assigned to endpoint.
func (a *ApplicationGraph) HandlerDirOf(endpoint int) string {
	return a.handlerDirs[endpoint]
}

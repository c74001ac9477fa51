package assembly

import (
	"hash/fnv"
	"math/rand"
	"sort"
	"time"

	"meshforge/internal/appgraph"
	"meshforge/internal/coloring"
	"meshforge/internal/graph"
	"meshforge/internal/handler"
	"meshforge/internal/sampler"
	"meshforge/internal/selection"
	"meshforge/internal/servicetype"
	"meshforge/pkg/apperror"
	"meshforge/pkg/logger"
	"meshforge/pkg/metrics"
)

// Result is the sole output of Assembly: the Application Graph plus the
// bound per-endpoint function/dependency lookup.
type Result struct {
	RunID       string
	Application *appgraph.ApplicationGraph
	Bound       *handler.Bound
}

// Run drives the full pipeline (steps 1-8): seed the RNG, obtain a
// topology, color it, build the handler registry, select per-color
// language and service type, select per-endpoint resource and handler, and
// bind everything into the Application Graph.
func Run(cfg Config) (*Result, error) {
	start := time.Now()
	log := logger.WithRunID(cfg.RunID).With("component", "assembly")

	result, err := run(cfg)

	metrics.Get().RecordGeneration(string(cfg.Mode), err == nil, time.Since(start))
	if err != nil {
		log.Error("generation run failed", "error", err)
		return nil, err
	}

	endpoints := result.Application.IterEndpoints()
	edgeCount := 0
	for _, e := range endpoints {
		edgeCount += len(result.Application.IterServiceCalls(e))
	}
	metrics.Get().RecordGraphSize(string(cfg.Mode), len(endpoints), edgeCount)

	log.Info("generation run complete",
		"endpoints", len(endpoints), "services", result.Application.ServiceCount())
	return result, nil
}

func run(cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(seedToInt64(cfg.Seed)))

	g, coloringResult, err := buildTopology(cfg, rng)
	if err != nil {
		return nil, err
	}

	registry, err := handler.BuildRegistry(cfg.HandlerRoot, languageNames(cfg.Languages))
	if err != nil {
		return nil, err
	}

	colorCount := cfg.ColorCount
	languages := make([]appgraph.Language, colorCount)
	chosenServiceTypes := make([]servicetype.ServiceType, colorCount)

	if cfg.Mode == ModeManual {
		copy(languages, cfg.Assignment.Languages)
	}

	for c := 0; c < colorCount; c++ {
		if cfg.Mode != ModeManual {
			lang, err := selection.Language(rng, toWeightedLanguages(cfg.Languages))
			if err != nil {
				return nil, err
			}
			languages[c] = lang

			st, err := selection.ServiceType(rng, cfg.ServiceTypes)
			if err != nil {
				return nil, err
			}
			chosenServiceTypes[c] = st
		}
	}

	cg := appgraph.NewColoredGraph(g, coloringResult, colorCount)

	handlerDirs := make([]string, g.NodeCount())
	if cfg.Mode == ModeManual {
		copy(handlerDirs, cfg.Assignment.HandlerDirs)
	} else {
		for endpoint := 0; endpoint < g.NodeCount(); endpoint++ {
			color := coloringResult[endpoint]
			st := chosenServiceTypes[color]
			resource, err := selection.Resource(rng, st)
			if err != nil {
				return nil, err
			}

			pool := registry.HandlersFor(string(languages[color]))
			sorted := sortedByResource(pool, resource.Resource)
			bucket := selection.Bucket(sorted, resource)
			if len(bucket) == 0 {
				return nil, apperror.New(apperror.CodeNotEnoughHandlers, "resource bucket is empty").
					WithDetails("language", languages[color]).
					WithDetails("resource", resource.Resource)
			}
			choice := bucket[rng.Intn(len(bucket))]
			handlerDirs[endpoint] = choice.Directory
		}
	}

	app := appgraph.NewApplicationGraph(cg, languages, cfg.StartPort, handlerDirs)

	bound, err := handler.Bind(handlerDirs)
	if err != nil {
		return nil, err
	}

	return &Result{RunID: cfg.RunID, Application: app, Bound: bound}, nil
}

// buildTopology returns the graph and coloring, either by sampling (auto
// pilot) or from the caller-supplied topology (hybrid/manual).
func buildTopology(cfg Config, rng *rand.Rand) (*graph.DiGraph, coloring.Coloring, error) {
	if cfg.Mode != ModeAutoPilot {
		edges := make([]graph.Edge, len(cfg.Topology.Edges))
		for i, e := range cfg.Topology.Edges {
			edges[i] = graph.Edge{Source: graph.NodeIndex(e[0]), Target: graph.NodeIndex(e[1])}
		}
		b := graph.WithNodeCount(len(cfg.Topology.ServiceOf))
		if _, err := b.AddEdges(edges); err != nil {
			return nil, nil, err
		}
		g := b.Build()
		if !g.IsAcyclic() {
			return nil, nil, apperror.ErrCyclicGraph
		}

		col := make(coloring.Coloring, len(cfg.Topology.ServiceOf))
		copy(col, cfg.Topology.ServiceOf)
		if err := coloring.IsColoring(g.IterEdges(), col); err != nil {
			return nil, nil, err
		}
		return g, col, nil
	}

	g, err := sampler.RandomGNMGraph(sampler.Params{
		VertexCount:  cfg.VertexCount,
		EdgeCount:    cfg.EdgeCount,
		MaxDegreeCap: cfg.ColorCount,
		HasDegreeCap: true,
	}, rng)
	if err != nil {
		return nil, nil, err
	}

	col, err := coloring.EquitableColoring(g, cfg.ColorCount, string(cfg.Mode))
	if err != nil {
		return nil, nil, err
	}
	return g, col, nil
}

// seedToInt64 derives a deterministic int64 RNG seed from the
// user-supplied seed string, so byte-identical strings always produce
// byte-identical runs.
func seedToInt64(seed string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(seed))
	return int64(h.Sum64())
}

func languageNames(weights []LanguageWeight) []string {
	names := make([]string, len(weights))
	for i, w := range weights {
		names[i] = string(w.Language)
	}
	return names
}

func toWeightedLanguages(weights []LanguageWeight) []selection.WeightedLanguage {
	out := make([]selection.WeightedLanguage, len(weights))
	for i, w := range weights {
		out[i] = selection.WeightedLanguage{Language: w.Language, Fraction: w.Fraction}
	}
	return out
}

// sortedByResource returns a stable-sorted copy of pool ascending by its
// utilization of resource, the precondition Selection's bucket
// partitioning assumes.
func sortedByResource(pool []handler.Definition, resource handler.Resource) []handler.Definition {
	sorted := make([]handler.Definition, len(pool))
	copy(sorted, pool)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CompareByResourceType(sorted[j], resource) < 0
	})
	return sorted
}

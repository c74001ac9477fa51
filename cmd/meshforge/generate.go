package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"meshforge/internal/appgraph"
	"meshforge/internal/assembly"
	"meshforge/internal/handler"
	"meshforge/internal/servicetype"
	"meshforge/pkg/config"
	"meshforge/pkg/logger"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Synthesize an application graph from the loaded config and print a summary",
	RunE:  runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	acfg, err := toAssemblyConfig(cfg)
	if err != nil {
		return err
	}

	result, err := assembly.Run(acfg)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	printSummary(acfg, result)
	return nil
}

// toAssemblyConfig maps the loaded, validated external config onto
// Assembly's input contract. The mode is taken from app.mode, but this
// command never fills Topology or Assignment, so only auto-pilot runs pass
// assembly's validation here; hybrid/manual topologies are a library-level
// entry point (assembly.Run accepts them directly).
func toAssemblyConfig(c *config.Config) (assembly.Config, error) {
	seed := c.App.Seed
	if seed == "" {
		var err error
		seed, err = assembly.RandomSeed()
		if err != nil {
			return assembly.Config{}, fmt.Errorf("generating random seed: %w", err)
		}
	}

	runID := uuid.NewString()

	serviceTypes := make([]servicetype.ServiceType, len(c.Workload.ServiceTypes))
	for i, st := range c.Workload.ServiceTypes {
		resources := make([]servicetype.Resource, len(st.Resources))
		for j, r := range st.Resources {
			resources[j] = servicetype.Resource{
				Resource:  handler.Resource(r.Kind),
				Fraction:  r.Fraction,
				Intensity: toIntensity(r.Intensity),
			}
		}
		serviceTypes[i] = servicetype.ServiceType{Fraction: st.Fraction, Resources: resources}
	}

	languages := make([]assembly.LanguageWeight, len(c.Workload.Languages))
	for i, l := range c.Workload.Languages {
		languages[i] = assembly.LanguageWeight{Language: appgraph.Language(l.Name), Fraction: l.Weight}
	}

	return assembly.Config{
		AppName:      c.App.Name,
		RunID:        runID,
		Seed:         seed,
		StartPort:    c.App.StartPort,
		Mode:         assembly.Mode(c.App.Mode),
		VertexCount:  c.Topology.VertexCount,
		EdgeCount:    c.Topology.EdgeCount,
		ColorCount:   c.Topology.ColorCount,
		ServiceTypes: serviceTypes,
		Languages:    languages,
		HandlerRoot:  c.Handlers.RootDir,
	}, nil
}

// toIntensity maps the config layer's plain string onto the domain enum.
// Both already agree on the low/mid/high vocabulary; config.Validate has
// already rejected anything else by the time this runs.
func toIntensity(s string) servicetype.ResourceIntensity {
	switch s {
	case "low":
		return servicetype.IntensityLow
	case "mid":
		return servicetype.IntensityMid
	default:
		return servicetype.IntensityHigh
	}
}

func printSummary(acfg assembly.Config, result *assembly.Result) {
	app := result.Application
	log := logger.WithRunID(result.RunID)

	log.Info("application graph generated",
		"app_name", acfg.AppName,
		"seed", acfg.Seed,
		"mode", acfg.Mode,
		"services", app.ServiceCount(),
		"endpoints", len(app.IterEndpoints()))

	fmt.Printf("run %s: %s (%s mode)\n", result.RunID, acfg.AppName, acfg.Mode)
	fmt.Printf("  seed:     %s\n", acfg.Seed)
	fmt.Printf("  services: %d\n", app.ServiceCount())
	fmt.Printf("  endpoints: %d\n", len(app.IterEndpoints()))

	for _, svc := range app.IterServices() {
		endpoints := app.IterEndpointsOfService(svc.Color)
		fmt.Printf("  service %d: %s on %s:%d (%d endpoints)\n",
			svc.Color, svc.Language, app.HostName(svc.Color), svc.Port, len(endpoints))
		for _, e := range endpoints {
			fn := result.Bound.GetFunction(e)
			name := "?"
			if fn != nil {
				name = fn.Signature.Function
			}
			fmt.Printf("    %s -> %s (%s)\n", app.EndpointPath(e), name, app.HandlerDirOf(e))
		}
	}
}

// pkg/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"meshforge/pkg/apperror"
)

// Mode selects how topology and vertex-to-service assignment are produced.
type Mode string

const (
	ModeAutoPilot Mode = "auto_pilot"
	ModeHybrid    Mode = "hybrid"
	ModeManual    Mode = "manual"
)

// Config is the top-level configuration consumed by the core pipeline.
type Config struct {
	App       AppConfig       `koanf:"app"`
	Log       LogConfig       `koanf:"log"`
	Metrics   MetricsConfig   `koanf:"metrics"`
	Topology  TopologyConfig  `koanf:"topology"`
	Workload  WorkloadConfig  `koanf:"workload"`
	Handlers  HandlersConfig  `koanf:"handlers"`
	Profile   ProfileConfig   `koanf:"profile"`
}

// AppConfig carries the generation identity and port allocation.
type AppConfig struct {
	Name      string `koanf:"app_name"`
	Seed      string `koanf:"seed"`
	StartPort int    `koanf:"start_port"`
	Mode      Mode   `koanf:"mode"`
}

// LogConfig mirrors pkg/logger.Config, kept as a distinct koanf-bound type
// so callers can load it from the same layered source as the rest of Config.
type LogConfig struct {
	Level      string `koanf:"level"`       // debug, info, warn, error
	Format     string `koanf:"format"`      // json, text
	Output     string `koanf:"output"`      // stdout, stderr, file
	FilePath   string `koanf:"file_path"`
	MaxSize    int    `koanf:"max_size"`    // MB
	MaxBackups int    `koanf:"max_backups"`
	MaxAge     int    `koanf:"max_age"`     // days
	Compress   bool   `koanf:"compress"`
}

// MetricsConfig controls the self-instrumentation /metrics endpoint exposed
// during generation (rejection-loop retries, coloring duration, ...).
type MetricsConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Port      int    `koanf:"port"`
	Path      string `koanf:"path"` // only logged at startup; the server always serves /metrics
	Namespace string `koanf:"namespace"`
}

// TopologyConfig parameterizes the G(n,m) sampler and the coloring stage.
type TopologyConfig struct {
	VertexCount int `koanf:"vertex_count"` // V
	EdgeCount   int `koanf:"edge_count"`   // E
	ColorCount  int `koanf:"color_count"`  // K
}

// ServiceTypeConfig mirrors spec.md's service_types[] entries.
type ServiceTypeConfig struct {
	Fraction  int              `koanf:"fraction"`
	Resources []ResourceConfig `koanf:"resources"`
}

// ResourceConfig mirrors the inner resources[] entries of a service type.
type ResourceConfig struct {
	Kind      string `koanf:"kind"` // cpu, memory, net_recv, net_tx, disk_read, disk_write
	Fraction  int    `koanf:"fraction"`
	Intensity string `koanf:"intensity"` // low, mid, high
}

// LanguageConfig mirrors programming_languages[] entries.
type LanguageConfig struct {
	Name   string `koanf:"name"`
	Weight int    `koanf:"weight"`
}

// WorkloadConfig groups the service-type distribution and language mix.
type WorkloadConfig struct {
	ServiceTypes []ServiceTypeConfig `koanf:"service_types"`
	Languages    []LanguageConfig    `koanf:"programming_languages"`
}

// HandlersConfig locates the on-disk handler tree consumed by the registry.
type HandlersConfig struct {
	RootDir string `koanf:"root_dir"`
}

// ProfileConfig parameterizes Stat Aggregation (profile mode).
type ProfileConfig struct {
	PrometheusURL    string        `koanf:"prometheus_url"`
	BenchmarkRootDir string        `koanf:"benchmark_root_dir"`
	Duration         time.Duration `koanf:"duration"`
	SignificanceAlpha float64      `koanf:"significance_alpha"`
}

var validIntensities = map[string]bool{"low": true, "mid": true, "high": true}
var validResourceKinds = map[string]bool{
	"cpu": true, "memory": true, "net_recv": true, "net_tx": true, "disk_read": true, "disk_write": true,
}

// Validate enforces every constraint spec.md §6 lists for config inputs.
// Errors are collected, not short-circuited, mirroring the teacher's
// aggregate-then-report style, but returned as a single *apperror.Error
// tagged CodeConfigInvalid with every offending detail attached.
func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.App.Name) == "" {
		errs = append(errs, "app.app_name is required")
	}

	if c.App.StartPort == 0 {
		c.App.StartPort = 30100
	}
	if c.App.StartPort < 30000 || c.App.StartPort > 49151 {
		errs = append(errs, fmt.Sprintf("app.start_port must be in [30000, 49151], got %d", c.App.StartPort))
	}
	if c.App.StartPort+c.Topology.ColorCount > 49151 {
		errs = append(errs, fmt.Sprintf("app.start_port + topology.color_count exceeds 49151 (port %d, %d colors)", c.App.StartPort, c.Topology.ColorCount))
	}

	switch c.App.Mode {
	case ModeAutoPilot, ModeHybrid, ModeManual:
	case "":
		c.App.Mode = ModeAutoPilot
	default:
		errs = append(errs, fmt.Sprintf("app.mode must be one of auto_pilot, hybrid, manual, got %s", c.App.Mode))
	}

	if c.Topology.VertexCount <= 0 {
		errs = append(errs, "topology.vertex_count must be positive")
	}
	if c.Topology.EdgeCount < 0 {
		errs = append(errs, "topology.edge_count must be non-negative")
	}
	if c.Topology.ColorCount <= 0 {
		errs = append(errs, "topology.color_count must be positive")
	}
	if c.Topology.VertexCount > 0 && c.Topology.EdgeCount > c.Topology.VertexCount*(c.Topology.VertexCount-1) {
		errs = append(errs, fmt.Sprintf("topology.edge_count %d exceeds V*(V-1) for V=%d", c.Topology.EdgeCount, c.Topology.VertexCount))
	}

	if len(c.Workload.ServiceTypes) == 0 {
		errs = append(errs, "workload.service_types must be non-empty")
	}
	for i, st := range c.Workload.ServiceTypes {
		if st.Fraction < 1 || st.Fraction > 100 {
			errs = append(errs, fmt.Sprintf("workload.service_types[%d].fraction must be in [1,100], got %d", i, st.Fraction))
		}
		if len(st.Resources) == 0 {
			errs = append(errs, fmt.Sprintf("workload.service_types[%d].resources must be non-empty", i))
			continue
		}
		sum := 0
		seen := map[string]bool{}
		for j, r := range st.Resources {
			if seen[r.Kind] {
				errs = append(errs, fmt.Sprintf("workload.service_types[%d].resources[%d] duplicates resource kind %s", i, j, r.Kind))
			}
			seen[r.Kind] = true
			if !validResourceKinds[r.Kind] {
				errs = append(errs, fmt.Sprintf("workload.service_types[%d].resources[%d] has unknown kind %s", i, j, r.Kind))
			}
			if !validIntensities[r.Intensity] {
				errs = append(errs, fmt.Sprintf("workload.service_types[%d].resources[%d] has unknown intensity %s", i, j, r.Intensity))
			}
			sum += r.Fraction
		}
		if sum != 100 {
			errs = append(errs, fmt.Sprintf("workload.service_types[%d].resources fractions sum to %d, want 100", i, sum))
		}
	}

	if len(c.Workload.Languages) == 0 {
		errs = append(errs, "workload.programming_languages must be non-empty")
	} else {
		allOne := true
		sum := 0
		for _, l := range c.Workload.Languages {
			if l.Weight != 1 {
				allOne = false
			}
			sum += l.Weight
		}
		if !allOne && sum != 100 {
			errs = append(errs, fmt.Sprintf("workload.programming_languages weights must sum to 100 unless all are 1, got sum %d", sum))
		}
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, fmt.Sprintf("log.level must be one of: debug, info, warn, error, got %s", c.Log.Level))
	}

	if len(errs) > 0 {
		return apperror.New(apperror.CodeConfigInvalid, "configuration validation failed: "+strings.Join(errs, "; ")).
			WithDetails("errors", errs)
	}

	return nil
}

package assembly

import (
	"os"
	"path/filepath"
	"testing"

	"meshforge/internal/servicetype"
	"meshforge/pkg/apperror"
)

const defDoc = `
import_path: handlers.ping
signature:
  function: ping
  parameters: []
is_async: false
`

func writeHandler(t *testing.T, root, lang, name string, cpu float64) string {
	t.Helper()
	dir := filepath.Join(root, lang, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "definition.yaml"), []byte(defDoc), 0o644); err != nil {
		t.Fatalf("write definition: %v", err)
	}
	util := []byte("cpu: " + formatFloat(cpu) + "\nmemory: 10.0\n")
	if err := os.WriteFile(filepath.Join(dir, "utilization.yaml"), util, 0o644); err != nil {
		t.Fatalf("write utilization: %v", err)
	}
	return dir
}

func formatFloat(f float64) string {
	return (func() string {
		s := ""
		whole := int(f)
		frac := int((f - float64(whole)) * 100)
		if frac < 0 {
			frac = -frac
		}
		s = itoa(whole) + "." + itoa(frac)
		return s
	})()
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}

func baseConfig(t *testing.T, root string) Config {
	t.Helper()
	for i, v := range []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6} {
		writeHandler(t, root, "go", "h"+itoa(i), v)
	}
	return Config{
		AppName:     "demo",
		Seed:        "fixed-seed-1",
		StartPort:   30100,
		Mode:        ModeAutoPilot,
		VertexCount: 6,
		EdgeCount:   6,
		ColorCount:  3,
		ServiceTypes: []servicetype.ServiceType{
			{Fraction: 100, Resources: []servicetype.Resource{
				{Resource: "cpu", Fraction: 100, Intensity: servicetype.IntensityHigh},
			}},
		},
		Languages:   []LanguageWeight{{Language: "go", Fraction: 1}},
		HandlerRoot: root,
	}
}

func TestRunAutoPilotProducesApplicationGraph(t *testing.T) {
	root := t.TempDir()
	cfg := baseConfig(t, root)

	result, err := Run(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Application.ServiceCount() != 3 {
		t.Fatalf("expected 3 services, got %d", result.Application.ServiceCount())
	}
	if len(result.Application.IterEndpoints()) != 6 {
		t.Fatalf("expected 6 endpoints, got %d", len(result.Application.IterEndpoints()))
	}
	for _, ep := range result.Application.IterEndpoints() {
		if result.Bound.GetFunction(ep) == nil {
			t.Fatalf("endpoint %d missing bound function", ep)
		}
	}
}

func TestRunIsDeterministicForFixedSeed(t *testing.T) {
	root := t.TempDir()
	cfg := baseConfig(t, root)

	r1, err := Run(cfg)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	r2, err := Run(cfg)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	for _, ep := range r1.Application.IterEndpoints() {
		if r1.Application.ServiceOf(ep) != r2.Application.ServiceOf(ep) {
			t.Fatalf("endpoint %d: service differs across runs", ep)
		}
		if r1.Application.HandlerDirOf(ep) != r2.Application.HandlerDirOf(ep) {
			t.Fatalf("endpoint %d: handler differs across runs", ep)
		}
	}
}

func TestRunRejectsMissingAppName(t *testing.T) {
	root := t.TempDir()
	cfg := baseConfig(t, root)
	cfg.AppName = ""

	_, err := Run(cfg)
	if apperror.Code(err) != apperror.CodeConfigInvalid {
		t.Fatalf("expected CodeConfigInvalid, got %v", err)
	}
}

func TestRunHybridModeUsesSuppliedTopology(t *testing.T) {
	root := t.TempDir()
	cfg := baseConfig(t, root)
	cfg.Mode = ModeHybrid
	cfg.VertexCount = 0
	cfg.EdgeCount = 0
	cfg.ColorCount = 2
	cfg.Topology = &Topology{
		ServiceOf: []int{0, 1, 0},
		Edges:     [][2]int{{0, 1}, {1, 2}},
	}

	result, err := Run(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Application.ServiceOf(0) != 0 || result.Application.ServiceOf(1) != 1 {
		t.Fatalf("unexpected service assignment")
	}
}

func TestRunHybridModeRejectsCyclicTopology(t *testing.T) {
	root := t.TempDir()
	cfg := baseConfig(t, root)
	cfg.Mode = ModeHybrid
	cfg.ColorCount = 2
	cfg.Topology = &Topology{
		ServiceOf: []int{0, 1, 0},
		Edges:     [][2]int{{0, 1}, {1, 2}, {2, 0}},
	}

	_, err := Run(cfg)
	if apperror.Code(err) != apperror.CodeCyclicGraph {
		t.Fatalf("expected CodeCyclicGraph, got %v", err)
	}
}

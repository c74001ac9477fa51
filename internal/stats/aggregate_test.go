package stats

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"meshforge/internal/handler"
)

func writeCSV(t *testing.T, path string, startEpoch float64) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	content := "timestamp,value\n" + formatEpoch(startEpoch) + ",0\n" + formatEpoch(startEpoch+1) + ",0\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func formatEpoch(v float64) string {
	return time.Unix(int64(v), 0).UTC().Format("2006-01-02T15:04:05Z")
}

func TestCollectIterationFallsBackToZeroWhenExprEmpty(t *testing.T) {
	dir := t.TempDir()
	iterationDir := filepath.Join(dir, "iter0")
	writeCSV(t, filepath.Join(iterationDir, "summary_out.csv"), 1700000000)

	queries := []MetricQuery{
		{Resource: string(handler.ResourceDiskRead), Expr: ""},
	}

	out, err := collectIteration(nil, nil, iterationDir, 2*time.Second, queries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	window := out[handler.ResourceDiskRead]
	if len(window) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(window))
	}
	for _, v := range window {
		if v != 0 {
			t.Fatalf("expected all-zero fallback window, got %v", window)
		}
	}
}

func TestAverageAcrossLoadLevels(t *testing.T) {
	queries := []MetricQuery{{Resource: string(handler.ResourceCPU)}}
	levels := []map[handler.Resource]float64{
		{handler.ResourceCPU: 10},
		{handler.ResourceCPU: 20},
	}
	got := averageAcrossLoadLevels(levels, queries)
	if got[handler.ResourceCPU] != 15 {
		t.Fatalf("expected average 15, got %v", got[handler.ResourceCPU])
	}
}

func TestAverageAcrossLoadLevelsEmpty(t *testing.T) {
	got := averageAcrossLoadLevels(nil, nil)
	if len(got) != 0 {
		t.Fatalf("expected empty utilization, got %v", got)
	}
}

func TestCheckStabilityIgnoresNonLeveneResource(t *testing.T) {
	// disk_read is not in leveneResources; must not panic even with nil querier context
	checkStability("dir", handler.ResourceDiskRead, [][]float64{{1, 2}, {3, 4}})
}

func TestCheckStabilitySkipsAllZeroSamples(t *testing.T) {
	// all-zero samples must be skipped, never reaching LeveneTest with a
	// degenerate (zero-variance) input
	checkStability("dir", handler.ResourceCPU, [][]float64{{0, 0, 0}, {0, 0, 0}})
}

func TestAverageOfMeans(t *testing.T) {
	got := averageOfMeans([][]float64{{1, 2, 3}, {4, 5, 6}})
	want := (2.0 + 5.0) / 2.0
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSortedSubdirsIgnoresFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "b"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "a"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := sortedSubdirs(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("expected [a b], got %v", got)
	}
}

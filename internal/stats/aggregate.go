package stats

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"meshforge/internal/handler"
	"meshforge/pkg/logger"
)

// leveneResources are the metrics Levene's test runs across — CPU and
// network, per spec.
var leveneResources = []handler.Resource{
	handler.ResourceCPU,
	handler.ResourceNetRecv,
	handler.ResourceNetTx,
}

// DefaultMetricQueries returns the six tracked-resource PromQL templates,
// scoped to podOrContainer via %s. Disk queries are included; callers may
// omit them (set Expr to "") when no disk exporter is deployed, which
// falls back to an all-zero window per spec.
func DefaultMetricQueries(podOrContainer string) []MetricQuery {
	return []MetricQuery{
		{Resource: string(handler.ResourceCPU), Expr: fmt.Sprintf(`rate(container_cpu_usage_seconds_total{pod="%s"}[30s]) * 100`, podOrContainer)},
		{Resource: string(handler.ResourceMemory), Expr: fmt.Sprintf(`container_memory_working_set_bytes{pod="%s"} / 1048576`, podOrContainer)},
		{Resource: string(handler.ResourceNetRecv), Expr: fmt.Sprintf(`rate(container_network_receive_bytes_total{pod="%s"}[30s]) / 1048576`, podOrContainer)},
		{Resource: string(handler.ResourceNetTx), Expr: fmt.Sprintf(`rate(container_network_transmit_bytes_total{pod="%s"}[30s]) / 1048576`, podOrContainer)},
		{Resource: string(handler.ResourceDiskRead), Expr: fmt.Sprintf(`rate(container_fs_reads_bytes_total{pod="%s"}[30s]) / 1048576`, podOrContainer)},
		{Resource: string(handler.ResourceDiskWrite), Expr: fmt.Sprintf(`rate(container_fs_writes_bytes_total{pod="%s"}[30s]) / 1048576`, podOrContainer)},
	}
}

// CollectHandler walks root/{language}/{handlerName}/benchmarks/{load_level}/{iteration}/
// reading each iteration's summary_out.csv start timestamp, querying the
// six tracked resources over the benchmark duration window, running
// Levene's test per load level across iterations (for cpu/net_recv/
// net_tx), and averaging first across iterations then across load levels
// into the handler's final Utilization.
func CollectHandler(ctx context.Context, querier *RangeQuerier, root, language, handlerName string, duration time.Duration, queries []MetricQuery, concurrency int) (handler.Utilization, error) {
	benchmarkDir := filepath.Join(root, language, handlerName, "benchmarks")

	loadLevels, err := sortedSubdirs(benchmarkDir)
	if err != nil {
		return nil, fmt.Errorf("listing load levels for %s: %w", benchmarkDir, err)
	}

	perLoadLevel := make([]map[handler.Resource]float64, 0, len(loadLevels))
	for _, loadLevel := range loadLevels {
		avg, err := collectLoadLevel(ctx, querier, filepath.Join(benchmarkDir, loadLevel), duration, queries, concurrency)
		if err != nil {
			return nil, fmt.Errorf("load level %s: %w", loadLevel, err)
		}
		perLoadLevel = append(perLoadLevel, avg)
	}

	return averageAcrossLoadLevels(perLoadLevel, queries), nil
}

func collectLoadLevel(ctx context.Context, querier *RangeQuerier, loadLevelDir string, duration time.Duration, queries []MetricQuery, concurrency int) (map[handler.Resource]float64, error) {
	iterations, err := sortedSubdirs(loadLevelDir)
	if err != nil {
		return nil, err
	}
	if len(iterations) == 0 {
		return nil, fmt.Errorf("%s: no iterations found", loadLevelDir)
	}

	windows := make([]map[handler.Resource][]float64, len(iterations))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, iteration := range iterations {
		i, iteration := i, iteration
		g.Go(func() error {
			w, err := collectIteration(gctx, querier, filepath.Join(loadLevelDir, iteration), duration, queries)
			if err != nil {
				return err
			}
			windows[i] = w
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make(map[handler.Resource]float64, len(queries))
	for _, q := range queries {
		resource := handler.Resource(q.Resource)
		samples := make([][]float64, len(windows))
		for i, w := range windows {
			samples[i] = w[resource]
		}
		checkStability(loadLevelDir, resource, samples)
		result[resource] = averageOfMeans(samples)
	}
	return result, nil
}

func collectIteration(ctx context.Context, querier *RangeQuerier, iterationDir string, duration time.Duration, queries []MetricQuery) (map[handler.Resource][]float64, error) {
	start, err := ReadFirstTimestamp(filepath.Join(iterationDir, "summary_out.csv"))
	if err != nil {
		return nil, err
	}

	out := make(map[handler.Resource][]float64, len(queries))
	for _, q := range queries {
		resource := handler.Resource(q.Resource)
		if q.Expr == "" {
			out[resource] = make([]float64, int(duration.Seconds())+1)
			continue
		}
		window, err := querier.CollectWindow(ctx, q.Expr, start, duration)
		if err != nil {
			return nil, fmt.Errorf("collecting %s: %w", resource, err)
		}
		out[resource] = window
	}
	return out, nil
}

// checkStability runs Levene's test for the CPU/network resources and
// logs an instability warning (never an error; generation continues
// regardless) when p < 0.05 on a metric that isn't all zero.
func checkStability(loadLevelDir string, resource handler.Resource, samples [][]float64) {
	if !isLeveneResource(resource) || len(samples) < 2 {
		return
	}
	if allZero(samples) {
		return
	}

	result := LeveneTest(samples)
	if result.PValue < 0.05 {
		logger.Warn("variance instability detected across benchmark iterations",
			"load_level_dir", loadLevelDir,
			"resource", resource,
			"levene_estimate", result.Estimate,
			"levene_p_value", result.PValue,
		)
	}
}

func isLeveneResource(resource handler.Resource) bool {
	for _, r := range leveneResources {
		if r == resource {
			return true
		}
	}
	return false
}

func allZero(samples [][]float64) bool {
	for _, s := range samples {
		for _, v := range s {
			if v != 0 {
				return false
			}
		}
	}
	return true
}

func averageOfMeans(samples [][]float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range samples {
		sum += meanOf(s)
	}
	return sum / float64(len(samples))
}

func averageAcrossLoadLevels(perLoadLevel []map[handler.Resource]float64, queries []MetricQuery) handler.Utilization {
	util := handler.Utilization{}
	if len(perLoadLevel) == 0 {
		return util
	}
	for _, q := range queries {
		resource := handler.Resource(q.Resource)
		sum := 0.0
		for _, level := range perLoadLevel {
			sum += level[resource]
		}
		util[resource] = sum / float64(len(perLoadLevel))
	}
	return util
}

func sortedSubdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"meshforge/internal/handler"
	"meshforge/internal/stats"
	"meshforge/pkg/logger"
	"meshforge/pkg/metrics"
)

const aggregationConcurrency = 4

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Profile-mode commands: turn completed benchmark runs into handler utilization",
}

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Walk a benchmark tree, query Prometheus for resource usage, and write utilization.yml per handler",
	RunE:  runAggregate,
}

func init() {
	profileCmd.AddCommand(aggregateCmd)
}

func runAggregate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	log := logger.WithComponent("stats")

	querier, err := stats.NewRangeQuerier(cfg.Profile.PrometheusURL)
	if err != nil {
		return fmt.Errorf("connecting to prometheus at %s: %w", cfg.Profile.PrometheusURL, err)
	}

	root := cfg.Profile.BenchmarkRootDir
	languages, err := subdirs(root)
	if err != nil {
		return fmt.Errorf("listing languages under %s: %w", root, err)
	}

	tracker := metrics.NewRequestTracker(metrics.Get().AggregationsInFlight)

	var aggErr error
	for _, language := range languages {
		handlers, err := subdirs(filepath.Join(root, language))
		if err != nil {
			aggErr = err
			break
		}

		for _, handlerName := range handlers {
			tracker.Start(language)
			timer := metrics.NewTimer(metrics.Get().AggregationDuration, language)

			queries := stats.DefaultMetricQueries(handlerName)
			util, err := stats.CollectHandler(ctx, querier, root, language, handlerName, cfg.Profile.Duration, queries, aggregationConcurrency)

			timer.ObserveDuration()
			tracker.End(language)

			if err != nil {
				aggErr = fmt.Errorf("aggregating %s/%s: %w", language, handlerName, err)
				break
			}

			dest := filepath.Join(cfg.Handlers.RootDir, language, handlerName, "utilization.yml")
			if err := writeUtilization(dest, util); err != nil {
				aggErr = fmt.Errorf("writing %s: %w", dest, err)
				break
			}

			log.Info("aggregated handler utilization", "language", language, "handler", handlerName, "utilization", util)
			fmt.Printf("%s/%s -> %s\n", language, handlerName, dest)
		}
		if aggErr != nil {
			break
		}
	}

	metrics.Get().RecordAggregation(aggErr == nil)
	return aggErr
}

func subdirs(dir string) ([]string, error) {
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
	return names, nil
}

func writeUtilization(path string, util handler.Utilization) error {
	data, err := yaml.Marshal(util)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

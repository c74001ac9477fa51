package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"meshforge/pkg/config"
	"meshforge/pkg/logger"
	"meshforge/pkg/metrics"
)

var (
	// Version is set via ldflags during build.
	Version = "dev"

	cfgPath string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:     "meshforge",
	Short:   "Synthesize and profile benchmarkable microservice application graphs",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded

		logger.InitWithConfig(logger.Config{
			Level:      cfg.Log.Level,
			Format:     cfg.Log.Format,
			Output:     cfg.Log.Output,
			FilePath:   cfg.Log.FilePath,
			MaxSize:    cfg.Log.MaxSize,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAge,
			Compress:   cfg.Log.Compress,
		})

		m := metrics.InitMetrics(cfg.Metrics.Namespace, "")
		m.SetServiceInfo(Version, string(cfg.App.Mode))

		if cfg.Metrics.Enabled {
			go func() {
				logger.Log.Info("starting metrics server", "port", cfg.Metrics.Port, "path", cfg.Metrics.Path)
				if err := metrics.StartMetricsServer(cfg.Metrics.Port); err != nil {
					logger.Log.Error("metrics server failed", "error", err)
				}
			}()
		}

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config.yaml (searches the default locations if omitted)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(profileCmd)
}

func loadConfig() (*config.Config, error) {
	if cfgPath == "" {
		return config.Load()
	}
	return config.NewLoader(config.WithConfigPaths(cfgPath)).Load()
}

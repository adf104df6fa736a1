package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"netguard/pkg/config"
	"netguard/pkg/logging"
)

var (
	cfgFile         string
	trainingBatches int
)

var rootCmd = &cobra.Command{
	Use:   "netguard",
	Short: "Anomaly-based intrusion detection pipeline",
	Long: `netguard scores network and log batches with an ensemble of anomaly
detectors, classifies flagged samples by attack signature, and plans
responses through a five-stage agent pipeline.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file")
	rootCmd.PersistentFlags().IntVar(&trainingBatches, "training-batches", 20, "number of benign batches for baseline training")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(simulateCmd)
}

// loadConfig reads configuration and builds the logger from it.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	logger := logging.New(logging.ParseLevel(cfg.Log.Level), cfg.Log.Format)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

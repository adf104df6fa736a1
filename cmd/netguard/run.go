package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"netguard/pkg/agents"
	"netguard/pkg/alerts"
	"netguard/pkg/capture"
	"netguard/pkg/classify"
	"netguard/pkg/config"
	"netguard/pkg/detect"
	"netguard/pkg/features"
)

var runIterations int

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Train on benign traffic, then score captured batches",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		return runPipeline(cmd.Context(), cfg, logger)
	},
}

func init() {
	runCmd.Flags().IntVar(&runIterations, "iterations", 10, "number of batches to score")
}

func runPipeline(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			logger.Info("metrics endpoint listening", "addr", cfg.Metrics.Addr)
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				logger.Error("metrics endpoint failed", "error", err)
			}
		}()
	}

	pipeline, sniffer, extractor, err := buildPipeline(ctx, cfg, trainingBatches, logger)
	if err != nil {
		return err
	}

	for i := 0; i < runIterations; i++ {
		batch := collectBatch(sniffer, extractor, cfg.Capture.BatchSize)
		result, err := pipeline.Run(ctx, batch)
		if err != nil {
			return err
		}
		logger.Info("batch processed",
			"iteration", i+1, "status", result.Status, "threats", len(result.Actions))
	}
	return nil
}

// buildPipeline trains the detector engine on trainingBatches benign batches
// and assembles the agent pipeline with the configured storage backends.
func buildPipeline(ctx context.Context, cfg *config.Config, trainingBatches int, logger *slog.Logger) (*agents.Pipeline, *capture.MockSniffer, *features.Extractor, error) {
	thresholds, err := detect.NewSeverityThresholds(
		cfg.Detection.CriticalThreshold, cfg.Detection.WarningThreshold)
	if err != nil {
		return nil, nil, nil, err
	}

	engine, err := detect.DefaultEngine(cfg.Detection.Contamination, cfg.Detection.Seed, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	sniffer := capture.NewMockSniffer(cfg.Detection.Seed, logger)
	extractor := features.NewExtractor(cfg.Capture.WindowSize, logger)

	training := make([][]float64, 0, trainingBatches)
	for i := 0; i < trainingBatches; i++ {
		batch := collectBatch(sniffer, extractor, cfg.Capture.BatchSize)
		for _, vec := range batch.Vectors {
			training = append(training, vec.Row(features.Names()))
		}
	}
	if err := engine.Train(training); err != nil {
		return nil, nil, nil, fmt.Errorf("baseline training: %w", err)
	}

	var store alerts.Store = alerts.NewMemoryStore()
	if cfg.Database.Enabled {
		pg, err := alerts.NewPostgresStore(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, nil, nil, err
		}
		store = pg
	}
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		cache := alerts.NewCache(client, cfg.Redis.TTL)
		store = &cachingStore{Store: store, cache: cache, logger: logger}
	}

	pipeline, err := agents.NewPipeline(agents.Config{
		Engine:           engine,
		Thresholds:       thresholds,
		AnomalyThreshold: cfg.Detection.AnomalyThreshold,
		Classifier:       classify.NewClassifier(nil, cfg.Detection.ConfidenceThreshold, logger),
		Store:            store,
		Logger:           logger,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return pipeline, sniffer, extractor, nil
}

// collectBatch captures one window of traffic and log events and extracts
// its combined feature vector.
func collectBatch(sniffer *capture.MockSniffer, extractor *features.Extractor, size int) agents.Batch {
	packets := sniffer.Capture(size)
	events := sniffer.CaptureEvents(size / 10)

	vec := extractor.Combined(packets, events)
	return agents.Batch{
		Packets: packets,
		Events:  events,
		Vectors: []features.Vector{vec},
	}
}

// cachingStore mirrors inserts into the Redis cache alongside the primary
// store. Cache failures are logged, never surfaced: persistence wins.
type cachingStore struct {
	alerts.Store
	cache  *alerts.Cache
	logger *slog.Logger
}

func (s *cachingStore) Insert(ctx context.Context, alert *alerts.Alert) error {
	if err := s.Store.Insert(ctx, alert); err != nil {
		return err
	}
	if err := s.cache.Put(ctx, alert); err != nil {
		s.logger.Warn("alert cache write failed", "alert_id", alert.ID, "error", err)
	}
	return nil
}

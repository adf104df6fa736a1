package detect

import (
	"log/slog"
	"sync"
)

// OutlierModel is the pluggable unsupervised model behind the outlier
// adapter. Implementations return raw scores where higher = more anomalous.
type OutlierModel interface {
	Fit(batch [][]float64) error
	Score(batch [][]float64) ([]float64, error)
	Name() string
}

// OutlierAdapter wraps an injected OutlierModel behind the Detector contract.
// A nil model, or one whose Fit fails, leaves the adapter untrained: Score
// returns empty output instead of failing the pipeline.
type OutlierAdapter struct {
	mu            sync.RWMutex
	model         OutlierModel
	trained       bool
	contamination float64
	logger        *slog.Logger
}

// NewOutlierAdapter wraps model with the given expected anomaly fraction
// (default 0.1 when out of range). model may be nil.
func NewOutlierAdapter(model OutlierModel, contamination float64, logger *slog.Logger) *OutlierAdapter {
	if contamination <= 0 || contamination >= 1 {
		contamination = 0.1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OutlierAdapter{
		model:         model,
		contamination: contamination,
		logger:        logger,
	}
}

// Fit trains the underlying model. A missing model is a degraded state, not
// an error: the adapter stays untrained and scoring yields empty output.
func (a *OutlierAdapter) Fit(batch [][]float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.model == nil {
		a.logger.Warn("no outlier model available, adapter stays untrained")
		return nil
	}
	if err := a.model.Fit(batch); err != nil {
		a.trained = false
		a.logger.Warn("outlier model training failed, adapter stays untrained", "error", err)
		return nil
	}
	a.trained = true
	return nil
}

// Score returns the model's raw outlier scores. Untrained: empty slice.
func (a *OutlierAdapter) Score(batch [][]float64) []float64 {
	a.mu.RLock()
	model, trained := a.model, a.trained
	a.mu.RUnlock()

	if !trained || model == nil {
		a.logger.Warn("outlier adapter not trained, returning empty scores")
		return nil
	}

	scores, err := model.Score(batch)
	if err != nil {
		a.logger.Warn("outlier model scoring failed", "error", err)
		return nil
	}
	return scores
}

// Name reports the underlying model's name, or a placeholder when absent.
func (a *OutlierAdapter) Name() string {
	if a.model != nil {
		return a.model.Name()
	}
	return "outlier"
}

// Contamination returns the configured expected anomaly fraction.
func (a *OutlierAdapter) Contamination() float64 {
	return a.contamination
}

// AnomalyThreshold returns the recommended ensemble cut given the
// contamination assumption.
func (a *OutlierAdapter) AnomalyThreshold() float64 {
	return 1.0 - a.contamination
}

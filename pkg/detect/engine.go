package detect

import (
	"fmt"
	"log/slog"
)

// Engine bundles the detector set with the score fuser. Training runs to
// completion before any scoring observes the new baselines; each detector
// guards its own baseline with a readers-writer lock, so concurrent scoring
// against a stable baseline is safe while retraining stays single-writer.
type Engine struct {
	detectors []Detector
	fuser     *Fuser
	logger    *slog.Logger
}

// NewEngine builds an engine over the given detectors. At least one detector
// is required; the fuser weight map decides how much each one contributes.
func NewEngine(detectors []Detector, fuser *Fuser, logger *slog.Logger) (*Engine, error) {
	if len(detectors) == 0 {
		return nil, fmt.Errorf("at least one detector required")
	}
	if fuser == nil {
		return nil, fmt.Errorf("fuser required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{detectors: detectors, fuser: fuser, logger: logger}, nil
}

// DefaultEngine wires the standard detector set: z-score, MAD, and an
// isolation-forest outlier adapter, fused with DefaultWeights.
func DefaultEngine(contamination float64, seed int64, logger *slog.Logger) (*Engine, error) {
	fuser, err := NewFuser(nil, logger)
	if err != nil {
		return nil, err
	}
	return NewEngine([]Detector{
		NewZScoreDetector(logger),
		NewMADDetector(logger),
		NewOutlierAdapter(NewIsolationForest(100, 256, seed), contamination, logger),
	}, fuser, logger)
}

// Train fits every detector on the baseline batch. The outlier adapter
// absorbs model-level failures itself, so in practice only malformed input
// surfaces here as an error.
func (e *Engine) Train(batch [][]float64) error {
	if len(batch) == 0 {
		return fmt.Errorf("no training data provided")
	}
	for _, d := range e.detectors {
		if err := d.Fit(batch); err != nil {
			return fmt.Errorf("training %s detector: %w", d.Name(), err)
		}
	}
	e.logger.Info("detector baselines trained",
		"samples", len(batch), "detectors", len(e.detectors))
	return nil
}

// Score runs every detector over the batch and fuses the outputs. Empty
// batches and fully-untrained detector sets both yield zero-valued output.
func (e *Engine) Score(batch [][]float64) ([]float64, map[string][]float64) {
	raw := make(map[string][]float64, len(e.detectors))
	for _, d := range e.detectors {
		if scores := d.Score(batch); len(scores) > 0 {
			raw[d.Name()] = scores
		}
	}
	return e.fuser.Fuse(len(batch), raw)
}

// Detectors returns the detector names in wiring order.
func (e *Engine) Detectors() []string {
	names := make([]string, len(e.detectors))
	for i, d := range e.detectors {
		names[i] = d.Name()
	}
	return names
}

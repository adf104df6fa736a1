package detect

import (
	"log/slog"
	"math"
	"sync"
)

// Detector scores a batch of feature rows against a learned baseline.
// Scores follow the convention "higher = more anomalous". Scoring before a
// successful Fit is a normal degraded condition: it returns an empty slice.
type Detector interface {
	Fit(batch [][]float64) error
	Score(batch [][]float64) []float64
	Name() string
}

// ZScoreDetector scores each sample by its maximum per-feature z-score
// against the baseline mean and standard deviation.
type ZScoreDetector struct {
	mu       sync.RWMutex
	baseline *Baseline
	logger   *slog.Logger
}

// NewZScoreDetector creates an untrained z-score detector.
func NewZScoreDetector(logger *slog.Logger) *ZScoreDetector {
	if logger == nil {
		logger = slog.Default()
	}
	return &ZScoreDetector{logger: logger}
}

// Fit learns the baseline from a training batch. Retraining swaps the whole
// baseline under the write lock, so concurrent Score calls never observe a
// half-updated one.
func (d *ZScoreDetector) Fit(batch [][]float64) error {
	b, err := FitBaseline(batch)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.baseline = b
	d.mu.Unlock()
	return nil
}

// Score returns per-sample max |x-mean|/(std+eps). Untrained: empty slice.
func (d *ZScoreDetector) Score(batch [][]float64) []float64 {
	d.mu.RLock()
	b := d.baseline
	d.mu.RUnlock()

	if b == nil {
		d.logger.Warn("z-score detector not trained, returning empty scores")
		return nil
	}

	return maxDeviationScores(batch, b.Mean, b.Std)
}

// Name identifies the detector in fuser weight maps and alert indicators.
func (d *ZScoreDetector) Name() string { return "statistical" }

// MADDetector scores each sample by its maximum per-feature deviation from
// the baseline median, scaled by the median absolute deviation. More robust
// to heavy-tailed features than the z-score.
type MADDetector struct {
	mu       sync.RWMutex
	baseline *Baseline
	logger   *slog.Logger
}

// NewMADDetector creates an untrained MAD detector.
func NewMADDetector(logger *slog.Logger) *MADDetector {
	if logger == nil {
		logger = slog.Default()
	}
	return &MADDetector{logger: logger}
}

// Fit learns the baseline from a training batch.
func (d *MADDetector) Fit(batch [][]float64) error {
	b, err := FitBaseline(batch)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.baseline = b
	d.mu.Unlock()
	return nil
}

// Score returns per-sample max |x-median|/(mad+eps). Untrained: empty slice.
func (d *MADDetector) Score(batch [][]float64) []float64 {
	d.mu.RLock()
	b := d.baseline
	d.mu.RUnlock()

	if b == nil {
		d.logger.Warn("mad detector not trained, returning empty scores")
		return nil
	}

	return maxDeviationScores(batch, b.Median, b.MAD)
}

// Name identifies the detector in fuser weight maps and alert indicators.
func (d *MADDetector) Name() string { return "mad" }

// maxDeviationScores computes, per sample, the maximum over features of
// |x - center| / (spread + epsilon). Samples wider than the baseline only
// use the overlapping feature prefix.
func maxDeviationScores(batch [][]float64, center, spread []float64) []float64 {
	scores := make([]float64, len(batch))
	for i, row := range batch {
		maxScore := 0.0
		for j, v := range row {
			if j >= len(center) {
				break
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				v = 0
			}
			s := math.Abs(v-center[j]) / (spread[j] + epsilon)
			if s > maxScore {
				maxScore = s
			}
		}
		scores[i] = maxScore
	}
	return scores
}

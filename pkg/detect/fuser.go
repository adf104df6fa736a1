package detect

import (
	"fmt"
	"log/slog"
	"sort"
)

// DefaultWeights is the ensemble weighting used when none is configured.
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		"statistical":      0.3,
		"mad":              0.3,
		"isolation_forest": 0.4,
	}
}

// Fuser combines per-detector raw scores into one ensemble score per sample.
// Detectors that produced no output are simply excluded and the remaining
// weights renormalized, so partial detector failure degrades rather than
// breaks a run.
type Fuser struct {
	weights map[string]float64
	logger  *slog.Logger
}

// NewFuser validates the weight map (non-negative, at least one positive).
// A nil map selects DefaultWeights.
func NewFuser(weights map[string]float64, logger *slog.Logger) (*Fuser, error) {
	if weights == nil {
		weights = DefaultWeights()
	}
	positive := false
	for name, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("negative weight %f for detector %q", w, name)
		}
		if w > 0 {
			positive = true
		}
	}
	if !positive {
		return nil, fmt.Errorf("all detector weights are zero")
	}
	if logger == nil {
		logger = slog.Default()
	}

	cp := make(map[string]float64, len(weights))
	for k, v := range weights {
		cp[k] = v
	}
	return &Fuser{weights: cp, logger: logger}, nil
}

// Fuse combines the available per-detector raw scores for a batch of size n.
// Each detector's scores are normalized to [0,1] by max(raw)+epsilon, then
// averaged by configured weight over the detectors actually present. Returns
// the ensemble scores and the normalized per-detector scores.
//
// The ensemble is all-zero when no detector produced output; it is always
// within [0,1].
func (f *Fuser) Fuse(n int, raw map[string][]float64) ([]float64, map[string][]float64) {
	ensemble := make([]float64, n)
	normalized := make(map[string][]float64, len(raw))

	// Accumulate in sorted name order: float addition is non-associative, so
	// map iteration order would make identical inputs fuse to different sums.
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	totalWeight := 0.0
	for _, name := range names {
		scores := raw[name]
		if len(scores) != n {
			if len(scores) > 0 {
				f.logger.Warn("detector output length mismatch, excluding from fusion",
					"detector", name, "got", len(scores), "want", n)
			}
			continue
		}
		weight, ok := f.weights[name]
		if !ok || weight == 0 {
			continue
		}

		norm := normalizeScores(scores)
		normalized[name] = norm

		for i, s := range norm {
			ensemble[i] += weight * s
		}
		totalWeight += weight
	}

	if totalWeight == 0 {
		f.logger.Warn("no detector output available, ensemble scores are zero")
		return ensemble, normalized
	}

	for i := range ensemble {
		ensemble[i] /= totalWeight
		ensemble[i] = clip01(ensemble[i])
	}
	return ensemble, normalized
}

// normalizeScores maps raw scores to [0,1] by dividing by max(raw)+epsilon.
func normalizeScores(scores []float64) []float64 {
	maxScore := 0.0
	for _, s := range scores {
		if s > maxScore {
			maxScore = s
		}
	}
	out := make([]float64, len(scores))
	for i, s := range scores {
		out[i] = clip01(s / (maxScore + epsilon))
	}
	return out
}

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

package detect

import (
	"fmt"
	"math"
	"sort"
)

// epsilon guards divisions when a feature has zero spread in the baseline.
const epsilon = 1e-8

// Baseline holds the learned per-feature statistics of normal behavior.
// It is immutable once built; detectors swap whole baselines under a lock.
type Baseline struct {
	Mean   []float64
	Std    []float64
	Median []float64
	MAD    []float64
}

// FitBaseline computes mean, std, median, and MAD per feature column.
func FitBaseline(batch [][]float64) (*Baseline, error) {
	if len(batch) == 0 {
		return nil, fmt.Errorf("no training data provided")
	}

	numFeatures := len(batch[0])
	for i, row := range batch {
		if len(row) != numFeatures {
			return nil, fmt.Errorf("row %d has %d features, want %d", i, len(row), numFeatures)
		}
	}

	b := &Baseline{
		Mean:   make([]float64, numFeatures),
		Std:    make([]float64, numFeatures),
		Median: make([]float64, numFeatures),
		MAD:    make([]float64, numFeatures),
	}

	n := float64(len(batch))
	for _, row := range batch {
		for j, v := range row {
			b.Mean[j] += v
		}
	}
	for j := range b.Mean {
		b.Mean[j] /= n
	}

	for _, row := range batch {
		for j, v := range row {
			d := v - b.Mean[j]
			b.Std[j] += d * d
		}
	}
	for j := range b.Std {
		b.Std[j] = math.Sqrt(b.Std[j] / n)
	}

	col := make([]float64, len(batch))
	for j := 0; j < numFeatures; j++ {
		for i, row := range batch {
			col[i] = row[j]
		}
		b.Median[j] = medianOf(col)
	}

	dev := make([]float64, len(batch))
	for j := 0; j < numFeatures; j++ {
		for i, row := range batch {
			dev[i] = math.Abs(row[j] - b.Median[j])
		}
		b.MAD[j] = medianOf(dev)
	}

	return b, nil
}

// NumFeatures returns the feature dimensionality of the baseline.
func (b *Baseline) NumFeatures() int {
	return len(b.Mean)
}

// medianOf sorts a copy of xs and returns the middle value.
func medianOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	cp := make([]float64, len(xs))
	copy(cp, xs)
	sort.Float64s(cp)
	mid := len(cp) / 2
	if len(cp)%2 == 0 {
		return (cp[mid-1] + cp[mid]) / 2
	}
	return cp[mid]
}

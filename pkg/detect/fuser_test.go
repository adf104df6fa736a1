package detect

import (
	"math"
	"math/rand"
	"testing"
)

func TestFuserRejectsBadWeights(t *testing.T) {
	tests := []struct {
		name    string
		weights map[string]float64
	}{
		{"negative", map[string]float64{"statistical": -0.1}},
		{"all zero", map[string]float64{"statistical": 0, "mad": 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewFuser(tt.weights, nil); err == nil {
				t.Fatal("NewFuser succeeded, want error")
			}
		})
	}
}

func TestFuseScoresWithinUnitInterval(t *testing.T) {
	fuser, err := NewFuser(nil, nil)
	if err != nil {
		t.Fatalf("NewFuser: %v", err)
	}

	raw := map[string][]float64{
		"statistical":      {0.1, 5.0, 2.3},
		"mad":              {0.0, 12.7, 1.1},
		"isolation_forest": {0.4, 0.9, 0.5},
	}
	ensemble, _ := fuser.Fuse(3, raw)
	if len(ensemble) != 3 {
		t.Fatalf("got %d ensemble scores, want 3", len(ensemble))
	}
	for i, s := range ensemble {
		if s < 0 || s > 1 || math.IsNaN(s) {
			t.Errorf("ensemble[%d] = %v, want within [0,1]", i, s)
		}
	}
}

func TestFusePartialDetectorAvailability(t *testing.T) {
	fuser, err := NewFuser(nil, nil)
	if err != nil {
		t.Fatalf("NewFuser: %v", err)
	}

	// Only the statistical detector produced output; its weight alone is
	// used for renormalization, so the high sample still scores near 1.
	ensemble, normalized := fuser.Fuse(2, map[string][]float64{
		"statistical": {1.0, 10.0},
	})
	if len(normalized) != 1 {
		t.Fatalf("normalized has %d detectors, want 1", len(normalized))
	}
	if ensemble[1] < 0.99 {
		t.Errorf("dominant sample scored %.3f, want near 1", ensemble[1])
	}
	if ensemble[0] >= ensemble[1] {
		t.Errorf("scores not ordered: %.3f >= %.3f", ensemble[0], ensemble[1])
	}
}

func TestFuseNoDetectorOutput(t *testing.T) {
	fuser, err := NewFuser(nil, nil)
	if err != nil {
		t.Fatalf("NewFuser: %v", err)
	}

	ensemble, normalized := fuser.Fuse(4, nil)
	if len(ensemble) != 4 {
		t.Fatalf("got %d scores, want 4", len(ensemble))
	}
	for i, s := range ensemble {
		if s != 0 {
			t.Errorf("ensemble[%d] = %v, want 0", i, s)
		}
	}
	if len(normalized) != 0 {
		t.Errorf("normalized has %d entries, want 0", len(normalized))
	}
}

func TestFuseExcludesLengthMismatch(t *testing.T) {
	fuser, err := NewFuser(nil, nil)
	if err != nil {
		t.Fatalf("NewFuser: %v", err)
	}

	ensemble, normalized := fuser.Fuse(3, map[string][]float64{
		"statistical": {1, 2, 3},
		"mad":         {1, 2}, // wrong length, must be dropped
	})
	if _, ok := normalized["mad"]; ok {
		t.Error("mismatched detector present in normalized output")
	}
	if len(ensemble) != 3 {
		t.Fatalf("got %d scores, want 3", len(ensemble))
	}
}

func TestFuseDeterministic(t *testing.T) {
	fuser, err := NewFuser(nil, nil)
	if err != nil {
		t.Fatalf("NewFuser: %v", err)
	}

	raw := map[string][]float64{
		"statistical":      {0.3, 4.1, 0.8},
		"mad":              {1.2, 9.9, 0.1},
		"isolation_forest": {0.55, 0.91, 0.47},
	}
	first, _ := fuser.Fuse(3, raw)
	second, _ := fuser.Fuse(3, raw)
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("run mismatch at %d: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestFuseDeterministicManyDetectors(t *testing.T) {
	// With more than a couple of detectors, accumulation order matters at the
	// ULP level; repeated calls on identical input must agree bit for bit.
	weights := map[string]float64{
		"alpha": 0.17, "beta": 0.23, "gamma": 0.31, "delta": 0.13, "epsilon": 0.16,
	}
	fuser, err := NewFuser(weights, nil)
	if err != nil {
		t.Fatalf("NewFuser: %v", err)
	}

	rng := rand.New(rand.NewSource(99))
	raw := make(map[string][]float64, len(weights))
	for _, name := range []string{"alpha", "beta", "gamma", "delta", "epsilon"} {
		scores := make([]float64, 16)
		for i := range scores {
			scores[i] = rng.Float64() * 10
		}
		raw[name] = scores
	}

	first, _ := fuser.Fuse(16, raw)
	for run := 0; run < 200; run++ {
		got, _ := fuser.Fuse(16, raw)
		for i := range got {
			if got[i] != first[i] {
				t.Fatalf("run %d sample %d: %.20f vs %.20f", run, i, got[i], first[i])
			}
		}
	}
}

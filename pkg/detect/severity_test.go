package detect

import "testing"

func TestClassifyDefaultThresholds(t *testing.T) {
	tests := []struct {
		score float64
		want  Severity
	}{
		{0.95, SeverityCritical},
		{0.9, SeverityCritical},
		{0.75, SeverityWarning},
		{0.7, SeverityWarning},
		{0.3, SeverityNormal},
		{0.0, SeverityNormal},
		{-0.5, SeverityNormal}, // out-of-range inputs still classify
		{1.5, SeverityCritical},
	}
	thresholds := DefaultThresholds()
	for _, tt := range tests {
		got, label := thresholds.Classify(tt.score)
		if got != tt.want {
			t.Errorf("Classify(%v) = %v, want %v", tt.score, got, tt.want)
		}
		if label == "" {
			t.Errorf("Classify(%v) returned empty label", tt.score)
		}
	}
}

func TestClassifyMonotonic(t *testing.T) {
	thresholds := DefaultThresholds()
	scores := []float64{-1, 0, 0.2, 0.5, 0.69, 0.7, 0.71, 0.89, 0.9, 0.95, 1, 2}
	prev := SeverityNormal
	for _, score := range scores {
		got, _ := thresholds.Classify(score)
		if got < prev {
			t.Fatalf("severity decreased at score %v: %v after %v", score, got, prev)
		}
		prev = got
	}
}

func TestNewSeverityThresholdsRejectsMisordered(t *testing.T) {
	if _, err := NewSeverityThresholds(0.5, 0.8); err == nil {
		t.Fatal("misordered thresholds accepted")
	}
	if _, err := NewSeverityThresholds(0.8, 0.8); err != nil {
		t.Fatalf("equal thresholds rejected: %v", err)
	}
}

func TestSeverityString(t *testing.T) {
	if SeverityCritical.String() != "CRITICAL" ||
		SeverityWarning.String() != "WARNING" ||
		SeverityNormal.String() != "NORMAL" {
		t.Error("severity labels do not match the alert contract")
	}
}

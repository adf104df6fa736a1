package classify

import (
	"testing"

	"netguard/pkg/features"
)

func TestClassifyPortScan(t *testing.T) {
	c := NewClassifier(nil, 0, nil)
	vec := features.Vector{
		"unique_dst_ports": 70,
		"packet_rate":      60,
		"syn_count":        90,
	}

	match := c.Classify(vec)
	if match.AttackType != "Port Scan" {
		t.Fatalf("got %q, want Port Scan", match.AttackType)
	}
	// Three matched high signatures: (20+20+20) * 1.3 / 100.
	if match.Confidence != 0.78 {
		t.Errorf("confidence = %v, want 0.78", match.Confidence)
	}
	if len(match.Matched) != 3 {
		t.Errorf("matched %d features, want 3", len(match.Matched))
	}
}

func TestClassifyPortScanTwoSignals(t *testing.T) {
	// Only two of the three port-scan features fire: 40 points pre-bonus,
	// then the 2-match bonus.
	c := NewClassifier(nil, 0.3, nil)
	vec := features.Vector{
		"unique_dst_ports": 70,
		"syn_count":        90,
		"packet_rate":      10,
	}

	match := c.Classify(vec)
	if match.AttackType != "Port Scan" {
		t.Fatalf("got %q, want Port Scan", match.AttackType)
	}
	if match.Confidence != 0.48 {
		t.Errorf("confidence = %v, want 0.48 (40 points x 1.2 bonus)", match.Confidence)
	}
}

func TestClassifyBelowThresholdIsUnknown(t *testing.T) {
	c := NewClassifier(nil, 0.6, nil)
	// A single weak signal: 20 * 1.1 / 100 = 0.22, under the threshold.
	vec := features.Vector{"failed_login_count": 60}

	match := c.Classify(vec)
	if match.AttackType != UnknownAttack {
		t.Fatalf("got %q, want %q", match.AttackType, UnknownAttack)
	}
	if match.Confidence != 0.22 {
		t.Errorf("confidence = %v, want the true low value 0.22", match.Confidence)
	}
	if match.Matched != nil {
		t.Error("unknown attack should not carry matched indicators")
	}
}

func TestClassifyDoSRequiresVeryHigh(t *testing.T) {
	c := NewClassifier(nil, 0.3, nil)

	// 81 clears the very_high cutoff, 79 does not.
	hot := features.Vector{"packet_rate": 95, "packet_count": 85}
	cold := features.Vector{"packet_rate": 79, "packet_count": 79}

	if match := c.Classify(hot); match.AttackType != "DoS Attack" {
		t.Errorf("hot vector classified as %q", match.AttackType)
	} else if match.Confidence != 0.72 {
		t.Errorf("confidence = %v, want 0.72 (60 points x 1.2 bonus)", match.Confidence)
	}
	if match := c.Classify(cold); match.AttackType == "DoS Attack" {
		t.Error("cold vector classified as DoS Attack")
	}
}

func TestClassifyNormalTraffic(t *testing.T) {
	c := NewClassifier(nil, 0.4, nil)
	vec := features.Vector{
		"critical_ratio": 0,
		"warning_ratio":  5,
	}

	match := c.Classify(vec)
	if match.AttackType != "Normal Traffic" {
		t.Fatalf("got %q, want Normal Traffic", match.AttackType)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := NewClassifier(nil, 0, nil)
	vec := features.Vector{
		"unique_dst_ports":   70,
		"syn_count":          90,
		"packet_rate":        85,
		"packet_count":       85,
		"failed_login_count": 60,
	}

	first := c.Classify(vec)
	for i := 0; i < 50; i++ {
		got := c.Classify(vec)
		if got.AttackType != first.AttackType || got.Confidence != first.Confidence {
			t.Fatalf("run %d diverged: %+v vs %+v", i, got, first)
		}
	}
}

func TestClassifyEmptyVector(t *testing.T) {
	c := NewClassifier(nil, 0, nil)
	match := c.Classify(nil)
	if match.AttackType != UnknownAttack {
		t.Fatalf("got %q, want %q", match.AttackType, UnknownAttack)
	}
	if match.Confidence != 0 {
		t.Errorf("confidence = %v, want 0", match.Confidence)
	}
}

func TestClassifyBatchIndependence(t *testing.T) {
	c := NewClassifier(nil, 0.3, nil)
	vecs := []features.Vector{
		{"unique_dst_ports": 70, "syn_count": 90, "packet_rate": 60},
		{"critical_ratio": 1, "warning_ratio": 2},
	}
	matches := c.ClassifyBatch(vecs)
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].AttackType != "Port Scan" || matches[1].AttackType != "Normal Traffic" {
		t.Errorf("unexpected labels: %q, %q", matches[0].AttackType, matches[1].AttackType)
	}
}

// Package classify maps anomalous feature vectors to attack types using a
// deterministic signature table. There is no learned model here: signatures
// name the features an attack inflates (or keeps low) and scoring is a fixed
// arithmetic over those expectations, so the same vector always yields the
// same label and confidence.
package classify

import (
	"log/slog"
	"sort"

	"netguard/pkg/features"
)

// Expectation is the level a signature expects a feature to sit at.
type Expectation string

const (
	ExpectHigh     Expectation = "high"      // value > 50
	ExpectVeryHigh Expectation = "very_high" // value > 80
	ExpectLow      Expectation = "low"       // value < 20
)

// Signature describes one attack type as a set of feature expectations.
type Signature struct {
	Name     string
	Patterns map[string]Expectation
}

// UnknownAttack is the label returned when no signature clears the
// confidence threshold.
const UnknownAttack = "Unknown Attack"

// DefaultConfidenceThreshold is the minimum confidence required to accept a
// signature match.
const DefaultConfidenceThreshold = 0.6

// DefaultSignatures returns the built-in signature table. Order matters: it
// is the tie-break order when two signatures score identically.
func DefaultSignatures() []Signature {
	return []Signature{
		{Name: "Port Scan", Patterns: map[string]Expectation{
			"unique_dst_ports": ExpectHigh,
			"packet_rate":      ExpectHigh,
			"syn_count":        ExpectHigh,
		}},
		{Name: "Brute Force", Patterns: map[string]Expectation{
			"failed_login_count": ExpectHigh,
			"warning_ratio":      ExpectHigh,
		}},
		{Name: "SQL Injection", Patterns: map[string]Expectation{
			"sql_injection_count":      ExpectHigh,
			"suspicious_command_count": ExpectHigh,
		}},
		{Name: "DoS Attack", Patterns: map[string]Expectation{
			"packet_rate":  ExpectVeryHigh,
			"packet_count": ExpectVeryHigh,
		}},
		{Name: "Data Exfiltration", Patterns: map[string]Expectation{
			"avg_payload_size": ExpectHigh,
			"unique_dst_ips":   ExpectHigh,
		}},
		{Name: "Malware Traffic", Patterns: map[string]Expectation{
			"port_scan_count":            ExpectHigh,
			"privilege_escalation_count": ExpectHigh,
		}},
		{Name: "Privilege Escalation", Patterns: map[string]Expectation{
			"privilege_escalation_count": ExpectHigh,
			"access_violation_count":     ExpectHigh,
		}},
		{Name: "Normal Traffic", Patterns: map[string]Expectation{
			"critical_ratio": ExpectLow,
			"warning_ratio":  ExpectLow,
		}},
	}
}

// Match is the classification outcome for one feature vector.
type Match struct {
	AttackType string
	Confidence float64
	// Matched lists the features that satisfied the winning signature, in
	// sorted order for stable output.
	Matched []string
	// Scores holds the per-signature confidence for every attack type, for
	// diagnostics and dashboards.
	Scores map[string]float64
}

// Classifier scores feature vectors against its signature table.
type Classifier struct {
	signatures []Signature
	threshold  float64
	logger     *slog.Logger
}

// NewClassifier builds a classifier over the given signatures. Nil signatures
// selects the default table; thresholds outside (0,1] select the default.
func NewClassifier(signatures []Signature, threshold float64, logger *slog.Logger) *Classifier {
	if signatures == nil {
		signatures = DefaultSignatures()
	}
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultConfidenceThreshold
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{signatures: signatures, threshold: threshold, logger: logger}
}

// Classify scores the vector against every signature and returns the best
// match. Ties resolve to the earliest signature in the table. Confidence
// below the threshold degrades to UnknownAttack, keeping the computed
// confidence so the caller can still report how close the nearest match was.
func (c *Classifier) Classify(vec features.Vector) Match {
	best := Match{AttackType: UnknownAttack, Scores: make(map[string]float64, len(c.signatures))}
	for _, sig := range c.signatures {
		confidence, matched := scoreSignature(sig, vec)
		best.Scores[sig.Name] = confidence
		if confidence > best.Confidence {
			best.AttackType = sig.Name
			best.Confidence = confidence
			best.Matched = matched
		}
	}

	if best.Confidence < c.threshold {
		c.logger.Debug("no signature cleared confidence threshold",
			"nearest", best.AttackType, "confidence", best.Confidence)
		best.AttackType = UnknownAttack
		best.Matched = nil
	}
	return best
}

// ClassifyBatch classifies each vector independently.
func (c *Classifier) ClassifyBatch(vecs []features.Vector) []Match {
	out := make([]Match, len(vecs))
	for i, v := range vecs {
		out[i] = c.Classify(v)
	}
	return out
}

// scoreSignature computes the confidence for one signature. Each satisfied
// expectation contributes a fixed score (+20 for high or low, +30 for
// very_high), the total takes a 10% bonus per matched feature, and the result
// normalizes by 100 into a confidence capped at 1.
func scoreSignature(sig Signature, vec features.Vector) (float64, []string) {
	total := 0.0
	var matched []string
	for name, exp := range sig.Patterns {
		value, ok := vec[name]
		if !ok {
			continue
		}
		switch exp {
		case ExpectHigh:
			if value > 50 {
				total += 20
				matched = append(matched, name)
			}
		case ExpectVeryHigh:
			if value > 80 {
				total += 30
				matched = append(matched, name)
			}
		case ExpectLow:
			if value < 20 {
				total += 20
				matched = append(matched, name)
			}
		}
	}
	if len(matched) == 0 {
		return 0, nil
	}
	sort.Strings(matched)

	total *= 1 + 0.1*float64(len(matched))
	confidence := total / 100
	if confidence > 1 {
		confidence = 1
	}
	return confidence, matched
}

package detect

import "fmt"

// Severity is the ordered classification of an ensemble score.
type Severity int

const (
	SeverityNormal Severity = iota
	SeverityWarning
	SeverityCritical
)

// String returns the canonical label used in alert records.
func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "CRITICAL"
	case SeverityWarning:
		return "WARNING"
	default:
		return "NORMAL"
	}
}

// SeverityThresholds maps ensemble scores to severities. Ordering is a
// construction-time invariant: Critical >= Warning.
type SeverityThresholds struct {
	Critical float64
	Warning  float64
}

// DefaultThresholds returns the standard 0.9/0.7 cut points.
func DefaultThresholds() SeverityThresholds {
	return SeverityThresholds{Critical: 0.9, Warning: 0.7}
}

// NewSeverityThresholds rejects misordered thresholds eagerly; a critical cut
// below the warning cut would silently misclassify at run time.
func NewSeverityThresholds(critical, warning float64) (SeverityThresholds, error) {
	if critical < warning {
		return SeverityThresholds{}, fmt.Errorf(
			"critical threshold %.3f must be >= warning threshold %.3f", critical, warning)
	}
	return SeverityThresholds{Critical: critical, Warning: warning}, nil
}

// Classify maps a score to its severity and a descriptive label. Total over
// all real inputs; monotonic in the score.
func (t SeverityThresholds) Classify(score float64) (Severity, string) {
	switch {
	case score >= t.Critical:
		return SeverityCritical, fmt.Sprintf("Critical anomaly detected (score: %.3f)", score)
	case score >= t.Warning:
		return SeverityWarning, fmt.Sprintf("Suspicious behavior detected (score: %.3f)", score)
	default:
		return SeverityNormal, fmt.Sprintf("Normal behavior (score: %.3f)", score)
	}
}

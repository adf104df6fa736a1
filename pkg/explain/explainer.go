// Package explain builds the human-readable rationale attached to an alert.
// Generation is fully deterministic: the same score, attack type, and feature
// vector always produce the same text, so explanations are reproducible in
// tests and comparable across runs.
package explain

import (
	"fmt"
	"sort"
	"strings"

	"netguard/pkg/detect"
	"netguard/pkg/features"
)

// topFactorCount is how many contributing features the explanation lists.
const topFactorCount = 5

// Explanation is the structured form of one alert rationale. Text holds the
// assembled block; the remaining fields expose the parts for alert records.
type Explanation struct {
	Severity        detect.Severity
	AttackType      string
	Score           float64
	Text            string
	Findings        []string
	Recommendations []string
}

// Explainer assembles explanations using the same severity thresholds as the
// classifier, so banner and severity tag never disagree.
type Explainer struct {
	thresholds detect.SeverityThresholds
}

// NewExplainer builds an explainer over the given thresholds.
func NewExplainer(thresholds detect.SeverityThresholds) *Explainer {
	return &Explainer{thresholds: thresholds}
}

// Explain produces the rationale for one detection. Section order is fixed:
// banner, contributing factors, findings, recommendations.
func (e *Explainer) Explain(score float64, attackType string, vec features.Vector) Explanation {
	severity, _ := e.thresholds.Classify(score)

	var b strings.Builder
	switch severity {
	case detect.SeverityCritical:
		fmt.Fprintf(&b, "CRITICAL THREAT: %s\n", attackType)
	case detect.SeverityWarning:
		fmt.Fprintf(&b, "WARNING: Suspicious activity detected - %s\n", attackType)
	default:
		fmt.Fprintf(&b, "INFO: %s\n", attackType)
	}

	b.WriteString("\nContributing Factors:\n")
	for i, factor := range topFactors(vec, topFactorCount) {
		fmt.Fprintf(&b, "  %d. %s: %.2f\n", i+1, factor.name, factor.value)
	}

	findings := attackFindings(attackType)
	if len(findings) > 0 {
		b.WriteString("\nFindings:\n")
		for _, f := range findings {
			fmt.Fprintf(&b, "  - %s\n", f)
		}
	}

	recs := e.recommendations(attackType, score)
	if len(recs) > 0 {
		b.WriteString("\nRecommendations:\n")
		for _, r := range recs {
			fmt.Fprintf(&b, "  - %s\n", r)
		}
	}

	return Explanation{
		Severity:        severity,
		AttackType:      attackType,
		Score:           score,
		Text:            strings.TrimRight(b.String(), "\n"),
		Findings:        findings,
		Recommendations: recs,
	}
}

type factor struct {
	name  string
	value float64
}

// topFactors ranks features by value clipped to [0,100], descending, with
// name order breaking ties so the ranking is stable.
func topFactors(vec features.Vector, n int) []factor {
	factors := make([]factor, 0, len(vec))
	for name, value := range vec {
		if value < 0 {
			value = 0
		}
		if value > 100 {
			value = 100
		}
		factors = append(factors, factor{name: name, value: value})
	}
	sort.Slice(factors, func(i, j int) bool {
		if factors[i].value != factors[j].value {
			return factors[i].value > factors[j].value
		}
		return factors[i].name < factors[j].name
	})
	if len(factors) > n {
		factors = factors[:n]
	}
	return factors
}

// attackFindings returns the canned findings for an attack label. Matching is
// by substring so variant labels ("Port Scan (slow)") still select findings.
func attackFindings(attackType string) []string {
	switch {
	case strings.Contains(attackType, "Port Scan"):
		return []string{
			"Multiple destination ports accessed",
			"High SYN flag count detected",
			"Unusual port sequence detected",
		}
	case strings.Contains(attackType, "Brute Force"):
		return []string{
			"Multiple failed login attempts detected",
			"Rapid authentication attempts from single source",
		}
	case strings.Contains(attackType, "SQL Injection"):
		return []string{
			"SQL keywords detected in request payloads",
			"Abnormal query patterns in application traffic",
		}
	case strings.Contains(attackType, "DoS"):
		return []string{
			"High packet rate detected",
			"Large volume of traffic from single source",
		}
	case strings.Contains(attackType, "Exfiltration"):
		return []string{
			"Large outbound data transfer detected",
			"Connection to multiple external destinations",
		}
	case strings.Contains(attackType, "Privilege Escalation"):
		return []string{
			"Privilege escalation attempts observed",
			"Access violations on restricted resources",
		}
	case strings.Contains(attackType, "Malware"):
		return []string{
			"Internal scanning behavior observed",
			"Privilege escalation indicators present",
		}
	default:
		return nil
	}
}

// recommendations gates general advice by severity tier, then extends it with
// attack-type-specific items.
func (e *Explainer) recommendations(attackType string, score float64) []string {
	var recs []string
	switch {
	case score >= e.thresholds.Critical:
		recs = append(recs,
			"IMMEDIATE ACTION REQUIRED - Block source IP",
			"Isolate affected systems",
			"Collect detailed logs for forensics",
		)
	case score >= e.thresholds.Warning:
		recs = append(recs,
			"Monitor source for additional suspicious activity",
			"Review affected system logs",
			"Consider rate-limiting from source IP",
		)
	}

	switch {
	case strings.Contains(attackType, "Port Scan"):
		recs = append(recs,
			"Review network segmentation rules",
			"Implement port-based access controls",
		)
	case strings.Contains(attackType, "Brute Force"):
		recs = append(recs,
			"Enforce stronger authentication policies",
			"Implement account lockout mechanisms",
		)
	case strings.Contains(attackType, "SQL Injection"):
		recs = append(recs,
			"Review application code for input validation",
			"Update database access controls",
		)
	case strings.Contains(attackType, "DoS"):
		recs = append(recs,
			"Activate traffic rate limiting",
			"Scale ingress capacity if attack persists",
		)
	case strings.Contains(attackType, "Exfiltration"):
		recs = append(recs,
			"Review data access logs",
			"Enable data loss prevention controls",
		)
	}
	return recs
}

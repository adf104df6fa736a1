// Package alerts holds the alert record produced at the end of a pipeline
// run and the storage backends that persist it.
package alerts

import (
	"time"

	"github.com/google/uuid"
)

// Alert is the terminal record handed to storage and dashboards. The field
// set is the stable contract consumed by external collaborators.
type Alert struct {
	ID             string    `json:"id" db:"id"`
	AlertType      string    `json:"alert_type" db:"alert_type"`
	Severity       string    `json:"severity" db:"severity"`
	Confidence     float64   `json:"confidence" db:"confidence"`
	SourceIP       string    `json:"source_ip" db:"source_ip"`
	DestinationIP  string    `json:"destination_ip" db:"destination_ip"`
	Protocol       string    `json:"protocol" db:"protocol"`
	Description    string    `json:"description" db:"description"`
	Indicators     []string  `json:"indicators" db:"indicators"`
	Recommendation string    `json:"recommendation" db:"recommendation"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`

	// Analyst feedback flags, settable after the fact.
	Acknowledged  bool `json:"acknowledged" db:"acknowledged"`
	FalsePositive bool `json:"false_positive" db:"false_positive"`
}

// NewAlert stamps a fresh alert with an ID and creation time.
func NewAlert(alertType, severity string, confidence float64) *Alert {
	return &Alert{
		ID:         uuid.NewString(),
		AlertType:  alertType,
		Severity:   severity,
		Confidence: confidence,
		CreatedAt:  time.Now().UTC(),
	}
}

// Stats summarizes stored alerts for dashboards.
type Stats struct {
	Total          int            `json:"total"`
	BySeverity     map[string]int `json:"by_severity"`
	ByAttackType   map[string]int `json:"by_attack_type"`
	Acknowledged   int            `json:"acknowledged"`
	FalsePositives int            `json:"false_positives"`
}

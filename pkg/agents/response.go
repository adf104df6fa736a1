package agents

import (
	"log/slog"
	"time"

	"netguard/pkg/alerts"
	"netguard/pkg/detect"
)

// Action is one planned response to an explained threat.
type Action struct {
	Timestamp          time.Time `json:"timestamp"`
	Severity           string    `json:"severity"`
	AlertType          string    `json:"alert_type"`
	Confidence         float64   `json:"confidence"`
	Explanation        string    `json:"explanation"`
	RecommendedActions []string  `json:"recommended_actions"`
	AutomatedActions   []string  `json:"automated_actions"`
}

// ResponseAgent turns explained threats into planned actions and alert
// records ready for storage.
type ResponseAgent struct {
	agentCore
	logger *slog.Logger
}

// NewResponseAgent builds the pipeline's final stage.
func NewResponseAgent(logger *slog.Logger) *ResponseAgent {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResponseAgent{agentCore: newAgentCore(responseAgentID, RoleResponse), logger: logger}
}

// Respond plans actions and assembles alert records. Network context on the
// alerts (source, destination, protocol) comes from the batch's first
// packet; log-only batches leave those fields empty.
func (a *ResponseAgent) Respond(msg Message) ([]Action, []*alerts.Alert) {
	a.status = "responding"
	defer func() { a.status = "idle" }()

	payload := msg.Payload.(explanationPayload)

	var srcIP, dstIP, protocol string
	if len(payload.Batch.Packets) > 0 {
		first := payload.Batch.Packets[0]
		srcIP, dstIP, protocol = first.SrcIP, first.DstIP, first.Protocol
	}

	actions := make([]Action, 0, len(payload.Threats))
	records := make([]*alerts.Alert, 0, len(payload.Threats))
	for _, threat := range payload.Threats {
		expl := threat.Explanation
		cls := threat.Classification

		actions = append(actions, Action{
			Timestamp:          time.Now().UTC(),
			Severity:           expl.Severity.String(),
			AlertType:          cls.AttackType,
			Confidence:         cls.Confidence,
			Explanation:        expl.Text,
			RecommendedActions: expl.Recommendations,
			AutomatedActions:   automatedActions(expl.Severity),
		})

		alert := alerts.NewAlert(cls.AttackType, expl.Severity.String(), cls.Confidence)
		alert.SourceIP = srcIP
		alert.DestinationIP = dstIP
		alert.Protocol = protocol
		alert.Description = expl.Text
		alert.Indicators = cls.Indicators
		if len(expl.Recommendations) > 0 {
			alert.Recommendation = expl.Recommendations[0]
		}
		records = append(records, alert)
	}

	a.logger.Info("response stage complete", "actions", len(actions))
	return actions, records
}

// automatedActions maps severity to the fixed automated response plan.
func automatedActions(severity detect.Severity) []string {
	switch severity {
	case detect.SeverityCritical:
		return []string{
			"Log all activity",
			"Capture network traffic",
			"Alert security team",
			"Prepare isolation commands",
		}
	case detect.SeverityWarning:
		return []string{
			"Log activity",
			"Monitor source IP",
			"Alert security team",
		}
	default:
		return []string{
			"Log activity",
			"Monitor",
		}
	}
}

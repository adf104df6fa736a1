package agents

import (
	"log/slog"

	"netguard/pkg/explain"
	"netguard/pkg/features"
)

// ExplainedThreat pairs a classification with its generated rationale.
type ExplainedThreat struct {
	Classification Classification
	Explanation    explain.Explanation
}

type explanationPayload struct {
	Batch   Batch
	Threats []ExplainedThreat
}

// ExplanationAgent attaches a deterministic rationale to every classified
// detection.
type ExplanationAgent struct {
	agentCore
	explainer *explain.Explainer
	logger    *slog.Logger
}

// NewExplanationAgent builds the explanation stage.
func NewExplanationAgent(explainer *explain.Explainer, logger *slog.Logger) *ExplanationAgent {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExplanationAgent{
		agentCore: newAgentCore(explainAgentID, RoleExplanation),
		explainer: explainer,
		logger:    logger,
	}
}

// Explain consumes the classification message and emits explained threats.
func (a *ExplanationAgent) Explain(msg Message) Message {
	a.status = "explaining"
	defer func() { a.status = "idle" }()

	payload := msg.Payload.(classificationPayload)
	batch := payload.Batch

	threats := make([]ExplainedThreat, 0, len(payload.Classifications))
	for _, cls := range payload.Classifications {
		var vec features.Vector
		if idx := cls.Detection.Index; idx >= 0 && idx < len(batch.Vectors) {
			vec = batch.Vectors[idx]
		}
		threats = append(threats, ExplainedThreat{
			Classification: cls,
			Explanation:    a.explainer.Explain(cls.Detection.Score, cls.AttackType, vec),
		})
	}

	a.logger.Debug("explanation stage complete", "explained", len(threats))

	return newMessage(a.id, responseAgentID, "explanations_generated",
		explanationPayload{Batch: batch, Threats: threats})
}

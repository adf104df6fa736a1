package agents

import (
	"log/slog"

	"netguard/pkg/classify"
	"netguard/pkg/features"
)

// Classification pairs a detection with its attack-type match.
type Classification struct {
	Detection  Detection `json:"detection"`
	AttackType string    `json:"attack_type"`
	Confidence float64   `json:"confidence"`
	Indicators []string  `json:"indicators"`
}

type classificationPayload struct {
	Batch           Batch
	Classifications []Classification
}

// ClassificationAgent labels each detection with an attack type by running
// the signature classifier over the detection's feature vector.
type ClassificationAgent struct {
	agentCore
	classifier *classify.Classifier
	logger     *slog.Logger
}

// NewClassificationAgent builds the classification stage.
func NewClassificationAgent(classifier *classify.Classifier, logger *slog.Logger) *ClassificationAgent {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClassificationAgent{
		agentCore:  newAgentCore(classifyAgentID, RoleClassification),
		classifier: classifier,
		logger:     logger,
	}
}

// Classify consumes the detection message and emits labeled detections.
func (a *ClassificationAgent) Classify(msg Message) Message {
	a.status = "classifying"
	defer func() { a.status = "idle" }()

	payload := msg.Payload.(detectionPayload)
	batch := payload.Batch

	classifications := make([]Classification, 0, len(payload.Detections))
	for _, det := range payload.Detections {
		var vec features.Vector
		if det.Index >= 0 && det.Index < len(batch.Vectors) {
			vec = batch.Vectors[det.Index]
		}
		match := a.classifier.Classify(vec)
		classifications = append(classifications, Classification{
			Detection:  det,
			AttackType: match.AttackType,
			Confidence: match.Confidence,
			Indicators: match.Matched,
		})
	}

	a.logger.Debug("classification stage complete", "classified", len(classifications))

	return newMessage(a.id, explainAgentID, "classifications_ready",
		classificationPayload{Batch: batch, Classifications: classifications})
}

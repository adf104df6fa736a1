package agents

import (
	"log/slog"

	"netguard/pkg/detect"
	"netguard/pkg/features"
)

// Detection is one per-sample anomaly flagged by the detection stage.
type Detection struct {
	Index    int     `json:"index"`
	Score    float64 `json:"anomaly_score"`
	Severity string  `json:"severity"`
}

type detectionPayload struct {
	Batch      Batch
	Detections []Detection
}

// DetectionAgent scores the batch and flags samples above the anomaly
// threshold. Precomputed scores on the batch take precedence over the
// engine's own scoring pass.
type DetectionAgent struct {
	agentCore
	engine     *detect.Engine
	thresholds detect.SeverityThresholds
	threshold  float64
	logger     *slog.Logger
}

// NewDetectionAgent builds the detection stage. threshold is the anomaly
// cut: samples scoring strictly above it become detections. The threshold is
// taken as given; NewPipeline rejects values outside (0,1) up front.
func NewDetectionAgent(engine *detect.Engine, thresholds detect.SeverityThresholds, threshold float64, logger *slog.Logger) *DetectionAgent {
	if logger == nil {
		logger = slog.Default()
	}
	return &DetectionAgent{
		agentCore:  newAgentCore(detectAgentID, RoleDetection),
		engine:     engine,
		thresholds: thresholds,
		threshold:  threshold,
		logger:     logger,
	}
}

// Detect consumes the monitoring message and emits flagged anomalies.
func (a *DetectionAgent) Detect(msg Message) Message {
	a.status = "detecting"
	defer func() { a.status = "idle" }()

	payload := msg.Payload.(monitoringPayload)
	batch := payload.Batch

	scores := batch.Scores
	if scores == nil && a.engine != nil && len(batch.Vectors) > 0 {
		matrix := features.Matrix(batch.Vectors, features.Names())
		scores, _ = a.engine.Score(matrix)
	}

	var detections []Detection
	for i, score := range scores {
		ensembleScores.Observe(score)
		if score > a.threshold {
			severity, _ := a.thresholds.Classify(score)
			detections = append(detections, Detection{
				Index:    i,
				Score:    score,
				Severity: severity.String(),
			})
		}
	}

	a.logger.Info("detection stage complete",
		"samples", len(scores), "detections", len(detections))

	return newMessage(a.id, classifyAgentID, "anomalies_detected",
		detectionPayload{Batch: batch, Detections: detections})
}

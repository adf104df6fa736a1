package agents

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"netguard/pkg/alerts"
	"netguard/pkg/classify"
	"netguard/pkg/detect"
	"netguard/pkg/explain"
)

// Terminal statuses reported on a pipeline result.
const (
	StatusNormal          = "NORMAL"
	StatusThreatsDetected = "THREATS_DETECTED"
)

// Result is the terminal aggregate of one pipeline run.
type Result struct {
	ThreatDetected bool            `json:"threat_detected"`
	Status         string          `json:"status"`
	Actions        []Action        `json:"actions"`
	Alerts         []*alerts.Alert `json:"alerts"`
	MessageCount   int             `json:"message_count"`
	AgentsInvolved int             `json:"agents_involved"`
}

// Pipeline runs the five stages in fixed order per invocation. A pipeline
// instance is meant for sequential use; run concurrent invocations on
// separate instances since stage status fields are per-instance.
type Pipeline struct {
	monitoring     *MonitoringAgent
	detection      *DetectionAgent
	classification *ClassificationAgent
	explanation    *ExplanationAgent
	response       *ResponseAgent
	store          alerts.Store
	logger         *slog.Logger
}

// Config assembles a pipeline from its stage dependencies. Store may be nil
// when alert persistence is handled by the caller.
type Config struct {
	Engine           *detect.Engine
	Thresholds       detect.SeverityThresholds
	AnomalyThreshold float64
	Classifier       *classify.Classifier
	Store            alerts.Store
	Logger           *slog.Logger
}

// NewPipeline wires the five agents together. A misconfigured anomaly
// threshold is a construction failure, not something to remap silently.
func NewPipeline(cfg Config) (*Pipeline, error) {
	if cfg.AnomalyThreshold <= 0 || cfg.AnomalyThreshold >= 1 {
		return nil, fmt.Errorf("anomaly threshold %.3f must be in (0,1)", cfg.AnomalyThreshold)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	classifier := cfg.Classifier
	if classifier == nil {
		classifier = classify.NewClassifier(nil, 0, logger)
	}
	return &Pipeline{
		monitoring:     NewMonitoringAgent(logger),
		detection:      NewDetectionAgent(cfg.Engine, cfg.Thresholds, cfg.AnomalyThreshold, logger),
		classification: NewClassificationAgent(classifier, logger),
		explanation:    NewExplanationAgent(explain.NewExplainer(cfg.Thresholds), logger),
		response:       NewResponseAgent(logger),
		store:          cfg.Store,
		logger:         logger,
	}, nil
}

// Run executes one synchronous pass over the batch. When detection flags
// nothing, the run short-circuits after the second stage with a no-threat
// result; classification, explanation, and response never execute.
func (p *Pipeline) Run(ctx context.Context, batch Batch) (*Result, error) {
	msgMonitoring := timeStage("monitoring", func() Message { return p.monitoring.Collect(batch) })
	msgDetection := timeStage("detection", func() Message { return p.detection.Detect(msgMonitoring) })
	messageCount := 2

	detections := msgDetection.Payload.(detectionPayload).Detections
	if len(detections) == 0 {
		p.logger.Info("no anomalies detected")
		pipelineRuns.WithLabelValues(StatusNormal).Inc()
		return &Result{
			ThreatDetected: false,
			Status:         StatusNormal,
			MessageCount:   messageCount,
			AgentsInvolved: 2,
		}, nil
	}

	msgClassification := timeStage("classification", func() Message { return p.classification.Classify(msgDetection) })
	msgExplanation := timeStage("explanation", func() Message { return p.explanation.Explain(msgClassification) })
	messageCount += 2

	respStart := time.Now()
	actions, records := p.response.Respond(msgExplanation)
	stageDuration.WithLabelValues("response").Observe(time.Since(respStart).Seconds())

	if p.store != nil {
		for _, alert := range records {
			if err := p.store.Insert(ctx, alert); err != nil {
				p.logger.Error("alert persistence failed", "alert_id", alert.ID, "error", err)
			}
		}
	}

	for _, action := range actions {
		threatsDetected.WithLabelValues(action.Severity, action.AlertType).Inc()
	}
	pipelineRuns.WithLabelValues(StatusThreatsDetected).Inc()

	p.logger.Info("pipeline run complete",
		"threats", len(actions), "messages", messageCount)

	return &Result{
		ThreatDetected: true,
		Status:         StatusThreatsDetected,
		Actions:        actions,
		Alerts:         records,
		MessageCount:   messageCount,
		AgentsInvolved: 5,
	}, nil
}

func timeStage(stage string, fn func() Message) Message {
	start := time.Now()
	msg := fn()
	stageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	return msg
}

// AgentStatus is one entry in the pipeline's status report.
type AgentStatus struct {
	ID     string `json:"id"`
	Role   Role   `json:"role"`
	Status string `json:"status"`
}

// Status reports every agent's transient state.
func (p *Pipeline) Status() []AgentStatus {
	stages := []Agent{p.monitoring, p.detection, p.classification, p.explanation, p.response}
	out := make([]AgentStatus, len(stages))
	for i, a := range stages {
		out[i] = AgentStatus{ID: a.ID(), Role: a.Role(), Status: a.Status()}
	}
	return out
}

package agents

import (
	"log/slog"

	"netguard/pkg/capture"
	"netguard/pkg/features"
)

// Batch is the raw input to one pipeline run. Vectors carries the extracted
// feature vector per sample; Scores optionally carries precomputed ensemble
// scores, in which case the detection stage skips its own scoring pass.
type Batch struct {
	Packets []capture.Packet
	Events  []capture.LogEvent
	Vectors []features.Vector
	Scores  []float64
}

// BatchSummary is the monitoring stage's digest of a raw batch.
type BatchSummary struct {
	PacketCount int            `json:"packet_count"`
	EventCount  int            `json:"event_count"`
	Protocols   map[string]int `json:"protocols"`
}

type monitoringPayload struct {
	Batch   Batch
	Summary BatchSummary
}

// MonitoringAgent summarizes the raw batch and forwards it unchanged.
type MonitoringAgent struct {
	agentCore
	logger *slog.Logger
}

// NewMonitoringAgent builds the pipeline's first stage.
func NewMonitoringAgent(logger *slog.Logger) *MonitoringAgent {
	if logger == nil {
		logger = slog.Default()
	}
	return &MonitoringAgent{agentCore: newAgentCore(monitorAgentID, RoleMonitoring), logger: logger}
}

// Collect digests the batch and emits it toward the detection stage.
func (a *MonitoringAgent) Collect(batch Batch) Message {
	a.status = "collecting"
	defer func() { a.status = "idle" }()

	summary := BatchSummary{
		PacketCount: len(batch.Packets),
		EventCount:  len(batch.Events),
		Protocols:   make(map[string]int),
	}
	for _, p := range batch.Packets {
		summary.Protocols[p.Protocol]++
	}

	a.logger.Debug("batch collected",
		"packets", summary.PacketCount, "events", summary.EventCount)

	return newMessage(a.id, detectAgentID, "raw_data",
		monitoringPayload{Batch: batch, Summary: summary})
}

package agents

import "github.com/prometheus/client_golang/prometheus"

var (
	pipelineRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "netguard", Subsystem: "pipeline", Name: "runs_total", Help: "Total pipeline runs by terminal status."},
		[]string{"status"},
	)
	threatsDetected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "netguard", Subsystem: "pipeline", Name: "threats_total", Help: "Total threats detected by severity and attack type."},
		[]string{"severity", "attack_type"},
	)
	stageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "netguard", Subsystem: "pipeline", Name: "stage_duration_seconds", Help: "Per-stage processing duration.", Buckets: prometheus.DefBuckets},
		[]string{"stage"},
	)
	ensembleScores = prometheus.NewHistogram(
		prometheus.HistogramOpts{Namespace: "netguard", Subsystem: "detection", Name: "ensemble_score", Help: "Distribution of ensemble anomaly scores.", Buckets: prometheus.LinearBuckets(0, 0.1, 11)},
	)
)

func init() {
	_ = prometheus.Register(pipelineRuns)
	_ = prometheus.Register(threatsDetected)
	_ = prometheus.Register(stageDuration)
	_ = prometheus.Register(ensembleScores)
}

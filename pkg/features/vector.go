package features

import (
	"fmt"
	"math"
)

// Vector maps feature names to numeric values. Keys must come from the fixed
// schema below; Validate catches drift before a vector reaches a detector.
type Vector map[string]float64

// Network feature names, in canonical order.
var networkNames = []string{
	"packet_count", "avg_packet_size", "max_packet_size", "min_packet_size",
	"std_packet_size", "tcp_ratio", "udp_ratio", "icmp_ratio",
	"unique_src_ports", "unique_dst_ports", "avg_src_port", "avg_dst_port",
	"unique_src_ips", "unique_dst_ips", "syn_count", "ack_count",
	"rst_count", "fin_count", "syn_ack_ratio", "rst_fin_ratio",
	"avg_ttl", "ttl_variance", "ttl_anomaly", "packet_rate",
	"avg_payload_size", "zero_payload_ratio",
}

// Log feature names, in canonical order.
var logNames = []string{
	"total_events", "critical_events", "warning_events", "info_events",
	"critical_ratio", "warning_ratio", "failed_login_count", "port_scan_count",
	"suspicious_command_count", "sql_injection_count", "privilege_escalation_count",
	"access_violation_count", "total_suspicious_indicators", "unique_sources",
	"event_concentration",
}

var knownNames = func() map[string]struct{} {
	m := make(map[string]struct{}, len(networkNames)+len(logNames))
	for _, n := range networkNames {
		m[n] = struct{}{}
	}
	for _, n := range logNames {
		m[n] = struct{}{}
	}
	return m
}()

// Names returns the full canonical feature-name list (network then log).
func Names() []string {
	out := make([]string, 0, len(networkNames)+len(logNames))
	out = append(out, networkNames...)
	out = append(out, logNames...)
	return out
}

// NetworkNames returns the canonical network feature names.
func NetworkNames() []string {
	out := make([]string, len(networkNames))
	copy(out, networkNames)
	return out
}

// Validate rejects vectors carrying names outside the fixed schema.
func (v Vector) Validate() error {
	for name := range v {
		if _, ok := knownNames[name]; !ok {
			return fmt.Errorf("unknown feature name: %q", name)
		}
	}
	return nil
}

// Sanitize replaces NaN and infinite values with zero, in place, and returns
// the vector. Detectors require finite inputs.
func (v Vector) Sanitize() Vector {
	for name, val := range v {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			v[name] = 0
		}
	}
	return v
}

// Get returns the value for name, or zero when absent.
func (v Vector) Get(name string) float64 {
	return v[name]
}

// Row flattens the vector into a slice ordered by names. Missing features
// become zero; values are sanitized.
func (v Vector) Row(names []string) []float64 {
	row := make([]float64, len(names))
	for i, name := range names {
		val := v[name]
		if math.IsNaN(val) || math.IsInf(val, 0) {
			val = 0
		}
		row[i] = val
	}
	return row
}

// Matrix flattens a batch of vectors into rows ordered by names.
func Matrix(vectors []Vector, names []string) [][]float64 {
	rows := make([][]float64, len(vectors))
	for i, v := range vectors {
		rows[i] = v.Row(names)
	}
	return rows
}

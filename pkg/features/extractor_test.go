package features

import (
	"math"
	"testing"
	"time"

	"netguard/pkg/capture"
)

func tcpPacket(src, dst string, srcPort, dstPort, size int, flags ...string) capture.Packet {
	return capture.Packet{
		Timestamp: time.Now(),
		Protocol:  "TCP",
		SrcIP:     src,
		DstIP:     dst,
		SrcPort:   srcPort,
		DstPort:   dstPort,
		Size:      size,
		Flags:     flags,
		TTL:       64,
	}
}

func TestPacketFeaturesEmptyBatch(t *testing.T) {
	e := NewExtractor(100, nil)
	v := e.PacketFeatures(nil)
	if len(v) != len(NetworkNames()) {
		t.Fatalf("got %d features, want %d", len(v), len(NetworkNames()))
	}
	for name, val := range v {
		if val != 0 {
			t.Errorf("%s = %v, want 0", name, val)
		}
	}
}

func TestPacketFeaturesBasicCounts(t *testing.T) {
	e := NewExtractor(100, nil)
	packets := []capture.Packet{
		tcpPacket("10.0.0.1", "10.0.0.2", 50000, 80, 100, "SYN"),
		tcpPacket("10.0.0.1", "10.0.0.2", 50001, 443, 200, "SYN", "ACK"),
		tcpPacket("10.0.0.3", "10.0.0.2", 50002, 80, 300, "ACK"),
		{Protocol: "UDP", SrcIP: "10.0.0.4", DstIP: "10.0.0.2", SrcPort: 50003, DstPort: 53, Size: 80, TTL: 64},
	}

	v := e.PacketFeatures(packets)
	checks := map[string]float64{
		"packet_count":     4,
		"tcp_ratio":        0.75,
		"udp_ratio":        0.25,
		"icmp_ratio":       0,
		"unique_src_ips":   3,
		"unique_dst_ips":   1,
		"unique_src_ports": 4,
		"unique_dst_ports": 3,
		"syn_count":        2,
		"ack_count":        2,
		"max_packet_size":  300,
		"min_packet_size":  80,
		"avg_packet_size":  170,
		"avg_ttl":          64,
		"ttl_anomaly":      0,
	}
	for name, want := range checks {
		if got := v[name]; got != want {
			t.Errorf("%s = %v, want %v", name, got, want)
		}
	}
	// syn/(ack+1) = 2/3
	if got := v["syn_ack_ratio"]; math.Abs(got-2.0/3.0) > 1e-12 {
		t.Errorf("syn_ack_ratio = %v, want 2/3", got)
	}
}

func TestPacketFeaturesAllFinite(t *testing.T) {
	e := NewExtractor(100, nil)
	// Degenerate batch: one packet, zero TTL, zero ports.
	v := e.PacketFeatures([]capture.Packet{{Protocol: "ICMP"}})
	for name, val := range v {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			t.Errorf("%s = %v, want finite", name, val)
		}
	}
}

func TestLogFeatures(t *testing.T) {
	e := NewExtractor(100, nil)
	events := []capture.LogEvent{
		{Source: "sshd", Severity: "WARNING", Indicators: []string{capture.IndicatorFailedLogin}},
		{Source: "sshd", Severity: "WARNING", Indicators: []string{capture.IndicatorFailedLogin}},
		{Source: "webapp", Severity: "CRITICAL", Indicators: []string{capture.IndicatorSQLInjection}},
		{Source: "kernel", Severity: "INFO"},
	}

	v := e.LogFeatures(events)
	checks := map[string]float64{
		"total_events":                4,
		"critical_events":             1,
		"warning_events":              2,
		"info_events":                 1,
		"critical_ratio":              0.25,
		"warning_ratio":               0.5,
		"failed_login_count":          2,
		"sql_injection_count":         1,
		"total_suspicious_indicators": 3,
		"unique_sources":              3,
	}
	for name, want := range checks {
		if got := v[name]; got != want {
			t.Errorf("%s = %v, want %v", name, got, want)
		}
	}
	// 4 events over 3 sources.
	if got := v["event_concentration"]; math.Abs(got-4.0/3.0) > 1e-12 {
		t.Errorf("event_concentration = %v, want 4/3", got)
	}
}

func TestCombinedCoversFullSchema(t *testing.T) {
	e := NewExtractor(100, nil)
	v := e.Combined(
		[]capture.Packet{tcpPacket("10.0.0.1", "10.0.0.2", 50000, 80, 100, "SYN")},
		[]capture.LogEvent{{Source: "sshd", Severity: "INFO"}},
	)
	if err := v.Validate(); err != nil {
		t.Fatalf("combined vector incomplete: %v", err)
	}
	if len(v) != len(Names()) {
		t.Errorf("got %d features, want %d", len(v), len(Names()))
	}
}

func TestSanitizeReplacesNonFinite(t *testing.T) {
	v := Vector{"a": math.NaN(), "b": math.Inf(1), "c": 3}
	got := v.Sanitize()
	if got["a"] != 0 || got["b"] != 0 || got["c"] != 3 {
		t.Errorf("Sanitize() = %v", got)
	}
}

func TestRowAndMatrixOrdering(t *testing.T) {
	v := Vector{"x": 1, "y": 2}
	row := v.Row([]string{"y", "x", "missing"})
	want := []float64{2, 1, 0}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("row[%d] = %v, want %v", i, row[i], want[i])
		}
	}

	m := Matrix([]Vector{v, {"x": 5}}, []string{"x", "y"})
	if len(m) != 2 || m[1][0] != 5 || m[1][1] != 0 {
		t.Errorf("Matrix() = %v", m)
	}
}

package features

import (
	"log/slog"
	"math"
	"sync"

	"netguard/pkg/capture"
)

// Extractor computes feature vectors from packet and log-event batches.
// It keeps a bounded sliding history so rate features have a stable window.
type Extractor struct {
	mu            sync.Mutex
	windowSize    int
	packetHistory []capture.Packet
	logger        *slog.Logger
}

// NewExtractor creates an extractor with the given window size (default 100).
func NewExtractor(windowSize int, logger *slog.Logger) *Extractor {
	if windowSize <= 0 {
		windowSize = 100
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{windowSize: windowSize, logger: logger}
}

// PacketFeatures extracts the network feature set from a packet batch.
// Empty batches yield an all-zero vector.
func (e *Extractor) PacketFeatures(packets []capture.Packet) Vector {
	v := make(Vector, len(networkNames))
	for _, name := range networkNames {
		v[name] = 0
	}
	if len(packets) == 0 {
		return v
	}

	e.mu.Lock()
	e.packetHistory = append(e.packetHistory, packets...)
	if len(e.packetHistory) > e.windowSize {
		e.packetHistory = e.packetHistory[len(e.packetHistory)-e.windowSize:]
	}
	window := e.windowSize
	e.mu.Unlock()

	n := float64(len(packets))

	sizes := make([]float64, len(packets))
	for i, p := range packets {
		sizes[i] = float64(p.Size)
	}
	v["packet_count"] = n
	v["avg_packet_size"] = mean(sizes)
	v["max_packet_size"] = maxOf(sizes)
	v["min_packet_size"] = minOf(sizes)
	v["std_packet_size"] = stddev(sizes, v["avg_packet_size"])

	var tcp, udp, icmp float64
	srcPorts := make(map[int]struct{})
	dstPorts := make(map[int]struct{})
	srcIPs := make(map[string]struct{})
	dstIPs := make(map[string]struct{})
	var srcPortSum, dstPortSum float64

	for _, p := range packets {
		switch p.Protocol {
		case "TCP":
			tcp++
		case "UDP":
			udp++
		case "ICMP":
			icmp++
		}
		srcPorts[p.SrcPort] = struct{}{}
		dstPorts[p.DstPort] = struct{}{}
		srcPortSum += float64(p.SrcPort)
		dstPortSum += float64(p.DstPort)
		if p.SrcIP != "" {
			srcIPs[p.SrcIP] = struct{}{}
		}
		if p.DstIP != "" {
			dstIPs[p.DstIP] = struct{}{}
		}
	}

	v["tcp_ratio"] = tcp / n
	v["udp_ratio"] = udp / n
	v["icmp_ratio"] = icmp / n
	v["unique_src_ports"] = float64(len(srcPorts))
	v["unique_dst_ports"] = float64(len(dstPorts))
	v["avg_src_port"] = srcPortSum / n
	v["avg_dst_port"] = dstPortSum / n
	v["unique_src_ips"] = float64(len(srcIPs))
	v["unique_dst_ips"] = float64(len(dstIPs))

	var syn, ack, rst, fin, tcpCount float64
	for _, p := range packets {
		if p.Protocol != "TCP" {
			continue
		}
		tcpCount++
		if p.HasFlag("SYN") {
			syn++
		}
		if p.HasFlag("ACK") {
			ack++
		}
		if p.HasFlag("RST") {
			rst++
		}
		if p.HasFlag("FIN") {
			fin++
		}
	}
	if tcpCount > 0 {
		v["syn_count"] = syn
		v["ack_count"] = ack
		v["rst_count"] = rst
		v["fin_count"] = fin
		v["syn_ack_ratio"] = syn / (ack + 1)
		v["rst_fin_ratio"] = (rst + fin) / (tcpCount + 1)
	}

	var ttls []float64
	for _, p := range packets {
		if p.TTL > 0 {
			ttls = append(ttls, float64(p.TTL))
		}
	}
	if len(ttls) > 0 {
		avgTTL := mean(ttls)
		v["avg_ttl"] = avgTTL
		v["ttl_variance"] = stddev(ttls, avgTTL)
		var anomalous float64
		for _, t := range ttls {
			if t < 32 || t > 255 {
				anomalous++
			}
		}
		v["ttl_anomaly"] = anomalous / float64(len(ttls))
	}

	v["packet_rate"] = n / math.Max(1, float64(window))

	var payloads []float64
	var zeroPayloads float64
	for _, p := range packets {
		payloads = append(payloads, float64(p.PayloadSize))
		if p.PayloadSize == 0 {
			zeroPayloads++
		}
	}
	v["avg_payload_size"] = mean(payloads)
	v["zero_payload_ratio"] = zeroPayloads / n

	e.logger.Debug("extracted packet features", "packets", len(packets))
	return v.Sanitize()
}

// LogFeatures extracts the log-event feature set. Empty batches yield an
// all-zero vector.
func (e *Extractor) LogFeatures(events []capture.LogEvent) Vector {
	v := make(Vector, len(logNames))
	for _, name := range logNames {
		v[name] = 0
	}
	if len(events) == 0 {
		return v
	}

	n := float64(len(events))
	v["total_events"] = n

	var critical, warning, info float64
	indicatorCounts := make(map[string]float64)
	sources := make(map[string]struct{})
	var totalIndicators float64

	for _, ev := range events {
		switch ev.Severity {
		case "CRITICAL":
			critical++
		case "WARNING":
			warning++
		case "INFO":
			info++
		}
		for _, ind := range ev.Indicators {
			indicatorCounts[ind]++
			totalIndicators++
		}
		src := ev.Source
		if src == "" {
			src = "unknown"
		}
		sources[src] = struct{}{}
	}

	v["critical_events"] = critical
	v["warning_events"] = warning
	v["info_events"] = info
	v["critical_ratio"] = critical / n
	v["warning_ratio"] = warning / n

	v["failed_login_count"] = indicatorCounts[capture.IndicatorFailedLogin]
	v["port_scan_count"] = indicatorCounts[capture.IndicatorPortScan]
	v["suspicious_command_count"] = indicatorCounts[capture.IndicatorSuspiciousCommand]
	v["sql_injection_count"] = indicatorCounts[capture.IndicatorSQLInjection]
	v["privilege_escalation_count"] = indicatorCounts[capture.IndicatorPrivilegeEscalation]
	v["access_violation_count"] = indicatorCounts[capture.IndicatorAccessViolation]
	v["total_suspicious_indicators"] = totalIndicators
	v["unique_sources"] = float64(len(sources))
	v["event_concentration"] = n / math.Max(1, float64(len(sources)))

	e.logger.Debug("extracted log features", "events", len(events))
	return v.Sanitize()
}

// Combined merges packet and log features into one vector.
func (e *Extractor) Combined(packets []capture.Packet, events []capture.LogEvent) Vector {
	v := e.PacketFeatures(packets)
	for name, val := range e.LogFeatures(events) {
		v[name] = val
	}
	return v
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stddev(xs []float64, m float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
}

func minOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	out := xs[0]
	for _, x := range xs[1:] {
		if x < out {
			out = x
		}
	}
	return out
}

func maxOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	out := xs[0]
	for _, x := range xs[1:] {
		if x > out {
			out = x
		}
	}
	return out
}

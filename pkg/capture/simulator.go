package capture

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

// Attack types the simulator can produce.
const (
	AttackPortScan         = "port_scan"
	AttackBruteForce       = "brute_force"
	AttackSQLInjection     = "sql_injection"
	AttackDoS              = "dos"
	AttackDataExfiltration = "data_exfiltration"
	AttackMalwareTraffic   = "malware_traffic"
)

// Intensity levels for simulated attacks.
const (
	IntensityLow    = "low"
	IntensityMedium = "medium"
	IntensityHigh   = "high"
)

// Simulator fabricates attack traffic for exercising the detection pipeline.
type Simulator struct {
	faker  *gofakeit.Faker
	rng    *rand.Rand
	logger *slog.Logger
}

// NewSimulator creates a simulator seeded for reproducible batches.
func NewSimulator(seed int64, logger *slog.Logger) *Simulator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Simulator{
		faker:  gofakeit.New(seed),
		rng:    rand.New(rand.NewSource(seed)),
		logger: logger,
	}
}

// AttackTypes lists the supported attack names in a fixed order.
func (s *Simulator) AttackTypes() []string {
	return []string{
		AttackPortScan, AttackBruteForce, AttackSQLInjection,
		AttackDoS, AttackDataExfiltration, AttackMalwareTraffic,
	}
}

// Simulate produces a packet batch for the named attack. Unknown attack types
// yield an empty batch.
func (s *Simulator) Simulate(attackType, intensity string) []Packet {
	var packets []Packet

	switch attackType {
	case AttackPortScan:
		packets = s.portScan(intensity)
	case AttackBruteForce:
		packets = s.bruteForce(intensity)
	case AttackSQLInjection:
		packets = s.sqlInjection(intensity)
	case AttackDoS:
		packets = s.dos(intensity)
	case AttackDataExfiltration:
		packets = s.dataExfiltration(intensity)
	case AttackMalwareTraffic:
		packets = s.malwareTraffic(intensity)
	default:
		s.logger.Warn("unknown attack type", "attack_type", attackType)
		return nil
	}

	s.logger.Info("simulated attack batch",
		"attack_type", attackType, "intensity", intensity, "packets", len(packets))
	return packets
}

func countFor(intensity string, low, medium, high int) int {
	switch intensity {
	case IntensityLow:
		return low
	case IntensityHigh:
		return high
	default:
		return medium
	}
}

// portScan: one source sweeping many destination ports with bare SYNs.
func (s *Simulator) portScan(intensity string) []Packet {
	n := countFor(intensity, 50, 100, 200)
	src := s.faker.IPv4Address()
	dst := "192.168.1.1"
	now := time.Now()

	packets := make([]Packet, 0, n)
	for i := 0; i < n; i++ {
		packets = append(packets, Packet{
			Timestamp:   now.Add(-time.Duration(n-i) * time.Millisecond),
			Protocol:    "TCP",
			SrcIP:       src,
			DstIP:       dst,
			SrcPort:     s.rng.Intn(16384) + 49152,
			DstPort:     s.rng.Intn(65535) + 1,
			Size:        s.rng.Intn(60) + 40,
			PayloadSize: 0,
			Flags:       []string{"SYN"},
			TTL:         64,
		})
	}
	return packets
}

// bruteForce: rapid small payloads against SSH from one source.
func (s *Simulator) bruteForce(intensity string) []Packet {
	n := countFor(intensity, 30, 100, 300)
	src := s.faker.IPv4Address()
	now := time.Now()

	packets := make([]Packet, 0, n)
	for i := 0; i < n; i++ {
		size := s.rng.Intn(150) + 50
		packets = append(packets, Packet{
			Timestamp:   now.Add(-time.Duration(n-i) * time.Second),
			Protocol:    "SSH",
			SrcIP:       src,
			DstIP:       "192.168.1.20",
			SrcPort:     s.rng.Intn(16384) + 49152,
			DstPort:     22,
			Size:        size,
			PayloadSize: s.rng.Intn(80) + 20,
			Flags:       []string{"PSH"},
			TTL:         64,
		})
	}
	return packets
}

var sqlPayloadSizes = []int{120, 180, 240, 310, 450}

// sqlInjection: HTTP requests with oversized query payloads.
func (s *Simulator) sqlInjection(intensity string) []Packet {
	n := countFor(intensity, 20, 50, 100)
	src := s.faker.IPv4Address()
	now := time.Now()

	packets := make([]Packet, 0, n)
	for i := 0; i < n; i++ {
		payload := sqlPayloadSizes[s.rng.Intn(len(sqlPayloadSizes))]
		packets = append(packets, Packet{
			Timestamp:   now.Add(-time.Duration(n-i) * time.Second),
			Protocol:    "HTTP",
			SrcIP:       src,
			DstIP:       "192.168.1.50",
			SrcPort:     s.rng.Intn(16384) + 49152,
			DstPort:     80,
			Size:        payload + 60,
			PayloadSize: payload,
			TTL:         64,
		})
	}
	return packets
}

// dos: SYN flood from many spoofed sources to one target.
func (s *Simulator) dos(intensity string) []Packet {
	n := countFor(intensity, 200, 500, 1000)
	now := time.Now()

	packets := make([]Packet, 0, n)
	ttls := []int{32, 64, 128}
	for i := 0; i < n; i++ {
		packets = append(packets, Packet{
			Timestamp:   now.Add(-time.Duration(n-i) * time.Millisecond),
			Protocol:    "TCP",
			SrcIP:       s.faker.IPv4Address(),
			DstIP:       "192.168.1.10",
			SrcPort:     s.rng.Intn(64511) + 1024,
			DstPort:     80,
			Size:        s.rng.Intn(1460) + 40,
			PayloadSize: s.rng.Intn(1380) + 20,
			Flags:       []string{"SYN"},
			TTL:         ttls[s.rng.Intn(len(ttls))],
		})
	}
	return packets
}

// dataExfiltration: large outbound payloads to many external hosts.
func (s *Simulator) dataExfiltration(intensity string) []Packet {
	n := countFor(intensity, 20, 60, 150)
	src := "192.168.1.30"
	now := time.Now()

	packets := make([]Packet, 0, n)
	for i := 0; i < n; i++ {
		payload := s.rng.Intn(600) + 900
		packets = append(packets, Packet{
			Timestamp:   now.Add(-time.Duration(n-i) * time.Second),
			Protocol:    "TCP",
			SrcIP:       src,
			DstIP:       s.faker.IPv4Address(),
			SrcPort:     s.rng.Intn(16384) + 49152,
			DstPort:     443,
			Size:        payload + 40,
			PayloadSize: payload,
			Flags:       []string{"PSH", "ACK"},
			TTL:         64,
		})
	}
	return packets
}

// malwareTraffic: beaconing to rotating destinations on odd ports.
func (s *Simulator) malwareTraffic(intensity string) []Packet {
	n := countFor(intensity, 30, 80, 160)
	src := "192.168.1.77"
	now := time.Now()

	packets := make([]Packet, 0, n)
	for i := 0; i < n; i++ {
		packets = append(packets, Packet{
			Timestamp:   now.Add(-time.Duration(n-i) * 30 * time.Second),
			Protocol:    "TCP",
			SrcIP:       src,
			DstIP:       s.faker.IPv4Address(),
			SrcPort:     s.rng.Intn(16384) + 49152,
			DstPort:     []int{4444, 8443, 6667, 1337}[s.rng.Intn(4)],
			Size:        s.rng.Intn(200) + 60,
			PayloadSize: s.rng.Intn(160) + 20,
			Flags:       []string{"PSH", "ACK"},
			TTL:         64,
		})
	}
	return packets
}

// SimulateEvents produces log events matching an attack batch, so log-derived
// features corroborate the packet-derived ones.
func (s *Simulator) SimulateEvents(attackType string, n int) []LogEvent {
	now := time.Now()
	events := make([]LogEvent, 0, n)

	var indicator, severity, message string
	switch attackType {
	case AttackPortScan:
		indicator, severity, message = IndicatorPortScan, "WARNING", "port scan probe observed"
	case AttackBruteForce:
		indicator, severity, message = IndicatorFailedLogin, "WARNING", "failed password for invalid user"
	case AttackSQLInjection:
		indicator, severity, message = IndicatorSQLInjection, "CRITICAL", "query rejected: UNION SELECT detected"
	case AttackDataExfiltration:
		indicator, severity, message = IndicatorAccessViolation, "WARNING", "bulk read access violation on data volume"
	case AttackMalwareTraffic:
		indicator, severity, message = IndicatorSuspiciousCommand, "CRITICAL", "suspicious command: wget followed by chmod +x"
	default:
		indicator, severity, message = IndicatorAccessViolation, "WARNING", "attack activity detected"
	}

	for i := 0; i < n; i++ {
		events = append(events, LogEvent{
			Timestamp:  now.Add(-time.Duration(n-i) * time.Second),
			Source:     s.faker.AppName(),
			Message:    message,
			Severity:   severity,
			Indicators: []string{indicator},
		})
	}
	return events
}

package capture

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

// MockSniffer generates synthetic but realistic-looking traffic batches.
// It stands in for a live capture backend so the rest of the pipeline can be
// exercised without raw socket access.
type MockSniffer struct {
	faker  *gofakeit.Faker
	rng    *rand.Rand
	logger *slog.Logger
}

// NewMockSniffer creates a sniffer seeded for reproducible batches.
func NewMockSniffer(seed int64, logger *slog.Logger) *MockSniffer {
	if logger == nil {
		logger = slog.Default()
	}
	return &MockSniffer{
		faker:  gofakeit.New(seed),
		rng:    rand.New(rand.NewSource(seed)),
		logger: logger,
	}
}

var normalProtocols = []string{"TCP", "TCP", "TCP", "UDP", "ICMP"}

var commonPorts = []int{80, 443, 22, 53, 8080, 3306, 5432}

// Capture returns a batch of n packets resembling benign traffic: mostly TCP
// to well-known ports, established-flow flag mixes, stable TTLs.
func (ms *MockSniffer) Capture(n int) []Packet {
	packets := make([]Packet, 0, n)
	now := time.Now()

	for i := 0; i < n; i++ {
		proto := normalProtocols[ms.rng.Intn(len(normalProtocols))]

		pkt := Packet{
			Timestamp: now.Add(-time.Duration(n-i) * 10 * time.Millisecond),
			Protocol:  proto,
			SrcIP:     ms.faker.IPv4Address(),
			DstIP:     ms.faker.IPv4Address(),
			SrcPort:   ms.rng.Intn(16384) + 49152,
			DstPort:   commonPorts[ms.rng.Intn(len(commonPorts))],
			Size:      ms.rng.Intn(1400) + 60,
			TTL:       64,
		}
		pkt.PayloadSize = pkt.Size - 40
		if pkt.PayloadSize < 0 {
			pkt.PayloadSize = 0
		}

		if proto == "TCP" {
			// Established flows are dominated by ACK/PSH, with the odd
			// handshake or teardown.
			switch ms.rng.Intn(10) {
			case 0:
				pkt.Flags = []string{"SYN"}
			case 1:
				pkt.Flags = []string{"FIN", "ACK"}
			case 2:
				pkt.Flags = []string{"PSH", "ACK"}
			default:
				pkt.Flags = []string{"ACK"}
			}
		}

		packets = append(packets, pkt)
	}

	ms.logger.Debug("mock capture complete", "packets", len(packets))
	return packets
}

// CaptureEvents returns n benign log events.
func (ms *MockSniffer) CaptureEvents(n int) []LogEvent {
	messages := []string{
		"User %s logged in successfully",
		"File /var/log/system.log accessed",
		"Database query executed in 12ms",
		"Network interface statistics updated",
		"Cache cleared successfully",
		"Scheduled backup completed",
	}

	events := make([]LogEvent, 0, n)
	now := time.Now()
	for i := 0; i < n; i++ {
		msg := messages[ms.rng.Intn(len(messages))]
		if msg == messages[0] {
			msg = "User " + ms.faker.Username() + " logged in successfully"
		}
		events = append(events, LogEvent{
			Timestamp: now.Add(-time.Duration(n-i) * time.Second),
			Source:    ms.faker.AppName(),
			Message:   msg,
			Severity:  "INFO",
		})
	}
	return events
}

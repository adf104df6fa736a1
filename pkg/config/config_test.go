package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 0.9, cfg.Detection.CriticalThreshold)
	assert.Equal(t, 0.7, cfg.Detection.WarningThreshold)
	assert.Equal(t, 0.7, cfg.Detection.AnomalyThreshold)
	assert.Equal(t, 0.6, cfg.Detection.ConfidenceThreshold)
	assert.Equal(t, 0.1, cfg.Detection.Contamination)
	assert.Equal(t, 100, cfg.Capture.WindowSize)
	assert.False(t, cfg.Database.Enabled)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
log:
  level: debug
  format: text
detection:
  critical_threshold: 0.95
  warning_threshold: 0.8
  weights:
    statistical: 0.5
    mad: 0.5
database:
  enabled: true
  host: db.internal
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 0.95, cfg.Detection.CriticalThreshold)
	assert.Equal(t, 0.8, cfg.Detection.WarningThreshold)
	assert.Equal(t, map[string]float64{"statistical": 0.5, "mad": 0.5}, cfg.Detection.Weights)
	assert.True(t, cfg.Database.Enabled)
	assert.Contains(t, cfg.Database.DSN(), "host=db.internal")
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("NETGUARD_LOG_LEVEL", "warn")
	t.Setenv("NETGUARD_DETECTION_ANOMALY_THRESHOLD", "0.8")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 0.8, cfg.Detection.AnomalyThreshold)
}

func TestValidateRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"misordered thresholds", func(c *Config) {
			c.Detection.CriticalThreshold = 0.5
			c.Detection.WarningThreshold = 0.8
		}},
		{"anomaly threshold too high", func(c *Config) { c.Detection.AnomalyThreshold = 1.5 }},
		{"anomaly threshold zero", func(c *Config) { c.Detection.AnomalyThreshold = 0 }},
		{"contamination too high", func(c *Config) { c.Detection.Contamination = 1.0 }},
		{"contamination zero", func(c *Config) { c.Detection.Contamination = 0 }},
		{"confidence out of range", func(c *Config) { c.Detection.ConfidenceThreshold = 1.2 }},
		{"negative weight", func(c *Config) {
			c.Detection.Weights = map[string]float64{"mad": -1}
		}},
		{"zero window", func(c *Config) { c.Capture.WindowSize = 0 }},
		{"zero batch", func(c *Config) { c.Capture.BatchSize = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

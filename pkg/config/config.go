// Package config loads and validates runtime configuration from defaults, an
// optional config file, and NETGUARD_-prefixed environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the detection service.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Detection DetectionConfig `mapstructure:"detection"`
	Capture   CaptureConfig   `mapstructure:"capture"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// LogConfig controls structured logging output.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DetectionConfig holds detector, fuser, and classifier tuning.
type DetectionConfig struct {
	CriticalThreshold   float64            `mapstructure:"critical_threshold"`
	WarningThreshold    float64            `mapstructure:"warning_threshold"`
	AnomalyThreshold    float64            `mapstructure:"anomaly_threshold"`
	ConfidenceThreshold float64            `mapstructure:"confidence_threshold"`
	Contamination       float64            `mapstructure:"contamination"`
	Seed                int64              `mapstructure:"seed"`
	Weights             map[string]float64 `mapstructure:"weights"`
}

// CaptureConfig controls batch collection.
type CaptureConfig struct {
	WindowSize int `mapstructure:"window_size"`
	BatchSize  int `mapstructure:"batch_size"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN renders the lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode)
}

// RedisConfig holds the alert cache settings.
type RedisConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Addr    string        `mapstructure:"addr"`
	DB      int           `mapstructure:"db"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// Load reads configuration from file and environment variables. Environment
// variables use the NETGUARD_ prefix with underscores for nesting, e.g.
// NETGUARD_DETECTION_CRITICAL_THRESHOLD.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("detection.critical_threshold", 0.9)
	v.SetDefault("detection.warning_threshold", 0.7)
	v.SetDefault("detection.anomaly_threshold", 0.7)
	v.SetDefault("detection.confidence_threshold", 0.6)
	v.SetDefault("detection.contamination", 0.1)
	v.SetDefault("detection.seed", 42)

	v.SetDefault("capture.window_size", 100)
	v.SetDefault("capture.batch_size", 100)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "netguard")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "netguard")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "1h")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", ":9090")

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("NETGUARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations that would misbehave at run time.
// Misordered severity thresholds and out-of-range ratios are construction
// failures, not conditions to limp along with.
func (c *Config) Validate() error {
	d := c.Detection
	if d.CriticalThreshold < d.WarningThreshold {
		return fmt.Errorf("critical threshold %.3f must be >= warning threshold %.3f",
			d.CriticalThreshold, d.WarningThreshold)
	}
	if d.AnomalyThreshold <= 0 || d.AnomalyThreshold >= 1 {
		return fmt.Errorf("anomaly threshold %.3f must be in (0,1)", d.AnomalyThreshold)
	}
	if d.Contamination <= 0 || d.Contamination >= 1 {
		return fmt.Errorf("contamination %.3f must be in (0,1)", d.Contamination)
	}
	if d.ConfidenceThreshold <= 0 || d.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence threshold %.3f must be in (0,1]", d.ConfidenceThreshold)
	}
	for name, w := range d.Weights {
		if w < 0 {
			return fmt.Errorf("negative weight %f for detector %q", w, name)
		}
	}
	if c.Capture.WindowSize <= 0 {
		return fmt.Errorf("window size must be positive, got %d", c.Capture.WindowSize)
	}
	if c.Capture.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", c.Capture.BatchSize)
	}
	return nil
}

// Package config loads the library's runtime configuration from a YAML
// file with environment-variable overrides: environment variables take
// precedence over the file, and defaults fill whatever is still unset
// (grounded on internal/config/config.go).
package config

import (
	"log/slog"
	"os"
	"strconv"
	"sync"

	"gopkg.in/yaml.v2"
)

// Config is the top-level configuration for a Session.
type Config struct {
	Gateway    GatewayConfig    `yaml:"gateway"`
	REST       RESTConfig       `yaml:"rest"`
	Logging    LoggingConfig    `yaml:"logging"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
}

// GatewayConfig controls the websocket session manager.
type GatewayConfig struct {
	URL                string `yaml:"url"`
	ShardCount         int    `yaml:"shard_count"`
	LargeThreshold     int    `yaml:"large_threshold"`
	HeartbeatTimeoutMs int    `yaml:"heartbeat_timeout_ms"`
	ReconnectMaxAttempt int   `yaml:"reconnect_max_attempts"`
}

// RESTConfig controls the REST dispatch engine.
type RESTConfig struct {
	BaseURL           string `yaml:"base_url"`
	UserAgent         string `yaml:"user_agent"`
	MaxRetries        int    `yaml:"max_retries"`
	RequestTimeoutSec int    `yaml:"request_timeout_sec"`
	UseETF            bool   `yaml:"use_etf"`
}

// LoggingConfig controls the slog/log split (spec ambient stack).
type LoggingConfig struct {
	Level      string `yaml:"level"`
	JSONFormat bool   `yaml:"json_format"`
}

// MonitoringConfig controls the prometheus registry.
type MonitoringConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the process-wide singleton Config, loading it from
// CONFIG_PATH (default "config.yaml") on first use.
func Get() *Config {
	once.Do(func() {
		cfg, err := Load(getEnv("CONFIG_PATH", "config.yaml"))
		if err != nil {
			slog.Warn("config: failed to load file, using defaults", "error", err)
		}
		if cfg == nil {
			cfg = &Config{}
		}
		cfg.applyEnvOverrides()
		cfg.applyDefaults()
		instance = cfg
	})
	return instance
}

// Load reads and parses a YAML config file without touching the
// singleton, for callers that want an isolated Config (tests, multiple
// Sessions in one process).
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnvOverrides() {
	c.Gateway.URL = getEnv("DGO_GATEWAY_URL", c.Gateway.URL)
	if v := getEnvInt("DGO_SHARD_COUNT", 0); v > 0 {
		c.Gateway.ShardCount = v
	}
	c.REST.BaseURL = getEnv("DGO_REST_BASE_URL", c.REST.BaseURL)
	c.REST.UserAgent = getEnv("DGO_USER_AGENT", c.REST.UserAgent)
	if v := getEnvInt("DGO_MAX_RETRIES", 0); v > 0 {
		c.REST.MaxRetries = v
	}
	c.Logging.Level = getEnv("DGO_LOG_LEVEL", c.Logging.Level)
	c.Monitoring.Addr = getEnv("DGO_METRICS_ADDR", c.Monitoring.Addr)
}

func (c *Config) applyDefaults() {
	if c.Gateway.URL == "" {
		c.Gateway.URL = "wss://gateway.example.com"
	}
	if c.Gateway.ShardCount == 0 {
		c.Gateway.ShardCount = 1
	}
	if c.Gateway.LargeThreshold == 0 {
		c.Gateway.LargeThreshold = 250
	}
	if c.Gateway.HeartbeatTimeoutMs == 0 {
		c.Gateway.HeartbeatTimeoutMs = 10000
	}
	if c.Gateway.ReconnectMaxAttempt == 0 {
		c.Gateway.ReconnectMaxAttempt = 5
	}
	if c.REST.BaseURL == "" {
		c.REST.BaseURL = "https://api.example.com"
	}
	if c.REST.UserAgent == "" {
		c.REST.UserAgent = "dgo (https://github.com/ocx/dgo, 0.1.0)"
	}
	if c.REST.MaxRetries == 0 {
		c.REST.MaxRetries = 5
	}
	if c.REST.RequestTimeoutSec == 0 {
		c.REST.RequestTimeoutSec = 12
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Monitoring.Addr == "" {
		c.Monitoring.Addr = ":9090"
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

// IsDebug reports whether the configured log level is "debug".
func (c *Config) IsDebug() bool {
	return c.Logging.Level == "debug"
}

package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Device   DeviceConfig  `yaml:"device"`
	Request  RequestConfig `yaml:"request"`
	Metrics  MetricsConfig `yaml:"metrics"`
	LogLevel string        `yaml:"log_level"`
}

// DeviceConfig identifies the scooter to connect to.
type DeviceConfig struct {
	MAC  string `yaml:"mac"`  // BLE MAC address (or platform device identifier)
	Name string `yaml:"name"` // advertised BLE name, used to seed the session cipher
}

// RequestConfig holds L3/L4 timing knobs.
type RequestConfig struct {
	RequestTimeout Duration `yaml:"request_timeout"` // outer deadline for request() retries
	ReceiveTimeout Duration `yaml:"receive_timeout"` // per-iteration receive() wait
	PairTimeout    Duration `yaml:"pair_timeout"`    // handshake pairing-loop deadline
	QueueSize      int      `yaml:"queue_size"`      // bounded receive queue capacity
}

// Duration is a time.Duration that marshals to/from YAML as a Go
// duration string ("5s", "1m30s") instead of yaml.v3's default of a
// bare integer nanosecond count.
type Duration time.Duration

func (d Duration) String() string { return time.Duration(d).String() }

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// MetricsConfig controls the optional Prometheus exporter.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"` // listen address, e.g. ":9090"
}

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "ninebot-ble")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Device: DeviceConfig{
			Name: "Unnamed",
		},
		Request: RequestConfig{
			RequestTimeout: Duration(5 * time.Second),
			ReceiveTimeout: Duration(1 * time.Second),
			PairTimeout:    Duration(60 * time.Second),
			QueueSize:      100,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":9090",
		},
		LogLevel: "info",
	}
}

// Load reads and parses a YAML config file. Missing fields are filled
// with defaults. The path is read as given; a leading tilde (~) is not
// expanded.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if cfg.Request.RequestTimeout <= 0 {
		cfg.Request.RequestTimeout = Default().Request.RequestTimeout
	}
	if cfg.Request.ReceiveTimeout <= 0 {
		cfg.Request.ReceiveTimeout = Default().Request.ReceiveTimeout
	}
	if cfg.Request.PairTimeout <= 0 {
		cfg.Request.PairTimeout = Default().Request.PairTimeout
	}
	if cfg.Request.QueueSize <= 0 {
		cfg.Request.QueueSize = Default().Request.QueueSize
	}

	return cfg, nil
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	if c.Device.MAC == "" {
		return fmt.Errorf("device.mac must not be empty")
	}

	if c.Request.RequestTimeout <= 0 {
		return fmt.Errorf("request.request_timeout must be > 0")
	}
	if c.Request.ReceiveTimeout <= 0 {
		return fmt.Errorf("request.receive_timeout must be > 0")
	}
	if c.Request.QueueSize <= 0 {
		return fmt.Errorf("request.queue_size must be > 0")
	}

	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("metrics.addr must not be empty when metrics.enabled is true")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn, or error, got %q", c.LogLevel)
	}

	return nil
}

// WriteDefault creates the default config file with documented defaults.
// It creates the parent directory if needed. Returns the path written to.
// If the file already exists, it returns ("", nil) without overwriting.
func WriteDefault() (string, error) {
	path := DefaultConfigPath()
	if _, err := os.Stat(path); err == nil {
		return "", nil // already exists
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating config dir %s: %w", dir, err)
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return "", fmt.Errorf("marshaling default config: %w", err)
	}

	header := "# ninebot-ble configuration\n\n"
	if err := os.WriteFile(path, []byte(header+string(data)), 0644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}

	return path, nil
}

// ParseLogLevel converts a log level string to a slog.Level.
func ParseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default: // "info"
		return slog.LevelInfo
	}
}

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// FileEnv names the environment variable pointing at an optional TOML file
const FileEnv = "CONFIG_FILE"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Logging   LogConfig       `toml:"logging"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Store     StoreConfig     `toml:"store"`
	Desktop   DesktopConfig   `toml:"desktop"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string   `envconfig:"PORT" toml:"port"`
	Host            string   `envconfig:"HOST" toml:"host"`
	AllowOrigins    []string `envconfig:"CORS_ORIGINS" toml:"allow_origins"`
	ShutdownTimeout Duration `envconfig:"SHUTDOWN_TIMEOUT" toml:"shutdown_timeout"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" toml:"level"`
	Development bool   `envconfig:"LOG_DEV" toml:"development"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" toml:"requests_per_second"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" toml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" toml:"enabled"`
}

// StoreConfig holds snapshot persistence configuration.
type StoreConfig struct {
	Driver        string   `envconfig:"STORE_DRIVER" toml:"driver"`
	Path          string   `envconfig:"STORE_PATH" toml:"path"`
	FlushInterval Duration `envconfig:"FLUSH_INTERVAL" toml:"flush_interval"`
}

// DesktopConfig holds window layout configuration.
type DesktopConfig struct {
	ViewportWidth  float64 `envconfig:"VIEWPORT_WIDTH" toml:"viewport_width"`
	ViewportHeight float64 `envconfig:"VIEWPORT_HEIGHT" toml:"viewport_height"`
	TaskbarHeight  float64 `envconfig:"TASKBAR_HEIGHT" toml:"taskbar_height"`
	AppsFile       string  `envconfig:"APPS_FILE" toml:"apps_file"`
}

// Duration is a time.Duration read from strings like "250ms"
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Load builds configuration from defaults, then the TOML file named by
// CONFIG_FILE, then environment variables.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv(FileEnv); path != "" {
		if err := cfg.MergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// MergeFile overlays a TOML file onto the configuration.
func (c *Config) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	var errs *multierror.Error
	if c.Server.Port == "" {
		errs = multierror.Append(errs, errors.New("port is required"))
	}
	if c.Store.Driver != "memory" && c.Store.Driver != "sqlite" {
		errs = multierror.Append(errs, fmt.Errorf("unknown store driver %q", c.Store.Driver))
	}
	if c.Store.Driver == "sqlite" && c.Store.Path == "" {
		errs = multierror.Append(errs, errors.New("store path is required for sqlite"))
	}
	if c.Desktop.ViewportWidth <= 0 || c.Desktop.ViewportHeight <= 0 {
		errs = multierror.Append(errs, errors.New("viewport dimensions must be positive"))
	}
	if c.Desktop.TaskbarHeight < 0 || c.Desktop.TaskbarHeight >= c.Desktop.ViewportHeight {
		errs = multierror.Append(errs, errors.New("taskbar height must fit inside the viewport"))
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		errs = multierror.Append(errs, errors.New("rate limit values must be positive"))
	}
	if c.Store.FlushInterval < 0 {
		errs = multierror.Append(errs, errors.New("flush interval must not be negative"))
	}
	if err := errs.ErrorOrNil(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8000",
			Host:            "0.0.0.0",
			AllowOrigins:    []string{"*"},
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Store: StoreConfig{
			Driver:        "sqlite",
			Path:          "data/webdesk.db",
			FlushInterval: Duration(250 * time.Millisecond),
		},
		Desktop: DesktopConfig{
			ViewportWidth:  1920,
			ViewportHeight: 1080,
			TaskbarHeight:  48,
		},
	}
}

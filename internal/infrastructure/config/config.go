package config

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Storage backends
const (
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Storage   StorageConfig
	Tabs      TabsConfig
	Menu      MenuConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// StorageConfig holds key-value store configuration.
type StorageConfig struct {
	Backend          string        `envconfig:"STORAGE_BACKEND" default:"file"`
	Path             string        `envconfig:"STORAGE_PATH" default:"./data"`
	Namespace        string        `envconfig:"STORAGE_NAMESPACE" default:"bizadmin/"`
	BreakerThreshold int           `envconfig:"STORAGE_BREAKER_THRESHOLD" default:"5"`
	BreakerCooldown  time.Duration `envconfig:"STORAGE_BREAKER_COOLDOWN" default:"30s"`
}

// TabsConfig holds tab strip configuration.
type TabsConfig struct {
	Max          int      `envconfig:"TABS_MAX" default:"10"`
	DefaultRoute string   `envconfig:"TABS_DEFAULT_ROUTE" default:"/app/dashboard"`
	IgnoreRoutes []string `envconfig:"TABS_IGNORE_ROUTES"`
}

// MenuConfig holds side-menu configuration.
type MenuConfig struct {
	File string `envconfig:"MENU_FILE"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
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
		Storage: StorageConfig{
			Backend:          BackendFile,
			Path:             "./data",
			Namespace:        "bizadmin/",
			BreakerThreshold: 5,
			BreakerCooldown:  30 * time.Second,
		},
		Tabs: TabsConfig{
			Max:          10,
			DefaultRoute: "/app/dashboard",
		},
	}
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	var errs []error
	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.Path == "" {
			errs = append(errs, errors.New("STORAGE_PATH is required for the file backend"))
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend))
	}
	if c.Tabs.Max < 1 {
		errs = append(errs, fmt.Errorf("TABS_MAX must be positive, got %d", c.Tabs.Max))
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerSecond < 1 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_RPS must be positive, got %d", c.RateLimit.RequestsPerSecond))
	}
	return errors.Join(errs...)
}

package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the assistant service.
// Environment variables are parsed from the MAJORDOMO_ prefix.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration. HTTPPorts is an ordered fallback list: the
	// server binds the first free port and reports it as the self URL.
	Host      string `envconfig:"HOST" default:"localhost"`
	HTTPPorts string `envconfig:"HTTP_PORTS" default:"5000,5001,5002"`

	// Storage
	DBDriver    string `envconfig:"DB_DRIVER" default:"auto"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"majordomo_sessions.db"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// External capability keys. Missing keys disable the related
	// feature; they never prevent startup.
	GeminiAPIKey  string `envconfig:"GEMINI_API_KEY" default:""`
	WeatherAPIKey string `envconfig:"WEATHER_API_KEY" default:""`
	NewsAPIKey    string `envconfig:"NEWS_API_KEY" default:""`

	// Wake name stripped by the normalizer ("hey majordomo, ...").
	WakeName string `envconfig:"WAKE_NAME" default:"majordomo"`

	// Daily digest
	DigestTime         string `envconfig:"DIGEST_TIME" default:"08:00"`
	DigestPollInterval string `envconfig:"DIGEST_POLL_INTERVAL" default:"1s"`

	DefaultCity string `envconfig:"DEFAULT_CITY" default:"Delhi"`
}

// ResolveDefaults validates the driver selection and derives DBDriver
// when set to "auto" or empty.
func (c *Config) ResolveDefaults() error {
	if c.DBDriver == "" || c.DBDriver == "auto" {
		if c.PostgresDSN != "" {
			c.DBDriver = "postgres"
		} else {
			c.DBDriver = "sqlite"
		}
	}

	allowedDB := map[string]bool{"sqlite": true, "postgres": true}
	if !allowedDB[c.DBDriver] {
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	if c.DBDriver == "postgres" && c.PostgresDSN == "" {
		return fmt.Errorf("DB_DRIVER=postgres requires POSTGRES_DSN")
	}
	if _, err := c.ParsePorts(); err != nil {
		return err
	}
	return nil
}

// ParsePorts parses the ordered HTTPPorts fallback list.
func (c *Config) ParsePorts() ([]int, error) {
	parts := strings.Split(c.HTTPPorts, ",")
	ports := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 || n > 65535 {
			return nil, fmt.Errorf("invalid port in HTTP_PORTS: %q", p)
		}
		ports = append(ports, n)
	}
	if len(ports) == 0 {
		return nil, fmt.Errorf("HTTP_PORTS is empty")
	}
	return ports, nil
}

// New creates a new Config by parsing environment variables.
// Example: MAJORDOMO_HTTP_PORTS, MAJORDOMO_GEMINI_API_KEY.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("MAJORDOMO", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Str("db_driver", cfg.DBDriver).
		Str("http_ports", cfg.HTTPPorts).
		Bool("gemini_key_present", cfg.GeminiAPIKey != "").
		Bool("weather_key_present", cfg.WeatherAPIKey != "").
		Bool("news_key_present", cfg.NewsAPIKey != "").
		Str("wake_name", cfg.WakeName).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config specifically for testing.
func NewForTesting() *Config {
	return &Config{
		Environment:        EnvTesting,
		Host:               "localhost",
		HTTPPorts:          "5000,5001,5002",
		DBDriver:           "sqlite",
		SQLitePath:         ":memory:",
		WakeName:           "majordomo",
		DigestTime:         "08:00",
		DigestPollInterval: "1s",
		DefaultCity:        "Delhi",
	}
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

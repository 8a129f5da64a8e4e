package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// Default endpoints for the Reboot01 learning platform.
const (
	DefaultSigninEndpoint  = "https://learn.reboot01.com/api/auth/signin"
	DefaultGraphQLEndpoint = "https://learn.reboot01.com/api/graphql-engine/v1/graphql"
)

// DefaultPollInterval is how often cached profile snapshots are refreshed.
const DefaultPollInterval = 30 * time.Second

// DefaultLoginRate limits login attempts per client IP (requests per minute).
const DefaultLoginRate = 10

var ErrMissingDatabaseURL = errors.New("config: DATABASE_URL is required")

// Config holds service configuration.
type Config struct {
	// Port the HTTP server listens on.
	Port string `yaml:"port"`

	// DatabaseURL is the postgres DSN for the session store.
	DatabaseURL string `yaml:"database_url"`

	// SigninEndpoint is the platform's Basic-auth token endpoint.
	SigninEndpoint string `yaml:"signin_endpoint"`

	// GraphQLEndpoint is the platform's Hasura GraphQL endpoint.
	GraphQLEndpoint string `yaml:"graphql_endpoint"`

	// PollInterval between background profile refreshes.
	PollInterval time.Duration `yaml:"poll_interval"`

	// LoginRatePerMinute caps login attempts per client IP.
	LoginRatePerMinute int `yaml:"login_rate_per_minute"`

	// AllowedOrigins for CORS, comma-separated in env form.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// SecureCookies controls the Secure flag on session cookies.
	// Disable for local HTTP development.
	SecureCookies bool `yaml:"secure_cookies"`
}

// Load builds the configuration from an optional YAML file
// (CONFIG_FILE, default "config.yaml" if present) overridden by
// environment variables.
//
// Environment variables:
//   - PORT: HTTP listen port (default "5050")
//   - DATABASE_URL: postgres DSN (required)
//   - SIGNIN_ENDPOINT: platform signin URL
//   - GRAPHQL_ENDPOINT: platform GraphQL URL
//   - POLL_INTERVAL: Go duration, e.g. "30s"
//   - ALLOWED_ORIGINS: comma-separated origin allow-list
//   - SECURE_COOKIES: "false" to allow cookies over plain HTTP
func Load() (Config, error) {
	cfg := Config{
		Port:               "5050",
		SigninEndpoint:     DefaultSigninEndpoint,
		GraphQLEndpoint:    DefaultGraphQLEndpoint,
		PollInterval:       DefaultPollInterval,
		LoginRatePerMinute: DefaultLoginRate,
		SecureCookies:      true,
	}

	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = "config.yaml"
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("SIGNIN_ENDPOINT"); v != "" {
		cfg.SigninEndpoint = v
	}
	if v := os.Getenv("GRAPHQL_ENDPOINT"); v != "" {
		cfg.GraphQLEndpoint = v
	}
	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse POLL_INTERVAL: %w", err)
		}
		cfg.PollInterval = d
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}
	if v := os.Getenv("SECURE_COOKIES"); strings.EqualFold(v, "false") {
		cfg.SecureCookies = false
	}

	return cfg, nil
}

// Validate checks that required settings are present.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("config: poll interval must be positive, got %s", c.PollInterval)
	}
	return nil
}

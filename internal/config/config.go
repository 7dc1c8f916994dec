package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Prefix is the environment variable prefix, e.g. COMPLAINTDESK_API_URL.
const Prefix = "COMPLAINTDESK"

// Config holds the settings shared by the CLI, the MCP server and the
// development backend.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// Client
	APIURL      string        `envconfig:"API_URL" default:"http://localhost:5000/api/v1"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	StateDir    string        `envconfig:"STATE_DIR" default:""`
	RateLimit   float64       `envconfig:"RATE_LIMIT" default:"0"`
	RateBurst   int           `envconfig:"RATE_BURST" default:"5"`
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"info"`

	// MCP server
	MCPTransport string `envconfig:"MCP_TRANSPORT" default:"stdio"`
	MCPAddr      string `envconfig:"MCP_ADDR" default:":11546"`
	MCPRole      string `envconfig:"MCP_ROLE" default:"customer"`

	// Development backend
	DevAddr       string        `envconfig:"DEV_ADDR" default:":5000"`
	DevJWTSecret  string        `envconfig:"DEV_JWT_SECRET" default:"dev-secret"`
	DevTokenTTL   time.Duration `envconfig:"DEV_TOKEN_TTL" default:"15m"`
	DevRefreshTTL time.Duration `envconfig:"DEV_REFRESH_TTL" default:"168h"`
}

// Validate checks the fields the processes cannot start without.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API_URL: %q", c.APIURL)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be > 0")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("RATE_LIMIT must be >= 0")
	}
	if c.RateLimit > 0 && c.RateBurst <= 0 {
		return fmt.Errorf("RATE_BURST must be > 0 when RATE_LIMIT is set")
	}
	switch c.MCPTransport {
	case "stdio", "http":
	default:
		return fmt.Errorf("unsupported MCP_TRANSPORT: %s", c.MCPTransport)
	}
	if c.DevTokenTTL <= 0 || c.DevRefreshTTL <= 0 {
		return fmt.Errorf("DEV_TOKEN_TTL and DEV_REFRESH_TTL must be > 0")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// New creates a new Config by parsing environment variables prefixed with
// COMPLAINTDESK_, e.g. COMPLAINTDESK_API_URL, COMPLAINTDESK_DEV_ADDR.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Debug().
		Str("environment", string(cfg.Environment)).
		Str("api_url", cfg.APIURL).
		Dur("http_timeout", cfg.HTTPTimeout).
		Float64("rate_limit", cfg.RateLimit).
		Str("state_dir", cfg.StateDir).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config specifically for testing
func NewForTesting() *Config {
	return &Config{
		Environment:   EnvTesting,
		APIURL:        "http://localhost:5000/api/v1",
		HTTPTimeout:   5 * time.Second,
		RateBurst:     5,
		LogLevel:      "debug",
		MCPTransport:  "stdio",
		MCPAddr:       ":11546",
		MCPRole:       "customer",
		DevAddr:       "127.0.0.1:0",
		DevJWTSecret:  "test-secret",
		DevTokenTTL:   time.Minute,
		DevRefreshTTL: time.Hour,
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

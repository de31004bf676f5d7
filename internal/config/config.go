package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds process-wide settings. It is loaded once at start-up and
// handed to components explicitly; nothing below cmd reads the environment.
type Config struct {
	// SERP provider
	DataForSEOLogin    string        `env:"DATAFORSEO_LOGIN"`
	DataForSEOPassword string        `env:"DATAFORSEO_PASSWORD"`
	DataForSEOBaseURL  string        `env:"DATAFORSEO_BASE_URL" envDefault:"https://api.dataforseo.com"`
	SERPTimeout        time.Duration `env:"SERP_TIMEOUT" envDefault:"60s"`

	// Suggestion provider (optional)
	AnthropicAPIKey  string        `env:"ANTHROPIC_API_KEY"`
	AnthropicBaseURL string        `env:"ANTHROPIC_BASE_URL"`
	AnthropicModel   string        `env:"ANTHROPIC_MODEL" envDefault:"claude-3-haiku-20240307"`
	SuggestTimeout   time.Duration `env:"SUGGEST_TIMEOUT" envDefault:"30s"`

	// Request defaults
	DefaultLocationCode int    `env:"DEFAULT_LOCATION_CODE" envDefault:"2840"`
	DefaultLanguageCode string `env:"DEFAULT_LANGUAGE_CODE" envDefault:"en"`
	DefaultDevice       string `env:"DEFAULT_DEVICE" envDefault:"desktop"`

	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"console"` // console or json
	MetricsPort int    `env:"METRICS_PORT" envDefault:"0"`

	// Page inspector
	PageTimeout           time.Duration `env:"PAGE_TIMEOUT" envDefault:"15s"`
	PageFingerprint       string        `env:"PAGE_FINGERPRINT" envDefault:"chrome"`
	PageRespectRobots     bool          `env:"PAGE_RESPECT_ROBOTS" envDefault:"true"`
	PageConcurrency       int           `env:"PAGE_CONCURRENCY" envDefault:"3"`
	PageRequestsPerSecond float64       `env:"PAGE_RPS" envDefault:"2"`
}

// Defaults is the location/language/device triple applied to requests that
// leave those fields unset.
type Defaults struct {
	LocationCode int
	LanguageCode string
	Device       string
}

// Load reads .env files (without overriding variables already set) and then
// parses the process environment.
func Load() (*Config, error) {
	loadEnvFiles()
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFrom parses an explicit variable map instead of the process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadEnvFiles() {
	for _, path := range []string{".env", "../.env"} {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}

func (c *Config) validate() error {
	var errs []error
	if c.SERPTimeout <= 0 {
		errs = append(errs, fmt.Errorf("SERP_TIMEOUT must be positive, got %s", c.SERPTimeout))
	}
	if c.SuggestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("SUGGEST_TIMEOUT must be positive, got %s", c.SuggestTimeout))
	}
	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be console or json, got %q", c.LogFormat))
	}
	c.DefaultDevice = strings.ToLower(strings.TrimSpace(c.DefaultDevice))
	if !ValidDevice(c.DefaultDevice) {
		errs = append(errs, fmt.Errorf("DEFAULT_DEVICE must be desktop or mobile, got %q", c.DefaultDevice))
	}
	if c.PageConcurrency < 1 {
		c.PageConcurrency = 1
	}
	return errors.Join(errs...)
}

// Defaults returns the request defaults.
func (c *Config) Defaults() Defaults {
	return Defaults{
		LocationCode: c.DefaultLocationCode,
		LanguageCode: c.DefaultLanguageCode,
		Device:       c.DefaultDevice,
	}
}

// AISuggestionsEnabled reports whether an Anthropic key is configured.
func (c *Config) AISuggestionsEnabled() bool {
	return strings.TrimSpace(c.AnthropicAPIKey) != ""
}

// ValidDevice reports whether d is a device the SERP provider understands.
func ValidDevice(d string) bool {
	return d == "desktop" || d == "mobile"
}

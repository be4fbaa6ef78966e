// Package config builds the immutable per-process configuration for the
// CloudHealth client.
//
// Sources are applied in this order, later ones winning:
//  1. Built-in defaults
//  2. Optional YAML file (base_url, page_size, log_level)
//  3. Environment variables (CH_BASE_URL, CH_LOG_LEVEL)
//  4. Explicit overrides (command-line flags)
//
// The API key is only ever read from CH_API_KEY. Loading fails with a
// *ConfigError when it is absent or empty, before any network activity.
package config

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/Sternrassler/cloudhealth-client/pkg/logging"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvAPIKey   = "CH_API_KEY"
	EnvBaseURL  = "CH_BASE_URL"
	EnvLogLevel = "CH_LOG_LEVEL"
)

// Defaults.
const (
	DefaultBaseURL  = "https://chapi.cloudhealthtech.com/"
	DefaultPageSize = 100
)

var (
	// ErrMissingToken is returned when CH_API_KEY is unset or empty.
	ErrMissingToken = errors.New("chcli expects an environment variable called " + EnvAPIKey +
		" with a valid CloudHealth API key")

	// ErrInvalidValue is returned when a setting fails validation.
	ErrInvalidValue = errors.New("invalid configuration value")
)

// ConfigError reports a fatal configuration problem. It is never retryable.
type ConfigError struct {
	// Key names the offending setting (env var, file path or field name).
	Key string
	Err error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Key, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Settings is the mutable input used to build a Config.
type Settings struct {
	APIKey   string `yaml:"-"`
	BaseURL  string `yaml:"base_url"`
	PageSize int    `yaml:"page_size"`
	LogLevel string `yaml:"log_level"`
}

// DefaultSettings returns the built-in defaults. APIKey is left empty.
func DefaultSettings() Settings {
	return Settings{
		BaseURL:  DefaultBaseURL,
		PageSize: DefaultPageSize,
		LogLevel: string(logging.LevelNone),
	}
}

// Config is the validated, read-only configuration. The zero value is not
// usable; build one with New or Load.
type Config struct {
	token    string
	baseURL  *url.URL
	pageSize int
	logLevel logging.LogLevel
}

// New validates s and freezes it into a Config.
func New(s Settings) (*Config, error) {
	token := strings.TrimSpace(s.APIKey)
	if token == "" {
		return nil, &ConfigError{Key: EnvAPIKey, Err: ErrMissingToken}
	}

	base, err := parseBaseURL(s.BaseURL)
	if err != nil {
		return nil, &ConfigError{Key: "base_url", Err: err}
	}

	if s.PageSize <= 0 {
		return nil, &ConfigError{
			Key: "page_size",
			Err: fmt.Errorf("%w: page size must be > 0 (got %d)", ErrInvalidValue, s.PageSize),
		}
	}

	level, err := logging.ParseLevel(s.LogLevel)
	if err != nil {
		return nil, &ConfigError{Key: "log_level", Err: fmt.Errorf("%w: %v", ErrInvalidValue, err)}
	}

	return &Config{
		token:    token,
		baseURL:  base,
		pageSize: s.PageSize,
		logLevel: level,
	}, nil
}

// parseBaseURL requires an absolute http(s) URL and normalizes the path to
// end in "/" so relative endpoint paths resolve beneath it.
func parseBaseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: base URL is empty", ErrInvalidValue)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: base URL %q must use http or https", ErrInvalidValue, raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: base URL %q has no host", ErrInvalidValue, raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery = ""
	u.Fragment = ""

	return u, nil
}

// Token returns the bearer token.
func (c *Config) Token() string { return c.token }

// BaseURL returns a copy of the API base URL.
func (c *Config) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// PageSize returns the per_page value used for paginated listings.
func (c *Config) PageSize() int { return c.pageSize }

// LogLevel returns the configured log verbosity.
func (c *Config) LogLevel() logging.LogLevel { return c.logLevel }

// Headers returns a fresh copy of the fixed request headers.
func (c *Config) Headers() http.Header {
	h := make(http.Header, 2)
	h.Set("Content-Type", "application/json")
	h.Set("Authorization", "Bearer "+c.token)
	return h
}

// String renders the config without the token.
func (c *Config) String() string {
	return fmt.Sprintf("base_url=%s page_size=%d log_level=%s", c.baseURL, c.pageSize, c.logLevel)
}

// Overrides are explicit values, typically from command-line flags. Empty
// fields are ignored.
type Overrides struct {
	LogLevel string
}

// LoadOptions control Load.
type LoadOptions struct {
	// File is an optional YAML config file. Empty means none.
	File string

	// Overrides are applied last.
	Overrides Overrides

	// Getenv looks up environment variables (default: os.Getenv).
	Getenv func(string) string
}

// Load assembles Settings from defaults, file, environment and overrides,
// then validates them with New.
func Load(opts LoadOptions) (*Config, error) {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	s := DefaultSettings()

	if opts.File != "" {
		if err := loadFile(opts.File, &s); err != nil {
			return nil, &ConfigError{Key: opts.File, Err: err}
		}
	}

	s.APIKey = getenv(EnvAPIKey)
	if v := getenv(EnvBaseURL); v != "" {
		s.BaseURL = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		s.LogLevel = v
	}

	if opts.Overrides.LogLevel != "" {
		s.LogLevel = opts.Overrides.LogLevel
	}

	return New(s)
}

// loadFile reads a YAML file into s. Fields absent from the file keep their
// current values.
func loadFile(path string, s *Settings) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc Settings
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if fc.BaseURL != "" {
		s.BaseURL = fc.BaseURL
	}
	if fc.PageSize != 0 {
		s.PageSize = fc.PageSize
	}
	if fc.LogLevel != "" {
		s.LogLevel = fc.LogLevel
	}

	return nil
}

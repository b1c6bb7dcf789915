// Package config provides configuration loading and validation for the form
// server.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Server       ServerConfig         `yaml:"server"`
	Definitions  DefinitionsConfig    `yaml:"definitions"`
	Translations TranslationsConfig   `yaml:"translations"`
	Logging      LoggingConfig        `yaml:"logging"`
	Metrics      MetricsConfig        `yaml:"metrics"`
	Autocomplete []AutocompleteConfig `yaml:"autocomplete"`
	Routes       map[string]string    `yaml:"routes"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	BaseURL      string        `yaml:"base_url"` // prefix of generated action and lookup URLs
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// DefinitionsConfig locates the declarative form definitions. An empty Dir
// serves the definitions embedded in the binary.
type DefinitionsConfig struct {
	Dir   string `yaml:"dir"`
	Watch bool   `yaml:"watch"` // reload when files under Dir change
}

// TranslationsConfig locates the message catalogs used to localise labels.
type TranslationsConfig struct {
	Dir      string   `yaml:"dir"`
	Domain   string   `yaml:"domain"` // catalog files are <domain>.<locale>.yaml
	Locale   string   `yaml:"locale"`
	Fallback []string `yaml:"fallback"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// AutocompleteConfig declares a lookup endpoint. The name is also the route
// name autocomplete elements refer to.
type AutocompleteConfig struct {
	Name         string         `yaml:"name"`
	Path         string         `yaml:"path"`
	Source       string         `yaml:"source"` // "static", "timezones" or "file"
	File         string         `yaml:"file"`   // one value per line, for "file"
	Options      []OptionConfig `yaml:"options"`
	SearchParam  string         `yaml:"search_param"`
	LimitParam   string         `yaml:"limit_param"`
	DefaultLimit int            `yaml:"default_limit"`
	MaxLimit     int            `yaml:"max_limit"`
	EmptySearch  string         `yaml:"empty_search"` // "none" or "top"
}

// OptionConfig is one static autocomplete suggestion.
type OptionConfig struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration, expanding environment variables first.
func Parse(data []byte) (*Config, error) {
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return finish(&cfg)
}

// LoadFromEnv creates configuration entirely from environment variables.
//
// Environment variables:
//
//	JSONFORM_SERVER_HOST          - Server host (default: 0.0.0.0)
//	JSONFORM_SERVER_PORT          - Server port (default: 8080)
//	JSONFORM_SERVER_READ_TIMEOUT  - Read timeout (default: 15s)
//	JSONFORM_SERVER_WRITE_TIMEOUT - Write timeout (default: 30s)
//	JSONFORM_SERVER_BASE_URL      - Prefix of generated URLs
//	JSONFORM_DEFINITIONS_DIR      - Definitions directory (default: embedded)
//	JSONFORM_DEFINITIONS_WATCH    - Reload definitions on change
//	JSONFORM_TRANSLATIONS_DIR     - Catalog directory
//	JSONFORM_TRANSLATIONS_LOCALE  - Default locale (default: en)
//	JSONFORM_TRANSLATIONS_FALLBACK - Comma separated fallback locales
//	JSONFORM_LOG_LEVEL            - debug, info, warn, error (default: info)
//	JSONFORM_LOG_FORMAT           - json or console (default: json)
//	JSONFORM_METRICS_ENABLED      - Enable the metrics endpoint
//	JSONFORM_METRICS_PATH         - Metrics path (default: /metrics)
func LoadFromEnv() (*Config, error) {
	return finish(&Config{})
}

// LoadWithFallback loads path when it exists and falls back to environment
// variables otherwise.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return LoadFromEnv()
}

func finish(cfg *Config) (*Config, error) {
	applyEnvOverrides(cfg)
	setDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies JSONFORM_* environment variables. Environment
// variables always override file-based configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("JSONFORM_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("JSONFORM_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("JSONFORM_SERVER_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if v := os.Getenv("JSONFORM_SERVER_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if v := os.Getenv("JSONFORM_SERVER_BASE_URL"); v != "" {
		cfg.Server.BaseURL = v
	}

	if v := os.Getenv("JSONFORM_DEFINITIONS_DIR"); v != "" {
		cfg.Definitions.Dir = v
	}
	if v := os.Getenv("JSONFORM_DEFINITIONS_WATCH"); v != "" {
		cfg.Definitions.Watch = parseBool(v)
	}

	if v := os.Getenv("JSONFORM_TRANSLATIONS_DIR"); v != "" {
		cfg.Translations.Dir = v
	}
	if v := os.Getenv("JSONFORM_TRANSLATIONS_LOCALE"); v != "" {
		cfg.Translations.Locale = v
	}
	if v := os.Getenv("JSONFORM_TRANSLATIONS_FALLBACK"); v != "" {
		cfg.Translations.Fallback = splitList(v)
	}

	if v := os.Getenv("JSONFORM_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("JSONFORM_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	if v := os.Getenv("JSONFORM_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}
	if v := os.Getenv("JSONFORM_METRICS_PATH"); v != "" {
		cfg.Metrics.Path = v
	}
}

// parseBool parses a boolean from common string values.
func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}

	if cfg.Translations.Domain == "" {
		cfg.Translations.Domain = "forms"
	}
	if cfg.Translations.Locale == "" {
		cfg.Translations.Locale = "en"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	for i := range cfg.Autocomplete {
		ac := &cfg.Autocomplete[i]
		if ac.Source == "" {
			ac.Source = "static"
		}
		if ac.Path == "" {
			ac.Path = "/" + ac.Name
		}
		if ac.EmptySearch == "" {
			ac.EmptySearch = "none"
		}
	}
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535, got %d", cfg.Server.Port)
	}

	if _, err := zerolog.ParseLevel(cfg.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", cfg.Logging.Format)
	}

	if cfg.Definitions.Watch && cfg.Definitions.Dir == "" {
		return fmt.Errorf("definitions.watch requires definitions.dir")
	}

	if !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with '/', got %q", cfg.Metrics.Path)
	}

	seen := make(map[string]bool, len(cfg.Autocomplete))
	validSources := map[string]bool{"static": true, "timezones": true, "file": true}
	validModes := map[string]bool{"none": true, "top": true}
	for i, ac := range cfg.Autocomplete {
		if ac.Name == "" {
			return fmt.Errorf("autocomplete[%d].name is required", i)
		}
		if seen[ac.Name] {
			return fmt.Errorf("autocomplete[%d].name %q is duplicated", i, ac.Name)
		}
		seen[ac.Name] = true
		if !validSources[ac.Source] {
			return fmt.Errorf("autocomplete[%d].source must be one of: static, timezones, file", i)
		}
		if ac.Source == "file" && ac.File == "" {
			return fmt.Errorf("autocomplete[%d].file is required when source is 'file'", i)
		}
		if !validModes[ac.EmptySearch] {
			return fmt.Errorf("autocomplete[%d].empty_search must be 'none' or 'top', got %q", i, ac.EmptySearch)
		}
		if ac.DefaultLimit < 0 || ac.MaxLimit < 0 {
			return fmt.Errorf("autocomplete[%d] limits must not be negative", i)
		}
	}

	for name, pattern := range cfg.Routes {
		if !strings.HasPrefix(pattern, "/") {
			return fmt.Errorf("routes.%s must start with '/', got %q", name, pattern)
		}
	}

	return nil
}

// ParsedLevel returns the parsed log level, info when it does not parse.
func (l LoggingConfig) ParsedLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(l.Level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

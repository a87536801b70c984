// Package config provides configuration loading for homeworkbot.
//
// Settings that are safe to commit live in an optional YAML file; the three
// secrets live in the process environment (see [LoadCredentials]).
//
// Example configuration:
//
//	poll_interval: 10m
//	request_timeout: 30s
//	endpoint: ${PRACTICUM_ENDPOINT:-https://practicum.yandex.ru/api/user_api/homework_statuses/}
//	status_addr: 127.0.0.1:8080
//
//	log:
//	  level: info
//	  file: main.log
//	  max_size_mb: 10
//	  max_backups: 3
package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// minPollInterval keeps a misconfigured bot from hammering the status API.
	minPollInterval = 1 * time.Second

	defaultPollInterval   = 10 * time.Minute
	defaultRequestTimeout = 30 * time.Second
	defaultLogLevel       = "info"
	defaultLogMaxSizeMB   = 10
	defaultLogMaxBackups  = 3
)

// Config is the root configuration structure for homeworkbot.
//
// It maps directly to the YAML configuration file structure.
// Use [Load], [Parse] or [Default] to create a Config.
type Config struct {
	// PollInterval is the pause between poll cycles. Defaults to 10m.
	PollInterval Duration `yaml:"poll_interval"`

	// Endpoint overrides the status API URL. Empty means the built-in
	// endpoint. Supports ${VAR} and ${VAR:-default} substitution.
	Endpoint string `yaml:"endpoint"`

	// RequestTimeout bounds a single status API request. Defaults to 30s.
	RequestTimeout Duration `yaml:"request_timeout"`

	// StatusAddr is the listen address of the status server, e.g. ":8080".
	// Empty disables the server. Supports environment substitution.
	StatusAddr string `yaml:"status_addr"`

	Log LogConfig `yaml:"log"`
}

// LogConfig controls the log sink.
type LogConfig struct {
	// Level is one of debug, info, warn, error. Defaults to info.
	Level string `yaml:"level"`

	// File additionally writes logs to a size-rotated file when set.
	File string `yaml:"file"`

	// MaxSizeMB is the size at which the log file is rotated. Defaults to 10.
	MaxSizeMB int `yaml:"max_size_mb"`

	// MaxBackups is the number of rotated files kept. Defaults to 3.
	MaxBackups int `yaml:"max_backups"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses a YAML configuration file.
//
// An empty path returns [Default]. Environment variables in the file are
// expanded before validation.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.PollInterval == 0 {
		c.PollInterval = Duration(defaultPollInterval)
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = Duration(defaultRequestTimeout)
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = defaultLogMaxSizeMB
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = defaultLogMaxBackups
	}
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	if c.PollInterval.Duration() < minPollInterval {
		return fmt.Errorf("poll_interval must be at least %s, got %s", minPollInterval, c.PollInterval.Duration())
	}

	if c.RequestTimeout.Duration() < 0 {
		return fmt.Errorf("request_timeout cannot be negative, got %s", c.RequestTimeout.Duration())
	}

	if c.Endpoint != "" {
		expanded, err := expandEnvVars(c.Endpoint)
		if err != nil {
			return fmt.Errorf("endpoint: %w", err)
		}
		c.Endpoint = expanded

		parsedURL, err := url.Parse(c.Endpoint)
		if err != nil {
			return fmt.Errorf("invalid endpoint: %w", err)
		}
		if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			return fmt.Errorf("endpoint scheme must be http or https, got %q", parsedURL.Scheme)
		}
	}

	if c.StatusAddr != "" {
		expanded, err := expandEnvVars(c.StatusAddr)
		if err != nil {
			return fmt.Errorf("status_addr: %w", err)
		}
		c.StatusAddr = expanded
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
		c.Log.Level = strings.ToLower(c.Log.Level)
	default:
		return fmt.Errorf("log.level must be debug, info, warn, or error, got %q", c.Log.Level)
	}

	if c.Log.MaxSizeMB < 0 {
		return fmt.Errorf("log.max_size_mb cannot be negative, got %d", c.Log.MaxSizeMB)
	}
	if c.Log.MaxBackups < 0 {
		return fmt.Errorf("log.max_backups cannot be negative, got %d", c.Log.MaxBackups)
	}

	return nil
}

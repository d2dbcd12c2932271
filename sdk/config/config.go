package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Version is the SDK release, reported in the User-Agent header.
const Version = "0.1.0"

const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "harmony-sdk-go/" + Version
)

// Config holds the immutable settings of an SDK client.
type Config struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	AppID   string `yaml:"app_id" mapstructure:"app_id"`
	AppKey  string `yaml:"app_key" mapstructure:"app_key"`

	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent string        `yaml:"user_agent" mapstructure:"user_agent"`

	// RateLimitPerSecond caps outgoing requests; 0 disables limiting.
	RateLimitPerSecond int `yaml:"rate_limit_per_second" mapstructure:"rate_limit_per_second"`
	// MaxRetries applies to idempotent GET requests only; 0 disables retries.
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries"`

	Log LogConfig `yaml:"log" mapstructure:"log"`
}

// LogConfig selects the logtrace setup used by the CLI.
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
	Env   string `yaml:"env" mapstructure:"env"`
}

// ApplyDefaults fills zero values with defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Env == "" {
		c.Log.Env = "prod"
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("base_url %q is not a valid http(s) url", c.BaseURL)
	}
	if c.AppID == "" {
		return fmt.Errorf("app_id is required")
	}
	if c.AppKey == "" {
		return fmt.Errorf("app_key is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}
	if c.RateLimitPerSecond < 0 {
		return fmt.Errorf("rate_limit_per_second cannot be negative")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries cannot be negative")
	}
	return nil
}

// Load reads configuration from a YAML file and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.ApplyDefaults()

	return &cfg, nil
}

// Save writes configuration to a YAML file. The file holds the app key, so
// it is created with owner-only permissions.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all genesis configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Language capability configuration
	LLM LLMConfig `yaml:"llm"`

	// Tool discovery configuration
	Discovery DiscoveryConfig `yaml:"discovery"`

	// Feedback store configuration
	Feedback FeedbackConfig `yaml:"feedback"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the language-understanding capability.
type LLMConfig struct {
	Provider string `yaml:"provider"` // gemini
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"`
}

// DiscoveryConfig configures the tool-search capability.
type DiscoveryConfig struct {
	Provider   string `yaml:"provider"` // github, web
	BaseURL    string `yaml:"base_url"`
	MaxResults int    `yaml:"max_results"`
	Timeout    string `yaml:"timeout"`
	Workers    int    `yaml:"workers"`
}

// FeedbackConfig configures the feedback store.
type FeedbackConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// LoggingConfig configures debug logging.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"` // debug, info, warn, error
	Categories map[string]bool `yaml:"categories"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "genesis",
		Version: "1.0.0",
		LLM: LLMConfig{
			Provider: "gemini",
			Model:    "gemini-2.5-flash",
			BaseURL:  "https://generativelanguage.googleapis.com/v1beta",
			Timeout:  "2m",
		},
		Discovery: DiscoveryConfig{
			Provider:   "github",
			BaseURL:    "https://api.github.com",
			MaxResults: 3,
			Timeout:    "30s",
			Workers:    4,
		},
		Feedback: FeedbackConfig{
			DatabasePath: filepath.Join(".genesis", "feedback.db"),
		},
		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
		},
	}
}

// Load reads configuration from the given path, falling back to defaults for
// anything unset. A missing file is not an error; env overrides always apply.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	if cfg.Discovery.MaxResults <= 0 {
		cfg.Discovery.MaxResults = 3
	}
	if cfg.Discovery.Workers <= 0 {
		cfg.Discovery.Workers = 4
	}
	return cfg, nil
}

// applyEnvOverrides lets environment variables win over file values.
// Useful for CI and for keeping API keys out of config files.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GENESIS_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("GENESIS_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("GENESIS_LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("GENESIS_SEARCH_PROVIDER"); v != "" {
		c.Discovery.Provider = v
	}
	if v := os.Getenv("GENESIS_SEARCH_BASE_URL"); v != "" {
		c.Discovery.BaseURL = v
	}
	if v := os.Getenv("GENESIS_DB_PATH"); v != "" {
		c.Feedback.DatabasePath = v
	}
	if v := os.Getenv("GENESIS_DEBUG"); v == "1" || v == "true" {
		c.Logging.DebugMode = true
	}
}

// LLMTimeout parses the LLM timeout, with a sane default.
func (c *Config) LLMTimeout() time.Duration {
	return parseDuration(c.LLM.Timeout, 2*time.Minute)
}

// DiscoveryTimeout parses the discovery wait timeout, with a sane default.
func (c *Config) DiscoveryTimeout() time.Duration {
	return parseDuration(c.Discovery.Timeout, 30*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// Save writes the configuration to the given path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

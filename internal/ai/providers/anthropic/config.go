package anthropic

import (
	"fmt"
	"net/url"
	"time"

	"github.com/oyilmaz/popt/internal/ai"
)

const (
	DefaultBaseURL     = "https://api.anthropic.com"
	DefaultModel       = "claude-sonnet-4-5"
	DefaultMaxTokens   = 4096
	DefaultTemperature = 0.3
	DefaultTimeout     = 60 * time.Second
	DefaultMaxRetries  = 3

	apiVersion = "2023-06-01"
)

// Config holds Anthropic-specific configuration
type Config struct {
	APIKey             string        `json:"api_key"`
	BaseURL            string        `json:"base_url"`
	DefaultModel       string        `json:"default_model"`
	MaxTokens          int           `json:"max_tokens"`
	DefaultTemperature float64       `json:"default_temperature"`
	Timeout            time.Duration `json:"timeout"`
	MaxRetries         int           `json:"max_retries"`
}

// DefaultConfig returns a default Anthropic configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:            DefaultBaseURL,
		DefaultModel:       DefaultModel,
		MaxTokens:          DefaultMaxTokens,
		DefaultTemperature: DefaultTemperature,
		Timeout:            DefaultTimeout,
		MaxRetries:         DefaultMaxRetries,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ai.NewConfigurationError("anthropic", "api_key", "API key is required")
	}

	if c.BaseURL == "" {
		return ai.NewConfigurationError("anthropic", "base_url", "base URL is required")
	}

	if _, err := url.Parse(c.BaseURL); err != nil {
		return ai.NewConfigurationError("anthropic", "base_url", fmt.Sprintf("invalid base URL: %v", err))
	}

	if c.DefaultModel == "" {
		return ai.NewConfigurationError("anthropic", "default_model", "default model is required")
	}

	if c.MaxTokens <= 0 {
		return ai.NewConfigurationError("anthropic", "max_tokens", "max tokens must be positive")
	}

	if c.DefaultTemperature < 0 || c.DefaultTemperature > 2 {
		return ai.NewConfigurationError("anthropic", "default_temperature", "temperature must be between 0 and 2")
	}

	if c.Timeout <= 0 {
		return ai.NewConfigurationError("anthropic", "timeout", "timeout must be positive")
	}

	if c.MaxRetries < 0 {
		return ai.NewConfigurationError("anthropic", "max_retries", "max retries must be non-negative")
	}

	return nil
}

// ToProviderConfig converts Anthropic config to generic provider config
func (c *Config) ToProviderConfig() *ai.ProviderConfig {
	return &ai.ProviderConfig{
		Name:               "anthropic",
		Type:               "anthropic",
		APIKey:             c.APIKey,
		BaseURL:            c.BaseURL,
		DefaultModel:       c.DefaultModel,
		MaxTokens:          c.MaxTokens,
		DefaultTemperature: c.DefaultTemperature,
		Timeout:            c.Timeout,
		MaxRetries:         c.MaxRetries,
	}
}

// FromProviderConfig creates Anthropic config from generic provider config
func FromProviderConfig(pc *ai.ProviderConfig) *Config {
	config := DefaultConfig()
	if pc == nil {
		return config
	}

	config.APIKey = pc.APIKey

	if pc.BaseURL != "" {
		config.BaseURL = pc.BaseURL
	}
	if pc.DefaultModel != "" {
		config.DefaultModel = pc.DefaultModel
	}
	if pc.MaxTokens > 0 {
		config.MaxTokens = pc.MaxTokens
	}
	if pc.DefaultTemperature > 0 {
		config.DefaultTemperature = pc.DefaultTemperature
	}
	if pc.Timeout > 0 {
		config.Timeout = pc.Timeout
	}
	if pc.MaxRetries > 0 {
		config.MaxRetries = pc.MaxRetries
	}

	return config
}

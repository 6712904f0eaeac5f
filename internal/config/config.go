package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/oyilmaz/popt/internal/common"
)

// Config holds the complete application configuration
type Config struct {
	Version  string         `yaml:"version" json:"version"`
	AI       AIConfig       `yaml:"ai" json:"ai"`
	Output   OutputConfig   `yaml:"output" json:"output"`
	Analysis AnalysisConfig `yaml:"analysis" json:"analysis"`
	Rules    RulesConfig    `yaml:"rules" json:"rules"`
}

// AIConfig configures the optimization provider
type AIConfig struct {
	Provider    string        `yaml:"provider" json:"provider"`         // anthropic|ollama
	Model       string        `yaml:"model" json:"model"`               // model identifier
	Endpoint    string        `yaml:"endpoint" json:"endpoint"`         // API endpoint URL
	APIKeyEnv   string        `yaml:"api_key_env" json:"api_key_env"`   // env var holding the API key
	MaxTokens   int           `yaml:"max_tokens" json:"max_tokens"`     // completion token cap
	Temperature float64       `yaml:"temperature" json:"temperature"`   // sampling temperature
	Timeout     time.Duration `yaml:"timeout" json:"timeout"`           // request timeout
	MaxRetries  int           `yaml:"max_retries" json:"max_retries"`   // retry count
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // terminal|json|markdown|csv
	ColorMode     string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	Verbose       bool   `yaml:"verbose" json:"verbose"`               // default verbosity
	ShowDiff      bool   `yaml:"show_diff" json:"show_diff"`           // open diff view by default
	SaveDir       string `yaml:"save_dir" json:"save_dir"`             // where optimized prompts are saved
}

// AnalysisConfig configures analysis behavior
type AnalysisConfig struct {
	Categories []string      `yaml:"categories" json:"categories"` // empty means all
	Timeout    time.Duration `yaml:"timeout" json:"timeout"`
}

// RulesConfig configures per-rule behavior
type RulesConfig struct {
	Disabled           []string          `yaml:"disabled" json:"disabled"`
	DisabledCategories []string          `yaml:"disabled_categories" json:"disabled_categories"`
	SeverityOverrides  map[string]string `yaml:"severity_overrides" json:"severity_overrides"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		AI: AIConfig{
			Provider:    "anthropic",
			Model:       "claude-sonnet-4-5",
			Endpoint:    "",
			APIKeyEnv:   "ANTHROPIC_API_KEY",
			MaxTokens:   4096,
			Temperature: 0.3,
			Timeout:     60 * time.Second,
			MaxRetries:  3,
		},
		Output: OutputConfig{
			DefaultFormat: "terminal",
			ColorMode:     "auto",
			Verbose:       false,
			ShowDiff:      true,
			SaveDir:       "popt-output",
		},
		Analysis: AnalysisConfig{
			Categories: nil,
			Timeout:    30 * time.Second,
		},
		Rules: RulesConfig{
			Disabled:           []string{},
			DisabledCategories: []string{},
			SeverityOverrides:  map[string]string{},
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateAIConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	return c.validateAnalysisConfig()
}

// validateAIConfig validates provider-related configuration
func (c *Config) validateAIConfig() error {
	if c.AI.Provider != "" {
		validProviders := map[string]bool{
			"anthropic": true,
			"ollama":    true,
		}
		if !validProviders[c.AI.Provider] {
			return fmt.Errorf("invalid AI provider: %s (must be one of: anthropic, ollama)", c.AI.Provider)
		}
	}
	if c.AI.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative")
	}
	if c.AI.MaxTokens < 1 {
		return fmt.Errorf("max_tokens must be greater than 0")
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	return nil
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"terminal": true,
			"json":     true,
			"markdown": true,
			"csv":      true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: terminal, json, markdown, csv)", c.Output.DefaultFormat)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	return nil
}

// validateAnalysisConfig validates analysis-related configuration
func (c *Config) validateAnalysisConfig() error {
	for _, name := range c.Analysis.Categories {
		if _, ok := common.ParseCategory(name); !ok {
			return fmt.Errorf("unknown rule category: %s", name)
		}
	}
	if c.Analysis.Timeout < 0 {
		return fmt.Errorf("analysis timeout must be non-negative")
	}
	return nil
}

// APIKey resolves the provider API key from the configured environment variable.
func (c *Config) APIKey() (string, error) {
	if c.AI.APIKeyEnv == "" {
		return "", fmt.Errorf("no api_key_env configured")
	}
	key := os.Getenv(c.AI.APIKeyEnv)
	if key == "" {
		return "", fmt.Errorf("API key not found: set the %s environment variable", c.AI.APIKeyEnv)
	}
	return key, nil
}

// IsRuleEnabled reports whether a rule should run, honoring per-rule and
// per-category disables.
func (c *Config) IsRuleEnabled(ruleID string) bool {
	for _, d := range c.Rules.Disabled {
		if strings.EqualFold(d, ruleID) {
			return false
		}
	}
	cat := common.CategoryOf(ruleID)
	for _, name := range c.Rules.DisabledCategories {
		if dc, ok := common.ParseCategory(name); ok && dc == cat {
			return false
		}
	}
	return true
}

// SeverityOverride returns the configured severity for a rule, if any.
func (c *Config) SeverityOverride(ruleID string) (common.Severity, bool) {
	name, ok := c.Rules.SeverityOverrides[ruleID]
	if !ok {
		return 0, false
	}
	return common.ParseSeverity(name), true
}

// ApplyRuleOverrides filters disabled rules out of the issue list and applies
// severity overrides to the survivors.
func (c *Config) ApplyRuleOverrides(issues []common.Issue) []common.Issue {
	out := make([]common.Issue, 0, len(issues))
	for _, iss := range issues {
		if !c.IsRuleEnabled(iss.RuleID) {
			continue
		}
		if sev, ok := c.SeverityOverride(iss.RuleID); ok {
			iss.Severity = sev
		}
		out = append(out, iss)
	}
	return out
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.popt.yaml",               // Project-specific config (highest priority)
	"~/.config/popt/config.yaml", // User config
	"/etc/popt/config.yaml",      // System config (lowest priority)
}

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
	}
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables
// 3. ./.popt.yaml
// 4. ~/.config/popt/config.yaml
// 5. /etc/popt/config.yaml
// 6. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	// Start with defaults
	config := DefaultConfig()

	// If custom path is provided, use only that path
	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// Load from standard paths in reverse priority order (lowest to highest)
		paths := make([]string, len(l.configPaths))
		copy(paths, l.configPaths)
		for i := len(paths)/2 - 1; i >= 0; i-- {
			opp := len(paths) - 1 - i
			paths[i], paths[opp] = paths[opp], paths[i]
		}

		for _, path := range paths {
			expandedPath := expandPath(path)
			if fileExists(expandedPath) {
				if err := l.loadFromFile(config, expandedPath); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: Failed to load config from %s: %v\n", expandedPath, err)
				}
			}
		}
	}

	// Apply environment variable overrides
	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	// Validate the final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFromFile loads configuration from a YAML file and merges it with existing config
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() before reaching here
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var fileConfig Config
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	mergeConfigs(config, &fileConfig)
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		// AI Config
		"POPT_AI_PROVIDER":    func(v string) error { config.AI.Provider = v; return nil },
		"POPT_AI_MODEL":       func(v string) error { config.AI.Model = v; return nil },
		"POPT_AI_ENDPOINT":    func(v string) error { config.AI.Endpoint = v; return nil },
		"POPT_AI_API_KEY_ENV": func(v string) error { config.AI.APIKeyEnv = v; return nil },
		"POPT_AI_MAX_TOKENS":  func(v string) error { return parseInt(v, &config.AI.MaxTokens) },
		"POPT_AI_TEMPERATURE": func(v string) error { return parseFloat(v, &config.AI.Temperature) },
		"POPT_AI_TIMEOUT":     func(v string) error { return parseDuration(v, &config.AI.Timeout) },
		"POPT_AI_MAX_RETRIES": func(v string) error { return parseInt(v, &config.AI.MaxRetries) },

		// Output Config
		"POPT_OUTPUT_DEFAULT_FORMAT": func(v string) error { config.Output.DefaultFormat = v; return nil },
		"POPT_OUTPUT_COLOR_MODE":     func(v string) error { config.Output.ColorMode = v; return nil },
		"POPT_OUTPUT_VERBOSE":        func(v string) error { return parseBool(v, &config.Output.Verbose) },
		"POPT_OUTPUT_SHOW_DIFF":      func(v string) error { return parseBool(v, &config.Output.ShowDiff) },
		"POPT_OUTPUT_SAVE_DIR":       func(v string) error { config.Output.SaveDir = v; return nil },

		// Analysis Config
		"POPT_ANALYSIS_TIMEOUT": func(v string) error { return parseDuration(v, &config.Analysis.Timeout) },
	}

	for envVar, setter := range envMappings {
		if value := os.Getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	// Comma-separated list overrides
	if cats := os.Getenv("POPT_ANALYSIS_CATEGORIES"); cats != "" {
		config.Analysis.Categories = splitTrimmed(cats)
	}
	if rules := os.Getenv("POPT_RULES_DISABLED"); rules != "" {
		config.Rules.Disabled = splitTrimmed(rules)
	}
	if cats := os.Getenv("POPT_RULES_DISABLED_CATEGORIES"); cats != "" {
		config.Rules.DisabledCategories = splitTrimmed(cats)
	}

	return nil
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, expandPath(path))
	}
	return paths
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expandedPath := expandPath(path)
		if fileExists(expandedPath) {
			return expandedPath, true
		}
	}
	return "", false
}

// Helper functions

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if strings.HasPrefix(absPath, "/proc/") || strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// mergeConfigs merges source config into destination config.
// Only non-zero values from source overwrite destination.
func mergeConfigs(dst, src *Config) {
	if src.Version != "" {
		dst.Version = src.Version
	}
	mergeAIConfig(&dst.AI, &src.AI)
	mergeOutputConfig(&dst.Output, &src.Output)
	mergeAnalysisConfig(&dst.Analysis, &src.Analysis)
	mergeRulesConfig(&dst.Rules, &src.Rules)
}

// mergeAIConfig merges provider configuration
func mergeAIConfig(dst, src *AIConfig) {
	if src.Provider != "" {
		dst.Provider = src.Provider
	}
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.Endpoint != "" {
		dst.Endpoint = src.Endpoint
	}
	if src.APIKeyEnv != "" {
		dst.APIKeyEnv = src.APIKeyEnv
	}
	if src.MaxTokens != 0 {
		dst.MaxTokens = src.MaxTokens
	}
	if src.Temperature != 0 {
		dst.Temperature = src.Temperature
	}
	if src.Timeout != 0 {
		dst.Timeout = src.Timeout
	}
	if src.MaxRetries != 0 {
		dst.MaxRetries = src.MaxRetries
	}
}

// mergeOutputConfig merges output configuration
func mergeOutputConfig(dst, src *OutputConfig) {
	if src.DefaultFormat != "" {
		dst.DefaultFormat = src.DefaultFormat
	}
	if src.ColorMode != "" {
		dst.ColorMode = src.ColorMode
	}
	if src.SaveDir != "" {
		dst.SaveDir = src.SaveDir
	}
	// Boolean fields cannot distinguish "unset" from "false" after YAML
	// unmarshaling; file values win, env overrides run afterwards.
	dst.Verbose = dst.Verbose || src.Verbose
	dst.ShowDiff = dst.ShowDiff || src.ShowDiff
}

// mergeAnalysisConfig merges analysis configuration
func mergeAnalysisConfig(dst, src *AnalysisConfig) {
	if len(src.Categories) > 0 {
		dst.Categories = src.Categories
	}
	if src.Timeout != 0 {
		dst.Timeout = src.Timeout
	}
}

// mergeRulesConfig merges rule configuration
func mergeRulesConfig(dst, src *RulesConfig) {
	if len(src.Disabled) > 0 {
		dst.Disabled = src.Disabled
	}
	if len(src.DisabledCategories) > 0 {
		dst.DisabledCategories = src.DisabledCategories
	}
	if len(src.SeverityOverrides) > 0 {
		if dst.SeverityOverrides == nil {
			dst.SeverityOverrides = make(map[string]string)
		}
		for k, v := range src.SeverityOverrides {
			dst.SeverityOverrides[k] = v
		}
	}
}

// Type conversion helpers

func splitTrimmed(s string) []string {
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func parseInt(s string, dst *int) error {
	val, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseFloat(s string, dst *float64) error {
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

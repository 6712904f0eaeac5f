package common

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

//go:embed embedded_rules.yaml
var defaultRulesYAML []byte

// RuleInfo is display metadata for a single rule. Detection logic lives in
// the analyzer; the catalog serves listings and formatters.
type RuleInfo struct {
	ID          string   `yaml:"id" json:"id"`
	Category    Category `yaml:"category" json:"category"`
	Severity    Severity `yaml:"severity" json:"severity"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
}

// LoadRuleCatalog returns the built-in rule catalog.
func LoadRuleCatalog() ([]*RuleInfo, error) {
	return parseRules(defaultRulesYAML)
}

// LoadRulesFromFile loads additional rule metadata from a YAML file.
func LoadRulesFromFile(filename string) ([]*RuleInfo, error) {
	if err := validateRuleFilePath(filename); err != nil {
		return nil, fmt.Errorf("invalid file path: %w", err)
	}

	// #nosec G304 - path is validated above
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return parseRules(data)
}

func parseRules(data []byte) ([]*RuleInfo, error) {
	var rules []*RuleInfo
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for _, r := range rules {
		if r.ID == "" {
			return nil, fmt.Errorf("rule entry missing id")
		}
		if r.Category == "" {
			r.Category = CategoryOf(r.ID)
		}
	}

	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })
	return rules, nil
}

// validateRuleFilePath validates that a rule file path is safe to read
func validateRuleFilePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty file path")
	}

	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("only YAML files are supported")
	}

	return nil
}

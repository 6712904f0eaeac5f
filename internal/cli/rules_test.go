package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/oyilmaz/popt/internal/common"
)

func TestLoadRulesBuiltinCatalog(t *testing.T) {
	rules, err := loadRules("")
	if err != nil {
		t.Fatalf("loadRules() error: %v", err)
	}
	if len(rules) == 0 {
		t.Fatal("expected built-in catalog to contain rules")
	}

	ids := make(map[string]bool)
	for _, r := range rules {
		if r.ID == "" {
			t.Error("rule with empty ID in catalog")
		}
		if ids[r.ID] {
			t.Errorf("duplicate rule ID %s", r.ID)
		}
		ids[r.ID] = true
	}
	if !ids["EXP001"] {
		t.Error("expected EXP001 in built-in catalog")
	}
}

func TestLoadRulesFromCustomFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `- id: TST001
  category: STY
  severity: warning
  name: test-rule
  description: A rule used only in tests.
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write rules file: %v", err)
	}

	rules, err := loadRules(path)
	if err != nil {
		t.Fatalf("loadRules(%q) error: %v", path, err)
	}
	if len(rules) != 1 || rules[0].ID != "TST001" {
		t.Fatalf("rules = %+v, want single TST001", rules)
	}
}

func TestLoadRulesBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("rules: [not: valid"), 0o600); err != nil {
		t.Fatalf("write rules file: %v", err)
	}

	if _, err := loadRules(path); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestFilterRulesByCategory(t *testing.T) {
	rules := []*common.RuleInfo{
		{ID: "EXP001", Category: common.CategoryExplicitness},
		{ID: "STY001", Category: common.CategoryStyle},
		{ID: "STY002", Category: common.CategoryStyle},
	}

	tests := []struct {
		name     string
		category string
		want     int
	}{
		{"by key", "style", 2},
		{"case insensitive", "STYLE", 2},
		{"no match", "nothing", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filterRulesByCategory(rules, tt.category)
			if len(got) != tt.want {
				t.Errorf("filterRulesByCategory(%q) = %d rules, want %d", tt.category, len(got), tt.want)
			}
		})
	}
}

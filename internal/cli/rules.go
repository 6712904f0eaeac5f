package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oyilmaz/popt/internal/common"
	"github.com/oyilmaz/popt/internal/ui"
)

func newRulesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect the analysis rule catalog",
		Long: `Inspect the rules the analyzer checks prompts against.

Rules are grouped into categories (expensive operations, vague wording,
structural problems, and so on). Custom rule metadata can be loaded from a
YAML file.`,
	}

	cmd.AddCommand(newRulesListCommand())
	cmd.AddCommand(newRulesValidateCommand())

	return cmd
}

func newRulesListCommand() *cobra.Command {
	var (
		rulesFile string
		category  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List analysis rules",
		Long: `List rules from the built-in catalog or a custom YAML file.

Shows rule ID, severity, name, and description grouped by category.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRulesList(rulesFile, category)
		},
	}

	cmd.Flags().StringVarP(&rulesFile, "file", "f", "", "load rules from a YAML file instead of the built-in catalog")
	cmd.Flags().StringVar(&category, "category", "", "show only one category")

	return cmd
}

func newRulesValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [file...]",
		Short: "Validate rule files",
		Long: `Validate one or more rule YAML files.

Checks YAML syntax and verifies required fields are present.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRulesValidate(args)
		},
	}

	return cmd
}

func runRulesList(rulesFile, category string) error {
	rules, err := loadRules(rulesFile)
	if err != nil {
		return err
	}

	if category != "" {
		rules = filterRulesByCategory(rules, category)
		if len(rules) == 0 {
			fmt.Printf("No rules in category %q\n", category)
			return nil
		}
	}

	fmt.Printf("Found %d rules:\n\n", len(rules))

	// Group by category in canonical order.
	groups := make(map[common.Category][]*common.RuleInfo)
	for _, r := range rules {
		groups[r.Category] = append(groups[r.Category], r)
	}

	for _, cat := range common.AllCategories() {
		catRules := groups[cat]
		if len(catRules) == 0 {
			continue
		}
		fmt.Printf("%s:\n", cat.DisplayName())
		for _, r := range catRules {
			fmt.Printf("  %-10s [%s] %s\n", r.ID, r.Severity, r.Name)
			if r.Description != "" {
				fmt.Printf("  %-10s %s\n", "", r.Description)
			}
		}
		fmt.Println()
	}

	return nil
}

func runRulesValidate(files []string) error {
	icons := ui.Icons()
	allValid := true

	for _, file := range files {
		if isVerbose() {
			fmt.Fprintf(os.Stderr, "Validating: %s\n", file)
		}

		rules, err := common.LoadRulesFromFile(file)
		if err != nil {
			fmt.Printf("%s %s: %v\n", icons.Cross, file, err)
			allValid = false
			continue
		}
		fmt.Printf("%s %s: %d rules, valid\n", icons.Check, file, len(rules))
	}

	if !allValid {
		return fmt.Errorf("validation failed")
	}
	return nil
}

func loadRules(rulesFile string) ([]*common.RuleInfo, error) {
	if rulesFile != "" {
		rules, err := common.LoadRulesFromFile(rulesFile)
		if err != nil {
			return nil, fmt.Errorf("load rules from %s: %w", rulesFile, err)
		}
		return rules, nil
	}
	rules, err := common.LoadRuleCatalog()
	if err != nil {
		return nil, fmt.Errorf("load rule catalog: %w", err)
	}
	return rules, nil
}

func filterRulesByCategory(rules []*common.RuleInfo, category string) []*common.RuleInfo {
	want, ok := common.ParseCategory(category)
	var out []*common.RuleInfo
	for _, r := range rules {
		if ok && r.Category == want {
			out = append(out, r)
			continue
		}
		if !ok && (strings.EqualFold(string(r.Category), category) ||
			strings.EqualFold(r.Category.DisplayName(), category)) {
			out = append(out, r)
		}
	}
	return out
}

package analyzer

import (
	"context"
	"testing"

	"github.com/oyilmaz/popt/internal/common"
)

func hasRule(issues []common.Issue, ruleID string) bool {
	for i := range issues {
		if issues[i].RuleID == ruleID {
			return true
		}
	}
	return false
}

func analyzeAll(t *testing.T, prompt string) *common.Analysis {
	t.Helper()
	analysis, err := NewEngine().Analyze(context.Background(), prompt)
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	return analysis
}

func TestDetectVagueInstruction(t *testing.T) {
	analysis := analyzeAll(t, "Create a dashboard")
	if !hasRule(analysis.Issues, "EXP001") {
		t.Error("expected EXP001 for a short vague imperative")
	}
}

func TestDetectIndirectCommand(t *testing.T) {
	analysis := analyzeAll(t, "Can you fix this bug?")
	if !hasRule(analysis.Issues, "EXP003") {
		t.Error("expected EXP003 for an indirect command")
	}
}

func TestDetectNegativeInstruction(t *testing.T) {
	analysis := analyzeAll(t, "Don't use markdown in your response")
	if !hasRule(analysis.Issues, "STY001") {
		t.Error("expected STY001 for a negative instruction")
	}
}

func TestDetectThinkWord(t *testing.T) {
	analysis := analyzeAll(t, "Think about the edge cases")
	if !hasRule(analysis.Issues, "STY003") {
		t.Error("expected STY003 for the word think")
	}
}

func TestDetectSuggestionLanguage(t *testing.T) {
	analysis := analyzeAll(t, "Can you suggest some changes to improve this?")
	if !hasRule(analysis.Issues, "TUL001") {
		t.Error("expected TUL001 for suggestion-only language")
	}
}

func TestDetectRoleOnlyPrompt(t *testing.T) {
	analysis := analyzeAll(t, "You are a helpful customer support assistant.")
	if !hasRule(analysis.Issues, "EXP005") {
		t.Error("expected EXP005 for a role-only prompt")
	}
}

func TestRoleWithStructureNotFlagged(t *testing.T) {
	prompt := `You are a support assistant for Acme billing.
<response_format>
Answer in one short paragraph, citing the relevant invoice field.
</response_format>
If the answer is not in the provided account data, say so explicitly.`
	analysis := analyzeAll(t, prompt)
	if hasRule(analysis.Issues, "EXP005") {
		t.Error("structured role prompt must not trigger EXP005")
	}
}

func TestDetectOpenEndedPrompt(t *testing.T) {
	analysis := analyzeAll(t, "You are an assistant. Help users with anything they ask about.")
	if !hasRule(analysis.Issues, "EXP006") {
		t.Error("expected EXP006 for an open-ended prompt")
	}
}

func TestDetectAggressiveCaps(t *testing.T) {
	analysis := analyzeAll(t, "IMPORTANT: you MUST reply in JSON")
	if !hasRule(analysis.Issues, "STY002") {
		t.Error("expected STY002 for instructional ALL CAPS")
	}
}

func TestAcronymsNotFlaggedAsCaps(t *testing.T) {
	analysis := analyzeAll(t, "Parse the JSON payload and call the HTTP API")
	for _, iss := range analysis.Issues {
		if iss.RuleID == "STY002" {
			t.Errorf("acronyms must not trigger STY002: %s", iss.Message)
		}
	}
}

func TestCategoryFiltering(t *testing.T) {
	prompt := "Can you suggest some changes? Don't use markdown."

	styleOnly, err := NewEngine().WithCategories([]string{"style"}).Analyze(context.Background(), prompt)
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	for _, iss := range styleOnly.Issues {
		if iss.Category != common.CategoryStyle {
			t.Errorf("style-only run produced %s issue %s", iss.Category, iss.RuleID)
		}
	}

	toolsOnly, err := NewEngine().WithCategories([]string{"tools"}).Analyze(context.Background(), prompt)
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	for _, iss := range toolsOnly.Issues {
		if iss.Category != common.CategoryTools {
			t.Errorf("tools-only run produced %s issue %s", iss.Category, iss.RuleID)
		}
	}
}

func TestUnknownCategoryFallsBackToAll(t *testing.T) {
	engine := NewEngine().WithCategories([]string{"nonsense"})
	if len(engine.Categories()) != len(common.AllCategories()) {
		t.Errorf("unknown category names must leave all categories enabled, got %v", engine.Categories())
	}
}

func TestSeverityCounts(t *testing.T) {
	analysis := analyzeAll(t, "Can you fix this bug?")
	if analysis.WarningCount == 0 {
		t.Error("expected warning count > 0")
	}
	total := analysis.ErrorCount + analysis.WarningCount + analysis.InfoCount
	if total != len(analysis.Issues) {
		t.Errorf("severity counts (%d) do not sum to issue count (%d)", total, len(analysis.Issues))
	}
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewEngine().Analyze(ctx, "Create a dashboard"); err == nil {
		t.Error("expected error for canceled context")
	}
}

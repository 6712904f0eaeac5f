package optimizer

import (
	"context"
	"strings"
	"testing"

	"github.com/oyilmaz/popt/internal/ai"
	"github.com/oyilmaz/popt/internal/common"
)

func issueFor(ruleID string) common.Issue {
	return common.Issue{
		RuleID:   ruleID,
		Category: common.CategoryOf(ruleID),
		Severity: common.SeverityWarning,
		Message:  "test issue",
	}
}

func TestTransformIndirectCommands(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Can you fix this bug?", "Fix this bug?"},
		{"Could you refactor the code?", "Refactor the code?"},
		{"Would you mind reviewing this?", "Reviewing this?"},
		{"Fix this bug", "Fix this bug"},
	}

	for _, tt := range tests {
		got, _ := transformIndirectCommands(tt.input)
		if got != tt.want {
			t.Errorf("transformIndirectCommands(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTransformThinkWord(t *testing.T) {
	got, changed := transformThinkWord("Think about the edge cases")
	if !changed || got != "consider the edge cases" {
		t.Errorf("got %q, changed=%v", got, changed)
	}

	got, _ = transformThinkWord("I think this approach is better")
	if got != "I believe this approach is better" {
		t.Errorf("got %q", got)
	}
}

func TestTransformAggressiveEmphasis(t *testing.T) {
	got, changed := transformAggressiveEmphasis("CRITICAL: You MUST ALWAYS check the API response")
	if !changed {
		t.Fatal("expected a change")
	}
	if strings.Contains(got, "CRITICAL") {
		t.Errorf("CRITICAL should be downcased, got %q", got)
	}
	if !strings.Contains(got, "API") {
		t.Errorf("acronym API should be preserved, got %q", got)
	}
}

func TestTransformOvertriggering(t *testing.T) {
	got, changed := transformOvertriggering("CRITICAL: You MUST ALWAYS validate input!!!")
	if !changed {
		t.Fatal("expected a change")
	}
	if strings.Contains(got, "CRITICAL:") {
		t.Errorf("CRITICAL: should be removed, got %q", got)
	}
	if !strings.Contains(got, "should") {
		t.Errorf("MUST should soften to should, got %q", got)
	}
	if strings.Contains(got, "!!!") {
		t.Errorf("stacked exclamations should collapse, got %q", got)
	}
}

func TestCleanOutput(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Here is the optimized prompt:\n\nDo this task", "Do this task"},
		{"```\nCode here\n```", "Code here"},
		{"Plain text", "Plain text"},
	}

	for _, tt := range tests {
		if got := cleanOutput(tt.input); got != tt.want {
			t.Errorf("cleanOutput(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestOptimizeStatic(t *testing.T) {
	analysis := &common.Analysis{
		Prompt: "Can you think about the edge cases?",
		Issues: []common.Issue{issueFor("EXP003"), issueFor("STY003")},
	}

	opt := New(nil, nil)
	result, err := opt.Optimize(context.Background(), analysis, Options{Static: true})
	if err != nil {
		t.Fatalf("Optimize() failed: %v", err)
	}

	if result.Optimized != "consider the edge cases?" {
		t.Errorf("got optimized %q", result.Optimized)
	}
	if len(result.Stats.RulesApplied) != 2 {
		t.Errorf("expected 2 rules applied, got %v", result.Stats.RulesApplied)
	}
	if !result.HasOptimized() {
		t.Error("result should report an optimized prompt")
	}
}

func TestOptimizeStaticNoProviderNeeded(t *testing.T) {
	opt := New(nil, nil)
	if _, err := opt.Optimize(context.Background(), &common.Analysis{Prompt: "x"}, Options{}); err == nil {
		t.Error("LLM optimization without a provider should fail")
	}
}

type fakeProvider struct {
	lastReq  *ai.CompletionRequest
	response string
}

func (f *fakeProvider) Name() string { return "fake" }
func (f *fakeProvider) Complete(_ context.Context, req *ai.CompletionRequest) (*ai.CompletionResponse, error) {
	f.lastReq = req
	return &ai.CompletionResponse{Content: f.response, FinishReason: "stop"}, nil
}
func (f *fakeProvider) CountTokens(text string) (int, error) { return ai.EstimateTokens(text), nil }
func (f *fakeProvider) MaxTokens() int                       { return 4096 }
func (f *fakeProvider) ValidateConfig() error                { return nil }
func (f *fakeProvider) Close() error                         { return nil }

func TestOptimizeWithProvider(t *testing.T) {
	provider := &fakeProvider{response: "Here is the optimized prompt:\nFix the login bug in auth.go"}
	analysis := &common.Analysis{
		Prompt: "Can you fix the login bug?",
		Issues: []common.Issue{issueFor("EXP003")},
	}

	opt := New(provider, nil)
	result, err := opt.Optimize(context.Background(), analysis, Options{Model: "test-model"})
	if err != nil {
		t.Fatalf("Optimize() failed: %v", err)
	}

	if result.Optimized != "Fix the login bug in auth.go" {
		t.Errorf("wrapper should be stripped, got %q", result.Optimized)
	}
	if result.Stats.Provider != "fake" {
		t.Errorf("expected provider fake, got %q", result.Stats.Provider)
	}
	if provider.lastReq == nil {
		t.Fatal("provider was not called")
	}
	if !strings.Contains(provider.lastReq.Prompt, "EXP003") {
		t.Error("detected issues should be included in the rewrite request")
	}
	if provider.lastReq.Model != "test-model" {
		t.Errorf("model override not passed, got %q", provider.lastReq.Model)
	}
	// Static pass runs before the provider sees the prompt
	if strings.Contains(provider.lastReq.Prompt, "Can you fix") {
		t.Error("static transforms should run before the provider call")
	}
}

func TestApplicableEnhancements(t *testing.T) {
	got := ApplicableEnhancements("Fix the bug in multiple files")
	if len(got) != 2 {
		t.Fatalf("expected 2 enhancements, got %d", len(got))
	}

	if got := ApplicableEnhancements("Write a haiku"); len(got) != 0 {
		t.Errorf("expected no enhancements, got %d", len(got))
	}
}

func TestOptimizeEnhance(t *testing.T) {
	analysis := &common.Analysis{Prompt: "Suggest improvements to the parser"}

	opt := New(nil, nil)
	result, err := opt.Optimize(context.Background(), analysis, Options{Static: true, Enhance: true})
	if err != nil {
		t.Fatalf("Optimize() failed: %v", err)
	}

	if !strings.Contains(result.Optimized, "Implement the changes directly") {
		t.Errorf("action_default enhancement should be appended, got %q", result.Optimized)
	}
}

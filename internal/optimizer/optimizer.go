// Package optimizer rewrites prompts to follow current best practices.
// It applies cheap rule-based transforms first and optionally sends the
// result through an LLM provider for a full rewrite.
package optimizer

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yildizm/go-promptfmt"

	"github.com/oyilmaz/popt/internal/ai"
	"github.com/oyilmaz/popt/internal/common"
	"github.com/oyilmaz/popt/internal/logger"
)

const systemPrompt = `You are an expert prompt engineer specializing in optimizing prompts for Claude 4.5 models.

Your task is to improve the given prompt according to Anthropic's official best practices:

<optimization_rules>
1. EXPLICITNESS: Convert vague instructions to specific, actionable ones. Add detail about desired output.
2. CONTEXT: Add motivation/reasoning when it helps Claude understand intent (explain "why").
3. POSITIVE FRAMING: Replace negative instructions ("Don't...", "Never...") with positive guidance about what TO do.
4. TOOL USAGE: Add explicit directives for tool use when the intent is to take action, not just suggest.
5. FORMAT: Include clear format specifications. Use XML tags for complex prompts.
6. MODIFIERS: Add quality/detail modifiers where beneficial (e.g., "fully-featured", "comprehensive").
7. WORD CHOICE: Replace "think" with "consider", "evaluate", or "reflect" when appropriate.
8. TONE: Remove aggressive emphasis (ALL CAPS, excessive !!!) - Claude 4.5 follows instructions well without it.
</optimization_rules>

<output_requirements>
- Return ONLY the optimized prompt text
- No explanations, no preamble, no markdown formatting around the output
- Preserve the original intent and meaning
- Keep the prompt practical and focused
- Do not over-engineer or add unnecessary complexity
</output_requirements>`

// Options controls an optimization pass.
type Options struct {
	// Static skips the provider and applies only rule-based transforms.
	Static bool

	// Enhance appends pattern-triggered directives to the result.
	Enhance bool

	// Model overrides the provider's default model.
	Model string

	// MaxTokens caps the rewrite length. Zero uses the provider default.
	MaxTokens int
}

// Optimizer runs optimization passes over analyzed prompts.
type Optimizer struct {
	provider ai.LLMProvider
	logger   *logger.Logger
}

// New creates an optimizer. The provider may be nil when only static
// optimization is needed.
func New(provider ai.LLMProvider, log *logger.Logger) *Optimizer {
	if log == nil {
		log = logger.NewWithCallback("optimizer", func() bool { return false })
	}
	return &Optimizer{provider: provider, logger: log}
}

// Optimize rewrites the analyzed prompt and returns the full result.
func (o *Optimizer) Optimize(ctx context.Context, analysis *common.Analysis, opts Options) (*common.OptimizationResult, error) {
	if analysis == nil {
		return nil, fmt.Errorf("analysis is required")
	}

	start := time.Now()
	original := analysis.Prompt

	optimized, applied := o.applyStatic(original, analysis.Issues)

	var providerName, model string
	if !opts.Static {
		if o.provider == nil {
			return nil, fmt.Errorf("no provider configured for LLM optimization")
		}

		rewritten, err := o.completeRewrite(ctx, optimized, analysis.Issues, opts)
		if err != nil {
			return nil, err
		}
		optimized = rewritten
		providerName = o.provider.Name()
		model = opts.Model
	}

	if opts.Enhance {
		for _, tmpl := range ApplicableEnhancements(optimized) {
			optimized += tmpl
		}
	}

	o.logger.DebugWithFields("optimization complete", []logger.Field{
		logger.F("rules", len(applied)),
		logger.Duration(time.Since(start)),
	})

	return &common.OptimizationResult{
		Original:  original,
		Optimized: optimized,
		Analysis:  analysis,
		Stats: &common.OptimizationStats{
			OriginalChars:      len(original),
			OptimizedChars:     len(optimized),
			OriginalTokens:     ai.EstimateTokens(original),
			OptimizedTokens:    ai.EstimateTokens(optimized),
			RulesApplied:       applied,
			CategoriesImproved: countCategories(analysis.Issues),
			ProcessingTimeMs:   time.Since(start).Milliseconds(),
			Provider:           providerName,
			Model:              model,
		},
	}, nil
}

// applyStatic runs the mechanical transforms for each issue in turn and
// returns the rewritten prompt plus the rule IDs that changed it.
func (o *Optimizer) applyStatic(prompt string, issues []common.Issue) (string, []string) {
	result := prompt
	seen := make(map[string]bool)
	var applied []string

	for _, iss := range issues {
		next, changed := applyStaticTransform(result, iss)
		if changed && !seen[iss.RuleID] {
			seen[iss.RuleID] = true
			applied = append(applied, iss.RuleID)
		}
		result = next
	}

	sort.Strings(applied)
	return result, applied
}

func (o *Optimizer) completeRewrite(ctx context.Context, prompt string, issues []common.Issue, opts Options) (string, error) {
	p := promptfmt.New().
		System(systemPrompt).
		User("Optimize this prompt for Claude 4.5:\n\n<original_prompt>\n%s\n</original_prompt>\n\n<detected_issues>\n%s\n</detected_issues>\n\nReturn the optimized prompt only.",
			prompt, formatIssues(issues)).
		Build()

	req := &ai.CompletionRequest{
		Prompt:       p.String(),
		SystemPrompt: p.SystemPrompt,
		Model:        opts.Model,
		MaxTokens:    opts.MaxTokens,
	}

	resp, err := o.provider.Complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("provider completion failed: %w", err)
	}

	return cleanOutput(resp.Content), nil
}

// formatIssues renders issues as a compact list for the rewrite request.
func formatIssues(issues []common.Issue) string {
	if len(issues) == 0 {
		return "No specific issues detected, but general optimization is requested."
	}

	var b strings.Builder
	for i, iss := range issues {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "- [%s] %s: %s", strings.ToUpper(iss.Severity.String()), iss.RuleID, iss.Message)
		if iss.Suggestion != "" {
			b.WriteByte(' ')
			b.WriteString(iss.Suggestion)
		}
	}
	return b.String()
}

// cleanOutput strips wrapping the model sometimes adds around the rewrite.
func cleanOutput(output string) string {
	result := strings.TrimSpace(output)

	prefixes := []string{
		"Here is the optimized prompt:",
		"Here's the optimized prompt:",
		"Optimized prompt:",
		"Here is the improved prompt:",
		"```",
	}

	for _, prefix := range prefixes {
		if strings.HasPrefix(result, prefix) {
			result = strings.TrimLeft(result[len(prefix):], " \t\n")
		}
	}

	if strings.HasSuffix(result, "```") {
		result = strings.TrimRight(result[:len(result)-3], " \t\n")
	}

	return result
}

func countCategories(issues []common.Issue) int {
	seen := make(map[common.Category]bool)
	for _, iss := range issues {
		seen[iss.Category] = true
	}
	return len(seen)
}

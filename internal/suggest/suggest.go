// Package suggest offers prompt-improvement templates for vague prompts.
//
// When analysis flags a role-only prompt (EXP005) or an open-ended prompt
// (EXP006), this package provides the selectable additions the suggestion
// modal and the linear suggestion flow append to the prompt.
package suggest

import (
	"sort"
	"strings"

	"github.com/oyilmaz/popt/internal/common"
)

// Suggestion is one selectable prompt addition.
type Suggestion struct {
	ID          string
	Label       string
	Description string
	Template    string
}

// RoleSuggestions apply to role-only prompts (EXP005).
var RoleSuggestions = []Suggestion{
	{
		ID:          "response_format",
		Label:       "Response format specification",
		Description: "Define how responses should be structured",
		Template: `
<response_format>
Structure your responses as follows:
- Start with a brief summary (1-2 sentences)
- Provide detailed explanation with relevant context
- Use bullet points for lists of items
- End with any caveats or additional considerations
</response_format>`,
	},
	{
		ID:          "source_citation",
		Label:       "Source citation requirements",
		Description: "Require citing sources for answers",
		Template: `
<citation_requirements>
When answering questions:
- Reference the specific document or section where you found the information
- Use phrases like "According to [document name]..." or "Based on [section]..."
- If information is not found in the provided materials, clearly state this
</citation_requirements>`,
	},
	{
		ID:          "unknown_handling",
		Label:       "Unknown information handling",
		Description: "How to handle questions without answers",
		Template: `
<unknown_handling>
If you cannot find the answer in the provided documentation:
- Clearly state that the specific information is not available
- Do not speculate or make up information
- Suggest where the user might find the answer (e.g., "Contact support for...")
</unknown_handling>`,
	},
	{
		ID:          "response_length",
		Label:       "Response length guidance",
		Description: "Set expectations for response verbosity",
		Template: `
<response_length>
Adjust response length based on query complexity:
- Simple factual questions: 1-3 sentences
- Explanatory questions: 1-2 paragraphs
- Complex comparisons or analyses: Detailed response with sections
</response_length>`,
	},
	{
		ID:          "action_directive",
		Label:       "Action directive (default to action)",
		Description: "Make the assistant take action rather than suggest",
		Template: `
<default_to_action>
When the user asks for help, provide direct answers rather than asking clarifying questions unless absolutely necessary. Infer the most useful response based on context.
</default_to_action>`,
	},
}

// OpenEndedSuggestions apply to open-ended prompts (EXP006).
var OpenEndedSuggestions = []Suggestion{
	{
		ID:          "scope_boundaries",
		Label:       "Topic scope boundaries",
		Description: "Define what topics are in/out of scope",
		Template: `
<scope>
In-scope topics:
- [List specific topics this assistant should handle]

Out-of-scope topics (politely decline):
- [List topics to avoid or redirect]
</scope>`,
	},
	{
		ID:          "expertise_level",
		Label:       "Expertise level assumption",
		Description: "Set the assumed user expertise level",
		Template: `
<expertise_level>
Assume the user has [beginner/intermediate/expert] knowledge. Adjust explanations accordingly:
- Avoid unnecessary jargon for beginners
- Skip basic explanations for experts
- Define technical terms when first used
</expertise_level>`,
	},
	{
		ID:          "interaction_style",
		Label:       "Interaction style",
		Description: "Define the conversation tone and style",
		Template: `
<interaction_style>
Maintain a [professional/friendly/casual] tone. Be:
- Concise but thorough
- Helpful without being verbose
- Direct in providing information
</interaction_style>`,
	},
}

// ShouldSuggest reports whether the issue set warrants the suggestion flow.
func ShouldSuggest(issues []common.Issue) bool {
	for i := range issues {
		if issues[i].RuleID == "EXP005" || issues[i].RuleID == "EXP006" {
			return true
		}
	}
	return false
}

// TriggerIssues returns the subset of issues that drive the flow.
func TriggerIssues(issues []common.Issue) []common.Issue {
	var out []common.Issue
	for i := range issues {
		if issues[i].RuleID == "EXP005" || issues[i].RuleID == "EXP006" {
			out = append(out, issues[i])
		}
	}
	return out
}

// ForIssues returns the suggestions relevant to the detected issues,
// deduplicated by ID and sorted for stable presentation.
func ForIssues(issues []common.Issue) []Suggestion {
	hasRole, hasOpenEnded := false, false
	for i := range issues {
		switch issues[i].RuleID {
		case "EXP005":
			hasRole = true
		case "EXP006":
			hasOpenEnded = true
		}
	}

	var out []Suggestion
	if hasRole {
		out = append(out, RoleSuggestions...)
	}
	if hasOpenEnded {
		out = append(out, OpenEndedSuggestions...)
	}

	sort.SliceStable(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	dedup := out[:0]
	for i := range out {
		if i == 0 || out[i].ID != out[i-1].ID {
			dedup = append(dedup, out[i])
		}
	}
	return dedup
}

// Apply appends the selected suggestion templates to the prompt.
// Selections outside the suggestion slice are ignored.
func Apply(prompt string, suggestions []Suggestion, selected []int) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(prompt))
	b.WriteByte('\n')
	for _, idx := range selected {
		if idx < 0 || idx >= len(suggestions) {
			continue
		}
		b.WriteString(suggestions[idx].Template)
		b.WriteByte('\n')
	}
	return b.String()
}

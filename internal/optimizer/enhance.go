package optimizer

import "strings"

// Enhancement is a directive appended to a prompt when its trigger matches.
type Enhancement struct {
	ID        string
	Condition func(prompt string) bool
	Template  string
}

var enhancements = []Enhancement{
	{
		ID: "parallel_tools",
		Condition: func(p string) bool {
			return strings.Contains(p, "files") || strings.Contains(p, "multiple") || strings.Contains(p, "each")
		},
		Template: "\n\nIf you need to perform multiple independent operations, execute them in parallel for efficiency.",
	},
	{
		ID: "exploration",
		Condition: func(p string) bool {
			lower := strings.ToLower(p)
			return strings.Contains(lower, "fix") || strings.Contains(lower, "bug") ||
				strings.Contains(lower, "change") || strings.Contains(lower, "update")
		},
		Template: "\n\nRead and understand the relevant code before making changes. Do not speculate about code you haven't inspected.",
	},
	{
		ID: "action_default",
		Condition: func(p string) bool {
			lower := strings.ToLower(p)
			return strings.Contains(lower, "suggest") || strings.Contains(lower, "recommend") ||
				strings.Contains(lower, "improve")
		},
		Template: "\n\nImplement the changes directly rather than only suggesting them.",
	},
	{
		ID: "summary",
		Condition: func(p string) bool {
			return len(p) > 500 || strings.Contains(p, "refactor") || strings.Contains(p, "update")
		},
		Template: "\n\nAfter completing the changes, provide a brief summary of what was modified.",
	},
}

// ApplicableEnhancements returns the enhancement templates whose trigger
// matches the prompt, in declaration order.
func ApplicableEnhancements(prompt string) []string {
	var out []string
	for _, e := range enhancements {
		if e.Condition(prompt) {
			out = append(out, e.Template)
		}
	}
	return out
}

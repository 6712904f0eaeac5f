package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/go-termfmt"

	"github.com/oyilmaz/popt/internal/common"
)

// terminalFormatter formats output as plain text for terminal display using go-termfmt
type terminalFormatter struct {
	opts *termfmt.TerminalOptions
}

// NewTerminal creates a new terminal formatter with optional color support
func NewTerminal(color bool) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = true
	return &terminalFormatter{opts: opts}
}

// NewTerminalWithOptions builds a terminal formatter with caller-supplied
// termfmt options.
func NewTerminalWithOptions(opts *termfmt.TerminalOptions) Formatter {
	if opts == nil {
		opts = termfmt.DefaultOptions()
	}
	return &terminalFormatter{opts: opts}
}

func (f *terminalFormatter) Format(result *common.OptimizationResult) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b)
	f.writeStatistics(&b, result)

	if result.Analysis != nil && len(result.Analysis.Issues) > 0 {
		f.writeIssues(&b, result.Analysis)
	} else {
		b.WriteString("No issues detected.\n\n")
	}

	if result.HasOptimized() {
		f.writeOptimized(&b, result)
	}

	return []byte(b.String()), nil
}

func (f *terminalFormatter) writeHeader(b *strings.Builder) {
	header := "Prompt Analysis Summary"
	headerLen := len(header)

	b.WriteString("╔" + strings.Repeat("═", headerLen+2) + "╗\n")
	b.WriteString("║ " + header + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", headerLen+2) + "╝\n\n")
}

// writeStatistics writes counters with tree-style formatting using go-termfmt
func (f *terminalFormatter) writeStatistics(b *strings.Builder, result *common.OptimizationResult) {
	symbol := termfmt.GetEmoji("statistics", f.opts)
	b.WriteString(symbol + " Statistics\n")

	analysis := result.Analysis

	items := []termfmt.TreeItem{
		{Label: "Prompt Length", Value: formatNumber(len(result.Original)) + " chars"},
	}

	if analysis != nil {
		items = append(items,
			termfmt.TreeItem{Label: "Issues", Value: formatNumber(len(analysis.Issues))},
			termfmt.TreeItem{Label: "Errors", Value: formatNumber(analysis.ErrorCount)},
			termfmt.TreeItem{Label: "Warnings", Value: formatNumber(analysis.WarningCount)},
		)
	}

	if result.Stats != nil {
		items = append(items, termfmt.TreeItem{Label: "Tokens", Value: tokenDelta(result.Stats), Last: true})
	} else if len(items) > 0 {
		items[len(items)-1].Last = true
	}

	tree := termfmt.TreeViewWithOptions(items, f.opts)
	b.WriteString(tree + "\n\n")
}

// writeIssues writes detected issues grouped by category
func (f *terminalFormatter) writeIssues(b *strings.Builder, analysis *common.Analysis) {
	symbol := termfmt.GetEmoji("insights", f.opts)
	b.WriteString(symbol + " Detected Issues\n")

	order, groups := analysis.GroupByCategory()
	for ci, cat := range order {
		issues := groups[cat]
		fmt.Fprintf(b, "%s (%d)\n", cat.DisplayName(), len(issues))

		items := make([]termfmt.TreeItem, 0, len(issues))
		for i, iss := range issues {
			label := fmt.Sprintf("%s %s", getSeverityEmoji(iss.Severity), iss.RuleID)
			value := iss.Message
			if iss.Line > 0 {
				value = fmt.Sprintf("line %d: %s", iss.Line, iss.Message)
			}

			item := termfmt.TreeItem{
				Label: label,
				Value: value,
				Last:  i == len(issues)-1,
			}
			if iss.Suggestion != "" {
				item.Children = []termfmt.TreeItem{{Label: iss.Suggestion}}
			}
			items = append(items, item)
		}

		tree := termfmt.TreeViewWithOptions(items, f.opts)
		b.WriteString(tree + "\n")
		if ci < len(order)-1 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
}

// writeOptimized writes the rewritten prompt and optimization stats
func (f *terminalFormatter) writeOptimized(b *strings.Builder, result *common.OptimizationResult) {
	symbol := termfmt.GetEmoji("recommendations", f.opts)
	b.WriteString(symbol + " Optimized Prompt\n")
	b.WriteString(strings.Repeat("─", 50) + "\n")
	b.WriteString(result.Optimized + "\n")
	b.WriteString(strings.Repeat("─", 50) + "\n\n")

	stats := result.Stats
	if stats == nil {
		return
	}

	items := []termfmt.TreeItem{
		{Label: "Characters", Value: fmt.Sprintf("%d -> %d", stats.OriginalChars, stats.OptimizedChars)},
		{Label: "Tokens", Value: tokenDelta(stats)},
	}
	if len(stats.RulesApplied) > 0 {
		items = append(items, termfmt.TreeItem{Label: "Rules Applied", Value: strings.Join(stats.RulesApplied, ", ")})
	}
	if stats.Provider != "" {
		items = append(items, termfmt.TreeItem{Label: "Provider", Value: stats.Provider})
	}
	items[len(items)-1].Last = true

	tree := termfmt.TreeViewWithOptions(items, f.opts)
	b.WriteString(tree + "\n")
}

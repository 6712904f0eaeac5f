package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/oyilmaz/popt/internal/common"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct{}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{}
}

func (f *markdownFormatter) Format(result *common.OptimizationResult) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# Prompt Analysis Report\n\n")
	b.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05")))

	f.writeTableOfContents(&b, result)
	f.writeSummaryTable(&b, result)

	if result.Analysis != nil && len(result.Analysis.Issues) > 0 {
		f.writeIssueSections(&b, result.Analysis)
	}

	if result.HasOptimized() {
		f.writeOptimizedSection(&b, result)
	}

	b.WriteString("---\n")
	b.WriteString("*Report generated by popt - Prompt Analysis and Optimization*\n")

	return []byte(b.String()), nil
}

func (f *markdownFormatter) writeTableOfContents(b *strings.Builder, result *common.OptimizationResult) {
	b.WriteString("## Table of Contents\n")
	b.WriteString("- [Summary](#summary)\n")

	if result.Analysis != nil && len(result.Analysis.Issues) > 0 {
		b.WriteString("- [Detected Issues](#detected-issues)\n")
	}

	if result.HasOptimized() {
		b.WriteString("- [Optimized Prompt](#optimized-prompt)\n")
	}

	b.WriteString("\n")
}

func (f *markdownFormatter) writeSummaryTable(b *strings.Builder, result *common.OptimizationResult) {
	b.WriteString("## Summary\n\n")

	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(b, "| Prompt Length | %s chars |\n", formatNumber(len(result.Original)))

	if analysis := result.Analysis; analysis != nil {
		order, _ := analysis.GroupByCategory()
		fmt.Fprintf(b, "| Issues | %d |\n", len(analysis.Issues))
		fmt.Fprintf(b, "| Errors | %d |\n", analysis.ErrorCount)
		fmt.Fprintf(b, "| Warnings | %d |\n", analysis.WarningCount)
		fmt.Fprintf(b, "| Categories Affected | %d |\n", len(order))
	}

	if stats := result.Stats; stats != nil {
		fmt.Fprintf(b, "| Tokens | %s |\n", tokenDelta(stats))
		if stats.Provider != "" {
			fmt.Fprintf(b, "| Provider | %s |\n", stats.Provider)
		}
	}

	b.WriteString("\n")
}

func (f *markdownFormatter) writeIssueSections(b *strings.Builder, analysis *common.Analysis) {
	b.WriteString("## Detected Issues\n\n")

	order, groups := analysis.GroupByCategory()
	for _, cat := range order {
		issues := groups[cat]
		fmt.Fprintf(b, "### %s (%d)\n\n", cat.DisplayName(), len(issues))

		for _, iss := range issues {
			marker := severityMarker(iss.Severity)
			if iss.Line > 0 {
				fmt.Fprintf(b, "- %s **%s** (line %d): %s\n", marker, iss.RuleID, iss.Line, iss.Message)
			} else {
				fmt.Fprintf(b, "- %s **%s**: %s\n", marker, iss.RuleID, iss.Message)
			}
			if iss.Suggestion != "" {
				fmt.Fprintf(b, "  - Suggestion: %s\n", iss.Suggestion)
			}
		}
		b.WriteString("\n")
	}
}

func (f *markdownFormatter) writeOptimizedSection(b *strings.Builder, result *common.OptimizationResult) {
	b.WriteString("## Optimized Prompt\n\n")
	b.WriteString("```\n")
	b.WriteString(result.Optimized)
	if !strings.HasSuffix(result.Optimized, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("```\n\n")

	if stats := result.Stats; stats != nil && len(stats.RulesApplied) > 0 {
		fmt.Fprintf(b, "Rules applied: %s\n\n", strings.Join(stats.RulesApplied, ", "))
	}
}

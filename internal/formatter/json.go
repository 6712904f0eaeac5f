package formatter

import (
	"encoding/json"
	"time"

	"github.com/oyilmaz/popt/internal/common"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

func (f *jsonFormatter) Format(result *common.OptimizationResult) ([]byte, error) {
	output := &JSONOutput{
		Summary:   createSummary(result),
		Issues:    createIssueOutputs(result.Analysis),
		Optimized: result.Optimized,
		Stats:     result.Stats,
	}

	return json.MarshalIndent(output, "", "  ")
}

// JSONOutput is the top-level JSON report structure
type JSONOutput struct {
	Summary   *SummaryOutput            `json:"summary"`
	Issues    []*IssueOutput            `json:"issues"`
	Optimized string                    `json:"optimized,omitempty"`
	Stats     *common.OptimizationStats `json:"stats,omitempty"`
}

// SummaryOutput represents the summary section
type SummaryOutput struct {
	TotalIssues  int       `json:"total_issues"`
	ErrorCount   int       `json:"error_count"`
	WarningCount int       `json:"warning_count"`
	InfoCount    int       `json:"info_count"`
	Categories   []string  `json:"categories"`
	AnalyzedAt   time.Time `json:"analyzed_at,omitempty"`
	Duration     string    `json:"duration,omitempty"`
}

// IssueOutput represents a single detected issue
type IssueOutput struct {
	RuleID     string `json:"rule_id"`
	Category   string `json:"category"`
	Severity   string `json:"severity"`
	Message    string `json:"message"`
	Line       int    `json:"line,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func createSummary(result *common.OptimizationResult) *SummaryOutput {
	analysis := result.Analysis
	if analysis == nil {
		return &SummaryOutput{Categories: []string{}}
	}

	order, _ := analysis.GroupByCategory()
	categories := make([]string, 0, len(order))
	for _, c := range order {
		categories = append(categories, c.DisplayName())
	}

	summary := &SummaryOutput{
		TotalIssues:  len(analysis.Issues),
		ErrorCount:   analysis.ErrorCount,
		WarningCount: analysis.WarningCount,
		InfoCount:    analysis.InfoCount,
		Categories:   categories,
	}

	if !analysis.StartTime.IsZero() {
		summary.AnalyzedAt = analysis.StartTime
		if !analysis.EndTime.IsZero() {
			summary.Duration = analysis.EndTime.Sub(analysis.StartTime).String()
		}
	}

	return summary
}

func createIssueOutputs(analysis *common.Analysis) []*IssueOutput {
	if analysis == nil {
		return []*IssueOutput{}
	}

	outputs := make([]*IssueOutput, 0, len(analysis.Issues))
	for _, iss := range analysis.Issues {
		outputs = append(outputs, &IssueOutput{
			RuleID:     iss.RuleID,
			Category:   iss.Category.DisplayName(),
			Severity:   iss.Severity.String(),
			Message:    iss.Message,
			Line:       iss.Line,
			Suggestion: iss.Suggestion,
		})
	}

	return outputs
}

package common

import (
	"time"
)

// Analysis represents the result of a prompt analysis pass.
type Analysis struct {
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Prompt       string    `json:"-"`
	Issues       []Issue   `json:"issues"`
	ErrorCount   int       `json:"error_count"`
	WarningCount int       `json:"warning_count"`
	InfoCount    int       `json:"info_count"`
}

// CountBySeverity recomputes the per-severity counters from Issues.
func (a *Analysis) CountBySeverity() {
	a.ErrorCount, a.WarningCount, a.InfoCount = 0, 0, 0
	for i := range a.Issues {
		switch a.Issues[i].Severity {
		case SeverityError:
			a.ErrorCount++
		case SeverityWarning:
			a.WarningCount++
		default:
			a.InfoCount++
		}
	}
}

// GroupByCategory buckets issues by category, preserving canonical order.
// Categories with no issues are omitted.
func (a *Analysis) GroupByCategory() ([]Category, map[Category][]Issue) {
	groups := make(map[Category][]Issue)
	for _, iss := range a.Issues {
		groups[iss.Category] = append(groups[iss.Category], iss)
	}
	var order []Category
	for _, c := range AllCategories() {
		if len(groups[c]) > 0 {
			order = append(order, c)
		}
	}
	return order, groups
}

// OptimizationStats summarizes what an optimization pass changed.
type OptimizationStats struct {
	OriginalChars      int      `json:"original_chars"`
	OptimizedChars     int      `json:"optimized_chars"`
	OriginalTokens     int      `json:"original_tokens"`
	OptimizedTokens    int      `json:"optimized_tokens"`
	RulesApplied       []string `json:"rules_applied"`
	CategoriesImproved int      `json:"categories_improved"`
	ProcessingTimeMs   int64    `json:"processing_time_ms"`
	Provider           string   `json:"provider,omitempty"`
	Model              string   `json:"model,omitempty"`
}

// OptimizationResult is the full outcome surfaced to renderers and formatters.
type OptimizationResult struct {
	Original  string             `json:"original"`
	Optimized string             `json:"optimized,omitempty"`
	Analysis  *Analysis          `json:"analysis"`
	Stats     *OptimizationStats `json:"stats,omitempty"`
}

// HasOptimized reports whether a rewritten prompt is available.
func (r *OptimizationResult) HasOptimized() bool {
	return r != nil && r.Optimized != "" && r.Optimized != r.Original
}

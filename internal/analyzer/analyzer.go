package analyzer

import (
	"context"
	"time"

	"github.com/oyilmaz/popt/internal/common"
)

// Analyzer inspects a prompt and reports issues.
type Analyzer interface {
	Analyze(ctx context.Context, prompt string) (*common.Analysis, error)
}

// Engine runs the rule checks for a configurable set of categories.
type Engine struct {
	categories []common.Category
}

// NewEngine returns an engine that checks every category.
func NewEngine() *Engine {
	return &Engine{categories: common.AllCategories()}
}

// WithCategories restricts the engine to the given categories.
// Unknown names are ignored; if none resolve, all categories stay enabled.
func (e *Engine) WithCategories(names []string) *Engine {
	if len(names) == 0 {
		return e
	}
	var cats []common.Category
	for _, name := range names {
		if c, ok := common.ParseCategory(name); ok {
			cats = append(cats, c)
		}
	}
	if len(cats) > 0 {
		e.categories = cats
	}
	return e
}

// Categories returns the categories the engine currently checks.
func (e *Engine) Categories() []common.Category {
	return e.categories
}

// Analyze runs all enabled category checks over the prompt.
func (e *Engine) Analyze(ctx context.Context, prompt string) (*common.Analysis, error) {
	analysis := &common.Analysis{
		StartTime: time.Now(),
		Prompt:    prompt,
		Issues:    []common.Issue{},
	}

	for _, category := range e.categories {
		select {
		case <-ctx.Done():
			return analysis, ctx.Err()
		default:
		}

		switch category {
		case common.CategoryExplicitness:
			analysis.Issues = append(analysis.Issues, checkExplicitness(prompt)...)
		case common.CategoryStyle:
			analysis.Issues = append(analysis.Issues, checkStyle(prompt)...)
		case common.CategoryTools:
			analysis.Issues = append(analysis.Issues, checkTools(prompt)...)
		case common.CategoryFormatting:
			analysis.Issues = append(analysis.Issues, checkFormatting(prompt)...)
		case common.CategoryVerbosity:
			analysis.Issues = append(analysis.Issues, checkVerbosity(prompt)...)
		case common.CategoryAgentic:
			analysis.Issues = append(analysis.Issues, checkAgentic(prompt)...)
		case common.CategoryLongHorizon:
			analysis.Issues = append(analysis.Issues, checkLongHorizon(prompt)...)
		case common.CategoryFrontend:
			analysis.Issues = append(analysis.Issues, checkFrontend(prompt)...)
		}
	}

	analysis.EndTime = time.Now()
	analysis.CountBySeverity()
	return analysis, nil
}

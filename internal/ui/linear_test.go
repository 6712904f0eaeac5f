package ui

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/oyilmaz/popt/internal/common"
)

func linearSampleResult() *common.OptimizationResult {
	analysis := &common.Analysis{
		StartTime: time.Now().Add(-50 * time.Millisecond),
		EndTime:   time.Now(),
		Issues:    twoCategoryIssues(),
	}
	analysis.CountBySeverity()
	return &common.OptimizationResult{
		Original:  "original prompt",
		Optimized: "optimized prompt",
		Analysis:  analysis,
		Stats: &common.OptimizationStats{
			OriginalTokens:  4,
			OptimizedTokens: 4,
			RulesApplied:    []string{"STY002"},
		},
	}
}

func TestRenderLinearQuiet(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderLinear(&buf, linearSampleResult(), ModeQuiet); err != nil {
		t.Fatalf("RenderLinear: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "optimized prompt" {
		t.Errorf("quiet output = %q, want just the optimized prompt", got)
	}
}

func TestRenderLinearJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderLinear(&buf, linearSampleResult(), ModeJSON); err != nil {
		t.Fatalf("RenderLinear: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
}

func TestRenderLinearPlain(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderLinear(&buf, linearSampleResult(), ModePlain); err != nil {
		t.Fatalf("RenderLinear: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Prompt Analysis Summary") {
		t.Error("plain output missing summary header")
	}
	if !strings.Contains(out, "EXP001") {
		t.Error("plain output missing issue rule IDs")
	}
}

package formatter

import (
	"fmt"

	"github.com/yildizm/go-termfmt"

	"github.com/oyilmaz/popt/internal/common"
)

// formatNumber formats numbers with commas for readability
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return addCommas(fmt.Sprintf("%d", n))
}

// addCommas adds commas to number strings
func addCommas(s string) string {
	if len(s) <= 3 {
		return s
	}
	return addCommas(s[:len(s)-3]) + "," + s[len(s)-3:]
}

// getSeverityEmoji returns emoji for severity levels using go-termfmt
func getSeverityEmoji(severity common.Severity) string {
	opts := termfmt.DefaultOptions()
	switch severity {
	case common.SeverityError:
		return termfmt.GetEmoji("error", opts)
	case common.SeverityWarning:
		return termfmt.GetEmoji("warning", opts)
	default:
		return termfmt.GetEmoji("info", opts)
	}
}

// severityMarker is the plain-text marker used where emoji are unwanted
func severityMarker(severity common.Severity) string {
	switch severity {
	case common.SeverityError:
		return "[E]"
	case common.SeverityWarning:
		return "[W]"
	default:
		return "[I]"
	}
}

// tokenDelta renders a before/after token comparison
func tokenDelta(stats *common.OptimizationStats) string {
	if stats == nil {
		return ""
	}
	diff := stats.OptimizedTokens - stats.OriginalTokens
	sign := "+"
	if diff < 0 {
		sign = "-"
		diff = -diff
	}
	return fmt.Sprintf("%d -> %d (%s%d)", stats.OriginalTokens, stats.OptimizedTokens, sign, diff)
}

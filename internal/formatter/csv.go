package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/oyilmaz/popt/internal/common"
)

// csvFormatter formats detected issues as CSV
type csvFormatter struct{}

// NewCSV creates a new CSV formatter
func NewCSV() Formatter {
	return &csvFormatter{}
}

func (f *csvFormatter) Format(result *common.OptimizationResult) ([]byte, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)

	headers := []string{
		"Rule ID",
		"Category",
		"Severity",
		"Line",
		"Message",
		"Suggestion",
	}

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	if result.Analysis != nil {
		for _, iss := range result.Analysis.Issues {
			line := ""
			if iss.Line > 0 {
				line = fmt.Sprintf("%d", iss.Line)
			}

			record := []string{
				iss.RuleID,
				iss.Category.DisplayName(),
				iss.Severity.String(),
				line,
				escapeCSVString(iss.Message),
				escapeCSVString(iss.Suggestion),
			}

			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return b.Bytes(), nil
}

// escapeCSVString properly escapes strings for CSV
func escapeCSVString(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")

	if len(s) > 200 {
		s = s[:197] + "..."
	}

	return s
}

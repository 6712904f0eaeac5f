package formatter

import (
	"fmt"

	"github.com/oyilmaz/popt/internal/common"
)

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(result *common.OptimizationResult) ([]byte, error)
}

// New returns the formatter for the named output format.
func New(format string, color bool) (Formatter, error) {
	switch format {
	case "terminal", "":
		return NewTerminal(color), nil
	case "json":
		return NewJSON(), nil
	case "markdown", "md":
		return NewMarkdown(), nil
	case "csv":
		return NewCSV(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

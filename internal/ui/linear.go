package ui

import (
	"fmt"
	"io"

	"github.com/oyilmaz/popt/internal/common"
	"github.com/oyilmaz/popt/internal/formatter"
)

// RenderLinear writes the non-interactive rendition of a result for the
// given mode. Interactive mode is not handled here; callers route that to
// Run.
func RenderLinear(w io.Writer, result *common.OptimizationResult, mode RenderMode) error {
	switch mode {
	case ModeQuiet:
		if result.HasOptimized() {
			fmt.Fprintln(w, result.Optimized)
		}
		return nil
	case ModeJSON:
		return writeFormatted(w, result, "json", false)
	case ModePlain:
		return writeFormatted(w, result, "terminal", false)
	default:
		return writeFormatted(w, result, "terminal", true)
	}
}

func writeFormatted(w io.Writer, result *common.OptimizationResult, format string, color bool) error {
	f, err := formatter.New(format, color)
	if err != nil {
		return err
	}
	out, err := f.Format(result)
	if err != nil {
		return fmt.Errorf("format result: %w", err)
	}
	_, err = w.Write(out)
	return err
}

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oyilmaz/popt/internal/ai"
	"github.com/oyilmaz/popt/internal/common"
	"github.com/oyilmaz/popt/internal/formatter"
	"github.com/oyilmaz/popt/internal/logger"
	"github.com/oyilmaz/popt/internal/ui"
)

var (
	anaInteractive bool
	anaCategories  []string
)

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Analyze a prompt without optimizing it",
		Long: `Run the rule engine over a prompt and report the issues found.

No LLM provider is contacted; analysis is fully offline. The prompt is read
from the file argument or from stdin.

Examples:
  popt analyze prompt.txt
  popt analyze --check expensive_ops,vague prompt.txt
  cat prompt.txt | popt analyze -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().BoolVarP(&anaInteractive, "interactive", "i", false, "full-screen interactive view")
	cmd.Flags().StringSliceVar(&anaCategories, "check", nil, "restrict analysis to categories")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	log := logger.NewWithCallback("analyze", isVerbose)

	prompt, inputFile, err := readPrompt(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyOutputDefaults(cfg)

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Analysis.Timeout)
	defer cancel()

	analysis, err := analyzePrompt(ctx, cfg, prompt, anaCategories)
	if err != nil {
		return err
	}
	log.Debug("analysis found %d issues in %s", len(analysis.Issues), analysis.EndTime.Sub(analysis.StartTime))

	if anaInteractive && ui.IsTerminal(os.Stdout) {
		m := ui.NewModel(prompt, inputFile, appVersion, true)
		m.SetIssues(analysis.Issues)
		_, err := ui.Run(m)
		return err
	}

	return writeAnalysis(analysis)
}

// writeAnalysis renders an analysis-only result. The formatter works on
// optimization results, so the analysis is wrapped with no rewrite attached.
func writeAnalysis(analysis *common.Analysis) error {
	result := &common.OptimizationResult{
		Analysis: analysis,
		Original: analysis.Prompt,
		Stats: &common.OptimizationStats{
			OriginalChars:    len(analysis.Prompt),
			OriginalTokens:   ai.EstimateTokens(analysis.Prompt),
			ProcessingTimeMs: analysis.EndTime.Sub(analysis.StartTime).Milliseconds(),
		},
	}

	format := outputFmt
	if format == "" {
		format = "terminal"
	}
	var f formatter.Formatter
	var err error
	if format == "terminal" {
		opts := termfmtOptions()
		opts.Color = opts.Color && ui.IsTerminal(os.Stdout)
		f = formatter.NewTerminalWithOptions(opts)
	} else {
		f, err = formatter.New(format, !noColor)
		if err != nil {
			return err
		}
	}
	out, err := f.Format(result)
	if err != nil {
		return fmt.Errorf("format analysis: %w", err)
	}
	_, err = os.Stdout.Write(out)
	return err
}

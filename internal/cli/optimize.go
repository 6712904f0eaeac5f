package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/oyilmaz/popt/internal/ai"
	"github.com/oyilmaz/popt/internal/analyzer"
	"github.com/oyilmaz/popt/internal/common"
	"github.com/oyilmaz/popt/internal/config"
	"github.com/oyilmaz/popt/internal/formatter"
	"github.com/oyilmaz/popt/internal/logger"
	"github.com/oyilmaz/popt/internal/optimizer"
	"github.com/oyilmaz/popt/internal/ui"
)

var (
	optInteractive bool
	optOffline     bool
	optEnhance     bool
	optQuiet       bool
	optProvider    string
	optModel       string
	optMaxTokens   int
	optCategories  []string
	optOutFile     string
)

func newOptimizeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optimize [file]",
		Short: "Analyze and optimize a prompt",
		Long: `Analyze a prompt for anti-patterns and rewrite it.

Static transforms always run. Unless --offline is set, the configured LLM
provider rewrites the prompt afterwards. The prompt is read from the file
argument or from stdin.

Examples:
  popt optimize prompt.txt
  cat prompt.txt | popt optimize --offline
  popt optimize --interactive --provider ollama prompt.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: runOptimize,
	}

	cmd.Flags().BoolVarP(&optInteractive, "interactive", "i", false, "full-screen interactive view")
	cmd.Flags().BoolVar(&optOffline, "offline", false, "static transforms only, no LLM calls")
	cmd.Flags().BoolVar(&optEnhance, "enhance", false, "append agentic enhancement directives")
	cmd.Flags().BoolVarP(&optQuiet, "quiet", "q", false, "print only the optimized prompt")
	cmd.Flags().StringVar(&optProvider, "provider", "", "LLM provider (anthropic, ollama)")
	cmd.Flags().StringVar(&optModel, "model", "", "model override")
	cmd.Flags().IntVar(&optMaxTokens, "max-tokens", 0, "completion token cap override")
	cmd.Flags().StringSliceVar(&optCategories, "check", nil, "restrict analysis to categories")
	cmd.Flags().StringVar(&optOutFile, "out", "", "write the optimized prompt to this file")

	return cmd
}

func runOptimize(cmd *cobra.Command, args []string) error {
	log := logger.NewWithCallback("optimize", isVerbose)

	prompt, inputFile, err := readPrompt(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if optProvider != "" {
		cfg.AI.Provider = optProvider
	}
	if optModel != "" {
		cfg.AI.Model = optModel
	}
	applyOutputDefaults(cfg)

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Analysis.Timeout)
	defer cancel()

	analysis, err := analyzePrompt(ctx, cfg, prompt, optCategories)
	if err != nil {
		return err
	}
	log.Debug("analysis found %d issues", len(analysis.Issues))

	result, optErr := optimizeAnalysis(cmd.Context(), cfg, analysis, log)

	mode := ui.DetectRenderMode(optInteractive, optQuiet, outputFmt == "json", ui.IsTerminal(os.Stdout))
	if mode == ui.ModeInteractive {
		return runInteractive(cfg, prompt, inputFile, analysis, result, optErr)
	}

	if optErr != nil {
		return optErr
	}
	if outputFmt != "" && outputFmt != "terminal" && outputFmt != "json" {
		if err := writeFormatted(os.Stdout, result, outputFmt); err != nil {
			return err
		}
	} else if err := ui.RenderLinear(os.Stdout, result, mode); err != nil {
		return err
	}
	return saveOptimized(result.Optimized)
}

// analyzePrompt runs the rule engine and applies configured rule overrides.
func analyzePrompt(ctx context.Context, cfg *config.Config, prompt string, categories []string) (*common.Analysis, error) {
	if len(categories) == 0 {
		categories = cfg.Analysis.Categories
	}

	engine := analyzer.NewEngine().WithCategories(categories)
	analysis, err := engine.Analyze(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("analyze prompt: %w", err)
	}

	analysis.Issues = cfg.ApplyRuleOverrides(analysis.Issues)
	analysis.CountBySeverity()
	analysis.EndTime = time.Now()
	return analysis, nil
}

// optimizeAnalysis runs the optimization pass. In offline mode no provider
// is constructed.
func optimizeAnalysis(ctx context.Context, cfg *config.Config, analysis *common.Analysis, log *logger.Logger) (*common.OptimizationResult, error) {
	opts := optimizer.Options{
		Static:    optOffline,
		Enhance:   optEnhance,
		Model:     cfg.AI.Model,
		MaxTokens: optMaxTokens,
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = cfg.AI.MaxTokens
	}

	var provider ai.Provider
	if !optOffline {
		p, err := buildProvider(cfg)
		if err != nil {
			return nil, err
		}
		defer closeProvider(p, log)
		provider = p
	}

	result, err := optimizer.New(provider, log).Optimize(ctx, analysis, opts)
	if err != nil {
		return nil, fmt.Errorf("optimize prompt: %w", err)
	}
	return result, nil
}

func closeProvider(p ai.Provider, log *logger.Logger) {
	if err := p.Close(); err != nil {
		log.Warn("close provider: %v", err)
	}
}

// writeFormatted renders a result with an explicit output format
// (markdown, csv).
func writeFormatted(w io.Writer, result *common.OptimizationResult, format string) error {
	f, err := formatter.New(format, !noColor)
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

// runInteractive drives the full-screen session. An optimization error is
// surfaced through the error modal instead of aborting, so the analysis is
// still explorable.
func runInteractive(cfg *config.Config, prompt, inputFile string, analysis *common.Analysis, result *common.OptimizationResult, optErr error) error {
	m := ui.NewModel(prompt, inputFile, appVersion, optOffline)
	m.SetSaveDir(cfg.Output.SaveDir)
	m.SetIssues(analysis.Issues)

	switch {
	case optErr != nil:
		m.SetError(ui.ErrorState{
			Message: "Optimization failed",
			Details: optErr.Error(),
		})
	case result != nil && result.HasOptimized():
		m.SetOptimizationResult(result.Optimized, result.Stats)
		if !cfg.Output.ShowDiff {
			m.ShowMainView()
		}
	}

	final, err := ui.Run(m)
	if err != nil {
		return err
	}
	return saveOptimized(final.OptimizedPrompt())
}

// saveOptimized honors --out once a rewrite exists.
func saveOptimized(optimized string) error {
	if optOutFile == "" || optimized == "" {
		return nil
	}
	if err := os.WriteFile(optOutFile, []byte(optimized), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", optOutFile, err)
	}
	if isVerbose() {
		fmt.Fprintf(os.Stderr, "Optimized prompt written to %s\n", optOutFile)
	}
	return nil
}

// loadConfig loads configuration from the standard paths plus --config.
func loadConfig() (*config.Config, error) {
	cfg, err := config.NewLoader().LoadConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// applyOutputDefaults fills flag defaults from the output section of the
// config. Explicit flags win.
func applyOutputDefaults(cfg *config.Config) {
	if outputFmt == "" && cfg.Output.DefaultFormat != "terminal" {
		outputFmt = cfg.Output.DefaultFormat
	}
	if cfg.Output.Verbose {
		verbose = true
	}
	if cfg.Output.ColorMode == "never" {
		noColor = true
	}
}

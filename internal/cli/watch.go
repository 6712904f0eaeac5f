package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/oyilmaz/popt/internal/config"
	"github.com/oyilmaz/popt/internal/logger"
	"github.com/oyilmaz/popt/internal/ui"
)

// Editors emit bursts of write events on save; coalesce them before
// re-analyzing.
const watchDebounce = 250 * time.Millisecond

var watchCategories []string

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-analyze a prompt file on every save",
		Long: `Watch a prompt file and re-run analysis whenever it changes.

Uses file system notifications to detect saves, then prints a fresh analysis
summary. No LLM provider is contacted. Press Ctrl+C to stop watching.

Examples:
  popt watch prompt.txt
  popt watch --check vague,structural prompt.txt`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}

	cmd.Flags().StringSliceVar(&watchCategories, "check", nil, "restrict analysis to categories")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	filename := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	watcher, cleanup, err := setupPromptWatcher(filename)
	if err != nil {
		return err
	}
	defer cleanup()

	log := logger.NewWithCallback("watch", isVerbose)

	// Analyze once up front so the first save is not the first feedback.
	if err := analyzeWatchedFile(cmd.Context(), cfg, filename, log); err != nil {
		return err
	}

	return runWatchLoop(cmd.Context(), watcher, cfg, filename, log)
}

// cleanupWatcher safely closes watcher with error logging
func cleanupWatcher(watcher *fsnotify.Watcher) {
	if err := watcher.Close(); err != nil && isVerbose() {
		fmt.Fprintf(os.Stderr, "Warning: failed to close watcher: %v\n", err)
	}
}

// createWatcher creates and configures a new file system watcher
func createWatcher(filename string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(filename); err != nil {
		cleanupWatcher(watcher)
		return nil, fmt.Errorf("failed to watch file: %w", err)
	}

	return watcher, nil
}

// setupPromptWatcher validates the path and creates the watcher.
func setupPromptWatcher(filename string) (*fsnotify.Watcher, func(), error) {
	if err := validateWatchFilePath(filename); err != nil {
		return nil, nil, fmt.Errorf("invalid file path: %w", err)
	}

	if isVerbose() {
		fmt.Fprintf(os.Stderr, "Watching file: %s\n", filename)
		fmt.Fprintf(os.Stderr, "Press Ctrl+C to stop...\n\n")
	}

	watcher, err := createWatcher(filename)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		cleanupWatcher(watcher)
	}

	return watcher, cleanup, nil
}

// runWatchLoop runs the main watch loop with debounced re-analysis and
// signal handling.
func runWatchLoop(parent context.Context, watcher *fsnotify.Watcher, cfg *config.Config, filename string, log *logger.Logger) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	debounce := time.NewTimer(watchDebounce)
	if !debounce.Stop() {
		<-debounce.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-signals:
			if isVerbose() {
				fmt.Fprintf(os.Stderr, "\nReceived interrupt signal, stopping...\n")
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !pending {
				pending = true
			} else if !debounce.Stop() {
				<-debounce.C
			}
			debounce.Reset(watchDebounce)

		case <-debounce.C:
			pending = false
			if err := analyzeWatchedFile(ctx, cfg, filename, log); err != nil {
				// A save mid-write can produce a transient read error;
				// keep watching.
				fmt.Fprintf(os.Stderr, "Analysis error: %v\n", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			if isVerbose() {
				fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
			}
		}
	}
}

// analyzeWatchedFile re-reads the file and prints a fresh summary.
func analyzeWatchedFile(ctx context.Context, cfg *config.Config, filename string, log *logger.Logger) error {
	prompt, _, err := readPrompt([]string{filename})
	if err != nil {
		return err
	}

	analyzeCtx, cancel := context.WithTimeout(ctx, cfg.Analysis.Timeout)
	defer cancel()

	analysis, err := analyzePrompt(analyzeCtx, cfg, prompt, watchCategories)
	if err != nil {
		return err
	}
	log.Debug("re-analysis found %d issues", len(analysis.Issues))

	icons := ui.Icons()
	fmt.Printf("\n[%s] %s\n", time.Now().Format("15:04:05"), filename)
	if len(analysis.Issues) == 0 {
		fmt.Printf("%s No issues detected\n", icons.Check)
		return nil
	}

	fmt.Printf("%s %d issues (%d errors, %d warnings, %d info)\n",
		icons.Warning, len(analysis.Issues),
		analysis.ErrorCount, analysis.WarningCount, analysis.InfoCount)
	for _, iss := range analysis.Issues {
		line := ""
		if iss.Line > 0 {
			line = fmt.Sprintf(" (L%d)", iss.Line)
		}
		fmt.Printf("  %-8s [%s] %s%s\n", iss.RuleID, iss.Severity, iss.Message, line)
	}
	return nil
}

// validateWatchFilePath validates that a file path is safe to watch
func validateWatchFilePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty file path")
	}

	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("cannot watch directory, must be a file")
	}

	return nil
}

package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/yildizm/go-termfmt"

	"github.com/oyilmaz/popt/internal/ui"
)

var (
	cfgFile   string
	verbose   bool
	noColor   bool
	asciiOnly bool
	outputFmt string
)

// appVersion is threaded through to the UI header.
var appVersion = "dev"

// NewRootCommand creates the root command
func NewRootCommand(version, commit, date string) *cobra.Command {
	appVersion = version

	rootCmd := &cobra.Command{
		Use:   "popt",
		Short: "Prompt Analysis and Optimization Tool",
		Long: `popt analyzes prompts for anti-patterns and optionally rewrites them with an
LLM provider. Analysis is rule-based and fully offline; optimization talks to
Anthropic's API or a local Ollama server.

Prompts are read from a file argument or stdin, and results are shown either
as linear output or in a full-screen interactive view.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Windows terminals often lack the glyphs the default icon
			// set uses.
			if runtime.GOOS == "windows" && !cmd.Flag("ascii").Changed {
				asciiOnly = true
			}
			if asciiOnly {
				ui.ForceASCIIIcons()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&asciiOnly, "ascii", false, "ASCII-only output (no unicode glyphs)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "", "output format (terminal, json, markdown, csv)")

	rootCmd.AddCommand(newOptimizeCommand())
	rootCmd.AddCommand(newAnalyzeCommand())
	rootCmd.AddCommand(newRulesCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version number, build commit, date, and runtime information",
		Run: func(cmd *cobra.Command, args []string) {
			displayVersion := version
			displayCommit := commit
			displayDate := date

			if version == "dev" || version == "" {
				displayVersion = "development"
			}
			if commit == "none" || commit == "" {
				displayCommit = "local-build"
			}
			if date == "unknown" || date == "" {
				displayDate = "local-build"
			}

			fmt.Printf("popt %s (%s) built on %s\n", displayVersion, displayCommit, displayDate)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// Global helpers
func isVerbose() bool {
	return verbose
}

func termfmtOptions() *termfmt.TerminalOptions {
	opts := termfmt.DefaultOptions()
	opts.Color = !noColor
	opts.Emoji = !asciiOnly
	return opts
}

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// maxPromptSize guards against accidentally feeding huge files in.
const maxPromptSize = 1 << 20 // 1 MiB

// readPrompt returns the prompt text and, when it came from a file, the file
// path. An empty args slice reads stdin.
func readPrompt(args []string) (prompt, inputFile string, err error) {
	if len(args) > 0 {
		path := args[0]
		if err := validatePromptPath(path); err != nil {
			return "", "", err
		}
		data, err := os.ReadFile(path) // #nosec G304 - path validated above
		if err != nil {
			return "", "", fmt.Errorf("read prompt file: %w", err)
		}
		if len(data) > maxPromptSize {
			return "", "", fmt.Errorf("prompt file too large (%d bytes, max %d)", len(data), maxPromptSize)
		}
		return string(data), path, nil
	}

	data, err := io.ReadAll(io.LimitReader(os.Stdin, maxPromptSize+1))
	if err != nil {
		return "", "", fmt.Errorf("read stdin: %w", err)
	}
	if len(data) > maxPromptSize {
		return "", "", fmt.Errorf("prompt too large (max %d bytes)", maxPromptSize)
	}
	return string(data), "", nil
}

// validatePromptPath rejects empty and traversal-prone paths.
func validatePromptPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty file path")
	}
	clean := filepath.Clean(path)
	info, err := os.Stat(clean)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("expected a file, got a directory: %s", clean)
	}
	return nil
}

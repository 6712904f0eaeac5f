package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempPrompt(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prompt.txt")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp prompt: %v", err)
	}
	return path
}

func TestReadPromptFromFile(t *testing.T) {
	path := writeTempPrompt(t, "Create a dashboard")

	prompt, inputFile, err := readPrompt([]string{path})
	if err != nil {
		t.Fatalf("readPrompt() error: %v", err)
	}
	if prompt != "Create a dashboard" {
		t.Errorf("prompt = %q", prompt)
	}
	if inputFile != path {
		t.Errorf("inputFile = %q, want %q", inputFile, path)
	}
}

func TestReadPromptMissingFile(t *testing.T) {
	_, _, err := readPrompt([]string{filepath.Join(t.TempDir(), "nope.txt")})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReadPromptRejectsDirectory(t *testing.T) {
	_, _, err := readPrompt([]string{t.TempDir()})
	if err == nil || !strings.Contains(err.Error(), "directory") {
		t.Fatalf("expected directory error, got %v", err)
	}
}

func TestReadPromptRejectsOversizedFile(t *testing.T) {
	path := writeTempPrompt(t, strings.Repeat("x", maxPromptSize+1))

	_, _, err := readPrompt([]string{path})
	if err == nil || !strings.Contains(err.Error(), "too large") {
		t.Fatalf("expected size error, got %v", err)
	}
}

func TestValidatePromptPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"empty", "", true},
		{"whitespace", "   ", true},
		{"missing", "/does/not/exist.txt", true},
		{"valid", writeTempPrompt(t, "ok"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePromptPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("validatePromptPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

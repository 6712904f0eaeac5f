package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/oyilmaz/popt/internal/ai"
)

func testConfig(baseURL string) *Config {
	cfg := DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.Timeout = 5 * time.Second
	return cfg
}

func TestProvider_New(t *testing.T) {
	provider, err := New(nil)
	if err != nil {
		t.Fatalf("New(nil) should use defaults, got error: %v", err)
	}
	if provider.Name() != "ollama" {
		t.Errorf("Expected name ollama, got %s", provider.Name())
	}
	_ = provider.Close()

	if _, err := New(&Config{}); err == nil {
		t.Error("New() with empty config should fail validation")
	}
}

func TestProvider_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Expected /api/generate, got %s", r.URL.Path)
		}

		var req GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if req.Stream {
			t.Error("Expected stream=false")
		}
		if req.System != "system text" {
			t.Errorf("Expected system prompt pass-through, got %q", req.System)
		}
		if req.Options == nil || req.Options.NumPredict != 128 {
			t.Errorf("Expected num_predict 128, got %+v", req.Options)
		}

		_ = json.NewEncoder(w).Encode(GenerateResponse{
			Model:           req.Model,
			Response:        "generated text",
			Done:            true,
			PromptEvalCount: 9,
			EvalCount:       3,
		})
	}))
	defer server.Close()

	provider, err := New(testConfig(server.URL))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer func() { _ = provider.Close() }()

	resp, err := provider.Complete(context.Background(), &ai.CompletionRequest{
		Prompt:       "write a haiku",
		SystemPrompt: "system text",
		MaxTokens:    128,
	})
	if err != nil {
		t.Fatalf("Complete() failed: %v", err)
	}

	if resp.Content != "generated text" {
		t.Errorf("Expected content %q, got %q", "generated text", resp.Content)
	}
	if resp.Usage == nil || resp.Usage.TotalTokens != 12 {
		t.Errorf("Expected total token usage 12, got %+v", resp.Usage)
	}
}

func TestProvider_CompleteServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(ErrorResponse{Error: "model not loaded"})
	}))
	defer server.Close()

	provider, err := New(testConfig(server.URL))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer func() { _ = provider.Close() }()

	_, err = provider.Complete(context.Background(), &ai.CompletionRequest{Prompt: "hello"})
	if err == nil {
		t.Fatal("Complete() should fail on server error")
	}
	pe, ok := err.(*ai.ProviderError)
	if !ok {
		t.Fatalf("Expected ProviderError, got %T", err)
	}
	if pe.Message != "model not loaded" {
		t.Errorf("Expected server error message, got %q", pe.Message)
	}
}

func TestProvider_HealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("Expected /api/tags, got %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(TagsResponse{
			Models: []Model{{Name: "llama3.2:latest"}},
		})
	}))
	defer server.Close()

	provider, err := New(testConfig(server.URL))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer func() { _ = provider.Close() }()

	if err := provider.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() failed: %v", err)
	}
	if !provider.IsHealthy() {
		t.Error("Provider should be healthy after successful check")
	}
}

func TestProvider_IsModelAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(TagsResponse{
			Models: []Model{
				{Name: "llama3.2:latest"},
				{Name: "codellama:7b"},
			},
		})
	}))
	defer server.Close()

	provider, err := New(testConfig(server.URL))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer func() { _ = provider.Close() }()

	tests := []struct {
		model string
		want  bool
	}{
		{"llama3.2", true},
		{"llama3.2:latest", true},
		{"codellama", true},
		{"mistral", false},
	}

	for _, tt := range tests {
		got, err := provider.IsModelAvailable(context.Background(), tt.model)
		if err != nil {
			t.Fatalf("IsModelAvailable(%q) failed: %v", tt.model, err)
		}
		if got != tt.want {
			t.Errorf("IsModelAvailable(%q) = %v, want %v", tt.model, got, tt.want)
		}
	}
}

func TestFactory(t *testing.T) {
	factory := NewFactory()
	if factory.Type() != "ollama" {
		t.Errorf("Expected factory type ollama, got %s", factory.Type())
	}

	provider, err := factory.Create(nil)
	if err != nil {
		t.Fatalf("Create(nil) failed: %v", err)
	}
	if provider.Name() != "ollama" {
		t.Errorf("Expected provider name ollama, got %s", provider.Name())
	}
	_ = provider.Close()
}

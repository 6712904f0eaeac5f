package anthropic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/oyilmaz/popt/internal/ai"
)

const testAPIKey = "test-api-key"

func testConfig(baseURL string) *Config {
	return &Config{
		APIKey:             testAPIKey,
		BaseURL:            baseURL,
		DefaultModel:       DefaultModel,
		MaxTokens:          DefaultMaxTokens,
		DefaultTemperature: DefaultTemperature,
		Timeout:            5 * time.Second,
		MaxRetries:         1,
	}
}

func TestProvider_New(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:    "nil config uses defaults",
			config:  nil,
			wantErr: true, // Should fail due to missing API key
		},
		{
			name:    "valid config",
			config:  testConfig(DefaultBaseURL),
			wantErr: false,
		},
		{
			name: "missing API key",
			config: &Config{
				BaseURL: DefaultBaseURL,
			},
			wantErr: true,
		},
		{
			name: "temperature out of range",
			config: &Config{
				APIKey:             testAPIKey,
				BaseURL:            DefaultBaseURL,
				DefaultModel:       DefaultModel,
				MaxTokens:          DefaultMaxTokens,
				DefaultTemperature: 3.0,
				Timeout:            DefaultTimeout,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && provider == nil {
				t.Error("New() returned nil provider without error")
			}
			if provider != nil {
				_ = provider.Close()
			}
		})
	}
}

func TestProvider_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if r.URL.Path != "/v1/messages" {
			t.Errorf("Expected /v1/messages, got %s", r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != testAPIKey {
			t.Errorf("Expected x-api-key %q, got %q", testAPIKey, got)
		}
		if got := r.Header.Get("anthropic-version"); got != apiVersion {
			t.Errorf("Expected anthropic-version %q, got %q", apiVersion, got)
		}

		body, _ := io.ReadAll(r.Body)
		var req MessagesRequest
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("Failed to unmarshal request: %v", err)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("Expected a single user message, got %+v", req.Messages)
		}
		if req.System != "You rewrite prompts." {
			t.Errorf("Expected system prompt to pass through, got %q", req.System)
		}

		response := MessagesResponse{
			ID:    "msg_test",
			Type:  "message",
			Role:  "assistant",
			Model: req.Model,
			Content: []ContentBlock{
				{Type: "text", Text: "Rewritten prompt"},
			},
			StopReason: "end_turn",
			Usage: Usage{
				InputTokens:  12,
				OutputTokens: 4,
			},
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	provider, err := New(testConfig(server.URL))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer func() { _ = provider.Close() }()

	resp, err := provider.Complete(context.Background(), &ai.CompletionRequest{
		Prompt:       "Summarize the report",
		SystemPrompt: "You rewrite prompts.",
		RequestID:    "req-1",
	})
	if err != nil {
		t.Fatalf("Complete() failed: %v", err)
	}

	if resp.Content != "Rewritten prompt" {
		t.Errorf("Expected content %q, got %q", "Rewritten prompt", resp.Content)
	}
	if resp.FinishReason != "end_turn" {
		t.Errorf("Expected finish reason end_turn, got %q", resp.FinishReason)
	}
	if resp.Usage == nil || resp.Usage.TotalTokens != 16 {
		t.Errorf("Expected total token usage 16, got %+v", resp.Usage)
	}
	if resp.RequestID != "req-1" {
		t.Errorf("Expected request ID req-1, got %q", resp.RequestID)
	}
}

func TestProvider_CompleteNilRequest(t *testing.T) {
	provider, err := New(testConfig(DefaultBaseURL))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer func() { _ = provider.Close() }()

	if _, err := provider.Complete(context.Background(), nil); err == nil {
		t.Error("Complete() with nil request should fail")
	}
}

func TestProvider_CompleteAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(ErrorResponse{
			Type: "error",
			Error: ErrorDetail{
				Type:    "authentication_error",
				Message: "invalid x-api-key",
			},
		})
	}))
	defer server.Close()

	provider, err := New(testConfig(server.URL))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer func() { _ = provider.Close() }()

	_, err = provider.Complete(context.Background(), &ai.CompletionRequest{Prompt: "hello"})
	if err == nil {
		t.Fatal("Complete() should fail with 401")
	}
	if !ai.IsAuthenticationError(err) {
		t.Errorf("Expected authentication error, got %v", err)
	}
}

func TestProvider_CompleteRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider, err := New(testConfig(server.URL))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer func() { _ = provider.Close() }()

	_, err = provider.Complete(context.Background(), &ai.CompletionRequest{Prompt: "hello"})
	if err == nil {
		t.Fatal("Complete() should fail when every attempt is rate limited")
	}
	if !ai.IsRateLimitError(err) {
		t.Errorf("Expected rate limit error, got %v", err)
	}
}

func TestProvider_HealthCheck(t *testing.T) {
	healthy := true
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(MessagesResponse{
			ID:         "msg_probe",
			Content:    []ContentBlock{{Type: "text", Text: "pong"}},
			StopReason: "max_tokens",
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

	healthy = false
	if err := provider.HealthCheck(context.Background()); err == nil {
		t.Error("HealthCheck() should fail with 401")
	}
	if provider.IsHealthy() {
		t.Error("Provider should be unhealthy after failed check")
	}
}

func TestProvider_CountTokens(t *testing.T) {
	provider, err := New(testConfig(DefaultBaseURL))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer func() { _ = provider.Close() }()

	count, err := provider.CountTokens("abcdefgh")
	if err != nil {
		t.Fatalf("CountTokens() failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 tokens for 8 chars, got %d", count)
	}
}

func TestFactory_Register(t *testing.T) {
	factory := NewFactory()
	if factory.Type() != "anthropic" {
		t.Errorf("Expected factory type anthropic, got %s", factory.Type())
	}

	if err := factory.ValidateConfig(nil); err == nil {
		t.Error("ValidateConfig(nil) should fail")
	}

	cfg := factory.DefaultConfig()
	cfg.APIKey = testAPIKey
	if err := factory.ValidateConfig(cfg); err != nil {
		t.Errorf("ValidateConfig() failed for valid config: %v", err)
	}

	provider, err := factory.Create(cfg)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if provider.Name() != "anthropic" {
		t.Errorf("Expected provider name anthropic, got %s", provider.Name())
	}
	_ = provider.Close()
}

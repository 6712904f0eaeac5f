package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/oyilmaz/popt/internal/ai"
)

type Provider struct {
	config  *Config
	client  *http.Client
	baseURL *url.URL
	healthy bool
	mu      sync.RWMutex
}

func New(config *Config) (*Provider, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	baseURL, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, ai.NewConfigurationError("anthropic", "base_url", fmt.Sprintf("invalid base URL: %v", err))
	}

	client := &http.Client{
		Timeout: config.Timeout,
	}

	p := &Provider{
		config:  config,
		client:  client,
		baseURL: baseURL,
		healthy: true,
	}

	return p, nil
}

func (p *Provider) Name() string {
	return "anthropic"
}

func (p *Provider) Complete(ctx context.Context, req *ai.CompletionRequest) (*ai.CompletionResponse, error) {
	if req == nil {
		return nil, ai.NewValidationError("request", "nil", "completion request is required")
	}

	msgReq := p.buildMessagesRequest(req)

	response, err := p.sendMessagesRequest(ctx, msgReq)
	if err != nil {
		return nil, err
	}

	return response.ToAIResponse(req.RequestID), nil
}

func (p *Provider) CountTokens(text string) (int, error) {
	return ai.EstimateTokens(text), nil
}

func (p *Provider) MaxTokens() int {
	return p.config.MaxTokens
}

func (p *Provider) ValidateConfig() error {
	return p.config.Validate()
}

func (p *Provider) Close() error {
	return nil
}

// HealthCheck sends a minimal single-token request; the messages API has
// no dedicated status endpoint.
func (p *Provider) HealthCheck(ctx context.Context) error {
	endpoint := p.baseURL.JoinPath("/v1/messages")

	probe := &MessagesRequest{
		Model:     p.config.DefaultModel,
		MaxTokens: 1,
		Messages:  []Message{{Role: "user", Content: "ping"}},
	}

	body, err := json.Marshal(probe)
	if err != nil {
		p.setHealthy(false)
		return ai.NewProviderErrorWithCause(ai.ErrTypeInternal, "failed to marshal health check request", "anthropic", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint.String(), bytes.NewReader(body))
	if err != nil {
		p.setHealthy(false)
		return ai.NewProviderErrorWithCause(ai.ErrTypeNetwork, "failed to create health check request", "anthropic", err)
	}

	p.setHeaders(req)

	resp, err := p.client.Do(req)
	if err != nil {
		p.setHealthy(false)
		return ai.NewProviderErrorWithCause(ai.ErrTypeNetwork, "health check request failed", "anthropic", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusOK {
		p.setHealthy(true)
		return nil
	}

	p.setHealthy(false)

	if resp.StatusCode == http.StatusUnauthorized {
		return ai.NewProviderError(ai.ErrTypeAuthentication, "invalid API key", "anthropic")
	}

	return ai.NewProviderError(ai.ErrTypeProvider, fmt.Sprintf("health check failed with status %d", resp.StatusCode), "anthropic")
}

func (p *Provider) IsHealthy() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.healthy
}

func (p *Provider) buildMessagesRequest(req *ai.CompletionRequest) *MessagesRequest {
	model := req.Model
	if model == "" {
		model = p.config.DefaultModel
	}

	temperature := req.Temperature
	if temperature == 0 {
		temperature = p.config.DefaultTemperature
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}

	return &MessagesRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		System:      req.SystemPrompt,
		Messages: []Message{
			{Role: "user", Content: req.Prompt},
		},
	}
}

func (p *Provider) sendMessagesRequest(ctx context.Context, req *MessagesRequest) (*MessagesResponse, error) {
	endpoint := p.baseURL.JoinPath("/v1/messages")

	body, err := json.Marshal(req)
	if err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeInternal, "failed to marshal request", "anthropic", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeNetwork, "failed to create request", "anthropic", err)
	}

	p.setHeaders(httpReq)

	resp, err := p.doRequestWithRetry(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, p.handleErrorResponse(resp)
	}

	var msgResp MessagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&msgResp); err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeInternal, "failed to decode response", "anthropic", err)
	}

	return &msgResp, nil
}

func (p *Provider) setHeaders(req *http.Request) {
	req.Header.Set("x-api-key", p.config.APIKey)
	req.Header.Set("anthropic-version", apiVersion)
	req.Header.Set("Content-Type", "application/json")
}

func (p *Provider) doRequestWithRetry(originalReq *http.Request) (*http.Response, error) {
	maxRetries := p.config.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}
	baseDelay := time.Second

	var body []byte
	if originalReq.Body != nil {
		var err error
		body, err = io.ReadAll(originalReq.Body)
		if err != nil {
			return nil, ai.NewProviderErrorWithCause(ai.ErrTypeInternal, "failed to read request body", "anthropic", err)
		}
		_ = originalReq.Body.Close()
	}

	for attempt := 0; attempt < maxRetries; attempt++ {
		var reqBody io.Reader
		if body != nil {
			reqBody = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(originalReq.Context(), originalReq.Method, originalReq.URL.String(), reqBody)
		if err != nil {
			return nil, ai.NewProviderErrorWithCause(ai.ErrTypeInternal, "failed to create retry request", "anthropic", err)
		}

		for key, values := range originalReq.Header {
			for _, value := range values {
				req.Header.Add(key, value)
			}
		}

		resp, err := p.client.Do(req)
		if err != nil {
			if attempt == maxRetries-1 {
				return nil, ai.NewProviderErrorWithCause(ai.ErrTypeNetwork, "request failed after retries", "anthropic", err)
			}
			time.Sleep(time.Duration(math.Pow(2, float64(attempt))) * baseDelay)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			_ = resp.Body.Close()

			if attempt == maxRetries-1 {
				return nil, ai.NewRateLimitError("anthropic", 0, "requests")
			}

			retryAfter := 1
			if retryHeader := resp.Header.Get("Retry-After"); retryHeader != "" {
				if seconds, err := strconv.Atoi(retryHeader); err == nil {
					retryAfter = seconds
				}
			}

			time.Sleep(time.Duration(retryAfter) * time.Second)
			continue
		}

		return resp, nil
	}

	return nil, ai.NewProviderError(ai.ErrTypeNetwork, "max retries exceeded", "anthropic")
}

func (p *Provider) handleErrorResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ai.NewProviderError(ai.ErrTypeProvider, fmt.Sprintf("request failed with status %d", resp.StatusCode), "anthropic")
	}

	var errorResp ErrorResponse
	if err := json.Unmarshal(body, &errorResp); err != nil {
		return ai.NewProviderError(ai.ErrTypeProvider, fmt.Sprintf("request failed with status %d", resp.StatusCode), "anthropic")
	}

	message := errorResp.Error.Message
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ai.NewProviderError(ai.ErrTypeAuthentication, message, "anthropic")
	case http.StatusTooManyRequests:
		return ai.NewRateLimitError("anthropic", 0, "requests")
	case http.StatusBadRequest:
		return ai.NewValidationError("request", "invalid", message)
	default:
		return ai.NewProviderError(ai.ErrTypeProvider, message, "anthropic")
	}
}

func (p *Provider) setHealthy(healthy bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.healthy = healthy
}

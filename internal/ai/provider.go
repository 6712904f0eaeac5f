package ai

import (
	"context"
)

// LLMProvider defines the interface for optimization providers.
// Responses are returned whole; no provider streams partial output.
type LLMProvider interface {
	// Name returns the provider name (e.g., "anthropic", "ollama")
	Name() string

	// Complete performs a single completion request
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// CountTokens estimates token count for the given text
	CountTokens(text string) (int, error)

	// MaxTokens returns the maximum completion length
	MaxTokens() int

	// ValidateConfig validates the provider configuration
	ValidateConfig() error

	// Close cleans up provider resources
	Close() error
}

// HealthChecker provides health checking capabilities
type HealthChecker interface {
	// HealthCheck verifies provider connectivity and status
	HealthCheck(ctx context.Context) error

	// IsHealthy returns current health status
	IsHealthy() bool
}

// Provider combines all provider capabilities
type Provider interface {
	LLMProvider
	HealthChecker
}

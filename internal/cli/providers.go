package cli

import (
	"fmt"
	"sync"

	"github.com/oyilmaz/popt/internal/ai"
	"github.com/oyilmaz/popt/internal/ai/providers/anthropic"
	"github.com/oyilmaz/popt/internal/ai/providers/ollama"
	"github.com/oyilmaz/popt/internal/config"
)

var registerOnce sync.Once

// registerProviders installs the provider factories into the global
// registry. Safe to call from every command.
func registerProviders() {
	registerOnce.Do(func() {
		if err := anthropic.Register(); err != nil {
			fmt.Printf("Warning: failed to register anthropic provider: %v\n", err)
		}
		if err := ollama.Register(); err != nil {
			fmt.Printf("Warning: failed to register ollama provider: %v\n", err)
		}
	})
}

// buildProvider resolves the configured LLM provider. The anthropic provider
// needs an API key from the environment; ollama talks to a local server and
// does not.
func buildProvider(cfg *config.Config) (ai.Provider, error) {
	registerProviders()

	name := cfg.AI.Provider
	if name == "" {
		name = "anthropic"
	}

	pc := &ai.ProviderConfig{
		Name:               name,
		Type:               name,
		BaseURL:            cfg.AI.Endpoint,
		DefaultModel:       cfg.AI.Model,
		MaxTokens:          cfg.AI.MaxTokens,
		DefaultTemperature: cfg.AI.Temperature,
		Timeout:            cfg.AI.Timeout,
		MaxRetries:         cfg.AI.MaxRetries,
	}

	if name == "anthropic" {
		key, err := cfg.APIKey()
		if err != nil {
			return nil, err
		}
		pc.APIKey = key
	}

	provider, err := ai.GlobalRegistry().GetWithConfig(name, pc)
	if err != nil {
		return nil, fmt.Errorf("initialize %s provider: %w", name, err)
	}
	return provider, nil
}

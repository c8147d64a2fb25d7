// Package embedding computes fixed-length vectors for text, with a
// pluggable backend selected by configuration.
package embedding

import (
	"context"
	"fmt"
)

// Backend selects the embedding implementation.
type Backend string

const (
	// BackendOpenAI embeds via the hosted OpenAI API.
	BackendOpenAI Backend = "openai"
	// BackendOllama embeds via a locally running Ollama server.
	BackendOllama Backend = "ollama"
)

// Provider computes an embedding vector for one text string. Both backends
// satisfy the same contract; callers must not branch on backend identity.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	// Dimensions returns the fixed vector length the backend produces.
	Dimensions() int
}

// Config holds the settings for constructing a Provider.
type Config struct {
	Backend Backend

	// OpenAI backend
	APIKey         string
	EmbeddingModel string

	// Ollama backend
	OllamaURL   string
	OllamaModel string
}

// New constructs the Provider for the configured backend.
func New(cfg Config) (Provider, error) {
	switch cfg.Backend {
	case BackendOpenAI:
		return NewOpenAIProvider(OpenAIConfig{
			APIKey: cfg.APIKey,
			Model:  cfg.EmbeddingModel,
		}), nil
	case BackendOllama:
		return NewOllamaProvider(OllamaConfig{
			BaseURL: cfg.OllamaURL,
			Model:   cfg.OllamaModel,
		}), nil
	default:
		return nil, fmt.Errorf("unknown embedding backend: %q", cfg.Backend)
	}
}

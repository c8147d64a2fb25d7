package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/fascani/amabot/internal/domain"
)

const (
	// DefaultOllamaURL is the API base of a locally running Ollama server.
	DefaultOllamaURL = "http://localhost:11434/api"
	// DefaultOllamaModel is the local sentence-embedding model.
	DefaultOllamaModel = "all-minilm"
	// DefaultOllamaDimensions is the vector length produced by all-minilm.
	DefaultOllamaDimensions = 384
)

// OllamaProvider embeds text through a locally running Ollama server.
// The model is verified lazily on first use and the result is cached for
// the lifetime of the provider; the model itself stays resident in the
// Ollama process and is safely reusable across sequential calls.
type OllamaProvider struct {
	baseURL    string
	model      string
	dimensions int
	httpClient *http.Client

	loadOnce sync.Once
	loadErr  error
}

// OllamaConfig configures the Ollama backend.
type OllamaConfig struct {
	BaseURL    string
	Model      string
	Dimensions int
}

// NewOllamaProvider creates an OllamaProvider using defaults for any
// unset configuration value.
func NewOllamaProvider(cfg OllamaConfig) *OllamaProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultOllamaModel
	}
	dimensions := cfg.Dimensions
	if dimensions <= 0 {
		dimensions = DefaultOllamaDimensions
	}
	return &OllamaProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		dimensions: dimensions,
		httpClient: &http.Client{Timeout: time.Minute},
	}
}

type ollamaShowRequest struct {
	Model string `json:"model"`
}

type ollamaEmbeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbeddingResponse struct {
	Embedding []float32 `json:"embedding"`
}

// ensureModel verifies once that the configured model is present on the
// server. MODEL_LOAD_ERROR results are cached and returned to every later
// call.
func (p *OllamaProvider) ensureModel(ctx context.Context) error {
	p.loadOnce.Do(func() {
		body, err := json.Marshal(ollamaShowRequest{Model: p.model})
		if err != nil {
			p.loadErr = domain.NewModelLoadError("failed to marshal show request", err)
			return
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/show", bytes.NewReader(body))
		if err != nil {
			p.loadErr = domain.NewModelLoadError("failed to create show request", err)
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := p.httpClient.Do(req)
		if err != nil {
			p.loadErr = domain.NewModelLoadError("cannot reach ollama server", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			respBody, _ := io.ReadAll(resp.Body)
			p.loadErr = domain.NewModelLoadError(
				fmt.Sprintf("model %q is not available: %s", p.model, strings.TrimSpace(string(respBody))), nil)
		}
	})
	return p.loadErr
}

// Embed computes the embedding for a single input string.
func (p *OllamaProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, domain.ErrEmptyText
	}

	if err := p.ensureModel(ctx); err != nil {
		return nil, err
	}

	reqBody, err := json.Marshal(ollamaEmbeddingRequest{Model: p.model, Prompt: text})
	if err != nil {
		return nil, domain.NewServiceError("failed to marshal embedding request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/embeddings", bytes.NewReader(reqBody))
	if err != nil {
		return nil, domain.NewServiceError("failed to create embedding request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewServiceError("embedding request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, domain.NewServiceError(
			fmt.Sprintf("ollama API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(respBody))), nil)
	}

	var parsed ollamaEmbeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, domain.NewServiceError("failed to parse embedding response", err)
	}

	if len(parsed.Embedding) == 0 {
		return nil, domain.NewServiceError("ollama returned an empty embedding", nil)
	}

	return parsed.Embedding, nil
}

// Dimensions returns the fixed vector length of the configured model.
func (p *OllamaProvider) Dimensions() int {
	return p.dimensions
}

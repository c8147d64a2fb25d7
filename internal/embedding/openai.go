package embedding

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"

	"github.com/fascani/amabot/internal/domain"
)

const (
	// DefaultOpenAIModel is the OpenAI model used for generating embeddings
	DefaultOpenAIModel = openai.AdaEmbeddingV2
	// DefaultOpenAIDimensions is the vector length produced by ada-002.
	// The model returns unit-norm vectors, so dot product equals cosine
	// similarity for this backend.
	DefaultOpenAIDimensions = 1536
)

// embeddingAPI is the slice of the OpenAI client this provider needs.
type embeddingAPI interface {
	CreateEmbeddings(ctx context.Context, req openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// OpenAIProvider embeds text through the hosted OpenAI API.
type OpenAIProvider struct {
	api        embeddingAPI
	model      openai.EmbeddingModel
	dimensions int
}

// OpenAIConfig configures the OpenAI backend.
type OpenAIConfig struct {
	APIKey     string
	Model      string
	Dimensions int
}

// NewOpenAIProvider creates an OpenAIProvider using defaults for any
// unset configuration value.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	model := openai.EmbeddingModel(cfg.Model)
	if model == "" {
		model = DefaultOpenAIModel
	}
	dimensions := cfg.Dimensions
	if dimensions <= 0 {
		dimensions = DefaultOpenAIDimensions
	}
	return &OpenAIProvider{
		api:        openai.NewClient(cfg.APIKey),
		model:      model,
		dimensions: dimensions,
	}
}

// Embed calls the embeddings API for a single input string. Network, auth
// and rate-limit failures surface as SERVICE_ERROR; no retries are built
// in, callers wanting resilience wrap this with their own backoff.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, domain.ErrEmptyText
	}

	resp, err := p.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: p.model,
	})
	if err != nil {
		return nil, domain.NewServiceError("embedding request failed", err)
	}

	if len(resp.Data) == 0 {
		return nil, domain.NewServiceError("embedding response contained no data", errors.New("empty data"))
	}

	vector := resp.Data[0].Embedding
	if len(vector) != p.dimensions {
		return nil, domain.NewServiceError("embedding has unexpected dimensions", nil)
	}

	return vector, nil
}

// Dimensions returns the fixed vector length of the configured model.
func (p *OpenAIProvider) Dimensions() int {
	return p.dimensions
}

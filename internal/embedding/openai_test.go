package embedding

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/fascani/amabot/internal/domain"
)

// MockEmbeddingAPI mocks the OpenAI embeddings API
type MockEmbeddingAPI struct {
	mock.Mock
}

func (m *MockEmbeddingAPI) CreateEmbeddings(ctx context.Context, req openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(openai.EmbeddingResponse), args.Error(1)
}

func embeddingOf(dim int) []float32 {
	vector := make([]float32, dim)
	for i := range vector {
		vector[i] = float32(i) * 0.001
	}
	return vector
}

func TestOpenAIProvider_Embed_Success(t *testing.T) {
	mockAPI := new(MockEmbeddingAPI)
	provider := &OpenAIProvider{api: mockAPI, model: DefaultOpenAIModel, dimensions: DefaultOpenAIDimensions}

	ctx := context.Background()
	expected := embeddingOf(1536)

	mockAPI.On("CreateEmbeddings", ctx, mock.Anything).Return(openai.EmbeddingResponse{
		Data: []openai.Embedding{{Embedding: expected}},
	}, nil)

	vector, err := provider.Embed(ctx, "Title: Job; Content: I am an engineer.")

	assert.NoError(t, err)
	assert.Len(t, vector, 1536)
	assert.Equal(t, expected, vector)
	mockAPI.AssertExpectations(t)
}

func TestOpenAIProvider_Embed_EmptyText(t *testing.T) {
	provider := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key"})

	vector, err := provider.Embed(context.Background(), "")

	assert.Error(t, err)
	assert.Nil(t, vector)
	assert.Equal(t, domain.ErrEmptyText, err)
}

func TestOpenAIProvider_Embed_APIError(t *testing.T) {
	mockAPI := new(MockEmbeddingAPI)
	provider := &OpenAIProvider{api: mockAPI, model: DefaultOpenAIModel, dimensions: DefaultOpenAIDimensions}

	ctx := context.Background()
	apiErr := errors.New("rate limit exceeded")

	mockAPI.On("CreateEmbeddings", ctx, mock.Anything).Return(openai.EmbeddingResponse{}, apiErr)

	vector, err := provider.Embed(ctx, "some text")

	assert.Error(t, err)
	assert.Nil(t, vector)
	assert.Equal(t, domain.ErrCodeService, domain.ErrorCode(err))
	assert.True(t, errors.Is(err, apiErr))
	mockAPI.AssertExpectations(t)
}

func TestOpenAIProvider_Embed_EmptyData(t *testing.T) {
	mockAPI := new(MockEmbeddingAPI)
	provider := &OpenAIProvider{api: mockAPI, model: DefaultOpenAIModel, dimensions: DefaultOpenAIDimensions}

	ctx := context.Background()
	mockAPI.On("CreateEmbeddings", ctx, mock.Anything).Return(openai.EmbeddingResponse{}, nil)

	vector, err := provider.Embed(ctx, "some text")

	assert.Error(t, err)
	assert.Nil(t, vector)
	assert.Equal(t, domain.ErrCodeService, domain.ErrorCode(err))
}

func TestOpenAIProvider_Embed_WrongDimensions(t *testing.T) {
	mockAPI := new(MockEmbeddingAPI)
	provider := &OpenAIProvider{api: mockAPI, model: DefaultOpenAIModel, dimensions: DefaultOpenAIDimensions}

	ctx := context.Background()
	mockAPI.On("CreateEmbeddings", ctx, mock.Anything).Return(openai.EmbeddingResponse{
		Data: []openai.Embedding{{Embedding: embeddingOf(512)}},
	}, nil)

	vector, err := provider.Embed(ctx, "some text")

	assert.Error(t, err)
	assert.Nil(t, vector)
}

func TestNewOpenAIProvider_Defaults(t *testing.T) {
	provider := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key"})

	assert.Equal(t, DefaultOpenAIModel, provider.model)
	assert.Equal(t, DefaultOpenAIDimensions, provider.Dimensions())
}

func TestNew_SelectsBackend(t *testing.T) {
	remote, err := New(Config{Backend: BackendOpenAI, APIKey: "test-key"})
	assert.NoError(t, err)
	assert.IsType(t, &OpenAIProvider{}, remote)

	local, err := New(Config{Backend: BackendOllama})
	assert.NoError(t, err)
	assert.IsType(t, &OllamaProvider{}, local)

	_, err = New(Config{Backend: "huggingface"})
	assert.Error(t, err)
}

package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fascani/amabot/internal/domain"
)

func newOllamaTestServer(t *testing.T, showStatus int, vector []float32) (*httptest.Server, *int32) {
	t.Helper()
	var showCalls int32

	mux := http.NewServeMux()
	mux.HandleFunc("/show", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&showCalls, 1)
		if showStatus != http.StatusOK {
			http.Error(w, `{"error":"model not found"}`, showStatus)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/embeddings", func(w http.ResponseWriter, r *http.Request) {
		var req ollamaEmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req.Model)
		assert.NotEmpty(t, req.Prompt)
		json.NewEncoder(w).Encode(ollamaEmbeddingResponse{Embedding: vector})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &showCalls
}

func TestOllamaProvider_Embed_Success(t *testing.T) {
	expected := []float32{0.1, -0.2, 0.3}
	server, _ := newOllamaTestServer(t, http.StatusOK, expected)

	provider := NewOllamaProvider(OllamaConfig{BaseURL: server.URL, Dimensions: 3})

	vector, err := provider.Embed(context.Background(), "I like chess.")

	assert.NoError(t, err)
	assert.Equal(t, expected, vector)
	assert.Equal(t, 3, provider.Dimensions())
}

func TestOllamaProvider_Embed_ModelVerifiedOnce(t *testing.T) {
	server, showCalls := newOllamaTestServer(t, http.StatusOK, []float32{0.5})

	provider := NewOllamaProvider(OllamaConfig{BaseURL: server.URL})

	ctx := context.Background()
	_, err := provider.Embed(ctx, "first")
	require.NoError(t, err)
	_, err = provider.Embed(ctx, "second")
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(showCalls))
}

func TestOllamaProvider_Embed_ModelNotAvailable(t *testing.T) {
	server, _ := newOllamaTestServer(t, http.StatusNotFound, nil)

	provider := NewOllamaProvider(OllamaConfig{BaseURL: server.URL, Model: "missing-model"})

	vector, err := provider.Embed(context.Background(), "some text")

	assert.Error(t, err)
	assert.Nil(t, vector)
	assert.Equal(t, domain.ErrCodeModelLoad, domain.ErrorCode(err))

	// The cached load failure is returned on every later call.
	_, err = provider.Embed(context.Background(), "again")
	assert.Equal(t, domain.ErrCodeModelLoad, domain.ErrorCode(err))
}

func TestOllamaProvider_Embed_ServerUnreachable(t *testing.T) {
	provider := NewOllamaProvider(OllamaConfig{BaseURL: "http://127.0.0.1:1"})

	_, err := provider.Embed(context.Background(), "some text")

	assert.Error(t, err)
	assert.Equal(t, domain.ErrCodeModelLoad, domain.ErrorCode(err))
}

func TestOllamaProvider_Embed_EmptyText(t *testing.T) {
	provider := NewOllamaProvider(OllamaConfig{})

	_, err := provider.Embed(context.Background(), "")

	assert.Equal(t, domain.ErrEmptyText, err)
}

func TestOllamaProvider_Embed_EmptyEmbedding(t *testing.T) {
	server, _ := newOllamaTestServer(t, http.StatusOK, nil)

	provider := NewOllamaProvider(OllamaConfig{BaseURL: server.URL})

	vector, err := provider.Embed(context.Background(), "some text")

	assert.Error(t, err)
	assert.Nil(t, vector)
	assert.Equal(t, domain.ErrCodeService, domain.ErrorCode(err))
}

func TestNewOllamaProvider_Defaults(t *testing.T) {
	provider := NewOllamaProvider(OllamaConfig{})

	assert.Equal(t, DefaultOllamaURL, provider.baseURL)
	assert.Equal(t, DefaultOllamaModel, provider.model)
	assert.Equal(t, DefaultOllamaDimensions, provider.Dimensions())
}

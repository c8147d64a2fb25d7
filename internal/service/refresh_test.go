package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fascani/amabot/internal/domain"
)

func TestRefreshService_RefreshAll(t *testing.T) {
	store := new(MockKnowledgeStore)
	provider := new(MockEmbeddingProvider)
	svc := NewRefreshService(store, provider, wordCounter{}, time.Second)

	entries := []*domain.KnowledgeEntry{
		domain.NewKnowledgeEntry("Hobbies", "I like chess.", 0, nil),
		domain.NewKnowledgeEntry("Job", "I am an engineer.", 99, []float32{9.9}),
	}

	store.On("LoadEntries", mock.Anything).Return(entries, nil)
	provider.On("Embed", mock.Anything, "Title: Hobbies; Content: I like chess.").
		Return([]float32{0.1, 0.2}, nil)
	provider.On("Embed", mock.Anything, "Title: Job; Content: I am an engineer.").
		Return([]float32{0.3, 0.4}, nil)
	store.On("SaveComputedFields", mock.Anything, entries).Return(nil)

	count, err := svc.RefreshAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	// Both fields derived from the current combined text.
	assert.Equal(t, []float32{0.1, 0.2}, entries[0].Embedding)
	assert.Equal(t, 6, entries[0].NumTokens)
	assert.Equal(t, []float32{0.3, 0.4}, entries[1].Embedding)
	assert.Equal(t, 7, entries[1].NumTokens)
	store.AssertExpectations(t)
	provider.AssertExpectations(t)
}

func TestRefreshService_RefreshMissing_OnlyComputesUnset(t *testing.T) {
	store := new(MockKnowledgeStore)
	provider := new(MockEmbeddingProvider)
	svc := NewRefreshService(store, provider, wordCounter{}, time.Second)

	withEmbedding := domain.NewKnowledgeEntry("Job", "I am an engineer.", 8, []float32{0.9})
	withoutEmbedding := domain.NewKnowledgeEntry("Hobbies", "I like chess.", 0, nil)
	entries := []*domain.KnowledgeEntry{withEmbedding, withoutEmbedding}

	store.On("LoadEntries", mock.Anything).Return(entries, nil)
	provider.On("Embed", mock.Anything, "Title: Hobbies; Content: I like chess.").
		Return([]float32{0.1}, nil)
	store.On("SaveComputedFields", mock.Anything, entries).Return(nil)

	count, err := svc.RefreshMissing(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, []float32{0.9}, withEmbedding.Embedding)
	assert.Equal(t, []float32{0.1}, withoutEmbedding.Embedding)
	provider.AssertNumberOfCalls(t, "Embed", 1)
}

func TestRefreshService_RefreshMissing_NothingToDo(t *testing.T) {
	store := new(MockKnowledgeStore)
	provider := new(MockEmbeddingProvider)
	svc := NewRefreshService(store, provider, wordCounter{}, time.Second)

	entries := []*domain.KnowledgeEntry{
		domain.NewKnowledgeEntry("Job", "I am an engineer.", 8, []float32{0.9}),
	}
	store.On("LoadEntries", mock.Anything).Return(entries, nil)

	count, err := svc.RefreshMissing(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, count)
	store.AssertNotCalled(t, "SaveComputedFields")
}

func TestRefreshService_RefreshAll_EmbeddingFailureWritesNothing(t *testing.T) {
	store := new(MockKnowledgeStore)
	provider := new(MockEmbeddingProvider)
	svc := NewRefreshService(store, provider, wordCounter{}, time.Second)

	entries := []*domain.KnowledgeEntry{
		domain.NewKnowledgeEntry("Hobbies", "I like chess.", 0, nil),
	}
	svcErr := domain.NewServiceError("embedding request failed", errors.New("quota exceeded"))

	store.On("LoadEntries", mock.Anything).Return(entries, nil)
	provider.On("Embed", mock.Anything, mock.Anything).Return(nil, svcErr)

	count, err := svc.RefreshAll(context.Background())

	assert.Equal(t, 0, count)
	require.Error(t, err)
	assert.True(t, errors.Is(err, svcErr))
	store.AssertNotCalled(t, "SaveComputedFields")
}

func TestRefreshService_RefreshAll_StoreLoadFailure(t *testing.T) {
	store := new(MockKnowledgeStore)
	provider := new(MockEmbeddingProvider)
	svc := NewRefreshService(store, provider, wordCounter{}, time.Second)

	storeErr := domain.NewStoreError("failed to load entries", errors.New("auth denied"))
	store.On("LoadEntries", mock.Anything).Return(nil, storeErr)

	_, err := svc.RefreshAll(context.Background())

	assert.Equal(t, storeErr, err)
	provider.AssertNotCalled(t, "Embed")
}

package rank

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fascani/amabot/internal/domain"
)

func entry(section string, embedding []float32) *domain.KnowledgeEntry {
	return &domain.KnowledgeEntry{
		Section:   section,
		Content:   section + " content",
		Embedding: embedding,
	}
}

func TestRank_SortsBySimilarityDescending(t *testing.T) {
	entries := []*domain.KnowledgeEntry{
		entry("Hobbies", []float32{0.1, 0.0}),
		entry("Job", []float32{0.9, 0.1}),
		entry("Early life", []float32{0.5, 0.5}),
	}
	query := []float32{1.0, 0.0}

	ranked, err := Rank(entries, query)

	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, "Job", ranked[0].Entry.Section)
	assert.Equal(t, "Early life", ranked[1].Entry.Section)
	assert.Equal(t, "Hobbies", ranked[2].Entry.Section)

	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Similarity, ranked[i].Similarity)
	}
}

func TestRank_DotProduct(t *testing.T) {
	entries := []*domain.KnowledgeEntry{
		entry("Job", []float32{2.0, 3.0, -1.0}),
	}
	query := []float32{1.0, 0.5, 2.0}

	ranked, err := Rank(entries, query)

	require.NoError(t, err)
	// 2*1 + 3*0.5 + (-1)*2 = 1.5, unnormalized
	assert.InDelta(t, 1.5, float64(ranked[0].Similarity), 1e-6)
}

func TestRank_TiesPreserveOriginalOrder(t *testing.T) {
	entries := []*domain.KnowledgeEntry{
		entry("First", []float32{1.0, 0.0}),
		entry("Second", []float32{0.0, 1.0}),
		entry("Third", []float32{1.0, 0.0}),
	}
	query := []float32{1.0, 1.0}

	ranked, err := Rank(entries, query)

	require.NoError(t, err)
	assert.Equal(t, "First", ranked[0].Entry.Section)
	assert.Equal(t, "Second", ranked[1].Entry.Section)
	assert.Equal(t, "Third", ranked[2].Entry.Section)
}

func TestRank_MissingEmbedding(t *testing.T) {
	entries := []*domain.KnowledgeEntry{
		entry("Job", []float32{1.0}),
		entry("Hobbies", nil),
	}

	ranked, err := Rank(entries, []float32{1.0})

	assert.Nil(t, ranked)
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeData, domain.ErrorCode(err))
	assert.True(t, errors.Is(err, domain.ErrMissingEmbedding))
}

func TestRank_DimensionMismatch(t *testing.T) {
	entries := []*domain.KnowledgeEntry{
		entry("Job", []float32{1.0, 2.0}),
	}

	ranked, err := Rank(entries, []float32{1.0, 2.0, 3.0})

	assert.Nil(t, ranked)
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeData, domain.ErrorCode(err))
}

func TestRank_NoEntries(t *testing.T) {
	ranked, err := Rank(nil, []float32{1.0})

	assert.NoError(t, err)
	assert.Empty(t, ranked)
}

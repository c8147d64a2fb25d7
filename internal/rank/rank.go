// Package rank orders knowledge entries by similarity to a query embedding.
package rank

import (
	"fmt"
	"sort"

	"github.com/fascani/amabot/internal/domain"
)

// Rank scores every entry against queryEmbedding and returns them sorted by
// similarity descending; ties preserve the original entry order.
//
// Similarity is the raw, unnormalized dot product. It equals cosine
// similarity only when the embedding backend returns unit-norm vectors, so
// scores are not comparable across backends with different scaling. An
// entry without a cached embedding has undefined similarity and fails the
// whole call with DATA_ERROR.
func Rank(entries []*domain.KnowledgeEntry, queryEmbedding []float32) ([]domain.RankedEntry, error) {
	ranked := make([]domain.RankedEntry, 0, len(entries))
	for _, entry := range entries {
		if !entry.HasEmbedding() {
			return nil, domain.NewDataError(
				fmt.Sprintf("cannot rank entry %q", entry.Section), domain.ErrMissingEmbedding)
		}
		if len(entry.Embedding) != len(queryEmbedding) {
			return nil, domain.NewDataError(
				fmt.Sprintf("entry %q embedding has %d dimensions, query has %d",
					entry.Section, len(entry.Embedding), len(queryEmbedding)), nil)
		}
		ranked = append(ranked, domain.RankedEntry{
			Entry:      entry,
			Similarity: dot(entry.Embedding, queryEmbedding),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Similarity > ranked[j].Similarity
	})

	return ranked, nil
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fascani/amabot/internal/domain"
)

// RefreshService recomputes the cached token counts and embeddings of
// knowledge entries and writes them back. Run it after entries are added
// or edited; staleness is not detected automatically.
type RefreshService struct {
	store    KnowledgeStore
	provider EmbeddingProvider
	counter  TokenCounter
	timeout  time.Duration
}

// NewRefreshService creates a new RefreshService instance
func NewRefreshService(store KnowledgeStore, provider EmbeddingProvider, counter TokenCounter, timeout time.Duration) *RefreshService {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &RefreshService{
		store:    store,
		provider: provider,
		counter:  counter,
		timeout:  timeout,
	}
}

// RefreshAll recomputes num_tokens and embedding for every entry from its
// current combined text, then saves the whole table. Returns the number
// of entries refreshed. A failure mid-computation writes nothing; a
// failure mid-save can leave the table mixed old/new (store limitation).
func (s *RefreshService) RefreshAll(ctx context.Context) (int, error) {
	loadCtx, cancel := context.WithTimeout(ctx, s.timeout)
	entries, err := s.store.LoadEntries(loadCtx)
	cancel()
	if err != nil {
		return 0, err
	}

	for _, entry := range entries {
		if err := s.compute(ctx, entry); err != nil {
			return 0, err
		}
	}

	saveCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.store.SaveComputedFields(saveCtx, entries); err != nil {
		return 0, err
	}
	return len(entries), nil
}

// RefreshMissing computes fields only for entries that have no embedding
// yet, saving the table when at least one entry changed. Returns the
// number of entries refreshed.
func (s *RefreshService) RefreshMissing(ctx context.Context) (int, error) {
	loadCtx, cancel := context.WithTimeout(ctx, s.timeout)
	entries, err := s.store.LoadEntries(loadCtx)
	cancel()
	if err != nil {
		return 0, err
	}

	refreshed := 0
	for _, entry := range entries {
		if entry.HasEmbedding() {
			continue
		}
		if err := s.compute(ctx, entry); err != nil {
			return 0, err
		}
		refreshed++
	}

	if refreshed == 0 {
		return 0, nil
	}

	saveCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.store.SaveComputedFields(saveCtx, entries); err != nil {
		return 0, err
	}
	return refreshed, nil
}

// compute derives both cached fields from the entry's current combined
// text, keeping the invariant that they are never set from different
// versions of the content.
func (s *RefreshService) compute(ctx context.Context, entry *domain.KnowledgeEntry) error {
	combined := entry.Combined()

	embedCtx, cancel := context.WithTimeout(ctx, s.timeout)
	vector, err := s.provider.Embed(embedCtx, combined)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to embed entry %q: %w", entry.Section, err)
	}

	entry.NumTokens = s.counter.Count(combined)
	entry.Embedding = vector
	return nil
}

package service

import (
	"context"

	"github.com/fascani/amabot/internal/domain"
)

// KnowledgeStore owns the entry collection and the interaction log. All
// other components receive read-only snapshots and return newly computed
// values.
type KnowledgeStore interface {
	// LoadEntries reads all knowledge entries in stored order.
	LoadEntries(ctx context.Context) ([]*domain.KnowledgeEntry, error)

	// SaveComputedFields writes back the cached num_tokens and embedding
	// of every entry, overwriting previous values. Not atomic; intended
	// for single-writer batch refreshes.
	SaveComputedFields(ctx context.Context, entries []*domain.KnowledgeEntry) error

	// AppendInteraction appends one Q&A record to the log.
	AppendInteraction(ctx context.Context, interaction *domain.QAInteraction) error
}

// EmbeddingProvider computes an embedding vector for one text string.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// CompletionClient sends a prompt to the text-completion model.
type CompletionClient interface {
	Complete(ctx context.Context, promptText string) (string, error)
}

// TokenCounter counts completion-model tokens for a string.
type TokenCounter interface {
	Count(text string) int
}

package domain

import (
	"fmt"
	"strings"
)

// KnowledgeEntry represents one biographical record in the knowledge base.
// NumTokens and Embedding are derived from Combined() and cached alongside
// the text; editing Content without a refresh pass leaves them stale.
type KnowledgeEntry struct {
	Section   string
	Content   string
	NumTokens int
	Embedding []float32
}

// NewKnowledgeEntry creates a new KnowledgeEntry instance
func NewKnowledgeEntry(section, content string, numTokens int, embedding []float32) *KnowledgeEntry {
	return &KnowledgeEntry{
		Section:   section,
		Content:   content,
		NumTokens: numTokens,
		Embedding: embedding,
	}
}

// Combined returns the text embeddings and token counts are computed over.
// The template is fixed: "Title: {section}; Content: {content}".
func (e *KnowledgeEntry) Combined() string {
	return fmt.Sprintf("Title: %s; Content: %s", strings.TrimSpace(e.Section), strings.TrimSpace(e.Content))
}

// HasEmbedding reports whether the cached embedding has been computed.
func (e *KnowledgeEntry) HasEmbedding() bool {
	return len(e.Embedding) > 0
}

// RankedEntry pairs a knowledge entry with its similarity to a query
// embedding. It is only valid for the lifetime of one ranking call and
// is never persisted.
type RankedEntry struct {
	Entry      *KnowledgeEntry
	Similarity float32
}

// ValidateKnowledgeEntry validates a KnowledgeEntry instance
func ValidateKnowledgeEntry(e *KnowledgeEntry) error {
	if e == nil {
		return fmt.Errorf("knowledge entry cannot be nil")
	}

	if strings.TrimSpace(e.Section) == "" {
		return fmt.Errorf("knowledge entry Section is required")
	}

	if strings.TrimSpace(e.Content) == "" {
		return fmt.Errorf("knowledge entry Content is required")
	}

	if e.NumTokens < 0 {
		return fmt.Errorf("knowledge entry NumTokens cannot be negative")
	}

	return nil
}

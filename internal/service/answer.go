package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/fascani/amabot/internal/domain"
	"github.com/fascani/amabot/internal/prompt"
	"github.com/fascani/amabot/internal/rank"
	"github.com/fascani/amabot/internal/telemetry"
)

// DefaultTimeout bounds each external boundary call (embedding request,
// completion request, store read/write).
const DefaultTimeout = 30 * time.Second

// AnswerResult carries the generated answer and the exact prompt that
// produced it. The prompt is transient and never persisted.
type AnswerResult struct {
	Answer string
	Prompt string
}

// AnswerService orchestrates one question/answer exchange: embed the
// query, rank entries, pack a prompt, request a completion, and log the
// interaction.
type AnswerService struct {
	store     KnowledgeStore
	provider  EmbeddingProvider
	assembler *prompt.Assembler
	completer CompletionClient
	timeout   time.Duration
	now       func() time.Time
}

// NewAnswerService creates a new AnswerService instance
func NewAnswerService(
	store KnowledgeStore,
	provider EmbeddingProvider,
	assembler *prompt.Assembler,
	completer CompletionClient,
	timeout time.Duration,
) *AnswerService {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &AnswerService{
		store:     store,
		provider:  provider,
		assembler: assembler,
		completer: completer,
		timeout:   timeout,
		now:       time.Now,
	}
}

// Answer loads the knowledge base and answers the query against it.
func (s *AnswerService) Answer(ctx context.Context, query string) (*AnswerResult, error) {
	loadCtx, cancel := context.WithTimeout(ctx, s.timeout)
	entries, err := s.store.LoadEntries(loadCtx)
	cancel()
	if err != nil {
		return nil, err
	}

	return s.AnswerEntries(ctx, query, entries)
}

// AnswerEntries answers the query against an already loaded entry
// snapshot. A failure anywhere before logging aborts with the originating
// error; a logging failure is reported but does not overturn the answer.
func (s *AnswerService) AnswerEntries(ctx context.Context, query string, entries []*domain.KnowledgeEntry) (*AnswerResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrEmptyQuery
	}

	embedCtx, cancel := context.WithTimeout(ctx, s.timeout)
	queryEmbedding, err := s.provider.Embed(embedCtx, query)
	cancel()
	if err != nil {
		return nil, err
	}

	ranked, err := rank.Rank(entries, queryEmbedding)
	if err != nil {
		return nil, err
	}

	promptText := s.assembler.Assemble(query, ranked)

	completeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	answer, err := s.completer.Complete(completeCtx, promptText)
	cancel()
	if err != nil {
		return nil, err
	}

	interaction := domain.NewQAInteraction(s.now(), query, answer)
	logCtx, cancel := context.WithTimeout(ctx, s.timeout)
	logErr := s.store.AppendInteraction(logCtx, interaction)
	cancel()
	if logErr != nil {
		// Non-fatal: the answer already exists, only the audit trail is
		// incomplete.
		log.Printf("failed to log interaction: %v", logErr)
		telemetry.CaptureError(ctx, logErr)
	}

	return &AnswerResult{Answer: answer, Prompt: promptText}, nil
}

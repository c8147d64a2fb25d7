package cli

import (
	"context"
	"fmt"

	"github.com/fascani/amabot/internal/completion"
	"github.com/fascani/amabot/internal/config"
	"github.com/fascani/amabot/internal/database"
	"github.com/fascani/amabot/internal/domain"
	"github.com/fascani/amabot/internal/embedding"
	"github.com/fascani/amabot/internal/prompt"
	"github.com/fascani/amabot/internal/repository"
	"github.com/fascani/amabot/internal/service"
	"github.com/fascani/amabot/internal/sheet"
	"github.com/fascani/amabot/internal/tokenizer"
)

// knowledgeStore is the full store surface the commands need. Both the
// Postgres store and the CSV sheet store satisfy it.
type knowledgeStore interface {
	service.KnowledgeStore
	LoadInteractions(ctx context.Context) ([]*domain.QAInteraction, error)
}

// openStore opens the configured store driver. The returned closer is a
// no-op for the sheet driver.
func openStore(ctx context.Context, cfg *config.Config) (knowledgeStore, func(), error) {
	switch cfg.StoreDriver {
	case "postgres":
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return repository.NewStore(pool), pool.Close, nil
	case "sheet":
		return sheet.NewStore(cfg.SheetInfoPath, cfg.SheetLogPath), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver: %q", cfg.StoreDriver)
	}
}

func buildProvider(cfg *config.Config) (embedding.Provider, error) {
	return embedding.New(embedding.Config{
		Backend:        embedding.Backend(cfg.EmbeddingBackend),
		APIKey:         cfg.OpenAIAPIKey,
		EmbeddingModel: cfg.EmbeddingModel,
		OllamaURL:      cfg.OllamaURL,
		OllamaModel:    cfg.OllamaModel,
	})
}

func buildAnswerService(cfg *config.Config, store service.KnowledgeStore) (*service.AnswerService, error) {
	// Completions always go through OpenAI, even when embeddings come
	// from Ollama.
	if !cfg.HasOpenAI() {
		return nil, fmt.Errorf("AMABOT_OPENAI_API_KEY is required to answer questions")
	}

	provider, err := buildProvider(cfg)
	if err != nil {
		return nil, err
	}

	counter, err := tokenizer.Shared()
	if err != nil {
		return nil, err
	}

	assembler := prompt.NewAssembler(counter, prompt.Config{
		Persona:   cfg.Persona,
		MaxTokens: cfg.MaxPromptTokens,
	})

	completer := completion.NewClient(completion.Config{
		APIKey: cfg.OpenAIAPIKey,
		Model:  cfg.CompletionModel,
	})

	return service.NewAnswerService(store, provider, assembler, completer, cfg.RequestTimeout), nil
}

func buildRefreshService(cfg *config.Config, store service.KnowledgeStore) (*service.RefreshService, error) {
	provider, err := buildProvider(cfg)
	if err != nil {
		return nil, err
	}

	counter, err := tokenizer.Shared()
	if err != nil {
		return nil, err
	}

	return service.NewRefreshService(store, provider, counter, cfg.RequestTimeout), nil
}

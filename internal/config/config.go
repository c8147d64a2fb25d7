package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	// Store driver: "postgres" or "sheet"
	StoreDriver   string `envconfig:"STORE_DRIVER" default:"postgres"`
	DatabaseURL   string `envconfig:"DATABASE_URL"`
	SheetInfoPath string `envconfig:"SHEET_INFO_PATH" default:"info.csv"`
	SheetLogPath  string `envconfig:"SHEET_LOG_PATH" default:"qa.csv"`

	// Embedding backend: "openai" or "ollama"
	EmbeddingBackend string `envconfig:"EMBEDDING_BACKEND" default:"openai"`
	OpenAIAPIKey     string `envconfig:"OPENAI_API_KEY"`
	EmbeddingModel   string `envconfig:"EMBEDDING_MODEL"`
	OllamaURL        string `envconfig:"OLLAMA_URL"`
	OllamaModel      string `envconfig:"OLLAMA_MODEL"`

	CompletionModel string `envconfig:"COMPLETION_MODEL"`

	// Prompt assembly
	Persona         string `envconfig:"PERSONA"`
	MaxPromptTokens int    `envconfig:"MAX_PROMPT_TOKENS" default:"2046"`

	// Timeout applied to each external call (embedding, completion, store)
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`

	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("AMABOT", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("AMABOT_DATABASE_URL is required with the postgres store driver")
		}
	case "sheet":
		// File paths have defaults.
	default:
		return fmt.Errorf("unknown store driver: %q", c.StoreDriver)
	}

	switch c.EmbeddingBackend {
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("AMABOT_OPENAI_API_KEY is required with the openai embedding backend")
		}
	case "ollama":
		// The Ollama backend has URL and model defaults.
	default:
		return fmt.Errorf("unknown embedding backend: %q", c.EmbeddingBackend)
	}

	return nil
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

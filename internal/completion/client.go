// Package completion sends assembled prompts to the text-completion API.
package completion

import (
	"context"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/fascani/amabot/internal/domain"
)

// Fixed sampling parameters for every completion request.
const (
	DefaultModel       = "text-davinci-003"
	DefaultTemperature = 0.9
	DefaultMaxTokens   = 300
	DefaultTopP        = 1.0
)

// completionAPI is the slice of the OpenAI client this package needs.
type completionAPI interface {
	CreateCompletion(ctx context.Context, req openai.CompletionRequest) (openai.CompletionResponse, error)
}

// Client requests text completions with fixed sampling parameters.
type Client struct {
	api   completionAPI
	model string
}

// Config configures the completion client.
type Config struct {
	APIKey string
	Model  string
}

// NewClient creates a completion client. An unset model falls back to
// DefaultModel.
func NewClient(cfg Config) *Client {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		api:   openai.NewClient(cfg.APIKey),
		model: model,
	}
}

// Complete sends the prompt and returns the generated answer with
// surrounding spaces and newlines trimmed. Backend failures surface as
// SERVICE_ERROR; there is no built-in retry.
func (c *Client) Complete(ctx context.Context, promptText string) (string, error) {
	if promptText == "" {
		return "", domain.ErrEmptyText
	}

	resp, err := c.api.CreateCompletion(ctx, openai.CompletionRequest{
		Model:            c.model,
		Prompt:           promptText,
		Temperature:      DefaultTemperature,
		MaxTokens:        DefaultMaxTokens,
		TopP:             DefaultTopP,
		FrequencyPenalty: 0,
		PresencePenalty:  0,
	})
	if err != nil {
		return "", domain.NewServiceError("completion request failed", err)
	}

	if len(resp.Choices) == 0 {
		return "", domain.NewServiceError("completion response contained no choices", errors.New("empty choices"))
	}

	return strings.Trim(resp.Choices[0].Text, " \n"), nil
}

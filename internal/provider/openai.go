package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/tubebrief/tubebrief/internal/model"
)

const (
	openaiDefaultModel = "gpt-4o"
	openaiBudget       = 96_000
)

// OpenAI implements Generator over the chat completions API. BaseURL may
// point at any OpenAI-compatible endpoint.
type OpenAI struct {
	cfg Config
	cli *openai.Client
}

// NewOpenAI creates an OpenAI-backed generator.
func NewOpenAI(cfg Config) *OpenAI {
	if cfg.ModelID == "" {
		cfg.ModelID = openaiDefaultModel
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: 120 * time.Second}

	return &OpenAI{
		cfg: cfg,
		cli: openai.NewClientWithConfig(clientCfg),
	}
}

func (o *OpenAI) Name() model.Provider { return model.ProviderOpenAI }
func (o *OpenAI) ContextBudget() int   { return openaiBudget }

// Generate implements Generator.
func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("openai: empty prompt")
	}

	resp, err := o.cli.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.cfg.ModelID,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openai: %w", ErrEmptyResponse)
	}
	return resp.Choices[0].Message.Content, nil
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusUnauthorized || apiErr.HTTPStatusCode == http.StatusForbidden:
			return fmt.Errorf("openai: status %d: %w", apiErr.HTTPStatusCode, ErrAuthentication)
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("openai: status %d: %w", apiErr.HTTPStatusCode, ErrRateLimited)
		default:
			return fmt.Errorf("openai: status %d: %w", apiErr.HTTPStatusCode, ErrUnavailable)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("openai: timeout: %w", ErrUnavailable)
	}
	return fmt.Errorf("openai: %w: %v", ErrUnavailable, err)
}

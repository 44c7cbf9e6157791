package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tubebrief/tubebrief/internal/model"
)

const (
	anthropicAPIURL       = "https://api.anthropic.com/v1/messages"
	anthropicVersion      = "2023-06-01"
	anthropicDefaultModel = "claude-3-5-sonnet-20241022"
	anthropicBudget       = 180_000
)

// Anthropic implements Generator against the Messages API. The API has no
// official Go SDK, so requests are shaped by hand.
type Anthropic struct {
	cfg    Config
	client *http.Client
}

// NewAnthropic creates an Anthropic-backed generator.
func NewAnthropic(cfg Config) *Anthropic {
	if cfg.ModelID == "" {
		cfg.ModelID = anthropicDefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = anthropicAPIURL
	}
	return &Anthropic{
		cfg:    cfg,
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

func (a *Anthropic) Name() model.Provider { return model.ProviderAnthropic }
func (a *Anthropic) ContextBudget() int   { return anthropicBudget }

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	Messages  []anthropicMessage `json:"messages"`
	MaxTokens int                `json:"max_tokens"`
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate implements Generator.
func (a *Anthropic) Generate(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("anthropic: empty prompt")
	}

	body, err := json.Marshal(anthropicRequest{
		Model:     a.cfg.ModelID,
		Messages:  []anthropicMessage{{Role: "user", Content: prompt}},
		MaxTokens: 8192,
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("anthropic: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", a.cfg.APIKey)
	req.Header.Set("Anthropic-Version", anthropicVersion)

	resp, err := a.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("anthropic: %w: %v", ErrUnavailable, ctx.Err())
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("anthropic: timeout: %w", ErrUnavailable)
		}
		return "", fmt.Errorf("anthropic: %w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("anthropic: read response: %w", ErrUnavailable)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", fmt.Errorf("anthropic: status %d: %w", resp.StatusCode, ErrAuthentication)
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", fmt.Errorf("anthropic: status %d: %w", resp.StatusCode, ErrRateLimited)
	case resp.StatusCode >= 500:
		return "", fmt.Errorf("anthropic: status %d: %w", resp.StatusCode, ErrUnavailable)
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("anthropic: decode response: %w", ErrUnavailable)
	}
	if parsed.Error != nil {
		if parsed.Error.Type == "authentication_error" {
			return "", fmt.Errorf("anthropic: %s: %w", parsed.Error.Type, ErrAuthentication)
		}
		return "", fmt.Errorf("anthropic: %s: %s: %w", parsed.Error.Type, parsed.Error.Message, ErrUnavailable)
	}
	if len(parsed.Content) == 0 || parsed.Content[0].Text == "" {
		return "", fmt.Errorf("anthropic: %w", ErrEmptyResponse)
	}

	return parsed.Content[0].Text, nil
}

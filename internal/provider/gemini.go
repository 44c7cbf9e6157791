package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/tubebrief/tubebrief/internal/model"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	geminiDefaultModel = "gemini-2.5-flash"
	geminiBudget       = 120_000
)

// Gemini implements Generator using Google's Gemini API.
type Gemini struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
}

// NewGemini creates a Gemini-backed generator. Close releases the
// underlying client when the generator is no longer needed.
func NewGemini(ctx context.Context, cfg Config) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	modelName := cfg.ModelID
	if modelName == "" {
		modelName = geminiDefaultModel
	}

	m := client.GenerativeModel(modelName)
	temp := float32(0.3)
	m.Temperature = &temp

	return &Gemini{
		client:    client,
		model:     m,
		modelName: modelName,
	}, nil
}

func (g *Gemini) Name() model.Provider { return model.ProviderGemini }
func (g *Gemini) ContextBudget() int   { return geminiBudget }

// Generate implements Generator.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("gemini: empty prompt")
	}

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", classifyGeminiError(err)
	}

	text := extractGeminiText(resp)
	if text == "" {
		return "", fmt.Errorf("gemini: %w", ErrEmptyResponse)
	}
	return text, nil
}

// Close closes the underlying client.
func (g *Gemini) Close() error {
	return g.client.Close()
}

func classifyGeminiError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
			return fmt.Errorf("gemini: status %d: %w", apiErr.Code, ErrAuthentication)
		case apiErr.Code == http.StatusTooManyRequests:
			return fmt.Errorf("gemini: status %d: %w", apiErr.Code, ErrRateLimited)
		default:
			return fmt.Errorf("gemini: status %d: %w", apiErr.Code, ErrUnavailable)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("gemini: timeout: %w", ErrUnavailable)
	}
	// The SDK loses typed errors for some API-key failures.
	if strings.Contains(err.Error(), "API key") {
		return fmt.Errorf("gemini: %w: %v", ErrAuthentication, err)
	}
	return fmt.Errorf("gemini: %w: %v", ErrUnavailable, err)
}

func extractGeminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return ""
	}

	var result strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			result.WriteString(string(text))
		}
	}

	return strings.TrimSpace(result.String())
}

// Package provider gives the pipeline a uniform interface over
// heterogeneous text-generation backends. Request/response shaping,
// authentication and limits are isolated per implementation; everything
// above this package is provider-agnostic.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/tubebrief/tubebrief/internal/model"
)

// Error kinds. Callers pick remediation with errors.Is: re-enter a
// credential, back off and retry, or abort.
var (
	ErrAuthentication = errors.New("authentication failed")
	ErrRateLimited    = errors.New("rate limited")
	ErrUnavailable    = errors.New("provider unavailable")
	ErrEmptyResponse  = errors.New("empty response")
)

// Generator is the uniform contract for one backend.
type Generator interface {
	// Generate sends a prompt and returns the generated text, non-empty
	// on success. The prompt must be non-empty and fit the context budget.
	Generate(ctx context.Context, prompt string) (string, error)

	// Name returns the provider identifier.
	Name() model.Provider

	// ContextBudget returns the approximate input budget in tokens.
	ContextBudget() int
}

// Config holds per-provider settings. APIKey is an opaque caller-owned
// secret and is never logged.
type Config struct {
	APIKey  string
	ModelID string
	BaseURL string
}

// Factory builds a Generator for an enumerated provider identifier and a
// caller-supplied credential.
type Factory interface {
	Generator(ctx context.Context, id model.Provider, credential string) (Generator, error)
}

// Registry implements Factory over a table of default configurations.
// A non-empty credential overrides the configured key for that call.
type Registry struct {
	defaults map[model.Provider]Config
}

// NewRegistry creates a Registry. The defaults map is copied; missing
// providers are still constructable when the caller supplies a credential.
func NewRegistry(defaults map[model.Provider]Config) *Registry {
	copied := make(map[model.Provider]Config, len(defaults))
	for id, cfg := range defaults {
		copied[id] = cfg
	}
	return &Registry{defaults: copied}
}

// Generator returns a ready-to-use backend for the given identifier.
func (r *Registry) Generator(ctx context.Context, id model.Provider, credential string) (Generator, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("unknown provider %q", id)
	}

	cfg := r.defaults[id]
	if credential != "" {
		cfg.APIKey = credential
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no credential for provider %s: %w", id, ErrAuthentication)
	}

	switch id {
	case model.ProviderAnthropic:
		return NewAnthropic(cfg), nil
	case model.ProviderOpenAI:
		return NewOpenAI(cfg), nil
	case model.ProviderGemini:
		return NewGemini(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown provider %q", id)
	}
}

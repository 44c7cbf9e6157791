package provider

import (
	"context"
	"sync"

	"github.com/tubebrief/tubebrief/internal/model"
)

// Stub is a scripted Generator for tests. Responses are consumed in
// order; when they run out the last one repeats. A non-nil Err is
// returned on every call instead.
type Stub struct {
	Responses []string
	Err       error
	Budget    int
	ID        model.Provider

	mu      sync.Mutex
	calls   int
	prompts []string
}

// Generate implements Generator.
func (s *Stub) Generate(_ context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	s.prompts = append(s.prompts, prompt)

	if s.Err != nil {
		return "", s.Err
	}
	if len(s.Responses) == 0 {
		return "", ErrEmptyResponse
	}
	i := s.calls - 1
	if i >= len(s.Responses) {
		i = len(s.Responses) - 1
	}
	return s.Responses[i], nil
}

// Name implements Generator.
func (s *Stub) Name() model.Provider {
	if s.ID == "" {
		return model.ProviderOpenAI
	}
	return s.ID
}

// ContextBudget implements Generator.
func (s *Stub) ContextBudget() int {
	if s.Budget == 0 {
		return 96_000
	}
	return s.Budget
}

// Calls returns how many times Generate was invoked.
func (s *Stub) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Prompts returns a copy of every prompt received, in call order.
func (s *Stub) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.prompts))
	copy(out, s.prompts)
	return out
}

// StubFactory implements Factory returning a fixed generator or error.
type StubFactory struct {
	Gen Generator
	Err error
}

// Generator implements Factory.
func (f *StubFactory) Generator(context.Context, model.Provider, string) (Generator, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Gen, nil
}

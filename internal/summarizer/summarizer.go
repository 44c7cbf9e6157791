// Package summarizer turns a transcript into the requested summary. Short
// transcripts go through a single generation call; long ones are chunked,
// condensed per chunk (concurrently, reassembled in order) and synthesized
// in a final pass. It also produces the cross-video meta-analysis for
// playlists.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"github.com/tubebrief/tubebrief/internal/chunker"
	"github.com/tubebrief/tubebrief/internal/model"
	"github.com/tubebrief/tubebrief/internal/provider"
)

var (
	// ErrGenerationFailed is the terminal error after every provider
	// attempt for a request has failed. The last provider error is
	// wrapped, so errors.Is still distinguishes remediation classes.
	ErrGenerationFailed = errors.New("summary generation failed")

	// ErrInvalidRequest marks a request using an unrecognized language,
	// mode or provider. Detected before any remote call.
	ErrInvalidRequest = errors.New("invalid summary request")
)

const (
	// promptOverheadTokens is reserved out of the provider budget for the
	// template text and generation headroom.
	promptOverheadTokens = 1000

	// truncationToleranceBytes: outputs shorter than this are accepted
	// as-is: a two-line summary without terminal punctuation is far more
	// likely a terse answer than a cut-off one.
	truncationToleranceBytes = 200

	// metaItemTokens bounds each per-video summary inside the synthesis
	// prompt.
	metaItemTokens = 2000

	defaultChunkConcurrency = 4
)

// Generator produces summaries through a provider factory.
type Generator struct {
	providers        provider.Factory
	chunkConcurrency int
}

// New creates a Generator.
func New(providers provider.Factory) *Generator {
	return &Generator{
		providers:        providers,
		chunkConcurrency: defaultChunkConcurrency,
	}
}

// Generate produces the summary for one video. It never returns an empty
// string together with a nil error; total provider failure surfaces as
// ErrGenerationFailed.
func (g *Generator) Generate(ctx context.Context, req model.SummaryRequest) (string, error) {
	if err := validate(req); err != nil {
		return "", err
	}

	gen, err := g.providers.Generator(ctx, req.Provider, req.Credential)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	defer closeGenerator(gen)

	inputBudget := gen.ContextBudget() - promptOverheadTokens

	if chunker.Fits(req.Transcript, inputBudget) {
		prompt := renderSummaryPrompt(req, req.Transcript, false)
		return g.generateChecked(ctx, gen, prompt, req.Language)
	}

	chunks := chunker.Split(req.Transcript, inputBudget)
	slog.Info("transcript exceeds context budget, condensing",
		"chunks", len(chunks), "provider", gen.Name())

	condensed, err := g.condenseAll(ctx, gen, chunks, req.Language)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	prompt := renderSummaryPrompt(req, strings.Join(condensed, "\n\n"), true)
	return g.generateChecked(ctx, gen, prompt, req.Language)
}

func validate(req model.SummaryRequest) error {
	if strings.TrimSpace(req.Transcript) == "" {
		return fmt.Errorf("%w: empty transcript", ErrInvalidRequest)
	}
	if !req.Language.Valid() {
		return fmt.Errorf("%w: unknown language %q", ErrInvalidRequest, req.Language)
	}
	if !req.Mode.Valid() {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidRequest, req.Mode)
	}
	if !req.Provider.Valid() {
		return fmt.Errorf("%w: unknown provider %q", ErrInvalidRequest, req.Provider)
	}
	return nil
}

// condenseAll runs the per-chunk condensation calls with bounded
// concurrency. Each worker writes only its own indexed slot; results are
// reassembled in chunk order regardless of completion order.
func (g *Generator) condenseAll(ctx context.Context, gen provider.Generator, chunks []model.Chunk, lang model.Language) ([]string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]string, len(chunks))
	errs := make([]error, len(chunks))
	sem := make(chan struct{}, g.chunkConcurrency)

	var wg sync.WaitGroup
	for _, chunk := range chunks {
		wg.Add(1)
		go func(c model.Chunk) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				errs[c.Index] = err
				return
			}

			prompt := renderCondensePrompt(lang, c.Index+1, len(chunks), c.Text)
			out, err := gen.Generate(ctx, prompt)
			if err != nil {
				errs[c.Index] = err
				cancel()
				return
			}
			out = strings.TrimSpace(out)
			if out == "" {
				errs[c.Index] = provider.ErrEmptyResponse
				cancel()
				return
			}
			results[c.Index] = out
		}(chunk)
	}
	wg.Wait()

	// Prefer reporting the error that triggered cancellation over the
	// context errors of the workers it cancelled.
	var first error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if !errors.Is(err, context.Canceled) {
			return nil, err
		}
		if first == nil {
			first = err
		}
	}
	if first != nil {
		return nil, first
	}
	return results, nil
}

// generateChecked runs one generation call plus the post-processing pass:
// trim, non-empty check, and a single retry when the output looks cut
// off. A retry that fails the check again (or errors) falls back to the
// first result, best effort.
func (g *Generator) generateChecked(ctx context.Context, gen provider.Generator, prompt string, lang model.Language) (string, error) {
	out, err := gen.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, provider.ErrEmptyResponse)
	}

	if !looksTruncated(out) {
		return out, nil
	}

	slog.Debug("summary looks truncated, retrying once")
	retry, err := gen.Generate(ctx, prompt+continuationNotes[lang])
	if err != nil {
		return out, nil
	}
	retry = strings.TrimSpace(retry)
	if retry == "" || looksTruncated(retry) {
		return out, nil
	}
	return retry, nil
}

// looksTruncated reports whether a summary appears to stop mid-sentence.
func looksTruncated(s string) bool {
	if len(s) < truncationToleranceBytes {
		return false
	}

	trimmed := strings.TrimRight(s, " \t\n*_`\"'”»)]")
	if trimmed == "" {
		return true
	}
	runes := []rune(trimmed)
	switch runes[len(runes)-1] {
	case '.', '!', '?', '…', ':':
		return false
	}

	// A final heading or list item line is formatting, not truncation.
	lines := strings.Split(trimmed, "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	if strings.HasPrefix(last, "#") {
		return false
	}
	if strings.HasPrefix(last, "- ") || strings.HasPrefix(last, "* ") || numberedItem.MatchString(last) {
		return false
	}
	return true
}

var numberedItem = regexp.MustCompile(`^\d+[.)] `)

func closeGenerator(gen provider.Generator) {
	if closer, ok := gen.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
}

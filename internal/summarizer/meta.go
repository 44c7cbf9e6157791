package summarizer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tubebrief/tubebrief/internal/chunker"
	"github.com/tubebrief/tubebrief/internal/model"
)

// VideoSummary pairs one video's title with its generated summary, in
// playlist order.
type VideoSummary struct {
	Title   string
	Summary string
}

// MetaRequest carries one meta-analysis request over a playlist's
// per-video summaries.
type MetaRequest struct {
	Videos     []VideoSummary
	Language   model.Language
	Mode       model.Mode
	Provider   model.Provider
	Credential string
}

// MetaAnalysis synthesizes the per-video summaries of a playlist into one
// cross-video document. A single-video playlist returns that summary
// unchanged, with no provider call.
func (g *Generator) MetaAnalysis(ctx context.Context, req MetaRequest) (string, error) {
	switch {
	case len(req.Videos) == 0:
		return "", fmt.Errorf("%w: no summaries to synthesize", ErrInvalidRequest)
	case !req.Language.Valid():
		return "", fmt.Errorf("%w: unknown language %q", ErrInvalidRequest, req.Language)
	case !req.Mode.Valid():
		return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidRequest, req.Mode)
	case !req.Provider.Valid():
		return "", fmt.Errorf("%w: unknown provider %q", ErrInvalidRequest, req.Provider)
	}

	if len(req.Videos) == 1 {
		return req.Videos[0].Summary, nil
	}

	gen, err := g.providers.Generator(ctx, req.Provider, req.Credential)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	defer closeGenerator(gen)

	prompt := strings.NewReplacer(
		"{count}", strconv.Itoa(len(req.Videos)),
		"{items}", renderMetaItems(req.Videos),
	).Replace(metaTemplates[req.Language])

	return g.generateChecked(ctx, gen, prompt, req.Language)
}

func renderMetaItems(videos []VideoSummary) string {
	var sb strings.Builder
	for i, v := range videos {
		fmt.Fprintf(&sb, "--- Video %d: %s ---\n", i+1, v.Title)
		sb.WriteString(chunker.Excerpt(v.Summary, metaItemTokens))
		sb.WriteString("\n\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

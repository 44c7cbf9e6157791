// Package classifier decides the content category of a video. A
// deterministic keyword stage runs first; only when its confidence falls
// below the threshold does a provider-assisted stage run, and its result
// then supersedes the keyword candidate. Classification never fails: any
// provider trouble degrades to the default category so the pipeline can
// proceed.
package classifier

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/tubebrief/tubebrief/internal/chunker"
	"github.com/tubebrief/tubebrief/internal/model"
	"github.com/tubebrief/tubebrief/internal/provider"
)

const (
	// Threshold below which the provider-assisted stage runs.
	Threshold = 0.6

	// excerptTokens bounds the transcript excerpt sent for classification
	// (~1500 characters).
	excerptTokens = 375

	// llmConfidence is assigned to a valid provider-produced label. The
	// model sees content the keyword lists cannot, but its answer is a
	// single unverified word.
	llmConfidence = 0.85

	// transcriptScanBytes bounds how much transcript the keyword stage
	// scans. Openings are where creators state what the video is.
	transcriptScanBytes = 4000

	maxHitsPerKeyword = 3
)

// Input carries one classification request.
type Input struct {
	Transcript string
	Title      string
	Channel    string
	Provider   model.Provider
	Credential string
}

// Classifier runs the two-stage category detection.
type Classifier struct {
	providers provider.Factory
}

// New creates a Classifier.
func New(providers provider.Factory) *Classifier {
	return &Classifier{providers: providers}
}

// Classify determines the category for the given video content. It
// always returns a usable result; Method records which stage decided.
func (c *Classifier) Classify(ctx context.Context, in Input) model.ClassificationResult {
	candidate, confidence := heuristic(in.Transcript, in.Title, in.Channel)
	if confidence >= Threshold {
		return model.ClassificationResult{
			Category:   candidate,
			Confidence: confidence,
			Method:     model.MethodHeuristic,
		}
	}

	label, err := c.askProvider(ctx, in)
	if err != nil {
		slog.Warn("classification provider call failed, using default category", "error", err)
		return model.ClassificationResult{
			Category:   model.CategoryDefault,
			Confidence: 0,
			Method:     model.MethodFallbackOnError,
		}
	}

	category, ok := parseLabel(label)
	if !ok {
		slog.Warn("unparseable classification label, using default category", "label", truncateLabel(label))
		return model.ClassificationResult{
			Category:   model.CategoryDefault,
			Confidence: 0,
			Method:     model.MethodFallback,
		}
	}

	method := model.MethodLLM
	if category != candidate {
		method = model.MethodLLMOverride
	}
	return model.ClassificationResult{
		Category:   category,
		Confidence: llmConfidence,
		Method:     method,
	}
}

// heuristic scores keyword hits per category. Confidence combines the
// winning category's share of all hits with a saturation on absolute
// match strength, so one stray keyword never looks certain.
func heuristic(transcript, title, channel string) (model.Category, float64) {
	title = strings.ToLower(title)
	channel = strings.ToLower(channel)
	excerpt := transcript
	if len(excerpt) > transcriptScanBytes {
		cut := transcriptScanBytes
		for cut > 0 && !utf8.RuneStart(excerpt[cut]) {
			cut--
		}
		excerpt = excerpt[:cut]
	}
	excerpt = strings.ToLower(excerpt)

	best := model.CategoryDefault
	bestScore := 0
	total := 0
	for _, cat := range model.Categories {
		score := 0
		for _, kw := range categoryKeywords[cat] {
			score += 3 * cappedCount(title, kw)
			score += 2 * cappedCount(channel, kw)
			score += cappedCount(excerpt, kw)
		}
		total += score
		if score > bestScore {
			best = cat
			bestScore = score
		}
	}

	if total == 0 {
		return model.CategoryDefault, 0
	}

	share := float64(bestScore) / float64(total)
	strength := float64(bestScore) / 10
	if strength > 1 {
		strength = 1
	}
	return best, share * strength
}

func cappedCount(haystack, needle string) int {
	n := strings.Count(haystack, needle)
	if n > maxHitsPerKeyword {
		return maxHitsPerKeyword
	}
	return n
}

func (c *Classifier) askProvider(ctx context.Context, in Input) (string, error) {
	gen, err := c.providers.Generator(ctx, in.Provider, in.Credential)
	if err != nil {
		return "", err
	}
	defer closeGenerator(gen)

	prompt := buildClassificationPrompt(in)
	return gen.Generate(ctx, prompt)
}

func buildClassificationPrompt(in Input) string {
	var sb strings.Builder
	sb.WriteString("Classify this YouTube video into exactly one category.\n\n")
	sb.WriteString("Categories: ")
	for i, cat := range model.Categories {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(string(cat))
	}
	sb.WriteString("\n\nTitle: ")
	sb.WriteString(in.Title)
	sb.WriteString("\nChannel: ")
	sb.WriteString(in.Channel)
	sb.WriteString("\n\nTranscript excerpt:\n")
	sb.WriteString(chunker.Excerpt(in.Transcript, excerptTokens))
	sb.WriteString("\n\nAnswer with one word, the category identifier, nothing else.")
	return sb.String()
}

// parseLabel maps a model response back onto the category enumeration: an
// exact match after trimming, otherwise the first category name appearing
// anywhere in the response.
func parseLabel(label string) (model.Category, bool) {
	cleaned := strings.ToLower(strings.TrimSpace(label))
	cleaned = strings.Trim(cleaned, `"'.`)

	if cat, ok := model.ParseCategory(cleaned); ok {
		return cat, true
	}
	for _, cat := range model.Categories {
		if strings.Contains(cleaned, string(cat)) {
			return cat, true
		}
	}
	return model.CategoryDefault, false
}

func truncateLabel(label string) string {
	if len(label) > 80 {
		return label[:80] + "..."
	}
	return label
}

func closeGenerator(gen provider.Generator) {
	if closer, ok := gen.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
}

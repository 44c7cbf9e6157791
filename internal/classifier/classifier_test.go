package classifier

import (
	"context"
	"strings"
	"testing"

	"github.com/tubebrief/tubebrief/internal/model"
	"github.com/tubebrief/tubebrief/internal/provider"
)

func TestClassifyConfidentHeuristicSkipsProvider(t *testing.T) {
	t.Parallel()

	stub := &provider.Stub{Responses: []string{"entertainment"}}
	c := New(&provider.StubFactory{Gen: stub})

	in := Input{
		Title:      "Tutorial: How To Install and Setup - Step By Step Guide for Beginners",
		Channel:    "DevTutorials",
		Transcript: "We start by installing the tool, then configure it step by step.",
		Provider:   model.ProviderOpenAI,
	}

	got := c.Classify(context.Background(), in)

	if got.Category != model.CategoryTutorial {
		t.Fatalf("category = %q, want %q", got.Category, model.CategoryTutorial)
	}
	if got.Method != model.MethodHeuristic {
		t.Fatalf("method = %q, want %q", got.Method, model.MethodHeuristic)
	}
	if got.Confidence < Threshold {
		t.Fatalf("confidence = %v, want at least %v", got.Confidence, Threshold)
	}
	if stub.Calls() != 0 {
		t.Fatalf("provider calls = %d, want 0", stub.Calls())
	}

	// Same input, same result.
	again := c.Classify(context.Background(), in)
	if again != got {
		t.Fatalf("repeated classification differs: %+v vs %+v", again, got)
	}
}

func TestClassifyScanWindowRuneAligned(t *testing.T) {
	t.Parallel()

	// The keyword scan reads only the opening of the transcript. Pad the
	// opening with multi-byte text placed so the scan boundary would land
	// inside a rune, and put competing keywords past it: they must not
	// count, and the boundary cut must stay rune-clean.
	head := "tutoriel guide installer configurer étape par étape."
	if (transcriptScanBytes-len(head))%2 == 0 {
		head += " "
	}
	transcript := head + strings.Repeat("é", 3000) + " review unboxing verdict avis comparatif rating"

	stub := &provider.Stub{Responses: []string{"review"}}
	c := New(&provider.StubFactory{Gen: stub})

	got := c.Classify(context.Background(), Input{
		Title:      "Tutoriel complet : guide d'installation",
		Channel:    "Apprendre à coder",
		Transcript: transcript,
		Provider:   model.ProviderOpenAI,
	})

	if got.Category != model.CategoryTutorial {
		t.Fatalf("category = %q, want %q", got.Category, model.CategoryTutorial)
	}
	if got.Method != model.MethodHeuristic {
		t.Fatalf("method = %q, want %q", got.Method, model.MethodHeuristic)
	}
	if stub.Calls() != 0 {
		t.Fatalf("provider calls = %d, want 0", stub.Calls())
	}
}

func TestClassifyLowConfidenceAsksProviderOnce(t *testing.T) {
	t.Parallel()

	stub := &provider.Stub{Responses: []string{"lecture"}}
	c := New(&provider.StubFactory{Gen: stub})

	got := c.Classify(context.Background(), Input{
		Title:      "Thoughts on the matter",
		Channel:    "Some Channel",
		Transcript: "Today we talk about several topics without a clear signal.",
		Provider:   model.ProviderAnthropic,
	})

	if stub.Calls() != 1 {
		t.Fatalf("provider calls = %d, want 1", stub.Calls())
	}
	if got.Category != model.CategoryLecture {
		t.Fatalf("category = %q, want %q", got.Category, model.CategoryLecture)
	}
	if got.Method != model.MethodLLMOverride {
		t.Fatalf("method = %q, want %q", got.Method, model.MethodLLMOverride)
	}
	if got.Confidence <= 0 || got.Confidence >= 1 {
		t.Fatalf("confidence = %v, want inside (0, 1)", got.Confidence)
	}
}

func TestClassifyProviderAgreesWithCandidate(t *testing.T) {
	t.Parallel()

	stub := &provider.Stub{Responses: []string{"tutorial"}}
	c := New(&provider.StubFactory{Gen: stub})

	// One weak transcript hit: candidate is tutorial but far below the
	// threshold.
	got := c.Classify(context.Background(), Input{
		Title:      "Untitled upload",
		Transcript: "Here is a quick guide before we get going.",
		Provider:   model.ProviderOpenAI,
	})

	if stub.Calls() != 1 {
		t.Fatalf("provider calls = %d, want 1", stub.Calls())
	}
	if got.Method != model.MethodLLM {
		t.Fatalf("method = %q, want %q", got.Method, model.MethodLLM)
	}
	if got.Category != model.CategoryTutorial {
		t.Fatalf("category = %q, want %q", got.Category, model.CategoryTutorial)
	}
}

func TestClassifyUnparseableLabelFallsBack(t *testing.T) {
	t.Parallel()

	stub := &provider.Stub{Responses: []string{"I think this video is about cooking pasta."}}
	c := New(&provider.StubFactory{Gen: stub})

	got := c.Classify(context.Background(), Input{
		Title:      "Untitled",
		Transcript: "Nothing categorical in here at all.",
		Provider:   model.ProviderGemini,
	})

	if got.Category != model.CategoryDefault {
		t.Fatalf("category = %q, want %q", got.Category, model.CategoryDefault)
	}
	if got.Confidence != 0 {
		t.Fatalf("confidence = %v, want 0", got.Confidence)
	}
	if got.Method != model.MethodFallback {
		t.Fatalf("method = %q, want %q", got.Method, model.MethodFallback)
	}
}

func TestClassifyProviderErrorFallsBack(t *testing.T) {
	t.Parallel()

	stub := &provider.Stub{Err: provider.ErrRateLimited}
	c := New(&provider.StubFactory{Gen: stub})

	got := c.Classify(context.Background(), Input{
		Title:      "Untitled",
		Transcript: "Nothing categorical in here at all.",
		Provider:   model.ProviderOpenAI,
	})

	if got.Category != model.CategoryDefault {
		t.Fatalf("category = %q, want %q", got.Category, model.CategoryDefault)
	}
	if got.Confidence != 0 {
		t.Fatalf("confidence = %v, want 0", got.Confidence)
	}
	if got.Method != model.MethodFallbackOnError {
		t.Fatalf("method = %q, want %q", got.Method, model.MethodFallbackOnError)
	}
}

func TestClassifyFactoryErrorFallsBack(t *testing.T) {
	t.Parallel()

	c := New(&provider.StubFactory{Err: provider.ErrAuthentication})

	got := c.Classify(context.Background(), Input{
		Title:      "Untitled",
		Transcript: "Nothing categorical in here at all.",
		Provider:   model.ProviderAnthropic,
	})

	if got.Method != model.MethodFallbackOnError {
		t.Fatalf("method = %q, want %q", got.Method, model.MethodFallbackOnError)
	}
	if got.Category != model.CategoryDefault {
		t.Fatalf("category = %q, want %q", got.Category, model.CategoryDefault)
	}
}

func TestParseLabel(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  model.Category
		ok    bool
	}{
		{name: "exact", label: "review", want: model.CategoryReview, ok: true},
		{name: "padded and quoted", label: `  "News" `, want: model.CategoryNews, ok: true},
		{name: "embedded in a sentence", label: "The category is review.", want: model.CategoryReview, ok: true},
		{name: "trailing period", label: "lecture.", want: model.CategoryLecture, ok: true},
		{name: "unknown word", label: "documentary", want: model.CategoryDefault, ok: false},
		{name: "empty", label: "", want: model.CategoryDefault, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseLabel(tt.label)
			if got != tt.want || ok != tt.ok {
				t.Errorf("parseLabel(%q) = (%q, %v), want (%q, %v)", tt.label, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestClassificationPromptListsCategoriesAndExcerpt(t *testing.T) {
	t.Parallel()

	stub := &provider.Stub{Responses: []string{"news"}}
	c := New(&provider.StubFactory{Gen: stub})

	c.Classify(context.Background(), Input{
		Title:      "Untitled",
		Transcript: "An opening statement that should appear in the prompt.",
		Provider:   model.ProviderOpenAI,
	})

	prompts := stub.Prompts()
	if len(prompts) != 1 {
		t.Fatalf("prompt count = %d, want 1", len(prompts))
	}
	for _, cat := range model.Categories {
		if !strings.Contains(prompts[0], string(cat)) {
			t.Errorf("prompt does not mention category %q", cat)
		}
	}
	if !strings.Contains(prompts[0], "An opening statement") {
		t.Error("prompt does not contain the transcript excerpt")
	}
}

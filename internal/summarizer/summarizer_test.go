package summarizer

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/tubebrief/tubebrief/internal/chunker"
	"github.com/tubebrief/tubebrief/internal/model"
	"github.com/tubebrief/tubebrief/internal/provider"
)

func validRequest(transcript string) model.SummaryRequest {
	return model.SummaryRequest{
		Transcript:    transcript,
		Title:         "How the thing works",
		Category:      model.CategoryDefault,
		Language:      model.LanguageEnglish,
		Mode:          model.ModeAccessible,
		Provider:      model.ProviderOpenAI,
		DurationLabel: "12m 30s",
	}
}

func TestGenerateShortTranscriptSingleCall(t *testing.T) {
	t.Parallel()

	stub := &provider.Stub{Responses: []string{"SUMMARY_OK"}}
	g := New(&provider.StubFactory{Gen: stub})

	got, err := g.Generate(context.Background(), validRequest("A short transcript about one topic."))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "SUMMARY_OK" {
		t.Fatalf("summary = %q, want %q", got, "SUMMARY_OK")
	}
	if stub.Calls() != 1 {
		t.Fatalf("provider calls = %d, want 1", stub.Calls())
	}
}

func TestGenerateLongTranscriptMapReduceCallAccounting(t *testing.T) {
	t.Parallel()

	budget := promptOverheadTokens + 100
	stub := &provider.Stub{Responses: []string{"Condensed facts from the section."}, Budget: budget}
	g := New(&provider.StubFactory{Gen: stub})

	transcript := strings.Repeat("One more sentence full of detail for the transcript. ", 50)
	wantChunks := len(chunker.Split(transcript, budget-promptOverheadTokens))
	if wantChunks < 2 {
		t.Fatalf("fixture produces %d chunks, want at least 2", wantChunks)
	}

	got, err := g.Generate(context.Background(), validRequest(transcript))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got == "" {
		t.Fatal("summary is empty")
	}
	if stub.Calls() != wantChunks+1 {
		t.Fatalf("provider calls = %d, want %d (one per chunk plus synthesis)", stub.Calls(), wantChunks+1)
	}

	// The synthesis prompt carries every condensation, in order.
	prompts := stub.Prompts()
	final := prompts[len(prompts)-1]
	if !strings.Contains(final, "Condensed facts from the section.") {
		t.Fatal("synthesis prompt does not contain the condensations")
	}
	if strings.Contains(final, "{transcript}") {
		t.Fatal("synthesis prompt still contains an unfilled placeholder")
	}
}

// sectionEcho is a Generator that answers each condensation call with a
// marker naming the chunk index it was asked for, so the synthesis prompt
// reveals the order the results were reassembled in.
type sectionEcho struct {
	budget int

	mu      sync.Mutex
	prompts []string
}

var condensePartMarker = regexp.MustCompile(`part (\d+) of (\d+)`)

func (e *sectionEcho) Generate(_ context.Context, prompt string) (string, error) {
	e.mu.Lock()
	e.prompts = append(e.prompts, prompt)
	e.mu.Unlock()

	if m := condensePartMarker.FindStringSubmatch(prompt); m != nil {
		return "SECTION " + m[1] + " END.", nil
	}
	return "The final synthesis.", nil
}

func (e *sectionEcho) Name() model.Provider { return model.ProviderOpenAI }
func (e *sectionEcho) ContextBudget() int   { return e.budget }

func (e *sectionEcho) synthesisPrompt() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, p := range e.prompts {
		if strings.Contains(p, "SECTION 1 END.") {
			return p, true
		}
	}
	return "", false
}

func TestGenerateCondensationsReassembledInOrder(t *testing.T) {
	t.Parallel()

	// A tight budget forces many chunks, condensed 4 at a time; the
	// synthesis input must still list them in chunk order.
	echo := &sectionEcho{budget: promptOverheadTokens + 50}
	g := New(&provider.StubFactory{Gen: echo})

	transcript := strings.Repeat("One more sentence full of detail for the transcript. ", 120)
	wantChunks := len(chunker.Split(transcript, 50))
	if wantChunks < 10 {
		t.Fatalf("fixture produces %d chunks, want at least 10", wantChunks)
	}

	if _, err := g.Generate(context.Background(), validRequest(transcript)); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	final, ok := echo.synthesisPrompt()
	if !ok {
		t.Fatal("no synthesis prompt carrying the condensations was sent")
	}

	markers := condenseSectionMarker.FindAllStringSubmatch(final, -1)
	if len(markers) != wantChunks {
		t.Fatalf("synthesis prompt carries %d section markers, want %d", len(markers), wantChunks)
	}
	for i, m := range markers {
		got, err := strconv.Atoi(m[1])
		if err != nil {
			t.Fatalf("marker %d: %v", i, err)
		}
		if got != i+1 {
			t.Fatalf("marker at position %d is section %d, want %d", i, got, i+1)
		}
	}
}

var condenseSectionMarker = regexp.MustCompile(`SECTION (\d+) END\.`)

func TestGenerateTruncatedOutputRetriesOnce(t *testing.T) {
	t.Parallel()

	truncated := strings.Repeat("The speaker keeps developing the argument and ", 6) + "then the text stops abruptly without"
	stub := &provider.Stub{Responses: []string{truncated, "The complete summary."}}
	g := New(&provider.StubFactory{Gen: stub})

	got, err := g.Generate(context.Background(), validRequest("A short transcript."))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "The complete summary." {
		t.Fatalf("summary = %q, want the retry result", got)
	}
	if stub.Calls() != 2 {
		t.Fatalf("provider calls = %d, want 2", stub.Calls())
	}

	prompts := stub.Prompts()
	if !strings.Contains(prompts[1], "cut off") {
		t.Fatal("retry prompt does not carry the continuation note")
	}
}

func TestGenerateRetryStillTruncatedKeepsFirstResult(t *testing.T) {
	t.Parallel()

	truncated := strings.Repeat("An unfinished train of thought that never quite lands and ", 5) + "so it trails"
	stub := &provider.Stub{Responses: []string{truncated, truncated}}
	g := New(&provider.StubFactory{Gen: stub})

	got, err := g.Generate(context.Background(), validRequest("A short transcript."))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != truncated {
		t.Fatalf("summary = %q, want the first result kept best effort", got)
	}
	if stub.Calls() != 2 {
		t.Fatalf("provider calls = %d, want 2 (exactly one retry)", stub.Calls())
	}
}

func TestGenerateShortOutputNeverTreatedAsTruncated(t *testing.T) {
	t.Parallel()

	stub := &provider.Stub{Responses: []string{"Terse answer without punctuation"}}
	g := New(&provider.StubFactory{Gen: stub})

	got, err := g.Generate(context.Background(), validRequest("A short transcript."))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "Terse answer without punctuation" {
		t.Fatalf("summary = %q", got)
	}
	if stub.Calls() != 1 {
		t.Fatalf("provider calls = %d, want 1 (no retry for short outputs)", stub.Calls())
	}
}

func TestGenerateProviderErrorWrapsBothSentinels(t *testing.T) {
	t.Parallel()

	stub := &provider.Stub{Err: provider.ErrAuthentication}
	g := New(&provider.StubFactory{Gen: stub})

	_, err := g.Generate(context.Background(), validRequest("A short transcript."))
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("error %v does not wrap ErrGenerationFailed", err)
	}
	if !errors.Is(err, provider.ErrAuthentication) {
		t.Fatalf("error %v does not wrap the provider error", err)
	}
	if stub.Calls() != 1 {
		t.Fatalf("provider calls = %d, want 1 (no retry on provider error)", stub.Calls())
	}
}

func TestGenerateEmptyResponseFails(t *testing.T) {
	t.Parallel()

	stub := &provider.Stub{Responses: []string{"   \n"}}
	g := New(&provider.StubFactory{Gen: stub})

	_, err := g.Generate(context.Background(), validRequest("A short transcript."))
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("error = %v, want ErrGenerationFailed", err)
	}
	if !errors.Is(err, provider.ErrEmptyResponse) {
		t.Fatalf("error = %v, want it to wrap ErrEmptyResponse", err)
	}
}

func TestGenerateChunkFailurePropagates(t *testing.T) {
	t.Parallel()

	budget := promptOverheadTokens + 100
	stub := &provider.Stub{Err: provider.ErrRateLimited, Budget: budget}
	g := New(&provider.StubFactory{Gen: stub})

	transcript := strings.Repeat("One more sentence full of detail for the transcript. ", 50)
	_, err := g.Generate(context.Background(), validRequest(transcript))
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("error = %v, want ErrGenerationFailed", err)
	}
	if !errors.Is(err, provider.ErrRateLimited) {
		t.Fatalf("error = %v, want it to wrap the chunk error", err)
	}
}

func TestGenerateFactoryErrorFails(t *testing.T) {
	t.Parallel()

	g := New(&provider.StubFactory{Err: provider.ErrAuthentication})

	_, err := g.Generate(context.Background(), validRequest("A short transcript."))
	if !errors.Is(err, ErrGenerationFailed) || !errors.Is(err, provider.ErrAuthentication) {
		t.Fatalf("error = %v, want ErrGenerationFailed wrapping ErrAuthentication", err)
	}
}

func TestGenerateValidatesRequest(t *testing.T) {
	stub := &provider.Stub{Responses: []string{"never used"}}
	g := New(&provider.StubFactory{Gen: stub})

	tests := []struct {
		name   string
		mutate func(*model.SummaryRequest)
	}{
		{name: "empty transcript", mutate: func(r *model.SummaryRequest) { r.Transcript = "  " }},
		{name: "unknown language", mutate: func(r *model.SummaryRequest) { r.Language = "de" }},
		{name: "unknown mode", mutate: func(r *model.SummaryRequest) { r.Mode = "verbose" }},
		{name: "unknown provider", mutate: func(r *model.SummaryRequest) { r.Provider = "mistral" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest("A transcript.")
			tt.mutate(&req)

			_, err := g.Generate(context.Background(), req)
			if !errors.Is(err, ErrInvalidRequest) {
				t.Fatalf("error = %v, want ErrInvalidRequest", err)
			}
		})
	}

	if stub.Calls() != 0 {
		t.Fatalf("provider calls = %d, want 0 for invalid requests", stub.Calls())
	}
}

func TestLooksTruncated(t *testing.T) {
	long := strings.Repeat("Filler prose to move the text past the tolerance cutoff. ", 5)

	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "short text is fine", text: "Brief", want: false},
		{name: "terminal period", text: long + "It ends properly.", want: false},
		{name: "terminal question mark", text: long + "Does it end properly?", want: false},
		{name: "trailing emphasis marker", text: long + "It ends properly.**", want: false},
		{name: "cut mid-sentence", text: long + "and then it", want: true},
		{name: "final heading line", text: long + "It ends properly.\n## Key points", want: false},
		{name: "final bullet line", text: long + "It ends properly.\n- final takeaway", want: false},
		{name: "final starred bullet", text: long + "It ends properly.\n* final takeaway", want: false},
		{name: "final numbered item", text: long + "The steps follow.\n3. deploy the service", want: false},
		{name: "final paren-numbered item", text: long + "The steps follow.\n3) deploy the service", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := looksTruncated(tt.text); got != tt.want {
				t.Errorf("looksTruncated(...%q) = %v, want %v", tail(tt.text), got, tt.want)
			}
		})
	}
}

func tail(s string) string {
	if len(s) > 25 {
		return s[len(s)-25:]
	}
	return s
}

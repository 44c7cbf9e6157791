package summarizer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tubebrief/tubebrief/internal/model"
	"github.com/tubebrief/tubebrief/internal/provider"
)

func metaRequest(videos ...VideoSummary) MetaRequest {
	return MetaRequest{
		Videos:   videos,
		Language: model.LanguageEnglish,
		Mode:     model.ModeAccessible,
		Provider: model.ProviderAnthropic,
	}
}

func TestMetaAnalysisEmptyPlaylistRejected(t *testing.T) {
	t.Parallel()

	g := New(&provider.StubFactory{Gen: &provider.Stub{}})

	_, err := g.MetaAnalysis(context.Background(), metaRequest())
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("error = %v, want ErrInvalidRequest", err)
	}
}

func TestMetaAnalysisValidatesRequest(t *testing.T) {
	stub := &provider.Stub{Responses: []string{"never used"}}
	g := New(&provider.StubFactory{Gen: stub})
	videos := []VideoSummary{{Title: "A", Summary: "a"}, {Title: "B", Summary: "b"}}

	tests := []struct {
		name   string
		mutate func(*MetaRequest)
	}{
		{name: "unknown language", mutate: func(r *MetaRequest) { r.Language = "de" }},
		{name: "unknown mode", mutate: func(r *MetaRequest) { r.Mode = "verbose" }},
		{name: "unknown provider", mutate: func(r *MetaRequest) { r.Provider = "mistral" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := metaRequest(videos...)
			tt.mutate(&req)

			_, err := g.MetaAnalysis(context.Background(), req)
			if !errors.Is(err, ErrInvalidRequest) {
				t.Fatalf("error = %v, want ErrInvalidRequest", err)
			}
		})
	}

	if stub.Calls() != 0 {
		t.Fatalf("provider calls = %d, want 0 for invalid requests", stub.Calls())
	}
}

func TestMetaAnalysisSingleVideoPassesThrough(t *testing.T) {
	t.Parallel()

	stub := &provider.Stub{Responses: []string{"should never be used"}}
	g := New(&provider.StubFactory{Gen: stub})

	got, err := g.MetaAnalysis(context.Background(), metaRequest(
		VideoSummary{Title: "Only video", Summary: "Its summary."},
	))
	if err != nil {
		t.Fatalf("MetaAnalysis: %v", err)
	}
	if got != "Its summary." {
		t.Fatalf("meta = %q, want the single summary unchanged", got)
	}
	if stub.Calls() != 0 {
		t.Fatalf("provider calls = %d, want 0 for one video", stub.Calls())
	}
}

func TestMetaAnalysisSynthesizesAcrossVideos(t *testing.T) {
	t.Parallel()

	stub := &provider.Stub{Responses: []string{"# Playlist synthesis\n\nShared themes."}}
	g := New(&provider.StubFactory{Gen: stub})

	got, err := g.MetaAnalysis(context.Background(), metaRequest(
		VideoSummary{Title: "Part one: basics", Summary: "Covers the basics."},
		VideoSummary{Title: "Part two: practice", Summary: "Hands-on session."},
		VideoSummary{Title: "Part three: pitfalls", Summary: "What goes wrong."},
	))
	if err != nil {
		t.Fatalf("MetaAnalysis: %v", err)
	}
	if got == "" {
		t.Fatal("meta-analysis is empty")
	}
	if stub.Calls() != 1 {
		t.Fatalf("provider calls = %d, want 1", stub.Calls())
	}

	prompt := stub.Prompts()[0]
	for _, title := range []string{"Part one: basics", "Part two: practice", "Part three: pitfalls"} {
		if !strings.Contains(prompt, title) {
			t.Errorf("synthesis prompt misses title %q", title)
		}
	}
	if !strings.Contains(prompt, "3") {
		t.Error("synthesis prompt misses the video count")
	}
}

func TestMetaAnalysisProviderErrorWrapped(t *testing.T) {
	t.Parallel()

	stub := &provider.Stub{Err: provider.ErrUnavailable}
	g := New(&provider.StubFactory{Gen: stub})

	_, err := g.MetaAnalysis(context.Background(), metaRequest(
		VideoSummary{Title: "A", Summary: "a"},
		VideoSummary{Title: "B", Summary: "b"},
	))
	if !errors.Is(err, ErrGenerationFailed) || !errors.Is(err, provider.ErrUnavailable) {
		t.Fatalf("error = %v, want ErrGenerationFailed wrapping ErrUnavailable", err)
	}
}

// Package pipeline orchestrates one analysis run: fetch transcript,
// classify, summarize, and for playlists fan the per-video runs across a
// bounded worker pool before the meta-analysis join.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tubebrief/tubebrief/internal/classifier"
	"github.com/tubebrief/tubebrief/internal/format"
	"github.com/tubebrief/tubebrief/internal/model"
	"github.com/tubebrief/tubebrief/internal/summarizer"
)

const defaultPlaylistWorkers = 3

// TranscriptSource supplies raw video content and playlist listings.
type TranscriptSource interface {
	Fetch(ctx context.Context, rawURL string, lang model.Language) (*model.VideoInfo, error)
	FetchPlaylist(ctx context.Context, rawURL string) ([]string, error)
}

// Request is one analysis request, for a single video or a playlist.
// Credential is caller-owned and never logged.
type Request struct {
	URL        string
	Provider   model.Provider
	Credential string
	Language   model.Language
	Mode       model.Mode
}

// VideoReport is the complete outcome for one video.
type VideoReport struct {
	JobID          uuid.UUID                  `json:"job_id"`
	Video          model.VideoInfo            `json:"video"`
	Classification model.ClassificationResult `json:"classification"`
	CategoryName   string                     `json:"category_name"`
	Summary        string                     `json:"summary"`
	DurationLabel  string                     `json:"duration_label"`
	WordCount      int                        `json:"word_count"`
	ReadingMinutes int                        `json:"reading_minutes"`
	GeneratedAt    time.Time                  `json:"generated_at"`
}

// VideoOutcome is one playlist entry's result: either a report or an
// error message, never both.
type VideoOutcome struct {
	Index   int          `json:"index"`
	VideoID string       `json:"video_id"`
	Report  *VideoReport `json:"report,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// PlaylistReport aggregates the per-video outcomes and the cross-video
// synthesis.
type PlaylistReport struct {
	JobID        uuid.UUID      `json:"job_id"`
	Videos       []VideoOutcome `json:"videos"`
	MetaAnalysis string         `json:"meta_analysis"`
	GeneratedAt  time.Time      `json:"generated_at"`
}

// Runner wires the pipeline stages together.
type Runner struct {
	source     TranscriptSource
	classifier *classifier.Classifier
	generator  *summarizer.Generator
	workers    int
}

// New creates a Runner. workers bounds concurrent playlist videos; zero
// selects the default.
func New(source TranscriptSource, cls *classifier.Classifier, gen *summarizer.Generator, workers int) *Runner {
	if workers <= 0 {
		workers = defaultPlaylistWorkers
	}
	return &Runner{
		source:     source,
		classifier: cls,
		generator:  gen,
		workers:    workers,
	}
}

// AnalyzeVideo runs the full pipeline for one video.
func (r *Runner) AnalyzeVideo(ctx context.Context, req Request) (*VideoReport, error) {
	jobID := uuid.New()
	started := time.Now()
	slog.Info("analyzing video", "job_id", jobID, "provider", req.Provider, "mode", req.Mode, "lang", req.Language)

	info, err := r.source.Fetch(ctx, req.URL, req.Language)
	if err != nil {
		return nil, err
	}
	slog.Info("transcript fetched", "job_id", jobID, "video_id", info.VideoID, "chars", len(info.Transcript))

	cls := r.classifier.Classify(ctx, classifier.Input{
		Transcript: info.Transcript,
		Title:      info.Title,
		Channel:    info.Channel,
		Provider:   req.Provider,
		Credential: req.Credential,
	})
	slog.Info("category detected", "job_id", jobID,
		"category", cls.Category, "confidence", cls.Confidence, "method", cls.Method)

	durationLabel := format.Duration(info.DurationS, req.Language)
	summary, err := r.generator.Generate(ctx, model.SummaryRequest{
		Transcript:    info.Transcript,
		Title:         info.Title,
		Category:      cls.Category,
		Language:      req.Language,
		Mode:          req.Mode,
		Provider:      req.Provider,
		Credential:    req.Credential,
		DurationLabel: durationLabel,
	})
	if err != nil {
		return nil, err
	}

	words := format.WordCount(summary)
	slog.Info("summary generated", "job_id", jobID, "words", words, "elapsed", time.Since(started))

	return &VideoReport{
		JobID:          jobID,
		Video:          *info,
		Classification: cls,
		CategoryName:   cls.Category.DisplayName(req.Language),
		Summary:        summary,
		DurationLabel:  durationLabel,
		WordCount:      words,
		ReadingMinutes: format.ReadingMinutes(words),
		GeneratedAt:    time.Now().UTC(),
	}, nil
}

// AnalyzePlaylist runs the pipeline for every video of a playlist with a
// bounded pool, pairs results back by position, then synthesizes the
// meta-analysis over the successful summaries.
func (r *Runner) AnalyzePlaylist(ctx context.Context, req Request) (*PlaylistReport, error) {
	jobID := uuid.New()

	ids, err := r.source.FetchPlaylist(ctx, req.URL)
	if err != nil {
		return nil, err
	}
	slog.Info("analyzing playlist", "job_id", jobID, "videos", len(ids), "workers", r.workers)

	outcomes := make([]VideoOutcome, len(ids))
	jobs := make(chan int)

	workers := r.workers
	if workers > len(ids) {
		workers = len(ids)
	}

	done := make(chan struct{})
	for w := 0; w < workers; w++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for i := range jobs {
				outcomes[i] = r.runPlaylistVideo(ctx, req, i, ids[i])
			}
		}()
	}

	for i := range ids {
		jobs <- i
	}
	close(jobs)
	for w := 0; w < workers; w++ {
		<-done
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var inputs []summarizer.VideoSummary
	for _, out := range outcomes {
		if out.Report != nil {
			inputs = append(inputs, summarizer.VideoSummary{
				Title:   out.Report.Video.Title,
				Summary: out.Report.Summary,
			})
		}
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: no video in the playlist could be analyzed", summarizer.ErrGenerationFailed)
	}

	meta, err := r.generator.MetaAnalysis(ctx, summarizer.MetaRequest{
		Videos:     inputs,
		Language:   req.Language,
		Mode:       req.Mode,
		Provider:   req.Provider,
		Credential: req.Credential,
	})
	if err != nil {
		return nil, err
	}

	return &PlaylistReport{
		JobID:        jobID,
		Videos:       outcomes,
		MetaAnalysis: meta,
		GeneratedAt:  time.Now().UTC(),
	}, nil
}

func (r *Runner) runPlaylistVideo(ctx context.Context, req Request, index int, videoID string) VideoOutcome {
	outcome := VideoOutcome{Index: index, VideoID: videoID}
	if err := ctx.Err(); err != nil {
		outcome.Error = err.Error()
		return outcome
	}

	videoReq := req
	videoReq.URL = videoID
	report, err := r.AnalyzeVideo(ctx, videoReq)
	if err != nil {
		slog.Warn("playlist video failed", "video_id", videoID, "error", err)
		outcome.Error = err.Error()
		return outcome
	}
	outcome.Report = report
	return outcome
}

package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tubebrief/tubebrief/internal/model"
	"github.com/tubebrief/tubebrief/internal/pipeline"
)

// AnalyzeHandler exposes the analysis pipeline over JSON.
type AnalyzeHandler struct {
	runner *pipeline.Runner
}

// NewAnalyzeHandler creates an AnalyzeHandler.
func NewAnalyzeHandler(runner *pipeline.Runner) *AnalyzeHandler {
	return &AnalyzeHandler{runner: runner}
}

type analyzeRequest struct {
	URL      string `json:"url"`
	Provider string `json:"provider"`
	Language string `json:"language"`
	Mode     string `json:"mode"`
	// APIKey is the caller's provider credential. Optional when the
	// server has one configured. Never logged.
	APIKey string `json:"api_key"`
}

func (a analyzeRequest) toPipeline() (pipeline.Request, bool) {
	req := pipeline.Request{
		URL:        strings.TrimSpace(a.URL),
		Provider:   model.ProviderAnthropic,
		Language:   model.LanguageFrench,
		Mode:       model.ModeAccessible,
		Credential: a.APIKey,
	}
	if a.Provider != "" {
		req.Provider = model.Provider(a.Provider)
	}
	if a.Language != "" {
		req.Language = model.Language(a.Language)
	}
	if a.Mode != "" {
		req.Mode = model.Mode(a.Mode)
	}
	return req, req.URL != ""
}

// AnalyzeVideo handles POST /api/analyze.
func (h *AnalyzeHandler) AnalyzeVideo(w http.ResponseWriter, r *http.Request) {
	var body analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "invalid JSON body", Kind: "invalid_input",
		})
		return
	}

	req, ok := body.toPipeline()
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "url is required", Kind: "invalid_input",
		})
		return
	}

	report, err := h.runner.AnalyzeVideo(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// AnalyzePlaylist handles POST /api/analyze/playlist.
func (h *AnalyzeHandler) AnalyzePlaylist(w http.ResponseWriter, r *http.Request) {
	var body analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "invalid JSON body", Kind: "invalid_input",
		})
		return
	}

	req, ok := body.toPipeline()
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "url is required", Kind: "invalid_input",
		})
		return
	}

	report, err := h.runner.AnalyzePlaylist(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

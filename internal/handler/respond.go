package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tubebrief/tubebrief/internal/provider"
	"github.com/tubebrief/tubebrief/internal/summarizer"
	"github.com/tubebrief/tubebrief/internal/transcript"
	"github.com/tubebrief/tubebrief/internal/urlutil"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	Hint  string `json:"hint,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps the error taxonomy onto HTTP statuses so a client can
// tell "check your credential" from "try again shortly" from "this video
// cannot be processed" by kind alone. Remediation kinds are checked
// before the terminal aggregate, since GenerationFailed wraps the last
// provider error.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, urlutil.ErrInvalidURL):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: err.Error(), Kind: "invalid_url",
			Hint: "check the YouTube URL format",
		})
	case errors.Is(err, summarizer.ErrInvalidRequest):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: err.Error(), Kind: "invalid_input",
			Hint: "check the language, mode and provider values",
		})
	case errors.Is(err, provider.ErrAuthentication):
		writeJSON(w, http.StatusUnauthorized, errorResponse{
			Error: err.Error(), Kind: "authentication_failed",
			Hint: "check your provider API key",
		})
	case errors.Is(err, provider.ErrRateLimited):
		writeJSON(w, http.StatusTooManyRequests, errorResponse{
			Error: err.Error(), Kind: "rate_limited",
			Hint: "try again shortly",
		})
	case errors.Is(err, transcript.ErrVideoNotFound),
		errors.Is(err, transcript.ErrTranscriptUnavailable),
		errors.Is(err, transcript.ErrPlaylistUnsupported):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error: err.Error(), Kind: "video_unprocessable",
			Hint: "this video cannot be processed",
		})
	case errors.Is(err, provider.ErrUnavailable):
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Error: err.Error(), Kind: "provider_unavailable",
			Hint: "try again shortly",
		})
	case errors.Is(err, summarizer.ErrGenerationFailed):
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: err.Error(), Kind: "generation_failed",
		})
	default:
		slog.Error("unhandled error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: "internal error", Kind: "internal",
		})
	}
}

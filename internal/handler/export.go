package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/tubebrief/tubebrief/internal/export"
)

// ExportHandler turns a finished summary into downloadable documents.
type ExportHandler struct{}

// NewExportHandler creates an ExportHandler.
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

type exportRequest struct {
	Summary  string          `json:"summary"`
	Title    string          `json:"title"`
	Metadata export.Metadata `json:"metadata"`
}

// Export handles POST /api/export/{format} for md, docx and pdf.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	var body exportRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "invalid JSON body", Kind: "invalid_input",
		})
		return
	}
	if strings.TrimSpace(body.Summary) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "summary is required", Kind: "invalid_input",
		})
		return
	}
	if body.Title == "" {
		body.Title = "Video summary"
	}

	var (
		data        []byte
		contentType string
		err         error
	)
	docFormat := chi.URLParam(r, "format")
	switch docFormat {
	case "md":
		data = []byte(export.ToMarkdown(body.Summary, body.Title, body.Metadata))
		contentType = "text/markdown; charset=utf-8"
	case "docx":
		data, err = export.ToDocx(body.Summary, body.Title, body.Metadata)
		contentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case "pdf":
		data, err = export.ToPDF(body.Summary, body.Title, body.Metadata)
		contentType = "application/pdf"
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "unknown export format: " + docFormat, Kind: "invalid_input",
			Hint: "use md, docx or pdf",
		})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: err.Error(), Kind: "export_failed",
		})
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		`attachment; filename="`+export.DownloadFilename(body.Title, docFormat)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Package export renders a finished summary into downloadable documents.
// It is a pure consumer: summary text plus display metadata in, bytes
// out.
package export

import (
	"regexp"
	"strings"

	"github.com/tubebrief/tubebrief/internal/urlutil"
)

// Metadata carries the display strings attached to an exported document.
type Metadata struct {
	Category string `json:"category"`
	Duration string `json:"duration"`
	VideoID  string `json:"video_id"`
}

var (
	slugPattern     = regexp.MustCompile(`[^a-z0-9]+`)
	inlineMarkdown  = strings.NewReplacer("**", "", "__", "", "`", "")
	maxSlugLength   = 60
	defaultSlugName = "video"
)

// DownloadFilename builds a safe filename for a summary download.
func DownloadFilename(title, ext string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(title), "_")
	slug = strings.Trim(slug, "_")
	if len(slug) > maxSlugLength {
		slug = strings.Trim(slug[:maxSlugLength], "_")
	}
	if slug == "" {
		slug = defaultSlugName
	}
	return "tubebrief_" + slug + "." + ext
}

// ToMarkdown renders the summary as a standalone Markdown document with
// a metadata header.
func ToMarkdown(summary, title string, meta Metadata) string {
	var sb strings.Builder
	sb.WriteString("# ")
	sb.WriteString(title)
	sb.WriteString("\n\n")

	var fields []string
	if meta.Category != "" {
		fields = append(fields, "**"+meta.Category+"**")
	}
	if meta.Duration != "" {
		fields = append(fields, meta.Duration)
	}
	if meta.VideoID != "" {
		fields = append(fields, "["+urlutil.WatchURL(meta.VideoID)+"]("+urlutil.WatchURL(meta.VideoID)+")")
	}
	if len(fields) > 0 {
		sb.WriteString("> ")
		sb.WriteString(strings.Join(fields, " · "))
		sb.WriteString("\n\n")
	}

	sb.WriteString(strings.TrimSpace(summary))
	sb.WriteString("\n")
	return sb.String()
}

// stripInline removes emphasis markers for renderers that do their own
// styling.
func stripInline(line string) string {
	return inlineMarkdown.Replace(line)
}

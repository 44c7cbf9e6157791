package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fumiama/go-docx"
)

// ToDocx renders the summary as a Word document. Markdown headings map
// to sized bold paragraphs, list items keep a bullet prefix.
func ToDocx(summary, title string, meta Metadata) ([]byte, error) {
	doc := docx.New().WithDefaultTheme()

	doc.AddParagraph().AddText(stripInline(title)).Size("36").Bold()

	if line := metaLine(meta); line != "" {
		doc.AddParagraph().AddText(line).Size("18").Color("808080")
	}
	doc.AddParagraph()

	for _, line := range strings.Split(strings.TrimSpace(summary), "\n") {
		line = strings.TrimRight(line, " \t")
		switch {
		case line == "":
			doc.AddParagraph()
		case strings.HasPrefix(line, "### "):
			doc.AddParagraph().AddText(stripInline(strings.TrimPrefix(line, "### "))).Size("24").Bold()
		case strings.HasPrefix(line, "## "):
			doc.AddParagraph().AddText(stripInline(strings.TrimPrefix(line, "## "))).Size("28").Bold()
		case strings.HasPrefix(line, "# "):
			doc.AddParagraph().AddText(stripInline(strings.TrimPrefix(line, "# "))).Size("32").Bold()
		case strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* "):
			doc.AddParagraph().AddText("• " + stripInline(line[2:]))
		default:
			doc.AddParagraph().AddText(stripInline(line))
		}
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write docx: %w", err)
	}
	return buf.Bytes(), nil
}

func metaLine(meta Metadata) string {
	var fields []string
	if meta.Category != "" {
		fields = append(fields, meta.Category)
	}
	if meta.Duration != "" {
		fields = append(fields, meta.Duration)
	}
	if meta.VideoID != "" {
		fields = append(fields, "youtube.com/watch?v="+meta.VideoID)
	}
	return strings.Join(fields, " · ")
}

package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

// ToPDF renders the summary as a PDF. The cp1252 translator covers the
// accented characters of French output with the built-in fonts.
func ToPDF(summary, title string, meta Metadata) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(stripInline(title), true)
	pdf.SetMargins(18, 20, 18)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 8, tr(stripInline(title)), "", "L", false)

	if line := metaLine(meta); line != "" {
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(128, 128, 128)
		pdf.MultiCell(0, 5, tr(line), "", "L", false)
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(4)

	for _, line := range strings.Split(strings.TrimSpace(summary), "\n") {
		line = strings.TrimRight(line, " \t")
		switch {
		case line == "":
			pdf.Ln(3)
		case strings.HasPrefix(line, "### "):
			pdf.SetFont("Helvetica", "B", 11)
			pdf.MultiCell(0, 6, tr(stripInline(strings.TrimPrefix(line, "### "))), "", "L", false)
		case strings.HasPrefix(line, "## "):
			pdf.Ln(2)
			pdf.SetFont("Helvetica", "B", 12)
			pdf.MultiCell(0, 7, tr(stripInline(strings.TrimPrefix(line, "## "))), "", "L", false)
		case strings.HasPrefix(line, "# "):
			pdf.Ln(2)
			pdf.SetFont("Helvetica", "B", 14)
			pdf.MultiCell(0, 7, tr(stripInline(strings.TrimPrefix(line, "# "))), "", "L", false)
		case strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* "):
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr("• "+stripInline(line[2:])), "", "L", false)
		default:
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr(stripInline(line)), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

package render

import (
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/hyperifyio/readtable/internal/extract"
)

// Section is one table in a PDF export.
type Section struct {
	Index int
	Table extract.Table
}

const (
	pdfFontSize  = 8.0
	pdfRowHeight = 5.0
)

// WritePDF renders each section as a simple grid on landscape A4 pages.
// Cell text that does not fit its column is truncated with an ellipsis.
func WritePDF(path string, title string, sections []Section) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(title), false)
	pdf.SetCreator("readtable", false)

	for _, sec := range sections {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, tr(fmt.Sprintf("Table %d", sec.Index)), "", 1, "L", false, 0, "")
		if strings.TrimSpace(title) != "" {
			pdf.SetFont("Helvetica", "", 9)
			pdf.CellFormat(0, 6, tr(title), "", 1, "L", false, 0, "")
		}
		pdf.Ln(2)

		width := sec.Table.Width()
		if width == 0 {
			continue
		}
		pageW, _ := pdf.GetPageSize()
		left, _, right, _ := pdf.GetMargins()
		colW := (pageW - left - right) / float64(width)

		for i, row := range sec.Table {
			style := ""
			fill := false
			if i == 0 {
				style = "B"
				fill = true
				pdf.SetFillColor(230, 230, 230)
			}
			pdf.SetFont("Helvetica", style, pdfFontSize)
			for c := 0; c < width; c++ {
				text := ""
				if c < len(row) {
					text = fitText(pdf, tr(row[c]), colW-2)
				}
				pdf.CellFormat(colW, pdfRowHeight, text, "1", 0, "L", fill, 0, "")
			}
			pdf.Ln(-1)
		}
	}
	if len(sections) == 0 {
		pdf.AddPage()
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return pdf.OutputFileAndClose(path)
}

func fitText(pdf *gofpdf.Fpdf, s string, maxW float64) string {
	if pdf.GetStringWidth(s) <= maxW {
		return s
	}
	// s is already cp1252 so byte slicing is safe
	const ellipsis = "..."
	for len(s) > 0 && pdf.GetStringWidth(s+ellipsis) > maxW {
		s = s[:len(s)-1]
	}
	return s + ellipsis
}

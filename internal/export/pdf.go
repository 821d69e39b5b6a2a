package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/nguyentantai21042004/tube-digest/internal/summary"
)

const (
	pdfFont      = "Helvetica"
	pdfMargin    = 19.05 // 0.75in
	pdfLineH     = 5.5
	pdfBulletPad = 6.0
)

// renderPDF lays out s on Letter pages with the core Helvetica font. Text is
// translated to cp1252, which covers the bullet glyph and Western scripts.
func renderPDF(s summary.StructuredSummary, meta Meta) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle(meta.title(), true)
	pdf.SetCreator("tube-digest", true)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	heading := func(text string, size float64) {
		pdf.SetFont(pdfFont, "B", size)
		pdf.SetTextColor(0, 0, 0)
		pdf.MultiCell(0, size*0.5, tr(text), "", "L", false)
		pdf.Ln(2)
	}
	bullet := func(text string) {
		pdf.SetFont(pdfFont, "", 11)
		pdf.SetX(pdfMargin)
		pdf.CellFormat(pdfBulletPad, pdfLineH, tr("•"), "", 0, "L", false, 0, "")
		pdf.MultiCell(0, pdfLineH, tr(text), "", "L", false)
		pdf.Ln(1)
	}

	heading(meta.title(), 18)
	for _, n := range meta.Notes {
		pdf.SetFont(pdfFont, "I", 10)
		pdf.SetTextColor(160, 0, 0)
		pdf.MultiCell(0, pdfLineH, tr("Note: "+n), "", "L", false)
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(3)

	heading(headingExecutive, 14)
	for _, b := range s.ExecutiveSummary {
		bullet(b)
	}

	if len(s.KeyPoints) > 0 {
		pdf.Ln(4)
		heading(headingKeyPoints, 14)
		for _, t := range s.KeyPoints {
			heading(t.Label, 12)
			for _, p := range t.Points {
				bullet(p)
			}
			pdf.Ln(2)
		}
	}

	if len(s.NotableQuotes) > 0 {
		pdf.Ln(4)
		heading(headingQuotes, 14)
		for _, q := range s.NotableQuotes {
			bullet(q)
		}
	}

	if meta.VideoID != "" {
		pdf.Ln(8)
		pdf.SetFont(pdfFont, "I", 9)
		pdf.SetTextColor(128, 128, 128)
		pdf.MultiCell(0, 4, tr("Generated from YouTube video: "+meta.VideoID), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

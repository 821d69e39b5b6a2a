package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/nguyentantai21042004/tube-digest/internal/summary"
)

const (
	docxFont     = "Times New Roman"
	docxFontSize = 13
)

// renderDOCX builds the document and reads it back from a scratch file.
func renderDOCX(s summary.StructuredSummary, meta Meta) ([]byte, error) {
	doc, err := godocx.NewDocument()
	if err != nil {
		return nil, fmt.Errorf("create docx: %w", err)
	}

	addRun(doc.AddParagraph(""), meta.title(), true, 16)
	for _, n := range meta.Notes {
		addRun(doc.AddParagraph(""), "Note: "+n, false, 11)
	}

	addRun(doc.AddParagraph(""), headingExecutive, true, 15)
	for _, b := range s.ExecutiveSummary {
		addRun(doc.AddParagraph(""), "• "+b, false, docxFontSize)
	}

	if len(s.KeyPoints) > 0 {
		addRun(doc.AddParagraph(""), headingKeyPoints, true, 15)
		for _, t := range s.KeyPoints {
			addRun(doc.AddParagraph(""), t.Label, true, 14)
			for _, p := range t.Points {
				addRun(doc.AddParagraph(""), "• "+p, false, docxFontSize)
			}
		}
	}

	if len(s.NotableQuotes) > 0 {
		addRun(doc.AddParagraph(""), headingQuotes, true, 15)
		for _, q := range s.NotableQuotes {
			addRun(doc.AddParagraph(""), "• "+q, false, docxFontSize)
		}
	}

	if meta.VideoID != "" {
		doc.AddParagraph("")
		addRun(doc.AddParagraph(""), "Generated from YouTube video: "+meta.VideoID, false, 10)
	}

	dir, err := os.MkdirTemp("", "tube-digest-docx-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, Filename(meta.VideoID, FormatDOCX))
	if err := doc.SaveTo(path); err != nil {
		return nil, fmt.Errorf("save docx: %w", err)
	}
	return os.ReadFile(path)
}

func addRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(docxFont).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

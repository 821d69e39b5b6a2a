// Package export renders a StructuredSummary as TXT, Markdown, PDF or DOCX.
package export

import (
	"fmt"

	"github.com/nguyentantai21042004/tube-digest/internal/summary"
)

const defaultTitle = "Video Summary"

// Meta describes the video a summary was generated from.
type Meta struct {
	VideoID string
	// Title defaults to "Video Summary".
	Title string
	// Notes are caveats printed under the title, such as missing chunks.
	Notes []string
}

func (m Meta) title() string {
	if m.Title == "" {
		return defaultTitle
	}
	return m.Title
}

// Filename returns summary_<videoID>.<ext>, or summary.<ext> without an ID.
func Filename(videoID string, f Format) string {
	if videoID == "" {
		return "summary." + f.Ext()
	}
	return fmt.Sprintf("summary_%s.%s", videoID, f.Ext())
}

// Render produces the file contents of s in format f.
func Render(s summary.StructuredSummary, f Format, meta Meta) ([]byte, error) {
	switch f {
	case FormatTXT:
		return []byte(Text(s, meta)), nil
	case FormatMarkdown:
		return []byte(Markdown(s, meta)), nil
	case FormatPDF:
		return renderPDF(s, meta)
	case FormatDOCX:
		return renderDOCX(s, meta)
	}
	return nil, fmt.Errorf("unsupported export format %q", f)
}

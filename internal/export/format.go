package export

import (
	"fmt"
	"strings"
)

// Format is an export file type.
type Format string

const (
	FormatTXT      Format = "TXT"
	FormatMarkdown Format = "MARKDOWN"
	FormatPDF      Format = "PDF"
	FormatDOCX     Format = "DOCX"
)

// Formats lists every supported format.
var Formats = []Format{FormatTXT, FormatMarkdown, FormatPDF, FormatDOCX}

// ParseFormat accepts a format name or file extension, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "TXT", "TEXT":
		return FormatTXT, nil
	case "MD", "MARKDOWN":
		return FormatMarkdown, nil
	case "PDF":
		return FormatPDF, nil
	case "DOCX", "WORD":
		return FormatDOCX, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// Ext returns the file extension without the dot.
func (f Format) Ext() string {
	switch f {
	case FormatTXT:
		return "txt"
	case FormatMarkdown:
		return "md"
	case FormatPDF:
		return "pdf"
	case FormatDOCX:
		return "docx"
	}
	return strings.ToLower(string(f))
}

// MIMEType returns the content type of the rendered file.
func (f Format) MIMEType() string {
	switch f {
	case FormatTXT:
		return "text/plain"
	case FormatMarkdown:
		return "text/markdown"
	case FormatPDF:
		return "application/pdf"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return "application/octet-stream"
}

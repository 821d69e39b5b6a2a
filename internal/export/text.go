package export

import (
	"strings"
	"unicode/utf8"

	"github.com/nguyentantai21042004/tube-digest/internal/summary"
)

// Text renders s as plain text: headings are upper-cased and underlined,
// everything else is kept from the Markdown rendering.
func Text(s summary.StructuredSummary, meta Meta) string {
	md := Markdown(s, meta)
	lines := strings.Split(strings.TrimRight(md, "\n"), "\n")

	out := make([]string, 0, len(lines)+16)
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "### "):
			out = append(out, underline(line[4:], "-")...)
		case strings.HasPrefix(line, "## "), strings.HasPrefix(line, "# "):
			text := strings.TrimLeft(line, "# ")
			if len(out) > 0 && out[len(out)-1] != "" {
				out = append(out, "")
			}
			out = append(out, underline(strings.ToUpper(text), "=")...)
		case strings.HasPrefix(line, "> "):
			out = append(out, strings.ReplaceAll(line[2:], "**", ""))
		case line == "---":
			out = append(out, "")
		case strings.HasPrefix(line, "*") && strings.HasSuffix(line, "*") && len(line) > 2:
			out = append(out, strings.Trim(line, "*"))
		default:
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n") + "\n"
}

func underline(text, char string) []string {
	return []string{text, strings.Repeat(char, utf8.RuneCountInString(text))}
}

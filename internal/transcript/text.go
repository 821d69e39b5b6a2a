package transcript

import (
	"strings"

	"golang.org/x/net/html"
)

// cleanLine strips markup from one caption line and decodes HTML entities.
// Caption XML often double-encodes entities, so text is run through the
// tokenizer after XML decoding.
func cleanLine(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var sb strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(sb.String()), " ")
		case html.TextToken:
			sb.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			sb.WriteByte(' ')
		}
	}
}

// joinLines cleans lines and joins the non-empty ones with single spaces.
// Consecutive duplicates, common in rolling auto-captions, are dropped.
func joinLines(lines []string) string {
	var sb strings.Builder
	prev := ""
	for _, l := range lines {
		text := cleanLine(l)
		if text == "" || text == prev {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(text)
		prev = text
	}
	return sb.String()
}

package merger

import (
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/tube-digest/internal/summary"
)

const reduceInstruction = `You are combining summaries of consecutive sections of a single video transcript.
Sections are labeled "Chunk <index>" in chronological order.

Write the executive summary of the ENTIRE video:
- 3 to 7 bullets, each a complete standalone insight
- merge semantically similar points from different chunks into one bullet
- keep the chronological flow implied by chunk order
- eliminate redundancy while preserving every unique insight

Respond with ONLY this JSON object and nothing else:
{"executive_summary": ["bullet", "..."]}`

func reducePrompt(partials []Partial, themes []summary.Theme) string {
	var sb strings.Builder
	sb.WriteString(reduceInstruction)
	sb.WriteString("\n\n")

	if len(themes) > 0 {
		sb.WriteString("Themes covered across the video:\n")
		for _, t := range themes {
			fmt.Fprintf(&sb, "- %s\n", t.Label)
		}
		sb.WriteString("\n")
	}

	for i, p := range partials {
		if i > 0 {
			sb.WriteString("\n---\n\n")
		}
		fmt.Fprintf(&sb, "Chunk %d:\n", p.ChunkIndex)
		sb.WriteString("Executive summary:\n")
		for _, b := range p.Summary.ExecutiveSummary {
			fmt.Fprintf(&sb, "- %s\n", b)
		}
		if len(p.Summary.KeyPoints) > 0 {
			sb.WriteString("Key points:\n")
			for _, t := range p.Summary.KeyPoints {
				fmt.Fprintf(&sb, "* %s\n", t.Label)
				for _, pt := range t.Points {
					fmt.Fprintf(&sb, "  - %s\n", pt)
				}
			}
		}
		if len(p.Summary.NotableQuotes) > 0 {
			sb.WriteString("Notable quotes & facts:\n")
			for _, q := range p.Summary.NotableQuotes {
				fmt.Fprintf(&sb, "- %s\n", q)
			}
		}
	}
	return sb.String()
}

package export

import (
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/tube-digest/internal/summary"
)

const (
	headingExecutive = "Executive Summary"
	headingKeyPoints = "Key Points"
	headingQuotes    = "Notable Quotes & Facts"
)

// Markdown renders s with a title, one section per part and a footer naming
// the video.
func Markdown(s summary.StructuredSummary, meta Meta) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", meta.title())
	for _, n := range meta.Notes {
		fmt.Fprintf(&sb, "> **Note:** %s\n\n", n)
	}

	fmt.Fprintf(&sb, "## %s\n\n", headingExecutive)
	for _, b := range s.ExecutiveSummary {
		fmt.Fprintf(&sb, "- %s\n", b)
	}

	if len(s.KeyPoints) > 0 {
		fmt.Fprintf(&sb, "\n## %s\n", headingKeyPoints)
		for _, t := range s.KeyPoints {
			fmt.Fprintf(&sb, "\n### %s\n\n", t.Label)
			for _, p := range t.Points {
				fmt.Fprintf(&sb, "- %s\n", p)
			}
		}
	}

	if len(s.NotableQuotes) > 0 {
		fmt.Fprintf(&sb, "\n## %s\n\n", headingQuotes)
		for _, q := range s.NotableQuotes {
			fmt.Fprintf(&sb, "- %s\n", q)
		}
	}

	if meta.VideoID != "" {
		fmt.Fprintf(&sb, "\n---\n*Generated from YouTube video: %s*\n", meta.VideoID)
	}
	return sb.String()
}

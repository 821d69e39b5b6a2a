package summarizer

import (
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/tube-digest/internal/segmenter"
)

const (
	contextOpen  = "<<<CONTEXT>>>"
	contextClose = "<<<END CONTEXT>>>"
)

// SchemaInstruction describes the canonical reply shape. It is shared with the
// reduce pass.
const SchemaInstruction = `Respond with a single JSON object with exactly these fields:
{
  "executive_summary": ["3 to 7 distinct bullets, each a complete standalone insight"],
  "key_points": [{"theme": "short theme label", "points": ["supporting bullet", "..."]}],
  "notable_quotes": ["direct quote in quotation marks, or a specific number/fact, with brief context"]
}
Do not add any other field.`

const analystPreamble = `You are an expert analyst specializing in extracting key insights from video transcripts.
Your summaries are concise, well-structured, and actionable. Keep the language professional and clear.
Avoid filler words and repetition.`

const strictFormatInstruction = `

IMPORTANT: your previous reply could not be parsed. Reply with ONLY the JSON object described above.
No markdown, no code fences, no commentary before or after it.
"executive_summary" must hold between 3 and 7 distinct non-empty strings.
Every "key_points" entry needs a non-empty "theme" and at least one point.`

func chunkPrompt(chunk segmenter.Chunk, hints Hints) string {
	var sb strings.Builder
	sb.WriteString(analystPreamble)
	sb.WriteString("\n\n")

	if hints.Total <= 1 {
		sb.WriteString("Summarize the following transcript.\n")
	} else {
		fmt.Fprintf(&sb, "Summarize section %d of %d of a transcript. Focus on the main points and arguments, key facts, numbers or data, notable quotes and important context. This summary will be combined with summaries of the other sections.\n",
			chunk.Index+1, hints.Total)
	}

	if len(hints.Themes) > 0 {
		sb.WriteString("\nThemes already identified in earlier sections (reuse a label when this section covers the same topic):\n")
		for _, t := range hints.Themes {
			fmt.Fprintf(&sb, "- %s\n", t)
		}
	}

	sb.WriteString("\n")
	sb.WriteString(SchemaInstruction)
	sb.WriteString("\n")

	if chunk.Overlap > 0 {
		fmt.Fprintf(&sb, "\nThe text between %s and %s repeats the end of the previous section. Use it only to understand how this section starts; do not summarize it or quote from it.\n",
			contextOpen, contextClose)
	}

	sb.WriteString("\nTranscript:\n---\n")
	if chunk.Overlap > 0 {
		sb.WriteString(contextOpen)
		sb.WriteString(chunk.Context())
		sb.WriteString(contextClose)
		sb.WriteString("\n")
	}
	sb.WriteString(chunk.Body())
	sb.WriteString("\n---")
	return sb.String()
}

package summarizer

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/tube-digest/internal/segmenter"
	"github.com/nguyentantai21042004/tube-digest/internal/summary"
)

// SummarizePartial calls the LLM once for chunk (plus at most one reformat
// call) and returns the parsed partial summary.
func (s *implSummarizer) SummarizePartial(ctx context.Context, chunk segmenter.Chunk, hints Hints) (summary.StructuredSummary, error) {
	total := hints.Total
	if total < 1 {
		total = 1
	}
	s.logger.Debug(ctx, "[%d/%d] Summarizing chunk (%d chars, %d overlap)", chunk.Index+1, total, chunk.Len(), chunk.Overlap)

	prompt := chunkPrompt(chunk, hints)
	result, err := CallParsed(ctx, s.caller, chunk.Index, prompt, summary.Parse)
	if err != nil {
		return summary.StructuredSummary{}, fmt.Errorf("summarize chunk %d: %w", chunk.Index, err)
	}
	return result, nil
}

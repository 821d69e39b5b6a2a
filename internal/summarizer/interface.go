package summarizer

import (
	"context"

	"github.com/nguyentantai21042004/tube-digest/internal/segmenter"
	"github.com/nguyentantai21042004/tube-digest/internal/summary"
)

// Summarizer turns one transcript chunk into a partial StructuredSummary.
type Summarizer interface {
	SummarizePartial(ctx context.Context, chunk segmenter.Chunk, hints Hints) (summary.StructuredSummary, error)
}

// Hints is advisory context for a chunk prompt.
type Hints struct {
	// Themes already identified by earlier chunks.
	Themes []string
	// Total is the number of chunks in the run.
	Total int
}

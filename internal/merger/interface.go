package merger

import (
	"context"

	"github.com/nguyentantai21042004/tube-digest/internal/summary"
)

// Merger combines partial summaries, given in chunk order, into one summary.
type Merger interface {
	Merge(ctx context.Context, partials []Partial) (Result, error)
}

// Partial is a chunk's summary tagged with its chunk index.
type Partial struct {
	ChunkIndex int
	Summary    summary.StructuredSummary
}

// Result is the merged summary. Fallback is set when the reduce pass failed
// and the executive summary was assembled deterministically; FallbackReason
// carries the cause.
type Result struct {
	Summary        summary.StructuredSummary
	Fallback       bool
	FallbackReason error
}

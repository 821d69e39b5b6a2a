package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nguyentantai21042004/tube-digest/internal/segmenter"
	"github.com/nguyentantai21042004/tube-digest/internal/summary"
)

// Run is the transient state of one request. Partials is index-aligned with
// Chunks; a nil entry marks a failed chunk.
type Run struct {
	ID         string
	Transcript string
	Chunks     []segmenter.Chunk
	Partials   []*summary.StructuredSummary
	Failed     map[int]error
	Final      *summary.StructuredSummary
	State      State
}

func (r *Run) failedIndices() []int {
	out := make([]int, 0, len(r.Failed))
	for i := range r.Failed {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Result is what a successful run returns.
type Result struct {
	Summary summary.StructuredSummary
	// Warning is set when some chunks were dropped from the merge.
	Warning *PartialFailureWarning
	// Chunks is the number of chunks the transcript was split into.
	Chunks int
	// Merged reports whether the merger ran (false on the single-chunk path).
	Merged bool
	// MergeFallback reports whether the merger used its deterministic
	// fallback; MergeFallbackReason holds the reduce-pass error.
	MergeFallback       bool
	MergeFallbackReason error
}

// PartialFailureWarning lists chunks that failed while others succeeded.
// FailedChunks holds 0-based chunk indices in ascending order.
type PartialFailureWarning struct {
	FailedChunks []int
	Causes       map[int]error
}

func (w *PartialFailureWarning) Error() string {
	parts := make([]string, 0, len(w.FailedChunks))
	for _, i := range w.FailedChunks {
		parts = append(parts, fmt.Sprintf("%d (%v)", i, w.Causes[i]))
	}
	return fmt.Sprintf("summary is missing %d chunk(s): %s", len(w.FailedChunks), strings.Join(parts, "; "))
}

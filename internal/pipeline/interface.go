package pipeline

import (
	"context"
)

// Controller runs one transcript through segmentation, per-chunk
// summarization and merging.
type Controller interface {
	Run(ctx context.Context, transcript string) (*Result, error)
}

// Observer receives progress updates. It is always called from the goroutine
// that invoked Run.
type Observer func(Progress)

// Progress is one state transition or chunk completion.
type Progress struct {
	State State
	// Chunk is the 0-based chunk the update refers to, or -1.
	Chunk int
	// Total is the number of chunks, 0 before segmentation.
	Total   int
	Message string
}

package processor

import (
	"context"

	"github.com/nguyentantai21042004/tube-digest/internal/pipeline"
)

// Processor turns YouTube URLs into exported summaries.
type Processor interface {
	// Process handles one job file from the inbox.
	Process(ctx context.Context, jobPath string) error
	// Summarize fetches and summarizes one video.
	Summarize(ctx context.Context, videoURL string) (*Outcome, error)
	// Export writes every configured format of o to the output folder and
	// returns the written paths.
	Export(ctx context.Context, o *Outcome) ([]string, error)
}

// Outcome is a summarized video.
type Outcome struct {
	VideoID string
	URL     string
	Result  *pipeline.Result
}

package transcript

import "context"

// Fetcher returns the plain transcript text of a video.
type Fetcher interface {
	Fetch(ctx context.Context, videoID string) (string, error)
}

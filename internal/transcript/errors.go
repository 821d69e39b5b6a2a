package transcript

import "fmt"

// NoTranscriptError reports a video that exists but has no usable captions.
type NoTranscriptError struct {
	VideoID string
	Reason  string
}

func (e *NoTranscriptError) Error() string {
	return fmt.Sprintf("no transcript for video %s: %s", e.VideoID, e.Reason)
}

// VideoUnavailableError reports a private, removed or otherwise unplayable video.
type VideoUnavailableError struct {
	VideoID string
	Reason  string
}

func (e *VideoUnavailableError) Error() string {
	return fmt.Sprintf("video %s unavailable: %s", e.VideoID, e.Reason)
}

// InvalidURLError reports input that does not name a YouTube video.
type InvalidURLError struct {
	Input  string
	Reason string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid YouTube URL %q: %s", e.Input, e.Reason)
}

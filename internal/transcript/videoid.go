package transcript

import (
	"regexp"
	"strings"
)

var (
	bareIDRe   = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	videoIDRes = []*regexp.Regexp{
		regexp.MustCompile(`youtube\.com/watch\?(?:.*&)?v=([A-Za-z0-9_-]{11})`),
		regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]{11})`),
		regexp.MustCompile(`youtube\.com/embed/([A-Za-z0-9_-]{11})`),
		regexp.MustCompile(`youtube\.com/v/([A-Za-z0-9_-]{11})`),
		regexp.MustCompile(`youtube\.com/shorts/([A-Za-z0-9_-]{11})`),
	}
)

// ParseVideoID extracts the 11-character video ID from a YouTube URL
// (watch?v=, youtu.be/, /embed/, /v/ or /shorts/) or accepts a bare ID.
func ParseVideoID(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", &InvalidURLError{Input: input, Reason: "empty"}
	}
	if bareIDRe.MatchString(s) {
		return s, nil
	}

	lower := strings.ToLower(s)
	if !strings.Contains(lower, "youtube.com") && !strings.Contains(lower, "youtu.be") {
		return "", &InvalidURLError{Input: input, Reason: "not a YouTube URL"}
	}
	for _, re := range videoIDRes {
		if m := re.FindStringSubmatch(s); m != nil {
			return m[1], nil
		}
	}
	return "", &InvalidURLError{Input: input, Reason: "no video ID found"}
}

// WatchURL returns the canonical watch page URL for id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

package transcript

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var vttTimingRe = regexp.MustCompile(`^\d{2}:\d{2}(?::\d{2})?\.\d{3} --> `)

// Fetch downloads subtitles for videoID into a temporary directory and
// converts the WebVTT file to plain text.
func (y *implYTDLP) Fetch(ctx context.Context, videoID string) (string, error) {
	dir, err := os.MkdirTemp("", "tube-digest-subs-")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	args := []string{
		"--skip-download",
		"--write-subs",
		"--write-auto-subs",
		"--sub-langs", strings.Join(y.languages, ","),
		"--sub-format", "vtt",
		"-o", "%(id)s.%(ext)s",
		WatchURL(videoID),
	}
	y.logger.Debug(ctx, "Running %s for %s", y.binary, videoID)
	out, err := y.exec.ExecuteInDir(ctx, dir, y.binary, args...)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "video unavailable") || strings.Contains(msg, "private video") {
			return "", &VideoUnavailableError{VideoID: videoID, Reason: "reported by yt-dlp"}
		}
		return "", fmt.Errorf("yt-dlp: %w", err)
	}

	path, ok := y.pickSubtitle(dir, videoID)
	if !ok {
		reason := "yt-dlp found no subtitles"
		if strings.Contains(strings.ToLower(out), "there are no subtitles") {
			reason = "video has no subtitles"
		}
		return "", &NoTranscriptError{VideoID: videoID, Reason: reason}
	}

	text, err := readVTT(path)
	if err != nil {
		return "", fmt.Errorf("read subtitles: %w", err)
	}
	if text == "" {
		return "", &NoTranscriptError{VideoID: videoID, Reason: "subtitle file is empty"}
	}
	y.logger.Info(ctx, "Transcript fetched with yt-dlp (%d characters)", len([]rune(text)))
	return text, nil
}

// pickSubtitle returns the downloaded file for the most preferred language.
func (y *implYTDLP) pickSubtitle(dir, videoID string) (string, bool) {
	for _, lang := range y.languages {
		p := filepath.Join(dir, videoID+"."+lang+".vtt")
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	matches, _ := filepath.Glob(filepath.Join(dir, "*.vtt"))
	if len(matches) == 0 {
		return "", false
	}
	return matches[0], true
}

// readVTT keeps cue text only: the header, NOTE blocks, cue identifiers and
// timing lines are dropped.
func readVTT(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var lines []string
	inNote := false
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
			inNote = false
		case inNote:
		case strings.HasPrefix(line, "WEBVTT"), strings.HasPrefix(line, "Kind:"), strings.HasPrefix(line, "Language:"):
		case strings.HasPrefix(line, "NOTE"):
			inNote = true
		case vttTimingRe.MatchString(line):
			// A numeric cue identifier may sit on the line before the timing.
			if n := len(lines); n > 0 && isDigits(lines[n-1]) {
				lines = lines[:n-1]
			}
		default:
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return joinLines(lines), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

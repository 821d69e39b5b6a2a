package transcript

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	playerResponseMarker = "ytInitialPlayerResponse = "
	maxWatchPageBytes    = 6 << 20
	maxTimedTextBytes    = 2 << 20
)

type playerResponse struct {
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" = auto-generated
}

type timedText struct {
	Lines []struct {
		Text string `xml:",chardata"`
	} `xml:"text"`
}

type statusError struct {
	StatusCode int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// Fetch scrapes the watch page, picks a caption track and returns its text
// with whitespace normalized.
func (w *implWatchPage) Fetch(ctx context.Context, videoID string) (string, error) {
	w.logger.Debug(ctx, "Fetching watch page for %s", videoID)

	page, err := w.get(ctx, w.opts.BaseURL+"/watch?v="+videoID, maxWatchPageBytes)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return "", &VideoUnavailableError{VideoID: videoID, Reason: "watch page not found"}
		}
		return "", fmt.Errorf("watch page: %w", err)
	}

	player, err := parsePlayerResponse(page)
	if err != nil {
		return "", fmt.Errorf("watch page %s: %w", videoID, err)
	}
	if ps := player.PlayabilityStatus; ps != nil && ps.Status != "" && ps.Status != "OK" {
		reason := ps.Reason
		if reason == "" {
			reason = strings.ToLower(ps.Status)
		}
		if ps.Status == "ERROR" || ps.Status == "UNPLAYABLE" || ps.Status == "LOGIN_REQUIRED" {
			return "", &VideoUnavailableError{VideoID: videoID, Reason: reason}
		}
	}
	if player.Captions == nil || len(player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks) == 0 {
		return "", &NoTranscriptError{VideoID: videoID, Reason: "transcripts are disabled or not available"}
	}

	track, ok := pickBestTrack(player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks, w.opts.Languages)
	if !ok {
		return "", &NoTranscriptError{VideoID: videoID, Reason: "every caption track requires a browser session"}
	}
	w.logger.Debug(ctx, "Using %s caption track (kind=%q) for %s", track.LanguageCode, track.Kind, videoID)

	body, err := w.get(ctx, track.BaseURL, maxTimedTextBytes)
	if err != nil {
		return "", fmt.Errorf("timedtext: %w", err)
	}
	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return "", fmt.Errorf("parse timedtext XML: %w", err)
	}

	lines := make([]string, 0, len(tt.Lines))
	for _, l := range tt.Lines {
		lines = append(lines, l.Text)
	}
	text := joinLines(lines)
	if text == "" {
		return "", &NoTranscriptError{VideoID: videoID, Reason: "caption track is empty"}
	}

	w.logger.Info(ctx, "Transcript fetched successfully (%d characters)", len([]rune(text)))
	return text, nil
}

// get issues a GET with retries on 429, 5xx and connection errors.
func (w *implWatchPage) get(ctx context.Context, url string, limit int64) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= w.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := w.opts.BackoffBase << (attempt - 1)
			w.logger.Warn(ctx, "GET %s failed (attempt %d), retrying in %s: %v", url, attempt, wait, lastErr)
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			}
		}

		body, err := w.getOnce(ctx, url, limit)
		if err == nil {
			return body, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !retryable(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("after %d attempts: %w", w.opts.MaxRetries+1, lastErr)
}

func (w *implWatchPage) getOnce(ctx context.Context, url string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", w.opts.UserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &statusError{StatusCode: resp.StatusCode}
	}
	return io.ReadAll(io.LimitReader(resp.Body, limit))
}

func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.StatusCode == http.StatusTooManyRequests || se.StatusCode >= 500
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne)
}

func parsePlayerResponse(page []byte) (*playerResponse, error) {
	idx := strings.Index(string(page), playerResponseMarker)
	if idx < 0 {
		return nil, errors.New("ytInitialPlayerResponse not found")
	}
	raw := extractJSON(page[idx+len(playerResponseMarker):])
	if raw == nil {
		return nil, errors.New("ytInitialPlayerResponse is not a JSON object")
	}
	var pr playerResponse
	if err := json.Unmarshal(raw, &pr); err != nil {
		return nil, fmt.Errorf("decode ytInitialPlayerResponse: %w", err)
	}
	return &pr, nil
}

// extractJSON returns the balanced JSON object at the start of b, or nil.
func extractJSON(b []byte) []byte {
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	depth := 0
	inStr, escaped := false, false
	for i, c := range b {
		if inStr {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return b[:i+1]
			}
		}
	}
	return nil
}

// pickBestTrack prefers a manual track in a preferred language, then an
// auto-generated one, then any English track, then the first usable track.
// Tracks that need a browser proof-of-origin token are skipped.
func pickBestTrack(tracks []captionTrack, langs []string) (captionTrack, bool) {
	usable := make([]captionTrack, 0, len(tracks))
	for _, t := range tracks {
		if t.BaseURL != "" && !strings.Contains(t.BaseURL, "&exp=xpe") {
			usable = append(usable, t)
		}
	}
	if len(usable) == 0 {
		return captionTrack{}, false
	}
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang && t.Kind != "asr" {
				return t, true
			}
		}
	}
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang {
				return t, true
			}
		}
	}
	for _, t := range usable {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t, true
		}
	}
	return usable[0], true
}

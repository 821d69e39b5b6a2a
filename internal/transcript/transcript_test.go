package transcript

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/tube-digest/internal/logger"
)

func TestParseVideoID(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/watch?feature=share&v=dQw4w9WgXcQ&t=42", "dQw4w9WgXcQ", false},
		{"https://youtu.be/dQw4w9WgXcQ?si=abc", "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/v/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"  dQw4w9WgXcQ \n", "dQw4w9WgXcQ", false},
		{"", "", true},
		{"https://vimeo.com/12345", "", true},
		{"https://www.youtube.com/channel/UCabc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseVideoID(tt.input)
			if tt.wantErr {
				var invalid *InvalidURLError
				assert.ErrorAs(t, err, &invalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPickBestTrack(t *testing.T) {
	manualDE := captionTrack{BaseURL: "u-de", LanguageCode: "de"}
	asrEN := captionTrack{BaseURL: "u-asr", LanguageCode: "en", Kind: "asr"}
	manualEN := captionTrack{BaseURL: "u-en", LanguageCode: "en"}
	enGB := captionTrack{BaseURL: "u-gb", LanguageCode: "en-GB", Kind: "asr"}
	blocked := captionTrack{BaseURL: "u?x=1&exp=xpe", LanguageCode: "en"}

	tests := []struct {
		name   string
		tracks []captionTrack
		want   captionTrack
		ok     bool
	}{
		{"manual preferred over asr", []captionTrack{asrEN, manualEN}, manualEN, true},
		{"asr in preferred language", []captionTrack{manualDE, asrEN}, asrEN, true},
		{"any english", []captionTrack{manualDE, enGB}, enGB, true},
		{"first usable", []captionTrack{manualDE}, manualDE, true},
		{"skip token tracks", []captionTrack{blocked, manualDE}, manualDE, true},
		{"nothing usable", []captionTrack{blocked}, captionTrack{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := pickBestTrack(tt.tracks, []string{"en", "en-US"})
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCleanLine(t *testing.T) {
	assert.Equal(t, "it's <fine> & good", cleanLine("it&#39;s &lt;fine&gt; &amp; good"))
	assert.Equal(t, "hello world", cleanLine("<font color=\"#fff\">hello</font>\n  world"))
	assert.Equal(t, "", cleanLine("  \n "))
}

func TestExtractJSON(t *testing.T) {
	in := []byte(`{"a":"}\"{","b":{"c":1}};var x = 1;`)
	assert.Equal(t, `{"a":"}\"{","b":{"c":1}}`, string(extractJSON(in)))
	assert.Nil(t, extractJSON([]byte(`{"open":`)))
	assert.Nil(t, extractJSON([]byte(`x{}`)))
}

const timedTextXML = `<?xml version="1.0" encoding="utf-8" ?><transcript>
<text start="0" dur="2">Welcome &amp;amp; hello</text>
<text start="2" dur="2">today we talk   about Go</text>
<text start="4" dur="1"></text>
<text start="5" dur="2">it&amp;#39;s simple</text>
</transcript>`

func watchPage(player string) string {
	return `<html><script>var ytInitialPlayerResponse = ` + player + `;var meta = {};</script></html>`
}

func newServer(t *testing.T, player func(srvURL string) string, hits *int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		if hits != nil && atomic.AddInt32(hits, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, watchPage(player(srv.URL)))
	})
	mux.HandleFunc("/timedtext", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "en", r.URL.Query().Get("lang"))
		fmt.Fprint(w, timedTextXML)
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testOptions(base string) Options {
	return Options{BaseURL: base, MaxRetries: 2, BackoffBase: time.Millisecond, Timeout: 5 * time.Second}
}

func TestWatchPageFetch(t *testing.T) {
	var hits int32
	srv := newServer(t, func(base string) string {
		return fmt.Sprintf(`{"playabilityStatus":{"status":"OK"},"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":[
			{"baseUrl":"%s/timedtext?lang=de","languageCode":"de"},
			{"baseUrl":"%s/timedtext?lang=en","languageCode":"en","kind":"asr"}]}}}`, base, base)
	}, &hits)

	f := NewWatchPage(srv.Client(), testOptions(srv.URL), logger.Nop())
	text, err := f.Fetch(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "Welcome & hello today we talk about Go it's simple", text)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits), "first 503 is retried")
}

func TestWatchPageNoCaptions(t *testing.T) {
	srv := newServer(t, func(string) string {
		return `{"playabilityStatus":{"status":"OK"}}`
	}, nil)

	_, err := NewWatchPage(srv.Client(), testOptions(srv.URL), logger.Nop()).Fetch(context.Background(), "dQw4w9WgXcQ")
	var none *NoTranscriptError
	require.ErrorAs(t, err, &none)
	assert.Equal(t, "dQw4w9WgXcQ", none.VideoID)
}

func TestWatchPageUnavailable(t *testing.T) {
	srv := newServer(t, func(string) string {
		return `{"playabilityStatus":{"status":"ERROR","reason":"Video unavailable"}}`
	}, nil)

	_, err := NewWatchPage(srv.Client(), testOptions(srv.URL), logger.Nop()).Fetch(context.Background(), "dQw4w9WgXcQ")
	var unavailable *VideoUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, "Video unavailable", unavailable.Reason)
}

func TestWatchPageNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := NewWatchPage(srv.Client(), testOptions(srv.URL), logger.Nop()).Fetch(context.Background(), "dQw4w9WgXcQ")
	var unavailable *VideoUnavailableError
	assert.ErrorAs(t, err, &unavailable)
}

func TestWatchPageGivesUpAfterRetries(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewWatchPage(srv.Client(), testOptions(srv.URL), logger.Nop()).Fetch(context.Background(), "dQw4w9WgXcQ")
	require.Error(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

// fakeExecutor writes files into the working directory instead of running
// yt-dlp.
type fakeExecutor struct {
	files map[string]string
	out   string
	err   error
	args  []string
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	return f.ExecuteInDir(ctx, "", name, args...)
}

func (f *fakeExecutor) ExecuteInDir(_ context.Context, dir string, name string, args ...string) (string, error) {
	f.args = append([]string{name}, args...)
	for fn, content := range f.files {
		if err := os.WriteFile(filepath.Join(dir, fn), []byte(content), 0o644); err != nil {
			return "", err
		}
	}
	return f.out, f.err
}

const sampleVTT = `WEBVTT
Kind: captions
Language: en

NOTE generated
by a tool

1
00:00:00.000 --> 00:00:02.000
Welcome to the <c>show</c>

2
00:00:02.000 --> 00:00:04.000 align:start
Welcome to the show
today we discuss Go

00:00:04.000 --> 00:00:06.000
and testing.
`

func TestYTDLPFetch(t *testing.T) {
	exec := &fakeExecutor{files: map[string]string{
		"abcdefghijk.de.vtt": "WEBVTT\n\n00:00:00.000 --> 00:00:01.000\nHallo\n",
		"abcdefghijk.en.vtt": sampleVTT,
	}}
	f := NewYTDLP(exec, "", nil, logger.Nop())

	text, err := f.Fetch(context.Background(), "abcdefghijk")
	require.NoError(t, err)
	assert.Equal(t, "Welcome to the show today we discuss Go and testing.", text)
	assert.Equal(t, "yt-dlp", exec.args[0])
	assert.Contains(t, exec.args, "--skip-download")
	assert.Equal(t, WatchURL("abcdefghijk"), exec.args[len(exec.args)-1])
}

func TestYTDLPNoSubtitles(t *testing.T) {
	exec := &fakeExecutor{out: "[info] There are no subtitles for the requested languages"}
	_, err := NewYTDLP(exec, "yt-dlp", nil, logger.Nop()).Fetch(context.Background(), "abcdefghijk")

	var none *NoTranscriptError
	require.ErrorAs(t, err, &none)
	assert.Equal(t, "video has no subtitles", none.Reason)
}

func TestYTDLPUnavailable(t *testing.T) {
	exec := &fakeExecutor{err: errors.New("command 'yt-dlp' failed: exit status 1\nstderr: ERROR: [youtube] abcdefghijk: Video unavailable")}
	_, err := NewYTDLP(exec, "yt-dlp", nil, logger.Nop()).Fetch(context.Background(), "abcdefghijk")

	var unavailable *VideoUnavailableError
	assert.ErrorAs(t, err, &unavailable)
}

type stubFetcher struct {
	text  string
	err   error
	calls int
}

func (s *stubFetcher) Fetch(context.Context, string) (string, error) {
	s.calls++
	return s.text, s.err
}

func TestChain(t *testing.T) {
	t.Run("falls through to next", func(t *testing.T) {
		first := &stubFetcher{err: errors.New("boom")}
		second := &stubFetcher{text: "transcript"}
		text, err := NewChain(logger.Nop(), first, second).Fetch(context.Background(), "id")
		require.NoError(t, err)
		assert.Equal(t, "transcript", text)
		assert.Equal(t, 1, second.calls)
	})

	t.Run("stops on unavailable video", func(t *testing.T) {
		first := &stubFetcher{err: &VideoUnavailableError{VideoID: "id", Reason: "private"}}
		second := &stubFetcher{text: "transcript"}
		_, err := NewChain(logger.Nop(), first, second).Fetch(context.Background(), "id")
		var unavailable *VideoUnavailableError
		assert.ErrorAs(t, err, &unavailable)
		assert.Equal(t, 0, second.calls)
	})

	t.Run("keeps NoTranscriptError when all agree", func(t *testing.T) {
		first := &stubFetcher{err: &NoTranscriptError{VideoID: "id", Reason: "a"}}
		second := &stubFetcher{err: &NoTranscriptError{VideoID: "id", Reason: "b"}}
		_, err := NewChain(logger.Nop(), first, second).Fetch(context.Background(), "id")
		var none *NoTranscriptError
		require.ErrorAs(t, err, &none)
		assert.Equal(t, "b", none.Reason)
	})

	t.Run("joins mixed errors", func(t *testing.T) {
		boom := errors.New("boom")
		first := &stubFetcher{err: boom}
		second := &stubFetcher{err: &NoTranscriptError{VideoID: "id", Reason: "b"}}
		_, err := NewChain(logger.Nop(), first, second).Fetch(context.Background(), "id")
		assert.ErrorIs(t, err, boom)
	})
}

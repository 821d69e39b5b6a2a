package transcript

import (
	"net/http"
	"time"

	"github.com/nguyentantai21042004/tube-digest/internal/logger"
	"github.com/nguyentantai21042004/tube-digest/pkg/executor"
)

const (
	defaultBaseURL    = "https://www.youtube.com"
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3
	defaultUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// DefaultLanguages are tried in order when no preference is configured.
var DefaultLanguages = []string{"en", "en-US", "en-GB"}

// Options configures the watch page fetcher.
type Options struct {
	Languages  []string
	Timeout    time.Duration
	MaxRetries int
	// BackoffBase is the first retry wait; it doubles per attempt.
	BackoffBase time.Duration
	// BaseURL overrides https://www.youtube.com.
	BaseURL   string
	UserAgent string
}

func (o Options) withDefaults() Options {
	if len(o.Languages) == 0 {
		o.Languages = DefaultLanguages
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	} else if o.MaxRetries == 0 {
		o.MaxRetries = defaultMaxRetries
	}
	if o.BackoffBase <= 0 {
		o.BackoffBase = time.Second
	}
	if o.BaseURL == "" {
		o.BaseURL = defaultBaseURL
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUserAgent
	}
	return o
}

type implWatchPage struct {
	client *http.Client
	opts   Options
	logger logger.Logger
}

// NewWatchPage creates a Fetcher that scrapes the watch page for caption
// tracks and downloads the best one as timedtext XML. A nil client gets one
// with opts.Timeout.
func NewWatchPage(client *http.Client, opts Options, log logger.Logger) Fetcher {
	opts = opts.withDefaults()
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	return &implWatchPage{client: client, opts: opts, logger: log}
}

type implYTDLP struct {
	exec      executor.Executor
	binary    string
	languages []string
	logger    logger.Logger
}

// NewYTDLP creates a Fetcher that downloads subtitles with the yt-dlp binary.
func NewYTDLP(exec executor.Executor, binary string, languages []string, log logger.Logger) Fetcher {
	if binary == "" {
		binary = "yt-dlp"
	}
	if len(languages) == 0 {
		languages = DefaultLanguages
	}
	return &implYTDLP{exec: exec, binary: binary, languages: languages, logger: log}
}

type implChain struct {
	fetchers []Fetcher
	logger   logger.Logger
}

// NewChain creates a Fetcher that tries fetchers in order. It stops at the
// first success, at a VideoUnavailableError or when ctx is done.
func NewChain(log logger.Logger, fetchers ...Fetcher) Fetcher {
	return &implChain{fetchers: fetchers, logger: log}
}

package pipeline

import (
	"github.com/nguyentantai21042004/tube-digest/internal/logger"
	"github.com/nguyentantai21042004/tube-digest/internal/merger"
	"github.com/nguyentantai21042004/tube-digest/internal/summarizer"
)

const (
	DefaultMaxChunkChars           = 20000
	DefaultChunkOverlapChars       = 500
	DefaultMaxConcurrentChunkCalls = 3
)

// Options controls segmentation and chunk concurrency.
type Options struct {
	MaxChunkChars     int
	ChunkOverlapChars int
	// MaxConcurrentChunkCalls bounds in-flight chunk calls. With 1, chunks are
	// summarized in order and each prompt sees the themes found so far.
	MaxConcurrentChunkCalls int
}

// Option configures a Controller.
type Option func(*implController)

// WithObserver registers a progress observer.
func WithObserver(o Observer) Option {
	return func(c *implController) {
		c.observers = append(c.observers, o)
	}
}

type implController struct {
	opts       Options
	summarizer summarizer.Summarizer
	merger     merger.Merger
	logger     logger.Logger
	observers  []Observer
}

// New creates a Controller.
func New(opts Options, sum summarizer.Summarizer, mrg merger.Merger, log logger.Logger, options ...Option) Controller {
	if opts.MaxChunkChars <= 0 {
		opts.MaxChunkChars = DefaultMaxChunkChars
	}
	if opts.ChunkOverlapChars < 0 {
		opts.ChunkOverlapChars = 0
	}
	if opts.MaxConcurrentChunkCalls <= 0 {
		opts.MaxConcurrentChunkCalls = DefaultMaxConcurrentChunkCalls
	}

	c := &implController{
		opts:       opts,
		summarizer: sum,
		merger:     mrg,
		logger:     log,
	}
	for _, o := range options {
		o(c)
	}
	return c
}

package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nguyentantai21042004/tube-digest/internal/logger"
	"github.com/nguyentantai21042004/tube-digest/internal/merger"
	"github.com/nguyentantai21042004/tube-digest/internal/segmenter"
	"github.com/nguyentantai21042004/tube-digest/internal/summarizer"
	"github.com/nguyentantai21042004/tube-digest/internal/summary"
)

type chunkResult struct {
	index   int
	summary summary.StructuredSummary
	err     error
}

// Run summarizes transcript. A transcript that fits in one chunk is summarized
// in a single call and the merger is skipped. Otherwise every chunk is
// summarized, failed chunks are dropped with a PartialFailureWarning, and the
// survivors are merged in chunk order.
func (c *implController) Run(ctx context.Context, transcript string) (*Result, error) {
	run := &Run{
		ID:         uuid.NewString()[:8],
		Transcript: transcript,
		Failed:     make(map[int]error),
		State:      StateIdle,
	}
	ctx = logger.WithRunID(ctx, run.ID)

	if err := c.transition(ctx, run, StateSegmenting, "Splitting transcript into sections..."); err != nil {
		return nil, err
	}
	chunks, err := segmenter.Segment(transcript, c.opts.MaxChunkChars, c.opts.ChunkOverlapChars)
	if err != nil {
		return nil, c.fail(ctx, run, err)
	}
	run.Chunks = chunks
	run.Partials = make([]*summary.StructuredSummary, len(chunks))
	c.logger.Info(ctx, "Transcript has %d characters, split into %d section(s)", len([]rune(transcript)), len(chunks))

	if err := c.transition(ctx, run, StateSummarizing, fmt.Sprintf("Summarizing %d section(s)...", len(chunks))); err != nil {
		return nil, err
	}
	if c.opts.MaxConcurrentChunkCalls == 1 {
		c.summarizeSequential(ctx, run)
	} else {
		c.summarizeConcurrent(ctx, run)
	}
	if ctx.Err() != nil {
		return nil, c.canceled(ctx, run, ctx.Err())
	}

	if len(chunks) == 1 {
		if cause, failed := run.Failed[0]; failed {
			return nil, c.fail(ctx, run, &summary.SummarizationError{ChunkIndex: summary.RunLevel, Err: cause})
		}
		run.Final = run.Partials[0]
		if err := c.transition(ctx, run, StateDone, "Summary complete"); err != nil {
			return nil, err
		}
		return &Result{Summary: *run.Final, Chunks: 1}, nil
	}

	partials := make([]merger.Partial, 0, len(chunks))
	for i, p := range run.Partials {
		if p != nil {
			partials = append(partials, merger.Partial{ChunkIndex: i, Summary: *p})
		}
	}
	if len(partials) == 0 {
		causes := make([]error, 0, len(run.Failed))
		for _, i := range run.failedIndices() {
			causes = append(causes, run.Failed[i])
		}
		return nil, c.fail(ctx, run, &summary.SummarizationError{
			ChunkIndex: summary.RunLevel,
			Err:        fmt.Errorf("all %d chunks failed: %w", len(chunks), errors.Join(causes...)),
		})
	}

	res := &Result{Chunks: len(chunks), Merged: true}
	if len(run.Failed) > 0 {
		res.Warning = &PartialFailureWarning{FailedChunks: run.failedIndices(), Causes: run.Failed}
		c.logger.Warn(ctx, "Merging without failed chunks: %v", res.Warning)
	}

	if err := c.transition(ctx, run, StateMerging, "Creating final summary..."); err != nil {
		return nil, err
	}
	merged, err := c.merger.Merge(ctx, partials)
	if err != nil {
		if ctx.Err() != nil {
			return nil, c.canceled(ctx, run, ctx.Err())
		}
		return nil, c.fail(ctx, run, classify(err))
	}
	if merged.Fallback {
		c.logger.Warn(ctx, "Final summary used the deterministic fallback: %v", merged.FallbackReason)
	}
	res.Summary = merged.Summary
	res.MergeFallback = merged.Fallback
	res.MergeFallbackReason = merged.FallbackReason
	run.Final = &res.Summary

	if err := c.transition(ctx, run, StateDone, "Summary complete"); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *implController) summarizeSequential(ctx context.Context, run *Run) {
	total := len(run.Chunks)
	var themes []string
	seen := make(map[string]bool)

	for _, chunk := range run.Chunks {
		if ctx.Err() != nil {
			return
		}
		c.notify(Progress{State: StateSummarizing, Chunk: chunk.Index, Total: total,
			Message: fmt.Sprintf("Summarizing section %d of %d...", chunk.Index+1, total)})

		hints := summarizer.Hints{Themes: append([]string(nil), themes...), Total: total}
		s, err := c.summarizer.SummarizePartial(ctx, chunk, hints)
		c.record(ctx, run, chunkResult{index: chunk.Index, summary: s, err: err})
		if err != nil {
			continue
		}
		for _, label := range s.ThemeLabels() {
			if !seen[label] {
				seen[label] = true
				themes = append(themes, label)
			}
		}
	}
}

// summarizeConcurrent fans chunks out to a bounded task set. Tasks never
// touch run; they send index-tagged results that are recorded here, on the
// calling goroutine.
func (c *implController) summarizeConcurrent(ctx context.Context, run *Run) {
	total := len(run.Chunks)
	results := make(chan chunkResult, total)

	var g errgroup.Group
	g.SetLimit(c.opts.MaxConcurrentChunkCalls)

	go func() {
		for _, chunk := range run.Chunks {
			if ctx.Err() != nil {
				results <- chunkResult{index: chunk.Index, err: ctx.Err()}
				continue
			}
			g.Go(func() error {
				s, err := c.summarizer.SummarizePartial(ctx, chunk, summarizer.Hints{Total: total})
				results <- chunkResult{index: chunk.Index, summary: s, err: err}
				return nil
			})
		}
		_ = g.Wait()
		close(results)
	}()

	done := 0
	for r := range results {
		c.record(ctx, run, r)
		done++
		c.notify(Progress{State: StateSummarizing, Chunk: r.index, Total: total,
			Message: fmt.Sprintf("Summarized section %d of %d (%d/%d done)", r.index+1, total, done, total)})
	}
}

func (c *implController) record(ctx context.Context, run *Run, r chunkResult) {
	if r.err != nil {
		run.Failed[r.index] = r.err
		if ctx.Err() == nil {
			c.logger.Warn(ctx, "Section %d of %d failed: %v", r.index+1, len(run.Chunks), r.err)
		}
		return
	}
	s := r.summary
	run.Partials[r.index] = &s
	c.logger.Debug(ctx, "Section %d of %d summarized: %d bullets, %d themes",
		r.index+1, len(run.Chunks), len(s.ExecutiveSummary), len(s.KeyPoints))
}

// transition moves run to next, checking for cancellation first.
func (c *implController) transition(ctx context.Context, run *Run, next State, msg string) error {
	if err := ctx.Err(); err != nil {
		return c.canceled(ctx, run, err)
	}
	c.logger.Debug(ctx, "State %s -> %s", run.State, next)
	run.State = next
	c.notify(Progress{State: next, Chunk: -1, Total: len(run.Chunks), Message: msg})
	return nil
}

func (c *implController) canceled(ctx context.Context, run *Run, cause error) error {
	err := &summary.CanceledError{State: run.State.String(), Err: cause}
	c.logger.Warn(ctx, "Run canceled while %s", run.State)
	run.State = StateFailed
	c.notify(Progress{State: StateFailed, Chunk: -1, Total: len(run.Chunks), Message: err.Error()})
	return err
}

func (c *implController) fail(ctx context.Context, run *Run, err error) error {
	c.logger.Error(ctx, "Run failed while %s: %v", run.State, err)
	run.State = StateFailed
	c.notify(Progress{State: StateFailed, Chunk: -1, Total: len(run.Chunks), Message: err.Error()})
	return err
}

func (c *implController) notify(p Progress) {
	for _, o := range c.observers {
		o(p)
	}
}

// classify makes sure a merge error carries a summary error type.
func classify(err error) error {
	var (
		invalid *summary.InvalidInputError
		sumErr  *summary.SummarizationError
		trans   *summary.TransientAPIError
	)
	if errors.As(err, &invalid) || errors.As(err, &sumErr) || errors.As(err, &trans) {
		return err
	}
	return &summary.SummarizationError{ChunkIndex: summary.RunLevel, Err: err}
}

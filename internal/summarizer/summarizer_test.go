package summarizer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/tube-digest/internal/llm"
	"github.com/nguyentantai21042004/tube-digest/internal/llm/llmtest"
	"github.com/nguyentantai21042004/tube-digest/internal/logger"
	"github.com/nguyentantai21042004/tube-digest/internal/segmenter"
	"github.com/nguyentantai21042004/tube-digest/internal/summary"
)

var testPolicy = llm.RetryPolicy{MaxRetries: 2, BackoffBase: time.Millisecond, MaxBackoff: 2 * time.Millisecond, Multiplier: 2}

var goodReply = llmtest.SummaryJSON(
	[]string{"Point one", "Point two", "Point three"},
	[]llmtest.Theme{{Label: "Go", Points: []string{"Go is simple"}}},
	[]string{`"Less is more"`},
)

func newTestSummarizer(fake *llmtest.Fake) Summarizer {
	return New(fake, "test-model", testPolicy, logger.Nop())
}

func chunk(index int, text string) segmenter.Chunk {
	return segmenter.Chunk{Index: index, Text: text, End: len(text)}
}

func TestSummarizePartialSuccess(t *testing.T) {
	fake := &llmtest.Fake{Handler: llmtest.Sequence(llmtest.Reply{Text: goodReply})}
	s := newTestSummarizer(fake)

	got, err := s.SummarizePartial(context.Background(), chunk(0, "hello world"), Hints{Total: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"Point one", "Point two", "Point three"}, got.ExecutiveSummary)
	assert.Equal(t, 1, fake.Calls())
	assert.Equal(t, []string{"test-model"}, fake.Models())
}

func TestSummarizePartialReformatRetry(t *testing.T) {
	fake := &llmtest.Fake{Handler: llmtest.Sequence(
		llmtest.Reply{Text: "## Executive Summary\n- not json"},
		llmtest.Reply{Text: goodReply},
	)}
	s := newTestSummarizer(fake)

	_, err := s.SummarizePartial(context.Background(), chunk(0, "hello world"), Hints{Total: 1})
	require.NoError(t, err)

	prompts := fake.Prompts()
	require.Len(t, prompts, 2)
	assert.NotContains(t, prompts[0], "could not be parsed")
	assert.Contains(t, prompts[1], "could not be parsed")
}

func TestSummarizePartialMalformedTwice(t *testing.T) {
	fake := &llmtest.Fake{Handler: llmtest.Sequence(llmtest.Reply{Text: "definitely not json"})}
	s := newTestSummarizer(fake)

	_, err := s.SummarizePartial(context.Background(), chunk(4, "hello world"), Hints{Total: 5})

	var se *summary.SummarizationError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 4, se.ChunkIndex)
	assert.True(t, summary.IsParseError(err))
	assert.Equal(t, 2, fake.Calls(), "exactly one reformat retry")
}

func TestSummarizePartialTransientExhausted(t *testing.T) {
	fake := &llmtest.Fake{Handler: func(string) (string, error) {
		return "", &llm.RateLimitError{Provider: "fake", Err: errors.New("429")}
	}}
	s := newTestSummarizer(fake)

	_, err := s.SummarizePartial(context.Background(), chunk(2, "hello world"), Hints{Total: 5})

	var te *summary.TransientAPIError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 2, te.ChunkIndex)
	assert.Equal(t, 3, te.Attempts)
	assert.Equal(t, 3, fake.Calls())
}

func TestSummarizePartialTransientRecovers(t *testing.T) {
	fake := &llmtest.Fake{Handler: llmtest.Sequence(
		llmtest.Reply{Err: &llm.NetworkError{Provider: "fake", Err: errors.New("reset")}},
		llmtest.Reply{Text: goodReply},
	)}
	s := newTestSummarizer(fake)

	_, err := s.SummarizePartial(context.Background(), chunk(0, "hello world"), Hints{Total: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, fake.Calls())
}

func TestSummarizePartialModelError(t *testing.T) {
	fake := &llmtest.Fake{Handler: func(string) (string, error) {
		return "", &llm.ModelError{Provider: "fake", Err: errors.New("context length exceeded")}
	}}
	s := newTestSummarizer(fake)

	_, err := s.SummarizePartial(context.Background(), chunk(1, "hello world"), Hints{Total: 3})

	var se *summary.SummarizationError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 1, se.ChunkIndex)
	assert.Equal(t, 1, fake.Calls(), "model errors are not retried")
}

func TestChunkPrompt(t *testing.T) {
	text := "tail of previous. Body of this section."
	c := segmenter.Chunk{Index: 1, Text: text, Start: 100, End: 121, Overlap: len("tail of previous. ")}

	prompt := chunkPrompt(c, Hints{Themes: []string{"Pricing", "Hiring"}, Total: 3})

	assert.Contains(t, prompt, "section 2 of 3")
	assert.Contains(t, prompt, "- Pricing\n- Hiring")
	assert.Contains(t, prompt, contextOpen+"tail of previous. "+contextClose)
	assert.True(t, strings.HasSuffix(prompt, "Body of this section.\n---"))
	assert.Contains(t, prompt, `"executive_summary"`)
}

func TestChunkPromptSinglePass(t *testing.T) {
	prompt := chunkPrompt(chunk(0, "whole transcript"), Hints{Total: 1})
	assert.Contains(t, prompt, "Summarize the following transcript.")
	assert.NotContains(t, prompt, contextOpen)
}

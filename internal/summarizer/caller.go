package summarizer

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/tube-digest/internal/llm"
	"github.com/nguyentantai21042004/tube-digest/internal/logger"
	"github.com/nguyentantai21042004/tube-digest/internal/summary"
)

// Caller applies the retry policy to LLM calls and maps failures onto the
// summary error taxonomy.
type Caller struct {
	client llm.Client
	model  string
	retry  llm.RetryPolicy
	logger logger.Logger
}

// NewCaller creates a Caller.
func NewCaller(client llm.Client, model string, retry llm.RetryPolicy, log logger.Logger) *Caller {
	return &Caller{client: client, model: model, retry: retry, logger: log}
}

// Call sends prompt with exponential backoff on transient failures. index is
// the chunk the call belongs to, or summary.RunLevel.
func (c *Caller) Call(ctx context.Context, index int, prompt string) (string, error) {
	policy := c.retry
	policy.OnRetry = func(attempt int, wait time.Duration, err error) {
		c.logger.Warn(ctx, "Chunk %d: attempt %d failed, retrying in %s: %v", index, attempt, wait, err)
	}

	raw, attempts, err := llm.Do(ctx, policy, func(ctx context.Context) (string, error) {
		return c.client.Complete(ctx, prompt, c.model)
	})
	if err == nil {
		return raw, nil
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if llm.IsTransient(err) {
		return "", &summary.TransientAPIError{ChunkIndex: index, Attempts: attempts, Err: err}
	}
	return "", &summary.SummarizationError{ChunkIndex: index, Err: err}
}

// CallParsed calls the model and parses the reply. A reply that fails to parse
// is retried exactly once with a stricter formatting instruction; a second
// parse failure becomes a SummarizationError.
func CallParsed[T any](ctx context.Context, c *Caller, index int, prompt string, parse func(string) (T, error)) (T, error) {
	var zero T

	raw, err := c.Call(ctx, index, prompt)
	if err != nil {
		return zero, err
	}
	result, perr := parse(raw)
	if perr == nil {
		return result, nil
	}

	c.logger.Warn(ctx, "Chunk %d: malformed reply, retrying with stricter format: %v", index, perr)
	raw, err = c.Call(ctx, index, prompt+strictFormatInstruction)
	if err != nil {
		return zero, err
	}
	result, perr = parse(raw)
	if perr != nil {
		return zero, &summary.SummarizationError{ChunkIndex: index, Err: perr}
	}
	return result, nil
}

package summarizer

import (
	"github.com/nguyentantai21042004/tube-digest/internal/llm"
	"github.com/nguyentantai21042004/tube-digest/internal/logger"
)

type implSummarizer struct {
	caller *Caller
	logger logger.Logger
}

// New creates a Summarizer that calls client with model under the retry policy.
func New(client llm.Client, model string, retry llm.RetryPolicy, log logger.Logger) Summarizer {
	return &implSummarizer{
		caller: NewCaller(client, model, retry, log),
		logger: log,
	}
}

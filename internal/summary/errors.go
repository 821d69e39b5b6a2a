package summary

import (
	"errors"
	"fmt"
)

// RunLevel is the ChunkIndex used when an error concerns the whole run.
const RunLevel = -1

// InvalidInputError reports an empty or malformed transcript. It is never retried.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

// TransientAPIError is returned once the retry budget for rate-limit or
// network failures is exhausted.
type TransientAPIError struct {
	ChunkIndex int
	Attempts   int
	Err        error
}

func (e *TransientAPIError) Error() string {
	return fmt.Sprintf("chunk %d: transient API failure after %d attempts: %v", e.ChunkIndex, e.Attempts, e.Err)
}

func (e *TransientAPIError) Unwrap() error { return e.Err }

// SummarizationError reports a chunk (or, with RunLevel, a run) that could not
// be summarized.
type SummarizationError struct {
	ChunkIndex int
	Err        error
}

func (e *SummarizationError) Error() string {
	if e.ChunkIndex == RunLevel {
		return fmt.Sprintf("summarization failed: %v", e.Err)
	}
	return fmt.Sprintf("chunk %d: summarization failed: %v", e.ChunkIndex, e.Err)
}

func (e *SummarizationError) Unwrap() error { return e.Err }

// ParseError is a reply that does not match the StructuredSummary schema.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed summary: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// CanceledError reports a run abandoned by its caller.
type CanceledError struct {
	State string
	Err   error
}

func (e *CanceledError) Error() string {
	return fmt.Sprintf("run canceled during %s: %v", e.State, e.Err)
}

func (e *CanceledError) Unwrap() error { return e.Err }

// IsParseError reports whether err is a schema parse failure.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

package merger

import (
	"github.com/nguyentantai21042004/tube-digest/internal/logger"
	"github.com/nguyentantai21042004/tube-digest/internal/summarizer"
)

// DefaultThemeSimilarity is the Jaccard threshold above which two theme
// labels are treated as the same topic.
const DefaultThemeSimilarity = 0.5

type implMerger struct {
	caller     *summarizer.Caller
	similarity float64
	logger     logger.Logger
}

// New creates a Merger whose reduce pass goes through caller. A nil caller
// disables the reduce pass and always uses the deterministic merge.
func New(caller *summarizer.Caller, themeSimilarity float64, log logger.Logger) Merger {
	if themeSimilarity <= 0 || themeSimilarity > 1 {
		themeSimilarity = DefaultThemeSimilarity
	}
	return &implMerger{
		caller:     caller,
		similarity: themeSimilarity,
		logger:     log,
	}
}

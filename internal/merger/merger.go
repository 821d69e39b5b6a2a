package merger

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/nguyentantai21042004/tube-digest/internal/summarizer"
	"github.com/nguyentantai21042004/tube-digest/internal/summary"
)

// ErrReduceDisabled is the FallbackReason when the merger has no caller.
var ErrReduceDisabled = errors.New("reduce pass disabled")

// Merge combines partials into one StructuredSummary. Key points and quotes
// are merged deterministically; the executive summary comes from a reduce-pass
// LLM call, or from FallbackExecutive when that call fails.
func (m *implMerger) Merge(ctx context.Context, partials []Partial) (Result, error) {
	if len(partials) == 0 {
		return Result{}, &summary.InvalidInputError{Reason: "no partial summaries to merge"}
	}

	ordered := append([]Partial(nil), partials...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].ChunkIndex < ordered[j].ChunkIndex })

	merged := summary.StructuredSummary{
		KeyPoints:     MergeThemes(ordered, m.similarity),
		NotableQuotes: UnionQuotes(ordered),
	}

	var res Result
	switch {
	case len(ordered) == 1:
		merged.ExecutiveSummary = append([]string{}, ordered[0].Summary.ExecutiveSummary...)
	case m.caller == nil:
		merged.ExecutiveSummary = FallbackExecutive(ordered)
		res.Fallback = true
		res.FallbackReason = ErrReduceDisabled
	default:
		exec, err := m.reduce(ctx, ordered, merged.KeyPoints)
		if err != nil {
			if ctx.Err() != nil {
				return Result{}, ctx.Err()
			}
			m.logger.Warn(ctx, "Reduce pass failed, using deterministic merge: %v", err)
			exec = FallbackExecutive(ordered)
			res.Fallback = true
			res.FallbackReason = err
		}
		merged.ExecutiveSummary = exec
	}

	if err := merged.Validate(); err != nil {
		return Result{}, &summary.SummarizationError{ChunkIndex: summary.RunLevel, Err: fmt.Errorf("merged summary invalid: %w", err)}
	}
	res.Summary = merged
	return res, nil
}

func (m *implMerger) reduce(ctx context.Context, partials []Partial, themes []summary.Theme) ([]string, error) {
	m.logger.Info(ctx, "Creating final summary from %d sections...", len(partials))
	prompt := reducePrompt(partials, themes)
	return summarizer.CallParsed(ctx, m.caller, summary.RunLevel, prompt, summary.ParseExecutive)
}

// FallbackExecutive picks up to MaxExecutiveBullets bullets round-robin across
// chunks (every chunk's first bullet, then every second bullet, ...), drops
// exact duplicates and returns them in chunk order.
func FallbackExecutive(partials []Partial) []string {
	type pick struct {
		chunk, pos int
		text       string
	}

	seen := make(map[string]bool)
	var picks []pick
	for round := 0; len(picks) < summary.MaxExecutiveBullets; round++ {
		progressed := false
		for ci, p := range partials {
			bullets := p.Summary.ExecutiveSummary
			if round >= len(bullets) {
				continue
			}
			progressed = true
			b := bullets[round]
			if seen[b] {
				continue
			}
			seen[b] = true
			picks = append(picks, pick{chunk: ci, pos: round, text: b})
			if len(picks) == summary.MaxExecutiveBullets {
				break
			}
		}
		if !progressed {
			break
		}
	}

	sort.SliceStable(picks, func(i, j int) bool {
		if picks[i].chunk != picks[j].chunk {
			return picks[i].chunk < picks[j].chunk
		}
		return picks[i].pos < picks[j].pos
	})

	out := make([]string, 0, len(picks))
	for _, p := range picks {
		out = append(out, p.text)
	}
	return out
}

// UnionQuotes concatenates notable quotes in chunk order, keeping the first
// occurrence of byte-identical strings.
func UnionQuotes(partials []Partial) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, p := range partials {
		for _, q := range p.Summary.NotableQuotes {
			if seen[q] {
				continue
			}
			seen[q] = true
			out = append(out, q)
		}
	}
	return out
}

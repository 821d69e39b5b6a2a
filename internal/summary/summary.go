package summary

import (
	"fmt"
	"strings"
)

const (
	MinExecutiveBullets = 3
	MaxExecutiveBullets = 7
)

// StructuredSummary is the canonical output shape shared by partial (per-chunk)
// and final summaries.
type StructuredSummary struct {
	ExecutiveSummary []string `json:"executive_summary"`
	KeyPoints        []Theme  `json:"key_points"`
	NotableQuotes    []string `json:"notable_quotes"`
}

// Theme is a labeled group of supporting bullets.
type Theme struct {
	Label  string   `json:"theme"`
	Points []string `json:"points"`
}

// Validate checks the summary against the schema.
func (s StructuredSummary) Validate() error {
	if err := ValidateExecutive(s.ExecutiveSummary); err != nil {
		return err
	}
	for i, t := range s.KeyPoints {
		if strings.TrimSpace(t.Label) == "" {
			return fmt.Errorf("key_points[%d]: empty theme label", i)
		}
		if len(t.Points) == 0 {
			return fmt.Errorf("key_points[%d] %q: no points", i, t.Label)
		}
		for j, p := range t.Points {
			if strings.TrimSpace(p) == "" {
				return fmt.Errorf("key_points[%d].points[%d]: empty bullet", i, j)
			}
		}
	}
	for i, q := range s.NotableQuotes {
		if strings.TrimSpace(q) == "" {
			return fmt.Errorf("notable_quotes[%d]: empty entry", i)
		}
	}
	return nil
}

// ValidateExecutive checks the executive section on its own: 3 to 7 distinct,
// non-empty bullets.
func ValidateExecutive(bullets []string) error {
	if n := len(bullets); n < MinExecutiveBullets || n > MaxExecutiveBullets {
		return fmt.Errorf("executive_summary: want %d-%d bullets, got %d", MinExecutiveBullets, MaxExecutiveBullets, n)
	}
	seen := make(map[string]bool, len(bullets))
	for i, b := range bullets {
		if strings.TrimSpace(b) == "" {
			return fmt.Errorf("executive_summary[%d]: empty bullet", i)
		}
		if seen[b] {
			return fmt.Errorf("executive_summary[%d]: duplicate bullet", i)
		}
		seen[b] = true
	}
	return nil
}

// ThemeLabels returns the key point labels in order.
func (s StructuredSummary) ThemeLabels() []string {
	labels := make([]string, 0, len(s.KeyPoints))
	for _, t := range s.KeyPoints {
		labels = append(labels, t.Label)
	}
	return labels
}

// Clone returns a deep copy.
func (s StructuredSummary) Clone() StructuredSummary {
	out := StructuredSummary{
		ExecutiveSummary: append([]string{}, s.ExecutiveSummary...),
		KeyPoints:        make([]Theme, len(s.KeyPoints)),
		NotableQuotes:    append([]string{}, s.NotableQuotes...),
	}
	for i, t := range s.KeyPoints {
		out.KeyPoints[i] = Theme{Label: t.Label, Points: append([]string{}, t.Points...)}
	}
	return out
}

package merger

import (
	"strings"
	"unicode"

	"github.com/nguyentantai21042004/tube-digest/internal/summary"
)

var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "of": true,
	"for": true, "to": true, "in": true, "on": true, "with": true, "about": true,
	"its": true, "their": true, "his": true, "her": true, "vs": true, "by": true,
}

type group struct {
	theme  summary.Theme
	labels [][]string
	seen   map[string]bool
}

// MergeThemes folds the key point groups of every partial, in chunk order,
// into one list. A theme joins the most similar existing group when
// ThemeSimilarity(label, member) >= threshold for any label already in that
// group; otherwise it starts a new group. Groups keep the first label seen and
// their bullets keep source order with exact duplicates dropped.
func MergeThemes(partials []Partial, threshold float64) []summary.Theme {
	var groups []*group

	for _, p := range partials {
		for _, t := range p.Summary.KeyPoints {
			tokens := labelTokens(t.Label)

			var target *group
			best := 0.0
			for _, g := range groups {
				for _, other := range g.labels {
					if s := tokenSimilarity(tokens, other); s >= threshold && s > best {
						best = s
						target = g
					}
				}
			}

			if target == nil {
				target = &group{
					theme: summary.Theme{Label: t.Label, Points: []string{}},
					seen:  make(map[string]bool),
				}
				groups = append(groups, target)
			}
			target.labels = append(target.labels, tokens)
			for _, pt := range t.Points {
				if target.seen[pt] {
					continue
				}
				target.seen[pt] = true
				target.theme.Points = append(target.theme.Points, pt)
			}
		}
	}

	out := make([]summary.Theme, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.theme)
	}
	return out
}

// ThemeSimilarity scores two theme labels in [0, 1]: 1 when the normalized
// token set of one contains the other's, otherwise the Jaccard index of the
// two sets.
func ThemeSimilarity(a, b string) float64 {
	return tokenSimilarity(labelTokens(a), labelTokens(b))
}

func tokenSimilarity(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := make(map[string]bool, len(a))
	for _, t := range a {
		setA[t] = true
	}
	setB := make(map[string]bool, len(b))
	for _, t := range b {
		setB[t] = true
	}

	inter := 0
	for t := range setA {
		if setB[t] {
			inter++
		}
	}
	if inter == len(setA) || inter == len(setB) {
		return 1
	}
	union := len(setA) + len(setB) - inter
	return float64(inter) / float64(union)
}

// labelTokens lowercases a label, splits it on anything that is not a letter
// or digit, drops stopwords and trims a plural "s".
func labelTokens(label string) []string {
	fields := strings.FieldsFunc(strings.ToLower(label), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if stopwords[f] {
			continue
		}
		switch {
		case len(f) > 4 && strings.HasSuffix(f, "ies"):
			f = strings.TrimSuffix(f, "ies") + "y"
		case len(f) > 3 && strings.HasSuffix(f, "s") && !strings.HasSuffix(f, "ss"):
			f = strings.TrimSuffix(f, "s")
		}
		tokens = append(tokens, f)
	}
	if len(tokens) == 0 {
		// A label made only of stopwords still has to match itself.
		tokens = fields
	}
	return tokens
}

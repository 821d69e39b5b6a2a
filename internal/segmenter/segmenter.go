package segmenter

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nguyentantai21042004/tube-digest/internal/summary"
)

// Chunk is a contiguous slice of the transcript. Text starts with Overlap runes
// copied from the end of the previous chunk's body; Start and End are rune
// offsets of the body within the transcript.
type Chunk struct {
	Index   int
	Text    string
	Start   int
	End     int
	Overlap int
}

// Len returns the chunk length in runes, overlap included.
func (c Chunk) Len() int {
	return utf8.RuneCountInString(c.Text)
}

// Context returns the overlap prefix repeated from the previous chunk.
func (c Chunk) Context() string {
	return c.Text[:c.overlapBytes()]
}

// Body returns the text this chunk owns, without the overlap prefix.
func (c Chunk) Body() string {
	return c.Text[c.overlapBytes():]
}

func (c Chunk) overlapBytes() int {
	off := 0
	for i := 0; i < c.Overlap && off < len(c.Text); i++ {
		_, w := utf8.DecodeRuneInString(c.Text[off:])
		off += w
	}
	return off
}

// Join concatenates chunk bodies, rebuilding the original transcript.
func Join(chunks []Chunk) string {
	var sb strings.Builder
	for _, c := range chunks {
		sb.WriteString(c.Body())
	}
	return sb.String()
}

type span struct{ start, end int }

func (s span) len() int { return s.end - s.start }

// Segment splits text into chunks of at most maxChunkChars runes. Text that
// already fits is returned as a single chunk.
func Segment(text string, maxChunkChars, overlapChars int) ([]Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &summary.InvalidInputError{Reason: "transcript is empty"}
	}
	if maxChunkChars <= 0 {
		return nil, &summary.InvalidInputError{Reason: "max chunk size must be positive"}
	}

	// offs[i] is the byte offset of rune i; offs[n] == len(text).
	runes := make([]rune, 0, len(text))
	offs := make([]int, 0, len(text)+1)
	for i, r := range text {
		runes = append(runes, r)
		offs = append(offs, i)
	}
	offs = append(offs, len(text))

	if len(runes) <= maxChunkChars {
		return []Chunk{{Index: 0, Text: text, Start: 0, End: len(runes)}}, nil
	}

	overlap := overlapChars
	if overlap < 0 {
		overlap = 0
	}
	if overlap > maxChunkChars/2 {
		overlap = maxChunkChars / 2
	}
	budget := maxChunkChars - overlap

	s := &splitter{runes: runes, budget: budget}
	bodies := pack(s.units(), budget)

	chunks := make([]Chunk, 0, len(bodies))
	for i, b := range bodies {
		from := b.start
		if i > 0 && overlap > 0 {
			from = s.overlapStart(bodies[i-1].start, b.start, overlap)
		}
		chunks = append(chunks, Chunk{
			Index:   i,
			Text:    text[offs[from]:offs[b.end]],
			Start:   b.start,
			End:     b.end,
			Overlap: b.start - from,
		})
	}
	return chunks, nil
}

// pack greedily joins contiguous units into bodies no longer than budget.
func pack(units []span, budget int) []span {
	var bodies []span
	cur := units[0]
	for _, u := range units[1:] {
		if u.end-cur.start <= budget {
			cur.end = u.end
			continue
		}
		bodies = append(bodies, cur)
		cur = u
	}
	return append(bodies, cur)
}

type level int

const (
	levelParagraph level = iota
	levelSentence
	levelWord
)

type splitter struct {
	runes  []rune
	budget int
}

// units cuts the transcript into contiguous spans that each fit the budget,
// preferring paragraph, then sentence, then word boundaries.
func (s *splitter) units() []span {
	var out []span
	for _, p := range s.splitAfter(span{0, len(s.runes)}, s.isParagraphBreak) {
		out = append(out, s.decompose(p, levelParagraph)...)
	}
	return out
}

func (s *splitter) decompose(sp span, lvl level) []span {
	if sp.len() <= s.budget {
		return []span{sp}
	}
	var parts []span
	switch lvl {
	case levelParagraph:
		for _, p := range s.splitAfter(sp, s.isSentenceBreak) {
			parts = append(parts, s.decompose(p, levelSentence)...)
		}
	case levelSentence:
		for _, p := range s.splitAfter(sp, func(int, int) bool { return true }) {
			parts = append(parts, s.decompose(p, levelWord)...)
		}
	default:
		// A single word longer than the budget: cut on rune boundaries.
		for from := sp.start; from < sp.end; from += s.budget {
			to := from + s.budget
			if to > sp.end {
				to = sp.end
			}
			parts = append(parts, span{from, to})
		}
	}
	return parts
}

// splitAfter cuts sp after every maximal whitespace run accepted by isBreak.
// The whitespace stays with the preceding span.
func (s *splitter) splitAfter(sp span, isBreak func(wsStart, wsEnd int) bool) []span {
	var out []span
	from := sp.start
	for i := sp.start; i < sp.end; {
		if !unicode.IsSpace(s.runes[i]) {
			i++
			continue
		}
		j := i
		for j < sp.end && unicode.IsSpace(s.runes[j]) {
			j++
		}
		if j < sp.end && i > from && isBreak(i, j) {
			out = append(out, span{from, j})
			from = j
		}
		i = j
	}
	return append(out, span{from, sp.end})
}

func (s *splitter) isParagraphBreak(wsStart, wsEnd int) bool {
	n := 0
	for _, r := range s.runes[wsStart:wsEnd] {
		if r == '\n' {
			n++
		}
	}
	return n >= 2
}

func (s *splitter) isSentenceBreak(wsStart, _ int) bool {
	k := wsStart - 1
	for k > 0 && strings.ContainsRune(`"'”’)]`, s.runes[k]) {
		k--
	}
	return strings.ContainsRune(".!?…", s.runes[k])
}

// overlapStart picks where the context prefix of a chunk begins: at most
// overlap runes back from bodyStart, never before the previous body, and never
// in the middle of a word.
func (s *splitter) overlapStart(prevStart, bodyStart, overlap int) int {
	from := bodyStart - overlap
	if from < prevStart {
		from = prevStart
	}
	if from > 0 && !unicode.IsSpace(s.runes[from-1]) {
		for from < bodyStart && !unicode.IsSpace(s.runes[from]) {
			from++
		}
	}
	for from < bodyStart && unicode.IsSpace(s.runes[from]) {
		from++
	}
	return from
}

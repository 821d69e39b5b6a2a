package segmenter

import (
	"fmt"
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/tube-digest/internal/summary"
)

// sentences builds a single-paragraph transcript of exactly n runes.
func sentences(n int) string {
	var sb strings.Builder
	for i := 0; sb.Len() < n; i++ {
		fmt.Fprintf(&sb, "Sentence %05d talks about the topic at hand. ", i)
	}
	return sb.String()[:n]
}

func paragraphs(count, size int) string {
	var sb strings.Builder
	for i := 0; i < count; i++ {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "Paragraph %d. ", i)
		for sb.Len() < (i+1)*(size+2) {
			sb.WriteString("word ")
		}
	}
	return sb.String()
}

func TestSegmentInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
	}{
		{"empty", "", 100},
		{"whitespace only", " \n\t  ", 100},
		{"non-positive max", "hello", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Segment(tt.text, tt.max, 0)
			var invalid *summary.InvalidInputError
			if !assert.ErrorAs(t, err, &invalid) {
				t.Logf("got %v", err)
			}
		})
	}
}

func TestSegmentSingleChunk(t *testing.T) {
	text := sentences(500)
	chunks, err := Segment(text, 500, 50)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0].Text)
	assert.Equal(t, 0, chunks[0].Overlap)
	assert.Equal(t, 0, chunks[0].Index)
}

func TestSegmentLongTranscriptScenario(t *testing.T) {
	text := sentences(90000)
	chunks, err := Segment(text, 20000, 500)
	require.NoError(t, err)

	assert.Len(t, chunks, 5)
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.LessOrEqual(t, c.Len(), 20000, "chunk %d too long", i)
		if i > 0 {
			assert.Greater(t, c.Overlap, 0, "chunk %d should carry context", i)
			assert.LessOrEqual(t, c.Overlap, 500)
			assert.Equal(t, chunks[i-1].End, c.Start)
			assert.True(t, strings.HasSuffix(chunks[i-1].Body(), c.Context()))
		}
	}
	assert.Equal(t, text, Join(chunks))
}

func TestSegmentDeterministic(t *testing.T) {
	text := paragraphs(40, 700)
	a, err := Segment(text, 3000, 200)
	require.NoError(t, err)
	b, err := Segment(text, 3000, 200)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSegmentPrefersParagraphBoundaries(t *testing.T) {
	text := paragraphs(10, 400)
	chunks, err := Segment(text, 1000, 0)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for _, c := range chunks[:len(chunks)-1] {
		assert.True(t, strings.HasSuffix(c.Body(), "\n\n"), "chunk %d should end on a paragraph break: %q", c.Index, c.Body()[len(c.Body())-10:])
	}
	assert.Equal(t, text, Join(chunks))
}

func TestSegmentNeverSplitsWords(t *testing.T) {
	// No punctuation, like auto-generated captions.
	text := strings.Repeat("alpha beta gamma delta epsilon ", 400)
	chunks, err := Segment(text, 997, 120)
	require.NoError(t, err)

	for _, c := range chunks {
		assert.LessOrEqual(t, c.Len(), 997)
		if c.Index < len(chunks)-1 {
			body := []rune(c.Body())
			assert.True(t, unicode.IsSpace(body[len(body)-1]), "chunk %d ends mid-word", c.Index)
		}
		if c.Overlap > 0 {
			assert.NotEqual(t, ' ', []rune(c.Context())[0], "context should start on a word")
			prev := chunks[c.Index-1].Body()
			before := []rune(prev[:len(prev)-len(c.Context())])
			assert.True(t, unicode.IsSpace(before[len(before)-1]), "context starts mid-word")
		}
	}
	assert.Equal(t, text, Join(chunks))
}

func TestSegmentHardSplitsOversizedWord(t *testing.T) {
	text := "intro " + strings.Repeat("x", 250) + " outro"
	chunks, err := Segment(text, 100, 10)
	require.NoError(t, err)
	for _, c := range chunks {
		assert.LessOrEqual(t, c.Len(), 100)
	}
	assert.Equal(t, text, Join(chunks))
}

func TestSegmentMultibyteText(t *testing.T) {
	text := strings.Repeat("Xin chào các bạn, hôm nay chúng ta học Go. ", 200)
	chunks, err := Segment(text, 800, 60)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, c.Len(), 800)
	}
	assert.Equal(t, text, Join(chunks))
}

func TestSegmentClampsOverlap(t *testing.T) {
	text := sentences(5000)
	chunks, err := Segment(text, 1000, 5000)
	require.NoError(t, err)
	for _, c := range chunks {
		assert.LessOrEqual(t, c.Len(), 1000)
		assert.LessOrEqual(t, c.Overlap, 500)
	}
	assert.Equal(t, text, Join(chunks))
}

package subtitle

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func makeWords(texts ...string) []Word {
	words := make([]Word, len(texts))
	for i, text := range texts {
		words[i] = Word{
			Start: time.Duration(i) * time.Second,
			End:   time.Duration(i+1) * time.Second,
			Text:  text,
		}
	}
	return words
}

func TestLayout_RespectsLineConstraints(t *testing.T) {
	words := makeWords(
		"the", "quick", "brown", "fox", "jumps", "over", "the", "lazy", "dog",
		"while", "another", "sentence", "keeps", "going", "on", "and", "on", "forever",
		"with", "even", "more", "words", "to", "wrap",
	)

	doc := Layout(words, "en")
	require.NotEmpty(t, doc.Segments)
	require.Equal(t, "en", doc.Language)

	for _, seg := range doc.Segments {
		lines := strings.Split(seg.Text, "\n")
		require.LessOrEqual(t, len(lines), maxLineCount)
		for _, line := range lines {
			require.LessOrEqual(t, len(line), maxLineWidth, "line %q", line)
			require.LessOrEqual(t, len(strings.Fields(line)), maxWordsPerLine)
		}
	}
}

func TestLayout_CueTimingSpansWords(t *testing.T) {
	words := makeWords("hello", "world")
	doc := Layout(words, "en")
	require.Len(t, doc.Segments, 1)
	require.Equal(t, time.Duration(0), doc.Segments[0].Start)
	require.Equal(t, 2*time.Second, doc.Segments[0].End)
	require.Equal(t, 1, doc.Segments[0].Index)
}

func TestLayout_SkipsEmptyWords(t *testing.T) {
	words := []Word{
		{Start: 0, End: time.Second, Text: " hello "},
		{Start: time.Second, End: 2 * time.Second, Text: "  "},
		{Start: 2 * time.Second, End: 3 * time.Second, Text: "world"},
	}
	doc := Layout(words, "en")
	require.Len(t, doc.Segments, 1)
	require.Equal(t, "hello world", doc.Segments[0].Text)
}

func TestLayout_NoWords(t *testing.T) {
	doc := Layout(nil, "en")
	require.Empty(t, doc.Segments)
}

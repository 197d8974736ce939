package subtitle

import "strings"

// Display constraints for synthesized cues.
const (
	maxLineCount    = 2
	maxLineWidth    = 38
	maxWordsPerLine = 9
)

// Layout folds word-level transcription timings into display cues: at
// most two lines per cue, at most 38 characters and 9 words per line.
// Cue timing spans from its first word's start to its last word's end.
func Layout(words []Word, language string) *Document {
	var segments []Segment

	var cueLines []string
	var cueStart, cueEnd Word
	var lineWords []string
	lineLen := 0

	flushLine := func() {
		if len(lineWords) == 0 {
			return
		}
		cueLines = append(cueLines, strings.Join(lineWords, " "))
		lineWords = nil
		lineLen = 0
	}

	flushCue := func() {
		flushLine()
		if len(cueLines) == 0 {
			return
		}
		segments = append(segments, Segment{
			Index: len(segments) + 1,
			Start: cueStart.Start,
			End:   cueEnd.End,
			Text:  strings.Join(cueLines, "\n"),
		})
		cueLines = nil
	}

	for _, word := range words {
		text := strings.TrimSpace(word.Text)
		if text == "" {
			continue
		}

		needed := len(text)
		if lineLen > 0 {
			needed += lineLen + 1 // joining space
		}

		if len(lineWords) >= maxWordsPerLine || needed > maxLineWidth {
			flushLine()
			if len(cueLines) >= maxLineCount {
				flushCue()
			}
		}

		if len(lineWords) == 0 && len(cueLines) == 0 {
			cueStart = word
		}
		lineWords = append(lineWords, text)
		if lineLen > 0 {
			lineLen++
		}
		lineLen += len(text)
		cueEnd = word
	}

	flushCue()

	return &Document{
		Segments: segments,
		Language: language,
	}
}

package subtitle

import (
	"fmt"
	"strings"
	"time"
)

// Segment is one timestamped unit of transcript text. Order inside a
// Document is significant and survives every transform.
type Segment struct {
	Index int           // 1-based subtitle index
	Start time.Duration // start time
	End   time.Duration // end time
	Text  string        // segment text
}

// Document is an ordered sequence of segments plus a language tag.
type Document struct {
	Segments []Segment
	Language string // ISO 639-1 code, may be empty until detected
}

// Word carries word-level timing from the transcription engine,
// used as layout input.
type Word struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// Texts returns every segment's text in order, leading whitespace
// stripped, ready for batch translation.
func (d *Document) Texts() []string {
	texts := make([]string, 0, len(d.Segments))
	for _, seg := range d.Segments {
		texts = append(texts, strings.TrimLeft(seg.Text, " \t"))
	}
	return texts
}

// WithTexts returns a copy of the document with every segment's text
// replaced positionally. A count mismatch is an error, never a silent
// truncation.
func (d *Document) WithTexts(texts []string, language string) (*Document, error) {
	if len(texts) != len(d.Segments) {
		return nil, fmt.Errorf("text count mismatch: document has %d segments, got %d texts", len(d.Segments), len(texts))
	}

	segments := make([]Segment, len(d.Segments))
	copy(segments, d.Segments)
	for i := range segments {
		segments[i].Text = texts[i]
	}

	return &Document{
		Segments: segments,
		Language: language,
	}, nil
}

// FullText returns the whole transcript as one space-joined string.
func (d *Document) FullText() string {
	parts := make([]string, 0, len(d.Segments))
	for _, seg := range d.Segments {
		parts = append(parts, strings.TrimSpace(seg.Text))
	}
	return strings.Join(parts, " ")
}

package transcribe

import "context"

// Word is one word with its timing, in seconds.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Segment is one transcript segment with word-level timing.
type Segment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
	Words []Word  `json:"words"`
}

// Result is the output of one transcription call.
type Result struct {
	Language string    `json:"language"`
	Text     string    `json:"text"`
	Segments []Segment `json:"segments"`
}

// Transcriber converts a video's audio into timestamped text. The
// language hint may be empty, in which case the engine detects the
// spoken language itself.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, languageHint string) (*Result, error)
}

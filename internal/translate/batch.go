package translate

import (
	"context"
	"fmt"
)

// maxChunkSize bounds one collaborator call, matching the backend's
// request-size limit.
const maxChunkSize = 150

// Batch splits an ordered list of texts into bounded chunks, issues
// one collaborator call per chunk in sequence, and reassembles the
// full ordered translation. Any chunk failure fails the whole batch;
// partial translations are discarded, never returned.
type Batch struct {
	translator Translator
	chunkSize  int
}

// NewBatch wraps a translator with chunking. A non-positive chunkSize
// falls back to the backend limit.
func NewBatch(translator Translator, chunkSize int) *Batch {
	if chunkSize <= 0 {
		chunkSize = maxChunkSize
	}
	return &Batch{
		translator: translator,
		chunkSize:  chunkSize,
	}
}

// Translate implements Translator over the wrapped collaborator.
func (b *Batch) Translate(ctx context.Context, texts []string, sourceLang, targetLang string) ([]string, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("nothing to translate")
	}

	results := make([]string, 0, len(texts))

	for start := 0; start < len(texts); start += b.chunkSize {
		end := min(start+b.chunkSize, len(texts))
		chunk := texts[start:end]

		translated, err := b.translator.Translate(ctx, chunk, sourceLang, targetLang)
		if err != nil {
			return nil, fmt.Errorf("translation failed for segments %d-%d: %w", start+1, end, err)
		}
		if len(translated) != len(chunk) {
			return nil, fmt.Errorf("translation count mismatch for segments %d-%d: sent %d, got %d",
				start+1, end, len(chunk), len(translated))
		}

		results = append(results, translated...)
	}

	return results, nil
}

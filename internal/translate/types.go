package translate

import (
	"context"
	"errors"
)

// ErrInvalidCredential marks the one failure with run-wide blast
// radius: the translation backend rejected the API key. Every job in
// flight is doomed once this surfaces anywhere.
var ErrInvalidCredential = errors.New("API key not valid")

// Translator converts an ordered list of texts from one language to
// another. Implementations must return exactly one output per input,
// in order, or an error.
type Translator interface {
	Translate(ctx context.Context, texts []string, sourceLang, targetLang string) ([]string, error)
}

// IsCredentialError reports whether err stems from an invalid API key.
func IsCredentialError(err error) bool {
	return errors.Is(err, ErrInvalidCredential)
}

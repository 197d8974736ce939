package config

import (
	"fmt"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// supportedLanguages lists the ISO 639-1 codes the translation backend
// is known to handle well.
var supportedLanguages = map[string]bool{
	"en": true, "es": true, "pt": true, "fr": true, "de": true,
	"zh": true, "ar": true, "ru": true, "hi": true, "ja": true,
	"ko": true, "it": true, "tr": true, "vi": true, "nl": true,
	"tl": true, "he": true, "pl": true, "sv": true, "id": true,
}

// IsSupportedLanguage reports whether code is a usable language code.
func IsSupportedLanguage(code string) bool {
	return supportedLanguages[code]
}

// SupportedLanguages returns the supported codes in sorted order.
func SupportedLanguages() []string {
	codes := make([]string, 0, len(supportedLanguages))
	for code := range supportedLanguages {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// LanguageName resolves a language code to its English display name,
// e.g. "es" -> "Spanish". Used for translation prompts and subtitle
// track titles.
func LanguageName(code string) (string, error) {
	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("invalid language code %q: %w", code, err)
	}
	return display.English.Languages().Name(tag), nil
}

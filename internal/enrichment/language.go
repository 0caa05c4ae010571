package enrichment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pemistahl/lingua-go"
)

// ErrTooFewLanguages is returned when fewer than two distinct languages
// are configured for detection.
var ErrTooFewLanguages = errors.New("language detection needs at least two languages")

// minDetectableLength is the shortest text handed to the detector.
const minDetectableLength = 12

// LanguageDetector identifies the language of a description among a
// configured set. It is safe for concurrent use.
type LanguageDetector struct {
	detector lingua.LanguageDetector
}

// NewLanguageDetector builds a detector for the given ISO 639-1 codes
// (case-insensitive), e.g. "en", "fr".
func NewLanguageDetector(codes []string) (*LanguageDetector, error) {
	byCode := make(map[string]lingua.Language)
	for _, lang := range lingua.AllLanguages() {
		byCode[strings.ToLower(lang.IsoCode639_1().String())] = lang
	}

	var languages []lingua.Language
	seen := make(map[lingua.Language]struct{})
	for _, code := range codes {
		lang, ok := byCode[strings.ToLower(strings.TrimSpace(code))]
		if !ok {
			return nil, fmt.Errorf("unsupported language code %q", code)
		}
		if _, dup := seen[lang]; dup {
			continue
		}
		seen[lang] = struct{}{}
		languages = append(languages, lang)
	}
	if len(languages) < 2 {
		return nil, ErrTooFewLanguages
	}

	return &LanguageDetector{
		detector: lingua.NewLanguageDetectorBuilder().FromLanguages(languages...).Build(),
	}, nil
}

// Detect returns the lowercase ISO 639-1 code of text, or "" when the text
// is too short or no language is reliable.
func (d *LanguageDetector) Detect(text string) string {
	if d == nil || len(strings.TrimSpace(text)) < minDetectableLength {
		return ""
	}
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}

package ingest

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// DefaultLanguages are the candidates used when none are given.
var DefaultLanguages = []lingua.Language{
	lingua.Japanese,
	lingua.English,
	lingua.Chinese,
	lingua.Korean,
}

// LanguageDetector guesses the language of page text.
type LanguageDetector struct {
	detector lingua.LanguageDetector
}

// NewLanguageDetector builds a detector over the candidate languages; at
// least two are required, otherwise DefaultLanguages is used.
func NewLanguageDetector(languages ...lingua.Language) *LanguageDetector {
	if len(languages) < 2 {
		languages = DefaultLanguages
	}
	d := lingua.NewLanguageDetectorBuilder().
		FromLanguages(languages...).
		Build()
	return &LanguageDetector{detector: d}
}

// Detect returns the lower-case ISO 639-1 code of the most likely language.
func (d *LanguageDetector) Detect(text string) (string, bool) {
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}

package ingest

import (
	"unicode/utf8"

	"github.com/cognicore/seoscope/pkg/seoscope/stoplist"
)

// Tokenizer turns text into normalized base-form tokens, dropping stopwords
// and single-character tokens. It holds no mutable state.
type Tokenizer struct {
	seg   Segmenter
	stops *stoplist.Set
}

// NewTokenizer creates a tokenizer over the given segmenter and stop set.
// A nil stop set filters nothing but single characters.
func NewTokenizer(seg Segmenter, stops *stoplist.Set) *Tokenizer {
	if stops == nil {
		stops = stoplist.New(nil)
	}
	return &Tokenizer{seg: seg, stops: stops}
}

// Tokenize returns the retained tokens of text in order.
func (t *Tokenizer) Tokenize(text string) []string {
	morphemes := t.seg.Segment(text)
	tokens := make([]string, 0, len(morphemes))
	for _, m := range morphemes {
		if t.keep(m) {
			tokens = append(tokens, m)
		}
	}
	return tokens
}

// keep applies the stopword and length filters to a base form.
func (t *Tokenizer) keep(base string) bool {
	if t.stops.IsStop(base) {
		return false
	}
	return utf8.RuneCountInString(base) > 1
}

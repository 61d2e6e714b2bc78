// Package sentiment scores the polarity of page text.
package sentiment

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// ErrScoring is returned for text a scorer cannot handle.
var ErrScoring = errors.New("sentiment scoring failed")

//go:embed ja.yaml
var defaultJapanese []byte

// Scorer returns a polarity roughly in [-1, 1].
type Scorer interface {
	Score(text string) (float64, error)
}

// ScorerFunc adapts a function to Scorer.
type ScorerFunc func(text string) (float64, error)

func (f ScorerFunc) Score(text string) (float64, error) { return f(text) }

// Tokenizer is the subset of ingest.Tokenizer the lexicon scorer needs.
type Tokenizer interface {
	Tokenize(text string) []string
}

// Lexicon maps base-form tokens to polarity.
type Lexicon map[string]float64

// ParseLexicon decodes a document of the form `polarity: {token: score}`.
// Scores outside [-1, 1] are rejected.
func ParseLexicon(data []byte) (Lexicon, error) {
	var doc struct {
		Polarity map[string]float64 `yaml:"polarity"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	lex := make(Lexicon, len(doc.Polarity))
	for tok, score := range doc.Polarity {
		if score < -1 || score > 1 {
			return nil, fmt.Errorf("polarity for %q out of range: %v", tok, score)
		}
		lex[tok] = score
	}
	return lex, nil
}

// Japanese returns the built-in Japanese polarity lexicon.
func Japanese() (Lexicon, error) {
	return ParseLexicon(defaultJapanese)
}

// LexiconScorer averages the polarity of the lexicon tokens found in a text.
type LexiconScorer struct {
	tok Tokenizer
	lex Lexicon
}

// NewLexiconScorer creates a scorer tokenizing with tok.
func NewLexiconScorer(tok Tokenizer, lex Lexicon) *LexiconScorer {
	return &LexiconScorer{tok: tok, lex: lex}
}

// Score returns the mean polarity of matched tokens, 0 when nothing matches.
func (s *LexiconScorer) Score(text string) (float64, error) {
	if !utf8.ValidString(text) {
		return 0, fmt.Errorf("%w: invalid UTF-8", ErrScoring)
	}
	if strings.TrimSpace(text) == "" {
		return 0, fmt.Errorf("%w: blank text", ErrScoring)
	}

	var sum float64
	var n int
	for _, tok := range s.tok.Tokenize(text) {
		if p, ok := s.lex[tok]; ok {
			sum += p
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return clamp(sum / float64(n)), nil
}

func clamp(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	}
	return v
}

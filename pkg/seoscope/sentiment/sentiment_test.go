package sentiment

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fieldsTokenizer struct{}

func (fieldsTokenizer) Tokenize(text string) []string { return strings.Fields(text) }

func TestLexiconScorer(t *testing.T) {
	s := NewLexiconScorer(fieldsTokenizer{}, Lexicon{"good": 0.8, "bad": -0.4})

	got, err := s.Score("good good bad neutral")
	require.NoError(t, err)
	assert.InDelta(t, (0.8+0.8-0.4)/3, got, 1e-9)

	got, err = s.Score("nothing matches here")
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestLexiconScorerErrors(t *testing.T) {
	s := NewLexiconScorer(fieldsTokenizer{}, Lexicon{})

	_, err := s.Score("   ")
	assert.True(t, errors.Is(err, ErrScoring))

	_, err = s.Score(string([]byte{0xff, 0xfe}))
	assert.True(t, errors.Is(err, ErrScoring))
}

func TestParseLexicon(t *testing.T) {
	lex, err := ParseLexicon([]byte("polarity:\n  great: 0.9\n  awful: -1\n"))
	require.NoError(t, err)
	assert.Equal(t, Lexicon{"great": 0.9, "awful": -1}, lex)

	_, err = ParseLexicon([]byte("polarity:\n  huge: 3\n"))
	assert.Error(t, err)
}

func TestJapaneseLexicon(t *testing.T) {
	lex, err := Japanese()
	require.NoError(t, err)
	assert.Positive(t, lex["便利"])
	assert.Negative(t, lex["不便"])
}

func TestScorerFunc(t *testing.T) {
	f := ScorerFunc(func(string) (float64, error) { return 0.5, nil })
	got, err := f.Score("x")
	require.NoError(t, err)
	assert.Equal(t, 0.5, got)
}

package config

import (
	"fmt"

	"github.com/cognicore/seoscope/pkg/seoscope/ingest"
	"github.com/cognicore/seoscope/pkg/seoscope/internalerr"
	"github.com/cognicore/seoscope/pkg/seoscope/sentiment"
	"github.com/cognicore/seoscope/pkg/seoscope/stoplist"
)

// Loader loads the data files and constructs components. Empty paths fall
// back to the embedded Japanese defaults.
type Loader struct {
	StoplistPath string
	LexiconPath  string
	// Segmenter names the segmenter: "kagome" (default) or "unicode".
	Segmenter string
}

// Components holds all loaded configuration components
type Components struct {
	Stoplist  *stoplist.Set
	Tokenizer *ingest.Tokenizer
	Scorer    sentiment.Scorer
}

// Load reads all configuration files and returns initialized components
func (l *Loader) Load() (*Components, error) {
	comp := &Components{}

	// Load stoplist
	if l.StoplistPath != "" {
		sl, err := LoadStoplist(l.StoplistPath)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		comp.Stoplist = stoplist.New(sl.Terms)
	} else {
		stops, err := stoplist.Japanese()
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		comp.Stoplist = stops
	}

	seg, err := ingest.NewSegmenter(l.Segmenter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	comp.Tokenizer = ingest.NewTokenizer(seg, comp.Stoplist)

	// Load polarity lexicon
	var lex sentiment.Lexicon
	if l.LexiconPath != "" {
		lex, err = LoadLexicon(l.LexiconPath)
	} else {
		lex, err = sentiment.Japanese()
	}
	if err != nil {
		return nil, fmt.Errorf("load lexicon: %w", err)
	}
	comp.Scorer = sentiment.NewLexiconScorer(comp.Tokenizer, lex)

	return comp, nil
}

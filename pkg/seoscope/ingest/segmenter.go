package ingest

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Segmenter splits text into base-form morphemes. Filtering is left to the
// Tokenizer, so a Segmenter returns every morpheme including whitespace runs.
type Segmenter interface {
	Segment(text string) []string
}

// KagomeSegmenter performs Japanese morphological analysis with the IPA
// dictionary. It is safe for concurrent use.
type KagomeSegmenter struct {
	t *tokenizer.Tokenizer
}

// NewKagomeSegmenter loads the IPA dictionary. This takes a moment; build one
// segmenter per process.
func NewKagomeSegmenter() (*KagomeSegmenter, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("kagome tokenizer: %w", err)
	}
	return &KagomeSegmenter{t: t}, nil
}

// Segment returns the dictionary form of each morpheme. Unknown words have no
// dictionary form and keep their surface.
func (k *KagomeSegmenter) Segment(text string) []string {
	if text == "" {
		return nil
	}
	toks := k.t.Tokenize(text)
	out := make([]string, 0, len(toks))
	for _, tok := range toks {
		base, ok := tok.BaseForm()
		if !ok || base == "" || base == "*" {
			base = tok.Surface
		}
		out = append(out, base)
	}
	return out
}

// UnicodeSegmenter splits on anything that is not a letter, digit or hyphen
// and lower-cases the pieces. Suited to space-delimited scripts.
type UnicodeSegmenter struct{}

func (UnicodeSegmenter) Segment(text string) []string {
	var out []string
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		if word := cleanToken(current.String()); word != "" {
			out = append(out, word)
		}
		current.Reset()
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' {
			current.WriteRune(unicode.ToLower(r))
			continue
		}
		flush()
	}
	flush()

	return out
}

// cleanToken strips leading/trailing hyphens and collapses repeated ones.
func cleanToken(token string) string {
	token = strings.Trim(token, "-")
	for strings.Contains(token, "--") {
		token = strings.ReplaceAll(token, "--", "-")
	}
	return token
}

// NewSegmenter returns the segmenter registered under name.
func NewSegmenter(name string) (Segmenter, error) {
	switch name {
	case "", "kagome":
		return NewKagomeSegmenter()
	case "unicode":
		return UnicodeSegmenter{}, nil
	default:
		return nil, fmt.Errorf("unknown segmenter %q", name)
	}
}

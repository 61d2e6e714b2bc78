package stoplist

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed ja.yaml
var defaultJapanese []byte

// Noise lists whitespace runs and particles the segmenter emits as tokens of
// their own. They are part of every stop set regardless of language list.
var Noise = []string{
	"の", "に", "は", "を", "た", "が", "で", "て", "と", "し", "れ", "さ",
	"ある", "いる", "も", "など", "な", "ので", "から", "まで", "より", "です",
	" ", "\n", " \n", "\n \n", "  ",
}

// Set is an immutable stopword set. Build it once at startup and share it.
type Set struct {
	stops map[string]struct{}
}

// New creates a set holding terms plus Noise.
func New(terms []string) *Set {
	stops := make(map[string]struct{}, len(terms)+len(Noise))
	for _, s := range terms {
		stops[s] = struct{}{}
	}
	for _, s := range Noise {
		stops[s] = struct{}{}
	}
	return &Set{stops: stops}
}

// Japanese returns the built-in Japanese set.
func Japanese() (*Set, error) {
	terms, err := Parse(defaultJapanese)
	if err != nil {
		return nil, fmt.Errorf("parse embedded stoplist: %w", err)
	}
	return New(terms), nil
}

// Parse decodes a stoplist document of the form `terms: [...]`.
func Parse(data []byte) ([]string, error) {
	var doc struct {
		Terms []string `yaml:"terms"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Terms, nil
}

// IsStop reports whether token is in the set.
func (s *Set) IsStop(token string) bool {
	_, ok := s.stops[token]
	return ok
}

// Len returns the number of distinct stopwords.
func (s *Set) Len() int {
	return len(s.stops)
}
